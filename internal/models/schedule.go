package models

import "time"

// Schedule is the nightly on/off window managed from the web UI.
// Times are "HH:MM" in the server's local time. A start after the end
// means the on-window wraps past midnight (e.g. 23:00–05:00).
type Schedule struct {
	Enabled   bool      `json:"enabled"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSchedule mirrors the factory configuration: disabled overnight
// window.
func DefaultSchedule() Schedule {
	return Schedule{
		Enabled:   false,
		StartTime: "23:00",
		EndTime:   "05:00",
	}
}

// ScheduleStatus is the evaluation the hub polls for.
type ScheduleStatus struct {
	ScheduleActive bool   `json:"schedule_active"`
	ShouldBeOn     *bool  `json:"should_be_on"` // nil when the schedule is disabled
	CurrentTime    string `json:"current_time,omitempty"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Reading is one stored telemetry sample.
type Reading struct {
	ID          string    `json:"id"`
	RecordedAt  time.Time `json:"recorded_at"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
}
