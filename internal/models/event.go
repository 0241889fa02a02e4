package models

import "time"

// Audit event types recorded by the coordination service.
const (
	EventSettingsUpdate = "SETTINGS_UPDATE"
	EventScheduleUpdate = "SCHEDULE_UPDATE"
	EventTelemetry      = "TELEMETRY"
)

// Event is a single audit log entry.
type Event struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // SETTINGS_UPDATE | SCHEDULE_UPDATE | TELEMETRY
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
