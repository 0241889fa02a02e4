package service

import (
	"time"

	"hvac_control/internal/models"
)

// ScheduleUpdate is a partial edit of the stored schedule. Nil fields
// keep their current value.
type ScheduleUpdate struct {
	Enabled   *bool
	StartTime *string // "HH:MM"
	EndTime   *string // "HH:MM"
}

// CurrentState is the combined snapshot served to web readers. Known is
// false until the hub's first push arrives.
type CurrentState struct {
	Room      models.RoomConditions
	RoomAt    time.Time
	HVAC      models.Settings
	Source    models.Origin
	UpdatedAt time.Time
	Known     bool
}

// LogFilter supports audit log filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "SETTINGS_UPDATE", "SCHEDULE_UPDATE", "TELEMETRY"
}
