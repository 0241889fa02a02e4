package service

import (
	"context"
	"time"

	"hvac_control/internal/models"
	"hvac_control/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Control owns the coordination state between the hub and the web UI:
// the latest pushed snapshot, the pending command, and its provenance.
type Control interface {
	Ingest(ctx context.Context, room models.RoomConditions, s models.Settings) error
	WebUpdate(ctx context.Context, p models.SettingsPatch) (models.Settings, error)
	Command(ctx context.Context) (models.Settings, models.Origin, bool)
	Current(ctx context.Context) CurrentState
}

// Schedule exposes the stored on/off window and the computed status the
// hub polls.
type Schedule interface {
	Get(ctx context.Context) (models.Schedule, error)
	Update(ctx context.Context, u ScheduleUpdate) (models.Schedule, error)
	Status(ctx context.Context, now time.Time) (models.ScheduleStatus, error)
}

// History exposes stored sensor readings, newest first.
type History interface {
	List(ctx context.Context, limit int) ([]models.Reading, error)
}

// EventLog exposes append-only audit logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Event, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Control
	Schedule
	History
	EventLog
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, signingKey string) *Service {
	return &Service{
		Control:       NewControlService(repos.ReadingRepo, repos.EventRepo),
		Schedule:      NewScheduleService(repos.ScheduleRepo, repos.EventRepo),
		History:       NewHistoryService(repos.ReadingRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, signingKey),
	}
}
