package repository

import (
	"context"
	"database/sql"
	"time"

	"hvac_control/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type ReadingRepo interface {
	Append(ctx context.Context, r models.Reading) error
	List(ctx context.Context, limit int) ([]models.Reading, error)
}

type ScheduleRepo interface {
	Save(ctx context.Context, s models.Schedule) error
	Load(ctx context.Context) (models.Schedule, bool, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.Event) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.Event, error)
}

type Repository struct {
	ReadingRepo  ReadingRepo
	ScheduleRepo ScheduleRepo
	EventRepo    EventRepo
	Auth         Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ReadingRepo:  NewReadingSQLite(db),
		ScheduleRepo: NewScheduleSQLite(db),
		EventRepo:    NewEventSQLite(db),
		Auth:         NewUserRepository(db),
	}
}
