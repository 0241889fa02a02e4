package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hvac_control/internal/models"
)

type ScheduleSQLite struct {
	db *sql.DB
}

func NewScheduleSQLite(db *sql.DB) *ScheduleSQLite {
	return &ScheduleSQLite{db: db}
}

// constants and helpers for clarity and reuse
const (
	scheduleRowID = 1

	insertOrUpdateScheduleSQL = `
		INSERT INTO schedule (id, enabled, start_time, end_time, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			enabled=excluded.enabled,
			start_time=excluded.start_time,
			end_time=excluded.end_time,
			updated_at=excluded.updated_at
	`

	selectScheduleSQL = `
		SELECT enabled, start_time, end_time, updated_at
		FROM schedule WHERE id=?
	`
)

// Save updates or inserts the schedule row (id always 1).
func (r *ScheduleSQLite) Save(ctx context.Context, s models.Schedule) error {
	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := s.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateScheduleSQL,
		scheduleRowID,
		s.Enabled,
		s.StartTime,
		s.EndTime,
		tsUTC,
	)
	return err
}

// Load fetches the single schedule row (id=1). The second return is
// false when no row has ever been saved.
func (r *ScheduleSQLite) Load(ctx context.Context) (models.Schedule, bool, error) {
	row := r.db.QueryRowContext(ctx, selectScheduleSQL, scheduleRowID)

	var s models.Schedule
	if err := row.Scan(&s.Enabled, &s.StartTime, &s.EndTime, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Schedule{}, false, nil // no schedule yet
		}
		return models.Schedule{}, false, err
	}
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, true, nil
}
