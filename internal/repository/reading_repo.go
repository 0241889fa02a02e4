package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"hvac_control/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

const (
	insertReadingSQL = `
		INSERT INTO readings (id, recorded_at, temperature, humidity)
		VALUES (?, ?, ?, ?)
	`

	selectReadingsSQL = `
		SELECT id, recorded_at, temperature, humidity
		FROM readings ORDER BY recorded_at DESC LIMIT ?
	`
)

// Append inserts a new reading. If ID or RecordedAt are empty, they’re set.
func (r *ReadingSQLite) Append(ctx context.Context, rd models.Reading) error {
	if rd.ID == "" {
		rd.ID = uuid.NewString()
	}
	if rd.RecordedAt.IsZero() {
		rd.RecordedAt = time.Now().UTC()
	} else {
		rd.RecordedAt = rd.RecordedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		rd.ID,
		rd.RecordedAt.Format("2006-01-02 15:04:05"),
		rd.Temperature,
		rd.Humidity,
	)
	return err
}

// List returns the most recent readings, newest first.
func (r *ReadingSQLite) List(ctx context.Context, limit int) ([]models.Reading, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, selectReadingsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Reading, 0, limit)
	for rows.Next() {
		var rd models.Reading
		if err := rows.Scan(&rd.ID, &rd.RecordedAt, &rd.Temperature, &rd.Humidity); err != nil {
			return nil, err
		}
		rd.RecordedAt = rd.RecordedAt.UTC()
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
