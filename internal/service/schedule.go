package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hvac_control/internal/models"
	"hvac_control/internal/repository"

	"github.com/google/uuid"
)

var ErrBadClock = errors.New("invalid time: must be HH:MM")

const clockLayout = "15:04"

type ScheduleService struct {
	scheduleRepo repository.ScheduleRepo
	eventRepo    repository.EventRepo
}

func NewScheduleService(scheduleRepo repository.ScheduleRepo, eventRepo repository.EventRepo) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo, eventRepo: eventRepo}
}

// Get returns the stored schedule, or the factory default when nothing
// was ever saved.
func (s *ScheduleService) Get(ctx context.Context) (models.Schedule, error) {
	sched, found, err := s.scheduleRepo.Load(ctx)
	if err != nil {
		return models.Schedule{}, err
	}
	if !found {
		return models.DefaultSchedule(), nil
	}
	return sched, nil
}

// Update applies a partial edit, persists it, and records the change in
// the audit log.
func (s *ScheduleService) Update(ctx context.Context, u ScheduleUpdate) (models.Schedule, error) {
	if u.Enabled == nil && u.StartTime == nil && u.EndTime == nil {
		return models.Schedule{}, ErrEmptyUpdate
	}

	sched, err := s.Get(ctx)
	if err != nil {
		return models.Schedule{}, err
	}

	if u.Enabled != nil {
		sched.Enabled = *u.Enabled
	}
	if u.StartTime != nil {
		if _, err := time.Parse(clockLayout, *u.StartTime); err != nil {
			return models.Schedule{}, fmt.Errorf("start_time: %w", ErrBadClock)
		}
		sched.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		if _, err := time.Parse(clockLayout, *u.EndTime); err != nil {
			return models.Schedule{}, fmt.Errorf("end_time: %w", ErrBadClock)
		}
		sched.EndTime = *u.EndTime
	}
	sched.UpdatedAt = time.Now().UTC()

	if err := s.scheduleRepo.Save(ctx, sched); err != nil {
		return models.Schedule{}, err
	}

	err = s.eventRepo.Append(ctx, models.Event{
		EventID:     uuid.NewString(),
		OccurredAt:  sched.UpdatedAt,
		Type:        models.EventScheduleUpdate,
		Description: "Schedule updated",
		Metadata: map[string]any{
			"enabled":    sched.Enabled,
			"start_time": sched.StartTime,
			"end_time":   sched.EndTime,
		},
	})
	return sched, err
}

// Status evaluates the schedule at the given wall-clock time. The
// window is inclusive of the start minute and exclusive of the end
// minute; a start after the end wraps past midnight.
func (s *ScheduleService) Status(ctx context.Context, now time.Time) (models.ScheduleStatus, error) {
	sched, err := s.Get(ctx)
	if err != nil {
		return models.ScheduleStatus{}, err
	}

	st := models.ScheduleStatus{
		ScheduleActive: sched.Enabled,
		CurrentTime:    now.Format(clockLayout),
		StartTime:      sched.StartTime,
		EndTime:        sched.EndTime,
	}
	if !sched.Enabled {
		st.Message = "schedule disabled"
		return st, nil
	}

	start, err := clockMinutes(sched.StartTime)
	if err != nil {
		return models.ScheduleStatus{}, fmt.Errorf("stored start_time: %w", err)
	}
	end, err := clockMinutes(sched.EndTime)
	if err != nil {
		return models.ScheduleStatus{}, fmt.Errorf("stored end_time: %w", err)
	}
	cur := now.Hour()*60 + now.Minute()

	var on bool
	if start > end {
		// overnight window, e.g. 23:00-05:00
		on = cur >= start || cur < end
	} else {
		on = cur >= start && cur < end
	}
	st.ShouldBeOn = &on
	if on {
		st.Message = "within scheduled window"
	} else {
		st.Message = "outside scheduled window"
	}
	return st, nil
}

func clockMinutes(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, ErrBadClock
	}
	return t.Hour()*60 + t.Minute(), nil
}
