package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hvac_control/internal/models"
	"hvac_control/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrTempOutOfRange  = fmt.Errorf("set_temp out of range: must be %d..%d", models.MinSetTemp, models.MaxSetTemp)
	ErrTimerOutOfRange = fmt.Errorf("timer out of range: must be %d..%d", models.MinTimer, models.MaxTimer)
	ErrEmptyUpdate     = errors.New("update carries no fields")
)

// ControlService keeps the coordination state in memory, the same way
// the hub keeps its settings-of-record. Only sensor readings and audit
// events are persisted; a restart simply waits for the hub's next push.
//
// Unlike the device loops, handlers run concurrently, so access is
// guarded by a mutex.
type ControlService struct {
	readingRepo repository.ReadingRepo
	eventRepo   repository.EventRepo

	mu        sync.RWMutex
	settings  models.Settings
	source    models.Origin
	known     bool
	updatedAt time.Time

	room      models.RoomConditions
	roomAt    time.Time
	roomKnown bool
}

func NewControlService(readingRepo repository.ReadingRepo, eventRepo repository.EventRepo) *ControlService {
	return &ControlService{
		readingRepo: readingRepo,
		eventRepo:   eventRepo,
		settings:    models.DefaultSettings(),
		source:      models.OriginSynced,
	}
}

// Ingest accepts the hub's periodic push: room conditions plus the full
// settings snapshot. The snapshot overwrites the stored one and is
// tagged panel-originated, which makes it invisible to the hub's own
// command poll. That tag is what breaks the echo loop.
func (s *ControlService) Ingest(ctx context.Context, room models.RoomConditions, set models.Settings) error {
	now := time.Now().UTC()

	s.mu.Lock()
	s.room = room
	s.roomAt = now
	s.roomKnown = true
	s.settings = set
	s.source = models.OriginPanel
	s.known = true
	s.updatedAt = now
	s.mu.Unlock()

	return s.readingRepo.Append(ctx, models.Reading{
		ID:          uuid.NewString(),
		RecordedAt:  now,
		Temperature: room.Temperature,
		Humidity:    room.Humidity,
	})
}

// WebUpdate merges a remote edit into the stored settings and tags it
// remote-originated so the hub's next poll picks it up. Out-of-range
// values are rejected, not clamped: a web client gets told, unlike a
// detent twist.
func (s *ControlService) WebUpdate(ctx context.Context, p models.SettingsPatch) (models.Settings, error) {
	if p.IsZero() {
		return models.Settings{}, ErrEmptyUpdate
	}
	if p.SetTemp != nil && (*p.SetTemp < models.MinSetTemp || *p.SetTemp > models.MaxSetTemp) {
		return models.Settings{}, ErrTempOutOfRange
	}
	if p.Timer != nil && (*p.Timer < models.MinTimer || *p.Timer > models.MaxTimer) {
		return models.Settings{}, ErrTimerOutOfRange
	}

	now := time.Now().UTC()

	s.mu.Lock()
	p.Apply(&s.settings)
	s.source = models.OriginRemote
	s.known = true
	s.updatedAt = now
	snapshot := s.settings
	s.mu.Unlock()

	err := s.eventRepo.Append(ctx, models.Event{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventSettingsUpdate,
		Description: "Settings updated from web",
		Metadata:    patchMetadata(p),
	})
	return snapshot, err
}

// Command returns the stored settings and their provenance for the
// hub's poll. ok is false before the first write from either side.
func (s *ControlService) Command(ctx context.Context) (models.Settings, models.Origin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.known {
		return models.Settings{}, models.OriginSynced, false
	}
	return s.settings, s.source, true
}

// Current returns the combined snapshot for web readers.
func (s *ControlService) Current(ctx context.Context) CurrentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CurrentState{
		Room:      s.room,
		RoomAt:    s.roomAt,
		HVAC:      s.settings,
		Source:    s.source,
		UpdatedAt: s.updatedAt,
		Known:     s.known,
	}
}

// patchMetadata flattens the changed fields for the audit trail.
func patchMetadata(p models.SettingsPatch) map[string]any {
	m := make(map[string]any, 6)
	if p.Power != nil {
		m["power"] = p.Power.String()
	}
	if p.SetTemp != nil {
		m["set_temp"] = *p.SetTemp
	}
	if p.Mode != nil {
		m["mode"] = p.Mode.String()
	}
	if p.FanSpeed != nil {
		m["fan_speed"] = p.FanSpeed.String()
	}
	if p.Timer != nil {
		m["timer"] = *p.Timer
	}
	if p.Swing != nil {
		m["swing"] = p.Swing.String()
	}
	return m
}
