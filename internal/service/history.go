package service

import (
	"context"

	"hvac_control/internal/models"
	"hvac_control/internal/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type HistoryService struct {
	readingRepo repository.ReadingRepo
}

func NewHistoryService(readingRepo repository.ReadingRepo) *HistoryService {
	return &HistoryService{readingRepo: readingRepo}
}

// List returns the most recent readings, newest first. The limit is
// clamped rather than rejected.
func (s *HistoryService) List(ctx context.Context, limit int) ([]models.Reading, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.readingRepo.List(ctx, limit)
}
