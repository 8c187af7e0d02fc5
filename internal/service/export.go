package service

import (
	"context"
	"fmt"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/repo"
)

// ExportService assembles the flat traveler table used by every export format.
type ExportService struct {
	travelers repo.TravelerRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(travelers repo.TravelerRepo) *ExportService {
	return &ExportService{travelers: travelers}
}

// Rows returns one row per traveler ordered by id.
// Always returns a non-nil slice.
func (s *ExportService) Rows(ctx context.Context) ([]domain.TravelerRow, error) {
	travelers, err := s.travelers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}
	rows := make([]domain.TravelerRow, 0, len(travelers))
	for _, t := range travelers {
		rows = append(rows, t.Row())
	}
	return rows, nil
}
