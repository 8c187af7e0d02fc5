// Package service contains the business logic for the traveler registration
// server. Services validate inputs, enforce business rules, and orchestrate
// repo calls. No SQL lives here: services depend on repo interfaces.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/form"
	"github.com/pkordes/traveler-registration/internal/repo"
)

// TravelerService implements business logic for Traveler operations.
type TravelerService struct {
	travelers repo.TravelerRepo
	sites     repo.BookingSiteRepo
	now       func() time.Time
}

// NewTravelerService constructs a TravelerService backed by the provided repos.
func NewTravelerService(travelers repo.TravelerRepo, sites repo.BookingSiteRepo) *TravelerService {
	return &TravelerService{travelers: travelers, sites: sites, now: time.Now}
}

// Register validates t, resolves siteIDs to booking sites and persists the
// traveler. Unknown site ids are skipped; if none remain the traveler is
// rejected. Returns domain.ErrValidation for any rule violation.
func (s *TravelerService) Register(ctx context.Context, t domain.Traveler, siteIDs []int64) (domain.Traveler, error) {
	if err := validateTraveler(t); err != nil {
		return domain.Traveler{}, err
	}

	sites, err := s.sites.GetByIDs(ctx, siteIDs)
	if err != nil {
		return domain.Traveler{}, fmt.Errorf("service.TravelerService.Register: %w", err)
	}
	if len(sites) == 0 {
		return domain.Traveler{}, fmt.Errorf("%w: at least one known booking site is required", domain.ErrValidation)
	}
	t.BookingSites = sites

	result, err := s.travelers.Create(ctx, t)
	if err != nil {
		return domain.Traveler{}, fmt.Errorf("service.TravelerService.Register: %w", err)
	}
	return result, nil
}

// List returns all travelers ordered by id.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TravelerService) List(ctx context.Context) ([]domain.Traveler, error) {
	travelers, err := s.travelers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TravelerService.List: %w", err)
	}
	if travelers == nil {
		return []domain.Traveler{}, nil
	}
	return travelers, nil
}

// Rows returns every traveler flattened to its wire shape.
func (s *TravelerService) Rows(ctx context.Context) ([]domain.TravelerRow, error) {
	travelers, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.TravelerRow, 0, len(travelers))
	for _, t := range travelers {
		rows = append(rows, t.Row())
	}
	return rows, nil
}

// MarkDeparted records a departure. A nil at means now.
// Returns domain.ErrNotFound if the traveler does not exist.
func (s *TravelerService) MarkDeparted(ctx context.Context, id int64, at *time.Time) (domain.Traveler, error) {
	when := s.now()
	if at != nil {
		when = *at
	}
	result, err := s.travelers.MarkDeparted(ctx, id, when)
	if err != nil {
		return domain.Traveler{}, fmt.Errorf("service.TravelerService.MarkDeparted: %w", err)
	}
	return result, nil
}

// BookingSites returns every selectable booking site.
func (s *TravelerService) BookingSites(ctx context.Context) ([]domain.BookingSite, error) {
	sites, err := s.sites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TravelerService.BookingSites: %w", err)
	}
	return sites, nil
}

// validateTraveler applies the registration form's field rules, so records
// that bypass the form are held to the same standard.
func validateTraveler(t domain.Traveler) error {
	if strings.TrimSpace(t.FirstName) == "" {
		return fmt.Errorf("%w: first_name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(t.LastName) == "" {
		return fmt.Errorf("%w: last_name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(t.Telephone) == "" || !form.ValidPhone(t.Telephone) {
		return fmt.Errorf("%w: telephone is not a valid phone number", domain.ErrValidation)
	}
	if strings.TrimSpace(t.Email) == "" || !form.ValidEmail(t.Email) {
		return fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
	}
	if !domain.ValidHouse(t.HouseNumber) {
		return fmt.Errorf("%w: house_number must be one of %v", domain.ErrValidation, domain.HouseNumbers)
	}
	return nil
}
