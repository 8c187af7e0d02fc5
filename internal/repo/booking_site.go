package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/traveler-registration/internal/domain"
)

// BookingSiteRepo defines the persistence operations for booking sites.
type BookingSiteRepo interface {
	// List returns every booking site ordered by id.
	List(ctx context.Context) ([]domain.BookingSite, error)

	// GetByIDs returns the sites whose ids appear in ids, ordered by id.
	// Unknown ids are silently absent from the result.
	GetByIDs(ctx context.Context, ids []int64) ([]domain.BookingSite, error)
}

type pgBookingSiteRepo struct {
	db db
}

// NewBookingSiteRepo constructs a BookingSiteRepo backed by the provided db connection.
func NewBookingSiteRepo(db db) BookingSiteRepo {
	return &pgBookingSiteRepo{db: db}
}

func (r *pgBookingSiteRepo) List(ctx context.Context) ([]domain.BookingSite, error) {
	const q = `SELECT id, name FROM booking_sites ORDER BY id`

	sites, err := querySites(ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingSiteRepo.List: %w", err)
	}
	return sites, nil
}

func (r *pgBookingSiteRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.BookingSite, error) {
	const q = `SELECT id, name FROM booking_sites WHERE id = ANY(@ids) ORDER BY id`

	sites, err := querySites(ctx, r.db, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingSiteRepo.GetByIDs: %w", err)
	}
	return sites, nil
}

func querySites(ctx context.Context, d db, q string, args ...any) ([]domain.BookingSite, error) {
	rows, err := d.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := []domain.BookingSite{}
	for rows.Next() {
		var s domain.BookingSite
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return sites, nil
}
