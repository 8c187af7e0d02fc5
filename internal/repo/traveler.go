package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/traveler-registration/internal/domain"
)

// TravelerRepo defines the persistence operations for Travelers.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TravelerRepo interface {
	// Create inserts a traveler together with its booking site links and
	// returns the persisted record (with DB-generated id and registration_date).
	// Booking sites must already exist; their ids are linked as given.
	Create(ctx context.Context, t domain.Traveler) (domain.Traveler, error)

	// GetByID retrieves a single traveler with its booking sites.
	// Returns domain.ErrNotFound if no traveler with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Traveler, error)

	// List returns all travelers ordered by id ascending.
	List(ctx context.Context) ([]domain.Traveler, error)

	// MarkDeparted records the departure date and flags the traveler inactive.
	// Returns domain.ErrNotFound if no traveler with that ID exists.
	MarkDeparted(ctx context.Context, id int64, at time.Time) (domain.Traveler, error)
}

// pgTravelerRepo is the Postgres implementation of TravelerRepo.
type pgTravelerRepo struct {
	db txDB
}

// NewTravelerRepo constructs a TravelerRepo backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTravelerRepo(db txDB) TravelerRepo {
	return &pgTravelerRepo{db: db}
}

const travelerColumns = `id, first_name, last_name, telephone, email, house_number,
		       registration_date, departure_date, is_active`

// Create inserts the traveler row and its links in one transaction.
func (r *pgTravelerRepo) Create(ctx context.Context, t domain.Traveler) (domain.Traveler, error) {
	const insertTraveler = `
		INSERT INTO travelers (first_name, last_name, telephone, email, house_number)
		VALUES (@first_name, @last_name, @telephone, @email, @house_number)
		RETURNING ` + travelerColumns

	const linkSites = `
		INSERT INTO traveler_booking_sites (traveler_id, booking_site_id)
		SELECT @traveler_id, unnest(@site_ids::bigint[])`

	var result domain.Traveler
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, insertTraveler, pgx.NamedArgs{
			"first_name":   t.FirstName,
			"last_name":    t.LastName,
			"telephone":    t.Telephone,
			"email":        t.Email,
			"house_number": t.HouseNumber,
		})
		created, err := scanTraveler(row)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(t.BookingSites))
		for _, s := range t.BookingSites {
			ids = append(ids, s.ID)
		}
		if _, err := tx.Exec(ctx, linkSites, pgx.NamedArgs{"traveler_id": created.ID, "site_ids": ids}); err != nil {
			return fmt.Errorf("link sites: %w", err)
		}

		created.BookingSites = t.BookingSites
		result = created
		return nil
	})
	if err != nil {
		return domain.Traveler{}, fmt.Errorf("repo.TravelerRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a traveler by primary key.
func (r *pgTravelerRepo) GetByID(ctx context.Context, id int64) (domain.Traveler, error) {
	q := `SELECT ` + travelerColumns + ` FROM travelers WHERE id = @id`

	t, err := scanTraveler(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Traveler{}, fmt.Errorf("repo.TravelerRepo.GetByID: %w", err)
	}
	sites, err := r.sitesByTraveler(ctx, &id)
	if err != nil {
		return domain.Traveler{}, fmt.Errorf("repo.TravelerRepo.GetByID: %w", err)
	}
	t.BookingSites = sites[id]
	return t, nil
}

// List returns all travelers ordered by id, each with its booking sites.
// Links are loaded with a single query rather than one per traveler.
func (r *pgTravelerRepo) List(ctx context.Context) ([]domain.Traveler, error) {
	q := `SELECT ` + travelerColumns + ` FROM travelers ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TravelerRepo.List: %w", err)
	}
	defer rows.Close()

	travelers := []domain.Traveler{}
	for rows.Next() {
		t, err := scanTraveler(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TravelerRepo.List: scan: %w", err)
		}
		travelers = append(travelers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TravelerRepo.List: rows: %w", err)
	}

	sites, err := r.sitesByTraveler(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.TravelerRepo.List: %w", err)
	}
	for i := range travelers {
		travelers[i].BookingSites = sites[travelers[i].ID]
	}
	return travelers, nil
}

// MarkDeparted sets departure_date and clears is_active.
func (r *pgTravelerRepo) MarkDeparted(ctx context.Context, id int64, at time.Time) (domain.Traveler, error) {
	q := `
		UPDATE travelers
		SET departure_date = @at,
		    is_active      = FALSE
		WHERE id = @id
		RETURNING ` + travelerColumns

	if _, err := scanTraveler(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "at": at})); err != nil {
		return domain.Traveler{}, fmt.Errorf("repo.TravelerRepo.MarkDeparted: %w", err)
	}
	return r.GetByID(ctx, id)
}

// sitesByTraveler loads booking site links keyed by traveler id.
// A nil travelerID loads links for every traveler.
func (r *pgTravelerRepo) sitesByTraveler(ctx context.Context, travelerID *int64) (map[int64][]domain.BookingSite, error) {
	const q = `
		SELECT tbs.traveler_id, bs.id, bs.name
		FROM traveler_booking_sites tbs
		JOIN booking_sites bs ON bs.id = tbs.booking_site_id
		WHERE @traveler_id::bigint IS NULL OR tbs.traveler_id = @traveler_id
		ORDER BY tbs.traveler_id, bs.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"traveler_id": travelerID})
	if err != nil {
		return nil, fmt.Errorf("load sites: %w", err)
	}
	defer rows.Close()

	out := map[int64][]domain.BookingSite{}
	for rows.Next() {
		var (
			tid  int64
			site domain.BookingSite
		)
		if err := rows.Scan(&tid, &site.ID, &site.Name); err != nil {
			return nil, fmt.Errorf("load sites: scan: %w", err)
		}
		out[tid] = append(out[tid], site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load sites: rows: %w", err)
	}
	return out, nil
}

// scanTraveler maps a single database row into a domain.Traveler.
// It handles the nullable departure_date conversion.
func scanTraveler(s scanner) (domain.Traveler, error) {
	var (
		t         domain.Traveler
		departure pgtype.Timestamptz
	)

	err := s.Scan(&t.ID, &t.FirstName, &t.LastName, &t.Telephone, &t.Email, &t.HouseNumber,
		&t.RegistrationDate, &departure, &t.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Traveler{}, domain.ErrNotFound
		}
		return domain.Traveler{}, err
	}

	if departure.Valid {
		d := departure.Time
		t.DepartureDate = &d
	}
	return t, nil
}
