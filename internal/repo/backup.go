package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/traveler-registration/internal/domain"
)

// BackupRepo reads and replaces the whole data set for backup and restore.
type BackupRepo interface {
	// Snapshot reads every traveler, booking site and user (without password
	// hashes) into a Backup. BackupDate is left for the caller to set.
	Snapshot(ctx context.Context) (domain.Backup, error)

	// Restore replaces all travelers and their links with those in b inside
	// one transaction. Booking sites missing by name are created; users are
	// left untouched. The traveler id sequence continues after the highest
	// restored id.
	Restore(ctx context.Context, b domain.Backup) error
}

type pgBackupRepo struct {
	db txDB
}

// NewBackupRepo constructs a BackupRepo backed by the provided connection.
func NewBackupRepo(db txDB) BackupRepo {
	return &pgBackupRepo{db: db}
}

func (r *pgBackupRepo) Snapshot(ctx context.Context) (domain.Backup, error) {
	travelers, err := NewTravelerRepo(r.db).List(ctx)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("repo.BackupRepo.Snapshot: %w", err)
	}
	sites, err := NewBookingSiteRepo(r.db).List(ctx)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("repo.BackupRepo.Snapshot: %w", err)
	}
	users, err := NewUserRepo(r.db).List(ctx)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("repo.BackupRepo.Snapshot: %w", err)
	}

	b := domain.Backup{
		Travelers:    make([]domain.BackupTraveler, 0, len(travelers)),
		BookingSites: sites,
		Users:        make([]domain.BackupUser, 0, len(users)),
	}
	for _, t := range travelers {
		active := t.IsActive
		b.Travelers = append(b.Travelers, domain.BackupTraveler{
			ID:               t.ID,
			FirstName:        t.FirstName,
			LastName:         t.LastName,
			Telephone:        t.Telephone,
			Email:            t.Email,
			HouseNumber:      t.HouseNumber,
			RegistrationDate: t.RegistrationDate,
			DepartureDate:    t.DepartureDate,
			IsActive:         &active,
			BookingSites:     t.BookingSites,
		})
	}
	for _, u := range users {
		b.Users = append(b.Users, domain.BackupUser{ID: u.ID.String(), Username: u.Username, Email: u.Email})
	}
	return b, nil
}

func (r *pgBackupRepo) Restore(ctx context.Context, b domain.Backup) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM traveler_booking_sites`); err != nil {
			return fmt.Errorf("clear links: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM travelers`); err != nil {
			return fmt.Errorf("clear travelers: %w", err)
		}

		siteIDs, err := ensureSites(ctx, tx, b)
		if err != nil {
			return err
		}

		for _, t := range b.Travelers {
			if err := restoreTraveler(ctx, tx, t, siteIDs); err != nil {
				return fmt.Errorf("traveler %d: %w", t.ID, err)
			}
		}

		const resetSeq = `
			SELECT setval(pg_get_serial_sequence('travelers', 'id'),
			              COALESCE((SELECT MAX(id) FROM travelers), 1),
			              (SELECT MAX(id) FROM travelers) IS NOT NULL)`
		if _, err := tx.Exec(ctx, resetSeq); err != nil {
			return fmt.Errorf("reset sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.BackupRepo.Restore: %w", err)
	}
	return nil
}

// ensureSites returns a name → id map covering every site named anywhere in
// b, inserting the ones that do not exist yet.
func ensureSites(ctx context.Context, tx pgx.Tx, b domain.Backup) (map[string]int64, error) {
	existing, err := querySites(ctx, tx, `SELECT id, name FROM booking_sites`)
	if err != nil {
		return nil, fmt.Errorf("load sites: %w", err)
	}
	ids := make(map[string]int64, len(existing))
	for _, s := range existing {
		ids[s.Name] = s.ID
	}

	wanted := append([]domain.BookingSite{}, b.BookingSites...)
	for _, t := range b.Travelers {
		wanted = append(wanted, t.BookingSites...)
	}

	const insert = `INSERT INTO booking_sites (name) VALUES (@name) RETURNING id`
	for _, s := range wanted {
		if _, ok := ids[s.Name]; ok || s.Name == "" {
			continue
		}
		var id int64
		if err := tx.QueryRow(ctx, insert, pgx.NamedArgs{"name": s.Name}).Scan(&id); err != nil {
			return nil, fmt.Errorf("insert site %q: %w", s.Name, err)
		}
		ids[s.Name] = id
	}
	return ids, nil
}

func restoreTraveler(ctx context.Context, tx pgx.Tx, t domain.BackupTraveler, siteIDs map[string]int64) error {
	const insert = `
		INSERT INTO travelers (id, first_name, last_name, telephone, email, house_number,
		                       registration_date, departure_date, is_active)
		VALUES (@id, @first_name, @last_name, @telephone, @email, @house_number,
		        @registration_date, @departure_date, @is_active)`

	registered := t.RegistrationDate
	if registered.IsZero() {
		registered = time.Now()
	}
	active := true
	if t.IsActive != nil {
		active = *t.IsActive
	}

	_, err := tx.Exec(ctx, insert, pgx.NamedArgs{
		"id":                t.ID,
		"first_name":        t.FirstName,
		"last_name":         t.LastName,
		"telephone":         t.Telephone,
		"email":             t.Email,
		"house_number":      t.HouseNumber,
		"registration_date": registered,
		"departure_date":    t.DepartureDate,
		"is_active":         active,
	})
	if err != nil {
		return err
	}

	const link = `
		INSERT INTO traveler_booking_sites (traveler_id, booking_site_id)
		VALUES (@traveler_id, @site_id)
		ON CONFLICT DO NOTHING`
	for _, s := range t.BookingSites {
		id, ok := siteIDs[s.Name]
		if !ok {
			continue
		}
		if _, err := tx.Exec(ctx, link, pgx.NamedArgs{"traveler_id": t.ID, "site_id": id}); err != nil {
			return fmt.Errorf("link site %q: %w", s.Name, err)
		}
	}
	return nil
}
