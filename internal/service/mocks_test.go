package service_test

import (
	"context"
	"time"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs.

type mockTravelerRepo struct {
	create       func(ctx context.Context, t domain.Traveler) (domain.Traveler, error)
	getByID      func(ctx context.Context, id int64) (domain.Traveler, error)
	list         func(ctx context.Context) ([]domain.Traveler, error)
	markDeparted func(ctx context.Context, id int64, at time.Time) (domain.Traveler, error)
}

func (m *mockTravelerRepo) Create(ctx context.Context, t domain.Traveler) (domain.Traveler, error) {
	return m.create(ctx, t)
}
func (m *mockTravelerRepo) GetByID(ctx context.Context, id int64) (domain.Traveler, error) {
	return m.getByID(ctx, id)
}
func (m *mockTravelerRepo) List(ctx context.Context) ([]domain.Traveler, error) {
	return m.list(ctx)
}
func (m *mockTravelerRepo) MarkDeparted(ctx context.Context, id int64, at time.Time) (domain.Traveler, error) {
	return m.markDeparted(ctx, id, at)
}

type mockBookingSiteRepo struct {
	list     func(ctx context.Context) ([]domain.BookingSite, error)
	getByIDs func(ctx context.Context, ids []int64) ([]domain.BookingSite, error)
}

func (m *mockBookingSiteRepo) List(ctx context.Context) ([]domain.BookingSite, error) {
	return m.list(ctx)
}
func (m *mockBookingSiteRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.BookingSite, error) {
	return m.getByIDs(ctx, ids)
}

type mockUserRepo struct {
	create        func(ctx context.Context, u domain.User) (domain.User, error)
	getByUsername func(ctx context.Context, username string) (domain.User, error)
	list          func(ctx context.Context) ([]domain.User, error)
	count         func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.getByUsername(ctx, username)
}
func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return m.list(ctx)
}
func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	return m.count(ctx)
}

type mockBackupRepo struct {
	snapshot func(ctx context.Context) (domain.Backup, error)
	restore  func(ctx context.Context, b domain.Backup) error
}

func (m *mockBackupRepo) Snapshot(ctx context.Context) (domain.Backup, error) {
	return m.snapshot(ctx)
}
func (m *mockBackupRepo) Restore(ctx context.Context, b domain.Backup) error {
	return m.restore(ctx, b)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.TravelerRepo    = (*mockTravelerRepo)(nil)
	_ repo.BookingSiteRepo = (*mockBookingSiteRepo)(nil)
	_ repo.UserRepo        = (*mockUserRepo)(nil)
	_ repo.BackupRepo      = (*mockBackupRepo)(nil)
)
