package service_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/service"
)

func snapshotRepo(b domain.Backup) *mockBackupRepo {
	return &mockBackupRepo{
		snapshot: func(_ context.Context) (domain.Backup, error) { return b, nil },
	}
}

func writeBackup(t *testing.T, dir, name string, b domain.Backup) {
	t.Helper()
	data, err := json.Marshal(b)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestBackupName(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "travelers_backup_20250601_090507.json", service.BackupName(at))
}

// ---- Create ----------------------------------------------------------------

func TestBackupService_Create_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	svc := service.NewBackupService(snapshotRepo(domain.Backup{
		Travelers:    []domain.BackupTraveler{{ID: 1, FirstName: "Ada", HouseNumber: 1}},
		BookingSites: seededSites,
	}), dir)

	path, err := svc.Create(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "travelers_backup_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got domain.Backup
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got.Travelers, 1)
	assert.Equal(t, seededSites, got.BookingSites)
	assert.WithinDuration(t, time.Now(), got.BackupDate, time.Minute)

	// Only the finished file is left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBackupService_Create_SnapshotError(t *testing.T) {
	dir := t.TempDir()
	svc := service.NewBackupService(&mockBackupRepo{
		snapshot: func(_ context.Context) (domain.Backup, error) { return domain.Backup{}, assert.AnError },
	}, dir)

	_, err := svc.Create(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

// ---- List ------------------------------------------------------------------

func TestBackupService_List_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeBackup(t, dir, "travelers_backup_20250101_000000.json", domain.Backup{})
	writeBackup(t, dir, "travelers_backup_20250601_120000.json", domain.Backup{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	svc := service.NewBackupService(snapshotRepo(domain.Backup{}), dir)

	files, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "travelers_backup_20250601_120000.json", files[0].Name)
	assert.Equal(t, "travelers_backup_20250101_000000.json", files[1].Name)
}

func TestBackupService_List_MissingDir(t *testing.T) {
	svc := service.NewBackupService(snapshotRepo(domain.Backup{}), filepath.Join(t.TempDir(), "nope"))

	files, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

// ---- Restore ---------------------------------------------------------------

func TestBackupService_Restore(t *testing.T) {
	dir := t.TempDir()
	name := "travelers_backup_20250601_120000.json"
	writeBackup(t, dir, name, domain.Backup{
		Travelers: []domain.BackupTraveler{{ID: 5, FirstName: "Grace", HouseNumber: 3}},
	})

	var restored domain.Backup
	svc := service.NewBackupService(&mockBackupRepo{
		restore: func(_ context.Context, b domain.Backup) error {
			restored = b
			return nil
		},
	}, dir)

	require.NoError(t, svc.Restore(context.Background(), name))
	require.Len(t, restored.Travelers, 1)
	assert.Equal(t, "Grace", restored.Travelers[0].FirstName)
}

func TestBackupService_Restore_RejectsBadNames(t *testing.T) {
	svc := service.NewBackupService(snapshotRepo(domain.Backup{}), t.TempDir())

	for _, name := range []string{
		"",
		"../travelers_backup_20250601_120000.json",
		"sub/travelers_backup_20250601_120000.json",
		`..\travelers_backup_20250601_120000.json`,
		"passwd",
	} {
		err := svc.Restore(context.Background(), name)
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}
}

func TestBackupService_Restore_Missing(t *testing.T) {
	svc := service.NewBackupService(snapshotRepo(domain.Backup{}), t.TempDir())

	err := svc.Restore(context.Background(), "travelers_backup_20990101_000000.json")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackupService_Restore_InvalidContent(t *testing.T) {
	dir := t.TempDir()
	name := "travelers_backup_20250601_120000.json"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{not json"), 0o644))
	svc := service.NewBackupService(snapshotRepo(domain.Backup{}), dir)

	err := svc.Restore(context.Background(), name)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBackupService_Restore_InvalidHouse(t *testing.T) {
	dir := t.TempDir()
	name := "travelers_backup_20250601_120000.json"
	writeBackup(t, dir, name, domain.Backup{
		Travelers: []domain.BackupTraveler{{ID: 1, HouseNumber: 9}},
	})
	svc := service.NewBackupService(snapshotRepo(domain.Backup{}), dir)

	err := svc.Restore(context.Background(), name)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
