package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/repo"
)

const (
	backupPrefix     = "travelers_backup_"
	backupExt        = ".json"
	backupTimeLayout = "20060102_150405"
)

// BackupService writes and restores JSON snapshots of the database.
// Backup files live flat inside dir; names from callers are base names only.
type BackupService struct {
	repo repo.BackupRepo
	dir  string
	now  func() time.Time
}

// NewBackupService constructs a BackupService that keeps its files in dir.
func NewBackupService(r repo.BackupRepo, dir string) *BackupService {
	return &BackupService{repo: r, dir: dir, now: time.Now}
}

// BackupName returns the file name used for a backup taken at t.
func BackupName(t time.Time) string {
	return backupPrefix + t.Format(backupTimeLayout) + backupExt
}

// Create snapshots the database and writes it to a new file in the backup
// directory. It returns the full path of the written file.
func (s *BackupService) Create(ctx context.Context) (string, error) {
	b, err := s.repo.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("service.BackupService.Create: %w", err)
	}
	now := s.now().UTC()
	b.BackupDate = now

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("service.BackupService.Create: encode: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("service.BackupService.Create: %w", err)
	}

	path := filepath.Join(s.dir, BackupName(now))
	if err := writeFileAtomic(s.dir, path, data); err != nil {
		return "", fmt.Errorf("service.BackupService.Create: %w", err)
	}
	return path, nil
}

// List returns the backups in the backup directory, newest first.
// A missing directory yields an empty list.
func (s *BackupService) List(_ context.Context) ([]domain.BackupFile, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.BackupFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service.BackupService.List: %w", err)
	}

	files := make([]domain.BackupFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, domain.BackupFile{
			Name:       e.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	// The timestamp in the name sorts lexically.
	sort.Slice(files, func(i, j int) bool { return files[i].Name > files[j].Name })
	return files, nil
}

// Restore replaces the travelers with the contents of the named backup.
// Returns domain.ErrValidation for a name that is not a plain backup file name
// or a file that is not a backup, and domain.ErrNotFound if it does not exist.
func (s *BackupService) Restore(ctx context.Context, name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("service.BackupService.Restore: %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("service.BackupService.Restore: %w", err)
	}

	var b domain.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("%w: %s is not a valid backup file", domain.ErrValidation, name)
	}
	for _, t := range b.Travelers {
		if !domain.ValidHouse(t.HouseNumber) {
			return fmt.Errorf("%w: traveler %d has invalid house_number %d", domain.ErrValidation, t.ID, t.HouseNumber)
		}
	}

	if err := s.repo.Restore(ctx, b); err != nil {
		return fmt.Errorf("service.BackupService.Restore: %w", err)
	}
	return nil
}

// Path resolves a backup base name to its location in the backup directory.
func (s *BackupService) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || !isBackupName(name) {
		return "", fmt.Errorf("%w: invalid backup file name %q", domain.ErrValidation, name)
	}
	return filepath.Join(s.dir, name), nil
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupExt)
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".backup-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
