package client

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirSaver writes files into a directory. A file only appears under its
// final name once it has been written completely.
type DirSaver struct {
	Dir string
}

// Save writes data to Dir/name via a temporary file and a rename.
func (s DirSaver) Save(name string, data []byte) error {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("client.DirSaver.Save: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("client.DirSaver.Save: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("client.DirSaver.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("client.DirSaver.Save: close: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, filepath.Base(name))); err != nil {
		return fmt.Errorf("client.DirSaver.Save: rename: %w", err)
	}
	return nil
}
