package handler

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkordes/traveler-registration/internal/middleware"
)

// backupDatabase handles GET /backup_database.
// It writes a new backup file on the server and streams it back as an
// attachment.
func (s *Server) backupDatabase(w http.ResponseWriter, r *http.Request) {
	path, err := s.backups.Create(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "backup", err)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		s.writeServiceError(w, r, "backup", err)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		s.writeServiceError(w, r, "backup", err)
		return
	}

	name := filepath.Base(path)
	s.log.InfoContext(r.Context(), "backup created", "file", name, "by", middleware.Username(r.Context()))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", attachment(name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// listBackups handles GET /backups.
func (s *Server) listBackups(w http.ResponseWriter, r *http.Request) {
	files, err := s.backups.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "backup", err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// restoreDatabase handles POST /restore_database.
func (s *Server) restoreDatabase(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	name := strings.TrimSpace(r.PostForm.Get("backup_file"))
	if name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("backup_file is required"))
		return
	}
	if err := s.backups.Restore(r.Context(), name); err != nil {
		s.writeServiceError(w, r, "backup file", err)
		return
	}
	s.log.InfoContext(r.Context(), "database restored", "file", name, "by", middleware.Username(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// attachment builds a Content-Disposition header for a download named name.
func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
