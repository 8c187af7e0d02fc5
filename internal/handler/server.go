// Package handler implements the HTTP handlers for the traveler registration
// API. All handlers are methods on Server. Methods are split into
// domain-specific files (health.go, traveler.go, etc.) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/middleware"
)

// TravelerServicer defines the traveler operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TravelerServicer interface {
	Register(ctx context.Context, t domain.Traveler, siteIDs []int64) (domain.Traveler, error)
	Rows(ctx context.Context) ([]domain.TravelerRow, error)
	MarkDeparted(ctx context.Context, id int64, at *time.Time) (domain.Traveler, error)
	BookingSites(ctx context.Context) ([]domain.BookingSite, error)
}

// ExportServicer produces the flat table behind GET /export.
type ExportServicer interface {
	Rows(ctx context.Context) ([]domain.TravelerRow, error)
}

// BackupServicer defines the backup operations.
type BackupServicer interface {
	Create(ctx context.Context) (string, error)
	List(ctx context.Context) ([]domain.BackupFile, error)
	Restore(ctx context.Context, name string) error
}

// UserServicer defines sign-in and operator registration.
type UserServicer interface {
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
	Register(ctx context.Context, username, email, password, confirm string) (domain.User, error)
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Travelers TravelerServicer
	Export    ExportServicer
	Backups   BackupServicer
	Users     UserServicer
	Sessions  sessions.Store
	Log       *slog.Logger
}

// Server serves every API endpoint.
type Server struct {
	travelers TravelerServicer
	export    ExportServicer
	backups   BackupServicer
	users     UserServicer
	sessions  sessions.Store
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		travelers: d.Travelers,
		export:    d.Export,
		backups:   d.Backups,
		users:     d.Users,
		sessions:  d.Sessions,
		log:       log,
	}
}

// Routes returns the API router. Health, the API description and login are
// public; everything else requires a signed-in session.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)
	r.Post("/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireLogin(s.sessions))

		r.Post("/logout", s.logout)
		r.Post("/register", s.registerUser)

		r.Get("/booking_sites", s.listBookingSites)
		r.Post("/add_traveler", s.addTraveler)
		r.Get("/get_travelers", s.getTravelers)
		r.Post("/mark_departed/{id}", s.markDeparted)
		r.Get("/export", s.exportTravelers)
		r.Get("/export_csv", s.exportCSV)

		r.Get("/backup_database", s.backupDatabase)
		r.Get("/backups", s.listBackups)
		r.Post("/restore_database", s.restoreDatabase)
	})

	return r
}
