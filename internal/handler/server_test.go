package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/handler"
	"github.com/pkordes/traveler-registration/internal/middleware"
)

// Hand-written test doubles. Set only the method fields your test needs.

type mockTravelerServicer struct {
	register     func(ctx context.Context, t domain.Traveler, siteIDs []int64) (domain.Traveler, error)
	rows         func(ctx context.Context) ([]domain.TravelerRow, error)
	markDeparted func(ctx context.Context, id int64, at *time.Time) (domain.Traveler, error)
	bookingSites func(ctx context.Context) ([]domain.BookingSite, error)
}

func (m *mockTravelerServicer) Register(ctx context.Context, t domain.Traveler, siteIDs []int64) (domain.Traveler, error) {
	return m.register(ctx, t, siteIDs)
}
func (m *mockTravelerServicer) Rows(ctx context.Context) ([]domain.TravelerRow, error) {
	return m.rows(ctx)
}
func (m *mockTravelerServicer) MarkDeparted(ctx context.Context, id int64, at *time.Time) (domain.Traveler, error) {
	return m.markDeparted(ctx, id, at)
}
func (m *mockTravelerServicer) BookingSites(ctx context.Context) ([]domain.BookingSite, error) {
	return m.bookingSites(ctx)
}

type mockExportServicer struct {
	rows func(ctx context.Context) ([]domain.TravelerRow, error)
}

func (m *mockExportServicer) Rows(ctx context.Context) ([]domain.TravelerRow, error) {
	return m.rows(ctx)
}

type mockBackupServicer struct {
	create  func(ctx context.Context) (string, error)
	list    func(ctx context.Context) ([]domain.BackupFile, error)
	restore func(ctx context.Context, name string) error
}

func (m *mockBackupServicer) Create(ctx context.Context) (string, error) { return m.create(ctx) }
func (m *mockBackupServicer) List(ctx context.Context) ([]domain.BackupFile, error) {
	return m.list(ctx)
}
func (m *mockBackupServicer) Restore(ctx context.Context, name string) error {
	return m.restore(ctx, name)
}

type mockUserServicer struct {
	authenticate func(ctx context.Context, username, password string) (domain.User, error)
	register     func(ctx context.Context, username, email, password, confirm string) (domain.User, error)
}

func (m *mockUserServicer) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	return m.authenticate(ctx, username, password)
}
func (m *mockUserServicer) Register(ctx context.Context, username, email, password, confirm string) (domain.User, error) {
	return m.register(ctx, username, email, password, confirm)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TravelerServicer = (*mockTravelerServicer)(nil)
	_ handler.ExportServicer   = (*mockExportServicer)(nil)
	_ handler.BackupServicer   = (*mockBackupServicer)(nil)
	_ handler.UserServicer     = (*mockUserServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testPassword = "front-desk-pw"

var deskUser = domain.User{ID: uuid.New(), Username: "desk", Email: "desk@example.com"}

// deskUsers accepts deskUser with testPassword and nothing else.
func deskUsers() *mockUserServicer {
	return &mockUserServicer{
		authenticate: func(_ context.Context, username, password string) (domain.User, error) {
			if username == deskUser.Username && password == testPassword {
				return deskUser, nil
			}
			return domain.User{}, domain.ErrUnauthorized
		},
	}
}

// newHTTPHandler wires a Server the way main.go does, filling unset
// dependencies with deskUsers and a fresh cookie store.
func newHTTPHandler(d handler.Deps) http.Handler {
	if d.Users == nil {
		d.Users = deskUsers()
	}
	if d.Sessions == nil {
		d.Sessions = middleware.NewSessionStore("0123456789abcdef0123456789abcdef", false)
	}
	d.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewServer(d).Routes()
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// signIn logs deskUser in through h and returns the session cookies.
func signIn(t *testing.T, h http.Handler) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, formRequest(http.MethodPost, "/login", url.Values{
		"username": {deskUser.Username},
		"password": {testPassword},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

// do serves req through h with the given cookies attached.
func do(h http.Handler, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
