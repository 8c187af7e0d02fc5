package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie that carries the signed-in operator.
const SessionName = "traveler_session"

const (
	sessionUserID   = "user_id"
	sessionUsername = "username"
)

type userKey struct{}

// NewSessionStore returns a cookie-backed store signed with secret.
// Sessions last twelve hours and are not readable from scripts.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   12 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SignIn records the operator in a fresh session and writes the cookie.
func SignIn(store sessions.Store, w http.ResponseWriter, r *http.Request, userID, username string) error {
	session, err := store.New(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values[sessionUserID] = userID
	session.Values[sessionUsername] = username
	return store.Save(r, w, session)
}

// SignOut expires the session cookie.
func SignOut(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	session, err := store.Get(r, SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	return store.Save(r, w, session)
}

// NewRequireLogin returns a middleware that rejects requests without a
// signed-in session with 401. The username is made available to handlers
// via Username.
func NewRequireLogin(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "login required")
				return
			}
			id, _ := session.Values[sessionUserID].(string)
			name, _ := session.Values[sessionUsername].(string)
			if id == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "login required")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, name)))
		})
	}
}

// Username returns the signed-in operator's name, or "" outside
// NewRequireLogin.
func Username(ctx context.Context) string {
	name, _ := ctx.Value(userKey{}).(string)
	return name
}

// writeError writes the API's JSON error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
