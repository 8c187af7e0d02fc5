package handler

import (
	"net/http"

	"github.com/pkordes/traveler-registration/internal/middleware"
)

// login handles POST /login.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	u, err := s.users.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		s.writeServiceError(w, r, "user", err)
		return
	}
	if err := middleware.SignIn(s.sessions, w, r, u.ID.String(), u.Username); err != nil {
		s.writeServiceError(w, r, "session", err)
		return
	}
	s.log.InfoContext(r.Context(), "operator signed in", "username", u.Username)
	writeJSON(w, http.StatusOK, u)
}

// logout handles POST /logout.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := middleware.SignOut(s.sessions, w, r); err != nil {
		s.writeServiceError(w, r, "session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// registerUser handles POST /register.
func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := r.PostForm
	u, err := s.users.Register(r.Context(),
		f.Get("username"), f.Get("email"), f.Get("password"), f.Get("password_confirm"))
	if err != nil {
		s.writeServiceError(w, r, "user", err)
		return
	}
	s.log.InfoContext(r.Context(), "operator registered",
		"username", u.Username, "by", middleware.Username(r.Context()))
	writeJSON(w, http.StatusCreated, u)
}
