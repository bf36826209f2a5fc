package handler

import (
	"net/http"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register handles POST /api/auth/register. A successful registration also
// logs the new user in.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if !s.decodeOrReject(w, r, &body) {
		return
	}
	u, err := s.auth.Register(r.Context(), body.Email, body.Password, body.Name)
	if err != nil {
		s.fail(w, r, err, "user")
		return
	}
	if !s.startSession(w, r, u) {
		return
	}
	writeOK(w, http.StatusCreated, "user", u)
}

// Login handles POST /api/auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if !s.decodeOrReject(w, r, &body) {
		return
	}
	u, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.fail(w, r, err, "user")
		return
	}
	if !s.startSession(w, r, u) {
		return
	}
	writeOK(w, http.StatusOK, "user", u)
}

// Logout handles POST /api/auth/logout. It succeeds without a session too.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(w, r); err != nil {
		s.fail(w, r, err, "session")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true})
}

// Me handles GET /api/auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	u, err := s.auth.User(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, "user")
		return
	}
	writeOK(w, http.StatusOK, "user", u)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, u domain.User) bool {
	if err := s.sessions.Login(w, r, u.ID); err != nil {
		s.fail(w, r, err, "session")
		return false
	}
	return true
}
