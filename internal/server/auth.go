package server

import (
	"net/http"

	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}
	var req loginRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		s.fail(w, r, apiErr)
		return
	}
	pair, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}
	var req refreshRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		s.fail(w, r, apiErr)
		return
	}
	if req.RefreshToken == "" {
		s.fail(w, r, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, "Refresh token required"))
		return
	}
	pair, err := s.app.Refresh(req.RefreshToken)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, user domain.AuthUser) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}
	msg := s.app.Logout(user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
