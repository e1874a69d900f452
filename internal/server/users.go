package server

import (
	"net/http"

	"bookstore/internal/app"
	"bookstore/pkg/domain"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}
	var req app.RegisterInput
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		s.fail(w, r, apiErr)
		return
	}
	user, err := s.app.Register(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, caller domain.AuthUser) {
	switch r.Method {
	case http.MethodGet:
		user, err := s.app.GetUser(caller.ID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodPatch:
		var req app.UpdateProfileInput
		if apiErr := decodeJSON(r, &req); apiErr != nil {
			s.fail(w, r, apiErr)
			return
		}
		user, err := s.app.UpdateProfile(caller.ID, req)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodDelete:
		if err := s.app.DeleteAccount(caller.ID); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
	default:
		methodNotAllowed(w, r)
	}
}
