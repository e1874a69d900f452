// Package server exposes the HTTP endpoints and owns request parsing,
// auth gating and the error envelope.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"bookstore/internal/app"
	"bookstore/internal/ratelimit"
	"bookstore/internal/util"
	"bookstore/pkg/apierr"
	"bookstore/pkg/domain"
)

// Config wires required dependencies for the HTTP server. Limiter and
// TrustedProxies are optional; a nil Limiter disables throttling.
type Config struct {
	App            *app.App
	Limiter        *ratelimit.FixedWindowLimiter
	TrustedProxies *util.TrustedProxies
}

// Server exposes the bookstore HTTP API.
type Server struct {
	app     *app.App
	limiter *ratelimit.FixedWindowLimiter
	trusted *util.TrustedProxies
	mux     *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:     cfg.App,
		limiter: cfg.Limiter,
		trusted: cfg.TrustedProxies,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the handler wrapped in the shared middleware chain.
func (s *Server) Router() http.Handler {
	var h http.Handler = s.mux
	if s.limiter != nil {
		h = s.withRateLimit(h)
	}
	return util.WithRequestID(
		util.WithRequestLog("bookstore", s.trusted,
			util.WithSecurityHeaders(
				util.WithCORS(h))))
}

// withRateLimit throttles by client IP before routing, so every
// endpoint shares one quota.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(util.ClientIP(r, s.trusted)) {
			apierr.Write(w, r, apierr.New(http.StatusTooManyRequests, apierr.CodeBadRequest, "Too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/auth/login", s.handleLogin)
	s.mux.HandleFunc("/auth/refresh", s.handleRefresh)
	s.mux.Handle("/auth/logout", s.authenticated(s.handleLogout))

	// users
	s.mux.HandleFunc("/users", s.handleRegister)
	s.mux.Handle("/users/me", s.authenticated(s.handleMe))

	// books (public)
	s.mux.HandleFunc("/books", s.handleBooks)
	s.mux.HandleFunc("/books/search", s.handleBookSearch)
	s.mux.HandleFunc("/books/filter/price", s.handleBookPriceFilter)
	s.mux.HandleFunc("/books/latest", s.handleLatestBooks)
	s.mux.HandleFunc("/books/popular/ratings", s.handlePopularByRatings)
	s.mux.HandleFunc("/books/popular/comments", s.handlePopularByComments)
	s.mux.HandleFunc("/books/recommend/random", s.handleRandomBooks)
	s.mux.HandleFunc("/books/", s.handleBookByID)

	// comments
	s.mux.Handle("/comments", s.authenticated(s.handleCreateComment))
	s.mux.HandleFunc("/comments/book/", s.handleBookComments)
	s.mux.Handle("/comments/", s.authenticated(s.handleCommentByID))

	// ratings (GET public, writes authenticated)
	s.mux.HandleFunc("/ratings/summary/", s.handleRatingSummary)
	s.mux.HandleFunc("/ratings/", s.handleRatings)

	// admin
	s.mux.Handle("/admin/users", s.adminOnly(s.handleAdminUsers))
	s.mux.Handle("/admin/users/", s.adminOnly(s.handleAdminUserByID))
	s.mux.Handle("/admin/books", s.adminOnly(s.handleAdminCreateBook))
	s.mux.Handle("/admin/books/", s.adminOnly(s.handleAdminBookByID))
	s.mux.Handle("/admin/dashboard/stats", s.adminOnly(s.handleDashboardStats))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.AuthUser)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authorize(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		next(w, r, user)
	})
}

func (s *Server) adminOnly(next authHandler) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.AuthUser) {
		if err := s.app.RequireAdmin(user); err != nil {
			s.fail(w, r, err)
			return
		}
		next(w, r, user)
	})
}

func (s *Server) authorize(r *http.Request) (domain.AuthUser, error) {
	token, ok := bearerToken(r)
	if !ok {
		return domain.AuthUser{}, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized,
			"Missing or invalid Authorization header")
	}
	return s.app.Authenticate(token)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// fail writes the error envelope, logging unexpected errors first.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if _, ok := err.(*apierr.Error); !ok {
		util.LoggerFromContext(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
	}
	apierr.Write(w, r, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a request body, reshaping malformed JSON into the
// validation envelope.
func decodeJSON(r *http.Request, dst any) *apierr.Error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		return apierr.Validation(apierr.FieldError{Field: "body", Msg: "malformed JSON body"})
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierr.Write(w, r, apierr.New(http.StatusMethodNotAllowed, apierr.CodeBadRequest, "Method not allowed"))
}
