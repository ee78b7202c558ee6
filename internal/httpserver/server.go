// internal/httpserver/server.go
//
// HTTP server wiring for the gridword backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Puzzle endpoints (optional auth): /puzzle/*, /attempt/finish, /report.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me.
//   - Admin endpoints (require admin): /admin/*.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; guests get a stable anonymous cookie instead, so their
//     attempts persist across visits.

package httpserver

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/letterbox-games/gridword/internal/attempt"
	"github.com/letterbox-games/gridword/internal/config"
	"github.com/letterbox-games/gridword/internal/puzzle"
	"github.com/letterbox-games/gridword/internal/report"
)

// Server bundles the router, config, and store handles.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	db       *sql.DB
	puzzles  *puzzle.Store
	attempts *attempt.Store
	reports  *report.Store
	now      func() time.Time // injectable clock for tests
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, db *sql.DB) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		db:       db,
		puzzles:  puzzle.NewStore(db),
		attempts: attempt.NewStore(db),
		reports:  report.NewStore(db),
		now:      func() time.Time { return time.Now().UTC() },
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromConfig(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "gridword",
			"endpoints": []string{"/health", "GET /puzzle/today", "POST /puzzle/check", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Puzzle play, optional auth: guests play via anonymous cookie.
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Get("/puzzle/today", s.handleToday)
		r.Get("/puzzle/yesterday", s.handleYesterday)
		r.Post("/puzzle/save", s.handleSave)
		r.Post("/puzzle/check", s.handleCheck)
		r.Post("/puzzle/hint", s.handleHint)
		r.Post("/puzzle/share", s.handleShare)
		r.Post("/attempt/finish", s.handleFinish)
		r.Post("/report", s.handleCreateReport)
	})

	// Auth + profile/stats.
	s.mountAuthRoutes()

	// Admin management.
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin())
		r.Get("/admin/puzzles", s.handleAdminListPuzzles)
		r.Post("/admin/puzzle", s.handleAdminCreatePuzzle)
		r.Get("/admin/puzzle/{id}", s.handleAdminGetPuzzle)
		r.Put("/admin/puzzle/{id}", s.handleAdminUpdatePuzzle)
		r.Delete("/admin/puzzle/{id}", s.handleAdminDeletePuzzle)
		r.Get("/admin/reports", s.handleAdminListReports)
		r.Put("/admin/report/{id}", s.handleAdminResolveReport)
	})

	// JSON 404 for easier debugging.
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromConfig enables credentialed CORS for a single origin.
func corsFromConfig(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
