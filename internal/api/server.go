// Package api exposes the booking core as a JSON HTTP API so any front
// end (web, CLI, tests) can drive it without a coupled view layer.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"bestbuddies/internal/audit"
	"bestbuddies/internal/auth"
	"bestbuddies/internal/booking"
	"bestbuddies/internal/customer"
	"bestbuddies/internal/kvstore"
	"bestbuddies/internal/manager"
)

// HTTPServer wires the core services behind the JSON endpoints.
type HTTPServer struct {
	store     kvstore.Store
	auth      *auth.Service
	committer *booking.Committer
	manager   *manager.Service
	customer  *customer.Service
	trail     *audit.Trail
	logger    zerolog.Logger
	mux       *http.ServeMux
}

// NewHTTPServer builds the server and registers its routes. trail may
// be nil, in which case the audit listing endpoint reports empty.
func NewHTTPServer(
	store kvstore.Store,
	authSvc *auth.Service,
	committer *booking.Committer,
	managerSvc *manager.Service,
	customerSvc *customer.Service,
	trail *audit.Trail,
	logger zerolog.Logger,
) *HTTPServer {
	s := &HTTPServer{
		store:     store,
		auth:      authSvc,
		committer: committer,
		manager:   managerSvc,
		customer:  customerSvc,
		trail:     trail,
		logger:    logger.With().Str("component", "api").Logger(),
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *HTTPServer) routes() {
	s.mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	s.mux.HandleFunc("GET /api/auth/me", s.handleMe)

	s.mux.HandleFunc("GET /api/packages", s.handlePackages)
	s.mux.HandleFunc("GET /api/availability", s.handleAvailability)

	s.mux.HandleFunc("POST /api/bookings", s.handleCreateBooking)
	s.mux.HandleFunc("GET /api/bookings", s.handleMyBookings)
	s.mux.HandleFunc("GET /api/bookings/stats", s.handleMyStats)
	s.mux.HandleFunc("GET /api/bookings/last", s.handleLastBooking)

	s.mux.HandleFunc("GET /api/admin/overview", s.handleOverview)
	s.mux.HandleFunc("GET /api/admin/bookings", s.handleAdminBookings)
	s.mux.HandleFunc("GET /api/admin/schedule", s.handleSchedule)
	s.mux.HandleFunc("GET /api/admin/customers", s.handleCustomers)
	s.mux.HandleFunc("POST /api/admin/bookings/{id}/status", s.handleStatusChange)
	s.mux.HandleFunc("GET /api/admin/export", s.handleExport)
	s.mux.HandleFunc("GET /api/admin/audit", s.handleAudit)

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the root handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeCoreError maps the core error taxonomy onto HTTP statuses.
func writeCoreError(w http.ResponseWriter, err error) {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, booking.ErrSlotConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, manager.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, manager.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
