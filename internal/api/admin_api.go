package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bestbuddies/internal/audit"
	"bestbuddies/internal/export"
	"bestbuddies/internal/model"
	"bestbuddies/internal/slots"
)

func (s *HTTPServer) handleOverview(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.RequireAdmin(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}

	overview, err := s.manager.Overview(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("overview failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	recent, err := s.manager.Recent(r.Context(), 10)
	if err != nil {
		s.logger.Error().Err(err).Msg("recent bookings failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"overview": overview,
		"recent":   recent,
	})
}

// handleAdminBookings lists bookings by status with optional search.
// GET /api/admin/bookings?status=pending&q=rex
func (s *HTTPServer) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.RequireAdmin(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}

	status := model.Status(r.URL.Query().Get("status"))
	switch status {
	case model.StatusPending, model.StatusConfirmed, model.StatusCancelled:
	default:
		writeError(w, http.StatusBadRequest, "status must be pending, confirmed or cancelled")
		return
	}

	bookings, err := s.manager.BookingsByStatus(r.Context(), status, r.URL.Query().Get("q"))
	if err != nil {
		s.logger.Error().Err(err).Msg("bookings by status failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleSchedule returns the day calendar for a date.
// GET /api/admin/schedule?date=YYYY-MM-DD
func (s *HTTPServer) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.RequireAdmin(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}

	date := r.URL.Query().Get("date")
	if _, err := time.Parse(slots.DateFormat, date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	bookings, err := s.manager.DaySchedule(r.Context(), date)
	if err != nil {
		s.logger.Error().Err(err).Msg("day schedule failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleCustomers(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.RequireAdmin(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}

	customers, err := s.manager.Customers(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("customers failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// StatusChangeRequest is the body for POST /api/admin/bookings/{id}/status.
type StatusChangeRequest struct {
	Status model.Status `json:"status"`
}

func (s *HTTPServer) handleStatusChange(w http.ResponseWriter, r *http.Request) {
	actor, err := s.auth.RequireAdmin(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	var req StatusChangeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := r.PathValue("id")
	var b model.Booking
	switch req.Status {
	case model.StatusConfirmed:
		b, err = s.manager.Confirm(r.Context(), actor, id)
	case model.StatusCancelled:
		b, err = s.manager.Cancel(r.Context(), actor, id)
	default:
		writeError(w, http.StatusBadRequest, "status must be confirmed or cancelled")
		return
	}
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.RequireAdmin(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}

	bookings, err := s.store.ListBookings(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list bookings failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list users failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if err := export.WriteBookingsReport(w, bookings, users); err != nil {
		s.logger.Error().Err(err).Msg("export failed")
	}
}

// handleAudit lists the newest audit trail entries.
// GET /api/admin/audit?limit=50
func (s *HTTPServer) handleAudit(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.RequireAdmin(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}

	if s.trail == nil {
		writeJSON(w, http.StatusOK, []audit.Event{})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := s.trail.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("audit listing failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
