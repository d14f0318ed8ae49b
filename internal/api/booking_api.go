package api

import (
	"net/http"
	"time"

	"bestbuddies/internal/booking"
	"bestbuddies/internal/model"
	"bestbuddies/internal/slots"
)

// handlePackages returns the catalogue, optionally filtered by pet type.
// GET /api/packages?type=dog
func (s *HTTPServer) handlePackages(w http.ResponseWriter, r *http.Request) {
	packages, err := s.store.ListPackages(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list packages failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if t := model.PetType(r.URL.Query().Get("type")); t != "" {
		filtered := make([]model.Package, 0, len(packages))
		for _, p := range packages {
			if p.Type == t {
				filtered = append(filtered, p)
			}
		}
		packages = filtered
	}
	writeJSON(w, http.StatusOK, packages)
}

// AvailabilityResponse is the body for GET /api/availability.
type AvailabilityResponse struct {
	Date  string       `json:"date"`
	Slots []slots.Slot `json:"slots"`
}

// handleAvailability returns the slot grid for a date.
// GET /api/availability?date=YYYY-MM-DD
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	if _, err := time.Parse(slots.DateFormat, date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	grid, err := s.committer.Availability(r.Context(), date, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("availability failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityResponse{Date: date, Slots: grid})
}

// CreateBookingRequest is the completed draft submitted by the client.
// The step flow itself runs client-side; the commit re-validates every
// step against the store before writing.
type CreateBookingRequest struct {
	PetType   model.PetType `json:"petType"`
	PackageID string        `json:"packageId"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	PetName   string        `json:"petName"`
	Phone     string        `json:"phone"`
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Current(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	var req CreateBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	flow := booking.Flow{
		Step: booking.StepContact,
		Draft: booking.Draft{
			PetType:   req.PetType,
			PackageID: req.PackageID,
			Date:      req.Date,
			Time:      req.Time,
			PetName:   req.PetName,
			Phone:     req.Phone,
		},
	}

	_, b, err := s.committer.Commit(r.Context(), flow, user, time.Now())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *HTTPServer) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Current(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	bookings, err := s.customer.Bookings(r.Context(), user.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("list user bookings failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleMyStats(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Current(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	stats, err := s.customer.QuickStats(r.Context(), user.ID, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("quick stats failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleLastBooking returns and clears the one-shot commit handoff.
func (s *HTTPServer) handleLastBooking(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.Current(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}

	b, ok, err := s.store.TakeLastBooking(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("take last booking failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no recent booking")
		return
	}
	writeJSON(w, http.StatusOK, b)
}
