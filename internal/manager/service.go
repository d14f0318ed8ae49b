// Package manager implements the admin-side operations: booking status
// transitions and the dashboard queries. Admin capability is enforced by
// the caller (internal/auth), not here.
package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"bestbuddies/internal/kvstore"
	"bestbuddies/internal/metrics"
	"bestbuddies/internal/model"
)

var (
	// ErrInvalidTransition is an illegal status change request. It is
	// not user-reachable through a well-behaved front end: logged and
	// rejected, nothing written.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound means the referenced booking id is absent from the
	// store.
	ErrNotFound = errors.New("booking not found")
)

// transitions lists the allowed forward moves. Cancelled is terminal.
var transitions = map[model.Status][]model.Status{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCancelled},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to model.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Recorder appends an entry to the audit trail.
type Recorder interface {
	Record(ctx context.Context, actor, action, bookingID, detail string) error
}

// Service provides manager operations over the store.
type Service struct {
	store  kvstore.Store
	audit  Recorder
	logger zerolog.Logger
}

// NewService creates a manager service. audit may be nil.
func NewService(store kvstore.Store, audit Recorder, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		audit:  audit,
		logger: logger.With().Str("component", "manager").Logger(),
	}
}

// Confirm moves a pending booking to confirmed.
func (s *Service) Confirm(ctx context.Context, actor model.User, bookingID string) (model.Booking, error) {
	return s.transition(ctx, actor, bookingID, model.StatusConfirmed)
}

// Cancel moves a pending or confirmed booking to cancelled, freeing its
// time slot.
func (s *Service) Cancel(ctx context.Context, actor model.User, bookingID string) (model.Booking, error) {
	return s.transition(ctx, actor, bookingID, model.StatusCancelled)
}

func (s *Service) transition(ctx context.Context, actor model.User, bookingID string, to model.Status) (model.Booking, error) {
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return model.Booking{}, fmt.Errorf("list bookings: %w", err)
	}

	idx := model.FindBooking(bookings, bookingID)
	if idx < 0 {
		return model.Booking{}, fmt.Errorf("%w: %s", ErrNotFound, bookingID)
	}

	from := bookings[idx].Status
	if !CanTransition(from, to) {
		s.logger.Warn().
			Str("booking_id", bookingID).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("rejected status transition")
		return model.Booking{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	bookings[idx].Status = to
	if err := s.store.SaveBookings(ctx, bookings); err != nil {
		return model.Booking{}, fmt.Errorf("save bookings: %w", err)
	}

	if s.audit != nil {
		detail := fmt.Sprintf("%s -> %s", from, to)
		if err := s.audit.Record(ctx, actor.Email, "status_change", bookingID, detail); err != nil {
			s.logger.Warn().Err(err).Msg("audit record failed")
		}
	}
	metrics.IncStatusDecision(string(to))

	s.logger.Info().
		Str("booking_id", bookingID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor", actor.ID).
		Msg("booking status changed")

	return bookings[idx], nil
}
