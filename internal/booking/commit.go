package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bestbuddies/internal/kvstore"
	"bestbuddies/internal/metrics"
	"bestbuddies/internal/model"
	"bestbuddies/internal/slots"
)

// Recorder appends an entry to the audit trail.
type Recorder interface {
	Record(ctx context.Context, actor, action, bookingID, detail string) error
}

// Committer turns a completed draft into a persisted booking.
type Committer struct {
	store  kvstore.Store
	audit  Recorder
	logger zerolog.Logger
}

// NewCommitter creates a committer. audit may be nil.
func NewCommitter(store kvstore.Store, audit Recorder, logger zerolog.Logger) *Committer {
	return &Committer{
		store:  store,
		audit:  audit,
		logger: logger.With().Str("component", "booking").Logger(),
	}
}

// Commit validates the whole draft against the current store contents
// and appends the new booking with status pending. Availability is
// re-checked here, immediately before the write, to narrow the window
// between slot selection and submission; a lost slot surfaces as
// ErrSlotConflict and the flow is returned unchanged so the caller can
// send the user back to the date step.
func (c *Committer) Commit(ctx context.Context, f Flow, user model.User, now time.Time) (Flow, model.Booking, error) {
	if f.Step == StepSubmitted {
		return f, model.Booking{}, ErrFlowComplete
	}
	if f.Step != StepContact {
		return f, model.Booking{}, &ValidationError{Field: "step", Reason: "booking flow is not complete"}
	}

	packages, err := c.store.ListPackages(ctx)
	if err != nil {
		return f, model.Booking{}, fmt.Errorf("list packages: %w", err)
	}
	bookings, err := c.store.ListBookings(ctx)
	if err != nil {
		return f, model.Booking{}, fmt.Errorf("list bookings: %w", err)
	}

	env := Env{Packages: packages, Bookings: bookings, Now: now}
	for _, step := range []Step{StepPetType, StepPackage, StepDateTime, StepContact} {
		if err := f.validateStep(step, env); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) && verr.Field == "time" && verr.Reason == "slot not available" {
				metrics.IncSlotConflict()
				c.logger.Warn().
					Str("date", f.Draft.Date).
					Str("time", f.Draft.Time).
					Msg("slot taken between selection and commit")
				return f, model.Booking{}, ErrSlotConflict
			}
			return f, model.Booking{}, err
		}
	}

	pkg, _ := model.FindPackage(packages, f.Draft.PackageID)

	id := model.NewBookingID(now)
	if model.FindBooking(bookings, id) >= 0 {
		// Same-second collision; keep the id unique at the cost of the
		// human-readable format.
		id = id + "-" + uuid.NewString()[:8]
	}

	b := model.Booking{
		ID:           id,
		UserID:       user.ID,
		PetName:      strings.TrimSpace(f.Draft.PetName),
		PetType:      f.Draft.PetType,
		PackageID:    pkg.ID,
		PackageName:  pkg.Name,
		Date:         f.Draft.Date,
		Time:         f.Draft.Time,
		Phone:        strings.TrimSpace(f.Draft.Phone),
		CustomerName: user.Name,
		Status:       model.StatusPending,
		CreatedAt:    now,
	}

	if err := c.store.SaveBookings(ctx, append(bookings, b)); err != nil {
		return f, model.Booking{}, fmt.Errorf("save bookings: %w", err)
	}
	if err := c.store.SetLastBooking(ctx, b); err != nil {
		// The booking is already persisted; the handoff is best-effort.
		c.logger.Warn().Err(err).Str("booking_id", b.ID).Msg("failed to store last-booking handoff")
	}

	if c.audit != nil {
		if err := c.audit.Record(ctx, user.Email, "booking_created", b.ID, slotDetail(b)); err != nil {
			c.logger.Warn().Err(err).Msg("audit record failed")
		}
	}
	metrics.IncBookingCreated(string(b.PetType))

	c.logger.Info().
		Str("booking_id", b.ID).
		Str("user_id", user.ID).
		Str("date", b.Date).
		Str("time", b.Time).
		Str("package", b.PackageID).
		Msg("booking committed")

	return Flow{Step: StepSubmitted}, b, nil
}

func slotDetail(b model.Booking) string {
	return fmt.Sprintf("%s %s %s", b.Date, b.Time, b.PackageID)
}

// Availability is a convenience wrapper that reads the booking
// collection and evaluates the slot grid for date.
func (c *Committer) Availability(ctx context.Context, date string, now time.Time) ([]slots.Slot, error) {
	bookings, err := c.store.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return slots.Availability(date, bookings, now), nil
}
