// Package customer implements the customer-side dashboard queries.
package customer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"bestbuddies/internal/kvstore"
	"bestbuddies/internal/model"
	"bestbuddies/internal/slots"
)

// Service answers per-user booking queries.
type Service struct {
	store  kvstore.Store
	logger zerolog.Logger
}

func NewService(store kvstore.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "customer").Logger(),
	}
}

// Stats are the quick counters on the customer dashboard.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Upcoming  int `json:"upcoming"`
}

// Bookings returns the user's bookings sorted by appointment time,
// newest first.
func (s *Service) Bookings(ctx context.Context, userID string) ([]model.Booking, error) {
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return startOf(out[i]).After(startOf(out[j]))
	})
	return out, nil
}

// QuickStats returns the counters for the user, evaluated at now.
func (s *Service) QuickStats(ctx context.Context, userID string, now time.Time) (Stats, error) {
	bookings, err := s.Bookings(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	st.Total = len(bookings)
	for _, b := range bookings {
		switch b.Status {
		case model.StatusPending:
			st.Pending++
		case model.StatusConfirmed:
			st.Confirmed++
		}
		if b.Status.Occupies() && !startOf(b).Before(now) {
			st.Upcoming++
		}
	}
	return st, nil
}

// startOf resolves a booking's appointment instant from its date and
// slot label. Unparseable records sort to the zero time.
func startOf(b model.Booking) time.Time {
	day, err := time.Parse(slots.DateFormat, b.Date)
	if err != nil {
		return time.Time{}
	}
	hour, err := slots.Hour24(b.Time)
	if err != nil {
		return day
	}
	return day.Add(time.Duration(hour) * time.Hour)
}
