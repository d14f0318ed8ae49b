package manager

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"bestbuddies/internal/model"
	"bestbuddies/internal/slots"
)

// Overview is the admin landing-page summary.
type Overview struct {
	TotalBookings     int `json:"totalBookings"`
	PendingBookings   int `json:"pendingBookings"`
	ConfirmedBookings int `json:"confirmedBookings"`
	TotalCustomers    int `json:"totalCustomers"`
}

// CustomerSummary is a customer row with their booking count. The
// credential never leaves the store through this path.
type CustomerSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"createdAt"`
	BookingCount int       `json:"bookingCount"`
}

// Overview returns the dashboard counters.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list bookings: %w", err)
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list users: %w", err)
	}

	o := Overview{TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case model.StatusPending:
			o.PendingBookings++
		case model.StatusConfirmed:
			o.ConfirmedBookings++
		}
	}
	for _, u := range users {
		if u.Role == model.RoleCustomer {
			o.TotalCustomers++
		}
	}
	return o, nil
}

// Recent returns the newest bookings, most recent first.
func (s *Service) Recent(ctx context.Context, limit int) ([]model.Booking, error) {
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	if limit > 0 && len(bookings) > limit {
		bookings = bookings[:limit]
	}
	return bookings, nil
}

// BookingsByStatus returns bookings in the given status, optionally
// filtered by a case-insensitive search over customer, pet and package
// names.
func (s *Service) BookingsByStatus(ctx context.Context, status model.Status, query string) ([]model.Booking, error) {
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status != status {
			continue
		}
		if query != "" && !matchesQuery(b, query) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func matchesQuery(b model.Booking, query string) bool {
	return strings.Contains(strings.ToLower(b.CustomerName), query) ||
		strings.Contains(strings.ToLower(b.PetName), query) ||
		strings.Contains(strings.ToLower(b.PackageName), query)
}

// DaySchedule returns the non-cancelled bookings for a date, ordered by
// slot grid position.
func (s *Service) DaySchedule(ctx context.Context, date string) ([]model.Booking, error) {
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]model.Booking, 0, len(slots.Grid))
	for _, b := range bookings {
		if b.Date == date && b.Status.Occupies() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		hi, _ := slots.Hour24(out[i].Time)
		hj, _ := slots.Hour24(out[j].Time)
		return hi < hj
	})
	return out, nil
}

// Customers returns all customer accounts with their booking counts,
// oldest first.
func (s *Service) Customers(ctx context.Context) ([]CustomerSummary, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	counts := make(map[string]int)
	for _, b := range bookings {
		counts[b.UserID]++
	}

	out := make([]CustomerSummary, 0, len(users))
	for _, u := range users {
		if u.Role != model.RoleCustomer {
			continue
		}
		out = append(out, CustomerSummary{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			CreatedAt:    u.CreatedAt,
			BookingCount: counts[u.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
