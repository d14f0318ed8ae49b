// Package slots computes availability of the fixed daily slot grid from
// the stored booking set. The engine is pure: callers supply the
// evaluation instant.
package slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bestbuddies/internal/model"
)

// DateFormat is the calendar-day form used everywhere a booking date is
// stored or compared.
const DateFormat = "2006-01-02"

// Grid is the closed set of bookable time labels, in display order.
var Grid = []string{"9am", "10am", "11am", "12pm", "1pm", "2pm", "3pm", "4pm", "5pm"}

// Reason a slot is unavailable.
type Reason string

const (
	ReasonPastDate Reason = "past_date"
	ReasonBooked   Reason = "booked"
	ReasonPastHour Reason = "past_hour"
)

// Slot is one grid entry with its computed availability.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    Reason `json:"reason,omitempty"`
}

// ValidLabel reports whether label is one of the 9 grid labels.
func ValidLabel(label string) bool {
	for _, l := range Grid {
		if l == label {
			return true
		}
	}
	return false
}

// Hour24 converts a grid label to its 24-hour start hour. 12am maps to 0
// and 12pm to 12.
func Hour24(label string) (int, error) {
	var suffix string
	switch {
	case strings.HasSuffix(label, "am"):
		suffix = "am"
	case strings.HasSuffix(label, "pm"):
		suffix = "pm"
	default:
		return 0, fmt.Errorf("invalid slot label %q", label)
	}

	h, err := strconv.Atoi(strings.TrimSuffix(label, suffix))
	if err != nil || h < 1 || h > 12 {
		return 0, fmt.Errorf("invalid slot label %q", label)
	}

	switch {
	case suffix == "pm" && h != 12:
		return h + 12, nil
	case suffix == "am" && h == 12:
		return 0, nil
	default:
		return h, nil
	}
}

// Today returns the calendar day of now in ISO form.
func Today(now time.Time) string {
	return now.Format(DateFormat)
}

// IsPastDate reports whether date is strictly before the calendar day of
// now. ISO-form dates compare lexicographically.
func IsPastDate(date string, now time.Time) bool {
	return date < Today(now)
}

// BookedTimes collects the time labels occupied on date. Cancelled
// bookings do not occupy their slot.
func BookedTimes(date string, bookings []model.Booking) map[string]bool {
	booked := make(map[string]bool)
	for _, b := range bookings {
		if b.Date == date && b.Status.Occupies() {
			booked[b.Time] = true
		}
	}
	return booked
}

// Availability computes the grid for date against the given bookings,
// evaluated at now. Order follows Grid.
//
// For today's date the cutoff is hour-granular: a slot whose start hour
// is less than or equal to the current hour is unavailable even if its
// minute has not elapsed. That matches the shipped behavior and is
// pinned by tests; do not tighten it to minute precision.
func Availability(date string, bookings []model.Booking, now time.Time) []Slot {
	out := make([]Slot, 0, len(Grid))

	if IsPastDate(date, now) {
		for _, label := range Grid {
			out = append(out, Slot{Time: label, Reason: ReasonPastDate})
		}
		return out
	}

	booked := BookedTimes(date, bookings)
	isToday := date == Today(now)

	for _, label := range Grid {
		s := Slot{Time: label, Available: true}
		switch {
		case booked[label]:
			s.Available = false
			s.Reason = ReasonBooked
		case isToday:
			if h, err := Hour24(label); err == nil && h <= now.Hour() {
				s.Available = false
				s.Reason = ReasonPastHour
			}
		}
		out = append(out, s)
	}
	return out
}

// IsAvailable reports whether the single (date, label) slot is bookable.
func IsAvailable(date, label string, bookings []model.Booking, now time.Time) bool {
	if !ValidLabel(label) {
		return false
	}
	for _, s := range Availability(date, bookings, now) {
		if s.Time == label {
			return s.Available
		}
	}
	return false
}
