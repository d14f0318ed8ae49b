package model

import (
	"fmt"
	"time"
)

// Status is the lifecycle stage of a persisted booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Occupies reports whether a booking in this status holds its time slot.
// Cancelled bookings free the slot.
func (s Status) Occupies() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Booking is a committed appointment. Date is a calendar day in ISO form
// ("2006-01-02"); Time is one of the fixed slot labels from internal/slots.
type Booking struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	PetName      string    `json:"petName"`
	PetType      PetType   `json:"petType"`
	PackageID    string    `json:"packageId"`
	PackageName  string    `json:"packageName"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Phone        string    `json:"phone"`
	CustomerName string    `json:"customerName"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewBookingID derives an identifier from the commit instant. It is
// human-inspectable and sorts by creation order at second granularity;
// the committer falls back to a suffixed id on a same-second collision.
func NewBookingID(now time.Time) string {
	return fmt.Sprintf("%s_%s", now.Format("2006-01-02"), now.Format("15-04-05"))
}

// FindBooking returns the index of the booking with the given id, or -1.
func FindBooking(bookings []Booking, id string) int {
	for i := range bookings {
		if bookings[i].ID == id {
			return i
		}
	}
	return -1
}
