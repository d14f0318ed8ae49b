package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bestbuddies",
			Name:      "booking_created_total",
			Help:      "Count of bookings committed, by pet type.",
		},
		[]string{"pet_type"},
	)

	slotConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bestbuddies",
			Name:      "booking_slot_conflict_total",
			Help:      "Count of commits rejected because the slot was taken.",
		},
	)

	statusDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bestbuddies",
			Name:      "status_decision_total",
			Help:      "Count of admin status decisions over bookings.",
		},
		[]string{"decision"},
	)

	loginAttempt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bestbuddies",
			Name:      "login_attempt_total",
			Help:      "Count of login attempts by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, slotConflict, statusDecision, loginAttempt)
	})
}

func IncBookingCreated(petType string) {
	bookingCreated.WithLabelValues(petType).Inc()
}

func IncSlotConflict() {
	slotConflict.Inc()
}

func IncStatusDecision(decision string) {
	statusDecision.WithLabelValues(decision).Inc()
}

func IncLoginAttempt(result string) {
	loginAttempt.WithLabelValues(result).Inc()
}
