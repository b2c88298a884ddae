package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "galli2globe",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	signups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "galli2globe",
			Name:      "signups_total",
			Help:      "Traveler accounts created.",
		},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "galli2globe",
			Name:      "bookings_total",
			Help:      "Booking operations by kind.",
		},
		[]string{"operation"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, signups, bookings)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncSignup counts a created account.
func IncSignup() {
	signups.Inc()
}

func IncBookingCreated()   { bookings.WithLabelValues("created").Inc() }
func IncBookingCancelled() { bookings.WithLabelValues("cancelled").Inc() }
func IncBookingDeleted()   { bookings.WithLabelValues("deleted").Inc() }
