package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fasilitas",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	reservationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fasilitas",
			Name:      "reservations_created_total",
			Help:      "Committed reservations by kind.",
		},
		[]string{"kind"},
	)

	reservationsCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fasilitas",
			Name:      "reservations_cancelled_total",
			Help:      "Cancelled reservations by kind.",
		},
		[]string{"kind"},
	)

	conflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fasilitas",
			Name:      "reservation_conflicts_total",
			Help:      "Create attempts rejected at commit time by kind.",
		},
		[]string{"kind"},
	)

	availabilityQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fasilitas",
			Name:      "availability_queries_total",
			Help:      "Availability lookups by kind.",
		},
		[]string{"kind"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			reservationsCreated,
			reservationsCancelled,
			conflicts,
			availabilityQueries,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncReservationCreated(kind string) {
	reservationsCreated.WithLabelValues(kind).Inc()
}

func IncReservationCancelled(kind string) {
	reservationsCancelled.WithLabelValues(kind).Inc()
}

func IncConflict(kind string) {
	conflicts.WithLabelValues(kind).Inc()
}

func IncAvailabilityQuery(kind string) {
	availabilityQueries.WithLabelValues(kind).Inc()
}
