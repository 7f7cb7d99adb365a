package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BookingsCreated counts booking creation attempts by outcome
	// (confirmed, payment_failed, conflict, rejected).
	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "padel",
			Name:      "bookings_created_total",
			Help:      "Booking creation attempts by outcome",
		},
		[]string{"outcome"},
	)

	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "padel",
			Name:      "booking_transitions_total",
			Help:      "Booking state transitions by event",
		},
		[]string{"event", "to"},
	)

	WalletTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "padel",
			Name:      "wallet_transactions_total",
			Help:      "Ledger entries appended by transaction type",
		},
		[]string{"type"},
	)

	PaymentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "padel",
			Name:      "payment_initiation_duration_seconds",
			Help:      "Latency of payment gateway calls",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "padel",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code",
		},
		[]string{"method", "code"},
	)
)

// ObservePayment records a gateway call that started at start.
func ObservePayment(start time.Time, result string) {
	PaymentDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
