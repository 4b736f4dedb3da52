// Package metrics defines all custom Prometheus metrics for the booking
// system. It is the single source of truth for metric names, labels, and
// help strings; metrics register themselves with the default registry on
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// ── Booking flow ──────────────────────────────────────────────────────────────

// BookingsCreatedTotal counts committed bookings.
// Label:
//   - category: the booked space's category id
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings committed, by category.",
	},
	[]string{"category"},
)

// BookingErrorsTotal counts failed booking attempts.
// Label:
//   - reason: "user_not_found", "space_not_found", "space_unavailable",
//     "slot_conflict", "invalid_window", "idempotency_conflict",
//     "payment_failed"
var BookingErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_errors_total",
		Help:      "Total number of booking attempts that failed, by reason.",
	},
	[]string{"reason"},
)

// PostChargePersistFailuresTotal counts the dangerous failure mode: charge
// succeeded, transactional persist did not. Every increment represents
// money moved with no booking record and requires reconciliation.
var PostChargePersistFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_charge_persist_failures_total",
		Help:      "Bookings whose persist transaction failed after a successful charge.",
	},
)

// ChargeDuration measures the latency of the payment gateway charge call,
// the single blocking external call on the happy path.
var ChargeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "charge_duration_seconds",
		Help:      "Duration of payment gateway charge calls.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Notification sink ─────────────────────────────────────────────────────────

// NotificationsDeliveredTotal counts booking-created notifications handed to
// the presence sink.
// Label:
//   - result: "delivered" (recipient online) or "skipped" (offline)
var NotificationsDeliveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_delivered_total",
		Help:      "Total booking notifications fanned out, by delivery result.",
	},
	[]string{"result"},
)

// PresenceOnline tracks the number of users currently registered in the
// in-memory presence cache.
var PresenceOnline = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "presence_online_users",
		Help:      "Users currently present in the in-memory presence registry.",
	},
)
