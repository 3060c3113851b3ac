// Package metrics exposes Prometheus instrumentation for the wallet core.
// Everything is registered on the default registry and served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClientsRegistered counts successful client registrations.
	ClientsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_clients_registered_total",
		Help: "Number of clients registered.",
	})

	// Recharges counts applied CREDIT ledger entries.
	Recharges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_recharges_total",
		Help: "Number of wallet recharges applied.",
	})

	// SessionsInitiated counts PENDING payment sessions created.
	SessionsInitiated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_payment_sessions_initiated_total",
		Help: "Number of payment sessions created.",
	})

	// SessionsConfirmed counts settled payment sessions.
	SessionsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_payment_sessions_confirmed_total",
		Help: "Number of payment sessions confirmed and debited.",
	})

	// SessionsExpired counts lazy PENDING -> EXPIRED transitions.
	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_payment_sessions_expired_total",
		Help: "Number of payment sessions expired on confirmation attempt.",
	})

	// OperationErrors counts domain errors by operation and error code.
	OperationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_operation_errors_total",
		Help: "Domain errors returned by wallet operations.",
	}, []string{"operation", "code"})

	// SettlementDuration observes the confirm critical section end to end.
	SettlementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wallet_settlement_duration_seconds",
		Help:    "Duration of payment settlement transactions.",
		Buckets: prometheus.DefBuckets,
	})

	// NotificationDeliveries counts token notification outcomes.
	NotificationDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_notification_deliveries_total",
		Help: "Token notification delivery attempts by outcome.",
	}, []string{"outcome"})
)
