// Package metrics defines the custom Prometheus metrics of the todo API.
//
// Every collector is registered on Registry, which the router also hands to
// the echoprometheus middleware and the /metrics handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// Registry holds the process and Go runtime collectors plus everything below.
var Registry = newRegistry()

var factory = promauto.With(Registry)

func newRegistry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ── Auth metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful sign-ups.
var UsersRegisteredTotal = factory.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users registered.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "unknown_email", "bad_password" or "error"
var LoginsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts revoked tokens.
var LogoutsTotal = factory.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of tokens revoked through logout.",
	},
)

// AuthRejectionsTotal counts requests stopped by the authentication gate.
// Label:
//   - reason: "missing" (no x-auth header) or "invalid"
var AuthRejectionsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the authentication gate.",
	},
	[]string{"reason"},
)

// ── Todo metrics ──────────────────────────────────────────────────────────────

// TodoOperationsTotal counts successful todo mutations.
// Label:
//   - operation: "create", "update" or "delete"
var TodoOperationsTotal = factory.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todo_operations_total",
		Help:      "Total number of successful todo mutations, by operation.",
	},
	[]string{"operation"},
)
