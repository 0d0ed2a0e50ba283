// Package metrics defines the custom Prometheus metrics for the watchlist
// API. It is the single source of truth for metric names, labels, and help
// strings. HTTP-level metrics come from the echoprometheus middleware; the
// counters here cover domain events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "watchlist"

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created.",
	},
)

// EntriesCreatedTotal counts created watchlist entries.
// Label:
//   - kind: "anime" or "manga"
var EntriesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_created_total",
		Help:      "Total number of watchlist entries created, by kind.",
	},
	[]string{"kind"},
)

// UniquenessConflictsTotal counts rejected writes that violated a uniqueness
// rule.
// Label:
//   - field: "title", "name", or "username"
var UniquenessConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uniqueness_conflicts_total",
		Help:      "Total number of writes rejected by a uniqueness rule, by field.",
	},
	[]string{"field"},
)

// TokenRejectionsTotal counts bearer tokens rejected during identity
// resolution.
// Label:
//   - reason: "empty", "malformed", "expired", "unsupported", "unknown_subject"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected bearer tokens, by reason.",
	},
	[]string{"reason"},
)
