// Package metrics defines and registers all custom Prometheus metrics
// for the clinical records API. It is the single source of truth for
// metric names, labels, and help strings; registration happens at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinical"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid", "deactivated" or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// UsersCreatedTotal counts staff accounts created, by entry point.
// Label:
//   - entry: "signup" (public create-initial) or "admin"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of staff accounts created, by entry point.",
	},
	[]string{"entry"},
)

// PatientsCreatedTotal counts registered patients.
var PatientsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "patients_created_total",
		Help:      "Total number of patients registered.",
	},
)

// HistoriesCreatedTotal counts recorded clinical visits.
var HistoriesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "histories_created_total",
		Help:      "Total number of clinical histories recorded.",
	},
)

// SearchesTotal counts clinical-history searches.
// Labels:
//   - kind: "document", "name" or "flexible"
//   - result: "hit" or "miss"
var SearchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of clinical history searches, by kind and result.",
	},
	[]string{"kind", "result"},
)
