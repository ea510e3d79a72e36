// Package metrics defines and registers all custom Prometheus metrics for the
// roster API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at import time and
// are served by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "roster"

// LoginsTotal counts login attempts.
// Labels:
//   - scheme: "api_key" (key-rotating login) or "session" (token login)
//   - outcome: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by scheme and outcome.",
	},
	[]string{"scheme", "outcome"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - outcome: "ok" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// CredentialValidationsTotal counts credential checks on protected routes.
// Labels:
//   - scheme: "session" or "api_key"
//   - result: "valid" or "invalid"
var CredentialValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_validations_total",
		Help:      "Total number of credential validations, by scheme and result.",
	},
	[]string{"scheme", "result"},
)

// RosterMutationsTotal counts successful roster writes.
// Label:
//   - op: "create", "update" or "delete"
var RosterMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of successful roster mutations, by operation.",
	},
	[]string{"op"},
)
