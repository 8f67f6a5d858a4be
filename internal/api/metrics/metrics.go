// Package metrics defines and registers all custom Prometheus metrics for
// the approvals API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "approvals"

// RequestsCreatedTotal counts newly created approval requests.
// Label:
//   - type: "Access", "Finance", or "General"
var RequestsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of approval requests created, by type.",
	},
	[]string{"type"},
)

// TransitionsTotal counts completed workflow transitions.
// Label:
//   - action: "submit", "approve", or "reject"
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of completed status transitions, by action.",
	},
	[]string{"action"},
)

// WorkflowErrorsTotal counts requests rejected by the workflow rules.
// Label:
//   - reason: "unauthenticated", "forbidden", "not_found", "invalid_state",
//     "invalid_input", or "internal"
var WorkflowErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_errors_total",
		Help:      "Total number of operations refused by workflow validation.",
	},
	[]string{"reason"},
)
