// Package metrics defines and registers all custom Prometheus metrics for the
// obra-monitor API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package load; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "obra"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// PermissionDeniedTotal counts requests rejected by the capability guard.
// Label:
//   - capability: the capability the route required
var PermissionDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denied_total",
		Help:      "Total number of requests rejected with 403 by the capability guard.",
	},
	[]string{"capability"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsProcessedTotal counts progress reports that applied successfully.
// Label:
//   - period: the reporting period (e.g. "2026-08")
var ReportsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_processed_total",
		Help:      "Total number of progress reports successfully applied.",
	},
	[]string{"period"},
)

// ReportsErrorsTotal counts reports that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "unknown_section", "project_not_found", "update_failed")
var ReportsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_errors_total",
		Help:      "Total number of progress reports that failed processing.",
	},
	[]string{"reason"},
)

// ReportsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new report, processed)
var ReportsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_dedup_total",
		Help:      "Total number of report deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ReportsQueueDepth tracks the current number of reports waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ReportsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reports_queue_depth",
		Help:      "Current number of reports pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ReportProcessingDuration measures how long a single report takes to apply end-to-end.
var ReportProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_processing_duration_seconds",
		Help:      "Duration of report processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Project metrics ───────────────────────────────────────────────────────────

// ProjectsCreatedTotal counts newly registered projects.
// Label:
//   - district_id: the district the project belongs to
var ProjectsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created, by district.",
	},
	[]string{"district_id"},
)
