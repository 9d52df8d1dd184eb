// Package metrics defines and registers all custom Prometheus metrics for the
// DML Logistics portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Tracking metrics ──────────────────────────────────────────────────────────

// TrackingLookupsTotal counts tracking queries by how they ended.
// Labels:
//   - outcome: "resolved", "not_found", "invalid", "superseded" or "cancelled"
//   - branch: the reconciliation source used ("history", "snapshot", "status"), or "none"
var TrackingLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_lookups_total",
		Help:      "Total number of tracking queries, by outcome and reconciliation branch.",
	},
	[]string{"outcome", "branch"},
)

// TrackingFetchAttemptsTotal counts individual backend calls made while resolving.
// Labels:
//   - endpoint: "details" or "status"
//   - result: "ok" or "error"
var TrackingFetchAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_fetch_attempts_total",
		Help:      "Total number of backend fetch attempts made by the tracking resolver.",
	},
	[]string{"endpoint", "result"},
)

// TrackingResolveDuration measures a full resolve, both fetches included.
var TrackingResolveDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tracking_resolve_duration_seconds",
		Help:      "Duration of tracking resolution from request to reconciled view.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Shipment metrics ──────────────────────────────────────────────────────────

// ShipmentListFetchTotal counts shipment list reads.
// Labels:
//   - scope: "admin" or "user"
//   - result: "ok", "error" or "cache_hit"
var ShipmentListFetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipment_list_fetch_total",
		Help:      "Total number of shipment list reads, by scope and result.",
	},
	[]string{"scope", "result"},
)

// ShipmentMutationsTotal counts create/update calls forwarded to the backend.
// Labels:
//   - kind: "create" or "update_status"
//   - result: "ok", "rejected", "error" or "duplicate"
var ShipmentMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipment_mutations_total",
		Help:      "Total number of shipment mutations, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ── Receipt metrics ───────────────────────────────────────────────────────────

// ReceiptsGeneratedTotal counts receipt renders.
// Label:
//   - path: "primary", "fallback" or "failed"
var ReceiptsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receipts_generated_total",
		Help:      "Total number of PDF receipts rendered, by encoding path.",
	},
	[]string{"path"},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityEntriesTotal counts activity entries by what happened to them.
// Label:
//   - result: "stored", "dropped" or "error"
var ActivityEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_entries_total",
		Help:      "Total number of activity log entries, by result.",
	},
	[]string{"result"},
)
