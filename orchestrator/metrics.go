package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProcessedBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orchestrator",
		Subsystem: "watcher",
		Name:      "processed_batches_total",
		Help:      "Number of event batches fully processed by the watcher.",
	}, []string{"watcher", "source"})
	SubmittedActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orchestrator",
		Subsystem: "watcher",
		Name:      "submitted_actions_total",
		Help:      "Number of actions stored as pending and submitted for execution.",
	}, []string{"watcher", "action_type"})
	SkippedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orchestrator",
		Subsystem: "watcher",
		Name:      "skipped_events_total",
		Help:      "Number of events skipped as unrecognized or undecodable.",
	}, []string{"watcher", "source"})
	LatestEVMCursorBlock = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "orchestrator",
		Subsystem: "watcher",
		Name:      "latest_evm_cursor_block",
		Help:      "Shows the latest block for the particular contract whose logs are fully processed.",
	}, []string{"address"})
	LatestNativeCursorSeq = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "orchestrator",
		Subsystem: "watcher",
		Name:      "latest_native_cursor_event_seq",
		Help:      "Shows the event sequence number of the latest processed event of the particular module.",
	}, []string{"module"})
)
