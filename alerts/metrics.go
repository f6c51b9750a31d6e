package alerts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var AlertStuckPendingAction = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "alert",
	Subsystem: "orchestrator",
	Name:      "stuck_pending_action",
	Help:      "Shows age in seconds of bridge actions which are still pending execution after the configured threshold.",
}, []string{"chain_id", "action_type", "seq_num", "digest"})
