package evmsyncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LatestHeadBlock = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "orchestrator",
		Subsystem: "evm_syncer",
		Name:      "head_block",
		Help:      "Shows the latest confirmed block number observed on the chain.",
	}, []string{"chain_id"})
	LatestFetchedBlock = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "orchestrator",
		Subsystem: "evm_syncer",
		Name:      "fetched_block",
		Help:      "Shows the latest block number for the particular contract whose logs were delivered to the orchestrator.",
	}, []string{"chain_id", "address"})
	FetchedLogs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orchestrator",
		Subsystem: "evm_syncer",
		Name:      "fetched_logs_total",
		Help:      "Number of contract logs fetched from the chain.",
	}, []string{"chain_id", "address"})
)
