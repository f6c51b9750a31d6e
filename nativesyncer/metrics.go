package nativesyncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var FetchedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "orchestrator",
	Subsystem: "native_syncer",
	Name:      "fetched_events_total",
	Help:      "Number of module events delivered to the orchestrator.",
}, []string{"module"})
