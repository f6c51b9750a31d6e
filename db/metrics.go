package db

import (
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var QueryDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "orchestrator",
	Subsystem: "db",
	Name:      "query_duration_seconds",
	Help:      "Duration of store queries, labeled by driver and the repository method issuing them.",
	Buckets:   []float64{0.005, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
}, []string{"driver", "query"})

// observeDuration starts a timer labeled with the repository method calling into DB.
func (db *DB) observeDuration() func() time.Duration {
	return prometheus.NewTimer(QueryDurations.WithLabelValues(db.cfg.Driver, callerName(3))).ObserveDuration
}

func callerName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	details := runtime.FuncForPC(pc)
	if details == nil {
		return "unknown"
	}
	name := details.Name()
	name = name[strings.LastIndex(name, ".")+1:]
	name = strings.TrimPrefix(name, "(*")
	return strings.Replace(name, ")", "", 1)
}
