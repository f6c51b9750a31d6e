package ethclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orchestrator",
		Subsystem: "rpc",
		Name:      "request_results_total",
	}, []string{"chain_id", "url", "query", "status"})

	RequestDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orchestrator",
		Subsystem: "rpc",
		Name:      "request_duration_seconds",
		Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 20},
	}, []string{"chain_id", "url", "query"})
)

// ObserveError records the outcome of an RPC call. JSON-RPC errors are labeled by their code.
func ObserveError(chainID, url, query string, err error) {
	var rpcErr rpc.Error
	switch {
	case err == nil:
		RequestResults.WithLabelValues(chainID, url, query, "ok").Inc()
	case errors.Is(err, context.DeadlineExceeded):
		RequestResults.WithLabelValues(chainID, url, query, "timeout").Inc()
	case errors.As(err, &rpcErr):
		RequestResults.WithLabelValues(chainID, url, query, fmt.Sprintf("error-%d", rpcErr.ErrorCode())).Inc()
	default:
		RequestResults.WithLabelValues(chainID, url, query, "error").Inc()
	}
}

func ObserveDuration(chainID, url, query string) func() time.Duration {
	return prometheus.NewTimer(RequestDurations.WithLabelValues(chainID, url, query)).ObserveDuration
}

// Instrument bounds ctx by timeout. The returned callback must be called with the
// query result error, it records the query duration and outcome.
func Instrument(ctx context.Context, timeout time.Duration, chainID, url, query string) (context.Context, func(err error)) {
	stop := ObserveDuration(chainID, url, query)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func(err error) {
		cancel()
		stop()
		ObserveError(chainID, url, query, err)
	}
}
