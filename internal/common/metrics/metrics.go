// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExecutionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actionbridge_executions_completed_total",
			Help: "Total number of executions that produced a successful envelope",
		},
		[]string{"backend", "operation"},
	)

	ExecutionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actionbridge_executions_failed_total",
			Help: "Total number of executions that failed, by error code",
		},
		[]string{"backend", "operation", "error_code"},
	)

	ExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "actionbridge_execution_duration_seconds",
			Help: "Duration of an execution lifecycle in seconds",
		},
		[]string{"backend", "operation"},
	)

	ExecutionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "actionbridge_executions_active",
			Help: "Number of in-flight executions per backend",
		},
		[]string{"backend"},
	)

	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actionbridge_lookups_total",
			Help: "Total number of trigger lookups by outcome",
		},
		[]string{"backend", "trigger", "outcome"},
	)
)
