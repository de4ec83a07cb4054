package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultDispatched = "dispatched"
	ResultNoTarget   = "no_recipients"
	ResultSuccess    = "success"
	ResultFailure    = "failure"
)

var (
	PipelineInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_pipeline_invocations_total",
		Help: "Change events handled, by pipeline and whether anything was dispatched",
	}, []string{"pipeline", "result"})

	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_deliveries_total",
		Help: "Per-token push delivery outcomes",
	}, []string{"pipeline", "result"})

	ProfileLookupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_profile_lookup_failures_total",
		Help: "Profile store lookups that failed and were degraded to no recipients",
	}, []string{"pipeline"})
)
