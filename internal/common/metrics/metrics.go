// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests by handler",
		},
		[]string{"handler"},
	)

	RequestsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_failed_total",
			Help: "Total number of failed API requests by handler",
		},
		[]string{"handler", "error_code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "api_request_duration_seconds",
			Help: "Duration of request processing in seconds",
		},
		[]string{"handler"},
	)

	RoutingDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_routing_decisions_total",
			Help: "Total number of routing decisions by reason code",
		},
		[]string{"reason"},
	)

	TTSCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tts_cache_requests_total",
			Help: "TTS synthesis requests by cache outcome",
		},
		[]string{"outcome"},
	)

	LLMProviderFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_provider_fallbacks_total",
			Help: "Chat completions that fell back to the secondary provider",
		},
		[]string{"from", "to"},
	)
)
