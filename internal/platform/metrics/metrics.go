// Package metrics registers the Prometheus collectors for company research runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LLMCallAttempts counts provider call attempts, labelled by outcome
	// (success, rate_limited, api_error, error).
	LLMCallAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_llm_call_attempts_total",
			Help: "Total number of LLM provider call attempts by outcome",
		},
		[]string{"outcome"},
	)

	// CompanyResults counts finished companies, labelled by result status.
	CompanyResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_company_results_total",
			Help: "Total number of company summaries produced by status",
		},
		[]string{"status"},
	)

	// CompanyDuration observes the time spent on one company, including retries and limiter waits.
	CompanyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "research_company_duration_seconds",
			Help:    "Time spent producing one company summary, including retries",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)
)

// ObserveAttempt は1回のプロバイダー呼び出しの結果を記録します。
func ObserveAttempt(outcome string) {
	LLMCallAttempts.WithLabelValues(outcome).Inc()
}

// ObserveResult は1社分の処理結果と所要時間を記録します。
func ObserveResult(status string, elapsed time.Duration) {
	CompanyResults.WithLabelValues(status).Inc()
	CompanyDuration.Observe(elapsed.Seconds())
}
