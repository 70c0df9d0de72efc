package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level collectors, auto-registered with the default registry and
// served from GET /metrics.
var (
	// HTTPRequests counts finished requests.
	//
	// Labels: method, route (gin full path), status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yoplan",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "yoplan",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// DiagnosisOutcomes counts processed submissions.
	//
	// Labels: outcome ("recommended", "no_match", "invalid", "conflict", "error").
	DiagnosisOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yoplan",
			Subsystem: "diagnosis",
			Name:      "outcomes_total",
			Help:      "Diagnosis submissions by outcome.",
		},
		[]string{"outcome"},
	)

	DiagnosisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "yoplan",
			Subsystem: "diagnosis",
			Name:      "duration_seconds",
			Help:      "Time spent processing a diagnosis submission.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)

	ScoringDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "yoplan",
			Subsystem: "diagnosis",
			Name:      "scoring_drops_total",
			Help:      "Plans dropped because scoring failed.",
		},
	)

	// ChatReplies counts chat answers.
	//
	// Labels: source ("faq", "faq_semantic", "llm", "error"), transport ("http", "ws").
	ChatReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yoplan",
			Subsystem: "chat",
			Name:      "replies_total",
			Help:      "Chat replies by source.",
		},
		[]string{"source", "transport"},
	)

	// LLMCalls counts provider calls.
	//
	// Labels: provider ("openai", "gemini"), status ("success", "error").
	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yoplan",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "LLM provider calls.",
		},
		[]string{"provider", "status"},
	)

	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "yoplan",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Duration of LLM provider calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)
)
