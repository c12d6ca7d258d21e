package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsagent_queries_total",
		Help: "Queries handled, by routing mode.",
	}, []string{"mode"})

	generationFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_generation_fallbacks_total",
		Help: "Answers replaced by the fixed fallback because generation failed.",
	})
)
