package vectorstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var upsertRetries = promauto.NewCounter(prometheus.CounterOpts{
	Name: "newsagent_vectorstore_upsert_retries_total",
	Help: "Upsert attempts repeated after a write failure.",
})
