package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	articlesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_articles_ingested_total",
		Help: "Articles successfully extracted, embedded and stored.",
	})

	dedupSkips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_ingest_dedup_skips_total",
		Help: "URLs skipped because they were seen within the dedup window.",
	})

	urlsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_ingest_urls_rejected_total",
		Help: "Intake payloads rejected as syntactically invalid URLs.",
	})

	extractionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_ingest_extraction_failures_total",
		Help: "URLs dropped because the page could not be fetched or structured.",
	})

	ingestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsagent_ingest_failures_total",
		Help: "Ingestion failures surfaced to the intake transport, by stage.",
	}, []string{"stage"})
)
