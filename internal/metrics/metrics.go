package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IngestRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_radar_ingest_runs_total",
			Help: "Total number of ingest runs by outcome",
		},
		[]string{"outcome"},
	)

	IngestFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_radar_ingest_failures_total",
			Help: "Total number of failed ingest runs by stage",
		},
		[]string{"stage"},
	)

	ListingsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_radar_listings_extracted_total",
			Help: "Total number of listings extracted from fetched pages",
		},
	)

	ListingsStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_radar_listings_stored_total",
			Help: "Total number of listings written to the store",
		},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "listing_radar_ingest_duration_seconds",
			Help: "Duration of ingest runs in seconds",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_radar_cache_lookups_total",
			Help: "Cached view lookups by result",
		},
		[]string{"result"},
	)

	BotCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_radar_bot_commands_total",
			Help: "Telegram commands handled",
		},
		[]string{"command"},
	)

	DashboardRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_radar_dashboard_requests_total",
			Help: "Dashboard HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)
)
