package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analysis metrics
	AnalysesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletlens_analyses_total",
			Help: "Total number of wallet analyses processed",
		},
		[]string{"status"}, // ok, default
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "walletlens_analysis_duration_seconds",
			Help:    "End-to-end duration of wallet analysis requests",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	PersonasClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletlens_personas_classified_total",
			Help: "Total classifications per persona type",
		},
		[]string{"wallet_type"},
	)

	// Score distributions verify the clamping and weighting stay calibrated
	RiskScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "walletlens_risk_scores",
			Help:    "Distribution of computed risk scores (0-100)",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	HealthScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "walletlens_health_scores",
			Help:    "Distribution of computed health scores (0-100)",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	// Upstream API metrics
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletlens_api_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"api", "endpoint", "status"}, // etherscan/alchemy, txlist/..., success/error
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "walletlens_api_request_duration_seconds",
			Help:    "Duration of upstream API requests",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"api", "endpoint"},
	)

	// Wallet snapshot cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletlens_cache_lookups_total",
			Help: "Total wallet snapshot cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	// Bio generation
	BiosGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletlens_bios_generated_total",
			Help: "Total persona bios produced",
		},
		[]string{"source"}, // model, template
	)

	BioGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "walletlens_bio_generation_duration_seconds",
			Help:    "Duration of bio model calls",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Audit log metrics
	AuditInserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletlens_audit_inserts_total",
			Help: "Total audit log insert attempts",
		},
		[]string{"status"}, // success, error
	)

	// System health
	HealthChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletlens_health_checks_total",
			Help: "Total number of health check requests",
		},
		[]string{"status"}, // healthy/unhealthy
	)
)

// RecordAnalysis records analysis outcome metrics
func RecordAnalysis(duration time.Duration, status string) {
	AnalysesProcessed.WithLabelValues(status).Inc()
	AnalysisDuration.Observe(duration.Seconds())
}

// RecordClassification records the persona type and its score distribution
func RecordClassification(walletType string, riskScore, healthScore float64) {
	PersonasClassified.WithLabelValues(walletType).Inc()
	RiskScores.Observe(riskScore)
	HealthScores.Observe(healthScore)
}

// RecordAPIRequest records upstream API request metrics
func RecordAPIRequest(api, endpoint string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	APIRequests.WithLabelValues(api, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(api, endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup records a wallet snapshot cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(result).Inc()
}

// RecordBio records how a persona bio was produced
func RecordBio(aiGenerated bool, duration time.Duration) {
	source := "template"
	if aiGenerated {
		source = "model"
	}
	BiosGenerated.WithLabelValues(source).Inc()
	BioGenerationDuration.Observe(duration.Seconds())
}

// RecordAuditInsert records audit log insert metrics
func RecordAuditInsert(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AuditInserts.WithLabelValues(status).Inc()
}

// RecordHealthCheck records health check status
func RecordHealthCheck(healthy bool) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}
	HealthChecks.WithLabelValues(status).Inc()
}
