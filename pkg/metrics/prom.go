package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// ActiveUsers tracks the number of users with saved state
	ActiveUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "promo_bot_active_users_total",
			Help: "Total number of users with saved state",
		},
	)

	// PromosGenerated tracks generated promo texts by language
	PromosGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_bot_promos_generated_total",
			Help: "Total number of generated promo texts",
		},
		[]string{"language"},
	)

	// StorageErrors tracks storage-level failures by operation
	StorageErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_bot_storage_errors_total",
			Help: "Total number of storage errors",
		},
		[]string{"operation"}, // operation: read, write, backup, restore
	)

	// ScrapeErrors tracks product scraping failures by reason
	ScrapeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_bot_scrape_errors_total",
			Help: "Total number of product scrape failures",
		},
		[]string{"reason"}, // reason: unsafe_url, timeout, connection, http, oversized
	)

	// CounterAlerts tracks suspicious statistics increments (large deltas).
	// The store keeps lenient bookkeeping semantics; this makes the audit
	// signal scrapeable so operators can alert on abuse instead of grepping.
	CounterAlerts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "promo_bot_counter_alerts_total",
			Help: "Total number of flagged (oversized) counter increments",
		},
	)

	// RateLimitHits tracks rate limit violations
	RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_bot_rate_limit_hits_total",
			Help: "Total number of rate limit violations",
		},
		[]string{"user_id"},
	)
)

func init() {
	prometheus.MustRegister(ActiveUsers)
	prometheus.MustRegister(PromosGenerated)
	prometheus.MustRegister(StorageErrors)
	prometheus.MustRegister(ScrapeErrors)
	prometheus.MustRegister(CounterAlerts)
	prometheus.MustRegister(RateLimitHits)
}

// NewMux returns an http.ServeMux with the Prometheus handler mounted on
// /metrics. The dashboard mounts its own handlers on the same mux before the
// server starts.
func NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// MustServe exposes the given mux on addr (e.g. ":8080") in a separate
// goroutine. Fatal-logs on startup failure. Returns the server so the caller
// can gracefully shut it down.
func MustServe(addr string, mux *http.ServeMux, log *zap.SugaredLogger) *http.Server {
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		log.Infow("http endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("http server failed", "err", err)
		}
	}()

	return srv
}

// Helper functions for updating metrics

// UpdateActiveUsers updates the active users gauge
func UpdateActiveUsers(count int) {
	ActiveUsers.Set(float64(count))
}

// IncrementPromoGenerated increments the generated promo counter
func IncrementPromoGenerated(language string) {
	PromosGenerated.WithLabelValues(language).Inc()
}

// IncrementStorageError increments the storage error counter
func IncrementStorageError(operation string) {
	StorageErrors.WithLabelValues(operation).Inc()
}

// IncrementScrapeError increments the scrape error counter
func IncrementScrapeError(reason string) {
	ScrapeErrors.WithLabelValues(reason).Inc()
}

// IncrementCounterAlert increments the flagged-increment counter
func IncrementCounterAlert() {
	CounterAlerts.Inc()
}

// IncrementRateLimitHit increments the rate limit hit counter
func IncrementRateLimitHit(userID string) {
	RateLimitHits.WithLabelValues(userID).Inc()
}
