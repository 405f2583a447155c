// Package dashboard mounts a minimal read-only stats view next to the
// Prometheus endpoint: a JSON stats snapshot, a health probe and a tiny HTML
// page for humans.
package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"promo_bot/internal/storage"
)

// Dashboard serves bot statistics from the record store.
type Dashboard struct {
	store   *storage.Store
	log     *zap.SugaredLogger
	version string
	started time.Time
}

// New returns a Dashboard bound to the given store.
func New(store *storage.Store, version string, log *zap.SugaredLogger) *Dashboard {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Dashboard{
		store:   store,
		log:     log,
		version: version,
		started: time.Now(),
	}
}

// Mount registers the dashboard handlers on mux.
func (d *Dashboard) Mount(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stats", d.handleStats)
	mux.HandleFunc("GET /api/health", d.handleHealth)
	mux.HandleFunc("GET /{$}", d.handleIndex)
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	c := d.store.Counters()
	d.writeJSON(w, http.StatusOK, map[string]any{
		"total_users":             c.TotalUsers,
		"total_messages":          c.TotalMessages,
		"total_promos_generated":  c.TotalPromosGenerated,
		"total_posts_to_channels": c.TotalPostsToChannels,
		"total_errors":            c.TotalErrors,
		"start_time":              c.StartTime,
		"last_updated":            c.LastUpdated,
		"registered_users":        d.store.UserCount(),
	})
}

func (d *Dashboard) handleHealth(w http.ResponseWriter, r *http.Request) {
	healthy := d.store.Healthy()
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	d.writeJSON(w, status, map[string]any{
		"healthy": healthy,
		"version": d.version,
		"uptime":  time.Since(d.started).Round(time.Second).String(),
	})
}

func (d *Dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	c := d.store.Counters()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage,
		d.version, c.TotalUsers, c.TotalMessages, c.TotalPromosGenerated, c.TotalPostsToChannels, c.TotalErrors)
}

func (d *Dashboard) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.log.Warnw("dashboard: failed to encode response", "err", err)
	}
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Promo Bot Dashboard</title>
<style>body{font-family:sans-serif;max-width:40em;margin:2em auto}td{padding:.3em 1em}</style>
</head>
<body>
<h1>🚀 Promo Bot <small>%s</small></h1>
<table>
<tr><td>Users</td><td>%d</td></tr>
<tr><td>Messages</td><td>%d</td></tr>
<tr><td>Promos generated</td><td>%d</td></tr>
<tr><td>Channel posts</td><td>%d</td></tr>
<tr><td>Errors</td><td>%d</td></tr>
</table>
<p><a href="/api/stats">stats</a> · <a href="/api/health">health</a> · <a href="/metrics">metrics</a></p>
</body>
</html>`
