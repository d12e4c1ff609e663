package handlers

import (
	"fmt"
	"net/http"

	"productdash/internal/api/middleware"
	"productdash/internal/engine/dashboard"
	"productdash/internal/engine/importer"
)

// MetricsHandler exports a few counters in the Prometheus text format.
type MetricsHandler struct {
	stats *middleware.Stats
	dash  *dashboard.Dashboard
}

func NewMetricsHandler(stats *middleware.Stats, dash *dashboard.Dashboard) *MetricsHandler {
	return &MetricsHandler{stats: stats, dash: dash}
}

func (h *MetricsHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap := h.dash.ImportStatus()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	counter(w, "productdash_http_requests_total", "Requests served by the dashboard", h.stats.Requests.Load())
	counter(w, "productdash_http_client_errors_total", "Requests answered with a 4xx status", h.stats.ClientError.Load())
	counter(w, "productdash_http_server_errors_total", "Requests answered with a 5xx status", h.stats.ServerError.Load())
	gauge(w, "productdash_import_active", "Whether an import is uploading or being polled", boolGauge(snap.Active()))
	gauge(w, "productdash_import_failed", "Whether the last import failed", boolGauge(snap.State == importer.StateFailed))
	gauge(w, "productdash_import_progress", "Progress of the current import", int64(snap.Progress))
}

func counter(w http.ResponseWriter, name, help string, v int64) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", name, help, name, name, v)
}

func gauge(w http.ResponseWriter, name, help string, v int64) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %d\n", name, help, name, name, v)
}

func boolGauge(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
