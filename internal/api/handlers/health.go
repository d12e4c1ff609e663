package handlers

import (
	"context"
	"net/http"
	"time"

	apierrors "productdash/internal/pkg/errors"
)

// Pinger is anything that can confirm the catalog service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	api     Pinger
	timeout time.Duration
}

func NewHealthHandler(api Pinger) *HealthHandler {
	return &HealthHandler{api: api, timeout: 3 * time.Second}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := "healthy"
	if err := h.api.Ping(ctx); err != nil {
		checks["catalog_api"] = "unhealthy: " + err.Error()
		status = "degraded"
	} else {
		checks["catalog_api"] = "healthy"
	}

	response := struct {
		Status    string            `json:"status"`
		Timestamp int64             `json:"timestamp"`
		Checks    map[string]string `json:"checks"`
	}{
		Status:    status,
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	apierrors.WriteJSON(w, statusCode, response)
}
