package handlers

import (
	"net/http"
	"time"

	"github.com/localed/api/internal/platform/httpx"
	"github.com/localed/api/internal/repositories"
)

var startTime = time.Now()

// HealthHandlers exposes liveness and readiness endpoints.
type HealthHandlers struct {
	health repositories.HealthRepository
}

// NewHealthHandlers constructs the health handler set. The repository may be
// nil, in which case readiness degenerates to liveness.
func NewHealthHandlers(health repositories.HealthRepository) *HealthHandlers {
	return &HealthHandlers{health: health}
}

// Healthz reports process liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    time.Since(startTime).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Readyz probes backend dependencies and reports aggregate readiness.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.health == nil {
		h.Healthz(w, r)
		return
	}

	report, err := h.health.Collect(r.Context())
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("health_check_failed", err.Error(), http.StatusServiceUnavailable))
		return
	}

	checks := make(map[string]any, len(report.Checks))
	for name, check := range report.Checks {
		entry := map[string]any{
			"status":     check.Status,
			"latency_ms": check.Latency.Milliseconds(),
		}
		if check.Error != "" {
			entry["error"] = check.Error
		}
		checks[name] = entry
	}

	status := http.StatusOK
	overall := "ok"
	if !report.Healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	httpx.WriteJSON(w, status, map[string]any{
		"status":    overall,
		"checks":    checks,
		"timestamp": report.GeneratedAt.Format(time.RFC3339),
	})
}
