package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/clipstream/backend/internal/logging"
)

// HealthHandler reports service liveness and database connectivity.
type HealthHandler struct {
	Ping    func(ctx context.Context) error
	Version string
	Started time.Time
	NowFunc func() time.Time
}

func (h *HealthHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now()
}

// Handle answers health probes. A failed database ping reports 503.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Ping != nil {
		if err := h.Ping(ctx); err != nil {
			logging.FromContext(ctx).Error("health check database ping", "error", err)
			respondError(ctx, w, http.StatusServiceUnavailable, "Service Unavailable - Database connection failed")
			return
		}
	}

	respondData(ctx, w, http.StatusOK, map[string]any{
		"version":       h.Version,
		"uptimeSeconds": int64(h.now().Sub(h.Started).Seconds()),
	}, "OK - Database connected")
}
