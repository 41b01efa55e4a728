package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.DB.HealthCheck(ctx); err != nil {
			h.Logger.Warn("health check failed", zap.Error(err))
			writeSuccess(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}

	writeSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
