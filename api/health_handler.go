package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog/database"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(database database.Database, deps Dependencies, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger, deps.Notifier),
		logger:      logger,
		database:    database,
		startupTime: startupTime,
	}
}

// getHealth reports uptime and database reachability
// @Summary Health check
// @Tags Ops
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		response := HealthResponse{
			Status:    "ok",
			StartedAt: h.startupTime.UTC(),
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
			Database:  "ok",
		}
		status := http.StatusOK
		if err := h.database.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("Database ping failed")
			response.Status = "degraded"
			response.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}

		h.responder.writeJSON(w, status, response)
	}
}
