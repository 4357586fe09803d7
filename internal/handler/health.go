package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/logger"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck is one dependency reported by /readyz. A failing optional
// check degrades the report but keeps the service ready.
type ReadinessCheck struct {
	Name     string
	Pinger   Pinger
	Optional bool
}

// HealthResponse is the body of the health endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz pings every check and reports each result
// @Summary Readiness check
// @Description Returns 503 when a required dependency (the snapshot store) is unreachable
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := HealthResponse{Status: StatusOK, Checks: make(map[string]string, len(checks))}
		code := http.StatusOK
		for _, c := range checks {
			if err := c.Pinger.Ping(ctx); err != nil {
				logger.FromContext(ctx).Warn(LogMsgReadinessFailed, "check", c.Name, "optional", c.Optional, "error", err)
				resp.Checks[c.Name] = StatusUnavailable
				if c.Optional {
					if resp.Status == StatusOK {
						resp.Status = StatusDegraded
					}
					continue
				}
				resp.Status = StatusUnavailable
				resp.Message = MsgRequiredFailed
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name] = StatusOK
		}

		respondJSON(w, code, resp)
	}
}
