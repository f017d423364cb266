package controllers

import (
	"net/http"

	"github.com/voxtel/billing-backend/api/responses"
	"github.com/voxtel/billing-backend/pkg/config"
	"github.com/voxtel/billing-backend/pkg/db"
	"github.com/voxtel/billing-backend/pkg/logger"
	"github.com/voxtel/billing-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Voxtel-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency and reports per-component status.
// Any failing component flips the overall response to 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Voxtel-Env", cfg.App.Env)

		components := map[string]string{}
		healthy := true

		if dbP == nil {
			components["db"] = "not configured"
			healthy = false
		} else if err := dbP.Ping(r.Context()); err != nil {
			components["db"] = err.Error()
			healthy = false
			if logg != nil {
				logg.Error(r.Context(), "health.db_ping_failed", err)
			}
		} else {
			components["db"] = "ok"
		}

		if redisP == nil {
			components["redis"] = "not configured"
			healthy = false
		} else if err := redisP.Ping(r.Context()); err != nil {
			components["redis"] = err.Error()
			healthy = false
			if logg != nil {
				logg.Error(r.Context(), "health.redis_ping_failed", err)
			}
		} else {
			components["redis"] = "ok"
		}

		status := http.StatusOK
		overall := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}

		responses.WriteSuccessStatus(w, status, map[string]any{
			"status":     overall,
			"components": components,
		})
	}
}
