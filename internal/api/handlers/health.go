package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Davide1809/password-health-tracker/internal/api/httpx"
)

// RootHandler gives a tiny service banner on GET /.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"service": "password-health-tracker",
		"status":  "ok",
	})
}

// Health: GET /health
// Reports per-dependency status; degraded dependencies flip the overall
// status but the endpoint itself still answers 200 so probes can read it.
func Health(db *sql.DB, rdb *redis.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "ok"}
		status := "ok"

		if err := db.PingContext(ctx); err != nil {
			checks["database"] = "unreachable"
			status = "degraded"
		}
		if rdb == nil {
			checks["redis"] = "not configured"
			status = "degraded"
		} else if err := rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unreachable"
			status = "degraded"
		}

		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status": status,
			"checks": checks,
		})
	})
}

// Version: GET /version
func Version() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := os.Getenv("APP_VERSION")
		if v == "" {
			v = "dev"
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"version": v,
			"env":     os.Getenv("APP_ENV"),
		})
	})
}
