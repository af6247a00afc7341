package http

import (
	"context"
	"net/http"
	"time"

	"github.com/openshelf/openshelf/internal/store"
	"github.com/openshelf/openshelf/pkg/httpx"
)

// DBHealth reports database connectivity and per-table reachability.
type DBHealth struct {
	Connected bool            `json:"connected"`
	Synced    bool            `json:"synced"`
	Tables    map[string]bool `json:"tables"`
}

// HealthzHandler handles GET /healthz
//
//	@Summary	Liveness probe
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/healthz [get].
func HealthzHandler(startTime time.Time, version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		})
	})
}

// DBHealthHandler handles GET /health/db
//
//	@Summary	Database health
//	@Description	Reports connectivity and whether each schema table answers queries.
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	DBHealth
//	@Failure	503	{object}	DBHealth	"Database unreachable or schema incomplete"
//	@Router		/health/db [get].
func DBHealthHandler(st store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		health := checkDBHealth(r.Context(), st)

		code := http.StatusOK
		if !health.Connected || !health.Synced {
			code = http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, code, health)
	})
}

func checkDBHealth(ctx context.Context, st store.Store) DBHealth {
	health := DBHealth{Tables: map[string]bool{}}

	if err := st.Ping(ctx); err != nil {
		return health
	}
	health.Connected = true

	checks := map[string]func(context.Context) (int64, error){
		"users":         st.Users().CountUsers,
		"books":         st.Books().CountBooks,
		"resources":     st.Resources().CountResources,
		"notifications": st.Notifications().CountNotifications,
	}

	health.Synced = true
	for table, count := range checks {
		_, err := count(ctx)
		health.Tables[table] = err == nil
		if err != nil {
			health.Synced = false
		}
	}
	return health
}
