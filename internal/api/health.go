package api

import "net/http"

// HealthHandler reports process and database liveness.
func (api *Api) HealthHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	status := http.StatusOK
	if err := api.db.PingContext(r.Context()); err != nil {
		dbStatus = "disconnected"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{
		"status":   "ok",
		"database": dbStatus,
	})
}
