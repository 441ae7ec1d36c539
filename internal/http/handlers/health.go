package handlers

import (
	"context"
	"net/http"
	"time"
)

// Health reports whether the job store is reachable.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	database := "connected"
	if err := a.Store.Ping(ctx); err != nil {
		status = "unhealthy"
		database = "disconnected"
	}

	a.json(w, http.StatusOK, map[string]string{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  database,
	})
}
