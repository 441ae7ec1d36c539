package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
)

// JobService is the orchestration surface the handlers forward into.
type JobService interface {
	Create(ctx context.Context, destination string, durationDays int) (string, error)
	Status(ctx context.Context, id string) (*domain.Job, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Job, error)
}

// HealthChecker reports store reachability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App bundles the handler dependencies.
type App struct {
	Jobs   JobService
	Store  HealthChecker
	Logger infra.Logger
}

// NewApp builds the handler container.
func NewApp(jobs JobService, store HealthChecker, logger infra.Logger) *App {
	return &App{Jobs: jobs, Store: store, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) jsonError(w http.ResponseWriter, code int, detail string) {
	a.json(w, code, map[string]string{"detail": detail})
}
