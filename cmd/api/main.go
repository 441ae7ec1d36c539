package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/itinerary"
	"server/internal/providers/openai"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	mongoClient, err := infra.NewMongoClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	mongoStore := repo.NewMongoStore(mongoClient.Database(cfg.MongoDatabase))
	var store domain.JobStore = mongoStore
	if rdb := infra.NewRedisClient(cfg); rdb != nil {
		logger.Info().Str("addr", cfg.RedisAddr).Msg("terminal-record cache enabled")
		store = repo.NewCachedStore(mongoStore, rdb)
		defer func() {
			_ = rdb.Close()
		}()
	}

	generator, err := openai.NewClient(openai.Options{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure openai client")
	}

	jobs, err := itinerary.NewService(itinerary.Options{
		Store:     store,
		Generator: generator,
		Logger:    &logger,
		Workers:   cfg.WorkerCount,
		QueueSize: cfg.QueueSize,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start orchestrator")
	}

	app := handlers.NewApp(jobs, store, logger)
	router := httpapi.NewRouter(app, logger, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}

	// Accepted jobs run to their terminal state before exit.
	jobs.Close()
	logger.Info().Msg("server stopped")
}
