package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"example.com/ai-travel-planner/internal/ai"
	"example.com/ai-travel-planner/internal/config"
	"example.com/ai-travel-planner/internal/database"
	"example.com/ai-travel-planner/internal/images"
	"example.com/ai-travel-planner/internal/repository"
	"example.com/ai-travel-planner/internal/server"
)

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx := context.Background()

	deps, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("driver", cfg.Database.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	aiClient, closeAI, err := newAIClient(ctx, cfg.AI)
	if err != nil {
		logger.Error("failed to create ai client", slog.String("provider", cfg.AI.Provider), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeAI()

	deps.AIClient = aiClient
	deps.Images = images.NewUnsplashClient(cfg.Images.UnsplashAccessKey, cfg.Images.BaseURL, cfg.Images.PerPage, cfg.Images.Orientation, cfg.Images.Timeout)
	if cfg.Images.UnsplashAccessKey == "" {
		logger.Info("UNSPLASH_ACCESS_KEY is not set: plans are generated without images")
	}

	e := server.New(cfg, logger, deps)
	httpServer := server.NewHTTPServer(cfg.Server, cfg.CORS, e)

	go func() {
		logger.Info("http server started", slog.String("addr", httpServer.Addr), slog.String("store", cfg.Database.Driver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// openStore открывает хранилище поездок по STORE_DRIVER.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (server.Deps, func(), error) {
	switch cfg.Database.Driver {
	case config.StoreDriverMongo:
		client, db, err := database.OpenMongo(ctx, cfg.Database, logger)
		if err != nil {
			return server.Deps{}, nil, err
		}
		closeFn := func() {
			_ = client.Disconnect(context.Background())
		}
		return server.Deps{
			Trips:    repository.NewMongoTripRepository(db),
			Requests: repository.NewMongoAIRepository(db),
			Store:    database.MongoPinger{Client: client},
		}, closeFn, nil
	default:
		pool, err := database.Open(ctx, cfg.Database, logger)
		if err != nil {
			return server.Deps{}, nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return server.Deps{}, nil, err
		}
		return server.Deps{
			Trips:    repository.NewTripRepository(pool),
			Requests: repository.NewAIRepository(pool),
			Store:    pool,
		}, pool.Close, nil
	}
}

func newAIClient(ctx context.Context, cfg config.AIConfig) (ai.Client, func(), error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		client, err := ai.NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.Timeout, cfg.MaxOutputTokens)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	default:
		return ai.NewGroqClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, cfg.MaxOutputTokens), func() {}, nil
	}
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	if _, err := os.Stat(".env"); err == nil {
		_ = os.Setenv("ENV_FILE", ".env")
		return
	}

	if _, err := os.Stat("../.env"); err == nil {
		_ = os.Setenv("ENV_FILE", "../.env")
	}
}
