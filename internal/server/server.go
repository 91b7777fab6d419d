package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"example.com/ai-travel-planner/internal/ai"
	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/config"
	"example.com/ai-travel-planner/internal/handlers"
	"example.com/ai-travel-planner/internal/images"
	"example.com/ai-travel-planner/internal/notifications"
	"example.com/ai-travel-planner/internal/planner"
)

// Deps содержит внешние зависимости, выбранные в main по конфигурации.
type Deps struct {
	Trips    handlers.TripStore
	Requests planner.RequestLogger
	Store    handlers.Pinger
	AIClient ai.Client
	Images   images.Searcher
}

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, deps Deps) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = jsonErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	aiService := ai.NewService(deps.AIClient)
	planService := planner.NewService(aiService, deps.Images, deps.Requests, logger, cfg.AI.Provider, cfg.AI.Model)
	notificationHub := notifications.NewHub()

	planHandler := handlers.NewPlanHandler(planService)
	tripHandler := handlers.NewTripHandler(deps.Trips, notificationHub)
	notificationHandler := handlers.NewNotificationHandler(notificationHub)
	healthHandler := handlers.NewHealthHandler(deps.Store, cfg.Database.Driver)

	var sessionMiddleware []echo.MiddlewareFunc
	if cfg.Auth.AuthEnabled() {
		verifier := auth.NewSessionVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
		sessionMiddleware = append(sessionMiddleware, auth.SessionMiddleware(verifier))
	} else {
		logger.Warn("AUTH_JWT_SECRET is not set: trip owner is taken from the request body and trips are not scoped per user")
	}

	registerRoutes(
		e,
		healthHandler,
		planHandler,
		tripHandler,
		notificationHandler,
		sessionMiddleware,
		aiRateLimiter(cfg.AI),
	)

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами и CORS.
func NewHTTPServer(cfg config.ServerConfig, corsCfg config.CORSConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      corsHandler(corsCfg, handler),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func corsHandler(cfg config.CORSConfig, handler http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600,
	}).Handler(handler)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func aiRateLimiter(cfg config.AIConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "rate limit identifier missing"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
		},
	})
}

// jsonErrorHandler отдает ошибки Echo в формате {"error": "..."}.
func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if text, ok := httpErr.Message.(string); ok {
			message = text
		} else {
			message = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, map[string]string{"error": message})
}
