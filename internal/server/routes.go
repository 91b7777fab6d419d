package server

import (
	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	planHandler *handlers.PlanHandler,
	tripHandler *handlers.TripHandler,
	notificationHandler *handlers.NotificationHandler,
	sessionMiddleware []echo.MiddlewareFunc,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", healthHandler.Health)

	api := e.Group("/api", sessionMiddleware...)

	api.POST("/generate-plan", planHandler.Generate, aiRateLimiter)
	api.POST("/save-trip", tripHandler.Save)
	api.GET("/my-trips", tripHandler.List)
	api.GET("/trips/events", notificationHandler.Stream)
	api.DELETE("/trips/:id", tripHandler.Delete)
}
