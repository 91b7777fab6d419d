package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthPingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store  Pinger
	Driver string
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// NewHealthHandler создает обработчик проверки состояния.
func NewHealthHandler(store Pinger, driver string) *HealthHandler {
	return &HealthHandler{Store: store, Driver: driver}
}

// Health возвращает статус сервиса и доступность хранилища.
func (h *HealthHandler) Health(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Store: h.Driver})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Store: h.Driver})
	}

	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Store: h.Driver})
}
