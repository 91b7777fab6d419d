package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/models"
	"example.com/ai-travel-planner/internal/notifications"
	"example.com/ai-travel-planner/internal/repository"
)

type TripStore interface {
	Create(ctx context.Context, trip models.Trip) (models.Trip, error)
	List(ctx context.Context, owner string) ([]models.Trip, error)
	Delete(ctx context.Context, id, owner string) error
}

type TripHandler struct {
	Trips    TripStore
	Notifier *notifications.Hub
}

// NewTripHandler создает обработчик сохраненных поездок.
func NewTripHandler(trips TripStore, notifier *notifications.Hub) *TripHandler {
	return &TripHandler{Trips: trips, Notifier: notifier}
}

type SaveTripRequest struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	Days         models.Days     `json:"days"`
	Plan         string          `json:"plan"`
	LocationInfo json.RawMessage `json:"location_info"`
	Images       []string        `json:"images"`
	UserEmail    string          `json:"userEmail"`
}

type SaveTripResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// Save сохраняет выбранный пользователем маршрут без изменений.
func (h *TripHandler) Save(c echo.Context) error {
	var req SaveTripRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if !isObjectOrEmpty(req.LocationInfo) {
		return badRequest(c, "location_info must be an object")
	}

	scope, secured := ownerScope(c)
	email := strings.TrimSpace(req.UserEmail)
	if secured {
		email = scope
	}

	trip, err := h.Trips.Create(c.Request().Context(), models.Trip{
		From:         req.From,
		To:           req.To,
		Days:         req.Days,
		Plan:         req.Plan,
		Images:       models.NormalizeImages(req.Images),
		LocationInfo: req.LocationInfo,
		UserEmail:    email,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid location_info")
		}
		slog.Error("save trip failed", slog.String("error", err.Error()))
		return serverError(c, msgSaveFailed)
	}

	publishTripEvent(h.Notifier, scope, notifications.EventTripSaved, map[string]interface{}{
		"id": trip.ID,
		"to": trip.To,
	})

	return c.JSON(http.StatusOK, SaveTripResponse{Success: true, ID: trip.ID})
}

// List возвращает сохраненные поездки, новые первыми.
func (h *TripHandler) List(c echo.Context) error {
	scope, _ := ownerScope(c)

	trips, err := h.Trips.List(c.Request().Context(), scope)
	if err != nil {
		slog.Error("list trips failed", slog.String("error", err.Error()))
		return serverError(c, msgFetchFailed)
	}

	if trips == nil {
		trips = []models.Trip{}
	}
	return c.JSON(http.StatusOK, trips)
}

// Delete удаляет поездку по id; повторное удаление также успешно.
func (h *TripHandler) Delete(c echo.Context) error {
	scope, _ := ownerScope(c)
	id := c.Param("id")

	if err := h.Trips.Delete(c.Request().Context(), id, scope); err != nil {
		slog.Error("delete trip failed", slog.String("id", id), slog.String("error", err.Error()))
		return serverError(c, msgDeleteFailed)
	}

	publishTripEvent(h.Notifier, scope, notifications.EventTripDeleted, map[string]interface{}{
		"id": id,
	})

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ownerScope возвращает email проверенного владельца. Без проверки токенов
// область пуста и операции видят все записи.
func ownerScope(c echo.Context) (string, bool) {
	return auth.OwnerFromContext(c)
}

func isObjectOrEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	return trimmed[0] == '{'
}

func publishTripEvent(hub *notifications.Hub, scope, eventType string, data map[string]interface{}) {
	if hub == nil {
		return
	}

	hub.Publish(scope, notifications.Event{Type: eventType, Data: data})
}
