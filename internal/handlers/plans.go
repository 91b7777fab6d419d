package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/models"
	"example.com/ai-travel-planner/internal/planner"
)

type PlanGenerator interface {
	Generate(ctx context.Context, req planner.Request) (models.PlanResult, error)
}

type PlanHandler struct {
	Planner PlanGenerator
}

// NewPlanHandler создает обработчик генерации маршрутов.
func NewPlanHandler(generator PlanGenerator) *PlanHandler {
	return &PlanHandler{Planner: generator}
}

type GeneratePlanRequest struct {
	From string      `json:"from" validate:"required"`
	To   string      `json:"to" validate:"required"`
	Days models.Days `json:"days" validate:"gt=0"`
}

// Generate строит маршрут по точкам отправления, назначения и числу дней.
func (h *PlanHandler) Generate(c echo.Context) error {
	var req GeneratePlanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	if err := c.Validate(&req); err != nil || strings.TrimSpace(req.From) == "" || strings.TrimSpace(req.To) == "" {
		return badRequest(c, "from, to and days are required")
	}

	owner, _ := ownerScope(c)
	result, err := h.Planner.Generate(c.Request().Context(), planner.Request{
		From:  req.From,
		To:    req.To,
		Days:  int(req.Days),
		Owner: owner,
	})
	if err != nil {
		slog.Error("generate plan failed", slog.String("to", req.To), slog.String("error", err.Error()))
		return serverError(c, msgGenerateFailed)
	}

	result.Images = models.NormalizeImages(result.Images)
	return c.JSON(http.StatusOK, result)
}
