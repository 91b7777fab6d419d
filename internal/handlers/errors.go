package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	msgGenerateFailed = "Failed to generate plan"
	msgSaveFailed     = "Save failed"
	msgFetchFailed    = "Fetch failed"
	msgDeleteFailed   = "Delete failed"
)

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func serverError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": message})
}
