package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"agriloan-backend/internal/domain/apperr"
)

// writeError maps usecase error classes onto HTTP status codes.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrInvalidState):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrExternal):
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
