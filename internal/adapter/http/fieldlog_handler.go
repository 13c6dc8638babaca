package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agriloan-backend/internal/usecase/fieldlog"
)

type FieldLogHandler struct{ uc *fieldlog.Usecase }

func NewFieldLogHandler(uc *fieldlog.Usecase) *FieldLogHandler {
	return &FieldLogHandler{uc: uc}
}

type addFieldLogReq struct {
	FarmerID         string   `json:"farmer_id"    validate:"required,hex32"`
	LoanID           string   `json:"loan_id"      validate:"omitempty,hex32"`
	CropPlotID       string   `json:"crop_plot_id" validate:"required"`
	Activity         string   `json:"activity"     validate:"required"`
	Notes            string   `json:"notes"`
	LoggedAt         string   `json:"logged_at"    validate:"omitempty,datetime=2006-01-02"`
	EstimatedYieldKg *float64 `json:"estimated_yield_kg"`
	PhotoFileName    string   `json:"photo_file_name"`
}

func (h *FieldLogHandler) AddLog(c echo.Context) error {
	var req addFieldLogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := fieldlog.AddInput{
		FarmerID:         req.FarmerID,
		LoanID:           req.LoanID,
		CropPlotID:       req.CropPlotID,
		Activity:         req.Activity,
		Notes:            req.Notes,
		EstimatedYieldKg: req.EstimatedYieldKg,
		PhotoFileName:    req.PhotoFileName,
	}
	if req.LoggedAt != "" {
		d, _ := time.Parse("2006-01-02", req.LoggedAt)
		in.LoggedAt = &d
	}

	dto, err := h.uc.Add(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *FieldLogHandler) ListFarmerLogs(c echo.Context) error {
	dtos, err := h.uc.ListByFarmer(c.Request().Context(), c.Param("farmer_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *FieldLogHandler) GetAdvice(c echo.Context) error {
	text, err := h.uc.Advice(c.Request().Context(), c.Param("log_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"advice": text})
}
