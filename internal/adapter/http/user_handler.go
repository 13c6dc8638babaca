package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agriloan-backend/internal/usecase/user"
)

type UserHandler struct{ uc *user.Usecase }

func NewUserHandler(uc *user.Usecase) *UserHandler { return &UserHandler{uc: uc} }

type registerReq struct {
	EmailOrPhone string `json:"email_or_phone" validate:"required"`
	FullName     string `json:"full_name"      validate:"required"`
	Role         string `json:"role"           validate:"required,oneof=FARMER BANK_OFFICER BUYER ADMIN"`
	EntityName   string `json:"entity_name"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Register(c.Request().Context(), user.RegisterInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *UserHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
