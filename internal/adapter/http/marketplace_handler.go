package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agriloan-backend/internal/usecase/marketplace"
)

type MarketplaceHandler struct{ uc *marketplace.Usecase }

func NewMarketplaceHandler(uc *marketplace.Usecase) *MarketplaceHandler {
	return &MarketplaceHandler{uc: uc}
}

type createListingReq struct {
	FarmerID      string  `json:"farmer_id"      validate:"required,hex32"`
	CropType      string  `json:"crop_type"      validate:"required,crop"`
	OtherCropType string  `json:"other_crop_type"`
	QuantityKg    float64 `json:"quantity_kg"    validate:"required"`
	QualityGrade  string  `json:"quality_grade"  validate:"required,grade"`
	PricePerKg    float64 `json:"price_per_kg"   validate:"required"`
	Description   string  `json:"description"`
	PhotoFileName string  `json:"photo_file_name"`
}

func (h *MarketplaceHandler) CreateListing(c echo.Context) error {
	var req createListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), marketplace.CreateListingInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *MarketplaceHandler) GetListing(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("listing_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *MarketplaceHandler) ListAvailable(c echo.Context) error {
	dtos, err := h.uc.ListAvailable(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *MarketplaceHandler) ListFarmerListings(c echo.Context) error {
	dtos, err := h.uc.ListByFarmer(c.Request().Context(), c.Param("farmer_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

type cancelListingReq struct {
	FarmerID string `json:"farmer_id" validate:"required,hex32"`
}

func (h *MarketplaceHandler) CancelListing(c echo.Context) error {
	var req cancelListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Cancel(c.Request().Context(), c.Param("listing_id"), req.FarmerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
