package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agriloan-backend/internal/usecase/negotiation"
)

type NegotiationHandler struct{ uc *negotiation.Usecase }

func NewNegotiationHandler(uc *negotiation.Usecase) *NegotiationHandler {
	return &NegotiationHandler{uc: uc}
}

type startNegotiationReq struct {
	ListingID string `json:"listing_id" validate:"required,hex32"`
	BuyerID   string `json:"buyer_id"   validate:"required,hex32"`
}

func (h *NegotiationHandler) Start(c echo.Context) error {
	var req startNegotiationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Start(c.Request().Context(), negotiation.StartInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type makeOfferReq struct {
	ActorID    string  `json:"actor_id"     validate:"required,hex32"`
	PricePerKg float64 `json:"price_per_kg" validate:"required"`
	QuantityKg float64 `json:"quantity_kg"  validate:"required"`
}

func (h *NegotiationHandler) MakeOffer(c echo.Context) error {
	var req makeOfferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.MakeOffer(c.Request().Context(), negotiation.OfferInput{
		NegotiationID: c.Param("negotiation_id"),
		ActorID:       req.ActorID,
		PricePerKg:    req.PricePerKg,
		QuantityKg:    req.QuantityKg,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type actorReq struct {
	ActorID string `json:"actor_id" validate:"required,hex32"`
}

func (h *NegotiationHandler) actorAction(c echo.Context, fn func(negID, actorID string) (*negotiation.NegotiationDTO, error)) error {
	var req actorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := fn(c.Param("negotiation_id"), req.ActorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *NegotiationHandler) Accept(c echo.Context) error {
	return h.actorAction(c, func(negID, actorID string) (*negotiation.NegotiationDTO, error) {
		return h.uc.Accept(c.Request().Context(), negID, actorID)
	})
}

func (h *NegotiationHandler) Decline(c echo.Context) error {
	return h.actorAction(c, func(negID, actorID string) (*negotiation.NegotiationDTO, error) {
		return h.uc.Decline(c.Request().Context(), negID, actorID)
	})
}

func (h *NegotiationHandler) PlaceOrder(c echo.Context) error {
	return h.actorAction(c, func(negID, actorID string) (*negotiation.NegotiationDTO, error) {
		return h.uc.PlaceOrder(c.Request().Context(), negID, actorID)
	})
}

func (h *NegotiationHandler) Cancel(c echo.Context) error {
	return h.actorAction(c, func(negID, actorID string) (*negotiation.NegotiationDTO, error) {
		return h.uc.Cancel(c.Request().Context(), negID, actorID)
	})
}

type postMessageReq struct {
	SenderID string `json:"sender_id" validate:"required,hex32"`
	Text     string `json:"text"      validate:"required"`
}

func (h *NegotiationHandler) PostMessage(c echo.Context) error {
	var req postMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.PostMessage(c.Request().Context(), c.Param("negotiation_id"), req.SenderID, req.Text)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *NegotiationHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("negotiation_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *NegotiationHandler) ListForBuyer(c echo.Context) error {
	dtos, err := h.uc.ListByBuyer(c.Request().Context(), c.Param("buyer_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *NegotiationHandler) ListForFarmer(c echo.Context) error {
	dtos, err := h.uc.ListByFarmer(c.Request().Context(), c.Param("farmer_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
