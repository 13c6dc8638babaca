package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	loanDomain "agriloan-backend/internal/domain/loan"
	"agriloan-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type submitLoanReq struct {
	FarmerID        string  `json:"farmer_id"        validate:"required,hex32"`
	FarmSizeAcres   float64 `json:"farm_size_acres"  validate:"required"`
	CropType        string  `json:"crop_type"        validate:"required,crop"`
	OtherCropType   string  `json:"other_crop_type"`
	InputNeeds      string  `json:"input_needs"      validate:"required"`
	RequestedAmount float64 `json:"requested_amount" validate:"required"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	ExpectedHarvestDate string `json:"expected_harvest_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *LoanHandler) SubmitApplication(c echo.Context) error {
	var req submitLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := loan.SubmitApplicationInput{
		FarmerID:        req.FarmerID,
		FarmSizeAcres:   req.FarmSizeAcres,
		CropType:        req.CropType,
		OtherCropType:   req.OtherCropType,
		InputNeeds:      req.InputNeeds,
		RequestedAmount: req.RequestedAmount,
	}
	if req.ExpectedHarvestDate != "" {
		d, _ := time.Parse("2006-01-02", req.ExpectedHarvestDate)
		in.ExpectedHarvestDate = &d
	}

	dto, err := h.uc.SubmitApplication(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type adminDecisionReq struct {
	ReviewerID        string   `json:"reviewer_id" validate:"required,hex32"`
	Action            string   `json:"action"      validate:"required,oneof=FORWARD REJECT"`
	PreApprovedAmount *float64 `json:"pre_approved_amount"`
	Comments          string   `json:"comments"`
}

func (h *LoanHandler) RecordAdminDecision(c echo.Context) error {
	var req adminDecisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.RecordAdminDecision(c.Request().Context(), loan.AdminDecisionInput{
		LoanID:            c.Param("loan_id"),
		ReviewerID:        req.ReviewerID,
		Action:            loanDomain.AdminAction(req.Action),
		PreApprovedAmount: req.PreApprovedAmount,
		Comments:          req.Comments,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type officerDecisionReq struct {
	OfficerID        string   `json:"officer_id" validate:"required,hex32"`
	Action           string   `json:"action"     validate:"required,oneof=APPROVE REJECT"`
	ApprovedAmount   *float64 `json:"approved_amount"`
	RepaymentDueDate string   `json:"repayment_due_date" validate:"omitempty,datetime=2006-01-02"`
	Comments         string   `json:"comments"`
}

func (h *LoanHandler) RecordOfficerDecision(c echo.Context) error {
	var req officerDecisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := loan.OfficerDecisionInput{
		LoanID:         c.Param("loan_id"),
		OfficerID:      req.OfficerID,
		Action:         loanDomain.OfficerAction(req.Action),
		ApprovedAmount: req.ApprovedAmount,
		Comments:       req.Comments,
	}
	if req.RepaymentDueDate != "" {
		// due dates land at end of day so same-day repayments stay on time
		d, _ := time.Parse("2006-01-02", req.RepaymentDueDate)
		due := d.Add(24*time.Hour - time.Second)
		in.RepaymentDueDate = &due
	}

	dto, err := h.uc.RecordOfficerDecision(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type disburseReq struct {
	OfficerID string `json:"officer_id" validate:"required,hex32"`
}

func (h *LoanHandler) MarkDisbursed(c echo.Context) error {
	var req disburseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.MarkDisbursed(c.Request().Context(), c.Param("loan_id"), req.OfficerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type recordRepaymentReq struct {
	Amount float64 `json:"amount"  validate:"required"`
	UserID string  `json:"user_id" validate:"required,hex32"`
	PaidAt string  `json:"paid_at" validate:"omitempty,datetime=2006-01-02"`
}

func (h *LoanHandler) RecordRepayment(c echo.Context) error {
	var req recordRepaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := loan.RepaymentInput{
		LoanID:     c.Param("loan_id"),
		Amount:     req.Amount,
		RecordedBy: req.UserID,
	}
	if req.PaidAt != "" {
		d, _ := time.Parse("2006-01-02", req.PaidAt)
		in.PaidAt = d
	}

	dto, err := h.uc.RecordRepayment(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListFarmerLoans(c echo.Context) error {
	dtos, err := h.uc.ListByFarmer(c.Request().Context(), c.Param("farmer_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
