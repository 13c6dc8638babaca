package loan

import (
	"time"

	domain "agriloan-backend/internal/domain/loan"
)

type SubmitApplicationInput struct {
	FarmerID            string     `json:"farmer_id"`
	FarmSizeAcres       float64    `json:"farm_size_acres"`
	CropType            string     `json:"crop_type"`
	OtherCropType       string     `json:"other_crop_type"`
	InputNeeds          string     `json:"input_needs"`
	RequestedAmount     float64    `json:"requested_amount"`
	ExpectedHarvestDate *time.Time `json:"expected_harvest_date"`
}

type AdminDecisionInput struct {
	LoanID            string
	ReviewerID        string
	Action            domain.AdminAction
	PreApprovedAmount *float64
	Comments          string
}

type OfficerDecisionInput struct {
	LoanID           string
	OfficerID        string
	Action           domain.OfficerAction
	ApprovedAmount   *float64
	RepaymentDueDate *time.Time
	Comments         string
}

type RepaymentInput struct {
	LoanID     string
	Amount     float64
	PaidAt     time.Time
	RecordedBy string
}

type RepaymentDTO struct {
	RepaymentID   string    `json:"repayment_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	PaidAt        time.Time `json:"paid_at"`
	RecordedBy    string    `json:"recorded_by"`
}

// LoanDTO carries the derived display status; the persisted status stays an
// internal concern of the lifecycle engine.
type LoanDTO struct {
	LoanID              string         `json:"loan_id"`
	FarmerID            string         `json:"farmer_id"`
	FarmerName          string         `json:"farmer_name"`
	FarmSizeAcres       float64        `json:"farm_size_acres"`
	CropType            string         `json:"crop_type"`
	OtherCropType       string         `json:"other_crop_type,omitempty"`
	InputNeeds          string         `json:"input_needs"`
	RequestedAmount     float64        `json:"requested_amount"`
	ApplicationDate     time.Time      `json:"application_date"`
	ExpectedHarvestDate *time.Time     `json:"expected_harvest_date,omitempty"`
	Status              string         `json:"status"`
	AdminReviewerName   string         `json:"admin_reviewer_name,omitempty"`
	AdminReviewDate     *time.Time     `json:"admin_review_date,omitempty"`
	AdminComments       string         `json:"admin_comments,omitempty"`
	PreApprovedAmount   *float64       `json:"pre_approved_amount,omitempty"`
	OfficerName         string         `json:"officer_name,omitempty"`
	OfficerComments     string         `json:"officer_comments,omitempty"`
	ApprovedAmount      *float64       `json:"approved_amount,omitempty"`
	RepaymentDueDate    *time.Time     `json:"repayment_due_date,omitempty"`
	TotalRepaid         float64        `json:"total_repaid"`
	RemainingBalance    float64        `json:"remaining_balance"`
	Repayments          []RepaymentDTO `json:"repayments"`
	CreatedAt           time.Time      `json:"created_at"`
}

func toRepaymentDTO(r *domain.Repayment) RepaymentDTO {
	return RepaymentDTO{
		RepaymentID:   r.RepaymentID,
		TransactionID: r.TransactionID,
		Amount:        r.Amount,
		PaidAt:        r.PaidAt,
		RecordedBy:    r.RecordedBy,
	}
}

func toDTO(l *domain.Loan, now time.Time) *LoanDTO {
	reps := make([]RepaymentDTO, 0, len(l.Repayments))
	for i := range l.Repayments {
		reps = append(reps, toRepaymentDTO(&l.Repayments[i]))
	}
	return &LoanDTO{
		LoanID:              l.LoanID,
		FarmerID:            l.FarmerID,
		FarmerName:          l.FarmerName,
		FarmSizeAcres:       l.FarmSizeAcres,
		CropType:            string(l.CropType),
		OtherCropType:       l.OtherCropType,
		InputNeeds:          l.InputNeeds,
		RequestedAmount:     l.RequestedAmount,
		ApplicationDate:     l.ApplicationDate,
		ExpectedHarvestDate: l.ExpectedHarvestDate,
		Status:              string(l.EffectiveStatus(now)),
		AdminReviewerName:   l.AdminReviewerName,
		AdminReviewDate:     l.AdminReviewDate,
		AdminComments:       l.AdminComments,
		PreApprovedAmount:   l.PreApprovedAmount,
		OfficerName:         l.OfficerName,
		OfficerComments:     l.OfficerComments,
		ApprovedAmount:      l.ApprovedAmount,
		RepaymentDueDate:    l.RepaymentDueDate,
		TotalRepaid:         l.TotalRepaid(),
		RemainingBalance:    l.RemainingBalance(),
		Repayments:          reps,
		CreatedAt:           l.CreatedAt,
	}
}
