package loan

import (
	"time"

	"gorm.io/gorm"

	"agriloan-backend/internal/domain/crop"
)

type Status string

const (
	StatusPendingAdminReview  Status = "PENDING_ADMIN_REVIEW"
	StatusPendingBankApproval Status = "PENDING_BANK_APPROVAL"
	StatusApproved            Status = "APPROVED"
	StatusRejected            Status = "REJECTED"
	StatusActive              Status = "ACTIVE"
	StatusRepaid              Status = "REPAID"
	StatusOverdue             Status = "OVERDUE"
)

// Terminal reports whether no further lifecycle transition may leave s.
func (s Status) Terminal() bool { return s == StatusRejected || s == StatusRepaid }

type AdminAction string

const (
	AdminForward AdminAction = "FORWARD"
	AdminReject  AdminAction = "REJECT"
)

type OfficerAction string

const (
	OfficerApprove OfficerAction = "APPROVE"
	OfficerReject  OfficerAction = "REJECT"
)

// Loan is one farmer's funding request for a planting cycle.
// Reviewer/officer names are snapshots taken when the decision is recorded.
type Loan struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID string `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`

	FarmerID   string `gorm:"size:32;index:idx_loans_farmer_active" json:"farmer_id"`
	FarmerName string `gorm:"size:191" json:"farmer_name"`

	FarmSizeAcres   float64   `gorm:"type:decimal(10,2)" json:"farm_size_acres"`
	CropType        crop.Type `gorm:"type:varchar(32)" json:"crop_type"`
	OtherCropType   string    `gorm:"size:100" json:"other_crop_type,omitempty"`
	InputNeeds      string    `gorm:"type:text" json:"input_needs"`
	RequestedAmount float64   `gorm:"type:decimal(18,2)" json:"requested_amount"`

	ApplicationDate     time.Time  `gorm:"type:datetime" json:"application_date"`
	ExpectedHarvestDate *time.Time `gorm:"type:date" json:"expected_harvest_date,omitempty"`

	Status Status `gorm:"type:varchar(32);default:'PENDING_ADMIN_REVIEW'" json:"status"`

	// Admin review stage, set exactly once by the admin decision.
	AdminReviewerID   string     `gorm:"size:32" json:"admin_reviewer_id,omitempty"`
	AdminReviewerName string     `gorm:"size:191" json:"admin_reviewer_name,omitempty"`
	AdminReviewDate   *time.Time `gorm:"type:datetime" json:"admin_review_date,omitempty"`
	AdminComments     string     `gorm:"type:text" json:"admin_comments,omitempty"`
	PreApprovedAmount *float64   `gorm:"type:decimal(18,2)" json:"pre_approved_amount,omitempty"`

	// Bank officer stage. ApprovedAmount and RepaymentDueDate may be revised
	// by a re-approval while the loan is APPROVED/ACTIVE.
	OfficerID        string     `gorm:"size:32" json:"officer_id,omitempty"`
	OfficerName      string     `gorm:"size:191" json:"officer_name,omitempty"`
	OfficerComments  string     `gorm:"type:text" json:"officer_comments,omitempty"`
	ApprovedAmount   *float64   `gorm:"type:decimal(18,2)" json:"approved_amount,omitempty"`
	RepaymentDueDate *time.Time `gorm:"type:datetime" json:"repayment_due_date,omitempty"`

	Repayments []Repayment `gorm:"foreignKey:LoanID;references:ID" json:"repayments"`

	StateUpdatedAt time.Time      `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Repayment is an immutable ledger row; created only by repayment recording,
// never mutated or removed.
type Repayment struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	RepaymentID   string         `gorm:"size:32;uniqueIndex:ux_repayments_repayment_id" json:"repayment_id"`
	LoanID        uint64         `gorm:"column:loan_id;not null;index" json:"-"`
	TransactionID string         `gorm:"size:64" json:"transaction_id"`
	Amount        float64        `gorm:"type:decimal(18,2)" json:"amount"`
	PaidAt        time.Time      `gorm:"type:datetime" json:"paid_at"`
	RecordedBy    string         `gorm:"size:32" json:"recorded_by"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Repayment) TableName() string { return "repayments" }

// TotalRepaid sums the ledger.
func (l *Loan) TotalRepaid() float64 {
	var sum float64
	for _, r := range l.Repayments {
		sum += r.Amount
	}
	return sum
}

// RemainingBalance is approvedAmount − Σ repayments, zero before approval.
func (l *Loan) RemainingBalance() float64 {
	if l.ApprovedAmount == nil {
		return 0
	}
	return *l.ApprovedAmount - l.TotalRepaid()
}

// EffectiveStatus derives the display status at a given instant. A loan that
// is not REPAID/REJECTED, is past its due date and still carries a balance
// reads as OVERDUE regardless of the persisted status. Pure: the stored
// status is only advanced by repayment recording or the overdue sweep.
func (l *Loan) EffectiveStatus(now time.Time) Status {
	if l.Status == StatusRepaid || l.Status == StatusRejected {
		return l.Status
	}
	if l.RepaymentDueDate != nil && now.After(*l.RepaymentDueDate) && l.RemainingBalance() > 0 {
		return StatusOverdue
	}
	return l.Status
}
