package fieldlog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agriloan-backend/internal/domain/apperr"
	domain "agriloan-backend/internal/domain/fieldlog"
	userDomain "agriloan-backend/internal/domain/user"
	"agriloan-backend/internal/metrics"
	"agriloan-backend/pkg/id"
)

// AdviceService turns a field-log prompt into free-text guidance.
type AdviceService interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

type Usecase struct {
	logs    domain.Repository
	users   userDomain.Repository
	adviser AdviceService
	log     *logrus.Logger
}

func NewUsecase(logs domain.Repository, users userDomain.Repository, adviser AdviceService, log *logrus.Logger) *Usecase {
	return &Usecase{logs: logs, users: users, adviser: adviser, log: log}
}

type AddInput struct {
	FarmerID         string     `json:"farmer_id"`
	LoanID           string     `json:"loan_id"`
	CropPlotID       string     `json:"crop_plot_id"`
	Activity         string     `json:"activity"`
	Notes            string     `json:"notes"`
	LoggedAt         *time.Time `json:"logged_at"`
	EstimatedYieldKg *float64   `json:"estimated_yield_kg"`
	PhotoFileName    string     `json:"photo_file_name"`
}

type FieldLogDTO struct {
	LogID            string     `json:"log_id"`
	FarmerID         string     `json:"farmer_id"`
	LoanID           string     `json:"loan_id,omitempty"`
	CropPlotID       string     `json:"crop_plot_id"`
	Activity         string     `json:"activity"`
	Notes            string     `json:"notes"`
	LoggedAt         time.Time  `json:"logged_at"`
	EstimatedYieldKg *float64   `json:"estimated_yield_kg,omitempty"`
	PhotoFileName    string     `json:"photo_file_name,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toDTO(f *domain.FieldLog) *FieldLogDTO {
	return &FieldLogDTO{
		LogID:            f.LogID,
		FarmerID:         f.FarmerID,
		LoanID:           f.LoanID,
		CropPlotID:       f.CropPlotID,
		Activity:         string(f.Activity),
		Notes:            f.Notes,
		LoggedAt:         f.LoggedAt,
		EstimatedYieldKg: f.EstimatedYieldKg,
		PhotoFileName:    f.PhotoFileName,
		CreatedAt:        f.CreatedAt,
	}
}

func (u *Usecase) Add(ctx context.Context, in AddInput) (*FieldLogDTO, error) {
	activity := domain.Activity(in.Activity)
	if !activity.Valid() {
		return nil, apperr.Validationf("unknown activity %q", in.Activity)
	}
	if strings.TrimSpace(in.CropPlotID) == "" {
		return nil, apperr.Validationf("crop_plot_id is required")
	}
	if in.EstimatedYieldKg != nil && *in.EstimatedYieldKg < 0 {
		return nil, apperr.Validationf("estimated_yield_kg cannot be negative")
	}

	farmer, err := u.users.GetByUserID(ctx, in.FarmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %s", in.FarmerID)
		}
		return nil, err
	}
	if farmer.Role != userDomain.RoleFarmer {
		return nil, apperr.Validationf("user %s is not a farmer", in.FarmerID)
	}

	loggedAt := time.Now().UTC()
	if in.LoggedAt != nil {
		loggedAt = in.LoggedAt.UTC()
	}

	f := &domain.FieldLog{
		LogID:            id.NewID32(),
		FarmerID:         farmer.UserID,
		LoanID:           in.LoanID,
		CropPlotID:       strings.TrimSpace(in.CropPlotID),
		Activity:         activity,
		Notes:            strings.TrimSpace(in.Notes),
		LoggedAt:         loggedAt,
		EstimatedYieldKg: in.EstimatedYieldKg,
		PhotoFileName:    in.PhotoFileName,
	}
	if err := u.logs.Create(ctx, f); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"log_id": f.LogID, "farmer_id": f.FarmerID, "activity": f.Activity}).Info("field log recorded")
	return toDTO(f), nil
}

func (u *Usecase) Get(ctx context.Context, logID string) (*FieldLogDTO, error) {
	f, err := u.logs.GetByLogID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("field log %s", logID)
		}
		return nil, err
	}
	return toDTO(f), nil
}

func (u *Usecase) ListByFarmer(ctx context.Context, farmerID string) ([]FieldLogDTO, error) {
	fs, err := u.logs.ListByFarmerID(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	out := make([]FieldLogDTO, 0, len(fs))
	for i := range fs {
		out = append(out, *toDTO(&fs[i]))
	}
	return out, nil
}

// Advice fetches guidance for one log entry. The result is returned to the
// caller only; nothing is persisted, so a flaky advisor never corrupts logs.
func (u *Usecase) Advice(ctx context.Context, logID string) (string, error) {
	f, err := u.logs.GetByLogID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFoundf("field log %s", logID)
		}
		return "", err
	}

	text, err := u.adviser.Advise(ctx, buildPrompt(f))
	if err != nil {
		metrics.AdviceRequests.WithLabelValues("error").Inc()
		u.log.WithError(err).WithField("log_id", logID).Warn("advice request failed")
		return "", err
	}
	metrics.AdviceRequests.WithLabelValues("ok").Inc()
	return text, nil
}

func buildPrompt(f *domain.FieldLog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Activity: %s\n", f.Activity)
	fmt.Fprintf(&b, "Plot: %s\n", f.CropPlotID)
	fmt.Fprintf(&b, "Date: %s\n", f.LoggedAt.Format("2006-01-02"))
	if f.EstimatedYieldKg != nil {
		fmt.Fprintf(&b, "Estimated yield: %.1f kg\n", *f.EstimatedYieldKg)
	}
	if f.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", f.Notes)
	}
	return b.String()
}
