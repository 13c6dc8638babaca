package marketplace

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agriloan-backend/internal/domain/apperr"
	"agriloan-backend/internal/domain/crop"
	domain "agriloan-backend/internal/domain/marketplace"
	"agriloan-backend/internal/domain/uow"
	userDomain "agriloan-backend/internal/domain/user"
	"agriloan-backend/pkg/id"
)

type Usecase struct {
	listings domain.Repository
	users    userDomain.Repository
	uow      uow.UnitOfWork
	log      *logrus.Logger
}

func NewUsecase(listings domain.Repository, users userDomain.Repository, tx uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{listings: listings, users: users, uow: tx, log: log}
}

type CreateListingInput struct {
	FarmerID      string  `json:"farmer_id"`
	CropType      string  `json:"crop_type"`
	OtherCropType string  `json:"other_crop_type"`
	QuantityKg    float64 `json:"quantity_kg"`
	QualityGrade  string  `json:"quality_grade"`
	PricePerKg    float64 `json:"price_per_kg"`
	Description   string  `json:"description"`
	PhotoFileName string  `json:"photo_file_name"`
}

type ListingDTO struct {
	ListingID     string    `json:"listing_id"`
	FarmerID      string    `json:"farmer_id"`
	FarmerName    string    `json:"farmer_name"`
	CropType      string    `json:"crop_type"`
	OtherCropType string    `json:"other_crop_type,omitempty"`
	QuantityKg    float64   `json:"quantity_kg"`
	QualityGrade  string    `json:"quality_grade"`
	PricePerKg    float64   `json:"price_per_kg"`
	Description   string    `json:"description,omitempty"`
	PhotoFileName string    `json:"photo_file_name,omitempty"`
	ListingDate   time.Time `json:"listing_date"`
	Status        string    `json:"status"`
}

func toDTO(l *domain.Listing) *ListingDTO {
	return &ListingDTO{
		ListingID:     l.ListingID,
		FarmerID:      l.FarmerID,
		FarmerName:    l.FarmerName,
		CropType:      string(l.CropType),
		OtherCropType: l.OtherCropType,
		QuantityKg:    l.QuantityKg,
		QualityGrade:  string(l.QualityGrade),
		PricePerKg:    l.PricePerKg,
		Description:   l.Description,
		PhotoFileName: l.PhotoFileName,
		ListingDate:   l.ListingDate,
		Status:        string(l.Status),
	}
}

func (u *Usecase) Create(ctx context.Context, in CreateListingInput) (*ListingDTO, error) {
	if in.QuantityKg <= 0 {
		return nil, apperr.Validationf("quantity_kg must be positive")
	}
	if in.PricePerKg <= 0 {
		return nil, apperr.Validationf("price_per_kg must be positive")
	}
	ct := crop.Type(in.CropType)
	if !ct.Valid() {
		return nil, apperr.Validationf("unknown crop type %q", in.CropType)
	}
	if ct == crop.Other && strings.TrimSpace(in.OtherCropType) == "" {
		return nil, apperr.Validationf("other_crop_type is required when crop type is Other")
	}
	grade := domain.QualityGrade(in.QualityGrade)
	if !grade.Valid() {
		return nil, apperr.Validationf("unknown quality grade %q", in.QualityGrade)
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

	l := &domain.Listing{
		ListingID:     id.NewID32(),
		FarmerID:      farmer.UserID,
		FarmerName:    farmer.FullName,
		CropType:      ct,
		OtherCropType: strings.TrimSpace(in.OtherCropType),
		QuantityKg:    in.QuantityKg,
		QualityGrade:  grade,
		PricePerKg:    in.PricePerKg,
		Description:   strings.TrimSpace(in.Description),
		PhotoFileName: in.PhotoFileName,
		ListingDate:   time.Now().UTC(),
		Status:        domain.ListingAvailable,
	}
	if err := u.listings.Create(ctx, l); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"listing_id": l.ListingID, "farmer_id": l.FarmerID}).Info("produce listing created")
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, listingID string) (*ListingDTO, error) {
	l, err := u.listings.GetByListingID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("listing %s", listingID)
		}
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) ListAvailable(ctx context.Context) ([]ListingDTO, error) {
	ls, err := u.listings.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ListingDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}

func (u *Usecase) ListByFarmer(ctx context.Context, farmerID string) ([]ListingDTO, error) {
	ls, err := u.listings.ListByFarmerID(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	out := make([]ListingDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out, nil
}

// Cancel withdraws an AVAILABLE listing. Lots under negotiation or already
// sold cannot be withdrawn directly; the negotiation has to end first.
func (u *Usecase) Cancel(ctx context.Context, listingID, farmerID string) (*ListingDTO, error) {
	var dto *ListingDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Listings.GetByListingIDForUpdate(ctx, listingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("listing %s", listingID)
			}
			return err
		}
		if l.FarmerID != farmerID {
			return apperr.Validationf("listing %s does not belong to user %s", listingID, farmerID)
		}
		if l.Status != domain.ListingAvailable {
			return apperr.InvalidStatef("listing %s is %s, only available listings can be cancelled", listingID, l.Status)
		}
		l.Status = domain.ListingCancelled
		if err := r.Listings.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
