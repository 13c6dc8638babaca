package marketplace

import (
	"time"

	"gorm.io/gorm"

	"agriloan-backend/internal/domain/crop"
)

type ListingStatus string

const (
	ListingAvailable   ListingStatus = "AVAILABLE"
	ListingNegotiating ListingStatus = "NEGOTIATING"
	ListingSold        ListingStatus = "SOLD"
	ListingCancelled   ListingStatus = "CANCELLED"
)

type QualityGrade string

const (
	GradeA QualityGrade = "A"
	GradeB QualityGrade = "B"
	GradeC QualityGrade = "C"
)

func (g QualityGrade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC:
		return true
	}
	return false
}

// Listing is a farmer's sellable lot. Status only moves as a side effect of
// negotiation progress (NEGOTIATING/SOLD) or an explicit farmer cancel.
type Listing struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"-"`
	ListingID string `gorm:"size:32;uniqueIndex:ux_listings_listing_id_active" json:"listing_id"`

	FarmerID   string `gorm:"size:32;index:idx_listings_farmer_active" json:"farmer_id"`
	FarmerName string `gorm:"size:191" json:"farmer_name"`

	CropType      crop.Type     `gorm:"type:varchar(32)" json:"crop_type"`
	OtherCropType string        `gorm:"size:100" json:"other_crop_type,omitempty"`
	QuantityKg    float64       `gorm:"type:decimal(12,2)" json:"quantity_kg"`
	QualityGrade  QualityGrade  `gorm:"type:varchar(4)" json:"quality_grade"`
	PricePerKg    float64       `gorm:"type:decimal(12,2)" json:"price_per_kg"`
	Description   string        `gorm:"type:text" json:"description,omitempty"`
	PhotoFileName string        `gorm:"size:255" json:"photo_file_name,omitempty"` // reference only, no transfer semantics
	ListingDate   time.Time     `gorm:"type:datetime" json:"listing_date"`
	Status        ListingStatus `gorm:"type:varchar(16);default:'AVAILABLE'" json:"status"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Listing) TableName() string { return "produce_listings" }
