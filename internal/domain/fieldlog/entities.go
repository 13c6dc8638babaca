package fieldlog

import (
	"time"

	"gorm.io/gorm"
)

type Activity string

const (
	ActivityPlanting           Activity = "Planting"
	ActivityWeeding            Activity = "Weeding"
	ActivityFertilizing        Activity = "Fertilizing"
	ActivityPestControl        Activity = "Pest Control"
	ActivityWatering           Activity = "Watering"
	ActivityObservation        Activity = "Observation"
	ActivityHarvestPreparation Activity = "Harvest Preparation"
	ActivityHarvesting         Activity = "Harvesting"
)

func (a Activity) Valid() bool {
	switch a {
	case ActivityPlanting, ActivityWeeding, ActivityFertilizing, ActivityPestControl,
		ActivityWatering, ActivityObservation, ActivityHarvestPreparation, ActivityHarvesting:
		return true
	}
	return false
}

// FieldLog is a farmer's activity journal entry; advisory input only, never
// part of lifecycle correctness.
type FieldLog struct {
	ID    uint64 `gorm:"primaryKey;column:id" json:"-"`
	LogID string `gorm:"size:32;uniqueIndex:ux_field_logs_log_id_active" json:"log_id"`

	FarmerID   string `gorm:"size:32;index:idx_field_logs_farmer" json:"farmer_id"`
	LoanID     string `gorm:"size:32" json:"loan_id,omitempty"` // optional public loan ref
	CropPlotID string `gorm:"size:100" json:"crop_plot_id"`

	Activity         Activity  `gorm:"type:varchar(32)" json:"activity"`
	Notes            string    `gorm:"type:text" json:"notes"`
	LoggedAt         time.Time `gorm:"type:datetime" json:"logged_at"`
	EstimatedYieldKg *float64  `gorm:"type:decimal(12,2)" json:"estimated_yield_kg,omitempty"`
	PhotoFileName    string    `gorm:"size:255" json:"photo_file_name,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FieldLog) TableName() string { return "field_logs" }
