package negotiation

import (
	"time"

	"gorm.io/gorm"

	"agriloan-backend/internal/domain/crop"
)

// Status names the party whose action is awaited. The buyer initiates, so a
// fresh negotiation is PENDING_FARMER: the farmer owes the first response.
type Status string

const (
	StatusPendingBuyer      Status = "PENDING_BUYER"
	StatusPendingFarmer     Status = "PENDING_FARMER"
	StatusAgreed            Status = "AGREED"
	StatusOrderPlaced       Status = "ORDER_PLACED"
	StatusCancelledByFarmer Status = "CANCELLED_BY_FARMER"
	StatusCancelledByBuyer  Status = "CANCELLED_BY_BUYER"
)

// Terminal: no further offer/accept/decline/order actions permitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusOrderPlaced, StatusCancelledByFarmer, StatusCancelledByBuyer:
		return true
	}
	return false
}

// Reserved sender identity for transition announcements. Not a real role:
// overloading a user role for system messages is exactly what this avoids.
const (
	SystemSenderID   = "system"
	SystemSenderRole = "SYSTEM"
)

// Message is an immutable transcript entry; insertion order (numeric PK) is
// the conversation order and is semantically significant.
type Message struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	MessageID     string         `gorm:"size:32;uniqueIndex:ux_negotiation_messages_message_id" json:"message_id"`
	NegotiationID uint64         `gorm:"column:negotiation_id;not null;index" json:"-"`
	SenderID      string         `gorm:"size:32" json:"sender_id"`
	SenderRole    string         `gorm:"size:20" json:"sender_role"`
	Text          string         `gorm:"type:text" json:"text"`
	IsSystem      bool           `gorm:"default:false" json:"is_system"`
	SentAt        time.Time      `gorm:"type:datetime" json:"sent_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Message) TableName() string { return "negotiation_messages" }

// Negotiation is a bilateral offer exchange between one buyer and one farmer
// over one listing. At most one open negotiation per buyer+listing pair.
type Negotiation struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	NegotiationID string `gorm:"size:32;uniqueIndex:ux_negotiations_negotiation_id_active" json:"negotiation_id"`

	ListingID  string `gorm:"size:32;index:idx_negotiations_listing" json:"listing_id"`
	BuyerID    string `gorm:"size:32;index:idx_negotiations_buyer" json:"buyer_id"`
	BuyerName  string `gorm:"size:191" json:"buyer_name"`
	FarmerID   string `gorm:"size:32;index:idx_negotiations_farmer" json:"farmer_id"`
	FarmerName string `gorm:"size:191" json:"farmer_name"`

	CropType crop.Type `gorm:"type:varchar(32)" json:"crop_type"` // snapshot from listing

	Status Status `gorm:"type:varchar(32)" json:"status"`

	// Live offer terms; nil before the first offer and after a decline.
	CurrentOfferPricePerKg *float64 `gorm:"type:decimal(12,2)" json:"current_offer_price_per_kg,omitempty"`
	CurrentOfferQuantityKg *float64 `gorm:"type:decimal(12,2)" json:"current_offer_quantity_kg,omitempty"`

	Messages []Message `gorm:"foreignKey:NegotiationID;references:ID" json:"messages"`

	// Refreshed on every mutation; sort/display only.
	LastUpdate time.Time `gorm:"type:datetime" json:"last_update"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Negotiation) TableName() string { return "negotiations" }

func (n *Negotiation) IsBuyer(userID string) bool  { return userID == n.BuyerID }
func (n *Negotiation) IsFarmer(userID string) bool { return userID == n.FarmerID }
func (n *Negotiation) IsParty(userID string) bool  { return n.IsBuyer(userID) || n.IsFarmer(userID) }

// HasOffer reports whether live offer terms exist.
func (n *Negotiation) HasOffer() bool {
	return n.CurrentOfferPricePerKg != nil && n.CurrentOfferQuantityKg != nil
}

// PendingParty returns the user id expected to act, or "" outside the two
// pending states.
func (n *Negotiation) PendingParty() string {
	switch n.Status {
	case StatusPendingBuyer:
		return n.BuyerID
	case StatusPendingFarmer:
		return n.FarmerID
	}
	return ""
}
