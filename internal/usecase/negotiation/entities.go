package negotiation

import (
	"time"

	domain "agriloan-backend/internal/domain/negotiation"
)

type StartInput struct {
	ListingID string `json:"listing_id"`
	BuyerID   string `json:"buyer_id"`
}

type OfferInput struct {
	NegotiationID string
	ActorID       string
	PricePerKg    float64
	QuantityKg    float64
}

type MessageDTO struct {
	MessageID  string    `json:"message_id"`
	SenderID   string    `json:"sender_id"`
	SenderRole string    `json:"sender_role"`
	Text       string    `json:"text"`
	IsSystem   bool      `json:"is_system"`
	SentAt     time.Time `json:"sent_at"`
}

type NegotiationDTO struct {
	NegotiationID          string       `json:"negotiation_id"`
	ListingID              string       `json:"listing_id"`
	BuyerID                string       `json:"buyer_id"`
	BuyerName              string       `json:"buyer_name"`
	FarmerID               string       `json:"farmer_id"`
	FarmerName             string       `json:"farmer_name"`
	CropType               string       `json:"crop_type"`
	Status                 string       `json:"status"`
	CurrentOfferPricePerKg *float64     `json:"current_offer_price_per_kg,omitempty"`
	CurrentOfferQuantityKg *float64     `json:"current_offer_quantity_kg,omitempty"`
	Messages               []MessageDTO `json:"messages"`
	LastUpdate             time.Time    `json:"last_update"`
}

func toDTO(n *domain.Negotiation) *NegotiationDTO {
	msgs := make([]MessageDTO, 0, len(n.Messages))
	for _, m := range n.Messages {
		msgs = append(msgs, MessageDTO{
			MessageID:  m.MessageID,
			SenderID:   m.SenderID,
			SenderRole: m.SenderRole,
			Text:       m.Text,
			IsSystem:   m.IsSystem,
			SentAt:     m.SentAt,
		})
	}
	return &NegotiationDTO{
		NegotiationID:          n.NegotiationID,
		ListingID:              n.ListingID,
		BuyerID:                n.BuyerID,
		BuyerName:              n.BuyerName,
		FarmerID:               n.FarmerID,
		FarmerName:             n.FarmerName,
		CropType:               string(n.CropType),
		Status:                 string(n.Status),
		CurrentOfferPricePerKg: n.CurrentOfferPricePerKg,
		CurrentOfferQuantityKg: n.CurrentOfferQuantityKg,
		Messages:               msgs,
		LastUpdate:             n.LastUpdate,
	}
}
