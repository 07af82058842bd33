package model

import (
	"time"

	"hostel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "offers"
	EntityName = "offer"

	FieldID            = "id"
	FieldOfferCode     = "offer_code"
	FieldName          = "name"
	FieldDiscountType  = "discount_type"
	FieldDiscountValue = "discount_value"
	FieldMinGuests     = "min_guests"
	FieldMinNights     = "min_nights"
	FieldMaxUses       = "max_uses"
	FieldUsedCount     = "used_count"
	FieldValidFrom     = "valid_from"
	FieldValidTo       = "valid_to"
	FieldStatus        = "status"
	FieldIsPublic      = "is_public"
)

const (
	StatusActive    = "active"
	StatusScheduled = "scheduled"
	StatusPaused    = "paused"
	StatusExpired   = "expired"
)

const (
	DiscountPercentage  = "percentage"
	DiscountFixedAmount = "fixed_amount"
	DiscountFreeNight   = "free_night"
)

type Offer struct {
	ID            string          `db:"id"`
	OfferCode     string          `db:"offer_code"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	DiscountType  string          `db:"discount_type"`
	DiscountValue decimal.Decimal `db:"discount_value"`
	MinGuests     int             `db:"min_guests"`
	MinNights     *int            `db:"min_nights"`
	MaxUses       *int            `db:"max_uses"`
	UsedCount     int             `db:"used_count"`
	ValidFrom     time.Time       `db:"valid_from"`
	ValidTo       time.Time       `db:"valid_to"`
	Status        string          `db:"status"`
	IsPublic      bool            `db:"is_public"`
	model.Metadata
}

// Statistics aggregates offers for the back office dashboard.
type Statistics struct {
	Total       int `db:"total"`
	Active      int `db:"active"`
	Scheduled   int `db:"scheduled"`
	Paused      int `db:"paused"`
	Expired     int `db:"expired"`
	Public      int `db:"public"`
	Redemptions int `db:"redemptions"`
}

// RemainingUses is nil when the offer has no usage cap.
func (o Offer) RemainingUses() *int {
	if o.MaxUses == nil {
		return nil
	}

	remaining := max(*o.MaxUses-o.UsedCount, 0)

	return &remaining
}
