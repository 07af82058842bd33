package model_test

import (
	"testing"
	"time"

	"hostel/internal/domains/offer/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func winterOffer() model.Offer {
	return model.Offer{
		ID:            "offer-winter",
		OfferCode:     "WINTER2024",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20),
		MinGuests:     8,
		ValidFrom:     time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:       time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		Status:        model.StatusActive,
		IsPublic:      true,
	}
}

func TestOffer_IsEligible(t *testing.T) {
	inWindow := time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		offer  func() model.Offer
		params model.Params
		want   bool
	}{
		{
			name:   "six guests below min guests",
			offer:  winterOffer,
			params: model.Params{Guests: 6, Nights: 2, Date: inWindow},
			want:   false,
		},
		{
			name:   "ten guests within window",
			offer:  winterOffer,
			params: model.Params{Guests: 10, Nights: 2, Date: inWindow},
			want:   true,
		},
		{
			name:   "last day of window is inclusive",
			offer:  winterOffer,
			params: model.Params{Guests: 10, Nights: 1, Date: time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)},
			want:   true,
		},
		{
			name:   "day after window",
			offer:  winterOffer,
			params: model.Params{Guests: 10, Nights: 1, Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
			want:   false,
		},
		{
			name: "paused offer",
			offer: func() model.Offer {
				o := winterOffer()
				o.Status = model.StatusPaused

				return o
			},
			params: model.Params{Guests: 10, Nights: 2, Date: inWindow},
			want:   false,
		},
		{
			name: "min nights not reached",
			offer: func() model.Offer {
				o := winterOffer()
				o.MinNights = intPtr(3)

				return o
			},
			params: model.Params{Guests: 10, Nights: 2, Date: inWindow},
			want:   false,
		},
		{
			name: "usage cap reached",
			offer: func() model.Offer {
				o := winterOffer()
				o.MaxUses = intPtr(5)
				o.UsedCount = 5

				return o
			},
			params: model.Params{Guests: 10, Nights: 2, Date: inWindow},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.offer().IsEligible(tt.params))
		})
	}
}

func TestOffer_Apply(t *testing.T) {
	total := decimal.RequireFromString("300.00")
	nightly := decimal.RequireFromString("100.00")

	tests := []struct {
		name  string
		offer model.Offer
		want  string
	}{
		{
			name:  "percentage",
			offer: model.Offer{DiscountType: model.DiscountPercentage, DiscountValue: decimal.NewFromInt(20)},
			want:  "240",
		},
		{
			name:  "percentage rounds to cents",
			offer: model.Offer{DiscountType: model.DiscountPercentage, DiscountValue: decimal.RequireFromString("33.333")},
			want:  "200",
		},
		{
			name:  "fixed amount",
			offer: model.Offer{DiscountType: model.DiscountFixedAmount, DiscountValue: decimal.NewFromInt(50)},
			want:  "250",
		},
		{
			name:  "fixed amount never negative",
			offer: model.Offer{DiscountType: model.DiscountFixedAmount, DiscountValue: decimal.NewFromInt(500)},
			want:  "0",
		},
		{
			name:  "one free night",
			offer: model.Offer{DiscountType: model.DiscountFreeNight, DiscountValue: decimal.NewFromInt(1)},
			want:  "200",
		},
		{
			name:  "free nights clamp at zero",
			offer: model.Offer{DiscountType: model.DiscountFreeNight, DiscountValue: decimal.NewFromInt(5)},
			want:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.offer.Apply(total, nightly)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestWinterOfferScenario(t *testing.T) {
	offer := winterOffer()
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	total := decimal.RequireFromString("1000.00")

	assert.Empty(t, model.Applicable([]model.Offer{offer}, model.Params{Guests: 6, Nights: 2, Date: date}))

	eligible := model.Applicable([]model.Offer{offer}, model.Params{Guests: 10, Nights: 2, Date: date})
	assert.Len(t, eligible, 1)

	quote, ok := model.Best(eligible, total, decimal.RequireFromString("500.00"))
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(800).Equal(quote.Total))
	assert.True(t, decimal.NewFromInt(200).Equal(quote.Discount))
}

func TestBest(t *testing.T) {
	total := decimal.NewFromInt(400)
	nightly := decimal.NewFromInt(100)

	percent := model.Offer{OfferCode: "PCT10", DiscountType: model.DiscountPercentage, DiscountValue: decimal.NewFromInt(10)}
	fixedA := model.Offer{OfferCode: "FIXB", DiscountType: model.DiscountFixedAmount, DiscountValue: decimal.NewFromInt(100)}
	fixedB := model.Offer{OfferCode: "FIXA", DiscountType: model.DiscountFixedAmount, DiscountValue: decimal.NewFromInt(100)}

	t.Run("no offers", func(t *testing.T) {
		_, ok := model.Best(nil, total, nightly)
		assert.False(t, ok)
	})

	t.Run("lowest total wins without stacking", func(t *testing.T) {
		quote, ok := model.Best([]model.Offer{percent, fixedA}, total, nightly)
		assert.True(t, ok)
		assert.Equal(t, "FIXB", quote.Offer.OfferCode)
		assert.True(t, decimal.NewFromInt(300).Equal(quote.Total))
	})

	t.Run("ties broken by offer code", func(t *testing.T) {
		quote, ok := model.Best([]model.Offer{fixedA, fixedB}, total, nightly)
		assert.True(t, ok)
		assert.Equal(t, "FIXA", quote.Offer.OfferCode)
	})
}

func TestApplicable_SortedByCode(t *testing.T) {
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	base := winterOffer()
	base.MinGuests = 1

	second := base
	second.OfferCode = "ALPHA"

	res := model.Applicable([]model.Offer{base, second}, model.Params{Guests: 1, Nights: 1, Date: date})
	assert.Len(t, res, 2)
	assert.Equal(t, "ALPHA", res[0].OfferCode)
}

func TestOffer_RemainingUses(t *testing.T) {
	assert.Nil(t, model.Offer{}.RemainingUses())

	offer := model.Offer{MaxUses: intPtr(3), UsedCount: 5}
	assert.Equal(t, 0, *offer.RemainingUses())
}
