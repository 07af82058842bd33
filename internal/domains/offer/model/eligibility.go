package model

import (
	"sort"
	"time"

	"hostel/shared/timezone"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Params describes the booking an offer is checked against.
type Params struct {
	Guests int
	Nights int
	Date   time.Time
}

// Quote is the outcome of applying one offer to a total.
type Quote struct {
	Offer    Offer
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// InWindow compares at day granularity, both bounds inclusive.
func (o Offer) InWindow(date time.Time) bool {
	day := timezone.StartOfDay(date)

	return !day.Before(timezone.StartOfDay(o.ValidFrom.In(date.Location()))) &&
		!day.After(timezone.StartOfDay(o.ValidTo.In(date.Location())))
}

func (o Offer) IsEligible(p Params) bool {
	if o.Status != StatusActive || !o.InWindow(p.Date) {
		return false
	}

	if p.Guests < o.MinGuests {
		return false
	}

	if o.MinNights != nil && p.Nights < *o.MinNights {
		return false
	}

	if o.MaxUses != nil && o.UsedCount >= *o.MaxUses {
		return false
	}

	return true
}

// Apply returns the discounted total, never below zero, rounded to cents.
func (o Offer) Apply(total, nightlyRate decimal.Decimal) decimal.Decimal {
	var result decimal.Decimal

	switch o.DiscountType {
	case DiscountPercentage:
		result = total.Mul(decimal.NewFromInt(1).Sub(o.DiscountValue.Div(hundred)))
	case DiscountFixedAmount:
		result = total.Sub(o.DiscountValue)
	case DiscountFreeNight:
		result = total.Sub(o.DiscountValue.Mul(nightlyRate))
	default:
		result = total
	}

	if result.IsNegative() {
		result = decimal.Zero
	}

	return result.Round(moneyPlaces)
}

func (o Offer) Quote(total, nightlyRate decimal.Decimal) Quote {
	discounted := o.Apply(total, nightlyRate)

	return Quote{
		Offer:    o,
		Subtotal: total.Round(moneyPlaces),
		Discount: total.Sub(discounted).Round(moneyPlaces),
		Total:    discounted,
	}
}

// Applicable filters eligible offers, ordered by offer code.
func Applicable(offers []Offer, p Params) []Offer {
	res := make([]Offer, 0, len(offers))

	for _, offer := range offers {
		if offer.IsEligible(p) {
			res = append(res, offer)
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].OfferCode < res[j].OfferCode
	})

	return res
}

// Best picks the single offer yielding the lowest total. Ties go to the smaller offer code.
// Offers are never stacked.
func Best(offers []Offer, total, nightlyRate decimal.Decimal) (Quote, bool) {
	var (
		best  Quote
		found bool
	)

	for _, offer := range offers {
		quote := offer.Quote(total, nightlyRate)

		switch {
		case !found:
			best, found = quote, true
		case quote.Total.LessThan(best.Total):
			best = quote
		case quote.Total.Equal(best.Total) && quote.Offer.OfferCode < best.Offer.OfferCode:
			best = quote
		}
	}

	return best, found
}
