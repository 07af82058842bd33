package dto

import (
	"strings"
	"time"

	"hostel/internal/domains/offer/model"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxPercentage = 100

type CreateOfferRequest struct {
	OfferCode     string          `json:"offer_code"     validate:"required,max=50"`
	Name          string          `json:"name"           validate:"required,max=150"`
	Description   string          `json:"description"    validate:"omitempty"`
	DiscountType  string          `json:"discount_type"  validate:"required,oneof=percentage fixed_amount free_night"`
	DiscountValue decimal.Decimal `json:"discount_value" validate:"decimal_gte=0"`
	MinGuests     int             `json:"min_guests"     validate:"omitempty,min=1"`
	MinNights     *int            `json:"min_nights"     validate:"omitempty,min=1"`
	MaxUses       *int            `json:"max_uses"       validate:"omitempty,min=1"`
	ValidFrom     string          `json:"valid_from"     validate:"required,date"`
	ValidTo       string          `json:"valid_to"       validate:"required,date"`
	Status        string          `json:"status"         validate:"omitempty,oneof=active scheduled paused expired"`
	IsPublic      bool            `json:"is_public"`
}

// ParseWindow validates the date window and the discount bounds that tags cannot express.
func (c *CreateOfferRequest) ParseWindow() (from, to time.Time, err error) {
	from, _ = timezone.Parse(constant.DateOnlyFormat, c.ValidFrom)
	to, _ = timezone.Parse(constant.DateOnlyFormat, c.ValidTo)

	if !from.Before(to) {
		return from, to, failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
			"valid_to": {"valid_to must be after valid_from"},
		})
	}

	if c.DiscountType == model.DiscountPercentage && c.DiscountValue.GreaterThan(decimal.NewFromInt(maxPercentage)) {
		return from, to, failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
			"discount_value": {"percentage discount cannot exceed 100"},
		})
	}

	return from, to, nil
}

func (c *CreateOfferRequest) ToModel(user string, from, to time.Time) model.Offer {
	status := model.StatusActive
	if c.Status != constant.Empty {
		status = c.Status
	}

	minGuests := c.MinGuests
	if minGuests == 0 {
		minGuests = 1
	}

	return model.Offer{
		ID:            uuid.NewString(),
		OfferCode:     strings.ToUpper(strings.TrimSpace(c.OfferCode)),
		Name:          c.Name,
		Description:   c.Description,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		MinGuests:     minGuests,
		MinNights:     c.MinNights,
		MaxUses:       c.MaxUses,
		UsedCount:     0,
		ValidFrom:     from,
		ValidTo:       to,
		Status:        status,
		IsPublic:      c.IsPublic,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateOfferRequest struct {
	Name          string           `db:"name"           json:"name"           validate:"omitempty,max=150"`
	Description   string           `db:"description"    json:"description"    validate:"omitempty"`
	DiscountType  string           `db:"discount_type"  json:"discount_type"  validate:"omitempty,oneof=percentage fixed_amount free_night"`
	DiscountValue *decimal.Decimal `db:"discount_value" json:"discount_value"`
	MinGuests     *int             `db:"min_guests"     json:"min_guests"     validate:"omitempty,min=1"`
	MinNights     *int             `db:"min_nights"     json:"min_nights"     validate:"omitempty,min=1"`
	MaxUses       *int             `db:"max_uses"       json:"max_uses"       validate:"omitempty,min=1"`
	ValidFrom     string           `json:"valid_from"   validate:"omitempty,date"`
	ValidTo       string           `json:"valid_to"     validate:"omitempty,date"`
	Status        string           `db:"status"         json:"status"         validate:"omitempty,oneof=active scheduled paused expired"`
	IsPublic      *bool            `db:"is_public"      json:"is_public"`

	ParsedValidFrom *time.Time `db:"valid_from" json:"-"`
	ParsedValidTo   *time.Time `db:"valid_to"   json:"-"`
}

func (u *UpdateOfferRequest) IsEmpty() bool {
	return u.Name == constant.Empty && u.Description == constant.Empty && u.DiscountType == constant.Empty &&
		u.DiscountValue == nil && u.MinGuests == nil && u.MinNights == nil && u.MaxUses == nil &&
		u.ValidFrom == constant.Empty && u.ValidTo == constant.Empty && u.Status == constant.Empty && u.IsPublic == nil
}

// Merge applies the request over the stored offer so cross-field rules can be checked.
func (u *UpdateOfferRequest) Merge(current model.Offer) (model.Offer, error) {
	merged := current

	if u.DiscountType != constant.Empty {
		merged.DiscountType = u.DiscountType
	}

	if u.DiscountValue != nil {
		if u.DiscountValue.IsNegative() {
			return merged, failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
				"discount_value": {"discount_value must be greater than or equal to 0"},
			})
		}

		merged.DiscountValue = *u.DiscountValue
	}

	if u.MaxUses != nil {
		merged.MaxUses = u.MaxUses
	}

	if u.ValidFrom != constant.Empty {
		from, _ := timezone.Parse(constant.DateOnlyFormat, u.ValidFrom)
		u.ParsedValidFrom = &from
		merged.ValidFrom = from
	}

	if u.ValidTo != constant.Empty {
		to, _ := timezone.Parse(constant.DateOnlyFormat, u.ValidTo)
		u.ParsedValidTo = &to
		merged.ValidTo = to
	}

	if !merged.ValidFrom.Before(merged.ValidTo) {
		return merged, failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
			"valid_to": {"valid_to must be after valid_from"},
		})
	}

	if merged.DiscountType == model.DiscountPercentage && merged.DiscountValue.GreaterThan(decimal.NewFromInt(maxPercentage)) {
		return merged, failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
			"discount_value": {"percentage discount cannot exceed 100"},
		})
	}

	if merged.MaxUses != nil && *merged.MaxUses < merged.UsedCount {
		return merged, failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
			"max_uses": {"max_uses cannot be lower than used_count"},
		})
	}

	return merged, nil
}

// ApplicableRequest carries the query of GET /offers/applicable.
type ApplicableRequest struct {
	NumberOfGuests int             `json:"number_of_guests" validate:"required,min=1"`
	Nights         int             `json:"nights"           validate:"required,min=1"`
	Date           string          `json:"date"             validate:"omitempty,date"`
	Total          decimal.Decimal `json:"total"            validate:"decimal_gte=0"`
	NightlyRate    decimal.Decimal `json:"nightly_rate"     validate:"decimal_gte=0"`
}

func (a *ApplicableRequest) ToParams() model.Params {
	date := timezone.Now()
	if a.Date != constant.Empty {
		if parsed, err := timezone.Parse(constant.DateOnlyFormat, a.Date); err == nil {
			date = parsed
		}
	}

	return model.Params{Guests: a.NumberOfGuests, Nights: a.Nights, Date: date}
}

type OfferResponse struct {
	ID            string          `json:"id"`
	OfferCode     string          `json:"offer_code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinGuests     int             `json:"min_guests"`
	MinNights     *int            `json:"min_nights"`
	MaxUses       *int            `json:"max_uses"`
	UsedCount     int             `json:"used_count"`
	RemainingUses *int            `json:"remaining_uses"`
	ValidFrom     string          `json:"valid_from"`
	ValidTo       string          `json:"valid_to"`
	Status        string          `json:"status"`
	IsPublic      bool            `json:"is_public"`
	gDto.Metadata
}

func (r *OfferResponse) FromModel(model model.Offer) {
	r.ID = model.ID
	r.OfferCode = model.OfferCode
	r.Name = model.Name
	r.Description = model.Description
	r.DiscountType = model.DiscountType
	r.DiscountValue = model.DiscountValue
	r.MinGuests = model.MinGuests
	r.MinNights = model.MinNights
	r.MaxUses = model.MaxUses
	r.UsedCount = model.UsedCount
	r.RemainingUses = model.RemainingUses()
	r.ValidFrom = timezone.Format(model.ValidFrom, constant.DateOnlyFormat)
	r.ValidTo = timezone.Format(model.ValidTo, constant.DateOnlyFormat)
	r.Status = model.Status
	r.IsPublic = model.IsPublic
	r.Metadata.FromModel(model.Metadata)
}

type GetOffersResponse struct {
	Offers    []OfferResponse `json:"offers"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetOffersResponse) FromModels(models []model.Offer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Offers = make([]OfferResponse, len(models))
	for i, mod := range models {
		r.Offers[i].FromModel(mod)
	}
}

// PublicOfferResponse hides usage counters from anonymous visitors.
type PublicOfferResponse struct {
	OfferCode     string          `json:"offer_code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinGuests     int             `json:"min_guests"`
	MinNights     *int            `json:"min_nights"`
	ValidFrom     string          `json:"valid_from"`
	ValidTo       string          `json:"valid_to"`
}

func (r *PublicOfferResponse) FromModel(model model.Offer) {
	r.OfferCode = model.OfferCode
	r.Name = model.Name
	r.Description = model.Description
	r.DiscountType = model.DiscountType
	r.DiscountValue = model.DiscountValue
	r.MinGuests = model.MinGuests
	r.MinNights = model.MinNights
	r.ValidFrom = timezone.Format(model.ValidFrom, constant.DateOnlyFormat)
	r.ValidTo = timezone.Format(model.ValidTo, constant.DateOnlyFormat)
}

type ApplicableOfferResponse struct {
	PublicOfferResponse
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	Best           bool            `json:"best"`
}

type ApplicableOffersResponse struct {
	Offers []ApplicableOfferResponse `json:"offers"`
}

func (r *ApplicableOffersResponse) FromQuotes(quotes []model.Quote, best model.Quote) {
	r.Offers = make([]ApplicableOfferResponse, len(quotes))

	for i, quote := range quotes {
		r.Offers[i].PublicOfferResponse.FromModel(quote.Offer)
		r.Offers[i].Subtotal = quote.Subtotal
		r.Offers[i].DiscountAmount = quote.Discount
		r.Offers[i].Total = quote.Total
		r.Offers[i].Best = quote.Offer.ID == best.Offer.ID
	}
}

type StatisticsResponse struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Scheduled   int `json:"scheduled"`
	Paused      int `json:"paused"`
	Expired     int `json:"expired"`
	Public      int `json:"public"`
	Redemptions int `json:"redemptions"`
}

func (r *StatisticsResponse) FromModel(stats model.Statistics) {
	r.Total = stats.Total
	r.Active = stats.Active
	r.Scheduled = stats.Scheduled
	r.Paused = stats.Paused
	r.Expired = stats.Expired
	r.Public = stats.Public
	r.Redemptions = stats.Redemptions
}
