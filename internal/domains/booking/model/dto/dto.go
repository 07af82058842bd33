package dto

import (
	"time"

	"hostel/internal/domains/booking/model"
	guestDto "hostel/internal/domains/guest/model/dto"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	Guest           guestDto.GuestInfo `json:"guest"`
	RoomID          string             `json:"room_id"          validate:"required"`
	CheckInDate     string             `json:"check_in_date"    validate:"required,date"`
	CheckOutDate    string             `json:"check_out_date"   validate:"required,date"`
	NumberOfGuests  int                `json:"number_of_guests" validate:"required,min=1"`
	SpecialRequests string             `json:"special_requests" validate:"omitempty,max=1000"`
	OfferCode       string             `json:"offer_code"       validate:"omitempty,max=50"`
}

func (c *CreateBookingRequest) Dates() (checkIn, checkOut time.Time) {
	checkIn, _ = timezone.Parse(constant.DateOnlyFormat, c.CheckInDate)
	checkOut, _ = timezone.Parse(constant.DateOnlyFormat, c.CheckOutDate)

	return checkIn, checkOut
}

// Amounts carries the priced stay of a new booking.
type Amounts struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	OfferID  *string
}

func (c *CreateBookingRequest) ToModel(user, guestID string, amounts Amounts) model.Booking {
	checkIn, checkOut := c.Dates()
	now := timezone.Now()

	return model.Booking{
		ID:               uuid.NewString(),
		BookingReference: model.NewReference(now),
		GuestID:          guestID,
		RoomID:           c.RoomID,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		NumberOfGuests:   c.NumberOfGuests,
		SubtotalAmount:   amounts.Subtotal,
		DiscountAmount:   amounts.Discount,
		TotalAmount:      amounts.Total,
		OfferID:          amounts.OfferID,
		Status:           model.StatusPending,
		SpecialRequests:  c.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateBookingRequest changes the lifecycle status and the free text fields only.
type UpdateBookingRequest struct {
	Status          string  `json:"status"           validate:"omitempty,oneof=pending confirmed checked_in checked_out cancelled"`
	SpecialRequests *string `db:"special_requests" json:"special_requests" validate:"omitempty,max=1000"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return u.Status == constant.Empty && u.SpecialRequests == nil
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed checked_in checked_out cancelled"`
}

// ListFilter narrows the admin booking list.
type ListFilter struct {
	Status  string `json:"status"    validate:"omitempty,oneof=pending confirmed checked_in checked_out cancelled"`
	RoomID  string `json:"room_id"   validate:"omitempty"`
	GuestID string `json:"guest_id"  validate:"omitempty"`
	From    string `json:"from"      validate:"omitempty,date"`
	To      string `json:"to"        validate:"omitempty,date"`
}

func (l *ListFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	for _, eq := range [][2]string{
		{model.FieldStatus, l.Status},
		{model.FieldRoomID, l.RoomID},
		{model.FieldGuestID, l.GuestID},
	} {
		field, value := eq[0], eq[1]
		if value == constant.Empty {
			continue
		}

		filters = append(filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	// from/to select stays intersecting the window, the same half-open rule as availability.
	if l.To != constant.Empty {
		to, _ := timezone.Parse(constant.DateOnlyFormat, l.To)
		filters = append(filters, gDto.Filter{
			Field:    model.FieldCheckInDate,
			ArgName:  "window_to",
			Operator: gDto.FilterOperatorLess,
			Value:    to,
			Table:    model.TableName,
		})
	}

	if l.From != constant.Empty {
		from, _ := timezone.Parse(constant.DateOnlyFormat, l.From)
		filters = append(filters, gDto.Filter{
			Field:    model.FieldCheckOutDate,
			ArgName:  "window_from",
			Operator: gDto.FilterOperatorGreater,
			Value:    from,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}

type BookingResponse struct {
	ID               string          `json:"id"`
	Sequence         int64           `json:"sequence"`
	BookingReference string          `json:"booking_reference"`
	GuestID          string          `json:"guest_id"`
	GuestName        string          `json:"guest_name"`
	GuestEmail       string          `json:"guest_email"`
	RoomID           string          `json:"room_id"`
	RoomNumber       string          `json:"room_number"`
	RoomName         string          `json:"room_name"`
	CheckInDate      string          `json:"check_in_date"`
	CheckOutDate     string          `json:"check_out_date"`
	Nights           int             `json:"nights"`
	NumberOfGuests   int             `json:"number_of_guests"`
	SubtotalAmount   decimal.Decimal `json:"subtotal_amount"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	OfferID          *string         `json:"offer_id"`
	Status           string          `json:"status"`
	SpecialRequests  string          `json:"special_requests"`
	ConfirmedAt      *string         `json:"confirmed_at"`
	CheckedInAt      *string         `json:"checked_in_at"`
	CheckedOutAt     *string         `json:"checked_out_at"`
	CancelledAt      *string         `json:"cancelled_at"`
	gDto.Metadata
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Sequence = model.Sequence
	r.BookingReference = model.BookingReference
	r.GuestID = model.GuestID
	r.GuestEmail = model.GuestEmail
	r.RoomID = model.RoomID
	r.RoomNumber = model.RoomNumber
	r.RoomName = model.RoomName
	r.CheckInDate = timezone.Format(model.CheckInDate, constant.DateOnlyFormat)
	r.CheckOutDate = timezone.Format(model.CheckOutDate, constant.DateOnlyFormat)
	r.Nights = model.Nights()
	r.NumberOfGuests = model.NumberOfGuests
	r.SubtotalAmount = model.SubtotalAmount
	r.DiscountAmount = model.DiscountAmount
	r.TotalAmount = model.TotalAmount
	r.OfferID = model.OfferID
	r.Status = model.Status
	r.SpecialRequests = model.SpecialRequests
	r.ConfirmedAt = formatTime(model.ConfirmedAt)
	r.CheckedInAt = formatTime(model.CheckedInAt)
	r.CheckedOutAt = formatTime(model.CheckedOutAt)
	r.CancelledAt = formatTime(model.CancelledAt)
	r.Metadata.FromModel(model.Metadata)

	if model.GuestFirstName != constant.Empty || model.GuestLastName != constant.Empty {
		r.GuestName = model.GuestFirstName + " " + model.GuestLastName
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
