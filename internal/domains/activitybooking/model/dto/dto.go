package dto

import (
	"time"

	activityModel "hostel/internal/domains/activity/model"
	"hostel/internal/domains/activitybooking/model"
	guestDto "hostel/internal/domains/guest/model/dto"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateActivityBookingRequest struct {
	Guest           guestDto.GuestInfo `json:"guest"`
	ActivityID      string             `json:"activity_id"      validate:"required"`
	BookingDate     string             `json:"booking_date"     validate:"required,date"`
	BookingTime     string             `json:"booking_time"     validate:"required,clock"`
	Participants    int                `json:"participants"     validate:"required,min=1"`
	SpecialRequests string             `json:"special_requests" validate:"omitempty,max=1000"`
}

func (c *CreateActivityBookingRequest) Slot() activityModel.Slot {
	date, _ := timezone.Parse(constant.DateOnlyFormat, c.BookingDate)

	return activityModel.Slot{Date: date, Time: c.BookingTime, Participants: c.Participants}
}

func (c *CreateActivityBookingRequest) ToModel(user, guestID string, total decimal.Decimal) model.ActivityBooking {
	now := timezone.Now()

	return model.ActivityBooking{
		ID:               uuid.NewString(),
		BookingReference: model.NewReference(now),
		ActivityID:       c.ActivityID,
		GuestID:          guestID,
		BookingDate:      c.Slot().Date,
		BookingTime:      c.BookingTime,
		Participants:     c.Participants,
		TotalAmount:      total,
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

type UpdateActivityBookingRequest struct {
	Status          string  `json:"status"           validate:"omitempty,oneof=pending confirmed completed cancelled"`
	SpecialRequests *string `db:"special_requests" json:"special_requests" validate:"omitempty,max=1000"`
}

func (u *UpdateActivityBookingRequest) IsEmpty() bool {
	return u.Status == constant.Empty && u.SpecialRequests == nil
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type ListFilter struct {
	Status     string `json:"status"      validate:"omitempty,oneof=pending confirmed completed cancelled"`
	ActivityID string `json:"activity_id" validate:"omitempty"`
	GuestID    string `json:"guest_id"    validate:"omitempty"`
	From       string `json:"from"        validate:"omitempty,date"`
	To         string `json:"to"          validate:"omitempty,date"`
}

func (l *ListFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	for _, pair := range [][2]string{
		{model.FieldStatus, l.Status},
		{model.FieldActivityID, l.ActivityID},
		{model.FieldGuestID, l.GuestID},
	} {
		if pair[1] == constant.Empty {
			continue
		}

		filters = append(filters, gDto.Filter{
			Field:    pair[0],
			Operator: gDto.FilterOperatorEq,
			Value:    pair[1],
			Table:    model.TableName,
		})
	}

	if l.From != constant.Empty {
		from, _ := timezone.Parse(constant.DateOnlyFormat, l.From)
		filters = append(filters, gDto.Filter{
			Field:    model.FieldBookingDate,
			ArgName:  "range_from",
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    from,
			Table:    model.TableName,
		})
	}

	if l.To != constant.Empty {
		to, _ := timezone.Parse(constant.DateOnlyFormat, l.To)
		filters = append(filters, gDto.Filter{
			Field:    model.FieldBookingDate,
			ArgName:  "range_to",
			Operator: gDto.FilterOperatorLessEq,
			Value:    to,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}

type ActivityBookingResponse struct {
	ID               string          `json:"id"`
	Sequence         int64           `json:"sequence"`
	BookingReference string          `json:"booking_reference"`
	ActivityID       string          `json:"activity_id"`
	ActivityName     string          `json:"activity_name"`
	GuestID          string          `json:"guest_id"`
	GuestName        string          `json:"guest_name"`
	GuestEmail       string          `json:"guest_email"`
	BookingDate      string          `json:"booking_date"`
	BookingTime      string          `json:"booking_time"`
	Participants     int             `json:"participants"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Status           string          `json:"status"`
	SpecialRequests  string          `json:"special_requests"`
	ConfirmedAt      *string         `json:"confirmed_at"`
	CompletedAt      *string         `json:"completed_at"`
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

func (r *ActivityBookingResponse) FromModel(model model.ActivityBooking) {
	r.ID = model.ID
	r.Sequence = model.Sequence
	r.BookingReference = model.BookingReference
	r.ActivityID = model.ActivityID
	r.ActivityName = model.ActivityName
	r.GuestID = model.GuestID
	r.GuestEmail = model.GuestEmail
	r.BookingDate = timezone.Format(model.BookingDate, constant.DateOnlyFormat)
	r.BookingTime = model.BookingTime
	r.Participants = model.Participants
	r.TotalAmount = model.TotalAmount
	r.Status = model.Status
	r.SpecialRequests = model.SpecialRequests
	r.ConfirmedAt = formatTime(model.ConfirmedAt)
	r.CompletedAt = formatTime(model.CompletedAt)
	r.CancelledAt = formatTime(model.CancelledAt)
	r.Metadata.FromModel(model.Metadata)

	if model.GuestFirstName != constant.Empty || model.GuestLastName != constant.Empty {
		r.GuestName = model.GuestFirstName + " " + model.GuestLastName
	}
}

type GetActivityBookingsResponse struct {
	ActivityBookings []ActivityBookingResponse `json:"activity_bookings"`
	TotalPage        int                       `json:"total_page"`
	TotalData        int                       `json:"total_data"`
}

func (r *GetActivityBookingsResponse) FromModels(models []model.ActivityBooking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.ActivityBookings = make([]ActivityBookingResponse, len(models))
	for i, mod := range models {
		r.ActivityBookings[i].FromModel(mod)
	}
}
