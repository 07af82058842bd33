package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"

	"hostel/config"
	"hostel/infras/broker"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	availabilityModel "hostel/internal/domains/availability/model"
	"hostel/internal/domains/booking/model"
	"hostel/internal/domains/booking/model/dto"
	"hostel/internal/domains/booking/repository"
	guestService "hostel/internal/domains/guest/service"
	offerModel "hostel/internal/domains/offer/model"
	offerService "hostel/internal/domains/offer/service"
	roomModel "hostel/internal/domains/room/model"
	roomRepo "hostel/internal/domains/room/repository"
	"hostel/shared"
	"hostel/shared/cache"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheRoomPrefix    = "room:"

	moneyPlaces = 2
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Transition(ctx context.Context, id, status string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo       repository.Booking
	roomRepo   roomRepo.Room
	guest      guestService.Guest
	offer      offerService.Offer
	transactor postgres.Transactor
	broker     broker.Broker
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	guest guestService.Guest,
	offer offerService.Offer,
	transactor postgres.Transactor,
	broker broker.Broker,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		guest:      guest,
		offer:      offer,
		transactor: transactor,
		broker:     broker,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func userFromContext(ctx context.Context) string {
	user, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || user == constant.Empty {
		return constant.ContextGuest
	}

	return user
}

// lockRoom reads the room row with FOR UPDATE so the caller owns its occupancy until commit.
func (s *serviceImpl) lockRoom(ctx context.Context, sqltx *sqlx.Tx, roomID string) (roomModel.Room, error) {
	room, err := s.roomRepo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to lock room")

		return room, fmt.Errorf("failed to lock room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return room, nil
}

// adjustOccupancyTx is the only writer of rooms.occupied and the derived status.
func (s *serviceImpl) adjustOccupancyTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, delta int, user string) error {
	if delta == 0 {
		return nil
	}

	room, err := s.lockRoom(ctx, sqltx, roomID)
	if err != nil {
		return err
	}

	if err = room.AdjustOccupancy(delta); err != nil {
		return err //nolint:wrapcheck
	}

	err = s.roomRepo.UpdateTx(ctx, sqltx, map[string]any{
		roomModel.FieldOccupied:  room.Occupied,
		roomModel.FieldStatus:    room.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, shared.FilterByID(room.ID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update room occupancy")

		return fmt.Errorf("failed to update room occupancy: %w", err)
	}

	return nil
}

func (s *serviceImpl) afterChange(ctx context.Context, eventType string, booking model.Booking, from string, roomChanged bool) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)

		if roomChanged {
			shared.InvalidateCaches(c, s.cache, cacheRoomPrefix)
		}

		event := model.NewEvent(eventType, booking, from, timezone.Now())
		if err := s.broker.Publish(c, booking.ID, event); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Str("event", eventType).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := userFromContext(ctx)
	checkIn, checkOut := req.Dates()
	now := timezone.Now()

	query := availabilityModel.Query{CheckIn: checkIn, CheckOut: checkOut, Guests: req.NumberOfGuests}
	if err = query.Validate(now); err != nil {
		return res, err
	}

	var booking model.Booking

	err = s.transactor.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		room, err := s.lockRoom(ctx, sqltx, req.RoomID)
		if err != nil {
			return err
		}

		if room.InMaintenance() {
			return failure.Conflict("room is under maintenance") // nolint:wrapcheck
		}

		if req.NumberOfGuests > room.Capacity {
			return failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
				"number_of_guests": {fmt.Sprintf("number_of_guests cannot exceed room capacity of %d", room.Capacity)},
			})
		}

		overlapping, err := s.repo.GetAllTx(ctx, sqltx, gDto.QueryParams{}, repository.OccupyingOverlapFilter(checkIn, checkOut, room.ID))
		if err != nil {
			log.Error().Err(err).Msg("failed to get overlapping bookings")

			return fmt.Errorf("failed to get overlapping bookings: %w", err)
		}

		if availabilityModel.Remaining(room, overlapping, checkIn, checkOut) < req.NumberOfGuests {
			return failure.Conflict("room has no remaining capacity for the selected dates") // nolint:wrapcheck
		}

		guest, err := s.guest.FindOrCreateTx(ctx, sqltx, req.Guest)
		if err != nil {
			return err //nolint:wrapcheck
		}

		nights := model.Nights(checkIn, checkOut)
		subtotal := room.Price.Mul(decimal.NewFromInt(int64(nights))).Round(moneyPlaces)
		amounts := dto.Amounts{Subtotal: subtotal, Discount: decimal.Zero, Total: subtotal}

		quote, err := s.offer.ApplyTx(ctx, sqltx, req.OfferCode, offerModel.Params{
			Guests: req.NumberOfGuests,
			Nights: nights,
			Date:   now,
		}, subtotal, room.Price)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if quote != nil {
			offerID := quote.Offer.ID
			amounts.Discount = quote.Discount
			amounts.Total = quote.Total
			amounts.OfferID = &offerID
		}

		booking = req.ToModel(user, guest.ID, amounts)
		booking.GuestFirstName = guest.FirstName
		booking.GuestLastName = guest.LastName
		booking.GuestEmail = guest.Email
		booking.RoomNumber = room.RoomNumber
		booking.RoomName = room.Name

		if err = s.repo.InsertTx(ctx, sqltx, booking); err != nil {
			log.Error().Err(err).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if stored, getErr := s.repo.Get(ctx, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); getErr == nil && stored.ID != constant.Empty {
		booking = stored
	}

	log.Info().
		Str("booking_id", booking.ID).
		Str("reference", booking.BookingReference).
		Str("room_id", booking.RoomID).
		Int("guests", booking.NumberOfGuests).
		Msg("booking created")

	s.afterChange(ctx, model.EventCreated, booking, constant.Empty, false)
	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.SortBy == constant.Empty {
		req.SortBy = model.TableName + "." + model.FieldSequence
		req.SortDir = gDto.SortDirDesc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// transitionTx locks the booking and applies a status change with its occupancy effect.
// Extra columns are written in the same statement as the status.
func (s *serviceImpl) transitionTx(
	ctx context.Context, sqltx *sqlx.Tx, id, status string, extra map[string]any, user string,
) (booking model.Booking, from string, delta int, err error) {
	booking, err = s.repo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to lock booking")

		return booking, from, delta, fmt.Errorf("failed to lock booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, from, delta, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	from = booking.Status

	if err = booking.Transition(status, timezone.Now()); err != nil {
		return booking, from, delta, err //nolint:wrapcheck
	}

	delta = model.OccupancyDelta(from, status, booking.NumberOfGuests)
	if err = s.adjustOccupancyTx(ctx, sqltx, booking.RoomID, delta, user); err != nil {
		return booking, from, delta, err
	}

	fields := booking.TransitionFields()
	for column, value := range extra {
		fields[column] = value
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = user

	if err = s.repo.UpdateTx(ctx, sqltx, fields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return booking, from, delta, fmt.Errorf("failed to update booking status: %w", err)
	}

	return booking, from, delta, nil
}

func (s *serviceImpl) changed(ctx context.Context, booking model.Booking, from string, delta int) {
	log.Info().
		Str("booking_id", booking.ID).
		Str("from", from).
		Str("to", booking.Status).
		Int("occupancy_delta", delta).
		Msg("booking status changed")

	s.afterChange(ctx, model.EventStatusChanged, booking, from, delta != 0)
}

// Transition moves a booking through its lifecycle and applies the occupancy effect atomically.
// Asking for the current status is rejected like any other transition outside the table.
func (s *serviceImpl) Transition(ctx context.Context, id, status string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Transition")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := userFromContext(ctx)

	var (
		booking model.Booking
		from    string
		delta   int
	)

	err = s.transactor.WithTx(ctx, func(sqltx *sqlx.Tx) (txErr error) {
		booking, from, delta, txErr = s.transitionTx(ctx, sqltx, id, status, nil, user)

		return txErr
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.changed(ctx, booking, from, delta)
	res.FromModel(booking)

	return res, nil
}

// Update writes the free text fields and, when a status is given, the transition in one transaction.
// A rejected transition leaves the booking untouched.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user := userFromContext(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var extra map[string]any
	if req.SpecialRequests != nil {
		extra = shared.TransformFields(req, user)
	}

	var (
		booking model.Booking
		from    string
		delta   int
	)

	err = s.transactor.WithTx(ctx, func(sqltx *sqlx.Tx) (txErr error) {
		if req.Status != constant.Empty {
			booking, from, delta, txErr = s.transitionTx(ctx, sqltx, id, req.Status, extra, user)

			return txErr
		}

		booking, txErr = s.repo.GetForUpdateTx(ctx, sqltx, filter)
		if txErr != nil {
			log.Error().Err(txErr).Msg("failed to lock booking")

			return fmt.Errorf("failed to lock booking: %w", txErr)
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if txErr = s.repo.UpdateTx(ctx, sqltx, extra, filter); txErr != nil {
			log.Error().Err(txErr).Msg("failed to update booking")

			return fmt.Errorf("failed to update booking: %w", txErr)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if req.SpecialRequests != nil {
		booking.SpecialRequests = *req.SpecialRequests
	}

	if req.Status != constant.Empty {
		s.changed(ctx, booking, from, delta)
	} else {
		s.afterChange(ctx, model.EventUpdated, booking, constant.Empty, false)
	}

	res.FromModel(booking)

	return res, nil
}

// Delete removes a booking, releasing its occupancy first when it still holds some.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := userFromContext(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var (
		booking model.Booking
		delta   int
	)

	err = s.transactor.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		booking, err = s.repo.GetForUpdateTx(ctx, sqltx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to lock booking")

			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if model.HoldsOccupancy(booking.Status) {
			delta = -booking.NumberOfGuests
		}

		if err = s.adjustOccupancyTx(ctx, sqltx, booking.RoomID, delta, user); err != nil {
			return err
		}

		if err = s.repo.DeleteTx(ctx, sqltx, filter); err != nil {
			log.Error().Err(err).Msg("failed to delete booking")

			return fmt.Errorf("failed to delete booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Str("booking_id", booking.ID).Int("occupancy_delta", delta).Msg("booking deleted")

	s.afterChange(ctx, model.EventDeleted, booking, booking.Status, delta != 0)

	return nil
}
