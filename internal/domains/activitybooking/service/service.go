package service

import (
	"context"
	"fmt"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	activityModel "hostel/internal/domains/activity/model"
	activityRepo "hostel/internal/domains/activity/repository"
	"hostel/internal/domains/activitybooking/model"
	"hostel/internal/domains/activitybooking/model/dto"
	"hostel/internal/domains/activitybooking/repository"
	guestService "hostel/internal/domains/guest/service"
	"hostel/shared"
	"hostel/shared/cache"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetActivityBooking    = "activity_booking:get"
	cacheGetAllActivityBooking = "activity_booking:gets"
	cacheCountActivityBooking  = "activity_booking:count"
)

type ActivityBooking interface {
	Create(ctx context.Context, req dto.CreateActivityBookingRequest) (dto.ActivityBookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetActivityBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ActivityBookingResponse, error)
	Update(ctx context.Context, req dto.UpdateActivityBookingRequest, id string) (dto.ActivityBookingResponse, error)
	Transition(ctx context.Context, id, status string) (dto.ActivityBookingResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.ActivityBooking
	activityRepo activityRepo.Activity
	guest        guestService.Guest
	transactor   postgres.Transactor
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.ActivityBooking,
	activityRepo activityRepo.Activity,
	guest guestService.Guest,
	transactor postgres.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) ActivityBooking {
	return &serviceImpl{
		repo:         repo,
		activityRepo: activityRepo,
		guest:        guest,
		transactor:   transactor,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func userFromContext(ctx context.Context) string {
	user, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || user == constant.Empty {
		return constant.ContextGuest
	}

	return user
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetActivityBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete activity booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllActivityBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountActivityBooking)
	}()
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateActivityBookingRequest) (res dto.ActivityBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := userFromContext(ctx)

	var booking model.ActivityBooking

	err = s.transactor.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		activity, err := s.activityRepo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(req.ActivityID, activityModel.FieldID, activityModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to lock activity")

			return fmt.Errorf("failed to lock activity: %w", err)
		}

		if activity.ID == constant.Empty {
			return failure.NotFound("activity not found") // nolint:wrapcheck
		}

		if !activity.Active {
			return failure.Conflict("activity is not available for booking") // nolint:wrapcheck
		}

		slot := req.Slot()
		if err = activity.CheckSlot(slot, timezone.Now()); err != nil {
			return err //nolint:wrapcheck
		}

		session, err := s.repo.GetAllTx(ctx, sqltx, gDto.QueryParams{}, repository.OccupyingSlotFilter(activity.ID, slot.Date, slot.Time))
		if err != nil {
			log.Error().Err(err).Msg("failed to get session bookings")

			return fmt.Errorf("failed to get session bookings: %w", err)
		}

		if err = activity.CheckCapacity(model.Reserved(session), slot.Participants); err != nil {
			return err //nolint:wrapcheck
		}

		guest, err := s.guest.FindOrCreateTx(ctx, sqltx, req.Guest)
		if err != nil {
			return err //nolint:wrapcheck
		}

		booking = req.ToModel(user, guest.ID, activity.Total(req.Participants))
		booking.ActivityName = activity.Name
		booking.GuestFirstName = guest.FirstName
		booking.GuestLastName = guest.LastName
		booking.GuestEmail = guest.Email

		if err = s.repo.InsertTx(ctx, sqltx, booking); err != nil {
			log.Error().Err(err).Msg("failed to create activity booking")

			return fmt.Errorf("failed to create activity booking: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	log.Info().
		Str("activity_booking_id", booking.ID).
		Str("reference", booking.BookingReference).
		Str("activity_id", booking.ActivityID).
		Int("participants", booking.Participants).
		Msg("activity booking created")

	s.invalidate(ctx, constant.Empty)
	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetActivityBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.SortBy == constant.Empty {
		req.SortBy = model.TableName + "." + model.FieldSequence
		req.SortDir = gDto.SortDirDesc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllActivityBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for activity bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count activity bookings")

		return res, fmt.Errorf("failed to count activity bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get activity bookings")

		return res, fmt.Errorf("failed to get activity bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save activity bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountActivityBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count activity bookings")

		return res, fmt.Errorf("failed to count activity bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save activity booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ActivityBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetActivityBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get activity booking")

		return res, fmt.Errorf("failed to get activity booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("activity booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save activity booking to cache")
		}
	}()

	return res, nil
}

// changeTx locks the booking and writes extra together with the transition to status.
// An empty status leaves the lifecycle alone.
func (s *serviceImpl) changeTx(
	ctx context.Context, sqltx *sqlx.Tx, id, status string, extra map[string]any, user string,
) (booking model.ActivityBooking, from string, err error) {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err = s.repo.GetForUpdateTx(ctx, sqltx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to lock activity booking")

		return booking, from, fmt.Errorf("failed to lock activity booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, from, failure.NotFound("activity booking not found") // nolint:wrapcheck
	}

	from = booking.Status
	fields := map[string]any{}

	if status != constant.Empty {
		if err = booking.Transition(status, timezone.Now()); err != nil {
			return booking, from, err //nolint:wrapcheck
		}

		fields = booking.TransitionFields()
	}

	for column, value := range extra {
		fields[column] = value
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = user

	if err = s.repo.UpdateTx(ctx, sqltx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update activity booking")

		return booking, from, fmt.Errorf("failed to update activity booking: %w", err)
	}

	return booking, from, nil
}

// Transition moves an activity booking through pending, confirmed and completed, or cancels it.
func (s *serviceImpl) Transition(ctx context.Context, id, status string) (dto.ActivityBookingResponse, error) {
	return s.change(ctx, constant.OtelServiceScopeName+".Transition", id, status, nil)
}

// Update writes the free text fields and the optional transition in one transaction.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateActivityBookingRequest, id string) (dto.ActivityBookingResponse, error) {
	if req.IsEmpty() {
		return dto.ActivityBookingResponse{}, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	var extra map[string]any
	if req.SpecialRequests != nil {
		extra = map[string]any{model.FieldSpecialRequests: req.SpecialRequests}
	}

	return s.change(ctx, constant.OtelServiceScopeName+".Update", id, req.Status, extra)
}

func (s *serviceImpl) change(
	ctx context.Context, spanName, id, status string, extra map[string]any,
) (res dto.ActivityBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, spanName)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := userFromContext(ctx)

	var (
		booking model.ActivityBooking
		from    string
	)

	err = s.transactor.WithTx(ctx, func(sqltx *sqlx.Tx) (txErr error) {
		booking, from, txErr = s.changeTx(ctx, sqltx, id, status, extra, user)

		return txErr
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if note, ok := extra[model.FieldSpecialRequests].(*string); ok {
		booking.SpecialRequests = *note
	}

	if status != constant.Empty {
		log.Info().
			Str("activity_booking_id", booking.ID).
			Str("from", from).
			Str("to", booking.Status).
			Msg("activity booking status changed")
	}

	s.invalidate(ctx, booking.ID)
	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if activity booking exists")

		return fmt.Errorf("failed to check if activity booking exists: %w", err)
	}

	if !exist {
		return failure.NotFound("activity booking not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete activity booking")

		return fmt.Errorf("failed to delete activity booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}
