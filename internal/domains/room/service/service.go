package service

import (
	"context"
	"fmt"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/infras/s3"
	bookingRepo "hostel/internal/domains/booking/repository"
	"hostel/internal/domains/room/model"
	"hostel/internal/domains/room/model/dto"
	"hostel/internal/domains/room/repository"
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
	cacheGetRoom       = "room:get"
	cacheGetAllRoom    = "room:gets"
	cacheCountRoom     = "room:count"
	cacheGetPublicRoom = "room:public"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	GetPublic(ctx context.Context, req gDto.QueryParams) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Room
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(
	repo repository.Room,
	bookingRepo bookingRepo.Booking,
	transactor postgres.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Room {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		s3:          s3,
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete room from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
		shared.InvalidateCaches(c, s.cache, cacheGetPublicRoom)
	}()
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	bucketName := s.cfg.External.S3.BucketName

	imageURL := constant.Empty
	var uploadedObjectName string

	if req.Image != nil {
		filename := shared.NewObjectName(req.Image.Filename)

		url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, filename)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload image to S3")

			return fmt.Errorf("failed to upload image: %w", err)
		}

		imageURL = url
		uploadedObjectName = filename
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, imageURL)); err != nil {
		if uploadedObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName)
		}

		if shared.IsUniqueViolation(err) {
			return failure.Conflict("room number already exists") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create room")

		return fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, cacheGetAllRoom, req, filter)
}

// GetPublic lists the rooms guests can book, hiding those under maintenance.
func (s *serviceImpl) GetPublic(ctx context.Context, req gDto.QueryParams) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPublic")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.SortBy == constant.Empty {
		req.SortBy = model.TableName + "." + model.FieldPrice
		req.SortDir = gDto.SortDirAsc
	}

	return s.list(ctx, cacheGetPublicRoom, req, repository.BookableFilter())
}

func (s *serviceImpl) list(ctx context.Context, prefix string, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(prefix, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

// resolveStatus applies an administrative status change. Only maintenance can be forced;
// available hands the status back to occupancy.
func resolveStatus(current model.Room, req dto.UpdateRoomRequest) (model.Room, error) {
	next := current

	if req.Capacity != nil {
		if *req.Capacity < current.Occupied {
			return next, failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
				"capacity": {fmt.Sprintf("capacity cannot be lower than current occupancy of %d", current.Occupied)},
			})
		}

		next.Capacity = *req.Capacity
	}

	switch req.Status {
	case model.StatusMaintenance:
		next.Status = model.StatusMaintenance
	case model.StatusAvailable:
		// DerivedStatus keeps maintenance, so it has to be cleared first.
		next.Status = model.StatusAvailable
		next.Status = next.DerivedStatus()
	default:
		next.Status = next.DerivedStatus()
	}

	return next, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	bucketName := s.cfg.External.S3.BucketName

	imageURL := constant.Empty
	var uploadedObjectName string

	if req.Image != nil {
		filename := shared.NewObjectName(req.Image.Filename)

		url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, filename)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload image to S3")

			return fmt.Errorf("failed to upload image: %w", err)
		}

		imageURL = url
		uploadedObjectName = filename
	}

	var current model.Room

	// Capacity and status share the room lock with booking transitions.
	err = s.transactor.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		current, err = s.repo.GetForUpdateTx(ctx, sqltx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to lock room")

			return fmt.Errorf("failed to lock room: %w", err)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("room not found") // nolint:wrapcheck
		}

		next, err := resolveStatus(current, req)
		if err != nil {
			return err
		}

		fields := shared.TransformFields(req, user)
		fields[model.FieldStatus] = next.Status
		fields[constant.FieldModifiedAt] = timezone.Now()

		if imageURL != constant.Empty {
			fields[model.FieldImage] = imageURL
		}

		if err = s.repo.UpdateTx(ctx, sqltx, fields, filter); err != nil {
			if shared.IsUniqueViolation(err) {
				return failure.Conflict("room number already exists") // nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to update room")

			return fmt.Errorf("failed to update room: %w", err)
		}

		return nil
	})
	if err != nil {
		if uploadedObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName)
		}

		return err //nolint:wrapcheck
	}

	if imageURL != constant.Empty && current.Image != constant.Empty {
		if oldObjectName := s.s3.GetObjectNameFromURL(bucketName, current.Image); oldObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, oldObjectName)
		}
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete refuses rooms still referenced by occupying bookings.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	room, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	occupied, err := s.bookingRepo.Exist(ctx, bookingRepo.OccupyingByRoomFilter(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room bookings")

		return fmt.Errorf("failed to check room bookings: %w", err)
	}

	if occupied {
		return failure.Conflict("room has active bookings") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if shared.IsForeignKeyViolation(err) {
			return failure.Conflict("room is referenced by booking history") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	if room.Image != constant.Empty {
		bucketName := s.cfg.External.S3.BucketName
		if objectName := s.s3.GetObjectNameFromURL(bucketName, room.Image); objectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName)
		}
	}

	s.invalidate(ctx, id)

	return nil
}
