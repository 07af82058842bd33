package service

import (
	"context"
	"fmt"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/infras/s3"
	"hostel/internal/domains/activity/model"
	"hostel/internal/domains/activity/model/dto"
	"hostel/internal/domains/activity/repository"
	"hostel/shared"
	"hostel/shared/cache"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetActivity       = "activity:get"
	cacheGetAllActivity    = "activity:gets"
	cacheCountActivity     = "activity:count"
	cacheGetPublicActivity = "activity:public"
)

type Activity interface {
	Create(ctx context.Context, req dto.CreateActivityRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetActivitiesResponse, error)
	GetPublic(ctx context.Context, req gDto.QueryParams) (dto.GetActivitiesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ActivityResponse, error)
	Update(ctx context.Context, req dto.UpdateActivityRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Activity
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Activity, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Activity {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetActivity, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete activity from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllActivity)
		shared.InvalidateCaches(c, s.cache, cacheCountActivity)
		shared.InvalidateCaches(c, s.cache, cacheGetPublicActivity)
	}()
}

func (s *serviceImpl) upload(ctx context.Context, req dto.CreateActivityRequest) (url, objectName string, err error) {
	if req.Image == nil {
		return constant.Empty, constant.Empty, nil
	}

	objectName = shared.NewObjectName(req.Image.Filename)

	url, err = s.s3.UploadFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, req.ImageFile, req.Image, objectName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload image to S3")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, objectName, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateActivityRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = dto.CheckHours(req.StartTime, req.EndTime); err != nil {
		return err //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	imageURL, objectName, err := s.upload(ctx, req)
	if err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, imageURL)); err != nil {
		if objectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, objectName)
		}

		log.Error().Err(err).Msg("failed to create activity")

		return fmt.Errorf("failed to create activity: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetActivitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, cacheGetAllActivity, req, filter)
}

func (s *serviceImpl) GetPublic(ctx context.Context, req gDto.QueryParams) (res dto.GetActivitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPublic")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.SortBy == constant.Empty {
		req.SortBy = model.TableName + "." + model.FieldName
		req.SortDir = gDto.SortDirAsc
	}

	return s.list(ctx, cacheGetPublicActivity, req, repository.ActiveFilter())
}

func (s *serviceImpl) list(ctx context.Context, prefix string, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetActivitiesResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(prefix, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for activities")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count activities")

		return res, fmt.Errorf("failed to count activities: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get activities")

		return res, fmt.Errorf("failed to get activities: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save activities to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountActivity, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count activities")

		return res, fmt.Errorf("failed to count activities: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save activity count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ActivityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetActivity, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	activity, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get activity")

		return res, fmt.Errorf("failed to get activity: %w", err)
	}

	if activity.ID == constant.Empty {
		return res, failure.NotFound("activity not found") // nolint:wrapcheck
	}

	res.FromModel(activity)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save activity to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateActivityRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	bucketName := s.cfg.External.S3.BucketName

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get activity")

		return fmt.Errorf("failed to get activity: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("activity not found") // nolint:wrapcheck
	}

	if err = req.Merge(current); err != nil {
		return err //nolint:wrapcheck
	}

	imageURL, objectName, err := s.upload(ctx, dto.CreateActivityRequest{Image: req.Image, ImageFile: req.ImageFile})
	if err != nil {
		return err
	}

	fields := shared.TransformFields(req, user)
	if req.Active != nil {
		fields[model.FieldActive] = *req.Active
	}

	if imageURL != constant.Empty {
		fields[model.FieldImage] = imageURL
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		if objectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName)
		}

		log.Error().Err(err).Msg("failed to update activity")

		return fmt.Errorf("failed to update activity: %w", err)
	}

	if imageURL != constant.Empty && current.Image != constant.Empty {
		if oldObjectName := s.s3.GetObjectNameFromURL(bucketName, current.Image); oldObjectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, oldObjectName)
		}
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete refuses activities that still have bookings on record.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	activity, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get activity")

		return fmt.Errorf("failed to get activity: %w", err)
	}

	if activity.ID == constant.Empty {
		return failure.NotFound("activity not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if shared.IsForeignKeyViolation(err) {
			return failure.Conflict("activity has bookings") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete activity")

		return fmt.Errorf("failed to delete activity: %w", err)
	}

	if activity.Image != constant.Empty {
		bucketName := s.cfg.External.S3.BucketName
		if objectName := s.s3.GetObjectNameFromURL(bucketName, activity.Image); objectName != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName)
		}
	}

	s.invalidate(ctx, id)

	return nil
}
