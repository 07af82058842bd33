package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Offer=MockOfferService

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/internal/domains/offer/model"
	"hostel/internal/domains/offer/model/dto"
	"hostel/internal/domains/offer/repository"
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
	cacheGetOffer        = "offer:get"
	cacheGetAllOffer     = "offer:gets"
	cacheCountOffer      = "offer:count"
	cachePublicOffer     = "offer:public"
	cacheStatisticsOffer = "offer:statistics"
)

type Offer interface {
	Create(ctx context.Context, req dto.CreateOfferRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetOffersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.OfferResponse, error)
	Update(ctx context.Context, req dto.UpdateOfferRequest, id string) error
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (dto.StatisticsResponse, error)
	GetPublic(ctx context.Context) ([]dto.PublicOfferResponse, error)
	Applicable(ctx context.Context, req dto.ApplicableRequest) (dto.ApplicableOffersResponse, error)
	ApplyTx(ctx context.Context, sqltx *sqlx.Tx, code string, params model.Params, subtotal, nightlyRate decimal.Decimal) (*model.Quote, error)
}

type serviceImpl struct {
	repo  repository.Offer
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Offer, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Offer {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func activePublicFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusActive, Table: model.TableName},
			gDto.Filter{Field: model.FieldIsPublic, Operator: gDto.FilterOperatorEq, Value: true, Table: model.TableName},
		},
	}
}

func codeFilter(code string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldOfferCode,
				Operator: gDto.FilterOperatorEq,
				Value:    strings.ToUpper(strings.TrimSpace(code)),
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetOffer, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete offer from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllOffer)
		shared.InvalidateCaches(c, s.cache, cacheCountOffer)
		shared.InvalidateCaches(c, s.cache, cachePublicOffer)
		shared.InvalidateCaches(c, s.cache, cacheStatisticsOffer)
	}()
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateOfferRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	from, to, err := req.ParseWindow()
	if err != nil {
		return err
	}

	offer := req.ToModel(user, from, to)

	if err = s.repo.Insert(ctx, offer); err != nil {
		if shared.IsUniqueViolation(err) {
			return failure.Conflict("offer code already exists") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create offer")

		return fmt.Errorf("failed to create offer: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetOffersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllOffer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for offers")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count offers")

		return res, fmt.Errorf("failed to count offers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get offers")

		return res, fmt.Errorf("failed to get offers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountOffer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count offers")

		return res, fmt.Errorf("failed to count offers: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offer count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetOffer, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	offer, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get offer")

		return res, fmt.Errorf("failed to get offer: %w", err)
	}

	if offer.ID == constant.Empty {
		return res, failure.NotFound("offer not found") // nolint:wrapcheck
	}

	res.FromModel(offer)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offer to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateOfferRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get offer")

		return fmt.Errorf("failed to get offer: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("offer not found") // nolint:wrapcheck
	}

	if _, err = req.Merge(current); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update offer")

		return fmt.Errorf("failed to update offer: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if offer exists")

		return fmt.Errorf("failed to check if offer exists: %w", err)
	}

	if !exist {
		return failure.NotFound("offer not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete offer")

		return fmt.Errorf("failed to delete offer: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Statistics(ctx context.Context) (res dto.StatisticsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Statistics")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.cache.Get(ctx, cacheStatisticsOffer, &res)
	if err == nil {
		return res, nil
	}

	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get offer statistics")

		return res, fmt.Errorf("failed to get offer statistics: %w", err)
	}

	res.FromModel(stats)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheStatisticsOffer, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save offer statistics to cache")
		}
	}()

	return res, nil
}

// GetPublic lists active public offers whose window has not closed.
func (s *serviceImpl) GetPublic(ctx context.Context) (res []dto.PublicOfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPublic")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	today := timezone.Format(timezone.Now(), constant.DateOnlyFormat)
	cacheKey := shared.BuildCacheKey(cachePublicOffer, today)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldOfferCode, SortDir: gDto.SortDirAsc}, activePublicFilter())
	if err != nil {
		log.Error().Err(err).Msg("failed to get public offers")

		return res, fmt.Errorf("failed to get public offers: %w", err)
	}

	now := timezone.Now()
	res = make([]dto.PublicOfferResponse, 0, len(models))

	for _, offer := range models {
		if now.After(offer.ValidTo) && !offer.InWindow(now) {
			continue
		}

		var item dto.PublicOfferResponse

		item.FromModel(offer)
		res = append(res, item)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save public offers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Applicable(ctx context.Context, req dto.ApplicableRequest) (res dto.ApplicableOffersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Applicable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{}, activePublicFilter())
	if err != nil {
		log.Error().Err(err).Msg("failed to get offers")

		return res, fmt.Errorf("failed to get offers: %w", err)
	}

	eligible := model.Applicable(models, req.ToParams())
	quotes := make([]model.Quote, len(eligible))

	for i, offer := range eligible {
		quotes[i] = offer.Quote(req.Total, req.NightlyRate)
	}

	best, _ := model.Best(eligible, req.Total, req.NightlyRate)
	res.FromQuotes(quotes, best)

	return res, nil
}

// ApplyTx resolves the offer for a booking and redeems it in the caller's transaction.
// An explicit code must be eligible; without one the best public offer is used when auto apply is on.
// A nil quote means no offer applies.
func (s *serviceImpl) ApplyTx(ctx context.Context, sqltx *sqlx.Tx, code string, params model.Params, subtotal, nightlyRate decimal.Decimal) (res *model.Quote, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ApplyTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var quote model.Quote

	if strings.TrimSpace(code) != constant.Empty {
		offer, err := s.repo.GetTx(ctx, sqltx, codeFilter(code))
		if err != nil {
			log.Error().Err(err).Msg("failed to get offer by code")

			return nil, fmt.Errorf("failed to get offer by code: %w", err)
		}

		if offer.ID == constant.Empty || !offer.IsEligible(params) {
			return nil, failure.Validation(constant.ResponseErrorValidation, map[string][]string{ // nolint:wrapcheck
				"offer_code": {"offer code is not valid for this booking"},
			})
		}

		quote = offer.Quote(subtotal, nightlyRate)
	} else {
		if !s.cfg.Booking.AutoApplyOffers {
			return nil, nil
		}

		offers, err := s.repo.GetAllTx(ctx, sqltx, gDto.QueryParams{}, activePublicFilter())
		if err != nil {
			log.Error().Err(err).Msg("failed to get offers")

			return nil, fmt.Errorf("failed to get offers: %w", err)
		}

		best, ok := model.Best(model.Applicable(offers, params), subtotal, nightlyRate)
		if !ok || !best.Discount.IsPositive() {
			return nil, nil
		}

		quote = best
	}

	if err = s.repo.RedeemTx(ctx, sqltx, quote.Offer.ID); err != nil {
		if errors.Is(err, repository.ErrOfferExhausted) {
			return nil, failure.Conflict("offer usage limit reached") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to redeem offer")

		return nil, fmt.Errorf("failed to redeem offer: %w", err)
	}

	s.invalidate(ctx, quote.Offer.ID)

	return &quote, nil
}
