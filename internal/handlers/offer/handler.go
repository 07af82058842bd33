package offer

import (
	"net/http"

	"hostel/infras/otel"
	"hostel/internal/domains/offer/model"
	"hostel/internal/domains/offer/model/dto"
	"hostel/internal/domains/offer/service"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/validator"
	"hostel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var sortable = []string{
	model.FieldOfferCode,
	model.FieldName,
	model.FieldDiscountType,
	model.FieldDiscountValue,
	model.FieldUsedCount,
	model.FieldValidFrom,
	model.FieldValidTo,
	model.FieldStatus,
	constant.FieldCreatedAt,
}

type Handler struct {
	service service.Offer
	otel    otel.Otel
}

func New(service service.Offer, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/offers", func(routerGroup chi.Router) {
		routerGroup.Get("/public", handler.GetPublicOffers)
		routerGroup.Get("/applicable", handler.GetApplicableOffers)
		routerGroup.Get("/statistics", handler.GetStatistics)
		routerGroup.Post("/", handler.CreateOffer)
		routerGroup.Get("/", handler.GetOffers)
		routerGroup.Get("/{id}", handler.GetOfferByID)
		routerGroup.Put("/{id}", handler.UpdateOffer)
		routerGroup.Delete("/{id}", handler.DeleteOffer)
	})
}

// CreateOffer registers a new promotional offer.
// @Summary Create an offer
// @Tags Offer
// @Accept json
// @Produce json
// @Param request body dto.CreateOfferRequest true "Create Offer Request"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /api/offers [post]
// @Security BearerAuth
func (handler *Handler) CreateOffer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOffer")
	defer scope.End()

	req := dto.CreateOfferRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create offer")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Offer created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Offer created successfully")
}

// GetOffers lists offers for the back office.
// @Summary Get all offers
// @Tags Offer
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param status query string false "Filter by status"
// @Param discount_type query string false "Filter by discount type"
// @Success 200 {object} response.Data[dto.GetOffersResponse]
// @Failure 400 {object} response.Error
// @Router /api/offers [get]
// @Security BearerAuth
func (handler *Handler) GetOffers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOffers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.AllowSort(model.TableName, sortable...)

	query := request.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    query.Get(model.FieldName),
				Table:    model.TableName,
			},
		},
	}

	for _, field := range []string{model.FieldStatus, model.FieldDiscountType} {
		if value := query.Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if public := shared.ConvertStringToBool(query.Get(model.FieldIsPublic)); public != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsPublic,
			Operator: gDto.FilterOperatorEq,
			Value:    *public,
			Table:    model.TableName,
		})
	}

	offers, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get offers")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, offers)
}

// GetPublicOffers lists the public offers that can be redeemed today.
// @Summary Get public offers
// @Tags Offer
// @Produce json
// @Success 200 {object} response.Data[[]dto.PublicOfferResponse]
// @Failure 500 {object} response.Error
// @Router /api/offers/public [get]
func (handler *Handler) GetPublicOffers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPublicOffers")
	defer scope.End()

	offers, err := handler.service.GetPublic(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get public offers")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, offers)
}

// GetApplicableOffers quotes every offer a stay qualifies for, best saving first.
// @Summary Get applicable offers
// @Tags Offer
// @Produce json
// @Param number_of_guests query integer true "Party size"
// @Param nights query integer true "Number of nights"
// @Param date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Param total query number true "Subtotal before discount"
// @Param nightly_rate query number false "Nightly rate used by free night offers"
// @Success 200 {object} response.Data[dto.ApplicableOffersResponse]
// @Failure 400 {object} response.Error
// @Router /api/offers/applicable [get]
func (handler *Handler) GetApplicableOffers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetApplicableOffers")
	defer scope.End()

	req := dto.ApplicableRequest{
		Date: request.URL.Query().Get("date"),
	}

	guests, err := shared.FormInt(request, "number_of_guests")
	if err != nil {
		response.WithError(writer, err)

		return
	}

	nights, err := shared.FormInt(request, "nights")
	if err != nil {
		response.WithError(writer, err)

		return
	}

	total, err := shared.FormDecimal(request, "total")
	if err != nil {
		response.WithError(writer, err)

		return
	}

	nightlyRate, err := shared.FormDecimal(request, "nightly_rate")
	if err != nil {
		response.WithError(writer, err)

		return
	}

	if guests != nil {
		req.NumberOfGuests = *guests
	}

	if nights != nil {
		req.Nights = *nights
	}

	if total != nil {
		req.Total = *total
	}

	if nightlyRate != nil {
		req.NightlyRate = *nightlyRate
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	offers, err := handler.service.Applicable(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get applicable offers")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, offers)
}

// GetStatistics summarizes offers by status and redemptions.
// @Summary Get offer statistics
// @Tags Offer
// @Produce json
// @Success 200 {object} response.Data[dto.StatisticsResponse]
// @Router /api/offers/statistics [get]
// @Security BearerAuth
func (handler *Handler) GetStatistics(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStatistics")
	defer scope.End()

	stats, err := handler.service.Statistics(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get offer statistics")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, stats)
}

// GetOfferByID returns one offer.
// @Summary Get an offer by ID
// @Tags Offer
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Data[dto.OfferResponse]
// @Failure 404 {object} response.Error
// @Router /api/offers/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetOfferByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOfferByID")
	defer scope.End()

	offer, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get offer by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, offer)
}

// UpdateOffer changes an offer. The code is immutable.
// @Summary Update an offer
// @Tags Offer
// @Accept json
// @Produce json
// @Param id path string true "Offer ID"
// @Param request body dto.UpdateOfferRequest true "Update Offer Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /api/offers/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateOffer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateOffer")
	defer scope.End()

	req := dto.UpdateOfferRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update offer")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Offer updated successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Offer updated successfully")
}

// DeleteOffer removes an offer.
// @Summary Delete an offer
// @Tags Offer
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /api/offers/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteOffer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteOffer")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete offer")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Offer deleted successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Offer deleted successfully")
}
