package guest

import (
	"net/http"

	"hostel/infras/otel"
	"hostel/internal/domains/guest/model"
	"hostel/internal/domains/guest/model/dto"
	"hostel/internal/domains/guest/service"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/validator"
	"hostel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var sortable = []string{
	model.FieldFirstName,
	model.FieldLastName,
	model.FieldEmail,
	model.FieldNationality,
	constant.FieldCreatedAt,
}

type Handler struct {
	service service.Guest
	otel    otel.Otel
}

func New(service service.Guest, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/guests", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetGuests)
		routerGroup.Get("/{id}", handler.GetGuestByID)
		routerGroup.Put("/{id}", handler.UpdateGuest)
	})
}

// GetGuests lists guests. The search term matches names and email.
// @Summary Get all guests
// @Tags Guest
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param search query string false "Name or email contains"
// @Param nationality query string false "Filter by nationality"
// @Success 200 {object} response.Data[dto.GetGuestsResponse]
// @Failure 400 {object} response.Error
// @Router /api/guests [get]
// @Security BearerAuth
func (handler *Handler) GetGuests(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.AllowSort(model.TableName, sortable...)

	query := request.URL.Query()
	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if nationality := query.Get(model.FieldNationality); nationality != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldNationality,
			Operator: gDto.FilterOperatorEq,
			Value:    nationality,
			Table:    model.TableName,
		})
	}

	if search := query.Get("search"); search != constant.Empty {
		searchGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorOr}
		for _, field := range []string{model.FieldFirstName, model.FieldLastName, model.FieldEmail} {
			searchGroup.Filters = append(searchGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorLike,
				Value:    search,
				Table:    model.TableName,
			})
		}

		filterGroup.Filters = append(filterGroup.Filters, searchGroup)
	}

	guests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guests")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, guests)
}

// GetGuestByID returns one guest.
// @Summary Get a guest by ID
// @Tags Guest
// @Produce json
// @Param id path string true "Guest ID"
// @Success 200 {object} response.Data[dto.GuestResponse]
// @Failure 404 {object} response.Error
// @Router /api/guests/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetGuestByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuestByID")
	defer scope.End()

	guest, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guest by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, guest)
}

// UpdateGuest changes guest details. Email is the identity and stays fixed.
// @Summary Update a guest
// @Tags Guest
// @Accept json
// @Produce json
// @Param id path string true "Guest ID"
// @Param request body dto.UpdateGuestRequest true "Update Guest Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /api/guests/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateGuest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateGuest")
	defer scope.End()

	req := dto.UpdateGuestRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update guest")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Guest updated successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Guest updated successfully")
}
