package activitybooking

import (
	"net/http"

	"hostel/infras/otel"
	"hostel/internal/domains/activitybooking/model"
	"hostel/internal/domains/activitybooking/model/dto"
	"hostel/internal/domains/activitybooking/service"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/validator"
	"hostel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var sortable = []string{
	model.FieldSequence,
	model.FieldBookingDate,
	model.FieldStatus,
	model.FieldTotalAmount,
	constant.FieldCreatedAt,
}

type Handler struct {
	service service.ActivityBooking
	otel    otel.Otel
}

func New(service service.ActivityBooking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/activity-bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateActivityBooking)
		routerGroup.Get("/", handler.GetActivityBookings)
		routerGroup.Get("/{id}", handler.GetActivityBookingByID)
		routerGroup.Put("/{id}", handler.UpdateActivityBooking)
		routerGroup.Patch("/{id}/status", handler.TransitionActivityBooking)
		routerGroup.Delete("/{id}", handler.DeleteActivityBooking)
	})
}

// CreateActivityBooking reserves a slot of an activity for a guest.
// @Summary Create an activity booking
// @Description Public endpoint. Checks the slot against the activity schedule and finds or creates the guest by email.
// @Tags ActivityBooking
// @Accept json
// @Produce json
// @Param request body dto.CreateActivityBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.ActivityBookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/activity-bookings [post]
func (handler *Handler) CreateActivityBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateActivityBooking")
	defer scope.End()

	req := dto.CreateActivityBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create activity booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Activity booking created successfully")

	response.WithJSONMessage(writer, http.StatusCreated, "Activity booking created successfully", res)
}

// GetActivityBookings lists activity bookings newest first.
// @Summary Get all activity bookings
// @Tags ActivityBooking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param activity_id query string false "Filter by activity"
// @Param guest_id query string false "Filter by guest"
// @Param from query string false "Booked on or after this date (YYYY-MM-DD)"
// @Param to query string false "Booked on or before this date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetActivityBookingsResponse]
// @Failure 400 {object} response.Error
// @Router /api/activity-bookings [get]
// @Security BearerAuth
func (handler *Handler) GetActivityBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActivityBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.AllowSort(model.TableName, sortable...)

	query := request.URL.Query()
	filter := dto.ListFilter{
		Status:     query.Get(model.FieldStatus),
		ActivityID: query.Get(model.FieldActivityID),
		GuestID:    query.Get(model.FieldGuestID),
		From:       query.Get("from"),
		To:         query.Get("to"),
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filter.ToFilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get activity bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetActivityBookingByID returns one booking.
// @Summary Get an activity booking by ID
// @Tags ActivityBooking
// @Produce json
// @Param id path string true "Activity booking ID"
// @Success 200 {object} response.Data[dto.ActivityBookingResponse]
// @Failure 404 {object} response.Error
// @Router /api/activity-bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetActivityBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActivityBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get activity booking by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// UpdateActivityBooking changes special requests and the status.
// @Summary Update an activity booking
// @Tags ActivityBooking
// @Accept json
// @Produce json
// @Param id path string true "Activity booking ID"
// @Param request body dto.UpdateActivityBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.ActivityBookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /api/activity-bookings/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateActivityBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateActivityBooking")
	defer scope.End()

	req := dto.UpdateActivityBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update activity booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Activity booking updated successfully by user " + user)

	response.WithJSONMessage(writer, http.StatusOK, "Activity booking updated successfully", res)
}

// TransitionActivityBooking moves a booking to another lifecycle status.
// @Summary Change activity booking status
// @Tags ActivityBooking
// @Accept json
// @Produce json
// @Param id path string true "Activity booking ID"
// @Param request body dto.TransitionRequest true "Target status"
// @Success 200 {object} response.Data[dto.ActivityBookingResponse]
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /api/activity-bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) TransitionActivityBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".TransitionActivityBooking")
	defer scope.End()

	req := dto.TransitionRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Transition(ctx, chi.URLParam(request, constant.RequestParamID), req.Status)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("status", req.Status).Msg("failed to transition activity booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSONMessage(writer, http.StatusOK, "Activity booking status updated successfully", res)
}

// DeleteActivityBooking removes an activity booking.
// @Summary Delete an activity booking
// @Tags ActivityBooking
// @Produce json
// @Param id path string true "Activity booking ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /api/activity-bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteActivityBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteActivityBooking")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete activity booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Activity booking deleted successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Activity booking deleted successfully")
}
