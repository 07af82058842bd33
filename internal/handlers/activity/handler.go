package activity

import (
	"net/http"

	"hostel/infras/otel"
	"hostel/internal/domains/activity/model"
	"hostel/internal/domains/activity/model/dto"
	"hostel/internal/domains/activity/service"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/validator"
	"hostel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

var sortable = []string{
	model.FieldName,
	model.FieldPrice,
	model.FieldDurationMinutes,
	model.FieldDifficultyLevel,
	model.FieldStartTime,
	constant.FieldCreatedAt,
}

type Handler struct {
	service service.Activity
	otel    otel.Otel
}

func New(service service.Activity, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/activities", func(routerGroup chi.Router) {
		routerGroup.Get("/public", handler.GetPublicActivities)
		routerGroup.Post("/", handler.CreateActivity)
		routerGroup.Get("/", handler.GetActivities)
		routerGroup.Get("/{id}", handler.GetActivityByID)
		routerGroup.Put("/{id}", handler.UpdateActivity)
		routerGroup.Delete("/{id}", handler.DeleteActivity)
	})
}

type formNumbers struct {
	duration, minParticipants, maxParticipants, advanceHours *int
}

func parseNumbers(request *http.Request) (numbers formNumbers, err error) {
	fields := []struct {
		key    string
		target **int
	}{
		{model.FieldDurationMinutes, &numbers.duration},
		{model.FieldMinParticipants, &numbers.minParticipants},
		{model.FieldMaxParticipants, &numbers.maxParticipants},
		{model.FieldAdvanceBookingHours, &numbers.advanceHours},
	}

	for _, field := range fields {
		if *field.target, err = shared.FormInt(request, field.key); err != nil {
			return numbers, err
		}
	}

	return numbers, nil
}

func valueOrZero(value *int) int {
	if value == nil {
		return 0
	}

	return *value
}

// CreateActivity handles the creation of a new activity.
// @Summary Create an activity
// @Description Available days may be repeated or comma separated. Empty means every day.
// @Tags Activity
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Activity name"
// @Param description formData string false "Description"
// @Param price formData number true "Price per participant"
// @Param duration_minutes formData integer true "Duration in minutes"
// @Param min_participants formData integer true "Minimum participants"
// @Param max_participants formData integer true "Maximum participants"
// @Param difficulty_level formData string true "easy, moderate or hard"
// @Param available_days formData []string false "Weekdays"
// @Param start_time formData string true "Opening time (HH:MM)"
// @Param end_time formData string true "Closing time (HH:MM)"
// @Param active formData boolean false "Active"
// @Param advance_booking_hours formData integer false "Minimum notice in hours"
// @Param image formData file false "Activity image"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Router /api/activities [post]
// @Security BearerAuth
func (handler *Handler) CreateActivity(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateActivity")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.CreateActivityRequest{
		Name:            request.FormValue(model.FieldName),
		Description:     request.FormValue(model.FieldDescription),
		DifficultyLevel: request.FormValue(model.FieldDifficultyLevel),
		AvailableDays:   dto.NormalizeDays(request.MultipartForm.Value[model.FieldAvailableDays]),
		StartTime:       request.FormValue(model.FieldStartTime),
		EndTime:         request.FormValue(model.FieldEndTime),
		Active:          shared.ConvertStringToBool(request.FormValue(model.FieldActive)),
	}

	numbers, err := parseNumbers(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	price, err := shared.FormDecimal(request, model.FieldPrice)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req.DurationMinutes = valueOrZero(numbers.duration)
	req.MinParticipants = valueOrZero(numbers.minParticipants)
	req.MaxParticipants = valueOrZero(numbers.maxParticipants)
	req.AdvanceBookingHours = valueOrZero(numbers.advanceHours)

	if price != nil {
		req.Price = *price
	}

	file, fileHeader, err := request.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create activity")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Activity created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Activity created successfully")
}

// GetPublicActivities lists active activities for guests.
// @Summary Get public activities
// @Tags Activity
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetActivitiesResponse]
// @Router /api/activities/public [get]
func (handler *Handler) GetPublicActivities(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPublicActivities")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.AllowSort(model.TableName, sortable...)

	activities, err := handler.service.GetPublic(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get public activities")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, activities)
}

// GetActivities lists activities for the back office.
// @Summary Get all activities
// @Tags Activity
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param difficulty_level query string false "Filter by difficulty"
// @Param active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetActivitiesResponse]
// @Router /api/activities [get]
// @Security BearerAuth
func (handler *Handler) GetActivities(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActivities")
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

	if level := query.Get(model.FieldDifficultyLevel); level != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldDifficultyLevel,
			Operator: gDto.FilterOperatorEq,
			Value:    level,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(query.Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	activities, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get activities")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, activities)
}

// GetActivityByID returns one activity.
// @Summary Get an activity by ID
// @Tags Activity
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Data[dto.ActivityResponse]
// @Failure 404 {object} response.Error
// @Router /api/activities/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetActivityByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActivityByID")
	defer scope.End()

	activity, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get activity by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, activity)
}

// UpdateActivity changes an activity. Omitted fields keep their value.
// @Summary Update an activity
// @Tags Activity
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Activity ID"
// @Param name formData string false "Activity name"
// @Param description formData string false "Description"
// @Param price formData number false "Price per participant"
// @Param duration_minutes formData integer false "Duration in minutes"
// @Param min_participants formData integer false "Minimum participants"
// @Param max_participants formData integer false "Maximum participants"
// @Param difficulty_level formData string false "easy, moderate or hard"
// @Param available_days formData []string false "Weekdays"
// @Param start_time formData string false "Opening time (HH:MM)"
// @Param end_time formData string false "Closing time (HH:MM)"
// @Param active formData boolean false "Active"
// @Param advance_booking_hours formData integer false "Minimum notice in hours"
// @Param image formData file false "Activity image"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /api/activities/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateActivity(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateActivity")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.UpdateActivityRequest{
		Name:            request.FormValue(model.FieldName),
		Description:     request.FormValue(model.FieldDescription),
		DifficultyLevel: request.FormValue(model.FieldDifficultyLevel),
		StartTime:       request.FormValue(model.FieldStartTime),
		EndTime:         request.FormValue(model.FieldEndTime),
		Active:          shared.ConvertStringToBool(request.FormValue(model.FieldActive)),
	}

	if values, ok := request.MultipartForm.Value[model.FieldAvailableDays]; ok {
		req.AvailableDays = pq.StringArray(dto.NormalizeDays(values))
	}

	numbers, err := parseNumbers(request)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req.DurationMinutes = numbers.duration
	req.MinParticipants = numbers.minParticipants
	req.MaxParticipants = numbers.maxParticipants
	req.AdvanceBookingHours = numbers.advanceHours

	if req.Price, err = shared.FormDecimal(request, model.FieldPrice); err != nil {
		response.WithError(writer, err)

		return
	}

	file, fileHeader, err := request.FormFile(model.FieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update activity")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Activity updated successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Activity updated successfully")
}

// DeleteActivity removes an activity with no bookings on record.
// @Summary Delete an activity
// @Tags Activity
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /api/activities/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteActivity(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteActivity")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete activity")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Activity deleted successfully by user " + user)

	response.WithMessage(writer, http.StatusOK, "Activity deleted successfully")
}
