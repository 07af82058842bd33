package availability

import (
	"net/http"

	"hostel/infras/otel"
	"hostel/internal/domains/availability/model/dto"
	"hostel/internal/domains/availability/service"
	"hostel/shared"
	"hostel/shared/constant"
	"hostel/shared/validator"
	"hostel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/available-rooms", handler.GetAvailableRooms)
}

// GetAvailableRooms lists rooms that can take the party for the whole stay.
// @Summary Find available rooms
// @Tags Availability
// @Produce json
// @Param check_in_date query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out_date query string true "Check-out date (YYYY-MM-DD)"
// @Param number_of_guests query integer true "Party size"
// @Success 200 {object} response.Data[dto.AvailableRoomsResponse]
// @Failure 400 {object} response.Error
// @Router /api/available-rooms [get]
func (handler *Handler) GetAvailableRooms(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableRooms")
	defer scope.End()

	query := request.URL.Query()
	req := dto.AvailabilityRequest{
		CheckInDate:  query.Get("check_in_date"),
		CheckOutDate: query.Get("check_out_date"),
	}

	if guests := query.Get("number_of_guests"); guests != constant.Empty {
		// an unparsable value stays zero and fails validation
		req.NumberOfGuests, _ = shared.ConvertStringToInt(guests)
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	rooms, err := handler.service.FindAvailableRooms(ctx, req.ToQuery())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to find available rooms")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, rooms)
}
