package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"hostel/infras/otel"
	"hostel/internal/domains/availability/model"
	"hostel/internal/domains/availability/model/dto"
	bookingRepo "hostel/internal/domains/booking/repository"
	roomRepo "hostel/internal/domains/room/repository"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Availability interface {
	FindAvailableRooms(ctx context.Context, query model.Query) (dto.AvailableRoomsResponse, error)
}

type serviceImpl struct {
	roomRepo    roomRepo.Room
	bookingRepo bookingRepo.Booking
	otel        otel.Otel
}

func New(roomRepo roomRepo.Room, bookingRepo bookingRepo.Booking, otel otel.Otel) Availability {
	return &serviceImpl{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		otel:        otel,
	}
}

// FindAvailableRooms reads fresh state on every call; results are never cached.
func (s *serviceImpl) FindAvailableRooms(ctx context.Context, query model.Query) (res dto.AvailableRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindAvailableRooms")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = query.Validate(timezone.Now()); err != nil {
		return res, err
	}

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, roomRepo.BookableFilter())
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, bookingRepo.OccupyingOverlapFilter(query.CheckIn, query.CheckOut))
	if err != nil {
		log.Error().Err(err).Msg("failed to get overlapping bookings")

		return res, fmt.Errorf("failed to get overlapping bookings: %w", err)
	}

	res.FromResult(query, model.Evaluate(rooms, bookings, query), bookings)

	return res, nil
}
