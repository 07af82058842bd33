package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/internal/domains/booking/model"
	gDto "hostel/shared/dto"
	gRepo "hostel/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// OccupyingOverlapFilter selects occupying bookings whose stay intersects [checkIn, checkOut).
// Without room ids every room is matched.
func OccupyingOverlapFilter(checkIn, checkOut time.Time, roomIDs ...string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorIn,
			Value:    model.OccupyingStatuses,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldCheckInDate,
			ArgName:  "range_check_out",
			Operator: gDto.FilterOperatorLess,
			Value:    checkOut,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldCheckOutDate,
			ArgName:  "range_check_in",
			Operator: gDto.FilterOperatorGreater,
			Value:    checkIn,
			Table:    model.TableName,
		},
	}

	switch len(roomIDs) {
	case 0:
	case 1:
		filters = append(filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomIDs[0],
			Table:    model.TableName,
		})
	default:
		filters = append(filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorIn,
			Value:    roomIDs,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}

// OccupyingByRoomFilter selects the occupying bookings of a room, whatever their dates.
func OccupyingByRoomFilter(roomID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    model.OccupyingStatuses,
				Table:    model.TableName,
			},
		},
	}
}
