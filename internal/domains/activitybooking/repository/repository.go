package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/internal/domains/activitybooking/model"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	gRepo "hostel/shared/repository"
	"hostel/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type ActivityBooking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.ActivityBooking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.ActivityBooking, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.ActivityBooking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ActivityBooking, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ActivityBooking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.ActivityBooking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) ActivityBooking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.ActivityBooking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// OccupyingSlotFilter selects the bookings holding places in one activity session.
func OccupyingSlotFilter(activityID string, date time.Time, clock string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldActivityID,
				Operator: gDto.FilterOperatorEq,
				Value:    activityID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldBookingDate,
				Operator: gDto.FilterOperatorEq,
				Value:    timezone.Format(date, constant.DateOnlyFormat),
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldBookingTime,
				Operator: gDto.FilterOperatorEq,
				Value:    clock,
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
