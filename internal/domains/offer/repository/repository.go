package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/internal/domains/offer/model"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/logger"
	gRepo "hostel/shared/repository"

	"github.com/jmoiron/sqlx"
)

// ErrOfferExhausted is returned by RedeemTx when the usage cap was reached first.
var ErrOfferExhausted = errors.New("offer usage limit reached")

const (
	redeemQuery = `UPDATE offers SET used_count = used_count + 1, modified_at = NOW()
		WHERE id = $1 AND (max_uses IS NULL OR used_count < max_uses)`

	statisticsQuery = `SELECT
		COUNT(id) AS total,
		COUNT(id) FILTER (WHERE status = 'active') AS active,
		COUNT(id) FILTER (WHERE status = 'scheduled') AS scheduled,
		COUNT(id) FILTER (WHERE status = 'paused') AS paused,
		COUNT(id) FILTER (WHERE status = 'expired') AS expired,
		COUNT(id) FILTER (WHERE is_public) AS public,
		COALESCE(SUM(used_count), 0) AS redemptions
		FROM offers`
)

type Offer interface {
	Insert(ctx context.Context, model model.Offer) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Offer, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Offer, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Offer, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Offer, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	RedeemTx(ctx context.Context, sqltx *sqlx.Tx, id string) error
	Statistics(ctx context.Context) (model.Statistics, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Offer]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Offer {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Offer](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// RedeemTx increments used_count only while the cap allows it.
func (r *repositoryImpl) RedeemTx(ctx context.Context, sqltx *sqlx.Tx, id string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".offer.RedeemTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, redeemQuery)

	result, err := sqltx.ExecContext(ctx, redeemQuery, id)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to redeem offer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to read redeemed rows: %w", err)
	}

	if affected == 0 {
		return ErrOfferExhausted
	}

	return nil
}

func (r *repositoryImpl) Statistics(ctx context.Context) (res model.Statistics, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".offer.Statistics")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, statisticsQuery)

	if err = r.db.Read.GetContext(ctx, &res, statisticsQuery); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return res, fmt.Errorf("failed to get offer statistics: %w", err)
	}

	return res, nil
}
