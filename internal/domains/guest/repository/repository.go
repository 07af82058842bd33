package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/internal/domains/guest/model"
	gDto "hostel/shared/dto"
	gRepo "hostel/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const insertSavepoint = "guest_insert"

type Guest interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Guest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Guest, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Guest, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Guest, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Guest]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Guest {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Guest](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InsertTx runs the insert under a savepoint. A failed insert, such as a lost race on the email
// constraint, is rolled back to the savepoint so sqltx stays usable for a re-read.
func (r *repositoryImpl) InsertTx(ctx context.Context, sqltx *sqlx.Tx, guest model.Guest) error {
	if _, err := sqltx.ExecContext(ctx, "SAVEPOINT "+insertSavepoint); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := r.Repository.InsertTx(ctx, sqltx, guest); err != nil {
		if _, rollbackErr := sqltx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+insertSavepoint); rollbackErr != nil {
			log.Error().Err(rollbackErr).Msg("failed to roll back to guest savepoint")
		}

		return err //nolint:wrapcheck
	}

	if _, err := sqltx.ExecContext(ctx, "RELEASE SAVEPOINT "+insertSavepoint); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}

	return nil
}
