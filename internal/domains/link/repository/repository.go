package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks -mock_names=Link=MockLinkRepository

import (
	"context"
	"fmt"
	"scheduler/infras/otel"
	"scheduler/infras/postgres"
	"scheduler/internal/domains/link/model"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	gRepo "scheduler/shared/repository"

	"github.com/jmoiron/sqlx"
)

// the limit check and the increment are one statement so concurrent bookings cannot overshoot.
var incrementUsageQuery = fmt.Sprintf(
	"UPDATE %s SET %s = %s + 1 WHERE %s = $1 AND (%s = 0 OR %s < %s)",
	model.TableName, model.FieldUsageCount, model.FieldUsageCount, model.FieldID,
	model.FieldUsageLimit, model.FieldUsageCount, model.FieldUsageLimit,
)

type Link interface {
	Insert(ctx context.Context, model model.Link) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Link, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Link, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	// IncrementUsageTx counts one more booking against the link inside tx.
	// It reports false when the usage limit is already reached.
	IncrementUsageTx(ctx context.Context, tx *sqlx.Tx, id string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Link]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Link {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Link](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) IncrementUsageTx(ctx context.Context, tx *sqlx.Tx, id string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".IncrementUsageTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, incrementUsageQuery)

	result, err := tx.ExecContext(ctx, incrementUsageQuery, id)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to increment link usage: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}
