package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"scheduler/infras/otel"
	"scheduler/infras/postgres"
	"scheduler/internal/domains/calendar/model"
	gDto "scheduler/shared/dto"
	gRepo "scheduler/shared/repository"
)

type Connection interface {
	Insert(ctx context.Context, model model.Connection) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Connection, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Connection]
}

func New(db *postgres.Connection, otel otel.Otel) Connection {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Connection](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
