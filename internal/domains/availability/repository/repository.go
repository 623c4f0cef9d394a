package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"scheduler/infras/otel"
	"scheduler/infras/postgres"
	"scheduler/internal/domains/availability/model"
	gDto "scheduler/shared/dto"
	gRepo "scheduler/shared/repository"
)

type Window interface {
	Insert(ctx context.Context, model model.Window) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Window, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Window, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Window]
}

func New(db *postgres.Connection, otel otel.Otel) Window {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Window](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
