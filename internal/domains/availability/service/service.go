package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"scheduler/config"
	"scheduler/infras/otel"
	"scheduler/internal/domains/availability/model"
	"scheduler/internal/domains/availability/model/dto"
	"scheduler/internal/domains/availability/repository"
	"scheduler/internal/scheduling"
	"scheduler/shared"
	"scheduler/shared/cache"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"

	"github.com/rs/zerolog/log"
)

const cacheOwnerWindows = "availability:owner"

type Availability interface {
	Create(ctx context.Context, req dto.CreateWindowRequest) (dto.WindowResponse, error)
	GetAll(ctx context.Context) (dto.GetWindowsResponse, error)
	Get(ctx context.Context, id string) (dto.WindowResponse, error)
	Update(ctx context.Context, req dto.UpdateWindowRequest, id string) error
	Delete(ctx context.Context, id string) error
	// ListForOwner returns every window of owner, active or not.
	ListForOwner(ctx context.Context, ownerID string) ([]scheduling.Window, error)
}

type serviceImpl struct {
	repo  repository.Window
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Window, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func ownerFilter(ownerID string, extra ...gDto.Filter) gDto.FilterGroup {
	return shared.FilterByOwner(ownerID, model.FieldOwnerID, model.TableName, extra...)
}

func byID(id string) gDto.Filter {
	return gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName}
}

var ordered = gDto.QueryParams{SortBy: model.FieldDayOfWeek + ", " + model.FieldStartMinute, SortDir: gDto.SortDirAsc}

// invalidate drops the owner's cached windows. Slot listings must never see a deleted window.
func (s *serviceImpl) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(cacheOwnerWindows, ownerID)); err != nil {
		log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to invalidate window cache")
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateWindowRequest) (res dto.WindowResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner := shared.UserID(ctx)

	window, err := req.ToModel(owner)
	if err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, window); err != nil {
		log.Error().Err(err).Str("owner_id", owner).Msg("failed to create availability window")

		return res, fmt.Errorf("failed to create availability window: %w", err)
	}

	s.invalidate(ctx, owner)

	res.FromModel(window)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context) (res dto.GetWindowsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	models, err := s.loadOwner(ctx, shared.UserID(ctx))
	if err != nil {
		return res, err
	}

	res.FromModels(models)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.WindowResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	window, err := s.repo.Get(ctx, ownerFilter(shared.UserID(ctx), byID(id)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability window")

		return res, fmt.Errorf("failed to get availability window: %w", err)
	}

	if window.ID == "" {
		return res, failure.NotFound("availability window not found") // nolint:wrapcheck
	}

	res.FromModel(window)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateWindowRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	owner := shared.UserID(ctx)
	filter := ownerFilter(owner, byID(id))

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability window")

		return fmt.Errorf("failed to get availability window: %w", err)
	}

	if current.ID == "" {
		return failure.NotFound("availability window not found") // nolint:wrapcheck
	}

	changes, err := req.Apply(current, owner)
	if err != nil {
		return err
	}

	if err = s.repo.Update(ctx, changes, filter); err != nil {
		log.Error().Err(err).Msg("failed to update availability window")

		return fmt.Errorf("failed to update availability window: %w", err)
	}

	s.invalidate(ctx, owner)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner := shared.UserID(ctx)
	filter := ownerFilter(owner, byID(id))

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if availability window exists")

		return fmt.Errorf("failed to check if availability window exists: %w", err)
	}

	if !exist {
		return failure.NotFound("availability window not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete availability window")

		return fmt.Errorf("failed to delete availability window: %w", err)
	}

	s.invalidate(ctx, owner)

	return nil
}

func (s *serviceImpl) ListForOwner(ctx context.Context, ownerID string) (windows []scheduling.Window, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.ListForOwner")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	models, err := s.loadOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	windows = make([]scheduling.Window, len(models))
	for i, m := range models {
		windows[i] = m.ToScheduling()
	}

	return windows, nil
}

// loadOwner reads through the per-owner cache.
func (s *serviceImpl) loadOwner(ctx context.Context, ownerID string) ([]model.Window, error) {
	cacheKey := shared.BuildCacheKey(cacheOwnerWindows, ownerID)

	var models []model.Window
	if err := s.cache.Get(ctx, cacheKey, &models); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for availability windows")

		return models, nil
	}

	models, err := s.repo.GetAll(ctx, ordered, ownerFilter(ownerID))
	if err != nil {
		log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to get availability windows")

		return nil, fmt.Errorf("failed to get availability windows: %w", err)
	}

	if err = s.cache.Save(ctx, cacheKey, models, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save availability windows to cache")
	}

	return models, nil
}
