package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"scheduler/config"
	"scheduler/infras/otel"
	"scheduler/internal/domains/link/model"
	"scheduler/internal/domains/link/model/dto"
	"scheduler/internal/domains/link/repository"
	"scheduler/shared"
	"scheduler/shared/cache"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"
	"scheduler/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetLink     = "link:get"
	cacheGetAllLinks = "link:gets"
)

type Link interface {
	Create(ctx context.Context, req dto.CreateLinkRequest) (dto.LinkResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams) (dto.GetLinksResponse, error)
	Get(ctx context.Context, id string) (dto.LinkResponse, error)
	Update(ctx context.Context, req dto.UpdateLinkRequest, id string) error
	Delete(ctx context.Context, id string) error
	// GetPublic returns the client-facing view of an available link.
	GetPublic(ctx context.Context, id string) (dto.PublicLinkResponse, error)
	// Find loads any link by id regardless of owner. A missing link is a NotFound failure.
	Find(ctx context.Context, id string) (model.Link, error)
	// Forget drops the cached copy of a link after its usage count moved.
	Forget(ctx context.Context, id string)
}

type serviceImpl struct {
	repo  repository.Link
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Link, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Link {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func byID(id string) gDto.Filter {
	return gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName}
}

func ownerFilter(ownerID string, extra ...gDto.Filter) gDto.FilterGroup {
	return shared.FilterByOwner(ownerID, model.FieldOwnerID, model.TableName, extra...)
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)

	if id != "" {
		s.Forget(ctx, id)
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllLinks)
}

func (s *serviceImpl) Forget(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetLink, id)); err != nil {
		log.Error().Err(err).Str("link_id", id).Msg("failed to drop cached link")
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateLinkRequest) (res dto.LinkResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".link.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner := shared.UserID(ctx)

	link, err := req.ToModel(owner, s.cfg.Scheduling.DefaultTimezone)
	if err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, link); err != nil {
		log.Error().Err(err).Str("owner_id", owner).Msg("failed to create scheduling link")

		return res, fmt.Errorf("failed to create scheduling link: %w", err)
	}

	s.invalidate(ctx, "")

	res.FromModel(link, timezone.Now())

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams) (res dto.GetLinksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".link.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := ownerFilter(shared.UserID(ctx))
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllLinks, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for scheduling links")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count scheduling links")

		return res, fmt.Errorf("failed to count scheduling links: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get scheduling links")

		return res, fmt.Errorf("failed to get scheduling links: %w", err)
	}

	res.FromModels(models, total, params.Limit, timezone.Now())

	if err = s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save scheduling links to cache")
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.LinkResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".link.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	link, err := s.Find(ctx, id)
	if err != nil {
		return res, err
	}

	if link.OwnerID != shared.UserID(ctx) {
		return res, failure.NotFound("scheduling link not found") // nolint:wrapcheck
	}

	res.FromModel(link, timezone.Now())

	return res, nil
}

func (s *serviceImpl) GetPublic(ctx context.Context, id string) (res dto.PublicLinkResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".link.GetPublic")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	link, err := s.Find(ctx, id)
	if err != nil {
		return res, err
	}

	if !link.IsAvailable(timezone.Now()) {
		return res, failure.NotFound("scheduling link not available") // nolint:wrapcheck
	}

	res.FromModel(link)

	return res, nil
}

func (s *serviceImpl) Find(ctx context.Context, id string) (link model.Link, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".link.Find")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetLink, id)

	if err = s.cache.Get(ctx, cacheKey, &link); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for scheduling link")

		return link, nil
	}

	link, err = s.repo.Get(ctx, gDto.FilterGroup{Filters: []any{byID(id)}})
	if err != nil {
		log.Error().Err(err).Str("link_id", id).Msg("failed to get scheduling link")

		return link, fmt.Errorf("failed to get scheduling link: %w", err)
	}

	if link.ID == "" {
		return link, failure.NotFound("scheduling link not found") // nolint:wrapcheck
	}

	if err = s.cache.Save(ctx, cacheKey, link, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save scheduling link to cache")
	}

	return link, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateLinkRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".link.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	owner := shared.UserID(ctx)
	filter := ownerFilter(owner, byID(id))

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get scheduling link")

		return fmt.Errorf("failed to get scheduling link: %w", err)
	}

	if current.ID == "" {
		return failure.NotFound("scheduling link not found") // nolint:wrapcheck
	}

	changes, err := req.Apply(current, owner)
	if err != nil {
		return err
	}

	if err = s.repo.Update(ctx, changes, filter); err != nil {
		log.Error().Err(err).Msg("failed to update scheduling link")

		return fmt.Errorf("failed to update scheduling link: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".link.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := ownerFilter(shared.UserID(ctx), byID(id))

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if scheduling link exists")

		return fmt.Errorf("failed to check if scheduling link exists: %w", err)
	}

	if !exist {
		return failure.NotFound("scheduling link not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete scheduling link")

		return fmt.Errorf("failed to delete scheduling link: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}
