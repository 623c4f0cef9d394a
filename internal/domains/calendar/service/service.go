package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"scheduler/config"
	"scheduler/infras/calendar"
	"scheduler/infras/otel"
	"scheduler/internal/domains/calendar/model"
	"scheduler/internal/domains/calendar/model/dto"
	"scheduler/internal/domains/calendar/repository"
	"scheduler/internal/scheduling"
	"scheduler/shared"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNotConnected is returned when an event must be changed on an owner who has no calendar.
var ErrNotConnected = errors.New("calendar not connected")

const (
	otelOwnerAttribute    = "calendar.owner_id"
	otelProviderAttribute = "calendar.provider"
)

type Calendar interface {
	Connect(ctx context.Context, req dto.ConnectRequest) (dto.ConnectionResponse, error)
	GetConnection(ctx context.Context) (dto.ConnectionResponse, error)
	Disconnect(ctx context.Context) error

	// ListBusy returns nothing when the owner has no calendar connected.
	ListBusy(ctx context.Context, ownerID string, from, to time.Time) ([]scheduling.BusyPeriod, error)
	// CreateEvent returns an empty id when the owner has no calendar connected.
	CreateEvent(ctx context.Context, ownerID string, event calendar.Event) (string, error)
	ConfirmEvent(ctx context.Context, ownerID, eventID string) error
	DeleteEvent(ctx context.Context, ownerID, eventID string) error
}

type serviceImpl struct {
	repo     repository.Connection
	provider calendar.Provider
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Connection, provider calendar.Provider, cfg *config.Config, otel otel.Otel) Calendar {
	return &serviceImpl{
		repo:     repo,
		provider: provider,
		cfg:      cfg,
		otel:     otel,
	}
}

func ownerFilter(ownerID string) gDto.FilterGroup {
	return shared.FilterByOwner(ownerID, model.FieldOwnerID, model.TableName)
}

func activeFilter(ownerID string) gDto.FilterGroup {
	return shared.FilterByOwner(ownerID, model.FieldOwnerID, model.TableName, gDto.Filter{
		Field:    model.FieldActive,
		Value:    true,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})
}

func (s *serviceImpl) timeout() time.Duration {
	if s.cfg.Scheduling.IntegrationTimeoutSeconds <= 0 {
		return 10 * time.Second
	}

	return time.Duration(s.cfg.Scheduling.IntegrationTimeoutSeconds) * time.Second
}

func (s *serviceImpl) Connect(ctx context.Context, req dto.ConnectRequest) (res dto.ConnectionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".calendar.Connect")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner := shared.UserID(ctx)

	current, err := s.repo.Get(ctx, ownerFilter(owner))
	if err != nil {
		log.Error().Err(err).Msg("failed to get calendar connection")

		return res, fmt.Errorf("failed to get calendar connection: %w", err)
	}

	if current.ID == "" {
		conn, err := req.ToModel(owner)
		if err != nil {
			return res, err
		}

		if err = s.repo.Insert(ctx, conn); err != nil {
			log.Error().Err(err).Msg("failed to create calendar connection")

			return res, fmt.Errorf("failed to create calendar connection: %w", err)
		}

		res.FromModel(conn)

		return res, nil
	}

	changes, err := req.Changes(owner)
	if err != nil {
		return res, err
	}

	if err = s.repo.Update(ctx, changes, ownerFilter(owner)); err != nil {
		log.Error().Err(err).Msg("failed to update calendar connection")

		return res, fmt.Errorf("failed to update calendar connection: %w", err)
	}

	current.Provider, current.CalendarID, current.URL, current.Active = req.Provider, req.CalendarID, req.URL, true
	res.FromModel(current)

	return res, nil
}

func (s *serviceImpl) GetConnection(ctx context.Context) (res dto.ConnectionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".calendar.GetConnection")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	conn, err := s.repo.Get(ctx, ownerFilter(shared.UserID(ctx)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get calendar connection")

		return res, fmt.Errorf("failed to get calendar connection: %w", err)
	}

	if conn.ID == "" {
		return res, failure.NotFound("calendar connection not found") // nolint:wrapcheck
	}

	res.FromModel(conn)

	return res, nil
}

func (s *serviceImpl) Disconnect(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".calendar.Disconnect")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.repo.Delete(ctx, ownerFilter(shared.UserID(ctx))); err != nil {
		log.Error().Err(err).Msg("failed to delete calendar connection")

		return fmt.Errorf("failed to delete calendar connection: %w", err)
	}

	return nil
}

// connection returns the owner's active connection, or false when there is none.
func (s *serviceImpl) connection(ctx context.Context, ownerID string) (calendar.Connection, bool, error) {
	conn, err := s.repo.Get(ctx, activeFilter(ownerID))
	if err != nil {
		return calendar.Connection{}, false, fmt.Errorf("failed to get calendar connection: %w", err)
	}

	if conn.ID == "" {
		return calendar.Connection{}, false, nil
	}

	return conn.ToProvider(), true, nil
}

func (s *serviceImpl) ListBusy(ctx context.Context, ownerID string, from, to time.Time) (busy []scheduling.BusyPeriod, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelCalendarScopeName, constant.OtelCalendarScopeName+".ListBusy")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelOwnerAttribute, ownerID)

	conn, ok, err := s.connection(ctx, ownerID)
	if err != nil || !ok {
		return nil, err
	}

	scope.SetAttribute(otelProviderAttribute, conn.Provider)

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	periods, err := s.provider.ListBusy(ctx, conn, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list busy periods from %s: %w", conn.Provider, err)
	}

	busy = make([]scheduling.BusyPeriod, 0, len(periods))
	for _, p := range periods {
		if !p.End.After(p.Start) {
			continue
		}

		busy = append(busy, scheduling.BusyPeriod{Interval: scheduling.Interval{Start: p.Start, End: p.End}})
	}

	return busy, nil
}

func (s *serviceImpl) CreateEvent(ctx context.Context, ownerID string, event calendar.Event) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelCalendarScopeName, constant.OtelCalendarScopeName+".CreateEvent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelOwnerAttribute, ownerID)

	conn, ok, err := s.connection(ctx, ownerID)
	if err != nil || !ok {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	id, err = s.provider.CreateEvent(ctx, conn, event)
	if err != nil {
		return "", fmt.Errorf("failed to create %s event on %s: %w", event.Status, conn.Provider, err)
	}

	return id, nil
}

func (s *serviceImpl) ConfirmEvent(ctx context.Context, ownerID, eventID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelCalendarScopeName, constant.OtelCalendarScopeName+".ConfirmEvent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelOwnerAttribute, ownerID)

	conn, ok, err := s.connection(ctx, ownerID)
	if err != nil {
		return err
	}

	if !ok {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	if err = s.provider.ConfirmEvent(ctx, conn, eventID); err != nil {
		return fmt.Errorf("failed to confirm event on %s: %w", conn.Provider, err)
	}

	return nil
}

func (s *serviceImpl) DeleteEvent(ctx context.Context, ownerID, eventID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelCalendarScopeName, constant.OtelCalendarScopeName+".DeleteEvent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelOwnerAttribute, ownerID)

	conn, ok, err := s.connection(ctx, ownerID)
	if err != nil {
		return err
	}

	if !ok {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	if err = s.provider.DeleteEvent(ctx, conn, eventID); err != nil {
		return fmt.Errorf("failed to delete event on %s: %w", conn.Provider, err)
	}

	return nil
}
