package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"scheduler/config"
	"scheduler/infras/calendar"
	"scheduler/infras/otel"
	"scheduler/internal/domains/booking/model"
	"scheduler/internal/domains/booking/model/dto"
	"scheduler/internal/domains/booking/repository"
	calendarService "scheduler/internal/domains/calendar/service"
	linkService "scheduler/internal/domains/link/service"
	notificationModel "scheduler/internal/domains/notification/model"
	notificationService "scheduler/internal/domains/notification/service"
	slotService "scheduler/internal/domains/slot/service"
	"scheduler/internal/scheduling"
	"scheduler/shared"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"
	gModel "scheduler/shared/model"
	"scheduler/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	integrationCalendar     = "calendar"
	integrationNotification = "notification"
)

type Booking interface {
	// Create books a link slot for a client. The slot must still be offered by the link.
	Create(ctx context.Context, linkID string, req dto.CreateBookingRequest) (dto.BookingResult, error)
	Approve(ctx context.Context, id string) (dto.BookingResult, error)
	Reject(ctx context.Context, id string, req dto.RejectRequest) (dto.BookingResult, error)
	Cancel(ctx context.Context, id string, req dto.CancelRequest) (dto.BookingResult, error)
	Complete(ctx context.Context, id string) (dto.BookingResult, error)
	// Get is visible to the owner, the booking's approvers and the client.
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, awaitingMyApproval bool) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	links    linkService.Link
	slots    slotService.Slot
	calendar calendarService.Calendar
	notifier notificationService.Notifier
	cfg      *config.Config
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	links linkService.Link,
	slots slotService.Slot,
	calendar calendarService.Calendar,
	notifier notificationService.Notifier,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		links:    links,
		slots:    slots,
		calendar: calendar,
		notifier: notifier,
		cfg:      cfg,
		otel:     otel,
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

// transitionAttempts bounds how often a transition is decided again after losing a write race.
const transitionAttempts = 3

// errBookingMoved reports a conditional write that matched no row because the booking changed since it was read.
var errBookingMoved = errors.New("booking changed since it was read")

// unchangedSince matches the booking only while its lifecycle and calendar event are still the ones it was read with.
func unchangedSince(b model.Booking) gDto.FilterGroup {
	eq := func(field string, value any) gDto.Filter {
		return gDto.Filter{Field: field, Value: value, Operator: gDto.FilterOperatorEq, Table: model.TableName}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			eq(model.FieldID, b.ID),
			eq(model.FieldStatus, string(b.Status)),
			eq(model.FieldApprovalStatus, string(b.ApprovalStatus)),
			eq(model.FieldCalendarEventID, b.CalendarEventID),
			eq(model.FieldCalendarEventState, string(b.CalendarEventState)),
		},
	}
}

func principal(ctx context.Context) scheduling.Principal {
	return scheduling.Principal{ID: shared.UserID(ctx), Email: shared.UserEmail(ctx)}
}

func (s *serviceImpl) timeout() time.Duration {
	if s.cfg.Scheduling.IntegrationTimeoutSeconds <= 0 {
		return 10 * time.Second
	}

	return time.Duration(s.cfg.Scheduling.IntegrationTimeoutSeconds) * time.Second
}

func (s *serviceImpl) Create(ctx context.Context, linkID string, req dto.CreateBookingRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := timezone.Now()

	link, err := s.links.Find(ctx, linkID)
	if err != nil {
		return res, err
	}

	if !link.IsAvailable(now) {
		return res, failure.NotFound("scheduling link not available") // nolint:wrapcheck
	}

	requested := scheduling.Interval{Start: req.StartTime.UTC(), End: req.StartTime.UTC().Add(link.Duration())}

	offered, err := s.slots.Offers(ctx, link, requested)
	if err != nil {
		return res, err
	}

	if !offered {
		return res, failure.BadRequestFromString("requested time is not an available slot") // nolint:wrapcheck
	}

	tz := req.Timezone
	if tz == "" {
		tz = link.Timezone
	}

	user := shared.UserID(ctx)
	if user == "" {
		user = strings.ToLower(req.Email)
	}

	initial := scheduling.Initial(link.RequiresApproval)

	booking := model.Booking{
		ID:          uuid.NewString(),
		OwnerID:     link.OwnerID,
		LinkID:      link.ID,
		Title:       link.Title,
		ClientName:  req.Name,
		ClientEmail: strings.ToLower(strings.TrimSpace(req.Email)),
		Notes:       req.Notes,
		StartAt:     requested.Start,
		EndAt:       requested.End,
		Timezone:    tz,
		Lifecycle:   initial.Lifecycle,
		Metadata:    gModel.NewMetadata(user, now),
	}

	if link.RequiresApproval {
		booking.Approvers = append(booking.Approvers, link.Approvers...)
	}

	err = s.repo.Reserve(ctx, repository.Reservation{
		Booking:    booking,
		Buffer:     link.BookingBuffer(),
		CountUsage: true,
		Check: func(existing []scheduling.Commitment) error {
			return scheduling.CheckBookingConflict(scheduling.ConflictCheck{
				OwnerID:     booking.OwnerID,
				ClientEmail: booking.ClientEmail,
				Requested:   requested,
				Buffer:      link.BookingBuffer(),
			}, existing)
		},
	})

	switch {
	case errors.Is(err, repository.ErrUsageLimitReached):
		return res, failure.Conflict("scheduling link has reached its usage limit") // nolint:wrapcheck
	case errors.Is(err, scheduling.ErrConflict):
		log.Info().Str("owner_id", booking.OwnerID).Str("link_id", link.ID).Msg("booking rejected by conflict check")

		return res, scheduling.ToFailure(err)
	case err != nil:
		log.Error().Err(err).Str("link_id", link.ID).Msg("failed to reserve booking")

		return res, fmt.Errorf("failed to reserve booking: %w", err)
	}

	s.links.Forget(ctx, link.ID)

	res.Warnings = s.apply(ctx, &booking, initial.Effects, user)
	res.Booking.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Approve(ctx context.Context, id string) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Approve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, func(b model.Booking, by scheduling.Principal, now time.Time) (scheduling.Transition, error) {
		return scheduling.Approve(b.Lifecycle, b.Approvers, by, now)
	})
}

func (s *serviceImpl) Reject(ctx context.Context, id string, req dto.RejectRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Reject")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, func(b model.Booking, by scheduling.Principal, now time.Time) (scheduling.Transition, error) {
		return scheduling.Reject(b.Lifecycle, b.Approvers, by, req.Reason, now)
	})
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, func(b model.Booking, by scheduling.Principal, now time.Time) (scheduling.Transition, error) {
		if by.ID != b.OwnerID && !by.Matches(b.ClientEmail) {
			return scheduling.Transition{}, failure.Forbidden("only the owner or the client may cancel this booking") // nolint:wrapcheck
		}

		return scheduling.Cancel(b.Lifecycle, by, req.Reason, now)
	})
}

func (s *serviceImpl) Complete(ctx context.Context, id string) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Complete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, func(b model.Booking, by scheduling.Principal, now time.Time) (scheduling.Transition, error) {
		if by.ID != b.OwnerID {
			return scheduling.Transition{}, failure.Forbidden("only the owner may complete this booking") // nolint:wrapcheck
		}

		return scheduling.Complete(b.Lifecycle, b.EndAt, now)
	})
}

type decide func(b model.Booking, by scheduling.Principal, now time.Time) (scheduling.Transition, error)

// transition loads the booking, asks next for the new lifecycle and writes it only if nobody moved
// the booking in between. A lost race is decided again on the fresh row, so a concurrent calendar
// update does not fail the call while a concurrent decision does. Effects run after the write.
func (s *serviceImpl) transition(ctx context.Context, id string, next decide) (res dto.BookingResult, err error) {
	by := principal(ctx)
	if by.ID == "" && by.Email == "" {
		return res, failure.Unauthorized("missing principal") // nolint:wrapcheck
	}

	user := by.ID
	if user == "" {
		user = by.Email
	}

	for range transitionAttempts {
		booking, err := s.find(ctx, id)
		if err != nil {
			return res, err
		}

		now := timezone.Now()

		tr, err := next(booking, by, now)
		if err != nil {
			return res, scheduling.ToFailure(err)
		}

		affected, err := s.repo.UpdateAffected(ctx, model.LifecycleColumns(tr.Lifecycle, user, now), unchangedSince(booking))
		if err != nil {
			log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking status")

			return res, fmt.Errorf("failed to update booking status: %w", err)
		}

		if affected == 0 {
			log.Info().Str("booking_id", id).Msg("booking changed before the transition was written, deciding again")

			continue
		}

		booking.Lifecycle = tr.Lifecycle
		booking.ModifiedAt = now
		booking.ModifiedBy = user

		res.Warnings = s.apply(ctx, &booking, tr.Effects, user)
		res.Booking.FromModel(booking)

		return res, nil
	}

	log.Warn().Str("booking_id", id).Msg("booking kept changing, giving up on the transition")

	return res, scheduling.ToFailure(scheduling.ErrInvalidTransition)
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	by := principal(ctx)
	if by.ID != booking.OwnerID && !by.Matches(booking.ClientEmail) && !scheduling.IsApprover(booking.Approvers, by) {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

// awaitingDecisionBy selects bookings still waiting on an approval that p may give.
func awaitingDecisionBy(p scheduling.Principal) gDto.FilterGroup {
	listed := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorOr}

	for _, identity := range []struct{ arg, value string }{{"approver_id", p.ID}, {"approver_email", p.Email}} {
		if identity.value == "" {
			continue
		}

		listed.Filters = append(listed.Filters, gDto.Filter{
			ArgName:  identity.arg,
			Field:    model.FieldApprovers,
			Operator: gDto.FilterOperatorAnyFold,
			Value:    identity.value,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "awaiting_status",
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    string(scheduling.StatusPending),
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "awaiting_approval",
				Field:    model.FieldApprovalStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    string(scheduling.ApprovalPending),
				Table:    model.TableName,
			},
			listed,
		},
	}
}

// GetAll lists the caller's own bookings, or with awaitingMyApproval the pending ones
// that list the caller as an approver, whoever owns them.
func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, awaitingMyApproval bool) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scoped := shared.FilterByOwner(shared.UserID(ctx), model.FieldOwnerID, model.TableName)

	if awaitingMyApproval {
		by := principal(ctx)
		if by.ID == "" && by.Email == "" {
			return res, failure.Unauthorized("Missing principal")
		}

		scoped = awaitingDecisionBy(by)
	}

	if len(filter.Filters) > 0 {
		scoped.Filters = append(scoped.Filters, filter)
	}

	total, err := s.repo.Count(ctx, scoped)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, params, scoped)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	return res, nil
}

// apply performs effects in order. Each failure is logged and reported as a warning.
func (s *serviceImpl) apply(ctx context.Context, b *model.Booking, effects []scheduling.Effect, user string) []scheduling.IntegrationWarning {
	ctx = context.WithoutCancel(ctx)

	var warnings []scheduling.IntegrationWarning

	warn := func(integration string, effect scheduling.EffectKind, err error) {
		log.Warn().Err(err).
			Str("booking_id", b.ID).
			Str("owner_id", b.OwnerID).
			Str("integration", integration).
			Msg("booking side effect failed")

		warnings = append(warnings, scheduling.IntegrationWarning{
			Integration: integration,
			Action:      string(effect),
			Message:     err.Error(),
		})
	}

	for _, effect := range effects {
		switch effect.Kind {
		case scheduling.EffectCreateEvent:
			id, err := s.calendar.CreateEvent(ctx, b.OwnerID, eventOf(*b, effect.EventState))
			if err != nil {
				warn(integrationCalendar, effect.Kind, err)

				continue
			}

			if id == "" {
				continue
			}

			if err = s.recordEvent(ctx, b, id, effect.EventState, user); err != nil {
				warn(integrationCalendar, effect.Kind, err)
			}
		case scheduling.EffectConfirmEvent:
			id := b.CalendarEventID
			if err := s.calendar.ConfirmEvent(ctx, b.OwnerID, id); err != nil {
				warn(integrationCalendar, effect.Kind, err)

				continue
			}

			if err := s.recordEvent(ctx, b, id, scheduling.EventConfirmed, user); err != nil {
				warn(integrationCalendar, effect.Kind, err)
			}
		case scheduling.EffectDeleteEvent:
			id := b.CalendarEventID
			if err := s.calendar.DeleteEvent(ctx, b.OwnerID, id); err != nil {
				warn(integrationCalendar, effect.Kind, err)

				continue
			}

			if err := s.recordDeleted(ctx, b, id, user); err != nil {
				warn(integrationCalendar, effect.Kind, err)
			}
		case scheduling.EffectNotifyApprovalRequested, scheduling.EffectNotifyApproved, scheduling.EffectNotifyRejected:
			if effect.Kind == scheduling.EffectNotifyApprovalRequested && b.ApprovalStatus != scheduling.ApprovalPending {
				// decided while the event was being created.
				continue
			}

			if err := s.notify(ctx, *b, effect); err != nil {
				warn(integrationNotification, effect.Kind, err)
			}
		}
	}

	return warnings
}

// storeEvent writes the event reference only while the booking is still the one b was read as.
func (s *serviceImpl) storeEvent(ctx context.Context, b *model.Booking, id string, state scheduling.EventState, user string) error {
	now := timezone.Now()

	affected, err := s.repo.UpdateAffected(ctx, model.EventColumns(id, state, user, now), unchangedSince(*b))
	if err != nil {
		return fmt.Errorf("failed to store calendar event: %w", err)
	}

	if affected == 0 {
		return errBookingMoved
	}

	b.CalendarEventID, b.CalendarEventState = id, state
	b.ModifiedAt, b.ModifiedBy = now, user

	return nil
}

func (s *serviceImpl) reload(ctx context.Context, b *model.Booking) error {
	current, err := s.find(ctx, b.ID)
	if err != nil {
		return err
	}

	*b = current

	return nil
}

// recordEvent stores an event created or confirmed for b. When a transition got in first, the event
// is brought in line with the booking as it is now: deleted once the booking is over, confirmed once
// it is approved, stored otherwise.
func (s *serviceImpl) recordEvent(ctx context.Context, b *model.Booking, id string, state scheduling.EventState, user string) error {
	err := s.storeEvent(ctx, b, id, state, user)
	if !errors.Is(err, errBookingMoved) {
		return err
	}

	log.Info().Str("booking_id", b.ID).Str("event_id", id).Msg("booking moved while its calendar event was written, settling")

	if err = s.reload(ctx, b); err != nil {
		return err
	}

	switch {
	case b.CalendarEventID == id:
		// the transition that moved the booking saw this event and handles it.
		return nil
	case !b.Commitment().Blocking() || b.CalendarEventID != "":
		if err = s.calendar.DeleteEvent(ctx, b.OwnerID, id); err != nil {
			return fmt.Errorf("failed to delete stale calendar event: %w", err)
		}

		return nil
	}

	wanted := scheduling.EventTentative
	if b.ApprovalStatus != scheduling.ApprovalPending {
		wanted = scheduling.EventConfirmed
	}

	if wanted == scheduling.EventConfirmed && state != scheduling.EventConfirmed {
		if err = s.calendar.ConfirmEvent(ctx, b.OwnerID, id); err != nil {
			return fmt.Errorf("failed to confirm calendar event: %w", err)
		}
	}

	return s.storeEvent(ctx, b, id, wanted, user)
}

// recordDeleted clears the reference to a deleted event, unless the booking already points elsewhere.
func (s *serviceImpl) recordDeleted(ctx context.Context, b *model.Booking, id, user string) error {
	err := s.storeEvent(ctx, b, "", scheduling.EventNone, user)
	if !errors.Is(err, errBookingMoved) {
		return err
	}

	if err = s.reload(ctx, b); err != nil {
		return err
	}

	if b.CalendarEventID != id {
		return nil
	}

	return s.storeEvent(ctx, b, "", scheduling.EventNone, user)
}

func (s *serviceImpl) notify(ctx context.Context, b model.Booking, effect scheduling.Effect) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	summary := notificationModel.Booking{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		LinkTitle:   b.Title,
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		Start:       b.StartAt,
		End:         b.EndAt,
		Timezone:    b.Timezone,
	}

	switch effect.Kind {
	case scheduling.EffectNotifyApprovalRequested:
		return s.notifier.NotifyApprovalRequested(ctx, summary, []string(b.Approvers)) // nolint:wrapcheck
	case scheduling.EffectNotifyApproved:
		return s.notifier.NotifyApproved(ctx, summary) // nolint:wrapcheck
	default:
		return s.notifier.NotifyRejected(ctx, summary, effect.Reason) // nolint:wrapcheck
	}
}

func eventOf(b model.Booking, state scheduling.EventState) calendar.Event {
	status := calendar.EventConfirmed
	if state == scheduling.EventTentative {
		status = calendar.EventTentative
	}

	return calendar.Event{
		Summary:     fmt.Sprintf("%s with %s", b.Title, b.ClientName),
		Description: b.Notes,
		Start:       b.StartAt,
		End:         b.EndAt,
		Timezone:    b.Timezone,
		Attendees:   []string{b.ClientEmail},
		Status:      status,
	}
}
