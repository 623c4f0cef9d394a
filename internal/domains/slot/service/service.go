package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"scheduler/config"
	"scheduler/infras/otel"
	availabilityService "scheduler/internal/domains/availability/service"
	bookingRepo "scheduler/internal/domains/booking/repository"
	calendarService "scheduler/internal/domains/calendar/service"
	linkModel "scheduler/internal/domains/link/model"
	linkService "scheduler/internal/domains/link/service"
	"scheduler/internal/domains/slot/model/dto"
	"scheduler/internal/scheduling"
	"scheduler/shared"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"
	"scheduler/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const integrationCalendar = "calendar"

type Slot interface {
	// ListAvailableSlots lists free slots of an owner, the caller when no owner is given.
	ListAvailableSlots(ctx context.Context, req dto.SlotsRequest) (dto.SlotsResponse, error)
	// ListLinkSlots lists free slots bookable through a link, using its duration and buffers.
	ListLinkSlots(ctx context.Context, linkID string, req dto.SlotsRequest) (dto.SlotsResponse, error)
	// Offers reports whether interval is one of the link's candidate slots, ignoring existing bookings.
	Offers(ctx context.Context, link linkModel.Link, interval scheduling.Interval) (bool, error)
}

type serviceImpl struct {
	availability availabilityService.Availability
	calendar     calendarService.Calendar
	links        linkService.Link
	bookings     bookingRepo.Booking
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	availability availabilityService.Availability,
	calendar calendarService.Calendar,
	links linkService.Link,
	bookings bookingRepo.Booking,
	cfg *config.Config,
	otel otel.Otel,
) Slot {
	return &serviceImpl{
		availability: availability,
		calendar:     calendar,
		links:        links,
		bookings:     bookings,
		cfg:          cfg,
		otel:         otel,
	}
}

// query is one slot computation.
type query struct {
	ownerID   string
	startDate time.Time
	endDate   time.Time
	duration  time.Duration
	timezone  string
	buffer    scheduling.Buffer
	notice    time.Duration
}

func (s *serviceImpl) defaults() []scheduling.Window {
	windows, err := scheduling.ParseWorkingHours(s.cfg.Scheduling.DefaultWorkingHours)
	if err != nil {
		log.Error().Err(err).Msg("invalid default working hours, using standard hours")

		return scheduling.StandardWorkingHours()
	}

	return windows
}

func (s *serviceImpl) busyBuffer(booking scheduling.Buffer) scheduling.Buffer {
	if s.cfg.Scheduling.ExternalBufferMinutes < 0 {
		return booking
	}

	return scheduling.UniformBuffer(time.Duration(s.cfg.Scheduling.ExternalBufferMinutes) * time.Minute)
}

func (s *serviceImpl) candidates(ctx context.Context, q query) ([]scheduling.TimeSlot, error) {
	windows, err := s.availability.ListForOwner(ctx, q.ownerID)
	if err != nil {
		return nil, err
	}

	slots, err := scheduling.GenerateSlots(scheduling.GenerateRequest{
		Windows:       windows,
		Defaults:      s.defaults(),
		StartDate:     q.startDate,
		EndDate:       q.endDate,
		Duration:      q.duration,
		Timezone:      q.timezone,
		Granularity:   time.Duration(s.cfg.Scheduling.GranularityMinutes) * time.Minute,
		Now:           timezone.Now(),
		MinimumNotice: q.notice,
	})
	if err != nil {
		return nil, scheduling.ToFailure(err)
	}

	return slots, nil
}

// span covers every candidate padded by the widest buffer in use.
func span(slots []scheduling.TimeSlot, buffers ...scheduling.Buffer) scheduling.Interval {
	covered := slots[0].Interval

	for _, slot := range slots[1:] {
		if slot.End.After(covered.End) {
			covered.End = slot.End
		}
	}

	var widest scheduling.Buffer
	for _, b := range buffers {
		widest.Before = max(widest.Before, b.Before)
		widest.After = max(widest.After, b.After)
	}

	return covered.Pad(widest)
}

func (s *serviceImpl) compute(ctx context.Context, q query) (res dto.SlotsResponse, err error) {
	loc, err := scheduling.LoadLocation(q.timezone)
	if err != nil {
		return res, scheduling.ToFailure(err)
	}

	res.OwnerID = q.ownerID
	res.Timezone = q.timezone
	res.DurationMinutes = int(q.duration / time.Minute)
	res.Slots = []dto.SlotResponse{}

	slots, err := s.candidates(ctx, q)
	if err != nil || len(slots) == 0 {
		return res, err
	}

	busyBuffer := s.busyBuffer(q.buffer)
	covered := span(slots, q.buffer, busyBuffer)

	existing, err := s.bookings.GetAll(ctx, gDto.QueryParams{}, bookingRepo.OverlapFilter(q.ownerID, "", covered))
	if err != nil {
		log.Error().Err(err).Str("owner_id", q.ownerID).Msg("failed to get bookings for slot filtering")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	bookings := make([]scheduling.Interval, len(existing))
	for i, b := range existing {
		bookings[i] = b.Interval()
	}

	busy, err := s.calendar.ListBusy(ctx, q.ownerID, covered.Start, covered.End)
	if err != nil {
		log.Warn().Err(err).Str("owner_id", q.ownerID).Str("integration", integrationCalendar).Msg("busy periods unavailable, listing without them")

		res.Warnings = append(res.Warnings, scheduling.IntegrationWarning{
			Integration: integrationCalendar,
			Action:      "list_busy",
			Message:     err.Error(),
		})
	}

	free := scheduling.FilterSlots(scheduling.FilterRequest{
		Slots:         slots,
		Bookings:      bookings,
		Busy:          busy,
		BookingBuffer: q.buffer,
		BusyBuffer:    busyBuffer,
	})

	res.FromSlots(free, loc)

	return res, nil
}

func (s *serviceImpl) checkRange(start, end time.Time) error {
	if end.Before(start) {
		return scheduling.ToFailure(scheduling.ErrInvalidRange)
	}

	if limit := s.cfg.Scheduling.MaxRangeDays; limit > 0 && end.Sub(start) >= time.Duration(limit)*24*time.Hour {
		return failure.BadRequestFromString(fmt.Sprintf("date range cannot exceed %d days", limit))
	}

	return nil
}

func (s *serviceImpl) ListAvailableSlots(ctx context.Context, req dto.SlotsRequest) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot.ListAvailableSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	start, end, err := req.Dates()
	if err != nil {
		return res, failure.BadRequest(err)
	}

	if err = s.checkRange(start, end); err != nil {
		return res, err
	}

	q := query{
		ownerID:   req.OwnerID,
		startDate: start,
		endDate:   end,
		duration:  time.Duration(req.DurationMinutes) * time.Minute,
		timezone:  req.Timezone,
		buffer:    scheduling.UniformBuffer(time.Duration(req.BufferMinutes) * time.Minute),
		notice:    time.Duration(s.cfg.Scheduling.MinimumNoticeMinutes) * time.Minute,
	}

	if q.ownerID == "" {
		q.ownerID = shared.UserID(ctx)
	}

	if q.duration == 0 {
		q.duration = time.Duration(s.cfg.Scheduling.DefaultDurationMinutes) * time.Minute
	}

	if q.timezone == "" {
		q.timezone = s.cfg.Scheduling.DefaultTimezone
	}

	scope.SetAttribute("slot.owner_id", q.ownerID)

	return s.compute(ctx, q)
}

// linkQuery applies the link's duration, buffers, notice and timezone to the request.
func (s *serviceImpl) linkQuery(link linkModel.Link, tz string) query {
	if tz == "" {
		tz = link.Timezone
	}

	if tz == "" {
		tz = s.cfg.Scheduling.DefaultTimezone
	}

	notice := link.MinimumNotice()
	if notice == 0 {
		notice = time.Duration(s.cfg.Scheduling.MinimumNoticeMinutes) * time.Minute
	}

	return query{
		ownerID:  link.OwnerID,
		duration: link.Duration(),
		timezone: tz,
		buffer:   link.Buffer(),
		notice:   notice,
	}
}

// lastBookableDay is the last calendar day the link accepts, or zero when unlimited.
func lastBookableDay(link linkModel.Link, now time.Time, loc *time.Location) time.Time {
	if link.MaxAdvanceDays <= 0 {
		return time.Time{}
	}

	y, m, d := now.In(loc).AddDate(0, 0, link.MaxAdvanceDays).Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *serviceImpl) ListLinkSlots(ctx context.Context, linkID string, req dto.SlotsRequest) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot.ListLinkSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	link, err := s.links.Find(ctx, linkID)
	if err != nil {
		return res, err
	}

	now := timezone.Now()
	if !link.IsAvailable(now) {
		return res, failure.NotFound("scheduling link not available") // nolint:wrapcheck
	}

	start, end, err := req.Dates()
	if err != nil {
		return res, failure.BadRequest(err)
	}

	if err = s.checkRange(start, end); err != nil {
		return res, err
	}

	q := s.linkQuery(link, req.Timezone)

	loc, err := scheduling.LoadLocation(q.timezone)
	if err != nil {
		return res, scheduling.ToFailure(err)
	}

	if last := lastBookableDay(link, now, loc); !last.IsZero() && end.After(last) {
		end = last
	}

	q.startDate, q.endDate = start, end

	if end.Before(start) {
		return dto.SlotsResponse{OwnerID: q.ownerID, Timezone: q.timezone, DurationMinutes: link.DurationMinutes, Slots: []dto.SlotResponse{}}, nil
	}

	return s.compute(ctx, q)
}

func (s *serviceImpl) Offers(ctx context.Context, link linkModel.Link, interval scheduling.Interval) (ok bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".slot.Offers")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	q := s.linkQuery(link, "")

	loc, err := scheduling.LoadLocation(q.timezone)
	if err != nil {
		return false, scheduling.ToFailure(err)
	}

	y, m, d := interval.Start.In(loc).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if last := lastBookableDay(link, timezone.Now(), loc); !last.IsZero() && day.After(last) {
		return false, nil
	}

	q.startDate, q.endDate = day, day

	slots, err := s.candidates(ctx, q)
	if err != nil {
		return false, err
	}

	for _, slot := range slots {
		if slot.Start.Equal(interval.Start) && slot.End.Equal(interval.End) {
			return true, nil
		}
	}

	return false, nil
}
