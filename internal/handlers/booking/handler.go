package booking

import (
	"net/http"
	"scheduler/infras/otel"
	"scheduler/internal/domains/booking/model"
	"scheduler/internal/domains/booking/model/dto"
	"scheduler/internal/domains/booking/service"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"
	"scheduler/shared/validator"
	"scheduler/transport/http/response"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Post("/{id}/approve", handler.ApproveBooking)
		routerGroup.Post("/{id}/reject", handler.RejectBooking)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
		routerGroup.Post("/{id}/complete", handler.CompleteBooking)
	})

	router.Post("/public/links/{id}/bookings", handler.CreateBooking)
}

// CreateBooking books a slot of a link for a client.
// @Summary Book a slot
// @Description Book the slot starting at start_time. Fails with 409 when the time was taken meanwhile.
// @Description Calendar and notification failures do not fail the booking and are listed as warnings.
// @Tags Public
// @Accept json
// @Produce json
// @Param id path string true "Link ID"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResult]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/public/links/{id}/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	result, err := handler.service.Create(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created " + result.Booking.ID)

	response.WithJSON(writer, http.StatusCreated, result)
}

// GetBookings lists the caller's bookings as owner, or those awaiting the caller's approval.
// @Summary List bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "pending, confirmed, cancelled or completed"
// @Param approval_status query string false "not_required, pending, approved or rejected"
// @Param start_date query string false "Bookings starting on or after this day (YYYY-MM-DD, UTC)"
// @Param end_date query string false "Bookings starting on or before this day (YYYY-MM-DD, UTC)"
// @Param awaiting_my_approval query bool false "List pending bookings that name the caller as an approver instead of owned ones"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true, model.FieldStartAt, model.FieldEndAt, model.FieldStatus, constant.DefaultValueSortBy)

	filterGroup, err := filterFromQuery(request)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	awaitingMyApproval := false
	if raw := request.URL.Query().Get(constant.RequestParamAwaitingMyApproval); raw != "" {
		awaitingMyApproval, err = strconv.ParseBool(raw)
		if err != nil {
			scope.TraceError(err)

			response.WithError(writer, failure.BadRequestFromString("awaiting_my_approval must be true or false"))

			return
		}
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup, awaitingMyApproval)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

func filterFromQuery(request *http.Request) (gDto.FilterGroup, error) {
	query := request.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status := query.Get(constant.RequestParamStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if approval := query.Get(constant.RequestParamApproval); approval != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldApprovalStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    approval,
			Table:    model.TableName,
		})
	}

	if from := query.Get(constant.RequestParamStartDate); from != "" {
		day, err := time.Parse(constant.DateOnlyFormat, from)
		if err != nil {
			return filterGroup, failure.BadRequestFromString("start_date must be a date formatted as YYYY-MM-DD") // nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  "range_from",
			Field:    model.FieldStartAt,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    day,
			Table:    model.TableName,
		})
	}

	if to := query.Get(constant.RequestParamEndDate); to != "" {
		day, err := time.Parse(constant.DateOnlyFormat, to)
		if err != nil {
			return filterGroup, failure.BadRequestFromString("end_date must be a date formatted as YYYY-MM-DD") // nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  "range_to",
			Field:    model.FieldStartAt,
			Operator: gDto.FilterOperatorLess,
			Value:    day.AddDate(0, 0, 1),
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}

// GetBookingByID returns a booking to its owner, its approvers or its client.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// ApproveBooking confirms a booking awaiting approval.
// @Summary Approve a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResult]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id}/approve [post]
// @Security BearerAuth
func (handler *Handler) ApproveBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveBooking")
	defer scope.End()

	result, err := handler.service.Approve(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, result)
}

// RejectBooking turns down a booking awaiting approval. The reason is mandatory.
// @Summary Reject a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.RejectRequest true "Reject Request"
// @Success 200 {object} response.Data[dto.BookingResult]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectBooking")
	defer scope.End()

	req := dto.RejectRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	result, err := handler.service.Reject(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, result)
}

// CancelBooking cancels a pending or confirmed booking on behalf of its owner or client.
// @Summary Cancel a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CancelRequest false "Cancel Request"
// @Success 200 {object} response.Data[dto.BookingResult]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	req := dto.CancelRequest{}

	if request.ContentLength != 0 {
		if err := validator.Validate(request.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(writer, err)

			return
		}
	}

	result, err := handler.service.Cancel(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, result)
}

// CompleteBooking marks a confirmed booking that has ended as completed.
// @Summary Complete a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResult]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id}/complete [post]
// @Security BearerAuth
func (handler *Handler) CompleteBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteBooking")
	defer scope.End()

	result, err := handler.service.Complete(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, result)
}
