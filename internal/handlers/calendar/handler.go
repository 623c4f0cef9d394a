package calendar

import (
	"net/http"
	"scheduler/infras/otel"
	"scheduler/internal/domains/calendar/model/dto"
	"scheduler/internal/domains/calendar/service"
	"scheduler/shared/constant"
	"scheduler/shared/validator"
	"scheduler/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Calendar
	otel    otel.Otel
}

func New(service service.Calendar, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/calendar/connection", func(routerGroup chi.Router) {
		routerGroup.Put("/", handler.Connect)
		routerGroup.Get("/", handler.GetConnection)
		routerGroup.Delete("/", handler.Disconnect)
	})
}

// Connect stores the caller's calendar credentials, replacing any previous connection.
// @Summary Connect an external calendar
// @Description Connect a Google calendar (refresh token) or a CalDAV calendar (url and credentials).
// @Tags Calendar
// @Accept json
// @Produce json
// @Param request body dto.ConnectRequest true "Connect Request"
// @Success 200 {object} response.Data[dto.ConnectionResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/calendar/connection [put]
// @Security BearerAuth
func (handler *Handler) Connect(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConnectCalendar")
	defer scope.End()

	req := dto.ConnectRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	connection, err := handler.service.Connect(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to connect calendar")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, connection)
}

// GetConnection shows which calendar is connected, without its secrets.
// @Summary Get the calendar connection
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Data[dto.ConnectionResponse]
// @Failure 404 {object} response.Error
// @Router /v1/calendar/connection [get]
// @Security BearerAuth
func (handler *Handler) GetConnection(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCalendarConnection")
	defer scope.End()

	connection, err := handler.service.GetConnection(ctx)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, connection)
}

// Disconnect removes the caller's calendar connection.
// @Summary Disconnect the external calendar
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Message
// @Failure 500 {object} response.Error
// @Router /v1/calendar/connection [delete]
// @Security BearerAuth
func (handler *Handler) Disconnect(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DisconnectCalendar")
	defer scope.End()

	if err := handler.service.Disconnect(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to disconnect calendar")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Calendar disconnected successfully")
}
