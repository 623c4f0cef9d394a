package availability

import (
	"net/http"
	"scheduler/infras/otel"
	"scheduler/internal/domains/availability/model/dto"
	"scheduler/internal/domains/availability/service"
	"scheduler/shared/constant"
	"scheduler/shared/validator"
	"scheduler/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateWindow)
		routerGroup.Get("/", handler.GetWindows)
		routerGroup.Get("/{id}", handler.GetWindowByID)
		routerGroup.Patch("/{id}", handler.UpdateWindow)
		routerGroup.Delete("/{id}", handler.DeleteWindow)
	})
}

// CreateWindow adds a weekly availability window for the caller.
// @Summary Create an availability window
// @Description Add a recurring weekly window (day of week, start and end wall-clock time) to the caller's availability.
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.CreateWindowRequest true "Create Window Request"
// @Success 201 {object} response.Data[dto.WindowResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability [post]
// @Security BearerAuth
func (handler *Handler) CreateWindow(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateWindow")
	defer scope.End()

	req := dto.CreateWindowRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	window, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create availability window")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, window)
}

// GetWindows lists the caller's availability windows.
// @Summary List availability windows
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Data[dto.GetWindowsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/availability [get]
// @Security BearerAuth
func (handler *Handler) GetWindows(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWindows")
	defer scope.End()

	windows, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability windows")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, windows)
}

// GetWindowByID returns one of the caller's windows.
// @Summary Get an availability window
// @Tags Availability
// @Produce json
// @Param id path string true "Window ID"
// @Success 200 {object} response.Data[dto.WindowResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetWindowByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWindowByID")
	defer scope.End()

	window, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability window")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, window)
}

// UpdateWindow changes a window. Omitted fields keep their value.
// @Summary Update an availability window
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Window ID"
// @Param request body dto.UpdateWindowRequest true "Update Window Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateWindow(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateWindow")
	defer scope.End()

	req := dto.UpdateWindowRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update availability window")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Availability window updated successfully")
}

// DeleteWindow removes a window.
// @Summary Delete an availability window
// @Tags Availability
// @Produce json
// @Param id path string true "Window ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteWindow(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteWindow")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete availability window")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Availability window deleted successfully")
}
