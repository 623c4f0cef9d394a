package link

import (
	"net/http"
	"scheduler/infras/otel"
	"scheduler/internal/domains/link/model"
	"scheduler/internal/domains/link/model/dto"
	"scheduler/internal/domains/link/service"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	"scheduler/shared/validator"
	"scheduler/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Link
	otel    otel.Otel
}

func New(service service.Link, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/links", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateLink)
		routerGroup.Get("/", handler.GetLinks)
		routerGroup.Get("/{id}", handler.GetLinkByID)
		routerGroup.Patch("/{id}", handler.UpdateLink)
		routerGroup.Delete("/{id}", handler.DeleteLink)
	})

	router.Get("/public/links/{id}", handler.GetPublicLink)
}

// CreateLink publishes a new scheduling link for the caller.
// @Summary Create a scheduling link
// @Description Create a bookable link with its duration, buffers, notice, approval settings and usage limit.
// @Tags Link
// @Accept json
// @Produce json
// @Param request body dto.CreateLinkRequest true "Create Link Request"
// @Success 201 {object} response.Data[dto.LinkResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/links [post]
// @Security BearerAuth
func (handler *Handler) CreateLink(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateLink")
	defer scope.End()

	req := dto.CreateLinkRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	link, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create scheduling link")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Scheduling link created " + link.ID)

	response.WithJSON(writer, http.StatusCreated, link)
}

// GetLinks lists the caller's scheduling links.
// @Summary List scheduling links
// @Tags Link
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetLinksResponse]
// @Failure 500 {object} response.Error
// @Router /v1/links [get]
// @Security BearerAuth
func (handler *Handler) GetLinks(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLinks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true, model.FieldTitle, model.FieldExpiresAt, constant.DefaultValueSortBy)

	links, err := handler.service.GetAll(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get scheduling links")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, links)
}

// GetLinkByID returns one of the caller's links.
// @Summary Get a scheduling link
// @Tags Link
// @Produce json
// @Param id path string true "Link ID"
// @Success 200 {object} response.Data[dto.LinkResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/links/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetLinkByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLinkByID")
	defer scope.End()

	link, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get scheduling link")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, link)
}

// UpdateLink changes a link. Omitted fields keep their value.
// @Summary Update a scheduling link
// @Tags Link
// @Accept json
// @Produce json
// @Param id path string true "Link ID"
// @Param request body dto.UpdateLinkRequest true "Update Link Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/links/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateLink(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateLink")
	defer scope.End()

	req := dto.UpdateLinkRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update scheduling link")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Scheduling link updated successfully")
}

// DeleteLink removes a link. Existing bookings made through it are kept.
// @Summary Delete a scheduling link
// @Tags Link
// @Produce json
// @Param id path string true "Link ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/links/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteLink(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteLink")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete scheduling link")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Scheduling link deleted successfully")
}

// GetPublicLink is the client-facing view of a link.
// @Summary Get a public scheduling link
// @Tags Public
// @Produce json
// @Param id path string true "Link ID"
// @Success 200 {object} response.Data[dto.PublicLinkResponse]
// @Failure 404 {object} response.Error
// @Router /v1/public/links/{id} [get]
func (handler *Handler) GetPublicLink(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPublicLink")
	defer scope.End()

	link, err := handler.service.GetPublic(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get public scheduling link")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, link)
}
