package slot

import (
	"net/http"
	"scheduler/infras/otel"
	"scheduler/internal/domains/slot/model/dto"
	"scheduler/internal/domains/slot/service"
	"scheduler/shared/constant"
	"scheduler/shared/validator"
	"scheduler/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Slot
	otel    otel.Otel
}

func New(service service.Slot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/slots", handler.GetSlots)
	router.Get("/public/links/{id}/slots", handler.GetLinkSlots)
}

// GetSlots lists free slots of an owner over a date range.
// @Summary List available slots
// @Description Generate slots from the owner's availability and drop those taken by bookings or calendar busy time.
// @Tags Slot
// @Produce json
// @Param owner_id query string false "Owner ID, defaults to the caller"
// @Param start_date query string true "First day (YYYY-MM-DD)"
// @Param end_date query string true "Last day (YYYY-MM-DD)"
// @Param duration query int false "Slot length in minutes"
// @Param buffer query int false "Idle minutes around each slot"
// @Param timezone query string false "IANA timezone"
// @Success 200 {object} response.Data[dto.SlotsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots [get]
// @Security BearerAuth
func (handler *Handler) GetSlots(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	req := dto.SlotsRequest{}
	req.FromRequest(request)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	slots, err := handler.service.ListAvailableSlots(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list available slots")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, slots)
}

// GetLinkSlots lists the slots a client can book through a link.
// @Summary List bookable slots of a link
// @Tags Public
// @Produce json
// @Param id path string true "Link ID"
// @Param start_date query string true "First day (YYYY-MM-DD)"
// @Param end_date query string true "Last day (YYYY-MM-DD)"
// @Param timezone query string false "IANA timezone"
// @Success 200 {object} response.Data[dto.SlotsResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/public/links/{id}/slots [get]
func (handler *Handler) GetLinkSlots(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLinkSlots")
	defer scope.End()

	req := dto.SlotsRequest{}
	req.FromRequest(request)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	slots, err := handler.service.ListLinkSlots(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list link slots")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, slots)
}
