package dto

import (
	"net/http"
	"scheduler/internal/scheduling"
	"scheduler/shared/constant"
	"strconv"
	"time"
)

// SlotsRequest is read from the query string. Dates are calendar days in Timezone.
type SlotsRequest struct {
	OwnerID         string `json:"owner_id"   validate:"omitempty,max=100"`
	StartDate       string `json:"start_date" validate:"required,date"`
	EndDate         string `json:"end_date"   validate:"required,date"`
	DurationMinutes int    `json:"duration"   validate:"omitempty,min=5,max=480"`
	BufferMinutes   int    `json:"buffer"     validate:"omitempty,min=0,max=240"`
	Timezone        string `json:"timezone"   validate:"omitempty,timezone"`
}

func (s *SlotsRequest) FromRequest(r *http.Request) {
	query := r.URL.Query()

	s.OwnerID = query.Get(constant.RequestParamOwnerID)
	s.StartDate = query.Get(constant.RequestParamStartDate)
	s.EndDate = query.Get(constant.RequestParamEndDate)
	s.Timezone = query.Get(constant.RequestParamTimezone)

	if duration, err := strconv.Atoi(query.Get(constant.RequestParamDuration)); err == nil {
		s.DurationMinutes = duration
	}

	if buffer, err := strconv.Atoi(query.Get(constant.RequestParamBuffer)); err == nil {
		s.BufferMinutes = buffer
	}
}

// Dates parses both bounds. Validation has already checked the format.
func (s *SlotsRequest) Dates() (time.Time, time.Time, error) {
	start, err := time.Parse(constant.DateOnlyFormat, s.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err := time.Parse(constant.DateOnlyFormat, s.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, end, nil
}

type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotsResponse struct {
	OwnerID         string                          `json:"owner_id"`
	Timezone        string                          `json:"timezone"`
	DurationMinutes int                             `json:"duration_minutes"`
	Slots           []SlotResponse                  `json:"slots"`
	Warnings        []scheduling.IntegrationWarning `json:"warnings,omitempty"`
}

// FromSlots renders slots as wall-clock instants in loc.
func (r *SlotsResponse) FromSlots(slots []scheduling.TimeSlot, loc *time.Location) {
	r.Slots = make([]SlotResponse, len(slots))
	for i, slot := range slots {
		r.Slots[i] = SlotResponse{Start: slot.Start.In(loc), End: slot.End.In(loc)}
	}
}
