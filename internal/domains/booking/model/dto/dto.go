package dto

import (
	"scheduler/internal/domains/booking/model"
	"scheduler/internal/scheduling"
	"scheduler/shared"
	gDto "scheduler/shared/dto"
	"time"
)

type CreateBookingRequest struct {
	Name      string    `json:"name"       validate:"required,max=100"`
	Email     string    `json:"email"      validate:"required,email,max=150"`
	StartTime time.Time `json:"start_time" validate:"required"`
	Timezone  string    `json:"timezone"   validate:"omitempty,timezone"`
	Notes     string    `json:"notes"      validate:"omitempty,max=1000"`
}

// RejectRequest leaves the reason optional here so a blank reason reaches the state machine
// and fails there with the same error as any other caller.
type RejectRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	LinkID      string    `json:"link_id"`
	Title       string    `json:"title"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	Notes       string    `json:"notes,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Timezone    string    `json:"timezone"`
	scheduling.Lifecycle
	gDto.Metadata
}

// FromModel renders instants in the booking's own timezone when it is known.
func (r *BookingResponse) FromModel(m model.Booking) {
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		loc = time.UTC
	}

	r.ID = m.ID
	r.OwnerID = m.OwnerID
	r.LinkID = m.LinkID
	r.Title = m.Title
	r.ClientName = m.ClientName
	r.ClientEmail = m.ClientEmail
	r.Notes = m.Notes
	r.StartTime = m.StartAt.In(loc)
	r.EndTime = m.EndAt.In(loc)
	r.Timezone = m.Timezone
	r.Lifecycle = m.Lifecycle
	r.Metadata.FromModel(m.Metadata)
}

// BookingResult is a booking after a change, with the side effects that failed on the way.
type BookingResult struct {
	Booking  BookingResponse                 `json:"booking"`
	Warnings []scheduling.IntegrationWarning `json:"warnings,omitempty"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
