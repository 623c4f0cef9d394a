package dto

import (
	"scheduler/internal/domains/availability/model"
	"scheduler/internal/scheduling"
	"scheduler/shared"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"
	gModel "scheduler/shared/model"
	"scheduler/shared/timezone"

	"github.com/google/uuid"
)

type CreateWindowRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"required,weekday"`
	StartTime string `json:"start_time"  validate:"required,clock"`
	EndTime   string `json:"end_time"    validate:"required,clock"`
	Name      string `json:"name"        validate:"omitempty,max=100"`
	Active    *bool  `json:"active"`
}

// ToModel checks the window bounds and builds the row owned by owner.
func (c *CreateWindowRequest) ToModel(owner string) (model.Window, error) {
	window, err := parseWindow(c.DayOfWeek, c.StartTime, c.EndTime)
	if err != nil {
		return model.Window{}, err
	}

	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Window{
		ID:          uuid.NewString(),
		OwnerID:     owner,
		DayOfWeek:   int(window.Day),
		StartMinute: int(window.Start),
		EndMinute:   int(window.End),
		Name:        c.Name,
		Active:      active,
		Metadata:    gModel.NewMetadata(owner, timezone.Now()),
	}, nil
}

type UpdateWindowRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"omitempty,weekday"`
	StartTime string `json:"start_time"  validate:"omitempty,clock"`
	EndTime   string `json:"end_time"    validate:"omitempty,clock"`
	Name      string `json:"name"        validate:"omitempty,max=100"`
	Active    *bool  `json:"active"`
}

func (u *UpdateWindowRequest) IsEmpty() bool {
	return *u == UpdateWindowRequest{}
}

// Apply merges the request into current and returns the changed columns.
func (u *UpdateWindowRequest) Apply(current model.Window, user string) (map[string]any, error) {
	weekday := scheduling.Weekday(current.DayOfWeek).String()
	start := scheduling.ClockTime(current.StartMinute).String()
	end := scheduling.ClockTime(current.EndMinute).String()

	if u.DayOfWeek != "" {
		weekday = u.DayOfWeek
	}

	if u.StartTime != "" {
		start = u.StartTime
	}

	if u.EndTime != "" {
		end = u.EndTime
	}

	window, err := parseWindow(weekday, start, end)
	if err != nil {
		return nil, err
	}

	day, startMinute, endMinute := int(window.Day), int(window.Start), int(window.End)

	changes := struct {
		DayOfWeek   *int   `db:"day_of_week"`
		StartMinute *int   `db:"start_minute"`
		EndMinute   *int   `db:"end_minute"`
		Name        string `db:"name"`
		Active      *bool  `db:"active"`
	}{
		DayOfWeek:   &day,
		StartMinute: &startMinute,
		EndMinute:   &endMinute,
		Name:        u.Name,
		Active:      u.Active,
	}

	return shared.TransformFields(changes, user), nil
}

func parseWindow(day, start, end string) (scheduling.Window, error) {
	weekday, err := scheduling.ParseWeekday(day)
	if err != nil {
		return scheduling.Window{}, failure.BadRequest(err)
	}

	startClock, err := scheduling.ParseClockTime(start)
	if err != nil {
		return scheduling.Window{}, failure.BadRequest(err)
	}

	endClock, err := scheduling.ParseClockTime(end)
	if err != nil {
		return scheduling.Window{}, failure.BadRequest(err)
	}

	window := scheduling.Window{Day: weekday, Start: startClock, End: endClock, Active: true}
	if err = window.Validate(); err != nil {
		return scheduling.Window{}, failure.BadRequest(err)
	}

	return window, nil
}

type WindowResponse struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Name      string `json:"name,omitempty"`
	Active    bool   `json:"active"`
	gDto.Metadata
}

func (r *WindowResponse) FromModel(m model.Window) {
	r.ID = m.ID
	r.OwnerID = m.OwnerID
	r.DayOfWeek = scheduling.Weekday(m.DayOfWeek).String()
	r.StartTime = scheduling.ClockTime(m.StartMinute).String()
	r.EndTime = scheduling.ClockTime(m.EndMinute).String()
	r.Name = m.Name
	r.Active = m.Active
	r.Metadata.FromModel(m.Metadata)
}

type GetWindowsResponse struct {
	Windows   []WindowResponse `json:"windows"`
	TotalData int              `json:"total_data"`
}

func (r *GetWindowsResponse) FromModels(models []model.Window) {
	r.TotalData = len(models)

	r.Windows = make([]WindowResponse, len(models))
	for i, mod := range models {
		r.Windows[i].FromModel(mod)
	}
}
