package model

import (
	"scheduler/internal/scheduling"
	"scheduler/shared/model"
)

const (
	TableName  = "availability_windows"
	EntityName = "availability_window"

	FieldID          = "id"
	FieldOwnerID     = "owner_id"
	FieldDayOfWeek   = "day_of_week"
	FieldStartMinute = "start_minute"
	FieldEndMinute   = "end_minute"
	FieldName        = "name"
	FieldActive      = "active"
)

// Window is stored with wall-clock bounds as minutes after midnight.
type Window struct {
	ID          string `db:"id"`
	OwnerID     string `db:"owner_id"`
	DayOfWeek   int    `db:"day_of_week"`
	StartMinute int    `db:"start_minute"`
	EndMinute   int    `db:"end_minute"`
	Name        string `db:"name"`
	Active      bool   `db:"active"`
	model.Metadata
}

func (w Window) ToScheduling() scheduling.Window {
	return scheduling.Window{
		Day:    scheduling.Weekday(w.DayOfWeek),
		Start:  scheduling.ClockTime(w.StartMinute),
		End:    scheduling.ClockTime(w.EndMinute),
		Active: w.Active,
	}
}
