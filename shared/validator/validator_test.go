package validator_test

import (
	"net/http"
	"scheduler/shared/failure"
	"scheduler/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type windowInput struct {
	Day       string `json:"day_of_week" validate:"required,weekday"`
	StartTime string `json:"start_time"  validate:"required,clock"`
	EndTime   string `json:"end_time"    validate:"required,clock"`
	Timezone  string `json:"timezone"    validate:"omitempty,timezone"`
	Date      string `json:"date"        validate:"omitempty,date"`
	Email     string `json:"email"       validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	valid := windowInput{Day: "mon", StartTime: "09:00", EndTime: "12:00", Timezone: "Europe/Paris", Date: "2025-03-10"}

	tests := []struct {
		name    string
		mutate  func(w *windowInput)
		wantErr string
	}{
		{name: "valid", mutate: func(*windowInput) {}},
		{name: "uppercase weekday accepted", mutate: func(w *windowInput) { w.Day = "FRI" }},
		{name: "missing day", mutate: func(w *windowInput) { w.Day = "" }, wantErr: "day_of_week is required"},
		{name: "bad weekday", mutate: func(w *windowInput) { w.Day = "funday" }, wantErr: "day_of_week must be one of"},
		{name: "bad clock", mutate: func(w *windowInput) { w.StartTime = "9am" }, wantErr: "start_time must be a wall-clock time"},
		{name: "bad timezone", mutate: func(w *windowInput) { w.Timezone = "Nowhere/Land" }, wantErr: "timezone must be a valid IANA timezone"},
		{name: "bad date", mutate: func(w *windowInput) { w.Date = "10/03/2025" }, wantErr: "date must be a date"},
		{name: "bad email", mutate: func(w *windowInput) { w.Email = "not-an-email" }, wantErr: "email must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			err := validator.ValidateStruct(&input)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	var input windowInput

	err := validator.Validate(strings.NewReader(`{"day_of_week":"tue","start_time":"10:00","end_time":"11:30"}`), &input)
	require.NoError(t, err)
	assert.Equal(t, "tue", input.Day)

	err = validator.Validate(strings.NewReader(`{"day_of_week":`), &input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode request body")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("08:30", "clock"))
	assert.NoError(t, validator.ValidateVar("24:00", "clock"))
	assert.Error(t, validator.ValidateVar("25:00", "clock"))
	assert.NoError(t, validator.ValidateVar("UTC", "timezone"))
	assert.Error(t, validator.ValidateVar("", "required"))
}
