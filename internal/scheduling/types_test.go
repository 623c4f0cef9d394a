package scheduling_test

import (
	"scheduler/internal/scheduling"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    scheduling.Weekday
		wantErr bool
	}{
		{input: "mon", want: scheduling.Monday},
		{input: "Monday", want: scheduling.Monday},
		{input: " WED ", want: scheduling.Wednesday},
		{input: "thursday", want: scheduling.Thursday},
		{input: "sun", want: scheduling.Sunday},
		{input: "SUNDAY", want: scheduling.Sunday},
		{input: "monkey", wantErr: true},
		{input: "sunshine", wantErr: true},
		{input: "tues", wantErr: true},
		{input: "mo", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := scheduling.ParseWeekday(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, scheduling.ErrInvalidWeekday)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
