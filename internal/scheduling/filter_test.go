package scheduling_test

import (
	"scheduler/internal/scheduling"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(day time.Time, start, end string) scheduling.Interval {
	return scheduling.Interval{Start: at(day, start, time.UTC), End: at(day, end, time.UTC)}
}

func mondayMorning(t *testing.T) []scheduling.TimeSlot {
	t.Helper()

	slots, err := scheduling.GenerateSlots(scheduling.GenerateRequest{
		Windows:   []scheduling.Window{window(scheduling.Monday, "09:00", "12:00")},
		StartDate: monday,
		EndDate:   monday,
		Duration:  time.Hour,
		Timezone:  "UTC",
	})
	require.NoError(t, err)

	return slots
}

func TestFilterSlots(t *testing.T) {
	booked := interval(monday, "10:00", "11:00")

	tests := []struct {
		name string
		req  scheduling.FilterRequest
		want []string
	}{
		{
			name: "no commitments",
			req:  scheduling.FilterRequest{},
			want: []string{"09:00", "10:00", "11:00"},
		},
		{
			name: "booking without buffer keeps back-to-back slots",
			req:  scheduling.FilterRequest{Bookings: []scheduling.Interval{booked}},
			want: []string{"09:00", "11:00"},
		},
		{
			name: "fifteen minute buffer removes the neighbours too",
			req: scheduling.FilterRequest{
				Bookings:      []scheduling.Interval{booked},
				BookingBuffer: scheduling.UniformBuffer(15 * time.Minute),
			},
			want: []string{},
		},
		{
			name: "buffer before only",
			req: scheduling.FilterRequest{
				Bookings:      []scheduling.Interval{booked},
				BookingBuffer: scheduling.Buffer{Before: 15 * time.Minute},
			},
			want: []string{"09:00"},
		},
		{
			name: "busy period uses its own buffer",
			req: scheduling.FilterRequest{
				Busy:          []scheduling.BusyPeriod{{Interval: interval(monday, "10:00", "11:00")}},
				BookingBuffer: scheduling.UniformBuffer(15 * time.Minute),
			},
			want: []string{"09:00", "11:00"},
		},
		{
			name: "busy period with buffer",
			req: scheduling.FilterRequest{
				Busy:       []scheduling.BusyPeriod{{Interval: interval(monday, "11:50", "13:00")}},
				BusyBuffer: scheduling.UniformBuffer(5 * time.Minute),
			},
			want: []string{"09:00", "10:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Slots = mondayMorning(t)

			got := scheduling.FilterSlots(req)

			starts := make([]string, 0, len(got))
			for _, slot := range got {
				starts = append(starts, slot.Start.Format("15:04"))
			}

			assert.Equal(t, tt.want, starts)
		})
	}
}

func TestFilterSlotsRespectsBuffer(t *testing.T) {
	slots, err := scheduling.GenerateSlots(scheduling.GenerateRequest{
		Windows:   []scheduling.Window{window(scheduling.Monday, "08:00", "18:00")},
		StartDate: monday,
		EndDate:   monday,
		Duration:  25 * time.Minute,
		Timezone:  "UTC",
	})
	require.NoError(t, err)

	bookings := []scheduling.Interval{
		interval(monday, "09:10", "09:40"),
		interval(monday, "12:00", "13:00"),
		interval(monday, "16:55", "17:05"),
	}

	for _, buffer := range []time.Duration{0, 5 * time.Minute, 10 * time.Minute, 30 * time.Minute} {
		free := scheduling.FilterSlots(scheduling.FilterRequest{
			Slots:         slots,
			Bookings:      bookings,
			BookingBuffer: scheduling.UniformBuffer(buffer),
		})

		for _, slot := range free {
			for _, booking := range bookings {
				overlap := slot.Start.Add(-buffer).Before(booking.End) && slot.End.Add(buffer).After(booking.Start)
				assert.False(t, overlap, "slot %s survives booking %s with buffer %s", slot.Start, booking.Start, buffer)
			}
		}
	}
}
