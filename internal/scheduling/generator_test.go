package scheduling_test

import (
	"scheduler/internal/scheduling"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-03-10 is a Monday.
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func window(day scheduling.Weekday, start, end string) scheduling.Window {
	s, _ := scheduling.ParseClockTime(start)
	e, _ := scheduling.ParseClockTime(end)

	return scheduling.Window{Day: day, Start: s, End: e, Active: true}
}

func at(day time.Time, clock string, loc *time.Location) time.Time {
	c, _ := scheduling.ParseClockTime(clock)

	return c.On(day, loc)
}

func TestGenerateSlotsMondayMorning(t *testing.T) {
	slots, err := scheduling.GenerateSlots(scheduling.GenerateRequest{
		Windows:   []scheduling.Window{window(scheduling.Monday, "09:00", "12:00")},
		StartDate: monday,
		EndDate:   monday,
		Duration:  time.Hour,
		Timezone:  "UTC",
	})
	require.NoError(t, err)
	require.Len(t, slots, 3)

	for i, start := range []string{"09:00", "10:00", "11:00"} {
		assert.Equal(t, at(monday, start, time.UTC), slots[i].Start)
		assert.Equal(t, slots[i].Start.Add(time.Hour), slots[i].End)
	}
}

func TestGenerateSlots(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     scheduling.GenerateRequest
		want    []time.Time
		wantErr error
	}{
		{
			name: "window shorter than duration",
			req: scheduling.GenerateRequest{
				Windows:   []scheduling.Window{window(scheduling.Monday, "09:00", "09:45")},
				StartDate: monday, EndDate: monday, Duration: time.Hour, Timezone: "UTC",
			},
			want: []time.Time{},
		},
		{
			name: "slots never spill into a contiguous window",
			req: scheduling.GenerateRequest{
				Windows: []scheduling.Window{
					window(scheduling.Monday, "09:00", "10:30"),
					window(scheduling.Monday, "10:30", "12:00"),
				},
				StartDate: monday, EndDate: monday, Duration: time.Hour, Timezone: "UTC",
			},
			want: []time.Time{at(monday, "09:00", time.UTC), at(monday, "10:30", time.UTC)},
		},
		{
			name: "overlapping windows walked independently",
			req: scheduling.GenerateRequest{
				Windows: []scheduling.Window{
					window(scheduling.Monday, "09:00", "11:00"),
					window(scheduling.Monday, "09:30", "10:30"),
				},
				StartDate: monday, EndDate: monday, Duration: time.Hour, Timezone: "UTC",
			},
			want: []time.Time{at(monday, "09:00", time.UTC), at(monday, "09:30", time.UTC), at(monday, "10:00", time.UTC)},
		},
		{
			name: "inactive windows ignored and do not trigger defaults",
			req: scheduling.GenerateRequest{
				Windows:   []scheduling.Window{{Day: scheduling.Monday, Start: 540, End: 720}},
				Defaults:  scheduling.StandardWorkingHours(),
				StartDate: monday, EndDate: monday, Duration: time.Hour, Timezone: "UTC",
			},
			want: []time.Time{},
		},
		{
			name: "only matching weekdays across a week",
			req: scheduling.GenerateRequest{
				Windows: []scheduling.Window{
					window(scheduling.Wednesday, "14:00", "15:00"),
					window(scheduling.Sunday, "08:00", "09:00"),
				},
				StartDate: monday, EndDate: monday.AddDate(0, 0, 6), Duration: time.Hour, Timezone: "UTC",
			},
			want: []time.Time{at(monday.AddDate(0, 0, 2), "14:00", time.UTC), at(monday.AddDate(0, 0, 6), "08:00", time.UTC)},
		},
		{
			name: "defaults stepped by half an hour",
			req: scheduling.GenerateRequest{
				Defaults:  []scheduling.Window{window(scheduling.Monday, "09:00", "10:30")},
				StartDate: monday, EndDate: monday, Duration: time.Hour, Timezone: "UTC",
			},
			want: []time.Time{at(monday, "09:00", time.UTC), at(monday, "09:30", time.UTC)},
		},
		{
			name: "defaults with configured granularity",
			req: scheduling.GenerateRequest{
				Defaults:  []scheduling.Window{window(scheduling.Monday, "09:00", "10:00")},
				StartDate: monday, EndDate: monday, Duration: 30 * time.Minute, Timezone: "UTC",
				Granularity: 15 * time.Minute,
			},
			want: []time.Time{at(monday, "09:00", time.UTC), at(monday, "09:15", time.UTC), at(monday, "09:30", time.UTC)},
		},
		{
			name: "minimum notice discards early slots",
			req: scheduling.GenerateRequest{
				Windows:   []scheduling.Window{window(scheduling.Monday, "09:00", "12:00")},
				StartDate: monday, EndDate: monday, Duration: time.Hour, Timezone: "UTC",
				Now:           at(monday, "08:30", time.UTC),
				MinimumNotice: 90 * time.Minute,
			},
			want: []time.Time{at(monday, "10:00", time.UTC), at(monday, "11:00", time.UTC)},
		},
		{
			name: "wall clock kept across a DST change",
			req: scheduling.GenerateRequest{
				Windows:   []scheduling.Window{window(scheduling.Monday, "09:00", "10:00")},
				StartDate: time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
				Duration:  time.Hour,
				Timezone:  "Europe/Paris",
			},
			want: []time.Time{
				time.Date(2025, 3, 24, 9, 0, 0, 0, paris),
				time.Date(2025, 3, 31, 9, 0, 0, 0, paris),
			},
		},
		{
			name: "end before start",
			req: scheduling.GenerateRequest{
				Windows:   []scheduling.Window{window(scheduling.Monday, "09:00", "12:00")},
				StartDate: monday, EndDate: monday.AddDate(0, 0, -1), Duration: time.Hour, Timezone: "UTC",
			},
			wantErr: scheduling.ErrInvalidRange,
		},
		{
			name: "unknown timezone",
			req: scheduling.GenerateRequest{
				StartDate: monday, EndDate: monday, Duration: time.Hour, Timezone: "Mars/Olympus",
			},
			wantErr: scheduling.ErrUnknownTimezone,
		},
		{
			name: "empty timezone",
			req: scheduling.GenerateRequest{
				StartDate: monday, EndDate: monday, Duration: time.Hour,
			},
			wantErr: scheduling.ErrUnknownTimezone,
		},
		{
			name: "zero duration",
			req: scheduling.GenerateRequest{
				StartDate: monday, EndDate: monday, Timezone: "UTC",
			},
			wantErr: scheduling.ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := scheduling.GenerateSlots(tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			starts := make([]time.Time, 0, len(slots))
			for _, slot := range slots {
				starts = append(starts, slot.Start)
			}

			require.Len(t, starts, len(tt.want))

			for i := range tt.want {
				assert.True(t, tt.want[i].Equal(starts[i]), "slot %d: want %s got %s", i, tt.want[i], starts[i])
			}
		})
	}
}

func TestGenerateSlotsProperties(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	windows := []scheduling.Window{
		window(scheduling.Monday, "09:00", "12:00"),
		window(scheduling.Monday, "13:00", "17:30"),
		window(scheduling.Tuesday, "08:15", "11:45"),
		window(scheduling.Thursday, "00:00", "24:00"),
		window(scheduling.Saturday, "10:00", "10:20"),
	}

	req := scheduling.GenerateRequest{
		Windows:   windows,
		StartDate: time.Date(2025, 10, 27, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC),
		Duration:  45 * time.Minute,
		Timezone:  "America/New_York",
	}

	first, err := scheduling.GenerateSlots(req)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := scheduling.GenerateSlots(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for i, slot := range first {
		assert.Equal(t, req.Duration, slot.Duration())

		local := slot.Start.In(loc)
		contained := false

		for _, w := range windows {
			if scheduling.WeekdayOf(local) != w.Day {
				continue
			}

			bounds := scheduling.Interval{Start: w.Start.On(local, loc), End: w.End.On(local, loc)}
			if slot.Within(bounds) {
				contained = true

				break
			}
		}

		assert.True(t, contained, "slot %s outside every window", slot.Start)

		if i > 0 {
			assert.False(t, slot.Start.Before(first[i-1].Start), "slots out of order")
		}
	}
}

func TestGenerateSlotsSpringForwardGap(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2030-03-10 is a Sunday; New York skips 02:00-03:00 that night.
	day := time.Date(2030, 3, 10, 0, 0, 0, 0, loc)

	slots, err := scheduling.GenerateSlots(scheduling.GenerateRequest{
		Windows:   []scheduling.Window{window(scheduling.Sunday, "02:30", "05:00")},
		StartDate: day,
		EndDate:   day,
		Duration:  time.Hour,
		Timezone:  "America/New_York",
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)

	opens := time.Date(2030, 3, 10, 3, 30, 0, 0, loc)
	assert.True(t, slots[0].Start.Equal(opens), "got %s", slots[0].Start.In(loc))
	assert.True(t, slots[0].End.Equal(opens.Add(time.Hour)))

	zone, _ := slots[0].Start.In(loc).Zone()
	assert.Equal(t, "EDT", zone)
}
