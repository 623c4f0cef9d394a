package caldav

import (
	"scheduler/infras/calendar"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vevent(start, end time.Time, props map[string]string) ical.Event {
	comp := ical.NewComponent(ical.CompEvent)
	comp.Props.SetText(ical.PropUID, "evt")
	comp.Props.SetDateTime(ical.PropDateTimeStart, start)
	comp.Props.SetDateTime(ical.PropDateTimeEnd, end)

	for name, value := range props {
		comp.Props.SetText(name, value)
	}

	return ical.Event{Component: comp}
}

func TestBusyPeriods(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name  string
		event ical.Event
		want  []calendar.Period
	}{
		{
			name:  "single event",
			event: vevent(start, end, nil),
			want:  []calendar.Period{{Start: start, End: end}},
		},
		{
			name:  "cancelled ignored",
			event: vevent(start, end, map[string]string{ical.PropStatus: "CANCELLED"}),
		},
		{
			name:  "transparent ignored",
			event: vevent(start, end, map[string]string{ical.PropTransparency: "TRANSPARENT"}),
		},
		{
			name:  "outside range",
			event: vevent(start.AddDate(0, 1, 0), end.AddDate(0, 1, 0), nil),
		},
		{
			name:  "daily recurrence expanded",
			event: vevent(start, end, map[string]string{ical.PropRecurrenceRule: "FREQ=DAILY;COUNT=3"}),
			want: []calendar.Period{
				{Start: start, End: end},
				{Start: start.AddDate(0, 0, 1), End: end.AddDate(0, 0, 1)},
				{Start: start.AddDate(0, 0, 2), End: end.AddDate(0, 0, 2)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := busyPeriods(tt.event, from, to)

			require.Len(t, got, len(tt.want))

			for i := range tt.want {
				assert.True(t, tt.want[i].Start.Equal(got[i].Start))
				assert.True(t, tt.want[i].End.Equal(got[i].End))
			}
		})
	}
}

func TestToICalCarriesStatus(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	cal := toICal("uid-1", calendar.Event{
		Summary:   "Advising",
		Start:     start,
		End:       start.Add(time.Hour),
		Status:    calendar.EventTentative,
		Attendees: []string{"client@example.com"},
	})

	events := cal.Events()
	require.Len(t, events, 1)

	status, err := events[0].Props.Text(ical.PropStatus)
	require.NoError(t, err)
	assert.Equal(t, "TENTATIVE", status)
}
