package scheduling

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// DefaultGranularity is the largest step used when walking default working hours.
const DefaultGranularity = 30 * time.Minute

type GenerateRequest struct {
	// Windows are the owner's windows. When there are none at all, Defaults apply instead.
	Windows  []Window
	Defaults []Window

	// StartDate and EndDate are calendar days, both inclusive, read in Timezone.
	StartDate time.Time
	EndDate   time.Time
	Duration  time.Duration
	Timezone  string

	// Granularity overrides the step used for default working hours.
	Granularity time.Duration

	Now           time.Time
	MinimumNotice time.Duration
}

func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownTimezone)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}

	return loc, nil
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// GenerateSlots expands windows into candidate slots of req.Duration over the date range.
// Each window is walked independently, so overlapping windows can yield overlapping slots.
// The result is ordered by start and depends only on req.
func GenerateSlots(req GenerateRequest) ([]TimeSlot, error) {
	loc, err := LoadLocation(req.Timezone)
	if err != nil {
		return nil, err
	}

	if req.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	first := dateOnly(req.StartDate, loc)
	last := dateOnly(req.EndDate, loc)

	if last.Before(first) {
		return nil, ErrInvalidRange
	}

	windows, step := req.Windows, req.Duration
	if len(windows) == 0 {
		windows = req.Defaults
		step = req.Granularity

		if step <= 0 {
			step = min(req.Duration, DefaultGranularity)
		}
	}

	var earliest time.Time
	if !req.Now.IsZero() {
		earliest = req.Now.Add(req.MinimumNotice)
	}

	slots := []TimeSlot{}

	for _, window := range windows {
		if !window.Active {
			continue
		}

		if err = window.Validate(); err != nil {
			return nil, err
		}

		starts, err := occurrences(window, first, last, loc)
		if err != nil {
			return nil, err
		}

		for _, day := range starts {
			// rebuilt from the wall clock, so a start inside a DST gap moves forward instead of back.
			start, end := window.Start.On(day, loc), window.End.On(day, loc)
			slots = appendSlots(slots, start, end, req.Duration, step, earliest)
		}
	}

	slices.SortStableFunc(slots, func(a, b TimeSlot) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}

		return a.End.Compare(b.End)
	})

	return slots, nil
}

// occurrences returns an instant on every day in [first, last] matching the window's weekday.
// Only the calendar day of each is meaningful.
func occurrences(window Window, first, last time.Time, loc *time.Location) ([]time.Time, error) {
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   window.Start.On(first, loc),
		Until:     window.Start.On(last, loc),
		Byweekday: []rrule.Weekday{window.Day.rrule()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expand window %s %s: %w", window.Day, window.Start, err)
	}

	days := rule.All()
	for i, day := range days {
		days[i] = day.In(loc)
	}

	return days, nil
}

// appendSlots walks [start, end) by step and keeps every slot that ends inside it and starts no earlier than earliest.
func appendSlots(slots []TimeSlot, start, end time.Time, duration, step time.Duration, earliest time.Time) []TimeSlot {
	for cursor := start; !cursor.Add(duration).After(end); cursor = cursor.Add(step) {
		if cursor.Before(earliest) {
			continue
		}

		slots = append(slots, TimeSlot{Interval{Start: cursor, End: cursor.Add(duration)}})
	}

	return slots
}
