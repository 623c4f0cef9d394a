package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Weekday numbers days ISO style, Monday = 1 through Sunday = 7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var (
	weekdayNames     = [...]string{"", "mon", "tue", "wed", "thu", "fri", "sat", "sun"}
	weekdayFullNames = [...]string{"", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
)

// ParseWeekday accepts a short ("mon") or full ("monday") day name, case-insensitive.
func ParseWeekday(s string) (Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	for i := Monday; i <= Sunday; i++ {
		if weekdayNames[i] == name || weekdayFullNames[i] == name {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}

	return weekdayNames[d]
}

func (d Weekday) rrule() rrule.Weekday {
	return [...]rrule.Weekday{rrule.MO, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}[d]
}

// WeekdayOf returns the day of week of t in its own location.
func WeekdayOf(t time.Time) Weekday {
	if t.Weekday() == time.Sunday {
		return Sunday
	}

	return Weekday(t.Weekday())
}

// ClockTime is a wall-clock time of day in minutes after midnight.
type ClockTime int

const (
	minutesPerDay = 24 * 60
	clockLayout   = "15:04"
	endOfDay      = "24:00"
)

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime accepts "15:04" and, for window ends, "24:00".
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if s == endOfDay {
		return minutesPerDay, nil
	}

	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return NewClockTime(t.Hour(), t.Minute()), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On returns the instant at clock time c on the calendar day of date, in loc.
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()

	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc)
}

// Window is a recurring weekly availability interval.
type Window struct {
	Day    Weekday
	Start  ClockTime
	End    ClockTime
	Active bool
}

func (w Window) Validate() error {
	if !w.Day.Valid() {
		return ErrInvalidWeekday
	}

	if w.Start < 0 || w.End > minutesPerDay || w.Start >= w.End {
		return ErrInvalidWindow
	}

	return nil
}

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether the two half-open intervals share any instant.
// Back-to-back intervals do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

func (i Interval) Pad(b Buffer) Interval {
	return Interval{Start: i.Start.Add(-b.Before), End: i.End.Add(b.After)}
}

func (i Interval) Within(o Interval) bool {
	return !i.Start.Before(o.Start) && !i.End.After(o.End)
}

type TimeSlot struct {
	Interval
}

// BusyPeriod is an interval taken from an external calendar.
type BusyPeriod struct {
	Interval
}

// Buffer is idle time required around a slot before and after it.
type Buffer struct {
	Before time.Duration
	After  time.Duration
}

func UniformBuffer(d time.Duration) Buffer {
	return Buffer{Before: d, After: d}
}

// Principal identifies the caller of an approval action.
type Principal struct {
	ID    string
	Email string
}

// Matches reports whether identity names this principal by id or email, ignoring case.
func (p Principal) Matches(identity string) bool {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return false
	}

	return (p.ID != "" && strings.EqualFold(identity, p.ID)) ||
		(p.Email != "" && strings.EqualFold(identity, p.Email))
}

// IntegrationWarning reports a best-effort side effect that failed without undoing the primary change.
type IntegrationWarning struct {
	Integration string `json:"integration"`
	Action      string `json:"action"`
	Message     string `json:"message"`
}
