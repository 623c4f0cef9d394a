package scheduling

import (
	"fmt"
	"strings"
)

// StandardWorkingHours is Monday to Friday, 09:00 to 17:00.
func StandardWorkingHours() []Window {
	windows := make([]Window, 0, 5)

	for day := Monday; day <= Friday; day++ {
		windows = append(windows, Window{Day: day, Start: NewClockTime(9, 0), End: NewClockTime(17, 0), Active: true})
	}

	return windows
}

// ParseWorkingHours reads a table like "mon=09:00-17:00,tue=09:00-12:00,tue=13:00-17:00".
// An empty table yields StandardWorkingHours.
func ParseWorkingHours(table string) ([]Window, error) {
	if strings.TrimSpace(table) == "" {
		return StandardWorkingHours(), nil
	}

	var windows []Window

	for _, entry := range strings.Split(table, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		dayPart, rangePart, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("working hours entry %q: missing '='", entry)
		}

		day, err := ParseWeekday(dayPart)
		if err != nil {
			return nil, fmt.Errorf("working hours entry %q: %w", entry, err)
		}

		startPart, endPart, ok := strings.Cut(rangePart, "-")
		if !ok {
			return nil, fmt.Errorf("working hours entry %q: missing '-'", entry)
		}

		start, err := ParseClockTime(startPart)
		if err != nil {
			return nil, fmt.Errorf("working hours entry %q: %w", entry, err)
		}

		end, err := ParseClockTime(endPart)
		if err != nil {
			return nil, fmt.Errorf("working hours entry %q: %w", entry, err)
		}

		window := Window{Day: day, Start: start, End: end, Active: true}
		if err = window.Validate(); err != nil {
			return nil, fmt.Errorf("working hours entry %q: %w", entry, err)
		}

		windows = append(windows, window)
	}

	return windows, nil
}
