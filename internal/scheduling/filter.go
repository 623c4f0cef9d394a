package scheduling

// FilterRequest holds a candidate slot list and the commitments it is checked against.
type FilterRequest struct {
	Slots    []TimeSlot
	Bookings []Interval
	Busy     []BusyPeriod

	BookingBuffer Buffer
	// BusyBuffer pads slots checked against external busy periods. It is separate
	// from BookingBuffer because third-party calendars may call for a different margin.
	BusyBuffer Buffer
}

// FilterSlots drops every slot whose padded interval overlaps a booking or a busy period.
// Input order is preserved.
func FilterSlots(req FilterRequest) []TimeSlot {
	free := make([]TimeSlot, 0, len(req.Slots))

	for _, slot := range req.Slots {
		if overlapsAny(slot.Pad(req.BookingBuffer), req.Bookings) {
			continue
		}

		if overlapsBusy(slot.Pad(req.BusyBuffer), req.Busy) {
			continue
		}

		free = append(free, slot)
	}

	return free
}

func overlapsAny(padded Interval, others []Interval) bool {
	for _, other := range others {
		if padded.Overlaps(other) {
			return true
		}
	}

	return false
}

func overlapsBusy(padded Interval, busy []BusyPeriod) bool {
	for _, period := range busy {
		if padded.Overlaps(period.Interval) {
			return true
		}
	}

	return false
}
