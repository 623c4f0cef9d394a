package scheduling

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type ApprovalStatus string

const (
	ApprovalPending     ApprovalStatus = "pending"
	ApprovalApproved    ApprovalStatus = "approved"
	ApprovalRejected    ApprovalStatus = "rejected"
	ApprovalNotRequired ApprovalStatus = "not_required"
)

// Commitment is an existing booking as seen by the booking-time overlap check.
type Commitment struct {
	BookingID   string
	OwnerID     string
	ClientEmail string
	Interval
	Status         Status
	ApprovalStatus ApprovalStatus
}

// Blocking reports whether the booking still holds its time.
func (c Commitment) Blocking() bool {
	return c.Status != StatusCancelled && c.ApprovalStatus != ApprovalRejected
}

// ConflictCheck describes a booking about to be written.
type ConflictCheck struct {
	OwnerID     string
	ClientEmail string
	Requested   Interval
	// Buffer is zero unless the link enforces its buffer at booking time.
	Buffer Buffer
}

// CheckBookingConflict fails with ErrConflict when a blocking booking of the same owner
// or the same client overlaps the requested interval.
func CheckBookingConflict(check ConflictCheck, existing []Commitment) error {
	if !check.Requested.End.After(check.Requested.Start) {
		return ErrInvalidRange
	}

	padded := check.Requested.Pad(check.Buffer)

	for _, c := range existing {
		if !c.Blocking() {
			continue
		}

		sameOwner := c.OwnerID == check.OwnerID
		sameClient := check.ClientEmail != "" && strings.EqualFold(c.ClientEmail, check.ClientEmail)

		if !sameOwner && !sameClient {
			continue
		}

		window := padded
		if !sameOwner {
			window = check.Requested
		}

		if window.Overlaps(c.Interval) {
			return fmt.Errorf("%w: overlaps booking %s", ErrConflict, c.BookingID)
		}
	}

	return nil
}
