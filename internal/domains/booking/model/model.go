package model

import (
	"scheduler/internal/scheduling"
	"scheduler/shared/constant"
	"scheduler/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldOwnerID            = "owner_id"
	FieldLinkID             = "link_id"
	FieldTitle              = "title"
	FieldClientName         = "client_name"
	FieldClientEmail        = "client_email"
	FieldNotes              = "notes"
	FieldStartAt            = "start_at"
	FieldEndAt              = "end_at"
	FieldTimezone           = "timezone"
	FieldApprovers          = "approvers"
	FieldStatus             = "status"
	FieldApprovalStatus     = "approval_status"
	FieldCalendarEventID    = "calendar_event_id"
	FieldCalendarEventState = "calendar_event_state"
	FieldApprovedBy         = "approved_by"
	FieldApprovedAt         = "approved_at"
	FieldRejectedBy         = "rejected_by"
	FieldRejectedAt         = "rejected_at"
	FieldRejectionReason    = "rejection_reason"
	FieldCancelledBy        = "cancelled_by"
	FieldCancelledAt        = "cancelled_at"
	FieldCancelReason       = "cancel_reason"
	FieldCompletedAt        = "completed_at"
)

// Booking is a client reservation against an owner's time. Title and Approvers are copied
// from the link when the booking is made, so later link edits do not change who may approve it.
type Booking struct {
	ID          string         `db:"id"`
	OwnerID     string         `db:"owner_id"`
	LinkID      string         `db:"link_id"`
	Title       string         `db:"title"`
	ClientName  string         `db:"client_name"`
	ClientEmail string         `db:"client_email"`
	Notes       string         `db:"notes"`
	StartAt     time.Time      `db:"start_at"`
	EndAt       time.Time      `db:"end_at"`
	Timezone    string         `db:"timezone"`
	Approvers   pq.StringArray `db:"approvers"`
	scheduling.Lifecycle
	model.Metadata
}

func (b Booking) Interval() scheduling.Interval {
	return scheduling.Interval{Start: b.StartAt, End: b.EndAt}
}

func (b Booking) Commitment() scheduling.Commitment {
	return scheduling.Commitment{
		BookingID:      b.ID,
		OwnerID:        b.OwnerID,
		ClientEmail:    b.ClientEmail,
		Interval:       b.Interval(),
		Status:         b.Status,
		ApprovalStatus: b.ApprovalStatus,
	}
}

// LifecycleColumns lists every decision column, so stamps cleared by a transition are written too.
// The calendar event columns are left out: only EventColumns writes them.
func LifecycleColumns(l scheduling.Lifecycle, user string, now time.Time) map[string]any {
	return map[string]any{
		FieldStatus:              l.Status,
		FieldApprovalStatus:      l.ApprovalStatus,
		FieldApprovedBy:          l.ApprovedBy,
		FieldApprovedAt:          l.ApprovedAt,
		FieldRejectedBy:          l.RejectedBy,
		FieldRejectedAt:          l.RejectedAt,
		FieldRejectionReason:     l.RejectionReason,
		FieldCancelledBy:         l.CancelledBy,
		FieldCancelledAt:         l.CancelledAt,
		FieldCancelReason:        l.CancelReason,
		FieldCompletedAt:         l.CompletedAt,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}
}

func EventColumns(eventID string, state scheduling.EventState, user string, now time.Time) map[string]any {
	return map[string]any{
		FieldCalendarEventID:     eventID,
		FieldCalendarEventState:  state,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}
}
