package scheduling

import (
	"strings"
	"time"
)

// EventState tracks the external calendar event attached to a booking.
type EventState string

const (
	EventNone      EventState = ""
	EventTentative EventState = "tentative"
	EventConfirmed EventState = "confirmed"
)

// Lifecycle is the part of a booking the state machine reads and writes.
type Lifecycle struct {
	Status         Status         `db:"status"           json:"status"`
	ApprovalStatus ApprovalStatus `db:"approval_status"  json:"approval_status"`

	CalendarEventID    string     `db:"calendar_event_id"    json:"calendar_event_id,omitempty"`
	CalendarEventState EventState `db:"calendar_event_state" json:"calendar_event_state,omitempty"`

	ApprovedBy      string     `db:"approved_by"      json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `db:"approved_at"      json:"approved_at,omitempty"`
	RejectedBy      string     `db:"rejected_by"      json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `db:"rejected_at"      json:"rejected_at,omitempty"`
	RejectionReason string     `db:"rejection_reason" json:"rejection_reason,omitempty"`

	CancelledBy  string     `db:"cancelled_by"  json:"cancelled_by,omitempty"`
	CancelledAt  *time.Time `db:"cancelled_at"  json:"cancelled_at,omitempty"`
	CancelReason string     `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CompletedAt  *time.Time `db:"completed_at"  json:"completed_at,omitempty"`
}

type EffectKind string

const (
	EffectCreateEvent             EffectKind = "create_event"
	EffectConfirmEvent            EffectKind = "confirm_event"
	EffectDeleteEvent             EffectKind = "delete_event"
	EffectNotifyApprovalRequested EffectKind = "notify_approval_requested"
	EffectNotifyApproved          EffectKind = "notify_approved"
	EffectNotifyRejected          EffectKind = "notify_rejected"
)

// Effect is a best-effort side effect the caller performs after persisting a transition.
type Effect struct {
	Kind EffectKind
	// EventState is the state of the event to create.
	EventState EventState
	Reason     string
}

// Transition is the next lifecycle together with the side effects it calls for.
type Transition struct {
	Lifecycle Lifecycle
	Effects   []Effect
}

// Initial returns the lifecycle of a new booking. Without approval it is confirmed immediately.
func Initial(requiresApproval bool) Transition {
	if requiresApproval {
		return Transition{
			Lifecycle: Lifecycle{Status: StatusPending, ApprovalStatus: ApprovalPending},
			Effects: []Effect{
				{Kind: EffectCreateEvent, EventState: EventTentative},
				{Kind: EffectNotifyApprovalRequested},
			},
		}
	}

	return Transition{
		Lifecycle: Lifecycle{Status: StatusConfirmed, ApprovalStatus: ApprovalNotRequired},
		Effects:   []Effect{{Kind: EffectCreateEvent, EventState: EventConfirmed}},
	}
}

// IsApprover reports whether p is listed in approvers by id or email.
func IsApprover(approvers []string, p Principal) bool {
	for _, approver := range approvers {
		if p.Matches(approver) {
			return true
		}
	}

	return false
}

func awaitingApproval(cur Lifecycle) bool {
	return cur.Status == StatusPending && cur.ApprovalStatus == ApprovalPending
}

func Approve(cur Lifecycle, approvers []string, by Principal, now time.Time) (Transition, error) {
	if !IsApprover(approvers, by) {
		return Transition{}, ErrNotApprover
	}

	if !awaitingApproval(cur) {
		return Transition{}, ErrInvalidTransition
	}

	next := cur
	next.Status = StatusConfirmed
	next.ApprovalStatus = ApprovalApproved
	next.ApprovedBy = actor(by)
	next.ApprovedAt = &now

	effects := []Effect{}
	if cur.CalendarEventID != "" && cur.CalendarEventState == EventTentative {
		effects = append(effects, Effect{Kind: EffectConfirmEvent})
	}

	effects = append(effects, Effect{Kind: EffectNotifyApproved})

	return Transition{Lifecycle: Normalize(next), Effects: effects}, nil
}

func Reject(cur Lifecycle, approvers []string, by Principal, reason string, now time.Time) (Transition, error) {
	if !IsApprover(approvers, by) {
		return Transition{}, ErrNotApprover
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Transition{}, ErrReasonRequired
	}

	if !awaitingApproval(cur) {
		return Transition{}, ErrInvalidTransition
	}

	next := cur
	next.Status = StatusCancelled
	next.ApprovalStatus = ApprovalRejected
	next.RejectedBy = actor(by)
	next.RejectedAt = &now
	next.RejectionReason = reason

	effects := []Effect{}
	if cur.CalendarEventID != "" {
		effects = append(effects, Effect{Kind: EffectDeleteEvent})
	}

	effects = append(effects, Effect{Kind: EffectNotifyRejected, Reason: reason})

	return Transition{Lifecycle: Normalize(next), Effects: effects}, nil
}

// Cancel terminates a pending or confirmed booking. Who may cancel is decided by the caller.
func Cancel(cur Lifecycle, by Principal, reason string, now time.Time) (Transition, error) {
	if cur.Status != StatusPending && cur.Status != StatusConfirmed {
		return Transition{}, ErrInvalidTransition
	}

	next := cur
	next.Status = StatusCancelled
	next.CancelledBy = actor(by)
	next.CancelledAt = &now
	next.CancelReason = strings.TrimSpace(reason)

	effects := []Effect{}
	if cur.CalendarEventID != "" {
		effects = append(effects, Effect{Kind: EffectDeleteEvent})
	}

	return Transition{Lifecycle: next, Effects: effects}, nil
}

// Complete marks a confirmed booking whose end has passed as completed.
func Complete(cur Lifecycle, end, now time.Time) (Transition, error) {
	if cur.Status != StatusConfirmed || now.Before(end) {
		return Transition{}, ErrInvalidTransition
	}

	next := cur
	next.Status = StatusCompleted
	next.CompletedAt = &now

	return Transition{Lifecycle: next}, nil
}

// Normalize keeps at most one of the approval and rejection stamps, the one matching ApprovalStatus.
func Normalize(cur Lifecycle) Lifecycle {
	switch cur.ApprovalStatus {
	case ApprovalApproved:
		cur.RejectedBy, cur.RejectedAt, cur.RejectionReason = "", nil, ""
	case ApprovalRejected:
		cur.ApprovedBy, cur.ApprovedAt = "", nil
	case ApprovalPending, ApprovalNotRequired:
		cur.ApprovedBy, cur.ApprovedAt = "", nil
		cur.RejectedBy, cur.RejectedAt, cur.RejectionReason = "", nil, ""
	}

	return cur
}

func actor(p Principal) string {
	if p.ID != "" {
		return p.ID
	}

	return p.Email
}
