package scheduling_test

import (
	"scheduler/internal/scheduling"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	approvers = []string{"Lead@Example.com", "advisor-2"}
	lead      = scheduling.Principal{ID: "advisor-1", Email: "lead@example.com"}
	stranger  = scheduling.Principal{ID: "advisor-9", Email: "nobody@example.com"}
	now       = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
)

func kinds(effects []scheduling.Effect) []scheduling.EffectKind {
	out := make([]scheduling.EffectKind, 0, len(effects))
	for _, e := range effects {
		out = append(out, e.Kind)
	}

	return out
}

func pendingWithEvent() scheduling.Lifecycle {
	cur := scheduling.Initial(true).Lifecycle
	cur.CalendarEventID = "evt-1"
	cur.CalendarEventState = scheduling.EventTentative

	return cur
}

func TestInitial(t *testing.T) {
	direct := scheduling.Initial(false)
	assert.Equal(t, scheduling.StatusConfirmed, direct.Lifecycle.Status)
	assert.Equal(t, scheduling.ApprovalNotRequired, direct.Lifecycle.ApprovalStatus)
	assert.Equal(t, []scheduling.Effect{{Kind: scheduling.EffectCreateEvent, EventState: scheduling.EventConfirmed}}, direct.Effects)

	gated := scheduling.Initial(true)
	assert.Equal(t, scheduling.StatusPending, gated.Lifecycle.Status)
	assert.Equal(t, scheduling.ApprovalPending, gated.Lifecycle.ApprovalStatus)
	assert.Equal(t, []scheduling.EffectKind{scheduling.EffectCreateEvent, scheduling.EffectNotifyApprovalRequested}, kinds(gated.Effects))
	assert.Equal(t, scheduling.EventTentative, gated.Effects[0].EventState)
}

func TestApprove(t *testing.T) {
	next, err := scheduling.Approve(pendingWithEvent(), approvers, lead, now)
	require.NoError(t, err)

	assert.Equal(t, scheduling.StatusConfirmed, next.Lifecycle.Status)
	assert.Equal(t, scheduling.ApprovalApproved, next.Lifecycle.ApprovalStatus)
	assert.Equal(t, "advisor-1", next.Lifecycle.ApprovedBy)
	require.NotNil(t, next.Lifecycle.ApprovedAt)
	assert.Equal(t, now, *next.Lifecycle.ApprovedAt)
	assert.Empty(t, next.Lifecycle.RejectedBy)
	assert.Equal(t, []scheduling.EffectKind{scheduling.EffectConfirmEvent, scheduling.EffectNotifyApproved}, kinds(next.Effects))

	withoutEvent, err := scheduling.Approve(scheduling.Initial(true).Lifecycle, approvers, scheduling.Principal{ID: "ADVISOR-2"}, now)
	require.NoError(t, err)
	assert.Equal(t, []scheduling.EffectKind{scheduling.EffectNotifyApproved}, kinds(withoutEvent.Effects))
}

func TestReject(t *testing.T) {
	next, err := scheduling.Reject(pendingWithEvent(), approvers, lead, "  time conflict ", now)
	require.NoError(t, err)

	assert.Equal(t, scheduling.StatusCancelled, next.Lifecycle.Status)
	assert.Equal(t, scheduling.ApprovalRejected, next.Lifecycle.ApprovalStatus)
	assert.Equal(t, "time conflict", next.Lifecycle.RejectionReason)
	assert.Equal(t, "advisor-1", next.Lifecycle.RejectedBy)
	assert.Nil(t, next.Lifecycle.ApprovedAt)
	assert.Equal(t, []scheduling.EffectKind{scheduling.EffectDeleteEvent, scheduling.EffectNotifyRejected}, kinds(next.Effects))
	assert.Equal(t, "time conflict", next.Effects[1].Reason)
}

func TestApprovalGuards(t *testing.T) {
	approved, err := scheduling.Approve(pendingWithEvent(), approvers, lead, now)
	require.NoError(t, err)

	rejected, err := scheduling.Reject(pendingWithEvent(), approvers, lead, "no", now)
	require.NoError(t, err)

	direct := scheduling.Initial(false).Lifecycle

	tests := []struct {
		name    string
		act     func() (scheduling.Transition, error)
		wantErr error
	}{
		{
			name: "approve twice",
			act: func() (scheduling.Transition, error) {
				return scheduling.Approve(approved.Lifecycle, approvers, lead, now)
			},
			wantErr: scheduling.ErrInvalidTransition,
		},
		{
			name: "reject after approve",
			act: func() (scheduling.Transition, error) {
				return scheduling.Reject(approved.Lifecycle, approvers, lead, "late", now)
			},
			wantErr: scheduling.ErrInvalidTransition,
		},
		{
			name: "approve after reject",
			act: func() (scheduling.Transition, error) {
				return scheduling.Approve(rejected.Lifecycle, approvers, lead, now)
			},
			wantErr: scheduling.ErrInvalidTransition,
		},
		{
			name:    "approve a direct booking",
			act:     func() (scheduling.Transition, error) { return scheduling.Approve(direct, approvers, lead, now) },
			wantErr: scheduling.ErrInvalidTransition,
		},
		{
			name: "non approver",
			act: func() (scheduling.Transition, error) {
				return scheduling.Approve(pendingWithEvent(), approvers, stranger, now)
			},
			wantErr: scheduling.ErrNotApprover,
		},
		{
			name: "non approver reject",
			act: func() (scheduling.Transition, error) {
				return scheduling.Reject(pendingWithEvent(), approvers, stranger, "x", now)
			},
			wantErr: scheduling.ErrNotApprover,
		},
		{
			name: "reject without reason",
			act: func() (scheduling.Transition, error) {
				return scheduling.Reject(pendingWithEvent(), approvers, lead, "   ", now)
			},
			wantErr: scheduling.ErrReasonRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := approved.Lifecycle

			next, err := tt.act()

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, scheduling.Transition{}, next)
			assert.Equal(t, before, approved.Lifecycle)
		})
	}
}

func TestCancelAndComplete(t *testing.T) {
	confirmed := scheduling.Initial(false).Lifecycle
	confirmed.CalendarEventID = "evt-2"

	cancelled, err := scheduling.Cancel(confirmed, lead, "sick", now)
	require.NoError(t, err)
	assert.Equal(t, scheduling.StatusCancelled, cancelled.Lifecycle.Status)
	assert.Equal(t, "sick", cancelled.Lifecycle.CancelReason)
	assert.Equal(t, []scheduling.EffectKind{scheduling.EffectDeleteEvent}, kinds(cancelled.Effects))

	_, err = scheduling.Cancel(cancelled.Lifecycle, lead, "", now)
	assert.ErrorIs(t, err, scheduling.ErrInvalidTransition)

	end := now.Add(-time.Hour)
	completed, err := scheduling.Complete(confirmed, end, now)
	require.NoError(t, err)
	assert.Equal(t, scheduling.StatusCompleted, completed.Lifecycle.Status)

	_, err = scheduling.Complete(confirmed, now.Add(time.Hour), now)
	assert.ErrorIs(t, err, scheduling.ErrInvalidTransition)

	_, err = scheduling.Complete(scheduling.Initial(true).Lifecycle, end, now)
	assert.ErrorIs(t, err, scheduling.ErrInvalidTransition)
}

func TestNormalize(t *testing.T) {
	stamp := now

	messy := scheduling.Lifecycle{
		Status:          scheduling.StatusConfirmed,
		ApprovalStatus:  scheduling.ApprovalApproved,
		ApprovedBy:      "a",
		ApprovedAt:      &stamp,
		RejectedBy:      "b",
		RejectedAt:      &stamp,
		RejectionReason: "stale",
	}

	clean := scheduling.Normalize(messy)
	assert.Equal(t, "a", clean.ApprovedBy)
	assert.Empty(t, clean.RejectedBy)
	assert.Nil(t, clean.RejectedAt)
	assert.Empty(t, clean.RejectionReason)

	messy.ApprovalStatus = scheduling.ApprovalRejected
	clean = scheduling.Normalize(messy)
	assert.Empty(t, clean.ApprovedBy)
	assert.Equal(t, "stale", clean.RejectionReason)
}
