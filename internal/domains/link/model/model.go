package model

import (
	"scheduler/internal/scheduling"
	"scheduler/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "scheduling_links"
	EntityName = "scheduling_link"

	FieldID               = "id"
	FieldOwnerID          = "owner_id"
	FieldTitle            = "title"
	FieldDescription      = "description"
	FieldDurationMinutes  = "duration_minutes"
	FieldBufferBefore     = "buffer_before_minutes"
	FieldBufferAfter      = "buffer_after_minutes"
	FieldEnforceBuffer    = "enforce_buffer"
	FieldMaxAdvanceDays   = "max_advance_days"
	FieldMinimumNotice    = "minimum_notice_minutes"
	FieldRequiresApproval = "requires_approval"
	FieldApprovers        = "approvers"
	FieldUsageLimit       = "usage_limit"
	FieldUsageCount       = "usage_count"
	FieldActive           = "active"
	FieldExpiresAt        = "expires_at"
	FieldTimezone         = "timezone"
)

// Link is a bookable page an owner shares with clients. A zero UsageLimit means unlimited.
type Link struct {
	ID                   string         `db:"id"`
	OwnerID              string         `db:"owner_id"`
	Title                string         `db:"title"`
	Description          string         `db:"description"`
	DurationMinutes      int            `db:"duration_minutes"`
	BufferBeforeMinutes  int            `db:"buffer_before_minutes"`
	BufferAfterMinutes   int            `db:"buffer_after_minutes"`
	EnforceBuffer        bool           `db:"enforce_buffer"`
	MaxAdvanceDays       int            `db:"max_advance_days"`
	MinimumNoticeMinutes int            `db:"minimum_notice_minutes"`
	RequiresApproval     bool           `db:"requires_approval"`
	Approvers            pq.StringArray `db:"approvers"`
	UsageLimit           int            `db:"usage_limit"`
	UsageCount           int            `db:"usage_count"`
	Active               bool           `db:"active"`
	ExpiresAt            *time.Time     `db:"expires_at"`
	Timezone             string         `db:"timezone"`
	model.Metadata
}

// IsAvailable is active, not expired and not over its usage limit.
func (l Link) IsAvailable(now time.Time) bool {
	if !l.Active {
		return false
	}

	if l.ExpiresAt != nil && !now.Before(*l.ExpiresAt) {
		return false
	}

	return l.UsageLimit == 0 || l.UsageCount < l.UsageLimit
}

func (l Link) Duration() time.Duration {
	return time.Duration(l.DurationMinutes) * time.Minute
}

func (l Link) Buffer() scheduling.Buffer {
	return scheduling.Buffer{
		Before: time.Duration(l.BufferBeforeMinutes) * time.Minute,
		After:  time.Duration(l.BufferAfterMinutes) * time.Minute,
	}
}

// BookingBuffer is the buffer enforced when a booking is written.
func (l Link) BookingBuffer() scheduling.Buffer {
	if !l.EnforceBuffer {
		return scheduling.Buffer{}
	}

	return l.Buffer()
}

func (l Link) MinimumNotice() time.Duration {
	return time.Duration(l.MinimumNoticeMinutes) * time.Minute
}
