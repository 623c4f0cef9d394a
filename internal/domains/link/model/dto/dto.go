package dto

import (
	"errors"
	"scheduler/internal/domains/link/model"
	"scheduler/shared"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"
	gModel "scheduler/shared/model"
	"scheduler/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	errApproversRequired = errors.New("approvers are required when the link requires approval")
	errApproversUnused   = errors.New("approvers must be empty when the link does not require approval")
	errUsageBelowCount   = errors.New("usage_limit cannot be lower than the current usage count")
)

type CreateLinkRequest struct {
	Title                string     `json:"title"                  validate:"required,max=150"`
	Description          string     `json:"description"            validate:"omitempty,max=1000"`
	DurationMinutes      int        `json:"duration_minutes"       validate:"required,min=5,max=480"`
	BufferBeforeMinutes  int        `json:"buffer_before_minutes"  validate:"min=0,max=240"`
	BufferAfterMinutes   int        `json:"buffer_after_minutes"   validate:"min=0,max=240"`
	EnforceBuffer        bool       `json:"enforce_buffer"`
	MaxAdvanceDays       int        `json:"max_advance_days"       validate:"min=0,max=365"`
	MinimumNoticeMinutes int        `json:"minimum_notice_minutes" validate:"min=0"`
	RequiresApproval     bool       `json:"requires_approval"`
	Approvers            []string   `json:"approvers"              validate:"omitempty,dive,required,max=150"`
	UsageLimit           int        `json:"usage_limit"            validate:"min=0"`
	Active               *bool      `json:"active"`
	ExpiresAt            *time.Time `json:"expires_at"`
	Timezone             string     `json:"timezone"               validate:"omitempty,timezone"`
}

func (c *CreateLinkRequest) ToModel(owner, defaultTimezone string) (model.Link, error) {
	approvers := cleanApprovers(c.Approvers)
	if err := checkApprovers(c.RequiresApproval, approvers); err != nil {
		return model.Link{}, failure.BadRequest(err)
	}

	active := true
	if c.Active != nil {
		active = *c.Active
	}

	tz := c.Timezone
	if tz == "" {
		tz = defaultTimezone
	}

	return model.Link{
		ID:                   uuid.NewString(),
		OwnerID:              owner,
		Title:                c.Title,
		Description:          c.Description,
		DurationMinutes:      c.DurationMinutes,
		BufferBeforeMinutes:  c.BufferBeforeMinutes,
		BufferAfterMinutes:   c.BufferAfterMinutes,
		EnforceBuffer:        c.EnforceBuffer,
		MaxAdvanceDays:       c.MaxAdvanceDays,
		MinimumNoticeMinutes: c.MinimumNoticeMinutes,
		RequiresApproval:     c.RequiresApproval,
		Approvers:            pq.StringArray(approvers),
		UsageLimit:           c.UsageLimit,
		Active:               active,
		ExpiresAt:            c.ExpiresAt,
		Timezone:             tz,
		Metadata:             gModel.NewMetadata(owner, timezone.Now()),
	}, nil
}

// cleanApprovers trims entries and drops case-insensitive duplicates, keeping the first occurrence.
func cleanApprovers(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}

	for _, approver := range in {
		approver = strings.TrimSpace(approver)
		key := strings.ToLower(approver)

		if _, ok := seen[key]; ok || approver == "" {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, approver)
	}

	return out
}

func checkApprovers(requiresApproval bool, approvers []string) error {
	switch {
	case requiresApproval && len(approvers) == 0:
		return errApproversRequired
	case !requiresApproval && len(approvers) > 0:
		return errApproversUnused
	}

	return nil
}

type UpdateLinkRequest struct {
	Title                string     `json:"title"                  validate:"omitempty,max=150"`
	Description          *string    `json:"description"            validate:"omitempty,max=1000"`
	DurationMinutes      *int       `json:"duration_minutes"       validate:"omitempty,min=5,max=480"`
	BufferBeforeMinutes  *int       `json:"buffer_before_minutes"  validate:"omitempty,min=0,max=240"`
	BufferAfterMinutes   *int       `json:"buffer_after_minutes"   validate:"omitempty,min=0,max=240"`
	EnforceBuffer        *bool      `json:"enforce_buffer"`
	MaxAdvanceDays       *int       `json:"max_advance_days"       validate:"omitempty,min=0,max=365"`
	MinimumNoticeMinutes *int       `json:"minimum_notice_minutes" validate:"omitempty,min=0"`
	RequiresApproval     *bool      `json:"requires_approval"`
	Approvers            []string   `json:"approvers"              validate:"omitempty,dive,required,max=150"`
	UsageLimit           *int       `json:"usage_limit"            validate:"omitempty,min=0"`
	Active               *bool      `json:"active"`
	ExpiresAt            *time.Time `json:"expires_at"`
	Timezone             string     `json:"timezone"               validate:"omitempty,timezone"`
}

func (u *UpdateLinkRequest) IsEmpty() bool {
	return u.Title == "" && u.Description == nil && u.DurationMinutes == nil && u.BufferBeforeMinutes == nil &&
		u.BufferAfterMinutes == nil && u.EnforceBuffer == nil && u.MaxAdvanceDays == nil &&
		u.MinimumNoticeMinutes == nil && u.RequiresApproval == nil && u.Approvers == nil &&
		u.UsageLimit == nil && u.Active == nil && u.ExpiresAt == nil && u.Timezone == ""
}

// Apply validates the merged link and returns the changed columns.
func (u *UpdateLinkRequest) Apply(current model.Link, user string) (map[string]any, error) {
	requiresApproval := current.RequiresApproval
	if u.RequiresApproval != nil {
		requiresApproval = *u.RequiresApproval
	}

	approvers := []string(current.Approvers)
	if u.Approvers != nil {
		approvers = cleanApprovers(u.Approvers)
	}

	if err := checkApprovers(requiresApproval, approvers); err != nil {
		return nil, failure.BadRequest(err)
	}

	if u.UsageLimit != nil && *u.UsageLimit != 0 && *u.UsageLimit < current.UsageCount {
		return nil, failure.BadRequest(errUsageBelowCount)
	}

	changes := struct {
		Title                string          `db:"title"`
		Description          *string         `db:"description"`
		DurationMinutes      *int            `db:"duration_minutes"`
		BufferBeforeMinutes  *int            `db:"buffer_before_minutes"`
		BufferAfterMinutes   *int            `db:"buffer_after_minutes"`
		EnforceBuffer        *bool           `db:"enforce_buffer"`
		MaxAdvanceDays       *int            `db:"max_advance_days"`
		MinimumNoticeMinutes *int            `db:"minimum_notice_minutes"`
		RequiresApproval     *bool           `db:"requires_approval"`
		Approvers            *pq.StringArray `db:"approvers"`
		UsageLimit           *int            `db:"usage_limit"`
		Active               *bool           `db:"active"`
		ExpiresAt            *time.Time      `db:"expires_at"`
		Timezone             string          `db:"timezone"`
	}{
		Title:                u.Title,
		Description:          u.Description,
		DurationMinutes:      u.DurationMinutes,
		BufferBeforeMinutes:  u.BufferBeforeMinutes,
		BufferAfterMinutes:   u.BufferAfterMinutes,
		EnforceBuffer:        u.EnforceBuffer,
		MaxAdvanceDays:       u.MaxAdvanceDays,
		MinimumNoticeMinutes: u.MinimumNoticeMinutes,
		RequiresApproval:     u.RequiresApproval,
		UsageLimit:           u.UsageLimit,
		Active:               u.Active,
		ExpiresAt:            u.ExpiresAt,
		Timezone:             u.Timezone,
	}

	if u.Approvers != nil || (u.RequiresApproval != nil && !requiresApproval) {
		list := pq.StringArray(approvers)
		changes.Approvers = &list
	}

	return shared.TransformFields(changes, user), nil
}

type LinkResponse struct {
	ID                   string     `json:"id"`
	OwnerID              string     `json:"owner_id"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	DurationMinutes      int        `json:"duration_minutes"`
	BufferBeforeMinutes  int        `json:"buffer_before_minutes"`
	BufferAfterMinutes   int        `json:"buffer_after_minutes"`
	EnforceBuffer        bool       `json:"enforce_buffer"`
	MaxAdvanceDays       int        `json:"max_advance_days"`
	MinimumNoticeMinutes int        `json:"minimum_notice_minutes"`
	RequiresApproval     bool       `json:"requires_approval"`
	Approvers            []string   `json:"approvers"`
	UsageLimit           int        `json:"usage_limit"`
	UsageCount           int        `json:"usage_count"`
	Active               bool       `json:"active"`
	Available            bool       `json:"available"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	Timezone             string     `json:"timezone"`
	gDto.Metadata
}

func (r *LinkResponse) FromModel(m model.Link, now time.Time) {
	r.ID = m.ID
	r.OwnerID = m.OwnerID
	r.Title = m.Title
	r.Description = m.Description
	r.DurationMinutes = m.DurationMinutes
	r.BufferBeforeMinutes = m.BufferBeforeMinutes
	r.BufferAfterMinutes = m.BufferAfterMinutes
	r.EnforceBuffer = m.EnforceBuffer
	r.MaxAdvanceDays = m.MaxAdvanceDays
	r.MinimumNoticeMinutes = m.MinimumNoticeMinutes
	r.RequiresApproval = m.RequiresApproval
	r.Approvers = append([]string{}, m.Approvers...)
	r.UsageLimit = m.UsageLimit
	r.UsageCount = m.UsageCount
	r.Active = m.Active
	r.Available = m.IsAvailable(now)
	r.ExpiresAt = m.ExpiresAt
	r.Timezone = m.Timezone
	r.Metadata.FromModel(m.Metadata)
}

type GetLinksResponse struct {
	Links     []LinkResponse `json:"links"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetLinksResponse) FromModels(models []model.Link, totalData, limit int, now time.Time) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Links = make([]LinkResponse, len(models))
	for i, mod := range models {
		r.Links[i].FromModel(mod, now)
	}
}

// PublicLinkResponse is what a client sees before booking. Approvers and usage stay private.
type PublicLinkResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	DurationMinutes  int    `json:"duration_minutes"`
	RequiresApproval bool   `json:"requires_approval"`
	Timezone         string `json:"timezone"`
	MaxAdvanceDays   int    `json:"max_advance_days"`
}

func (r *PublicLinkResponse) FromModel(m model.Link) {
	r.ID = m.ID
	r.Title = m.Title
	r.Description = m.Description
	r.DurationMinutes = m.DurationMinutes
	r.RequiresApproval = m.RequiresApproval
	r.Timezone = m.Timezone
	r.MaxAdvanceDays = m.MaxAdvanceDays
}
