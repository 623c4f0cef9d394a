package dto

import (
	"errors"
	"scheduler/infras/calendar"
	"scheduler/internal/domains/calendar/model"
	"scheduler/shared"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"
	gModel "scheduler/shared/model"
	"scheduler/shared/timezone"

	"github.com/google/uuid"
)

var (
	errRefreshTokenRequired = errors.New("refresh_token is required for google calendars")
	errURLRequired          = errors.New("url is required for caldav calendars")
)

type ConnectRequest struct {
	Provider     string `json:"provider"      validate:"required,oneof=google caldav"`
	CalendarID   string `json:"calendar_id"   validate:"omitempty,max=255"`
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
	URL          string `json:"url"           validate:"omitempty,url"`
	Username     string `json:"username"      validate:"omitempty,max=255"`
	Password     string `json:"password"      validate:"omitempty"`
}

func (c *ConnectRequest) check() error {
	switch {
	case c.Provider == calendar.ProviderGoogle && c.RefreshToken == "":
		return failure.BadRequest(errRefreshTokenRequired)
	case c.Provider == calendar.ProviderCalDAV && c.URL == "":
		return failure.BadRequest(errURLRequired)
	}

	return nil
}

func (c *ConnectRequest) ToModel(owner string) (model.Connection, error) {
	if err := c.check(); err != nil {
		return model.Connection{}, err
	}

	return model.Connection{
		ID:           uuid.NewString(),
		OwnerID:      owner,
		Provider:     c.Provider,
		CalendarID:   c.CalendarID,
		RefreshToken: c.RefreshToken,
		URL:          c.URL,
		Username:     c.Username,
		Password:     c.Password,
		Active:       true,
		Metadata:     gModel.NewMetadata(owner, timezone.Now()),
	}, nil
}

// Changes replaces every credential column of an existing connection.
func (c *ConnectRequest) Changes(owner string) (map[string]any, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	changes := shared.TransformFields(struct {
		Active bool `db:"active"`
	}{Active: true}, owner)

	changes[model.FieldProvider] = c.Provider
	changes[model.FieldCalendarID] = c.CalendarID
	changes[model.FieldRefreshToken] = c.RefreshToken
	changes[model.FieldURL] = c.URL
	changes[model.FieldUsername] = c.Username
	changes[model.FieldPassword] = c.Password

	return changes, nil
}

// ConnectionResponse never carries credentials.
type ConnectionResponse struct {
	ID         string `json:"id"`
	Provider   string `json:"provider"`
	CalendarID string `json:"calendar_id,omitempty"`
	URL        string `json:"url,omitempty"`
	Active     bool   `json:"active"`
	gDto.Metadata
}

func (r *ConnectionResponse) FromModel(m model.Connection) {
	r.ID = m.ID
	r.Provider = m.Provider
	r.CalendarID = m.CalendarID
	r.URL = m.URL
	r.Active = m.Active
	r.Metadata.FromModel(m.Metadata)
}
