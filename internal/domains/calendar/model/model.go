package model

import (
	"scheduler/infras/calendar"
	"scheduler/shared/model"
)

const (
	TableName  = "calendar_connections"
	EntityName = "calendar_connection"

	FieldID           = "id"
	FieldOwnerID      = "owner_id"
	FieldProvider     = "provider"
	FieldCalendarID   = "calendar_id"
	FieldRefreshToken = "refresh_token"
	FieldURL          = "url"
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldActive       = "active"
)

// Connection holds the credentials of an owner's external calendar. An owner has at most one.
type Connection struct {
	ID           string `db:"id"`
	OwnerID      string `db:"owner_id"`
	Provider     string `db:"provider"`
	CalendarID   string `db:"calendar_id"`
	RefreshToken string `db:"refresh_token"`
	URL          string `db:"url"`
	Username     string `db:"username"`
	Password     string `db:"password"`
	Active       bool   `db:"active"`
	model.Metadata
}

func (c Connection) ToProvider() calendar.Connection {
	return calendar.Connection{
		Provider:     c.Provider,
		CalendarID:   c.CalendarID,
		RefreshToken: c.RefreshToken,
		URL:          c.URL,
		Username:     c.Username,
		Password:     c.Password,
	}
}
