// Package calendar defines the provider contract used to read busy time from
// and write booking events to an owner's external calendar.
package calendar

//go:generate go run go.uber.org/mock/mockgen -source=./calendar.go -destination=./mocks/calendar_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"
)

const (
	ProviderGoogle = "google"
	ProviderCalDAV = "caldav"
)

var ErrUnsupportedProvider = errors.New("unsupported calendar provider")

type EventStatus string

const (
	EventTentative EventStatus = "tentative"
	EventConfirmed EventStatus = "confirmed"
)

// Connection carries the credentials of a single owner calendar.
type Connection struct {
	Provider     string
	CalendarID   string
	RefreshToken string
	URL          string
	Username     string
	Password     string
}

type Period struct {
	Start time.Time
	End   time.Time
}

type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Timezone    string
	Attendees   []string
	Status      EventStatus
}

type Provider interface {
	ListBusy(ctx context.Context, conn Connection, from, to time.Time) ([]Period, error)
	CreateEvent(ctx context.Context, conn Connection, event Event) (string, error)
	ConfirmEvent(ctx context.Context, conn Connection, eventID string) error
	DeleteEvent(ctx context.Context, conn Connection, eventID string) error
}

// Registry routes calls to the provider named by the connection.
type Registry map[string]Provider

func (r Registry) lookup(conn Connection) (Provider, error) {
	provider, ok := r[conn.Provider]
	if !ok {
		return nil, ErrUnsupportedProvider
	}

	return provider, nil
}

func (r Registry) ListBusy(ctx context.Context, conn Connection, from, to time.Time) ([]Period, error) {
	provider, err := r.lookup(conn)
	if err != nil {
		return nil, err
	}

	return provider.ListBusy(ctx, conn, from, to)
}

func (r Registry) CreateEvent(ctx context.Context, conn Connection, event Event) (string, error) {
	provider, err := r.lookup(conn)
	if err != nil {
		return "", err
	}

	return provider.CreateEvent(ctx, conn, event)
}

func (r Registry) ConfirmEvent(ctx context.Context, conn Connection, eventID string) error {
	provider, err := r.lookup(conn)
	if err != nil {
		return err
	}

	return provider.ConfirmEvent(ctx, conn, eventID)
}

func (r Registry) DeleteEvent(ctx context.Context, conn Connection, eventID string) error {
	provider, err := r.lookup(conn)
	if err != nil {
		return err
	}

	return provider.DeleteEvent(ctx, conn, eventID)
}
