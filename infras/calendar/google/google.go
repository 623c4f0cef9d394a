package google

import (
	"context"
	"errors"
	"fmt"
	"scheduler/config"
	"scheduler/infras/calendar"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const primaryCalendar = "primary"

var errMissingRefreshToken = errors.New("google connection has no refresh token")

type Provider struct {
	oauth *oauth2.Config
}

func New(cfg *config.Config) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.Calendar.Google.ClientID,
			ClientSecret: cfg.Calendar.Google.ClientSecret,
			Scopes:       []string{gcal.CalendarScope},
			Endpoint:     googleOAuth.Endpoint,
		},
	}
}

func (p *Provider) service(ctx context.Context, conn calendar.Connection) (*gcal.Service, error) {
	if conn.RefreshToken == "" {
		return nil, errMissingRefreshToken
	}

	tokenSource := p.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: conn.RefreshToken})

	svc, err := gcal.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return svc, nil
}

func calendarID(conn calendar.Connection) string {
	if conn.CalendarID == "" {
		return primaryCalendar
	}

	return conn.CalendarID
}

func (p *Provider) ListBusy(ctx context.Context, conn calendar.Connection, from, to time.Time) ([]calendar.Period, error) {
	svc, err := p.service(ctx, conn)
	if err != nil {
		return nil, err
	}

	id := calendarID(conn)

	resp, err := svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: from.UTC().Format(time.RFC3339),
		TimeMax: to.UTC().Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: id}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query free/busy: %w", err)
	}

	busy, ok := resp.Calendars[id]
	if !ok {
		return nil, nil
	}

	if len(busy.Errors) > 0 {
		return nil, fmt.Errorf("free/busy query failed for %s: %s", id, busy.Errors[0].Reason)
	}

	periods := make([]calendar.Period, 0, len(busy.Busy))

	for _, tp := range busy.Busy {
		start, errStart := time.Parse(time.RFC3339, tp.Start)
		end, errEnd := time.Parse(time.RFC3339, tp.End)

		if errStart != nil || errEnd != nil {
			log.Warn().Str("start", tp.Start).Str("end", tp.End).Msg("Skipping unparsable busy period")

			continue
		}

		periods = append(periods, calendar.Period{Start: start, End: end})
	}

	return periods, nil
}

func (p *Provider) CreateEvent(ctx context.Context, conn calendar.Connection, event calendar.Event) (string, error) {
	svc, err := p.service(ctx, conn)
	if err != nil {
		return "", err
	}

	attendees := make([]*gcal.EventAttendee, 0, len(event.Attendees))
	for _, email := range event.Attendees {
		attendees = append(attendees, &gcal.EventAttendee{Email: email})
	}

	created, err := svc.Events.Insert(calendarID(conn), &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Status:      string(event.Status),
		Start:       &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339), TimeZone: event.Timezone},
		End:         &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339), TimeZone: event.Timezone},
		Attendees:   attendees,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}

	return created.Id, nil
}

func (p *Provider) ConfirmEvent(ctx context.Context, conn calendar.Connection, eventID string) error {
	svc, err := p.service(ctx, conn)
	if err != nil {
		return err
	}

	_, err = svc.Events.Patch(calendarID(conn), eventID, &gcal.Event{
		Status: string(calendar.EventConfirmed),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to confirm event: %w", err)
	}

	return nil
}

func (p *Provider) DeleteEvent(ctx context.Context, conn calendar.Connection, eventID string) error {
	svc, err := p.service(ctx, conn)
	if err != nil {
		return err
	}

	if err = svc.Events.Delete(calendarID(conn), eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}
