package caldav

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"scheduler/config"
	"scheduler/infras/calendar"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	productID         = "-//scheduler//EN"
	statusCancelled   = "CANCELLED"
	transpTransparent = "TRANSPARENT"
)

var errMissingURL = errors.New("caldav connection has no calendar url")

type basicAuthTransport struct {
	username  string
	password  string
	userAgent string
	base      http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.username, t.password)
	req.Header.Set("User-Agent", t.userAgent)

	return t.base.RoundTrip(req)
}

type Provider struct {
	userAgent string
	timeout   time.Duration
}

func New(cfg *config.Config) *Provider {
	return &Provider{
		userAgent: cfg.Calendar.CalDAV.UserAgent,
		timeout:   time.Duration(cfg.Scheduling.IntegrationTimeoutSeconds) * time.Second,
	}
}

// client returns a CalDAV client rooted at the server of conn.URL plus the collection path.
func (p *Provider) client(conn calendar.Connection) (*caldav.Client, string, error) {
	if conn.URL == "" {
		return nil, "", errMissingURL
	}

	u, err := url.Parse(conn.URL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid caldav url: %w", err)
	}

	httpClient := &http.Client{
		Timeout: p.timeout,
		Transport: &basicAuthTransport{
			username:  conn.Username,
			password:  conn.Password,
			userAgent: p.userAgent,
			base:      http.DefaultTransport,
		},
	}

	endpoint := (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()

	client, err := caldav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create caldav client: %w", err)
	}

	collection := u.Path
	if !strings.HasSuffix(collection, "/") {
		collection += "/"
	}

	return client, collection, nil
}

func (p *Provider) ListBusy(ctx context.Context, conn calendar.Connection, from, to time.Time) ([]calendar.Period, error) {
	client, collection, err := p.client(conn)
	if err != nil {
		return nil, err
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: ical.CompCalendar,
			Comps: []caldav.CalendarCompRequest{{
				Name:     ical.CompEvent,
				AllProps: true,
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: from.UTC(),
				End:   to.UTC(),
			}},
		},
	}

	objects, err := client.QueryCalendar(ctx, collection, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	var periods []calendar.Period

	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}

		for _, event := range obj.Data.Events() {
			periods = append(periods, busyPeriods(event, from, to)...)
		}
	}

	return periods, nil
}

// busyPeriods returns the occurrences of event that overlap [from, to), expanding RRULE when present.
func busyPeriods(event ical.Event, from, to time.Time) []calendar.Period {
	if status, _ := event.Props.Text(ical.PropStatus); strings.EqualFold(status, statusCancelled) {
		return nil
	}

	if transp, _ := event.Props.Text(ical.PropTransparency); strings.EqualFold(transp, transpTransparent) {
		return nil
	}

	start, err := event.DateTimeStart(time.UTC)
	if err != nil {
		log.Warn().Err(err).Msg("Skipping event without a usable start")

		return nil
	}

	end, err := event.DateTimeEnd(time.UTC)
	if err != nil || !end.After(start) {
		return nil
	}

	length := end.Sub(start)

	set, err := event.RecurrenceSet(time.UTC)
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring unparsable recurrence rule")
	}

	if set == nil {
		if start.Before(to) && end.After(from) {
			return []calendar.Period{{Start: start, End: end}}
		}

		return nil
	}

	var periods []calendar.Period

	for _, occurrence := range set.Between(from.Add(-length), to, true) {
		occurrenceEnd := occurrence.Add(length)
		if occurrence.Before(to) && occurrenceEnd.After(from) {
			periods = append(periods, calendar.Period{Start: occurrence, End: occurrenceEnd})
		}
	}

	return periods
}

// CreateEvent stores the event as <uid>.ics in the collection. The returned id is the object path.
func (p *Provider) CreateEvent(ctx context.Context, conn calendar.Connection, event calendar.Event) (string, error) {
	client, collection, err := p.client(conn)
	if err != nil {
		return "", err
	}

	uid := uuid.NewString()
	objectPath := path.Join(collection, uid+".ics")

	if _, err = client.PutCalendarObject(ctx, objectPath, toICal(uid, event)); err != nil {
		return "", fmt.Errorf("failed to put calendar object: %w", err)
	}

	return objectPath, nil
}

func (p *Provider) ConfirmEvent(ctx context.Context, conn calendar.Connection, eventID string) error {
	client, _, err := p.client(conn)
	if err != nil {
		return err
	}

	obj, err := client.GetCalendarObject(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get calendar object: %w", err)
	}

	for _, child := range obj.Data.Children {
		if child.Name == ical.CompEvent {
			child.Props.SetText(ical.PropStatus, strings.ToUpper(string(calendar.EventConfirmed)))
		}
	}

	if _, err = client.PutCalendarObject(ctx, eventID, obj.Data); err != nil {
		return fmt.Errorf("failed to update calendar object: %w", err)
	}

	return nil
}

func (p *Provider) DeleteEvent(ctx context.Context, conn calendar.Connection, eventID string) error {
	client, _, err := p.client(conn)
	if err != nil {
		return err
	}

	if err = client.RemoveAll(ctx, eventID); err != nil {
		return fmt.Errorf("failed to remove calendar object: %w", err)
	}

	return nil
}

func toICal(uid string, event calendar.Event) *ical.Calendar {
	vevent := ical.NewComponent(ical.CompEvent)
	vevent.Props.SetText(ical.PropUID, uid)
	vevent.Props.SetText(ical.PropSummary, event.Summary)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeStart, event.Start.UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, event.End.UTC())
	vevent.Props.SetText(ical.PropStatus, strings.ToUpper(string(event.Status)))

	if event.Description != "" {
		vevent.Props.SetText(ical.PropDescription, event.Description)
	}

	for _, attendee := range event.Attendees {
		prop := ical.NewProp(ical.PropAttendee)
		prop.SetText("mailto:" + attendee)
		vevent.Props.Add(prop)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, vevent)

	return cal
}
