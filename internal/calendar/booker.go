// Package calendar books confirmed meetings on Google Calendar and invites
// the client. The chosen slot arrives as the human-readable label generated
// at submission time; this adapter re-derives the concrete timestamp with the
// shared schedule grammar before talking to the API.
package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
	"github.com/ZdravkoRistic/qtotal/internal/schedule"
)

type Config struct {
	// CalendarID defaults to "primary".
	CalendarID string
	// TimeZone defaults to schedule.DefaultTimeZone.
	TimeZone string
	// AdminEmail is invited to every meeting alongside the client.
	AdminEmail string
}

func (c Config) withDefaults() Config {
	out := c
	if out.CalendarID == "" {
		out.CalendarID = "primary"
	}
	if out.TimeZone == "" {
		out.TimeZone = schedule.DefaultTimeZone
	}
	return out
}

// GoogleBooker implements inquiry.Booker against the Calendar API. The
// credential provider is injected so tests and deployments control where
// OAuth material comes from.
type GoogleBooker struct {
	creds CredentialProvider
	cfg   Config
	loc   *time.Location
	clock func() time.Time
}

func NewGoogleBooker(creds CredentialProvider, cfg Config) *GoogleBooker {
	cfg = cfg.withDefaults()
	return &GoogleBooker{
		creds: creds,
		cfg:   cfg,
		loc:   schedule.Location(cfg.TimeZone),
		clock: time.Now,
	}
}

func (b *GoogleBooker) Book(ctx context.Context, req inquiry.BookingRequest) (inquiry.Booking, error) {
	now := b.clock().In(b.loc)
	start, err := schedule.ParseLabel(req.MeetingTime, now, b.loc)
	if err != nil {
		return inquiry.Booking{}, fmt.Errorf("calendar: %w", err)
	}
	end := start.Add(schedule.MeetingDuration)

	if b.creds == nil {
		return inquiry.Booking{}, fmt.Errorf("calendar: credentials not configured")
	}
	httpClient, err := b.creds.Client(ctx)
	if err != nil {
		return inquiry.Booking{}, fmt.Errorf("calendar: credentials: %w", err)
	}
	svc, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return inquiry.Booking{}, fmt.Errorf("calendar: service init: %w", err)
	}

	attendees := []*gcal.EventAttendee{
		{Email: req.ClientEmail, ResponseStatus: "accepted"},
	}
	if b.cfg.AdminEmail != "" {
		attendees = append(attendees, &gcal.EventAttendee{Email: b.cfg.AdminEmail})
	}

	event := &gcal.Event{
		Summary:     fmt.Sprintf("Sastanak sa %s - Q-Total", req.ClientName),
		Description: fmt.Sprintf("Zakazan sastanak sa klijentom %s\nEmail: %s\nInquiry ID: %s", req.ClientName, req.ClientEmail, req.InquiryID),
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: b.cfg.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: b.cfg.TimeZone,
		},
		Attendees: attendees,
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := svc.Events.Insert(b.cfg.CalendarID, event).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return inquiry.Booking{}, fmt.Errorf("calendar: event insert: %w", err)
	}

	return inquiry.Booking{
		EventID:   created.Id,
		EventLink: created.HtmlLink,
		StartTime: start,
		EndTime:   end,
	}, nil
}
