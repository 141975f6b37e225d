package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"studio/internal/domain"
	"studio/internal/domain/models"
	"studio/internal/mailer"
	"studio/internal/utils"
)

// IntakeService runs the booking submission pipeline: gate, validate, format,
// notify the shop inbox, then best-effort persist the record and audit event.
type IntakeService struct {
	Enabled     bool
	APIKey      string
	From        string
	ShopInbox   string
	BlobBaseURL string

	Sender   mailer.Sender
	Bookings BookingStore
	Events   EventStore

	RequestID string
}

// Submit validates and dispatches one booking request. The returned reference
// is the transport message id; it has no meaning beyond proof-of-send.
func (s IntakeService) Submit(ctx context.Context, req models.BookingRequest) (string, error) {
	if !s.Enabled {
		return "", domain.ErrServiceDisabled
	}

	if strings.TrimSpace(s.APIKey) == "" {
		utils.LogEvent(s.RequestID, "intake", "transport_misconfigured", "mail API key missing")
		return "", domain.ErrMisconfiguredTransport
	}
	if !domain.ValidEmail(s.From) {
		utils.LogEvent(s.RequestID, "intake", "transport_misconfigured", "invalid from address format")
		return "", domain.ErrMisconfiguredTransport
	}

	if err := domain.ValidateBooking(req); err != nil {
		return "", err
	}

	subject := fmt.Sprintf("New booking request from %s (%s)", utils.NormalizeSpace(req.Name), req.DisplayArtist())
	msg := mailer.Message{
		From:    s.From,
		To:      s.ShopInbox,
		Subject: subject,
		HTML:    s.formatHTML(req),
		Text:    s.formatText(req),
		ReplyTo: strings.TrimSpace(req.Email),
	}

	id, err := s.Sender.Send(ctx, msg)
	if err != nil && shouldRetryReplyField(err) {
		// One retry with the alternate reply-to key, nothing beyond that.
		utils.LogEvent(s.RequestID, "intake", "retry_reply_field", "transport rejected reply-to key, retrying with legacy key")
		msg.UseLegacyReplyKey = true
		id, err = s.Sender.Send(ctx, msg)
	}
	if err != nil {
		return "", domain.SendError{Err: err}
	}

	s.persist(ctx, req, id)
	return id, nil
}

// shouldRetryReplyField prefers the adapter's structured signal; the free-text
// sniff is kept for provider error payloads the adapter cannot classify.
func shouldRetryReplyField(err error) bool {
	if mailer.IsUnsupportedReplyField(err) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "reply")
}

// persist writes the BookingRecord and booking_submitted event. Best-effort: a
// delivered notification is never turned into a user-facing error here.
func (s IntakeService) persist(ctx context.Context, req models.BookingRequest, reference string) {
	if s.Bookings == nil {
		return
	}

	rec := models.BookingRecord{
		BookingRequest: req,
		Status:         models.StatusPending,
	}
	if strings.TrimSpace(rec.CustomerType) == "" {
		rec.CustomerType = "New"
	}

	id, err := s.Bookings.Create(ctx, rec)
	if err != nil {
		utils.LogEvent(s.RequestID, "intake", "record_persist_failed", err.Error())
		return
	}

	if s.Events == nil {
		return
	}
	ev := models.BookingEvent{
		EventName: "booking_submitted",
		BookingID: id,
		Source:    "booking_form",
		Metadata:  map[string]any{"reference": reference},
	}
	if err := s.Events.Append(ctx, ev); err != nil {
		utils.LogEvent(s.RequestID, "intake", "audit_append_failed", err.Error())
	}
}

func (s IntakeService) formatText(req models.BookingRequest) string {
	var b strings.Builder
	line := func(label, val string) {
		fmt.Fprintf(&b, "%s: %s\n", label, orDash(val))
	}

	line("Name", req.Name)
	line("Email", req.Email)
	line("Phone", req.Phone)
	line("Placement", req.Placement)
	line("Appointment date", formatDates(req))
	line("Preferred artist", req.DisplayArtist())
	line("Preferred style", strings.Join(req.PreferredStyle, ", "))
	line("Customer type", req.CustomerType)
	b.WriteString("Message:\n")
	b.WriteString(req.Message)
	b.WriteString("\n")

	if len(req.Images) > 0 {
		b.WriteString("Images: ")
		b.WriteString(strings.Join(s.imageRefs(req.Images), ", "))
		b.WriteString("\n")
	}
	return b.String()
}

func (s IntakeService) formatHTML(req models.BookingRequest) string {
	var b strings.Builder
	row := func(label, val string) {
		fmt.Fprintf(&b, "<p><strong>%s:</strong> %s</p>", label, html.EscapeString(orDash(val)))
	}

	b.WriteString("<h2>New booking request</h2>")
	row("Name", req.Name)
	row("Email", req.Email)
	row("Phone", req.Phone)
	row("Placement", req.Placement)
	row("Appointment date", formatDates(req))
	row("Preferred artist", req.DisplayArtist())
	row("Preferred style", strings.Join(req.PreferredStyle, ", "))
	row("Customer type", req.CustomerType)
	fmt.Fprintf(&b, "<p><strong>Message:</strong></p><p>%s</p>", html.EscapeString(req.Message))

	if len(req.Images) > 0 {
		b.WriteString("<p><strong>Images:</strong> ")
		if s.BlobBaseURL != "" {
			links := make([]string, 0, len(req.Images))
			for _, key := range req.Images {
				url := strings.TrimRight(s.BlobBaseURL, "/") + "/" + key
				links = append(links, fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(url), html.EscapeString(key)))
			}
			b.WriteString(strings.Join(links, ", "))
		} else {
			b.WriteString(html.EscapeString(strings.Join(req.Images, ", ")))
		}
		b.WriteString("</p>")
	}
	return b.String()
}

// imageRefs renders storage keys as public URLs when a base URL is configured.
func (s IntakeService) imageRefs(keys []string) []string {
	if s.BlobBaseURL == "" {
		return keys
	}
	base := strings.TrimRight(s.BlobBaseURL, "/")
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, base+"/"+key)
	}
	return out
}

func formatDates(req models.BookingRequest) string {
	if strings.TrimSpace(req.AppointmentEnd) != "" {
		return req.AppointmentDate + " to " + req.AppointmentEnd
	}
	return req.AppointmentDate
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
