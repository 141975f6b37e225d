package services

import (
	"context"
	"database/sql"
	"errors"
	"html"
	"strings"

	"studio/internal/auth"
	"studio/internal/domain"
	"studio/internal/domain/models"
	"studio/internal/mailer"
	"studio/internal/utils"
)

// mutableFields is the allow-list of booking columns an admin may change.
// Keys outside it are dropped silently; the request is not rejected for extras.
var mutableFields = []string{"status", "appointment_date", "preferred_artist", "message"}

// AdminService authorizes and applies admin mutations to booking records, and
// sends admin-composed customer emails. Every operation re-derives authority
// from the signed credential; nothing is held server-side.
type AdminService struct {
	Secret string
	From   string

	Bookings BookingStore
	Events   EventStore
	Sender   mailer.Sender

	RequestID string
}

// Update applies an allow-list-filtered change-set to one booking and appends
// a booking_updated audit event. The audit write is best-effort.
func (s AdminService) Update(ctx context.Context, token, bookingID string, changes map[string]any) error {
	if !auth.VerifyToken(token, s.Secret) {
		return domain.ErrUnauthorized
	}

	bookingID = utils.TrimOrEmpty(bookingID)
	if bookingID == "" {
		return domain.BadRequestError{Reason: "missing id"}
	}
	if len(changes) == 0 {
		return domain.BadRequestError{Reason: "missing changes"}
	}

	filtered := filterChanges(changes)
	if len(filtered) == 0 {
		return domain.BadRequestError{Reason: "no valid fields"}
	}

	if raw, ok := filtered["status"]; ok {
		status, _ := raw.(string)
		if !models.ValidStatus(status) {
			return domain.ValidationError{Field: "status", Msg: "unknown status value"}
		}
	}

	if err := s.Bookings.UpdateFields(ctx, bookingID, filtered); err != nil {
		return domain.StoreError{Err: err}
	}

	s.appendEvent(ctx, models.BookingEvent{
		EventName: "booking_updated",
		BookingID: bookingID,
		Source:    "admin_dashboard",
		Metadata:  map[string]any{"id": bookingID, "changes": filtered},
	})
	return nil
}

// ComposeAndSend emails the customer behind a booking with admin-supplied
// subject and body, then appends a manual_email audit event.
func (s AdminService) ComposeAndSend(ctx context.Context, token, bookingID, subject, body string) error {
	if !auth.VerifyToken(token, s.Secret) {
		return domain.ErrUnauthorized
	}

	bookingID = utils.TrimOrEmpty(bookingID)
	if bookingID == "" {
		return domain.BadRequestError{Reason: "missing id"}
	}
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return domain.BadRequestError{Reason: "missing subject or message"}
	}

	rec, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "booking"}
		}
		return domain.StoreError{Err: err}
	}
	to := strings.TrimSpace(rec.Email)
	if to == "" {
		return domain.NotFoundError{Resource: "booking email"}
	}

	msg := mailer.Message{
		From:    s.From,
		To:      to,
		Subject: subject,
		Text:    body,
		HTML:    "<p>" + strings.ReplaceAll(html.EscapeString(body), "\n", "<br>") + "</p>",
	}
	if _, err := s.Sender.Send(ctx, msg); err != nil {
		return domain.SendError{Err: err}
	}

	s.appendEvent(ctx, models.BookingEvent{
		EventName: "manual_email",
		BookingID: bookingID,
		Source:    "admin_dashboard",
		Metadata:  map[string]any{"id": bookingID, "subject": subject},
	})
	return nil
}

func (s AdminService) appendEvent(ctx context.Context, ev models.BookingEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Append(ctx, ev); err != nil {
		utils.LogEvent(s.RequestID, "admin", "audit_append_failed", ev.EventName+": "+err.Error())
	}
}

func filterChanges(changes map[string]any) map[string]any {
	filtered := map[string]any{}
	for _, key := range mutableFields {
		if val, ok := changes[key]; ok {
			filtered[key] = val
		}
	}
	return filtered
}
