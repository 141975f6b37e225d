package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"studio/internal/domain"
	"studio/internal/domain/models"
	"studio/internal/mailer"
)

func intakeFixture() (IntakeService, *fakeSender, *fakeBookingStore, *fakeEventStore) {
	sender := &fakeSender{}
	bookings := &fakeBookingStore{}
	events := &fakeEventStore{}
	svc := IntakeService{
		Enabled:   true,
		APIKey:    "key-123",
		From:      "bookings@studio.example",
		ShopInbox: "inbox@studio.example",
		Sender:    sender,
		Bookings:  bookings,
		Events:    events,
	}
	return svc, sender, bookings, events
}

func sampleRequest() models.BookingRequest {
	return models.BookingRequest{
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Message:         "small rose, forearm",
		AppointmentDate: "2025-08-01",
	}
}

func TestSubmitHappyPath(t *testing.T) {
	svc, sender, bookings, events := intakeFixture()

	ref, err := svc.Submit(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if ref != "msg-1" {
		t.Fatalf("expected transport message id as reference, got %q", ref)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "inbox@studio.example" {
		t.Errorf("notification should go to the shop inbox, got %q", msg.To)
	}
	if msg.ReplyTo != "jane@example.com" {
		t.Errorf("reply-to should be the requester, got %q", msg.ReplyTo)
	}
	if !strings.Contains(msg.Subject, "Jane Doe") || !strings.Contains(msg.Subject, "Unspecified") {
		t.Errorf("unexpected subject %q", msg.Subject)
	}

	if len(bookings.created) != 1 {
		t.Fatalf("expected one persisted record, got %d", len(bookings.created))
	}
	rec := bookings.created[0]
	if rec.Status != models.StatusPending {
		t.Errorf("new record should be Pending, got %q", rec.Status)
	}
	if rec.CustomerType != "New" {
		t.Errorf("customer_type should default to New, got %q", rec.CustomerType)
	}

	if len(events.events) != 1 || events.events[0].EventName != "booking_submitted" {
		t.Fatalf("expected one booking_submitted event, got %+v", events.events)
	}
	if events.events[0].Source != "booking_form" {
		t.Errorf("unexpected event source %q", events.events[0].Source)
	}
	if events.events[0].Metadata["reference"] != "msg-1" {
		t.Errorf("event metadata should carry the reference, got %v", events.events[0].Metadata)
	}
}

func TestSubmitServiceDisabled(t *testing.T) {
	svc, sender, _, _ := intakeFixture()
	svc.Enabled = false

	_, err := svc.Submit(context.Background(), sampleRequest())
	if !errors.Is(err, domain.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("disabled service must send nothing, sent %d", len(sender.sent))
	}
}

func TestSubmitMisconfiguredTransport(t *testing.T) {
	for name, mutate := range map[string]func(*IntakeService){
		"missing api key": func(s *IntakeService) { s.APIKey = " " },
		"bad from":        func(s *IntakeService) { s.From = "not-an-address" },
	} {
		t.Run(name, func(t *testing.T) {
			svc, sender, _, _ := intakeFixture()
			mutate(&svc)

			_, err := svc.Submit(context.Background(), sampleRequest())
			if !errors.Is(err, domain.ErrMisconfiguredTransport) {
				t.Fatalf("expected ErrMisconfiguredTransport, got %v", err)
			}
			if len(sender.sent) != 0 {
				t.Fatalf("misconfigured transport must send nothing")
			}
		})
	}
}

func TestSubmitInvalidPayload(t *testing.T) {
	svc, sender, _, _ := intakeFixture()

	req := sampleRequest()
	req.Email = "a@b"
	_, err := svc.Submit(context.Background(), req)

	var v domain.ValidationError
	if !errors.As(err, &v) || v.Field != "email" {
		t.Fatalf("expected validation error on email, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("invalid payload must send nothing")
	}
}

func TestSubmitGateOrder(t *testing.T) {
	// Disabled flag wins over transport config, which wins over validation.
	svc, _, _, _ := intakeFixture()
	svc.Enabled = false
	svc.APIKey = ""

	_, err := svc.Submit(context.Background(), models.BookingRequest{})
	if !errors.Is(err, domain.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled first, got %v", err)
	}

	svc2, _, _, _ := intakeFixture()
	svc2.APIKey = ""
	_, err = svc2.Submit(context.Background(), models.BookingRequest{})
	if !errors.Is(err, domain.ErrMisconfiguredTransport) {
		t.Fatalf("expected ErrMisconfiguredTransport before validation, got %v", err)
	}
}

func TestSubmitRetriesOnceOnUnsupportedReplyField(t *testing.T) {
	svc, sender, _, _ := intakeFixture()
	sender.errs = []error{mailer.UnsupportedReplyFieldError{Field: "reply_to"}}

	ref, err := svc.Submit(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Submit should succeed on retry, got %v", err)
	}
	if ref == "" {
		t.Fatalf("expected reference from the retry")
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected exactly two attempts, got %d", len(sender.sent))
	}
	if sender.sent[0].UseLegacyReplyKey {
		t.Errorf("first attempt should use the preferred key")
	}
	if !sender.sent[1].UseLegacyReplyKey {
		t.Errorf("retry should use the legacy key")
	}
}

func TestSubmitRetriesOnReplySniff(t *testing.T) {
	// Fallback sniff against free-text provider errors the adapter cannot classify.
	svc, sender, _, _ := intakeFixture()
	sender.errs = []error{errors.New("invalid field: replyTo not accepted")}

	if _, err := svc.Submit(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Submit should succeed on retry, got %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected two attempts, got %d", len(sender.sent))
	}
}

func TestSubmitDoesNotRetryOtherErrors(t *testing.T) {
	svc, sender, bookings, _ := intakeFixture()
	sender.errs = []error{errors.New("rate limited")}

	_, err := svc.Submit(context.Background(), sampleRequest())
	if !domain.IsSendFailed(err) {
		t.Fatalf("expected SendError, got %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("unrelated failures must not be retried, got %d attempts", len(sender.sent))
	}
	if len(bookings.created) != 0 {
		t.Fatalf("failed send must not persist a record")
	}
}

func TestSubmitRetryFailureIsSendFailed(t *testing.T) {
	svc, sender, _, _ := intakeFixture()
	sender.errs = []error{
		mailer.UnsupportedReplyFieldError{Field: "reply_to"},
		errors.New("still broken"),
	}

	_, err := svc.Submit(context.Background(), sampleRequest())
	if !domain.IsSendFailed(err) {
		t.Fatalf("expected SendError after failed retry, got %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected exactly two attempts, never more, got %d", len(sender.sent))
	}
}

func TestSubmitHTMLEscapesFreeText(t *testing.T) {
	svc, sender, _, _ := intakeFixture()

	req := sampleRequest()
	req.Message = `<script>alert("x")</script>`
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	html := sender.sent[0].HTML
	if strings.Contains(html, "<script>") {
		t.Fatalf("HTML body must escape user markup: %s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatalf("expected escaped markup in HTML body: %s", html)
	}
}

func TestSubmitImageRendering(t *testing.T) {
	req := sampleRequest()
	req.Images = []string{"key1.jpg", "key2.png"}

	svc, sender, _, _ := intakeFixture()
	svc.BlobBaseURL = "https://cdn.studio.example"
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !strings.Contains(sender.sent[0].HTML, `href="https://cdn.studio.example/key1.jpg"`) {
		t.Errorf("expected image links when base URL is set: %s", sender.sent[0].HTML)
	}

	svc2, sender2, _, _ := intakeFixture()
	if _, err := svc2.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if strings.Contains(sender2.sent[0].HTML, "href=") {
		t.Errorf("expected plain keys without base URL: %s", sender2.sent[0].HTML)
	}
	if !strings.Contains(sender2.sent[0].Text, "key1.jpg, key2.png") {
		t.Errorf("expected comma-joined keys in text body: %s", sender2.sent[0].Text)
	}
}

func TestSubmitSubjectFirstAvailable(t *testing.T) {
	svc, sender, _, _ := intakeFixture()

	req := sampleRequest()
	req.PreferredArtist = "Mika"
	req.FirstAvailable = true
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !strings.Contains(sender.sent[0].Subject, "First available") {
		t.Errorf("subject should show First available, got %q", sender.sent[0].Subject)
	}
}
