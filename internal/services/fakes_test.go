package services

import (
	"context"
	"database/sql"

	"studio/internal/domain/models"
	"studio/internal/mailer"
)

// fakeSender scripts send outcomes and records every attempted message.
type fakeSender struct {
	sent []mailer.Message
	errs []error // consumed per call; nil entry means success
	id   string
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) (string, error) {
	f.sent = append(f.sent, msg)
	var err error
	if len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	if err != nil {
		return "", err
	}
	if f.id != "" {
		return f.id, nil
	}
	return "msg-1", nil
}

type fakeBookingStore struct {
	created   []models.BookingRecord
	updates   []map[string]any
	updatedID string
	updateErr error
	getRec    models.BookingRecord
	getErr    error
}

func (f *fakeBookingStore) Create(_ context.Context, rec models.BookingRecord) (string, error) {
	f.created = append(f.created, rec)
	return "b-created", nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id string) (models.BookingRecord, error) {
	if f.getErr != nil {
		return models.BookingRecord{}, f.getErr
	}
	if f.getRec.ID == "" {
		return models.BookingRecord{}, sql.ErrNoRows
	}
	return f.getRec, nil
}

func (f *fakeBookingStore) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updates = append(f.updates, fields)
	return nil
}

type fakeEventStore struct {
	events []models.BookingEvent
	err    error
}

func (f *fakeEventStore) Append(_ context.Context, ev models.BookingEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}
