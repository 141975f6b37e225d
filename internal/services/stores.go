package services

import (
	"context"

	"studio/internal/domain/models"
)

// BookingStore is the record-store seam the services mutate bookings through.
// repositories.BookingRepository satisfies it; tests inject fakes.
type BookingStore interface {
	Create(ctx context.Context, rec models.BookingRecord) (string, error)
	GetByID(ctx context.Context, id string) (models.BookingRecord, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

// EventStore appends audit rows. Append failures never gate the caller's
// primary operation; they are logged instead.
type EventStore interface {
	Append(ctx context.Context, ev models.BookingEvent) error
}
