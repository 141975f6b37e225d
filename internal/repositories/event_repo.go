package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"studio/internal/config"
	"studio/internal/domain/models"
)

// EventRepository appends to the booking_events audit log. Rows are never
// updated or deleted.
type EventRepository struct {
	DB *sql.DB
}

func (r EventRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

// Append writes one audit row.
func (r EventRepository) Append(ctx context.Context, ev models.BookingEvent) error {
	db := r.db()
	if db == nil {
		return sql.ErrConnDone
	}

	var metadata any
	if len(ev.Metadata) > 0 {
		raw, err := json.Marshal(ev.Metadata)
		if err != nil {
			return err
		}
		metadata = string(raw)
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO booking_events (event_name, booking_id, source, metadata, created_at)
		VALUES (?, NULLIF(?, ''), ?, ?, NOW())`,
		ev.EventName, ev.BookingID, ev.Source, metadata,
	)
	return err
}

// ListByBooking returns the audit trail for one booking, oldest first.
func (r EventRepository) ListByBooking(ctx context.Context, bookingID string) ([]models.BookingEvent, error) {
	db := r.db()
	if db == nil {
		return nil, sql.ErrConnDone
	}

	rows, err := db.QueryContext(ctx, `
		SELECT event_name, COALESCE(booking_id, ''), source, COALESCE(metadata, ''), created_at
		FROM booking_events
		WHERE booking_id = ?
		ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BookingEvent{}
	for rows.Next() {
		var ev models.BookingEvent
		var metadata string
		var createdAt time.Time
		if err := rows.Scan(&ev.EventName, &ev.BookingID, &ev.Source, &metadata, &createdAt); err != nil {
			return nil, err
		}
		if metadata != "" {
			_ = json.Unmarshal([]byte(metadata), &ev.Metadata)
		}
		ev.CreatedAt = createdAt
		out = append(out, ev)
	}
	return out, rows.Err()
}
