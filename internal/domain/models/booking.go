package models

import (
	"strings"
	"time"
)

// Booking statuses an admin can set. Anything else is rejected at the service layer.
const (
	StatusPending      = "Pending"
	StatusConfirmed    = "Confirmed"
	StatusFollowUpSent = "Follow-up Sent"
	StatusCompleted    = "Completed"
	StatusCancelled    = "Cancelled"
)

var bookingStatuses = map[string]bool{
	StatusPending:      true,
	StatusConfirmed:    true,
	StatusFollowUpSent: true,
	StatusCompleted:    true,
	StatusCancelled:    true,
}

// ValidStatus reports whether s is one of the enumerated booking statuses.
func ValidStatus(s string) bool {
	return bookingStatuses[s]
}

// BookingRequest is the payload a client submits through the booking form.
// Images are opaque blob-storage keys the client obtained from its own upload.
type BookingRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Message         string   `json:"message"`
	Placement       string   `json:"placement"`
	AppointmentDate string   `json:"appointment_date"`
	AppointmentEnd  string   `json:"appointment_end"`
	PreferredArtist string   `json:"preferred_artist"`
	FirstAvailable  bool     `json:"first_available"`
	PreferredStyle  []string `json:"preferred_style"`
	CustomerType    string   `json:"customer_type"`
	Images          []string `json:"images"`
}

// DisplayArtist derives the artist shown in notifications. first_available
// overrides the stored artist name at display time only; neither field is rewritten.
func (r BookingRequest) DisplayArtist() string {
	if r.FirstAvailable {
		return "First available"
	}
	if a := strings.TrimSpace(r.PreferredArtist); a != "" {
		return a
	}
	return "Unspecified"
}

// BookingRecord is the persistent row behind an accepted booking. After creation
// it is mutable only through the admin mutation service.
type BookingRecord struct {
	ID string `json:"id"`
	BookingRequest
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingEvent is one append-only audit/analytics row. Never updated or deleted.
type BookingEvent struct {
	EventName string         `json:"event_name"`
	BookingID string         `json:"booking_id,omitempty"`
	Source    string         `json:"source"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
