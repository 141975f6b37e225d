package domain

import (
	"regexp"
	"strings"

	"studio/internal/domain/models"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s matches the basic local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailShape.MatchString(strings.TrimSpace(s))
}

// ValidateBooking checks the required fields of a booking payload in a fixed
// order and reports the first failure. Pure; callers may re-run it freely.
//
// preferred_style, customer_type and date parseability are advisory display
// fields and deliberately not gated here.
func ValidateBooking(req models.BookingRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ValidationError{Field: "name", Msg: "required"}
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return ValidationError{Field: "email", Msg: "required"}
	}
	if !emailShape.MatchString(email) {
		return ValidationError{Field: "email", Msg: "invalid format"}
	}
	if strings.TrimSpace(req.Message) == "" {
		return ValidationError{Field: "message", Msg: "required"}
	}
	if strings.TrimSpace(req.AppointmentDate) == "" {
		return ValidationError{Field: "appointment_date", Msg: "required"}
	}
	return nil
}
