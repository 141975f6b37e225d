package domain

import (
	"errors"
	"fmt"
)

// Flag-style failures that carry no per-request detail.
var (
	// ErrServiceDisabled is returned when the booking intake feature flag is off.
	ErrServiceDisabled = errors.New("booking intake is disabled")

	// ErrMisconfiguredTransport is returned when the mail transport cannot be used
	// (missing API key or invalid sender address). Detail goes to logs, not callers.
	ErrMisconfiguredTransport = errors.New("mail transport is not configured")

	// ErrUnauthorized gates admin operations. It never distinguishes a missing
	// credential from a bad signature or an expired one.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError names the first field of a payload that failed validation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("invalid %s", e.Field)
}

// BadRequestError marks malformed admin mutation input.
type BadRequestError struct {
	Reason string
}

func (e BadRequestError) Error() string {
	if e.Reason == "" {
		return "bad request"
	}
	return e.Reason
}

// NotFoundError marks a missing booking (or a booking without a stored address).
type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// SendError wraps a mail transport failure after retries are exhausted.
type SendError struct {
	Err error
}

func (e SendError) Error() string {
	if e.Err == nil {
		return "send failed"
	}
	return fmt.Sprintf("send failed: %v", e.Err)
}

func (e SendError) Unwrap() error { return e.Err }

// StoreError wraps a record store failure.
type StoreError struct {
	Err error
}

func (e StoreError) Error() string {
	if e.Err == nil {
		return "store error"
	}
	return fmt.Sprintf("store error: %v", e.Err)
}

func (e StoreError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsBadRequest(err error) bool {
	var target BadRequestError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsSendFailed(err error) bool {
	var target SendError
	return errors.As(err, &target)
}

func IsStore(err error) bool {
	var target StoreError
	return errors.As(err, &target)
}
