package service

import "errors"

var (
	// ErrValidation wraps form-level failures (missing required fields,
	// unknown enum values). Surfaced as inline feedback, never fatal.
	ErrValidation = errors.New("validation failed")

	// ErrTermsNotAccepted rejects a signup without the terms checkbox.
	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted")

	// ErrUnknownEmail rejects a login for an email with no stored account.
	// The site silently auto-registered here; that was stub behavior and is
	// deliberately not carried over.
	ErrUnknownEmail = errors.New("no account for this email")

	// ErrInvalidCredentials rejects a login with a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoAccount means the session points at a removed account record.
	ErrNoAccount = errors.New("no account record")

	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingNotCancelled guards hard deletes: only cancelled bookings
	// may be removed.
	ErrBookingNotCancelled = errors.New("only cancelled bookings can be deleted")

	ErrUnknownCurrency = errors.New("unknown currency code")
)
