// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrPhoneExists signals that a registration
// cannot proceed because the phone number is already taken.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record with the requested id does
// not exist in the store. Handlers should translate this into an
// HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrPhoneExists is returned when a registration or OTP flow would
// create a second account for a phone number that is already
// registered. Handlers should translate this into an HTTP 409
// response.
var ErrPhoneExists = errors.New("phone number already registered")

// ErrNoActiveOTP is returned by OTP verification when no code was
// ever requested for the phone number, or a previous code was
// already consumed.
var ErrNoActiveOTP = errors.New("no active otp for this phone number")

// ErrOTPExpired is returned when the code being verified exists but
// its expiry timestamp has passed. The record is purged as a side
// effect.
var ErrOTPExpired = errors.New("otp expired")

// ErrInvalidOTP is returned when the submitted code does not match
// the stored one. The attempt counter has already been incremented
// when this error is returned.
var ErrInvalidOTP = errors.New("invalid otp")

// ErrOTPAttemptsExceeded is returned when the attempt counter has
// reached its limit. The record is purged as a side effect, so even
// a correct code fails once this state is reached.
var ErrOTPAttemptsExceeded = errors.New("too many failed attempts")

// CooldownError is returned when a new OTP is requested before the
// cooldown window of the previous request has elapsed. RetryAfter
// reports how many seconds remain until a new request is allowed.
type CooldownError struct {
	RetryAfter int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("otp requested too soon, retry in %ds", e.RetryAfter)
}
