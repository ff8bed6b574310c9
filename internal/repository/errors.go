// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them onto stable HTTP error codes. For example, ErrSeatUnavailable
// indicates that a conditional seat claim lost against a concurrent
// booking, while ErrBookingExpired signals that a payment was attempted
// after the hold deadline had already passed.
package repository

import "errors"

// ErrNotFound is returned when a requested entity does not exist or has
// been soft-deleted. Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as creating a role with a taken slug or
// paying a booking that is no longer pending. Handlers translate this
// into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrSeatUnavailable is returned when the conditional available→hold
// update affects zero rows, meaning another booking already holds or has
// bought the seat. The whole booking attempt fails; no partial holds
// survive the transaction. Handlers translate this into HTTP 409.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrBookingExpired is returned when a payment confirmation arrives for
// a booking whose hold window has lapsed. Handlers translate this into
// HTTP 410.
var ErrBookingExpired = errors.New("booking expired")

// ErrEmailExists is returned by user creation when the email address is
// already registered.
var ErrEmailExists = errors.New("email already exists")
