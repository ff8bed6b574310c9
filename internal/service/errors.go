// Package service implements the booking lifecycle on top of the
// repositories: seat claiming, payment confirmation, cancellation and
// the background expiry sweeper.
package service

import "errors"

var (
    // ErrTooManySeats is returned when a booking requests more seats
    // than the configured per-booking cap.
    ErrTooManySeats = errors.New("too many seats requested")

    // ErrNoSeats is returned when a booking requests zero seats.
    ErrNoSeats = errors.New("no seats requested")

    // ErrDuplicateSeat is returned when the same seat appears twice in
    // one booking request.
    ErrDuplicateSeat = errors.New("duplicate seat in request")

    // ErrShowtimeNotBookable is returned when the showtime is not in a
    // bookable state (cancelled, ended, sold out).
    ErrShowtimeNotBookable = errors.New("showtime is not open for booking")

    // ErrNotPending is returned when a lifecycle action requires a
    // pending booking but the booking has already moved on.
    ErrNotPending = errors.New("booking is not pending")

    // ErrAmountMismatch is returned when the paid amount does not match
    // the booking's final price.
    ErrAmountMismatch = errors.New("payment amount does not match booking total")
)
