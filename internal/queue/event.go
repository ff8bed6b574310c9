// Package queue defines message payloads exchanged over the message broker
// plus the publisher and background consumer for them.
package queue

// BookingConfirmedEvent is published when payment for a booking succeeds.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID   uint64   `json:"booking_id"`
    BookingCode string   `json:"booking_code"`
    UserID      uint64   `json:"user_id"`
    ShowtimeID  uint64   `json:"showtime_id"`
    SeatCodes   []string `json:"seats"`
    FinalPrice  string   `json:"final_price"`
    ConfirmedAt string   `json:"confirmed_at"`
}

// BookingExpiredEvent is published when the sweeper releases a pending
// booking whose hold deadline passed without payment.
type BookingExpiredEvent struct {
    BookingID     uint64 `json:"booking_id"`
    BookingCode   string `json:"booking_code"`
    UserID        uint64 `json:"user_id"`
    ShowtimeID    uint64 `json:"showtime_id"`
    ReleasedSeats int64  `json:"released_seats"`
    ExpiredAt     string `json:"expired_at"`
}
