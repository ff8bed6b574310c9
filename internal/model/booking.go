package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusExpired   = "expired"
)

// Booking owns a set of seats for one showtime. A booking starts as
// "pending" with ExpiresAt set to the hold deadline; it becomes
// "confirmed" on payment success, "cancelled" on explicit cancel, or
// "expired" when the sweeper releases it past the deadline.
//
// Fields:
//  ID             – primary key identifier.
//  Code           – unique booking reference shown to the customer.
//  UserID         – user who created the booking.
//  ShowtimeID     – showtime the seats belong to.
//  TotalSeats     – number of booking items.
//  Subtotal       – sum of item prices before discount.
//  DiscountAmount – discount applied to the whole booking.
//  TotalAmount    – subtotal minus discount.
//  FinalPrice     – amount actually charged.
//  Status         – one of the BookingStatus* constants.
//  IsPaid         – set together with status "confirmed".
//  ExpiresAt      – hold deadline; the sweeper releases the booking
//                   once this has passed while still pending.
type Booking struct {
	ID             uint64          // bookings.id
	Code           string          // bookings.code
	UserID         uint64          // bookings.user_id
	ShowtimeID     uint64          // bookings.showtime_id
	TotalSeats     uint32          // bookings.total_seats
	Subtotal       decimal.Decimal // bookings.subtotal
	DiscountAmount decimal.Decimal // bookings.discount_amount
	TotalAmount    decimal.Decimal // bookings.total_amount
	FinalPrice     decimal.Decimal // bookings.final_price
	Status         string          // bookings.status
	IsPaid         bool            // bookings.is_paid
	ExpiresAt      time.Time       // bookings.expires_at
	CreatedAt      time.Time       // bookings.created_at
	UpdatedAt      time.Time       // bookings.updated_at
}

// BookingItem is a single seat's line entry within a booking. Seat
// code, type and price are snapshotted at booking time so later
// changes to the room layout do not rewrite history. The
// (booking_id, showtime_seat_id) pair is unique – a seat cannot be
// added twice to the same booking.
type BookingItem struct {
	ID             uint64          // booking_items.id
	BookingID      uint64          // booking_items.booking_id
	ShowtimeSeatID uint64          // booking_items.showtime_seat_id
	RoomSeatID     uint64          // booking_items.room_seat_id
	SeatCode       string          // booking_items.seat_code
	SeatType       string          // booking_items.seat_type
	Price          decimal.Decimal // booking_items.price
	CreatedAt      time.Time       // booking_items.created_at
}
