package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Showtime statuses.
const (
	ShowtimeStatusActive    = "active"
	ShowtimeStatusCancelled = "cancelled"
	ShowtimeStatusEnded     = "ended"
	ShowtimeStatusSoldOut   = "sold_out"
)

// Seat statuses for a seat within a showtime. A given showtime seat
// has at most one active claim (hold or sold) at a time; transitions
// are available→hold on booking creation, hold→sold on payment,
// hold→available on expiry/cancel. Blocked seats never leave
// "blocked" through the booking flow.
const (
	SeatStatusAvailable = "available"
	SeatStatusHold      = "hold"
	SeatStatusSold      = "sold"
	SeatStatusBlocked   = "blocked"
)

// Showtime schedules a movie into a room at a date and start time.
// The (room, date, start time) triple is unique. The aggregate seat
// counters are maintained inside the same transactions that move
// showtime_seats between statuses, so they stay consistent with the
// per-seat rows.
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – scheduled movie.
//  RoomID         – room in which the movie plays.
//  Date           – calendar date of the show.
//  StartTime      – start of the slot ("15:04:05").
//  EndTime        – end of the slot.
//  BasePrice      – standard-seat price; other seat types are priced
//                   by multiplier at showtime_seat generation time.
//  AvailableSeats – count of seats currently available.
//  HeldSeats      – count of seats currently on hold.
//  SoldSeats      – count of seats sold.
//  Status         – one of the ShowtimeStatus* constants.
type Showtime struct {
	ID             uint64          // showtimes.id
	MovieID        uint64          // showtimes.movie_id
	RoomID         uint64          // showtimes.room_id
	Date           time.Time       // showtimes.showtime_date
	StartTime      string          // showtimes.start_time
	EndTime        string          // showtimes.end_time
	BasePrice      decimal.Decimal // showtimes.base_price
	AvailableSeats uint32          // showtimes.available_seats
	HeldSeats      uint32          // showtimes.held_seats
	SoldSeats      uint32          // showtimes.sold_seats
	Status         string          // showtimes.status
	CreatedAt      time.Time       // showtimes.created_at
	UpdatedAt      time.Time       // showtimes.updated_at
}

// ShowtimeSeat is the availability record for one physical seat in
// one showtime. The status column is the single contended resource
// of the whole system: every claim goes through a conditional UPDATE
// on it, never through a read-then-write.
type ShowtimeSeat struct {
	ID         uint64          // showtime_seats.id
	ShowtimeID uint64          // showtime_seats.showtime_id
	RoomSeatID uint64          // showtime_seats.room_seat_id
	BookingID  *uint64         // showtime_seats.booking_id (nullable, set while hold/sold)
	Status     string          // showtime_seats.status
	Price      decimal.Decimal // showtime_seats.price
	CreatedAt  time.Time       // showtime_seats.created_at
	UpdatedAt  time.Time       // showtime_seats.updated_at
}
