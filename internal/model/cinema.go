package model

import "time"

// Cinema statuses.
const (
	CinemaStatusActive      = "active"
	CinemaStatusInactive    = "inactive"
	CinemaStatusMaintenance = "maintenance"
)

// Seat types priced relative to a showtime's base price.
const (
	SeatTypeStandard   = "standard"
	SeatTypeVIP        = "vip"
	SeatTypePremium    = "premium"
	SeatTypeCouple     = "couple"
	SeatTypeWheelchair = "wheelchair"
)

// Cinema is a physical venue containing one or more rooms.
//
// Fields:
//  ID      – primary key identifier.
//  Name    – display name.
//  Code    – unique short code (e.g. "CGV-01").
//  Slug    – unique URL-safe identifier.
//  Address – street address.
//  City    – city name.
//  Status  – one of the CinemaStatus* constants.
type Cinema struct {
	ID        uint64     // cinemas.id
	Name      string     // cinemas.name
	Code      string     // cinemas.code
	Slug      string     // cinemas.slug
	Address   string     // cinemas.address
	City      string     // cinemas.city
	Phone     *string    // cinemas.phone (nullable)
	Status    string     // cinemas.status
	CreatedAt time.Time  // cinemas.created_at
	UpdatedAt time.Time  // cinemas.updated_at
	DeletedAt *time.Time // cinemas.deleted_at (nullable)
}

// Room is a screening room inside a cinema. TotalRows and
// MaxSeatsPerRow drive the bulk generation of room_seats when the
// room is created.
type Room struct {
	ID             uint64     // rooms.id
	CinemaID       uint64     // rooms.cinema_id
	Name           string     // rooms.name
	Code           string     // rooms.code
	TotalRows      uint32     // rooms.total_rows
	MaxSeatsPerRow uint32     // rooms.max_seats_per_row
	TotalSeats     uint32     // rooms.total_seats
	ScreenType     string     // rooms.screen_type
	SoundType      string     // rooms.sound_type
	CreatedAt      time.Time  // rooms.created_at
	UpdatedAt      time.Time  // rooms.updated_at
	DeletedAt      *time.Time // rooms.deleted_at (nullable)
}

// RoomSeat is one physical seat in a room. The seat code is the
// row-letter plus seat number rendering ("A1", "B12") shown on
// tickets. Inactive seats never produce showtime_seats rows.
type RoomSeat struct {
	ID         uint64    // room_seats.id
	RoomID     uint64    // room_seats.room_id
	RowNumber  uint32    // room_seats.row_number
	SeatNumber uint32    // room_seats.seat_number
	SeatCode   string    // room_seats.seat_code
	SeatType   string    // room_seats.seat_type
	IsActive   bool      // room_seats.is_active
	CreatedAt  time.Time // room_seats.created_at
	UpdatedAt  time.Time // room_seats.updated_at
}
