package model

import "time"

// Ticket statuses.
const (
	TicketStatusValid     = "valid"
	TicketStatusUsed      = "used"
	TicketStatusCancelled = "cancelled"
)

// Ticket is issued per booking item once payment is confirmed. The
// QR code encodes the ticket code and is scanned at the gate; the
// gate endpoint flips status valid→used exactly once.
type Ticket struct {
	ID            uint64     // tickets.id
	Code          string     // tickets.code
	BookingID     uint64     // tickets.booking_id
	BookingItemID uint64     // tickets.booking_item_id
	ShowtimeID    uint64     // tickets.showtime_id
	SeatCode      string     // tickets.seat_code
	QRCode        []byte     // tickets.qr_code (PNG bytes, nullable)
	Status        string     // tickets.status
	UsedAt        *time.Time // tickets.used_at (nullable)
	CreatedAt     time.Time  // tickets.created_at
}
