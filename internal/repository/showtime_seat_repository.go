package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// ShowtimeSeatRepo encapsulates database operations on showtime_seats.
// The status column of this table is the only contended resource in
// the system: every state change goes through a conditional UPDATE
// whose WHERE clause names the expected current status, never through
// a read-then-write. Concurrent claims on the same seat serialize on
// the row lock and the loser sees zero affected rows.
type ShowtimeSeatRepo struct {
	DB *sql.DB
}

// NewShowtimeSeatRepo constructs a ShowtimeSeatRepo given a DB handle.
func NewShowtimeSeatRepo(db *sql.DB) *ShowtimeSeatRepo {
	return &ShowtimeSeatRepo{DB: db}
}

// ClaimTx attempts the atomic available→hold transition for one seat on
// behalf of a booking. The update is conditioned on the seat belonging
// to the showtime and currently being available; zero affected rows
// means another booking holds or bought the seat and ErrSeatUnavailable
// is returned. A nonexistent seat is indistinguishable from a taken one
// at this level; ExistsTx tells the two apart after a zero-row claim.
func (r *ShowtimeSeatRepo) ClaimTx(ctx context.Context, tx *sql.Tx, showtimeID, seatID, bookingID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE showtime_seats SET status = ?, booking_id = ?
		 WHERE id = ? AND showtime_id = ? AND status = ?`,
		model.SeatStatusHold, bookingID, seatID, showtimeID, model.SeatStatusAvailable)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSeatUnavailable
	}
	return nil
}

// ExistsTx reports whether a seat row exists under the showtime at all,
// regardless of status. Callers use it after a zero-row claim to map a
// missing seat to ErrNotFound instead of a seat conflict.
func (r *ShowtimeSeatRepo) ExistsTx(ctx context.Context, tx *sql.Tx, showtimeID, seatID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM showtime_seats WHERE id = ? AND showtime_id = ?`,
		seatID, showtimeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReleaseByBookingTx transitions a booking's seats hold→available and
// clears their booking reference. The condition on both status and
// booking_id guards against racing a confirmation: seats that were
// sold in the meantime are left alone. Returns the number of seats
// released, which is zero when the release already happened (the
// operation is idempotent).
func (r *ShowtimeSeatRepo) ReleaseByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE showtime_seats SET status = ?, booking_id = NULL
		 WHERE booking_id = ? AND status = ?`,
		model.SeatStatusAvailable, bookingID, model.SeatStatusHold)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SellByBookingTx transitions a booking's seats hold→sold on payment
// success. Only seats still held by this booking move; the returned
// count lets the caller verify that every seat of the booking was
// converted.
func (r *ShowtimeSeatRepo) SellByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE showtime_seats SET status = ?
		 WHERE booking_id = ? AND status = ?`,
		model.SeatStatusSold, bookingID, model.SeatStatusHold)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// HeldSeatDetail carries the joined seat information needed to build
// booking items after a successful claim: the snapshot of code, type
// and price at booking time.
type HeldSeatDetail struct {
	ShowtimeSeatID uint64
	RoomSeatID     uint64
	SeatCode       string
	SeatType       string
	Price          decimal.Decimal
}

// ListHeldByBookingTx returns the seats currently held by a booking
// together with their room-seat snapshot fields. Executed inside the
// claiming transaction so the rows are the ones just locked.
func (r *ShowtimeSeatRepo) ListHeldByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]HeldSeatDetail, error) {
	const q = `SELECT ss.id, ss.room_seat_id, rs.seat_code, rs.seat_type, ss.price
	           FROM showtime_seats ss
	           JOIN room_seats rs ON rs.id = ss.room_seat_id
	           WHERE ss.booking_id = ? AND ss.status = ?
	           ORDER BY rs.row_number, rs.seat_number`
	rows, err := tx.QueryContext(ctx, q, bookingID, model.SeatStatusHold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var details []HeldSeatDetail
	for rows.Next() {
		var d HeldSeatDetail
		if err := rows.Scan(&d.ShowtimeSeatID, &d.RoomSeatID, &d.SeatCode, &d.SeatType, &d.Price); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// SeatAvailability is the public per-seat view of a showtime: seat
// identity plus current status. Booking IDs are deliberately absent.
type SeatAvailability struct {
	ShowtimeSeatID uint64          `json:"showtime_seat_id"`
	SeatCode       string          `json:"seat_code"`
	SeatType       string          `json:"seat_type"`
	RowNumber      uint32          `json:"row"`
	SeatNumber     uint32          `json:"number"`
	Status         string          `json:"status"`
	Price          decimal.Decimal `json:"price"`
}

// ListByShowtime returns the availability map of a showtime ordered by
// row and seat number. Returns ErrNotFound when the showtime has no
// seat rows at all (i.e. does not exist).
func (r *ShowtimeSeatRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]SeatAvailability, error) {
	const q = `SELECT ss.id, rs.seat_code, rs.seat_type, rs.row_number, rs.seat_number, ss.status, ss.price
	           FROM showtime_seats ss
	           JOIN room_seats rs ON rs.id = ss.room_seat_id
	           WHERE ss.showtime_id = ?
	           ORDER BY rs.row_number, rs.seat_number`
	rows, err := r.DB.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []SeatAvailability
	for rows.Next() {
		var s SeatAvailability
		if err := rows.Scan(&s.ShowtimeSeatID, &s.SeatCode, &s.SeatType,
			&s.RowNumber, &s.SeatNumber, &s.Status, &s.Price); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(seats) == 0 {
		return nil, ErrNotFound
	}
	return seats, nil
}

// Block marks an available seat as blocked (maintenance, broken seat).
// Held and sold seats cannot be blocked.
func (r *ShowtimeSeatRepo) Block(ctx context.Context, showtimeID, seatID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE showtime_seats SET status = ?
		 WHERE id = ? AND showtime_id = ? AND status = ?`,
		model.SeatStatusBlocked, seatID, showtimeID, model.SeatStatusAvailable)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
