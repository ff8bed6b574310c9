package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings and their items.
// All lifecycle transitions are conditional updates naming the expected
// current status, so a transition that already happened (or lost a
// race) affects zero rows instead of clobbering newer state.
type BookingRepo struct {
	DB *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingColumns = `id, code, user_id, showtime_id, total_seats, subtotal, discount_amount, total_amount, final_price, status, is_paid, expires_at, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.Code, &b.UserID, &b.ShowtimeID, &b.TotalSeats,
		&b.Subtotal, &b.DiscountAmount, &b.TotalAmount, &b.FinalPrice,
		&b.Status, &b.IsPaid, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID. The caller must commit
// or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (code, user_id, showtime_id, total_seats, subtotal, discount_amount, total_amount, final_price, status, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Code, b.UserID, b.ShowtimeID, b.TotalSeats, b.Subtotal, b.DiscountAmount,
		b.TotalAmount, b.FinalPrice, b.Status, b.ExpiresAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// UpdateTotalsTx writes the computed money columns and the seat count
// after the booking's items are known. Runs in the creation
// transaction.
func (r *BookingRepo) UpdateTotalsTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET total_seats = ?, subtotal = ?, discount_amount = ?, total_amount = ?, final_price = ?
		 WHERE id = ?`,
		b.TotalSeats, b.Subtotal, b.DiscountAmount, b.TotalAmount, b.FinalPrice, b.ID)
	return err
}

// CreateItemsBulkTx inserts the booking's items in a single statement.
// The unique (booking_id, showtime_seat_id) key rejects a seat being
// added twice to the same booking.
func (r *BookingRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.BookingItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO booking_items (booking_id, showtime_seat_id, room_seat_id, seat_code, seat_type, price) VALUES `
	args := make([]any, 0, len(items)*6)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, it.BookingID, it.ShowtimeSeatID, it.RoomSeatID, it.SeatCode, it.SeatType, it.Price)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	if err != nil && isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

// GetByID loads a booking by primary key.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// GetForUpdateTx loads a booking with a row lock inside the given
// transaction. Payment confirmation takes this lock so that it races
// the sweeper only on the conditional status flip, never on stale
// reads.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	b, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// ListByUser returns one page of a user's bookings newest first plus
// the total count.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]model.Booking, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0, limit)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ListItems returns the items of a booking ordered by seat code.
func (r *BookingRepo) ListItems(ctx context.Context, bookingID uint64) ([]model.BookingItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, booking_id, showtime_seat_id, room_seat_id, seat_code, seat_type, price, created_at
		 FROM booking_items WHERE booking_id = ? ORDER BY seat_code`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.BookingItem, 0)
	for rows.Next() {
		var it model.BookingItem
		if err := rows.Scan(&it.ID, &it.BookingID, &it.ShowtimeSeatID, &it.RoomSeatID,
			&it.SeatCode, &it.SeatType, &it.Price, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListItemsTx is ListItems inside an existing transaction, used by
// payment confirmation to snapshot the items it issues tickets for.
func (r *BookingRepo) ListItemsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]model.BookingItem, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, booking_id, showtime_seat_id, room_seat_id, seat_code, seat_type, price, created_at
		 FROM booking_items WHERE booking_id = ? ORDER BY seat_code`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.BookingItem, 0)
	for rows.Next() {
		var it model.BookingItem
		if err := rows.Scan(&it.ID, &it.BookingID, &it.ShowtimeSeatID, &it.RoomSeatID,
			&it.SeatCode, &it.SeatType, &it.Price, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// MarkConfirmedTx flips a pending booking to confirmed+paid. Zero
// affected rows means the booking was no longer pending.
func (r *BookingRepo) MarkConfirmedTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, is_paid = 1 WHERE id = ? AND status = ?`,
		model.BookingStatusConfirmed, id, model.BookingStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkCancelledTx flips a pending booking to cancelled.
func (r *BookingRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		model.BookingStatusCancelled, id, model.BookingStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkExpiredTx flips a pending booking past its deadline to expired.
// The expires_at condition makes the sweeper and a concurrent
// confirmation race on this single statement: whoever flips the status
// first wins and the loser sees zero rows.
func (r *BookingRepo) MarkExpiredTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?
		 WHERE id = ? AND status = ? AND expires_at < UTC_TIMESTAMP()`,
		model.BookingStatusExpired, id, model.BookingStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListExpiredPending returns up to limit bookings whose hold deadline
// passed before now while still pending, oldest deadline first. The
// sweeper processes these in bounded batches.
func (r *BookingRepo) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE status = ? AND expires_at < ?
		 ORDER BY expires_at LIMIT ?`,
		model.BookingStatusPending, now.UTC().Format("2006-01-02 15:04:05"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
