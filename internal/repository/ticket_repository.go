package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// TicketRepo provides data access for tickets. Tickets are created in
// bulk inside the payment-confirmation transaction, one per booking
// item, and consumed at the gate via a conditional valid→used flip.
type TicketRepo struct {
	DB *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

const ticketColumns = `id, code, booking_id, booking_item_id, showtime_id, seat_code, qr_code, status, used_at, created_at`

func scanTicket(row interface{ Scan(...any) error }) (model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(&t.ID, &t.Code, &t.BookingID, &t.BookingItemID, &t.ShowtimeID,
		&t.SeatCode, &t.QRCode, &t.Status, &t.UsedAt, &t.CreatedAt)
	return t, err
}

// CreateBulkTx inserts all tickets of a confirmed booking in one
// statement within the confirmation transaction.
func (r *TicketRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (code, booking_id, booking_item_id, showtime_id, seat_code, qr_code, status) VALUES `
	args := make([]any, 0, len(tickets)*7)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, t.Code, t.BookingID, t.BookingItemID, t.ShowtimeID, t.SeatCode, t.QRCode, t.Status)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	if err != nil && isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

// GetByCode loads a ticket by its public code.
func (r *TicketRepo) GetByCode(ctx context.Context, code string) (model.Ticket, error) {
	t, err := scanTicket(r.DB.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE code = ?`, code))
	if err == sql.ErrNoRows {
		return model.Ticket{}, ErrNotFound
	}
	return t, err
}

// ListByBooking returns the tickets of a booking ordered by seat code.
func (r *TicketRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE booking_id = ? ORDER BY seat_code`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// MarkUsed flips a valid ticket to used and stamps the scan time. The
// status condition makes a second scan of the same code affect zero
// rows, which surfaces as ErrConflict so the gate can reject it.
func (r *TicketRepo) MarkUsed(ctx context.Context, code string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE tickets SET status = ?, used_at = UTC_TIMESTAMP()
		 WHERE code = ? AND status = ?`,
		model.TicketStatusUsed, code, model.TicketStatusValid)
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
