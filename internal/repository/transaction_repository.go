package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// TransactionRepo provides data access for payment transactions.
type TransactionRepo struct {
	DB *sql.DB
}

// NewTransactionRepo returns a new TransactionRepo bound to the given database.
func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{DB: db} }

const transactionColumns = `id, code, booking_id, user_id, payment_method, amount, status, completed_at, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (model.Transaction, error) {
	var t model.Transaction
	err := row.Scan(&t.ID, &t.Code, &t.BookingID, &t.UserID, &t.PaymentMethod,
		&t.Amount, &t.Status, &t.CompletedAt, &t.CreatedAt)
	return t, err
}

// CreateTx records a payment attempt inside the transaction that flips
// the booking's status, so the outcome and the record land together.
// Terminal statuses (success, failed, cancelled) get completed_at set.
func (r *TransactionRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	completed := t.Status == model.TransactionStatusSuccess ||
		t.Status == model.TransactionStatusFailed ||
		t.Status == model.TransactionStatusCancelled
	var query string
	if completed {
		query = `INSERT INTO transactions (code, booking_id, user_id, payment_method, amount, status, completed_at)
		         VALUES (?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())`
	} else {
		query = `INSERT INTO transactions (code, booking_id, user_id, payment_method, amount, status)
		         VALUES (?, ?, ?, ?, ?, ?)`
	}
	res, err := tx.ExecContext(ctx, query,
		t.Code, t.BookingID, t.UserID, t.PaymentMethod, t.Amount, t.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// ListByBooking returns the payment attempts against a booking, newest
// first.
func (r *TransactionRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Transaction, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE booking_id = ? ORDER BY created_at DESC, id DESC`,
		bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
