package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction statuses.
const (
	TransactionStatusPending    = "pending"
	TransactionStatusProcessing = "processing"
	TransactionStatusSuccess    = "success"
	TransactionStatusFailed     = "failed"
	TransactionStatusCancelled  = "cancelled"
)

// Transaction records one payment attempt against a booking. The
// gateway integration itself lives outside this service; only the
// reported outcome is persisted here.
type Transaction struct {
	ID            uint64          // transactions.id
	Code          string          // transactions.code
	BookingID     uint64          // transactions.booking_id
	UserID        uint64          // transactions.user_id
	PaymentMethod string          // transactions.payment_method
	Amount        decimal.Decimal // transactions.amount
	Status        string          // transactions.status
	CompletedAt   *time.Time      // transactions.completed_at (nullable)
	CreatedAt     time.Time       // transactions.created_at
}
