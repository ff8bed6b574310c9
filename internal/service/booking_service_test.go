package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

var showtimeCols = []string{
	"id", "movie_id", "room_id", "showtime_date", "start_time", "end_time",
	"base_price", "available_seats", "held_seats", "sold_seats",
	"status", "created_at", "updated_at",
}

var bookingCols = []string{
	"id", "code", "user_id", "showtime_id", "total_seats",
	"subtotal", "discount_amount", "total_amount", "final_price",
	"status", "is_paid", "expires_at", "created_at", "updated_at",
}

func activeShowtimeRow(id uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(showtimeCols).AddRow(
		id, 1, 1, now, "19:00:00", "21:15:00",
		"10.00", 50, 0, 0, model.ShowtimeStatusActive, now, now)
}

func pendingBookingRow(id, userID uint64, total string, seats uint32, expiresAt time.Time) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(bookingCols).AddRow(
		id, "BKG-TEST", userID, 7, seats,
		total, "0.00", total, total,
		model.BookingStatusPending, false, expiresAt, now, now)
}

func TestCreateClaimsAllSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM showtimes WHERE id").
		WillReturnRows(activeShowtimeRow(7))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT ss.id, ss.room_seat_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_seat_id", "seat_code", "seat_type", "price"}).
			AddRow(101, 201, "A1", "standard", "10.00").
			AddRow(102, 202, "A2", "vip", "15.00"))
	mock.ExpectExec("UPDATE bookings SET total_seats").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_items").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE showtimes SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewBookingService(db, 15*time.Minute, 10)
	before := time.Now().UTC()
	b, items, err := svc.Create(context.Background(), 5, 7, []uint64{101, 102})
	require.NoError(t, err)

	assert.Equal(t, uint64(11), b.ID)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.Equal(t, uint32(2), b.TotalSeats)
	assert.Equal(t, "25.00", b.FinalPrice.StringFixed(2))
	assert.Len(t, items, 2)
	assert.WithinDuration(t, before.Add(15*time.Minute), b.ExpiresAt, 5*time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackWhenSeatTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM showtimes WHERE id").
		WillReturnRows(activeShowtimeRow(7))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Second seat already held by someone else: zero rows affected,
	// but the row itself exists.
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM showtime_seats").
		WithArgs(uint64(102), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	svc := NewBookingService(db, 15*time.Minute, 10)
	_, _, err = svc.Create(context.Background(), 5, 7, []uint64{101, 102})
	assert.ErrorIs(t, err, repository.ErrSeatUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUnknownSeatIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM showtimes WHERE id").
		WillReturnRows(activeShowtimeRow(7))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(11, 1))
	// The claim affects zero rows and the lookup finds no seat with
	// that ID under the showtime.
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM showtime_seats").
		WithArgs(uint64(999), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	svc := NewBookingService(db, 15*time.Minute, 10)
	_, _, err = svc.Create(context.Background(), 5, 7, []uint64{999})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewBookingService(db, 15*time.Minute, 2)

	_, _, err = svc.Create(context.Background(), 5, 7, nil)
	assert.ErrorIs(t, err, ErrNoSeats)

	_, _, err = svc.Create(context.Background(), 5, 7, []uint64{1, 2, 3})
	assert.ErrorIs(t, err, ErrTooManySeats)

	_, _, err = svc.Create(context.Background(), 5, 7, []uint64{1, 1})
	assert.ErrorIs(t, err, ErrDuplicateSeat)
}

func TestConfirmPaymentIssuesTickets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expires := time.Now().UTC().Add(10 * time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WillReturnRows(pendingBookingRow(11, 5, "25.00", 2, expires))
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE showtimes SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectQuery("SELECT (.+) FROM booking_items").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "showtime_seat_id", "room_seat_id", "seat_code", "seat_type", "price", "created_at"}).
			AddRow(21, 11, 101, 201, "A1", "standard", "10.00", time.Now()).
			AddRow(22, 11, 102, 202, "A2", "vip", "15.00", time.Now()))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnResult(sqlmock.NewResult(41, 2))
	mock.ExpectCommit()

	svc := NewBookingService(db, 15*time.Minute, 10)
	b, tickets, err := svc.ConfirmPayment(context.Background(), 5, 11, "card", decimal.RequireFromString("25.00"))
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusConfirmed, b.Status)
	assert.True(t, b.IsPaid)
	require.Len(t, tickets, 2)
	for _, tk := range tickets {
		assert.Equal(t, model.TicketStatusValid, tk.Status)
		assert.NotEmpty(t, tk.Code)
		assert.NotEmpty(t, tk.QRCode)
	}
	assert.Equal(t, "A1", tickets[0].SeatCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentExpiresOverdueBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expires := time.Now().UTC().Add(-time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WillReturnRows(pendingBookingRow(11, 5, "25.00", 2, expires))
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE showtimes SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewBookingService(db, 15*time.Minute, 10)
	_, _, err = svc.ConfirmPayment(context.Background(), 5, 11, "card", decimal.RequireFromString("25.00"))
	assert.ErrorIs(t, err, repository.ErrBookingExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentAmountMismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expires := time.Now().UTC().Add(10 * time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WillReturnRows(pendingBookingRow(11, 5, "25.00", 2, expires))
	mock.ExpectRollback()

	svc := NewBookingService(db, 15*time.Minute, 10)
	_, _, err = svc.ConfirmPayment(context.Background(), 5, 11, "card", decimal.RequireFromString("20.00"))
	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentWrongOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expires := time.Now().UTC().Add(10 * time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WillReturnRows(pendingBookingRow(11, 5, "25.00", 2, expires))
	mock.ExpectRollback()

	svc := NewBookingService(db, 15*time.Minute, 10)
	_, _, err = svc.ConfirmPayment(context.Background(), 6, 11, "card", decimal.RequireFromString("25.00"))
	assert.ErrorIs(t, err, repository.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReleasesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expires := time.Now().UTC().Add(10 * time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WillReturnRows(pendingBookingRow(11, 5, "25.00", 2, expires))
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE showtimes SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := NewBookingService(db, 15*time.Minute, 10)
	require.NoError(t, svc.Cancel(context.Background(), 5, 11))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelNonPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expires := time.Now().UTC().Add(10 * time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WillReturnRows(pendingBookingRow(11, 5, "25.00", 2, expires))
	// Conditional flip affects no rows: the booking moved on already.
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	svc := NewBookingService(db, 15*time.Minute, 10)
	err = svc.Cancel(context.Background(), 5, 11)
	assert.ErrorIs(t, err, ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}
