package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/model"
)

func expiredCandidates(ids ...uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	rows := sqlmock.NewRows(bookingCols)
	for _, id := range ids {
		rows.AddRow(id, "BKG-TEST", 5, 7, 2,
			"25.00", "0.00", "25.00", "25.00",
			model.BookingStatusPending, false, now.Add(-time.Minute), now, now)
	}
	return rows
}

func TestSweepOnceExpiresBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnRows(expiredCandidates(11, 12))

	for range []int{0, 1} {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE bookings SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE showtime_seats SET status").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("UPDATE showtimes SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	sw := NewSweeper(db, time.Minute, 100)
	n, err := sw.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepOnceSkipsConfirmedBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnRows(expiredCandidates(11))

	// The booking was confirmed between the candidate query and the
	// flip: zero rows affected, nothing released.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	sw := NewSweeper(db, time.Minute, 100)
	n, err := sw.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepOnceEmptyBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnRows(sqlmock.NewRows(bookingCols))

	sw := NewSweeper(db, time.Minute, 100)
	n, err := sw.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
