package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimTxLosesRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := NewShowtimeSeatRepo(db)
	err = repo.ClaimTx(context.Background(), tx, 7, 42, 1)
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	_ = tx.Rollback()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimTxWins(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WithArgs("hold", uint64(1), uint64(42), uint64(7), "available").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := NewShowtimeSeatRepo(db)
	require.NoError(t, repo.ClaimTx(context.Background(), tx, 7, 42, 1))
	require.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseByBookingTxIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// First release returns the held seats, a second pass finds none.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("UPDATE showtime_seats SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := NewShowtimeSeatRepo(db)
	n, err := repo.ReleaseByBookingTx(context.Background(), tx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.ReleaseByBookingTx(context.Background(), tx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
