package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// seatTypeMultipliers prices non-standard seats relative to the
// showtime base price at generation time. The resulting price is
// snapshotted into showtime_seats, so later changes to this table do
// not reprice existing showtimes.
var seatTypeMultipliers = map[string]decimal.Decimal{
	model.SeatTypeStandard:   decimal.NewFromInt(1),
	model.SeatTypeVIP:        decimal.RequireFromString("1.5"),
	model.SeatTypePremium:    decimal.RequireFromString("1.3"),
	model.SeatTypeCouple:     decimal.NewFromInt(2),
	model.SeatTypeWheelchair: decimal.NewFromInt(1),
}

// SeatPrice returns the price of a seat type against a base price.
// Unknown types fall back to the base price.
func SeatPrice(base decimal.Decimal, seatType string) decimal.Decimal {
	mult, ok := seatTypeMultipliers[seatType]
	if !ok {
		return base
	}
	return base.Mul(mult).Round(2)
}

// ShowtimeRepo provides data access for showtimes and generates their
// per-seat availability rows. Creating a showtime inserts one
// showtime_seat per active room seat inside the same transaction, so a
// showtime is never visible without its seat map.
type ShowtimeRepo struct {
	DB *sql.DB
}

// NewShowtimeRepo returns a new ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{DB: db} }

const showtimeColumns = `id, movie_id, room_id, showtime_date, start_time, end_time, base_price, available_seats, held_seats, sold_seats, status, created_at, updated_at`

func scanShowtime(row interface{ Scan(...any) error }) (model.Showtime, error) {
	var s model.Showtime
	err := row.Scan(&s.ID, &s.MovieID, &s.RoomID, &s.Date, &s.StartTime, &s.EndTime,
		&s.BasePrice, &s.AvailableSeats, &s.HeldSeats, &s.SoldSeats,
		&s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a showtime and generates its showtime_seats from the
// room's active seats, priced per seat type. Returns ErrConflict when
// the (room, date, start time) slot is already taken and ErrNotFound
// when the room has no active seats (room missing or empty).
func (r *ShowtimeRepo) Create(ctx context.Context, s *model.Showtime) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Fetch the seats first so an empty room fails before any insert.
	rows, err := tx.QueryContext(ctx,
		`SELECT id, seat_type FROM room_seats WHERE room_id = ? AND is_active = 1 ORDER BY id`,
		s.RoomID)
	if err != nil {
		return err
	}
	type seatRow struct {
		id       uint64
		seatType string
	}
	var seats []seatRow
	for rows.Next() {
		var sr seatRow
		if scanErr := rows.Scan(&sr.id, &sr.seatType); scanErr != nil {
			rows.Close()
			return scanErr
		}
		seats = append(seats, sr)
	}
	if err = rows.Close(); err != nil {
		return err
	}
	if len(seats) == 0 {
		return ErrNotFound
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO showtimes (movie_id, room_id, showtime_date, start_time, end_time, base_price, available_seats, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.MovieID, s.RoomID, s.Date.Format("2006-01-02"), s.StartTime, s.EndTime,
		s.BasePrice, len(seats), s.Status)
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
	s.ID = uint64(id)
	s.AvailableSeats = uint32(len(seats))

	query := `INSERT INTO showtime_seats (showtime_id, room_seat_id, status, price) VALUES `
	args := make([]any, 0, len(seats)*4)
	for i, sr := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.ID, sr.id, model.SeatStatusAvailable, SeatPrice(s.BasePrice, sr.seatType))
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID loads a showtime by primary key.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (model.Showtime, error) {
	s, err := scanShowtime(r.DB.QueryRowContext(ctx,
		`SELECT `+showtimeColumns+` FROM showtimes WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Showtime{}, ErrNotFound
	}
	return s, err
}

// List returns one page of showtimes plus the total count, optionally
// filtered by movie and/or date (date as "2006-01-02", empty for all).
func (r *ShowtimeRepo) List(ctx context.Context, movieID uint64, date string, offset, limit int) ([]model.Showtime, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	if movieID != 0 {
		where += ` AND movie_id = ?`
		args = append(args, movieID)
	}
	if date != "" {
		where += ` AND showtime_date = ?`
		args = append(args, date)
	}
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM showtimes `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, limit, offset)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+showtimeColumns+` FROM showtimes `+where+` ORDER BY showtime_date, start_time LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list := make([]model.Showtime, 0, limit)
	for rows.Next() {
		s, err := scanShowtime(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UpdateStatus flips a showtime's lifecycle status (active, cancelled,
// ended, sold_out).
func (r *ShowtimeRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE showtimes SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustCountersTx applies deltas to the aggregate seat counters inside
// the transaction that moved the underlying showtime_seats rows. The
// counters are denormalised conveniences; the per-seat rows stay the
// source of truth.
func (r *ShowtimeRepo) AdjustCountersTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, dAvailable, dHeld, dSold int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE showtimes SET
		    available_seats = available_seats + ?,
		    held_seats = held_seats + ?,
		    sold_seats = sold_seats + ?
		 WHERE id = ?`,
		dAvailable, dHeld, dSold, showtimeID)
	return err
}
