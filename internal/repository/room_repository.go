package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// RoomRepo provides data access for rooms and their physical seats.
// Creating a room also generates its room_seats grid in one
// transaction so a room is never observable without seats.
type RoomRepo struct {
	DB *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

const roomColumns = `id, cinema_id, name, code, total_rows, max_seats_per_row, total_seats, screen_type, sound_type, created_at, updated_at, deleted_at`

func scanRoom(row interface{ Scan(...any) error }) (model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.CinemaID, &rm.Name, &rm.Code, &rm.TotalRows,
		&rm.MaxSeatsPerRow, &rm.TotalSeats, &rm.ScreenType, &rm.SoundType,
		&rm.CreatedAt, &rm.UpdatedAt, &rm.DeletedAt)
	return rm, err
}

// seatRowLabel renders row numbers as spreadsheet-style letters:
// 1→A, 26→Z, 27→AA. Seat codes on tickets are label+number ("A1").
func seatRowLabel(row uint32) string {
	label := ""
	for row > 0 {
		row--
		label = string(rune('A'+row%26)) + label
		row /= 26
	}
	return label
}

// Create inserts a room and bulk-generates one room_seat per position
// in the rows × seats-per-row grid, all standard type and active. Seat
// types can be reassigned afterwards via UpdateSeatType. Returns
// ErrConflict when the (cinema, code) pair is taken.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
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
	total := rm.TotalRows * rm.MaxSeatsPerRow
	res, err := tx.ExecContext(ctx,
		`INSERT INTO rooms (cinema_id, name, code, total_rows, max_seats_per_row, total_seats, screen_type, sound_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rm.CinemaID, rm.Name, rm.Code, rm.TotalRows, rm.MaxSeatsPerRow, total, rm.ScreenType, rm.SoundType)
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
	rm.ID = uint64(id)
	rm.TotalSeats = total

	query := `INSERT INTO room_seats (room_id, row_number, seat_number, seat_code, seat_type) VALUES `
	args := make([]any, 0, total*5)
	first := true
	for row := uint32(1); row <= rm.TotalRows; row++ {
		for seat := uint32(1); seat <= rm.MaxSeatsPerRow; seat++ {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?, ?, ?)"
			code := fmt.Sprintf("%s%d", seatRowLabel(row), seat)
			args = append(args, rm.ID, row, seat, code, model.SeatTypeStandard)
		}
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

// GetByID loads a live room by primary key.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	rm, err := scanRoom(r.DB.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ? AND deleted_at IS NULL`, id))
	if err == sql.ErrNoRows {
		return model.Room{}, ErrNotFound
	}
	return rm, err
}

// ListByCinema returns all live rooms of a cinema ordered by code.
func (r *RoomRepo) ListByCinema(ctx context.Context, cinemaID uint64) ([]model.Room, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE cinema_id = ? AND deleted_at IS NULL ORDER BY code`,
		cinemaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rm)
	}
	return list, rows.Err()
}

// SoftDelete marks a room as deleted.
func (r *RoomRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rooms SET deleted_at = UTC_TIMESTAMP() WHERE id = ? AND deleted_at IS NULL`, id)
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

// ListSeats returns all seats of a room ordered by row and number.
func (r *RoomRepo) ListSeats(ctx context.Context, roomID uint64) ([]model.RoomSeat, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, room_id, row_number, seat_number, seat_code, seat_type, is_active, created_at, updated_at
		 FROM room_seats WHERE room_id = ? ORDER BY row_number, seat_number`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.RoomSeat, 0)
	for rows.Next() {
		var s model.RoomSeat
		if err := rows.Scan(&s.ID, &s.RoomID, &s.RowNumber, &s.SeatNumber,
			&s.SeatCode, &s.SeatType, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// UpdateSeatType reassigns the type of a single seat (e.g. turning the
// back row into VIP). Only future showtimes pick the change up; already
// generated showtime_seats keep their snapshot price.
func (r *RoomRepo) UpdateSeatType(ctx context.Context, seatID uint64, seatType string, isActive bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE room_seats SET seat_type = ?, is_active = ? WHERE id = ?`, seatType, isActive, seatID)
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
