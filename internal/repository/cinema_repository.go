package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// CinemaRepo encapsulates all database queries related to cinemas.
// Cinemas are soft-deleted; every read filters deleted_at.
type CinemaRepo struct {
	DB *sql.DB
}

// NewCinemaRepo constructs a CinemaRepo with the provided DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo { return &CinemaRepo{DB: db} }

const cinemaColumns = `id, name, code, slug, address, city, phone, status, created_at, updated_at, deleted_at`

func scanCinema(row interface{ Scan(...any) error }) (model.Cinema, error) {
	var c model.Cinema
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Slug, &c.Address, &c.City,
		&c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	return c, err
}

// Create inserts a cinema. Returns ErrConflict when the code or slug is
// already taken.
func (r *CinemaRepo) Create(ctx context.Context, c *model.Cinema) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO cinemas (name, code, slug, address, city, phone, status) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Code, c.Slug, c.Address, c.City, c.Phone, c.Status)
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
	c.ID = uint64(id)
	return nil
}

// GetByID loads a live cinema by primary key.
func (r *CinemaRepo) GetByID(ctx context.Context, id uint64) (model.Cinema, error) {
	c, err := scanCinema(r.DB.QueryRowContext(ctx,
		`SELECT `+cinemaColumns+` FROM cinemas WHERE id = ? AND deleted_at IS NULL`, id))
	if err == sql.ErrNoRows {
		return model.Cinema{}, ErrNotFound
	}
	return c, err
}

// List returns one page of live cinemas ordered by name plus the total count.
func (r *CinemaRepo) List(ctx context.Context, offset, limit int) ([]model.Cinema, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cinemas WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+cinemaColumns+` FROM cinemas WHERE deleted_at IS NULL ORDER BY name LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	cinemas := make([]model.Cinema, 0, limit)
	for rows.Next() {
		c, err := scanCinema(rows)
		if err != nil {
			return nil, 0, err
		}
		cinemas = append(cinemas, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return cinemas, total, nil
}

// Update modifies a cinema's mutable fields.
func (r *CinemaRepo) Update(ctx context.Context, c *model.Cinema) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE cinemas SET name = ?, address = ?, city = ?, phone = ?, status = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		c.Name, c.Address, c.City, c.Phone, c.Status, c.ID)
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

// SoftDelete marks a cinema as deleted. Rooms and seats stay in place;
// soft deletion does not cascade.
func (r *CinemaRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE cinemas SET deleted_at = UTC_TIMESTAMP() WHERE id = ? AND deleted_at IS NULL`, id)
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
