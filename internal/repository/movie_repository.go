package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// MovieRepo provides CRUD for the movies table. Movies are
// soft-deleted; reads filter deleted_at.
type MovieRepo struct {
	DB *sql.DB
}

// NewMovieRepo returns a new MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieColumns = `id, title, slug, description, duration_minutes, rating, release_date, status, created_at, updated_at, deleted_at`

func scanMovie(row interface{ Scan(...any) error }) (model.Movie, error) {
	var m model.Movie
	err := row.Scan(&m.ID, &m.Title, &m.Slug, &m.Description, &m.DurationMinutes,
		&m.Rating, &m.ReleaseDate, &m.Status, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt)
	return m, err
}

// Create inserts a movie. Returns ErrConflict when the slug is taken.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO movies (title, slug, description, duration_minutes, rating, release_date, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.Slug, m.Description, m.DurationMinutes, m.Rating, m.ReleaseDate, m.Status)
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
	m.ID = uint64(id)
	return nil
}

// GetByID loads a live movie by primary key.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	m, err := scanMovie(r.DB.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = ? AND deleted_at IS NULL`, id))
	if err == sql.ErrNoRows {
		return model.Movie{}, ErrNotFound
	}
	return m, err
}

// List returns one page of live movies, optionally filtered by status,
// plus the total count. Status "" means all statuses.
func (r *MovieRepo) List(ctx context.Context, status string, offset, limit int) ([]model.Movie, int, error) {
	where := `WHERE deleted_at IS NULL`
	args := []any{}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movies `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, limit, offset)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies `+where+` ORDER BY title LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0, limit)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// Update modifies a movie's mutable fields.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE movies SET title = ?, description = ?, duration_minutes = ?, rating = ?, release_date = ?, status = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		m.Title, m.Description, m.DurationMinutes, m.Rating, m.ReleaseDate, m.Status, m.ID)
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

// SoftDelete marks a movie as deleted. Existing showtimes are left
// untouched; cancelling them is a separate, explicit operation.
func (r *MovieRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE movies SET deleted_at = UTC_TIMESTAMP() WHERE id = ? AND deleted_at IS NULL`, id)
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
