package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// PermissionRepo provides CRUD for the permissions table. The
// (resource, action) pair and the slug are both unique.
type PermissionRepo struct {
	DB *sql.DB
}

// NewPermissionRepo returns a new PermissionRepo bound to the given database.
func NewPermissionRepo(db *sql.DB) *PermissionRepo { return &PermissionRepo{DB: db} }

const permissionColumns = `id, name, slug, resource, action, description, created_at, updated_at`

func scanPermission(row interface{ Scan(...any) error }) (model.Permission, error) {
	var p model.Permission
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Resource, &p.Action,
		&p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a permission. Resource and action are normalised to
// lower case so the uniqueness check cannot be dodged by casing.
// Returns ErrConflict on a duplicate slug or (resource, action) pair.
func (r *PermissionRepo) Create(ctx context.Context, name, slug, resource, action string, description *string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO permissions (name, slug, resource, action, description) VALUES (?, ?, ?, ?, ?)`,
		name, slug, strings.ToLower(resource), strings.ToLower(action), description)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID loads a permission by primary key.
func (r *PermissionRepo) GetByID(ctx context.Context, id uint64) (model.Permission, error) {
	p, err := scanPermission(r.DB.QueryRowContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Permission{}, ErrNotFound
	}
	return p, err
}

// List returns one page of permissions ordered by resource/action plus
// the total count.
func (r *PermissionRepo) List(ctx context.Context, offset, limit int) ([]model.Permission, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM permissions`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions ORDER BY resource, action LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	perms := make([]model.Permission, 0, limit)
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, 0, err
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return perms, total, nil
}

// Update changes the descriptive fields of a permission. Resource and
// action stay fixed; a permission that needs a different pair is a new
// permission.
func (r *PermissionRepo) Update(ctx context.Context, id uint64, name string, description *string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE permissions SET name = ?, description = ? WHERE id = ?`, name, description, id)
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

// Delete removes a permission and, via cascade, every grant of it.
func (r *PermissionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM permissions WHERE id = ?`, id)
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
