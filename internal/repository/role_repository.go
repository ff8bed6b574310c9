package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// RoleRepo provides CRUD for roles plus the user_roles and
// role_permissions join tables. Permission resolution is flat: a user
// holds exactly the union of the permissions granted to their roles,
// with no inheritance between roles.
type RoleRepo struct {
	DB *sql.DB
}

// NewRoleRepo returns a new RoleRepo bound to the given database.
func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

const roleColumns = `id, name, slug, description, created_at, updated_at`

func scanRole(row interface{ Scan(...any) error }) (model.Role, error) {
	var ro model.Role
	err := row.Scan(&ro.ID, &ro.Name, &ro.Slug, &ro.Description, &ro.CreatedAt, &ro.UpdatedAt)
	return ro, err
}

// Create inserts a role. Returns ErrConflict when the name or slug is
// already taken.
func (r *RoleRepo) Create(ctx context.Context, name, slug string, description *string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO roles (name, slug, description) VALUES (?, ?, ?)`,
		name, slug, description)
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

// GetByID loads a role by primary key. Returns ErrNotFound when absent.
func (r *RoleRepo) GetByID(ctx context.Context, id uint64) (model.Role, error) {
	ro, err := scanRole(r.DB.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Role{}, ErrNotFound
	}
	return ro, err
}

// GetBySlug loads a role by its slug.
func (r *RoleRepo) GetBySlug(ctx context.Context, slug string) (model.Role, error) {
	ro, err := scanRole(r.DB.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE slug = ?`, slug))
	if err == sql.ErrNoRows {
		return model.Role{}, ErrNotFound
	}
	return ro, err
}

// List returns one page of roles ordered by ID plus the total count.
func (r *RoleRepo) List(ctx context.Context, offset, limit int) ([]model.Role, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	roles := make([]model.Role, 0, limit)
	for rows.Next() {
		ro, err := scanRole(rows)
		if err != nil {
			return nil, 0, err
		}
		roles = append(roles, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

// Update changes name/description of a role. The slug is immutable once
// created because seed data and clients reference it.
func (r *RoleRepo) Update(ctx context.Context, id uint64, name string, description *string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE roles SET name = ?, description = ? WHERE id = ?`, name, description, id)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
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

// Delete removes a role. The user_roles and role_permissions rows go
// with it via ON DELETE CASCADE.
func (r *RoleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
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

// SyncPermissions replaces a role's full permission set inside one
// transaction: delete everything, then insert the new grants. Syncing
// to an empty slice therefore clears all grants and leaves no stale
// rows behind. Unknown permission IDs fail the whole sync.
func (r *RoleRepo) SyncPermissions(ctx context.Context, roleID uint64, permissionIDs []uint64) error {
	if _, err := r.GetByID(ctx, roleID); err != nil {
		return err
	}
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
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM role_permissions WHERE role_id = ?`, roleID); err != nil {
		return err
	}
	if len(permissionIDs) > 0 {
		query := `INSERT INTO role_permissions (role_id, permission_id) VALUES `
		args := make([]any, 0, len(permissionIDs)*2)
		for i, pid := range permissionIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, roleID, pid)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			// Duplicate IDs in the request hit the unique
			// (role_id, permission_id) key; missing IDs hit the FK.
			if isDuplicateKey(err) {
				return ErrConflict
			}
			return ErrNotFound
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListPermissions returns all permissions granted to a role ordered by
// resource then action.
func (r *RoleRepo) ListPermissions(ctx context.Context, roleID uint64) ([]model.Permission, error) {
	const q = `SELECT p.id, p.name, p.slug, p.resource, p.action, p.description, p.created_at, p.updated_at
	           FROM role_permissions rp
	           JOIN permissions p ON p.id = rp.permission_id
	           WHERE rp.role_id = ?
	           ORDER BY p.resource, p.action`
	rows, err := r.DB.QueryContext(ctx, q, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	perms := make([]model.Permission, 0)
	for rows.Next() {
		var p model.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Resource, &p.Action,
			&p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// AssignToUser grants a role to a user. Granting the same role twice is
// a no-op thanks to INSERT IGNORE against the unique (user, role) key.
func (r *RoleRepo) AssignToUser(ctx context.Context, userID, roleID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT IGNORE INTO user_roles (user_id, role_id) VALUES (?, ?)`, userID, roleID)
	return err
}

// RemoveFromUser revokes a role from a user.
func (r *RoleRepo) RemoveFromUser(ctx context.Context, userID, roleID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = ? AND role_id = ?`, userID, roleID)
	return err
}

// ListForUser returns the slugs of all roles held by a user. The slugs
// end up in the JWT so that middleware can do cheap role checks without
// a query per request.
func (r *RoleRepo) ListForUser(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.slug FROM user_roles ur JOIN roles r ON r.id = ur.role_id WHERE ur.user_id = ? ORDER BY r.slug`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}

// HasPermission resolves whether any of the user's roles grants the
// (resource, action) pair. This is the single RBAC decision point used
// by the permission middleware.
func (r *RoleRepo) HasPermission(ctx context.Context, userID uint64, resource, action string) (bool, error) {
	const q = `SELECT EXISTS (
	               SELECT 1
	               FROM user_roles ur
	               JOIN role_permissions rp ON rp.role_id = ur.role_id
	               JOIN permissions p ON p.id = rp.permission_id
	               WHERE ur.user_id = ? AND p.resource = ? AND p.action = ?)`
	var ok bool
	err := r.DB.QueryRowContext(ctx, q, userID,
		strings.ToLower(resource), strings.ToLower(action)).Scan(&ok)
	return ok, err
}
