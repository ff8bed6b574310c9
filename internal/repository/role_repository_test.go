package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roleRow(id uint64, name, slug string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "slug", "description", "created_at", "updated_at"}).
		AddRow(id, name, slug, nil, now, now)
}

func TestSyncPermissionsReplacesSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM roles WHERE id").
		WillReturnRows(roleRow(3, "Staff", "staff"))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM role_permissions WHERE role_id").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO role_permissions").
		WithArgs(uint64(3), uint64(10), uint64(3), uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := NewRoleRepo(db)
	err = repo.SyncPermissions(context.Background(), 3, []uint64{10, 11})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncPermissionsEmptyClearsGrants(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM roles WHERE id").
		WillReturnRows(roleRow(3, "Staff", "staff"))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM role_permissions WHERE role_id").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 5))
	// No insert follows for an empty set.
	mock.ExpectCommit()

	repo := NewRoleRepo(db)
	require.NoError(t, repo.SyncPermissions(context.Background(), 3, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncPermissionsUnknownRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM roles WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "description", "created_at", "updated_at"}))

	repo := NewRoleRepo(db)
	err = repo.SyncPermissions(context.Background(), 99, []uint64{1})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasPermissionLowercasesPair(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint64(5), "movies", "write").
		WillReturnRows(sqlmock.NewRows([]string{"ok"}).AddRow(true))

	repo := NewRoleRepo(db)
	ok, err := repo.HasPermission(context.Background(), 5, "Movies", "WRITE")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
