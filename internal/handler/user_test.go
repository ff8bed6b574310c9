package handler

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-booking/internal/repository"
)

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func TestUserCreateProvisionsAccount(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectExec("INSERT INTO users").
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectExec("UPDATE users SET").
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery("SELECT (.+) FROM roles WHERE id").
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "description", "created_at", "updated_at"}).
            AddRow(3, "Staff", "staff", nil, time.Now(), time.Now()))
    mock.ExpectExec("INSERT IGNORE INTO user_roles").
        WithArgs(uint64(7), uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery("SELECT r.slug FROM user_roles").
        WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("staff"))

    h := NewUserHandler(repository.NewUserRepo(db), repository.NewRoleRepo(db), repository.NewTokenRepo(db), 4)
    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/users",
        `{"email":"Staff@Cinema.io","password":"s3cret-pass","name":"Pat","role_ids":[3]}`)

    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.Contains(t, rec.Body.String(), `"staff@cinema.io"`)
    assert.Contains(t, rec.Body.String(), `"staff"`)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectExec("INSERT INTO users").
        WillReturnError(&mysql.MySQLError{Number: 1062})

    h := NewUserHandler(repository.NewUserRepo(db), repository.NewRoleRepo(db), repository.NewTokenRepo(db), 4)
    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/users",
        `{"email":"dup@cinema.io","password":"s3cret-pass"}`)

    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateValidation(t *testing.T) {
    db, _, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewUserHandler(repository.NewUserRepo(db), repository.NewRoleRepo(db), repository.NewTokenRepo(db), 4)
    e := echo.New()

    c, rec := jsonContext(e, http.MethodPost, "/v1/users", `{"email":"x@y.io"}`)
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    c, rec = jsonContext(e, http.MethodPost, "/v1/users", `{"email":"x@y.io","password":"short"}`)
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}
