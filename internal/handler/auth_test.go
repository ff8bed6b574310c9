package handler

import (
    "net/http"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-booking/internal/config"
    "github.com/iliyamo/cinema-booking/internal/repository"
    "github.com/iliyamo/cinema-booking/internal/utils"
)

func TestLogoutSingleSession(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
        WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
            AddRow(42, time.Now().UTC().Add(time.Hour), nil))
    mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
        WillReturnResult(sqlmock.NewResult(0, 1))

    h := NewAuthHandler(config.Config{JWTSecret: "secret"},
        repository.NewUserRepo(db), repository.NewTokenRepo(db), repository.NewRoleRepo(db))
    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/auth/logout",
        `{"refresh_token":"some-raw-refresh-token"}`)

    require.NoError(t, h.Logout(c))
    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutAllSessionsWithBearer(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
        WithArgs(uint64(42)).
        WillReturnResult(sqlmock.NewResult(0, 3))

    access, err := utils.NewAccessToken("secret", 42, []string{"customer"}, 15)
    require.NoError(t, err)

    h := NewAuthHandler(config.Config{JWTSecret: "secret"},
        repository.NewUserRepo(db), repository.NewTokenRepo(db), repository.NewRoleRepo(db))
    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/auth/logout", `{}`)
    c.Request().Header.Set("Authorization", "Bearer "+access.Token)

    require.NoError(t, h.Logout(c))
    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutWithoutCredentials(t *testing.T) {
    db, _, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewAuthHandler(config.Config{JWTSecret: "secret"},
        repository.NewUserRepo(db), repository.NewTokenRepo(db), repository.NewRoleRepo(db))
    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/auth/logout", `{}`)

    require.NoError(t, h.Logout(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutAllRejectsForgedBearer(t *testing.T) {
    db, _, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    access, err := utils.NewAccessToken("other-secret", 42, nil, 15)
    require.NoError(t, err)

    h := NewAuthHandler(config.Config{JWTSecret: "secret"},
        repository.NewUserRepo(db), repository.NewTokenRepo(db), repository.NewRoleRepo(db))
    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/auth/logout", `{}`)
    c.Request().Header.Set("Authorization", "Bearer "+access.Token)

    require.NoError(t, h.Logout(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}
