package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-booking/internal/repository"
    "github.com/iliyamo/cinema-booking/internal/utils"
)

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestJWTAuthInjectsIdentity(t *testing.T) {
    access, err := utils.NewAccessToken("secret", 42, []string{"customer"}, 15)
    require.NoError(t, err)

    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
    req.Header.Set("Authorization", "Bearer "+access.Token)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    handler := JWTAuth("secret")(func(c echo.Context) error {
        assert.Equal(t, uint64(42), c.Get("user_id"))
        assert.Equal(t, []string{"customer"}, c.Get("roles"))
        return c.NoContent(http.StatusOK)
    })

    require.NoError(t, handler(c))
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    require.NoError(t, JWTAuth("secret")(okHandler)(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsBadSignature(t *testing.T) {
    access, err := utils.NewAccessToken("other-secret", 42, nil, 15)
    require.NoError(t, err)

    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
    req.Header.Set("Authorization", "Bearer "+access.Token)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    require.NoError(t, JWTAuth("secret")(okHandler)(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func permContext(t *testing.T, uid interface{}) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if uid != nil {
        c.Set("user_id", uid)
    }
    return c, rec
}

func TestRequirePermissionAllows(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("SELECT EXISTS").
        WithArgs(uint64(42), "users", "read").
        WillReturnRows(sqlmock.NewRows([]string{"allowed"}).AddRow(1))

    c, rec := permContext(t, uint64(42))
    mw := RequirePermission(repository.NewRoleRepo(db), "users", "read")
    require.NoError(t, mw(okHandler)(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequirePermissionDenies(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("SELECT EXISTS").
        WithArgs(uint64(42), "users", "write").
        WillReturnRows(sqlmock.NewRows([]string{"allowed"}).AddRow(0))

    c, rec := permContext(t, uint64(42))
    mw := RequirePermission(repository.NewRoleRepo(db), "users", "write")
    require.NoError(t, mw(okHandler)(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequirePermissionWithoutIdentity(t *testing.T) {
    db, _, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    c, rec := permContext(t, nil)
    mw := RequirePermission(repository.NewRoleRepo(db), "users", "read")
    require.NoError(t, mw(okHandler)(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
