package handler

import (
    "bytes"
    "errors"
    "log"
    "net/http"
    "net/http/httptest"
    "os"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-booking/internal/repository"
)

func errContext(e *echo.Echo) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodGet, "/v1/bookings/1", nil)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func TestJSONErrorStatusMapping(t *testing.T) {
    e := echo.New()

    c, rec := errContext(e)
    require.NoError(t, jsonError(c, repository.ErrNotFound))
    assert.Equal(t, http.StatusNotFound, rec.Code)

    c, rec = errContext(e)
    require.NoError(t, jsonError(c, repository.ErrBookingExpired))
    assert.Equal(t, http.StatusGone, rec.Code)

    c, rec = errContext(e)
    require.NoError(t, jsonError(c, repository.ErrSeatUnavailable))
    assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestJSONErrorLogsUnexpected(t *testing.T) {
    var buf bytes.Buffer
    log.SetOutput(&buf)
    defer log.SetOutput(os.Stderr)

    e := echo.New()
    c, rec := errContext(e)
    require.NoError(t, jsonError(c, errors.New("driver: bad connection")))

    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    assert.Contains(t, buf.String(), "driver: bad connection")
    assert.Contains(t, rec.Body.String(), "internal error")
}

func TestPagination(t *testing.T) {
    e := echo.New()

    req := httptest.NewRequest(http.MethodGet, "/v1/users?page=3&limit=50", nil)
    c := e.NewContext(req, httptest.NewRecorder())
    offset, limit := pagination(c)
    assert.Equal(t, 100, offset)
    assert.Equal(t, 50, limit)

    req = httptest.NewRequest(http.MethodGet, "/v1/users?limit=9999", nil)
    c = e.NewContext(req, httptest.NewRecorder())
    offset, limit = pagination(c)
    assert.Equal(t, 0, offset)
    assert.Equal(t, 100, limit)
}
