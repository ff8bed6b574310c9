package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/go-redis/redismock/v9"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-booking/internal/config"
)

func cacheTestConfig() config.CacheConfig {
    return config.CacheConfig{
        Enabled:     true,
        Methods:     map[string]bool{"GET": true},
        TTL:         time.Minute,
        KeyStrategy: "route_query",
        Prefix:      "cache",
    }
}

func newCacheContext(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodGet, target, nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/movies")
    return c, rec
}

func TestCacheMissStoresResponse(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    e := echo.New()
    c, rec := newCacheContext(e, "/v1/movies")

    key := cacheKeyFrom(cacheTestConfig(), c)
    mock.ExpectGet(key).RedisNil()
    mock.Regexp().ExpectSetEx(key, `(?s).*`, time.Minute).SetVal("OK")

    mw := NewRedisCache(cacheTestConfig(), rdb)
    handler := mw(func(c echo.Context) error {
        return c.JSON(http.StatusOK, map[string]string{"title": "Dune"})
    })

    require.NoError(t, handler(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
    assert.Contains(t, rec.Body.String(), "Dune")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheHitServesStoredResponse(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    e := echo.New()
    c, rec := newCacheContext(e, "/v1/movies")

    hdr := http.Header{"Content-Type": []string{"application/json"}}
    payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"title":"Dune"}`))
    require.NoError(t, err)

    key := cacheKeyFrom(cacheTestConfig(), c)
    mock.ExpectGet(key).SetVal(string(payload))

    handlerCalled := false
    mw := NewRedisCache(cacheTestConfig(), rdb)
    handler := mw(func(c echo.Context) error {
        handlerCalled = true
        return c.NoContent(http.StatusInternalServerError)
    })

    require.NoError(t, handler(c))
    assert.False(t, handlerCalled)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
    assert.Equal(t, `{"title":"Dune"}`, rec.Body.String())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSkipsUncachedMethods(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/movies", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/movies")

    mw := NewRedisCache(cacheTestConfig(), rdb)
    handler := mw(func(c echo.Context) error {
        return c.NoContent(http.StatusCreated)
    })

    require.NoError(t, handler(c))
    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.Empty(t, rec.Header().Get("X-Cache"))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheKeyVariesByRequestPath(t *testing.T) {
    e := echo.New()
    cfg := cacheTestConfig()

    req5 := httptest.NewRequest(http.MethodGet, "/v1/showtimes/5/seats", nil)
    c5 := e.NewContext(req5, httptest.NewRecorder())
    c5.SetPath("/v1/showtimes/:id/seats")

    req6 := httptest.NewRequest(http.MethodGet, "/v1/showtimes/6/seats", nil)
    c6 := e.NewContext(req6, httptest.NewRecorder())
    c6.SetPath("/v1/showtimes/:id/seats")

    assert.NotEqual(t, cacheKeyFrom(cfg, c5), cacheKeyFrom(cfg, c6))
}

func TestCacheDoesNotServeAcrossSeatMaps(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    e := echo.New()

    // Showtime 5's seat map is already cached under its own key.
    req := httptest.NewRequest(http.MethodGet, "/v1/showtimes/6/seats", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/showtimes/:id/seats")

    key := cacheKeyFrom(cacheTestConfig(), c)
    mock.ExpectGet(key).RedisNil()
    mock.Regexp().ExpectSetEx(key, `(?s).*`, time.Minute).SetVal("OK")

    handlerCalled := false
    mw := NewRedisCache(cacheTestConfig(), rdb)
    handler := mw(func(c echo.Context) error {
        handlerCalled = true
        return c.JSON(http.StatusOK, map[string]uint64{"showtime_id": 6})
    })

    require.NoError(t, handler(c))
    assert.True(t, handlerCalled)
    assert.Contains(t, rec.Body.String(), `"showtime_id":6`)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSkipsAuthenticatedRequests(t *testing.T) {
    rdb, mock := redismock.NewClientMock()
    e := echo.New()

    req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
    req.Header.Set("Authorization", "Bearer some-token")
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/bookings")

    mw := NewRedisCache(cacheTestConfig(), rdb)
    handler := mw(func(c echo.Context) error {
        return c.JSON(http.StatusOK, map[string]string{"mine": "only"})
    })

    require.NoError(t, handler(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, rec.Header().Get("X-Cache"))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheDisabledPassesThrough(t *testing.T) {
    cfg := cacheTestConfig()
    cfg.Enabled = false

    e := echo.New()
    c, rec := newCacheContext(e, "/v1/movies")

    mw := NewRedisCache(cfg, nil)
    handler := mw(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })

    require.NoError(t, handler(c))
    assert.Equal(t, http.StatusOK, rec.Code)
}
