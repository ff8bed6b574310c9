package handler // handler defines http handlers

import (
    "errors"
    "log"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking/internal/repository"
    "github.com/iliyamo/cinema-booking/internal/service"
)

// getUserID extracts the authenticated user's ID stored by the JWT
// middleware. A zero return with an error means the middleware did not
// run or the token carried no usable subject.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// paramID parses a numeric path parameter. Returns 0 when missing or
// not a positive integer.
func paramID(c echo.Context, name string) uint64 {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil {
        return 0
    }
    return n
}

// paramValue parses a numeric string from a query parameter the same
// way paramID handles path parameters.
func paramValue(s string) uint64 {
    n, err := strconv.ParseUint(s, 10, 64)
    if err != nil {
        return 0
    }
    return n
}

// pagination reads ?page= and ?limit= with sane defaults and caps, and
// returns the offset/limit pair the repositories expect.
func pagination(c echo.Context) (offset, limit int) {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    if page < 1 {
        page = 1
    }
    limit, _ = strconv.Atoi(c.QueryParam("limit"))
    if limit < 1 {
        limit = 20
    }
    if limit > 100 {
        limit = 100
    }
    return (page - 1) * limit, limit
}

// listResp is the envelope for all paginated listings.
type listResp struct {
    Data  any `json:"data"`
    Total int `json:"total"`
}

// jsonError maps repository and service errors to HTTP responses so
// every handler reports the same shape for the same failure.
func jsonError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, repository.ErrSeatUnavailable):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seat unavailable"})
    case errors.Is(err, repository.ErrBookingExpired):
        return c.JSON(http.StatusGone, echo.Map{"error": "booking expired"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
    case errors.Is(err, repository.ErrEmailExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
    case errors.Is(err, service.ErrNoSeats),
        errors.Is(err, service.ErrTooManySeats),
        errors.Is(err, service.ErrDuplicateSeat),
        errors.Is(err, service.ErrShowtimeNotBookable),
        errors.Is(err, service.ErrAmountMismatch):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrNotPending):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    log.Printf("handler: %s %s: unexpected error: %v",
        c.Request().Method, c.Request().URL.Path, err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
