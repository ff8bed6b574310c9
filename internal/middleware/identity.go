package middleware

// identity.go defines helper functions shared across middleware files. It
// provides a user identifier used in rate-limit keys: the uint64 stored by
// JWTAuth rendered as a string, or "anon" for unauthenticated requests.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user's ID for key building. It
// returns "anon" when no user is authenticated.
func currentUserID(c echo.Context) string {
    if v := c.Get("user_id"); v != nil {
        if id, ok := v.(uint64); ok && id > 0 {
            return strconv.FormatUint(id, 10)
        }
        if s, ok := v.(string); ok && s != "" {
            return s
        }
    }
    return "anon"
}
