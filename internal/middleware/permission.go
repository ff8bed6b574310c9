package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking/internal/repository"
)

// RequirePermission returns a middleware that enforces that the
// authenticated user holds a role granting the given resource/action
// pair.  The check always hits the database rather than trusting the
// roles claim in the JWT, so revoking a role or permission takes effect
// on the next request instead of at token expiry.  It assumes JWTAuth
// ran earlier and stored the user ID in the context.
func RequirePermission(roles *repository.RoleRepo, resource, action string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            uid, ok := c.Get("user_id").(uint64)
            if !ok || uid == 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            allowed, err := roles.HasPermission(c.Request().Context(), uid, resource, action)
            if err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "permission check failed"})
            }
            if !allowed {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
