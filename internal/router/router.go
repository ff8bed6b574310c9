package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/iliyamo/cinema-booking/internal/handler"
    "github.com/iliyamo/cinema-booking/internal/middleware"
    "github.com/iliyamo/cinema-booking/internal/repository"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
    Auth      *handler.AuthHandler
    Users     *handler.UserHandler
    Roles     *handler.RoleHandler
    Perms     *handler.PermissionHandler
    Cinemas   *handler.CinemaHandler
    Movies    *handler.MovieHandler
    Showtimes *handler.ShowtimeHandler
    Bookings  *handler.BookingHandler
    Tickets   *handler.TicketHandler
}

// Register wires the full route table. Three tiers:
//
//   - public: health, metrics, auth, and read-only catalogue browsing
//   - authenticated (/v1 + JWT): profile, bookings, own tickets
//   - permission-guarded: admin/staff writes, each behind the
//     (resource, action) permission named on the route
func Register(e *echo.Echo, h Handlers, roleRepo *repository.RoleRepo, jwtSecret string) {
    e.GET("/healthz", handler.Health)
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

    // ---- Auth ----
    ag := e.Group("/v1/auth")
    ag.POST("/register", h.Auth.Register)
    ag.POST("/login", h.Auth.Login)
    ag.POST("/refresh", h.Auth.Refresh)
    ag.POST("/logout", h.Auth.Logout)

    // ---- Public browsing ----
    e.GET("/v1/cinemas", h.Cinemas.List)
    e.GET("/v1/cinemas/:id", h.Cinemas.Get)
    e.GET("/v1/cinemas/:id/rooms", h.Cinemas.ListRooms)
    e.GET("/v1/rooms/:room_id", h.Cinemas.GetRoom)
    e.GET("/v1/movies", h.Movies.List)
    e.GET("/v1/movies/:id", h.Movies.Get)
    e.GET("/v1/showtimes", h.Showtimes.List)
    e.GET("/v1/showtimes/:id", h.Showtimes.Get)
    e.GET("/v1/showtimes/:id/seats", h.Showtimes.SeatMap)

    // ---- Authenticated ----
    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    auth.GET("/me", h.Auth.Me)
    auth.POST("/bookings", h.Bookings.Create)
    auth.GET("/bookings", h.Bookings.List)
    auth.GET("/bookings/:id", h.Bookings.Get)
    auth.POST("/bookings/:id/cancel", h.Bookings.Cancel)
    auth.POST("/bookings/:id/pay", h.Bookings.Pay)
    auth.GET("/tickets/:code", h.Tickets.Get)

    perm := func(resource, action string) echo.MiddlewareFunc {
        return middleware.RequirePermission(roleRepo, resource, action)
    }

    // ---- User administration ----
    auth.POST("/users", h.Users.Create, perm("users", "write"))
    auth.GET("/users", h.Users.List, perm("users", "read"))
    auth.GET("/users/:id", h.Users.Get, perm("users", "read"))
    auth.PATCH("/users/:id", h.Users.Update, perm("users", "write"))
    auth.DELETE("/users/:id", h.Users.Delete, perm("users", "write"))
    auth.POST("/users/:id/roles", h.Users.AssignRole, perm("users", "write"))
    auth.DELETE("/users/:id/roles/:role_id", h.Users.RemoveRole, perm("users", "write"))

    // ---- RBAC administration ----
    auth.POST("/roles", h.Roles.Create, perm("roles", "write"))
    auth.GET("/roles", h.Roles.List, perm("roles", "read"))
    auth.GET("/roles/:id", h.Roles.Get, perm("roles", "read"))
    auth.PATCH("/roles/:id", h.Roles.Update, perm("roles", "write"))
    auth.DELETE("/roles/:id", h.Roles.Delete, perm("roles", "write"))
    auth.PUT("/roles/:id/permissions", h.Roles.SyncPermissions, perm("roles", "write"))

    auth.POST("/permissions", h.Perms.Create, perm("permissions", "write"))
    auth.GET("/permissions", h.Perms.List, perm("permissions", "read"))
    auth.GET("/permissions/:id", h.Perms.Get, perm("permissions", "read"))
    auth.PATCH("/permissions/:id", h.Perms.Update, perm("permissions", "write"))
    auth.DELETE("/permissions/:id", h.Perms.Delete, perm("permissions", "write"))

    // ---- Catalogue administration ----
    auth.POST("/cinemas", h.Cinemas.Create, perm("cinemas", "write"))
    auth.PATCH("/cinemas/:id", h.Cinemas.Update, perm("cinemas", "write"))
    auth.DELETE("/cinemas/:id", h.Cinemas.Delete, perm("cinemas", "write"))
    auth.POST("/cinemas/:id/rooms", h.Cinemas.CreateRoom, perm("cinemas", "write"))
    auth.DELETE("/rooms/:room_id", h.Cinemas.DeleteRoom, perm("cinemas", "write"))
    auth.PATCH("/seats/:seat_id", h.Cinemas.UpdateSeat, perm("cinemas", "write"))

    auth.POST("/movies", h.Movies.Create, perm("movies", "write"))
    auth.PATCH("/movies/:id", h.Movies.Update, perm("movies", "write"))
    auth.DELETE("/movies/:id", h.Movies.Delete, perm("movies", "write"))

    auth.POST("/showtimes", h.Showtimes.Create, perm("showtimes", "write"))
    auth.PATCH("/showtimes/:id/status", h.Showtimes.UpdateStatus, perm("showtimes", "write"))
    auth.POST("/showtimes/:id/seats/:seat_id/block", h.Showtimes.BlockSeat, perm("showtimes", "write"))

    // ---- Gate ----
    auth.POST("/tickets/:code/use", h.Tickets.Use, perm("tickets", "use"))
}
