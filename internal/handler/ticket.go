package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking/internal/repository"
)

// TicketHandler serves ticket lookup for customers and the gate-scan
// endpoint for staff.
type TicketHandler struct {
    Tickets  *repository.TicketRepo
    Bookings *repository.BookingRepo
}

func NewTicketHandler(t *repository.TicketRepo, b *repository.BookingRepo) *TicketHandler {
    return &TicketHandler{Tickets: t, Bookings: b}
}

// Get returns one of the caller's tickets by code, including the QR
// PNG base64-encoded by the JSON marshaller.
func (h *TicketHandler) Get(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    code := strings.TrimSpace(c.Param("code"))
    if code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
    }
    ctx := c.Request().Context()
    t, err := h.Tickets.GetByCode(ctx, code)
    if err != nil {
        return jsonError(c, err)
    }
    b, err := h.Bookings.GetByID(ctx, t.BookingID)
    if err != nil {
        return jsonError(c, err)
    }
    if b.UserID != uid {
        return jsonError(c, repository.ErrForbidden)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "code":        t.Code,
        "seat_code":   t.SeatCode,
        "showtime_id": t.ShowtimeID,
        "status":      t.Status,
        "used_at":     t.UsedAt,
        "qr_code":     t.QRCode,
    })
}

// Use consumes a ticket at the gate, flipping valid→used exactly once.
// A second scan of the same code gets 409.
func (h *TicketHandler) Use(c echo.Context) error {
    code := strings.TrimSpace(c.Param("code"))
    if code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
    }
    ctx := c.Request().Context()
    if err := h.Tickets.MarkUsed(ctx, code); err != nil {
        if err == repository.ErrConflict {
            // Distinguish an unknown code from an already-used one.
            if _, lookupErr := h.Tickets.GetByCode(ctx, code); lookupErr == repository.ErrNotFound {
                return jsonError(c, repository.ErrNotFound)
            }
            return c.JSON(http.StatusConflict, echo.Map{"error": "ticket already used or cancelled"})
        }
        return jsonError(c, err)
    }
    t, err := h.Tickets.GetByCode(ctx, code)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "code":      t.Code,
        "seat_code": t.SeatCode,
        "status":    t.Status,
        "used_at":   t.UsedAt,
    })
}
