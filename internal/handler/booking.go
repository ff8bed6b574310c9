package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/cinema-booking/internal/model"
    "github.com/iliyamo/cinema-booking/internal/repository"
    "github.com/iliyamo/cinema-booking/internal/service"
)

// BookingHandler exposes the customer booking flow: claim seats, pay,
// cancel, and inspect one's own bookings.
type BookingHandler struct {
    Service  *service.BookingService
    Bookings *repository.BookingRepo
    Tickets  *repository.TicketRepo
    Txns     *repository.TransactionRepo
}

func NewBookingHandler(s *service.BookingService, b *repository.BookingRepo, t *repository.TicketRepo, tr *repository.TransactionRepo) *BookingHandler {
    return &BookingHandler{Service: s, Bookings: b, Tickets: t, Txns: tr}
}

type createBookingReq struct {
    ShowtimeID uint64   `json:"showtime_id"`
    SeatIDs    []uint64 `json:"seat_ids"` // showtime_seat IDs
}

type bookingResp struct {
    ID         uint64              `json:"id"`
    Code       string              `json:"code"`
    ShowtimeID uint64              `json:"showtime_id"`
    Status     string              `json:"status"`
    IsPaid     bool                `json:"is_paid"`
    TotalSeats uint32              `json:"total_seats"`
    Subtotal   string              `json:"subtotal"`
    FinalPrice string              `json:"final_price"`
    ExpiresAt  string              `json:"expires_at"`
    Items      []bookingItemResp   `json:"items,omitempty"`
}

type bookingItemResp struct {
    SeatCode string `json:"seat_code"`
    SeatType string `json:"seat_type"`
    Price    string `json:"price"`
}

func toBookingResp(b model.Booking, items []model.BookingItem) bookingResp {
    out := bookingResp{
        ID:         b.ID,
        Code:       b.Code,
        ShowtimeID: b.ShowtimeID,
        Status:     b.Status,
        IsPaid:     b.IsPaid,
        TotalSeats: b.TotalSeats,
        Subtotal:   b.Subtotal.StringFixed(2),
        FinalPrice: b.FinalPrice.StringFixed(2),
        ExpiresAt:  b.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
    }
    for _, it := range items {
        out.Items = append(out.Items, bookingItemResp{
            SeatCode: it.SeatCode, SeatType: it.SeatType, Price: it.Price.StringFixed(2),
        })
    }
    return out
}

// Create claims the requested seats and returns the pending booking
// with its hold deadline. 409 means at least one seat was taken first.
func (h *BookingHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createBookingReq
    if err := c.Bind(&req); err != nil || req.ShowtimeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id and seat_ids required"})
    }
    b, items, err := h.Service.Create(c.Request().Context(), uid, req.ShowtimeID, req.SeatIDs)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusCreated, toBookingResp(b, items))
}

// List returns the authenticated user's bookings, newest first.
func (h *BookingHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    offset, limit := pagination(c)
    bookings, total, err := h.Bookings.ListByUser(c.Request().Context(), uid, offset, limit)
    if err != nil {
        return jsonError(c, err)
    }
    out := make([]bookingResp, 0, len(bookings))
    for _, b := range bookings {
        out = append(out, toBookingResp(b, nil))
    }
    return c.JSON(http.StatusOK, listResp{Data: out, Total: total})
}

// Get returns one of the user's bookings with items, tickets and
// payment attempts. Other users' bookings return 403.
func (h *BookingHandler) Get(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    b, err := h.Bookings.GetByID(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    if b.UserID != uid {
        return jsonError(c, repository.ErrForbidden)
    }
    items, err := h.Bookings.ListItems(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    tickets, err := h.Tickets.ListByBooking(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    txns, err := h.Txns.ListByBooking(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    ticketOut := make([]echo.Map, 0, len(tickets))
    for _, t := range tickets {
        ticketOut = append(ticketOut, echo.Map{
            "code":      t.Code,
            "seat_code": t.SeatCode,
            "status":    t.Status,
        })
    }
    txnOut := make([]echo.Map, 0, len(txns))
    for _, t := range txns {
        txnOut = append(txnOut, echo.Map{
            "code":           t.Code,
            "payment_method": t.PaymentMethod,
            "amount":         t.Amount.StringFixed(2),
            "status":         t.Status,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "booking":      toBookingResp(b, items),
        "tickets":      ticketOut,
        "transactions": txnOut,
    })
}

// Cancel releases a pending booking on the owner's request.
func (h *BookingHandler) Cancel(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Service.Cancel(c.Request().Context(), uid, id); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

type payReq struct {
    PaymentMethod string `json:"payment_method"`
    Amount        string `json:"amount"`
    Success       *bool  `json:"success"` // gateway outcome; defaults to true
}

// Pay records the payment outcome reported by the gateway. Success
// confirms the booking and returns its tickets; failure records the
// attempt and leaves the booking pending for a retry.
func (h *BookingHandler) Pay(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id := paramID(c, "id")
    var req payReq
    if err := c.Bind(&req); err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.PaymentMethod == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method required"})
    }
    amount, err := decimal.NewFromString(req.Amount)
    if err != nil || amount.IsNegative() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be a non-negative decimal"})
    }

    if req.Success != nil && !*req.Success {
        if err := h.Service.FailPayment(c.Request().Context(), uid, id, req.PaymentMethod, amount); err != nil {
            return jsonError(c, err)
        }
        return c.JSON(http.StatusOK, echo.Map{"status": "failed"})
    }

    b, tickets, err := h.Service.ConfirmPayment(c.Request().Context(), uid, id, req.PaymentMethod, amount)
    if err != nil {
        return jsonError(c, err)
    }
    ticketOut := make([]echo.Map, 0, len(tickets))
    for _, t := range tickets {
        ticketOut = append(ticketOut, echo.Map{
            "code":      t.Code,
            "seat_code": t.SeatCode,
            "status":    t.Status,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "booking": toBookingResp(b, nil),
        "tickets": ticketOut,
    })
}
