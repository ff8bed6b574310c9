package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/cinema-booking/internal/model"
    "github.com/iliyamo/cinema-booking/internal/repository"
)

// ShowtimeHandler schedules movies into rooms and exposes the public
// per-seat availability map.
type ShowtimeHandler struct {
    Showtimes *repository.ShowtimeRepo
    Seats     *repository.ShowtimeSeatRepo
    Movies    *repository.MovieRepo
    Rooms     *repository.RoomRepo
}

func NewShowtimeHandler(st *repository.ShowtimeRepo, se *repository.ShowtimeSeatRepo, mo *repository.MovieRepo, ro *repository.RoomRepo) *ShowtimeHandler {
    return &ShowtimeHandler{Showtimes: st, Seats: se, Movies: mo, Rooms: ro}
}

type showtimeReq struct {
    MovieID   uint64 `json:"movie_id"`
    RoomID    uint64 `json:"room_id"`
    Date      string `json:"date"`       // "2006-01-02"
    StartTime string `json:"start_time"` // "15:04"
    BasePrice string `json:"base_price"` // decimal string, e.g. "12.50"
}

// Create schedules a showtime and generates its seat availability map.
// The end time is derived from the movie's duration plus a cleaning
// buffer.
func (h *ShowtimeHandler) Create(c echo.Context) error {
    var req showtimeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.MovieID == 0 || req.RoomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id/room_id required"})
    }
    date, err := time.Parse("2006-01-02", req.Date)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    start, err := time.Parse("15:04", req.StartTime)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM"})
    }
    base, err := decimal.NewFromString(req.BasePrice)
    if err != nil || base.IsNegative() || base.IsZero() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price must be a positive decimal"})
    }

    ctx := c.Request().Context()
    m, err := h.Movies.GetByID(ctx, req.MovieID)
    if err != nil {
        return jsonError(c, err)
    }
    if _, err := h.Rooms.GetByID(ctx, req.RoomID); err != nil {
        return jsonError(c, err)
    }

    // 15 minutes of cleaning between shows.
    end := start.Add(time.Duration(m.DurationMinutes)*time.Minute + 15*time.Minute)
    st := model.Showtime{
        MovieID:   req.MovieID,
        RoomID:    req.RoomID,
        Date:      date,
        StartTime: start.Format("15:04:05"),
        EndTime:   end.Format("15:04:05"),
        BasePrice: base.Round(2),
        Status:    model.ShowtimeStatusActive,
    }
    if err := h.Showtimes.Create(ctx, &st); err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusCreated, st)
}

// List returns showtimes filtered by ?movie_id= and/or ?date=.
func (h *ShowtimeHandler) List(c echo.Context) error {
    var movieID uint64
    if v := c.QueryParam("movie_id"); v != "" {
        movieID = paramValue(v)
        if movieID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie_id"})
        }
    }
    date := c.QueryParam("date")
    if date != "" {
        if _, err := time.Parse("2006-01-02", date); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
        }
    }
    offset, limit := pagination(c)
    showtimes, total, err := h.Showtimes.List(c.Request().Context(), movieID, date, offset, limit)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, listResp{Data: showtimes, Total: total})
}

// Get returns one showtime.
func (h *ShowtimeHandler) Get(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    st, err := h.Showtimes.GetByID(c.Request().Context(), id)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, st)
}

// SeatMap returns the public per-seat availability of a showtime.
// Statuses only; who holds a seat is never exposed.
func (h *ShowtimeHandler) SeatMap(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    seats, err := h.Seats.ListByShowtime(c.Request().Context(), id)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"showtime_id": id, "seats": seats})
}

type showtimeStatusReq struct {
    Status string `json:"status"`
}

// UpdateStatus flips a showtime's lifecycle status.
func (h *ShowtimeHandler) UpdateStatus(c echo.Context) error {
    id := paramID(c, "id")
    var req showtimeStatusReq
    if err := c.Bind(&req); err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    switch req.Status {
    case model.ShowtimeStatusActive, model.ShowtimeStatusCancelled,
        model.ShowtimeStatusEnded, model.ShowtimeStatusSoldOut:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }
    if err := h.Showtimes.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// BlockSeat marks an available showtime seat as blocked.
func (h *ShowtimeHandler) BlockSeat(c echo.Context) error {
    id := paramID(c, "id")
    seatID := paramID(c, "seat_id")
    if id == 0 || seatID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Seats.Block(c.Request().Context(), id, seatID); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
