package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking/internal/model"
    "github.com/iliyamo/cinema-booking/internal/repository"
)

// CinemaHandler exposes cinema CRUD plus the rooms nested under a
// cinema. Reads are public; writes sit behind the cinemas:write
// permission in the router.
type CinemaHandler struct {
    Cinemas *repository.CinemaRepo
    Rooms   *repository.RoomRepo
}

func NewCinemaHandler(ci *repository.CinemaRepo, ro *repository.RoomRepo) *CinemaHandler {
    return &CinemaHandler{Cinemas: ci, Rooms: ro}
}

type cinemaReq struct {
    Name    string  `json:"name"`
    Code    string  `json:"code"`
    Slug    string  `json:"slug"`
    Address string  `json:"address"`
    City    string  `json:"city"`
    Phone   *string `json:"phone"`
    Status  string  `json:"status"`
}

func validCinemaStatus(s string) bool {
    switch s {
    case model.CinemaStatusActive, model.CinemaStatusInactive, model.CinemaStatusMaintenance:
        return true
    }
    return false
}

// Create adds a cinema.
func (h *CinemaHandler) Create(c echo.Context) error {
    var req cinemaReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Code = strings.TrimSpace(req.Code)
    req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
    if req.Name == "" || req.Code == "" || req.Slug == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/code/slug required"})
    }
    if req.Status == "" {
        req.Status = model.CinemaStatusActive
    }
    if !validCinemaStatus(req.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }
    ci := model.Cinema{
        Name: req.Name, Code: req.Code, Slug: req.Slug,
        Address: req.Address, City: req.City, Phone: req.Phone, Status: req.Status,
    }
    if err := h.Cinemas.Create(c.Request().Context(), &ci); err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusCreated, ci)
}

// List returns one page of cinemas.
func (h *CinemaHandler) List(c echo.Context) error {
    offset, limit := pagination(c)
    cinemas, total, err := h.Cinemas.List(c.Request().Context(), offset, limit)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, listResp{Data: cinemas, Total: total})
}

// Get returns one cinema.
func (h *CinemaHandler) Get(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ci, err := h.Cinemas.GetByID(c.Request().Context(), id)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, ci)
}

// Update modifies a cinema's mutable fields.
func (h *CinemaHandler) Update(c echo.Context) error {
    id := paramID(c, "id")
    var req cinemaReq
    if err := c.Bind(&req); err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Status != "" && !validCinemaStatus(req.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }
    ctx := c.Request().Context()
    ci, err := h.Cinemas.GetByID(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    if req.Name != "" {
        ci.Name = req.Name
    }
    if req.Address != "" {
        ci.Address = req.Address
    }
    if req.City != "" {
        ci.City = req.City
    }
    if req.Phone != nil {
        ci.Phone = req.Phone
    }
    if req.Status != "" {
        ci.Status = req.Status
    }
    if err := h.Cinemas.Update(ctx, &ci); err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, ci)
}

// Delete soft-deletes a cinema. Its rooms stay in place but are
// unreachable through the listing, which only walks live cinemas.
func (h *CinemaHandler) Delete(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Cinemas.SoftDelete(c.Request().Context(), id); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

type roomReq struct {
    Name           string `json:"name"`
    Code           string `json:"code"`
    TotalRows      uint32 `json:"total_rows"`
    MaxSeatsPerRow uint32 `json:"max_seats_per_row"`
    ScreenType     string `json:"screen_type"`
    SoundType      string `json:"sound_type"`
}

// CreateRoom adds a room to a cinema and generates its seat grid.
func (h *CinemaHandler) CreateRoom(c echo.Context) error {
    cinemaID := paramID(c, "id")
    var req roomReq
    if err := c.Bind(&req); err != nil || cinemaID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Code = strings.TrimSpace(req.Code)
    if req.Name == "" || req.Code == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/code required"})
    }
    if req.TotalRows < 1 || req.TotalRows > 100 || req.MaxSeatsPerRow < 1 || req.MaxSeatsPerRow > 100 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and seats per row must be between 1 and 100"})
    }
    ctx := c.Request().Context()
    if _, err := h.Cinemas.GetByID(ctx, cinemaID); err != nil {
        return jsonError(c, err)
    }
    rm := model.Room{
        CinemaID: cinemaID, Name: req.Name, Code: req.Code,
        TotalRows: req.TotalRows, MaxSeatsPerRow: req.MaxSeatsPerRow,
        ScreenType: req.ScreenType, SoundType: req.SoundType,
    }
    if err := h.Rooms.Create(ctx, &rm); err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusCreated, rm)
}

// ListRooms returns the live rooms of a cinema.
func (h *CinemaHandler) ListRooms(c echo.Context) error {
    cinemaID := paramID(c, "id")
    if cinemaID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Cinemas.GetByID(ctx, cinemaID); err != nil {
        return jsonError(c, err)
    }
    rooms, err := h.Rooms.ListByCinema(ctx, cinemaID)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": rooms})
}

// GetRoom returns one room with its seat layout.
func (h *CinemaHandler) GetRoom(c echo.Context) error {
    roomID := paramID(c, "room_id")
    if roomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    rm, err := h.Rooms.GetByID(ctx, roomID)
    if err != nil {
        return jsonError(c, err)
    }
    seats, err := h.Rooms.ListSeats(ctx, roomID)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"room": rm, "seats": seats})
}

// DeleteRoom soft-deletes a room. Existing showtimes keep playing.
func (h *CinemaHandler) DeleteRoom(c echo.Context) error {
    roomID := paramID(c, "room_id")
    if roomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Rooms.SoftDelete(c.Request().Context(), roomID); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

type seatTypeReq struct {
    SeatType string `json:"seat_type"`
    IsActive *bool  `json:"is_active"`
}

func validSeatType(s string) bool {
    switch s {
    case model.SeatTypeStandard, model.SeatTypeVIP, model.SeatTypePremium,
        model.SeatTypeCouple, model.SeatTypeWheelchair:
        return true
    }
    return false
}

// UpdateSeat reassigns a physical seat's type or active flag. Only
// showtimes generated afterwards pick the change up.
func (h *CinemaHandler) UpdateSeat(c echo.Context) error {
    seatID := paramID(c, "seat_id")
    var req seatTypeReq
    if err := c.Bind(&req); err != nil || seatID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !validSeatType(req.SeatType) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat_type"})
    }
    active := true
    if req.IsActive != nil {
        active = *req.IsActive
    }
    if err := h.Rooms.UpdateSeatType(c.Request().Context(), seatID, req.SeatType, active); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
