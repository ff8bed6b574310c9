package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking/internal/model"
    "github.com/iliyamo/cinema-booking/internal/repository"
)

// MovieHandler exposes movie CRUD. Reads are public.
type MovieHandler struct {
    Movies *repository.MovieRepo
}

func NewMovieHandler(m *repository.MovieRepo) *MovieHandler { return &MovieHandler{Movies: m} }

type movieReq struct {
    Title           string  `json:"title"`
    Slug            string  `json:"slug"`
    Description     *string `json:"description"`
    DurationMinutes uint32  `json:"duration_minutes"`
    Rating          *string `json:"rating"`
    ReleaseDate     *string `json:"release_date"` // "2006-01-02"
    Status          string  `json:"status"`
}

func validMovieStatus(s string) bool {
    switch s {
    case model.MovieStatusComingSoon, model.MovieStatusNowShowing, model.MovieStatusEnded:
        return true
    }
    return false
}

func parseReleaseDate(s *string) (*time.Time, error) {
    if s == nil || *s == "" {
        return nil, nil
    }
    t, err := time.Parse("2006-01-02", *s)
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// Create adds a movie.
func (h *MovieHandler) Create(c echo.Context) error {
    var req movieReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Title = strings.TrimSpace(req.Title)
    req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
    if req.Title == "" || req.Slug == "" || req.DurationMinutes == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/slug/duration_minutes required"})
    }
    if req.Status == "" {
        req.Status = model.MovieStatusComingSoon
    }
    if !validMovieStatus(req.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }
    release, err := parseReleaseDate(req.ReleaseDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "release_date must be YYYY-MM-DD"})
    }
    m := model.Movie{
        Title: req.Title, Slug: req.Slug, Description: req.Description,
        DurationMinutes: req.DurationMinutes, Rating: req.Rating,
        ReleaseDate: release, Status: req.Status,
    }
    if err := h.Movies.Create(c.Request().Context(), &m); err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusCreated, m)
}

// List returns one page of movies, optionally filtered by ?status=.
func (h *MovieHandler) List(c echo.Context) error {
    status := c.QueryParam("status")
    if status != "" && !validMovieStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }
    offset, limit := pagination(c)
    movies, total, err := h.Movies.List(c.Request().Context(), status, offset, limit)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, listResp{Data: movies, Total: total})
}

// Get returns one movie.
func (h *MovieHandler) Get(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    m, err := h.Movies.GetByID(c.Request().Context(), id)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, m)
}

// Update modifies a movie's mutable fields. The slug is immutable.
func (h *MovieHandler) Update(c echo.Context) error {
    id := paramID(c, "id")
    var req movieReq
    if err := c.Bind(&req); err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Status != "" && !validMovieStatus(req.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }
    release, err := parseReleaseDate(req.ReleaseDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "release_date must be YYYY-MM-DD"})
    }
    ctx := c.Request().Context()
    m, err := h.Movies.GetByID(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    if req.Title != "" {
        m.Title = strings.TrimSpace(req.Title)
    }
    if req.Description != nil {
        m.Description = req.Description
    }
    if req.DurationMinutes > 0 {
        m.DurationMinutes = req.DurationMinutes
    }
    if req.Rating != nil {
        m.Rating = req.Rating
    }
    if release != nil {
        m.ReleaseDate = release
    }
    if req.Status != "" {
        m.Status = req.Status
    }
    if err := h.Movies.Update(ctx, &m); err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, m)
}

// Delete soft-deletes a movie.
func (h *MovieHandler) Delete(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Movies.SoftDelete(c.Request().Context(), id); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
