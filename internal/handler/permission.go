package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking/internal/repository"
)

// PermissionHandler exposes CRUD over the permission catalogue.
type PermissionHandler struct {
    Permissions *repository.PermissionRepo
}

func NewPermissionHandler(p *repository.PermissionRepo) *PermissionHandler {
    return &PermissionHandler{Permissions: p}
}

type permissionReq struct {
    Name        string  `json:"name"`
    Slug        string  `json:"slug"`
    Resource    string  `json:"resource"`
    Action      string  `json:"action"`
    Description *string `json:"description"`
}

// Create adds a permission for a (resource, action) pair.
func (h *PermissionHandler) Create(c echo.Context) error {
    var req permissionReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
    if req.Name == "" || req.Slug == "" || req.Resource == "" || req.Action == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/slug/resource/action required"})
    }
    ctx := c.Request().Context()
    id, err := h.Permissions.Create(ctx, req.Name, req.Slug, req.Resource, req.Action, req.Description)
    if err != nil {
        return jsonError(c, err)
    }
    p, err := h.Permissions.GetByID(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusCreated, p)
}

// List returns one page of permissions ordered by resource and action.
func (h *PermissionHandler) List(c echo.Context) error {
    offset, limit := pagination(c)
    perms, total, err := h.Permissions.List(c.Request().Context(), offset, limit)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, listResp{Data: perms, Total: total})
}

// Get returns one permission.
func (h *PermissionHandler) Get(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    p, err := h.Permissions.GetByID(c.Request().Context(), id)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// Update changes the name/description. Resource and action are the
// permission's identity and cannot change.
func (h *PermissionHandler) Update(c echo.Context) error {
    id := paramID(c, "id")
    var req permissionReq
    if err := c.Bind(&req); err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }
    if err := h.Permissions.Update(c.Request().Context(), id, req.Name, req.Description); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Delete removes a permission and the role grants referencing it.
func (h *PermissionHandler) Delete(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Permissions.Delete(c.Request().Context(), id); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
