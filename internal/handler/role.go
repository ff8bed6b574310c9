package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking/internal/repository"
)

// RoleHandler exposes role CRUD and the role→permission sync.
type RoleHandler struct {
    Roles *repository.RoleRepo
}

func NewRoleHandler(r *repository.RoleRepo) *RoleHandler { return &RoleHandler{Roles: r} }

type roleReq struct {
    Name        string  `json:"name"`
    Slug        string  `json:"slug"`
    Description *string `json:"description"`
}

// Create adds a role.
func (h *RoleHandler) Create(c echo.Context) error {
    var req roleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
    if req.Name == "" || req.Slug == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/slug required"})
    }
    id, err := h.Roles.Create(c.Request().Context(), req.Name, req.Slug, req.Description)
    if err != nil {
        return jsonError(c, err)
    }
    ro, err := h.Roles.GetByID(c.Request().Context(), id)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusCreated, ro)
}

// List returns one page of roles.
func (h *RoleHandler) List(c echo.Context) error {
    offset, limit := pagination(c)
    roles, total, err := h.Roles.List(c.Request().Context(), offset, limit)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, listResp{Data: roles, Total: total})
}

// Get returns one role with its granted permissions.
func (h *RoleHandler) Get(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    ro, err := h.Roles.GetByID(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    perms, err := h.Roles.ListPermissions(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"role": ro, "permissions": perms})
}

// Update renames a role. The slug is immutable.
func (h *RoleHandler) Update(c echo.Context) error {
    id := paramID(c, "id")
    var req roleReq
    if err := c.Bind(&req); err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }
    if err := h.Roles.Update(c.Request().Context(), id, req.Name, req.Description); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Delete removes a role and its grants.
func (h *RoleHandler) Delete(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Roles.Delete(c.Request().Context(), id); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

type syncPermissionsReq struct {
    PermissionIDs []uint64 `json:"permission_ids"`
}

// SyncPermissions replaces the role's entire permission set with the
// request body. An empty list clears every grant.
func (h *RoleHandler) SyncPermissions(c echo.Context) error {
    id := paramID(c, "id")
    var req syncPermissionsReq
    if err := c.Bind(&req); err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := h.Roles.SyncPermissions(c.Request().Context(), id, req.PermissionIDs); err != nil {
        return jsonError(c, err)
    }
    perms, err := h.Roles.ListPermissions(c.Request().Context(), id)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"permissions": perms})
}
