package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking/internal/model"
    "github.com/iliyamo/cinema-booking/internal/repository"
)

// UserHandler exposes the admin user management surface.
type UserHandler struct {
    Users      *repository.UserRepo
    Roles      *repository.RoleRepo
    Tokens     *repository.TokenRepo
    BcryptCost int
}

func NewUserHandler(u *repository.UserRepo, r *repository.RoleRepo, t *repository.TokenRepo, bcryptCost int) *UserHandler {
    return &UserHandler{Users: u, Roles: r, Tokens: t, BcryptCost: bcryptCost}
}

type userResp struct {
    ID       uint64   `json:"id"`
    Email    string   `json:"email"`
    Name     *string  `json:"name"`
    Phone    *string  `json:"phone"`
    IsActive bool     `json:"is_active"`
    Roles    []string `json:"roles,omitempty"`
}

func toUserResp(u model.User, roles []string) userResp {
    return userResp{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, IsActive: u.IsActive, Roles: roles}
}

type createUserReq struct {
    Email    string   `json:"email"`
    Password string   `json:"password"`
    Name     *string  `json:"name"`
    Phone    *string  `json:"phone"`
    RoleIDs  []uint64 `json:"role_ids"`
}

// Create provisions a user account on an admin's behalf, optionally
// granting roles in the same call. Unlike self-service register, no
// tokens are issued and any role may be assigned.
func (h *UserHandler) Create(c echo.Context) error {
    var req createUserReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }
    if len(req.Password) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
    }

    ctx := c.Request().Context()
    uid, err := h.Users.Create(ctx, req.Email, req.Password, h.BcryptCost)
    if err != nil {
        return jsonError(c, err)
    }
    if req.Name != nil || req.Phone != nil {
        if err := h.Users.Update(ctx, uid, req.Name, req.Phone, nil); err != nil {
            return jsonError(c, err)
        }
    }
    for _, roleID := range req.RoleIDs {
        if _, err := h.Roles.GetByID(ctx, roleID); err != nil {
            return jsonError(c, err)
        }
        if err := h.Roles.AssignToUser(ctx, uid, roleID); err != nil {
            return jsonError(c, err)
        }
    }
    roles, err := h.Roles.ListForUser(ctx, uid)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusCreated, userResp{
        ID: uid, Email: req.Email, Name: req.Name, Phone: req.Phone,
        IsActive: true, Roles: roles,
    })
}

// List returns one page of users.
func (h *UserHandler) List(c echo.Context) error {
    offset, limit := pagination(c)
    users, total, err := h.Users.List(c.Request().Context(), offset, limit)
    if err != nil {
        return jsonError(c, err)
    }
    out := make([]userResp, 0, len(users))
    for _, u := range users {
        out = append(out, toUserResp(u, nil))
    }
    return c.JSON(http.StatusOK, listResp{Data: out, Total: total})
}

// Get returns one user with their role slugs.
func (h *UserHandler) Get(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    roles, err := h.Roles.ListForUser(ctx, id)
    if err != nil {
        return jsonError(c, err)
    }
    return c.JSON(http.StatusOK, toUserResp(u, roles))
}

type updateUserReq struct {
    Name     *string `json:"name"`
    Phone    *string `json:"phone"`
    IsActive *bool   `json:"is_active"`
}

// Update patches the mutable profile fields; absent fields are kept.
func (h *UserHandler) Update(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req updateUserReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := h.Users.Update(c.Request().Context(), id, req.Name, req.Phone, req.IsActive); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Delete soft-deletes a user and revokes all their sessions.
func (h *UserHandler) Delete(c echo.Context) error {
    id := paramID(c, "id")
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    if err := h.Users.SoftDelete(ctx, id); err != nil {
        return jsonError(c, err)
    }
    _ = h.Tokens.RevokeAllForUser(ctx, id)
    return c.NoContent(http.StatusNoContent)
}

type assignRoleReq struct {
    RoleID uint64 `json:"role_id"`
}

// AssignRole grants a role to a user. Idempotent.
func (h *UserHandler) AssignRole(c echo.Context) error {
    id := paramID(c, "id")
    var req assignRoleReq
    if err := c.Bind(&req); err != nil || id == 0 || req.RoleID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id and role_id required"})
    }
    ctx := c.Request().Context()
    if _, err := h.Users.GetByID(ctx, id); err != nil {
        return jsonError(c, err)
    }
    if _, err := h.Roles.GetByID(ctx, req.RoleID); err != nil {
        return jsonError(c, err)
    }
    if err := h.Roles.AssignToUser(ctx, id, req.RoleID); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// RemoveRole revokes a role from a user.
func (h *UserHandler) RemoveRole(c echo.Context) error {
    id := paramID(c, "id")
    roleID := paramID(c, "role_id")
    if id == 0 || roleID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Roles.RemoveFromUser(c.Request().Context(), id, roleID); err != nil {
        return jsonError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
