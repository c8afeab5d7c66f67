package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-store/internal/config"
    "github.com/iliyamo/cinema-store/internal/model"
    "github.com/iliyamo/cinema-store/internal/repository"
)

// AdminUserHandler exposes the user directory to administrators: staff
// account creation, role changes, enable toggles and removal.
type AdminUserHandler struct {
    Cfg   config.Config
    Users *repository.UserRepo
}

func NewAdminUserHandler(cfg config.Config, users *repository.UserRepo) *AdminUserHandler {
    if users == nil {
        panic("nil repository passed to NewAdminUserHandler")
    }
    return &AdminUserHandler{Cfg: cfg, Users: users}
}

type createUserReq struct {
    Email     string `json:"email"`
    Password  string `json:"password"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    Role      string `json:"role"`
}

type changeRoleReq struct {
    Role string `json:"role"`
}

type adminUserResp struct {
    ID        uint64 `json:"id"`
    Email     string `json:"email"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    Role      string `json:"role"`
    IsActive  bool   `json:"is_active"`
    CreatedAt string `json:"created_at"`
    UpdatedAt string `json:"updated_at"`
}

func toAdminUserResp(u model.User) adminUserResp {
    return adminUserResp{
        ID:        u.ID,
        Email:     u.Email,
        FirstName: u.FirstName,
        LastName:  u.LastName,
        Role:      u.Role,
        IsActive:  u.IsActive,
        CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
        UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
    }
}

func userErr(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrUserNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
    case errors.Is(err, repository.ErrEmailExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "user is referenced by tickets"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

// Create makes an account with any role, including staff roles that
// self-registration never grants.
func (h *AdminUserHandler) Create(c echo.Context) error {
    var req createUserReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }
    role := strings.ToUpper(strings.TrimSpace(req.Role))
    if !model.ValidRole(role) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Email, req.Password,
        strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), role, h.Cfg.BcryptCost)
    if err != nil {
        return userErr(c, err)
    }
    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        return userErr(c, err)
    }
    return c.JSON(http.StatusCreated, toAdminUserResp(u))
}

// Get returns one user.
func (h *AdminUserHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        return userErr(c, err)
    }
    return c.JSON(http.StatusOK, toAdminUserResp(u))
}

// List returns users with optional role filter and free-text search.
func (h *AdminUserHandler) List(c echo.Context) error {
    role := strings.ToUpper(strings.TrimSpace(c.QueryParam("role")))
    if role != "" && !model.ValidRole(role) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
    }
    page, _ := strconv.Atoi(c.QueryParam("page"))
    size, _ := strconv.Atoi(c.QueryParam("page_size"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, total, err := h.Users.List(ctx, role, c.QueryParam("search"), page, size)
    if err != nil {
        return userErr(c, err)
    }
    out := make([]adminUserResp, 0, len(items))
    for _, u := range items {
        out = append(out, toAdminUserResp(u))
    }
    return c.JSON(http.StatusOK, pagedResp{Items: out, Total: total, Page: page})
}

// ChangeRole moves a user to a different role.  Admins cannot demote
// themselves; that would make lockouts too easy.
func (h *AdminUserHandler) ChangeRole(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req changeRoleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    role := strings.ToUpper(strings.TrimSpace(req.Role))
    if !model.ValidRole(role) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
    }
    if uid, err := getUserID(c); err == nil && uid == id && role != model.RoleAdmin {
        return c.JSON(http.StatusConflict, echo.Map{"error": "cannot change own role"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.ChangeRole(ctx, id, role)
    if err != nil {
        return userErr(c, err)
    }
    return c.JSON(http.StatusOK, toAdminUserResp(u))
}

// ToggleActive enables or disables an account.
func (h *AdminUserHandler) ToggleActive(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if uid, err := getUserID(c); err == nil && uid == id {
        return c.JSON(http.StatusConflict, echo.Map{"error": "cannot disable own account"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.ToggleActive(ctx, id)
    if err != nil {
        return userErr(c, err)
    }
    return c.JSON(http.StatusOK, toAdminUserResp(u))
}

// Delete removes a user.  Users referenced by tickets answer 409.
func (h *AdminUserHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if uid, err := getUserID(c); err == nil && uid == id {
        return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete own account"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Users.Delete(ctx, id); err != nil {
        return userErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
