package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-store/internal/model"
    "github.com/iliyamo/cinema-store/internal/repository"
)

// StudioHandler exposes the studio reference data.
type StudioHandler struct {
    Studios *repository.StudioRepo
}

func NewStudioHandler(repo *repository.StudioRepo) *StudioHandler {
    if repo == nil {
        panic("nil repository passed to NewStudioHandler")
    }
    return &StudioHandler{Studios: repo}
}

type studioReq struct {
    CompanyName   string `json:"company_name"`
    ContactPerson string `json:"contact_person"`
    Phone         string `json:"phone"`
    Email         string `json:"email"`
    Address       string `json:"address"`
    Description   string `json:"description"`
    Active        *bool  `json:"is_active"`
}

type studioResp struct {
    ID            uint64 `json:"id"`
    CompanyName   string `json:"company_name"`
    ContactPerson string `json:"contact_person,omitempty"`
    Phone         string `json:"phone,omitempty"`
    Email         string `json:"email,omitempty"`
    Address       string `json:"address,omitempty"`
    Description   string `json:"description,omitempty"`
    Active        bool   `json:"is_active"`
    CreatedAt     string `json:"created_at"`
    UpdatedAt     string `json:"updated_at"`
}

func toStudioResp(s model.Studio) studioResp {
    return studioResp{
        ID:            s.ID,
        CompanyName:   s.CompanyName,
        ContactPerson: s.ContactPerson,
        Phone:         s.Phone,
        Email:         s.Email,
        Address:       s.Address,
        Description:   s.Description,
        Active:        s.Active,
        CreatedAt:     s.CreatedAt.UTC().Format(time.RFC3339),
        UpdatedAt:     s.UpdatedAt.UTC().Format(time.RFC3339),
    }
}

func (r studioReq) toModel() model.Studio {
    s := model.Studio{
        CompanyName:   strings.TrimSpace(r.CompanyName),
        ContactPerson: strings.TrimSpace(r.ContactPerson),
        Phone:         strings.TrimSpace(r.Phone),
        Email:         strings.ToLower(strings.TrimSpace(r.Email)),
        Address:       strings.TrimSpace(r.Address),
        Description:   strings.TrimSpace(r.Description),
        Active:        true,
    }
    if r.Active != nil {
        s.Active = *r.Active
    }
    return s
}

func studioErr(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrStudioNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "studio not found"})
    case errors.Is(err, repository.ErrNameExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": "company name already exists"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "studio is referenced by movies"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

// Create adds a studio (MANAGER/ADMIN).
func (h *StudioHandler) Create(c echo.Context) error {
    var req studioReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.CompanyName) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    s := req.toModel()
    if err := h.Studios.Create(ctx, &s); err != nil {
        return studioErr(c, err)
    }
    return c.JSON(http.StatusCreated, toStudioResp(s))
}

// Get returns one studio.
func (h *StudioHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    s, err := h.Studios.GetByID(ctx, id)
    if err != nil {
        return studioErr(c, err)
    }
    return c.JSON(http.StatusOK, toStudioResp(s))
}

// Update replaces a studio's details (MANAGER/ADMIN).
func (h *StudioHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req studioReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.CompanyName) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    s := req.toModel()
    s.ID = id
    if err := h.Studios.Update(ctx, &s); err != nil {
        return studioErr(c, err)
    }
    return c.JSON(http.StatusOK, toStudioResp(s))
}

// Delete removes a studio (ADMIN).
func (h *StudioHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Studios.Delete(ctx, id); err != nil {
        return studioErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// List returns every studio ordered by company name.
func (h *StudioHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Studios.List(ctx)
    if err != nil {
        return studioErr(c, err)
    }
    out := make([]studioResp, 0, len(items))
    for _, s := range items {
        out = append(out, toStudioResp(s))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}
