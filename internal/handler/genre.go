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

// GenreHandler exposes the genre reference data.
type GenreHandler struct {
    Genres *repository.GenreRepo
}

func NewGenreHandler(repo *repository.GenreRepo) *GenreHandler {
    if repo == nil {
        panic("nil repository passed to NewGenreHandler")
    }
    return &GenreHandler{Genres: repo}
}

type genreReq struct {
    Name        string `json:"name"`
    Description string `json:"description"`
}

type genreResp struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Description string `json:"description,omitempty"`
    CreatedAt   string `json:"created_at"`
    UpdatedAt   string `json:"updated_at"`
}

func toGenreResp(g model.Genre) genreResp {
    return genreResp{
        ID:          g.ID,
        Name:        g.Name,
        Description: g.Description,
        CreatedAt:   g.CreatedAt.UTC().Format(time.RFC3339),
        UpdatedAt:   g.UpdatedAt.UTC().Format(time.RFC3339),
    }
}

func genreErr(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrGenreNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
    case errors.Is(err, repository.ErrNameExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": "genre name already exists"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "genre is referenced by movies"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

// Create adds a genre (MANAGER/ADMIN).
func (h *GenreHandler) Create(c echo.Context) error {
    var req genreReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    g := model.Genre{Name: strings.TrimSpace(req.Name), Description: strings.TrimSpace(req.Description)}
    if err := h.Genres.Create(ctx, &g); err != nil {
        return genreErr(c, err)
    }
    return c.JSON(http.StatusCreated, toGenreResp(g))
}

// Get returns one genre.
func (h *GenreHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    g, err := h.Genres.GetByID(ctx, id)
    if err != nil {
        return genreErr(c, err)
    }
    return c.JSON(http.StatusOK, toGenreResp(g))
}

// Update renames a genre or changes its description (MANAGER/ADMIN).
func (h *GenreHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req genreReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    g := model.Genre{ID: id, Name: strings.TrimSpace(req.Name), Description: strings.TrimSpace(req.Description)}
    if err := h.Genres.Update(ctx, &g); err != nil {
        return genreErr(c, err)
    }
    return c.JSON(http.StatusOK, toGenreResp(g))
}

// Delete removes a genre (ADMIN).
func (h *GenreHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Genres.Delete(ctx, id); err != nil {
        return genreErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// List returns every genre ordered by name.
func (h *GenreHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Genres.List(ctx)
    if err != nil {
        return genreErr(c, err)
    }
    out := make([]genreResp, 0, len(items))
    for _, g := range items {
        out = append(out, toGenreResp(g))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}
