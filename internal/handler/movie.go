package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-store/internal/model"
    "github.com/iliyamo/cinema-store/internal/repository"
)

// MovieHandler exposes the movie catalog.  Reads are open to every
// authenticated role; writes are wired behind MANAGER/ADMIN in the router.
type MovieHandler struct {
    Movies *repository.MovieRepo
}

func NewMovieHandler(repo *repository.MovieRepo) *MovieHandler {
    if repo == nil {
        panic("nil repository passed to NewMovieHandler")
    }
    return &MovieHandler{Movies: repo}
}

type movieReq struct {
    Name        string   `json:"name"`
    Description string   `json:"description"`
    PriceCents  int64    `json:"price_cents"`
    DurationMin uint32   `json:"duration_min"`
    ReleaseDate *string  `json:"release_date"` // YYYY-MM-DD
    Rating      *float64 `json:"rating"`
    GenreID     *uint64  `json:"genre_id"`
    StudioID    *uint64  `json:"studio_id"`
    Available   *bool    `json:"is_available"`
}

type movieResp struct {
    ID          uint64   `json:"id"`
    Name        string   `json:"name"`
    Description string   `json:"description,omitempty"`
    PriceCents  int64    `json:"price_cents"`
    DurationMin uint32   `json:"duration_min"`
    ReleaseDate *string  `json:"release_date,omitempty"`
    Rating      *float64 `json:"rating,omitempty"`
    GenreID     *uint64  `json:"genre_id,omitempty"`
    StudioID    *uint64  `json:"studio_id,omitempty"`
    Available   bool     `json:"is_available"`
    CreatedAt   string   `json:"created_at"`
    UpdatedAt   string   `json:"updated_at"`
}

func toMovieResp(m model.Movie) movieResp {
    resp := movieResp{
        ID:          m.ID,
        Name:        m.Name,
        Description: m.Description,
        PriceCents:  m.PriceCents,
        DurationMin: m.DurationMin,
        Rating:      m.Rating,
        GenreID:     m.GenreID,
        StudioID:    m.StudioID,
        Available:   m.Available,
        CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
        UpdatedAt:   m.UpdatedAt.UTC().Format(time.RFC3339),
    }
    if m.ReleaseDate != nil {
        s := m.ReleaseDate.Format("2006-01-02")
        resp.ReleaseDate = &s
    }
    return resp
}

func (r movieReq) validate() error {
    if strings.TrimSpace(r.Name) == "" {
        return errors.New("name required")
    }
    if r.PriceCents < 0 {
        return errors.New("price_cents must not be negative")
    }
    if r.Rating != nil && (*r.Rating < 0 || *r.Rating > 10) {
        return errors.New("rating must be between 0 and 10")
    }
    return nil
}

func (r movieReq) toModel() (model.Movie, error) {
    m := model.Movie{
        Name:        strings.TrimSpace(r.Name),
        Description: strings.TrimSpace(r.Description),
        PriceCents:  r.PriceCents,
        DurationMin: r.DurationMin,
        Rating:      r.Rating,
        GenreID:     r.GenreID,
        StudioID:    r.StudioID,
        Available:   true,
    }
    if r.Available != nil {
        m.Available = *r.Available
    }
    if r.ReleaseDate != nil && *r.ReleaseDate != "" {
        d, err := time.Parse("2006-01-02", *r.ReleaseDate)
        if err != nil {
            return model.Movie{}, errors.New("release_date must be YYYY-MM-DD")
        }
        m.ReleaseDate = &d
    }
    return m, nil
}

func movieErr(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrMovieNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
    case errors.Is(err, repository.ErrGenreNotFound):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "genre not found"})
    case errors.Is(err, repository.ErrStudioNotFound):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "studio not found"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "movie is referenced by tickets"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

// Create adds a movie to the catalog (MANAGER/ADMIN).
func (h *MovieHandler) Create(c echo.Context) error {
    var req movieReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := req.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    m, err := req.toModel()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Movies.Create(ctx, &m); err != nil {
        return movieErr(c, err)
    }
    return c.JSON(http.StatusCreated, toMovieResp(m))
}

// Get returns one movie.
func (h *MovieHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m, err := h.Movies.GetByID(ctx, id)
    if err != nil {
        return movieErr(c, err)
    }
    return c.JSON(http.StatusOK, toMovieResp(m))
}

// Update replaces the mutable fields of a movie (MANAGER/ADMIN).
func (h *MovieHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req movieReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := req.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    m, err := req.toModel()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    m.ID = id

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Movies.Update(ctx, &m); err != nil {
        return movieErr(c, err)
    }
    return c.JSON(http.StatusOK, toMovieResp(m))
}

// ToggleAvailability flips the sale flag (MANAGER/ADMIN).  Tickets
// already sold keep their snapshot price and stay valid.
func (h *MovieHandler) ToggleAvailability(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m, err := h.Movies.ToggleAvailable(ctx, id)
    if err != nil {
        return movieErr(c, err)
    }
    return c.JSON(http.StatusOK, toMovieResp(m))
}

// Delete removes a movie (ADMIN).  Movies referenced by tickets are
// protected by the foreign key and answer 409.
func (h *MovieHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Movies.Delete(ctx, id); err != nil {
        return movieErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// List returns the filtered catalog with pagination.
func (h *MovieHandler) List(c echo.Context) error {
    f := repository.MovieFilter{
        Search:        c.QueryParam("search"),
        OnlyAvailable: c.QueryParam("available") == "true",
    }
    f.Page, _ = strconv.Atoi(c.QueryParam("page"))
    f.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
    f.GenreID, _ = strconv.ParseUint(c.QueryParam("genre_id"), 10, 64)
    f.StudioID, _ = strconv.ParseUint(c.QueryParam("studio_id"), 10, 64)
    f.MinPriceCents, _ = strconv.ParseInt(c.QueryParam("min_price_cents"), 10, 64)
    f.MaxPriceCents, _ = strconv.ParseInt(c.QueryParam("max_price_cents"), 10, 64)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, total, err := h.Movies.List(ctx, f)
    if err != nil {
        return movieErr(c, err)
    }
    out := make([]movieResp, 0, len(items))
    for _, m := range items {
        out = append(out, toMovieResp(m))
    }
    return c.JSON(http.StatusOK, pagedResp{Items: out, Total: total, Page: f.Page})
}
