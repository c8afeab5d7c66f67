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
    "github.com/iliyamo/cinema-store/internal/service/ticket"
)

// TicketHandler exposes the ticket lifecycle over HTTP.  It only parses,
// gates and renders; every rule lives in the ticket service.
type TicketHandler struct {
    Tickets *ticket.Service
}

func NewTicketHandler(svc *ticket.Service) *TicketHandler {
    if svc == nil {
        panic("nil service passed to NewTicketHandler")
    }
    return &TicketHandler{Tickets: svc}
}

type createTicketReq struct {
    CustomerID uint64 `json:"customer_id"` // staff only; customers always book for themselves
    MovieID    uint64 `json:"movie_id"`
    Showtime   string `json:"showtime"` // RFC3339
    Seat       string `json:"seat"`
}

type transitionReq struct {
    Status string `json:"status"`
}

type seatReq struct {
    Seat string `json:"seat"`
}

type notesReq struct {
    Notes string `json:"notes"`
}

// ticketErr maps service errors onto HTTP responses.  Transition and
// state violations surface as 409 with the exact message so clients see
// which statuses collided.
func ticketErr(c echo.Context, err error) error {
    var ite *ticket.InvalidTransitionError
    var ise *ticket.InvalidStateError
    switch {
    case errors.Is(err, repository.ErrTicketNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
    case errors.Is(err, repository.ErrMovieNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
    case errors.Is(err, ticket.ErrMovieUnavailable):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
    case errors.Is(err, ticket.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, ticket.ErrContention):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.As(err, &ite):
        return c.JSON(http.StatusConflict, echo.Map{"error": ite.Error()})
    case errors.As(err, &ise):
        return c.JSON(http.StatusConflict, echo.Map{"error": ise.Error()})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

// Create books a ticket.  Customers always book for themselves; staff may
// pass customer_id to book on a customer's behalf.
func (h *TicketHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createTicketReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.MovieID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id required"})
    }
    showtime, err := time.Parse(time.RFC3339, req.Showtime)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime must be RFC3339"})
    }

    customerID := uid
    if req.CustomerID != 0 && req.CustomerID != uid {
        if getRole(c) == model.RoleCustomer {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "customers book for themselves"})
        }
        customerID = req.CustomerID
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Tickets.Create(ctx, ticket.CreateInput{
        CustomerID: customerID,
        MovieID:    req.MovieID,
        Showtime:   showtime,
        Seat:       strings.TrimSpace(req.Seat),
    })
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusCreated, toTicketResp(t))
}

// Get returns a single ticket.  Customers only see their own.
func (h *TicketHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Tickets.Get(ctx, id)
    if err != nil {
        return ticketErr(c, err)
    }
    if getRole(c) == model.RoleCustomer && t.CustomerID != uid {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
    }
    return c.JSON(http.StatusOK, toTicketResp(t))
}

// GetByNumber looks a ticket up by its printed number (staff).
func (h *TicketHandler) GetByNumber(c echo.Context) error {
    number := strings.TrimSpace(c.Param("number"))
    if number == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "number required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Tickets.GetByNumber(ctx, number)
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, toTicketResp(t))
}

// Transition moves a ticket through the state machine (staff).
func (h *TicketHandler) Transition(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req transitionReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    to := model.TicketStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
    if !to.Valid() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Tickets.Transition(ctx, id, to, uid)
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, toTicketResp(t))
}

// Cancel is a convenience endpoint for customers: a transition to
// CANCELLED on their own ticket, attributed to no cashier.
func (h *TicketHandler) Cancel(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Tickets.Get(ctx, id)
    if err != nil {
        return ticketErr(c, err)
    }
    if getRole(c) == model.RoleCustomer && t.CustomerID != uid {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
    }

    // Customer cancellations do not claim the cashier slot.
    actor := uint64(0)
    if getRole(c) != model.RoleCustomer {
        actor = uid
    }
    t, err = h.Tickets.Transition(ctx, id, model.StatusCancelled, actor)
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, toTicketResp(t))
}

// UpdateSeat changes the seat of a RESERVED or PAID ticket.
func (h *TicketHandler) UpdateSeat(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req seatReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Seat) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Tickets.UpdateSeat(ctx, id, strings.TrimSpace(req.Seat))
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, toTicketResp(t))
}

// UpdateNotes replaces the notes on a ticket (any status).
func (h *TicketHandler) UpdateNotes(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req notesReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Tickets.UpdateNotes(ctx, id, req.Notes)
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, toTicketResp(t))
}

// Delete removes a RESERVED or CANCELLED ticket (staff).
func (h *TicketHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Tickets.Delete(ctx, id, uid); err != nil {
        return ticketErr(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ListMine returns the calling customer's tickets.
func (h *TicketHandler) ListMine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    q := ticketQueryFromRequest(c)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, total, err := h.Tickets.FindByCustomer(ctx, uid, q)
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, pagedResp{Items: toTicketResps(items), Total: total, Page: q.Page})
}

// List is the staff listing endpoint.  Exactly one filter applies, in
// order: customer_id, cashier_id, status, search, start+end; with no
// filter it falls back to a status-less search for everything.
func (h *TicketHandler) List(c echo.Context) error {
    q := ticketQueryFromRequest(c)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    var (
        items []model.Ticket
        total int64
        err   error
    )
    switch {
    case c.QueryParam("customer_id") != "":
        id, perr := strconv.ParseUint(c.QueryParam("customer_id"), 10, 64)
        if perr != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer_id"})
        }
        items, total, err = h.Tickets.FindByCustomer(ctx, id, q)
    case c.QueryParam("cashier_id") != "":
        id, perr := strconv.ParseUint(c.QueryParam("cashier_id"), 10, 64)
        if perr != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cashier_id"})
        }
        items, total, err = h.Tickets.FindByCashier(ctx, id, q)
    case c.QueryParam("status") != "":
        status := model.TicketStatus(strings.ToUpper(c.QueryParam("status")))
        if !status.Valid() {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
        }
        items, total, err = h.Tickets.FindByStatus(ctx, status, q)
    case c.QueryParam("start") != "" || c.QueryParam("end") != "":
        start, end, perr := parseRange(c)
        if perr != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": perr.Error()})
        }
        items, total, err = h.Tickets.FindBetweenDates(ctx, start, end, q)
    default:
        items, total, err = h.Tickets.Search(ctx, c.QueryParam("search"), q)
    }
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, pagedResp{Items: toTicketResps(items), Total: total, Page: q.Page})
}

// Recent returns the newest tickets, default 10.
func (h *TicketHandler) Recent(c echo.Context) error {
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    if limit <= 0 {
        limit = 10
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Tickets.FindRecent(ctx, limit)
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": toTicketResps(items)})
}

// RequiringProcessing returns the open work queue, oldest first.
func (h *TicketHandler) RequiringProcessing(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Tickets.FindRequiringProcessing(ctx)
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": toTicketResps(items)})
}

// Revenue sums USED ticket prices created inside [start, end].
func (h *TicketHandler) Revenue(c echo.Context) error {
    start, end, err := parseRange(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cents, err := h.Tickets.CalculateRevenue(ctx, start, end)
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "start":         start.Format(time.RFC3339),
        "end":           end.Format(time.RFC3339),
        "revenue_cents": cents,
    })
}

// Stats returns the per-status count and price sum for one status.
func (h *TicketHandler) Stats(c echo.Context) error {
    status := model.TicketStatus(strings.ToUpper(c.QueryParam("status")))
    if !status.Valid() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    count, err := h.Tickets.CountByStatus(ctx, status)
    if err != nil {
        return ticketErr(c, err)
    }
    sum, err := h.Tickets.SumTotalByStatus(ctx, status)
    if err != nil {
        return ticketErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "status":      string(status),
        "count":       count,
        "total_cents": sum,
    })
}

// parseRange reads the start/end RFC3339 query parameters.
func parseRange(c echo.Context) (time.Time, time.Time, error) {
    start, err := time.Parse(time.RFC3339, c.QueryParam("start"))
    if err != nil {
        return time.Time{}, time.Time{}, errors.New("start must be RFC3339")
    }
    end, err := time.Parse(time.RFC3339, c.QueryParam("end"))
    if err != nil {
        return time.Time{}, time.Time{}, errors.New("end must be RFC3339")
    }
    if end.Before(start) {
        return time.Time{}, time.Time{}, errors.New("end before start")
    }
    return start.UTC(), end.UTC(), nil
}
