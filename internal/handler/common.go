package handler // handler defines http handlers

import (
    "errors"  // sentinel values used in getUserID
    "strconv" // string-to-numeric conversions
    "time"    // timestamp formatting in responses

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/cinema-store/internal/model"      // domain types rendered in responses
    "github.com/iliyamo/cinema-store/internal/repository" // pagination query types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole extracts the role string set by the JWT middleware.
func getRole(c echo.Context) string {
    if s, ok := c.Get("role").(string); ok {
        return s
    }
    return ""
}

// pathID parses a numeric :id style path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// ticketQueryFromRequest reads the shared pagination and sorting query
// parameters (page, page_size, sort_by, order).
func ticketQueryFromRequest(c echo.Context) repository.TicketQuery {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    size, _ := strconv.Atoi(c.QueryParam("page_size"))
    return repository.TicketQuery{
        Page:     page,
        PageSize: size,
        SortBy:   c.QueryParam("sort_by"),
        SortDesc: c.QueryParam("order") == "desc",
    }
}

// ----- shared response shapes -----

type ticketResp struct {
    ID           uint64  `json:"id"`
    TicketNumber string  `json:"ticket_number"`
    CustomerID   uint64  `json:"customer_id"`
    CashierID    *uint64 `json:"cashier_id"`
    MovieID      uint64  `json:"movie_id"`
    Showtime     string  `json:"showtime"`
    Seat         string  `json:"seat,omitempty"`
    Status       string  `json:"status"`
    PriceCents   int64   `json:"price_cents"`
    Notes        string  `json:"notes,omitempty"`
    UsedAt       *string `json:"used_at,omitempty"`
    CreatedAt    string  `json:"created_at"`
    UpdatedAt    string  `json:"updated_at"`
}

func toTicketResp(t model.Ticket) ticketResp {
    resp := ticketResp{
        ID:           t.ID,
        TicketNumber: t.TicketNumber,
        CustomerID:   t.CustomerID,
        CashierID:    t.CashierID,
        MovieID:      t.MovieID,
        Showtime:     t.Showtime.UTC().Format(time.RFC3339),
        Seat:         t.Seat,
        Status:       string(t.Status),
        PriceCents:   t.PriceCents,
        Notes:        t.Notes,
        CreatedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
        UpdatedAt:    t.UpdatedAt.UTC().Format(time.RFC3339),
    }
    if t.UsedAt != nil {
        s := t.UsedAt.UTC().Format(time.RFC3339)
        resp.UsedAt = &s
    }
    return resp
}

func toTicketResps(ts []model.Ticket) []ticketResp {
    out := make([]ticketResp, 0, len(ts))
    for _, t := range ts {
        out = append(out, toTicketResp(t))
    }
    return out
}

// pagedResp is the envelope for every paginated list endpoint.
type pagedResp struct {
    Items any   `json:"items"`
    Total int64 `json:"total"`
    Page  int   `json:"page"`
}
