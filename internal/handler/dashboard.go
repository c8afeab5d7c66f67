package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-store/internal/model"
    "github.com/iliyamo/cinema-store/internal/repository"
    "github.com/iliyamo/cinema-store/internal/service/ticket"
)

// DashboardHandler aggregates the numbers the staff landing page shows:
// ticket counts per status, today's and the month's revenue, the most
// recent tickets and the open work queue.  The route is response-cached,
// so each request may fan out several queries without hurting.
type DashboardHandler struct {
    Tickets *ticket.Service
    Movies  *repository.MovieRepo
    Users   *repository.UserRepo
}

func NewDashboardHandler(svc *ticket.Service, movies *repository.MovieRepo, users *repository.UserRepo) *DashboardHandler {
    if svc == nil || movies == nil || users == nil {
        panic("nil dependency passed to NewDashboardHandler")
    }
    return &DashboardHandler{Tickets: svc, Movies: movies, Users: users}
}

// Summary renders the aggregate view.
func (h *DashboardHandler) Summary(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    byStatus := map[string]int64{}
    for _, status := range []model.TicketStatus{
        model.StatusReserved, model.StatusPaid, model.StatusActive,
        model.StatusUsed, model.StatusCompleted, model.StatusCancelled,
    } {
        n, err := h.Tickets.CountByStatus(ctx, status)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
        }
        byStatus[string(status)] = n
    }

    totalTickets, err := h.Tickets.Count(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }

    now := time.Now().UTC()
    dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
    monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

    todayRevenue, err := h.Tickets.CalculateRevenue(ctx, dayStart, now)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    monthRevenue, err := h.Tickets.CalculateRevenue(ctx, monthStart, now)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }

    recent, err := h.Tickets.FindRecent(ctx, 5)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    pending, err := h.Tickets.FindRequiringProcessing(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }

    totalMovies, err := h.Movies.Count(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    availableMovies, err := h.Movies.CountAvailable(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    totalUsers, err := h.Users.Count(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    customers, err := h.Users.CountByRole(ctx, model.RoleCustomer)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "tickets": echo.Map{
            "total":     totalTickets,
            "by_status": byStatus,
        },
        "revenue_cents": echo.Map{
            "today":      todayRevenue,
            "this_month": monthRevenue,
        },
        "recent_tickets":      toTicketResps(recent),
        "requiring_processing": toTicketResps(pending),
        "movies": echo.Map{
            "total":     totalMovies,
            "available": availableMovies,
        },
        "users": echo.Map{
            "total":     totalUsers,
            "customers": customers,
        },
        "generated_at": now.Format(time.RFC3339),
    })
}
