package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-store/internal/handler"
	"github.com/iliyamo/cinema-store/internal/middleware"
)

// RegisterTickets registers the ticket lifecycle endpoints.  Every route
// requires a valid JWT; the handler additionally hides other customers'
// tickets from CUSTOMER sessions.  State-machine operations, lookups by
// number, listings and the aggregate endpoints are staff-only; deletion
// requires MANAGER or ADMIN.
func RegisterTickets(e *echo.Echo, h *handler.TicketHandler, jwtSecret string) {
	g := e.Group("/v1/tickets", middleware.JWTAuth(jwtSecret))

	// Endpoints available to every role.  Create gates the customer_id
	// field itself, cancel checks ownership for customers.
	any := g.Group("", middleware.RequireRole(allRoles...))
	any.POST("", h.Create)
	any.GET("/my", h.ListMine)
	any.GET("/:id", h.Get)
	any.POST("/:id/cancel", h.Cancel)

	// Staff endpoints: the box-office pipeline and the reporting set.
	staff := g.Group("", middleware.RequireRole(staffRoles...))
	staff.GET("", h.List)
	staff.GET("/number/:number", h.GetByNumber)
	staff.GET("/recent", h.Recent)
	staff.GET("/processing", h.RequiringProcessing)
	staff.GET("/revenue", h.Revenue)
	staff.GET("/stats", h.Stats)
	staff.POST("/:id/transition", h.Transition)
	staff.PATCH("/:id/seat", h.UpdateSeat)
	staff.PATCH("/:id/notes", h.UpdateNotes)

	mgr := g.Group("", middleware.RequireRole("MANAGER", "ADMIN"))
	mgr.DELETE("/:id", h.Delete)
}
