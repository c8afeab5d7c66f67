package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-store/internal/handler"
	"github.com/iliyamo/cinema-store/internal/middleware"
)

// RegisterAdmin registers the user directory endpoints under
// /v1/admin/users.  Everything here is ADMIN only.
func RegisterAdmin(e *echo.Echo, h *handler.AdminUserHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin/users",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/role", h.ChangeRole)
	g.POST("/:id/toggle-active", h.ToggleActive)
	g.DELETE("/:id", h.Delete)
}

// RegisterDashboard registers the aggregated staff dashboard.  The
// optional middleware slot is used for the response cache so repeated
// loads do not fan out the underlying queries.
func RegisterDashboard(e *echo.Echo, h *handler.DashboardHandler, jwtSecret string, extraMW ...echo.MiddlewareFunc) {
	mw := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(staffRoles...),
	}, extraMW...)
	e.GET("/v1/dashboard", h.Summary, mw...)
}
