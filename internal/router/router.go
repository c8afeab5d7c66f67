package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/cinema-store/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/cinema-store/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// staffRoles lists the roles allowed on the staff-facing ticket and
// dashboard endpoints.
var staffRoles = []string{"CASHIER", "MANAGER", "ADMIN"}

// allRoles lists every role that may hold a session.
var allRoles = []string{"CUSTOMER", "CASHIER", "MANAGER", "ADMIN"}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Routes that do not require an existing session (register, login,
	// refresh).  Each of these handlers is responsible for generating or
	// exchanging tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new
	// access token without rotating.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication: the handler accepts a
	// refresh_token body or an Authorization header.
	g.POST("/logout", a.Logout)

	// Protected endpoints live under /v1 and require a valid access token
	// carrying one of the known roles.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(allRoles...))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateProfile)
	auth.POST("/me/password", a.ChangePassword)

	// Also map POST /v1/logout so clients can terminate a session with a
	// refresh token and no JWT.
	e.POST("/v1/logout", a.Logout)
}
