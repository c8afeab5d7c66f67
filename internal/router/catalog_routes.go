package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-store/internal/handler"
	"github.com/iliyamo/cinema-store/internal/middleware"
)

// RegisterCatalog registers the movie, genre and studio endpoints.
// Reads are open to every authenticated role and wrapped in the response
// cache and rate limiter when configured; writes require MANAGER or
// ADMIN, deletes ADMIN only.
func RegisterCatalog(e *echo.Echo, m *handler.MovieHandler, g *handler.GenreHandler, s *handler.StudioHandler, jwtSecret string, readMW ...echo.MiddlewareFunc) {
	read := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(allRoles...),
	}, readMW...)
	write := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MANAGER", "ADMIN"),
	}
	del := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	}

	e.GET("/v1/movies", m.List, read...)
	e.GET("/v1/movies/:id", m.Get, read...)
	e.POST("/v1/movies", m.Create, write...)
	e.PUT("/v1/movies/:id", m.Update, write...)
	e.POST("/v1/movies/:id/toggle-availability", m.ToggleAvailability, write...)
	e.DELETE("/v1/movies/:id", m.Delete, del...)

	e.GET("/v1/genres", g.List, read...)
	e.GET("/v1/genres/:id", g.Get, read...)
	e.POST("/v1/genres", g.Create, write...)
	e.PUT("/v1/genres/:id", g.Update, write...)
	e.DELETE("/v1/genres/:id", g.Delete, del...)

	e.GET("/v1/studios", s.List, read...)
	e.GET("/v1/studios/:id", s.Get, read...)
	e.POST("/v1/studios", s.Create, write...)
	e.PUT("/v1/studios/:id", s.Update, write...)
	e.DELETE("/v1/studios/:id", s.Delete, del...)
}
