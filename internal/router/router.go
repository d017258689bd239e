package router

import (
	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/turf-match-finder/internal/handler"
	"github.com/appdotbuilder/turf-match-finder/internal/middleware"
	"github.com/appdotbuilder/turf-match-finder/internal/repository"
)

// RegisterRoutes registers routes that need no authentication. Currently
// only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the auth endpoints. Register, login, refresh and
// logout live under /v1/auth and need no session; /v1/me requires a valid
// access token for any known role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RolePlayer, repository.RoleFieldOwner, repository.RoleAdmin),
	)
	auth.GET("/me", a.Me)
}
