package router

import (
	"github.com/labstack/echo/v4"

	"github.com/FranBistrovic/QuantumHotel/internal/handler"
	"github.com/FranBistrovic/QuantumHotel/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check,
// which stays outside the rate limiter so probes never starve.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication and profile endpoints.
// Register, login, refresh and logout live under /v1/auth and need no
// session; the /v1/me routes require a valid access token.  The limiter
// sits behind JWTAuth on /v1/me so user-keyed strategies can see the
// caller; on /v1/auth it throttles by ip, which is all an anonymous
// login attempt has.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1/me", middleware.JWTAuth(jwtSecret), limiter)
	me.GET("", a.Me)
	me.PATCH("", a.UpdateMe)
	me.DELETE("", a.DeleteMe)
}
