// Package router maps HTTP routes to handlers and applies the
// middleware each group needs.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/handler"
	"github.com/iliyamo/dinner-party-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	// Liveness probe for load balancers and monitoring.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register,
// login and the refresh flows live under /v1/auth and need no session;
// /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh token in the body or a bearer
	// token, so it lives outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterReferrals registers the referral endpoints.  Code validation
// is public so a registration form can check a code before submitting;
// the rest require a session.
func RegisterReferrals(e *echo.Echo, h *handler.ReferralHandler, jwtSecret string) {
	e.GET("/v1/referrals/validate/:code", h.Validate)

	g := e.Group("/v1/referrals", middleware.JWTAuth(jwtSecret))
	g.GET("/my-code", h.MyCode)
	g.GET("/stats", h.Stats)
}
