package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/handler"
	"github.com/iliyamo/dinner-party-reservation/internal/middleware"
)

// RegisterRSVPs registers the RSVP endpoints under /v1/rsvps.  All of
// them require a session; submission is the endpoint the rate limiter
// exists for.
func RegisterRSVPs(e *echo.Echo, h *handler.RSVPHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/rsvps", middleware.JWTAuth(jwtSecret), limiter)
	g.POST("", h.Submit)
	g.GET("/my-rsvps", h.MyRSVPs)
	g.GET("/event/:id", h.ListForEvent)
	g.PATCH("/:id", h.Update)
	g.POST("/:id/cancel", h.Cancel)
	g.POST("/:id/status", h.Decide)
}
