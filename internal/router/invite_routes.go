package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/handler"
	"github.com/iliyamo/dinner-party-reservation/internal/middleware"
)

// RegisterInvites registers the invite endpoints under /v1/invites.
func RegisterInvites(e *echo.Echo, h *handler.InviteHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/invites", middleware.JWTAuth(jwtSecret), limiter)
	g.POST("", h.Create)
	g.GET("/event/:id", h.ListForEvent)
	g.GET("/my-invites", h.MyInvites)
	g.POST("/:id/accept", h.Accept)
	g.POST("/:id/decline", h.Decline)
}
