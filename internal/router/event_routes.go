package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/handler"
	"github.com/iliyamo/dinner-party-reservation/internal/middleware"
)

// RegisterEvents registers the event endpoints.  The public listing
// and detail routes sit behind the Redis response cache; everything
// that mutates state requires a session and is rate limited.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, jwtSecret string, cache, limiter echo.MiddlewareFunc) {
	// Public browse endpoints.  Guests can window-shop dinners without
	// an account.
	e.GET("/v1/events", h.List, cache)
	e.GET("/v1/events/:id", h.Get, cache)

	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), limiter)
	g.POST("/events", h.Create)
	g.GET("/my-events", h.MyEvents)
	g.PATCH("/events/:id", h.Update)
	g.POST("/events/:id/confirm", h.Confirm)
	g.POST("/events/:id/cancel", h.Cancel)
	g.POST("/events/:id/complete", h.Complete)
	g.POST("/events/:id/food-items", h.AddFoodItem)
}
