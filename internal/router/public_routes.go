package router

import (
	"github.com/labstack/echo/v4"

	"github.com/FranBistrovic/QuantumHotel/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints: the
// room catalog, availability search, price quotes and the editorial
// pages.  The passed middleware (response cache, rate limiter) wraps
// every route in the group; pass none to serve uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)

	g.GET("/room-categories", p.ListCategories)
	// Registered before the :id route so "available" is not parsed as an id.
	g.GET("/room-categories/available", p.Availability)
	g.GET("/room-categories/:id", p.GetCategory)
	g.GET("/amenities", p.ListAmenities)
	g.GET("/amenities/:id", p.GetAmenity)
	g.POST("/quotes", p.Quote)

	g.GET("/articles", p.ListArticles)
	g.GET("/articles/:id", p.GetArticle)
	g.GET("/faq", p.ListFaq)
}
