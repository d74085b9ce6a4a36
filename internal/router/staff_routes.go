package router

import (
	"github.com/labstack/echo/v4"

	"github.com/FranBistrovic/QuantumHotel/internal/handler"
	"github.com/FranBistrovic/QuantumHotel/internal/middleware"
	"github.com/FranBistrovic/QuantumHotel/internal/model"
)

// RegisterStaff registers the back-office catalog and content routes.
// They share the /v1 prefix with the public browse endpoints; the write
// verbs are gated on the STAFF or ADMIN role, reads stay public.
func RegisterStaff(e *echo.Echo, catalog *handler.StaffCatalogHandler, content *handler.StaffContentHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	auth := middleware.JWTAuth(jwtSecret)
	backOffice := middleware.RequireRole(model.RoleStaff, model.RoleAdmin)
	mw := []echo.MiddlewareFunc{auth, limiter, backOffice}

	e.POST("/v1/room-categories", catalog.CreateCategory, mw...)
	e.PATCH("/v1/room-categories/:id", catalog.UpdateCategory, mw...)
	e.DELETE("/v1/room-categories/:id", catalog.DeleteCategory, mw...)
	e.PATCH("/v1/room-categories/:id/image", catalog.SetCategoryImage, mw...)

	e.POST("/v1/units", catalog.CreateUnit, mw...)
	e.GET("/v1/units", catalog.ListUnits, mw...)
	e.PATCH("/v1/units/:id", catalog.UpdateUnit, mw...)
	e.DELETE("/v1/units/:id", catalog.DeleteUnit, mw...)

	e.POST("/v1/amenities", catalog.CreateAmenity, mw...)
	e.PATCH("/v1/amenities/:id", catalog.UpdateAmenity, mw...)
	e.DELETE("/v1/amenities/:id", catalog.DeleteAmenity, mw...)

	e.POST("/v1/articles", content.CreateArticle, mw...)
	e.PATCH("/v1/articles/:id", content.UpdateArticle, mw...)
	e.DELETE("/v1/articles/:id", content.DeleteArticle, mw...)
	e.POST("/v1/faq", content.CreateFaq, mw...)
	e.PATCH("/v1/faq/:id", content.UpdateFaq, mw...)
	e.DELETE("/v1/faq/:id", content.DeleteFaq, mw...)
}

// RegisterAdmin registers the admin-only endpoints: account management,
// the reservation override patch and the statistics dashboard.
func RegisterAdmin(e *echo.Echo, users *handler.AdminUserHandler, reservations *handler.StaffReservationHandler, stats *handler.StatsHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		limiter,
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/users", users.ListUsers)
	g.POST("/users", users.CreateUser)
	g.GET("/users/:id", users.GetUser)
	g.PATCH("/users/:id", users.UpdateUser)
	g.DELETE("/users/:id", users.DeleteUser)
	g.PATCH("/reservations/:id", reservations.AdminPatch)

	e.GET("/v1/stats", stats.Overview,
		middleware.JWTAuth(jwtSecret), limiter, middleware.RequireRole(model.RoleAdmin))
}
