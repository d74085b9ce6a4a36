package router

import (
	"github.com/labstack/echo/v4"

	"github.com/FranBistrovic/QuantumHotel/internal/handler"
	"github.com/FranBistrovic/QuantumHotel/internal/middleware"
	"github.com/FranBistrovic/QuantumHotel/internal/model"
)

// RegisterReservations registers every /v1/reservations endpoint.  The
// booking routes are open to any authenticated role, so staff test
// bookings behave exactly like guest ones; listing and deciding require
// STAFF or ADMIN.  GET /v1/reservations/:id is shared, the handler
// widens visibility for back-office tokens.  The limiter runs after
// JWTAuth so it can key on the authenticated user.
func RegisterReservations(e *echo.Echo, guest *handler.GuestHandler, staff *handler.StaffReservationHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	auth := middleware.JWTAuth(jwtSecret)
	anyRole := middleware.RequireRole(model.RoleUser, model.RoleStaff, model.RoleAdmin)
	backOffice := middleware.RequireRole(model.RoleStaff, model.RoleAdmin)

	e.POST("/v1/reservations", guest.CreateReservation, auth, limiter, anyRole)
	e.GET("/v1/my-reservations", guest.ListMyReservations, auth, limiter, anyRole)
	e.GET("/v1/reservations/:id", guest.GetReservation, auth, limiter, anyRole)
	e.PATCH("/v1/reservations/:id", guest.PatchReservation, auth, limiter, anyRole)

	e.GET("/v1/reservations", staff.ListReservations, auth, limiter, backOffice)
	e.POST("/v1/reservations/:id/confirm", staff.Confirm, auth, limiter, backOffice)
	e.POST("/v1/reservations/:id/reject", staff.Reject, auth, limiter, backOffice)
}
