package router

import (
	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/turf-match-finder/internal/handler"
	"github.com/appdotbuilder/turf-match-finder/internal/middleware"
	"github.com/appdotbuilder/turf-match-finder/internal/repository"
)

// RegisterOwner registers the field-owner surface: creating and updating
// fields, publishing slots on them, and the owner's views of their fields
// and incoming bookings. Admins pass too.
func RegisterOwner(e *echo.Echo, f *handler.FieldHandler, s *handler.SlotHandler,
	b *handler.BookingHandler, jwtSecret string) {

	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleFieldOwner, repository.RoleAdmin),
	)

	g.POST("/fields", f.CreateField)
	g.PATCH("/fields/:id", f.UpdateField)
	g.GET("/my-fields", f.ListMyFields)

	g.POST("/fields/:id/slots", s.CreateSlot)

	g.GET("/owner/bookings", b.ListOwnerBookings)
}
