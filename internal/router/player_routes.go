package router

import (
	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/turf-match-finder/internal/handler"
	"github.com/appdotbuilder/turf-match-finder/internal/middleware"
	"github.com/appdotbuilder/turf-match-finder/internal/repository"
)

// RegisterPlayer registers the endpoints open to every authenticated
// account: booking slots, running a team, posting on the match board and
// rating teams. Field owners and admins book and captain like anyone
// else, so all three roles pass.
func RegisterPlayer(e *echo.Echo, b *handler.BookingHandler, t *handler.TeamHandler,
	m *handler.MatchRequestHandler, r *handler.RatingHandler, jwtSecret string) {

	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RolePlayer, repository.RoleFieldOwner, repository.RoleAdmin),
	)

	g.POST("/bookings", b.CreateBooking)
	g.PATCH("/bookings/:id/status", b.UpdateBookingStatus)
	g.GET("/my-bookings", b.ListMyBookings)

	g.POST("/teams", t.CreateTeam)
	g.POST("/teams/:id/members", t.AddMember)
	g.DELETE("/teams/:id/members/:user_id", t.RemoveMember)
	g.GET("/my-teams", t.ListMyTeams)

	g.POST("/match-requests", m.CreateMatchRequest)
	g.POST("/match-requests/:id/close", m.CloseMatchRequest)

	g.POST("/teams/:id/ratings", r.RateTeam)
}
