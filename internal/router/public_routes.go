package router

import (
	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/turf-match-finder/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints: the field
// directory, slot availability, the team directory with rosters and rating
// summaries, and the open match-request board. The optional cache
// middleware (nil to skip) serves repeated GETs from Redis.
func RegisterPublic(e *echo.Echo, f *handler.FieldHandler, s *handler.SlotHandler,
	t *handler.TeamHandler, r *handler.RatingHandler, m *handler.MatchRequestHandler,
	cache echo.MiddlewareFunc) {

	var mw []echo.MiddlewareFunc
	if cache != nil {
		mw = append(mw, cache)
	}
	g := e.Group("/v1", mw...)

	g.GET("/fields", f.ListFields)
	g.GET("/fields/:id/slots", s.ListFieldSlots)
	g.GET("/slots/available", s.ListAvailableSlots)

	g.GET("/teams", t.ListTeams)
	g.GET("/teams/:id/members", t.ListMembers)
	g.GET("/teams/:id/ratings", r.TeamRatingSummary)

	g.GET("/match-requests", m.ListOpenRequests)
}
