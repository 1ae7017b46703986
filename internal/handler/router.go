package handler

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Planes *FleetHandler
	Legs   *FleetHandler
	Chat   *ChatHandler
}

// Register mounts the versioned API and the legacy unversioned plane routes.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/", HomeHandler)
	e.GET("/about", AboutHandler)
	e.GET("/health", HealthHandler)

	api := e.Group("/api/v1")

	if h.Planes != nil {
		api.POST("/planes", h.Planes.AddPlane)
		api.GET("/planes", h.Planes.List)
		api.DELETE("/planes/:id", h.Planes.DeletePlane)
		api.POST("/planes/:id/flights/:date", h.Planes.AddFlight)
		api.DELETE("/planes/:id/flights/:date", h.Planes.DeleteFlight)

		e.POST("/add_plane", h.Planes.AddPlane)
		e.POST("/add_flight/:id/:date", h.Planes.AddFlight)
		e.GET("/planes", h.Planes.List)
		e.DELETE("/delete_plane/:id", h.Planes.DeletePlane)
		e.POST("/delete_flight/:id/:date", h.Planes.DeleteFlight)
	}

	if h.Legs != nil {
		api.POST("/legs", h.Legs.AddPlane)
		api.GET("/legs", h.Legs.List)
		api.DELETE("/legs/:id", h.Legs.DeletePlane)
		api.POST("/legs/:id/flights", h.Legs.AddFlight)
		api.DELETE("/legs/:id/flights/:date", h.Legs.DeleteFlight)
	}

	if h.Chat != nil {
		api.POST("/chat", h.Chat.Chat)
		e.POST("/chat", h.Chat.Chat)
	}
}
