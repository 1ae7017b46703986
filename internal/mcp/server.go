// Package mcp exposes the fleet operations as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dharmasatrya/fleetdesk/internal/models"
	"github.com/dharmasatrya/fleetdesk/internal/service"
)

// Server wraps the MCP server with the plane and leg fleets.
type Server struct {
	server *mcp.Server
	planes *service.Fleet
	legs   *service.Fleet
}

func NewServer(planes, legs *service.Fleet, version string) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "fleetdesk",
		Version: version,
	}, nil)

	s := &Server{
		server: mcpServer,
		planes: planes,
		legs:   legs,
	}
	s.registerTools()
	return s
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fleet_list_planes",
		Description: "List every plane with its scheduled flight dates",
	}, s.handleListPlanes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fleet_add_plane",
		Description: "Register a new plane",
	}, s.handleAddPlane)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fleet_add_flight",
		Description: "Schedule a flight date for an existing plane",
	}, s.handleAddFlight)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fleet_delete_plane",
		Description: "Delete a plane and all of its flights",
	}, s.handleDeletePlane)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fleet_delete_flight",
		Description: "Remove one scheduled flight date from a plane",
	}, s.handleDeleteFlight)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fleet_list_legs",
		Description: "List flight legs grouped by plane",
	}, s.handleListLegs)
}

type ListPlanesInput struct{}

type ListPlanesOutput struct {
	Planes []*models.PlaneRecord `json:"planes"`
}

type AddPlaneInput struct {
	ID          int      `json:"id" jsonschema:"Numeric plane id, unique across planes"`
	Name        string   `json:"name" jsonschema:"Airline or plane name"`
	Model       string   `json:"model" jsonschema:"Aircraft model"`
	Capacity    int      `json:"capacity" jsonschema:"Seat capacity"`
	FlightDates []string `json:"flight_dates" jsonschema:"Scheduled flight dates"`
}

type AddPlaneOutput struct {
	Plane *models.PlaneRecord `json:"plane"`
}

type FlightInput struct {
	ID   int    `json:"id" jsonschema:"Plane id"`
	Date string `json:"date" jsonschema:"Flight date such as 2025-06-01"`
}

type DeletePlaneInput struct {
	ID int `json:"id" jsonschema:"Plane id"`
}

type MessageOutput struct {
	Message string `json:"message"`
}

type ListLegsInput struct{}

type ListLegsOutput struct {
	Planes []models.PlaneRoutes `json:"planes"`
}

func (s *Server) handleListPlanes(ctx context.Context, req *mcp.CallToolRequest, input ListPlanesInput) (*mcp.CallToolResult, ListPlanesOutput, error) {
	listing, err := s.planes.List(ctx)
	if err != nil {
		return nil, ListPlanesOutput{}, fmt.Errorf("failed to list planes: %w", err)
	}
	return nil, ListPlanesOutput{Planes: listing.Planes()}, nil
}

func (s *Server) handleAddPlane(ctx context.Context, req *mcp.CallToolRequest, input AddPlaneInput) (*mcp.CallToolResult, AddPlaneOutput, error) {
	dates := input.FlightDates
	if dates == nil {
		dates = []string{}
	}
	rec, err := s.planes.AddPlane(ctx, map[string]any{
		"id":           input.ID,
		"name":         input.Name,
		"model":        input.Model,
		"capacity":     input.Capacity,
		"flight_dates": dates,
	})
	if err != nil {
		return nil, AddPlaneOutput{}, err
	}
	plane, _ := rec.(*models.PlaneRecord)
	return nil, AddPlaneOutput{Plane: plane}, nil
}

func (s *Server) handleAddFlight(ctx context.Context, req *mcp.CallToolRequest, input FlightInput) (*mcp.CallToolResult, MessageOutput, error) {
	err := s.planes.AddFlight(ctx, models.FlightRequest{ID: input.ID, Date: input.Date})
	if err != nil {
		return nil, MessageOutput{}, err
	}
	return nil, MessageOutput{Message: "Flight date added successfully"}, nil
}

func (s *Server) handleDeletePlane(ctx context.Context, req *mcp.CallToolRequest, input DeletePlaneInput) (*mcp.CallToolResult, MessageOutput, error) {
	if err := s.planes.DeletePlane(ctx, input.ID); err != nil {
		return nil, MessageOutput{}, err
	}
	return nil, MessageOutput{Message: fmt.Sprintf("Plane with ID %d deleted.", input.ID)}, nil
}

func (s *Server) handleDeleteFlight(ctx context.Context, req *mcp.CallToolRequest, input FlightInput) (*mcp.CallToolResult, MessageOutput, error) {
	err := s.planes.DeleteFlight(ctx, models.FlightRequest{ID: input.ID, Date: input.Date})
	if err != nil {
		return nil, MessageOutput{}, err
	}
	return nil, MessageOutput{Message: "Date removed successfully"}, nil
}

func (s *Server) handleListLegs(ctx context.Context, req *mcp.CallToolRequest, input ListLegsInput) (*mcp.CallToolResult, ListLegsOutput, error) {
	listing, err := s.legs.List(ctx)
	if err != nil {
		return nil, ListLegsOutput{}, fmt.Errorf("failed to list legs: %w", err)
	}
	groups := listing.Groups
	if groups == nil {
		groups = []models.PlaneRoutes{}
	}
	return nil, ListLegsOutput{Planes: groups}, nil
}
