package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/fleetdesk/internal/models"
	"github.com/dharmasatrya/fleetdesk/internal/service"
)

// FleetHandler serves one record variant.
type FleetHandler struct {
	fleet *service.Fleet
}

func NewFleetHandler(f *service.Fleet) *FleetHandler {
	return &FleetHandler{fleet: f}
}

func (h *FleetHandler) AddPlane(c echo.Context) error {
	raw, err := decodeObject(c)
	if err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	rec, err := h.fleet.AddPlane(c.Request().Context(), raw)
	if err != nil {
		return writeError(c, err, http.StatusConflict)
	}
	return c.JSON(http.StatusCreated, rec)
}

// List returns the planes, or for legs the grouped route view. X-Cache tells
// whether the view came from the list cache.
func (h *FleetHandler) List(c echo.Context) error {
	data, cached, err := h.fleet.ListView(c.Request().Context())
	if err != nil {
		return writeError(c, err, http.StatusConflict)
	}

	if cached {
		c.Response().Header().Set("X-Cache", "HIT")
	} else {
		c.Response().Header().Set("X-Cache", "MISS")
	}
	return c.JSONBlob(http.StatusOK, data)
}

func (h *FleetHandler) DeletePlane(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, models.NewInvalidID(c.Param("id")), http.StatusConflict)
	}

	if err := h.fleet.DeletePlane(c.Request().Context(), id); err != nil {
		return writeError(c, err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{
		Message: "Plane with ID " + strconv.Itoa(id) + " deleted.",
	})
}

// AddFlight takes the date from the path when present. Leg endpoints read
// from, to and status from the JSON body.
func (h *FleetHandler) AddFlight(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, models.NewInvalidID(c.Param("id")), http.StatusBadRequest)
	}

	var req models.FlightRequest
	if h.fleet.Variant() == models.VariantLegs {
		if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
		}
	}
	req.ID = id
	if date := pathParam(c, "date"); date != "" {
		req.Date = date
	}

	if err := h.fleet.AddFlight(c.Request().Context(), req); err != nil {
		return writeError(c, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Flight date added successfully"})
}

func (h *FleetHandler) DeleteFlight(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return writeError(c, models.NewInvalidID(c.Param("id")), http.StatusConflict)
	}

	req := models.FlightRequest{
		ID:   id,
		Date: pathParam(c, "date"),
		From: c.QueryParam("from"),
		To:   c.QueryParam("to"),
	}
	if err := h.fleet.DeleteFlight(c.Request().Context(), req); err != nil {
		return writeError(c, err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Date removed successfully"})
}

func pathID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Param("id")))
	return id, err == nil
}

func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if u, err := url.PathUnescape(v); err == nil {
		v = u
	}
	return strings.TrimSpace(v)
}

// decodeObject reads the body as a JSON object, keeping numbers exact.
func decodeObject(c echo.Context) (map[string]any, error) {
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	return raw, nil
}
