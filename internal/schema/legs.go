package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

var (
	legHeader   = []string{"id", "name", "model", "capacity", "date", "from", "to", "status"}
	legRequired = []string{"id", "name", "model", "capacity", "date", "from", "to"}
)

type legSchema struct{}

func (legSchema) Variant() models.Variant { return models.VariantLegs }

func (legSchema) Header() []string {
	return append([]string(nil), legHeader...)
}

func (legSchema) Validate(raw map[string]any) (models.Record, error) {
	if err := missingFields(raw, legRequired); err != nil {
		return nil, err
	}
	id, err := validID(raw)
	if err != nil {
		return nil, err
	}
	return &models.FlightLeg{
		ID:       id,
		Name:     AsString(raw["name"]),
		Model:    AsString(raw["model"]),
		Capacity: CoerceCapacity(raw["capacity"]),
		Date:     strings.TrimSpace(AsString(raw["date"])),
		From:     strings.TrimSpace(AsString(raw["from"])),
		To:       strings.TrimSpace(AsString(raw["to"])),
		Status:   statusOrDefault(AsString(raw["status"])),
	}, nil
}

func (legSchema) Encode(rec models.Record) ([]string, error) {
	l, ok := rec.(*models.FlightLeg)
	if !ok {
		return nil, fmt.Errorf("legs schema cannot encode %T", rec)
	}
	return []string{
		encodeID(l.ID, l.RawID),
		l.Name,
		l.Model,
		strconv.Itoa(l.Capacity),
		l.Date,
		l.From,
		l.To,
		l.Status,
	}, nil
}

func (legSchema) Decode(row map[string]string) models.Record {
	id, rawID := decodeID(row["id"])
	return &models.FlightLeg{
		ID:       id,
		RawID:    rawID,
		Name:     row["name"],
		Model:    row["model"],
		Capacity: CoerceCapacity(row["capacity"]),
		Date:     row["date"],
		From:     row["from"],
		To:       row["to"],
		Status:   statusOrDefault(row["status"]),
	}
}

func statusOrDefault(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.DefaultStatus
	}
	return s
}
