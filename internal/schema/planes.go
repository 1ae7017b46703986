package schema

import (
	"fmt"
	"strconv"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

var planeHeader = []string{"id", "name", "model", "capacity", "flight_dates"}

type planeSchema struct{}

func (planeSchema) Variant() models.Variant { return models.VariantPlanes }

func (planeSchema) Header() []string {
	return append([]string(nil), planeHeader...)
}

func (planeSchema) Validate(raw map[string]any) (models.Record, error) {
	if err := missingFields(raw, planeHeader); err != nil {
		return nil, err
	}
	id, err := validID(raw)
	if err != nil {
		return nil, err
	}
	return &models.PlaneRecord{
		ID:          id,
		Name:        AsString(raw["name"]),
		Model:       AsString(raw["model"]),
		Capacity:    CoerceCapacity(raw["capacity"]),
		FlightDates: CoerceDates(raw["flight_dates"]),
	}, nil
}

func (planeSchema) Encode(rec models.Record) ([]string, error) {
	p, ok := rec.(*models.PlaneRecord)
	if !ok {
		return nil, fmt.Errorf("planes schema cannot encode %T", rec)
	}
	return []string{
		encodeID(p.ID, p.RawID),
		p.Name,
		p.Model,
		strconv.Itoa(p.Capacity),
		FormatList(p.FlightDates),
	}, nil
}

func (planeSchema) Decode(row map[string]string) models.Record {
	id, rawID := decodeID(row["id"])
	dates, err := ParseList(row["flight_dates"])
	if err != nil {
		dates = []string{}
	}
	return &models.PlaneRecord{
		ID:          id,
		RawID:       rawID,
		Name:        row["name"],
		Model:       row["model"],
		Capacity:    CoerceCapacity(row["capacity"]),
		FlightDates: dates,
	}
}
