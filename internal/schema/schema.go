// Package schema validates incoming payloads and converts records to and from
// their tabular form. Each record variant has its own Schema.
package schema

import (
	"fmt"
	"strconv"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

type Schema interface {
	Variant() models.Variant
	Header() []string
	// Validate turns a raw payload into a record or rejects it with a *models.Error.
	Validate(raw map[string]any) (models.Record, error)
	// Encode returns the record's cells in Header order.
	Encode(rec models.Record) ([]string, error)
	// Decode builds a record from stored cells, defaulting malformed values.
	Decode(row map[string]string) models.Record
}

var (
	Planes Schema = planeSchema{}
	Legs   Schema = legSchema{}
)

func ForVariant(v models.Variant) (Schema, error) {
	switch v {
	case models.VariantPlanes:
		return Planes, nil
	case models.VariantLegs:
		return Legs, nil
	default:
		return nil, fmt.Errorf("unknown record variant %q", v)
	}
}

func missingFields(raw map[string]any, required []string) error {
	var missing []string
	for _, f := range required {
		if _, ok := raw[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return models.NewMissingFields(missing)
	}
	return nil
}

func validID(raw map[string]any) (int, error) {
	id, ok := ParseID(raw["id"])
	if !ok {
		return 0, models.NewInvalidID(raw["id"])
	}
	return id, nil
}

// decodeID parses a stored id cell. A cell that does not parse is kept verbatim.
func decodeID(cell string) (int, *string) {
	id, ok := parseIntString(cell)
	if !ok {
		return 0, &cell
	}
	return id, nil
}

func encodeID(id int, raw *string) string {
	if raw != nil {
		return *raw
	}
	return strconv.Itoa(id)
}
