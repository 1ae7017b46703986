package models

import "strings"

// FlightRequest addresses one flight of a plane. From, To and Status only apply to legs.
type FlightRequest struct {
	ID     int    `json:"id"`
	Date   string `json:"date"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Status string `json:"status,omitempty"`
}

func (r *FlightRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	r.Status = strings.TrimSpace(r.Status)
}

// Validate checks the fields an add-flight call needs for the given variant.
func (r *FlightRequest) Validate(v Variant) error {
	r.Normalize()

	var missing []string
	if r.Date == "" {
		missing = append(missing, "date")
	}
	if v == VariantLegs {
		if r.From == "" {
			missing = append(missing, "from")
		}
		if r.To == "" {
			missing = append(missing, "to")
		}
		if r.Status == "" {
			r.Status = DefaultStatus
		}
	}
	if len(missing) > 0 {
		return NewMissingFields(missing)
	}
	return nil
}

type ChatRequest struct {
	Message string `json:"message"`
}

func (r *ChatRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		return NewMissingFields([]string{"message"})
	}
	return nil
}
