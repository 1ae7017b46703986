package chat

import (
	"fmt"

	"github.com/dharmasatrya/fleetdesk/internal/dates"
	"github.com/dharmasatrya/fleetdesk/internal/models"
)

// Describe renders one leg as the sentence the assistant retrieves from.
func Describe(l *models.FlightLeg) string {
	id := fmt.Sprint(l.ID)
	if l.RawID != nil {
		id = *l.RawID
	}
	return fmt.Sprintf("Flight ID %s - %s (%s) with capacity %d is scheduled on %s from %s to %s.",
		id, l.Name, l.Model, l.Capacity, dates.Normalize(l.Date), l.From, l.To)
}

// Documents describes every leg and splits the descriptions into chunks.
func Documents(legs []*models.FlightLeg, s Splitter) []string {
	docs := make([]string, 0, len(legs))
	for _, l := range legs {
		docs = append(docs, s.Split(Describe(l))...)
	}
	return docs
}
