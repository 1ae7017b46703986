// Package reconcile detects conflicting inserts and builds the grouped route
// view of flight legs.
package reconcile

import (
	"fmt"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

// CheckInsert reports whether rec may be appended to records. Planes conflict
// on id alone; legs conflict on (id, date, from, to).
func CheckInsert(records []models.Record, rec models.Record) error {
	switch r := rec.(type) {
	case *models.PlaneRecord:
		if FindPlane(records, r.ID) != nil {
			return &models.Error{
				Kind:    models.KindDuplicateID,
				Message: fmt.Sprintf("ID %d already exists", r.ID),
			}
		}
	case *models.FlightLeg:
		if HasLeg(records, r.ID, r.Date, r.From, r.To) {
			return &models.Error{
				Kind:    models.KindDuplicateFlight,
				Message: fmt.Sprintf("Flight %d on %s from %s to %s already exists", r.ID, r.Date, r.From, r.To),
			}
		}
	default:
		return fmt.Errorf("unsupported record type %T", rec)
	}
	return nil
}

// FindPlane returns the first plane row with the given id.
func FindPlane(records []models.Record, id int) *models.PlaneRecord {
	for _, rec := range records {
		if p, ok := rec.(*models.PlaneRecord); ok && MatchesID(p, id) {
			return p
		}
	}
	return nil
}

// FirstLeg returns the first leg row with the given id, in file order.
func FirstLeg(records []models.Record, id int) *models.FlightLeg {
	for _, rec := range records {
		if l, ok := rec.(*models.FlightLeg); ok && MatchesID(l, id) {
			return l
		}
	}
	return nil
}

func HasLeg(records []models.Record, id int, date, from, to string) bool {
	for _, rec := range records {
		l, ok := rec.(*models.FlightLeg)
		if !ok || l.RawID != nil {
			continue
		}
		if l.ID == id && l.Date == date && l.From == from && l.To == to {
			return true
		}
	}
	return false
}

func HasDate(p *models.PlaneRecord, date string) bool {
	for _, d := range p.FlightDates {
		if d == date {
			return true
		}
	}
	return false
}

// RemoveDate drops date from the plane's list and reports whether it was present.
func RemoveDate(p *models.PlaneRecord, date string) bool {
	for i, d := range p.FlightDates {
		if d == date {
			p.FlightDates = append(p.FlightDates[:i:i], p.FlightDates[i+1:]...)
			return true
		}
	}
	return false
}

// Filter returns the records for which keep is true and the number dropped.
func Filter(records []models.Record, keep func(models.Record) bool) ([]models.Record, int) {
	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out, len(records) - len(out)
}

type groupKey struct {
	id       int
	name     string
	model    string
	capacity int
}

// Group collapses legs sharing (id, name, model, capacity) into one entry per
// plane, in order of first appearance. Legs whose plane attributes disagree
// stay in separate groups.
func Group(legs []*models.FlightLeg) []models.PlaneRoutes {
	groups := make([]models.PlaneRoutes, 0)
	index := make(map[groupKey]int)

	for _, l := range legs {
		key := groupKey{id: l.ID, name: l.Name, model: l.Model, capacity: l.Capacity}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.PlaneRoutes{
				ID:       l.ID,
				Name:     l.Name,
				Model:    l.Model,
				Capacity: l.Capacity,
				Routes:   []models.Route{},
			})
		}
		groups[i].Routes = append(groups[i].Routes, l.Route())
	}
	return groups
}

// MatchesID reports whether rec belongs to the plane id. Rows whose stored id
// did not parse never match.
func MatchesID(rec models.Record, id int) bool {
	switch r := rec.(type) {
	case *models.PlaneRecord:
		return r.RawID == nil && r.ID == id
	case *models.FlightLeg:
		return r.RawID == nil && r.ID == id
	default:
		return false
	}
}
