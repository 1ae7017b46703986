package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

func leg(id int, name, date, from, to string) *models.FlightLeg {
	return &models.FlightLeg{ID: id, Name: name, Model: "A320", Capacity: 180, Date: date, From: from, To: to, Status: "On Time"}
}

func TestCheckInsert(t *testing.T) {
	records := []models.Record{
		&models.PlaneRecord{ID: 1},
		leg(2, "G", "2025-06-01", "CGK", "DPS"),
	}

	assert.ErrorIs(t, CheckInsert(records, &models.PlaneRecord{ID: 1}), models.ErrDuplicateID)
	assert.NoError(t, CheckInsert(records, &models.PlaneRecord{ID: 3}))

	assert.ErrorIs(t, CheckInsert(records, leg(2, "G", "2025-06-01", "CGK", "DPS")), models.ErrDuplicateFlight)
	assert.NoError(t, CheckInsert(records, leg(2, "G", "2025-06-01", "DPS", "CGK")))
}

func TestUnparsableIDNeverMatches(t *testing.T) {
	raw := "x"
	records := []models.Record{&models.PlaneRecord{ID: 0, RawID: &raw}}

	assert.Nil(t, FindPlane(records, 0))
	assert.NoError(t, CheckInsert(records, &models.PlaneRecord{ID: 0}))
}

func TestFirstLegUsesFileOrder(t *testing.T) {
	records := []models.Record{
		leg(1, "First", "2025-06-01", "A", "B"),
		leg(1, "Second", "2025-06-02", "B", "A"),
	}
	require.NotNil(t, FirstLeg(records, 1))
	assert.Equal(t, "First", FirstLeg(records, 1).Name)
	assert.Nil(t, FirstLeg(records, 2))
}

func TestRemoveDate(t *testing.T) {
	p := &models.PlaneRecord{ID: 1, FlightDates: []string{"a", "b", "c"}}
	assert.True(t, RemoveDate(p, "b"))
	assert.Equal(t, []string{"a", "c"}, p.FlightDates)
	assert.False(t, RemoveDate(p, "b"))
}

func TestFilter(t *testing.T) {
	records := []models.Record{&models.PlaneRecord{ID: 1}, &models.PlaneRecord{ID: 2}, &models.PlaneRecord{ID: 1}}
	kept, removed := Filter(records, func(r models.Record) bool { return !MatchesID(r, 1) })
	assert.Equal(t, 2, removed)
	require.Len(t, kept, 1)
	assert.Equal(t, 2, kept[0].PlaneID())
}

func TestGroup(t *testing.T) {
	legs := []*models.FlightLeg{
		leg(1, "Garuda", "2025-06-01", "CGK", "DPS"),
		leg(2, "Lion", "2025-06-01", "CGK", "SUB"),
		leg(1, "Garuda", "2025-06-02", "DPS", "CGK"),
		leg(1, "Garuda Renamed", "2025-06-03", "CGK", "KNO"),
	}

	groups := Group(legs)
	require.Len(t, groups, 3)

	assert.Equal(t, 1, groups[0].ID)
	assert.Equal(t, "Garuda", groups[0].Name)
	assert.Equal(t, []models.Route{
		{Date: "2025-06-01", From: "CGK", To: "DPS", Status: "On Time"},
		{Date: "2025-06-02", From: "DPS", To: "CGK", Status: "On Time"},
	}, groups[0].Routes)

	assert.Equal(t, 2, groups[1].ID)
	assert.Equal(t, "Garuda Renamed", groups[2].Name)
	assert.Len(t, groups[2].Routes, 1)

	assert.Equal(t, []models.PlaneRoutes{}, Group(nil))
}
