package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/fleetdesk/internal/models"
	"github.com/dharmasatrya/fleetdesk/internal/schema"
)

func samplePlanes() []models.Record {
	return []models.Record{
		&models.PlaneRecord{ID: 1, Name: "Garuda", Model: "A320", Capacity: 180, FlightDates: []string{"2025-06-01", "2025-07-10"}},
		&models.PlaneRecord{ID: 2, Name: "Lion, Air", Model: "B737", Capacity: 0, FlightDates: []string{}},
	}
}

func sampleLegs() []models.Record {
	return []models.Record{
		&models.FlightLeg{ID: 1, Name: "Garuda", Model: "A320", Capacity: 180, Date: "2025-06-01", From: "CGK", To: "DPS", Status: "On Time"},
		&models.FlightLeg{ID: 1, Name: "Garuda", Model: "A320", Capacity: 180, Date: "2025-06-02", From: "DPS", To: "CGK", Status: "Unknown"},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.csv")
	f := NewCSVFile(path, schema.Planes)

	require.NoError(t, f.SaveAll(ctx, samplePlanes()))
	loaded, err := f.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, samplePlanes(), loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"id,name,model,capacity,flight_dates\r\n"+
			"1,Garuda,A320,180,\"['2025-06-01', '2025-07-10']\"\r\n"+
			"2,\"Lion, Air\",B737,0,[]\r\n",
		string(data))
}

func TestCSVLegacyFileSurvivesLoadAndSave(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flat_data.csv")
	legacy := "id,name,model,capacity,date,from,to,status\r\n" +
		"1,Garuda,A320,180,2025-06-01,CGK,DPS,On Time\r\n" +
		"2,\"Lion, Air\",B737,189,2025-06-02,DPS,CGK,Unknown\r\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	f := NewCSVFile(path, schema.Legs)
	loaded, err := f.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.NoError(t, f.SaveAll(ctx, loaded))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, legacy, string(data))
}

func TestCSVMissingAndEmptyFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	loaded, err := NewCSVFile(filepath.Join(dir, "missing.csv"), schema.Legs).LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.NotNil(t, loaded)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	loaded, err = NewCSVFile(empty, schema.Legs).LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCSVToleratesMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	content := "id,name,model,capacity,flight_dates\n" +
		"abc,Ghost,X,lots,not-a-list\n" +
		"3,Short\n" +
		"4,Boeing 7\"47,B747,400,[]\n" +
		"5,Garuda,A320,180,['2025-06-01']\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := NewCSVFile(path, schema.Planes).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 4)

	quoted := loaded[2].(*models.PlaneRecord)
	assert.Equal(t, 4, quoted.ID)
	assert.Equal(t, `Boeing 7"47`, quoted.Name)
	assert.Equal(t, 400, quoted.Capacity)

	valid := loaded[3].(*models.PlaneRecord)
	assert.Equal(t, 5, valid.ID)
	assert.Equal(t, []string{"2025-06-01"}, valid.FlightDates)

	ghost := loaded[0].(*models.PlaneRecord)
	require.NotNil(t, ghost.RawID)
	assert.Equal(t, "abc", *ghost.RawID)
	assert.Equal(t, 0, ghost.Capacity)
	assert.Equal(t, []string{}, ghost.FlightDates)

	short := loaded[1].(*models.PlaneRecord)
	assert.Equal(t, 3, short.ID)
	assert.Equal(t, "Short", short.Name)
}

func TestCSVPreservesUnknownHeaderOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat_data.csv")
	content := "status,to,from,date,capacity,model,name,id\n" +
		"Delayed,DPS,CGK,2025-06-01,180,A320,Garuda,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := NewCSVFile(path, schema.Legs).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	l := loaded[0].(*models.FlightLeg)
	assert.Equal(t, "CGK", l.From)
	assert.Equal(t, "Delayed", l.Status)
}

func TestSQLiteMatchesCSV(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fleet.db")

	for _, tc := range []struct {
		schema  schema.Schema
		records []models.Record
	}{
		{schema.Planes, samplePlanes()},
		{schema.Legs, sampleLegs()},
	} {
		table, err := OpenSQLite(dbPath, tc.schema)
		require.NoError(t, err)

		empty, err := table.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty)

		require.NoError(t, table.SaveAll(ctx, tc.records))
		loaded, err := table.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, tc.records, loaded)

		require.NoError(t, table.SaveAll(ctx, tc.records[:1]))
		loaded, err = table.LoadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, loaded, 1)

		require.NoError(t, table.Close())
	}
}

func TestUpdateDoesNotSaveOnError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.csv")
	s := New(NewCSVFile(path, schema.Planes), schema.Planes)
	require.NoError(t, s.SaveAll(ctx, samplePlanes()))

	boom := errors.New("boom")
	err := s.Update(ctx, func(records []models.Record) ([]models.Record, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestConcurrentUpdatesAreSerialised(t *testing.T) {
	ctx := context.Background()
	s := New(NewCSVFile(filepath.Join(t.TempDir(), "data.csv"), schema.Planes), schema.Planes)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = s.Update(ctx, func(records []models.Record) ([]models.Record, error) {
				return append(records, &models.PlaneRecord{ID: id, FlightDates: []string{}}), nil
			})
		}(i)
	}
	wg.Wait()

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 20)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("csv", filepath.Join(dir, "data.csv"), schema.Planes)
	require.NoError(t, err)
	assert.Equal(t, models.VariantPlanes, s.Schema().Variant())

	s, err = Open("sqlite", filepath.Join(dir, "fleet.db"), schema.Legs)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open("parquet", "x", schema.Legs)
	assert.Error(t, err)
}
