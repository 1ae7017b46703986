// Package service implements the record operations on top of one store. Each
// call loads the full record set, applies one change in memory and writes the
// full set back.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/dharmasatrya/fleetdesk/internal/cache"
	"github.com/dharmasatrya/fleetdesk/internal/events"
	"github.com/dharmasatrya/fleetdesk/internal/metrics"
	"github.com/dharmasatrya/fleetdesk/internal/models"
	"github.com/dharmasatrya/fleetdesk/internal/reconcile"
	"github.com/dharmasatrya/fleetdesk/internal/store"
)

type Fleet struct {
	store  *store.Store
	cache  cache.Cache
	events events.Publisher
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Fleet)

func WithCache(c cache.Cache) Option {
	return func(f *Fleet) { f.cache = c }
}

func WithPublisher(p events.Publisher) Option {
	return func(f *Fleet) { f.events = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Fleet) { f.logger = l }
}

func NewFleet(st *store.Store, opts ...Option) *Fleet {
	f := &Fleet{
		store:  st,
		cache:  cache.NewNoOpCache(),
		events: events.NewNoOpPublisher(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(zap.String("variant", string(f.Variant())))
	return f
}

func (f *Fleet) Variant() models.Variant {
	return f.store.Schema().Variant()
}

// AddPlane validates raw and appends it as a new record.
func (f *Fleet) AddPlane(ctx context.Context, raw map[string]any) (rec models.Record, err error) {
	defer f.observe("add_plane", time.Now(), &err)

	rec, err = f.store.Schema().Validate(raw)
	if err != nil {
		return nil, err
	}

	err = f.update(ctx, func(records []models.Record) ([]models.Record, error) {
		if err := reconcile.CheckInsert(records, rec); err != nil {
			return nil, err
		}
		return append(records, rec), nil
	})
	if err != nil {
		return nil, err
	}

	e := events.Event{Op: events.OpAddPlane, PlaneID: rec.PlaneID()}
	if leg, ok := rec.(*models.FlightLeg); ok {
		e.Date, e.From, e.To = leg.Date, leg.From, leg.To
	}
	f.afterWrite(ctx, e)
	return rec, nil
}

// AddFlight schedules a flight for an existing plane. For planes the date is
// appended to the plane's list; for legs a new leg is added carrying the plane
// attributes of the first existing leg with the same id.
func (f *Fleet) AddFlight(ctx context.Context, req models.FlightRequest) (err error) {
	defer f.observe("add_flight", time.Now(), &err)

	if err = req.Validate(f.Variant()); err != nil {
		return err
	}

	err = f.update(ctx, func(records []models.Record) ([]models.Record, error) {
		switch f.Variant() {
		case models.VariantLegs:
			return f.addLeg(records, req)
		default:
			return f.addDate(records, req)
		}
	})
	if err != nil {
		return err
	}

	f.afterWrite(ctx, events.Event{
		Op:      events.OpAddFlight,
		PlaneID: req.ID,
		Date:    req.Date,
		From:    req.From,
		To:      req.To,
	})
	return nil
}

func (f *Fleet) addDate(records []models.Record, req models.FlightRequest) ([]models.Record, error) {
	plane := reconcile.FindPlane(records, req.ID)
	if plane == nil {
		return nil, models.NewNotFound("Plane %d not found", req.ID)
	}
	if reconcile.HasDate(plane, req.Date) {
		return nil, &models.Error{
			Kind:    models.KindDuplicateDate,
			Message: fmt.Sprintf("Date %s already exists for plane %d", req.Date, req.ID),
		}
	}
	plane.FlightDates = append(plane.FlightDates, req.Date)
	return records, nil
}

func (f *Fleet) addLeg(records []models.Record, req models.FlightRequest) ([]models.Record, error) {
	first := reconcile.FirstLeg(records, req.ID)
	if first == nil {
		return nil, models.NewNotFound("Plane %d not found", req.ID)
	}
	leg := &models.FlightLeg{
		ID:       req.ID,
		Name:     first.Name,
		Model:    first.Model,
		Capacity: first.Capacity,
		Date:     req.Date,
		From:     req.From,
		To:       req.To,
		Status:   req.Status,
	}
	if err := reconcile.CheckInsert(records, leg); err != nil {
		return nil, err
	}
	return append(records, leg), nil
}

// List returns every record; for legs it also returns the grouped route view.
func (f *Fleet) List(ctx context.Context) (listing models.Listing, err error) {
	defer f.observe("list", time.Now(), &err)

	records, err := f.store.LoadAll(ctx)
	if err != nil {
		return models.Listing{}, err
	}

	return f.listing(records), nil
}

// ListView returns the rendered list view as JSON and whether it came from
// the cache. A miss renders and fills the cache under the store lock, so a
// concurrent write cannot be overwritten by an older view.
func (f *Fleet) ListView(ctx context.Context) (data []byte, cached bool, err error) {
	defer f.observe("list", time.Now(), &err)

	if data, found := f.cache.Get(ctx, f.Variant()); found {
		return data, true, nil
	}

	err = f.store.View(ctx, func(records []models.Record) error {
		var err error
		data, err = json.Marshal(f.listing(records).View())
		if err != nil {
			return err
		}
		if err := f.cache.Set(ctx, f.Variant(), data); err != nil {
			f.logger.Warn("failed to cache list view", zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, false, nil
}

func (f *Fleet) listing(records []models.Record) models.Listing {
	listing := models.Listing{Variant: f.Variant(), Records: records}
	if listing.Variant == models.VariantLegs {
		listing.Groups = reconcile.Group(listing.Legs())
	}
	return listing
}

// Records returns the current record snapshot.
func (f *Fleet) Records(ctx context.Context) ([]models.Record, error) {
	return f.store.LoadAll(ctx)
}

// DeletePlane removes every row with the given id.
func (f *Fleet) DeletePlane(ctx context.Context, id int) (err error) {
	defer f.observe("delete_plane", time.Now(), &err)

	var removed int
	err = f.update(ctx, func(records []models.Record) ([]models.Record, error) {
		var kept []models.Record
		kept, removed = reconcile.Filter(records, func(rec models.Record) bool {
			return !reconcile.MatchesID(rec, id)
		})
		if removed == 0 {
			return nil, models.NewNotFound("Plane %d not found", id)
		}
		return kept, nil
	})
	if err != nil {
		return err
	}

	f.afterWrite(ctx, events.Event{Op: events.OpDeletePlane, PlaneID: id, Removed: removed})
	return nil
}

// DeleteFlight removes one scheduled flight. For legs, empty From/To match any endpoint.
func (f *Fleet) DeleteFlight(ctx context.Context, req models.FlightRequest) (err error) {
	defer f.observe("delete_flight", time.Now(), &err)

	req.Normalize()
	if req.Date == "" {
		return models.NewMissingFields([]string{"date"})
	}

	var removed int
	err = f.update(ctx, func(records []models.Record) ([]models.Record, error) {
		if f.Variant() == models.VariantLegs {
			var kept []models.Record
			kept, removed = reconcile.Filter(records, func(rec models.Record) bool {
				return !legMatches(rec, req)
			})
			if removed == 0 {
				return nil, models.NewNotFound("Flight of plane %d on %s not found", req.ID, req.Date)
			}
			return kept, nil
		}

		plane := reconcile.FindPlane(records, req.ID)
		if plane == nil || !reconcile.RemoveDate(plane, req.Date) {
			return nil, models.NewNotFound("Plane %d or date %s not found", req.ID, req.Date)
		}
		removed = 1
		return records, nil
	})
	if err != nil {
		return err
	}

	f.afterWrite(ctx, events.Event{
		Op:      events.OpDeleteFlight,
		PlaneID: req.ID,
		Date:    req.Date,
		From:    req.From,
		To:      req.To,
		Removed: removed,
	})
	return nil
}

func legMatches(rec models.Record, req models.FlightRequest) bool {
	l, ok := rec.(*models.FlightLeg)
	if !ok || !reconcile.MatchesID(l, req.ID) || l.Date != req.Date {
		return false
	}
	if req.From != "" && l.From != req.From {
		return false
	}
	if req.To != "" && l.To != req.To {
		return false
	}
	return true
}

// update persists the result of fn and reports the new record count once the
// save has succeeded.
func (f *Fleet) update(ctx context.Context, fn store.MutateFunc) error {
	var count int
	err := f.store.Update(ctx, func(records []models.Record) ([]models.Record, error) {
		out, err := fn(records)
		if err != nil {
			return nil, err
		}
		count = len(out)
		return out, nil
	})
	if err != nil {
		return err
	}
	metrics.StoredRecords.WithLabelValues(string(f.Variant())).Set(float64(count))
	return nil
}

// afterWrite runs once a save succeeded. Failures here never undo the write.
func (f *Fleet) afterWrite(ctx context.Context, e events.Event) {
	if err := f.cache.Invalidate(ctx, f.Variant()); err != nil {
		f.logger.Warn("failed to invalidate list cache", zap.Error(err))
	}

	e.Variant = f.Variant()
	e.At = f.now().UTC()
	if err := f.events.Publish(ctx, e); err != nil {
		f.logger.Warn("failed to publish change event", zap.String("op", string(e.Op)), zap.Error(err))
	}

	f.logger.Info("records updated",
		zap.String("op", string(e.Op)),
		zap.Int("plane_id", e.PlaneID),
		zap.String("date", e.Date),
	)
}

func (f *Fleet) observe(op string, start time.Time, err *error) {
	metrics.ObserveOperation(f.Variant(), op, start, *err)
}
