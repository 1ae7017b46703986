// Package store persists the complete record set of one variant. Every write
// replaces the whole backing table.
package store

import (
	"context"
	"sync"

	"github.com/dharmasatrya/fleetdesk/internal/models"
	"github.com/dharmasatrya/fleetdesk/internal/schema"
)

// Backend loads and saves the full record set. A missing backing table loads as empty.
type Backend interface {
	LoadAll(ctx context.Context) ([]models.Record, error)
	SaveAll(ctx context.Context, records []models.Record) error
	Close() error
}

// MutateFunc receives the current records and returns the set to persist.
// Returning an error aborts the update without saving.
type MutateFunc func(records []models.Record) ([]models.Record, error)

// Store serialises load-mutate-save sequences on one backend.
type Store struct {
	backend Backend
	schema  schema.Schema
	mu      sync.Mutex
}

func New(backend Backend, s schema.Schema) *Store {
	return &Store{
		backend: backend,
		schema:  s,
	}
}

func (s *Store) Schema() schema.Schema {
	return s.schema
}

func (s *Store) LoadAll(ctx context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.LoadAll(ctx)
}

// View runs fn on the current records while holding the write lock, so no
// update can land between the load and fn returning.
func (s *Store) View(ctx context.Context, fn func(records []models.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.backend.LoadAll(ctx)
	if err != nil {
		return err
	}
	return fn(records)
}

func (s *Store) SaveAll(ctx context.Context, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.SaveAll(ctx, records)
}

func (s *Store) Update(ctx context.Context, fn MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.backend.LoadAll(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return s.backend.SaveAll(ctx, updated)
}

func (s *Store) Close() error {
	return s.backend.Close()
}
