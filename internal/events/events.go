// Package events publishes a change log entry for every persisted mutation.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

type Op string

const (
	OpAddPlane     Op = "add_plane"
	OpAddFlight    Op = "add_flight"
	OpDeletePlane  Op = "delete_plane"
	OpDeleteFlight Op = "delete_flight"
)

type Event struct {
	Variant models.Variant `json:"variant"`
	Op      Op             `json:"op"`
	PlaneID int            `json:"plane_id"`
	Date    string         `json:"date,omitempty"`
	From    string         `json:"from,omitempty"`
	To      string         `json:"to,omitempty"`
	Removed int            `json:"removed,omitempty"`
	At      time.Time      `json:"at"`
}

// Subject is the NATS subject an event is published on, e.g. fleet.planes.add_flight.
func (e Event) Subject(prefix string) string {
	return fmt.Sprintf("%s.%s.%s", prefix, e.Variant, e.Op)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
	Name          string
}

type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "fleet"
	}
	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.conn.Publish(e.Subject(p.prefix), data)
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

type NoOpPublisher struct{}

func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

func (NoOpPublisher) Publish(ctx context.Context, e Event) error { return nil }
func (NoOpPublisher) Close() error                               { return nil }
