package store

import (
	"fmt"

	"github.com/dharmasatrya/fleetdesk/internal/schema"
)

// Open returns a Store over a CSV file or a SQLite table at path.
func Open(backend, path string, s schema.Schema) (*Store, error) {
	switch backend {
	case "", "csv":
		return New(NewCSVFile(path, s), s), nil
	case "sqlite":
		t, err := OpenSQLite(path, s)
		if err != nil {
			return nil, err
		}
		return New(t, s), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
