package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dharmasatrya/fleetdesk/internal/models"
	"github.com/dharmasatrya/fleetdesk/internal/schema"
)

// SQLiteTable keeps one variant's rows in a table whose columns mirror the CSV header.
type SQLiteTable struct {
	db     *sql.DB
	table  string
	schema schema.Schema
}

func OpenSQLite(path string, s schema.Schema) (*SQLiteTable, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Writes are serialised by Store; one connection also keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	t := &SQLiteTable{
		db:     db,
		table:  string(s.Variant()),
		schema: s,
	}
	if err := t.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return t, nil
}

func (t *SQLiteTable) createSchema() error {
	cols := make([]string, 0, len(t.schema.Header())+1)
	cols = append(cols, "pos INTEGER PRIMARY KEY")
	for _, name := range t.schema.Header() {
		cols = append(cols, quoteIdent(name)+" TEXT NOT NULL DEFAULT ''")
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(t.table), strings.Join(cols, ", "))
	_, err := t.db.Exec(stmt)
	return err
}

func (t *SQLiteTable) LoadAll(ctx context.Context) ([]models.Record, error) {
	header := t.schema.Header()
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY pos", columnList(header), quoteIdent(t.table))

	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.table, err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		cells := make([]string, len(header))
		dest := make([]any, len(header))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = cells[i]
		}
		records = append(records, t.schema.Decode(row))
	}
	return records, rows.Err()
}

func (t *SQLiteTable) SaveAll(ctx context.Context, records []models.Record) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+quoteIdent(t.table)); err != nil {
		return fmt.Errorf("clear %s: %w", t.table, err)
	}

	header := t.schema.Header()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(header)+1), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (pos, %s) VALUES (%s)", quoteIdent(t.table), columnList(header), placeholders)

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		cells, err := t.schema.Encode(rec)
		if err != nil {
			return err
		}
		args := make([]any, 0, len(cells)+1)
		args = append(args, i)
		for _, c := range cells {
			args = append(args, c)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (t *SQLiteTable) Close() error {
	return t.db.Close()
}

func columnList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
