package dataset

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"biobridge/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current catalog schema version. Bump this when the
// schema changes; existing catalogs must be recreated after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the catalog schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrCatalogLocked indicates another process holds the catalog.
var ErrCatalogLocked = errors.New("dataset catalog is locked by another process")

// Catalog is a SQLite-backed dataset store. A file lock enforces single-writer
// access: concurrent pipeline runs must use independent catalogs.
type Catalog struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

var _ Store = (*Catalog)(nil)

// OpenCatalog initializes or connects to the catalog database at path and
// applies the schema.
func OpenCatalog(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure catalog directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !locked {
		return nil, ErrCatalogLocked
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	catalog := &Catalog{db: db, lock: lock, path: path}
	if err := catalog.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return catalog, nil
}

// Close releases the database connection and the catalog lock.
func (c *Catalog) Close() error {
	if c == nil {
		return nil
	}
	var dbErr error
	if c.db != nil {
		dbErr = c.db.Close()
	}
	if c.lock != nil {
		_ = c.lock.Unlock()
	}
	return dbErr
}

// Path returns the catalog database location.
func (c *Catalog) Path() string {
	return c.path
}

func (c *Catalog) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := c.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: catalog has version %d, expected %d (delete %s to recreate)",
			ErrSchemaMismatch, version, schemaVersion, c.path)
	}
	return nil
}

// Put stores a dataset under its name, replacing any previous rows.
func (c *Catalog) Put(ctx context.Context, ds *Dataset) error {
	if ds == nil || ds.Name == "" {
		return services.Wrap(services.ErrValidation, "", "put dataset", "dataset name is required", nil)
	}

	columns, err := json.Marshal(ds.Columns)
	if err != nil {
		return fmt.Errorf("encode columns: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (name, columns, created_at, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET columns = excluded.columns, updated_at = excluded.updated_at`,
		ds.Name, string(columns), now, now,
	); err != nil {
		return fmt.Errorf("upsert dataset %q: %w", ds.Name, err)
	}

	var datasetID int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM datasets WHERE name = ?", ds.Name).Scan(&datasetID); err != nil {
		return fmt.Errorf("resolve dataset id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM dataset_rows WHERE dataset_id = ?", datasetID); err != nil {
		return fmt.Errorf("clear previous rows: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		"INSERT INTO dataset_rows (dataset_id, position, payload) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare row insert: %w", err)
	}
	defer insert.Close()

	for position, record := range ds.Records {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", position, err)
		}
		if _, err := insert.ExecContext(ctx, datasetID, position, string(payload)); err != nil {
			return fmt.Errorf("insert row %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put: %w", err)
	}
	return nil
}

// Get loads the named dataset or returns ErrNotFound.
func (c *Catalog) Get(ctx context.Context, name string) (*Dataset, error) {
	var datasetID int64
	var columnsJSON string
	err := c.db.QueryRowContext(ctx,
		"SELECT id, columns FROM datasets WHERE name = ?", name,
	).Scan(&datasetID, &columnsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "", "get dataset", name, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("query dataset %q: %w", name, err)
	}

	var columns []string
	if err := json.Unmarshal([]byte(columnsJSON), &columns); err != nil {
		return nil, fmt.Errorf("decode columns for %q: %w", name, err)
	}

	ds := New(name, columns)
	rows, err := c.db.QueryContext(ctx,
		"SELECT payload FROM dataset_rows WHERE dataset_id = ? ORDER BY position", datasetID)
	if err != nil {
		return nil, fmt.Errorf("query rows for %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var record Record
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			return nil, fmt.Errorf("decode row payload: %w", err)
		}
		ds.Append(record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows for %q: %w", name, err)
	}
	return ds, nil
}

// List returns summaries of all stored datasets, sorted by name.
func (c *Catalog) List(ctx context.Context) ([]Info, error) {
	rows, err := c.db.QueryContext(ctx, `
        SELECT d.name, d.columns, d.updated_at, COUNT(r.dataset_id)
        FROM datasets d
        LEFT JOIN dataset_rows r ON r.dataset_id = d.id
        GROUP BY d.id
        ORDER BY d.name`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var columnsJSON, updatedAt string
		if err := rows.Scan(&info.Name, &columnsJSON, &updatedAt, &info.Rows); err != nil {
			return nil, fmt.Errorf("scan dataset summary: %w", err)
		}
		var columns []string
		if err := json.Unmarshal([]byte(columnsJSON), &columns); err != nil {
			return nil, fmt.Errorf("decode columns for %q: %w", info.Name, err)
		}
		info.Columns = len(columns)
		if parsed, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			info.UpdatedAt = parsed
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes the named dataset and its rows.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	result, err := c.db.ExecContext(ctx, "DELETE FROM datasets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", name, err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "", "delete dataset", name, nil)
	}
	return nil
}
