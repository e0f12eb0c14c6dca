// Package index provides the durable order-id to location mapping.
//
// The index lives in a single SQLite database file named "index" at the
// storage root. It is a recovery structure, not the source of truth: the
// partition files hold the rows, the index only remembers where each order's
// row is, and can be rebuilt from partition contents if lost.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/orderreg/internal/model"
)

// ErrNotFound reports that an order id was never indexed.
var ErrNotFound = errors.New("order not indexed")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS locations (
    order_id INTEGER PRIMARY KEY,
    location TEXT NOT NULL
);
`

// Index is a handle on the durable index file. The underlying database is
// opened and closed per operation, so a crash mid-operation can never leave
// the file locked, and sequential operations within one process never see
// each other's partial state.
//
// Not designed for concurrent multi-process writers.
type Index struct {
	path string
}

// New returns an index handle rooted at the given storage directory.
// The database file is created lazily on first write.
func New(storageRoot string) *Index {
	return &Index{path: filepath.Join(storageRoot, "index")}
}

// Path returns the index database file path.
func (ix *Index) Path() string {
	return ix.path
}

// open opens the database, applies pragmas and ensures the schema exists.
//
// synchronous=FULL so that a successful commit is on disk before the
// operation returns: a crash immediately after a Put must never lose the
// mapping.
func (ix *Index) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(ix.path), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	db, err := sql.Open("sqlite3", ix.path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	// SQLite supports one writer at a time; keep a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply index schema: %w", err)
	}

	return db, nil
}

// Put durably records the location of an order's row. An existing mapping
// for the same id is silently overwritten (last-write-wins); callers are
// responsible for not re-adding an order.
func (ix *Index) Put(orderID int, loc model.Location) error {
	db, err := ix.open()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(
		`INSERT OR REPLACE INTO locations (order_id, location) VALUES (?, ?)`,
		orderID, loc.String(),
	)
	if err != nil {
		return fmt.Errorf("index put %d: %w", orderID, err)
	}
	return nil
}

// PutAll records many mappings in one transaction on a single database
// acquisition. Used by index rebuild, where per-operation open/close would
// be wasteful.
func (ix *Index) PutAll(entries map[int]model.Location) error {
	db, err := ix.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("index put all: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO locations (order_id, location) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("index put all: %w", err)
	}
	defer stmt.Close()

	for id, loc := range entries {
		if _, err := stmt.Exec(id, loc.String()); err != nil {
			return fmt.Errorf("index put all %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("index put all: %w", err)
	}
	return nil
}

// Get resolves the stored location of an order's row.
// Returns an error wrapping ErrNotFound if the id was never indexed.
func (ix *Index) Get(orderID int) (model.Location, error) {
	db, err := ix.open()
	if err != nil {
		return model.Location{}, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRow(`SELECT location FROM locations WHERE order_id = ?`, orderID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Location{}, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return model.Location{}, fmt.Errorf("index get %d: %w", orderID, err)
	}

	loc, err := model.ParseLocation(raw)
	if err != nil {
		return model.Location{}, fmt.Errorf("index get %d: %w", orderID, err)
	}
	return loc, nil
}
