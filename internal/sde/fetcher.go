// Package sde implements a universe.Fetcher backed by a local EVE Static
// Data Export sqlite database. It is the offline counterpart to the esi
// package: same capability contract, no network.
package sde

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/starmap/internal/log"
	"github.com/zjrosen/starmap/internal/universe"
)

// Fetcher reads solar systems from an SDE database.
// database/sql serializes access internally, so a single Fetcher is safe
// for concurrent scheduler workers.
type Fetcher struct {
	db     *sql.DB
	dbPath string
}

// Compile-time check that Fetcher satisfies the capability contract.
var _ universe.Fetcher = (*Fetcher)(nil)

// Open opens the SDE database read-only and verifies the connection.
func Open(path string) (*Fetcher, error) {
	log.Debug(log.CatSDE, "Opening database", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		log.ErrorErr(log.CatSDE, "Failed to open database", err, "path", path)
		return nil, err
	}
	// Verify connection works
	if err := db.Ping(); err != nil {
		log.ErrorErr(log.CatSDE, "Failed to ping database", err, "path", path)
		_ = db.Close()
		return nil, err
	}
	log.Info(log.CatSDE, "Connected to database", "path", path)
	return &Fetcher{db: db, dbPath: path}, nil
}

// Close closes the database connection.
func (f *Fetcher) Close() error {
	return f.db.Close()
}

// record is the payload shape stored for systems read from the SDE.
type record struct {
	ID       int64   `json:"system_id"`
	Name     string  `json:"name"`
	Security float64 `json:"security_status"`
}

// Fetch looks up one system by name. Unknown names are NotFound; query
// errors are Transport. The row is re-encoded as JSON so SDE- and
// ESI-sourced Systems carry payloads of the same shape.
func (f *Fetcher) Fetch(ctx context.Context, name string) (universe.System, error) {
	var rec record
	err := f.db.QueryRowContext(ctx,
		`SELECT solarSystemID, solarSystemName, security
		 FROM mapSolarSystems WHERE solarSystemName = ?`, name,
	).Scan(&rec.ID, &rec.Name, &rec.Security)
	if errors.Is(err, sql.ErrNoRows) {
		return universe.System{}, universe.NewNotFound(name)
	}
	if err != nil {
		log.ErrorErr(log.CatSDE, "Query failed", err, "name", name)
		return universe.System{}, universe.NewTransport(name, err)
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return universe.System{}, universe.NewTransport(name, err)
	}
	log.Debug(log.CatSDE, "Fetched system", "name", name, "id", rec.ID)
	return universe.NewSystem(name, payload), nil
}

// SystemNames returns all system names in the database, in table order.
func (f *Fetcher) SystemNames(ctx context.Context) ([]string, error) {
	rows, err := f.db.QueryContext(ctx,
		`SELECT solarSystemName FROM mapSolarSystems`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
