package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"
)

// SDESchema is the slice of the Static Data Export schema the sde fetcher
// reads from.
const SDESchema = `
CREATE TABLE mapSolarSystems (
	solarSystemID INTEGER PRIMARY KEY,
	solarSystemName TEXT NOT NULL UNIQUE,
	security REAL NOT NULL DEFAULT 0.0
);
`

// NewTestSDE creates an SDE database file in a test temp dir and returns its
// path along with a writable handle for seeding rows. The handle is closed
// automatically when the test finishes.
func NewTestSDE(t *testing.T) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sde.db")
	db, err := sql.Open("sqlite3", "file:"+path)
	require.NoError(t, err)
	_, err = db.Exec(SDESchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return path, db
}

// InsertSystem seeds one solar system row.
func InsertSystem(t *testing.T, db *sql.DB, id int64, name string, security float64) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO mapSolarSystems (solarSystemID, solarSystemName, security) VALUES (?, ?, ?)`,
		id, name, security,
	)
	require.NoError(t, err)
}
