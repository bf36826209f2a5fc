// Package testutil provides shared helpers for the Wanderkart integration
// tests. Helpers skip the calling test when TEST_DATABASE_URL is not set, so
// unit tests run without a database.
package testutil

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/pkordes/wanderkart/backend/migrations"
)

// DSNEnv names the environment variable holding the test database URL.
const DSNEnv = "TEST_DATABASE_URL"

// Catalog rows inserted by migrations/00002_seed_catalog.sql.
var (
	CedarCabinID     = uuid.MustParse("0b6f6c1e-2f7a-4c55-9a57-6a1d3f0c9a01") // stay, options "loft" and name-keyed "Bunk Bed"
	HaveliID         = uuid.MustParse("0b6f6c1e-2f7a-4c55-9a57-6a1d3f0c9a02") // stay
	HouseboatID      = uuid.MustParse("0b6f6c1e-2f7a-4c55-9a57-6a1d3f0c9a03") // tour
	RaftingID        = uuid.MustParse("0b6f6c1e-2f7a-4c55-9a57-6a1d3f0c9a04") // adventure
	MountainRentalID = uuid.MustParse("0b6f6c1e-2f7a-4c55-9a57-6a1d3f0c9a05") // vehicleRental
	RainShellID      = uuid.MustParse("0b6f6c1e-2f7a-4c55-9a57-6a1d3f0c9a06") // product
)

// SeededItemIDs lists every seeded catalog item.
func SeededItemIDs() []uuid.UUID {
	return []uuid.UUID{CedarCabinID, HaveliID, HouseboatID, RaftingID, MountainRentalID, RainShellID}
}

// RunMain is the body of a package's TestMain: when a test database is
// configured it applies every pending migration (schema and seed catalog)
// once, then runs the tests. It returns the exit code for os.Exit.
func RunMain(m *testing.M) int {
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		// Every database test skips itself via requireDSN.
		return m.Run()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("testutil.RunMain: open: %v", err)
	}
	if _, err := migrations.Up(context.Background(), db); err != nil {
		db.Close()
		log.Fatalf("testutil.RunMain: run migrations: %v", err)
	}
	db.Close()

	return m.Run()
}

// NewPool opens a *pgxpool.Pool on the test database, closed when the test
// finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := requireDSN(t)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewTx opens a transaction on the test database that is rolled back when
// the test finishes. Repos accept a pgx.Tx wherever they accept a pool, so
// each test sees the seeded catalog and leaves nothing behind.
func NewTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := NewPool(t)

	tx, err := pool.Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewTx: begin: %v", err)
	}

	// Registered after the pool's Close, so it runs first.
	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// NewSQLDB opens a *sql.DB on the test database using the pgx database/sql
// driver, for driving goose directly. Closed when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := requireDSN(t)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skip(DSNEnv + " not set; skipping integration test")
	}
	return dsn
}
