// Package testutil provides shared test infrastructure for integration tests.
// It starts a PostgreSQL container with testcontainers-go, applies the
// migrations, and hands out a connection pool.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/forgecommerce/catalog/internal/database"
)

// TestDB holds a PostgreSQL test container and connection pool. It is shared
// across the tests of one package via TestMain; each test calls Truncate.
type TestDB struct {
	Pool      *pgxpool.Pool
	container testcontainers.Container
	connStr   string
}

// SetupTestDB starts a PostgreSQL container, runs all migrations, and
// returns a TestDB with an active connection pool.
//
// Usage in TestMain:
//
//	var testDB *testutil.TestDB
//
//	func TestMain(m *testing.M) {
//	    var code int
//	    defer func() { os.Exit(code) }()
//
//	    db, err := testutil.SetupTestDB()
//	    if err != nil { log.Fatal(err) }
//	    defer db.Close()
//	    testDB = db
//
//	    code = m.Run()
//	}
func SetupTestDB() (*TestDB, error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalog_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("starting postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("getting connection string: %w", err)
	}

	if err := database.Migrate(connStr); err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	pool, err := database.Connect(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, err
	}

	return &TestDB{
		Pool:      pool,
		container: container,
		connStr:   connStr,
	}, nil
}

// ConnString returns the container's connection string.
func (tdb *TestDB) ConnString() string {
	return tdb.connStr
}

// Close terminates the container and closes the pool.
func (tdb *TestDB) Close() {
	if tdb.Pool != nil {
		tdb.Pool.Close()
	}
	if tdb.container != nil {
		tdb.container.Terminate(context.Background())
	}
}

// Truncate removes all rows from the catalog tables while keeping the schema.
// Call it at the start of each test.
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	_, err := tdb.Pool.Exec(context.Background(),
		`TRUNCATE product_images, products, categories RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("truncating tables: %v", err)
	}
}
