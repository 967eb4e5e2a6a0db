package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and skips the test when it is
// unset. The schema is created on first use.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 10, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.migrate(ctx))
	require.NoError(t, setup.TruncateAllTables(ctx))

	t.Cleanup(setup.Close)
	return setup
}

func (t *TestDatabaseSetup) migrate(ctx context.Context) error {
	var exists bool
	if err := t.DB.QueryRow(ctx, `SELECT to_regclass('public.shift_registrations') IS NOT NULL`).Scan(&exists); err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if exists {
		return nil
	}

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "000001_init.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration: %w", err)
	}
	if _, err := t.DB.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to apply migration: %w", err)
	}
	return nil
}

// TruncateAllTables removes all rows from the application tables.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"salary_goals",
		"notifications",
		"violations",
		"payrolls",
		"attendances",
		"shift_registrations",
		"shifts",
		"employees",
		"branches",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

// ========== Seeders ==========

func (t *TestDatabaseSetup) createBranch(tb testing.TB, name string) string {
	tb.Helper()
	var id string
	err := t.DB.QueryRow(context.Background(), `
		INSERT INTO branches (name, address, latitude, longitude, radius_meters)
		VALUES ($1, 'Jl. Test 1', 21.0285, 105.8048, 300)
		RETURNING id
	`, name).Scan(&id)
	require.NoError(tb, err)
	return id
}

func (t *TestDatabaseSetup) createEmployee(tb testing.TB, branchID, name, role string) string {
	tb.Helper()
	var id string
	err := t.DB.QueryRow(context.Background(), `
		INSERT INTO employees (branch_id, name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, branchID, name, fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()), role).Scan(&id)
	require.NoError(tb, err)
	return id
}

func (t *TestDatabaseSetup) createShift(tb testing.TB, branchID, name, start, end string, max *int) string {
	tb.Helper()
	var id string
	err := t.DB.QueryRow(context.Background(), `
		INSERT INTO shifts (branch_id, name, start_time, end_time, max_employees)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, branchID, name, start, end, max).Scan(&id)
	require.NoError(tb, err)
	return id
}
