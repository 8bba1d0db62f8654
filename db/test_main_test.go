// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Tables cleared between tests, children first.
var testTables = []string{"invoice_items", "visits", "patients", "business_settings"}

var testSchemaName string

func TestMain(m *testing.M) {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set, skipping database tests")
		os.Exit(m.Run())
	}

	if err := ensureDatabaseExists(ctx, databaseURL); err != nil {
		fmt.Fprintln(os.Stderr, "failed to ensure database exists:", err)
		os.Exit(1)
	}

	testSchemaName = fmt.Sprintf("pulse_test_%d_%d", time.Now().UnixNano(), os.Getpid())

	if err := initTestPool(ctx, databaseURL); err != nil {
		fmt.Fprintln(os.Stderr, "failed to prepare test schema:", err)
		os.Exit(1)
	}

	code := m.Run()

	schema := pgx.Identifier{testSchemaName}.Sanitize()
	if _, err := pool.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to drop test schema:", err)
	}

	Close()
	os.Exit(code)
}

// initTestPool points the package pool at a fresh schema and migrates it.
func initTestPool(ctx context.Context, databaseURL string) error {
	if err := openTestPool(ctx, databaseURL); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, "CREATE SCHEMA "+pgx.Identifier{testSchemaName}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close migration connection", "error", err)
		}
	}()

	return runMigrations(ctx, sqlDB)
}

// openTestPool connects the package pool with the test schema first on the search path.
func openTestPool(ctx context.Context, databaseURL string) error {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database url: %w", err)
	}

	config.ConnConfig.RuntimeParams["search_path"] = testSchemaName + ",public"
	config.MaxConns = 5

	pool, err = pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create test pool: %w", err)
	}

	return nil
}

// withSearchPath returns databaseURL with the test schema selected, for code
// that opens its own connections from DATABASE_URL.
func withSearchPath(databaseURL string) (string, error) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database url: %w", err)
	}

	query := parsed.Query()
	query.Set("options", "-c search_path="+testSchemaName+",public")
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

func resetDatabase(t *testing.T) {
	t.Helper()

	if pool == nil {
		t.Skip("database not configured")
	}

	ctx := context.Background()
	for _, table := range testTables {
		if _, err := pool.Exec(ctx, "DELETE FROM "+pgx.Identifier{table}.Sanitize()); err != nil {
			t.Fatalf("failed to clear %s: %v", table, err)
		}
	}

	if err := EnsureBusinessSettings(ctx); err != nil {
		t.Fatalf("failed to seed business settings: %v", err)
	}
}
