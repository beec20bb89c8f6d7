//go:build integration

package migrate

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chirp/chirp/internal/testutil"
	"github.com/chirp/chirp/migrations"
)

func TestIntegrationMigrator_UpDown(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS posts, users, schema_migrations`); err != nil {
		t.Fatalf("drop tables: %v", err)
	}

	m, err := Open(ctx, dbURL, migrations.FS, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })

	res, err := m.Run(ctx, Up)
	if err != nil {
		t.Fatalf("Run(up) failed: %v", err)
	}
	if res.From != 0 || res.To != 2 {
		t.Fatalf("up = %+v, want 0 -> 2", res)
	}
	for _, table := range []string{"users", "posts"} {
		if !tableExists(t, pool, table) {
			t.Errorf("table %s missing after up", table)
		}
	}

	again, err := m.Run(ctx, Up)
	if err != nil || again.Changed() {
		t.Fatalf("second up = %+v, %v", again, err)
	}

	reverted, err := m.Run(ctx, Down)
	if err != nil {
		t.Fatalf("Run(down) failed: %v", err)
	}
	if reverted.From != 2 || reverted.To != 0 {
		t.Fatalf("down = %+v, want 2 -> 0", reverted)
	}
	if tableExists(t, pool, "users") {
		t.Error("users should be dropped after down")
	}

	if _, err := m.Run(ctx, Up); err != nil {
		t.Fatalf("restore schema: %v", err)
	}
	if v, dirty, err := m.Version(); err != nil || dirty || v != 2 {
		t.Errorf("Version = %d, dirty %v, %v; want 2", v, dirty, err)
	}
}

func tableExists(t *testing.T, pool *pgxpool.Pool, table string) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(context.Background(), `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, table).Scan(&exists)
	if err != nil {
		t.Fatalf("tableExists: %v", err)
	}
	return exists
}
