package testenv

import (
	"context"
	"os"
	"testing"

	kpool "github.com/rulestudio/rulestudio/pkg/conn/db/postgres/pool"
)

// EnvDatabaseURI is the environment variable telling the database for tests.
//
// Tests using the database are skipped when it is not set.
const EnvDatabaseURI = "RULESTUDIO_TEST_DATABASE_URI"

// GetPool returns a pool to an empty database for tests.
//
// Tables are dropped before returning and after t.
func GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Helper()

	uri := os.Getenv(EnvDatabaseURI)
	if uri == "" {
		t.Skipf("%s is not set", EnvDatabaseURI)
	}

	pool, err := kpool.Connect(ctx, uri)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	DropTables(ctx, t, pool)
	t.Cleanup(func() {
		DropTables(context.Background(), t, pool)
	})
	return pool
}

func DropTables(ctx context.Context, t *testing.T, pool kpool.Pool) {
	t.Helper()

	for _, command := range []string{
		`DROP TABLE IF EXISTS "project" CASCADE`,
		`DROP TABLE IF EXISTS "schema_version" CASCADE`,
	} {
		if _, err := pool.Exec(ctx, command); err != nil {
			t.Errorf("fail to clean-up tables.: %v", err)
		}
	}
}
