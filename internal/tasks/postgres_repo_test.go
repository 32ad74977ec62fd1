package tasks

import (
	"context"
	"os"
	"testing"
)

// newTestPostgres connects to TEST_DATABASE_URL and starts from an empty table.
func newTestPostgres(t *testing.T) *PostgresRepo {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	repo, err := NewPostgresRepo(ctx, url)
	if err != nil {
		t.Skipf("Skipping test: database not available: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.ApplyMigrations(ctx); err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	if _, err := repo.pool.Exec(ctx, "TRUNCATE tasks RESTART IDENTITY"); err != nil {
		t.Fatalf("failed to clean up test data: %v", err)
	}
	return repo
}

func TestPostgresRepo_Contract(t *testing.T) {
	exerciseStore(t, newTestPostgres(t))
}

func TestPostgresRepo_Ping(t *testing.T) {
	repo := newTestPostgres(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
