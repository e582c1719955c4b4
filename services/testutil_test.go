package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// setupTestDB connects to the test database or skips the test when neither
// TEST_DATABASE_URL nor DATABASE_URL is set.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

func cleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test%@example.com'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test data: %v", err)
	}
	pool.Close()
}

// createTestUser inserts a fresh user row and returns its clerk id.
func createTestUser(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	clerkID := "user_test_" + uuid.NewString()[:8] + time.Now().Format("150405")
	email := fmt.Sprintf("test+%s@example.com", clerkID)

	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, clerk_id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, 'Test User', NOW(), NOW())`,
		uuid.New().String(), clerkID, email)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return clerkID
}
