package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/middleware"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

// authedRequest attaches the clerk id the way ClerkAuthMiddleware would.
func authedRequest(req *http.Request, clerkID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID)
	return req.WithContext(ctx)
}

func mockClerkWebhookPayload(eventType, clerkID string) []byte {
	return []byte(fmt.Sprintf(`{
		"data": {
			"id": "%s",
			"first_name": "Test",
			"last_name": "User",
			"email_addresses": [{
				"id": "email_123",
				"email_address": "test.webhook@example.com"
			}],
			"username": "testuser",
			"image_url": "https://example.com/image.jpg"
		},
		"object": "event",
		"type": "%s"
	}`, clerkID, eventType))
}
