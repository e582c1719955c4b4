package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "test_webhook_secret"

func signedClerkRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	svixID := "msg_test"
	svixTimestamp := fmt.Sprintf("%d", time.Now().Unix())

	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(fmt.Sprintf("%s.%s.%s", svixID, svixTimestamp, string(payload))))
	signature := "v1," + hex.EncodeToString(mac.Sum(nil))

	req.Header.Set("svix-id", svixID)
	req.Header.Set("svix-timestamp", svixTimestamp)
	req.Header.Set("svix-signature", signature)
	return req
}

func TestClerkWebhook_UserCreatedAndDeleted(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	t.Setenv("CLERK_WEBHOOK_SECRET", testWebhookSecret)

	userService := services.NewUserService(pool)
	handler := NewWebhookHandler(userService, nil)

	clerkID := "user_test_wh_" + time.Now().Format("20060102150405")
	ctx := context.Background()

	payload := mockClerkWebhookPayload("user.created", clerkID)
	rr := httptest.NewRecorder()
	handler.ClerkWebhook(rr, signedClerkRequest(t, payload))
	require.Equal(t, http.StatusOK, rr.Code)

	user, err := userService.GetUserByClerkID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, "test.webhook@example.com", user.Email)
	assert.Equal(t, "testuser", user.Name)
	assert.Equal(t, 0, user.Coins)
	assert.Equal(t, 1, user.Level)

	// created again with new data acts as an update
	payload = mockClerkWebhookPayload("user.updated", clerkID)
	rr = httptest.NewRecorder()
	handler.ClerkWebhook(rr, signedClerkRequest(t, payload))
	require.Equal(t, http.StatusOK, rr.Code)

	payload = mockClerkWebhookPayload("user.deleted", clerkID)
	rr = httptest.NewRecorder()
	handler.ClerkWebhook(rr, signedClerkRequest(t, payload))
	require.Equal(t, http.StatusOK, rr.Code)

	_, err = userService.GetUserByClerkID(ctx, clerkID)
	require.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestClerkWebhook_RejectsUnsignedRequest(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	t.Setenv("CLERK_WEBHOOK_SECRET", testWebhookSecret)

	userService := services.NewUserService(pool)
	handler := NewWebhookHandler(userService, nil)

	clerkID := createTestUser(t, pool)
	ctx := context.Background()

	// no svix headers at all
	payload := mockClerkWebhookPayload("user.deleted", clerkID)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	handler.ClerkWebhook(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// wrong signature
	req = httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload))
	req.Header.Set("svix-id", "msg_test")
	req.Header.Set("svix-timestamp", fmt.Sprintf("%d", time.Now().Unix()))
	req.Header.Set("svix-signature", "v1,deadbeef")
	rr = httptest.NewRecorder()
	handler.ClerkWebhook(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// the account must survive both attempts
	_, err := userService.GetUserByClerkID(ctx, clerkID)
	require.NoError(t, err)
}

func TestClerkWebhook_InvalidBody(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	t.Setenv("CLERK_WEBHOOK_SECRET", testWebhookSecret)

	handler := NewWebhookHandler(services.NewUserService(pool), nil)

	rr := httptest.NewRecorder()
	handler.ClerkWebhook(rr, signedClerkRequest(t, []byte("not json")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStripeWebhook_RejectsBadSignature(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	shopService := services.NewShopService(pool, userService, "http://localhost/success", "http://localhost/cancel")
	handler := NewWebhookHandler(userService, shopService)

	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Stripe-Signature", "t=123,v1=bogus")
	rr := httptest.NewRecorder()
	handler.StripeWebhook(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
