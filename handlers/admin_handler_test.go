package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Single-Connect/singles-connect-optimized/services"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promoteToAdmin(t *testing.T, pool *pgxpool.Pool, clerkID string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`UPDATE users SET role = 'admin' WHERE clerk_id = $1`, clerkID)
	require.NoError(t, err)
}

func userIDFor(t *testing.T, pool *pgxpool.Pool, clerkID string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&id)
	require.NoError(t, err)
	return id
}

func adminRouter(handler *AdminHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/admin/users", handler.ListUsers).Methods("GET")
	r.HandleFunc("/admin/users/{userId}/role", handler.UpdateRole).Methods("PUT")
	r.HandleFunc("/admin/users/{userId}/vip", handler.SetVIPStatus).Methods("PUT")
	r.HandleFunc("/admin/users/{userId}/coins", handler.GrantCoins).Methods("POST")
	return r
}

func TestAdminEndpoints_RequireAdminRole(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	handler := NewAdminHandler(services.NewAdminService(pool))
	router := adminRouter(handler)

	regular := createTestUser(t, pool)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(req, regular))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	target := createTestUser(t, pool)
	targetID := userIDFor(t, pool, target)

	req = httptest.NewRequest(http.MethodPut, "/admin/users/"+targetID+"/role",
		bytes.NewReader([]byte(`{"role": "admin"}`)))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(req, regular))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// the target's role must be untouched
	var role string
	err := pool.QueryRow(context.Background(),
		`SELECT role FROM users WHERE id = $1`, targetID).Scan(&role)
	require.NoError(t, err)
	assert.Equal(t, "user", role)
}

func TestAdminEndpoints_ManageUsers(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	handler := NewAdminHandler(services.NewAdminService(pool))
	router := adminRouter(handler)

	admin := createTestUser(t, pool)
	promoteToAdmin(t, pool, admin)

	target := createTestUser(t, pool)
	targetID := userIDFor(t, pool, target)

	req := httptest.NewRequest(http.MethodGet, "/admin/users?limit=10", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(req, admin))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), target)

	req = httptest.NewRequest(http.MethodPut, "/admin/users/"+targetID+"/role",
		bytes.NewReader([]byte(`{"role": "admin"}`)))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(req, admin))
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodPut, "/admin/users/"+targetID+"/vip",
		bytes.NewReader([]byte(`{"is_vip": true}`)))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(req, admin))
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/users/"+targetID+"/coins",
		bytes.NewReader([]byte(`{"amount": 250}`)))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(req, admin))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"coins":250`)

	var role string
	var isVip bool
	var coins int
	err := pool.QueryRow(context.Background(),
		`SELECT role, is_vip, coins FROM users WHERE id = $1`, targetID).Scan(&role, &isVip, &coins)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
	assert.True(t, isVip)
	assert.Equal(t, 250, coins)
}

func TestAdminUpdateRole_RejectsUnknownRole(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	handler := NewAdminHandler(services.NewAdminService(pool))
	router := adminRouter(handler)

	admin := createTestUser(t, pool)
	promoteToAdmin(t, pool, admin)
	targetID := userIDFor(t, pool, createTestUser(t, pool))

	req := httptest.NewRequest(http.MethodPut, "/admin/users/"+targetID+"/role",
		bytes.NewReader([]byte(`{"role": "superuser"}`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(req, admin))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
