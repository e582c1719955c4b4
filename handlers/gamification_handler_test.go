package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Single-Connect/singles-connect-optimized/internal/progression"
	"github.com/Single-Connect/singles-connect-optimized/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimDailyReward_Flow(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	progressionService := services.NewProgressionService(pool)
	achievementService := services.NewAchievementService(pool, progressionService, nil)
	leaderboardService := services.NewLeaderboardService(pool)
	handler := NewGamificationHandler(progressionService, achievementService, leaderboardService)

	clerkID := createTestUser(t, pool)

	// first claim succeeds
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/daily-reward/claim", nil), clerkID)
	rr := httptest.NewRecorder()
	handler.ClaimDailyReward(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var outcome progression.ClaimOutcome
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &outcome))
	assert.Equal(t, 12, outcome.CoinsAwarded)
	assert.Equal(t, 1, outcome.NewStreak)

	// same-day retry conflicts
	req = authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/daily-reward/claim", nil), clerkID)
	rr = httptest.NewRecorder()
	handler.ClaimDailyReward(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// preview now reports the claim
	req = authedRequest(httptest.NewRequest(http.MethodGet, "/api/v1/daily-reward", nil), clerkID)
	rr = httptest.NewRecorder()
	handler.PreviewDailyReward(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var preview progression.Preview
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &preview))
	assert.True(t, preview.AlreadyClaimedToday)
}

func TestClaimDailyReward_Unauthenticated(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	progressionService := services.NewProgressionService(pool)
	handler := NewGamificationHandler(progressionService, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/daily-reward/claim", nil)
	rr := httptest.NewRecorder()
	handler.ClaimDailyReward(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetProgress(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	progressionService := services.NewProgressionService(pool)
	handler := NewGamificationHandler(progressionService, nil, nil)

	clerkID := createTestUser(t, pool)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/v1/progress", nil), clerkID)
	rr := httptest.NewRecorder()
	handler.GetProgress(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var view services.ProgressView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Level)
	assert.Equal(t, "Neuling", view.LevelTitle)
}

func TestGetLevels_Public(t *testing.T) {
	handler := &GamificationHandler{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/levels", nil)
	rr := httptest.NewRecorder()
	handler.GetLevels(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var levels []progression.LevelThreshold
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &levels))
	require.Len(t, levels, 8)
	assert.Equal(t, 5000, levels[7].XPRequired)
}
