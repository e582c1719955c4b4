package services

import (
	"context"
	"testing"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimDailyReward_FirstClaim(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	svc := NewProgressionService(pool)
	clerkID := createTestUser(t, pool)
	ctx := context.Background()

	outcome, err := svc.ClaimDailyReward(ctx, clerkID)
	require.NoError(t, err)

	assert.Equal(t, 12, outcome.CoinsAwarded)
	assert.Equal(t, 1, outcome.NewStreak)
	assert.Equal(t, 1, outcome.NewLevel)
	assert.Equal(t, progression.ClaimXP, outcome.Record.XP)

	var auditRows int
	err = pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM daily_rewards dr
		JOIN users u ON u.id = dr.user_id
		WHERE u.clerk_id = $1`, clerkID).Scan(&auditRows)
	require.NoError(t, err)
	assert.Equal(t, 1, auditRows)
}

func TestClaimDailyReward_SecondClaimSameDayRejected(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	svc := NewProgressionService(pool)
	clerkID := createTestUser(t, pool)
	ctx := context.Background()

	first, err := svc.ClaimDailyReward(ctx, clerkID)
	require.NoError(t, err)

	_, err = svc.ClaimDailyReward(ctx, clerkID)
	require.ErrorIs(t, err, progression.ErrAlreadyClaimed)

	// second attempt must not touch the record
	rec, err := svc.loadRecord(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, first.Record.Coins, rec.Coins)
	assert.Equal(t, first.Record.XP, rec.XP)
	assert.Equal(t, first.Record.StreakCount, rec.StreakCount)
}

func TestClaimDailyReward_StreakContinues(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	svc := NewProgressionService(pool)
	clerkID := createTestUser(t, pool)
	ctx := context.Background()

	yesterday := progression.Day(time.Now().UTC().AddDate(0, 0, -1))
	_, err := pool.Exec(ctx, `
		UPDATE users SET streak_count = 6, last_claim_date = $2 WHERE clerk_id = $1`,
		clerkID, yesterday)
	require.NoError(t, err)

	outcome, err := svc.ClaimDailyReward(ctx, clerkID)
	require.NoError(t, err)

	assert.Equal(t, 7, outcome.NewStreak)
	assert.Equal(t, 24, outcome.CoinsAwarded)
}

func TestClaimDailyReward_MissedDayResets(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	svc := NewProgressionService(pool)
	clerkID := createTestUser(t, pool)
	ctx := context.Background()

	twoDaysAgo := progression.Day(time.Now().UTC().AddDate(0, 0, -2))
	_, err := pool.Exec(ctx, `
		UPDATE users SET streak_count = 14, last_claim_date = $2 WHERE clerk_id = $1`,
		clerkID, twoDaysAgo)
	require.NoError(t, err)

	outcome, err := svc.ClaimDailyReward(ctx, clerkID)
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.NewStreak)
	assert.Equal(t, 12, outcome.CoinsAwarded)
}

func TestPreviewDailyReward_DoesNotMutate(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	svc := NewProgressionService(pool)
	clerkID := createTestUser(t, pool)
	ctx := context.Background()

	preview, err := svc.PreviewDailyReward(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 12, preview.ProjectedCoins)
	assert.False(t, preview.AlreadyClaimedToday)

	rec, err := svc.loadRecord(ctx, clerkID)
	require.NoError(t, err)
	assert.Nil(t, rec.LastClaimDate)
	assert.Equal(t, 0, rec.Coins)
}

func TestGrantXP_LevelsUp(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	svc := NewProgressionService(pool)
	clerkID := createTestUser(t, pool)
	ctx := context.Background()

	rec, err := svc.GrantXP(ctx, clerkID, 150)
	require.NoError(t, err)
	assert.Equal(t, 150, rec.XP)
	assert.Equal(t, 2, rec.Level)

	_, err = svc.GrantXP(ctx, clerkID, -5)
	require.ErrorIs(t, err, progression.ErrInvalidAmount)
}

func TestProgress_IncludesNextThreshold(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	svc := NewProgressionService(pool)
	clerkID := createTestUser(t, pool)

	view, err := svc.Progress(context.Background(), clerkID)
	require.NoError(t, err)

	assert.Equal(t, 1, view.Level)
	require.NotNil(t, view.NextLevel)
	assert.Equal(t, 2, view.NextLevel.Level)
	assert.Equal(t, 100, view.NextLevel.XPRequired)
}
