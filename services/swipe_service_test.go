package services

import (
	"context"
	"testing"

	"github.com/Single-Connect/singles-connect-optimized/internal/swipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userIDFor(t *testing.T, svc *SwipeService, clerkID string) string {
	t.Helper()
	var id string
	err := svc.db.QueryRow(context.Background(), `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestRecordSwipe_MutualLikeCreatesMatch(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	ps := NewProgressionService(pool)
	svc := NewSwipeService(pool, ps, nil, nil)
	aliceClerk := createTestUser(t, pool)
	bobClerk := createTestUser(t, pool)
	ctx := context.Background()

	aliceID := userIDFor(t, svc, aliceClerk)
	bobID := userIDFor(t, svc, bobClerk)

	first, err := svc.RecordSwipe(ctx, aliceClerk, &swipe.SwipeRequest{
		TargetUserID: bobID,
		Direction:    swipe.DirectionRight,
	})
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.False(t, first.IsMatch)

	second, err := svc.RecordSwipe(ctx, bobClerk, &swipe.SwipeRequest{
		TargetUserID: aliceID,
		Direction:    swipe.DirectionRight,
	})
	require.NoError(t, err)
	assert.True(t, second.IsMatch)
	require.NotNil(t, second.MatchID)

	matches, err := svc.ListMatches(ctx, aliceClerk)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, *second.MatchID, matches[0].MatchID)
}

func TestRecordSwipe_LeftSwipeNeverMatches(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	ps := NewProgressionService(pool)
	svc := NewSwipeService(pool, ps, nil, nil)
	aliceClerk := createTestUser(t, pool)
	bobClerk := createTestUser(t, pool)
	ctx := context.Background()

	aliceID := userIDFor(t, svc, aliceClerk)
	bobID := userIDFor(t, svc, bobClerk)

	_, err := svc.RecordSwipe(ctx, aliceClerk, &swipe.SwipeRequest{
		TargetUserID: bobID,
		Direction:    swipe.DirectionRight,
	})
	require.NoError(t, err)

	result, err := svc.RecordSwipe(ctx, bobClerk, &swipe.SwipeRequest{
		TargetUserID: aliceID,
		Direction:    swipe.DirectionLeft,
	})
	require.NoError(t, err)
	assert.False(t, result.IsMatch)
}

func TestRecordSwipe_DuplicateRejected(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	ps := NewProgressionService(pool)
	svc := NewSwipeService(pool, ps, nil, nil)
	aliceClerk := createTestUser(t, pool)
	bobClerk := createTestUser(t, pool)
	ctx := context.Background()

	bobID := userIDFor(t, svc, bobClerk)

	_, err := svc.RecordSwipe(ctx, aliceClerk, &swipe.SwipeRequest{
		TargetUserID: bobID,
		Direction:    swipe.DirectionRight,
	})
	require.NoError(t, err)

	_, err = svc.RecordSwipe(ctx, aliceClerk, &swipe.SwipeRequest{
		TargetUserID: bobID,
		Direction:    swipe.DirectionLeft,
	})
	require.ErrorIs(t, err, ErrAlreadySwiped)
}

func TestRecordSwipe_SelfSwipeRejected(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	ps := NewProgressionService(pool)
	svc := NewSwipeService(pool, ps, nil, nil)
	aliceClerk := createTestUser(t, pool)

	aliceID := userIDFor(t, svc, aliceClerk)

	_, err := svc.RecordSwipe(context.Background(), aliceClerk, &swipe.SwipeRequest{
		TargetUserID: aliceID,
		Direction:    swipe.DirectionRight,
	})
	require.ErrorIs(t, err, ErrSelfSwipe)
}

func TestGetCandidates_ExcludesSwiped(t *testing.T) {
	pool := setupTestDB(t)
	defer cleanupTestDB(t, pool)

	ps := NewProgressionService(pool)
	svc := NewSwipeService(pool, ps, nil, nil)
	aliceClerk := createTestUser(t, pool)
	bobClerk := createTestUser(t, pool)
	ctx := context.Background()

	bobID := userIDFor(t, svc, bobClerk)

	_, err := svc.RecordSwipe(ctx, aliceClerk, &swipe.SwipeRequest{
		TargetUserID: bobID,
		Direction:    swipe.DirectionLeft,
	})
	require.NoError(t, err)

	cards, err := svc.GetCandidates(ctx, aliceClerk, 50)
	require.NoError(t, err)
	for _, c := range cards {
		assert.NotEqual(t, bobID, c.ID)
	}
}
