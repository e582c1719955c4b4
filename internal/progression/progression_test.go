package progression

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestDeriveLevel(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{1000, 5},
		{1500, 6},
		{2500, 7},
		{5000, 8},
		{999999, 8},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, DeriveLevel(c.xp), "xp=%d", c.xp)
	}
}

func TestDeriveLevel_Monotonic(t *testing.T) {
	prev := DeriveLevel(0)
	for xp := 1; xp <= 6000; xp++ {
		level := DeriveLevel(xp)
		require.GreaterOrEqual(t, level, prev, "level dropped at xp=%d", xp)
		prev = level
	}
}

func TestClaimDailyReward_FirstEverClaim(t *testing.T) {
	rec := Record{UserID: "user_1", Level: 1}

	outcome, err := ClaimDailyReward(rec, date(2025, time.January, 10))
	require.NoError(t, err)

	assert.Equal(t, 12, outcome.CoinsAwarded)
	assert.Equal(t, 1, outcome.NewStreak)
	assert.Equal(t, 1, outcome.NewLevel)
	assert.Equal(t, 10, outcome.Record.XP)
	assert.Equal(t, 12, outcome.Record.Coins)
	require.NotNil(t, outcome.Record.LastClaimDate)
	assert.Equal(t, date(2025, time.January, 10), *outcome.Record.LastClaimDate)
}

func TestClaimDailyReward_StreakContinues(t *testing.T) {
	rec := Record{
		UserID:        "user_1",
		StreakCount:   6,
		LastClaimDate: datePtr(2025, time.January, 16),
	}

	outcome, err := ClaimDailyReward(rec, date(2025, time.January, 17))
	require.NoError(t, err)

	assert.Equal(t, 7, outcome.NewStreak)
	assert.Equal(t, 24, outcome.CoinsAwarded)
}

func TestClaimDailyReward_MissedDayResetsStreak(t *testing.T) {
	rec := Record{
		UserID:        "user_1",
		StreakCount:   10,
		LastClaimDate: datePtr(2025, time.January, 10),
	}

	outcome, err := ClaimDailyReward(rec, date(2025, time.January, 12))
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.NewStreak)
	assert.Equal(t, 12, outcome.CoinsAwarded)
}

func TestClaimDailyReward_SameDayRejected(t *testing.T) {
	rec := Record{
		UserID:        "user_1",
		StreakCount:   3,
		Coins:         100,
		XP:            50,
		LastClaimDate: datePtr(2025, time.January, 10),
	}

	outcome, err := ClaimDailyReward(rec, date(2025, time.January, 10))
	require.Nil(t, outcome)
	assert.True(t, errors.Is(err, ErrAlreadyClaimed))

	// input record must be untouched
	assert.Equal(t, 3, rec.StreakCount)
	assert.Equal(t, 100, rec.Coins)
	assert.Equal(t, 50, rec.XP)
}

func TestClaimDailyReward_RewardCap(t *testing.T) {
	rec := Record{
		UserID:        "user_1",
		StreakCount:   19,
		LastClaimDate: datePtr(2025, time.March, 1),
	}

	outcome, err := ClaimDailyReward(rec, date(2025, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, 20, outcome.NewStreak)
	assert.Equal(t, 50, outcome.CoinsAwarded)

	// cap holds for any longer streak
	rec.StreakCount = 123
	rec.LastClaimDate = datePtr(2025, time.March, 1)
	outcome, err = ClaimDailyReward(rec, date(2025, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, 50, outcome.CoinsAwarded)
}

func TestClaimDailyReward_TimeOfDayIrrelevant(t *testing.T) {
	lateNight := time.Date(2025, time.January, 16, 23, 59, 0, 0, time.UTC)
	earlyMorning := time.Date(2025, time.January, 17, 0, 1, 0, 0, time.UTC)

	rec := Record{UserID: "user_1"}
	first, err := ClaimDailyReward(rec, lateNight)
	require.NoError(t, err)
	assert.Equal(t, 1, first.NewStreak)

	second, err := ClaimDailyReward(first.Record, earlyMorning)
	require.NoError(t, err)
	assert.Equal(t, 2, second.NewStreak)
}

func TestClaimDailyReward_LevelUpOnClaim(t *testing.T) {
	rec := Record{UserID: "user_1", XP: 95, Level: 1}

	outcome, err := ClaimDailyReward(rec, date(2025, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, 105, outcome.Record.XP)
	assert.Equal(t, 2, outcome.NewLevel)
}

func TestPreviewDailyReward_NotYetClaimed(t *testing.T) {
	rec := Record{
		UserID:        "user_1",
		StreakCount:   6,
		LastClaimDate: datePtr(2025, time.January, 16),
	}

	preview := PreviewDailyReward(rec, date(2025, time.January, 17))
	assert.False(t, preview.AlreadyClaimedToday)
	assert.Equal(t, 6, preview.CurrentStreak)
	assert.Equal(t, 24, preview.ProjectedCoins) // streak would become 7
}

func TestPreviewDailyReward_BrokenStreakProjectsReset(t *testing.T) {
	rec := Record{
		UserID:        "user_1",
		StreakCount:   10,
		LastClaimDate: datePtr(2025, time.January, 10),
	}

	preview := PreviewDailyReward(rec, date(2025, time.January, 12))
	assert.False(t, preview.AlreadyClaimedToday)
	assert.Equal(t, 12, preview.ProjectedCoins)
}

func TestPreviewDailyReward_AlreadyClaimed(t *testing.T) {
	rec := Record{
		UserID:        "user_1",
		StreakCount:   7,
		LastClaimDate: datePtr(2025, time.January, 17),
	}

	preview := PreviewDailyReward(rec, date(2025, time.January, 17))
	assert.True(t, preview.AlreadyClaimedToday)
	assert.Equal(t, 7, preview.CurrentStreak)
}

func TestPreviewDailyReward_MatchesClaim(t *testing.T) {
	// the preview must promise exactly what the claim then pays out
	recs := []Record{
		{UserID: "u"},
		{UserID: "u", StreakCount: 4, LastClaimDate: datePtr(2025, time.May, 9)},
		{UserID: "u", StreakCount: 25, LastClaimDate: datePtr(2025, time.May, 9)},
		{UserID: "u", StreakCount: 9, LastClaimDate: datePtr(2025, time.May, 1)},
	}

	today := date(2025, time.May, 10)
	for i, rec := range recs {
		preview := PreviewDailyReward(rec, today)
		outcome, err := ClaimDailyReward(rec, today)
		require.NoError(t, err, "case %d", i)
		assert.Equal(t, preview.ProjectedCoins, outcome.CoinsAwarded, "case %d", i)
	}
}

func TestGrantXP(t *testing.T) {
	rec := Record{UserID: "user_1", XP: 250, Level: 2}

	updated, err := GrantXP(rec, 100)
	require.NoError(t, err)
	assert.Equal(t, 350, updated.XP)
	assert.Equal(t, 3, updated.Level)

	// zero is allowed
	updated, err = GrantXP(updated, 0)
	require.NoError(t, err)
	assert.Equal(t, 350, updated.XP)
}

func TestGrantXP_NegativeRejected(t *testing.T) {
	rec := Record{UserID: "user_1", XP: 250, Level: 2}

	updated, err := GrantXP(rec, -10)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.Equal(t, 250, updated.XP)
}

func TestNextThreshold(t *testing.T) {
	next := NextThreshold(1)
	require.NotNil(t, next)
	assert.Equal(t, 2, next.Level)
	assert.Equal(t, 100, next.XPRequired)

	assert.Nil(t, NextThreshold(8))
}
