package progression

import (
	"errors"
	"time"
)

var (
	// ErrAlreadyClaimed is a business-rule rejection, not an infrastructure
	// failure. Handlers map it to 409 and tell the user to come back tomorrow.
	ErrAlreadyClaimed = errors.New("daily reward already claimed for this date")

	ErrInvalidAmount = errors.New("xp amount must not be negative")
)

const (
	// ClaimXP is granted on every successful daily claim.
	ClaimXP = 10

	baseRewardCoins = 10
	coinsPerStreak  = 2
	maxRewardCoins  = 50
)

// Record is a user's progression snapshot. It is decoupled from the wider
// profile row so the reward logic never touches unrelated fields. The engine
// mutates copies only; persisting the result is the caller's job.
type Record struct {
	UserID        string     `json:"user_id"`
	XP            int        `json:"xp"`
	Level         int        `json:"level"`
	Coins         int        `json:"coins"`
	StreakCount   int        `json:"streak_count"`
	LastClaimDate *time.Time `json:"last_claim_date,omitempty"`
}

type LevelThreshold struct {
	Level      int    `json:"level"`
	XPRequired int    `json:"xp_required"`
	Title      string `json:"title"`
}

// Levels is the static threshold table, ascending by XPRequired.
// Titles carried over from the app's level catalog.
var Levels = []LevelThreshold{
	{Level: 1, XPRequired: 0, Title: "Neuling"},
	{Level: 2, XPRequired: 100, Title: "Anfänger"},
	{Level: 3, XPRequired: 300, Title: "Fortgeschritten"},
	{Level: 4, XPRequired: 600, Title: "Erfahren"},
	{Level: 5, XPRequired: 1000, Title: "Profi"},
	{Level: 6, XPRequired: 1500, Title: "Experte"},
	{Level: 7, XPRequired: 2500, Title: "Meister"},
	{Level: 8, XPRequired: 5000, Title: "Legende"},
}

type Preview struct {
	CurrentStreak       int  `json:"current_streak"`
	ProjectedCoins      int  `json:"projected_coins"`
	AlreadyClaimedToday bool `json:"already_claimed_today"`
}

type ClaimOutcome struct {
	CoinsAwarded int    `json:"coins_awarded"`
	NewStreak    int    `json:"new_streak"`
	NewLevel     int    `json:"new_level"`
	Record       Record `json:"-"`
}

// Day truncates t to its UTC calendar date. All claim-date comparisons run on
// UTC days so a user claiming at 00:01 and 23:59 on consecutive dates still
// counts as a continuation.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DeriveLevel returns the level of the last threshold whose requirement does
// not exceed xp. It never exceeds the top of the table.
func DeriveLevel(xp int) int {
	level := Levels[0].Level
	for _, t := range Levels {
		if xp < t.XPRequired {
			break
		}
		level = t.Level
	}
	return level
}

// NextThreshold returns the threshold after the given level, or nil when the
// level is already the highest defined.
func NextThreshold(level int) *LevelThreshold {
	for i := range Levels {
		if Levels[i].Level == level && i+1 < len(Levels) {
			next := Levels[i+1]
			return &next
		}
	}
	return nil
}

// LevelTitle returns the display title for a level, falling back to the
// lowest defined one.
func LevelTitle(level int) string {
	for _, t := range Levels {
		if t.Level == level {
			return t.Title
		}
	}
	return Levels[0].Title
}

func rewardCoins(streak int) int {
	coins := baseRewardCoins + streak*coinsPerStreak
	if coins > maxRewardCoins {
		coins = maxRewardCoins
	}
	return coins
}

func claimedOn(rec Record, day time.Time) bool {
	return rec.LastClaimDate != nil && Day(*rec.LastClaimDate).Equal(day)
}

func continuesStreak(rec Record, day time.Time) bool {
	return rec.LastClaimDate != nil && Day(*rec.LastClaimDate).Equal(day.AddDate(0, 0, -1))
}

// PreviewDailyReward reports what a claim on the given date would yield,
// without committing anything. Pure function of its inputs.
func PreviewDailyReward(rec Record, today time.Time) Preview {
	day := Day(today)

	if claimedOn(rec, day) {
		return Preview{
			CurrentStreak:       rec.StreakCount,
			ProjectedCoins:      rewardCoins(rec.StreakCount),
			AlreadyClaimedToday: true,
		}
	}

	streakIfClaimed := 1
	if continuesStreak(rec, day) {
		streakIfClaimed = rec.StreakCount + 1
	}

	return Preview{
		CurrentStreak:  rec.StreakCount,
		ProjectedCoins: rewardCoins(streakIfClaimed),
	}
}

// ClaimDailyReward applies the daily-reward transition to a copy of rec and
// returns the outcome. It fails with ErrAlreadyClaimed when a claim already
// succeeded on the same UTC date. The streak continues only when the previous
// claim is exactly one calendar day earlier; any gap resets it to 1.
func ClaimDailyReward(rec Record, today time.Time) (*ClaimOutcome, error) {
	day := Day(today)

	if claimedOn(rec, day) {
		return nil, ErrAlreadyClaimed
	}

	newStreak := 1
	if continuesStreak(rec, day) {
		newStreak = rec.StreakCount + 1
	}

	coins := rewardCoins(newStreak)

	rec.LastClaimDate = &day
	rec.StreakCount = newStreak
	rec.Coins += coins
	rec.XP += ClaimXP
	rec.Level = DeriveLevel(rec.XP)

	return &ClaimOutcome{
		CoinsAwarded: coins,
		NewStreak:    newStreak,
		NewLevel:     rec.Level,
		Record:       rec,
	}, nil
}

// GrantXP adds amount to the record's cumulative XP and recomputes the level.
func GrantXP(rec Record, amount int) (Record, error) {
	if amount < 0 {
		return rec, ErrInvalidAmount
	}
	rec.XP += amount
	rec.Level = DeriveLevel(rec.XP)
	return rec, nil
}
