package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/progression"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStoreUnavailable wraps infrastructure failures so handlers can
// distinguish them from domain rejections like ErrAlreadyClaimed.
var ErrStoreUnavailable = errors.New("store unavailable")

type ProgressionService struct {
	db                  *pgxpool.Pool
	achievementService  *AchievementService
	notificationService *NotificationService
}

func NewProgressionService(db *pgxpool.Pool) *ProgressionService {
	return &ProgressionService{db: db}
}

// SetAchievementService wires achievement unlocking into the claim path.
// Kept optional so tests can exercise the claim logic alone.
func (s *ProgressionService) SetAchievementService(as *AchievementService) {
	s.achievementService = as
}

func (s *ProgressionService) SetNotificationService(ns *NotificationService) {
	s.notificationService = ns
}

func (s *ProgressionService) loadRecordForUpdate(ctx context.Context, tx pgx.Tx, clerkID string) (*progression.Record, error) {
	rec := &progression.Record{}
	err := tx.QueryRow(ctx, `
		SELECT id, xp, level, coins, streak_count, last_claim_date
		FROM users
		WHERE clerk_id = $1
		FOR UPDATE`, clerkID).
		Scan(&rec.UserID, &rec.XP, &rec.Level, &rec.Coins, &rec.StreakCount, &rec.LastClaimDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: failed to load progression record: %v", ErrStoreUnavailable, err)
	}
	return rec, nil
}

func (s *ProgressionService) loadRecord(ctx context.Context, clerkID string) (*progression.Record, error) {
	rec := &progression.Record{}
	err := s.db.QueryRow(ctx, `
		SELECT id, xp, level, coins, streak_count, last_claim_date
		FROM users
		WHERE clerk_id = $1`, clerkID).
		Scan(&rec.UserID, &rec.XP, &rec.Level, &rec.Coins, &rec.StreakCount, &rec.LastClaimDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: failed to load progression record: %v", ErrStoreUnavailable, err)
	}
	return rec, nil
}

// PreviewDailyReward reports what a claim right now would yield, without
// touching the record.
func (s *ProgressionService) PreviewDailyReward(ctx context.Context, clerkID string) (*progression.Preview, error) {
	rec, err := s.loadRecord(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	preview := progression.PreviewDailyReward(*rec, time.Now().UTC())
	return &preview, nil
}

// ClaimDailyReward performs the claim inside a transaction. The user row is
// locked FOR UPDATE so concurrent claims for the same user serialize and the
// second one sees last_claim_date already set for today.
func (s *ProgressionService) ClaimDailyReward(ctx context.Context, clerkID string) (*progression.ClaimOutcome, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin claim transaction: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	rec, err := s.loadRecordForUpdate(ctx, tx, clerkID)
	if err != nil {
		return nil, err
	}

	outcome, err := progression.ClaimDailyReward(*rec, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET coins = $2, xp = $3, level = $4, streak_count = $5,
			last_claim_date = $6, updated_at = NOW()
		WHERE id = $1`,
		outcome.Record.UserID, outcome.Record.Coins, outcome.Record.XP,
		outcome.Record.Level, outcome.Record.StreakCount, outcome.Record.LastClaimDate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to persist claim: %v", ErrStoreUnavailable, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO daily_rewards (user_id, claimed_on, coins_awarded, streak_count)
		VALUES ($1, $2, $3, $4)`,
		outcome.Record.UserID, *outcome.Record.LastClaimDate,
		outcome.CoinsAwarded, outcome.NewStreak)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to record claim: %v", ErrStoreUnavailable, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to commit claim: %v", ErrStoreUnavailable, err)
	}

	leveledUp := outcome.NewLevel > rec.Level
	go s.afterClaim(clerkID, outcome, leveledUp)

	return outcome, nil
}

// afterClaim handles milestone side effects outside the claim transaction.
func (s *ProgressionService) afterClaim(clerkID string, outcome *progression.ClaimOutcome, leveledUp bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.achievementService != nil {
		s.achievementService.CheckStreakMilestones(ctx, clerkID, outcome.NewStreak)
	}
	if s.notificationService == nil {
		return
	}
	if leveledUp {
		title := progression.LevelTitle(outcome.NewLevel)
		s.notificationService.Notify(ctx, outcome.Record.UserID, "level_up",
			"Level aufgestiegen!",
			fmt.Sprintf("Du bist jetzt Level %d: %s", outcome.NewLevel, title))
	}
	switch outcome.NewStreak {
	case 7, 30, 100:
		s.notificationService.Notify(ctx, outcome.Record.UserID, "streak_milestone",
			"Serien-Meilenstein!",
			fmt.Sprintf("%d Tage in Folge eingeloggt", outcome.NewStreak))
	}
}

// GrantXP credits experience and rederives the level in one statement.
func (s *ProgressionService) GrantXP(ctx context.Context, clerkID string, amount int) (*progression.Record, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin xp transaction: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	rec, err := s.loadRecordForUpdate(ctx, tx, clerkID)
	if err != nil {
		return nil, err
	}

	updated, err := progression.GrantXP(*rec, amount)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET xp = $2, level = $3, updated_at = NOW()
		WHERE id = $1`,
		updated.UserID, updated.XP, updated.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to persist xp grant: %v", ErrStoreUnavailable, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to commit xp grant: %v", ErrStoreUnavailable, err)
	}
	return &updated, nil
}

// Progress returns the current record plus the next threshold for the
// profile progress screen.
type ProgressView struct {
	Level         int                         `json:"level"`
	LevelTitle    string                      `json:"levelTitle"`
	XP            int                         `json:"xp"`
	Coins         int                         `json:"coins"`
	StreakCount   int                         `json:"streakCount"`
	LastClaimDate *time.Time                  `json:"lastClaimDate"`
	NextLevel     *progression.LevelThreshold `json:"nextLevel"`
	Reward        progression.Preview         `json:"reward"`
}

func (s *ProgressionService) Progress(ctx context.Context, clerkID string) (*ProgressView, error) {
	rec, err := s.loadRecord(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	return &ProgressView{
		Level:         rec.Level,
		LevelTitle:    progression.LevelTitle(rec.Level),
		XP:            rec.XP,
		Coins:         rec.Coins,
		StreakCount:   rec.StreakCount,
		LastClaimDate: rec.LastClaimDate,
		NextLevel:     progression.NextThreshold(rec.Level),
		Reward:        progression.PreviewDailyReward(*rec, time.Now().UTC()),
	}, nil
}
