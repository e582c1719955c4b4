package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/achievement"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AchievementService struct {
	db                  *pgxpool.Pool
	progressionService  *ProgressionService
	notificationService *NotificationService
}

func NewAchievementService(db *pgxpool.Pool, ps *ProgressionService, ns *NotificationService) *AchievementService {
	return &AchievementService{db: db, progressionService: ps, notificationService: ns}
}

// Unlock records an achievement for the user if not already unlocked.
// Returns true on a fresh unlock; the XP reward and in-app notification
// happen only then.
func (s *AchievementService) Unlock(ctx context.Context, clerkID string, kind achievement.Kind) (bool, error) {
	def := achievement.Find(kind)
	if def == nil {
		return false, fmt.Errorf("unknown achievement kind: %s", kind)
	}

	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `
		INSERT INTO achievements (id, user_id, kind, unlocked_at)
		SELECT $1, id, $2, NOW() FROM users WHERE clerk_id = $3
		ON CONFLICT (user_id, kind) DO NOTHING
		RETURNING user_id`,
		uuid.New().String(), kind, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}

	if def.XPReward > 0 {
		if _, err := s.progressionService.GrantXP(ctx, clerkID, def.XPReward); err != nil {
			log.Printf("Unlock: failed to grant xp for %s: %v", kind, err)
		}
	}
	if s.notificationService != nil {
		err := s.notificationService.Notify(ctx, userID.String(), "achievement",
			"Erfolg freigeschaltet!",
			fmt.Sprintf("%s %s: %s", def.Icon, def.Title, def.Description))
		if err != nil {
			log.Printf("Unlock: failed to notify for %s: %v", kind, err)
		}
	}
	return true, nil
}

// ListWithStatus merges the static catalog with the user's unlock rows.
func (s *AchievementService) ListWithStatus(ctx context.Context, clerkID string) ([]achievement.WithStatus, error) {
	rows, err := s.db.Query(ctx, `
		SELECT a.kind, a.unlocked_at
		FROM achievements a
		JOIN users u ON u.id = a.user_id
		WHERE u.clerk_id = $1`, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[achievement.Kind]time.Time)
	for rows.Next() {
		var kind achievement.Kind
		var at time.Time
		if err := rows.Scan(&kind, &at); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		unlocked[kind] = at
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]achievement.WithStatus, 0, len(achievement.Catalog))
	for _, def := range achievement.Catalog {
		ws := achievement.WithStatus{Achievement: def}
		if at, ok := unlocked[def.Kind]; ok {
			ws.Unlocked = true
			unlockedAt := at
			ws.UnlockedAt = &unlockedAt
		}
		result = append(result, ws)
	}
	return result, nil
}

// CheckStreakMilestones unlocks the login streak achievements. Errors are
// logged, not returned; milestone checks never fail the triggering action.
func (s *AchievementService) CheckStreakMilestones(ctx context.Context, clerkID string, streak int) {
	if streak >= 7 {
		if _, err := s.Unlock(ctx, clerkID, achievement.KindLogin7); err != nil {
			log.Printf("CheckStreakMilestones: %v", err)
		}
	}
	if streak >= 30 {
		if _, err := s.Unlock(ctx, clerkID, achievement.KindLogin30); err != nil {
			log.Printf("CheckStreakMilestones: %v", err)
		}
	}
}

func (s *AchievementService) CheckSwipeMilestones(ctx context.Context, clerkID string, totalSwipes int) {
	if totalSwipes >= 10 {
		if _, err := s.Unlock(ctx, clerkID, achievement.KindSwipe10); err != nil {
			log.Printf("CheckSwipeMilestones: %v", err)
		}
	}
	if totalSwipes >= 100 {
		if _, err := s.Unlock(ctx, clerkID, achievement.KindSwipe100); err != nil {
			log.Printf("CheckSwipeMilestones: %v", err)
		}
	}
}

func (s *AchievementService) CheckMatchMilestones(ctx context.Context, clerkID string, totalMatches int) {
	if totalMatches >= 1 {
		if _, err := s.Unlock(ctx, clerkID, achievement.KindFirstMatch); err != nil {
			log.Printf("CheckMatchMilestones: %v", err)
		}
	}
	if totalMatches >= 10 {
		if _, err := s.Unlock(ctx, clerkID, achievement.KindMatch10); err != nil {
			log.Printf("CheckMatchMilestones: %v", err)
		}
	}
}
