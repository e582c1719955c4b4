package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Single-Connect/singles-connect-optimized/internal/achievement"
	"github.com/Single-Connect/singles-connect-optimized/internal/profile"
	"github.com/Single-Connect/singles-connect-optimized/internal/swipe"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAlreadySwiped = errors.New("profile already swiped")
	ErrSelfSwipe     = errors.New("cannot swipe own profile")
)

const swipeXP = 2

type SwipeService struct {
	db                  *pgxpool.Pool
	progressionService  *ProgressionService
	achievementService  *AchievementService
	notificationService *NotificationService
}

func NewSwipeService(db *pgxpool.Pool, ps *ProgressionService, as *AchievementService, ns *NotificationService) *SwipeService {
	return &SwipeService{db: db, progressionService: ps, achievementService: as, notificationService: ns}
}

// GetCandidates returns profiles the user has not swiped yet, newest first.
func (s *SwipeService) GetCandidates(ctx context.Context, clerkID string, limit int) ([]profile.Card, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	rows, err := s.db.Query(ctx, `
		SELECT t.id, t.name, t.age, t.gender, t.zodiac_sign, t.profile_photo_url,
			t.bio, t.interests, t.height, t.origin, t.body_type, t.looking_for, t.level
		FROM users t
		JOIN users me ON me.clerk_id = $1
		WHERE t.id != me.id
		  AND t.is_active = true
		  AND NOT EXISTS (
			SELECT 1 FROM swipes sw
			WHERE sw.swiper_id = me.id AND sw.swiped_id = t.id
		  )
		ORDER BY t.created_at DESC
		LIMIT $2`, clerkID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	defer rows.Close()

	cards := []profile.Card{}
	for rows.Next() {
		var c profile.Card
		err := rows.Scan(&c.ID, &c.Name, &c.Age, &c.Gender, &c.ZodiacSign, &c.ProfilePhotoURL,
			&c.Bio, &c.Interests, &c.Height, &c.Origin, &c.BodyType, &c.LookingFor, &c.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if c.Interests == nil {
			c.Interests = []string{}
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// RecordSwipe stores the swipe and, on a mutual like, creates the match in
// the same transaction. Each swipe direction per pair is recorded once.
func (s *SwipeService) RecordSwipe(ctx context.Context, clerkID string, req *swipe.SwipeRequest) (*swipe.SwipeResult, error) {
	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		return nil, fmt.Errorf("invalid target user id: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin swipe transaction: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	var swiperID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&swiperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve swiper: %w", err)
	}
	if swiperID == targetID {
		return nil, ErrSelfSwipe
	}

	var inserted uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO swipes (id, swiper_id, swiped_id, direction, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (swiper_id, swiped_id) DO NOTHING
		RETURNING id`,
		uuid.New().String(), swiperID, targetID, req.Direction).Scan(&inserted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadySwiped
		}
		return nil, fmt.Errorf("failed to record swipe: %w", err)
	}

	result := &swipe.SwipeResult{Success: true}

	if req.Direction.IsLike() {
		var reciprocal bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM swipes
				WHERE swiper_id = $1 AND swiped_id = $2 AND direction IN ('right', 'super')
			)`, targetID, swiperID).Scan(&reciprocal)
		if err != nil {
			return nil, fmt.Errorf("failed to check reciprocal like: %w", err)
		}

		if reciprocal {
			// user1_id < user2_id keeps the pair unique regardless of
			// who liked first.
			user1, user2 := swiperID, targetID
			if user2.String() < user1.String() {
				user1, user2 = user2, user1
			}
			var matchID uuid.UUID
			err = tx.QueryRow(ctx, `
				INSERT INTO matches (id, user1_id, user2_id, matched_at, is_active)
				VALUES ($1, $2, $3, NOW(), true)
				ON CONFLICT (user1_id, user2_id) DO UPDATE SET is_active = true
				RETURNING id`,
				uuid.New().String(), user1, user2).Scan(&matchID)
			if err != nil {
				return nil, fmt.Errorf("failed to create match: %w", err)
			}
			result.IsMatch = true
			result.MatchID = &matchID
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to commit swipe: %v", ErrStoreUnavailable, err)
	}

	go s.afterSwipe(clerkID, swiperID, targetID, req.Direction, result)
	return result, nil
}

// afterSwipe grants XP, checks milestones and notifies the other user on a
// match. Runs detached so the swipe response stays fast.
func (s *SwipeService) afterSwipe(clerkID string, swiperID, targetID uuid.UUID, dir swipe.Direction, result *swipe.SwipeResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.progressionService.GrantXP(ctx, clerkID, swipeXP); err != nil {
		log.Printf("afterSwipe: failed to grant xp: %v", err)
	}

	if dir == swipe.DirectionSuper && s.achievementService != nil {
		if _, err := s.achievementService.Unlock(ctx, clerkID, achievement.KindSuperLike); err != nil {
			log.Printf("afterSwipe: %v", err)
		}
	}

	if s.achievementService != nil {
		var totalSwipes int
		if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM swipes WHERE swiper_id = $1`, swiperID).Scan(&totalSwipes); err == nil {
			s.achievementService.CheckSwipeMilestones(ctx, clerkID, totalSwipes)
		}
	}

	if !result.IsMatch {
		return
	}

	if s.achievementService != nil {
		var totalMatches int
		err := s.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM matches
			WHERE (user1_id = $1 OR user2_id = $1) AND is_active = true`, swiperID).Scan(&totalMatches)
		if err == nil {
			s.achievementService.CheckMatchMilestones(ctx, clerkID, totalMatches)
		}
	}

	if s.notificationService != nil {
		var swiperName string
		if err := s.db.QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, swiperID).Scan(&swiperName); err != nil {
			swiperName = "Jemand"
		}
		err := s.notificationService.Notify(ctx, targetID.String(), "new_match",
			"Neues Match!",
			fmt.Sprintf("Du hast ein Match mit %s", swiperName))
		if err != nil {
			log.Printf("afterSwipe: failed to notify match: %v", err)
		}
	}
}

// ListMatches returns the user's active matches with the counterpart profile.
func (s *SwipeService) ListMatches(ctx context.Context, clerkID string) ([]swipe.MatchedProfile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.id, o.id, o.name, o.profile_photo_url, o.age, m.matched_at
		FROM matches m
		JOIN users me ON me.clerk_id = $1
		JOIN users o ON o.id = CASE WHEN m.user1_id = me.id THEN m.user2_id ELSE m.user1_id END
		WHERE (m.user1_id = me.id OR m.user2_id = me.id) AND m.is_active = true
		ORDER BY m.matched_at DESC`, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := []swipe.MatchedProfile{}
	for rows.Next() {
		var m swipe.MatchedProfile
		if err := rows.Scan(&m.MatchID, &m.UserID, &m.Name, &m.ProfilePhotoURL, &m.Age, &m.MatchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Unmatch deactivates a match; the rows stay for history.
func (s *SwipeService) Unmatch(ctx context.Context, clerkID string, matchID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `
		UPDATE matches m
		SET is_active = false
		FROM users me
		WHERE m.id = $2 AND me.clerk_id = $1
		  AND (m.user1_id = me.id OR m.user2_id = me.id)`,
		clerkID, matchID)
	if err != nil {
		return fmt.Errorf("failed to unmatch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
