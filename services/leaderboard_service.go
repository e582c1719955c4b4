package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Single-Connect/singles-connect-optimized/internal/leaderboard"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeaderboardService struct {
	db *pgxpool.Pool
}

func NewLeaderboardService(db *pgxpool.Pool) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// GetLeaderboard ranks active users by XP. The requesting user's own
// position is included even when outside the top slice.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, clerkID string, limit int) (*leaderboard.Leaderboard, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, profile_photo_url, level, xp, streak_count,
			RANK() OVER (ORDER BY xp DESC, id) AS rank
		FROM users
		WHERE is_active = true
		ORDER BY rank
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []*leaderboard.LeaderboardEntry{}
	for rows.Next() {
		e := &leaderboard.LeaderboardEntry{}
		if err := rows.Scan(&e.UserID, &e.Name, &e.PhotoURL, &e.Level, &e.XP, &e.CurrentStreak, &e.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	board := &leaderboard.Leaderboard{Entries: entries}

	err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active = true`).Scan(&board.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	pos := &leaderboard.LeaderboardEntry{}
	err = s.db.QueryRow(ctx, `
		SELECT r.id, r.name, r.profile_photo_url, r.level, r.xp, r.streak_count, r.rank
		FROM (
			SELECT id, clerk_id, name, profile_photo_url, level, xp, streak_count,
				RANK() OVER (ORDER BY xp DESC, id) AS rank
			FROM users
			WHERE is_active = true
		) r
		WHERE r.clerk_id = $1`, clerkID).
		Scan(&pos.UserID, &pos.Name, &pos.PhotoURL, &pos.Level, &pos.XP, &pos.CurrentStreak, &pos.Rank)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to load user position: %w", err)
		}
	} else {
		board.UserPosition = pos
	}

	return board, nil
}
