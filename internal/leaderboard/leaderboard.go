package leaderboard

import "github.com/google/uuid"

type LeaderboardEntry struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	PhotoURL      *string   `json:"photo_url" db:"photo_url"`
	Level         int       `json:"level" db:"level"`
	XP            int       `json:"xp" db:"xp"`
	CurrentStreak int       `json:"current_streak" db:"current_streak"`
	Rank          int       `json:"rank" db:"rank"`
}

type Leaderboard struct {
	Entries      []*LeaderboardEntry `json:"entries"`
	UserPosition *LeaderboardEntry   `json:"user_position"`
	TotalUsers   int                 `json:"total_users"`
}
