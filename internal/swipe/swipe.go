package swipe

import (
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionSuper Direction = "super"
)

func (d Direction) Valid() bool {
	return d == DirectionLeft || d == DirectionRight || d == DirectionSuper
}

// IsLike reports whether the swipe counts toward a match.
func (d Direction) IsLike() bool {
	return d == DirectionRight || d == DirectionSuper
}

type Swipe struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SwiperID  uuid.UUID `json:"swiper_id" db:"swiper_id"`
	SwipedID  uuid.UUID `json:"swiped_id" db:"swiped_id"`
	Direction Direction `json:"direction" db:"direction"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Match struct {
	ID        uuid.UUID `json:"id" db:"id"`
	User1ID   uuid.UUID `json:"user1_id" db:"user1_id"`
	User2ID   uuid.UUID `json:"user2_id" db:"user2_id"`
	MatchedAt time.Time `json:"matched_at" db:"matched_at"`
	IsActive  bool      `json:"is_active" db:"is_active"`
}

type SwipeRequest struct {
	TargetUserID string    `json:"targetUserId" validate:"required"`
	Direction    Direction `json:"direction" validate:"required,oneof=left right super"`
}

type SwipeResult struct {
	Success bool       `json:"success"`
	IsMatch bool       `json:"is_match"`
	MatchID *uuid.UUID `json:"match_id,omitempty"`
}

// MatchedProfile is one row in the matches list: the counterpart plus when
// the match happened.
type MatchedProfile struct {
	MatchID         uuid.UUID `json:"match_id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	ProfilePhotoURL *string   `json:"profile_photo_url,omitempty"`
	Age             *int      `json:"age,omitempty"`
	MatchedAt       time.Time `json:"matched_at"`
}
