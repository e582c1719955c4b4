package profile

import "time"

type User struct {
	ID               string     `json:"id"`
	ClerkID          string     `json:"clerkId"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Role             string     `json:"role"`
	BirthDate        *time.Time `json:"birthDate,omitempty"`
	Age              *int       `json:"age,omitempty"`
	Gender           *string    `json:"gender,omitempty"`
	ZodiacSign       *string    `json:"zodiacSign,omitempty"`
	ProfilePhotoURL  *string    `json:"profilePhotoUrl,omitempty"`
	Bio              *string    `json:"bio,omitempty"`
	Interests        []string   `json:"interests"`
	HairColor        *string    `json:"hairColor,omitempty"`
	EyeColor         *string    `json:"eyeColor,omitempty"`
	Height           *int       `json:"height,omitempty"`
	Weight           *int       `json:"weight,omitempty"`
	Origin           *string    `json:"origin,omitempty"`
	BodyType         *string    `json:"bodyType,omitempty"`
	HasChildren      *bool      `json:"hasChildren,omitempty"`
	WantsChildren    *bool      `json:"wantsChildren,omitempty"`
	LookingFor       *string    `json:"lookingFor,omitempty"`
	Coins            int        `json:"coins"`
	Level            int        `json:"level"`
	XP               int        `json:"xp"`
	StreakCount      int        `json:"streakCount"`
	LastClaimDate    *time.Time `json:"lastClaimDate,omitempty"`
	IsPremium        bool       `json:"isPremium"`
	PremiumExpiresAt *time.Time `json:"premiumExpiresAt,omitempty"`
	IsVip            bool       `json:"isVip"`
	IsActive         bool       `json:"isActive"`
	LastSeen         *time.Time `json:"lastSeen,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Card is the trimmed view served to the swipe deck: no contact data, no
// balances, just what the other side is allowed to see.
type Card struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Age             *int     `json:"age,omitempty"`
	Gender          *string  `json:"gender,omitempty"`
	ZodiacSign      *string  `json:"zodiacSign,omitempty"`
	ProfilePhotoURL *string  `json:"profilePhotoUrl,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	Interests       []string `json:"interests"`
	Height          *int     `json:"height,omitempty"`
	Origin          *string  `json:"origin,omitempty"`
	BodyType        *string  `json:"bodyType,omitempty"`
	LookingFor      *string  `json:"lookingFor,omitempty"`
	Level           int      `json:"level"`
}
