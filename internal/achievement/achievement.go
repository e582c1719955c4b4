package achievement

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindFirstMatch      Kind = "first_match"
	KindProfileComplete Kind = "profile_complete"
	KindSwipe10         Kind = "swipe_10"
	KindSwipe100        Kind = "swipe_100"
	KindMessage10       Kind = "message_10"
	KindLogin7          Kind = "login_7"
	KindLogin30         Kind = "login_30"
	KindGiftSent        Kind = "gift_sent"
	KindSuperLike       Kind = "super_like"
	KindMatch10         Kind = "match_10"
)

type Achievement struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XPReward    int    `json:"xp_reward"`
}

// Catalog is the static achievement list; unlock rows reference it by kind.
var Catalog = []Achievement{
	{Kind: KindFirstMatch, Title: "Erstes Match", Description: "Dein erstes Match!", Icon: "💕", XPReward: 100},
	{Kind: KindProfileComplete, Title: "Profil-Profi", Description: "Profil zu 100% ausgefüllt", Icon: "✨", XPReward: 50},
	{Kind: KindSwipe10, Title: "Swipe-Starter", Description: "10 Profile geswiped", Icon: "👆", XPReward: 25},
	{Kind: KindSwipe100, Title: "Swipe-Master", Description: "100 Profile geswiped", Icon: "🔥", XPReward: 100},
	{Kind: KindMessage10, Title: "Plaudertasche", Description: "10 Nachrichten gesendet", Icon: "💬", XPReward: 50},
	{Kind: KindLogin7, Title: "Woche dabei", Description: "7 Tage in Folge eingeloggt", Icon: "📅", XPReward: 150},
	{Kind: KindLogin30, Title: "Monat dabei", Description: "30 Tage in Folge eingeloggt", Icon: "🎉", XPReward: 500},
	{Kind: KindGiftSent, Title: "Großzügig", Description: "Erstes Geschenk verschickt", Icon: "🎁", XPReward: 75},
	{Kind: KindSuperLike, Title: "Super-Liker", Description: "Ersten Super-Like vergeben", Icon: "⭐", XPReward: 30},
	{Kind: KindMatch10, Title: "Beliebt", Description: "10 Matches gesammelt", Icon: "💖", XPReward: 200},
}

func Find(kind Kind) *Achievement {
	for i := range Catalog {
		if Catalog[i].Kind == kind {
			return &Catalog[i]
		}
	}
	return nil
}

type Unlock struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Kind       Kind      `json:"kind" db:"kind"`
	UnlockedAt time.Time `json:"unlocked_at" db:"unlocked_at"`
}

type WithStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
