package premium

import (
	"time"
)

type Subscription struct {
	ID             int       `json:"id" db:"id"`
	UserID         string    `json:"userId" db:"user_id"`
	Tier           string    `json:"tier" db:"tier"`
	ValidUntil     time.Time `json:"validUntil" db:"valid_until"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	SubscriptionID string    `json:"subscriptionId" db:"subscription_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Tier is a static subscription offer; the monthly price is charged through
// Paddle, PriceID points at the Paddle catalog price.
type Tier struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyCents int      `json:"monthly_cents"`
	PriceID      string   `json:"price_id"`
	Features     []string `json:"features"`
}

var Tiers = []Tier{
	{
		ID:           "premium",
		Name:         "Premium",
		MonthlyCents: 999,
		PriceID:      "pri_premium_monthly",
		Features: []string{
			"Unbegrenzte Likes",
			"Sehen wer dich geliked hat",
			"5 Super-Likes pro Tag",
			"1 Profil-Boost pro Monat",
		},
	},
	{
		ID:           "premium_plus",
		Name:         "Premium Plus",
		MonthlyCents: 1999,
		PriceID:      "pri_premium_plus_monthly",
		Features: []string{
			"Alle Premium-Features",
			"Unbegrenzte Super-Likes",
			"Wöchentlicher Profil-Boost",
			"Inkognito-Modus",
		},
	},
	{
		ID:           "vip",
		Name:         "VIP",
		MonthlyCents: 4999,
		PriceID:      "pri_vip_monthly",
		Features: []string{
			"Alle Premium Plus-Features",
			"Persönlicher Dating-Berater",
			"Exklusive Events",
			"Priorität im Matching",
		},
	},
}

func FindTier(id string) *Tier {
	for i := range Tiers {
		if Tiers[i].ID == id {
			return &Tiers[i]
		}
	}
	return nil
}

type SubscribeRequest struct {
	TierID string `json:"tierId" validate:"required"`
}
