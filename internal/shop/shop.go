package shop

// CoinPackage is a fixed storefront offer. PriceCents is what Stripe charges;
// Coins+Bonus is what the webhook credits after checkout completes.
type CoinPackage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Coins       int    `json:"coins"`
	Bonus       int    `json:"bonus,omitempty"`
	PriceCents  int    `json:"price_cents"`
	Description string `json:"description"`
}

var CoinPackages = []CoinPackage{
	{ID: "starter", Name: "Starter Pack", Coins: 500, PriceCents: 499, Description: "500 Coins für den Einstieg"},
	{ID: "popular", Name: "Beliebtes Paket", Coins: 1000, Bonus: 100, PriceCents: 999, Description: "1000 Coins + 100 Bonus"},
	{ID: "best_value", Name: "Bestes Angebot", Coins: 2500, Bonus: 500, PriceCents: 1999, Description: "2500 Coins + 500 Bonus"},
	{ID: "premium", Name: "Premium Pack", Coins: 5000, Bonus: 1500, PriceCents: 3999, Description: "5000 Coins + 1500 Bonus"},
}

func FindCoinPackage(id string) *CoinPackage {
	for i := range CoinPackages {
		if CoinPackages[i].ID == id {
			return &CoinPackages[i]
		}
	}
	return nil
}

// TotalCoins is what a completed purchase actually credits.
func (p CoinPackage) TotalCoins() int {
	return p.Coins + p.Bonus
}

type CheckoutRequest struct {
	PackageID string `json:"packageId" validate:"required"`
}

type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}
