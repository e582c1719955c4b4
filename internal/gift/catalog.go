package gift

// CatalogItem is a purchasable gift. PriceCents mirrors the real-world price
// shown next to the coin cost; sending always spends coins.
type CatalogItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents"`
	Coins      int    `json:"coins"`
}

type CatalogCategory struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Items []CatalogItem `json:"items"`
}

// Catalog is the static gift storefront carried over from the app content.
var Catalog = []CatalogCategory{
	{
		ID:   "flowers",
		Name: "Blumen",
		Items: []CatalogItem{
			{ID: "roses_red_12", Name: "Rote Rosen (12 Stück)", PriceCents: 2999, Coins: 500},
			{ID: "bouquet_mixed", Name: "Gemischter Strauß", PriceCents: 3999, Coins: 700},
		},
	},
	{
		ID:   "chocolate",
		Name: "Pralinen & Schokolade",
		Items: []CatalogItem{
			{ID: "ferrero_rocher", Name: "Ferrero Rocher (200g)", PriceCents: 1299, Coins: 200},
			{ID: "lindt_heart", Name: "Lindt Lindor Herz", PriceCents: 1999, Coins: 350},
		},
	},
	{
		ID:   "jewelry",
		Name: "Schmuck",
		Items: []CatalogItem{
			{ID: "heart_necklace", Name: "Herz-Halskette", PriceCents: 4999, Coins: 1000},
			{ID: "charm_bracelet", Name: "Charm-Armband", PriceCents: 5999, Coins: 1200},
		},
	},
	{
		ID:   "perfume",
		Name: "Parfüm",
		Items: []CatalogItem{
			{ID: "chanel_no5", Name: "Chanel No. 5", PriceCents: 8999, Coins: 1500},
			{ID: "dior_jadore", Name: "Dior J'adore", PriceCents: 7999, Coins: 1300},
		},
	},
	{
		ID:   "vouchers",
		Name: "Gutscheine",
		Items: []CatalogItem{
			{ID: "amazon_25", Name: "Amazon Gutschein 25€", PriceCents: 2500, Coins: 400},
			{ID: "netflix_3m", Name: "Netflix 3 Monate", PriceCents: 3999, Coins: 700},
		},
	},
}

// FindCatalogItem returns the item and its category, or nil when the id is
// unknown.
func FindCatalogItem(id string) (*CatalogItem, *CatalogCategory) {
	for i := range Catalog {
		for j := range Catalog[i].Items {
			if Catalog[i].Items[j].ID == id {
				return &Catalog[i].Items[j], &Catalog[i]
			}
		}
	}
	return nil, nil
}
