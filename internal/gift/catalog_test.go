package gift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCatalogItem(t *testing.T) {
	item, category := FindCatalogItem("roses_red_12")
	require.NotNil(t, item)
	require.NotNil(t, category)
	assert.Equal(t, "flowers", category.ID)
	assert.Equal(t, 500, item.Coins)

	item, category = FindCatalogItem("missing_item")
	assert.Nil(t, item)
	assert.Nil(t, category)
}

func TestCatalog_ItemIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, cat := range Catalog {
		for _, item := range cat.Items {
			assert.False(t, seen[item.ID], "duplicate item id %s", item.ID)
			seen[item.ID] = true
			assert.Greater(t, item.Coins, 0)
		}
	}
}
