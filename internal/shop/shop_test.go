package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCoinPackage(t *testing.T) {
	pkg := FindCoinPackage("best_value")
	require.NotNil(t, pkg)
	assert.Equal(t, 2500, pkg.Coins)
	assert.Equal(t, 500, pkg.Bonus)
	assert.Equal(t, 3000, pkg.TotalCoins())

	assert.Nil(t, FindCoinPackage("no_such_package"))
}

func TestCoinPackages_PricesAscending(t *testing.T) {
	for i := 1; i < len(CoinPackages); i++ {
		assert.Greater(t, CoinPackages[i].PriceCents, CoinPackages[i-1].PriceCents)
		assert.Greater(t, CoinPackages[i].TotalCoins(), CoinPackages[i-1].TotalCoins())
	}
}
