package repository

import (
	"testing"

	"portfolio_checker/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedSnapshot(address, total string) entity.PortfolioSnapshot {
	value := decimal.RequireFromString(total)
	return entity.PortfolioSnapshot{
		ProxyAddress:   address,
		UsdcBalance:    value,
		PortfolioTotal: value,
	}
}

func TestPortfolioCacheStartsEmpty(t *testing.T) {
	cache := NewPortfolioCache()

	assert.Equal(t, 0, cache.Len())
	assert.Empty(t, cache.Entries())
}

func TestPortfolioCachePutAndEntries(t *testing.T) {
	cache := NewPortfolioCache()
	cache.Put(cachedSnapshot("0xA", "1"))
	cache.Put(cachedSnapshot("0xB", "2"))

	assert.Equal(t, 2, cache.Len())
	assert.Len(t, cache.Entries(), 2)
}

func TestPortfolioCacheOverwritesByAddress(t *testing.T) {
	cache := NewPortfolioCache()
	cache.Put(cachedSnapshot("0xA", "1"))
	// Address comparison is case-insensitive.
	cache.Put(cachedSnapshot("0xa", "9"))

	require.Equal(t, 1, cache.Len())
	entries := cache.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].PortfolioTotal.Equal(decimal.RequireFromString("9")))
}
