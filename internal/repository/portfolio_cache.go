package repository

import (
	"strings"

	"portfolio_checker/internal/entity"

	gocache "github.com/patrickmn/go-cache"
)

// PortfolioCache keeps the last known good snapshot per wallet address. There
// is no entry for an address until its first successful valuation and entries
// never expire; staleness is bounded only by how often a refresh runs.
type PortfolioCache struct {
	entries *gocache.Cache
}

// NewPortfolioCache creates an empty cache.
func NewPortfolioCache() *PortfolioCache {
	// No TTL and no janitor; entries are overwritten in place on refresh.
	return &PortfolioCache{
		entries: gocache.New(gocache.NoExpiration, 0),
	}
}

// Put stores or overwrites the snapshot for its address.
func (c *PortfolioCache) Put(snapshot entity.PortfolioSnapshot) {
	c.entries.Set(strings.ToLower(snapshot.ProxyAddress), snapshot, gocache.NoExpiration)
}

// Entries returns a copy of all cached snapshots.
func (c *PortfolioCache) Entries() []entity.PortfolioSnapshot {
	items := c.entries.Items()
	snapshots := make([]entity.PortfolioSnapshot, 0, len(items))
	for _, item := range items {
		if snapshot, ok := item.Object.(entity.PortfolioSnapshot); ok {
			snapshots = append(snapshots, snapshot)
		}
	}
	return snapshots
}

// Len returns the number of cached addresses.
func (c *PortfolioCache) Len() int {
	return c.entries.ItemCount()
}
