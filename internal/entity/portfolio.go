package entity

import (
	"github.com/shopspring/decimal"
)

// Wallet represents one tracked proxy wallet, as supplied by the wallet loader.
type Wallet struct {
	WalletID     string `json:"wallet_id"`
	Name         string `json:"name"`
	ProxyAddress string `json:"proxy_address"`
}

// PortfolioSnapshot is a point-in-time valuation of a single wallet:
// the on-chain USDC balance plus the market value of its open positions.
// PortfolioTotal is always UsdcBalance + PositionsValue; a component whose
// source failed is recorded as zero, never omitted.
type PortfolioSnapshot struct {
	ProxyAddress   string          `json:"proxy_address"`
	UsdcBalance    decimal.Decimal `json:"usdc_balance"`
	PositionsValue decimal.Decimal `json:"positions_value"`
	PortfolioTotal decimal.Decimal `json:"portfolio_total"`
	// LastUpdated is a unix timestamp in milliseconds, taken once both
	// component fetches have resolved.
	LastUpdated int64 `json:"last_updated"`
}

// HistoryBucket is one 1-minute window of the historical series. Wallets maps
// a proxy address to its USDC balance in that window; Total is the sum of the
// map values at emission time, without forward-fill from earlier buckets.
type HistoryBucket struct {
	Timestamp int64                      `json:"timestamp"`
	Total     decimal.Decimal            `json:"total"`
	Wallets   map[string]decimal.Decimal `json:"wallets"`
}

// RefreshResult is the outcome of one fleet-wide refresh. Every configured
// wallet yields exactly one snapshot.
type RefreshResult struct {
	Snapshots []PortfolioSnapshot
	Total     decimal.Decimal
	Timestamp int64
}

// CachedResult is the current view of the fleet, served from the in-memory
// cache or, before the first refresh, from the latest stored snapshots.
type CachedResult struct {
	Wallets             []PortfolioSnapshot
	TotalPortfolio      decimal.Decimal
	TotalUsdcBalance    decimal.Decimal
	TotalPositionsValue decimal.Decimal
}
