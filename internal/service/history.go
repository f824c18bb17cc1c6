package service

import (
	"sort"

	"portfolio_checker/internal/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// bucketMillis is the fixed granularity of the historical series.
const bucketMillis = int64(60_000)

// History down-samples the raw snapshot stream of the last N hours into
// 1-minute buckets, recomputed fresh on every call. Each bucket carries the
// USDC balance per address; a later snapshot of the same address inside the
// same minute overwrites the earlier one. A failing store query degrades to
// an empty series.
func (s *PortfolioService) History(hours int) []entity.HistoryBucket {
	snapshots, err := s.store.RangeSince(hours)
	if err != nil {
		s.logger.Error("History range query failed", zap.Int("hours", hours), zap.Error(err))
		return []entity.HistoryBucket{}
	}

	grouped := make(map[int64]map[string]decimal.Decimal)
	for _, snapshot := range snapshots {
		bucketStart := snapshot.LastUpdated / bucketMillis * bucketMillis
		wallets, ok := grouped[bucketStart]
		if !ok {
			wallets = make(map[string]decimal.Decimal)
			grouped[bucketStart] = wallets
		}
		// Rows arrive in ascending timestamp order, so last write wins.
		wallets[snapshot.ProxyAddress] = snapshot.UsdcBalance
	}

	starts := make([]int64, 0, len(grouped))
	for bucketStart := range grouped {
		starts = append(starts, bucketStart)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	buckets := make([]entity.HistoryBucket, 0, len(starts))
	for _, bucketStart := range starts {
		wallets := grouped[bucketStart]
		total := decimal.Zero
		for _, balance := range wallets {
			total = total.Add(balance)
		}
		buckets = append(buckets, entity.HistoryBucket{
			Timestamp: bucketStart,
			Total:     total,
			Wallets:   wallets,
		})
	}
	return buckets
}
