package service

import (
	"context"
	"sync"
	"time"

	"portfolio_checker/internal/client"
	"portfolio_checker/internal/config"
	"portfolio_checker/internal/entity"
	"portfolio_checker/internal/repository"
	"portfolio_checker/pkg/blockchain"
	"portfolio_checker/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PortfolioService values the configured wallet fleet against two independent
// upstream sources, keeps the last known good snapshot per wallet in memory
// and appends every successful valuation to the durable store. It is the sole
// writer of both the cache and the store; the query paths are read-only.
type PortfolioService struct {
	wallets  []entity.Wallet
	balances blockchain.BalanceSource
	values   client.ValuationSource
	cache    *repository.PortfolioCache
	store    repository.SnapshotStore
	cfg      *config.Config
	logger   *zap.Logger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(
	wallets []entity.Wallet,
	balances blockchain.BalanceSource,
	values client.ValuationSource,
	cache *repository.PortfolioCache,
	store repository.SnapshotStore,
	cfg *config.Config,
	logger *zap.Logger,
) *PortfolioService {
	return &PortfolioService{
		wallets:  wallets,
		balances: balances,
		values:   values,
		cache:    cache,
		store:    store,
		cfg:      cfg,
		logger:   logger.Named("PortfolioService"),
	}
}

// Wallets returns the configured wallet fleet.
func (s *PortfolioService) Wallets() []entity.Wallet {
	return s.wallets
}

// ValueWallet produces a snapshot for a single wallet. The balance and the
// positions value are fetched concurrently; a failed sub-fetch is logged and
// substituted with zero, so this never fails. One upstream outage degrades
// precision, it must not stall the fleet.
func (s *PortfolioService) ValueWallet(ctx context.Context, address string) entity.PortfolioSnapshot {
	var (
		usdcBalance    decimal.Decimal
		positionsValue decimal.Decimal
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		balance, err := s.balances.FetchBalance(egCtx, address)
		if err != nil {
			s.logger.Warn("USDC balance fetch failed, using zero",
				zap.String("address", address),
				zap.Error(err))
			metrics.UpstreamFailures.WithLabelValues("chain").Inc()
			balance = decimal.Zero
		}
		usdcBalance = balance
		return nil
	})

	eg.Go(func() error {
		value, err := s.values.FetchPositionsValue(egCtx, address)
		if err != nil {
			s.logger.Warn("Positions value fetch failed, using zero",
				zap.String("address", address),
				zap.Error(err))
			metrics.UpstreamFailures.WithLabelValues("data_api").Inc()
			value = decimal.Zero
		}
		positionsValue = value
		return nil
	})

	// Both goroutines always return nil; Wait only joins them.
	_ = eg.Wait()

	return entity.PortfolioSnapshot{
		ProxyAddress:   address,
		UsdcBalance:    usdcBalance,
		PositionsValue: positionsValue,
		PortfolioTotal: usdcBalance.Add(positionsValue),
		LastUpdated:    time.Now().UnixMilli(),
	}
}

// RefreshAll values every configured wallet concurrently. Each wallet yields
// exactly one snapshot; snapshots are written through to the cache and
// appended to the store best-effort. A persistence failure is logged and does
// not remove the snapshot from the result.
func (s *PortfolioService) RefreshAll(ctx context.Context) entity.RefreshResult {
	start := time.Now()

	snapshots := make([]entity.PortfolioSnapshot, 0, len(s.wallets))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	if limit := s.cfg.PortfolioService.MaxConcurrentRequests; limit > 0 {
		eg.SetLimit(limit)
	}

	for _, wallet := range s.wallets {
		w := wallet
		eg.Go(func() error {
			snapshot := s.ValueWallet(egCtx, w.ProxyAddress)

			s.cache.Put(snapshot)
			if err := s.store.Append(snapshot); err != nil {
				s.logger.Error("Failed to persist snapshot",
					zap.String("address", w.ProxyAddress),
					zap.Error(err))
				metrics.SnapshotPersistFailures.Inc()
			}

			mu.Lock()
			snapshots = append(snapshots, snapshot)
			mu.Unlock()
			return nil
		})
	}

	_ = eg.Wait()

	total := decimal.Zero
	for _, snapshot := range snapshots {
		total = total.Add(snapshot.PortfolioTotal)
	}

	metrics.RefreshTotal.Inc()
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("Fleet refresh complete",
		zap.Int("wallets", len(snapshots)),
		zap.String("fleetTotal", total.String()),
		zap.Duration("elapsed", time.Since(start)))

	return entity.RefreshResult{
		Snapshots: snapshots,
		Total:     total,
		Timestamp: time.Now().UnixMilli(),
	}
}

// GetCurrent returns the cached fleet view. Before the first refresh the
// cache is empty and the latest stored snapshot per address is served instead
// (without warming the cache). A failing fallback query degrades to an empty
// result, never to an error.
func (s *PortfolioService) GetCurrent() entity.CachedResult {
	entries := s.cache.Entries()
	if len(entries) == 0 {
		latest, err := s.store.LatestPerAddress()
		if err != nil {
			s.logger.Error("Cache fallback query failed", zap.Error(err))
			return emptyCachedResult()
		}
		entries = latest
	}

	result := entity.CachedResult{
		Wallets:             entries,
		TotalPortfolio:      decimal.Zero,
		TotalUsdcBalance:    decimal.Zero,
		TotalPositionsValue: decimal.Zero,
	}
	for _, snapshot := range entries {
		result.TotalPortfolio = result.TotalPortfolio.Add(snapshot.PortfolioTotal)
		result.TotalUsdcBalance = result.TotalUsdcBalance.Add(snapshot.UsdcBalance)
		result.TotalPositionsValue = result.TotalPositionsValue.Add(snapshot.PositionsValue)
	}
	return result
}

func emptyCachedResult() entity.CachedResult {
	return entity.CachedResult{
		Wallets:             []entity.PortfolioSnapshot{},
		TotalPortfolio:      decimal.Zero,
		TotalUsdcBalance:    decimal.Zero,
		TotalPositionsValue: decimal.Zero,
	}
}
