package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio_checker/internal/config"
	"portfolio_checker/internal/entity"
	"portfolio_checker/internal/repository"
	"portfolio_checker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedBalanceSource struct {
	balance decimal.Decimal
}

func (s *fixedBalanceSource) FetchBalance(_ context.Context, _ string) (decimal.Decimal, error) {
	return s.balance, nil
}

type fixedValuationSource struct {
	value decimal.Decimal
}

func (s *fixedValuationSource) FetchPositionsValue(_ context.Context, _ string) (decimal.Decimal, error) {
	return s.value, nil
}

type memoryStore struct {
	snapshots []entity.PortfolioSnapshot
}

func (s *memoryStore) Append(snapshot entity.PortfolioSnapshot) error {
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

func (s *memoryStore) LatestPerAddress() ([]entity.PortfolioSnapshot, error) {
	return s.snapshots, nil
}

func (s *memoryStore) RangeSince(_ int) ([]entity.PortfolioSnapshot, error) {
	return s.snapshots, nil
}

func newTestRouter(wallets []entity.Wallet) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		PortfolioService: config.PortfolioServiceConfig{MaxConcurrentRequests: 4},
	}
	svc := service.NewPortfolioService(
		wallets,
		&fixedBalanceSource{balance: decimal.RequireFromString("3")},
		&fixedValuationSource{value: decimal.RequireFromString("2")},
		repository.NewPortfolioCache(),
		&memoryStore{},
		cfg,
		zap.NewNop(),
	)

	router := gin.New()
	RegisterPortfolioRoutes(router, NewPortfolioHandler(svc, zap.NewNop()))
	return router
}

func performRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(nil)

	w := performRequest(router, "/api/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestWalletsEndpoint(t *testing.T) {
	router := newTestRouter([]entity.Wallet{
		{WalletID: "1", Name: "Main", ProxyAddress: "0xa"},
	})

	w := performRequest(router, "/api/wallets")

	require.Equal(t, http.StatusOK, w.Code)
	var wallets []entity.Wallet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wallets))
	require.Len(t, wallets, 1)
	assert.Equal(t, "Main", wallets[0].Name)
}

func TestRefreshEndpoint(t *testing.T) {
	router := newTestRouter([]entity.Wallet{
		{WalletID: "1", Name: "Main", ProxyAddress: "0xa"},
		{WalletID: "2", Name: "Second", ProxyAddress: "0xb"},
	})

	w := performRequest(router, "/api/portfolio/refresh")

	require.Equal(t, http.StatusOK, w.Code)
	var resp RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	// Each wallet values at 3 + 2, so the fleet totals 10.
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("10")))
	assert.Greater(t, resp.Timestamp, int64(0))
}

func TestCachedEndpointBeforeAnyRefresh(t *testing.T) {
	router := newTestRouter(nil)

	w := performRequest(router, "/api/portfolio/cached")

	require.Equal(t, http.StatusOK, w.Code)
	var resp CachedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Wallets)
	assert.True(t, resp.TotalPortfolio.IsZero())
}

func TestHistoryEndpointInvalidHoursFallsBackToDefault(t *testing.T) {
	router := newTestRouter(nil)

	w := performRequest(router, "/api/portfolio/history?hours=nope")

	require.Equal(t, http.StatusOK, w.Code)
	var buckets []entity.HistoryBucket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &buckets))
	assert.Empty(t, buckets)
}
