package blockchain

import (
	"context"
	"math/big"
	"testing"

	"portfolio_checker/internal/config"
	"portfolio_checker/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testChainConfig() *config.Config {
	return &config.Config{
		Chain: config.ChainConfig{
			// HTTP RPC clients connect lazily, so no node needs to listen here.
			RPCEndpoint:   "http://127.0.0.1:18545",
			USDCContract:  "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
			TokenDecimals: 6,
			RPCTimeoutMs:  100,
			RateLimit:     10,
			BurstLimit:    5,
		},
	}
}

func TestNewUSDCClientRejectsInvalidContract(t *testing.T) {
	cfg := testChainConfig()
	cfg.Chain.USDCContract = "not-a-contract"

	_, err := NewUSDCClient(cfg, zap.NewNop())

	assert.Error(t, err)
}

func TestFetchBalanceRejectsInvalidAddress(t *testing.T) {
	c, err := NewUSDCClient(testChainConfig(), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.FetchBalance(context.Background(), "0xzz")

	assert.ErrorIs(t, err, entity.ErrInvalidAddress)
}

func TestFetchBalanceUnreachableNode(t *testing.T) {
	c, err := NewUSDCClient(testChainConfig(), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.FetchBalance(context.Background(), "0x0000000000000000000000000000000000000001")

	assert.ErrorIs(t, err, entity.ErrUpstreamUnavailable)
}

func TestNormalizeBalance(t *testing.T) {
	assert.True(t, normalizeBalance(big.NewInt(1234567), 6).Equal(decimal.RequireFromString("1.234567")))
	assert.True(t, normalizeBalance(big.NewInt(0), 6).IsZero())
	assert.True(t, normalizeBalance(nil, 6).IsZero())
}
