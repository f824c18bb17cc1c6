package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"portfolio_checker/internal/config"
	"portfolio_checker/internal/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BalanceSource resolves the on-chain token balance of a wallet address.
type BalanceSource interface {
	FetchBalance(ctx context.Context, address string) (decimal.Decimal, error)
}

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

const dialTimeout = 10 * time.Second

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
	balanceOfID     []byte
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		balanceOfMethod, ok := parsedERC20ABI.Methods["balanceOf"]
		if !ok {
			panic("balanceOf method not found in parsed ERC20 ABI")
		}
		balanceOfID = balanceOfMethod.ID
	})
}

// USDCClient implements BalanceSource against a fixed ERC20 contract on a
// fixed chain. Raw integer balances are normalized by the token's decimal
// precision. The client performs no retries; a failed call is the caller's
// problem to degrade from.
type USDCClient struct {
	ethClient   *ethclient.Client
	contract    common.Address
	decimals    int32
	callTimeout time.Duration
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewUSDCClient dials the configured RPC endpoint and returns a ready client.
func NewUSDCClient(cfg *config.Config, logger *zap.Logger) (*USDCClient, error) {
	initParsedERC20ABI()

	if !common.IsHexAddress(cfg.Chain.USDCContract) {
		return nil, fmt.Errorf("invalid USDC contract address in config: %s", cfg.Chain.USDCContract)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, cfg.Chain.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", cfg.Chain.RPCEndpoint, err)
	}

	return &USDCClient{
		ethClient:   client,
		contract:    common.HexToAddress(cfg.Chain.USDCContract),
		decimals:    cfg.Chain.TokenDecimals,
		callTimeout: time.Duration(cfg.Chain.RPCTimeoutMs) * time.Millisecond,
		limiter:     rate.NewLimiter(rate.Limit(cfg.Chain.RateLimit), cfg.Chain.BurstLimit),
		logger:      logger.Named("USDCClient"),
	}, nil
}

// FetchBalance returns the normalized token balance of address. It fails with
// entity.ErrInvalidAddress for malformed addresses and wraps everything else
// in entity.ErrUpstreamUnavailable.
func (c *USDCClient) FetchBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	if !common.IsHexAddress(address) {
		return decimal.Zero, fmt.Errorf("%w: %s", entity.ErrInvalidAddress, address)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("%w: rate limiter wait for %s: %v", entity.ErrUpstreamUnavailable, address, err)
	}

	paddedWalletAddress := common.LeftPadBytes(common.HexToAddress(address).Bytes(), 32)
	callData := append(balanceOfID, paddedWalletAddress...)

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	raw, err := c.ethClient.CallContract(callCtx, ethereum.CallMsg{
		To:   &c.contract,
		Data: callData,
	}, nil)
	if err != nil {
		c.logger.Debug("balanceOf call failed",
			zap.String("address", address),
			zap.Error(err))
		return decimal.Zero, fmt.Errorf("%w: balanceOf call for %s: %v", entity.ErrUpstreamUnavailable, address, err)
	}
	if len(raw) == 0 {
		return decimal.Zero, nil
	}

	unpacked, err := parsedERC20ABI.Unpack("balanceOf", raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to unpack balanceOf result for %s: %v", entity.ErrMalformedResponse, address, err)
	}
	if len(unpacked) == 0 {
		return decimal.Zero, fmt.Errorf("%w: balanceOf unpack returned no data for %s", entity.ErrMalformedResponse, address)
	}
	balance, ok := unpacked[0].(*big.Int)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unexpected balanceOf result type %T for %s", entity.ErrMalformedResponse, unpacked[0], address)
	}

	return normalizeBalance(balance, c.decimals), nil
}

// normalizeBalance converts a raw integer token amount into its decimal
// representation, e.g. 1234567 with 6 decimals becomes 1.234567.
func normalizeBalance(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -decimals)
}

// Close releases the underlying RPC connection.
func (c *USDCClient) Close() {
	c.ethClient.Close()
}
