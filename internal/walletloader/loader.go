package walletloader

import (
	"fmt"
	"os"
	"strings"

	"portfolio_checker/internal/entity"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// maxWalletSlots bounds the numbered WALLET_{N}_PROXY_ADDRESS env variables
// that are scanned for wallet configuration.
const maxWalletSlots = 10

// EnvWalletLoader reads the tracked wallet set from environment variables.
// Each slot N contributes WALLET_N_PROXY_ADDRESS (required) and WALLET_N_NAME
// (optional). Missing or malformed slots are skipped, never reported as errors.
type EnvWalletLoader struct {
	logger *zap.Logger
}

// NewEnvWalletLoader creates a new EnvWalletLoader.
func NewEnvWalletLoader(logger *zap.Logger) *EnvWalletLoader {
	return &EnvWalletLoader{logger: logger.Named("WalletLoader")}
}

// LoadWallets returns every well-formed wallet found in the environment, in
// slot order.
func (l *EnvWalletLoader) LoadWallets() []entity.Wallet {
	wallets := make([]entity.Wallet, 0, maxWalletSlots)
	for i := 1; i <= maxWalletSlots; i++ {
		address := strings.TrimSpace(os.Getenv(fmt.Sprintf("WALLET_%d_PROXY_ADDRESS", i)))
		if address == "" {
			continue
		}
		if !common.IsHexAddress(address) {
			l.logger.Warn("Skipping wallet with invalid proxy address",
				zap.Int("slot", i),
				zap.String("address", address))
			continue
		}

		name := strings.TrimSpace(os.Getenv(fmt.Sprintf("WALLET_%d_NAME", i)))
		if name == "" {
			name = fmt.Sprintf("Wallet %d", i)
		}

		wallets = append(wallets, entity.Wallet{
			WalletID:     fmt.Sprintf("%d", i),
			Name:         name,
			ProxyAddress: address,
		})
	}

	l.logger.Info("Wallets loaded from environment", zap.Int("count", len(wallets)))
	return wallets
}
