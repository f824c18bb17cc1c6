package walletloader

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadWalletsSkipsInvalidAndEmptySlots(t *testing.T) {
	t.Setenv("WALLET_1_PROXY_ADDRESS", "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	t.Setenv("WALLET_1_NAME", "Main")
	t.Setenv("WALLET_2_PROXY_ADDRESS", "not-an-address")
	t.Setenv("WALLET_3_PROXY_ADDRESS", "")
	t.Setenv("WALLET_4_PROXY_ADDRESS", "0x0000000000000000000000000000000000000001")

	wallets := NewEnvWalletLoader(zap.NewNop()).LoadWallets()

	require.Len(t, wallets, 2)
	assert.Equal(t, "1", wallets[0].WalletID)
	assert.Equal(t, "Main", wallets[0].Name)
	assert.Equal(t, "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", wallets[0].ProxyAddress)
	assert.Equal(t, "4", wallets[1].WalletID)
	// Missing name falls back to a slot-derived default.
	assert.Equal(t, "Wallet 4", wallets[1].Name)
}

func TestLoadWalletsEmptyEnvironment(t *testing.T) {
	for i := 1; i <= maxWalletSlots; i++ {
		t.Setenv(fmt.Sprintf("WALLET_%d_PROXY_ADDRESS", i), "")
	}

	wallets := NewEnvWalletLoader(zap.NewNop()).LoadWallets()

	assert.Empty(t, wallets)
}
