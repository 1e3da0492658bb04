package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stele-fi/swap-quote-service/internal/constants"
	"github.com/stele-fi/swap-quote-service/internal/models"
)

var (
	userTokens = []models.UserTokenBalance{
		{Symbol: "ARB", Address: "0x912ce59144191c1204e64559fe8253a0e49e6548", Decimals: 18, Amount: "10"},
		{Symbol: "USDC", Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Decimals: 6, Amount: "5"},
	}
	investable = []models.TokenInfo{
		{Symbol: "UNI", Address: "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984", Decimals: 18},
		{Symbol: "WBTC", Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Decimals: 8},
	}
)

func TestResolveAddress_Order(t *testing.T) {
	r := Default()

	// User holdings win, checksum-normalized.
	assert.Equal(t, "0x912CE59144191C1204E64559FE8253a0e49E6548",
		r.ResolveAddress("ARB", userTokens, investable))

	// User entry shadows the fallback table for well-known tokens too.
	assert.Equal(t, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		r.ResolveAddress("USDC", userTokens, investable))

	// Investable list comes next.
	assert.Equal(t, "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
		r.ResolveAddress("UNI", userTokens, investable))

	// Fallback table last.
	assert.Equal(t, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		r.ResolveAddress("WETH", userTokens, investable))

	// Total miss is an empty string, not an error.
	assert.Equal(t, "", r.ResolveAddress("DOGE", userTokens, investable))
	assert.Equal(t, "", r.ResolveAddress("", userTokens, investable))
}

func TestResolveDecimals_Order(t *testing.T) {
	r := Default()

	// User holdings are trusted as-is, including 18.
	assert.Equal(t, 18, r.ResolveDecimals("ARB", userTokens, investable))
	assert.Equal(t, 6, r.ResolveDecimals("USDC", userTokens, investable))

	// Investable entries are trusted when not the ambiguous default.
	assert.Equal(t, 8, r.ResolveDecimals("WBTC", nil, investable))

	// An investable 18 is indistinguishable from missing metadata and falls
	// through; with no fallback entry the default comes back.
	assert.Equal(t, 18, r.ResolveDecimals("UNI", nil, investable))

	// Fallback table value wins over an investable 18 for known tokens.
	inv := []models.TokenInfo{{Symbol: "USDC", Address: "", Decimals: 18}}
	assert.Equal(t, 6, r.ResolveDecimals("USDC", nil, inv))

	// Total miss defaults to 18.
	assert.Equal(t, constants.DefaultDecimals, r.ResolveDecimals("DOGE", nil, nil))
}

func TestResolve_InjectedRegistry(t *testing.T) {
	r := New(map[string]constants.FallbackToken{
		"TEST": {Address: "0x0000000000000000000000000000000000000001", Decimals: 4},
	})

	assert.Equal(t, "0x0000000000000000000000000000000000000001",
		r.ResolveAddress("TEST", nil, nil))
	assert.Equal(t, 4, r.ResolveDecimals("TEST", nil, nil))

	// Mainnet entries are absent from the injected table.
	assert.Equal(t, "", r.ResolveAddress("WETH", nil, nil))
}
