package balance

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_FormattedInput(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		raw      string
		decimals int
		want     float64
	}{
		{"decimal point taken verbatim", "ETH", "123.45", 18, 123.45},
		{"decimal point ignores decimals", "USDC", "0.5", 6, 0.5},
		{"integer below scale", "ETH", "500", 18, 500},
		{"integer just below scale", "USDC", "999999", 6, 999999},
		{"zero decimals keeps integer", "FOO", "5", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.symbol, tt.raw, tt.decimals))
		})
	}
}

func TestNormalize_RawBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		raw      string
		decimals int
		want     float64
	}{
		{"usdc raw balance", "USDC", "500000000", 6, 500},
		{"eth raw balance", "ETH", "2500000000000000000", 18, 2.5},
		{"wbtc raw balance", "WBTC", "150000000", 8, 1.5},
		{"exactly at scale", "ETH", "1000000000000000000", 18, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Normalize(tt.symbol, tt.raw, tt.decimals), 1e-9)
		})
	}
}

func TestNormalize_USDCThreshold(t *testing.T) {
	// Below one million base units a USDC integer is treated as already
	// formatted even though it is below 10^6 anyway; at or above the
	// threshold the general scale comparison takes over.
	assert.Equal(t, float64(500000), Normalize("USDC", "500000", 6))
	assert.InDelta(t, 1.5, Normalize("USDC", "1500000", 6), 1e-9)

	// A non-USDC token with the same decimals follows the general rule only.
	assert.Equal(t, float64(500000), Normalize("USDT", "500000", 6))
}

func TestNormalize_GuardedInput(t *testing.T) {
	for _, raw := range []string{"", "0", "abc", "-5", "-1.5", "NaN", "Inf", "1e999"} {
		assert.Equal(t, float64(0), Normalize("ETH", raw, 18), "raw=%q", raw)
	}
}

func TestNormalize_FormattedBelowScale(t *testing.T) {
	// Any integer below 10^decimals round-trips unchanged. Capped at 15
	// decimals so 10^d - 1 stays exactly representable as a float64.
	for decimals := 1; decimals <= 15; decimals++ {
		r := math.Pow10(decimals) - 1
		if r < 1 {
			continue
		}
		raw := fmt.Sprintf("%.0f", r)
		assert.Equal(t, r, Normalize("WETH", raw, decimals), "decimals=%d", decimals)
	}
}

func TestNormalize_RawRoundTrip(t *testing.T) {
	// amount * 10^decimals normalizes back to amount on the raw branch.
	for decimals := 1; decimals <= 12; decimals++ {
		amount := 7.0
		raw := fmt.Sprintf("%.0f", amount*math.Pow10(decimals))
		assert.InDelta(t, amount, Normalize("WETH", raw, decimals), 1e-9, "decimals=%d", decimals)
	}
}

func TestNormalize_NeverNegativeOrNaN(t *testing.T) {
	inputs := []string{"", "abc", "0", "-1", "-0.001", "123", "123.456", "NaN", "-Inf", "99999999999999999999999999"}
	for _, raw := range inputs {
		got := Normalize("USDC", raw, 6)
		assert.False(t, math.IsNaN(got), "raw=%q", raw)
		assert.GreaterOrEqual(t, got, float64(0), "raw=%q", raw)
	}
}
