package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stele-fi/swap-quote-service/internal/models"
)

func testPrices() models.PriceTable {
	return models.PriceTable{
		"ETH":  {PriceUSD: 2000},
		"USDC": {PriceUSD: 1},
		"WBTC": {PriceUSD: 60000},
	}
}

func TestComputeQuote_EthToUsdc(t *testing.T) {
	q := ComputeQuote("ETH", "USDC", 1, testPrices())
	require.NotNil(t, q)

	// fromValueUSD = 2000 -> impact capped at 5%, adjusted rate 1900,
	// 30 bps fee 5.7, output 1894.3, minimum received 1875.357.
	assert.InDelta(t, 0.05, q.PriceImpact, 1e-9)
	assert.InDelta(t, 1900, q.ExchangeRate, 1e-9)
	assert.InDelta(t, 5.7, q.Fees.Protocol, 1e-9)
	assert.InDelta(t, 1894.3, q.ToAmount, 1e-9)
	assert.InDelta(t, 1875.357, q.MinimumReceived, 1e-9)
	assert.InDelta(t, 2.5, q.Fees.NetworkUSD, 1e-9)
	assert.False(t, q.Estimate)
}

func TestComputeQuote_SmallTradeImpact(t *testing.T) {
	// $200 trade -> impact 200/10000 = 2%, under the cap.
	q := ComputeQuote("ETH", "USDC", 0.1, testPrices())
	require.NotNil(t, q)
	assert.InDelta(t, 0.02, q.PriceImpact, 1e-9)
}

func TestComputeQuote_Unquotable(t *testing.T) {
	prices := testPrices()

	assert.Nil(t, ComputeQuote("ETH", "DOGE", 1, prices))
	assert.Nil(t, ComputeQuote("DOGE", "USDC", 1, prices))
	assert.Nil(t, ComputeQuote("ETH", "USDC", 0, prices))
	assert.Nil(t, ComputeQuote("ETH", "USDC", -1, prices))
	assert.Nil(t, ComputeQuote("ETH", "USDC", 1, models.PriceTable{}))

	// A zero price cannot be quoted against.
	prices["ZERO"] = models.PriceEntry{PriceUSD: 0}
	assert.Nil(t, ComputeQuote("ETH", "ZERO", 1, prices))
	assert.Nil(t, ComputeQuote("ZERO", "ETH", 1, prices))
}

func TestSimpleQuote(t *testing.T) {
	q := SimpleQuote("ETH", "USDC", 2, testPrices())
	require.NotNil(t, q)
	assert.InDelta(t, 4000, q.ToAmount, 1e-9)
	assert.InDelta(t, 2000, q.ExchangeRate, 1e-9)
	assert.Zero(t, q.PriceImpact)
	assert.Zero(t, q.Fees.Protocol)
	assert.True(t, q.Estimate)

	assert.Nil(t, SimpleQuote("ETH", "DOGE", 2, testPrices()))
	assert.Nil(t, SimpleQuote("ETH", "USDC", 0, testPrices()))
}

func TestComputeQuote_NeverBeatsSimple(t *testing.T) {
	// Impact and fees only ever reduce output relative to the naive ratio.
	prices := testPrices()
	for _, amount := range []float64{0.001, 0.1, 1, 10, 250} {
		full := ComputeQuote("WBTC", "USDC", amount, prices)
		simple := SimpleQuote("WBTC", "USDC", amount, prices)
		require.NotNil(t, full)
		require.NotNil(t, simple)
		assert.LessOrEqual(t, full.ToAmount, simple.ToAmount, "amount=%v", amount)
		assert.Less(t, full.MinimumReceived, full.ToAmount, "amount=%v", amount)
	}
}

func TestExecutionMinOut(t *testing.T) {
	// 100 bps fund setting -> 80 bps effective -> 0.8% off the router output.
	assert.Equal(t, uint64(992_000), ExecutionMinOut(1_000_000, 100))

	// 500 bps -> 400 bps effective.
	assert.Equal(t, uint64(960_000), ExecutionMinOut(1_000_000, 500))

	// Zero slippage keeps the router output intact.
	assert.Equal(t, uint64(1_000_000), ExecutionMinOut(1_000_000, 0))

	// A setting whose reduced value still reaches 100% yields no bound.
	assert.Equal(t, uint64(0), ExecutionMinOut(1_000_000, 12_500))

	// Large raw amounts stay exact.
	assert.Equal(t, uint64(18_000_000_000_000_000_000)/10000*9920, ExecutionMinOut(18_000_000_000_000_000_000, 100))
}
