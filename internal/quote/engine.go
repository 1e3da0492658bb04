// Package quote computes advisory swap quotes from an externally supplied
// USD price table. The quote drives UI display only: execution recomputes
// its minimum-output bound from the routing oracle's quoted output.
package quote

import (
	"math"

	"github.com/stele-fi/swap-quote-service/internal/constants"
	"github.com/stele-fi/swap-quote-service/internal/models"
)

// ComputeQuote derives a full quote for swapping fromAmount of the from
// token into the to token.
//
// The exchange rate is the USD price ratio degraded by a synthetic,
// size-dependent impact multiplier (fromValueUSD / 10_000, capped at 5%).
// A 30 bps protocol fee comes off the output, and minimum-received applies
// a further 1% slippage tolerance. Returns nil when either price is unknown
// or fromAmount is not positive.
func ComputeQuote(from, to string, fromAmount float64, prices models.PriceTable) *models.SwapQuote {
	fromPrice, toPrice, ok := pricePair(from, to, prices)
	if !ok || fromAmount <= 0 {
		return nil
	}

	baseRate := fromPrice / toPrice
	fromValueUSD := fromAmount * fromPrice

	impact := math.Min(fromValueUSD/constants.ImpactUSDDivisor, constants.MaxImpactMultiplier)
	adjustedRate := baseRate * (1 - impact)

	toBeforeFees := fromAmount * adjustedRate
	protocolFee := toBeforeFees * constants.ProtocolFeeRate
	toAmount := toBeforeFees - protocolFee
	minimumReceived := toAmount * (1 - constants.QuoteSlippageRate)

	return &models.SwapQuote{
		FromToken:       from,
		ToToken:         to,
		FromAmount:      fromAmount,
		ToAmount:        toAmount,
		ExchangeRate:    adjustedRate,
		PriceImpact:     impact,
		MinimumReceived: minimumReceived,
		Fees: models.FeeBreakdown{
			NetworkUSD: constants.NetworkFeeUSD,
			Protocol:   protocolFee,
		},
	}
}

// SimpleQuote derives a bare price-ratio quote with no impact or fee
// adjustment. It serves as instant feedback while the full quote resolves;
// callers must prefer ComputeQuote when available and surface the Estimate
// marker otherwise. Returns nil under the same conditions as ComputeQuote.
func SimpleQuote(from, to string, fromAmount float64, prices models.PriceTable) *models.SwapQuote {
	fromPrice, toPrice, ok := pricePair(from, to, prices)
	if !ok || fromAmount <= 0 {
		return nil
	}

	rate := fromPrice / toPrice
	toAmount := fromAmount * rate

	return &models.SwapQuote{
		FromToken:       from,
		ToToken:         to,
		FromAmount:      fromAmount,
		ToAmount:        toAmount,
		ExchangeRate:    rate,
		MinimumReceived: toAmount,
		Fees:            models.FeeBreakdown{NetworkUSD: constants.NetworkFeeUSD},
		Estimate:        true,
	}
}

func pricePair(from, to string, prices models.PriceTable) (float64, float64, bool) {
	fp, ok := prices[from]
	if !ok {
		return 0, 0, false
	}
	tp, ok := prices[to]
	if !ok {
		return 0, 0, false
	}
	if fp.PriceUSD <= 0 || tp.PriceUSD <= 0 {
		return 0, 0, false
	}
	return fp.PriceUSD, tp.PriceUSD, true
}
