// Package rules holds the pure trade-validation predicates. All of them are
// total: bad or missing input yields a permissive result (false / 0), never
// an error, so the caller decides how to surface a blocked action.
package rules

import (
	"strconv"
	"strings"

	"github.com/stele-fi/swap-quote-service/internal/balance"
	"github.com/stele-fi/swap-quote-service/internal/constants"
	"github.com/stele-fi/swap-quote-service/internal/models"
)

// ExceedsBalance reports whether amount is more than the user's normalized
// balance of symbol. Missing amount or symbol, or a balance recorded as the
// literal "0", does not block.
func ExceedsBalance(amount, symbol string, userTokens []models.UserTokenBalance) bool {
	amount = strings.TrimSpace(amount)
	if amount == "" || symbol == "" {
		return false
	}
	amt, err := strconv.ParseFloat(amount, 64)
	if err != nil || amt <= 0 {
		return false
	}

	for _, t := range userTokens {
		if t.Symbol != symbol {
			continue
		}
		if strings.TrimSpace(t.Amount) == "0" {
			return false
		}
		return amt > balance.Normalize(t.Symbol, t.Amount, t.Decimals)
	}
	return false
}

// BelowMinimum reports whether the trade's USD value is under the $10 floor,
// with a small epsilon against float error. Unknown price does not block.
func BelowMinimum(amount, symbol string, prices models.PriceTable) bool {
	amt, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || amt <= 0 {
		return false
	}
	entry, ok := prices[symbol]
	if !ok {
		return false
	}
	return amt*entry.PriceUSD < constants.MinTradeUSD-constants.MinTradeUSDEpsilon
}

// USDValue returns amount * priceUSD(symbol), or 0 when the amount does not
// parse or the price is unknown.
func USDValue(amount, symbol string, prices models.PriceTable) float64 {
	amt, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || amt <= 0 {
		return 0
	}
	entry, ok := prices[symbol]
	if !ok {
		return 0
	}
	return amt * entry.PriceUSD
}
