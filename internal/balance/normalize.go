// Package balance normalizes token balances that arrive without a consistent
// encoding contract. Subgraph entities carry human-scaled decimal strings
// while on-chain reads carry raw integers scaled by 10^decimals, and nothing
// upstream tags which is which, so normalization is a heuristic.
package balance

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stele-fi/swap-quote-service/internal/constants"
)

// Normalize converts a raw balance string into a human-readable amount.
//
// A string containing a decimal point is taken as already formatted. Integer
// strings are compared against 10^decimals: values below it are taken as
// already formatted, values at or above it as raw base units and divided
// down. USDC gets a lower threshold because realistic raw USDC balances
// exceed one million base units.
//
// Empty, zero, unparseable, or negative input yields 0. The result is never
// NaN or negative.
func Normalize(symbol, raw string, decimals int) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return 0
	}

	if strings.Contains(raw, ".") {
		return clamp(parseFloat(raw))
	}

	parsed := parseFloat(raw)
	if parsed <= 0 {
		return 0
	}

	if decimals < 0 {
		decimals = 0
	}
	if decimals > 77 {
		decimals = 77
	}

	if symbol == "USDC" && parsed < constants.USDCRawThreshold {
		return parsed
	}
	if parsed < math.Pow10(decimals) {
		return parsed
	}

	// Raw base units. Shift down in full-precision decimal arithmetic so
	// large integers are not rounded before the final division.
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return clamp(parsed / math.Pow10(decimals))
	}
	out, _ := d.Shift(int32(-decimals)).Float64()
	return clamp(out)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func clamp(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
