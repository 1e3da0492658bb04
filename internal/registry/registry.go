// Package registry resolves token symbols to on-chain addresses and decimal
// precision. Dynamic sources (user holdings, investable-token lists) win over
// the injected fallback table, and absence is reported with sentinel values
// rather than errors so callers can disable the action instead of unwinding.
package registry

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/stele-fi/swap-quote-service/internal/constants"
	"github.com/stele-fi/swap-quote-service/internal/models"
)

// Registry resolves symbols against dynamic token lists with a per-network
// fallback table for well-known tokens.
type Registry struct {
	fallback map[string]constants.FallbackToken
}

// New creates a Registry with the given fallback table. The table is keyed by
// upper-case symbol; addresses are checksum-normalized on lookup.
func New(fallback map[string]constants.FallbackToken) *Registry {
	if fallback == nil {
		fallback = map[string]constants.FallbackToken{}
	}
	return &Registry{fallback: fallback}
}

// Default returns the Ethereum-mainnet registry.
func Default() *Registry {
	return New(constants.FallbackTokens)
}

// ResolveAddress returns the checksum-cased address for symbol, or "" when no
// source knows it. Lookup order: user holdings, investable list, fallback.
func (r *Registry) ResolveAddress(symbol string, userTokens []models.UserTokenBalance, investable []models.TokenInfo) string {
	if symbol == "" {
		return ""
	}
	for _, t := range userTokens {
		if t.Symbol == symbol && t.Address != "" {
			return checksum(t.Address)
		}
	}
	for _, t := range investable {
		if t.Symbol == symbol && t.Address != "" {
			return checksum(t.Address)
		}
	}
	if fb, ok := r.fallback[symbol]; ok {
		return checksum(fb.Address)
	}
	return ""
}

// ResolveDecimals returns the decimal precision for symbol, defaulting to 18.
//
// The investable list cannot distinguish a genuine 18-decimal token from a
// missing value: its entities default to 18 when the subgraph has no
// metadata. An investable result of exactly 18 therefore falls through to
// the fallback table, and the fallback value wins for well-known tokens.
func (r *Registry) ResolveDecimals(symbol string, userTokens []models.UserTokenBalance, investable []models.TokenInfo) int {
	if symbol == "" {
		return constants.DefaultDecimals
	}
	for _, t := range userTokens {
		if t.Symbol == symbol && validDecimals(t.Decimals) {
			return t.Decimals
		}
	}
	for _, t := range investable {
		if t.Symbol == symbol && validDecimals(t.Decimals) && t.Decimals != constants.DefaultDecimals {
			return t.Decimals
		}
	}
	if fb, ok := r.fallback[symbol]; ok {
		return fb.Decimals
	}
	return constants.DefaultDecimals
}

// validDecimals bounds precision to what an ERC-20 can report (uint8, and in
// practice <= 77 before 10^decimals overflows a uint256).
func validDecimals(d int) bool {
	return d > 0 && d <= 77
}

// checksum normalizes a hex address to EIP-55 casing. Values that are not
// valid hex addresses pass through untouched so the caller still sees what
// the upstream source reported.
func checksum(addr string) string {
	if !common.IsHexAddress(addr) {
		return addr
	}
	return common.HexToAddress(addr).Hex()
}
