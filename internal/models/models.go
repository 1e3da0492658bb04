package models

import "time"

// TokenInfo describes a token as known to one of the upstream sources
// (user holdings, investable-token list, or the static fallback registry).
type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"` // checksum-cased 20-byte hex
	Decimals int    `json:"decimals"`
}

// UserTokenBalance is a held-token entry. Amount is a string because the
// upstream sources disagree on encoding: subgraph entities ship human-scaled
// decimals while on-chain reads ship raw base units. See the balance package.
type UserTokenBalance struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
	Amount   string `json:"amount"`
}

// PriceEntry is one row of the externally supplied USD price table.
type PriceEntry struct {
	PriceUSD float64 `json:"price_usd"`
}

// PriceTable maps token symbol to its USD price. An absent entry means the
// price is unknown, not zero.
type PriceTable map[string]PriceEntry

// FeeBreakdown itemizes the costs shown alongside a quote.
type FeeBreakdown struct {
	NetworkUSD float64 `json:"network_usd"` // flat display estimate
	Protocol   float64 `json:"protocol"`    // in output-token units
}

// SwapQuote is a derived, ephemeral quote. It is recomputed on every input
// change and never persisted as a source of truth.
type SwapQuote struct {
	FromToken       string       `json:"from_token"`
	ToToken         string       `json:"to_token"`
	FromAmount      float64      `json:"from_amount"`
	ToAmount        float64      `json:"to_amount"`
	ExchangeRate    float64      `json:"exchange_rate"`
	PriceImpact     float64      `json:"price_impact"` // 0.05 = 5%
	MinimumReceived float64      `json:"minimum_received"`
	Fees            FeeBreakdown `json:"fees"`

	// Estimate marks a basic price-ratio quote with no impact or fee
	// adjustment, served while the full quote resolves.
	Estimate bool `json:"estimate,omitempty"`
}

// QuoteRecord is the analytics row written for each served quote.
type QuoteRecord struct {
	Timestamp       time.Time `json:"timestamp"`
	FromToken       string    `json:"from_token"`
	ToToken         string    `json:"to_token"`
	FromAmount      float64   `json:"from_amount"`
	ToAmount        float64   `json:"to_amount"`
	ExchangeRate    float64   `json:"exchange_rate"`
	PriceImpact     float64   `json:"price_impact"`
	MinimumReceived float64   `json:"minimum_received"`
	ProtocolFee     float64   `json:"protocol_fee"`
	Estimate        bool      `json:"estimate"`
}

// PricePoint is one price observation from the feed, as cached and as
// snapshotted into history.
type PricePoint struct {
	Symbol    string    `json:"symbol"`
	PriceUSD  float64   `json:"price_usd"`
	Source    string    `json:"source"` // e.g. "subgraph"
	Timestamp time.Time `json:"timestamp"`
}
