package constants

import "time"

// Redis keys
const (
	RedisKeyPricePrefix  = "price:"
	RedisKeyRecentQuotes = "quotes:recent"
)

// Redis Pub/Sub channels
const (
	PubSubChannelPrices = "prices:live"
)

// Limits
const (
	MaxRecentQuotes = 100
	PriceTTL        = 5 * time.Minute
)

// Quote model parameters.
//
// The engine quote is advisory: it feeds the UI while the routing oracle
// resolves the authoritative on-chain quote at execution time. The impact
// model is synthetic, scaled by trade size in USD and capped, not derived
// from pool liquidity.
const (
	ProtocolFeeRate      = 0.003  // 30 bps
	QuoteSlippageRate    = 0.01   // 1% tolerance baked into minimum-received
	ImpactUSDDivisor     = 10_000 // fromValueUSD / divisor = impact multiplier
	MaxImpactMultiplier  = 0.05   // impact capped at 5%
	NetworkFeeUSD        = 2.5    // flat display-only estimate
	MinTradeUSD          = 10.0
	MinTradeUSDEpsilon   = 0.001 // float tolerance on the minimum check
	ExecutionSlippageCut = 0.8   // fund max-slippage reduced by 20% at execution
)

// DefaultDecimals is assumed when no source can resolve a token's precision.
const DefaultDecimals = 18

// USDCRawThreshold separates already-formatted USDC balances from raw base
// units. Realistic raw USDC balances exceed one million base units, so
// smaller integer strings are treated as display values.
const USDCRawThreshold = 1_000_000

// FallbackToken is a well-known token entry used when neither the user's
// holdings nor the investable list can resolve a symbol.
type FallbackToken struct {
	Address  string
	Decimals int
}

// FallbackTokens holds canonical Ethereum mainnet entries, checksum-cased.
var FallbackTokens = map[string]FallbackToken{
	"ETH":  {Address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", Decimals: 18},
	"WETH": {Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18},
	"USDC": {Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
	"USDT": {Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6},
	"WBTC": {Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Decimals: 8},
}
