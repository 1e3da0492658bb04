package router

// PathRequest asks the routing oracle for the best swap path between two
// token addresses for a given raw input amount.
type PathRequest struct {
	TokenIn  string // checksum-cased address
	TokenOut string // checksum-cased address
	AmountIn string // raw integer base units as string

	MaxHops          *uint8 // optional hop limit
	OnlyDirectPools  *bool
	IncludeFeeOnPath *bool
}

// PathResponse is the oracle's authoritative answer. AmountOut here takes
// precedence over the advisory engine quote at transaction time.
type PathResponse struct {
	SwapType  string   `json:"swapType"` // "single" | "multihop"
	Path      []string `json:"path"`     // token addresses along the route
	Fee       uint32   `json:"fee"`      // pool fee tier, e.g. 3000 = 0.3%
	AmountOut string   `json:"amountOut"`

	// Optional diagnostics passed through when the oracle provides them.
	PriceImpactPct string  `json:"priceImpactPct,omitempty"`
	TimeTaken      float64 `json:"timeTaken,omitempty"`
}
