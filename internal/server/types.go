package server

import "github.com/stele-fi/swap-quote-service/internal/models"

// ErrorResponse is the standardized error shape for every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details any    `json:"details,omitempty"` // dev mode only
}

// HealthResponse is the health check response.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// PriceResponse is the cached price for one token.
type PriceResponse struct {
	Token string  `json:"token"`
	Price float64 `json:"price"`
}

// TokenResponse is the resolver's answer for one symbol. An empty address
// means no source could resolve it and the caller must not allow the swap.
type TokenResponse struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
	Resolved bool   `json:"resolved"`
}

// ValidateRequest asks for the trade predicates on a proposed swap.
type ValidateRequest struct {
	Amount   string `json:"amount"`
	Symbol   string `json:"symbol"`
	Investor string `json:"investor,omitempty"` // holdings owner; empty skips the balance check
}

// ValidateResponse carries the pure predicate results. The predicates never
// error: unknown prices and missing holdings read as permissive.
type ValidateResponse struct {
	ExceedsBalance bool    `json:"exceeds_balance"`
	BelowMinimum   bool    `json:"below_minimum"`
	USDValue       float64 `json:"usd_value"`
	Allowed        bool    `json:"allowed"`
}

// QuoteResponse wraps the computed quote.
type QuoteResponse struct {
	Quote *models.SwapQuote `json:"quote"`
}

// FlagUpsertRequest creates or updates a runtime flag.
type FlagUpsertRequest struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// FlagUpdateRequest updates an existing runtime flag.
type FlagUpdateRequest struct {
	Value bool `json:"value"`
}

// AIAskRequest is a natural language question about quote history.
type AIAskRequest struct {
	Question string `json:"question"`
	Model    string `json:"model"` // optional model override
}

// AIAskResponse is the answer to an AI query.
type AIAskResponse struct {
	SQL    string `json:"sql"`
	Answer string `json:"answer"`
	TookMs int64  `json:"took_ms"`
}
