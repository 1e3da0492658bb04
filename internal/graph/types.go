package graph

// gqlRequest is the standard GraphQL-over-HTTP request envelope.
type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// gqlError is a single error entry from the subgraph response envelope.
type gqlError struct {
	Message string `json:"message"`
}

// tokenEntity mirrors the subgraph's token entity shape. Decimals arrive as
// a string because The Graph encodes BigInt fields that way.
type tokenEntity struct {
	Symbol   string `json:"symbol"`
	ID       string `json:"id"` // token address, lower-cased by the subgraph
	Decimals string `json:"decimals"`
}

// priceEntity mirrors the subgraph's token-price entity shape. PriceUSD is a
// BigDecimal string.
type priceEntity struct {
	Symbol   string `json:"symbol"`
	PriceUSD string `json:"priceUSD"`
}

// holdingEntity mirrors a user's token-holding entity. Amount is passed
// through untouched: its encoding is ambiguous upstream and resolved by the
// balance package.
type holdingEntity struct {
	Symbol   string `json:"symbol"`
	ID       string `json:"id"`
	Decimals string `json:"decimals"`
	Amount   string `json:"amount"`
}

const pricesQuery = `
query Prices($symbols: [String!]) {
  tokenPrices(where: { symbol_in: $symbols }) {
    symbol
    priceUSD
  }
}`

const investableTokensQuery = `
query InvestableTokens($fund: String!) {
  investableTokens(where: { fund: $fund, isInvestable: true }) {
    symbol
    id
    decimals
  }
}`

const userTokensQuery = `
query UserTokens($investor: String!) {
  investorTokens(where: { investor: $investor }) {
    symbol
    id
    decimals
    amount
  }
}`
