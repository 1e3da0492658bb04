package ai

// quotesSchemaDescription describes the ClickHouse schema used for NL→SQL
// prompting. Keep it in sync with the columns InsertQuote writes.
const quotesSchemaDescription = `
Database: stele
Table: quotes

Columns:
  - timestamp        DateTime  -- When the quote was served (UTC)
  - from_token       String    -- Symbol of the token being sold
  - to_token         String    -- Symbol of the token being bought
  - from_amount      Float64   -- Input amount in from_token units
  - to_amount        Float64   -- Quoted output in to_token units (after impact and fees)
  - exchange_rate    Float64   -- Quoted to_token per from_token
  - price_impact     Float64   -- Impact multiplier applied (0.05 = 5%, capped there)
  - minimum_received Float64   -- to_amount less the 1% slippage tolerance
  - protocol_fee     Float64   -- 30 bps fee, in to_token units
  - estimate         UInt8     -- 1 when this was a basic price-ratio estimate

Notes:
  - These are advisory quotes served to the UI, not executed swaps.
  - For volume-like questions SUM(from_amount) or SUM(to_amount) depending on the unit asked for.
  - Time filters should use timestamp, e.g. timestamp >= now() - INTERVAL 24 HOUR.
  - estimate = 0 filters to full quotes with impact and fees applied.
`
