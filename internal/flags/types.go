package flags

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("flag not found")

// Flag is a runtime switch, e.g. "quotes.enabled" or
// "validation.enforce-minimum". Flags gate behavior without a redeploy.
type Flag struct {
	Key       string    `json:"key"`
	Value     bool      `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Well-known flag keys consulted by the quote API.
const (
	KeyQuotesEnabled   = "quotes.enabled"
	KeyEnforceMinimum  = "validation.enforce-minimum"
	KeyRecordQuotes    = "quotes.record-history"
	KeySimpleQuoteOnly = "quotes.simple-only"
)
