package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stele-fi/swap-quote-service/internal/flags"
	"github.com/stele-fi/swap-quote-service/internal/models"
	"github.com/stele-fi/swap-quote-service/internal/quote"
)

// Quote serves an advisory swap quote from the cached price table.
//
// The full quote applies the synthetic impact model and protocol fee;
// ?simple=true requests the bare price-ratio estimate instead, and the
// quotes.simple-only flag can force that mode globally. An unknown price
// for either side is a 422: the caller must disable the action rather
// than show a zero.
func (h *Handlers) Quote(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if !h.Flags.Enabled(ctx, flags.KeyQuotesEnabled, true) {
		return h.err(c, http.StatusServiceUnavailable, "quoting is disabled", nil)
	}

	from := strings.ToUpper(strings.TrimSpace(c.QueryParam("from")))
	to := strings.ToUpper(strings.TrimSpace(c.QueryParam("to")))
	amountStr := strings.TrimSpace(c.QueryParam("amount"))

	if from == "" {
		return h.err(c, http.StatusBadRequest, "invalid from", map[string]any{"from": "required"})
	}
	if to == "" {
		return h.err(c, http.StatusBadRequest, "invalid to", map[string]any{"to": "required"})
	}
	if from == to {
		return h.err(c, http.StatusBadRequest, "invalid pair", map[string]any{"to": "must differ from from"})
	}
	if amountStr == "" {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "required"})
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount <= 0 {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be a positive number"})
	}

	simple := false
	if v := strings.TrimSpace(c.QueryParam("simple")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid simple", map[string]any{"simple": "must be boolean"})
		}
		simple = b
	}
	if h.Flags.Enabled(ctx, flags.KeySimpleQuoteOnly, false) {
		simple = true
	}

	prices, err := h.Cache.GetPriceTable(ctx, []string{from, to})
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get prices", nil)
	}

	var q *models.SwapQuote
	if simple {
		q = quote.SimpleQuote(from, to, amount, prices)
	} else {
		q = quote.ComputeQuote(from, to, amount, prices)
	}
	if q == nil {
		return h.err(c, http.StatusUnprocessableEntity, "cannot quote", map[string]any{
			"reason": "price unknown for one or both tokens",
		})
	}

	if h.Flags.Enabled(ctx, flags.KeyRecordQuotes, true) {
		h.recordQuote(q)
	}

	return c.JSON(http.StatusOK, QuoteResponse{Quote: q})
}

// recordQuote writes the served quote to the recent list and history off
// the request path. Quotes are ephemeral; recording is best-effort.
func (h *Handlers) recordQuote(q *models.SwapQuote) {
	rec := &models.QuoteRecord{
		Timestamp:       time.Now().UTC(),
		FromToken:       q.FromToken,
		ToToken:         q.ToToken,
		FromAmount:      q.FromAmount,
		ToAmount:        q.ToAmount,
		ExchangeRate:    q.ExchangeRate,
		PriceImpact:     q.PriceImpact,
		MinimumReceived: q.MinimumReceived,
		ProtocolFee:     q.Fees.Protocol,
		Estimate:        q.Estimate,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Cache.AddRecentQuote(ctx, rec); err != nil {
			h.Logger.WithError(err).Warn("failed to cache quote record")
		}
		if h.History != nil {
			if err := h.History.InsertQuote(ctx, rec); err != nil {
				h.Logger.WithError(err).Warn("failed to insert quote history")
			}
		}
	}()
}
