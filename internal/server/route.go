package server

import (
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stele-fi/swap-quote-service/internal/quote"
	"github.com/stele-fi/swap-quote-service/internal/router"
)

// RouteResponse is the oracle's authoritative route with the minimum-output
// bound that would be enforced on-chain.
type RouteResponse struct {
	SwapType       string   `json:"swap_type"`
	Path           []string `json:"path"`
	Fee            uint32   `json:"fee"`
	AmountOut      string   `json:"amount_out"`     // raw output base units
	MinAmountOut   string   `json:"min_amount_out"` // after slippage bound
	PriceImpactPct string   `json:"price_impact_pct,omitempty"`
}

// Route resolves a symbol pair to addresses and asks the routing oracle for
// the best path. Unlike /quote this is the execution-grade answer: the
// oracle's amountOut wins over the advisory engine, and the response carries
// the on-chain minimum-output bound derived from the fund slippage setting.
func (h *Handlers) Route(c echo.Context) error {
	if h.Router == nil {
		return h.err(c, http.StatusServiceUnavailable, "router is not configured", nil)
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
	if _, ok := new(big.Int).SetString(amountStr, 10); !ok {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be raw integer base units"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	userTokens, investable := h.dynamicTokenContext(ctx, c.QueryParam("investor"), c.QueryParam("fund"))

	tokenIn := h.Registry.ResolveAddress(from, userTokens, investable)
	if tokenIn == "" {
		return h.err(c, http.StatusUnprocessableEntity, "cannot route", map[string]any{"from": "unresolved symbol"})
	}
	tokenOut := h.Registry.ResolveAddress(to, userTokens, investable)
	if tokenOut == "" {
		return h.err(c, http.StatusUnprocessableEntity, "cannot route", map[string]any{"to": "unresolved symbol"})
	}

	req := router.PathRequest{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amountStr,
	}
	if v := strings.TrimSpace(c.QueryParam("maxHops")); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid maxHops", map[string]any{"maxHops": "must be 0-255"})
		}
		hops := uint8(n)
		req.MaxHops = &hops
	}

	path, err := h.Router.FindBestPath(ctx, req)
	if err != nil {
		var httpErr *router.HTTPError
		if errors.As(err, &httpErr) {
			return h.err(c, http.StatusBadGateway, "router rejected request", map[string]any{"status": httpErr.StatusCode})
		}
		return h.err(c, http.StatusBadGateway, "router unavailable", nil)
	}

	amountOut, ok := new(big.Int).SetString(strings.TrimSpace(path.AmountOut), 10)
	if !ok {
		return h.err(c, http.StatusBadGateway, "router returned unparseable amount", nil)
	}
	minOut := quote.ExecutionMinOutBig(amountOut, h.MaxSlippageBps)

	return c.JSON(http.StatusOK, RouteResponse{
		SwapType:       path.SwapType,
		Path:           path.Path,
		Fee:            path.Fee,
		AmountOut:      amountOut.String(),
		MinAmountOut:   minOut.String(),
		PriceImpactPct: path.PriceImpactPct,
	})
}
