package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/stele-fi/swap-quote-service/internal/ai"
	"github.com/stele-fi/swap-quote-service/internal/cache"
	"github.com/stele-fi/swap-quote-service/internal/flags"
	"github.com/stele-fi/swap-quote-service/internal/graph"
	"github.com/stele-fi/swap-quote-service/internal/models"
	"github.com/stele-fi/swap-quote-service/internal/registry"
	"github.com/stele-fi/swap-quote-service/internal/router"
	"github.com/stele-fi/swap-quote-service/internal/rules"
	"github.com/stele-fi/swap-quote-service/internal/storage"
)

// Handlers contains all dependencies for API endpoint handlers.
type Handlers struct {
	Cache          storage.PriceCache // Redis-backed price/quote cache
	History        storage.QuoteStore // ClickHouse history, optional
	Flags          *flags.Store       // Redis-backed runtime flags
	Graph          *graph.Client      // subgraph client, optional
	Registry       *registry.Registry // token symbol resolver
	Router         *router.Client     // routing oracle, optional
	MaxSlippageBps uint16             // fund-level slippage bound for routing
	AI             *ai.Agent          // AI agent for quote analytics, optional
	AIBaseConfig   ai.AgentConfig     // base configuration for AI agents
	DevMode        bool               // detailed error responses
	Logger         *logrus.Logger
}

// err returns a standardized JSON error response. Details are included only
// in dev mode.
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds.
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Price returns the cached price for a token symbol. The symbol is
// case-insensitive and normalized to upper case.
func (h *Handlers) Price(c echo.Context) error {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return h.err(c, http.StatusBadRequest, "invalid token", nil)
	}
	token = strings.ToUpper(token)

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	price, err := h.Cache.GetPrice(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrPriceNotFound) {
			return h.err(c, http.StatusNotFound, "price not found", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to get price", nil)
	}
	return c.JSON(http.StatusOK, PriceResponse{Token: token, Price: price})
}

// Token resolves a symbol to its address and decimals. Dynamic context is
// optional: ?fund= pulls the investable list and ?investor= the holdings,
// both from the subgraph. Resolution failure is a 200 with Resolved=false,
// not an error; the caller decides whether to block.
func (h *Handlers) Token(c echo.Context) error {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		return h.err(c, http.StatusBadRequest, "invalid symbol", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userTokens, investable := h.dynamicTokenContext(ctx, c.QueryParam("investor"), c.QueryParam("fund"))

	address := h.Registry.ResolveAddress(symbol, userTokens, investable)
	decimals := h.Registry.ResolveDecimals(symbol, userTokens, investable)

	return c.JSON(http.StatusOK, TokenResponse{
		Symbol:   symbol,
		Address:  address,
		Decimals: decimals,
		Resolved: address != "",
	})
}

// Validate evaluates the trade predicates for a proposed swap. The
// predicates themselves never fail; subgraph trouble degrades to missing
// holdings, which reads as permissive.
func (h *Handlers) Validate(c echo.Context) error {
	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return h.err(c, http.StatusBadRequest, "invalid symbol", map[string]any{"symbol": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userTokens, _ := h.dynamicTokenContext(ctx, req.Investor, "")

	prices, err := h.Cache.GetPriceTable(ctx, []string{req.Symbol})
	if err != nil {
		h.Logger.WithError(err).Warn("price table lookup failed, validating without prices")
		prices = models.PriceTable{}
	}

	exceeds := rules.ExceedsBalance(req.Amount, req.Symbol, userTokens)
	below := rules.BelowMinimum(req.Amount, req.Symbol, prices)
	value := rules.USDValue(req.Amount, req.Symbol, prices)

	enforceMin := h.Flags.Enabled(ctx, flags.KeyEnforceMinimum, true)

	return c.JSON(http.StatusOK, ValidateResponse{
		ExceedsBalance: exceeds,
		BelowMinimum:   below,
		USDValue:       value,
		Allowed:        !exceeds && (!below || !enforceMin),
	})
}

// RecentQuotes returns the most recently served quotes.
// Accepts limit query parameter (default: 100, range: 1-100).
func (h *Handlers) RecentQuotes(c echo.Context) error {
	limitStr := c.QueryParam("limit")
	limit := 100
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > 100 {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 100"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Cache.GetRecentQuotes(ctx, int64(limit))
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get quotes", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// dynamicTokenContext fetches holdings and investable lists when the
// caller identified an investor or fund. Subgraph failures degrade to
// empty lists; the static fallback registry still applies.
func (h *Handlers) dynamicTokenContext(ctx context.Context, investor, fund string) ([]models.UserTokenBalance, []models.TokenInfo) {
	var userTokens []models.UserTokenBalance
	var investable []models.TokenInfo

	if h.Graph == nil {
		return nil, nil
	}

	if investor = strings.TrimSpace(investor); investor != "" {
		tokens, err := h.Graph.FetchUserTokens(ctx, investor)
		if err != nil {
			h.Logger.WithError(err).Warn("user token fetch failed")
		} else {
			userTokens = tokens
		}
	}
	if fund = strings.TrimSpace(fund); fund != "" {
		tokens, err := h.Graph.FetchInvestableTokens(ctx, fund)
		if err != nil {
			h.Logger.WithError(err).Warn("investable token fetch failed")
		} else {
			investable = tokens
		}
	}
	return userTokens, investable
}

func (h *Handlers) FlagsUpsert(c echo.Context) error {
	var req FlagUpsertRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if err := flags.ValidateKey(req.Key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, req.Key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to upsert flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handlers) FlagsUpdate(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}
	var req FlagUpdateRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to update flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handlers) FlagsGet(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Get(ctx, key)
	if err != nil {
		if errors.Is(err, flags.ErrNotFound) {
			return h.err(c, http.StatusNotFound, "flag not found", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to get flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handlers) FlagsList(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Flags.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list flags", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *Handlers) FlagsDelete(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Flags.Delete(ctx, key); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to delete flag", nil)
	}
	return c.NoContent(http.StatusNoContent)
}

// AIAsk processes natural language questions about quote history.
// Supports an optional model override for one-off requests.
func (h *Handlers) AIAsk(c echo.Context) error {
	if h.AI == nil {
		return h.err(c, http.StatusBadRequest, "ai is not configured", nil)
	}

	var req AIAskRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return h.err(c, http.StatusBadRequest, "question is required", map[string]any{"question": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 45*time.Second)
	defer cancel()

	start := time.Now()

	agent := h.AI
	if m := strings.TrimSpace(req.Model); m != "" {
		cfg := h.AIBaseConfig
		cfg.Model = m
		tmp, err := ai.NewAgent(ctx, cfg)
		if err != nil {
			return h.err(c, http.StatusInternalServerError, "failed to create ai agent", nil)
		}
		agent = tmp
		defer func() {
			_ = tmp.Close()
		}()
	}

	res, err := agent.Ask(ctx, req.Question)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "ai ask failed", map[string]any{"err": err.Error()})
	}

	return c.JSON(http.StatusOK, AIAskResponse{SQL: res.SQL, Answer: res.Answer, TookMs: time.Since(start).Milliseconds()})
}
