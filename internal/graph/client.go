// Package graph is the subgraph client: token prices, investable-token
// lists, and user holdings all come from one GraphQL endpoint. The client
// retries transient failures with a linear backoff and leaves amount
// encodings untouched for the balance package to resolve.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stele-fi/swap-quote-service/internal/models"
)

// Client is an HTTP client for the Stele subgraph with retry support.
type Client struct {
	httpClient   *http.Client
	endpoint     string
	apiKey       string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logrus.Logger
}

// ClientConfig holds configuration for the subgraph client.
type ClientConfig struct {
	Endpoint     string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *logrus.Logger
}

// NewClient creates a new subgraph client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		logger:       cfg.Logger,
	}
}

// FetchPrices returns the current USD price table for the given symbols.
// Symbols the subgraph does not know stay absent from the table.
func (c *Client) FetchPrices(ctx context.Context, symbols []string) (models.PriceTable, error) {
	var resp struct {
		TokenPrices []priceEntity `json:"tokenPrices"`
	}
	vars := map[string]any{"symbols": symbols}
	if err := c.query(ctx, pricesQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}

	table := models.PriceTable{}
	for _, p := range resp.TokenPrices {
		price, err := strconv.ParseFloat(p.PriceUSD, 64)
		if err != nil || price < 0 {
			c.logger.WithField("symbol", p.Symbol).Warn("skipping unparseable priceUSD")
			continue
		}
		table[strings.ToUpper(p.Symbol)] = models.PriceEntry{PriceUSD: price}
	}
	return table, nil
}

// FetchInvestableTokens returns the tokens whitelisted as swap destinations
// for a challenge or fund.
func (c *Client) FetchInvestableTokens(ctx context.Context, fund string) ([]models.TokenInfo, error) {
	var resp struct {
		InvestableTokens []tokenEntity `json:"investableTokens"`
	}
	vars := map[string]any{"fund": strings.ToLower(fund)}
	if err := c.query(ctx, investableTokensQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch investable tokens: %w", err)
	}

	out := make([]models.TokenInfo, 0, len(resp.InvestableTokens))
	for _, t := range resp.InvestableTokens {
		out = append(out, models.TokenInfo{
			Symbol:   t.Symbol,
			Address:  t.ID,
			Decimals: parseDecimals(t.Decimals),
		})
	}
	return out, nil
}

// FetchUserTokens returns an investor's current holdings. Amounts pass
// through as-is; their encoding is resolved by the balance package.
func (c *Client) FetchUserTokens(ctx context.Context, investor string) ([]models.UserTokenBalance, error) {
	var resp struct {
		InvestorTokens []holdingEntity `json:"investorTokens"`
	}
	vars := map[string]any{"investor": strings.ToLower(investor)}
	if err := c.query(ctx, userTokensQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("fetch user tokens: %w", err)
	}

	out := make([]models.UserTokenBalance, 0, len(resp.InvestorTokens))
	for _, h := range resp.InvestorTokens {
		out = append(out, models.UserTokenBalance{
			Symbol:   h.Symbol,
			Address:  h.ID,
			Decimals: parseDecimals(h.Decimals),
			Amount:   h.Amount,
		})
	}
	return out, nil
}

// parseDecimals falls back to 18 the way the subgraph itself does for
// missing metadata. The registry treats 18 from this path as ambiguous.
func parseDecimals(s string) int {
	d, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || d < 0 || d > 77 {
		return 18
	}
	return d
}

// query posts a GraphQL request and decodes data into out, retrying
// transient HTTP failures.
func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"err":     lastErr,
			}).Debug("retrying subgraph query")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryBackoff * time.Duration(attempt)):
			}
		}

		lastErr = c.do(ctx, payload, out)
		if lastErr == nil {
			return nil
		}
		// GraphQL-level errors are not transient; do not retry them.
		if _, ok := lastErr.(*QueryError); ok {
			return lastErr
		}
	}
	return fmt.Errorf("subgraph query failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// QueryError carries GraphQL-level errors from the subgraph envelope.
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	return "subgraph: " + strings.Join(e.Messages, "; ")
}

func (c *Client) do(ctx context.Context, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("subgraph http %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []gqlError      `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return &QueryError{Messages: msgs}
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
