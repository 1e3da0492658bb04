// Package router wraps the best-swap-path oracle behind a small HTTP
// client. The oracle is a black box: its quoted output is authoritative at
// execution time, while the quote package's output stays advisory.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &Client{
		BaseURL: baseURL,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: 12 * time.Second,
		},
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("router http %d", e.StatusCode)
	}
	return fmt.Sprintf("router http %d: %s", e.StatusCode, b)
}

// FindBestPath queries the oracle for the best route and its quoted output.
func (c *Client) FindBestPath(ctx context.Context, req PathRequest) (*PathResponse, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("router base URL is not configured")
	}
	if strings.TrimSpace(req.TokenIn) == "" {
		return nil, fmt.Errorf("tokenIn is required")
	}
	if strings.TrimSpace(req.TokenOut) == "" {
		return nil, fmt.Errorf("tokenOut is required")
	}
	if strings.TrimSpace(req.AmountIn) == "" {
		return nil, fmt.Errorf("amountIn is required")
	}

	q := url.Values{}
	q.Set("tokenIn", req.TokenIn)
	q.Set("tokenOut", req.TokenOut)
	q.Set("amountIn", req.AmountIn)
	if req.MaxHops != nil {
		q.Set("maxHops", fmt.Sprintf("%d", *req.MaxHops))
	}
	if req.OnlyDirectPools != nil {
		q.Set("onlyDirectPools", fmt.Sprintf("%t", *req.OnlyDirectPools))
	}
	if req.IncludeFeeOnPath != nil {
		q.Set("includeFeeOnPath", fmt.Sprintf("%t", *req.IncludeFeeOnPath))
	}

	u := c.BaseURL + "/path?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("accept", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("x-api-key", c.APIKey)
	}

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	var out PathResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode router path response: %w", err)
	}
	return &out, nil
}
