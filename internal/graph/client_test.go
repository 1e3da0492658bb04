package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		Endpoint:     srv.URL,
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		RetryBackoff: 10 * time.Millisecond,
	})
}

func TestFetchPrices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "tokenPrices")

		_, _ = w.Write([]byte(`{"data":{"tokenPrices":[
			{"symbol":"eth","priceUSD":"2000.5"},
			{"symbol":"USDC","priceUSD":"1"},
			{"symbol":"BAD","priceUSD":"not-a-number"}
		]}}`))
	})

	table, err := c.FetchPrices(context.Background(), []string{"ETH", "USDC", "BAD"})
	require.NoError(t, err)

	// Symbols come back upper-cased; the unparseable row is dropped, not
	// zeroed, so it reads as "unknown" downstream.
	assert.InDelta(t, 2000.5, table["ETH"].PriceUSD, 1e-9)
	assert.InDelta(t, 1, table["USDC"].PriceUSD, 1e-9)
	_, known := table["BAD"]
	assert.False(t, known)
}

func TestFetchInvestableTokens_DecimalsFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"investableTokens":[
			{"symbol":"USDC","id":"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48","decimals":"6"},
			{"symbol":"MYSTERY","id":"0x1111111111111111111111111111111111111111","decimals":""}
		]}}`))
	})

	tokens, err := c.FetchInvestableTokens(context.Background(), "0xFund")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, 6, tokens[0].Decimals)
	assert.Equal(t, 18, tokens[1].Decimals) // missing metadata defaults to 18
}

func TestFetchUserTokens_AmountUntouched(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"investorTokens":[
			{"symbol":"USDC","id":"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48","decimals":"6","amount":"500000000"}
		]}}`))
	})

	holdings, err := c.FetchUserTokens(context.Background(), "0xInvestor")
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "500000000", holdings[0].Amount)
}

func TestQuery_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"tokenPrices":[]}}`))
	})

	_, err := c.FetchPrices(context.Background(), []string{"ETH"})
	assert.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestQuery_GraphQLErrorsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"errors":[{"message":"no such field"}]}`))
	})

	_, err := c.FetchPrices(context.Background(), []string{"ETH"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such field")
	assert.Equal(t, int32(1), calls.Load())
}
