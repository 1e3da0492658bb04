package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBestPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/path", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "0xIn", q.Get("tokenIn"))
		assert.Equal(t, "0xOut", q.Get("tokenOut"))
		assert.Equal(t, "1000000", q.Get("amountIn"))
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		_, _ = w.Write([]byte(`{
			"swapType": "single",
			"path": ["0xIn", "0xOut"],
			"fee": 3000,
			"amountOut": "1994000"
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	out, err := c.FindBestPath(context.Background(), PathRequest{
		TokenIn:  "0xIn",
		TokenOut: "0xOut",
		AmountIn: "1000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "single", out.SwapType)
	assert.Equal(t, []string{"0xIn", "0xOut"}, out.Path)
	assert.Equal(t, uint32(3000), out.Fee)
	assert.Equal(t, "1994000", out.AmountOut)
}

func TestFindBestPath_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no route", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.FindBestPath(context.Background(), PathRequest{
		TokenIn: "0xIn", TokenOut: "0xOut", AmountIn: "1",
	})
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
}

func TestFindBestPath_MissingParams(t *testing.T) {
	c := NewClient("http://localhost:0", "")

	_, err := c.FindBestPath(context.Background(), PathRequest{TokenOut: "0xOut", AmountIn: "1"})
	assert.Error(t, err)
	_, err = c.FindBestPath(context.Background(), PathRequest{TokenIn: "0xIn", AmountIn: "1"})
	assert.Error(t, err)
	_, err = c.FindBestPath(context.Background(), PathRequest{TokenIn: "0xIn", TokenOut: "0xOut"})
	assert.Error(t, err)

	unconfigured := NewClient("", "")
	_, err = unconfigured.FindBestPath(context.Background(), PathRequest{TokenIn: "a", TokenOut: "b", AmountIn: "1"})
	assert.Error(t, err)
}
