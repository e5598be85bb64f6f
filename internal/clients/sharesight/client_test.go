package sharesight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(StaticTokenSource("test-token"),
		WithBaseURL(server.URL),
		WithRateLimit(1000))
}

func TestClient_Get(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	var gotQuery map[string][]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"total_gain": 12.5})
	})

	result, err := client.Get(context.Background(), "v2", "portfolios/1001/performance", map[string]string{
		"start_date": "2024-03-15",
		"end_date":   "2024-03-15",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v2/portfolios/1001/performance", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, []string{"2024-03-15"}, gotQuery["start_date"])
	assert.Equal(t, []string{"2024-03-15"}, gotQuery["end_date"])
	assert.Equal(t, 12.5, result["total_gain"])
}

func TestClient_GetNoQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		json.NewEncoder(w).Encode(map[string]any{"portfolios": []any{}})
	})

	_, err := client.Get(context.Background(), "v3", "portfolios", nil)
	require.NoError(t, err)
}

func TestClient_GetAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "payment required", http.StatusPaymentRequired)
	})

	_, err := client.Get(context.Background(), "v3", "portfolios/1001/holdings", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	assert.Equal(t, "portfolios/1001/holdings", apiErr.Endpoint)
	assert.Contains(t, apiErr.Message, "payment required")
}

func TestClient_GetDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.Get(context.Background(), "v3", "portfolios", nil)
	assert.Error(t, err)
}

func TestClient_TokenFailureShortCircuits(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewClient(StaticTokenSource(""), WithBaseURL(server.URL), WithRateLimit(1000))

	_, err := client.Get(context.Background(), "v3", "portfolios", nil)
	require.Error(t, err)
	assert.Zero(t, requests, "no request should be sent without a token")
}

func TestClient_ConvenienceMethodPaths(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{})
	})

	ctx := context.Background()
	calls := []func() (map[string]any, error){
		func() (map[string]any, error) { return client.GetPortfolio(ctx, "1001") },
		func() (map[string]any, error) { return client.GetHoldings(ctx, "1001") },
		func() (map[string]any, error) { return client.GetIncomeReport(ctx, "1001") },
		func() (map[string]any, error) { return client.GetDiversity(ctx, "1001") },
		func() (map[string]any, error) { return client.GetTrades(ctx, "1001") },
		func() (map[string]any, error) { return client.GetContributions(ctx, "1001") },
	}
	for _, call := range calls {
		_, err := call()
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"/v3/portfolios/1001",
		"/v3/portfolios/1001/holdings",
		"/v3/portfolios/1001/income_report",
		"/v3/portfolios/1001/diversity",
		"/v3/portfolios/1001/trades",
		"/v3/portfolios/1001/contributions",
	}, paths)
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "v3", "portfolios", nil)
	assert.True(t, errors.Is(err, context.Canceled))
}
