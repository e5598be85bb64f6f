// Package sharesight provides a client for the Sharesight API
package sharesight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/folioscope/folioscope/internal/common"
	"github.com/folioscope/folioscope/internal/interfaces"
)

const (
	DefaultBaseURL   = "https://api.sharesight.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the SharesightClient interface
type Client struct {
	baseURL    string
	tokens     interfaces.TokenSource
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Sharesight client authenticating through the
// given token source.
func NewClient(tokens interfaces.TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Sharesight API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Get performs a rate-limited GET against a versioned endpoint path and
// decodes the JSON response tree.
func (c *Client) Get(ctx context.Context, version, path string, query map[string]string) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s/%s", c.baseURL, version, path)
	if len(query) > 0 {
		values := url.Values{}
		for k, v := range query {
			values.Set(k, v)
		}
		reqURL += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("version", version).Str("path", path).Msg("Sharesight API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result, nil
}

// GetPortfolio retrieves metadata for a portfolio
func (c *Client) GetPortfolio(ctx context.Context, portfolioID string) (map[string]any, error) {
	return c.Get(ctx, "v3", fmt.Sprintf("portfolios/%s", portfolioID), nil)
}

// GetHoldings retrieves all holdings in a portfolio
func (c *Client) GetHoldings(ctx context.Context, portfolioID string) (map[string]any, error) {
	return c.Get(ctx, "v3", fmt.Sprintf("portfolios/%s/holdings", portfolioID), nil)
}

// GetIncomeReport retrieves the dividend income report for a portfolio
func (c *Client) GetIncomeReport(ctx context.Context, portfolioID string) (map[string]any, error) {
	return c.Get(ctx, "v3", fmt.Sprintf("portfolios/%s/income_report", portfolioID), nil)
}

// GetDiversity retrieves the portfolio diversity breakdown by market
func (c *Client) GetDiversity(ctx context.Context, portfolioID string) (map[string]any, error) {
	return c.Get(ctx, "v3", fmt.Sprintf("portfolios/%s/diversity", portfolioID), nil)
}

// GetTrades retrieves the trade history for a portfolio
func (c *Client) GetTrades(ctx context.Context, portfolioID string) (map[string]any, error) {
	return c.Get(ctx, "v3", fmt.Sprintf("portfolios/%s/trades", portfolioID), nil)
}

// GetContributions retrieves contributions for a portfolio
func (c *Client) GetContributions(ctx context.Context, portfolioID string) (map[string]any, error) {
	return c.Get(ctx, "v3", fmt.Sprintf("portfolios/%s/contributions", portfolioID), nil)
}

// Ensure Client implements SharesightClient
var _ interfaces.SharesightClient = (*Client)(nil)
