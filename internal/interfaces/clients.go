// Package interfaces defines service contracts for folioscope
package interfaces

import "context"

// SharesightClient provides access to the Sharesight API. The holdings,
// income, diversity, trades, and contributions fetches are first-class
// interface methods so that every caller shares one implementation.
type SharesightClient interface {
	// Get performs a GET against a versioned endpoint path and returns
	// the decoded JSON tree.
	Get(ctx context.Context, version, path string, query map[string]string) (map[string]any, error)

	// GetPortfolio retrieves metadata for a portfolio
	GetPortfolio(ctx context.Context, portfolioID string) (map[string]any, error)

	// GetHoldings retrieves all holdings in a portfolio
	GetHoldings(ctx context.Context, portfolioID string) (map[string]any, error)

	// GetIncomeReport retrieves the dividend income report for a portfolio
	GetIncomeReport(ctx context.Context, portfolioID string) (map[string]any, error)

	// GetDiversity retrieves the portfolio diversity breakdown by market
	GetDiversity(ctx context.Context, portfolioID string) (map[string]any, error)

	// GetTrades retrieves the trade history for a portfolio
	GetTrades(ctx context.Context, portfolioID string) (map[string]any, error)

	// GetContributions retrieves contributions for a portfolio
	GetContributions(ctx context.Context, portfolioID string) (map[string]any, error)
}

// TokenSource supplies the current bearer token. Refreshing happens
// behind this interface; callers treat tokens as opaque strings.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
