package aggregator

import (
	"fmt"

	"github.com/folioscope/folioscope/internal/models"
)

// Required endpoint identifiers. A required endpoint failure aborts the
// whole poll cycle.
const (
	epPerformanceDay  = "performance-day"
	epPerformanceWeek = "performance-week"
	epPerformanceFY   = "performance-financial-year"
	epPortfolios      = "portfolios"
	epPerformance     = "performance"
)

// MetadataEndpoint returns the portfolio-metadata endpoint fetched once
// at startup to seed the financial-year window.
func MetadataEndpoint(portfolioID string) models.EndpointSpec {
	return models.EndpointSpec{
		ID:      "portfolio-metadata",
		Version: "v3",
		Path:    fmt.Sprintf("portfolios/%s", portfolioID),
	}
}

// RequiredEndpoints returns the ordered required catalog: the three
// time-bounded performance windows, the portfolio list, and the
// portfolio performance summary. Order is part of the merge contract.
func RequiredEndpoints(portfolioID string, day, week, financialYear DateWindow) []models.EndpointSpec {
	perfPath := fmt.Sprintf("portfolios/%s/performance", portfolioID)

	return []models.EndpointSpec{
		{
			ID:        epPerformanceDay,
			Version:   "v2",
			Path:      perfPath,
			Query:     map[string]string{"start_date": day.Start, "end_date": day.End},
			Extension: models.ExtOneDay,
		},
		{
			ID:        epPerformanceWeek,
			Version:   "v2",
			Path:      perfPath,
			Query:     map[string]string{"start_date": week.Start, "end_date": week.End},
			Extension: models.ExtOneWeek,
		},
		{
			ID:        epPerformanceFY,
			Version:   "v2",
			Path:      perfPath,
			Query:     map[string]string{"start_date": financialYear.Start, "end_date": financialYear.End},
			Extension: models.ExtFinancialYear,
		},
		{
			ID:      epPortfolios,
			Version: "v3",
			Path:    "portfolios",
		},
		{
			ID:      epPerformance,
			Version: "v3",
			Path:    perfPath,
		},
	}
}

// OptionalEndpoints returns the ordered optional catalog. These may be
// unavailable on non-premium plans; a failure suppresses the endpoint
// for the aggregator's lifetime instead of aborting the cycle. Each ID
// doubles as the extension key the response is nested under.
func OptionalEndpoints(portfolioID string) []models.EndpointSpec {
	specs := make([]models.EndpointSpec, 0, 5)
	for _, name := range []string{
		models.ExtHoldings,
		models.ExtIncomeReport,
		models.ExtDiversity,
		models.ExtTrades,
		models.ExtContributions,
	} {
		specs = append(specs, models.EndpointSpec{
			ID:        name,
			Version:   "v3",
			Path:      fmt.Sprintf("portfolios/%s/%s", portfolioID, name),
			Extension: name,
		})
	}
	return specs
}
