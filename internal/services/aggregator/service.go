package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/folioscope/folioscope/internal/common"
	"github.com/folioscope/folioscope/internal/interfaces"
	"github.com/folioscope/folioscope/internal/models"
)

// CycleError reports a poll cycle aborted by a required endpoint.
// The caller's previously held snapshot remains valid.
type CycleError struct {
	Endpoint string
	Err      error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("poll cycle aborted at required endpoint %s: %v", e.Endpoint, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}

// errMalformed marks a response that is not a usable mapping.
var errMalformed = fmt.Errorf("malformed response")

// Aggregator implements AggregatorService for a single portfolio.
// One instance per configured portfolio; instances share nothing.
type Aggregator struct {
	portfolioID string
	client      interfaces.SharesightClient
	logger      *common.Logger

	// failed holds optional endpoint IDs suppressed for this
	// aggregator's lifetime. Appended to by the cycle only; recreating
	// the aggregator (reconfiguration) clears it.
	failed map[string]struct{}

	fyWindow DateWindow
	started  bool
}

// New creates an aggregator for one portfolio.
func New(portfolioID string, client interfaces.SharesightClient, logger *common.Logger) *Aggregator {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Aggregator{
		portfolioID: portfolioID,
		client:      client,
		logger:      logger.WithComponent("aggregator"),
		failed:      make(map[string]struct{}),
	}
}

// PortfolioID returns the portfolio this aggregator serves.
func (a *Aggregator) PortfolioID() string {
	return a.portfolioID
}

// RunPollCycle executes one fetch/merge/derive pass. Required endpoints
// fail the cycle; optional endpoints fail soft and are never retried
// within this aggregator's lifetime. Fetches are sequential in catalog
// order, which fixes merge precedence.
func (a *Aggregator) RunPollCycle(ctx context.Context, now time.Time) (models.Snapshot, error) {
	if !a.started {
		if err := a.seedFinancialYear(ctx, now); err != nil {
			return nil, err
		}
		a.started = true
	}

	day := DayWindow(now)
	week := WeekWindow(now)

	combined := map[string]any{}

	for _, ep := range RequiredEndpoints(a.portfolioID, day, week, a.fyWindow) {
		a.logger.Debug().Str("endpoint", ep.ID).Str("path", ep.Path).Msg("Calling required endpoint")

		response, err := a.client.Get(ctx, ep.Version, ep.Path, ep.Query)
		if err != nil {
			return nil, &CycleError{Endpoint: ep.ID, Err: err}
		}
		if response == nil || hasErrorKey(response) {
			return nil, &CycleError{Endpoint: ep.ID, Err: errMalformed}
		}

		combined = Merge(combined, wrapExtension(ep, response))
	}

	for _, ep := range OptionalEndpoints(a.portfolioID) {
		if _, suppressed := a.failed[ep.ID]; suppressed {
			a.logger.Debug().Str("endpoint", ep.ID).Msg("Skipping previously failed optional endpoint")
			continue
		}

		a.logger.Debug().Str("endpoint", ep.ID).Msg("Calling optional endpoint")

		response, err := a.fetchOptional(ctx, ep)
		if err != nil {
			a.suppress(ep.ID, fmt.Sprintf("fetch failed: %v", err))
			continue
		}
		if response == nil {
			a.suppress(ep.ID, "empty response")
			continue
		}
		if hasErrorKey(response) {
			a.suppress(ep.ID, "error payload")
			continue
		}

		combined = Merge(combined, wrapExtension(ep, response))
	}

	snapshot := Derive(models.Snapshot(combined), a.logger)

	a.refreshFinancialYear(snapshot, now)

	a.logger.Info().
		Str("portfolio", a.portfolioID).
		Int("sections", len(snapshot)).
		Int("suppressed", len(a.failed)).
		Msg("Poll cycle complete")

	return snapshot, nil
}

// seedFinancialYear fetches the portfolio metadata once to compute the
// initial financial-year window.
func (a *Aggregator) seedFinancialYear(ctx context.Context, now time.Time) error {
	ep := MetadataEndpoint(a.portfolioID)

	metadata, err := a.client.GetPortfolio(ctx, a.portfolioID)
	if err != nil {
		return &CycleError{Endpoint: ep.ID, Err: err}
	}

	fyEnd := ""
	if inner, ok := models.AsMap(metadata["portfolio"]); ok {
		fyEnd, _ = models.FirstString(inner, "financial_year_end")
	} else {
		fyEnd, _ = models.FirstString(metadata, "financial_year_end")
	}

	a.fyWindow = FinancialYearWindow(fyEnd, now)
	a.logger.Debug().
		Str("start", a.fyWindow.Start).
		Str("end", a.fyWindow.End).
		Msg("Seeded financial-year window")
	return nil
}

// refreshFinancialYear recomputes the window from the freshest
// financial-year-end in the snapshot, replacing the cached one when the
// end date changed (the user updated their settings).
func (a *Aggregator) refreshFinancialYear(snapshot models.Snapshot, now time.Time) {
	fyEnd := ""
	if portfolios, ok := snapshot.List("portfolios"); ok {
		if first, ok := models.MapAt(portfolios, 0); ok {
			fyEnd, _ = models.FirstString(first, "financial_year_end")
		}
	}

	window := FinancialYearWindow(fyEnd, now)
	if window.End != a.fyWindow.End {
		a.logger.Info().
			Str("old_end", a.fyWindow.End).
			Str("new_end", window.End).
			Msg("Financial year end changed, replacing cached window")
		a.fyWindow = window
	}
}

// fetchOptional dispatches an optional endpoint to its client method.
func (a *Aggregator) fetchOptional(ctx context.Context, ep models.EndpointSpec) (map[string]any, error) {
	switch ep.ID {
	case models.ExtHoldings:
		return a.client.GetHoldings(ctx, a.portfolioID)
	case models.ExtIncomeReport:
		return a.client.GetIncomeReport(ctx, a.portfolioID)
	case models.ExtDiversity:
		return a.client.GetDiversity(ctx, a.portfolioID)
	case models.ExtTrades:
		return a.client.GetTrades(ctx, a.portfolioID)
	case models.ExtContributions:
		return a.client.GetContributions(ctx, a.portfolioID)
	default:
		return a.client.Get(ctx, ep.Version, ep.Path, ep.Query)
	}
}

// suppress records an optional endpoint failure. The endpoint is never
// retried until the aggregator is recreated.
func (a *Aggregator) suppress(endpointID, reason string) {
	a.failed[endpointID] = struct{}{}
	a.logger.Info().
		Str("endpoint", endpointID).
		Str("reason", reason).
		Msg("Optional endpoint failed, skipping future calls")
}

// wrapExtension nests a response under the endpoint's extension key, or
// returns it unchanged for root-merged endpoints.
func wrapExtension(ep models.EndpointSpec, response map[string]any) map[string]any {
	if ep.Extension == "" {
		return response
	}
	return map[string]any{ep.Extension: response}
}

// hasErrorKey reports an error-shaped payload.
func hasErrorKey(m map[string]any) bool {
	_, ok := m["error"]
	return ok
}
