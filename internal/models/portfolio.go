package models

import "strconv"

// Ordered field-name fallback chains for values the API spells
// differently across versions and plan tiers. Each logical attribute is
// resolved once at parse time.
var (
	holdingSymbolFields      = []string{"symbol", "code", "instrument_code", "name"}
	holdingValueFields       = []string{"value", "market_value"}
	holdingGainFields        = []string{"capital_gain", "gain", "total_gain"}
	holdingGainPercentFields = []string{"capital_gain_percent", "gain_percent", "total_gain_percent"}

	groupNameFields    = []string{"group_name", "name", "market"}
	groupPercentFields = []string{"percentage", "percent"}

	cashNameFields    = []string{"name", "account_name"}
	cashBalanceFields = []string{"balance", "balance_in_portfolio_currency", "value"}
)

// Portfolio holds portfolio metadata from the portfolios endpoint.
type Portfolio struct {
	ID               string
	Name             string
	Currency         string
	FinancialYearEnd string // "MM-DD", empty when not configured
}

// ParsePortfolio builds a Portfolio from a raw API record.
func ParsePortfolio(m map[string]any) Portfolio {
	var p Portfolio
	if id, ok := FirstString(m, "id", "portfolio_id"); ok {
		p.ID = id
	} else if n, ok := FirstFloat(m, "id", "portfolio_id"); ok {
		// v2 returns numeric IDs
		p.ID = formatID(n)
	}
	p.Name, _ = FirstString(m, "name")
	p.Currency, _ = FirstString(m, "currency_code", "currency")
	p.FinancialYearEnd, _ = FirstString(m, "financial_year_end")
	return p
}

func formatID(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Holding is a single position with its value and gain attributes
// resolved through the fallback chains above.
type Holding struct {
	Symbol             string
	Value              float64
	HasValue           bool
	CapitalGain        float64
	HasGain            bool
	CapitalGainPercent float64
	HasGainPercent     bool
}

// ParseHolding builds a Holding from a raw API record. Missing value and
// gain resolve to zero with the Has* flag cleared.
func ParseHolding(m map[string]any) Holding {
	var h Holding
	h.Symbol, _ = FirstString(m, holdingSymbolFields...)
	h.Value, h.HasValue = FirstFloat(m, holdingValueFields...)
	h.CapitalGain, h.HasGain = FirstFloat(m, holdingGainFields...)
	h.CapitalGainPercent, h.HasGainPercent = FirstFloat(m, holdingGainPercentFields...)
	return h
}

// ParseHoldings builds Holdings from a raw list, skipping non-map entries.
func ParseHoldings(list []any) []Holding {
	out := make([]Holding, 0, len(list))
	for _, e := range list {
		if m, ok := AsMap(e); ok {
			out = append(out, ParseHolding(m))
		}
	}
	return out
}

// MarketGroup is one market slice of the report's sub_totals list.
type MarketGroup struct {
	Name    string
	Value   float64
	Percent float64
}

// ParseMarketGroup builds a MarketGroup from a raw sub_totals or
// diversity breakdown record.
func ParseMarketGroup(m map[string]any) MarketGroup {
	var g MarketGroup
	g.Name, _ = FirstString(m, groupNameFields...)
	g.Value, _ = FirstFloat(m, "value")
	g.Percent, _ = FirstFloat(m, groupPercentFields...)
	return g
}

// CashAccount is one entry of the report's cash_accounts list.
type CashAccount struct {
	Name    string
	Balance float64
}

// ParseCashAccount builds a CashAccount from a raw record.
func ParseCashAccount(m map[string]any) CashAccount {
	var c CashAccount
	c.Name, _ = FirstString(m, cashNameFields...)
	c.Balance, _ = FirstFloat(m, cashBalanceFields...)
	return c
}

// HoldingHighlight is the largest holding by value.
type HoldingHighlight struct {
	Symbol     string
	Value      float64
	Percent    float64 // share of portfolio value, rounded to 2 decimals
	HasPercent bool
}

// GainHighlight is the best or worst holding by capital gain.
type GainHighlight struct {
	Symbol         string
	Gain           float64
	GainPercent    float64
	HasGainPercent bool
}

// IncomeSummary is the derived dividend income view.
type IncomeSummary struct {
	TotalIncome   float64
	HasTotal      bool
	DividendCount int
}

// MarketSlice is one of the top diversity markets. A zero MarketSlice
// represents an empty slot, never an error.
type MarketSlice struct {
	Name    string
	Percent float64
	Value   float64
}

// GroupKind selects which positional group list to enumerate.
type GroupKind int

const (
	GroupMarkets GroupKind = iota // report.sub_totals
	GroupCash                     // report.cash_accounts
)

// GroupEntry is an (index, display name) pair for one positional group.
type GroupEntry struct {
	Index int
	Name  string
}
