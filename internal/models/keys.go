package models

// Snapshot section names. Period extensions nest the time-bounded
// performance responses; the remaining names key best-effort sections
// merged from the optional endpoints.
const (
	ExtOneDay        = "one-day"
	ExtOneWeek       = "one-week"
	ExtFinancialYear = "financial-year"

	ExtHoldings      = "holdings"
	ExtIncomeReport  = "income_report"
	ExtDiversity     = "diversity"
	ExtTrades        = "trades"
	ExtContributions = "contributions"
)

// KeyKind is the addressing mode of a ValueKey.
type KeyKind int

const (
	// KeyPeriod reads a datapoint from a period extension section.
	KeyPeriod KeyKind = iota
	// KeyReport reads a scalar directly from the report, with derived
	// fallbacks when the field is absent.
	KeyReport
	// KeyUserID reads the user ID from the first record of a list section.
	KeyUserID
	// KeyGroup reads a field of a positional entry in report.sub_totals
	// or report.cash_accounts.
	KeyGroup
	// KeyDerived dispatches to a derived-metric accessor.
	KeyDerived
)

// ValueKey is a typed descriptor addressing one scalar in a snapshot.
// The tagged Kind replaces string key-path splitting, so malformed paths
// cannot be constructed.
type ValueKey struct {
	Kind  KeyKind
	Main  string // datapoint name, or group list name for KeyGroup
	Sub   string // section name, group field, or derived attribute
	Index int    // positional index for KeyGroup and slot for top markets
}

// PeriodKey addresses a datapoint under a period extension
// (ExtOneDay, ExtOneWeek, ExtFinancialYear).
func PeriodKey(period, datapoint string) ValueKey {
	return ValueKey{Kind: KeyPeriod, Main: datapoint, Sub: period}
}

// ReportKey addresses a scalar on the report.
func ReportKey(datapoint string) ValueKey {
	return ValueKey{Kind: KeyReport, Main: datapoint}
}

// UserIDKey addresses the user ID on the first record of the named
// list section (normally "portfolios").
func UserIDKey(section string) ValueKey {
	return ValueKey{Kind: KeyUserID, Main: "user_id", Sub: section}
}

// SubTotalKey addresses a field of the i-th market group in
// report.sub_totals.
func SubTotalKey(index int, field string) ValueKey {
	return ValueKey{Kind: KeyGroup, Main: "sub_totals", Sub: field, Index: index}
}

// CashAccountKey addresses a field of the i-th entry in
// report.cash_accounts.
func CashAccountKey(index int, field string) ValueKey {
	return ValueKey{Kind: KeyGroup, Main: "cash_accounts", Sub: field, Index: index}
}

// Derived metric names for DerivedKey.
const (
	DerivedLargestHolding = "largest_holding"
	DerivedBestHolding    = "best_holding"
	DerivedWorstHolding   = "worst_holding"
	DerivedIncome         = "income"
	DerivedTopMarkets     = "top_markets"
)

// DerivedKey addresses an attribute of a derived metric. Attributes:
// largest_holding: symbol, value, percent; best/worst_holding: symbol,
// gain, gain_percent; income: total_income, dividend_count;
// top_markets (with slot index 0-2): name, percent, value.
func DerivedKey(metric, attribute string) ValueKey {
	return ValueKey{Kind: KeyDerived, Main: metric, Sub: attribute}
}

// TopMarketKey addresses an attribute of the i-th top diversity market.
func TopMarketKey(slot int, attribute string) ValueKey {
	return ValueKey{Kind: KeyDerived, Main: DerivedTopMarkets, Sub: attribute, Index: slot}
}
