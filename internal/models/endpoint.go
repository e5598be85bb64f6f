package models

import "strconv"

// EndpointSpec describes one API data source in the catalog.
type EndpointSpec struct {
	ID        string            // stable identifier, used by the failure set
	Version   string            // API version tag ("v2" or "v3")
	Path      string            // path relative to the versioned base
	Query     map[string]string // optional query parameters
	Extension string            // nesting key before merge; empty merges at the root
}

// Widget is a named display value backed by a ValueKey descriptor.
type Widget struct {
	Name string
	Key  ValueKey
	Unit string // UnitCurrency or UnitPercent, empty for plain values
}

// Display units.
const (
	UnitCurrency = "$"
	UnitPercent  = "%"
)

// DefaultWidgets returns the standard display widget set: the report
// gain datapoints, their period variants, and the derived highlights.
func DefaultWidgets() []Widget {
	reportPoints := []struct {
		name string
		unit string
	}{
		{"value", UnitCurrency},
		{"capital_gain", UnitCurrency},
		{"capital_gain_percent", UnitPercent},
		{"total_gain", UnitCurrency},
		{"total_gain_percent", UnitPercent},
		{"currency_gain", UnitCurrency},
		{"currency_gain_percent", UnitPercent},
		{"payout_gain", UnitCurrency},
		{"payout_gain_percent", UnitPercent},
		{"cost_base", UnitCurrency},
		{"unrealised_gain", UnitCurrency},
		{"unrealised_gain_percent", UnitPercent},
		{"annualised_return_percent", UnitPercent},
	}

	var widgets []Widget
	for _, p := range reportPoints {
		widgets = append(widgets, Widget{
			Name: "portfolio_" + p.name,
			Key:  ReportKey(p.name),
			Unit: p.unit,
		})
	}

	for _, period := range []string{ExtOneDay, ExtOneWeek, ExtFinancialYear} {
		for _, point := range []string{"total_gain", "total_gain_percent", "annualised_return_percent"} {
			unit := UnitCurrency
			if point != "total_gain" {
				unit = UnitPercent
			}
			widgets = append(widgets, Widget{
				Name: period + "_" + point,
				Key:  PeriodKey(period, point),
				Unit: unit,
			})
		}
	}

	widgets = append(widgets,
		Widget{Name: "largest_holding", Key: DerivedKey(DerivedLargestHolding, "symbol")},
		Widget{Name: "largest_holding_value", Key: DerivedKey(DerivedLargestHolding, "value"), Unit: UnitCurrency},
		Widget{Name: "largest_holding_percent", Key: DerivedKey(DerivedLargestHolding, "percent"), Unit: UnitPercent},
		Widget{Name: "best_holding", Key: DerivedKey(DerivedBestHolding, "symbol")},
		Widget{Name: "best_holding_gain", Key: DerivedKey(DerivedBestHolding, "gain"), Unit: UnitCurrency},
		Widget{Name: "best_holding_gain_percent", Key: DerivedKey(DerivedBestHolding, "gain_percent"), Unit: UnitPercent},
		Widget{Name: "worst_holding", Key: DerivedKey(DerivedWorstHolding, "symbol")},
		Widget{Name: "worst_holding_gain", Key: DerivedKey(DerivedWorstHolding, "gain"), Unit: UnitCurrency},
		Widget{Name: "worst_holding_gain_percent", Key: DerivedKey(DerivedWorstHolding, "gain_percent"), Unit: UnitPercent},
		Widget{Name: "total_income", Key: DerivedKey(DerivedIncome, "total_income"), Unit: UnitCurrency},
		Widget{Name: "dividend_count", Key: DerivedKey(DerivedIncome, "dividend_count")},
		Widget{Name: "user_id", Key: UserIDKey("portfolios")},
	)

	for slot := 0; slot < 3; slot++ {
		n := slot + 1
		widgets = append(widgets,
			Widget{Name: topMarketName(n, ""), Key: TopMarketKey(slot, "name")},
			Widget{Name: topMarketName(n, "_percent"), Key: TopMarketKey(slot, "percent"), Unit: UnitPercent},
			Widget{Name: topMarketName(n, "_value"), Key: TopMarketKey(slot, "value"), Unit: UnitCurrency},
		)
	}

	return widgets
}

func topMarketName(n int, suffix string) string {
	return "top_market_" + strconv.Itoa(n) + suffix
}
