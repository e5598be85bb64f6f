package models

import "testing"

func TestDefaultWidgets(t *testing.T) {
	widgets := DefaultWidgets()

	names := make(map[string]Widget, len(widgets))
	for _, w := range widgets {
		if _, dup := names[w.Name]; dup {
			t.Errorf("duplicate widget name %q", w.Name)
		}
		names[w.Name] = w
	}

	// one widget per period/datapoint combination
	for _, period := range []string{ExtOneDay, ExtOneWeek, ExtFinancialYear} {
		w, ok := names[period+"_total_gain"]
		if !ok {
			t.Fatalf("missing widget for %s total gain", period)
		}
		if w.Key.Kind != KeyPeriod || w.Key.Sub != period {
			t.Errorf("%s widget key = %+v", period, w.Key)
		}
		if w.Unit != UnitCurrency {
			t.Errorf("%s total gain unit = %q, want currency", period, w.Unit)
		}
	}

	if w := names["portfolio_value"]; w.Key.Kind != KeyReport || w.Key.Main != "value" {
		t.Errorf("portfolio_value key = %+v", w.Key)
	}
	if w := names["user_id"]; w.Key.Kind != KeyUserID || w.Key.Sub != "portfolios" {
		t.Errorf("user_id key = %+v", w.Key)
	}
	if w := names["largest_holding_percent"]; w.Key.Kind != KeyDerived || w.Unit != UnitPercent {
		t.Errorf("largest_holding_percent widget = %+v", w)
	}

	// three top-market slots, 1-based names over 0-based slots
	for slot, name := range []string{"top_market_1_percent", "top_market_2_percent", "top_market_3_percent"} {
		w, ok := names[name]
		if !ok {
			t.Fatalf("missing widget %q", name)
		}
		if w.Key.Index != slot || w.Key.Main != DerivedTopMarkets {
			t.Errorf("%s key = %+v", name, w.Key)
		}
	}
}

func TestValueKeyConstructors(t *testing.T) {
	if k := PeriodKey(ExtOneDay, "total_gain"); k.Kind != KeyPeriod || k.Main != "total_gain" || k.Sub != ExtOneDay {
		t.Errorf("PeriodKey = %+v", k)
	}
	if k := SubTotalKey(2, "value"); k.Kind != KeyGroup || k.Main != "sub_totals" || k.Index != 2 || k.Sub != "value" {
		t.Errorf("SubTotalKey = %+v", k)
	}
	if k := CashAccountKey(0, "balance"); k.Main != "cash_accounts" {
		t.Errorf("CashAccountKey = %+v", k)
	}
	if k := TopMarketKey(1, "name"); k.Main != DerivedTopMarkets || k.Index != 1 {
		t.Errorf("TopMarketKey = %+v", k)
	}
}
