package aggregator

import (
	"github.com/folioscope/folioscope/internal/common"
	"github.com/folioscope/folioscope/internal/interfaces"
	"github.com/folioscope/folioscope/internal/models"
)

// ResolveValue extracts the scalar addressed by key from a snapshot.
// ok=false means the value is unavailable for this cycle, a normal
// outcome for premium fields the plan does not include, never an error.
func ResolveValue(s models.Snapshot, key models.ValueKey, logger *common.Logger) (value any, ok bool) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	// A malformed snapshot shape must degrade to unavailable, not panic
	// the poll loop.
	defer func() {
		if r := recover(); r != nil {
			logger.Debug().Str("key", key.Main).Interface("panic", r).Msg("Value resolution panicked")
			value, ok = nil, false
		}
	}()

	value, ok = resolve(s, key)
	if !ok {
		logger.Debug().Str("key", key.Main).Str("sub", key.Sub).Int("kind", int(key.Kind)).Msg("Value unavailable")
	}
	return value, ok
}

func resolve(s models.Snapshot, key models.ValueKey) (any, bool) {
	switch key.Kind {
	case models.KeyPeriod:
		return resolvePeriod(s, key)
	case models.KeyReport:
		return resolveReport(s, key)
	case models.KeyUserID:
		return resolveUserID(s, key)
	case models.KeyGroup:
		return resolveGroup(s, key)
	case models.KeyDerived:
		return resolveDerived(s, key)
	default:
		return nil, false
	}
}

// resolvePeriod reads a datapoint from a period extension section. The
// annualised return is specially served from the period's total gain
// percent, which the v2 performance endpoint reports annualised.
func resolvePeriod(s models.Snapshot, key models.ValueKey) (any, bool) {
	section, ok := s.Map(key.Sub)
	if !ok {
		return nil, false
	}

	if key.Main == "annualised_return_percent" {
		if v, present := section[key.Main]; present && models.IsScalar(v) {
			return v, true
		}
		if v, present := section["total_gain_percent"]; present && models.IsScalar(v) {
			return v, true
		}
		return nil, false
	}

	v, present := section[key.Main]
	if !present || !models.IsScalar(v) {
		return nil, false
	}
	return v, true
}

// resolveReport reads a scalar from the report, applying the derived
// fallbacks when the direct field is absent. List- or map-typed values
// are not displayable and resolve as unavailable.
func resolveReport(s models.Snapshot, key models.ValueKey) (any, bool) {
	report, ok := s.Map("report")
	if !ok {
		return nil, false
	}

	if v, present := report[key.Main]; present {
		if !models.IsScalar(v) {
			return nil, false
		}
		return v, true
	}

	switch key.Main {
	case "cost_base":
		return floatResult(CostBase(s))
	case "unrealised_gain":
		return floatResult(UnrealisedGain(s))
	case "unrealised_gain_percent":
		return floatResult(UnrealisedGainPercent(s))
	case "start_value":
		return floatResult(StartValue(s))
	case "annualised_return_percent":
		return floatResult(AnnualisedReturnPercent(s))
	default:
		return nil, false
	}
}

// resolveUserID reads the user ID from the first record of a list
// section (normally the portfolio list).
func resolveUserID(s models.Snapshot, key models.ValueKey) (any, bool) {
	list, ok := s.List(key.Sub)
	if !ok {
		return nil, false
	}
	first, ok := models.MapAt(list, 0)
	if !ok {
		return nil, false
	}
	v, present := first["user_id"]
	if !present || !models.IsScalar(v) {
		return nil, false
	}
	return v, true
}

// resolveGroup reads a field of a positional entry in report.sub_totals
// or report.cash_accounts. An index beyond the current list length (the
// list shrank since registration) resolves as unavailable.
func resolveGroup(s models.Snapshot, key models.ValueKey) (any, bool) {
	report, ok := s.Map("report")
	if !ok {
		return nil, false
	}
	list, ok := models.AsList(report[key.Main])
	if !ok {
		return nil, false
	}
	entry, ok := models.MapAt(list, key.Index)
	if !ok {
		return nil, false
	}
	v, present := entry[key.Sub]
	if !present || !models.IsScalar(v) {
		return nil, false
	}
	return v, true
}

// resolveDerived dispatches to the derived-metric accessors.
func resolveDerived(s models.Snapshot, key models.ValueKey) (any, bool) {
	switch key.Main {
	case models.DerivedLargestHolding:
		highlight, ok := LargestHolding(s)
		if !ok {
			return nil, false
		}
		switch key.Sub {
		case "symbol":
			return highlight.Symbol, true
		case "value":
			return highlight.Value, true
		case "percent":
			return highlight.Percent, highlight.HasPercent
		}

	case models.DerivedBestHolding, models.DerivedWorstHolding:
		var highlight models.GainHighlight
		var ok bool
		if key.Main == models.DerivedBestHolding {
			highlight, ok = TopGainHolding(s)
		} else {
			highlight, ok = WorstGainHolding(s)
		}
		if !ok {
			return nil, false
		}
		switch key.Sub {
		case "symbol":
			return highlight.Symbol, true
		case "gain":
			return highlight.Gain, true
		case "gain_percent":
			return highlight.GainPercent, highlight.HasGainPercent
		}

	case models.DerivedIncome:
		summary := IncomeSummaryOf(s)
		switch key.Sub {
		case "total_income":
			return summary.TotalIncome, summary.HasTotal
		case "dividend_count":
			return summary.DividendCount, true
		}

	case models.DerivedTopMarkets:
		markets := TopMarkets(s)
		if key.Index < 0 || key.Index >= len(markets) {
			return nil, false
		}
		slice := markets[key.Index]
		switch key.Sub {
		case "name":
			return slice.Name, true
		case "percent":
			return slice.Percent, true
		case "value":
			return slice.Value, true
		}
	}

	return nil, false
}

func floatResult(v float64, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	return v, true
}

// ListGroupKeys enumerates the positional market or cash-account groups
// in the snapshot, in list order. The re-scan timer uses this to pick
// up groups that appeared since the last configuration.
func ListGroupKeys(s models.Snapshot, kind models.GroupKind) []models.GroupEntry {
	report, ok := s.Map("report")
	if !ok {
		return nil
	}

	listName := "sub_totals"
	if kind == models.GroupCash {
		listName = "cash_accounts"
	}

	list, ok := models.AsList(report[listName])
	if !ok {
		return nil
	}

	entries := make([]models.GroupEntry, 0, len(list))
	for i, raw := range list {
		m, ok := models.AsMap(raw)
		if !ok {
			continue
		}

		name := ""
		if kind == models.GroupCash {
			name = models.ParseCashAccount(m).Name
		} else {
			name = models.ParseMarketGroup(m).Name
		}
		entries = append(entries, models.GroupEntry{Index: i, Name: name})
	}
	return entries
}

// ResolveValue implements AggregatorService.
func (a *Aggregator) ResolveValue(snapshot models.Snapshot, key models.ValueKey) (any, bool) {
	return ResolveValue(snapshot, key, a.logger)
}

// ListGroupKeys implements AggregatorService.
func (a *Aggregator) ListGroupKeys(snapshot models.Snapshot, kind models.GroupKind) []models.GroupEntry {
	return ListGroupKeys(snapshot, kind)
}

// Ensure Aggregator implements AggregatorService
var _ interfaces.AggregatorService = (*Aggregator)(nil)
