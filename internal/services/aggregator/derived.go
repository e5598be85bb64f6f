package aggregator

import (
	"math"
	"sort"

	"github.com/folioscope/folioscope/internal/common"
	"github.com/folioscope/folioscope/internal/models"
)

// Derive backfills the best-effort sections of a merged snapshot from
// whatever raw fields are present, returning a new snapshot. None of
// these computations can fail the poll cycle; a section that cannot be
// built is left as an empty shell.
func Derive(snapshot models.Snapshot, logger *common.Logger) models.Snapshot {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	out := snapshot.Clone()
	report, _ := out.Map("report")

	deriveHoldings(out, report, logger)
	deriveIncome(out, report)
	deriveDiversity(out, report, logger)
	deriveListSection(out, models.ExtTrades)
	deriveListSection(out, models.ExtContributions)

	return out
}

// deriveHoldings establishes the canonical holdings section. The
// report's embedded holdings carry value and gain fields and win over
// the dedicated holdings endpoint, whose records lack them.
func deriveHoldings(out models.Snapshot, report map[string]any, logger *common.Logger) {
	reportHoldings := listField(report, "holdings")
	reportValue, _ := models.FirstFloat(report, "value")

	if len(reportHoldings) > 0 {
		out[models.ExtHoldings] = map[string]any{
			"holdings": reportHoldings,
			"value":    reportValue,
		}
		logger.Debug().Int("count", len(reportHoldings)).Msg("Using holdings from report data")
		return
	}

	if section, ok := out.Map(models.ExtHoldings); ok && !hasErrorKey(section) {
		apiHoldings := listField(section, "holdings")
		if len(apiHoldings) > 0 {
			total := 0.0
			for _, entry := range apiHoldings {
				if m, ok := models.AsMap(entry); ok {
					v, _ := models.FirstFloat(m, "value", "market_value")
					total += v
				}
			}
			if total == 0 {
				total = reportValue
			}
			out[models.ExtHoldings] = map[string]any{
				"holdings": apiHoldings,
				"value":    total,
			}
			return
		}
	}

	out[models.ExtHoldings] = map[string]any{
		"holdings": []any{},
		"value":    0.0,
	}
}

// deriveIncome falls back to the report's payout gain when the income
// endpoint is unavailable. An empty mapping counts as unavailable.
func deriveIncome(out models.Snapshot, report map[string]any) {
	section, ok := out.Map(models.ExtIncomeReport)
	if ok && len(section) > 0 && !hasErrorKey(section) {
		return
	}

	fallback := map[string]any{}
	if gain, ok := models.FirstFloat(report, "payout_gain"); ok {
		fallback["payout_gain"] = gain
	}
	out[models.ExtIncomeReport] = fallback
}

// deriveDiversity rebuilds the market breakdown from the report's
// sub_totals when the diversity endpoint is unavailable.
func deriveDiversity(out models.Snapshot, report map[string]any, logger *common.Logger) {
	section, ok := out.Map(models.ExtDiversity)
	if ok && len(section) > 0 && !hasErrorKey(section) {
		return
	}

	subTotals := listField(report, "sub_totals")
	if len(subTotals) == 0 {
		out[models.ExtDiversity] = map[string]any{"breakdown": []any{}}
		return
	}

	totalValue, _ := models.FirstFloat(report, "value")

	breakdown := make([]any, 0, len(subTotals))
	for _, entry := range subTotals {
		m, ok := models.AsMap(entry)
		if !ok {
			continue
		}
		group := models.ParseMarketGroup(m)
		percent := 0.0
		if totalValue > 0 {
			percent = round2(group.Value / totalValue * 100)
		}
		breakdown = append(breakdown, map[string]any{
			"group_name": group.Name,
			"percentage": percent,
			"value":      group.Value,
		})
	}

	out[models.ExtDiversity] = map[string]any{"breakdown": breakdown}
	logger.Debug().Int("count", len(breakdown)).Msg("Built diversity from report sub_totals")
}

// deriveListSection ensures a best-effort list section (trades,
// contributions) exists with an empty list when the endpoint failed.
func deriveListSection(out models.Snapshot, name string) {
	if section, ok := out.Map(name); ok && len(section) > 0 && !hasErrorKey(section) {
		return
	}
	out[name] = map[string]any{name: []any{}}
}

// LargestHolding returns the holding with the largest resolved value.
// Percent is the holding's share of the canonical portfolio value,
// rounded to two decimals; ok=false when no holdings are present.
func LargestHolding(s models.Snapshot) (models.HoldingHighlight, bool) {
	holdings, total := canonicalHoldings(s)
	if len(holdings) == 0 {
		return models.HoldingHighlight{}, false
	}

	best := holdings[0]
	for _, h := range holdings[1:] {
		if h.Value > best.Value {
			best = h
		}
	}

	highlight := models.HoldingHighlight{Symbol: best.Symbol, Value: best.Value}
	if total > 0 {
		highlight.Percent = round2(best.Value / total * 100)
		highlight.HasPercent = true
	}
	return highlight, true
}

// TopGainHolding returns the holding with the largest resolved capital
// gain; ok=false when no holdings are present.
func TopGainHolding(s models.Snapshot) (models.GainHighlight, bool) {
	return pickByGain(s, func(candidate, current float64) bool { return candidate > current })
}

// WorstGainHolding returns the holding with the smallest resolved
// capital gain; ok=false when no holdings are present.
func WorstGainHolding(s models.Snapshot) (models.GainHighlight, bool) {
	return pickByGain(s, func(candidate, current float64) bool { return candidate < current })
}

func pickByGain(s models.Snapshot, better func(candidate, current float64) bool) (models.GainHighlight, bool) {
	holdings, _ := canonicalHoldings(s)
	if len(holdings) == 0 {
		return models.GainHighlight{}, false
	}

	best := holdings[0]
	for _, h := range holdings[1:] {
		if better(h.CapitalGain, best.CapitalGain) {
			best = h
		}
	}

	return models.GainHighlight{
		Symbol:         best.Symbol,
		Gain:           best.CapitalGain,
		GainPercent:    best.CapitalGainPercent,
		HasGainPercent: best.HasGainPercent,
	}, true
}

// IncomeSummaryOf computes the dividend income view: total fields on the
// income endpoint first, then a sum over payout records, then the
// report's payout gain. The dividend count is the number of payout
// records, zero when unavailable.
func IncomeSummaryOf(s models.Snapshot) models.IncomeSummary {
	var summary models.IncomeSummary

	income, _ := s.Map(models.ExtIncomeReport)
	payouts := listField(income, "payouts")
	summary.DividendCount = len(payouts)

	if total, ok := models.FirstFloat(income, "total_income", "total", "total_dividend", "payout_gain"); ok {
		summary.TotalIncome = total
		summary.HasTotal = true
		return summary
	}

	if len(payouts) > 0 {
		sum := 0.0
		for _, entry := range payouts {
			if m, ok := models.AsMap(entry); ok {
				amount, _ := models.FirstFloat(m, "amount", "value")
				sum += amount
			}
		}
		summary.TotalIncome = sum
		summary.HasTotal = true
		return summary
	}

	if report, ok := s.Map("report"); ok {
		if gain, ok := models.FirstFloat(report, "payout_gain"); ok {
			summary.TotalIncome = gain
			summary.HasTotal = true
		}
	}

	return summary
}

// TopMarkets returns the three largest diversity markets by percentage.
// Missing slots are zero slices, never an error.
func TopMarkets(s models.Snapshot) [3]models.MarketSlice {
	var top [3]models.MarketSlice

	diversity, _ := s.Map(models.ExtDiversity)
	breakdown := listField(diversity, "breakdown")
	if len(breakdown) == 0 {
		if report, ok := s.Map("report"); ok {
			breakdown = listField(report, "sub_totals")
		}
	}

	groups := make([]models.MarketGroup, 0, len(breakdown))
	for _, entry := range breakdown {
		if m, ok := models.AsMap(entry); ok {
			groups = append(groups, models.ParseMarketGroup(m))
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Percent > groups[j].Percent
	})

	for i := 0; i < len(groups) && i < 3; i++ {
		top[i] = models.MarketSlice{
			Name:    groups[i].Name,
			Percent: groups[i].Percent,
			Value:   groups[i].Value,
		}
	}
	return top
}

// CostBase resolves the portfolio cost base: the direct field, or value
// minus capital gain when both are present.
func CostBase(s models.Snapshot) (float64, bool) {
	report, ok := s.Map("report")
	if !ok {
		return 0, false
	}
	if direct, ok := models.FirstFloat(report, "cost_base"); ok {
		return direct, true
	}
	value, vok := models.FirstFloat(report, "value")
	gain, gok := models.FirstFloat(report, "capital_gain")
	if vok && gok {
		return value - gain, true
	}
	return 0, false
}

// UnrealisedGain resolves the unrealised gain, falling back to the
// capital gain.
func UnrealisedGain(s models.Snapshot) (float64, bool) {
	report, ok := s.Map("report")
	if !ok {
		return 0, false
	}
	return models.FirstFloat(report, "unrealised_gain", "capital_gain")
}

// UnrealisedGainPercent resolves the unrealised gain percent, falling
// back to the capital gain percent.
func UnrealisedGainPercent(s models.Snapshot) (float64, bool) {
	report, ok := s.Map("report")
	if !ok {
		return 0, false
	}
	return models.FirstFloat(report, "unrealised_gain_percent", "capital_gain_percent")
}

// StartValue resolves the period start value: the direct field, or
// value minus total gain when both are present.
func StartValue(s models.Snapshot) (float64, bool) {
	report, ok := s.Map("report")
	if !ok {
		return 0, false
	}
	if direct, ok := models.FirstFloat(report, "start_value"); ok {
		return direct, true
	}
	value, vok := models.FirstFloat(report, "value")
	gain, gok := models.FirstFloat(report, "total_gain")
	if vok && gok {
		return value - gain, true
	}
	return 0, false
}

// AnnualisedReturnPercent resolves the annualised return: the explicit
// field, or the total gain percent when the report declares its
// percentages annualised.
func AnnualisedReturnPercent(s models.Snapshot) (float64, bool) {
	report, ok := s.Map("report")
	if !ok {
		return 0, false
	}
	if direct, ok := models.FirstFloat(report, "annualised_return_percent"); ok {
		return direct, true
	}
	if annualised, ok := models.AsBool(report["percentages_annualised"]); ok && annualised {
		return models.FirstFloat(report, "total_gain_percent")
	}
	return 0, false
}

// canonicalHoldings parses the derived holdings section.
func canonicalHoldings(s models.Snapshot) ([]models.Holding, float64) {
	section, ok := s.Map(models.ExtHoldings)
	if !ok {
		return nil, 0
	}
	total, _ := models.FirstFloat(section, "value")
	return models.ParseHoldings(listField(section, "holdings")), total
}

// listField returns the list at key within m, or nil.
func listField(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	l, _ := models.AsList(m[key])
	return l
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
