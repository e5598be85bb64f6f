package aggregator

import (
	"reflect"
	"testing"
)

func TestMerge_RightBiasedAtLeaves(t *testing.T) {
	acc := map[string]any{
		"value": 100.0,
		"report": map[string]any{
			"total_gain": 5.0,
			"currency":   "AUD",
		},
	}
	incoming := map[string]any{
		"value": 250.0,
		"report": map[string]any{
			"total_gain": 9.0,
		},
	}

	result := Merge(acc, incoming)

	if result["value"] != 250.0 {
		t.Errorf("value = %v, want 250 (incoming leaf wins)", result["value"])
	}
	report := result["report"].(map[string]any)
	if report["total_gain"] != 9.0 {
		t.Errorf("report.total_gain = %v, want 9 (incoming leaf wins)", report["total_gain"])
	}
	if report["currency"] != "AUD" {
		t.Errorf("report.currency = %v, want AUD (untouched key preserved)", report["currency"])
	}
}

func TestMerge_ListsReplaceWholesale(t *testing.T) {
	acc := map[string]any{
		"report": map[string]any{
			"holdings": []any{
				map[string]any{"symbol": "BHP"},
				map[string]any{"symbol": "CSL"},
			},
		},
	}
	incoming := map[string]any{
		"report": map[string]any{
			"holdings": []any{
				map[string]any{"symbol": "WES"},
			},
		},
	}

	result := Merge(acc, incoming)

	holdings := result["report"].(map[string]any)["holdings"].([]any)
	if len(holdings) != 1 {
		t.Fatalf("holdings length = %d, want 1 (lists are never element-wise merged)", len(holdings))
	}
	if holdings[0].(map[string]any)["symbol"] != "WES" {
		t.Errorf("holdings[0].symbol = %v, want WES", holdings[0].(map[string]any)["symbol"])
	}
}

func TestMerge_MapOverScalarAndBack(t *testing.T) {
	acc := map[string]any{"section": "plain"}
	incoming := map[string]any{"section": map[string]any{"inner": 1.0}}

	result := Merge(acc, incoming)
	if _, ok := result["section"].(map[string]any); !ok {
		t.Fatalf("section = %v, want incoming map to replace scalar", result["section"])
	}

	result = Merge(result, map[string]any{"section": "plain again"})
	if result["section"] != "plain again" {
		t.Errorf("section = %v, want incoming scalar to replace map", result["section"])
	}
}

func TestMerge_FoldMatchesPairwise(t *testing.T) {
	a := func() map[string]any {
		return map[string]any{"one-day": map[string]any{"total_gain": 1.0}, "x": 1.0}
	}
	b := func() map[string]any {
		return map[string]any{"one-day": map[string]any{"total_gain": 2.0, "value": 10.0}, "y": 2.0}
	}
	c := func() map[string]any {
		return map[string]any{"one-day": map[string]any{"value": 20.0}, "x": 3.0}
	}

	var folded map[string]any
	for _, tree := range []map[string]any{a(), b(), c()} {
		folded = Merge(folded, tree)
	}

	pairwise := Merge(Merge(a(), b()), c())

	if !reflect.DeepEqual(folded, pairwise) {
		t.Errorf("left fold = %v, pairwise = %v, want identical trees", folded, pairwise)
	}

	oneDay := folded["one-day"].(map[string]any)
	if oneDay["total_gain"] != 2.0 || oneDay["value"] != 20.0 || folded["x"] != 3.0 {
		t.Errorf("fold result %v does not follow declared-order precedence", folded)
	}
}

func TestMerge_NilAccumulator(t *testing.T) {
	result := Merge(nil, map[string]any{"value": 1.0})
	if result == nil || result["value"] != 1.0 {
		t.Errorf("Merge(nil, x) = %v, want fresh accumulator with x's keys", result)
	}
}
