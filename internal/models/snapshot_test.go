package models

import "testing"

func TestSnapshotClone_DeepCopy(t *testing.T) {
	original := Snapshot{
		"report": map[string]any{
			"value":      1000.0,
			"sub_totals": []any{map[string]any{"group_name": "AU"}},
		},
	}

	clone := original.Clone()
	report, _ := clone.Map("report")
	report["value"] = 9999.0
	subTotals, _ := AsList(report["sub_totals"])
	entry, _ := MapAt(subTotals, 0)
	entry["group_name"] = "MUTATED"

	originalReport, _ := original.Map("report")
	if originalReport["value"] != 1000.0 {
		t.Error("clone shares the nested map with the original")
	}
	originalEntry, _ := MapAt(originalReport["sub_totals"].([]any), 0)
	if originalEntry["group_name"] != "AU" {
		t.Error("clone shares list entries with the original")
	}
}

func TestSnapshotClone_Nil(t *testing.T) {
	var s Snapshot
	clone := s.Clone()
	if clone == nil {
		t.Error("Clone of nil snapshot should be an empty usable map")
	}
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float64", 1.5, 1.5, true},
		{"float32", float32(2), 2, true},
		{"int", 3, 3, true},
		{"int64", int64(4), 4, true},
		{"numeric string", "123.45", 123.45, true},
		{"non-numeric string", "abc", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsFloat(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("AsFloat(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIsScalar(t *testing.T) {
	if IsScalar(map[string]any{}) || IsScalar([]any{}) || IsScalar(nil) {
		t.Error("maps, lists, and nil are not scalars")
	}
	if !IsScalar(1.0) || !IsScalar("x") || !IsScalar(true) {
		t.Error("numbers, strings, and bools are scalars")
	}
}

func TestFirstFloat_OrderAndTypeCoercion(t *testing.T) {
	m := map[string]any{"market_value": 200.0, "value": "bad number"}

	// "value" is present but unparseable, so the chain moves on
	got, ok := FirstFloat(m, "value", "market_value")
	if !ok || got != 200.0 {
		t.Errorf("FirstFloat = %v (ok=%v), want 200 via fallback", got, ok)
	}

	if _, ok := FirstFloat(map[string]any{}, "value"); ok {
		t.Error("FirstFloat over empty map should be unavailable")
	}
}

func TestFirstString_SkipsEmpty(t *testing.T) {
	m := map[string]any{"symbol": "", "code": "BHP"}
	got, ok := FirstString(m, "symbol", "code")
	if !ok || got != "BHP" {
		t.Errorf("FirstString = %q (ok=%v), want BHP past the empty symbol", got, ok)
	}
}

func TestMapAt_Bounds(t *testing.T) {
	list := []any{map[string]any{"a": 1.0}}
	if _, ok := MapAt(list, -1); ok {
		t.Error("negative index should fail")
	}
	if _, ok := MapAt(list, 1); ok {
		t.Error("index past the end should fail")
	}
	if m, ok := MapAt(list, 0); !ok || m["a"] != 1.0 {
		t.Errorf("MapAt(0) = %v, %v", m, ok)
	}
}
