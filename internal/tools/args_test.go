package tools

import (
	"encoding/json"
	"math"
	"testing"
)

func TestArgumentsInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
		ok    bool
	}{
		{"int", 7, 7, true},
		{"int64", int64(math.MaxInt64), math.MaxInt64, true},
		{"integral float", 7.0, 7, true},
		{"fractional float", 1.5, 0, false},
		{"min int64 float", float64(math.MinInt64), math.MinInt64, true},
		{"2^63 float", float64(1 << 63), 0, false},
		{"1e19", 1e19, 0, false},
		{"below min int64", -1e19, 0, false},
		{"inf", math.Inf(1), 0, false},
		{"nan", math.NaN(), 0, false},
		{"json number", json.Number("9007199254740993"), 9007199254740993, true},
		{"json number overflow", json.Number("10000000000000000000"), 0, false},
		{"string", "7", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Arguments{"v": tt.value}.Int("v")
			if ok != tt.ok || got != tt.want {
				t.Errorf("Int(%v) = (%d, %v), want (%d, %v)", tt.value, got, ok, tt.want, tt.ok)
			}
		})
	}
}
