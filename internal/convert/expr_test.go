package convert

import (
	"math"
	"testing"
)

func TestEvalExpr(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"integer", "3600", 3600},
		{"float", "2.20462", 2.20462},
		{"exponent", "1e6", 1e6},
		{"signed exponent", "3.78541e-9", 3.78541e-9},
		{"upper exponent", "1E3", 1000},
		{"product", "3600 * 1e6", 3.6e9},
		{"reciprocal", "1 / (24 * 60 * 60)", 1.0 / 86400},
		{"reciprocal flat", "1 / 1055.056", 1 / 1055.056},
		{"mixed ops", "3.78541 * 1e-9", 3.78541e-9},
		{"addition", "1 + 2 * 3", 7},
		{"subtraction", "10 - 4 - 3", 3},
		{"nested parens", "((2)) * (3 + 1)", 8},
		{"unary minus", "-2 * 3", -6},
		{"double negation", "--4", 4},
		{"leading whitespace", "  42  ", 42},
		{"division chain", "100 / 10 / 2", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalExpr(tt.in)
			if err != nil {
				t.Fatalf("EvalExpr(%q): %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > math.Abs(tt.want)*1e-12 {
				t.Errorf("EvalExpr(%q): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEvalExpr_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"prose", "the factor is 3600"},
		{"trailing prose", "3600 because hours"},
		{"unclosed paren", "(1 + 2"},
		{"dangling operator", "3 *"},
		{"division by zero", "1 / 0"},
		{"identifier", "x * 2"},
		{"bare exponent marker", "e10"},
		{"double dot", "1.2.3"},
		{"code", "__import__('os')"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := EvalExpr(tt.in); err == nil {
				t.Errorf("EvalExpr(%q): expected error, got %v", tt.in, got)
			}
		})
	}
}
