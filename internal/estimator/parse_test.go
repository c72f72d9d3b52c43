package estimator

import (
	"errors"
	"strings"
	"testing"
)

func TestParseEstimate_EmbeddedObject(t *testing.T) {
	text := "Sure, here it is:\n{\"lower\": 5.0e13, \"value\": 1.52691e14, \"upper\": 3.0e14, \"unit\": \"spiders\"}\nHope that helps!"

	est, err := ParseEstimate(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if float64(est.Lower) != 5.0e13 {
		t.Errorf("lower: got %v, want %v", float64(est.Lower), 5.0e13)
	}
	if float64(est.Value) != 1.52691e14 {
		t.Errorf("value: got %v, want %v", float64(est.Value), 1.52691e14)
	}
	if float64(est.Upper) != 3.0e14 {
		t.Errorf("upper: got %v, want %v", float64(est.Upper), 3.0e14)
	}
	if est.Unit != "spiders" {
		t.Errorf("unit: got %q, want %q", est.Unit, "spiders")
	}
	if est.Name != "" || est.ReasoningTrace != nil {
		t.Error("name and reasoning trace should be unset after parse")
	}
}

func TestParseEstimate_MarkdownFence(t *testing.T) {
	text := "```json\n{\n  \"lower\": 5.0e13,\n  \"value\": 1.52691e14,\n  \"upper\": 3.0e14,\n  \"unit\": \"spiders\"\n}\n```"

	est, err := ParseEstimate(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if est.Unit != "spiders" {
		t.Errorf("unit: got %q, want %q", est.Unit, "spiders")
	}
}

func TestParseEstimate_StringCoercion(t *testing.T) {
	text := `{"lower": "3e12", "value": "4.5e12", "upper": "6e12", "unit": "m"}`

	est, err := ParseEstimate(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if float64(est.Lower) != 3e12 {
		t.Errorf("lower: got %v, want %v", float64(est.Lower), 3e12)
	}
	if float64(est.Value) != 4.5e12 {
		t.Errorf("value: got %v, want %v", float64(est.Value), 4.5e12)
	}
}

func TestParseEstimate_BoundsNotValidated(t *testing.T) {
	// lower > upper is accepted; scoring treats the values literally.
	text := `{"lower": 10, "value": 5, "upper": 1, "unit": "kg"}`

	est, err := ParseEstimate(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if float64(est.Lower) != 10 || float64(est.Upper) != 1 {
		t.Errorf("bounds altered: got %v/%v", float64(est.Lower), float64(est.Upper))
	}
}

func TestParseEstimate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantMsg string
	}{
		{"no braces", "there is no object here", "text is not a valid JSON object"},
		{"open only", "start { and nothing closes it", "text is not a valid JSON object"},
		{"close only", "} closed before anything opened", "text is not a valid JSON object"},
		{"close before open", "} oops {", "text is not a valid JSON object"},
		{"invalid syntax", "{not valid json}", "text is not a valid JSON object"},
		{"bad number", `{"lower": true, "value": 1, "upper": 2, "unit": "kg"}`, `field "lower" is not a valid number`},
		{"unparseable string", `{"lower": "abc", "value": 1, "upper": 2, "unit": "kg"}`, `field "lower" is not a valid number`},
		{"non-string unit", `{"lower": 1, "value": 2, "upper": 3, "unit": 4}`, `field "unit" is not a string`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEstimate(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if !strings.HasPrefix(err.Error(), tt.wantMsg) {
				t.Errorf("error: got %q, want prefix %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseEstimate_MissingKeyReportsExtraKeys(t *testing.T) {
	// unit is absent and confidence is extra: the diagnostic names the
	// extra key, not the missing one.
	text := `{"lower": 1, "value": 2, "upper": 3, "confidence": 0.9}`

	_, err := ParseEstimate(text)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "confidence") {
		t.Errorf("diagnostic should name the extra key: %q", err.Error())
	}
	if strings.Contains(err.Error(), "unit") {
		t.Errorf("diagnostic should not name the missing key: %q", err.Error())
	}
}

func TestParseEstimate_ExtraKeysSorted(t *testing.T) {
	text := `{"lower": 1, "zeta": 1, "alpha": 2}`

	_, err := ParseEstimate(text)
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "text is missing the fields: alpha, zeta"; err.Error() != want {
		t.Errorf("error: got %q, want %q", err.Error(), want)
	}
}

func TestParseEstimate_StraySurroundingBraces(t *testing.T) {
	// The span runs from the first '{' to the last '}', so trailing braces
	// break the parse. That is the accepted (crude) heuristic.
	text := `{"lower": 1, "value": 2, "upper": 3, "unit": "kg"} and a stray }`

	_, err := ParseEstimate(text)
	if err == nil {
		t.Fatal("expected error for stray trailing brace")
	}
}
