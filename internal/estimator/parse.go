package estimator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fermibench/fermibench/internal/model"
)

// ParseError reports that no structured estimate could be recovered from
// model output.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// estimateKeys are the fields a structured answer must carry.
var estimateKeys = map[string]bool{
	"lower": true,
	"value": true,
	"upper": true,
	"unit":  true,
}

// ParseEstimate extracts an Estimate from free-text model output. The text
// is expected to contain a JSON object of the form
//
//	{"lower": <num>, "value": <num>, "upper": <num>, "unit": <str>}
//
// possibly surrounded by prose or markdown fences. The candidate span runs
// from the first '{' to the last '}' in the text. This is intentionally not
// a balanced-brace scan: stray braces before the object or after it move
// the span, and that is the accepted behavior.
//
// lower/value/upper may arrive as JSON numbers or as numeric strings
// (scientific notation included); strings are coerced. The unit string is
// taken as-is. The lower <= value <= upper ordering is not checked.
func ParseEstimate(text string) (*model.Estimate, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &ParseError{Msg: "text is not a valid JSON object"}
	}
	candidate := text[start : end+1]

	var data map[string]any
	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		return nil, &ParseError{Msg: "text is not a valid JSON object", Err: err}
	}

	if !hasAll(data) {
		// Report the keys that are NOT among the expected four — the set
		// difference, not the missing keys. Kept as-is for compatibility
		// with existing result logs.
		var extra []string
		for k := range data {
			if !estimateKeys[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		return nil, &ParseError{Msg: fmt.Sprintf("text is missing the fields: %s", strings.Join(extra, ", "))}
	}

	nums := make(map[string]float64, 3)
	for _, field := range []string{"lower", "value", "upper"} {
		v, err := coerceFloat(data[field])
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("field %q is not a valid number", field), Err: err}
		}
		nums[field] = v
	}

	unit, ok := data["unit"].(string)
	if !ok {
		return nil, &ParseError{Msg: `field "unit" is not a string`}
	}

	return &model.Estimate{
		Lower: model.SciFloat(nums["lower"]),
		Value: model.SciFloat(nums["value"]),
		Upper: model.SciFloat(nums["upper"]),
		Unit:  unit,
	}, nil
}

func hasAll(data map[string]any) bool {
	for k := range estimateKeys {
		if _, ok := data[k]; !ok {
			return false
		}
	}
	return true
}

// coerceFloat accepts a JSON number or a numeric string.
func coerceFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
