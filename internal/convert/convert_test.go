package convert

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/fermibench/fermibench/internal/completion"
	"github.com/fermibench/fermibench/internal/model"
)

// fakeService returns a fixed reply and records the last request.
type fakeService struct {
	reply string
	err   error
	calls int
	last  completion.Request
}

func (f *fakeService) Complete(_ context.Context, req completion.Request) (string, error) {
	f.calls++
	f.last = req
	return f.reply, f.err
}

func (f *fakeService) Provider() string { return "fake" }
func (f *fakeService) Model() string    { return "fake-model" }

func TestConvert_Same(t *testing.T) {
	svc := &fakeService{reply: "same"}
	conv, err := NewLLMConverter(svc, nil).Convert(context.Background(), "kg", "kg")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if conv.Kind != model.ConversionSame {
		t.Errorf("kind: got %v, want same", conv.Kind)
	}
}

func TestConvert_SameCaseAndWhitespace(t *testing.T) {
	svc := &fakeService{reply: "  Same\n"}
	conv, err := NewLLMConverter(svc, nil).Convert(context.Background(), "people", "humans")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if conv.Kind != model.ConversionSame {
		t.Errorf("kind: got %v, want same", conv.Kind)
	}
}

func TestConvert_Invalid(t *testing.T) {
	svc := &fakeService{reply: "invalid"}
	conv, err := NewLLMConverter(svc, nil).Convert(context.Background(), "kg", "m")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if conv.Kind != model.ConversionInvalid {
		t.Errorf("kind: got %v, want invalid", conv.Kind)
	}
	if conv.Reason != "" {
		t.Errorf("reason: got %q, want empty", conv.Reason)
	}
}

func TestConvert_InvalidWithExplanation(t *testing.T) {
	svc := &fakeService{reply: "invalid: mass and length do not convert"}
	conv, err := NewLLMConverter(svc, nil).Convert(context.Background(), "kg", "m")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if conv.Kind != model.ConversionInvalid {
		t.Errorf("kind: got %v, want invalid", conv.Kind)
	}
	// Reason is everything after the "invalid" keyword, verbatim.
	if conv.Reason != ": mass and length do not convert" {
		t.Errorf("reason: got %q", conv.Reason)
	}
}

func TestConvert_Factor(t *testing.T) {
	svc := &fakeService{reply: "2.20462"}
	conv, err := NewLLMConverter(svc, nil).Convert(context.Background(), "kg", "lb")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if conv.Kind != model.ConversionFactor {
		t.Fatalf("kind: got %v, want factor", conv.Kind)
	}
	if math.Abs(conv.Factor-2.20462) > 2.20462*0.01 {
		t.Errorf("factor: got %v, want ~2.20462", conv.Factor)
	}
}

func TestConvert_FactorExpression(t *testing.T) {
	svc := &fakeService{reply: "1 / (3600 * 1e6)"}
	conv, err := NewLLMConverter(svc, nil).Convert(context.Background(), "joules", "MWh")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if conv.Kind != model.ConversionFactor {
		t.Fatalf("kind: got %v, want factor", conv.Kind)
	}
	if want := 1 / 3.6e9; math.Abs(conv.Factor-want) > want*1e-9 {
		t.Errorf("factor: got %v, want %v", conv.Factor, want)
	}
}

func TestConvert_GarbageDegradesToInvalid(t *testing.T) {
	svc := &fakeService{reply: "I'm not sure how to convert those."}
	conv, err := NewLLMConverter(svc, nil).Convert(context.Background(), "kg", "furlongs")
	if err != nil {
		t.Fatalf("a malformed reply must not be a hard error, got %v", err)
	}
	if conv.Kind != model.ConversionInvalid {
		t.Errorf("kind: got %v, want invalid", conv.Kind)
	}
	if !strings.HasPrefix(conv.Reason, ": ") {
		t.Errorf("reason should carry the evaluation error after the keyword convention: %q", conv.Reason)
	}
}

func TestConvert_TransportError(t *testing.T) {
	svc := &fakeService{err: errors.New("connection refused")}
	_, err := NewLLMConverter(svc, nil).Convert(context.Background(), "kg", "lb")
	if err == nil {
		t.Fatal("expected error")
	}
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ConversionError, got %T", err)
	}
}

func TestConvert_RequestShape(t *testing.T) {
	svc := &fakeService{reply: "3600"}
	if _, err := NewLLMConverter(svc, nil).Convert(context.Background(), "h", "s"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	req := svc.last
	if len(req.Messages) != 1 || req.Messages[0].Role != completion.RoleUser {
		t.Fatalf("expected a single user message, got %+v", req.Messages)
	}
	if req.Temperature == nil || *req.Temperature != 0 {
		t.Error("conversion must pin temperature to 0")
	}
	content := req.Messages[0].Content
	if !strings.Contains(content, "x = h") || !strings.Contains(content, "y = s") {
		t.Errorf("prompt should name both units:\n%s", content)
	}
}
