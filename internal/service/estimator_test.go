package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/roohic/supervisorbot/internal/domain"
)

func TestCountTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"hello", 1},
		{"hello world", 2},
		{"Hello, world! How are you?", 5},
		{"one-two (three) [four] {five}", 5},
		{"line\r\nbreaks\ncount", 3},
		{"quoted \"words\" and 'more'", 4},
	}
	for _, tt := range tests {
		if got := CountTokens(tt.text); got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"  spaced   out  words  ", 3},
		{"hello world this is fine", 5},
	}
	for _, tt := range tests {
		if got := CountWords(tt.text); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestEstimateOutputCap(t *testing.T) {
	// 10 input tokens * 1.1 = 11 estimated output, capped at 5.
	est, err := Estimate("a b c d e f g h i j", 5, "gpt-4")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.InputTokens != 10 {
		t.Errorf("input tokens = %d, want 10", est.InputTokens)
	}
	if est.EstimatedOutputTokens != 5 {
		t.Errorf("estimated output tokens = %d, want 5 (capped)", est.EstimatedOutputTokens)
	}
}

func TestEstimateUncapped(t *testing.T) {
	est, err := Estimate("a b c d e f g h i j", 150, "gpt-4")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.EstimatedOutputTokens != 11 {
		t.Errorf("estimated output tokens = %d, want 11", est.EstimatedOutputTokens)
	}
}

func TestEstimateDeterministic(t *testing.T) {
	a, err := Estimate("some reasonably sized message text here", 100, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	b, err := Estimate("some reasonably sized message text here", 100, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if a.InputTokens != b.InputTokens || a.EstimatedOutputTokens != b.EstimatedOutputTokens || !a.EstimatedCost.Equal(b.EstimatedCost) {
		t.Errorf("estimate not deterministic: %+v vs %+v", a, b)
	}
}

func TestEstimateUnsupportedModel(t *testing.T) {
	_, err := Estimate("hello world", 100, "llama-unknown")
	if !errors.Is(err, domain.ErrUnsupportedModel) {
		t.Fatalf("err = %v, want ErrUnsupportedModel", err)
	}
}

func TestCompletionCost(t *testing.T) {
	// gpt-3.5-turbo-instruct: 0.0015/1K input, 0.002/1K output.
	cost, err := CompletionCost(200000, 50000, "gpt-3.5-turbo-instruct")
	if err != nil {
		t.Fatalf("completion cost: %v", err)
	}
	want := decimal.RequireFromString("0.40")
	if !cost.Equal(want) {
		t.Errorf("cost = %s, want %s", cost, want)
	}

	cost, err = CompletionCost(1000, 1000, "gpt-4")
	if err != nil {
		t.Fatalf("completion cost: %v", err)
	}
	want = decimal.RequireFromString("0.09")
	if !cost.Equal(want) {
		t.Errorf("cost = %s, want %s", cost, want)
	}
}

func TestCompletionCostUnsupportedModel(t *testing.T) {
	_, err := CompletionCost(100, 100, "not-a-model")
	if !errors.Is(err, domain.ErrUnsupportedModel) {
		t.Fatalf("err = %v, want ErrUnsupportedModel", err)
	}
}
