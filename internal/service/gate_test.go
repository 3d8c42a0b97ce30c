package service

import (
	"context"
	"testing"

	"github.com/roohic/supervisorbot/internal/domain"
)

func newTestGate(minWords, maxWords int) (*Gate, *GroupStore, *memKV) {
	store, kv := newTestStore()
	return NewGate(store, "..", minWords, maxWords), store, kv
}

func TestGateAcceptsMarkedMessage(t *testing.T) {
	gate, store, _ := newTestGate(1, 80)
	mustCreateGroup(t, store, "42", "1.00", "0.00", true)

	d, err := gate.ShouldProcess(context.Background(), "hello world this is fine..", "42")
	if err != nil {
		t.Fatalf("should process: %v", err)
	}
	if !d.Accepted {
		t.Fatalf("rejected with reason %q, want accepted", d.Reason)
	}
	if d.Text != "hello world this is fine" {
		t.Errorf("text = %q, want marker stripped", d.Text)
	}
}

func TestGateRejectsWithoutMarker(t *testing.T) {
	gate, store, _ := newTestGate(1, 80)
	mustCreateGroup(t, store, "42", "1.00", "0.00", true)

	d, err := gate.ShouldProcess(context.Background(), "hello world this is fine", "42")
	if err != nil {
		t.Fatalf("should process: %v", err)
	}
	if d.Accepted || d.Reason != domain.ReasonNoMarker {
		t.Errorf("decision = %+v, want rejection with NoMarker", d)
	}
}

func TestGateRejectsSingleTrailingDot(t *testing.T) {
	gate, store, _ := newTestGate(1, 80)
	mustCreateGroup(t, store, "42", "1.00", "0.00", true)

	d, _ := gate.ShouldProcess(context.Background(), "an ordinary sentence.", "42")
	if d.Accepted {
		t.Error("accepted a message without the full marker sequence")
	}
}

func TestGateRejectsOutOfRange(t *testing.T) {
	gate, store, _ := newTestGate(4, 35)
	mustCreateGroup(t, store, "42", "1.00", "0.00", true)

	tests := []struct {
		name string
		text string
	}{
		{"too short", "short.."},
		{"too long", longMessage(36) + ".."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := gate.ShouldProcess(context.Background(), tt.text, "42")
			if err != nil {
				t.Fatalf("should process: %v", err)
			}
			if d.Accepted || d.Reason != domain.ReasonOutOfRange {
				t.Errorf("decision = %+v, want rejection with OutOfRange", d)
			}
		})
	}
}

func TestGateRejectsInactiveGroup(t *testing.T) {
	gate, store, _ := newTestGate(1, 80)
	mustCreateGroup(t, store, "42", "1.00", "0.00", false)

	d, err := gate.ShouldProcess(context.Background(), "hello world this is fine..", "42")
	if err != nil {
		t.Fatalf("should process: %v", err)
	}
	if d.Accepted || d.Reason != domain.ReasonGroupInactive {
		t.Errorf("decision = %+v, want rejection with GroupInactive", d)
	}
}

func TestGateRejectsUnknownGroup(t *testing.T) {
	gate, _, _ := newTestGate(1, 80)

	d, err := gate.ShouldProcess(context.Background(), "hello world this is fine..", "999")
	if err != nil {
		t.Fatalf("should process: %v", err)
	}
	if d.Accepted || d.Reason != domain.ReasonGroupInactive {
		t.Errorf("decision = %+v, want rejection with GroupInactive", d)
	}
}

func TestGateChecksOrder(t *testing.T) {
	// Marker is checked before activation: an unmarked message in an
	// inactive group must reject with NoMarker, not GroupInactive.
	gate, store, _ := newTestGate(1, 80)
	mustCreateGroup(t, store, "42", "1.00", "0.00", false)

	d, _ := gate.ShouldProcess(context.Background(), "no marker here", "42")
	if d.Reason != domain.ReasonNoMarker {
		t.Errorf("reason = %q, want NoMarker", d.Reason)
	}
}

func longMessage(words int) string {
	s := ""
	for i := 0; i < words; i++ {
		if i > 0 {
			s += " "
		}
		s += "word"
	}
	return s
}
