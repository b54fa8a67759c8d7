package pipeline

import (
	"context"
	"testing"
)

// --- test helpers ---

// recorder is a terminal that records what reaches it and accepts up to
// limit pushes. A negative limit accepts everything.
type recorder struct {
	limit  int
	primed int
	values []Value
}

func newRecorder(limit int) *recorder { return &recorder{limit: limit} }

func (r *recorder) Prime() Signal {
	r.primed++
	return Continue
}

func (r *recorder) Push(v Value) Signal {
	r.values = append(r.values, v)
	return Signal(r.limit < 0 || len(r.values) < r.limit)
}

// scripted answers pushes from a fixed list of signals, then Continue.
type scripted struct {
	prime   Signal
	answers []Signal
	pushes  int
}

func (s *scripted) Prime() Signal { return s.prime }

func (s *scripted) Push(Value) Signal {
	s.pushes++
	if s.pushes <= len(s.answers) {
		return s.answers[s.pushes-1]
	}
	return Continue
}

func floats(vs []Value) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Float())
	}
	return out
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func drive(t *testing.T, head Stage) int {
	t.Helper()
	n, err := New(CountUp{}, head).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return n
}

func f64(x float64) *float64 { return &x }
