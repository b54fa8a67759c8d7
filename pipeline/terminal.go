package pipeline

import "math"

// TakeFor returns a terminal that accepts count pushes, counting the
// priming handshake as one, and refuses everything after.
func TakeFor(count int) Stage {
	return &takeFor{count: count}
}

type takeFor struct {
	count int
	seen  int
}

func (t *takeFor) Prime() Signal { return t.step() }

func (t *takeFor) Push(Value) Signal { return t.step() }

func (t *takeFor) step() Signal {
	ok := t.seen < t.count
	if ok {
		t.seen++
	}
	return Signal(ok)
}

// TakeUntil returns a terminal that stops on the first value matching its
// predicate. Either bound may be nil.
//
// For a list it stops when expected is one of the elements, or when any
// element is greater than threshold or expected. For a scalar x it compares
// sqrt(x) against the same bounds. The greater-than checks are skipped for a
// bound that is zero.
func TakeUntil(expected, threshold *float64) Stage {
	return &takeUntil{expected: expected, threshold: threshold}
}

type takeUntil struct {
	expected  *float64
	threshold *float64
	done      bool
}

func (t *takeUntil) Prime() Signal { return Signal(!t.done) }

func (t *takeUntil) Push(v Value) Signal {
	if t.done {
		return Stop
	}
	if t.matches(v) {
		t.done = true
		return Stop
	}
	return Continue
}

func (t *takeUntil) matches(v Value) bool {
	switch v.kind {
	case KindList:
		hit := false
		if t.expected != nil {
			for _, x := range v.items {
				if x == *t.expected {
					hit = true
				}
			}
		}
		for _, x := range v.items {
			if t.over(x) {
				hit = true
			}
		}
		return hit
	case KindScalar:
		r := math.Sqrt(v.num)
		if t.expected != nil && r == *t.expected {
			return true
		}
		return t.over(r)
	default:
		return false
	}
}

func (t *takeUntil) over(x float64) bool {
	if set(t.threshold) && x > *t.threshold {
		return true
	}
	return set(t.expected) && x > *t.expected
}

func set(bound *float64) bool {
	return bound != nil && *bound != 0
}
