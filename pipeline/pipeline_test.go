package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"
)

// --- Source tests ---

func TestCountUp_PushesIncreasingIntegers(t *testing.T) {
	rec := newRecorder(5)
	n := drive(t, rec)
	if n != 5 {
		t.Fatalf("expected 5 values generated, got %d", n)
	}
	if rec.primed != 1 {
		t.Fatalf("expected exactly one prime, got %d", rec.primed)
	}
	if got := floats(rec.values); !equalFloats(got, []float64{0, 1, 2, 3, 4}) {
		t.Fatalf("unexpected values: %v", got)
	}
}

func TestCountUp_RefusedPrime(t *testing.T) {
	s := &scripted{prime: Stop}
	if n := drive(t, s); n != 0 {
		t.Fatalf("expected no values, got %d", n)
	}
	if s.pushes != 0 {
		t.Fatalf("expected no pushes after refused prime, got %d", s.pushes)
	}
}

func TestCountUp_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := newRecorder(-1)
	n, err := New(CountUp{}, rec).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n != 0 || len(rec.values) != 0 {
		t.Fatalf("expected no values after cancel, got n=%d values=%v", n, rec.values)
	}
}

// --- Transform tests ---

func TestLinear_Exact(t *testing.T) {
	tests := []struct {
		name          string
		scale, offset float64
	}{
		{"identity", 1, 0},
		{"double plus one", 2, 1},
		{"negate", -1, 0},
		{"fractional", 0.5, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder(20)
			drive(t, Linear(rec, tt.scale, tt.offset))
			for i, v := range rec.values {
				want := float64(i)*tt.scale + tt.offset
				if v.Float() != want {
					t.Fatalf("push %d: got %v, want %v", i, v, want)
				}
			}
		})
	}
}

func TestLinear_ListElementwise(t *testing.T) {
	rec := newRecorder(-1)
	Linear(rec, 3, 1).Push(List(0, 1, 2))
	if len(rec.values) != 1 || !rec.values[0].Equal(List(1, 4, 7)) {
		t.Fatalf("unexpected outputs: %v", rec.values)
	}
}

func TestFlatMap_NilIsIdentity(t *testing.T) {
	rec := newRecorder(-1)
	s := FlatMap(rec, nil)
	s.Push(Int(4))
	s.Push(List(1, 2))
	if got := floats(rec.values); !equalFloats(got, []float64{4, 1, 2}) {
		t.Fatalf("unexpected outputs: %v", got)
	}
}

func TestFlatMap_ZeroOutputsContinue(t *testing.T) {
	rec := newRecorder(1)
	s := FlatMap(rec, func(Value) Outputs { return Many() })
	for i := 0; i < 3; i++ {
		if s.Push(Int(i)) != Continue {
			t.Fatal("expected Continue when nothing is emitted")
		}
	}
	if len(rec.values) != 0 {
		t.Fatalf("expected no downstream pushes, got %v", rec.values)
	}
}

func TestRepeat_FanOutCount(t *testing.T) {
	for _, times := range []int{0, 1, 3, 7} {
		rec := newRecorder(-1)
		s := Repeat(rec, times)
		if s.Push(Int(5)) != Continue {
			t.Fatalf("times=%d: expected Continue", times)
		}
		if len(rec.values) != times {
			t.Fatalf("times=%d: got %d pushes", times, len(rec.values))
		}
		for _, v := range rec.values {
			if !v.Equal(Int(5)) {
				t.Fatalf("times=%d: unexpected value %v", times, v)
			}
		}
	}
}

func TestRepeat_AndCombinesWithoutShortCircuit(t *testing.T) {
	s := &scripted{prime: Continue, answers: []Signal{Continue, Stop, Continue}}
	if Repeat(s, 3).Push(Int(1)) != Stop {
		t.Fatal("expected Stop when one fan-out push refused")
	}
	if s.pushes != 3 {
		t.Fatalf("expected all 3 pushes to happen, got %d", s.pushes)
	}
}

func TestRepeat_HugeTimesStreams(t *testing.T) {
	rec := newRecorder(3)
	s := Repeat(rec, 1<<50)
	done := make(chan struct{})
	close(done)
	s.(Interruptible).Interrupt(done)

	if s.Push(Int(7)) != Stop {
		t.Fatal("expected Stop once interrupted")
	}
	if len(rec.values) != interruptEvery {
		t.Fatalf("expected %d pushes before the check, got %d", interruptEvery, len(rec.values))
	}
}

func TestFlatMap_InterruptOnlyWhenDone(t *testing.T) {
	rec := newRecorder(-1)
	s := Repeat(rec, 3*interruptEvery)
	s.(Interruptible).Interrupt(make(chan struct{}))
	if s.Push(Int(1)) != Continue {
		t.Fatal("an open done channel must not stop the fan-out")
	}
	if len(rec.values) != 3*interruptEvery {
		t.Fatalf("got %d pushes", len(rec.values))
	}
}

func TestOutputs_Len(t *testing.T) {
	tests := []struct {
		name string
		out  Outputs
		want int
	}{
		{"pass", Pass(), -1},
		{"one", One(Int(1)), 1},
		{"many", Many(Int(1), Int(2)), 2},
		{"generate", Generate(1<<40, Int), 1 << 40},
		{"generate none", Generate(-1, Int), 0},
		{"spread", Spread(List(1, 2, 3)), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.out.Len(); got != tt.want {
				t.Fatalf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSquare(t *testing.T) {
	s := &scripted{prime: Continue, answers: []Signal{Stop}}
	sq := Square(s)
	if sq.Prime() != Continue {
		t.Fatal("expected forwarded prime")
	}
	if sq.Push(Int(3)) != Stop {
		t.Fatal("expected downstream signal unmodified")
	}

	rec := newRecorder(10)
	drive(t, Square(rec))
	for i, v := range rec.values {
		if v.Float() != float64(i*i) {
			t.Fatalf("push %d: got %v", i, v)
		}
	}
}

func TestFilterOut_BoundsAndEarlyExhaustion(t *testing.T) {
	rec := newRecorder(-1)
	n := drive(t, FilterOut(rec, 5, 2))
	if got := floats(rec.values); !equalFloats(got, []float64{2, 3, 4, 5}) {
		t.Fatalf("unexpected values: %v", got)
	}
	// The push of 6 is the one that stops the source.
	if n != 7 {
		t.Fatalf("expected 7 values generated, got %d", n)
	}
}

func TestFilterOut_Suppression(t *testing.T) {
	tests := []struct {
		name  string
		above float64
		below float64
		in    Value
		want  Signal
		sent  int
	}{
		{"below bound", NoUpperBound, 1, Int(0), Continue, 0},
		{"zero at upper bound passes", 0, NoLowerBound, Int(0), Continue, 1},
		{"above bound", 0, NoLowerBound, Int(1), Stop, 0},
		{"list partly above", 5, NoLowerBound, List(1, 10), Continue, 1},
		{"list all above", 5, NoLowerBound, List(10, 11), Stop, 0},
		{"list all below", NoUpperBound, 5, List(1, 2), Continue, 0},
		{"none", 0, 0, None, Continue, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder(-1)
			if got := FilterOut(rec, tt.above, tt.below).Push(tt.in); got != tt.want {
				t.Errorf("Push() = %v, want %v", got, tt.want)
			}
			if len(rec.values) != tt.sent {
				t.Errorf("sent %d values, want %d", len(rec.values), tt.sent)
			}
		})
	}
}

func TestFilterOut_ListKeepsInRange(t *testing.T) {
	rec := newRecorder(-1)
	FilterOut(rec, 5, 2).Push(List(1, 2, 5, 6))
	if len(rec.values) != 1 || !rec.values[0].Equal(List(2, 5)) {
		t.Fatalf("unexpected outputs: %v", rec.values)
	}
}

func TestWindow_Snapshots(t *testing.T) {
	rec := newRecorder(6)
	drive(t, Window(rec, 3))
	want := []Value{
		List(0), List(0, 1), List(0, 1, 2), List(1, 2, 3), List(2, 3, 4), List(3, 4, 5),
	}
	if len(rec.values) != len(want) {
		t.Fatalf("got %d windows, want %d", len(rec.values), len(want))
	}
	for i := range want {
		if !rec.values[i].Equal(want[i]) {
			t.Errorf("window %d = %v, want %v", i, rec.values[i], want[i])
		}
	}
}

func TestWindow_LengthProperty(t *testing.T) {
	for _, size := range []int{0, 1, 4} {
		rec := newRecorder(10)
		drive(t, Window(rec, size))
		for i, v := range rec.values {
			want := i + 1
			if size < want {
				want = size
			}
			if v.Len() != want {
				t.Fatalf("size=%d push %d: len %d, want %d", size, i, v.Len(), want)
			}
			if want > 0 {
				items := v.Items()
				if items[len(items)-1] != float64(i) {
					t.Fatalf("size=%d push %d: window %v does not end with newest", size, i, v)
				}
			}
		}
	}
}

func TestWindow_HugeSize(t *testing.T) {
	rec := newRecorder(-1)
	w := Window(rec, math.MaxInt)
	for i := 0; i < 3; i++ {
		w.Push(Int(i))
	}
	if len(rec.values) != 3 || !equalFloats(rec.values[2].Items(), []float64{0, 1, 2}) {
		t.Fatalf("unexpected snapshots %v", rec.values)
	}
}

func TestWindow_SnapshotsAreIndependent(t *testing.T) {
	rec := newRecorder(-1)
	w := Window(rec, 2)
	w.Push(Int(1))
	w.Push(Int(2))
	w.Push(Int(3))
	if !rec.values[0].Equal(List(1)) || !rec.values[1].Equal(List(1, 2)) {
		t.Fatalf("earlier snapshot mutated: %v", rec.values)
	}
}

func TestWindow_ListInputExtends(t *testing.T) {
	rec := newRecorder(-1)
	w := Window(rec, 3)
	w.Push(Int(1))
	w.Push(List(2, 3, 4))
	if !rec.values[1].Equal(List(2, 3, 4)) {
		t.Fatalf("unexpected window: %v", rec.values[1])
	}
}

// --- Terminal tests ---

func TestTakeFor_ExactCount(t *testing.T) {
	for count := 0; count <= 5; count++ {
		s := TakeFor(count)
		trues := 0
		stopped := false
		results := []Signal{s.Prime()}
		for i := 0; i < 10; i++ {
			results = append(results, s.Push(Int(i)))
		}
		for _, r := range results {
			if r {
				if stopped {
					t.Fatalf("count=%d: Continue after Stop", count)
				}
				trues++
			} else {
				stopped = true
			}
		}
		if trues != count {
			t.Fatalf("count=%d: got %d trues", count, trues)
		}
	}
}

func TestTakeFor_Driven(t *testing.T) {
	// Priming consumes one of the three.
	if n := drive(t, TakeFor(3)); n != 3 {
		t.Fatalf("expected 3 values generated, got %d", n)
	}
	if n := drive(t, TakeFor(0)); n != 0 {
		t.Fatalf("expected 0 values generated, got %d", n)
	}
}

func TestTakeUntil(t *testing.T) {
	tests := []struct {
		name      string
		expected  *float64
		threshold *float64
		in        Value
		want      Signal
	}{
		{"scalar sqrt equals expected", f64(3), nil, Int(9), Stop},
		{"scalar sqrt below expected", f64(3), nil, Int(4), Continue},
		{"scalar sqrt above expected", f64(3), nil, Int(16), Stop},
		{"scalar sqrt above threshold", nil, f64(2), Int(5), Stop},
		{"scalar zero expected equality", f64(0), nil, Int(0), Stop},
		{"zero threshold disabled", nil, f64(0), Int(100), Continue},
		{"list contains expected", f64(2), nil, List(0, 1, 2), Stop},
		{"list element above threshold", nil, f64(10), List(9, 11), Stop},
		{"list under threshold", nil, f64(10), List(9, 10), Continue},
		{"none ignored", f64(0), f64(1), None, Continue},
		{"no bounds", nil, nil, Int(1e9), Continue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := TakeUntil(tt.expected, tt.threshold)
			if s.Prime() != Continue {
				t.Fatal("expected prime to continue")
			}
			if got := s.Push(tt.in); got != tt.want {
				t.Errorf("Push(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTakeUntil_Latches(t *testing.T) {
	s := TakeUntil(f64(1), nil)
	if s.Push(Int(1)) != Stop {
		t.Fatal("expected Stop on match")
	}
	if s.Push(Int(0)) != Stop || s.Prime() != Stop {
		t.Fatal("expected Stop to latch")
	}
}

func TestSquare_RoundTripWithTakeUntil(t *testing.T) {
	for _, e := range []float64{0, 1, 5, 28} {
		n := drive(t, Square(TakeUntil(f64(e), nil)))
		if n != int(e)+1 {
			t.Fatalf("expected=%v: generated %d, want %d", e, n, int(e)+1)
		}
	}
}

// --- End-to-end scenarios ---

func TestScenario_LinearFilterTakeFor(t *testing.T) {
	var accepted []float64
	terminal := Tap(TakeFor(10), func(v Value, status Signal) {
		if status {
			accepted = append(accepted, v.Float())
		}
	})
	n := drive(t, Linear(FilterOut(terminal, 0, NoLowerBound), 2, -10))

	if !equalFloats(accepted, []float64{-10, -8, -6, -4, -2, 0}) {
		t.Fatalf("unexpected accepted values: %v", accepted)
	}
	// 2*6-10 is the first value above the bound.
	if n != 7 {
		t.Fatalf("expected 7 values generated, got %d", n)
	}
}

func TestScenario_WindowTakeUntil(t *testing.T) {
	var last Value
	terminal := Tap(TakeUntil(nil, f64(100)), func(v Value, _ Signal) { last = v })
	n := drive(t, Window(terminal, 3))

	if n != 102 {
		t.Fatalf("expected 102 values generated, got %d", n)
	}
	if !last.Equal(List(99, 100, 101)) {
		t.Fatalf("unexpected final window: %v", last)
	}
}

func TestScenario_FilterRepeatTakeFor(t *testing.T) {
	rec := &recorder{limit: -1}
	terminal := Tap(TakeFor(3), func(v Value, _ Signal) { rec.values = append(rec.values, v) })
	n := drive(t, Linear(FilterOut(Repeat(terminal, 3), NoUpperBound, 0), 2, -3))

	if n != 3 {
		t.Fatalf("expected 3 values generated, got %d", n)
	}
	if got := floats(rec.values); !equalFloats(got, []float64{1, 1, 1}) {
		t.Fatalf("unexpected terminal input: %v", got)
	}
}
