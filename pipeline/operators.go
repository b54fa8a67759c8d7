package pipeline

import "math"

// Outputs is what a MapFunc produces for one input: zero, one, or many
// values, or a request to pass the input through unchanged. Large fan-outs
// are generated one value at a time instead of being held in memory.
type Outputs struct {
	values []Value
	n      int
	gen    func(i int) Value
	pass   bool
}

// Pass forwards the input as if the mapper were the identity.
func Pass() Outputs { return Outputs{pass: true} }

// One emits a single value.
func One(v Value) Outputs { return Outputs{values: []Value{v}} }

// Many emits each of vs in order. Many() emits nothing.
func Many(vs ...Value) Outputs { return Outputs{values: vs} }

// Generate emits gen(0), ..., gen(n-1), calling gen only as each value is
// pushed. A non-positive n emits nothing.
func Generate(n int, gen func(i int) Value) Outputs {
	if n <= 0 || gen == nil {
		return Outputs{}
	}
	return Outputs{n: n, gen: gen}
}

// Spread emits each element of a list as its own scalar, a scalar as
// itself, and nothing for None.
func Spread(v Value) Outputs {
	switch v.kind {
	case KindScalar:
		return One(v)
	case KindList:
		items := v.items
		return Generate(len(items), func(i int) Value { return Scalar(items[i]) })
	default:
		return Outputs{}
	}
}

// Len returns the number of values that will be emitted, or -1 for Pass.
func (o Outputs) Len() int {
	switch {
	case o.pass:
		return -1
	case o.gen != nil:
		return o.n
	}
	return len(o.values)
}

func (o Outputs) at(i int) Value {
	if o.gen != nil {
		return o.gen(i)
	}
	return o.values[i]
}

// MapFunc transforms one input into its outputs.
type MapFunc func(Value) Outputs

// Interruptible is implemented by stages whose single Push can emit an
// unbounded number of values. Once done is closed such a stage abandons
// the fan-out in progress and answers Stop.
type Interruptible interface {
	Interrupt(done <-chan struct{})
}

// interruptEvery is how many fan-out pushes go by between checks of done.
const interruptEvery = 1024

// FlatMap returns a stage that applies fn to every input and pushes each
// output downstream in order, combining the downstream signals with And. A
// nil fn is the identity. When fn passes, the input is spread, so an
// identity FlatMap flattens lists into scalars.
func FlatMap(downstream Stage, fn MapFunc) Stage {
	if fn == nil {
		fn = func(Value) Outputs { return Pass() }
	}
	return &flatMap{downstream: downstream, fn: fn}
}

type flatMap struct {
	downstream Stage
	fn         MapFunc
	done       <-chan struct{}
}

func (s *flatMap) Interrupt(done <-chan struct{}) { s.done = done }

func (s *flatMap) interrupted() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *flatMap) Prime() Signal { return s.downstream.Prime() }

func (s *flatMap) Push(v Value) Signal {
	out := s.fn(v)
	if out.pass {
		out = Spread(v)
	}
	status := Continue
	for i, n := 0, out.Len(); i < n; i++ {
		if s.done != nil && i > 0 && i%interruptEvery == 0 && s.interrupted() {
			return Stop
		}
		status = s.downstream.Push(out.at(i)).And(status)
	}
	return status
}

// Linear emits x*scale + offset for every input x.
func Linear(downstream Stage, scale, offset float64) Stage {
	return FlatMap(downstream, func(v Value) Outputs {
		return One(v.Map(func(x float64) float64 { return x*scale + offset }))
	})
}

// Repeat emits every input times times. The copies are pushed one by one,
// so times bounds work, not memory.
func Repeat(downstream Stage, times int) Stage {
	return FlatMap(downstream, func(v Value) Outputs {
		return Generate(times, func(int) Value { return v })
	})
}

// Square forwards x*x for every input x and returns the downstream signal
// untouched.
func Square(downstream Stage) Stage {
	return &square{downstream: downstream}
}

type square struct {
	downstream Stage
}

func (s *square) Prime() Signal { return s.downstream.Prime() }

func (s *square) Push(v Value) Signal {
	return s.downstream.Push(v.Map(func(x float64) float64 { return x * x }))
}

// FilterOut drops inputs above above or below below. Because it assumes
// non-decreasing input, a value over the upper bound that leaves nothing to
// forward stops the pipeline instead of being dropped. Lists keep their
// in-range elements and stop only when none remain and one was over above.
func FilterOut(downstream Stage, above, below float64) Stage {
	return &filterOut{downstream: downstream, above: above, below: below}
}

// Unbounded filter limits.
var (
	NoUpperBound = math.Inf(1)
	NoLowerBound = math.Inf(-1)
)

type filterOut struct {
	downstream Stage
	above      float64
	below      float64
}

func (f *filterOut) Prime() Signal { return f.downstream.Prime() }

func (f *filterOut) Push(v Value) Signal {
	kept := f.keep(v)
	if !kept.Truthy() && f.exceeds(v) {
		return Stop
	}
	if kept.IsNone() {
		return Continue
	}
	return f.downstream.Push(kept)
}

func (f *filterOut) inRange(x float64) bool {
	return f.below <= x && x <= f.above
}

// keep returns what survives filtering, or None when nothing does.
func (f *filterOut) keep(v Value) Value {
	switch v.kind {
	case KindScalar:
		if f.inRange(v.num) {
			return v
		}
	case KindList:
		var out []float64
		for _, x := range v.items {
			if f.inRange(x) {
				out = append(out, x)
			}
		}
		if len(out) > 0 {
			return Value{kind: KindList, items: out}
		}
	}
	return None
}

func (f *filterOut) exceeds(v Value) bool {
	switch v.kind {
	case KindScalar:
		return v.num > f.above
	case KindList:
		for _, x := range v.items {
			if x > f.above {
				return true
			}
		}
	}
	return false
}
