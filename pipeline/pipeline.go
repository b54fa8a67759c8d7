package pipeline

import "context"

// Stage is one link of a push pipeline. Prime is called exactly once, before
// any Push, and reports whether the stage is ready for input. Push hands the
// stage one value and reports whether it wants more. A stage that returned
// Stop must keep returning Stop.
type Stage interface {
	Prime() Signal
	Push(v Value) Signal
}

// Source generates values and drives a pipeline from the calling goroutine.
// Drive returns how many values it pushed.
type Source interface {
	Drive(ctx context.Context, first Stage) (int, error)
}

// CountUp is the source that pushes 0, 1, 2, ... until its downstream stops.
type CountUp struct{}

// Drive primes first and then pushes increasing integers starting at 0. It
// halts on the first Stop. The context is checked between values, and
// again after a Stop so a fan-out abandoned on cancellation reports it.
func (CountUp) Drive(ctx context.Context, first Stage) (int, error) {
	if !first.Prime() {
		return 0, nil
	}
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if !first.Push(Int(i)) {
			return i + 1, ctx.Err()
		}
	}
}

// Pipeline is a source bound to the head of its stage chain.
type Pipeline struct {
	source Source
	head   Stage
}

// New binds source to the outermost stage of a chain.
func New(source Source, head Stage) *Pipeline {
	return &Pipeline{source: source, head: head}
}

// Run drives the pipeline to completion and returns the number of values
// the source generated.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	return p.source.Drive(ctx, p.head)
}
