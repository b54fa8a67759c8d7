package flow

import (
	"fmt"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/pipeline"
)

// Decorator wraps a freshly built stage. index is the stage's position in
// the descriptor list.
type Decorator func(index int, op Op, stage pipeline.Stage) pipeline.Stage

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	decorators []Decorator
}

// WithDecorator applies d to every stage as it is built, innermost first.
// Decorators run in the order they are given.
func WithDecorator(d Decorator) BuildOption {
	return func(o *buildOptions) {
		if d != nil {
			o.decorators = append(o.decorators, d)
		}
	}
}

// Build assembles descs, given outermost first, into a runnable pipeline.
// It folds from the innermost descriptor outward so every stage is built
// with its downstream already in hand. The first descriptor must be the
// source and the last must be a terminal.
func Build(descs []Descriptor, opts ...BuildOption) (*pipeline.Pipeline, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if len(descs) == 0 {
		return nil, errors.MalformedDescriptor("pipeline has no stages")
	}

	var acc pipeline.Stage
	for i := len(descs) - 1; i >= 0; i-- {
		d := descs[i]
		op, ok := ParseOp(d.Op)
		if !ok {
			return nil, errors.UnknownOperation(d.Op).WithDetail("index", i)
		}
		c := registry[op]

		switch c.role {
		case RoleSource:
			if i != 0 {
				return nil, misplaced(i, op, "a source must be the first stage")
			}
			if acc == nil {
				return nil, misplaced(i, op, "a source needs a downstream stage")
			}
			src, err := c.source(d.Params)
			if err != nil {
				return nil, withIndex(err, i)
			}
			return pipeline.New(src, acc), nil
		case RoleTerminal:
			if acc != nil {
				return nil, misplaced(i, op, "a terminal must be the last stage")
			}
		case RoleTransform:
			if acc == nil {
				return nil, misplaced(i, op, "a transform needs a downstream stage")
			}
		}

		stage, err := c.stage(d.Params, acc)
		if err != nil {
			return nil, withIndex(err, i)
		}
		for _, dec := range o.decorators {
			stage = dec(i, op, stage)
		}
		acc = stage
	}
	return nil, errors.MalformedDescriptor(fmt.Sprintf("the first stage must be a source, got %s", descs[0].Op)).
		WithDetail("index", 0)
}

func misplaced(i int, op Op, reason string) error {
	return errors.MalformedDescriptor(fmt.Sprintf("%s at position %d: %s", op, i, reason)).
		WithDetail("index", i).
		WithDetail("operation", op.String())
}

func withIndex(err error, i int) error {
	return errors.Wrap(err).WithDetail("index", i)
}
