package flow

import (
	"fmt"
	"sort"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/pipeline"
)

// constructor builds one operation from its raw parameters. Sources set
// source; transforms and terminals set stage, which terminals call with a
// nil downstream.
type constructor struct {
	role   Role
	params []string
	source func(raw map[string]any) (pipeline.Source, error)
	stage  func(raw map[string]any, downstream pipeline.Stage) (pipeline.Stage, error)
}

func sourceOf[P any](op Op, build func(P) pipeline.Source) constructor {
	var zero P
	return constructor{
		role:   RoleSource,
		params: paramNames(zero),
		source: func(raw map[string]any) (pipeline.Source, error) {
			var p P
			if err := decodeParams(op, raw, &p); err != nil {
				return nil, err
			}
			return build(p), nil
		},
	}
}

func transformOf[P any](op Op, build func(P, pipeline.Stage) (pipeline.Stage, error)) constructor {
	var zero P
	return constructor{
		role:   RoleTransform,
		params: paramNames(zero),
		stage: func(raw map[string]any, downstream pipeline.Stage) (pipeline.Stage, error) {
			var p P
			if err := decodeParams(op, raw, &p); err != nil {
				return nil, err
			}
			return build(p, downstream)
		},
	}
}

func terminalOf[P any](op Op, build func(P) pipeline.Stage) constructor {
	var zero P
	return constructor{
		role:   RoleTerminal,
		params: paramNames(zero),
		stage: func(raw map[string]any, _ pipeline.Stage) (pipeline.Stage, error) {
			var p P
			if err := decodeParams(op, raw, &p); err != nil {
				return nil, err
			}
			return build(p), nil
		},
	}
}

var registry = map[Op]constructor{
	OpCountUp: sourceOf(OpCountUp, func(CountUpParams) pipeline.Source {
		return pipeline.CountUp{}
	}),
	OpFlatMap: transformOf(OpFlatMap, func(p FlatMapParams, down pipeline.Stage) (pipeline.Stage, error) {
		if p.Mapper == "" {
			return pipeline.FlatMap(down, nil), nil
		}
		fn, ok := pipeline.Mapper(p.Mapper)
		if !ok {
			return nil, errors.InvalidParameter(OpFlatMap.String(),
				fmt.Sprintf("mapper: unknown mapper %q", p.Mapper)).WithDetail("field", "mapper")
		}
		return pipeline.FlatMap(down, fn), nil
	}),
	OpLinear: transformOf(OpLinear, func(p LinearParams, down pipeline.Stage) (pipeline.Stage, error) {
		return pipeline.Linear(down, *p.Scale, *p.Offset), nil
	}),
	OpFilterOut: transformOf(OpFilterOut, func(p FilterOutParams, down pipeline.Stage) (pipeline.Stage, error) {
		return pipeline.FilterOut(down,
			floatOr(p.Above, pipeline.NoUpperBound),
			floatOr(p.Below, pipeline.NoLowerBound),
		), nil
	}),
	OpRepeat: transformOf(OpRepeat, func(p RepeatParams, down pipeline.Stage) (pipeline.Stage, error) {
		return pipeline.Repeat(down, *p.Times), nil
	}),
	OpWindow: transformOf(OpWindow, func(p WindowParams, down pipeline.Stage) (pipeline.Stage, error) {
		return pipeline.Window(down, *p.Size), nil
	}),
	OpSquare: transformOf(OpSquare, func(_ struct{}, down pipeline.Stage) (pipeline.Stage, error) {
		return pipeline.Square(down), nil
	}),
	OpTakeFor: terminalOf(OpTakeFor, func(p TakeForParams) pipeline.Stage {
		return pipeline.TakeFor(*p.Count)
	}),
	OpTakeUntil: terminalOf(OpTakeUntil, func(p TakeUntilParams) pipeline.Stage {
		return pipeline.TakeUntil(p.Expected, p.Threshold)
	}),
}

// OperationInfo describes a registered operation.
type OperationInfo struct {
	Name   string   `json:"name"`
	Role   Role     `json:"role"`
	Params []string `json:"params"`
}

// Operations lists every registered operation sorted by name.
func Operations() []OperationInfo {
	ops := make([]OperationInfo, 0, len(registry))
	for op, c := range registry {
		ops = append(ops, OperationInfo{Name: op.String(), Role: c.role, Params: c.params})
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

// Mappers lists the names flatmap accepts for its mapper parameter.
func Mappers() []string {
	return pipeline.MapperNames()
}
