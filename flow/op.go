package flow

import "sort"

// Op is the closed set of operations a descriptor may name.
type Op uint8

const (
	OpCountUp Op = iota + 1
	OpFlatMap
	OpLinear
	OpFilterOut
	OpRepeat
	OpWindow
	OpSquare
	OpTakeFor
	OpTakeUntil
)

var opNames = map[Op]string{
	OpCountUp:   "count_up",
	OpFlatMap:   "flatmap",
	OpLinear:    "linear",
	OpFilterOut: "filter_out",
	OpRepeat:    "repeat",
	OpWindow:    "window",
	OpSquare:    "square",
	OpTakeFor:   "take_for",
	OpTakeUntil: "take_until",
}

var opsByName = func() map[string]Op {
	m := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		m[name] = op
	}
	return m
}()

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseOp resolves an operation name.
func ParseOp(name string) (Op, bool) {
	op, ok := opsByName[name]
	return op, ok
}

// OpNames lists every operation name in sorted order.
func OpNames() []string {
	names := make([]string, 0, len(opNames))
	for _, name := range opNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Role is where an operation may sit in a chain.
type Role uint8

const (
	// RoleSource must be the outermost descriptor.
	RoleSource Role = iota + 1
	// RoleTransform has exactly one downstream.
	RoleTransform
	// RoleTerminal must be the innermost descriptor.
	RoleTerminal
)

func (r Role) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleTransform:
		return "transform"
	case RoleTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// MarshalText renders the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
