package pipeline

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindNone is the absence of a value.
	KindNone Kind = iota
	// KindScalar is a single number.
	KindScalar
	// KindList is an ordered sequence of numbers, as produced by Window.
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return "none"
	}
}

// Value is the unit of data flowing through a pipeline: nothing, a scalar,
// or a list of scalars. Values are immutable once built.
type Value struct {
	kind  Kind
	num   float64
	items []float64
}

// None is the empty Value.
var None = Value{}

// Scalar returns a scalar Value.
func Scalar(x float64) Value {
	return Value{kind: KindScalar, num: x}
}

// Int returns a scalar Value holding n.
func Int(n int) Value {
	return Scalar(float64(n))
}

// List returns a list Value holding a copy of items.
func List(items ...float64) Value {
	cp := make([]float64, len(items))
	copy(cp, items)
	return Value{kind: KindList, items: cp}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v holds nothing.
func (v Value) IsNone() bool { return v.kind == KindNone }

// IsScalar reports whether v holds a scalar.
func (v Value) IsScalar() bool { return v.kind == KindScalar }

// IsList reports whether v holds a list.
func (v Value) IsList() bool { return v.kind == KindList }

// Float returns the scalar held by v, or 0 for other kinds.
func (v Value) Float() float64 {
	if v.kind != KindScalar {
		return 0
	}
	return v.num
}

// Items returns a copy of the list held by v. A scalar is returned as a
// one-element slice and None as nil.
func (v Value) Items() []float64 {
	switch v.kind {
	case KindScalar:
		return []float64{v.num}
	case KindList:
		cp := make([]float64, len(v.items))
		copy(cp, v.items)
		return cp
	default:
		return nil
	}
}

// Len returns the number of scalars in v.
func (v Value) Len() int {
	switch v.kind {
	case KindScalar:
		return 1
	case KindList:
		return len(v.items)
	default:
		return 0
	}
}

// Truthy reports whether v counts as present: None, zero and the empty list
// are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindScalar:
		return v.num != 0
	case KindList:
		return len(v.items) > 0
	default:
		return false
	}
}

// Equal reports whether v and o hold the same variant and numbers.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.num == o.num
	case KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if v.items[i] != o.items[i] {
				return false
			}
		}
	}
	return true
}

// Map applies fn to a scalar, or to every element of a list.
func (v Value) Map(fn func(float64) float64) Value {
	switch v.kind {
	case KindScalar:
		return Scalar(fn(v.num))
	case KindList:
		out := make([]float64, len(v.items))
		for i, x := range v.items {
			out[i] = fn(x)
		}
		return Value{kind: KindList, items: out}
	default:
		return v
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return formatFloat(v.num)
	case KindList:
		parts := make([]string, len(v.items))
		for i, x := range v.items {
			parts[i] = formatFloat(x)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "None"
	}
}

// MarshalJSON encodes a scalar as a number, a list as an array and None as
// null. Non-finite numbers encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(jsonNumber(v.num))
	case KindList:
		out := make([]interface{}, len(v.items))
		for i, x := range v.items {
			out[i] = jsonNumber(x)
		}
		return json.Marshal(out)
	default:
		return []byte("null"), nil
	}
}

func jsonNumber(x float64) interface{} {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return x
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Signal is the readiness flag a stage returns upstream: Continue asks for
// more values, Stop asks the sender to stop.
type Signal bool

const (
	Continue Signal = true
	Stop     Signal = false
)

// And combines the signals of a fan-out: all must accept.
func (s Signal) And(o Signal) Signal {
	return s && o
}

func (s Signal) String() string {
	if s {
		return "continue"
	}
	return "stop"
}
