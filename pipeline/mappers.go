package pipeline

import (
	"math"
	"sort"
)

var mappers = map[string]MapFunc{
	"identity": func(Value) Outputs { return Pass() },
	"abs":      elementwise(math.Abs),
	"round":    elementwise(math.RoundToEven),
	"int":      elementwise(math.Trunc),
	"float":    elementwise(func(x float64) float64 { return x }),
	"neg":      elementwise(func(x float64) float64 { return -x }),
	"range":    rangeOf,
	"sum": reduce(func(xs []float64) (float64, bool) {
		total := 0.0
		for _, x := range xs {
			total += x
		}
		return total, true
	}),
	"min": reduce(func(xs []float64) (float64, bool) {
		if len(xs) == 0 {
			return 0, false
		}
		m := xs[0]
		for _, x := range xs[1:] {
			m = math.Min(m, x)
		}
		return m, true
	}),
	"max": reduce(func(xs []float64) (float64, bool) {
		if len(xs) == 0 {
			return 0, false
		}
		m := xs[0]
		for _, x := range xs[1:] {
			m = math.Max(m, x)
		}
		return m, true
	}),
	"len": reduce(func(xs []float64) (float64, bool) {
		return float64(len(xs)), true
	}),
	"sorted": reorder(func(xs []float64) {
		sort.Float64s(xs)
	}),
	"reversed": reorder(func(xs []float64) {
		for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
			xs[i], xs[j] = xs[j], xs[i]
		}
	}),
}

// Mapper returns the named MapFunc.
func Mapper(name string) (MapFunc, bool) {
	fn, ok := mappers[name]
	return fn, ok
}

// MapperNames lists the named mappers in sorted order.
func MapperNames() []string {
	names := make([]string, 0, len(mappers))
	for name := range mappers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func elementwise(fn func(float64) float64) MapFunc {
	return func(v Value) Outputs {
		if v.IsNone() {
			return Many()
		}
		return One(v.Map(fn))
	}
}

// rangeOf fans a scalar n out to 0..n-1. Lists produce nothing.
func rangeOf(v Value) Outputs {
	if !v.IsScalar() {
		return Many()
	}
	if !(v.num >= 1) {
		return Many()
	}
	n := math.MaxInt
	if v.num < -float64(math.MinInt) {
		n = int(v.num)
	}
	return Generate(n, Int)
}

func reduce(fn func([]float64) (float64, bool)) MapFunc {
	return func(v Value) Outputs {
		if v.IsNone() {
			return Many()
		}
		r, ok := fn(v.Items())
		if !ok {
			return Many()
		}
		return One(Scalar(r))
	}
}

func reorder(fn func([]float64)) MapFunc {
	return func(v Value) Outputs {
		xs := v.Items()
		fn(xs)
		return Spread(Value{kind: KindList, items: xs})
	}
}
