package flow

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/validation"
)

// CountUpParams configures count_up. It takes none.
type CountUpParams struct{}

// FlatMapParams configures flatmap. An empty Mapper is the identity.
type FlatMapParams struct {
	Mapper string `mapstructure:"mapper"`
}

// LinearParams configures linear.
type LinearParams struct {
	Scale  *float64 `mapstructure:"scale" validate:"required"`
	Offset *float64 `mapstructure:"offset" validate:"required"`
}

// FilterOutParams configures filter_out. Missing bounds are unbounded.
type FilterOutParams struct {
	Above *float64 `mapstructure:"above"`
	Below *float64 `mapstructure:"below"`
}

// RepeatParams configures repeat.
type RepeatParams struct {
	Times *int `mapstructure:"times" validate:"required,gte=0"`
}

// WindowParams configures window.
type WindowParams struct {
	Size *int `mapstructure:"size" validate:"required,gte=0"`
}

// TakeForParams configures take_for.
type TakeForParams struct {
	Count *int `mapstructure:"count" validate:"required,gte=0"`
}

// TakeUntilParams configures take_until. Either bound may be null.
type TakeUntilParams struct {
	Expected  *float64 `mapstructure:"expected"`
	Threshold *float64 `mapstructure:"threshold"`
}

// decodeParams decodes raw into out and validates it. Unknown keys, wrong
// types, fractional integers and failed validations are all invalid
// parameters of op.
func decodeParams(op Op, raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		DecodeHook:  integralHook,
	})
	if err != nil {
		return errors.Internal(err)
	}
	if err := dec.Decode(raw); err != nil {
		return errors.InvalidParameter(op.String(), err.Error()).WithCause(err)
	}
	if fieldErrors := validation.Check(out); len(fieldErrors) > 0 {
		return errors.InvalidParameter(op.String(), validation.Join(fieldErrors)).
			WithDetail("fields", fieldErrors)
	}
	return nil
}

// integralHook refuses to truncate a fractional or non-finite number into
// an integer field, and to wrap one that does not fit in an int.
func integralHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}
	var f float64
	switch from.Kind() {
	case reflect.Float64:
		f = data.(float64)
	case reflect.Float32:
		f = float64(data.(float32))
	default:
		return data, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("expected an integer, got %v", f)
	}
	if f >= -float64(math.MinInt) || f < float64(math.MinInt) {
		return nil, fmt.Errorf("integer out of range: %v", f)
	}
	return int(f), nil
}

// paramNames lists the mapstructure keys of a params struct.
func paramNames(params any) []string {
	t := reflect.TypeOf(params)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := t.Field(i).Tag.Get("mapstructure"); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func floatOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
