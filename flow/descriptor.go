package flow

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/streamkit/errors"
)

// Descriptor names one operation and its parameters. On the wire it is the
// two-element array [name, {params}].
type Descriptor struct {
	Op     string
	Params map[string]any
}

// D is shorthand for building a Descriptor in code.
func D(op string, params map[string]any) Descriptor {
	return Descriptor{Op: op, Params: params}
}

// Names returns the operation names of descs in order.
func Names(descs []Descriptor) []string {
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Op
	}
	return names
}

func (d Descriptor) wire() []any {
	params := d.Params
	if params == nil {
		params = map[string]any{}
	}
	return []any{d.Op, params}
}

// MarshalJSON encodes d as [name, {params}].
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

// UnmarshalJSON decodes [name, {params}]. Shape errors are malformed
// descriptors.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return errors.MalformedDescriptor("expected a [name, params] array")
	}
	if len(parts) != 2 {
		return errors.MalformedDescriptor(fmt.Sprintf("expected 2 elements, got %d", len(parts)))
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return errors.MalformedDescriptor("operation name must be a string")
	}
	raw := bytes.TrimSpace(parts[1])
	if len(raw) == 0 || raw[0] != '{' {
		return errors.MalformedDescriptor(fmt.Sprintf("parameters of %s must be an object", name))
	}
	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		return errors.MalformedDescriptor(fmt.Sprintf("parameters of %s must be an object", name))
	}
	d.Op, d.Params = name, params
	return nil
}

// MarshalYAML encodes d as a two-element sequence.
func (d Descriptor) MarshalYAML() (any, error) {
	return d.wire(), nil
}

// UnmarshalYAML decodes a [name, {params}] sequence.
func (d *Descriptor) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return errors.MalformedDescriptor("expected a [name, params] sequence")
	}
	if len(node.Content) != 2 {
		return errors.MalformedDescriptor(fmt.Sprintf("expected 2 elements, got %d", len(node.Content)))
	}
	nameNode, paramsNode := node.Content[0], node.Content[1]
	if nameNode.Kind != yaml.ScalarNode || nameNode.ShortTag() != "!!str" {
		return errors.MalformedDescriptor("operation name must be a string")
	}
	if paramsNode.Kind != yaml.MappingNode {
		return errors.MalformedDescriptor(fmt.Sprintf("parameters of %s must be a mapping", nameNode.Value))
	}
	params := map[string]any{}
	if err := paramsNode.Decode(&params); err != nil {
		return errors.MalformedDescriptor(fmt.Sprintf("parameters of %s: %v", nameNode.Value, err))
	}
	d.Op, d.Params = nameNode.Value, normalize(params).(map[string]any)
	return nil
}

// normalize turns YAML integers into float64 so both formats produce the
// same parameter values.
func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	default:
		return v
	}
}
