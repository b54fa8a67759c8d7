package flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/streamkit/errors"
)

// Format is the encoding of a descriptor document.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted format names.
func Formats() []string {
	return []string{string(FormatAuto), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat resolves a format name. An empty name is auto.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.InvalidInput("format", fmt.Sprintf("unknown format %q", name))
	}
}

// FormatFor picks a format from a file extension, falling back to auto.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// DecodeFile reads a descriptor document from path.
func DecodeFile(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidInput("file", fmt.Sprintf("reading %s: %v", path, err)).WithCause(err)
	}
	return DecodeBytes(data, FormatFor(path))
}

// Decode reads a whole descriptor document from r.
func Decode(r io.Reader, format Format) ([]Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.DecodeFailed(string(format), err)
	}
	return DecodeBytes(data, format)
}

// DecodeBytes decodes a top-level array of descriptors. Syntax errors are
// decode failures; a descriptor of the wrong shape is malformed and carries
// its index.
func DecodeBytes(data []byte, format Format) ([]Descriptor, error) {
	if format == FormatAuto || format == "" {
		format = sniff(data)
	}
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, errors.InvalidInput("format", fmt.Sprintf("unknown format %q", format))
	}
}

// sniff treats a document opening with '[' as JSON and anything else as YAML.
func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

func decodeJSON(data []byte) ([]Descriptor, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.DecodeFailed(string(FormatJSON), err)
	}
	descs := make([]Descriptor, len(items))
	for i, item := range items {
		if err := descs[i].UnmarshalJSON(item); err != nil {
			return nil, atIndex(err, i)
		}
	}
	return descs, nil
}

func decodeYAML(data []byte) ([]Descriptor, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.DecodeFailed(string(FormatYAML), err)
	}
	if doc.Kind == 0 {
		return []Descriptor{}, nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, errors.DecodeFailed(string(FormatYAML), fmt.Errorf("expected a sequence of descriptors"))
	}
	descs := make([]Descriptor, len(root.Content))
	for i, item := range root.Content {
		if err := descs[i].UnmarshalYAML(item); err != nil {
			return nil, atIndex(err, i)
		}
	}
	return descs, nil
}

func atIndex(err error, i int) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.WithDetail("index", i)
	}
	return errors.MalformedDescriptor(err.Error()).WithDetail("index", i).WithCause(err)
}
