package flow

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/streamkit/errors"
)

const scenarioJSON = `[
  ["count_up", {}],
  ["linear", {"scale": 2, "offset": -10}],
  ["filter_out", {"above": 0}],
  ["take_for", {"count": 10}]
]`

const scenarioYAML = `
- [count_up, {}]
- [linear, {scale: 2, offset: -10}]
- - filter_out
  - above: 0
- [take_for, {count: 10}]
`

func TestDecode_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := DecodeBytes([]byte(scenarioJSON), FormatJSON)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	fromYAML, err := DecodeBytes([]byte(scenarioYAML), FormatYAML)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !reflect.DeepEqual(fromJSON, fromYAML) {
		t.Fatalf("formats disagree:\njson: %#v\nyaml: %#v", fromJSON, fromYAML)
	}
	if got := Names(fromJSON); !reflect.DeepEqual(got, []string{"count_up", "linear", "filter_out", "take_for"}) {
		t.Fatalf("unexpected names: %v", got)
	}
	if fromJSON[1].Params["scale"] != 2.0 {
		t.Fatalf("unexpected params: %v", fromJSON[1].Params)
	}
}

func TestDecode_AutoSniffs(t *testing.T) {
	for _, doc := range []string{scenarioJSON, scenarioYAML} {
		descs, err := Decode(strings.NewReader(doc), FormatAuto)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(descs) != 4 {
			t.Fatalf("expected 4 descriptors, got %d", len(descs))
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		code   errors.ErrorCode
		index  int
	}{
		{"json syntax", `[["count_up", {}]`, FormatJSON, errors.ErrCodeDecodeFailed, -1},
		{"json not an array", `{"count_up": {}}`, FormatJSON, errors.ErrCodeDecodeFailed, -1},
		{"json one element", `[["count_up", {}], ["take_for"]]`, FormatJSON, errors.ErrCodeMalformedDescriptor, 1},
		{"json three elements", `[["count_up", {}, 1]]`, FormatJSON, errors.ErrCodeMalformedDescriptor, 0},
		{"json null params", `[["take_for", null]]`, FormatJSON, errors.ErrCodeMalformedDescriptor, 0},
		{"json list params", `[["take_for", [3]]]`, FormatJSON, errors.ErrCodeMalformedDescriptor, 0},
		{"json numeric name", `[[1, {}]]`, FormatJSON, errors.ErrCodeMalformedDescriptor, 0},
		{"yaml syntax", "- [count_up, {}\n", FormatYAML, errors.ErrCodeDecodeFailed, -1},
		{"yaml mapping root", "count_up: {}\n", FormatYAML, errors.ErrCodeDecodeFailed, -1},
		{"yaml null params", "- [take_for, null]\n", FormatYAML, errors.ErrCodeMalformedDescriptor, 0},
		{"yaml scalar item", "- [count_up, {}]\n- take_for\n", FormatYAML, errors.ErrCodeMalformedDescriptor, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.doc), tt.format)
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != tt.code {
				t.Fatalf("expected %s, got %s (%v)", tt.code, appErr.Code, appErr)
			}
			if tt.index >= 0 && appErr.Details["index"] != tt.index {
				t.Fatalf("expected index %d, got %v", tt.index, appErr.Details["index"])
			}
		})
	}
}

func TestDecode_NullParamValues(t *testing.T) {
	descs, err := DecodeBytes([]byte(`[["take_until", {"expected": null, "threshold": 100}]]`), FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := descs[0].Params["expected"]
	if !ok || v != nil {
		t.Fatalf("expected explicit null, got %v (present=%v)", v, ok)
	}
}

func TestDescriptor_RoundTrip(t *testing.T) {
	descs := []Descriptor{D("count_up", nil), D("window", map[string]any{"size": 3.0})}

	data, err := json.Marshal(descs)
	if err != nil {
		t.Fatalf("marshal json: %v", err)
	}
	if string(data) != `[["count_up",{}],["window",{"size":3}]]` {
		t.Fatalf("unexpected json: %s", data)
	}

	out, err := yaml.Marshal(descs)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	back, err := DecodeBytes(out, FormatYAML)
	if err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	if back[1].Params["size"] != 3.0 || back[0].Op != "count_up" {
		t.Fatalf("unexpected round trip: %#v", back)
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream.yml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	descs, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(descs) != 4 {
		t.Fatalf("expected 4 descriptors, got %d", len(descs))
	}

	_, err = DecodeFile(filepath.Join(dir, "missing.json"))
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for missing file, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatAuto, "JSON": FormatJSON, "yml": FormatYAML, "auto": FormatAuto}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if FormatFor("a/b.json") != FormatJSON || FormatFor("x.txt") != FormatAuto {
		t.Error("unexpected format from extension")
	}
}
