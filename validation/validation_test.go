package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/streamkit/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "linear")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("name", "   ")
	if !v2.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorOptionalUUID(t *testing.T) {
	v := New()
	v.OptionalUUID("id", "")
	v.OptionalUUID("id", uuid.NewString())
	if v.HasErrors() {
		t.Errorf("expected no errors, got %v", v.Errors())
	}

	v2 := New()
	v2.OptionalUUID("id", "bad-uuid")
	if !v2.HasErrors() {
		t.Error("expected error for invalid optional UUID")
	}
}

func TestValidatorRanges(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(v *Validator)
		wantErr bool
	}{
		{"port in range", func(v *Validator) { v.Range("port", 8080, 1, 65535) }, false},
		{"port out of range", func(v *Validator) { v.Range("port", 0, 1, 65535) }, true},
		{"rate in range", func(v *Validator) { v.Between("rate", 0.5, 0, 1) }, false},
		{"rate out of range", func(v *Validator) { v.Between("rate", 1.5, 0, 1) }, true},
		{"min ok", func(v *Validator) { v.Min("capture", 0, 0) }, false},
		{"min violated", func(v *Validator) { v.Min("capture", -1, 0) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			tt.apply(v)
			if v.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v (%v)", v.HasErrors(), tt.wantErr, v.Errors())
			}
		})
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"auto", "json", "yaml"}
	v := New()
	v.OneOf("format", "json", allowed)
	v.OneOf("format", "", allowed)
	if v.HasErrors() {
		t.Errorf("expected no errors, got %v", v.Errors())
	}

	v2 := New()
	v2.OneOf("format", "toml", allowed)
	if !v2.HasErrors() {
		t.Fatal("expected error for value not in list")
	}
	if !strings.Contains(v2.Errors()[0].Message, "auto, json, yaml") {
		t.Errorf("unexpected message: %s", v2.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	v := New()
	if v.Validate() != nil || v.Err() != nil {
		t.Fatal("expected nil for no errors")
	}

	v.Custom(false, "descriptors", "must not be empty")
	v.Min("capture", -1, 0)
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "descriptors: must not be empty") ||
		!strings.Contains(appErr.Message, "capture: must be at least 0") {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected 2 field errors in details, got %v", appErr.Details)
	}
}

func TestValidatorSection(t *testing.T) {
	v := New()
	v.Section("server").Min("port", -1, 0)
	v.Section("server").Section("tls").Required("cert", "")
	v.Min("capture", 0, 0)

	errs := v.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Field != "server.port" || errs[1].Field != "server.tls.cert" {
		t.Errorf("unexpected fields: %v", errs)
	}
}

type params struct {
	Size   *int     `mapstructure:"size" validate:"required,gte=0"`
	Scale  *float64 `mapstructure:"scale" validate:"required"`
	Format string   `json:"format" validate:"omitempty,oneof=json yaml"`
	Limit  int      `validate:"lte=10"`
}

func TestCheck(t *testing.T) {
	size, scale := 3, 2.0
	if errs := Check(params{Size: &size, Scale: &scale}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	neg := -1
	errs := Check(params{Size: &neg, Format: "toml", Limit: 11})
	got := make(map[string]string)
	for _, e := range errs {
		got[e.Field] = e.Message
	}
	want := map[string]string{
		"size":   "must be at least 0",
		"scale":  "is required",
		"format": "must be one of: json yaml",
		"limit":  "must be at most 10",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s: got %q, want %q", field, got[field], msg)
		}
	}
}

func TestValidateStruct(t *testing.T) {
	err := Validate(params{})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if !strings.Contains(appErr.Message, "size: is required") {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Size":       "size",
		"RunTimeout": "run_timeout",
		"ID":         "i_d",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
