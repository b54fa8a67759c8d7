// Package validation validates decoded input and reports failures as
// AppErrors.
//
// Struct tag validation is used for stage parameters:
//
//	type WindowParams struct {
//	    Size *int `mapstructure:"size" validate:"required,gte=0"`
//	}
//	fieldErrors := validation.Check(params)
//
// Programmatic validation collects errors for config sections and request
// input:
//
//	v := validation.New()
//	v.Range("server.port", cfg.Port, 1, 65535)
//	v.OneOf("pipeline.format", cfg.Format, []string{"auto", "json", "yaml"})
//	err := v.Err()
package validation
