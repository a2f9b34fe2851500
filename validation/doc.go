// Package validation provides input validation for robusthttp configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection:
//
//	type Config struct {
//	    BaseURL string `json:"base_url" validate:"omitempty,url"`
//	}
//	err := validation.ValidateStruct(cfg)
//
//	v := validation.New()
//	v.Positive("timeout", int64(cfg.Timeout))
//	err := v.Validate()
package validation
