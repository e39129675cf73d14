// Package validation checks decoded input such as query plans before they are
// executed.
//
// It supports struct tag validation (using the validator library) and
// programmatic validation with error collection. Both produce an
// INVALID_INPUT AppError whose details list every failing field.
//
// # Struct Tag Validation
//
//	type Step struct {
//	    Op string `json:"op" validate:"required,oneof=filter sort take"`
//	}
//	err := validation.Struct(step)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(len(step.Where) > 0, "steps[0].where", "is required for filter")
//	err := v.Err()
package validation
