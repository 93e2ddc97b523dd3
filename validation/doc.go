// Package validation checks request bodies and query parameters.
//
// Request DTOs declare their rules with `validate` struct tags, evaluated by
// go-playground/validator with one custom tag, strongpassword (at least one
// digit, one lowercase and one uppercase letter). Failures come back as an
// INVALID_INPUT AppError whose Fields render as [{field, message}, ...].
//
//	type Login struct {
//	    Email    string `json:"email" validate:"required,email"`
//	    Password string `json:"password" validate:"required"`
//	}
//	if err := validation.BindJSON(c, &req); err != nil { ... }
//
// Query parameters use the programmatic Validator:
//
//	v := validation.New()
//	v.Min("page", page, 1).Range("size", size, 1, 100)
//	if err := v.Validate(); err != nil { ... }
package validation
