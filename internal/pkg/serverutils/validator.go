package serverutils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks the struct tags of a request DTO.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func fieldErrors(errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Field: e.Namespace(), Rule: e.Tag(), Param: e.Param()})
	}
	return out
}
