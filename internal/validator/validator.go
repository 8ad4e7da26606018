package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator so callers depend on a single
// method instead of the library type.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateStruct checks s against its validate tags.
func (v *Validator) ValidateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
