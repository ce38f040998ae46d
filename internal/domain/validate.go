package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance.
var validate = validator.New()

// Validate checks v against its `validate` struct tags and reports the
// first violation as an ErrConfig.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("%w: %s must satisfy %s=%s (got %v)", ErrConfig, fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%w: %s must satisfy %s (got %v)", ErrConfig, fe.Namespace(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("%w: %v", ErrConfig, err)
}
