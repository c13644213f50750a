package utils

import (
	"HealthcareAPI/apperrors"
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validatable is implemented by every typed request in models.
type Validatable interface {
	Validate() error
}

// ValidateRequest runs v.Validate and converts the outcome to a
// ValidationError carrying a readable field summary.
func ValidateRequest(v Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return apperrors.New(apperrors.CodeValidation, formatFieldErrors(fieldErrs))
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return apperrors.Internal(err)
	}
	return apperrors.New(apperrors.CodeValidation, err.Error())
}

func formatFieldErrors(errs validation.Errors) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if errs[k] == nil {
			continue
		}
		parts = append(parts, k+": "+errs[k].Error())
	}
	return strings.Join(parts, "; ")
}
