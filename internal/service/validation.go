package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"perfumeadmin/internal/errs"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs the struct tags of v, or only those of fields when given, and reports
// every failing field in a single ValidationError.
func validateInput(v interface{}, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = validate.StructPartial(v, fields...)
	} else {
		err = validate.Struct(v)
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.Validation(err.Error())
	}

	missing := make([]string, 0, len(fieldErrs))
	invalid := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}

	if len(missing) > 0 {
		return errs.Validation(fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
	}
	return errs.Validation(fmt.Sprintf("Invalid fields: %s", strings.Join(invalid, ", ")))
}

// storageError keeps taxonomy errors from the repositories and classifies everything else as
// a storage failure.
func storageError(msg string, err error) error {
	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrValidation) {
		return err
	}
	return errs.Storage(msg, err)
}
