package serverutils

import (
	"fmt"

	"ai-hub-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts failures into a
// boundary ValidationError.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return apperror.Wrap(
				apperror.KindValidation,
				fmt.Sprintf("field %s failed on %s", first.Field(), first.Tag()),
				err,
			)
		}
		return apperror.Wrap(apperror.KindValidation, "invalid request", err)
	}
	return nil
}
