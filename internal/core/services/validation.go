package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names so errors point at the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateRequest runs struct tag validation and converts the first failure to a ValidationError.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			return apperrors.NewValidationError(field, "failed %s=%s check", fe.Tag(), fe.Param())
		}
		return apperrors.NewValidationError(field, "failed %s check", fe.Tag())
	}
	return apperrors.NewValidationError("", err.Error())
}

// checkAmount rejects negative amounts and amounts with more than two decimal places.
func checkAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return apperrors.NewValidationError(field, "must not be negative")
	}
	if !domain.FitsScale(d, domain.AmountScale) {
		return apperrors.NewValidationError(field, "at most %d decimal places allowed", domain.AmountScale)
	}
	return nil
}

// checkRate requires a strictly positive rate with at most six decimal places.
func checkRate(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return apperrors.NewValidationError(field, "must be positive")
	}
	if !domain.FitsScale(d, domain.RateScale) {
		return apperrors.NewValidationError(field, "at most %d decimal places allowed", domain.RateScale)
	}
	return nil
}
