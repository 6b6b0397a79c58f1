package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	return v
}

// checkShape validates a decoded entity or entity list against its tags
func (c *Client) checkShape(out any) error {
	value := reflect.Indirect(reflect.ValueOf(out))
	switch value.Kind() {
	case reflect.Slice:
		return c.validate.Var(value.Interface(), "dive")
	case reflect.Struct:
		return c.validate.Struct(value.Interface())
	default:
		return nil
	}
}

// validationError converts the first failing field into a client-side
// ValidationError
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apperrors.ValidationError("payload", err.Error())
	}

	fe := validationErrors[0]
	return apperrors.ValidationError(fe.Field(), errorMessage(fe))
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "base64":
		return fe.Field() + " must be base64 encoded"
	default:
		return fe.Field() + " is invalid"
	}
}
