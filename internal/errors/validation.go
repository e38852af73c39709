package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldErrors converts a binding error into field -> message pairs.
// Field names are the request's JSON names.
func FieldErrors(err error) map[string]string {
	details := map[string]string{}

	var validationErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case stderrors.As(err, &validationErrs):
		for _, fe := range validationErrs {
			details[fe.Field()] = fieldMessage(fe)
		}
	case stderrors.As(err, &typeErr):
		details[typeErr.Field] = fmt.Sprintf("Expected a value of type %s.", typeErr.Type)
	case stderrors.As(err, &syntaxErr):
		details["body"] = "Malformed JSON."
	default:
		details["body"] = err.Error()
	}

	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "trimmedmin":
		return fmt.Sprintf("Must be at least %s characters long.", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed the %q rule.", fe.Tag())
	}
}

// ValidationFailed sends a 400 response listing the rejected fields
func ValidationFailed(c *gin.Context, details map[string]string) {
	BadRequestWithDetails(c, "Invalid input", details)
}

// BindingFailed sends a 400 response for a request that could not be bound
func BindingFailed(c *gin.Context, err error) {
	ValidationFailed(c, FieldErrors(err))
}
