package util

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes recognized by the resolver.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidEnumValue   = "INVALID_ENUM_VALUE"
	CodeInvalidDateFormat  = "INVALID_DATE_FORMAT"
	CodeInvalidArgument    = "INVALID_ARGUMENT"
	CodeNotFound           = "NOT_FOUND"
	CodePreconditionFailed = "PRECONDITION_FAILED"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeRouteNotFound      = "ROUTE_NOT_FOUND"
	CodeInternalFault      = "INTERNAL_FAULT"
)

// Localized field messages. The original service reads these from a message
// bundle; both channels and the tests depend on the exact wording.
const (
	RequiredFieldMessage = "is required"
	InvalidFieldMessage  = "is invalid"
)

// AppError standardizes application errors across both channels.
type AppError struct {
	Code       string
	Detail     string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, detail string, status int) *AppError {
	return &AppError{Code: code, Detail: detail, HTTPStatus: status}
}

// NewRequiredFieldError reports a missing required field, naming the field in
// its snake_case wire form.
func NewRequiredFieldError(field string) error {
	return NewAppError(CodeValidationFailed, ToSnakeCase(field)+" "+RequiredFieldMessage, http.StatusBadRequest)
}

// NewInvalidFieldError reports a malformed field value, naming the field in
// its snake_case wire form.
func NewInvalidFieldError(field string) error {
	return NewAppError(CodeValidationFailed, ToSnakeCase(field)+" "+InvalidFieldMessage, http.StatusBadRequest)
}

// NewInvalidEnumError reports a value outside a closed vocabulary.
func NewInvalidEnumError(field, value string, accepted []string) error {
	detail := fmt.Sprintf("Invalid %s [%s], accepted values: [%s]",
		field, value, strings.Join(accepted, ", "))
	return NewAppError(CodeInvalidEnumValue, detail, http.StatusBadRequest)
}

// NewInvalidDateError reports an unparseable instant literal.
func NewInvalidDateError(value string) error {
	detail := fmt.Sprintf("Invalid date [%s], accepted formats: [yyyy-MM-dd, yyyy-MM-ddTHH:mm:ssZ]", value)
	return NewAppError(CodeInvalidDateFormat, detail, http.StatusBadRequest)
}

// NewInvalidArgument reports a semantically invalid argument.
func NewInvalidArgument(detail string) error {
	return NewAppError(CodeInvalidArgument, detail, http.StatusBadRequest)
}

// NewNotFound reports a missing resource.
func NewNotFound(detail string) error {
	return NewAppError(CodeNotFound, detail, http.StatusNotFound)
}

// NewPreconditionFailed reports an unmet request precondition.
func NewPreconditionFailed(detail string) error {
	return NewAppError(CodePreconditionFailed, detail, http.StatusPreconditionFailed)
}

// NewMethodNotAllowed reports an unsupported method on a known route.
func NewMethodNotAllowed() error {
	return NewAppError(CodeMethodNotAllowed, "", http.StatusMethodNotAllowed)
}

// NewRouteNotFound reports a request for an unregistered route.
func NewRouteNotFound() error {
	return NewAppError(CodeRouteNotFound, "", http.StatusNotFound)
}

// NewInternalFault wraps an unexpected failure, keeping the underlying
// message visible to operators.
func NewInternalFault(err error) error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &AppError{Code: CodeInternalFault, Detail: detail, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// AsAppError converts generic errors to AppError, defaulting to an internal
// fault so unexpected failures stay observable.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:       CodeInternalFault,
		Detail:     err.Error(),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToSnakeCase converts a lowerCamelCase identifier to its snake_case wire
// form, e.g. createdAtStart -> created_at_start.
func ToSnakeCase(value string) string {
	var b strings.Builder
	for i, r := range value {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
