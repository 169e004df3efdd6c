package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients. Validation codes follow the order the
// recipe payload is checked in.
const (
	CodeEmptyIngredients     = "empty_ingredients"
	CodeUnknownIngredient    = "unknown_ingredient"
	CodeDuplicateIngredient  = "duplicate_ingredient"
	CodeInvalidAmount        = "invalid_amount"
	CodeEmptyTags            = "empty_tags"
	CodeUnknownTag           = "unknown_tag"
	CodeDuplicateTag         = "duplicate_tag"
	CodeMissingField         = "missing_field"
	CodeInvalidCookingTime   = "invalid_cooking_time"
	CodeAlreadyExists        = "already_exists"
	CodeNotFound             = "not_found"
	CodeEmptyCart            = "empty_cart"
	CodeForbidden            = "forbidden"
	CodeSelfSubscription     = "self_subscription"
	CodeInvalidRequest       = "invalid_request"
	CodeInvalidCredentials   = "invalid_credentials"
	CodeEmailAlreadyInUse    = "email_already_in_use"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(code, format string, args ...any) *Error {
	return New(http.StatusBadRequest, code, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func AlreadyExists(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeAlreadyExists, fmt.Errorf(format, args...))
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, CodeForbidden, fmt.Errorf(format, args...))
}

// As unwraps err into an *Error if one is anywhere in its chain.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
