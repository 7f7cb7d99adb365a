// Package apperror is the error taxonomy shared by the booking core and the
// HTTP layer. Domain operations return *Error values; handlers map Kind to a
// status code.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindAuthorization
	KindNotFound
	KindConflict
	KindPolicyViolation
	KindInsufficientBalance
	KindPaymentFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPolicyViolation:
		return "policy_violation"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindPaymentFailure:
		return "payment_failure"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to the response status used by the API.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindPolicyViolation:
		return http.StatusUnprocessableEntity
	case KindInsufficientBalance, KindPaymentFailure:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and message, so package-level
// sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error          { return New(KindValidation, message) }
func Unauthenticated(message string) *Error     { return New(KindAuth, message) }
func Forbidden(message string) *Error           { return New(KindAuthorization, message) }
func NotFound(message string) *Error            { return New(KindNotFound, message) }
func Conflict(message string) *Error            { return New(KindConflict, message) }
func PolicyViolation(message string) *Error     { return New(KindPolicyViolation, message) }
func InsufficientBalance(message string) *Error { return New(KindInsufficientBalance, message) }
func PaymentFailure(message string) *Error      { return New(KindPaymentFailure, message) }

// Internal wraps an unexpected failure. Its message is safe to show callers.
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage returns the message a caller may see. The wrapped cause is
// never included; errors outside the taxonomy collapse to fallback.
func PublicMessage(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
