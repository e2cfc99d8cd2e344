package errors

import (
	stderrors "errors"
	"net/http"
)

type ErrorCode string

const (
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrTooManyRequests            ErrorCode = "TOO_MANY_REQUESTS"

	// Slot and swap negotiation
	ErrMissingInput           ErrorCode = "MISSING_INPUT"
	ErrInvalidStatus          ErrorCode = "INVALID_STATUS"
	ErrNotOwnedOrNotSwappable ErrorCode = "NOT_OWNED_OR_NOT_SWAPPABLE"
	ErrSelfSwapForbidden      ErrorCode = "SELF_SWAP_FORBIDDEN"
	ErrTargetNotSwappable     ErrorCode = "TARGET_NOT_SWAPPABLE"
	ErrInvalidTransition      ErrorCode = "INVALID_TRANSITION"
	ErrNotOwner               ErrorCode = "NOT_OWNER"
	ErrTransactionFailed      ErrorCode = "TRANSACTION_FAILED"
)

// Kind groups error codes by how a caller can recover from them.
type Kind string

const (
	KindInternal          Kind = "InternalError"
	KindValidation        Kind = "ValidationError"
	KindConflict          Kind = "ConflictError"
	KindNotFound          Kind = "NotFoundError"
	KindTransactionFailed Kind = "TransactionFailed"
	KindUnauthenticated   Kind = "Unauthenticated"
	KindForbidden         Kind = "Forbidden"
	KindRateLimited       Kind = "RateLimited"
)

func (c ErrorCode) Kind() Kind {
	switch c {
	case ErrInvalidInput, ErrInvalidRequestData, ErrMissingInput, ErrInvalidStatus:
		return KindValidation
	case ErrNotOwnedOrNotSwappable, ErrSelfSwapForbidden, ErrTargetNotSwappable,
		ErrInvalidTransition, ErrNotOwner, ErrAlreadyExists:
		return KindConflict
	case ErrNotFound:
		return KindNotFound
	case ErrTransactionFailed:
		return KindTransactionFailed
	case ErrUnauthorized, ErrTokenExpired, ErrInvalidTokenFormat, ErrMissingAuthorizationHeader:
		return KindUnauthenticated
	case ErrForbidden:
		return KindForbidden
	case ErrTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}

func (c ErrorCode) HTTPStatus() int {
	switch c.Kind() {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict, KindTransactionFailed:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code so callers can compare against a bare NewAppError(code, "", nil).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *AppError) Kind() Kind {
	return e.Code.Kind()
}

// AsAppError unwraps err into an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr != nil {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
