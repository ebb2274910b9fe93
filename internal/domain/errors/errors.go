package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrAlreadyExists        = errors.New("resource already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrTokenExpired         = errors.New("token expired")
	ErrContestInactive      = errors.New("contest is not accepting entries")
	ErrContestFull          = errors.New("contest has reached its contestant cap")
	ErrGatewayUnreachable   = errors.New("payment gateway unreachable")
	ErrReferenceNotFound    = errors.New("payment reference not found")
	ErrPaymentNotSettled    = errors.New("entry payment not settled")
	ErrDuplicateSubmission  = errors.New("submission already exists for this entry")
	ErrMissingPayoutDetails = errors.New("payout bank details missing")
	ErrHasActiveEntries     = errors.New("contest has entries with payment history")
	ErrStatusConflict       = errors.New("entry status changed concurrently")
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "NOT_FOUND", message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "INVALID_INPUT", message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, "UNAUTHENTICATED", message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, "FORBIDDEN", message, ErrForbidden)
}

func Conflict(code, message string, err error) *AppError {
	return NewAppError(http.StatusConflict, code, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "INTERNAL", "internal server error", err)
}

// FromDomain maps a sentinel domain error to its transport shape.
// Unknown errors become 500s so nothing leaks by accident.
func FromDomain(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound(err.Error())
	case errors.Is(err, ErrReferenceNotFound):
		return NewAppError(http.StatusNotFound, "REFERENCE_NOT_FOUND", err.Error(), err)
	case errors.Is(err, ErrInvalidInput):
		return BadRequest(err.Error())
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTokenExpired):
		return Unauthorized(err.Error())
	case errors.Is(err, ErrForbidden):
		return Forbidden(err.Error())
	case errors.Is(err, ErrAlreadyExists):
		return Conflict("ALREADY_EXISTS", err.Error(), err)
	case errors.Is(err, ErrContestInactive):
		return Conflict("CONTEST_INACTIVE", err.Error(), err)
	case errors.Is(err, ErrContestFull):
		return Conflict("CONTEST_FULL", err.Error(), err)
	case errors.Is(err, ErrGatewayUnreachable):
		return NewAppError(http.StatusBadGateway, "GATEWAY_UNREACHABLE", err.Error(), err)
	case errors.Is(err, ErrPaymentNotSettled):
		return NewAppError(http.StatusPaymentRequired, "PAYMENT_NOT_SETTLED", err.Error(), err)
	case errors.Is(err, ErrDuplicateSubmission):
		return Conflict("DUPLICATE_SUBMISSION", err.Error(), err)
	case errors.Is(err, ErrMissingPayoutDetails):
		return NewAppError(http.StatusPreconditionFailed, "MISSING_PAYOUT_DETAILS", err.Error(), err)
	case errors.Is(err, ErrHasActiveEntries):
		return Conflict("HAS_ACTIVE_ENTRIES", err.Error(), err)
	case errors.Is(err, ErrStatusConflict):
		return Conflict("STATUS_CONFLICT", err.Error(), err)
	default:
		return InternalError(err)
	}
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     err,
	}
}
