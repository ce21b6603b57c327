package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application-level error with HTTP status code.
// The message marshals under the "error" key, which is the shape API
// clients consume.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	Detail     string `json:"detail,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeMissingInput       = "missing_input"
	ErrCodeMissingCredential  = "missing_credential"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeNoUserRecord       = "no_user_record"
	ErrCodeNoWalletFound      = "no_wallet_found"
	ErrCodeProvisioningFailed = "provisioning_failed"
	ErrCodeSigningFailed      = "signing_failed"
	ErrCodeTransactionFailed  = "transaction_failed"
	ErrCodeBadRequest         = "bad_request"
	ErrCodeNotFound           = "not_found"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeInternalError      = "internal_error"
)

// Predefined errors
var (
	ErrMissingCredential = &AppError{
		Code:       ErrCodeMissingCredential,
		Message:    "Missing Privy access token",
		StatusCode: http.StatusUnauthorized,
	}

	ErrUnauthorized = &AppError{
		Code:       ErrCodeUnauthorized,
		Message:    "Unauthorized",
		StatusCode: http.StatusUnauthorized,
	}

	ErrNoUserRecord = &AppError{
		Code:       ErrCodeNoUserRecord,
		Message:    "Privy user not found",
		StatusCode: http.StatusNotFound,
	}

	ErrNoWalletFound = &AppError{
		Code:       ErrCodeNoWalletFound,
		Message:    "No embedded wallet found",
		StatusCode: http.StatusNotFound,
	}

	ErrBadRequest = &AppError{
		Code:       ErrCodeBadRequest,
		Message:    "Invalid request parameters",
		StatusCode: http.StatusBadRequest,
	}

	ErrNotFound = &AppError{
		Code:       ErrCodeNotFound,
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrInternalError = &AppError{
		Code:       ErrCodeInternalError,
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewWithDetail creates a new AppError with additional detail
func NewWithDetail(code, message, detail string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Detail:     detail,
		StatusCode: statusCode,
	}
}

// MissingInput creates a missing input error for a named request field
func MissingInput(field string) *AppError {
	return &AppError{
		Code:       ErrCodeMissingInput,
		Message:    fmt.Sprintf("Missing %s claim", field),
		StatusCode: http.StatusBadRequest,
	}
}

// ProvisioningFailed wraps a wallet provider error from user creation
func ProvisioningFailed(detail string) *AppError {
	return &AppError{
		Code:       ErrCodeProvisioningFailed,
		Message:    "Failed to create Privy user",
		Detail:     detail,
		StatusCode: http.StatusInternalServerError,
	}
}

// SigningFailed wraps a wallet provider error from message signing
func SigningFailed(detail string) *AppError {
	return &AppError{
		Code:       ErrCodeSigningFailed,
		Message:    "Failed to sign message",
		Detail:     detail,
		StatusCode: http.StatusInternalServerError,
	}
}

// TransactionFailed wraps a wallet provider error from transaction submission
func TransactionFailed(detail string) *AppError {
	return &AppError{
		Code:       ErrCodeTransactionFailed,
		Message:    "Failed to send transaction",
		Detail:     detail,
		StatusCode: http.StatusInternalServerError,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
