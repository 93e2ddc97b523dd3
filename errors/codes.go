package errors

import "net/http"

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Authentication errors
const (
	// ErrCodeMissingToken indicates a protected route was called without a bearer token.
	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"
	// ErrCodeTokenExpired indicates the bearer token is past its expiry.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	// ErrCodeInvalidIssuer indicates the token was issued by an untrusted party.
	ErrCodeInvalidIssuer ErrorCode = "INVALID_ISSUER"
	// ErrCodeTokenValidation covers malformed tokens and signature failures.
	ErrCodeTokenValidation ErrorCode = "TOKEN_VALIDATION"
)

// Authorization errors
const (
	// ErrCodeUnauthorizedOwner indicates the caller does not own the resource.
	ErrCodeUnauthorizedOwner ErrorCode = "UNAUTHORIZED_OWNER_ACCESS"
	// ErrCodeAccountNotVerified indicates the account must be verified first.
	ErrCodeAccountNotVerified ErrorCode = "ACCOUNT_NOT_VERIFIED"
)

// User and credential errors
const (
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeInvalidOTP         ErrorCode = "INVALID_OTP"
	ErrCodeOtpCreation        ErrorCode = "OTP_CREATION"
	ErrCodeEmailIDMismatch    ErrorCode = "EMAIL_ID_MISMATCH"
	ErrCodeDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeIncorrectPassword  ErrorCode = "INCORRECT_PASSWORD"
	ErrCodeInvalidUserStatus  ErrorCode = "INVALID_USER_STATUS"
	ErrCodeInvalidID          ErrorCode = "INVALID_ID"
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExternalService indicates a downstream service failed or was unreachable.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// statusByCode is the single table mapping error codes to HTTP status.
var statusByCode = map[ErrorCode]int{
	ErrCodeMissingToken:       http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusForbidden,
	ErrCodeInvalidIssuer:      http.StatusForbidden,
	ErrCodeTokenValidation:    http.StatusInternalServerError,
	ErrCodeUnauthorizedOwner:  http.StatusForbidden,
	ErrCodeAccountNotVerified: http.StatusForbidden,
	ErrCodeUserNotFound:       http.StatusNotFound,
	ErrCodeInvalidOTP:         http.StatusBadRequest,
	ErrCodeOtpCreation:        http.StatusBadRequest,
	ErrCodeEmailIDMismatch:    http.StatusBadRequest,
	ErrCodeDuplicateEmail:     http.StatusConflict,
	ErrCodeIncorrectPassword:  http.StatusBadRequest,
	ErrCodeInvalidUserStatus:  http.StatusBadRequest,
	ErrCodeInvalidID:          http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeExternalService:    http.StatusServiceUnavailable,
	ErrCodeInternal:           http.StatusInternalServerError,
}

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeRateLimited:        true,
	ErrCodeExternalService:    true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Retryable is advisory for clients; downstream HTTP calls are never retried.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// StatusFor returns the HTTP status for a code, 500 for unknown codes.
func StatusFor(code ErrorCode) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
