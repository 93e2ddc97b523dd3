package errors

import (
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message, safe to show to clients.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for logs.
	Details map[string]any `json:"details,omitempty"`
	// Fields holds per-field validation failures.
	Fields []FieldError `json:"-"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches AppErrors by code so sentinel comparisons work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with status and retryable resolved from the code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: StatusFor(code),
		Retryable:  IsRetryableCode(code),
	}
}

// --- Authentication ---

// MissingToken creates an error for a protected call without a usable bearer token.
func MissingToken() *AppError {
	return New(ErrCodeMissingToken, "Missing JWT or invalid format (expected 'Bearer <token>')")
}

// TokenExpired creates an error for an expired bearer token.
func TokenExpired() *AppError {
	return New(ErrCodeTokenExpired, "Token expired")
}

// InvalidIssuer creates an error for a token issued by an untrusted party.
func InvalidIssuer() *AppError {
	return New(ErrCodeInvalidIssuer, "Invalid issuer")
}

// TokenValidation creates an error for malformed tokens and signature failures.
// The message stays generic so nothing about the failure leaks to the caller.
func TokenValidation(cause error) *AppError {
	return New(ErrCodeTokenValidation, "Internal error validating token").WithCause(cause)
}

// --- Authorization ---

// UnauthorizedOwnerAccess creates an error for acting on another user's resource.
func UnauthorizedOwnerAccess() *AppError {
	return New(ErrCodeUnauthorizedOwner, "Unauthorized: you are not the owner of this resource")
}

// AccountNotVerified creates an error for operations that need a verified account.
func AccountNotVerified() *AppError {
	return New(ErrCodeAccountNotVerified, "User account is not verified")
}

// --- Users and credentials ---

func UserNotFound() *AppError {
	return New(ErrCodeUserNotFound, "User not found")
}

func InvalidOTP() *AppError {
	return New(ErrCodeInvalidOTP, "Invalid or expired OTP")
}

func OtpCreation() *AppError {
	return New(ErrCodeOtpCreation, "Error generating OTP, try again")
}

func EmailAndIDNotFromSameUser() *AppError {
	return New(ErrCodeEmailIDMismatch, "The provided email and id do not belong to the same user")
}

func DuplicateEmail() *AppError {
	return New(ErrCodeDuplicateEmail, "Email already registered")
}

func IncorrectPassword() *AppError {
	return New(ErrCodeIncorrectPassword, "Incorrect password")
}

// InvalidUserStatus creates an error for a status transition that is not allowed.
func InvalidUserStatus(reason string) *AppError {
	return New(ErrCodeInvalidUserStatus, reason)
}

// InvalidID creates an error for a non-positive or non-numeric identifier.
func InvalidID(raw string) *AppError {
	return New(ErrCodeInvalidID, "Id must be a positive integer").WithDetail("id", raw)
}

// NotFound creates an error for an unknown route or resource.
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource))
}

// Validation creates an error carrying per-field failures.
func Validation(fields []FieldError) *AppError {
	e := New(ErrCodeInvalidInput, "Validation failed")
	e.Fields = fields
	return e
}

// InvalidInput creates a validation error for a single field.
func InvalidInput(field, reason string) *AppError {
	return Validation([]FieldError{{Field: field, Message: reason}})
}

// --- Infrastructure ---

// ExternalService creates an error for a failed or unreachable downstream call.
func ExternalService(service string, cause error) *AppError {
	return New(ErrCodeExternalService, fmt.Sprintf("Error communicating with %s", service)).
		WithDetail("service", service).
		WithCause(cause)
}

// ServiceUnavailable creates an error for a dependency that is not ready.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service)).
		WithDetail("service", service)
}

// RateLimited creates an error for a caller that exceeded its request budget.
func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests, slow down")
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.").WithCause(cause)
}
