package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories
// =========================================================================

// ErrAlreadyExists wraps a uniqueness violation.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// =========================================================================
// Auth
// =========================================================================

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials",
	http.StatusUnauthorized,
)

var ErrEmailNotVerified = New(
	CodeEmailNotVerified,
	"auth",
	"Email not verified",
	http.StatusUnauthorized,
)

// ErrCouldNotValidateCredentials is the single answer for every bearer-token failure.
var ErrCouldNotValidateCredentials = New(
	CodeUnauthorized,
	"auth",
	"Could not validate credentials",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Forbidden",
	http.StatusForbidden,
)

var ErrAdminRegistration = New(
	CodeForbidden,
	"auth",
	"Admin accounts cannot be registered",
	http.StatusForbidden,
)

// ErrInvalidToken covers refresh, confirmation and reset tokens.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"token",
	"Token is invalid",
	http.StatusBadRequest,
)

var ErrTokenExpired = New(
	CodeTokenExpired,
	"token",
	"Token has expired",
	http.StatusBadRequest,
)

var ErrInvalidRefreshToken = New(
	CodeInvalidToken,
	"token",
	"Invalid refresh token",
	http.StatusBadRequest,
)

var ErrVerification = New(
	CodeInvalidToken,
	"token",
	"Verification error",
	http.StatusBadRequest,
)

// =========================================================================
// Users
// =========================================================================

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"user",
	"User with this email already exists",
	http.StatusConflict,
)

var ErrUsernameAlreadyExists = New(
	CodeAlreadyExists,
	"user",
	"User with this username already exists",
	http.StatusConflict,
)

// =========================================================================
// Contacts
// =========================================================================

var ErrContactNotFound = New(
	CodeNotFound,
	"contact",
	"Contact not found",
	http.StatusNotFound,
)

// ErrContactEmailExists is a 400, not a 409: clients of the contacts API
// treat it as an input error.
var ErrContactEmailExists = New(
	CodeAlreadyExists,
	"contact",
	"Contact with this email already exists",
	http.StatusBadRequest,
)

// =========================================================================
// Uploads and infrastructure
// =========================================================================

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

var ErrUploadFailed = New(
	CodeExternalServiceError,
	"upload",
	"Failed to upload file",
	http.StatusBadGateway,
)

var ErrRateLimitExceeded = New(
	CodeLimitExceeded,
	"rate_limit",
	"Rate limit exceeded",
	http.StatusTooManyRequests,
)

var ErrDatabaseUnavailable = New(
	CodeDatabaseError,
	"system",
	"Error connecting to the database",
	http.StatusInternalServerError,
)
