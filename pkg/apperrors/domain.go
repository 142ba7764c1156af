package apperrors

import "net/http"

// Factories for wrapping repository errors, plus predefined variables for the
// static business-rule errors of the event domain.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and friends)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

var ErrUsernameAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Username already in use",
	http.StatusConflict,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid username or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken covers bad or expired access and refresh tokens.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrInvalidResetLink is the single generic answer for every reset-password
// failure mode: malformed token, unknown user, mismatch, expiry. One message
// so the endpoint leaks nothing about which part failed.
var ErrInvalidResetLink = New(
	CodeValidationFailed,
	"auth",
	"Invalid or expired reset link",
	http.StatusBadRequest,
)

// --- Events & registrations ---

var ErrNotEventOwner = New(
	CodeForbidden,
	"events",
	"Only the event creator may modify this event",
	http.StatusForbidden,
)

var ErrEventFull = New(
	CodeLimitExceeded,
	"events",
	"Event is full. All seats are taken.",
	http.StatusBadRequest,
)

var ErrAlreadyRegistered = New(
	CodeConflict,
	"events",
	"You are already registered for this event",
	http.StatusBadRequest,
)

var ErrRegistrationNotFound = New(
	CodeNotFound,
	"events",
	"Registration not found",
	http.StatusNotFound,
)
