package errors

import (
	"errors"
	"net/http"
)

// Not found.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
)

// Authentication and authorization.
var (
	// ErrUnauthenticated is returned when a request carries no usable identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller is authenticated but not allowed to act.
	ErrForbidden = errors.New("action not allowed")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountUnconfirmed is returned when logging into an account that was never confirmed.
	ErrAccountUnconfirmed = errors.New("account has not been confirmed")
	// ErrInvalidToken is returned when a one-time token is unknown or already used.
	ErrInvalidToken = errors.New("invalid token")
)

// Conflicts and business rule violations.
var (
	ErrEmailTaken            = errors.New("a user is already registered with that email")
	ErrDuplicateCollaborator = errors.New("user is already a collaborator of this project")
	ErrInvalidCollaborator   = errors.New("the project creator cannot be a collaborator")
	ErrInvalidDate           = errors.New("invalid date, expected YYYY-MM-DD or RFC3339")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrProjectNotFound, http.StatusNotFound, "PROJECT_NOT_FOUND"},
	{ErrTaskNotFound, http.StatusNotFound, "TASK_NOT_FOUND"},
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrAccountUnconfirmed, http.StatusForbidden, "ACCOUNT_UNCONFIRMED"},
	{ErrInvalidToken, http.StatusForbidden, "INVALID_TOKEN"},
	{ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
	{ErrDuplicateCollaborator, http.StatusConflict, "DUPLICATE_COLLABORATOR"},
	{ErrInvalidCollaborator, http.StatusBadRequest, "INVALID_COLLABORATOR"},
	{ErrInvalidDate, http.StatusBadRequest, "INVALID_DATE"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are
// matched with errors.Is; anything unknown becomes a 500 without details.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, m.err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrTaskNotFound)
}
