package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", ErrProjectNotFound, http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("load task: %w", ErrTaskNotFound), http.StatusNotFound, "TASK_NOT_FOUND"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"conflict", ErrDuplicateCollaborator, http.StatusConflict, "DUPLICATE_COLLABORATOR"},
		{"invalid", ErrInvalidCollaborator, http.StatusBadRequest, "INVALID_COLLABORATOR"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalDetails(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.3:3306: i/o timeout"))
	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Error)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", ErrUserNotFound)))
	assert.False(t, IsNotFound(ErrForbidden))
}
