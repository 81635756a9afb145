package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/phrazzld/taskvault/internal/service"
	"github.com/phrazzld/taskvault/internal/service/auth"
	"github.com/phrazzld/taskvault/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "validation error",
			err:            domain.NewValidationError("title", "is required", domain.ErrValidation),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid ID",
			err:            domain.ErrInvalidID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty title",
			err:            domain.ErrEmptyTitle,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "title too long",
			err:            domain.ErrTitleTooLong,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "description too long",
			err:            domain.ErrDescriptionTooLong,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "password too short",
			err:            domain.ErrPasswordTooShort,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid priority",
			err:            domain.ErrInvalidPriority,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty update",
			err:            service.ErrEmptyUpdate,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrapped empty update",
			err:            domain.NewValidationError("update", "must include at least one field", service.ErrEmptyUpdate),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid entity",
			err:            store.ErrInvalidEntity,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing token",
			err:            auth.ErrMissingToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			err:            auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			err:            auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid credentials",
			err:            auth.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorized",
			err:            domain.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "task not found",
			err:            store.ErrTaskNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "user not found",
			err:            store.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "wrapped not found",
			err:            fmt.Errorf("getting task: %w", store.ErrTaskNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "email exists",
			err:            store.ErrEmailExists,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "duplicate",
			err:            store.ErrDuplicate,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown error",
			err:            errors.New("database exploded"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestMapErrorToCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{"validation", domain.ErrInvalidPriority, CodeValidationError},
		{"authentication", auth.ErrInvalidToken, CodeAuthenticationError},
		{"not found", store.ErrTaskNotFound, CodeNotFound},
		{"conflict", store.ErrEmailExists, CodeConflict},
		{"internal", errors.New("boom"), CodeInternalError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expectedCode, MapErrorToCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "An unexpected error occurred",
		},
		{
			name:     "validation error carries field message",
			err:      domain.NewValidationError("title", "is required", domain.ErrValidation),
			expected: "title is required",
		},
		{
			name:     "domain sentinel keeps its own message",
			err:      domain.ErrEmptyTitle,
			expected: domain.ErrEmptyTitle.Error(),
		},
		{
			name:     "task not found",
			err:      store.ErrTaskNotFound,
			expected: "Task not found",
		},
		{
			name:     "email exists",
			err:      store.ErrEmailExists,
			expected: "Email already exists",
		},
		{
			name:     "invalid credentials",
			err:      auth.ErrInvalidCredentials,
			expected: "Invalid email or password",
		},
		{
			name:     "invalid token",
			err:      auth.ErrInvalidToken,
			expected: "Invalid or expired token",
		},
		{
			name:     "missing token",
			err:      auth.ErrMissingToken,
			expected: "Access token required",
		},
		{
			name:     "unknown error never leaks details",
			err:      errors.New("pq: connection to 10.0.0.5 refused"),
			expected: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		err             error
		defaultMsg      string
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "classified error ignores default message",
			err:             store.ErrTaskNotFound,
			defaultMsg:      "Something else",
			expectedStatus:  http.StatusNotFound,
			expectedCode:    CodeNotFound,
			expectedMessage: "Task not found",
		},
		{
			name:            "unknown error uses default message",
			err:             errors.New("boom"),
			defaultMsg:      "Failed to list tasks",
			expectedStatus:  http.StatusInternalServerError,
			expectedCode:    CodeInternalError,
			expectedMessage: "Failed to list tasks",
		},
		{
			name:            "unknown error without default message",
			err:             errors.New("boom"),
			defaultMsg:      "",
			expectedStatus:  http.StatusInternalServerError,
			expectedCode:    CodeInternalError,
			expectedMessage: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/test", nil)

			HandleAPIError(w, r, tc.err, tc.defaultMsg)

			assert.Equal(t, tc.expectedStatus, w.Code)

			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tc.expectedCode, env.Code)
			assert.Equal(t, tc.expectedMessage, env.Error)
		})
	}
}

func TestValidationDetails(t *testing.T) {
	t.Parallel()

	validate := validator.New()

	err := validate.Struct(RegisterRequest{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	details := ValidationDetails(err)
	require.NotNil(t, details)
	assert.Contains(t, details["email"], "valid email")
	assert.Contains(t, details["password"], "too short")
}

func TestValidationDetailsNonValidatorError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ValidationDetails(errors.New("plain error")))
}
