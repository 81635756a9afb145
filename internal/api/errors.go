package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/taskvault/internal/api/shared"
	"github.com/phrazzld/taskvault/internal/domain"
	"github.com/phrazzld/taskvault/internal/service"
	"github.com/phrazzld/taskvault/internal/service/auth"
	"github.com/phrazzld/taskvault/internal/store"
)

// Machine-readable error codes carried in the response envelope. Clients
// branch on these instead of parsing messages.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeAuthenticationError = "AUTHENTICATION_ERROR"
	CodeAuthorizationError  = "AUTHORIZATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError

	switch {
	// Validation errors
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidDueDate),
		errors.Is(err, service.ErrEmptyUpdate),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToCode returns the machine-readable error code for an error,
// aligned with MapErrorToStatusCode.
func MapErrorToCode(err error) string {
	switch MapErrorToStatusCode(err) {
	case http.StatusBadRequest:
		return CodeValidationError
	case http.StatusUnauthorized:
		return CodeAuthenticationError
	case http.StatusForbidden:
		return CodeAuthorizationError
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeInternalError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError

	switch {
	// Validation errors carry their own field-level message
	case errors.As(err, &validationErr):
		return validationErr.Field + " " + validationErr.Message

	// Domain validation sentinels carry a safe, human-readable message.
	case errors.Is(err, domain.ErrValidation):
		return err.Error()

	case errors.Is(err, service.ErrEmptyUpdate):
		return "Update must include at least one field"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken):
		return "Access token required"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid or expired token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes a consistent error response for any internal error.
// The status code, error code and user message are derived from the error
// type; defaultMessage overrides the derived message when non-empty and the
// error is not classifiable. The raw error is logged, never sent.
func HandleAPIError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	defaultMessage string,
	opts ...shared.ResponseOption,
) {
	status := MapErrorToStatusCode(err)
	code := MapErrorToCode(err)

	message := GetSafeErrorMessage(err)
	if defaultMessage != "" && status == http.StatusInternalServerError {
		message = defaultMessage
	}

	shared.RespondWithErrorAndLog(w, r, status, code, message, err, opts...)
}

// ValidationDetails flattens a validator.ValidationErrors into a
// field-to-message map suitable for the details block of an error envelope.
func ValidationDetails(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	details := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		field := strings.ToLower(fieldErr.Field()[:1]) + fieldErr.Field()[1:]
		details[field] = validationTagMessage(fieldErr)
	}
	return details
}

// HandleValidationError writes a 400 response for request-body validation
// failures, attaching per-field messages when the error came from the
// validator.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	details := ValidationDetails(err)

	message := "Validation failed"
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		message = validationErr.Field + " " + validationErr.Message
	}

	opts := []shared.ResponseOption{}
	if details != nil {
		opts = append(opts, shared.WithDetails(details))
	}
	shared.RespondWithErrorAndLog(
		w,
		r,
		http.StatusBadRequest,
		CodeValidationError,
		message,
		err,
		opts...,
	)
}

// validationTagMessage maps validation tags to user-friendly error messages
func validationTagMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short (minimum " + fieldErr.Param() + ")"
	case "max":
		return "is too long (maximum " + fieldErr.Param() + ")"
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}
