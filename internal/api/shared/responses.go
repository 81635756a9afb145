package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskvault/internal/redact"
	"github.com/phrazzld/taskvault/internal/store"
)

// Envelope is the uniform response wrapper. Success responses carry data
// and optionally a message; failures carry error, code and optional
// details. Timestamp is always set.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"`
	Details    any         `json:"details,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Pagination is the page bookkeeping attached to list responses.
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// debugErrorDetails controls whether error envelopes carry the underlying
// error string under details.cause. The cause is still redacted before it
// is attached. Set once at startup, before the server accepts traffic.
var debugErrorDetails bool

// SetDebugErrorDetails toggles the details.cause field on error envelopes.
// Enable it outside production so clients see what actually failed.
func SetDebugErrorDetails(enabled bool) {
	debugErrorDetails = enabled
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel bool
	details         any
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to
// WARN level instead of the default DEBUG level. Use for important
// operational issues like repeated auth failures.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// WithDetails returns a ResponseOption that attaches structured details
// (e.g. per-field validation failures) to the error envelope.
func WithDetails(details any) ResponseOption {
	return func(opts *responseOptions) {
		opts.details = details
	}
}

// RespondWithJSON writes a JSON response with the given status code and body.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes a success envelope around data.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data any) {
	RespondWithJSON(w, r, status, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// RespondWithMessage writes a success envelope carrying a human message
// alongside optional data.
func RespondWithMessage(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	RespondWithJSON(w, r, status, Envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// RespondWithPage writes a success envelope around one page of items,
// with the pagination block filled in from the store page.
func RespondWithPage[T any](w http.ResponseWriter, r *http.Request, status int, page store.Page[T]) {
	RespondWithJSON(w, r, status, Envelope{
		Success: true,
		Data:    page.Items,
		Pagination: &Pagination{
			Page:        page.Page,
			Limit:       page.Limit,
			Total:       page.Total,
			TotalPages:  page.TotalPages,
			HasNextPage: page.HasNextPage,
			HasPrevPage: page.HasPrevPage,
		},
		Timestamp: time.Now().UTC(),
	})
}

// RespondWithError writes a JSON error envelope with the given status,
// machine-readable code and message. It also sets the TraceID from the
// request context if available.
func RespondWithError(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code, message string,
	opts ...ResponseOption,
) {
	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"code", code,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, Envelope{
		Success:   false,
		Error:     message,
		Code:      code,
		Details:   responseOpts.details,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	})
}

// RespondWithErrorAndLog writes a JSON error envelope and also logs the
// underlying error. The envelope carries only the sanitized user message;
// the raw error goes to the log, redacted.
//
// Log level strategy:
//   - 5xx errors: always logged at ERROR level
//   - 4xx errors: logged at DEBUG level by default, WARN with
//     WithElevatedLogLevel()
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code, userMessage string,
	err error,
	opts ...ResponseOption,
) {
	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("code", code),
		slog.String("user_message", userMessage),
	}

	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case status == http.StatusTooManyRequests:
		logLevel = slog.LevelWarn
	case responseOpts.elevateLogLevel:
		logLevel = slog.LevelWarn
	}
	slog.LogAttrs(r.Context(), logLevel, "request failed", logAttrs...)

	details := responseOpts.details
	if debugErrorDetails && err != nil {
		details = attachCause(details, redact.Error(err))
	}

	RespondWithJSON(w, r, status, Envelope{
		Success:   false,
		Error:     userMessage,
		Code:      code,
		Details:   details,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	})
}

// attachCause merges the redacted error string into whatever details the
// caller supplied, without mutating the caller's map.
func attachCause(details any, cause string) any {
	switch d := details.(type) {
	case nil:
		return map[string]string{"cause": cause}
	case map[string]string:
		merged := make(map[string]string, len(d)+1)
		for k, v := range d {
			merged[k] = v
		}
		merged["cause"] = cause
		return merged
	default:
		return map[string]any{"cause": cause, "fields": d}
	}
}
