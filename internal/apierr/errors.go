package apierr

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/physim/physim/internal/logger"
)

// ErrorCode represents a structured error code, one per error kind.
type ErrorCode string

const (
	// ErrConfigParse covers a malformed pipeline description or bad
	// element property value. Fails pipeline construction; nothing starts.
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// ErrElementNotFound means the registry has no constructor for the
	// requested element name.
	ErrElementNotFound ErrorCode = "ELEMENT_NOT_FOUND"

	// ErrElementLoadFailed means a plugin file exists but failed to open
	// or register (I/O error, missing export).
	ErrElementLoadFailed ErrorCode = "ELEMENT_LOAD_FAILED"

	// ErrABIMismatch means a plugin's ABI tag doesn't match this host's.
	// Not fatal: the module is skipped and the scan continues.
	ErrABIMismatch ErrorCode = "ABI_MISMATCH"

	// ErrDegenerateTree means tree insertion exceeded the recursion guard.
	// This is a bug signal (violated extent precondition), not a
	// recoverable runtime condition.
	ErrDegenerateTree ErrorCode = "DEGENERATE_TREE"

	// ErrSinkClosed means the render sink's channel or connection closed;
	// the worker exits its loop cleanly on this error.
	ErrSinkClosed ErrorCode = "SINK_CLOSED"

	// ErrElementInternal means an element panicked inside apply/integrate/
	// render. Caught at the worker boundary; the step is aborted.
	ErrElementInternal ErrorCode = "ELEMENT_INTERNAL"
)

// Error is a structured error carrying a code, a human-readable message,
// and optional details for diagnostics.
type Error struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	RunID   string                 `json:"run_id,omitempty"`
	status  int
}

// ErrorResponse is the top-level error response wrapper used by the admin
// HTTP server.
type ErrorResponse struct {
	Error *Error `json:"error"`
}

// New creates a structured error. status is the HTTP status the admin
// server reports when this error surfaces over an admin endpoint; it is
// ignored everywhere else.
func New(code ErrorCode, message string, status int) *Error {
	return &Error{Code: code, Message: message, status: status}
}

// WithDetails attaches structured diagnostic fields to the error.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// WithRunID tags the error with the pipeline run id it occurred under.
func (e *Error) WithRunID(runID string) *Error {
	e.RunID = runID
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Status returns the HTTP status code associated with this error.
func (e *Error) Status() int {
	return e.status
}

// WriteError writes a structured error response to an HTTP response writer.
func WriteError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status())
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// WriteErrorWithContext writes a structured error response, tagging it with
// the run id carried on the request's context, if any.
func WriteErrorWithContext(w http.ResponseWriter, r *http.Request, err *Error) {
	if runID := GetRunID(r.Context()); runID != "" {
		err = err.WithRunID(runID)
	}
	WriteError(w, err)
}

// GetRunID extracts the pipeline run id from the context, if present.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(logger.RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// ConfigParse creates a pipeline-construction error for a malformed
// description or property value.
func ConfigParse(message string) *Error {
	if message == "" {
		message = "invalid pipeline description"
	}
	return New(ErrConfigParse, message, http.StatusBadRequest)
}

// ElementNotFound creates an error for an unknown element name.
func ElementNotFound(name string) *Error {
	return New(ErrElementNotFound, "no element registered with name: "+name, http.StatusNotFound).
		WithDetails(map[string]interface{}{"element": name})
}

// ElementLoadFailed creates an error for a plugin that exists but could
// not be opened or registered.
func ElementLoadFailed(path string, cause error) *Error {
	e := New(ErrElementLoadFailed, "failed to load element plugin: "+path, http.StatusInternalServerError).
		WithDetails(map[string]interface{}{"path": path})
	if cause != nil {
		e.Details["cause"] = cause.Error()
	}
	return e
}

// ABIMismatch creates the non-fatal diagnostic reported when a plugin's
// ABI tag doesn't match the host's.
func ABIMismatch(path, want, got string) *Error {
	return New(ErrABIMismatch, "plugin ABI mismatch: "+path, http.StatusOK).
		WithDetails(map[string]interface{}{"path": path, "want": want, "got": got})
}

// DegenerateTree creates the error reported, after recovering the panic,
// when tree insertion exceeds the recursion guard.
func DegenerateTree(levels int) *Error {
	return New(ErrDegenerateTree, "tree insertion exceeded recursion guard", http.StatusInternalServerError).
		WithDetails(map[string]interface{}{"levels": levels})
}

// SinkClosed creates the error a render sink returns once its underlying
// channel or connection has closed.
func SinkClosed(sink string) *Error {
	return New(ErrSinkClosed, "render sink closed: "+sink, http.StatusOK).
		WithDetails(map[string]interface{}{"sink": sink})
}

// ElementInternal creates the error reported when an element panics during
// apply/integrate/render, recovered at the worker boundary.
func ElementInternal(element string, cause interface{}) *Error {
	return New(ErrElementInternal, "element panicked: "+element, http.StatusInternalServerError).
		WithDetails(map[string]interface{}{"element": element, "panic": cause})
}
