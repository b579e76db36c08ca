package contract

import (
	"errors"
	"fmt"
	"maps"
)

// ErrorKind groups engine failures by what went wrong, not by which layer failed.
type ErrorKind string

// All error kinds returned by engine operations.
const (
	KindRepositoryNotFound ErrorKind = "repository-not-found"
	KindPathInvalid        ErrorKind = "path-invalid"
	KindCollectionFailed   ErrorKind = "collection-failed"
	KindCorrelationFailed  ErrorKind = "correlation-failed"
	KindQueryFailed        ErrorKind = "query-failed"
	KindAnalysisFailed     ErrorKind = "analysis-failed"
)

// ErrorCode is the machine-readable code carried by an EngineError.
type ErrorCode string

// All error codes.
const (
	CodeRepositoryNotFound ErrorCode = "REPOSITORY_NOT_FOUND"
	CodeInvalidPath        ErrorCode = "INVALID_REPOSITORY_PATH"
	CodeCollectionFailed   ErrorCode = "COLLECTION_FAILED"
	CodeBatchFailed        ErrorCode = "BATCH_FAILED"
	CodeCorrelationFailed  ErrorCode = "CORRELATION_FAILED"
	CodeQueryFailed        ErrorCode = "QUERY_FAILED"
	CodeCommitNotFound     ErrorCode = "COMMIT_NOT_FOUND"
	CodeAnalysisFailed     ErrorCode = "ANALYSIS_FAILED"
)

// EngineError is the only error type returned across the engine boundary.
type EngineError struct {
	Kind    ErrorKind      `json:"kind"`
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// NewEngineError creates an EngineError wrapping cause, which may be nil.
func NewEngineError(kind ErrorKind, code ErrorCode, message string, cause error) *EngineError {
	return &EngineError{
		Kind:    kind,
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error {
	return e.cause
}

// Is matches another EngineError by kind, so errors.Is(err, &EngineError{Kind: k}) works.
func (e *EngineError) Is(target error) bool {
	var t *EngineError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

// WithDetails returns a copy of e with the given details merged in.
func (e *EngineError) WithDetails(details map[string]any) *EngineError {
	out := *e
	out.Details = make(map[string]any, len(e.Details)+len(details))
	maps.Copy(out.Details, e.Details)
	maps.Copy(out.Details, details)
	return &out
}

// WithDetail is WithDetails for a single key.
func (e *EngineError) WithDetail(key string, value any) *EngineError {
	return e.WithDetails(map[string]any{key: value})
}

// KindOf returns the kind of err when it is an EngineError, or "" otherwise.
func KindOf(err error) ErrorKind {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

// CodeOf returns the code of err when it is an EngineError, or "" otherwise.
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
