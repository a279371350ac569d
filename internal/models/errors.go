package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors checked with errors.Is across the pipeline.
var (
	ErrAlreadyQueued       = errors.New("already enqueued")
	ErrQueueFull           = errors.New("queue is full")
	ErrNoProviderFound     = errors.New("no provider found")
	ErrUnsupportedItemType = errors.New("unsupported item type")
	ErrDimensionMismatch   = errors.New("embedding dimension mismatch")
)

// AbortError signals cooperative cancellation. It is never retried and is
// surfaced to the caller as a failed status with reason "Cancelled".
type AbortError struct {
	Reason string
}

func (e *AbortError) Error() string {
	if e.Reason != "" {
		return "aborted: " + e.Reason
	}
	return "aborted"
}

// Name returns the distinguished error name.
func (e *AbortError) Name() string { return "AbortError" }

// NewAbortError creates an abort error with an optional reason.
func NewAbortError(reason string) error {
	return &AbortError{Reason: reason}
}

// IsAbort reports whether err is (or wraps) an abort error.
func IsAbort(err error) bool {
	var abortErr *AbortError
	return errors.As(err, &abortErr)
}

// ValidationError carries an enumerated field-error map for invalid base,
// model reference, or item data.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a validation error for a single field.
func NewValidationError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// ServiceUnavailableError marks a provider that is configured but unusable
// (missing base URL, unreachable endpoint).
type ServiceUnavailableError struct {
	Service string
	Detail  string
}

func (e *ServiceUnavailableError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("service unavailable: %s: %s", e.Service, e.Detail)
	}
	return "service unavailable: " + e.Service
}

// IsServiceUnavailable reports whether err is (or wraps) a
// service-unavailable error.
func IsServiceUnavailable(err error) bool {
	var sErr *ServiceUnavailableError
	return errors.As(err, &sErr)
}
