// Package taskerr defines the error taxonomy shared by the scheduling,
// tracking and reporting services. Components raise the precise kind at the
// point of failure; orchestrating services add context with fmt.Errorf and
// %w, so KindOf works through arbitrary wrapping.
package taskerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that map errors to transport
// responses or retry decisions.
type Kind string

const (
	// Validation marks a field-level constraint violation.
	Validation Kind = "validation_error"
	// NotFound marks a missing task or report.
	NotFound Kind = "not_found"
	// NoTasksForDate marks report generation over an empty candidate set.
	NoTasksForDate Kind = "no_tasks_for_date"
	// CycleDetected marks a dependency cycle.
	CycleDetected Kind = "cycle_detected"
	// IllegalTransition marks a status change outside the allowed graph.
	IllegalTransition Kind = "illegal_transition"
	// InvalidDuration marks a break or task duration below the minimum.
	InvalidDuration Kind = "invalid_duration"
	// PartialApply marks a multi-document write that partially failed.
	PartialApply Kind = "partial_apply"
	// StorageUnavailable marks an underlying store failure.
	StorageUnavailable Kind = "storage_unavailable"
	// Timeout marks an operation that exceeded its deadline.
	Timeout Kind = "timeout"
)

// Retryable reports whether the caller may retry the operation unchanged.
func (k Kind) Retryable() bool {
	return k == StorageUnavailable || k == Timeout
}

// Error is the concrete error carried through the services.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Message is the human-readable description.
	Message string
	// Field names the offending field for validation errors.
	Field string
	// Edge names one cycle edge ("a -> b") for cycle errors.
	Edge string
	// Applied lists ids already written when a multi-document update
	// failed part way through.
	Applied []string
	// Err is the wrapped cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two taxonomy errors by kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New returns a taxonomy error with a fixed message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns a taxonomy error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first taxonomy error in err's chain, or
// the empty string when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains a taxonomy error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
