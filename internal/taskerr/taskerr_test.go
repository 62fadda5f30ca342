package taskerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct error", New(NotFound, "task missing"), NotFound},
		{"wrapped once", fmt.Errorf("generate: %w", New(CycleDetected, "a -> b")), CycleDetected},
		{"wrapped twice", fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", New(Timeout, "deadline"))), Timeout},
		{"plain error", errors.New("boom"), Kind("")},
		{"nil", nil, Kind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("insert break: %w", Newf(InvalidDuration, "duration %d below minimum", 3))

	if !IsKind(err, InvalidDuration) {
		t.Error("IsKind(InvalidDuration) = false, want true")
	}
	if IsKind(err, NotFound) {
		t.Error("IsKind(NotFound) = true, want false")
	}
}

func TestErrorIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("op: %w", New(StorageUnavailable, "sqlite locked"))

	if !errors.Is(err, &Error{Kind: StorageUnavailable}) {
		t.Error("errors.Is should match taxonomy errors by kind")
	}
	if errors.Is(err, &Error{Kind: Validation}) {
		t.Error("errors.Is matched a different kind")
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(StorageUnavailable, cause, "store unreachable")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if err.Error() != "store unreachable" {
		t.Errorf("Error() = %q, want %q", err.Error(), "store unreachable")
	}
}

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message wins", &Error{Kind: NotFound, Message: "no such task"}, "no such task"},
		{"kind only", &Error{Kind: NoTasksForDate}, "no_tasks_for_date"},
		{"kind plus cause", &Error{Kind: StorageUnavailable, Err: errors.New("io")}, "storage_unavailable: io"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKind_Retryable(t *testing.T) {
	retryable := []Kind{StorageUnavailable, Timeout}
	for _, k := range retryable {
		if !k.Retryable() {
			t.Errorf("%s should be retryable", k)
		}
	}
	terminal := []Kind{Validation, NotFound, NoTasksForDate, CycleDetected, IllegalTransition, InvalidDuration, PartialApply}
	for _, k := range terminal {
		if k.Retryable() {
			t.Errorf("%s should not be retryable", k)
		}
	}
}
