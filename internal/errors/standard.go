// Package errors provides standardized error messaging for fuzzcheck.
package errors

import (
	"fmt"
	"runtime"
)

// ErrorCategory represents the closed set of error kinds spec.md section 7
// distinguishes: a mutator invariant violation, a serializer decode
// failure, a world-layer I/O error, a recorded test predicate failure, and
// an unavailable coverage instrumentation binding.
type ErrorCategory string

const (
	CategoryInvariant       ErrorCategory = "INVARIANT"
	CategorySerializer      ErrorCategory = "SERIALIZER"
	CategoryIO              ErrorCategory = "IO"
	CategoryTestFailure     ErrorCategory = "TEST_FAILURE"
	CategoryInstrumentation ErrorCategory = "INSTRUMENTATION"
)

// StandardError provides a consistent error format across pkg/driver,
// pkg/mutator, pkg/pool, and pkg/world.
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface.
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// NewStandardError creates a new standardized error, recording the name of
// its immediate caller.
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(1)

	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// InvariantViolation reports a Mutator.Validate failure: the input no
// longer satisfies its type's structural invariant and must be skipped
// rather than mutated further.
func InvariantViolation(mutatorName string) *StandardError {
	return NewStandardError(CategoryInvariant, "INVARIANT_VIOLATION",
		fmt.Sprintf("value failed validation for mutator %s", mutatorName),
		map[string]interface{}{"mutator": mutatorName})
}

// SerializerDecode reports a Serializer.FromData failure on a corpus or
// artifact file; the caller skips the file rather than treating this as
// fatal.
func SerializerDecode(path string) *StandardError {
	return NewStandardError(CategorySerializer, "DECODE_FAILED",
		fmt.Sprintf("failed to decode %s", path),
		map[string]interface{}{"path": path})
}

// WorldIO reports a filesystem failure writing or removing a corpus or
// artifact file; unlike the other categories here, this one is meant to
// propagate all the way to a nonzero process exit.
func WorldIO(op, path string, cause error) *StandardError {
	return NewStandardError(CategoryIO, "WORLD_IO",
		fmt.Sprintf("%s failed for %s: %v", op, path, cause),
		map[string]interface{}{"op": op, "path": path})
}

// TestFailure reports a predicate that returned false, panicked, or was
// interrupted by a crash signal.
func TestFailure(reason string) *StandardError {
	return NewStandardError(CategoryTestFailure, "PREDICATE_FAILED",
		reason, map[string]interface{}{"reason": reason})
}

// InstrumentationUnavailable reports a startup failure binding the
// coverage counter region spec.md section 6 describes: the instrumented
// binary exports no counter symbols, or they are zero-length.
func InstrumentationUnavailable(detail string) *StandardError {
	return NewStandardError(CategoryInstrumentation, "NO_COVERAGE_REGION",
		detail, map[string]interface{}{"detail": detail})
}
