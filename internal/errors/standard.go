// Package errors provides the compiler error taxonomy shared by all passes.
package errors

import (
	"fmt"

	"github.com/orizon-lang/circuitc/internal/position"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryEvaluation ErrorCategory = "EVALUATION"
	CategoryStructural ErrorCategory = "STRUCTURAL"
	CategoryAnnotation ErrorCategory = "ANNOTATION"
)

// Error codes.
const (
	CodeEvaluation              = "E0100"
	CodeDivisionByZero          = "E0101"
	CodeIntegerOverflow         = "E0102"
	CodeIndexOutOfBounds        = "E0103"
	CodeExceededTransitions     = "E0370"
	CodeInputRecordLimit        = "E0371"
	CodeOutputRecordLimit       = "E0372"
	CodeRecordInUnsizedArray    = "E0373"
	CodeMissingPairedAnnotation = "E0374"
	CodeInvalidAnnotation       = "E0380"
)

// CompilerError is a diagnostic attributed to a source span. Fatal errors
// end compilation at the pass that raised them; all others are collected
// and the pass keeps going.
type CompilerError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Span     position.Span
	Fatal    bool
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Span, e.Message)
}

// NewCompilerError creates a new recoverable error
func NewCompilerError(category ErrorCategory, code, message string, span position.Span) *CompilerError {
	return &CompilerError{
		Category: category,
		Code:     code,
		Message:  message,
		Span:     span,
	}
}

// WithSpan returns a copy of e attributed to span when e has none.
func (e *CompilerError) WithSpan(span position.Span) *CompilerError {
	if e.Span.IsValid() {
		return e
	}
	c := *e
	c.Span = span
	return &c
}

// Evaluation errors

func DivisionByZero(span position.Span) *CompilerError {
	return NewCompilerError(CategoryEvaluation, CodeDivisionByZero,
		"attempt to divide by zero", span)
}

func IntegerOverflow(operation, typ string, span position.Span) *CompilerError {
	return NewCompilerError(CategoryEvaluation, CodeIntegerOverflow,
		fmt.Sprintf("%s overflows type %s", operation, typ), span)
}

// IndexOutOfBounds takes the index as text since a constant index may not
// fit in 64 bits.
func IndexOutOfBounds(index string, length uint64, span position.Span) *CompilerError {
	return NewCompilerError(CategoryEvaluation, CodeIndexOutOfBounds,
		fmt.Sprintf("index %s out of bounds for length %d", index, length), span)
}

func InvalidOperation(format string, args ...interface{}) *CompilerError {
	return NewCompilerError(CategoryEvaluation, CodeEvaluation,
		fmt.Sprintf(format, args...), position.Span{})
}

// Structural errors

func ExceededMaximumTransitions(max int, span position.Span) *CompilerError {
	return NewCompilerError(CategoryStructural, CodeExceededTransitions,
		fmt.Sprintf("a program may declare at most %d transition functions", max), span)
}

func InputRecordLimit(max, got int, span position.Span) *CompilerError {
	return NewCompilerError(CategoryStructural, CodeInputRecordLimit,
		fmt.Sprintf("transition input is at most %d records, found %d", max, got), span)
}

func OutputRecordLimit(max, got int, span position.Span) *CompilerError {
	return NewCompilerError(CategoryStructural, CodeOutputRecordLimit,
		fmt.Sprintf("transition output is at most %d records, found %d", max, got), span)
}

func RecordInUnsizedArray(typ string, span position.Span) *CompilerError {
	return NewCompilerError(CategoryStructural, CodeRecordInUnsizedArray,
		fmt.Sprintf("array of unknown size %s cannot hold records", typ), span)
}

// MissingPairedAnnotation is fatal.
func MissingPairedAnnotation(function, present, missing string, span position.Span) *CompilerError {
	e := NewCompilerError(CategoryStructural, CodeMissingPairedAnnotation,
		fmt.Sprintf("function %s is annotated @%s but not @%s", function, present, missing), span)
	e.Fatal = true
	return e
}

// Annotation errors

func InvalidAnnotation(name string, span position.Span) *CompilerError {
	return NewCompilerError(CategoryAnnotation, CodeInvalidAnnotation,
		fmt.Sprintf("unknown annotation @%s", name), span)
}
