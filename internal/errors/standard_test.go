package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/circuitc/internal/position"
)

func TestCompilerErrorFormat(t *testing.T) {
	span := position.Point("main.yaml", 4, 2)
	err := DivisionByZero(span)

	assert.Equal(t, "[E0101] main.yaml:4:2-3: attempt to divide by zero", err.Error())
	assert.Equal(t, CategoryEvaluation, err.Category)
	assert.False(t, err.Fatal)
}

func TestWithSpan(t *testing.T) {
	span := position.Point("main.yaml", 1, 1)

	unattributed := InvalidOperation("operator %s is not defined for %s", "+", "bool")
	attributed := unattributed.WithSpan(span)
	assert.NotSame(t, unattributed, attributed)
	assert.False(t, unattributed.Span.IsValid())
	assert.Equal(t, span, attributed.Span)

	other := position.Point("main.yaml", 7, 7)
	assert.Same(t, attributed, attributed.WithSpan(other))
}

func TestFatalOnlyForPairing(t *testing.T) {
	span := position.Point("main.yaml", 1, 1)
	recoverable := []*CompilerError{
		IntegerOverflow("255u8 + 1u8", "u8", span),
		IndexOutOfBounds("4", 2, span),
		ExceededMaximumTransitions(255, span),
		InputRecordLimit(2, 3, span),
		OutputRecordLimit(2, 3, span),
		RecordInUnsizedArray("[Record; _]", span),
		InvalidAnnotation("bogus", span),
	}
	for _, err := range recoverable {
		assert.False(t, err.Fatal, err.Code)
	}

	fatal := MissingPairedAnnotation("main", "transition", "transaction", span)
	assert.True(t, fatal.Fatal)
	assert.Equal(t, CodeMissingPairedAnnotation, fatal.Code)
	assert.Contains(t, fatal.Message, "@transaction")
}

func TestCompilerErrorAs(t *testing.T) {
	wrapped := fmt.Errorf("pass failed: %w", OutputRecordLimit(2, 5, position.Span{}))

	var ce *CompilerError
	require.True(t, stderrors.As(wrapped, &ce))
	assert.Equal(t, CodeOutputRecordLimit, ce.Code)
	assert.Equal(t, "transition output is at most 2 records, found 5", ce.Message)
}
