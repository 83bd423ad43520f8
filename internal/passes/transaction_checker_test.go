package passes

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/circuitc/internal/asg"
	"github.com/orizon-lang/circuitc/internal/diagnostics"
	cerrors "github.com/orizon-lang/circuitc/internal/errors"
	"github.com/orizon-lang/circuitc/internal/network"
	"github.com/orizon-lang/circuitc/internal/position"
)

func testProfile(maxTransitions int) network.Profile {
	return network.Profile{
		Name:             "test",
		Version:          "2.0.0",
		MaxTransitions:   maxTransitions,
		MaxInputRecords:  2,
		MaxOutputRecords: 2,
	}
}

func codes(h *diagnostics.Handler) []string {
	var out []string
	for _, d := range h.Errors() {
		out = append(out, d.Code)
	}
	return out
}

func TestCountRecords(t *testing.T) {
	b := newProgramBuilder()
	notRecord := b.circuit("Record2", 101, asg.AnnotationCoreCircuit)
	unmarked := b.circuit("Token", 102)
	record := b.recordType()

	h := diagnostics.NewHandler()
	checker := NewTransactionChecker(testProfile(10))
	checker.ctx = b.ctx
	checker.handler = h

	tests := []struct {
		name     string
		typ      asg.Type
		expected int
	}{
		{"record", record, 1},
		{"primitive", asg.Prim(asg.U32), 0},
		{"other circuit", &asg.CircuitType{Circuit: notRecord.ID, Name: notRecord.Name}, 0},
		{"unmarked circuit", &asg.CircuitType{Circuit: unmarked.ID, Name: unmarked.Name}, 0},
		{"tuple", asg.Tuple(record, asg.Prim(asg.U32), record), 2},
		{"array", &asg.ArrayType{Element: record, Length: 4}, 4},
		{"nested", asg.Tuple(&asg.ArrayType{Element: asg.Tuple(record, record), Length: 3}, record), 7},
		{"empty tuple", asg.Unit(), 0},
		{"saturated array", &asg.ArrayType{Element: &asg.ArrayType{Element: record, Length: math.MaxUint32}, Length: math.MaxUint32}, math.MaxInt},
		{"saturated tuple", asg.Tuple(&asg.ArrayType{Element: &asg.ArrayType{Element: record, Length: math.MaxUint32}, Length: math.MaxUint32}, record), math.MaxInt},
		{"empty huge array", &asg.ArrayType{Element: &asg.ArrayType{Element: asg.Prim(asg.U8), Length: math.MaxUint32}, Length: math.MaxUint32}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, checker.CountRecords(tt.typ, span(1)))
		})
	}
	assert.False(t, h.HasErrors())
}

func TestCountRecordsUnsizedArray(t *testing.T) {
	b := newProgramBuilder()
	h := diagnostics.NewHandler()
	checker := NewTransactionChecker(testProfile(10))
	checker.ctx = b.ctx
	checker.handler = h

	unsized := &asg.ArrayWithoutSizeType{Element: b.recordType()}
	assert.Equal(t, 1, checker.CountRecords(asg.Tuple(unsized, b.recordType()), span(7)))

	require.Equal(t, 1, h.Len())
	assert.Equal(t, cerrors.CodeRecordInUnsizedArray, h.Errors()[0].Code)
	assert.Equal(t, span(7), h.Errors()[0].Span)

	assert.Equal(t, 0, checker.CountRecords(&asg.ArrayWithoutSizeType{Element: asg.Prim(asg.U8)}, span(8)))
	assert.Equal(t, 1, h.Len())
}

func TestTransactionCheckerHugeRecordArrays(t *testing.T) {
	b := newProgramBuilder()
	huge := &asg.ArrayType{Element: &asg.ArrayType{Element: b.recordType(), Length: math.MaxUint32}, Length: math.MaxUint32}
	b.transition("flood", 1, huge, huge)

	h := diagnostics.NewHandler()
	_, err := NewTransactionChecker(testProfile(10)).Run(h, b.program)
	require.NoError(t, err)

	require.Equal(t, []string{cerrors.CodeInputRecordLimit, cerrors.CodeOutputRecordLimit}, codes(h))
	assert.Equal(t, fmt.Sprintf("transition input is at most 2 records, found %d", math.MaxInt), h.Errors()[0].Message)
}

func TestTransactionCheckerUnsizedArgumentSpan(t *testing.T) {
	b := newProgramBuilder()
	f := b.transition("pay", 1, asg.Unit(), asg.Prim(asg.U64), &asg.ArrayWithoutSizeType{Element: b.recordType()})
	f.Arguments[1].Span = position.Point("prog.yaml", 4, 9)

	h := diagnostics.NewHandler()
	_, err := NewTransactionChecker(testProfile(10)).Run(h, b.program)
	require.NoError(t, err)

	require.Equal(t, []string{cerrors.CodeRecordInUnsizedArray}, codes(h))
	assert.Equal(t, position.Point("prog.yaml", 4, 9), h.Errors()[0].Span)
}

func TestTransactionCheckerValidTransition(t *testing.T) {
	b := newProgramBuilder()
	b.transition("transfer", 1, asg.Tuple(b.recordType(), b.recordType()), b.recordType(), asg.Prim(asg.U64))
	b.function("helper", 2, asg.NewAnnotations(), asg.Tuple(b.recordType(), b.recordType(), b.recordType()))

	h := diagnostics.NewHandler()
	checker := NewTransactionChecker(testProfile(10))
	_, err := checker.Run(h, b.program)
	require.NoError(t, err)
	assert.Empty(t, h.Errors())
	assert.Equal(t, 1, checker.Transitions())
}

func TestTransactionCheckerMaximumTransitions(t *testing.T) {
	b := newProgramBuilder()
	b.transition("first", 1, asg.Unit())
	b.transition("second", 2, asg.Unit())

	h := diagnostics.NewHandler()
	checker := NewTransactionChecker(testProfile(1))
	_, err := checker.Run(h, b.program)
	require.NoError(t, err)

	require.Equal(t, 1, h.Len())
	assert.Equal(t, cerrors.CodeExceededTransitions, h.Errors()[0].Code)
	assert.Equal(t, span(2), h.Errors()[0].Span)
	assert.Equal(t, 2, checker.Transitions())
}

func TestTransactionCheckerReportsEveryViolation(t *testing.T) {
	b := newProgramBuilder()
	b.transition("first", 1, asg.Unit())
	b.transition("second", 2, asg.Unit())
	b.transition("third", 3, asg.Unit())

	h := diagnostics.NewHandler()
	_, err := NewTransactionChecker(testProfile(1)).Run(h, b.program)
	require.NoError(t, err)
	assert.Equal(t, []string{cerrors.CodeExceededTransitions, cerrors.CodeExceededTransitions}, codes(h))
}

func TestTransactionCheckerRecordLimits(t *testing.T) {
	b := newProgramBuilder()
	r := b.recordType()
	b.transition("inputs", 1, asg.Unit(), r, r, r)
	b.transition("outputs", 2, &asg.ArrayType{Element: r, Length: 3}, r)

	h := diagnostics.NewHandler()
	_, err := NewTransactionChecker(testProfile(10)).Run(h, b.program)
	require.NoError(t, err)

	require.Equal(t, []string{cerrors.CodeInputRecordLimit, cerrors.CodeOutputRecordLimit}, codes(h))
	assert.Equal(t, "transition input is at most 2 records, found 3", h.Errors()[0].Message)
	assert.Equal(t, span(1), h.Errors()[0].Span)
	assert.Equal(t, span(2), h.Errors()[1].Span)
}

func TestTransactionCheckerDiagnosticOrder(t *testing.T) {
	b := newProgramBuilder()
	r := b.recordType()
	b.transition("a", 1, &asg.ArrayType{Element: r, Length: 3}, &asg.ArrayWithoutSizeType{Element: r})
	b.transition("b", 2, asg.Unit())

	h := diagnostics.NewHandler()
	_, err := NewTransactionChecker(testProfile(1)).Run(h, b.program)
	require.NoError(t, err)

	assert.Equal(t, []string{
		cerrors.CodeRecordInUnsizedArray,
		cerrors.CodeOutputRecordLimit,
		cerrors.CodeExceededTransitions,
	}, codes(h))
}

func TestTransactionCheckerMissingTransaction(t *testing.T) {
	b := newProgramBuilder()
	b.transition("ok", 1, asg.Unit())
	b.function("broken", 2, annotations(2, asg.AnnotationTransition), asg.Unit())
	b.function("also_broken", 3, annotations(3, asg.AnnotationTransaction), asg.Unit())

	h := diagnostics.NewHandler()
	checker := NewTransactionChecker(testProfile(10))
	_, err := checker.Run(h, b.program)
	require.Error(t, err)

	ce, ok := err.(*cerrors.CompilerError)
	require.True(t, ok)
	assert.True(t, ce.Fatal)
	assert.Equal(t, cerrors.CodeMissingPairedAnnotation, ce.Code)
	assert.Equal(t, span(2), ce.Span)

	// The walk stopped at the first violation.
	require.Equal(t, 1, h.Len())
	assert.Same(t, ce, h.Fatal())
	assert.Equal(t, 1, checker.Transitions())
}

func TestTransactionCheckerMissingTransition(t *testing.T) {
	b := newProgramBuilder()
	b.function("broken", 4, annotations(4, asg.AnnotationTransaction), asg.Unit())

	h := diagnostics.NewHandler()
	_, err := NewTransactionChecker(testProfile(10)).Run(h, b.program)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "annotated @transaction but not @transition")
}

func TestTransactionCheckerCircuitMembers(t *testing.T) {
	b := newProgramBuilder()
	r := b.recordType()
	member := &asg.Function{
		Name:        "mint",
		Span:        span(6),
		Annotations: annotations(6, asg.AnnotationTransition, asg.AnnotationTransaction),
		Output:      asg.Tuple(r, r, r),
	}
	b.ctx.AllocFunction(member)
	token := b.circuit("Token", 5)
	member.Circuit = token.ID
	token.Members = []asg.CircuitMember{
		{Variable: &asg.Variable{Name: "owner", Type: asg.Prim(asg.Address)}},
		{Function: member.ID},
	}

	h := diagnostics.NewHandler()
	checker := NewTransactionChecker(testProfile(10))
	_, err := checker.Run(h, b.program)
	require.NoError(t, err)
	assert.Equal(t, []string{cerrors.CodeOutputRecordLimit}, codes(h))
	assert.Equal(t, 1, checker.Transitions())
}

func TestTransactionCheckerRequiresCoreCircuit(t *testing.T) {
	ctx := asg.NewContext()
	program := asg.NewProgram("test", ctx)
	fake := &asg.Circuit{Name: asg.RecordCircuitName, Annotations: asg.NewAnnotations()}
	program.AddCircuit(fake)
	recordLike := &asg.CircuitType{Circuit: fake.ID, Name: fake.Name}
	program.AddFunction(&asg.Function{
		Name:        "send",
		Span:        span(1),
		Annotations: annotations(1, asg.AnnotationTransition, asg.AnnotationTransaction),
		Arguments: []*asg.Variable{
			{Name: "a", Type: recordLike},
			{Name: "b", Type: recordLike},
			{Name: "c", Type: recordLike},
		},
		Output: asg.Unit(),
	})

	h := diagnostics.NewHandler()
	_, err := NewTransactionChecker(testProfile(10)).Run(h, program)
	require.NoError(t, err)
	assert.Empty(t, h.Errors())
}
