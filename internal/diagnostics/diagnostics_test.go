package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	cerrors "github.com/orizon-lang/circuitc/internal/errors"
	"github.com/orizon-lang/circuitc/internal/position"
)

func TestHandlerKeepsEmissionOrder(t *testing.T) {
	h := NewHandler()
	assert.False(t, h.HasErrors())
	assert.NoError(t, h.Err())

	second := cerrors.DivisionByZero(position.Point("a.yaml", 1, 1))
	first := cerrors.InvalidAnnotation("nope", position.Point("a.yaml", 9, 1))
	h.Emit(first)
	h.Emit(nil)
	h.Emit(second)

	require.Equal(t, 2, h.Len())
	assert.Equal(t, []*cerrors.CompilerError{first, second}, h.Errors())
	assert.Equal(t, []*cerrors.CompilerError{second, first}, h.Sorted())
	assert.Equal(t, []*cerrors.CompilerError{second}, h.Since(1))
	assert.Nil(t, h.Since(2))
	assert.Nil(t, h.Fatal())

	errs := multierr.Errors(h.Err())
	require.Len(t, errs, 2)
	assert.Equal(t, first, errs[0])
	assert.Equal(t, 1, h.Count(cerrors.CategoryAnnotation))
	assert.Equal(t, 1, h.Count(cerrors.CategoryEvaluation))
}

func TestHandlerRemembersFirstFatal(t *testing.T) {
	h := NewHandler()
	span := position.Point("a.yaml", 2, 3)
	f1 := cerrors.MissingPairedAnnotation("main", "transition", "transaction", span)
	f2 := cerrors.MissingPairedAnnotation("other", "transaction", "transition", span)
	h.Emit(cerrors.DivisionByZero(span))
	h.Emit(f1)
	h.Emit(f2)

	assert.Same(t, f1, h.Fatal())
	assert.Equal(t, 3, h.Len())
}

func TestHandlerSummary(t *testing.T) {
	h := NewHandler()
	assert.Equal(t, "No diagnostics.", h.Summary())

	span := position.Point("a.yaml", 1, 1)
	h.Emit(cerrors.DivisionByZero(span))
	h.Emit(cerrors.IndexOutOfBounds("3", 2, span))
	h.Emit(cerrors.RecordInUnsizedArray("[Record; _]", span))

	assert.Equal(t, "Found 3 error(s).\n  evaluation: 2\n  structural: 1", h.Summary())
}

func TestRendererPlain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)
	r.AddSource(position.NewSourceFile("prog.yaml", "name: prog\n  value: 1u8 / 0u8\n"))

	span := position.Span{
		Start: position.Position{Filename: "prog.yaml", Line: 2, Column: 10},
		End:   position.Position{Filename: "prog.yaml", Line: 2, Column: 19},
	}
	require.NoError(t, r.Render(cerrors.DivisionByZero(span)))

	expected := "error[E0101]: attempt to divide by zero\n" +
		"  --> prog.yaml:2:10-19\n" +
		"   2 |   value: 1u8 / 0u8\n" +
		"                ^^^^^^^^^\n"
	assert.Equal(t, expected, buf.String())
}

func TestRendererWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	h := NewHandler()
	h.Emit(cerrors.MissingPairedAnnotation("main", "transition", "transaction", position.Span{}))
	require.NoError(t, r.RenderAll(h))

	assert.Equal(t, "fatal[E0374]: function main is annotated @transition but not @transaction\n"+
		"  --> <unknown>\n"+
		"Found 1 error(s).\n  structural: 1\n", buf.String())
}

func TestRenderAllKeepsEmissionOrder(t *testing.T) {
	h := NewHandler()
	h.Emit(cerrors.ExceededMaximumTransitions(1, position.Point("prog.yaml", 9, 1)))
	h.Emit(cerrors.InputRecordLimit(2, 3, position.Point("prog.yaml", 2, 1)))

	var emitted bytes.Buffer
	require.NoError(t, NewRenderer(&emitted, false).RenderAll(h))
	out := emitted.String()
	require.Contains(t, out, "E0370")
	require.Contains(t, out, "E0371")
	assert.Less(t, strings.Index(out, "E0370"), strings.Index(out, "E0371"))

	var sorted bytes.Buffer
	require.NoError(t, NewRenderer(&sorted, false).RenderSorted(h))
	out = sorted.String()
	assert.Less(t, strings.Index(out, "E0371"), strings.Index(out, "E0370"))
}
