package asg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAllocation(t *testing.T) {
	c := NewContext()

	assert.Nil(t, c.Expression(NoExpr))
	assert.Nil(t, c.Statement(NoStmt))
	assert.Nil(t, c.Function(NoFunc))
	assert.Nil(t, c.Circuit(NoCircuit))

	a := lit(c, U8, 1, 1)
	b := lit(c, U8, 2, 1)
	sum := binary(c, OpAdd, a, b, 1)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 3, c.ExpressionCount())
	assert.Equal(t, sum, c.Expression(a).Parent)
	assert.Equal(t, sum, c.Expression(b).Parent)
	assert.Equal(t, NoExpr, c.Expression(sum).Parent)
	assert.Nil(t, c.Expression(ExprID(99)))
}

func TestContextMutationSlots(t *testing.T) {
	c := NewContext()
	p, f := returnFunction(c, lit(c, U32, 1, 1))

	require.Len(t, p.Functions, 1)
	assert.Equal(t, f, c.Function(p.Functions[0]))

	c.SetCoreMapping(f.ID, "blake2s")
	c.SetAlwaysConst(f.ID, true)
	c.SetBody(f.ID, NoStmt)

	assert.True(t, f.HasCoreMapping())
	assert.Equal(t, "blake2s", f.CoreMapping)
	assert.True(t, f.AlwaysConst)
	assert.False(t, f.Body.IsValid())
}

func TestStatementParents(t *testing.T) {
	c := NewContext()
	ret := c.NewStatement(&ReturnStatement{Expression: lit(c, U8, 1, 1)}, testSpan(2, 1))
	block := c.NewStatement(&BlockStatement{Statements: []StmtID{ret}}, testSpan(1, 1))

	assert.Equal(t, block, c.Statement(ret).Parent)
	assert.Equal(t, 2, c.StatementCount())
	assert.Panics(t, func() { c.MustStatement(StmtID(42)) })
}

func TestProgramLookup(t *testing.T) {
	c := NewContext()
	p := NewProgram("token", c)
	record := &Circuit{
		Name:        RecordCircuitName,
		Annotations: NewAnnotations(&Annotation{Name: AnnotationCoreCircuit}),
		Members:     []CircuitMember{{Variable: &Variable{Name: "owner", Type: Prim(Address)}}},
	}
	p.AddCircuit(record)
	p.AddFunction(&Function{Name: "mint", Annotations: NewAnnotations()})

	got, ok := p.LookupCircuit("Record")
	require.True(t, ok)
	assert.True(t, got.IsRecord())

	field, ok := got.Field("owner")
	require.True(t, ok)
	assert.Equal(t, "address", field.Type.String())

	_, ok = p.LookupFunction("mint")
	assert.True(t, ok)
	_, ok = p.LookupFunction("burn")
	assert.False(t, ok)
}

func TestIsRecordRequiresNameAndAnnotation(t *testing.T) {
	named := &Circuit{Name: "Record", Annotations: NewAnnotations()}
	annotated := &Circuit{Name: "Token", Annotations: NewAnnotations(&Annotation{Name: AnnotationCoreCircuit})}
	both := &Circuit{Name: "Record", Annotations: NewAnnotations(&Annotation{Name: AnnotationCoreCircuit})}

	assert.False(t, named.IsRecord())
	assert.False(t, annotated.IsRecord())
	assert.True(t, both.IsRecord())
}

func TestFunctionInputType(t *testing.T) {
	none := &Function{}
	one := &Function{Arguments: []*Variable{{Name: "a", Type: Prim(U8)}}}
	two := &Function{Arguments: []*Variable{{Name: "a", Type: Prim(U8)}, {Name: "b", Type: Prim(Boolean)}}}

	assert.Equal(t, "()", none.InputType().String())
	assert.Equal(t, "u8", one.InputType().String())
	assert.Equal(t, "(u8, bool)", two.InputType().String())

	two.Name = "f"
	two.Output = Prim(Field)
	assert.Equal(t, "function f(a: u8, b: bool) -> field", two.Signature())
}
