package asg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingVisitor logs the order in which hooks run.
type recordingVisitor struct {
	BaseVisitor
	ctx   *Context
	trace []string
	skip  map[string]bool
	exit  string
}

func (v *recordingVisitor) result(name string) VisitResult {
	v.trace = append(v.trace, name)
	if name == v.exit {
		return Exit
	}
	if v.skip[name] {
		return SkipChildren
	}
	return VisitChildren
}

func (v *recordingVisitor) VisitFunction(f *Function) VisitResult {
	return v.result("fn:" + f.Name)
}

func (v *recordingVisitor) VisitCircuit(c *Circuit) VisitResult {
	return v.result("circuit:" + c.Name)
}

func (v *recordingVisitor) VisitStatement(slot *StmtID) VisitResult {
	return v.result("stmt:" + v.ctx.MustStatement(*slot).Describe())
}

func (v *recordingVisitor) VisitExpression(slot *ExprID) VisitResult {
	return v.result("expr:" + v.ctx.MustExpression(*slot).Describe())
}

func newRecorder(c *Context) *recordingVisitor {
	return &recordingVisitor{ctx: c, skip: map[string]bool{}}
}

// sampleProgram builds:
//
//	function main() { return 1u32 + (2u32 * 3u32); }
//	circuit Point { function zero() { return 0u32; } }
func sampleProgram(t *testing.T) (*Context, *Program) {
	t.Helper()
	c := NewContext()
	product := binary(c, OpMul, lit(c, U32, 2, 1), lit(c, U32, 3, 1), 1)
	sum := binary(c, OpAdd, lit(c, U32, 1, 1), product, 1)
	p, _ := returnFunction(c, sum)

	ret := c.NewStatement(&ReturnStatement{Expression: lit(c, U32, 0, 2)}, testSpan(2, 1))
	zero := &Function{Name: "zero", Body: ret, Output: Prim(U32), Annotations: NewAnnotations()}
	c.AllocFunction(zero)
	point := &Circuit{Name: "Point", Members: []CircuitMember{
		{Variable: &Variable{Name: "x", Type: Prim(U32)}},
		{Function: zero.ID},
	}}
	p.AddCircuit(point)
	zero.Circuit = point.ID
	return c, p
}

func TestVisitorDirectorOrder(t *testing.T) {
	c, p := sampleProgram(t)
	v := newRecorder(c)

	require.True(t, NewVisitorDirector(c, v).VisitProgram(p))
	assert.Equal(t, []string{
		"fn:main",
		"stmt:block (1)",
		"stmt:return",
		"expr:binary +",
		"expr:literal 1u32",
		"expr:binary *",
		"expr:literal 2u32",
		"expr:literal 3u32",
		"circuit:Point",
		"fn:zero",
		"stmt:return",
		"expr:literal 0u32",
	}, v.trace)
}

func TestVisitorDirectorSkipChildren(t *testing.T) {
	c, p := sampleProgram(t)
	v := newRecorder(c)
	v.skip["expr:binary *"] = true
	v.skip["circuit:Point"] = true

	require.True(t, NewVisitorDirector(c, v).VisitProgram(p))
	assert.Equal(t, []string{
		"fn:main",
		"stmt:block (1)",
		"stmt:return",
		"expr:binary +",
		"expr:literal 1u32",
		"expr:binary *",
		"circuit:Point",
	}, v.trace)
}

func TestVisitorDirectorExit(t *testing.T) {
	c, p := sampleProgram(t)
	v := newRecorder(c)
	v.exit = "expr:literal 1u32"

	assert.False(t, NewVisitorDirector(c, v).VisitProgram(p))
	assert.Equal(t, "expr:literal 1u32", v.trace[len(v.trace)-1])
	assert.NotContains(t, v.trace, "circuit:Point")
}

// replacingVisitor swaps every multiplication for a fresh literal.
type replacingVisitor struct {
	BaseVisitor
	ctx      *Context
	literals int
}

func (v *replacingVisitor) VisitExpression(slot *ExprID) VisitResult {
	e := v.ctx.MustExpression(*slot)
	if b, ok := e.Kind.(*BinaryExpression); ok && b.Op == OpMul {
		replacement := v.ctx.NewLiteral(Int(U32, 6), e.Span)
		v.ctx.SetParent(replacement, e.Parent)
		*slot = replacement
	}
	return VisitChildren
}

func (v *replacingVisitor) VisitLiteral(*Expression, *LiteralExpression) VisitResult {
	v.literals++
	return VisitChildren
}

func TestVisitorDirectorSlotReplacement(t *testing.T) {
	c, p := sampleProgram(t)
	v := &replacingVisitor{ctx: c}

	require.True(t, NewVisitorDirector(c, v).VisitProgram(p))
	// 1u32, the replacement 6u32 and 0u32; the old operands are unreachable.
	assert.Equal(t, 3, v.literals)

	main, ok := p.LookupFunction("main")
	require.True(t, ok)
	block := c.MustStatement(main.Body).Kind.(*BlockStatement)
	ret := c.MustStatement(block.Statements[0]).Kind.(*ReturnStatement)
	sum := c.MustExpression(ret.Expression)
	right := c.MustExpression(sum.Kind.(*BinaryExpression).Right)

	assert.Equal(t, "literal 6u32", right.Describe())
	assert.Equal(t, ret.Expression, right.Parent)
}

func TestVisitResultString(t *testing.T) {
	assert.Equal(t, "visit-children", VisitChildren.String())
	assert.Equal(t, "skip-children", SkipChildren.String())
	assert.Equal(t, "exit", Exit.String())
}

func TestChildren(t *testing.T) {
	c, p := sampleProgram(t)
	main, _ := p.LookupFunction("main")

	exprs, stmts := c.StatementChildren(main.Body)
	assert.Empty(t, exprs)
	require.Len(t, stmts, 1)

	exprs, stmts = c.StatementChildren(stmts[0])
	assert.Empty(t, stmts)
	require.Len(t, exprs, 1)

	children := c.ExpressionChildren(exprs[0])
	require.Len(t, children, 2)
	assert.Equal(t, "literal 1u32", c.MustExpression(children[0]).Describe())
	assert.Equal(t, "binary *", c.MustExpression(children[1]).Describe())
	assert.Nil(t, c.ExpressionChildren(NoExpr))
}
