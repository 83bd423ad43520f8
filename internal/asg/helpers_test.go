package asg

import "github.com/orizon-lang/circuitc/internal/position"

// testSpan creates a basic position span for graph tests.
func testSpan(line, col int) position.Span {
	return position.Point("test.yaml", line, col)
}

// lit allocates an integer literal.
func lit(c *Context, kind PrimitiveKind, v int64, line int) ExprID {
	return c.NewLiteral(Int(kind, v), testSpan(line, 1))
}

// binary allocates a binary expression.
func binary(c *Context, op BinaryOperator, left, right ExprID, line int) ExprID {
	return c.NewExpression(&BinaryExpression{Op: op, Left: left, Right: right}, nil, testSpan(line, 1))
}

// returnFunction builds a program with one function `main` whose body is
// a block returning value.
func returnFunction(c *Context, value ExprID) (*Program, *Function) {
	p := NewProgram("test", c)
	ret := c.NewStatement(&ReturnStatement{Expression: value}, testSpan(1, 1))
	body := c.NewStatement(&BlockStatement{Statements: []StmtID{ret}}, testSpan(1, 1))
	f := &Function{Name: "main", Body: body, Output: Prim(U32), Annotations: NewAnnotations()}
	p.AddFunction(f)
	return p, f
}
