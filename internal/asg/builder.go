package asg

import "github.com/orizon-lang/circuitc/internal/position"

// NewExpression allocates an expression and points its children's parent
// links at it.
func (c *Context) NewExpression(kind ExpressionKind, typ Type, span position.Span) ExprID {
	id := c.AllocExpression(&Expression{Span: span, Type: typ, Kind: kind})
	c.adoptExpressionChildren(id, kind)
	return id
}

// NewLiteral allocates a literal carrying v.
func (c *Context) NewLiteral(v Value, span position.Span) ExprID {
	return c.NewExpression(&LiteralExpression{Value: v}, v.Type(), span)
}

// NewStatement allocates a statement and points its child statements'
// parent links at it.
func (c *Context) NewStatement(kind StatementKind, span position.Span) StmtID {
	id := c.AllocStatement(&Statement{Span: span, Kind: kind})
	c.adoptStatementChildren(id, kind)
	return id
}

func (c *Context) adoptExpressionChildren(id ExprID, kind ExpressionKind) {
	for _, slot := range expressionSlots(kind) {
		c.SetParent(*slot, id)
	}
}

func (c *Context) adoptStatementChildren(id StmtID, kind StatementKind) {
	_, stmts := statementSlots(kind)
	for _, slot := range stmts {
		c.SetStatementParent(*slot, id)
	}
}
