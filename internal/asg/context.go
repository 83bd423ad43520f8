package asg

import "fmt"

// Context is the arena that owns every node of one compilation. Nodes are
// appended and never freed; replacing a node allocates a new one and
// redirects the referencing slot, leaving the old node unreachable.
type Context struct {
	exprs    []*Expression
	stmts    []*Statement
	funcs    []*Function
	circuits []*Circuit
}

// NewContext creates an empty arena. Slot zero of every table is reserved
// for the sentinel IDs.
func NewContext() *Context {
	return &Context{
		exprs:    make([]*Expression, 1, 64),
		stmts:    make([]*Statement, 1, 32),
		funcs:    make([]*Function, 1, 8),
		circuits: make([]*Circuit, 1, 4),
	}
}

// AllocExpression stores e and returns its ID.
func (c *Context) AllocExpression(e *Expression) ExprID {
	c.exprs = append(c.exprs, e)
	return ExprID(len(c.exprs) - 1)
}

// AllocStatement stores s and returns its ID.
func (c *Context) AllocStatement(s *Statement) StmtID {
	c.stmts = append(c.stmts, s)
	return StmtID(len(c.stmts) - 1)
}

// AllocFunction stores f, assigns its ID and returns it.
func (c *Context) AllocFunction(f *Function) FuncID {
	c.funcs = append(c.funcs, f)
	f.ID = FuncID(len(c.funcs) - 1)
	return f.ID
}

// AllocCircuit stores ci, assigns its ID and returns it.
func (c *Context) AllocCircuit(ci *Circuit) CircuitID {
	c.circuits = append(c.circuits, ci)
	ci.ID = CircuitID(len(c.circuits) - 1)
	return ci.ID
}

// Expression returns the expression with the given ID, or nil.
func (c *Context) Expression(id ExprID) *Expression {
	if !id.IsValid() || int(id) >= len(c.exprs) {
		return nil
	}
	return c.exprs[id]
}

// Statement returns the statement with the given ID, or nil.
func (c *Context) Statement(id StmtID) *Statement {
	if !id.IsValid() || int(id) >= len(c.stmts) {
		return nil
	}
	return c.stmts[id]
}

// Function returns the function with the given ID, or nil.
func (c *Context) Function(id FuncID) *Function {
	if !id.IsValid() || int(id) >= len(c.funcs) {
		return nil
	}
	return c.funcs[id]
}

// Circuit returns the circuit with the given ID, or nil.
func (c *Context) Circuit(id CircuitID) *Circuit {
	if !id.IsValid() || int(id) >= len(c.circuits) {
		return nil
	}
	return c.circuits[id]
}

// MustExpression is like Expression but panics on a dangling ID.
func (c *Context) MustExpression(id ExprID) *Expression {
	e := c.Expression(id)
	if e == nil {
		panic(fmt.Sprintf("asg: dangling expression id %d", id))
	}
	return e
}

// MustStatement is like Statement but panics on a dangling ID.
func (c *Context) MustStatement(id StmtID) *Statement {
	s := c.Statement(id)
	if s == nil {
		panic(fmt.Sprintf("asg: dangling statement id %d", id))
	}
	return s
}

// SetParent updates the parent back-reference of an expression.
func (c *Context) SetParent(id, parent ExprID) {
	if e := c.Expression(id); e != nil {
		e.Parent = parent
	}
}

// SetStatementParent updates the parent back-reference of a statement.
func (c *Context) SetStatementParent(id, parent StmtID) {
	if s := c.Statement(id); s != nil {
		s.Parent = parent
	}
}

// SetBody attaches body to a function.
func (c *Context) SetBody(id FuncID, body StmtID) {
	if f := c.Function(id); f != nil {
		f.Body = body
	}
}

// SetCoreMapping records the intrinsic a function is bound to.
func (c *Context) SetCoreMapping(id FuncID, name string) {
	if f := c.Function(id); f != nil {
		f.CoreMapping = name
	}
}

// SetAlwaysConst marks a function's result as compile-time constant only.
func (c *Context) SetAlwaysConst(id FuncID, v bool) {
	if f := c.Function(id); f != nil {
		f.AlwaysConst = v
	}
}

// ExpressionCount reports how many expressions have been allocated,
// reachable or not.
func (c *Context) ExpressionCount() int { return len(c.exprs) - 1 }

// StatementCount reports how many statements have been allocated.
func (c *Context) StatementCount() int { return len(c.stmts) - 1 }
