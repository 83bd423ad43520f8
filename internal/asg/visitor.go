package asg

// VisitResult tells the director how to proceed after a visitor hook.
type VisitResult int

const (
	// VisitChildren descends into the node's children.
	VisitChildren VisitResult = iota
	// SkipChildren moves on to the node's next sibling.
	SkipChildren
	// Exit stops the whole traversal.
	Exit
)

func (r VisitResult) String() string {
	switch r {
	case VisitChildren:
		return "visit-children"
	case SkipChildren:
		return "skip-children"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// ExpressionVisitor inspects expressions. VisitExpression receives the slot
// holding the expression and may redirect it to a replacement node; the
// per-kind hooks run afterwards on whatever the slot then holds.
type ExpressionVisitor interface {
	VisitExpression(slot *ExprID) VisitResult

	VisitLiteral(e *Expression, k *LiteralExpression) VisitResult
	VisitConstant(e *Expression, k *ConstantExpression) VisitResult
	VisitVariableRef(e *Expression, k *VariableRefExpression) VisitResult
	VisitBinary(e *Expression, k *BinaryExpression) VisitResult
	VisitUnary(e *Expression, k *UnaryExpression) VisitResult
	VisitTernary(e *Expression, k *TernaryExpression) VisitResult
	VisitCast(e *Expression, k *CastExpression) VisitResult
	VisitCall(e *Expression, k *CallExpression) VisitResult
	VisitTupleInit(e *Expression, k *TupleInitExpression) VisitResult
	VisitArrayInit(e *Expression, k *ArrayInitExpression) VisitResult
	VisitTupleAccess(e *Expression, k *TupleAccessExpression) VisitResult
	VisitArrayAccess(e *Expression, k *ArrayAccessExpression) VisitResult
	VisitCircuitInit(e *Expression, k *CircuitInitExpression) VisitResult
	VisitCircuitAccess(e *Expression, k *CircuitAccessExpression) VisitResult
}

// StatementVisitor inspects statements.
type StatementVisitor interface {
	VisitStatement(slot *StmtID) VisitResult

	VisitBlock(s *Statement, k *BlockStatement) VisitResult
	VisitReturn(s *Statement, k *ReturnStatement) VisitResult
	VisitDefinition(s *Statement, k *DefinitionStatement) VisitResult
	VisitAssign(s *Statement, k *AssignStatement) VisitResult
	VisitConditional(s *Statement, k *ConditionalStatement) VisitResult
	VisitIteration(s *Statement, k *IterationStatement) VisitResult
	VisitExpressionStatement(s *Statement, k *ExpressionStatement) VisitResult
}

// ProgramVisitor inspects top-level declarations.
type ProgramVisitor interface {
	VisitProgram(p *Program) VisitResult
	VisitFunction(f *Function) VisitResult
	VisitCircuit(c *Circuit) VisitResult
	VisitCircuitMember(c *Circuit, m *CircuitMember) VisitResult
}

// Visitor is the full set of hooks the VisitorDirector calls.
type Visitor interface {
	ExpressionVisitor
	StatementVisitor
	ProgramVisitor
}

// BaseVisitor answers VisitChildren everywhere. Passes embed it and
// override only the hooks they care about.
type BaseVisitor struct{}

func (BaseVisitor) VisitExpression(*ExprID) VisitResult                        { return VisitChildren }
func (BaseVisitor) VisitLiteral(*Expression, *LiteralExpression) VisitResult   { return VisitChildren }
func (BaseVisitor) VisitConstant(*Expression, *ConstantExpression) VisitResult { return VisitChildren }
func (BaseVisitor) VisitVariableRef(*Expression, *VariableRefExpression) VisitResult {
	return VisitChildren
}
func (BaseVisitor) VisitBinary(*Expression, *BinaryExpression) VisitResult   { return VisitChildren }
func (BaseVisitor) VisitUnary(*Expression, *UnaryExpression) VisitResult     { return VisitChildren }
func (BaseVisitor) VisitTernary(*Expression, *TernaryExpression) VisitResult { return VisitChildren }
func (BaseVisitor) VisitCast(*Expression, *CastExpression) VisitResult       { return VisitChildren }
func (BaseVisitor) VisitCall(*Expression, *CallExpression) VisitResult       { return VisitChildren }
func (BaseVisitor) VisitTupleInit(*Expression, *TupleInitExpression) VisitResult {
	return VisitChildren
}
func (BaseVisitor) VisitArrayInit(*Expression, *ArrayInitExpression) VisitResult {
	return VisitChildren
}
func (BaseVisitor) VisitTupleAccess(*Expression, *TupleAccessExpression) VisitResult {
	return VisitChildren
}
func (BaseVisitor) VisitArrayAccess(*Expression, *ArrayAccessExpression) VisitResult {
	return VisitChildren
}
func (BaseVisitor) VisitCircuitInit(*Expression, *CircuitInitExpression) VisitResult {
	return VisitChildren
}
func (BaseVisitor) VisitCircuitAccess(*Expression, *CircuitAccessExpression) VisitResult {
	return VisitChildren
}

func (BaseVisitor) VisitStatement(*StmtID) VisitResult                   { return VisitChildren }
func (BaseVisitor) VisitBlock(*Statement, *BlockStatement) VisitResult   { return VisitChildren }
func (BaseVisitor) VisitReturn(*Statement, *ReturnStatement) VisitResult { return VisitChildren }
func (BaseVisitor) VisitDefinition(*Statement, *DefinitionStatement) VisitResult {
	return VisitChildren
}
func (BaseVisitor) VisitAssign(*Statement, *AssignStatement) VisitResult { return VisitChildren }
func (BaseVisitor) VisitConditional(*Statement, *ConditionalStatement) VisitResult {
	return VisitChildren
}
func (BaseVisitor) VisitIteration(*Statement, *IterationStatement) VisitResult { return VisitChildren }
func (BaseVisitor) VisitExpressionStatement(*Statement, *ExpressionStatement) VisitResult {
	return VisitChildren
}

func (BaseVisitor) VisitProgram(*Program) VisitResult                       { return VisitChildren }
func (BaseVisitor) VisitFunction(*Function) VisitResult                     { return VisitChildren }
func (BaseVisitor) VisitCircuit(*Circuit) VisitResult                       { return VisitChildren }
func (BaseVisitor) VisitCircuitMember(*Circuit, *CircuitMember) VisitResult { return VisitChildren }

// expressionSlots lists the child slots of an expression in visiting order.
func expressionSlots(kind ExpressionKind) []*ExprID {
	switch k := kind.(type) {
	case *LiteralExpression, *ConstantExpression, *VariableRefExpression:
		return nil
	case *BinaryExpression:
		return []*ExprID{&k.Left, &k.Right}
	case *UnaryExpression:
		return []*ExprID{&k.Inner}
	case *TernaryExpression:
		return []*ExprID{&k.Condition, &k.IfTrue, &k.IfFalse}
	case *CastExpression:
		return []*ExprID{&k.Inner}
	case *CallExpression:
		slots := make([]*ExprID, 0, len(k.Arguments)+1)
		if k.Target.IsValid() {
			slots = append(slots, &k.Target)
		}
		for i := range k.Arguments {
			slots = append(slots, &k.Arguments[i])
		}
		return slots
	case *TupleInitExpression:
		return sliceSlots(k.Elements)
	case *ArrayInitExpression:
		return sliceSlots(k.Elements)
	case *TupleAccessExpression:
		return []*ExprID{&k.Tuple}
	case *ArrayAccessExpression:
		return []*ExprID{&k.Array, &k.Index}
	case *CircuitInitExpression:
		slots := make([]*ExprID, len(k.Values))
		for i := range k.Values {
			slots[i] = &k.Values[i].Value
		}
		return slots
	case *CircuitAccessExpression:
		if k.Target.IsValid() {
			return []*ExprID{&k.Target}
		}
		return nil
	default:
		panic("asg: unknown expression kind")
	}
}

func sliceSlots(ids []ExprID) []*ExprID {
	slots := make([]*ExprID, len(ids))
	for i := range ids {
		slots[i] = &ids[i]
	}
	return slots
}

// statementSlots lists the child slots of a statement. Expression children
// are always visited before statement children.
func statementSlots(kind StatementKind) ([]*ExprID, []*StmtID) {
	switch k := kind.(type) {
	case *BlockStatement:
		stmts := make([]*StmtID, len(k.Statements))
		for i := range k.Statements {
			stmts[i] = &k.Statements[i]
		}
		return nil, stmts
	case *ReturnStatement:
		return []*ExprID{&k.Expression}, nil
	case *DefinitionStatement:
		return []*ExprID{&k.Value}, nil
	case *AssignStatement:
		return []*ExprID{&k.Value}, nil
	case *ConditionalStatement:
		stmts := []*StmtID{&k.Result}
		if k.Next.IsValid() {
			stmts = append(stmts, &k.Next)
		}
		return []*ExprID{&k.Condition}, stmts
	case *IterationStatement:
		return []*ExprID{&k.Start, &k.Stop}, []*StmtID{&k.Body}
	case *ExpressionStatement:
		return []*ExprID{&k.Expression}, nil
	default:
		panic("asg: unknown statement kind")
	}
}

// ExpressionChildren returns the sub-expressions of an expression in
// visiting order.
func (c *Context) ExpressionChildren(id ExprID) []ExprID {
	e := c.Expression(id)
	if e == nil {
		return nil
	}
	slots := expressionSlots(e.Kind)
	out := make([]ExprID, len(slots))
	for i, slot := range slots {
		out[i] = *slot
	}
	return out
}

// StatementChildren returns the expressions and statements a statement
// holds, in visiting order.
func (c *Context) StatementChildren(id StmtID) ([]ExprID, []StmtID) {
	s := c.Statement(id)
	if s == nil {
		return nil, nil
	}
	exprSlots, stmtSlots := statementSlots(s.Kind)
	exprs := make([]ExprID, 0, len(exprSlots))
	for _, slot := range exprSlots {
		if slot.IsValid() {
			exprs = append(exprs, *slot)
		}
	}
	stmts := make([]StmtID, len(stmtSlots))
	for i, slot := range stmtSlots {
		stmts[i] = *slot
	}
	return exprs, stmts
}

// VisitorDirector walks a program in pre-order and calls a Visitor. It owns
// the traversal order; visitors only decide what happens at each node.
type VisitorDirector struct {
	ctx     *Context
	visitor Visitor
}

// NewVisitorDirector creates a director for the given visitor.
func NewVisitorDirector(ctx *Context, visitor Visitor) *VisitorDirector {
	return &VisitorDirector{ctx: ctx, visitor: visitor}
}

// VisitProgram walks every function and circuit of p. It returns false if
// a visitor hook asked to exit.
func (d *VisitorDirector) VisitProgram(p *Program) bool {
	switch d.visitor.VisitProgram(p) {
	case Exit:
		return false
	case SkipChildren:
		return true
	}

	for _, id := range p.Functions {
		if !d.VisitFunction(d.ctx.Function(id)) {
			return false
		}
	}
	for _, id := range p.Circuits {
		if !d.VisitCircuit(d.ctx.Circuit(id)) {
			return false
		}
	}
	return true
}

// VisitFunction visits f and then its body.
func (d *VisitorDirector) VisitFunction(f *Function) bool {
	switch d.visitor.VisitFunction(f) {
	case Exit:
		return false
	case SkipChildren:
		return true
	}
	if f.Body.IsValid() {
		return d.VisitStatement(&f.Body)
	}
	return true
}

// VisitCircuit visits c and then each member in declaration order.
func (d *VisitorDirector) VisitCircuit(c *Circuit) bool {
	switch d.visitor.VisitCircuit(c) {
	case Exit:
		return false
	case SkipChildren:
		return true
	}
	for i := range c.Members {
		m := &c.Members[i]
		switch d.visitor.VisitCircuitMember(c, m) {
		case Exit:
			return false
		case SkipChildren:
			continue
		}
		if m.IsFunction() && !d.VisitFunction(d.ctx.Function(m.Function)) {
			return false
		}
	}
	return true
}

// VisitStatement visits the statement held in slot and its children.
func (d *VisitorDirector) VisitStatement(slot *StmtID) bool {
	switch d.visitor.VisitStatement(slot) {
	case Exit:
		return false
	case SkipChildren:
		return true
	}

	s := d.ctx.MustStatement(*slot)
	var r VisitResult
	switch k := s.Kind.(type) {
	case *BlockStatement:
		r = d.visitor.VisitBlock(s, k)
	case *ReturnStatement:
		r = d.visitor.VisitReturn(s, k)
	case *DefinitionStatement:
		r = d.visitor.VisitDefinition(s, k)
	case *AssignStatement:
		r = d.visitor.VisitAssign(s, k)
	case *ConditionalStatement:
		r = d.visitor.VisitConditional(s, k)
	case *IterationStatement:
		r = d.visitor.VisitIteration(s, k)
	case *ExpressionStatement:
		r = d.visitor.VisitExpressionStatement(s, k)
	default:
		panic("asg: unknown statement kind")
	}
	switch r {
	case Exit:
		return false
	case SkipChildren:
		return true
	}

	exprs, stmts := statementSlots(s.Kind)
	for _, child := range exprs {
		if !d.VisitExpression(child) {
			return false
		}
	}
	for _, child := range stmts {
		if !d.VisitStatement(child) {
			return false
		}
	}
	return true
}

// VisitExpression visits the expression held in slot and its children.
// The slot is re-read after the generic hook so replacements are honoured.
func (d *VisitorDirector) VisitExpression(slot *ExprID) bool {
	if !slot.IsValid() {
		return true
	}
	switch d.visitor.VisitExpression(slot) {
	case Exit:
		return false
	case SkipChildren:
		return true
	}

	e := d.ctx.MustExpression(*slot)
	var r VisitResult
	switch k := e.Kind.(type) {
	case *LiteralExpression:
		r = d.visitor.VisitLiteral(e, k)
	case *ConstantExpression:
		r = d.visitor.VisitConstant(e, k)
	case *VariableRefExpression:
		r = d.visitor.VisitVariableRef(e, k)
	case *BinaryExpression:
		r = d.visitor.VisitBinary(e, k)
	case *UnaryExpression:
		r = d.visitor.VisitUnary(e, k)
	case *TernaryExpression:
		r = d.visitor.VisitTernary(e, k)
	case *CastExpression:
		r = d.visitor.VisitCast(e, k)
	case *CallExpression:
		r = d.visitor.VisitCall(e, k)
	case *TupleInitExpression:
		r = d.visitor.VisitTupleInit(e, k)
	case *ArrayInitExpression:
		r = d.visitor.VisitArrayInit(e, k)
	case *TupleAccessExpression:
		r = d.visitor.VisitTupleAccess(e, k)
	case *ArrayAccessExpression:
		r = d.visitor.VisitArrayAccess(e, k)
	case *CircuitInitExpression:
		r = d.visitor.VisitCircuitInit(e, k)
	case *CircuitAccessExpression:
		r = d.visitor.VisitCircuitAccess(e, k)
	default:
		panic("asg: unknown expression kind")
	}
	switch r {
	case Exit:
		return false
	case SkipChildren:
		return true
	}

	for _, child := range expressionSlots(e.Kind) {
		if !d.VisitExpression(child) {
			return false
		}
	}
	return true
}
