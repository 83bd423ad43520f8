package asg

// ExpressionReducer rebuilds expressions bottom-up. Each per-kind hook gets
// the original node and the IDs of its already-reduced children, and returns
// either the original node (meaning "unchanged") or a new, unallocated node.
// ReduceExpression runs last and may substitute the resulting ID.
type ExpressionReducer interface {
	ReduceExpression(original, reduced ExprID) ExprID

	ReduceLiteral(e *Expression, k *LiteralExpression) *Expression
	ReduceConstant(e *Expression, k *ConstantExpression) *Expression
	ReduceVariableRef(e *Expression, k *VariableRefExpression) *Expression
	ReduceBinary(e *Expression, k *BinaryExpression, left, right ExprID) *Expression
	ReduceUnary(e *Expression, k *UnaryExpression, inner ExprID) *Expression
	ReduceTernary(e *Expression, k *TernaryExpression, condition, ifTrue, ifFalse ExprID) *Expression
	ReduceCast(e *Expression, k *CastExpression, inner ExprID) *Expression
	ReduceCall(e *Expression, k *CallExpression, target ExprID, arguments []ExprID) *Expression
	ReduceTupleInit(e *Expression, k *TupleInitExpression, elements []ExprID) *Expression
	ReduceArrayInit(e *Expression, k *ArrayInitExpression, elements []ExprID) *Expression
	ReduceTupleAccess(e *Expression, k *TupleAccessExpression, tuple ExprID) *Expression
	ReduceArrayAccess(e *Expression, k *ArrayAccessExpression, array, index ExprID) *Expression
	ReduceCircuitInit(e *Expression, k *CircuitInitExpression, values []ExprID) *Expression
	ReduceCircuitAccess(e *Expression, k *CircuitAccessExpression, target ExprID) *Expression
}

// StatementReducer rebuilds statements bottom-up, like ExpressionReducer.
type StatementReducer interface {
	ReduceStatement(original, reduced StmtID) StmtID

	ReduceBlock(s *Statement, k *BlockStatement, statements []StmtID) *Statement
	ReduceReturn(s *Statement, k *ReturnStatement, value ExprID) *Statement
	ReduceDefinition(s *Statement, k *DefinitionStatement, value ExprID) *Statement
	ReduceAssign(s *Statement, k *AssignStatement, value ExprID) *Statement
	ReduceConditional(s *Statement, k *ConditionalStatement, condition ExprID, result, next StmtID) *Statement
	ReduceIteration(s *Statement, k *IterationStatement, start, stop ExprID, body StmtID) *Statement
	ReduceExpressionStatement(s *Statement, k *ExpressionStatement, value ExprID) *Statement
}

// ProgramReducer rebuilds declarations. Functions and circuits are
// referenced by ID from elsewhere in the graph, so the director attaches
// reduced bodies and members in place before calling these hooks; a hook
// that returns a different node causes it to be allocated under a new ID.
type ProgramReducer interface {
	ReduceFunction(f *Function) *Function
	ReduceCircuitMemberFunction(c *Circuit, f *Function) CircuitMember
	ReduceCircuit(c *Circuit) *Circuit
	ReduceProgram(p *Program, functions []FuncID, circuits []CircuitID) *Program
}

// Reducer is the full set of hooks the ReconstructingDirector calls.
type Reducer interface {
	ExpressionReducer
	StatementReducer
	ProgramReducer
}

// BaseReducer keeps every node whose children did not change and rebuilds
// the rest with the new children.
type BaseReducer struct{}

func rebuildExpression(e *Expression, kind ExpressionKind) *Expression {
	return &Expression{Parent: e.Parent, Span: e.Span, Type: e.Type, Kind: kind}
}

func rebuildStatement(s *Statement, kind StatementKind) *Statement {
	return &Statement{Parent: s.Parent, Span: s.Span, Kind: kind}
}

func sameExprs(a, b []ExprID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameStmts(a, b []StmtID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (BaseReducer) ReduceExpression(_, reduced ExprID) ExprID { return reduced }

func (BaseReducer) ReduceLiteral(e *Expression, _ *LiteralExpression) *Expression         { return e }
func (BaseReducer) ReduceConstant(e *Expression, _ *ConstantExpression) *Expression       { return e }
func (BaseReducer) ReduceVariableRef(e *Expression, _ *VariableRefExpression) *Expression { return e }

func (BaseReducer) ReduceBinary(e *Expression, k *BinaryExpression, left, right ExprID) *Expression {
	if left == k.Left && right == k.Right {
		return e
	}
	return rebuildExpression(e, &BinaryExpression{Op: k.Op, Left: left, Right: right})
}

func (BaseReducer) ReduceUnary(e *Expression, k *UnaryExpression, inner ExprID) *Expression {
	if inner == k.Inner {
		return e
	}
	return rebuildExpression(e, &UnaryExpression{Op: k.Op, Inner: inner})
}

func (BaseReducer) ReduceTernary(e *Expression, k *TernaryExpression, condition, ifTrue, ifFalse ExprID) *Expression {
	if condition == k.Condition && ifTrue == k.IfTrue && ifFalse == k.IfFalse {
		return e
	}
	return rebuildExpression(e, &TernaryExpression{Condition: condition, IfTrue: ifTrue, IfFalse: ifFalse})
}

func (BaseReducer) ReduceCast(e *Expression, k *CastExpression, inner ExprID) *Expression {
	if inner == k.Inner {
		return e
	}
	return rebuildExpression(e, &CastExpression{Inner: inner, Target: k.Target})
}

func (BaseReducer) ReduceCall(e *Expression, k *CallExpression, target ExprID, arguments []ExprID) *Expression {
	if target == k.Target && sameExprs(arguments, k.Arguments) {
		return e
	}
	return rebuildExpression(e, &CallExpression{Function: k.Function, Target: target, Arguments: arguments})
}

func (BaseReducer) ReduceTupleInit(e *Expression, k *TupleInitExpression, elements []ExprID) *Expression {
	if sameExprs(elements, k.Elements) {
		return e
	}
	return rebuildExpression(e, &TupleInitExpression{Elements: elements})
}

func (BaseReducer) ReduceArrayInit(e *Expression, k *ArrayInitExpression, elements []ExprID) *Expression {
	if sameExprs(elements, k.Elements) {
		return e
	}
	return rebuildExpression(e, &ArrayInitExpression{Elements: elements})
}

func (BaseReducer) ReduceTupleAccess(e *Expression, k *TupleAccessExpression, tuple ExprID) *Expression {
	if tuple == k.Tuple {
		return e
	}
	return rebuildExpression(e, &TupleAccessExpression{Tuple: tuple, Index: k.Index})
}

func (BaseReducer) ReduceArrayAccess(e *Expression, k *ArrayAccessExpression, array, index ExprID) *Expression {
	if array == k.Array && index == k.Index {
		return e
	}
	return rebuildExpression(e, &ArrayAccessExpression{Array: array, Index: index})
}

func (BaseReducer) ReduceCircuitInit(e *Expression, k *CircuitInitExpression, values []ExprID) *Expression {
	changed := false
	for i, v := range k.Values {
		if values[i] != v.Value {
			changed = true
		}
	}
	if !changed {
		return e
	}
	rebuilt := make([]CircuitInitValue, len(k.Values))
	for i, v := range k.Values {
		rebuilt[i] = CircuitInitValue{Name: v.Name, Value: values[i]}
	}
	return rebuildExpression(e, &CircuitInitExpression{Circuit: k.Circuit, Values: rebuilt})
}

func (BaseReducer) ReduceCircuitAccess(e *Expression, k *CircuitAccessExpression, target ExprID) *Expression {
	if target == k.Target {
		return e
	}
	return rebuildExpression(e, &CircuitAccessExpression{Circuit: k.Circuit, Target: target, Member: k.Member})
}

func (BaseReducer) ReduceStatement(_, reduced StmtID) StmtID { return reduced }

func (BaseReducer) ReduceBlock(s *Statement, k *BlockStatement, statements []StmtID) *Statement {
	if sameStmts(statements, k.Statements) {
		return s
	}
	return rebuildStatement(s, &BlockStatement{Statements: statements})
}

func (BaseReducer) ReduceReturn(s *Statement, k *ReturnStatement, value ExprID) *Statement {
	if value == k.Expression {
		return s
	}
	return rebuildStatement(s, &ReturnStatement{Expression: value})
}

func (BaseReducer) ReduceDefinition(s *Statement, k *DefinitionStatement, value ExprID) *Statement {
	if value == k.Value {
		return s
	}
	return rebuildStatement(s, &DefinitionStatement{Variables: k.Variables, Value: value})
}

func (BaseReducer) ReduceAssign(s *Statement, k *AssignStatement, value ExprID) *Statement {
	if value == k.Value {
		return s
	}
	return rebuildStatement(s, &AssignStatement{Target: k.Target, Value: value})
}

func (BaseReducer) ReduceConditional(s *Statement, k *ConditionalStatement, condition ExprID, result, next StmtID) *Statement {
	if condition == k.Condition && result == k.Result && next == k.Next {
		return s
	}
	return rebuildStatement(s, &ConditionalStatement{Condition: condition, Result: result, Next: next})
}

func (BaseReducer) ReduceIteration(s *Statement, k *IterationStatement, start, stop ExprID, body StmtID) *Statement {
	if start == k.Start && stop == k.Stop && body == k.Body {
		return s
	}
	return rebuildStatement(s, &IterationStatement{Variable: k.Variable, Start: start, Stop: stop, Body: body})
}

func (BaseReducer) ReduceExpressionStatement(s *Statement, k *ExpressionStatement, value ExprID) *Statement {
	if value == k.Expression {
		return s
	}
	return rebuildStatement(s, &ExpressionStatement{Expression: value})
}

func (BaseReducer) ReduceFunction(f *Function) *Function { return f }

func (BaseReducer) ReduceCircuitMemberFunction(_ *Circuit, f *Function) CircuitMember {
	return CircuitMember{Function: f.ID}
}

func (BaseReducer) ReduceCircuit(c *Circuit) *Circuit { return c }

func (BaseReducer) ReduceProgram(p *Program, functions []FuncID, circuits []CircuitID) *Program {
	return &Program{Name: p.Name, Context: p.Context, Functions: functions, Circuits: circuits}
}

// ReconstructingDirector drives a Reducer over a program. Children are
// always reduced before their parent, and nodes the reducer rebuilds are
// allocated in the program's Context.
type ReconstructingDirector struct {
	ctx     *Context
	reducer Reducer
}

// NewReconstructingDirector creates a director for the given reducer.
func NewReconstructingDirector(ctx *Context, reducer Reducer) *ReconstructingDirector {
	return &ReconstructingDirector{ctx: ctx, reducer: reducer}
}

// ReduceProgram reduces every function and circuit and returns the
// reconstructed program.
func (d *ReconstructingDirector) ReduceProgram(p *Program) *Program {
	functions := make([]FuncID, len(p.Functions))
	for i, id := range p.Functions {
		functions[i] = d.ReduceFunction(d.ctx.Function(id))
	}
	circuits := make([]CircuitID, len(p.Circuits))
	for i, id := range p.Circuits {
		circuits[i] = d.ReduceCircuit(d.ctx.Circuit(id))
	}
	return d.reducer.ReduceProgram(p, functions, circuits)
}

// ReduceFunction reduces the body of f, attaches it and calls the reducer.
func (d *ReconstructingDirector) ReduceFunction(f *Function) FuncID {
	d.reduceBody(f)
	out := d.reducer.ReduceFunction(f)
	if out == f {
		return f.ID
	}
	return d.ctx.AllocFunction(out)
}

func (d *ReconstructingDirector) reduceBody(f *Function) {
	if f.Body.IsValid() {
		d.ctx.SetBody(f.ID, d.ReduceStatement(f.Body))
	}
}

// ReduceCircuit reduces each member of c.
func (d *ReconstructingDirector) ReduceCircuit(c *Circuit) CircuitID {
	members := make([]CircuitMember, len(c.Members))
	for i, m := range c.Members {
		if !m.IsFunction() {
			members[i] = m
			continue
		}
		f := d.ctx.Function(m.Function)
		d.reduceBody(f)
		members[i] = d.reducer.ReduceCircuitMemberFunction(c, f)
	}
	c.Members = members

	out := d.reducer.ReduceCircuit(c)
	if out == c {
		return c.ID
	}
	return d.ctx.AllocCircuit(out)
}

// ReduceStatement reduces a statement and its children.
func (d *ReconstructingDirector) ReduceStatement(id StmtID) StmtID {
	s := d.ctx.MustStatement(id)

	var out *Statement
	switch k := s.Kind.(type) {
	case *BlockStatement:
		statements := make([]StmtID, len(k.Statements))
		for i, child := range k.Statements {
			statements[i] = d.ReduceStatement(child)
		}
		out = d.reducer.ReduceBlock(s, k, statements)
	case *ReturnStatement:
		out = d.reducer.ReduceReturn(s, k, d.ReduceExpression(k.Expression))
	case *DefinitionStatement:
		out = d.reducer.ReduceDefinition(s, k, d.ReduceExpression(k.Value))
	case *AssignStatement:
		out = d.reducer.ReduceAssign(s, k, d.ReduceExpression(k.Value))
	case *ConditionalStatement:
		condition := d.ReduceExpression(k.Condition)
		result := d.ReduceStatement(k.Result)
		next := k.Next
		if next.IsValid() {
			next = d.ReduceStatement(next)
		}
		out = d.reducer.ReduceConditional(s, k, condition, result, next)
	case *IterationStatement:
		start := d.ReduceExpression(k.Start)
		stop := d.ReduceExpression(k.Stop)
		body := d.ReduceStatement(k.Body)
		out = d.reducer.ReduceIteration(s, k, start, stop, body)
	case *ExpressionStatement:
		out = d.reducer.ReduceExpressionStatement(s, k, d.ReduceExpression(k.Expression))
	default:
		panic("asg: unknown statement kind")
	}

	reduced := id
	if out != s {
		reduced = d.ctx.AllocStatement(out)
		d.ctx.adoptStatementChildren(reduced, out.Kind)
	}
	return d.reducer.ReduceStatement(id, reduced)
}

// ReduceExpression reduces an expression and its children. The none ID
// reduces to itself.
func (d *ReconstructingDirector) ReduceExpression(id ExprID) ExprID {
	if !id.IsValid() {
		return id
	}
	e := d.ctx.MustExpression(id)

	var out *Expression
	switch k := e.Kind.(type) {
	case *LiteralExpression:
		out = d.reducer.ReduceLiteral(e, k)
	case *ConstantExpression:
		out = d.reducer.ReduceConstant(e, k)
	case *VariableRefExpression:
		out = d.reducer.ReduceVariableRef(e, k)
	case *BinaryExpression:
		left := d.ReduceExpression(k.Left)
		right := d.ReduceExpression(k.Right)
		out = d.reducer.ReduceBinary(e, k, left, right)
	case *UnaryExpression:
		out = d.reducer.ReduceUnary(e, k, d.ReduceExpression(k.Inner))
	case *TernaryExpression:
		condition := d.ReduceExpression(k.Condition)
		ifTrue := d.ReduceExpression(k.IfTrue)
		ifFalse := d.ReduceExpression(k.IfFalse)
		out = d.reducer.ReduceTernary(e, k, condition, ifTrue, ifFalse)
	case *CastExpression:
		out = d.reducer.ReduceCast(e, k, d.ReduceExpression(k.Inner))
	case *CallExpression:
		target := k.Target
		if target.IsValid() {
			target = d.ReduceExpression(target)
		}
		out = d.reducer.ReduceCall(e, k, target, d.reduceExpressions(k.Arguments))
	case *TupleInitExpression:
		out = d.reducer.ReduceTupleInit(e, k, d.reduceExpressions(k.Elements))
	case *ArrayInitExpression:
		out = d.reducer.ReduceArrayInit(e, k, d.reduceExpressions(k.Elements))
	case *TupleAccessExpression:
		out = d.reducer.ReduceTupleAccess(e, k, d.ReduceExpression(k.Tuple))
	case *ArrayAccessExpression:
		array := d.ReduceExpression(k.Array)
		index := d.ReduceExpression(k.Index)
		out = d.reducer.ReduceArrayAccess(e, k, array, index)
	case *CircuitInitExpression:
		values := make([]ExprID, len(k.Values))
		for i, v := range k.Values {
			values[i] = d.ReduceExpression(v.Value)
		}
		out = d.reducer.ReduceCircuitInit(e, k, values)
	case *CircuitAccessExpression:
		target := k.Target
		if target.IsValid() {
			target = d.ReduceExpression(target)
		}
		out = d.reducer.ReduceCircuitAccess(e, k, target)
	default:
		panic("asg: unknown expression kind")
	}

	reduced := id
	if out != e {
		reduced = d.ctx.AllocExpression(out)
		d.ctx.adoptExpressionChildren(reduced, out.Kind)
	}
	return d.reducer.ReduceExpression(id, reduced)
}

func (d *ReconstructingDirector) reduceExpressions(ids []ExprID) []ExprID {
	out := make([]ExprID, len(ids))
	for i, id := range ids {
		out[i] = d.ReduceExpression(id)
	}
	return out
}
