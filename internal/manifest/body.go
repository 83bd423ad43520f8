package manifest

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/circuitc/internal/asg"
	"github.com/orizon-lang/circuitc/internal/position"
)

// single returns the only key and value of a one-entry mapping such as
// `{return: ...}` or `{binary: ...}`.
func (b *builder) single(n *yaml.Node, what string) (string, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, b.errorf(n, "%s must be a mapping with a single key", what)
	}
	return n.Content[0].Value, n.Content[1], nil
}

// field returns the value of key in mapping n, or nil.
func field(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func (b *builder) required(n *yaml.Node, key string) (*yaml.Node, error) {
	v := field(n, key)
	if v == nil {
		return nil, b.errorf(n, "missing %q", key)
	}
	return v, nil
}

func (b *builder) block(span position.Span, nodes []yaml.Node) (asg.StmtID, error) {
	b.push()
	defer b.pop()

	statements := make([]asg.StmtID, 0, len(nodes))
	for i := range nodes {
		s, err := b.statement(&nodes[i])
		if err != nil {
			return asg.NoStmt, err
		}
		statements = append(statements, s)
	}
	return b.ctx.NewStatement(&asg.BlockStatement{Statements: statements}, span), nil
}

func (b *builder) blockNode(n *yaml.Node) (asg.StmtID, error) {
	if n.Kind != yaml.SequenceNode {
		return asg.NoStmt, b.errorf(n, "expected a list of statements")
	}
	nodes := make([]yaml.Node, len(n.Content))
	for i, c := range n.Content {
		nodes[i] = *c
	}
	return b.block(b.span(n), nodes)
}

func (b *builder) statement(n *yaml.Node) (asg.StmtID, error) {
	key, v, err := b.single(n, "statement")
	if err != nil {
		return asg.NoStmt, err
	}
	span := b.span(n)

	switch key {
	case "return":
		var value asg.ExprID
		if v.Kind == yaml.ScalarNode && v.Tag == "!!null" {
			value = b.ctx.NewExpression(&asg.TupleInitExpression{}, asg.Unit(), span)
		} else if value, err = b.expression(v); err != nil {
			return asg.NoStmt, err
		}
		return b.ctx.NewStatement(&asg.ReturnStatement{Expression: value}, span), nil

	case "let":
		return b.definition(v, span)

	case "assign":
		target, err := b.required(v, "target")
		if err != nil {
			return asg.NoStmt, err
		}
		variable, ok := b.lookup(target.Value)
		if !ok {
			return asg.NoStmt, b.errorf(target, "unknown variable %s", target.Value)
		}
		if !variable.Mutable {
			return asg.NoStmt, b.errorf(target, "cannot assign to immutable variable %s", variable.Name)
		}
		value, err := b.requiredExpression(v, "value")
		if err != nil {
			return asg.NoStmt, err
		}
		return b.ctx.NewStatement(&asg.AssignStatement{Target: variable, Value: value}, span), nil

	case "if":
		condition, err := b.requiredExpression(v, "cond")
		if err != nil {
			return asg.NoStmt, err
		}
		then, err := b.required(v, "then")
		if err != nil {
			return asg.NoStmt, err
		}
		result, err := b.blockNode(then)
		if err != nil {
			return asg.NoStmt, err
		}
		next := asg.NoStmt
		if otherwise := field(v, "else"); otherwise != nil {
			if next, err = b.blockNode(otherwise); err != nil {
				return asg.NoStmt, err
			}
		}
		return b.ctx.NewStatement(&asg.ConditionalStatement{Condition: condition, Result: result, Next: next}, span), nil

	case "for":
		return b.iteration(v, span)

	case "expr":
		value, err := b.expression(v)
		if err != nil {
			return asg.NoStmt, err
		}
		return b.ctx.NewStatement(&asg.ExpressionStatement{Expression: value}, span), nil
	}

	return asg.NoStmt, b.errorf(n, "unknown statement %q", key)
}

func (b *builder) definition(v *yaml.Node, span position.Span) (asg.StmtID, error) {
	value, err := b.requiredExpression(v, "value")
	if err != nil {
		return asg.NoStmt, err
	}

	var names []string
	if name := field(v, "name"); name != nil {
		names = []string{name.Value}
	} else if list := field(v, "names"); list != nil {
		if err := list.Decode(&names); err != nil {
			return asg.NoStmt, b.errorf(list, "names must be a list of strings")
		}
	}
	if len(names) == 0 {
		return asg.NoStmt, b.errorf(v, "let needs a name")
	}

	var declared asg.Type
	if t := field(v, "type"); t != nil {
		if declared, err = b.parseType(t, t.Value); err != nil {
			return asg.NoStmt, err
		}
	}

	valueType := b.ctx.MustExpression(value).Type
	mutable := field(v, "mut") != nil && field(v, "mut").Value == "true"

	variables := make([]*asg.Variable, len(names))
	for i, name := range names {
		t := declared
		if t == nil {
			t = valueType
			if tuple, ok := valueType.(*asg.TupleType); ok && len(names) > 1 && i < len(tuple.Elements) {
				t = tuple.Elements[i]
			}
		} else if tuple, ok := declared.(*asg.TupleType); ok && len(names) > 1 && i < len(tuple.Elements) {
			t = tuple.Elements[i]
		}
		variables[i] = &asg.Variable{Name: name, Type: t, Span: span, Mutable: mutable}
	}
	for _, variable := range variables {
		b.declare(variable)
	}
	return b.ctx.NewStatement(&asg.DefinitionStatement{Variables: variables, Value: value}, span), nil
}

func (b *builder) iteration(v *yaml.Node, span position.Span) (asg.StmtID, error) {
	name, err := b.required(v, "var")
	if err != nil {
		return asg.NoStmt, err
	}
	start, err := b.requiredExpression(v, "from")
	if err != nil {
		return asg.NoStmt, err
	}
	stop, err := b.requiredExpression(v, "to")
	if err != nil {
		return asg.NoStmt, err
	}

	t := b.ctx.MustExpression(start).Type
	if tn := field(v, "type"); tn != nil {
		if t, err = b.parseType(tn, tn.Value); err != nil {
			return asg.NoStmt, err
		}
	}
	counter := &asg.Variable{Name: name.Value, Type: t, Span: b.span(name), Const: true}

	bodyNode, err := b.required(v, "body")
	if err != nil {
		return asg.NoStmt, err
	}
	b.push()
	b.declare(counter)
	body, err := b.blockNode(bodyNode)
	b.pop()
	if err != nil {
		return asg.NoStmt, err
	}

	return b.ctx.NewStatement(&asg.IterationStatement{Variable: counter, Start: start, Stop: stop, Body: body}, span), nil
}

func (b *builder) requiredExpression(n *yaml.Node, key string) (asg.ExprID, error) {
	v, err := b.required(n, key)
	if err != nil {
		return asg.NoExpr, err
	}
	return b.expression(v)
}

func (b *builder) expressions(n *yaml.Node) ([]asg.ExprID, []asg.Type, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nil, b.errorf(n, "expected a list of expressions")
	}
	ids := make([]asg.ExprID, len(n.Content))
	types := make([]asg.Type, len(n.Content))
	for i, c := range n.Content {
		id, err := b.expression(c)
		if err != nil {
			return nil, nil, err
		}
		ids[i] = id
		types[i] = b.ctx.MustExpression(id).Type
	}
	return ids, types, nil
}

// expression builds an expression. A bare scalar is a literal when it
// parses as one and a variable reference otherwise.
func (b *builder) expression(n *yaml.Node) (asg.ExprID, error) {
	span := b.span(n)

	if n.Kind == yaml.ScalarNode {
		if v, err := asg.ParseLiteral(n.Value); err == nil {
			return b.ctx.NewLiteral(v, span), nil
		}
		return b.variableRef(n)
	}

	key, v, err := b.single(n, "expression")
	if err != nil {
		return asg.NoExpr, err
	}

	switch key {
	case "literal":
		value, err := asg.ParseLiteral(v.Value)
		if err != nil {
			return asg.NoExpr, b.errorf(v, "%v", err)
		}
		return b.ctx.NewLiteral(value, span), nil

	case "var":
		return b.variableRef(v)

	case "binary":
		return b.binary(v, span)

	case "unary":
		op, err := b.required(v, "op")
		if err != nil {
			return asg.NoExpr, err
		}
		var operator asg.UnaryOperator
		switch op.Value {
		case "!":
			operator = asg.OpNot
		case "-":
			operator = asg.OpNegate
		case "~":
			operator = asg.OpBitNot
		default:
			return asg.NoExpr, b.errorf(op, "unknown unary operator %q", op.Value)
		}
		inner, err := b.requiredExpression(v, "inner")
		if err != nil {
			return asg.NoExpr, err
		}
		return b.ctx.NewExpression(&asg.UnaryExpression{Op: operator, Inner: inner}, b.typeOf(inner), span), nil

	case "ternary":
		condition, err := b.requiredExpression(v, "cond")
		if err != nil {
			return asg.NoExpr, err
		}
		ifTrue, err := b.requiredExpression(v, "then")
		if err != nil {
			return asg.NoExpr, err
		}
		ifFalse, err := b.requiredExpression(v, "else")
		if err != nil {
			return asg.NoExpr, err
		}
		kind := &asg.TernaryExpression{Condition: condition, IfTrue: ifTrue, IfFalse: ifFalse}
		return b.ctx.NewExpression(kind, b.typeOf(ifTrue), span), nil

	case "cast":
		inner, err := b.requiredExpression(v, "value")
		if err != nil {
			return asg.NoExpr, err
		}
		tn, err := b.required(v, "type")
		if err != nil {
			return asg.NoExpr, err
		}
		target, err := b.parseType(tn, tn.Value)
		if err != nil {
			return asg.NoExpr, err
		}
		return b.ctx.NewExpression(&asg.CastExpression{Inner: inner, Target: target}, target, span), nil

	case "call":
		return b.call(v, span)

	case "tuple":
		elements, types, err := b.expressions(v)
		if err != nil {
			return asg.NoExpr, err
		}
		return b.ctx.NewExpression(&asg.TupleInitExpression{Elements: elements}, asg.Tuple(types...), span), nil

	case "array":
		elements, types, err := b.expressions(v)
		if err != nil {
			return asg.NoExpr, err
		}
		if len(elements) == 0 {
			return asg.NoExpr, b.errorf(v, "empty array")
		}
		t := &asg.ArrayType{Element: types[0], Length: uint32(len(elements))}
		return b.ctx.NewExpression(&asg.ArrayInitExpression{Elements: elements}, t, span), nil

	case "index":
		array, err := b.requiredExpression(v, "array")
		if err != nil {
			return asg.NoExpr, err
		}
		index, err := b.requiredExpression(v, "index")
		if err != nil {
			return asg.NoExpr, err
		}
		var element asg.Type
		switch t := b.typeOf(array).(type) {
		case *asg.ArrayType:
			element = t.Element
		case *asg.ArrayWithoutSizeType:
			element = t.Element
		}
		return b.ctx.NewExpression(&asg.ArrayAccessExpression{Array: array, Index: index}, element, span), nil

	case "member":
		tuple, err := b.requiredExpression(v, "tuple")
		if err != nil {
			return asg.NoExpr, err
		}
		in, err := b.required(v, "index")
		if err != nil {
			return asg.NoExpr, err
		}
		index, err := strconv.Atoi(in.Value)
		if err != nil || index < 0 {
			return asg.NoExpr, b.errorf(in, "invalid tuple index %q", in.Value)
		}
		var element asg.Type
		if t, ok := b.typeOf(tuple).(*asg.TupleType); ok {
			if index >= len(t.Elements) {
				return asg.NoExpr, b.errorf(in, "tuple index %d out of range for %s", index, t)
			}
			element = t.Elements[index]
		}
		return b.ctx.NewExpression(&asg.TupleAccessExpression{Tuple: tuple, Index: index}, element, span), nil

	case "field":
		return b.circuitAccess(v, span)

	case "circuit":
		return b.circuitInit(v, span)
	}

	return asg.NoExpr, b.errorf(n, "unknown expression %q", key)
}

func (b *builder) typeOf(id asg.ExprID) asg.Type {
	if e := b.ctx.Expression(id); e != nil {
		return e.Type
	}
	return nil
}

func (b *builder) variableRef(n *yaml.Node) (asg.ExprID, error) {
	v, ok := b.lookup(n.Value)
	if !ok {
		return asg.NoExpr, b.errorf(n, "unknown variable %s", n.Value)
	}
	return b.ctx.NewExpression(&asg.VariableRefExpression{Variable: v}, v.Type, b.span(n)), nil
}

func (b *builder) binary(v *yaml.Node, span position.Span) (asg.ExprID, error) {
	op, err := b.required(v, "op")
	if err != nil {
		return asg.NoExpr, err
	}
	operator, ok := asg.BinaryOperatorBySymbol(op.Value)
	if !ok {
		return asg.NoExpr, b.errorf(op, "unknown binary operator %q", op.Value)
	}
	left, err := b.requiredExpression(v, "left")
	if err != nil {
		return asg.NoExpr, err
	}
	right, err := b.requiredExpression(v, "right")
	if err != nil {
		return asg.NoExpr, err
	}

	t := b.typeOf(left)
	switch operator {
	case asg.OpEq, asg.OpNe, asg.OpLt, asg.OpLe, asg.OpGt, asg.OpGe, asg.OpAnd, asg.OpOr:
		t = asg.Prim(asg.Boolean)
	}
	return b.ctx.NewExpression(&asg.BinaryExpression{Op: operator, Left: left, Right: right}, t, span), nil
}

// call resolves `function: name` against free functions and
// `function: Circuit::name` against circuit member functions. A member call
// may carry a `target` expression.
func (b *builder) call(v *yaml.Node, span position.Span) (asg.ExprID, error) {
	name, err := b.required(v, "function")
	if err != nil {
		return asg.NoExpr, err
	}
	f, ok := b.functions[name.Value]
	if !ok {
		return asg.NoExpr, b.errorf(name, "unknown function %s", name.Value)
	}

	target := asg.NoExpr
	if tn := field(v, "target"); tn != nil {
		if !strings.Contains(name.Value, "::") {
			return asg.NoExpr, b.errorf(tn, "free function %s cannot have a target", name.Value)
		}
		if target, err = b.expression(tn); err != nil {
			return asg.NoExpr, err
		}
	}

	var arguments []asg.ExprID
	if an := field(v, "args"); an != nil {
		if arguments, _, err = b.expressions(an); err != nil {
			return asg.NoExpr, err
		}
	}
	if len(arguments) != len(f.Arguments) {
		return asg.NoExpr, b.errorf(name, "%s takes %d arguments, got %d", name.Value, len(f.Arguments), len(arguments))
	}

	kind := &asg.CallExpression{Function: f.ID, Target: target, Arguments: arguments}
	return b.ctx.NewExpression(kind, f.Output, span), nil
}

func (b *builder) circuitAccess(v *yaml.Node, span position.Span) (asg.ExprID, error) {
	target, err := b.requiredExpression(v, "value")
	if err != nil {
		return asg.NoExpr, err
	}
	name, err := b.required(v, "name")
	if err != nil {
		return asg.NoExpr, err
	}
	ct, ok := b.typeOf(target).(*asg.CircuitType)
	if !ok {
		return asg.NoExpr, b.errorf(name, "member access on a value that is not a circuit")
	}
	c := b.ctx.Circuit(ct.Circuit)
	member, ok := c.Field(name.Value)
	if !ok {
		return asg.NoExpr, b.errorf(name, "circuit %s has no field %s", c.Name, name.Value)
	}
	kind := &asg.CircuitAccessExpression{Circuit: c.ID, Target: target, Member: name.Value}
	return b.ctx.NewExpression(kind, member.Type, span), nil
}

func (b *builder) circuitInit(v *yaml.Node, span position.Span) (asg.ExprID, error) {
	name, err := b.required(v, "name")
	if err != nil {
		return asg.NoExpr, err
	}
	c, ok := b.circuits[name.Value]
	if !ok {
		return asg.NoExpr, b.errorf(name, "unknown circuit %s", name.Value)
	}

	values, err := b.required(v, "values")
	if err != nil {
		return asg.NoExpr, err
	}
	if values.Kind != yaml.MappingNode {
		return asg.NoExpr, b.errorf(values, "values must map field names to expressions")
	}

	var inits []asg.CircuitInitValue
	for i := 0; i+1 < len(values.Content); i += 2 {
		key := values.Content[i]
		if _, ok := c.Field(key.Value); !ok {
			return asg.NoExpr, b.errorf(key, "circuit %s has no field %s", c.Name, key.Value)
		}
		value, err := b.expression(values.Content[i+1])
		if err != nil {
			return asg.NoExpr, err
		}
		inits = append(inits, asg.CircuitInitValue{Name: key.Value, Value: value})
	}

	kind := &asg.CircuitInitExpression{Circuit: c.ID, Values: inits}
	return b.ctx.NewExpression(kind, &asg.CircuitType{Circuit: c.ID, Name: c.Name}, span), nil
}
