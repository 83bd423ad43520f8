package asg

import (
	"fmt"

	"github.com/orizon-lang/circuitc/internal/position"
)

// Expression is one expression node. Kind holds the variant; Parent is the
// enclosing expression, or NoExpr when the expression hangs off a statement.
type Expression struct {
	Parent ExprID
	Span   position.Span
	Type   Type
	Kind   ExpressionKind
}

// ExpressionKind is the closed set of expression variants.
type ExpressionKind interface {
	expressionKind()
}

// BinaryOperator enumerates binary operators.
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpAnd
	OpOr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpBitAnd
	OpBitOr
	OpBitXor
)

var binaryOperatorNames = [...]string{
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpMod:    "%",
	OpPow:    "**",
	OpAnd:    "&&",
	OpOr:     "||",
	OpEq:     "==",
	OpNe:     "!=",
	OpLt:     "<",
	OpLe:     "<=",
	OpGt:     ">",
	OpGe:     ">=",
	OpBitAnd: "&",
	OpBitOr:  "|",
	OpBitXor: "^",
}

func (op BinaryOperator) String() string {
	if int(op) < len(binaryOperatorNames) {
		return binaryOperatorNames[op]
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// BinaryOperatorBySymbol looks up an operator by its source symbol.
func BinaryOperatorBySymbol(sym string) (BinaryOperator, bool) {
	for op, s := range binaryOperatorNames {
		if s == sym {
			return BinaryOperator(op), true
		}
	}
	return 0, false
}

// UnaryOperator enumerates unary operators.
type UnaryOperator int

const (
	OpNot UnaryOperator = iota
	OpNegate
	OpBitNot
)

func (op UnaryOperator) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNegate:
		return "-"
	case OpBitNot:
		return "~"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// LiteralExpression is a value written in source.
type LiteralExpression struct {
	Value Value
}

// ConstantExpression holds a value computed by constant folding.
type ConstantExpression struct {
	Value Value
}

// VariableRefExpression reads a variable.
type VariableRefExpression struct {
	Variable *Variable
}

type BinaryExpression struct {
	Op    BinaryOperator
	Left  ExprID
	Right ExprID
}

type UnaryExpression struct {
	Op    UnaryOperator
	Inner ExprID
}

type TernaryExpression struct {
	Condition ExprID
	IfTrue    ExprID
	IfFalse   ExprID
}

type CastExpression struct {
	Inner  ExprID
	Target Type
}

// CallExpression calls Function. Target is the receiver for member calls.
type CallExpression struct {
	Function  FuncID
	Target    ExprID
	Arguments []ExprID
}

type TupleInitExpression struct {
	Elements []ExprID
}

type ArrayInitExpression struct {
	Elements []ExprID
}

type TupleAccessExpression struct {
	Tuple ExprID
	Index int
}

type ArrayAccessExpression struct {
	Array ExprID
	Index ExprID
}

// CircuitInitValue is one `name: value` entry of a circuit literal.
type CircuitInitValue struct {
	Name  string
	Value ExprID
}

type CircuitInitExpression struct {
	Circuit CircuitID
	Values  []CircuitInitValue
}

type CircuitAccessExpression struct {
	Circuit CircuitID
	Target  ExprID
	Member  string
}

func (*LiteralExpression) expressionKind()       {}
func (*ConstantExpression) expressionKind()      {}
func (*VariableRefExpression) expressionKind()   {}
func (*BinaryExpression) expressionKind()        {}
func (*UnaryExpression) expressionKind()         {}
func (*TernaryExpression) expressionKind()       {}
func (*CastExpression) expressionKind()          {}
func (*CallExpression) expressionKind()          {}
func (*TupleInitExpression) expressionKind()     {}
func (*ArrayInitExpression) expressionKind()     {}
func (*TupleAccessExpression) expressionKind()   {}
func (*ArrayAccessExpression) expressionKind()   {}
func (*CircuitInitExpression) expressionKind()   {}
func (*CircuitAccessExpression) expressionKind() {}

// IsConstant reports whether the expression is a folded constant.
func (e *Expression) IsConstant() bool {
	_, ok := e.Kind.(*ConstantExpression)
	return ok
}

// Describe renders a short, single-line label for the expression.
func (e *Expression) Describe() string {
	switch k := e.Kind.(type) {
	case *LiteralExpression:
		return "literal " + k.Value.String()
	case *ConstantExpression:
		return "constant " + k.Value.String()
	case *VariableRefExpression:
		return "var " + k.Variable.Name
	case *BinaryExpression:
		return "binary " + k.Op.String()
	case *UnaryExpression:
		return "unary " + k.Op.String()
	case *TernaryExpression:
		return "ternary"
	case *CastExpression:
		return "cast as " + k.Target.String()
	case *CallExpression:
		return fmt.Sprintf("call #%d", k.Function)
	case *TupleInitExpression:
		return fmt.Sprintf("tuple (%d)", len(k.Elements))
	case *ArrayInitExpression:
		return fmt.Sprintf("array [%d]", len(k.Elements))
	case *TupleAccessExpression:
		return fmt.Sprintf("tuple access .%d", k.Index)
	case *ArrayAccessExpression:
		return "array access"
	case *CircuitInitExpression:
		return fmt.Sprintf("circuit init #%d", k.Circuit)
	case *CircuitAccessExpression:
		return "circuit access ." + k.Member
	default:
		return fmt.Sprintf("%T", k)
	}
}
