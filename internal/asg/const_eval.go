package asg

import (
	"math/big"
	"strconv"

	"github.com/holiman/uint256"

	cerrors "github.com/orizon-lang/circuitc/internal/errors"
	"github.com/orizon-lang/circuitc/internal/position"
)

// ConstValue attempts compile-time evaluation of an expression. It returns a
// value, nil when the expression is not a constant, or an error when
// evaluation itself fails. A failure inside a sub-expression makes the
// enclosing expression non-constant rather than failing it, so each error
// is reported once, at the expression that caused it.
func (c *Context) ConstValue(id ExprID) (Value, error) {
	e := c.Expression(id)
	if e == nil {
		return nil, nil
	}

	v, err := c.constValue(e)
	if err != nil {
		if ce, ok := err.(*cerrors.CompilerError); ok {
			return nil, ce.WithSpan(e.Span)
		}
		return nil, err
	}
	return v, nil
}

// operand evaluates a child, swallowing its errors.
func (c *Context) operand(id ExprID) Value {
	v, err := c.ConstValue(id)
	if err != nil {
		return nil
	}
	return v
}

func (c *Context) constValue(e *Expression) (Value, error) {
	switch k := e.Kind.(type) {
	case *LiteralExpression:
		return k.Value, nil
	case *ConstantExpression:
		return k.Value, nil
	case *BinaryExpression:
		left, right := c.operand(k.Left), c.operand(k.Right)
		if left == nil || right == nil {
			return nil, nil
		}
		return evalBinary(k.Op, left, right)
	case *UnaryExpression:
		inner := c.operand(k.Inner)
		if inner == nil {
			return nil, nil
		}
		return evalUnary(k.Op, inner)
	case *TernaryExpression:
		cond, ok := c.operand(k.Condition).(*BooleanValue)
		if !ok {
			return nil, nil
		}
		if cond.V {
			return c.operand(k.IfTrue), nil
		}
		return c.operand(k.IfFalse), nil
	case *CastExpression:
		return c.evalCast(k)
	case *TupleInitExpression:
		elements, ok := c.operands(k.Elements)
		if !ok {
			return nil, nil
		}
		return &TupleValue{Elements: elements}, nil
	case *ArrayInitExpression:
		elements, ok := c.operands(k.Elements)
		if !ok || len(elements) == 0 {
			return nil, nil
		}
		return &ArrayValue{Element: elements[0].Type(), Elements: elements}, nil
	case *TupleAccessExpression:
		tuple, ok := c.operand(k.Tuple).(*TupleValue)
		if !ok {
			return nil, nil
		}
		if k.Index < 0 || k.Index >= len(tuple.Elements) {
			return nil, cerrors.IndexOutOfBounds(strconv.Itoa(k.Index), uint64(len(tuple.Elements)), e.Span)
		}
		return tuple.Elements[k.Index], nil
	case *ArrayAccessExpression:
		array, ok := c.operand(k.Array).(*ArrayValue)
		if !ok {
			return nil, nil
		}
		index, ok := c.operand(k.Index).(*IntegerValue)
		if !ok {
			return nil, nil
		}
		if index.Kind.IsSigned() && index.V.Sign() < 0 {
			return nil, cerrors.InvalidOperation("negative array index %s", index)
		}
		n := uint64(len(array.Elements))
		if !index.V.IsUint64() || index.V.Uint64() >= n {
			return nil, cerrors.IndexOutOfBounds(index.Big().String(), n, e.Span)
		}
		return array.Elements[index.V.Uint64()], nil
	case *VariableRefExpression, *CallExpression, *CircuitInitExpression, *CircuitAccessExpression:
		return nil, nil
	default:
		return nil, nil
	}
}

func (c *Context) operands(ids []ExprID) ([]Value, bool) {
	values := make([]Value, len(ids))
	for i, id := range ids {
		v := c.operand(id)
		if v == nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func (c *Context) evalCast(k *CastExpression) (Value, error) {
	target, ok := k.Target.(*PrimitiveType)
	if !ok || !target.Kind.IsInteger() {
		return nil, nil
	}
	inner, ok := c.operand(k.Inner).(*IntegerValue)
	if !ok {
		return nil, nil
	}
	v, ok := NewInteger(target.Kind, inner.Big())
	if !ok {
		return nil, cerrors.IntegerOverflow("cast of "+inner.String(), target.Kind.String(), position.Span{})
	}
	return v, nil
}

func evalBinary(op BinaryOperator, left, right Value) (Value, error) {
	switch l := left.(type) {
	case *IntegerValue:
		if op == OpPow {
			return evalPow(l, right)
		}
		r, ok := right.(*IntegerValue)
		if !ok || r.Kind != l.Kind {
			return nil, mismatch(op, left, right)
		}
		return evalInteger(op, l, r)
	case *FieldValue:
		r, ok := right.(*FieldValue)
		if !ok {
			return nil, mismatch(op, left, right)
		}
		return evalField(op, l, r)
	case *BooleanValue:
		r, ok := right.(*BooleanValue)
		if !ok {
			return nil, mismatch(op, left, right)
		}
		switch op {
		case OpAnd, OpBitAnd:
			return Bool(l.V && r.V), nil
		case OpOr, OpBitOr:
			return Bool(l.V || r.V), nil
		case OpBitXor, OpNe:
			return Bool(l.V != r.V), nil
		case OpEq:
			return Bool(l.V == r.V), nil
		}
	case *AddressValue:
		r, ok := right.(*AddressValue)
		if !ok {
			return nil, mismatch(op, left, right)
		}
		switch op {
		case OpEq:
			return Bool(l.V == r.V), nil
		case OpNe:
			return Bool(l.V != r.V), nil
		}
	case *TupleValue, *ArrayValue:
		switch op {
		case OpEq:
			return Bool(ValuesEqual(left, right)), nil
		case OpNe:
			return Bool(!ValuesEqual(left, right)), nil
		}
	}
	return nil, cerrors.InvalidOperation("operator %s is not defined for %s", op, left.Type())
}

func mismatch(op BinaryOperator, left, right Value) error {
	return cerrors.InvalidOperation("mismatched operands %s %s %s", left.Type(), op, right.Type())
}

func evalInteger(op BinaryOperator, l, r *IntegerValue) (Value, error) {
	signed := l.Kind.IsSigned()
	var z uint256.Int

	switch op {
	case OpAdd:
		z.Add(&l.V, &r.V)
	case OpSub:
		z.Sub(&l.V, &r.V)
	case OpMul:
		z.Mul(&l.V, &r.V)
	case OpDiv, OpMod:
		if r.V.IsZero() {
			return nil, cerrors.DivisionByZero(position.Span{})
		}
		switch {
		case op == OpDiv && signed:
			z.SDiv(&l.V, &r.V)
		case op == OpDiv:
			z.Div(&l.V, &r.V)
		case signed:
			z.SMod(&l.V, &r.V)
		default:
			z.Mod(&l.V, &r.V)
		}
	case OpBitAnd:
		z.And(&l.V, &r.V)
	case OpBitOr:
		z.Or(&l.V, &r.V)
	case OpBitXor:
		z.Xor(&l.V, &r.V)
	case OpEq:
		return Bool(l.V.Eq(&r.V)), nil
	case OpNe:
		return Bool(!l.V.Eq(&r.V)), nil
	case OpLt:
		return Bool(less(signed, &l.V, &r.V)), nil
	case OpGt:
		return Bool(less(signed, &r.V, &l.V)), nil
	case OpLe:
		return Bool(!less(signed, &r.V, &l.V)), nil
	case OpGe:
		return Bool(!less(signed, &l.V, &r.V)), nil
	default:
		return nil, cerrors.InvalidOperation("operator %s is not defined for %s", op, l.Kind)
	}

	if !inRange(l.Kind, &z) {
		return nil, cerrors.IntegerOverflow(l.String()+" "+op.String()+" "+r.String(), l.Kind.String(), position.Span{})
	}
	return &IntegerValue{Kind: l.Kind, V: z}, nil
}

func less(signed bool, a, b *uint256.Int) bool {
	if signed {
		return a.Slt(b)
	}
	return a.Lt(b)
}

// evalPow multiplies step by step so that overflow is detected at the first
// intermediate result that leaves the type's range.
func evalPow(base *IntegerValue, exponent Value) (Value, error) {
	e, ok := exponent.(*IntegerValue)
	if !ok || e.Kind.IsSigned() {
		return nil, cerrors.InvalidOperation("exponent must be an unsigned integer, found %s", exponent.Type())
	}

	one := &IntegerValue{Kind: base.Kind}
	one.V.SetUint64(1)
	var minusOne uint256.Int
	minusOne.Neg(&one.V)

	switch {
	case e.V.IsZero():
		return one, nil
	case base.V.IsZero(), base.V.Eq(&one.V):
		return base, nil
	case base.Kind.IsSigned() && base.V.Eq(&minusOne):
		if e.V.ToBig().Bit(0) == 0 {
			return one, nil
		}
		return base, nil
	}

	// |base| >= 2 here, so 2^128 bounds every kind.
	if !e.V.IsUint64() || e.V.Uint64() >= 128 {
		return nil, cerrors.IntegerOverflow(base.String()+" ** "+e.String(), base.Kind.String(), position.Span{})
	}

	result := one
	for i := uint64(0); i < e.V.Uint64(); i++ {
		next, err := evalInteger(OpMul, result, base)
		if err != nil {
			return nil, err
		}
		result = next.(*IntegerValue)
	}
	return result, nil
}

func evalField(op BinaryOperator, l, r *FieldValue) (Value, error) {
	var z uint256.Int
	switch op {
	case OpAdd:
		z.AddMod(&l.V, &r.V, FieldModulus)
	case OpSub:
		var neg uint256.Int
		neg.Sub(FieldModulus, &r.V)
		z.AddMod(&l.V, &neg, FieldModulus)
	case OpMul:
		z.MulMod(&l.V, &r.V, FieldModulus)
	case OpDiv:
		if r.V.IsZero() {
			return nil, cerrors.DivisionByZero(position.Span{})
		}
		inv := fieldInverse(&r.V)
		z.MulMod(&l.V, inv, FieldModulus)
	case OpPow:
		z = *fieldExp(&l.V, &r.V)
	case OpEq:
		return Bool(l.V.Eq(&r.V)), nil
	case OpNe:
		return Bool(!l.V.Eq(&r.V)), nil
	default:
		return nil, cerrors.InvalidOperation("operator %s is not defined for field", op)
	}
	return &FieldValue{V: z}, nil
}

func fieldExp(base, exponent *uint256.Int) *uint256.Int {
	result := uint256.NewInt(1)
	b := new(uint256.Int).Set(base)
	bits := exponent.ToBig()
	for i := 0; i < bits.BitLen(); i++ {
		if bits.Bit(i) == 1 {
			result.MulMod(result, b, FieldModulus)
		}
		b.MulMod(b, b, FieldModulus)
	}
	return result
}

// fieldInverse uses Fermat's little theorem; the modulus is prime.
func fieldInverse(a *uint256.Int) *uint256.Int {
	var e uint256.Int
	e.Sub(FieldModulus, uint256.NewInt(2))
	return fieldExp(a, &e)
}

func evalUnary(op UnaryOperator, inner Value) (Value, error) {
	switch v := inner.(type) {
	case *BooleanValue:
		if op == OpNot {
			return Bool(!v.V), nil
		}
	case *FieldValue:
		if op == OpNegate {
			if v.V.IsZero() {
				return v, nil
			}
			var z uint256.Int
			z.Sub(FieldModulus, &v.V)
			return &FieldValue{V: z}, nil
		}
	case *IntegerValue:
		switch op {
		case OpNegate:
			if !v.Kind.IsSigned() {
				break
			}
			var z uint256.Int
			z.Neg(&v.V)
			if !inRange(v.Kind, &z) {
				return nil, cerrors.IntegerOverflow("-"+v.String(), v.Kind.String(), position.Span{})
			}
			return &IntegerValue{Kind: v.Kind, V: z}, nil
		case OpBitNot:
			var z uint256.Int
			z.Not(&v.V)
			if !v.Kind.IsSigned() {
				mask := new(big.Int).Lsh(big.NewInt(1), v.Kind.Bits())
				mask.Sub(mask, big.NewInt(1))
				m, _ := uint256.FromBig(mask)
				z.And(&z, m)
			}
			return &IntegerValue{Kind: v.Kind, V: z}, nil
		}
	}
	return nil, cerrors.InvalidOperation("operator %s is not defined for %s", op, inner.Type())
}
