package asg

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// FieldModulus is the order of the scalar field the circuits are defined over.
var FieldModulus = mustDecimal("8444461749428370424248824938781546531375899335154063827935233455917409239041")

func mustDecimal(s string) *uint256.Int {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("asg: bad decimal constant " + s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		panic("asg: constant overflows 256 bits " + s)
	}
	return v
}

// Value is a compile-time constant.
type Value interface {
	Type() Type
	String() string
	valueNode()
}

// IntegerValue is a fixed-width integer. Signed values are stored in 256-bit
// two's complement and always lie within the range of Kind.
type IntegerValue struct {
	Kind PrimitiveKind
	V    uint256.Int
}

// FieldValue is an element of the scalar field, always reduced.
type FieldValue struct {
	V uint256.Int
}

type BooleanValue struct {
	V bool
}

type AddressValue struct {
	V string
}

type TupleValue struct {
	Elements []Value
}

type ArrayValue struct {
	Element  Type
	Elements []Value
}

func (*IntegerValue) valueNode() {}
func (*FieldValue) valueNode()   {}
func (*BooleanValue) valueNode() {}
func (*AddressValue) valueNode() {}
func (*TupleValue) valueNode()   {}
func (*ArrayValue) valueNode()   {}

func (v *IntegerValue) Type() Type { return Prim(v.Kind) }
func (v *FieldValue) Type() Type   { return Prim(Field) }
func (v *BooleanValue) Type() Type { return Prim(Boolean) }
func (v *AddressValue) Type() Type { return Prim(Address) }

func (v *TupleValue) Type() Type {
	elements := make([]Type, len(v.Elements))
	for i, e := range v.Elements {
		elements[i] = e.Type()
	}
	return &TupleType{Elements: elements}
}

func (v *ArrayValue) Type() Type {
	return &ArrayType{Element: v.Element, Length: uint32(len(v.Elements))}
}

func (v *IntegerValue) String() string {
	return v.Big().String() + v.Kind.String()
}

func (v *FieldValue) String() string   { return v.V.ToBig().String() + "field" }
func (v *BooleanValue) String() string { return fmt.Sprintf("%t", v.V) }
func (v *AddressValue) String() string { return v.V }

func (v *TupleValue) String() string {
	return "(" + joinValues(v.Elements) + ")"
}

func (v *ArrayValue) String() string {
	return "[" + joinValues(v.Elements) + "]"
}

func joinValues(values []Value) string {
	parts := make([]string, len(values))
	for i, e := range values {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// Big returns the mathematical value of v.
func (v *IntegerValue) Big() *big.Int {
	if v.Kind.IsSigned() && v.V.Sign() < 0 {
		var neg uint256.Int
		neg.Neg(&v.V)
		return new(big.Int).Neg(neg.ToBig())
	}
	return v.V.ToBig()
}

// inRange reports whether the two's complement value x fits kind.
func inRange(kind PrimitiveKind, x *uint256.Int) bool {
	bits := int(kind.Bits())
	if !kind.IsSigned() {
		return x.Sign() >= 0 && x.BitLen() <= bits
	}
	if x.Sign() >= 0 {
		return x.BitLen() <= bits-1
	}
	var inv uint256.Int
	inv.Not(x)
	return inv.BitLen() <= bits-1
}

// NewInteger builds an integer value from its mathematical value.
func NewInteger(kind PrimitiveKind, b *big.Int) (*IntegerValue, bool) {
	if !kind.IsInteger() {
		return nil, false
	}
	abs := new(big.Int).Abs(b)
	u, overflow := uint256.FromBig(abs)
	if overflow {
		return nil, false
	}
	if b.Sign() < 0 {
		u.Neg(u)
	}
	if !inRange(kind, u) {
		return nil, false
	}
	return &IntegerValue{Kind: kind, V: *u}, true
}

// Int is a convenience constructor for small integer values.
func Int(kind PrimitiveKind, v int64) *IntegerValue {
	iv, ok := NewInteger(kind, big.NewInt(v))
	if !ok {
		panic(fmt.Sprintf("asg: %d out of range for %s", v, kind))
	}
	return iv
}

// NewField reduces b into the scalar field.
func NewField(b *big.Int) *FieldValue {
	r := new(big.Int).Mod(b, FieldModulus.ToBig())
	u, _ := uint256.FromBig(r)
	return &FieldValue{V: *u}
}

// Bool returns a boolean value.
func Bool(v bool) *BooleanValue { return &BooleanValue{V: v} }

// ValuesEqual compares two values structurally.
func ValuesEqual(a, b Value) bool {
	switch a := a.(type) {
	case *IntegerValue:
		b, ok := b.(*IntegerValue)
		return ok && a.Kind == b.Kind && a.V.Eq(&b.V)
	case *FieldValue:
		b, ok := b.(*FieldValue)
		return ok && a.V.Eq(&b.V)
	case *BooleanValue:
		b, ok := b.(*BooleanValue)
		return ok && a.V == b.V
	case *AddressValue:
		b, ok := b.(*AddressValue)
		return ok && a.V == b.V
	case *TupleValue:
		b, ok := b.(*TupleValue)
		return ok && valueSlicesEqual(a.Elements, b.Elements)
	case *ArrayValue:
		b, ok := b.(*ArrayValue)
		return ok && valueSlicesEqual(a.Elements, b.Elements)
	default:
		return false
	}
}

func valueSlicesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ValuesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ParseLiteral parses a literal in source spelling: `12u8`, `-3i16`,
// `7field`, `true`, `aleo1...`.
func ParseLiteral(text string) (Value, error) {
	switch {
	case text == "true" || text == "false":
		return Bool(text == "true"), nil
	case strings.HasPrefix(text, "aleo1"):
		return &AddressValue{V: text}, nil
	}

	suffix := strings.TrimLeft(text, "-0123456789")
	number := strings.TrimSuffix(text, suffix)
	if number == "" || number == "-" {
		return nil, fmt.Errorf("invalid literal %q", text)
	}

	b, ok := new(big.Int).SetString(number, 10)
	if !ok {
		return nil, fmt.Errorf("invalid literal %q", text)
	}

	if suffix == "field" {
		return NewField(b), nil
	}

	kind, ok := PrimitiveByName(suffix)
	if !ok || !kind.IsInteger() {
		return nil, fmt.Errorf("invalid literal suffix %q in %q", suffix, text)
	}
	v, ok := NewInteger(kind, b)
	if !ok {
		return nil, fmt.Errorf("literal %q out of range for %s", text, kind)
	}
	return v, nil
}
