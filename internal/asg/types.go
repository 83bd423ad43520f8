package asg

import (
	"fmt"
	"strings"
)

// Type is the closed set of resolved types.
type Type interface {
	String() string
	typeNode()
}

// PrimitiveKind enumerates the scalar types.
type PrimitiveKind int

const (
	Address PrimitiveKind = iota
	Boolean
	Char
	Field
	Group
	U8
	U16
	U32
	U64
	U128
	I8
	I16
	I32
	I64
	I128
)

var primitiveNames = [...]string{
	Address: "address",
	Boolean: "bool",
	Char:    "char",
	Field:   "field",
	Group:   "group",
	U8:      "u8",
	U16:     "u16",
	U32:     "u32",
	U64:     "u64",
	U128:    "u128",
	I8:      "i8",
	I16:     "i16",
	I32:     "i32",
	I64:     "i64",
	I128:    "i128",
}

func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveNames) {
		return primitiveNames[k]
	}
	return fmt.Sprintf("primitive(%d)", int(k))
}

// IsInteger reports whether k is one of the fixed-width integer kinds.
func (k PrimitiveKind) IsInteger() bool { return k >= U8 && k <= I128 }

// IsSigned reports whether k is a signed integer kind.
func (k PrimitiveKind) IsSigned() bool { return k >= I8 && k <= I128 }

// Bits returns the width of an integer kind, or 0.
func (k PrimitiveKind) Bits() uint {
	switch k {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case U32, I32:
		return 32
	case U64, I64:
		return 64
	case U128, I128:
		return 128
	default:
		return 0
	}
}

// PrimitiveByName looks up a primitive kind by its source spelling.
func PrimitiveByName(name string) (PrimitiveKind, bool) {
	for k, n := range primitiveNames {
		if n == name {
			return PrimitiveKind(k), true
		}
	}
	return 0, false
}

// PrimitiveType is a scalar type.
type PrimitiveType struct {
	Kind PrimitiveKind
}

// CircuitType refers to a circuit declared in the same Context.
type CircuitType struct {
	Circuit CircuitID
	Name    string
}

// TupleType is an ordered product of types. The empty tuple is the unit type.
type TupleType struct {
	Elements []Type
}

// ArrayType is a fixed-length array.
type ArrayType struct {
	Element Type
	Length  uint32
}

// ArrayWithoutSizeType is an array whose length is not known yet.
type ArrayWithoutSizeType struct {
	Element Type
}

func (*PrimitiveType) typeNode()        {}
func (*CircuitType) typeNode()          {}
func (*TupleType) typeNode()            {}
func (*ArrayType) typeNode()            {}
func (*ArrayWithoutSizeType) typeNode() {}

func (t *PrimitiveType) String() string { return t.Kind.String() }
func (t *CircuitType) String() string   { return t.Name }

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *ArrayType) String() string {
	return fmt.Sprintf("[%s; %d]", t.Element, t.Length)
}

func (t *ArrayWithoutSizeType) String() string {
	return fmt.Sprintf("[%s; _]", t.Element)
}

// Prim returns the primitive type of the given kind.
func Prim(k PrimitiveKind) *PrimitiveType { return &PrimitiveType{Kind: k} }

// Tuple returns a tuple of the given element types.
func Tuple(elements ...Type) *TupleType { return &TupleType{Elements: elements} }

// Unit returns the empty tuple.
func Unit() *TupleType { return &TupleType{} }

// TypesEqual compares two types structurally.
func TypesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch a := a.(type) {
	case *PrimitiveType:
		b, ok := b.(*PrimitiveType)
		return ok && a.Kind == b.Kind
	case *CircuitType:
		b, ok := b.(*CircuitType)
		return ok && a.Circuit == b.Circuit
	case *TupleType:
		b, ok := b.(*TupleType)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !TypesEqual(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	case *ArrayType:
		b, ok := b.(*ArrayType)
		return ok && a.Length == b.Length && TypesEqual(a.Element, b.Element)
	case *ArrayWithoutSizeType:
		b, ok := b.(*ArrayWithoutSizeType)
		return ok && TypesEqual(a.Element, b.Element)
	default:
		panic(fmt.Sprintf("asg: unknown type %T", a))
	}
}
