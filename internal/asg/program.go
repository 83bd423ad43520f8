// Package asg defines the abstract semantic graph consumed by the semantic
// passes, together with the traversal framework those passes are built on.
//
// Every node lives in a Context arena and is addressed by a typed ID.
// Parent links are plain IDs and never imply ownership.
package asg

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/circuitc/internal/position"
)

// Reserved name of the protocol record circuit.
const RecordCircuitName = "Record"

// Program is the root of one compilation unit.
type Program struct {
	Name      string
	Context   *Context
	Functions []FuncID
	Circuits  []CircuitID
}

// NewProgram creates an empty program backed by ctx.
func NewProgram(name string, ctx *Context) *Program {
	return &Program{Name: name, Context: ctx}
}

// AddFunction allocates f and appends it to the program's free functions.
func (p *Program) AddFunction(f *Function) FuncID {
	id := p.Context.AllocFunction(f)
	p.Functions = append(p.Functions, id)
	return id
}

// AddCircuit allocates c and appends it to the program's circuits.
func (p *Program) AddCircuit(c *Circuit) CircuitID {
	id := p.Context.AllocCircuit(c)
	p.Circuits = append(p.Circuits, id)
	return id
}

// LookupCircuit finds a circuit by name.
func (p *Program) LookupCircuit(name string) (*Circuit, bool) {
	for _, id := range p.Circuits {
		if c := p.Context.Circuit(id); c != nil && c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// LookupFunction finds a free function by name.
func (p *Program) LookupFunction(name string) (*Function, bool) {
	for _, id := range p.Functions {
		if f := p.Context.Function(id); f != nil && f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Variable is a named, typed binding: a function argument or a local.
type Variable struct {
	Name    string
	Type    Type
	Span    position.Span
	Mutable bool
	Const   bool
}

// Function is a free function or a circuit member function.
type Function struct {
	ID          FuncID
	Name        string
	Span        position.Span
	Arguments   []*Variable
	Output      Type
	Body        StmtID
	Annotations *Annotations
	Circuit     CircuitID

	// Set by the annotation resolver.
	CoreMapping string
	AlwaysConst bool
}

// HasCoreMapping reports whether the function is bound to an intrinsic.
func (f *Function) HasCoreMapping() bool { return f.CoreMapping != "" }

// IsTransition reports whether the function is a protocol entry point.
func (f *Function) IsTransition() bool {
	return f.Annotations.Has(AnnotationTransition)
}

// InputType collapses the argument types into one: the sole argument's type,
// or a tuple of all of them.
func (f *Function) InputType() Type {
	if len(f.Arguments) == 1 {
		return f.Arguments[0].Type
	}
	elements := make([]Type, len(f.Arguments))
	for i, arg := range f.Arguments {
		elements[i] = arg.Type
	}
	return &TupleType{Elements: elements}
}

// Signature renders the function header.
func (f *Function) Signature() string {
	args := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = fmt.Sprintf("%s: %s", a.Name, a.Type)
	}
	out := "()"
	if f.Output != nil {
		out = f.Output.String()
	}
	return fmt.Sprintf("function %s(%s) -> %s", f.Name, strings.Join(args, ", "), out)
}

// CircuitMember is either a field (Variable set) or a member function
// (Function set).
type CircuitMember struct {
	Variable *Variable
	Function FuncID
}

// IsFunction reports whether the member is a function.
func (m CircuitMember) IsFunction() bool { return m.Function.IsValid() }

// Circuit is a struct-like aggregate type.
type Circuit struct {
	ID          CircuitID
	Name        string
	Span        position.Span
	Members     []CircuitMember
	Annotations *Annotations
}

// IsRecord reports whether c is the protocol record circuit. Both the
// reserved name and the CoreCircuit annotation are required.
func (c *Circuit) IsRecord() bool {
	return c.Name == RecordCircuitName && c.Annotations.Has(AnnotationCoreCircuit)
}

// Field returns the field member with the given name.
func (c *Circuit) Field(name string) (*Variable, bool) {
	for _, m := range c.Members {
		if m.Variable != nil && m.Variable.Name == name {
			return m.Variable, true
		}
	}
	return nil, false
}
