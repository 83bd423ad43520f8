package passes

import (
	"github.com/orizon-lang/circuitc/internal/asg"
	"github.com/orizon-lang/circuitc/internal/position"
)

func span(line int) position.Span {
	return position.Point("prog.yaml", line, 1)
}

// programBuilder assembles small programs for pass tests. Every program
// declares the Record circuit.
type programBuilder struct {
	ctx     *asg.Context
	program *asg.Program
	record  *asg.Circuit
}

func newProgramBuilder() *programBuilder {
	ctx := asg.NewContext()
	b := &programBuilder{ctx: ctx, program: asg.NewProgram("test", ctx)}
	b.record = b.circuit("Record", 100, asg.AnnotationCoreCircuit)
	return b
}

func annotations(line int, names ...string) *asg.Annotations {
	as := asg.NewAnnotations()
	for _, name := range names {
		as.Add(&asg.Annotation{Name: name, Span: span(line)})
	}
	return as
}

func (b *programBuilder) circuit(name string, line int, annotationNames ...string) *asg.Circuit {
	c := &asg.Circuit{Name: name, Span: span(line), Annotations: annotations(line, annotationNames...)}
	b.program.AddCircuit(c)
	return c
}

func (b *programBuilder) recordType() asg.Type {
	return &asg.CircuitType{Circuit: b.record.ID, Name: b.record.Name}
}

// transition declares a function carrying both entry point annotations.
func (b *programBuilder) transition(name string, line int, output asg.Type, args ...asg.Type) *asg.Function {
	return b.function(name, line, annotations(line, asg.AnnotationTransition, asg.AnnotationTransaction), output, args...)
}

func (b *programBuilder) function(name string, line int, as *asg.Annotations, output asg.Type, args ...asg.Type) *asg.Function {
	f := &asg.Function{Name: name, Span: span(line), Annotations: as, Output: output}
	for i, t := range args {
		f.Arguments = append(f.Arguments, &asg.Variable{Name: string(rune('a' + i)), Type: t, Span: span(line)})
	}
	b.program.AddFunction(f)
	return f
}

// returning gives f a body that returns value.
func (b *programBuilder) returning(f *asg.Function, value asg.ExprID) asg.StmtID {
	ret := b.ctx.NewStatement(&asg.ReturnStatement{Expression: value}, span(f.Span.Start.Line))
	body := b.ctx.NewStatement(&asg.BlockStatement{Statements: []asg.StmtID{ret}}, span(f.Span.Start.Line))
	b.ctx.SetBody(f.ID, body)
	return ret
}

func (b *programBuilder) lit(kind asg.PrimitiveKind, v int64, line int) asg.ExprID {
	return b.ctx.NewLiteral(asg.Int(kind, v), span(line))
}

func (b *programBuilder) binary(op asg.BinaryOperator, left, right asg.ExprID, line int) asg.ExprID {
	return b.ctx.NewExpression(&asg.BinaryExpression{Op: op, Left: left, Right: right}, nil, span(line))
}

func (b *programBuilder) variable(name string, kind asg.PrimitiveKind, line int) asg.ExprID {
	v := &asg.Variable{Name: name, Type: asg.Prim(kind), Span: span(line)}
	return b.ctx.NewExpression(&asg.VariableRefExpression{Variable: v}, v.Type, span(line))
}

func returned(ctx *asg.Context, ret asg.StmtID) *asg.ReturnStatement {
	return ctx.MustStatement(ret).Kind.(*asg.ReturnStatement)
}
