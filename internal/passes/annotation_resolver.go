package passes

import (
	"github.com/orizon-lang/circuitc/internal/asg"
	"github.com/orizon-lang/circuitc/internal/diagnostics"
)

// AnnotationResolver turns internal annotations into function properties:
// @AlwaysConst marks the result as compile-time only, @CoreFunction binds
// the function to an intrinsic named by its first argument or, without
// arguments, by the function's own name. Other annotations are left alone.
type AnnotationResolver struct {
	asg.BaseReducer
	ctx *asg.Context
}

// NewAnnotationResolver creates the pass.
func NewAnnotationResolver() *AnnotationResolver {
	return &AnnotationResolver{}
}

func (*AnnotationResolver) Name() string { return "annotation-resolver" }

// Run never reports diagnostics.
func (r *AnnotationResolver) Run(_ *diagnostics.Handler, program *asg.Program) (*asg.Program, error) {
	r.ctx = program.Context
	return asg.NewReconstructingDirector(program.Context, r).ReduceProgram(program), nil
}

func (r *AnnotationResolver) ReduceFunction(f *asg.Function) *asg.Function {
	r.handleAnnotations(f)
	return f
}

func (r *AnnotationResolver) ReduceCircuitMemberFunction(_ *asg.Circuit, f *asg.Function) asg.CircuitMember {
	r.handleAnnotations(f)
	return asg.CircuitMember{Function: f.ID}
}

func (r *AnnotationResolver) handleAnnotations(f *asg.Function) {
	f.Annotations.Each(func(name string, a *asg.Annotation) {
		switch name {
		case asg.AnnotationAlwaysConst:
			r.ctx.SetAlwaysConst(f.ID, true)
		case asg.AnnotationCoreFunction:
			mapping := f.Name
			if len(a.Arguments) > 0 {
				mapping = a.Arguments[0]
			}
			r.ctx.SetCoreMapping(f.ID, mapping)
		}
	})
}
