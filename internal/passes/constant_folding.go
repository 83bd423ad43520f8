package passes

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/orizon-lang/circuitc/internal/asg"
	"github.com/orizon-lang/circuitc/internal/diagnostics"
	cerrors "github.com/orizon-lang/circuitc/internal/errors"
)

// FoldStats tracks what constant folding did in one run.
type FoldStats struct {
	ExpressionsVisited int
	ConstantsFolded    int
	Errors             int
}

func (s FoldStats) String() string {
	return fmt.Sprintf("Visited: %d, Folded: %d, Errors: %d",
		s.ExpressionsVisited, s.ConstantsFolded, s.Errors)
}

// ConstantFolding replaces every maximal constant expression with a
// Constant node holding its value. Evaluation errors are reported at the
// expression that caused them and folding carries on below it.
type ConstantFolding struct {
	asg.BaseVisitor
	ctx     *asg.Context
	handler *diagnostics.Handler
	stats   FoldStats
}

// NewConstantFolding creates the pass.
func NewConstantFolding() *ConstantFolding {
	return &ConstantFolding{}
}

func (*ConstantFolding) Name() string { return "constant-folding" }

// Run folds program in place.
func (f *ConstantFolding) Run(handler *diagnostics.Handler, program *asg.Program) (*asg.Program, error) {
	f.ctx = program.Context
	f.handler = handler
	f.stats = FoldStats{}
	asg.NewVisitorDirector(program.Context, f).VisitProgram(program)
	return program, nil
}

// Stats returns the counters of the last run.
func (f *ConstantFolding) Stats() FoldStats { return f.stats }

func (f *ConstantFolding) LogFields() []zap.Field {
	return []zap.Field{
		zap.Int("visited", f.stats.ExpressionsVisited),
		zap.Int("folded", f.stats.ConstantsFolded),
	}
}

func (f *ConstantFolding) VisitExpression(slot *asg.ExprID) asg.VisitResult {
	e := f.ctx.MustExpression(*slot)
	f.stats.ExpressionsVisited++

	if _, ok := e.Kind.(*asg.ConstantExpression); ok {
		return asg.SkipChildren
	}

	v, err := f.ctx.ConstValue(*slot)
	if err != nil {
		f.stats.Errors++
		f.handler.Emit(asCompilerError(err, e))
		return asg.VisitChildren
	}
	if v == nil {
		return asg.VisitChildren
	}

	typ := e.Type
	if typ == nil {
		typ = v.Type()
	}
	*slot = f.ctx.AllocExpression(&asg.Expression{
		Parent: e.Parent,
		Span:   e.Span,
		Type:   typ,
		Kind:   &asg.ConstantExpression{Value: v},
	})
	f.stats.ConstantsFolded++
	return asg.SkipChildren
}

func asCompilerError(err error, e *asg.Expression) *cerrors.CompilerError {
	if ce, ok := err.(*cerrors.CompilerError); ok {
		return ce
	}
	return cerrors.InvalidOperation("%v", err).WithSpan(e.Span)
}
