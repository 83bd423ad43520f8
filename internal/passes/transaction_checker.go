package passes

import (
	"math"
	"math/bits"

	"go.uber.org/zap"

	"github.com/orizon-lang/circuitc/internal/asg"
	"github.com/orizon-lang/circuitc/internal/diagnostics"
	cerrors "github.com/orizon-lang/circuitc/internal/errors"
	"github.com/orizon-lang/circuitc/internal/network"
	"github.com/orizon-lang/circuitc/internal/position"
)

// TransactionChecker validates the signatures of transition functions
// against the limits of a network: how many transitions a program may
// declare and how many records each may consume and produce.
type TransactionChecker struct {
	asg.BaseVisitor
	profile network.Profile
	ctx     *asg.Context
	handler *diagnostics.Handler
	count   int
	fatal   *cerrors.CompilerError
}

// NewTransactionChecker creates the pass for the given network.
func NewTransactionChecker(profile network.Profile) *TransactionChecker {
	return &TransactionChecker{profile: profile}
}

func (*TransactionChecker) Name() string { return "transaction-checker" }

// Run checks every function, free or circuit member. It returns an error
// only when a function carries one of the transition and transaction
// annotations without the other; the walk stops there.
func (c *TransactionChecker) Run(handler *diagnostics.Handler, program *asg.Program) (*asg.Program, error) {
	c.ctx = program.Context
	c.handler = handler
	c.count = 0
	c.fatal = nil

	asg.NewVisitorDirector(program.Context, c).VisitProgram(program)
	if c.fatal != nil {
		return program, c.fatal
	}
	return program, nil
}

// Transitions returns how many transition functions the last run saw.
func (c *TransactionChecker) Transitions() int { return c.count }

func (c *TransactionChecker) LogFields() []zap.Field {
	return []zap.Field{
		zap.Int("transitions", c.count),
		zap.String("network", c.profile.Name),
	}
}

func (c *TransactionChecker) VisitFunction(f *asg.Function) asg.VisitResult {
	transition := f.Annotations.Has(asg.AnnotationTransition)
	transaction := f.Annotations.Has(asg.AnnotationTransaction)

	switch {
	case transition && !transaction:
		return c.abort(cerrors.MissingPairedAnnotation(f.Name, asg.AnnotationTransition, asg.AnnotationTransaction, f.Span))
	case transaction && !transition:
		return c.abort(cerrors.MissingPairedAnnotation(f.Name, asg.AnnotationTransaction, asg.AnnotationTransition, f.Span))
	case !transition:
		return asg.SkipChildren
	}

	if c.count >= c.profile.MaxTransitions {
		c.handler.Emit(cerrors.ExceededMaximumTransitions(c.profile.MaxTransitions, f.Span))
	}

	if inputs := c.countInputs(f); inputs > c.profile.MaxInputRecords {
		c.handler.Emit(cerrors.InputRecordLimit(c.profile.MaxInputRecords, inputs, f.Span))
	}

	output := f.Output
	if output == nil {
		output = asg.Unit()
	}
	if outputs := c.CountRecords(output, f.Span); outputs > c.profile.MaxOutputRecords {
		c.handler.Emit(cerrors.OutputRecordLimit(c.profile.MaxOutputRecords, outputs, f.Span))
	}

	c.count++
	return asg.SkipChildren
}

func (c *TransactionChecker) abort(err *cerrors.CompilerError) asg.VisitResult {
	c.handler.Emit(err)
	c.fatal = err
	return asg.Exit
}

// countInputs counts the records of every argument, attributing errors to
// the argument that causes them.
func (c *TransactionChecker) countInputs(f *asg.Function) int {
	total := 0
	for _, arg := range f.Arguments {
		span := arg.Span
		if !span.IsValid() {
			span = f.Span
		}
		total = addCounts(total, c.CountRecords(arg.Type, span))
	}
	return total
}

// CountRecords returns how many record values a value of type t holds,
// saturating at math.MaxInt. An array of unknown size cannot hold records;
// if it would, an error is reported at span and the array counts as none.
func (c *TransactionChecker) CountRecords(t asg.Type, span position.Span) int {
	switch t := t.(type) {
	case *asg.CircuitType:
		if circuit := c.ctx.Circuit(t.Circuit); circuit != nil && circuit.IsRecord() {
			return 1
		}
		return 0
	case *asg.TupleType:
		total := 0
		for _, element := range t.Elements {
			total = addCounts(total, c.CountRecords(element, span))
		}
		return total
	case *asg.ArrayType:
		return mulCount(c.CountRecords(t.Element, span), t.Length)
	case *asg.ArrayWithoutSizeType:
		if c.CountRecords(t.Element, span) > 0 {
			c.handler.Emit(cerrors.RecordInUnsizedArray(t.String(), span))
		}
		return 0
	default:
		return 0
	}
}

func addCounts(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func mulCount(n int, length uint32) int {
	hi, lo := bits.Mul64(uint64(n), uint64(length))
	if hi != 0 || lo > math.MaxInt {
		return math.MaxInt
	}
	return int(lo)
}
