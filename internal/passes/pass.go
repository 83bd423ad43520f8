// Package passes implements the semantic passes that run over a resolved
// program between name resolution and circuit synthesis.
package passes

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orizon-lang/circuitc/internal/asg"
	"github.com/orizon-lang/circuitc/internal/diagnostics"
	"github.com/orizon-lang/circuitc/internal/network"
)

// Pass is one stage of the middle end. It receives the program produced by
// the previous pass and returns the program for the next one. A non-nil
// error means the pass raised a fatal diagnostic and compilation must stop.
type Pass interface {
	Name() string
	Run(handler *diagnostics.Handler, program *asg.Program) (*asg.Program, error)
}

// statsReporter is implemented by passes that keep counters worth logging.
type statsReporter interface {
	LogFields() []zap.Field
}

// PassStats records what one pass did during a pipeline run.
type PassStats struct {
	PassName    string
	Diagnostics int
	Duration    time.Duration
	Fatal       bool
}

func (s PassStats) String() string {
	return fmt.Sprintf("Pass: %s, Diagnostics: %d, Fatal: %t, Time: %s",
		s.PassName, s.Diagnostics, s.Fatal, s.Duration)
}

// Pipeline runs passes strictly in order, threading the program through.
type Pipeline struct {
	passes []Pass
	logger *zap.Logger
}

// NewPipeline creates a pipeline running the given passes. A nil logger
// disables logging.
func NewPipeline(logger *zap.Logger, passes ...Pass) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{passes: passes, logger: logger}
}

// DefaultPipeline returns the standard pass order: annotation resolution,
// constant folding, then transaction checking against profile.
func DefaultPipeline(logger *zap.Logger, profile network.Profile) *Pipeline {
	return NewPipeline(logger,
		NewAnnotationResolver(),
		NewConstantFolding(),
		NewTransactionChecker(profile),
	)
}

// AddPass appends a pass to the pipeline.
func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, pass)
}

// Passes returns the names of the passes in run order.
func (p *Pipeline) Passes() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name()
	}
	return names
}

// Run executes every pass. It stops after the first pass that fails or
// emits a fatal diagnostic and returns that error; recoverable diagnostics
// are left in handler.
func (p *Pipeline) Run(handler *diagnostics.Handler, program *asg.Program) (*asg.Program, []PassStats, error) {
	stats := make([]PassStats, 0, len(p.passes))

	for _, pass := range p.passes {
		logger := p.logger.With(zap.String("pass", pass.Name()))
		before, fatal := handler.Len(), handler.Fatal()
		start := time.Now()

		out, err := pass.Run(handler, program)

		s := PassStats{
			PassName:    pass.Name(),
			Diagnostics: handler.Len() - before,
			Duration:    time.Since(start),
		}
		if err == nil && handler.Fatal() != fatal {
			err = handler.Fatal()
		}
		s.Fatal = err != nil
		stats = append(stats, s)

		fields := []zap.Field{
			zap.Duration("duration", s.Duration),
			zap.Int("diagnostics", s.Diagnostics),
		}
		if r, ok := pass.(statsReporter); ok {
			fields = append(fields, r.LogFields()...)
		}

		if err != nil {
			logger.Error("pass failed", append(fields, zap.Error(err))...)
			return program, stats, err
		}
		logger.Debug("pass finished", fields...)

		if out != nil {
			program = out
		}
	}

	return program, stats, nil
}
