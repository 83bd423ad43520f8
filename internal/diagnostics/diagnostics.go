// Package diagnostics collects the errors raised while passes run over a
// program and renders them for a terminal.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	cerrors "github.com/orizon-lang/circuitc/internal/errors"
)

// Handler is the diagnostic sink shared by every pass of one compilation.
// Emit never fails and keeps diagnostics in the order they were raised.
type Handler struct {
	diagnostics []*cerrors.CompilerError
	categories  map[cerrors.ErrorCategory]int
	fatal       *cerrors.CompilerError
}

// NewHandler creates an empty handler.
func NewHandler() *Handler {
	return &Handler{categories: make(map[cerrors.ErrorCategory]int)}
}

// Emit records a diagnostic. The first fatal diagnostic is remembered so
// the pipeline can stop after the pass that raised it.
func (h *Handler) Emit(err *cerrors.CompilerError) {
	if err == nil {
		return
	}
	h.diagnostics = append(h.diagnostics, err)
	h.categories[err.Category]++
	if err.Fatal && h.fatal == nil {
		h.fatal = err
	}
}

// Errors returns the diagnostics in emission order.
func (h *Handler) Errors() []*cerrors.CompilerError {
	out := make([]*cerrors.CompilerError, len(h.diagnostics))
	copy(out, h.diagnostics)
	return out
}

// Len returns the number of diagnostics emitted so far.
func (h *Handler) Len() int { return len(h.diagnostics) }

// HasErrors returns true if anything was emitted.
func (h *Handler) HasErrors() bool { return len(h.diagnostics) > 0 }

// Fatal returns the first fatal diagnostic, or nil.
func (h *Handler) Fatal() *cerrors.CompilerError { return h.fatal }

// Since returns the diagnostics emitted after the first n.
func (h *Handler) Since(n int) []*cerrors.CompilerError {
	if n >= len(h.diagnostics) {
		return nil
	}
	return h.diagnostics[n:]
}

// Err combines every diagnostic into a single error, nil when there are
// none.
func (h *Handler) Err() error {
	errs := make([]error, len(h.diagnostics))
	for i, d := range h.diagnostics {
		errs[i] = d
	}
	return multierr.Combine(errs...)
}

// Count returns how many diagnostics of a category were emitted.
func (h *Handler) Count(category cerrors.ErrorCategory) int {
	return h.categories[category]
}

// Sorted returns the diagnostics ordered by source location. Emission order
// breaks ties.
func (h *Handler) Sorted() []*cerrors.CompilerError {
	out := h.Errors()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start.Before(out[j].Span.Start)
	})
	return out
}

// Summary formats a one-paragraph summary of the diagnostics.
func (h *Handler) Summary() string {
	if len(h.diagnostics) == 0 {
		return "No diagnostics."
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Found %d error(s).", len(h.diagnostics)))

	categories := make([]string, 0, len(h.categories))
	for category := range h.categories {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)
	for _, category := range categories {
		result.WriteString(fmt.Sprintf("\n  %s: %d",
			strings.ToLower(category), h.categories[cerrors.ErrorCategory(category)]))
	}
	return result.String()
}
