package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	cerrors "github.com/orizon-lang/circuitc/internal/errors"
	"github.com/orizon-lang/circuitc/internal/position"
)

// Renderer writes diagnostics with a source excerpt and a caret line.
type Renderer struct {
	out     io.Writer
	sources map[string]*position.SourceFile

	level   *color.Color
	fatal   *color.Color
	arrow   *color.Color
	pointer *color.Color
}

// NewRenderer creates a renderer writing to out. Colors are only used when
// colorize is set.
func NewRenderer(out io.Writer, colorize bool) *Renderer {
	r := &Renderer{
		out:     out,
		sources: make(map[string]*position.SourceFile),
		level:   color.New(color.FgRed, color.Bold),
		fatal:   color.New(color.FgMagenta, color.Bold),
		arrow:   color.New(color.FgBlue),
		pointer: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{r.level, r.fatal, r.arrow, r.pointer} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// AddSource registers a file so excerpts can be printed for spans in it.
func (r *Renderer) AddSource(file *position.SourceFile) {
	r.sources[file.Filename] = file
}

// Render writes one diagnostic.
func (r *Renderer) Render(d *cerrors.CompilerError) error {
	var b strings.Builder

	label := r.level.Sprintf("error[%s]", d.Code)
	if d.Fatal {
		label = r.fatal.Sprintf("fatal[%s]", d.Code)
	}
	b.WriteString(label + ": " + d.Message + "\n")
	b.WriteString(r.arrow.Sprint("  --> ") + d.Span.String() + "\n")

	if src, ok := r.sources[d.Span.Start.Filename]; ok && d.Span.IsValid() {
		line := src.Line(d.Span.Start.Line)
		gutter := fmt.Sprintf("%4d | ", d.Span.Start.Line)
		b.WriteString(gutter + line + "\n")

		width := 1
		if d.Span.End.Line == d.Span.Start.Line && d.Span.End.Column > d.Span.Start.Column {
			width = d.Span.End.Column - d.Span.Start.Column
		}
		pad := strings.Repeat(" ", len(gutter)+d.Span.Start.Column-1)
		b.WriteString(pad + r.pointer.Sprint(strings.Repeat("^", width)) + "\n")
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

// RenderAll writes every diagnostic of h in the order it was emitted,
// followed by the summary line.
func (r *Renderer) RenderAll(h *Handler) error {
	return r.render(h.Errors(), h)
}

// RenderSorted is RenderAll with the diagnostics ordered by source location.
func (r *Renderer) RenderSorted(h *Handler) error {
	return r.render(h.Sorted(), h)
}

func (r *Renderer) render(ds []*cerrors.CompilerError, h *Handler) error {
	for _, d := range ds {
		if err := r.Render(d); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.out, h.Summary())
	return err
}
