package asg

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set"

	"github.com/orizon-lang/circuitc/internal/position"
)

// Annotation names recognized by the compiler.
const (
	AnnotationTest        = "test"
	AnnotationTransition  = "transition"
	AnnotationTransaction = "transaction"

	AnnotationAlwaysConst  = "AlwaysConst"
	AnnotationCoreFunction = "CoreFunction"
	AnnotationCoreCircuit  = "CoreCircuit"
)

// Annotation is an @name(args...) marker attached to a function or circuit.
type Annotation struct {
	Span      position.Span
	Name      string
	Arguments []string
}

func (a *Annotation) String() string {
	return fmt.Sprintf("@%s(%s)", a.Name, strings.Join(a.Arguments, ","))
}

// Annotations maps annotation names to annotations. Iteration follows
// insertion order so diagnostics are reproducible.
type Annotations struct {
	names  []string
	byName map[string]*Annotation
}

// NewAnnotations builds a mapping from the given annotations. A later
// annotation with a repeated name replaces the earlier one in place.
func NewAnnotations(annotations ...*Annotation) *Annotations {
	as := &Annotations{byName: make(map[string]*Annotation)}
	for _, a := range annotations {
		as.Add(a)
	}
	return as
}

// Add inserts or replaces an annotation.
func (as *Annotations) Add(a *Annotation) {
	if as.byName == nil {
		as.byName = make(map[string]*Annotation)
	}
	if _, ok := as.byName[a.Name]; !ok {
		as.names = append(as.names, a.Name)
	}
	as.byName[a.Name] = a
}

// Get returns the annotation with the given name.
func (as *Annotations) Get(name string) (*Annotation, bool) {
	if as == nil {
		return nil, false
	}
	a, ok := as.byName[name]
	return a, ok
}

// Has reports whether an annotation with the given name is present.
func (as *Annotations) Has(name string) bool {
	_, ok := as.Get(name)
	return ok
}

// Len returns the number of annotations.
func (as *Annotations) Len() int {
	if as == nil {
		return 0
	}
	return len(as.names)
}

// Each calls fn for every annotation in insertion order.
func (as *Annotations) Each(fn func(name string, a *Annotation)) {
	if as == nil {
		return
	}
	for _, name := range as.names {
		fn(name, as.byName[name])
	}
}

// AnnotationRegistry classifies annotation names. It is built once per
// compiler session and handed to whatever validates annotations.
type AnnotationRegistry struct {
	external mapset.Set
	internal mapset.Set
}

// NewAnnotationRegistry creates a registry from explicit name lists.
func NewAnnotationRegistry(external, internal []string) *AnnotationRegistry {
	r := &AnnotationRegistry{
		external: mapset.NewSet(),
		internal: mapset.NewSet(),
	}
	for _, name := range external {
		r.external.Add(name)
	}
	for _, name := range internal {
		r.internal.Add(name)
	}
	return r
}

// DefaultAnnotationRegistry returns the registry for the standard language.
func DefaultAnnotationRegistry() *AnnotationRegistry {
	return NewAnnotationRegistry(
		[]string{AnnotationTest, AnnotationTransition, AnnotationTransaction},
		[]string{AnnotationAlwaysConst, AnnotationCoreFunction, AnnotationCoreCircuit},
	)
}

// IsExternal reports whether name is a user-facing annotation.
func (r *AnnotationRegistry) IsExternal(name string) bool {
	return r.external.Contains(name)
}

// IsInternal reports whether name is a compiler directive.
func (r *AnnotationRegistry) IsInternal(name string) bool {
	return r.internal.Contains(name)
}

// IsValid reports whether name is recognized at all.
func (r *AnnotationRegistry) IsValid(name string) bool {
	return r.IsExternal(name) || r.IsInternal(name)
}

// Names returns every recognized name, sorted.
func (r *AnnotationRegistry) Names() []string {
	var names []string
	for _, v := range r.external.Union(r.internal).ToSlice() {
		names = append(names, v.(string))
	}
	sort.Strings(names)
	return names
}
