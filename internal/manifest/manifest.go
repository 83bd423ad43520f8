// Package manifest loads programs described as YAML documents into an
// abstract semantic graph. A manifest plays the part of the parser and
// resolver: names are resolved, types are attached and annotation names are
// checked before the graph is handed to the passes.
//
//	name: token
//	circuits:
//	  - name: Record
//	    annotations: [{name: CoreCircuit}]
//	    fields: [{name: owner, type: address}]
//	functions:
//	  - name: transfer
//	    annotations: [{name: transition}, {name: transaction}]
//	    arguments: [{name: r, type: Record}]
//	    output: (Record, u64)
//	    body:
//	      - return: {tuple: [{var: r}, 1u64]}
package manifest

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/circuitc/internal/asg"
	cerrors "github.com/orizon-lang/circuitc/internal/errors"
	"github.com/orizon-lang/circuitc/internal/position"
)

// Error is a manifest that could not be turned into a program.
type Error struct {
	Span    position.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

type document struct {
	Name      string      `yaml:"name"`
	Circuits  []yaml.Node `yaml:"circuits"`
	Functions []yaml.Node `yaml:"functions"`
}

type annotationDecl struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

type variableDecl struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Mut   bool   `yaml:"mut"`
	Const bool   `yaml:"const"`
}

type circuitDecl struct {
	Name        string         `yaml:"name"`
	Annotations []yaml.Node    `yaml:"annotations"`
	Fields      []variableDecl `yaml:"fields"`
	Functions   []yaml.Node    `yaml:"functions"`
}

type functionDecl struct {
	Name        string         `yaml:"name"`
	Annotations []yaml.Node    `yaml:"annotations"`
	Arguments   []variableDecl `yaml:"arguments"`
	Output      string         `yaml:"output"`
	Body        []yaml.Node    `yaml:"body"`
}

// Loader turns manifests into programs. Annotation names are checked
// against the registry.
type Loader struct {
	registry *asg.AnnotationRegistry
}

// NewLoader creates a loader. A nil registry means the default one.
func NewLoader(registry *asg.AnnotationRegistry) *Loader {
	if registry == nil {
		registry = asg.DefaultAnnotationRegistry()
	}
	return &Loader{registry: registry}
}

// LoadFile reads and loads a manifest file. The source is returned as well
// so diagnostics can quote it, including a load error once the file has
// been read.
func (l *Loader) LoadFile(path string) (*asg.Program, *position.SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read manifest %s", path)
	}
	source := position.NewSourceFile(path, string(data))
	program, err := l.Load(path, data)
	if err != nil {
		return nil, source, err
	}
	return program, source, nil
}

// Load builds a program from manifest data. Spans in the graph refer to
// filename.
func (l *Loader) Load(filename string, data []byte) (*asg.Program, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrapf(err, "parse manifest %s", filename)
	}
	if len(root.Content) == 0 {
		return nil, &Error{Span: position.Point(filename, 1, 1), Message: "empty manifest"}
	}

	var doc document
	if err := root.Content[0].Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "decode manifest %s", filename)
	}

	b := newBuilder(filename, l.registry)
	return b.build(&doc)
}

// builder resolves declarations in two rounds: first every circuit and
// function is declared so that types and calls may refer forward, then
// members and bodies are filled in.
type builder struct {
	filename string
	registry *asg.AnnotationRegistry
	ctx      *asg.Context
	program  *asg.Program

	circuits  map[string]*asg.Circuit
	functions map[string]*asg.Function
	pending   []pendingBody
	scopes    []map[string]*asg.Variable
}

type pendingBody struct {
	function *asg.Function
	body     []yaml.Node
}

func newBuilder(filename string, registry *asg.AnnotationRegistry) *builder {
	ctx := asg.NewContext()
	return &builder{
		filename:  filename,
		registry:  registry,
		ctx:       ctx,
		circuits:  make(map[string]*asg.Circuit),
		functions: make(map[string]*asg.Function),
	}
}

func (b *builder) span(n *yaml.Node) position.Span {
	s := position.Point(b.filename, n.Line, n.Column)
	if n.Kind == yaml.ScalarNode && len(n.Value) > 1 {
		s.End.Column = n.Column + len(n.Value)
	}
	return s
}

func (b *builder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return &Error{Span: b.span(n), Message: fmt.Sprintf(format, args...)}
}

func (b *builder) build(doc *document) (*asg.Program, error) {
	name := doc.Name
	if name == "" {
		name = "main"
	}
	b.program = asg.NewProgram(name, b.ctx)

	decls := make([]circuitDecl, len(doc.Circuits))
	for i := range doc.Circuits {
		n := &doc.Circuits[i]
		if err := n.Decode(&decls[i]); err != nil {
			return nil, errors.Wrapf(err, "%s:%d", b.filename, n.Line)
		}
		if err := b.declareCircuit(n, &decls[i]); err != nil {
			return nil, err
		}
	}
	for i := range doc.Circuits {
		if err := b.defineCircuit(&doc.Circuits[i], &decls[i]); err != nil {
			return nil, err
		}
	}

	for i := range doc.Functions {
		f, err := b.declareFunction(&doc.Functions[i], asg.NoCircuit)
		if err != nil {
			return nil, err
		}
		if _, dup := b.functions[f.Name]; dup {
			return nil, b.errorf(&doc.Functions[i], "function %s declared twice", f.Name)
		}
		b.functions[f.Name] = f
		b.program.Functions = append(b.program.Functions, f.ID)
	}

	for _, p := range b.pending {
		if err := b.defineBody(p.function, p.body); err != nil {
			return nil, err
		}
	}
	return b.program, nil
}

func (b *builder) annotations(nodes []yaml.Node) (*asg.Annotations, error) {
	out := asg.NewAnnotations()
	for i := range nodes {
		n := &nodes[i]
		var decl annotationDecl
		if err := n.Decode(&decl); err != nil {
			return nil, b.errorf(n, "invalid annotation: %v", err)
		}
		if !b.registry.IsValid(decl.Name) {
			return nil, cerrors.InvalidAnnotation(decl.Name, b.span(n))
		}
		out.Add(&asg.Annotation{Span: b.span(n), Name: decl.Name, Arguments: decl.Args})
	}
	return out, nil
}

func (b *builder) declareCircuit(n *yaml.Node, decl *circuitDecl) error {
	if decl.Name == "" {
		return b.errorf(n, "circuit without a name")
	}
	if _, dup := b.circuits[decl.Name]; dup {
		return b.errorf(n, "circuit %s declared twice", decl.Name)
	}
	as, err := b.annotations(decl.Annotations)
	if err != nil {
		return err
	}
	c := &asg.Circuit{Name: decl.Name, Span: b.span(n), Annotations: as}
	b.program.AddCircuit(c)
	b.circuits[c.Name] = c
	return nil
}

func (b *builder) defineCircuit(n *yaml.Node, decl *circuitDecl) error {
	c := b.circuits[decl.Name]
	for _, field := range decl.Fields {
		v, err := b.variable(n, field)
		if err != nil {
			return err
		}
		c.Members = append(c.Members, asg.CircuitMember{Variable: v})
	}
	for i := range decl.Functions {
		f, err := b.declareFunction(&decl.Functions[i], c.ID)
		if err != nil {
			return err
		}
		key := c.Name + "::" + f.Name
		if _, dup := b.functions[key]; dup {
			return b.errorf(&decl.Functions[i], "function %s declared twice", key)
		}
		b.functions[key] = f
		c.Members = append(c.Members, asg.CircuitMember{Function: f.ID})
	}
	return nil
}

func (b *builder) variable(n *yaml.Node, decl variableDecl) (*asg.Variable, error) {
	if decl.Name == "" {
		return nil, b.errorf(n, "variable without a name")
	}
	t, err := b.parseType(n, decl.Type)
	if err != nil {
		return nil, err
	}
	return &asg.Variable{Name: decl.Name, Type: t, Span: b.span(n), Mutable: decl.Mut, Const: decl.Const}, nil
}

func (b *builder) declareFunction(n *yaml.Node, owner asg.CircuitID) (*asg.Function, error) {
	var decl functionDecl
	if err := n.Decode(&decl); err != nil {
		return nil, errors.Wrapf(err, "%s:%d", b.filename, n.Line)
	}
	if decl.Name == "" {
		return nil, b.errorf(n, "function without a name")
	}

	as, err := b.annotations(decl.Annotations)
	if err != nil {
		return nil, err
	}
	f := &asg.Function{Name: decl.Name, Span: b.span(n), Annotations: as, Circuit: owner}

	for _, arg := range decl.Arguments {
		v, err := b.variable(n, arg)
		if err != nil {
			return nil, err
		}
		f.Arguments = append(f.Arguments, v)
	}

	f.Output = asg.Unit()
	if decl.Output != "" {
		if f.Output, err = b.parseType(n, decl.Output); err != nil {
			return nil, err
		}
	}

	b.ctx.AllocFunction(f)
	if len(decl.Body) > 0 {
		b.pending = append(b.pending, pendingBody{function: f, body: decl.Body})
	}
	return f, nil
}

func (b *builder) defineBody(f *asg.Function, body []yaml.Node) error {
	b.scopes = nil
	b.push()
	for _, arg := range f.Arguments {
		b.declare(arg)
	}

	block, err := b.block(f.Span, body)
	b.pop()
	if err != nil {
		return err
	}
	b.ctx.SetBody(f.ID, block)
	return nil
}

func (b *builder) push() { b.scopes = append(b.scopes, make(map[string]*asg.Variable)) }
func (b *builder) pop()  { b.scopes = b.scopes[:len(b.scopes)-1] }

func (b *builder) declare(v *asg.Variable) {
	b.scopes[len(b.scopes)-1][v.Name] = v
}

func (b *builder) lookup(name string) (*asg.Variable, bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if v, ok := b.scopes[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}
