package manifest

import (
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/circuitc/internal/asg"
)

// parseType resolves a type written in source form: a primitive, a circuit
// name, `(T, U)`, `[T; N]` or `[T; _]`. `()` is the empty tuple.
func (b *builder) parseType(n *yaml.Node, text string) (asg.Type, error) {
	p := &typeParser{b: b, text: text}
	t, err := p.parse()
	if err != nil {
		return nil, b.errorf(n, "type %q: %s", text, err.Error())
	}
	p.skipSpace()
	if p.pos != len(p.text) {
		return nil, b.errorf(n, "type %q: unexpected %q", text, p.text[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	b    *builder
	text string
	pos  int
}

type typeError string

func (e typeError) Error() string { return string(e) }

func (p *typeParser) skipSpace() {
	for p.pos < len(p.text) && p.text[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.text) && p.text[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) word() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.text) {
		r := rune(p.text[p.pos])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		p.pos++
	}
	return p.text[start:p.pos]
}

func (p *typeParser) parse() (asg.Type, error) {
	switch {
	case p.accept('('):
		var elements []asg.Type
		if p.accept(')') {
			return asg.Unit(), nil
		}
		for {
			t, err := p.parse()
			if err != nil {
				return nil, err
			}
			elements = append(elements, t)
			if p.accept(')') {
				return asg.Tuple(elements...), nil
			}
			if !p.accept(',') {
				return nil, typeError("expected , or )")
			}
		}

	case p.accept('['):
		element, err := p.parse()
		if err != nil {
			return nil, err
		}
		if !p.accept(';') {
			return nil, typeError("expected ;")
		}
		size := p.word()
		if !p.accept(']') {
			return nil, typeError("expected ]")
		}
		if size == "_" {
			return &asg.ArrayWithoutSizeType{Element: element}, nil
		}
		n, err := strconv.ParseUint(size, 10, 32)
		if err != nil {
			return nil, typeError("invalid array length " + strconv.Quote(size))
		}
		return &asg.ArrayType{Element: element, Length: uint32(n)}, nil
	}

	name := p.word()
	if name == "" {
		return nil, typeError("expected a type")
	}
	if kind, ok := asg.PrimitiveByName(name); ok {
		return asg.Prim(kind), nil
	}
	if c, ok := p.b.circuits[name]; ok {
		return &asg.CircuitType{Circuit: c.ID, Name: c.Name}, nil
	}
	return nil, typeError("unknown type " + strings.TrimSpace(name))
}
