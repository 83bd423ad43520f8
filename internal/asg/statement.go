package asg

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/circuitc/internal/position"
)

// Statement is one statement node.
type Statement struct {
	Parent StmtID
	Span   position.Span
	Kind   StatementKind
}

// StatementKind is the closed set of statement variants.
type StatementKind interface {
	statementKind()
}

type BlockStatement struct {
	Statements []StmtID
}

type ReturnStatement struct {
	Expression ExprID
}

// DefinitionStatement binds one or more variables (tuple destructuring).
type DefinitionStatement struct {
	Variables []*Variable
	Value     ExprID
}

type AssignStatement struct {
	Target *Variable
	Value  ExprID
}

type ConditionalStatement struct {
	Condition ExprID
	Result    StmtID
	Next      StmtID
}

// IterationStatement is a bounded `for v in start..stop` loop.
type IterationStatement struct {
	Variable *Variable
	Start    ExprID
	Stop     ExprID
	Body     StmtID
}

type ExpressionStatement struct {
	Expression ExprID
}

func (*BlockStatement) statementKind()       {}
func (*ReturnStatement) statementKind()      {}
func (*DefinitionStatement) statementKind()  {}
func (*AssignStatement) statementKind()      {}
func (*ConditionalStatement) statementKind() {}
func (*IterationStatement) statementKind()   {}
func (*ExpressionStatement) statementKind()  {}

// Describe renders a short, single-line label for the statement.
func (s *Statement) Describe() string {
	switch k := s.Kind.(type) {
	case *BlockStatement:
		return fmt.Sprintf("block (%d)", len(k.Statements))
	case *ReturnStatement:
		return "return"
	case *DefinitionStatement:
		names := make([]string, len(k.Variables))
		for i, v := range k.Variables {
			names[i] = v.Name
		}
		return "let " + strings.Join(names, ", ")
	case *AssignStatement:
		return "assign " + k.Target.Name
	case *ConditionalStatement:
		return "if"
	case *IterationStatement:
		return "for " + k.Variable.Name
	case *ExpressionStatement:
		return "expression"
	default:
		return fmt.Sprintf("%T", k)
	}
}
