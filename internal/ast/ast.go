package ast

import (
	"bytes"
	"fmt"
	"mathlang/internal/token"
	"strconv"
	"strings"
)

// The base Node interface. Nodes are immutable after construction and may be
// shared by reference from any number of thunks and lambdas.
type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

// Assignment binds a name in the current session scope. Function-definition
// sugar `f(x) = expr` is rewritten by the parser into
// Assignment{Name: "f", Value: Lambda([x], expr)} so there is no separate
// function-definition node downstream.
type Assignment struct {
	Token token.Token // the IDENT token of the target
	Name  string
	Value Expression
}

func (a *Assignment) statementNode()       {}
func (a *Assignment) TokenLiteral() string { return a.Token.Literal }
func (a *Assignment) String() string {
	var out bytes.Buffer
	out.WriteString(a.Name)
	out.WriteString(" = ")
	if a.Value != nil {
		out.WriteString(a.Value.String())
	}
	return out.String()
}

type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// ConstantRef is a [[NAME]] reference, lexically distinct from an identifier.
type ConstantRef struct {
	Token token.Token
	Name  string
}

func (c *ConstantRef) expressionNode()      {}
func (c *ConstantRef) TokenLiteral() string { return c.Token.Literal }
func (c *ConstantRef) String() string       { return "[[" + c.Name + "]]" }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return strconv.FormatInt(il.Value, 10) }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) String() string       { return strconv.FormatFloat(fl.Value, 'g', -1, 64) }

// ComplexLiteral is produced by a numeric literal immediately followed by
// 'i' or 'j', e.g. `3+2i` lexes as NUMBER PLUS COMPLEX.
type ComplexLiteral struct {
	Token token.Token
	Value complex128
}

func (cl *ComplexLiteral) expressionNode()      {}
func (cl *ComplexLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *ComplexLiteral) String() string {
	return strconv.FormatFloat(imag(cl.Value), 'g', -1, 64) + "i"
}

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return fmt.Sprintf("%q", sl.Value) }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

type UnaryOp struct {
	Token    token.Token // the operator token, e.g. '-'
	Operator string
	Operand  Expression
}

func (uo *UnaryOp) expressionNode()      {}
func (uo *UnaryOp) TokenLiteral() string { return uo.Token.Literal }
func (uo *UnaryOp) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(uo.Operator)
	out.WriteString(uo.Operand.String())
	out.WriteString(")")
	return out.String()
}

type BinaryOp struct {
	Token    token.Token // the operator token, e.g. '+'
	Operator string
	Left     Expression
	Right    Expression
}

func (bo *BinaryOp) expressionNode()      {}
func (bo *BinaryOp) TokenLiteral() string { return bo.Token.Literal }
func (bo *BinaryOp) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(bo.Left.String())
	out.WriteString(" " + bo.Operator + " ")
	out.WriteString(bo.Right.String())
	out.WriteString(")")
	return out.String()
}

// Call is a named call such as `Sin(x)` or `factorial(5)`. The callee is a
// plain name, resolved at evaluation time against the session first and the
// operation registry second.
type Call struct {
	Token     token.Token // the CALLABLE token
	Name      string
	Arguments []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Literal }
func (c *Call) String() string {
	args := make([]string, 0, len(c.Arguments))
	for _, a := range c.Arguments {
		args = append(args, a.String())
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Lambda is an anonymous function literal: `x -> x^2`, `(a, b) -> a + b`.
type Lambda struct {
	Token      token.Token // the ARROW token
	Parameters []string
	Body       Expression
}

func (l *Lambda) expressionNode()      {}
func (l *Lambda) TokenLiteral() string { return l.Token.Literal }
func (l *Lambda) String() string {
	switch len(l.Parameters) {
	case 0:
		return "() -> " + l.Body.String()
	case 1:
		return l.Parameters[0] + " -> " + l.Body.String()
	default:
		return "(" + strings.Join(l.Parameters, ", ") + ") -> " + l.Body.String()
	}
}

// ArrayIndex is zero-based element access: `v[0]`.
type ArrayIndex struct {
	Token token.Token // the '[' token
	Left  Expression
	Index Expression
}

func (ai *ArrayIndex) expressionNode()      {}
func (ai *ArrayIndex) TokenLiteral() string { return ai.Token.Literal }
func (ai *ArrayIndex) String() string {
	return ai.Left.String() + "[" + ai.Index.String() + "]"
}
