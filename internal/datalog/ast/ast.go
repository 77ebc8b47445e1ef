// Package ast defines the abstract syntax produced by the parser: schemes,
// facts, rules, queries, and the parameters/expressions that appear inside
// predicates.
package ast

import "github.com/conduit-lang/datalog/internal/datalog/token"

// Node is implemented by every AST node and exposes the token that anchors
// its source location, for error reporting and round-trip printing.
type Node interface {
	// Anchor returns the token that best locates this node in source.
	Anchor() token.Token
}

// Scheme declares a predicate's name and ordered attribute names, e.g.
// "parent(A,B)" in the Schemes section.
type Scheme struct {
	NameTok    token.Token
	Name       string
	Attributes []string
}

func (s *Scheme) Anchor() token.Token { return s.NameTok }

// Arity returns the number of declared attributes.
func (s *Scheme) Arity() int { return len(s.Attributes) }

// Fact is a ground predicate application: a name and an ordered list of
// STRING constants, declared in the Facts section.
type Fact struct {
	NameTok token.Token
	Name    string
	Values  []string
}

func (f *Fact) Anchor() token.Token { return f.NameTok }

// Arity returns the number of values in the fact.
func (f *Fact) Arity() int { return len(f.Values) }

// ParamKind distinguishes the three forms a Parameter may take.
type ParamKind int

const (
	// ParamID is a bare variable reference, e.g. X.
	ParamID ParamKind = iota
	// ParamString is a quoted constant, e.g. 'a'.
	ParamString
	// ParamExpr is a parenthesized arithmetic expression; it is syntactically
	// legal but never relationally evaluated.
	ParamExpr
)

// Parameter is one argument of a predicate: a variable, a string constant,
// or an unevaluated arithmetic expression.
type Parameter struct {
	Kind  ParamKind
	Tok   token.Token // anchor token; for ParamExpr the opening '('
	Name  string      // set when Kind == ParamID
	Value string      // set when Kind == ParamString (decoded, quotes stripped)
	Expr  *Expression // set when Kind == ParamExpr
}

func (p *Parameter) Anchor() token.Token { return p.Tok }

// IsVariable reports whether this parameter is a variable reference.
func (p *Parameter) IsVariable() bool { return p.Kind == ParamID }

// Expression is a parenthesized arithmetic term "(a op b)". It is preserved
// for round-trip printing but is unsupported input wherever the evaluator
// would need its value, per the grammar's non-goal on arithmetic.
type Expression struct {
	OpenTok token.Token
	Left    *Parameter
	Op      string // "+" or "*"
	Right   *Parameter
}

func (e *Expression) Anchor() token.Token { return e.OpenTok }

// Predicate is a name applied to an ordered list of parameters, as it
// appears in a rule body or a query.
type Predicate struct {
	NameTok    token.Token
	Name       string
	Parameters []*Parameter
}

func (p *Predicate) Anchor() token.Token { return p.NameTok }

// Rule binds a scheme-shaped head to a conjunction of body predicates:
// head :- body1, body2, ... .
type Rule struct {
	Head *Scheme
	Body []*Predicate
}

func (r *Rule) Anchor() token.Token { return r.Head.Anchor() }

// Query is a predicate followed by '?', requesting evaluation and output.
type Query struct {
	Predicate *Predicate
}

func (q *Query) Anchor() token.Token { return q.Predicate.Anchor() }

// Program is the full parsed source: the four sections in fixed order.
type Program struct {
	Schemes []*Scheme
	Facts   []*Fact
	Rules   []*Rule
	Queries []*Query
}
