// Package command parses and executes shell-like command expressions.
//
// An expression is a flat list of tokens in which ";" separates commands
// that run unconditionally, "&&" and "||" chain commands on success and
// failure, and "(" ")" or "{" "}" group sub-expressions. Parse turns the
// tokens into a Node tree and Executor walks the tree against a working
// directory.
package command

import "strings"

// Node is one node of a parsed command expression: either a single
// command invocation or a compound of child nodes.
type Node interface {
	// String renders the node in canonical textual form. Splitting the
	// result on whitespace yields a token list that parses back into an
	// equal tree.
	String() string

	node()
}

// Single is one command invocation. Args holds the program name followed
// by its arguments and is never empty for parsed input.
type Single struct {
	Args []string
}

// Sequence runs every child in order regardless of outcome.
type Sequence struct {
	Children []Node
}

// And runs children in order, stopping at the first non-zero exit.
type And struct {
	Children []Node
}

// Or runs children in order, stopping at the first zero exit.
type Or struct {
	Children []Node
}

func (*Single) node()   {}
func (*Sequence) node() {}
func (*And) node()      {}
func (*Or) node()       {}

// NewSequence builds a Sequence, splicing the children of any child that
// is itself a Sequence so the tree never nests the same kind directly.
func NewSequence(children ...Node) *Sequence {
	merged := make([]Node, 0, len(children))
	for _, child := range children {
		if seq, ok := child.(*Sequence); ok {
			merged = append(merged, seq.Children...)
			continue
		}
		merged = append(merged, child)
	}
	return &Sequence{Children: merged}
}

// NewAnd builds an And, splicing the children of any child And.
func NewAnd(children ...Node) *And {
	merged := make([]Node, 0, len(children))
	for _, child := range children {
		if and, ok := child.(*And); ok {
			merged = append(merged, and.Children...)
			continue
		}
		merged = append(merged, child)
	}
	return &And{Children: merged}
}

// NewOr builds an Or, splicing the children of any child Or.
func NewOr(children ...Node) *Or {
	merged := make([]Node, 0, len(children))
	for _, child := range children {
		if or, ok := child.(*Or); ok {
			merged = append(merged, or.Children...)
			continue
		}
		merged = append(merged, child)
	}
	return &Or{Children: merged}
}

func (s *Single) String() string {
	return strings.Join(s.Args, " ")
}

func (s *Sequence) String() string {
	return joinChildren(s.Children, " ; ")
}

func (a *And) String() string {
	return joinChildren(a.Children, " && ")
}

func (o *Or) String() string {
	return joinChildren(o.Children, " || ")
}

// joinChildren wraps every child in brackets so the rendered form keeps
// its grouping when parsed again.
func joinChildren(children []Node, sep string) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = "( " + child.String() + " )"
	}
	return strings.Join(parts, sep)
}
