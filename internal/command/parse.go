package command

import "fmt"

// ParseErrorKind classifies the ways a token list can be malformed.
type ParseErrorKind int

const (
	// EmptyCommand means the tokens contained no command words at all.
	EmptyCommand ParseErrorKind = iota
	// UnmatchedBracket means an opening bracket has no matching closer,
	// or a closing bracket appeared without an open group.
	UnmatchedBracket
	// UnexpectedToken means a group opened in the middle of a command's
	// arguments.
	UnexpectedToken
)

// ParseError reports a malformed command expression. Token carries the
// offending bracket when there is one.
type ParseError struct {
	Kind  ParseErrorKind
	Token string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnmatchedBracket:
		return fmt.Sprintf("unmatched %q in command", e.Token)
	case UnexpectedToken:
		return fmt.Sprintf("unexpected %q after command arguments", e.Token)
	default:
		return "no command provided"
	}
}

// operator joins two nodes. The zero value is the sequence separator.
type operator int

const (
	opSeq operator = iota
	opAnd
	opOr
)

// stackItem is either a parsed node or, when node is nil, a separator
// marker waiting for the fold.
type stackItem struct {
	node Node
	op   operator
}

// Parse turns a flat token list into a command expression tree.
//
// ";" separates commands that always run, "&&" and "||" chain commands
// on success and failure, and "(" ")" or "{" "}" group sub-expressions;
// the two bracket styles are interchangeable. Consecutive "&&"/"||"
// chains stay flat, while mixed chains nest to the right:
// "a || b && c" parses as Or(a, And(b, c)). Failures are reported as
// *ParseError.
func Parse(tokens []string) (Node, error) {
	var stack []stackItem
	var args []string

	flush := func() {
		if len(args) == 0 {
			return
		}
		stack = append(stack, stackItem{node: &Single{Args: args}})
		args = nil
	}

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		switch tok {
		case "(", "{":
			if len(args) > 0 {
				return nil, &ParseError{Kind: UnexpectedToken, Token: tok}
			}
			end, err := matchingClose(tokens, i)
			if err != nil {
				return nil, err
			}
			group, err := Parse(tokens[i+1 : end])
			if err != nil {
				return nil, err
			}
			stack = append(stack, stackItem{node: group})
			i = end + 1
		case ")", "}":
			return nil, &ParseError{Kind: UnmatchedBracket, Token: tok}
		case ";":
			flush()
			stack = append(stack, stackItem{op: opSeq})
			i++
		case "&&":
			flush()
			stack = append(stack, stackItem{op: opAnd})
			i++
		case "||":
			flush()
			stack = append(stack, stackItem{op: opOr})
			i++
		default:
			args = append(args, tok)
			i++
		}
	}
	flush()

	return combine(stack)
}

// matchingClose finds the closer that balances the opening bracket at
// tokens[open], honoring nesting of the same bracket style.
func matchingClose(tokens []string, open int) (int, error) {
	openTok := tokens[open]
	closeTok := ")"
	if openTok == "{" {
		closeTok = "}"
	}

	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i] {
		case openTok:
			depth++
		case closeTok:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &ParseError{Kind: UnmatchedBracket, Token: openTok}
}

// combine folds the parse stack into a single node. The stack is split
// into runs at sequence separators, each run folds right to left, and
// multiple runs join into one Sequence.
func combine(stack []stackItem) (Node, error) {
	var runs [][]stackItem
	var run []stackItem
	for _, item := range stack {
		if item.node == nil && item.op == opSeq {
			if len(run) > 0 {
				runs = append(runs, run)
				run = nil
			}
			continue
		}
		run = append(run, item)
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}

	var nodes []Node
	for _, run := range runs {
		if node := foldRun(run); node != nil {
			nodes = append(nodes, node)
		}
	}

	switch len(nodes) {
	case 0:
		return nil, &ParseError{Kind: EmptyCommand}
	case 1:
		return nodes[0], nil
	default:
		return NewSequence(nodes...), nil
	}
}

// foldRun reduces one separator-free run of nodes and "&&"/"||" markers
// to a single node. Folding right to left keeps mixed chains nested on
// the right. Markers with no node on one side are dropped, so a trailing
// "a &&" degrades to just a.
func foldRun(run []stackItem) Node {
	for len(run) > 0 && run[0].node == nil {
		run = run[1:]
	}
	for len(run) > 0 && run[len(run)-1].node == nil {
		run = run[:len(run)-1]
	}
	if len(run) == 0 {
		return nil
	}

	node := run[len(run)-1].node
	i := len(run) - 2
	for i >= 0 {
		// Of several adjacent markers the leftmost wins.
		hasOp := false
		var op operator
		for run[i].node == nil {
			op = run[i].op
			hasOp = true
			i--
		}
		left := run[i].node
		i--

		if !hasOp {
			op = impliedOperator(left, node)
		}
		node = appendNodes(left, node, op)
	}
	return node
}

// appendNodes joins two nodes with op. A Sequence on either side always
// wins and absorbs the other node; otherwise the constructors splice
// same-kind children so chains like "a && b && c" stay one level deep
// while mixed chains nest.
func appendNodes(left, right Node, op operator) Node {
	if _, ok := left.(*Sequence); ok {
		return NewSequence(left, right)
	}
	if _, ok := right.(*Sequence); ok {
		return NewSequence(left, right)
	}
	switch op {
	case opAnd:
		return NewAnd(left, right)
	case opOr:
		return NewOr(left, right)
	default:
		return NewSequence(left, right)
	}
}

// impliedOperator picks the joining operator for two adjacent nodes with
// nothing between them, as in "( a ) b": a compound keeps its own kind,
// plain commands fall back to sequencing.
func impliedOperator(left, right Node) operator {
	switch left.(type) {
	case *And:
		return opAnd
	case *Or:
		return opOr
	case *Sequence:
		return opSeq
	}
	switch right.(type) {
	case *And:
		return opAnd
	case *Or:
		return opOr
	}
	return opSeq
}
