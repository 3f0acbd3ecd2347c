package main

import (
	"fmt"
	"io"
)

// NodeKind identifies what a syntax tree node represents.
type NodeKind int

const (
	KindList NodeKind = iota
	KindFunction
	KindGlobalDecl
	KindBlock
	KindIf
	KindWhile
	KindBreak
	KindReturn
	KindPrint
	KindAssign
	KindOperator
	KindCall
	KindArrayIndex
	KindIdentifier
	KindIntLiteral
	KindStringLiteral
	KindPoolRef
)

var nodeKindNames = [...]string{
	KindList:          "LIST",
	KindFunction:      "FUNCTION",
	KindGlobalDecl:    "GLOBAL_DECLARATION",
	KindBlock:         "BLOCK",
	KindIf:            "IF_STATEMENT",
	KindWhile:         "WHILE_STATEMENT",
	KindBreak:         "BREAK_STATEMENT",
	KindReturn:        "RETURN_STATEMENT",
	KindPrint:         "PRINT_STATEMENT",
	KindAssign:        "ASSIGNMENT_STATEMENT",
	KindOperator:      "OPERATOR",
	KindCall:          "FUNCTION_CALL",
	KindArrayIndex:    "ARRAY_INDEXING",
	KindIdentifier:    "IDENTIFIER",
	KindIntLiteral:    "NUMBER_LITERAL",
	KindStringLiteral: "STRING_LITERAL",
	KindPoolRef:       "STRING_POOL_REFERENCE",
}

func (k NodeKind) String() string {
	return nodeKindNames[k]
}

// Node is one syntax tree node. A parent exclusively owns its children, so a
// detached subtree is unreachable from the tree and can be collected. Only the
// fields matching Kind are meaningful.
type Node struct {
	Kind     NodeKind
	Children []*Node

	Op     string  // KindOperator
	Ident  string  // KindIdentifier
	Int    int64   // KindIntLiteral
	Str    string  // KindStringLiteral
	Pool   int     // KindPoolRef
	Symbol *Symbol // KindIdentifier, set by name binding
}

// NewNode allocates a node owning exactly the given children in order.
func NewNode(kind NodeKind, children ...*Node) *Node {
	n := &Node{Kind: kind}
	if kind == KindList {
		// List children live in a backing array whose capacity is a power of
		// two, so Append can double in place.
		n.Children = make([]*Node, 0, nextPow2(len(children)))
	}
	n.Children = append(n.Children, children...)
	return n
}

func NewIdent(name string) *Node {
	return &Node{Kind: KindIdentifier, Ident: name}
}

func NewInt(value int64) *Node {
	return &Node{Kind: KindIntLiteral, Int: value}
}

func NewString(text string) *Node {
	return &Node{Kind: KindStringLiteral, Str: text}
}

func NewOperator(op string, operands ...*Node) *Node {
	n := NewNode(KindOperator, operands...)
	n.Op = op
	return n
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// Append adds an element to a list node and returns the list. Growing always
// doubles the backing capacity to the next power of two. Calling Append on a
// non-list node is a contract violation.
func (n *Node) Append(element *Node) *Node {
	if n.Kind != KindList {
		panic("Append called on " + n.Kind.String() + " node")
	}
	if len(n.Children) == cap(n.Children) {
		grown := make([]*Node, len(n.Children), nextPow2(len(n.Children)+1))
		copy(grown, n.Children)
		n.Children = grown
	}
	n.Children = append(n.Children, element)
	return n
}

// Dump writes an indented textual rendering of the subtree. It never mutates
// the tree.
func (n *Node) Dump(w io.Writer) {
	dumpNode(w, n, 0)
}

func dumpNode(w io.Writer, n *Node, nesting int) {
	for i := 0; i < nesting; i++ {
		fmt.Fprint(w, "  ")
	}
	if n == nil {
		fmt.Fprintln(w, "(NULL)")
		return
	}
	fmt.Fprint(w, n.Kind)
	switch n.Kind {
	case KindOperator:
		fmt.Fprintf(w, " (%s)", n.Op)
	case KindIdentifier:
		fmt.Fprintf(w, " (%s)", n.Ident)
	case KindIntLiteral:
		fmt.Fprintf(w, " (%d)", n.Int)
	case KindStringLiteral:
		fmt.Fprintf(w, " (%q)", n.Str)
	case KindPoolRef:
		fmt.Fprintf(w, " (%d)", n.Pool)
	}
	fmt.Fprintln(w)
	for _, child := range n.Children {
		dumpNode(w, child, nesting+1)
	}
}

// DumpGraphviz writes the subtree as a dot-format graph.
func (n *Node) DumpGraphviz(w io.Writer) {
	fmt.Fprintln(w, "digraph tree {")
	fmt.Fprintln(w, "\tnode [shape=box];")
	next := 0
	graphvizNode(w, n, &next)
	fmt.Fprintln(w, "}")
}

func graphvizNode(w io.Writer, n *Node, next *int) int {
	id := *next
	*next++
	if n == nil {
		fmt.Fprintf(w, "\tn%d [label=\"(NULL)\"];\n", id)
		return id
	}
	label := n.Kind.String()
	switch n.Kind {
	case KindOperator:
		label += " " + n.Op
	case KindIdentifier:
		label += " " + n.Ident
	case KindIntLiteral:
		label += fmt.Sprintf(" %d", n.Int)
	case KindStringLiteral:
		label += fmt.Sprintf(" %q", n.Str)
	case KindPoolRef:
		label += fmt.Sprintf(" #%d", n.Pool)
	}
	fmt.Fprintf(w, "\tn%d [label=%q];\n", id, label)
	for _, child := range n.Children {
		childID := graphvizNode(w, child, next)
		fmt.Fprintf(w, "\tn%d -> n%d;\n", id, childID)
	}
	return id
}
