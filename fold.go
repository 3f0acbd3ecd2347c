package main

// Constant folding. The pass runs bottom-up over the tree and is idempotent:
// folding an already folded tree changes nothing.

type opFunc func(a, b int64) (int64, bool)

type operatorMapping struct {
	op       string
	operands int
	fn       opFunc
}

// The fixed operator table. Division by a literal zero reports not-ok so the
// node stays unfolded and the fault surfaces when the compiled program runs.
var operatorTable = []operatorMapping{
	{"+", 2, func(a, b int64) (int64, bool) { return a + b, true }},
	{"-", 2, func(a, b int64) (int64, bool) { return a - b, true }},
	{"*", 2, func(a, b int64) (int64, bool) { return a * b, true }},
	{"/", 2, func(a, b int64) (int64, bool) {
		if b == 0 {
			return 0, false
		}
		return a / b, true
	}},
	{"==", 2, func(a, b int64) (int64, bool) { return boolToInt(a == b), true }},
	{"!=", 2, func(a, b int64) (int64, bool) { return boolToInt(a != b), true }},
	{"<", 2, func(a, b int64) (int64, bool) { return boolToInt(a < b), true }},
	{"<=", 2, func(a, b int64) (int64, bool) { return boolToInt(a <= b), true }},
	{">", 2, func(a, b int64) (int64, bool) { return boolToInt(a > b), true }},
	{">=", 2, func(a, b int64) (int64, bool) { return boolToInt(a >= b), true }},
	{"-", 1, func(a, _ int64) (int64, bool) { return -a, true }},
	{"!", 1, func(a, _ int64) (int64, bool) { return boolToInt(a == 0), true }},
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func operatorFunc(op string, operands int) opFunc {
	for _, m := range operatorTable {
		if m.op == op && m.operands == operands {
			return m.fn
		}
	}
	return nil
}

// Fold performs constant folding on the whole tree, replacing all-literal
// operator nodes with literals and resolving conditional branches whose
// condition is a literal.
func (c *Compilation) Fold() {
	c.Root = foldSubtree(c.Root)
}

// foldSubtree folds the subtree rooted at node bottom-up and returns its
// replacement. A nil result means the whole subtree was removed; detached
// subtrees are simply dropped.
func foldSubtree(node *Node) *Node {
	if node == nil {
		return nil
	}

	for i, child := range node.Children {
		node.Children[i] = foldSubtree(child)
	}

	switch node.Kind {
	case KindOperator:
		return foldOperator(node)
	case KindIf:
		return foldIf(node)
	case KindWhile:
		return foldWhile(node)
	}
	return node
}

// foldOperator evaluates an operator node whose children are all literals.
func foldOperator(node *Node) *Node {
	for _, child := range node.Children {
		if child.Kind != KindIntLiteral {
			return node
		}
	}

	operands := len(node.Children)
	a := node.Children[0].Int
	var b int64
	if operands > 1 {
		b = node.Children[1].Int
	}

	fn := operatorFunc(node.Op, operands)
	if fn == nil {
		return node
	}
	value, ok := fn(a, b)
	if !ok {
		return node
	}
	return NewInt(value)
}

// foldIf replaces an if with a literal condition by the taken branch. A false
// condition with no else-branch removes the statement entirely.
func foldIf(node *Node) *Node {
	if node.Children[0].Kind != KindIntLiteral {
		return node
	}
	if node.Children[0].Int != 0 {
		return node.Children[1]
	}
	if len(node.Children) < 3 {
		return nil
	}
	return node.Children[2]
}

// foldWhile removes a loop whose condition is a literal false. Loops with a
// literal true condition are kept: a break inside may still leave them.
func foldWhile(node *Node) *Node {
	if node.Children[0].Kind != KindIntLiteral {
		return node
	}
	if node.Children[0].Int == 0 {
		return nil
	}
	return node
}
