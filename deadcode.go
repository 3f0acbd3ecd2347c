package main

// Dead-code elimination. A statement interrupts execution when control can
// never flow past it: return, break, or an if whose branches both interrupt.
// Inside a block, everything after the first interrupting statement is
// unreachable and gets removed. Function bodies that are not proven to
// interrupt get an implicit "return 0" appended, so every function exits
// through its single epilogue.

// RemoveUnreachable runs the pass over every function body.
func (c *Compilation) RemoveUnreachable() {
	for _, child := range c.Root.Children {
		if child == nil || child.Kind != KindFunction {
			continue
		}

		body := child.Children[2]
		if removeUnreachable(body) {
			continue
		}

		// Wrap the body as { body; return 0 } to guarantee the return.
		returnZero := NewNode(KindReturn, NewInt(0))
		child.Children[2] = NewNode(KindBlock, NewNode(KindList, body, returnZero))
	}
}

// removeUnreachable prunes unreachable statements below node and reports
// whether executing node is guaranteed to interrupt.
func removeUnreachable(node *Node) bool {
	if node == nil {
		return false
	}

	switch node.Kind {
	case KindReturn, KindBreak:
		return true

	case KindIf:
		if len(node.Children) == 2 {
			// With no else-branch the if may be skipped entirely.
			removeUnreachable(node.Children[1])
			return false
		}
		thenInterrupts := removeUnreachable(node.Children[1])
		elseInterrupts := removeUnreachable(node.Children[2])
		return thenInterrupts && elseInterrupts

	case KindWhile:
		// The loop may never be entered, and an interrupting statement in its
		// body may be the break that exits it.
		removeUnreachable(node.Children[1])
		return false

	case KindBlock:
		// The statement list is always the block's last child.
		statements := node.Children[len(node.Children)-1]
		for i, statement := range statements.Children {
			if removeUnreachable(statement) {
				statements.Children = statements.Children[:i+1]
				return true
			}
		}
		return false
	}
	return false
}
