package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func parseSource(t *testing.T, src string) *Compilation {
	t.Helper()
	root, err := ParseProgram([]byte(src))
	be.Err(t, err, nil)
	return NewCompilation(root)
}

func dumpTree(n *Node) string {
	var buf bytes.Buffer
	n.Dump(&buf)
	return buf.String()
}

func compileSource(t *testing.T, src string) string {
	t.Helper()
	var buf bytes.Buffer
	be.Err(t, Compile([]byte(src), &buf), nil)
	return buf.String()
}

// asmContains reports whether the instruction stream contains the given line,
// ignoring indentation.
func asmContains(asm, want string) bool {
	for _, line := range strings.Split(asm, "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}

// functionBody returns the body node of the i-th top-level declaration.
func functionBody(c *Compilation, i int) *Node {
	return c.Root.Children[i].Children[2]
}
