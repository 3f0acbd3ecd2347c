package main

import (
	"io"

	"github.com/golang/glog"
	"github.com/xyproto/env/v2"
)

// Compilation carries the three structures every pass works on: the tree, the
// symbol tables and the string pool. One value is built per compilation and
// threaded through the passes; there is no package-level state.
type Compilation struct {
	Root    *Node
	Globals *SymbolTable
	Strings *StringPool
}

// NewCompilation wraps a parsed tree. The symbol tables and string pool start
// empty and are populated by Bind.
func NewCompilation(root *Node) *Compilation {
	return &Compilation{
		Root:    root,
		Globals: NewSymbolTable(),
		Strings: &StringPool{},
	}
}

// Compile runs the whole pass sequence over source text and writes the
// assembly to w. Any failure aborts with no partial artifact.
func Compile(source []byte, w io.Writer) error {
	root, err := ParseProgram(source)
	if err != nil {
		return err
	}
	c := NewCompilation(root)
	if err := c.Transform(); err != nil {
		return err
	}
	return c.Generate(w)
}

// Transform runs folding, dead-code elimination and name binding, in that
// order. Setting MINC_NO_FOLD in the environment skips the folding pass.
func (c *Compilation) Transform() error {
	if env.Bool("MINC_NO_FOLD") {
		glog.V(1).Info("constant folding disabled by MINC_NO_FOLD")
	} else {
		c.Fold()
		glog.V(1).Info("constant folding done")
	}

	c.RemoveUnreachable()
	glog.V(1).Info("dead-code elimination done")

	if err := c.Bind(); err != nil {
		return err
	}
	glog.V(1).Infof("name binding done: %d globals, %d strings",
		len(c.Globals.Symbols), len(c.Strings.Strings))
	return nil
}
