package main

import (
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// SymbolKind classifies what a symbol names.
type SymbolKind int

const (
	SymbolGlobalVar SymbolKind = iota
	SymbolGlobalArray
	SymbolFunction
	SymbolParameter
	SymbolLocalVar
)

var symbolKindNames = [...]string{
	SymbolGlobalVar:   "GLOBAL_VAR",
	SymbolGlobalArray: "GLOBAL_ARRAY",
	SymbolFunction:    "FUNCTION",
	SymbolParameter:   "PARAMETER",
	SymbolLocalVar:    "LOCAL_VAR",
}

func (k SymbolKind) String() string {
	return symbolKindNames[k]
}

// Symbol is one named entity. Sequence is the symbol's insertion index in its
// table and later fixes its storage slot. Function symbols own a nested table
// for their parameters and locals.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Sequence int
	Node     *Node
	Locals   *SymbolTable // functions only
}

// ParamCount returns how many parameters a function symbol takes.
func (s *Symbol) ParamCount() int {
	if s.Kind != SymbolFunction {
		panic("ParamCount called on " + s.Kind.String() + " symbol")
	}
	return len(s.Node.Children[1].Children)
}

// scope is one link in the chain of name maps used for lexical lookup. Lookup
// walks outward through parent; shadowing is innermost-first.
type scope struct {
	names  map[string]*Symbol
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{names: make(map[string]*Symbol), parent: parent}
}

func (s *scope) lookup(name string) *Symbol {
	for link := s; link != nil; link = link.parent {
		if sym, ok := link.names[name]; ok {
			return sym
		}
	}
	return nil
}

// SymbolTable is an insertion-ordered collection of symbols plus the current
// lookup scope. Sequence numbers are assigned at the table level and are not
// reset by scope pushes: they span the whole function.
type SymbolTable struct {
	Symbols []*Symbol
	scope   *scope
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scope: newScope(nil)}
}

// Insert adds a symbol, assigning the next sequence number. Redefining a name
// within the current scope is an error; shadowing an outer scope is not.
func (t *SymbolTable) Insert(sym *Symbol) error {
	if _, exists := t.scope.names[sym.Name]; exists {
		return errors.Errorf("symbol %q is already defined in this scope", sym.Name)
	}
	sym.Sequence = len(t.Symbols)
	t.Symbols = append(t.Symbols, sym)
	t.scope.names[sym.Name] = sym
	return nil
}

// Lookup resolves a name through the current scope chain, innermost first.
func (t *SymbolTable) Lookup(name string) *Symbol {
	return t.scope.lookup(name)
}

func (t *SymbolTable) pushScope() {
	t.scope = newScope(t.scope)
}

func (t *SymbolTable) popScope() {
	t.scope = t.scope.parent
}

// Dump prints the table with sequence numbers; function symbols recursively
// print their nested table indented.
func (t *SymbolTable) Dump(w io.Writer) {
	dumpTable(w, t, 0)
}

func dumpTable(w io.Writer, t *SymbolTable, nesting int) {
	for _, sym := range t.Symbols {
		fmt.Fprintf(w, "%*s%d: %s(%s)\n", nesting*4, "", sym.Sequence, sym.Kind, sym.Name)
		if sym.Kind == SymbolFunction {
			dumpTable(w, sym.Locals, nesting+1)
		}
	}
}

// StringPool interns string literal text. Indices are assigned in encounter
// order and identical texts are deliberately not shared: every literal
// occurrence gets its own entry.
type StringPool struct {
	Strings []string
}

// Add appends text to the pool and returns its index.
func (p *StringPool) Add(text string) int {
	p.Strings = append(p.Strings, text)
	return len(p.Strings) - 1
}

// Dump prints every pooled string with its index.
func (p *StringPool) Dump(w io.Writer) {
	for i, s := range p.Strings {
		fmt.Fprintf(w, "%d: %q\n", i, s)
	}
}

// Bind builds the global symbol table and one nested table per function, then
// resolves every identifier use in every function body to its symbol. String
// literals are moved into the pool and their nodes rewritten to pool
// references. Any failure is fatal for the compilation.
func (c *Compilation) Bind() error {
	if err := c.findGlobals(); err != nil {
		return err
	}

	for _, sym := range c.Globals.Symbols {
		if sym.Kind != SymbolFunction {
			continue
		}
		if err := c.bindFunction(sym); err != nil {
			return errors.Wrapf(err, "function %q", sym.Name)
		}
	}
	return nil
}

// findGlobals scans the top-level declaration list, creating one symbol per
// global scalar, global array and function. Function symbols get an empty
// nested table whose lookup scope backs onto the global scope.
func (c *Compilation) findGlobals() error {
	if c.Root.Kind != KindList {
		panic("tree root is not a list node")
	}

	for _, child := range c.Root.Children {
		if child == nil {
			continue
		}
		switch child.Kind {
		case KindGlobalDecl:
			if len(child.Children) < 1 {
				return errors.New("malformed global declaration node")
			}
			for _, declared := range child.Children[0].Children {
				var sym *Symbol
				switch declared.Kind {
				case KindIdentifier:
					sym = &Symbol{Name: declared.Ident, Kind: SymbolGlobalVar, Node: declared}
				case KindArrayIndex:
					// The array is keyed by its identifier child.
					sym = &Symbol{Name: declared.Children[0].Ident, Kind: SymbolGlobalArray, Node: declared}
				default:
					continue
				}
				if err := c.Globals.Insert(sym); err != nil {
					return errors.Wrap(err, "global declaration")
				}
			}

		case KindFunction:
			if len(child.Children) < 3 {
				return errors.New("malformed function node")
			}
			locals := NewSymbolTable()
			locals.scope.parent = c.Globals.scope
			sym := &Symbol{
				Name:   child.Children[0].Ident,
				Kind:   SymbolFunction,
				Node:   child,
				Locals: locals,
			}
			if err := c.Globals.Insert(sym); err != nil {
				return errors.Wrap(err, "function declaration")
			}
		}
	}
	return nil
}

// bindFunction inserts the function's parameters in declaration order, then
// walks its body binding uses and interning strings.
func (c *Compilation) bindFunction(fn *Symbol) error {
	for _, param := range fn.Node.Children[1].Children {
		if param.Kind != KindIdentifier {
			return errors.New("malformed parameter node")
		}
		if err := fn.Locals.Insert(&Symbol{Name: param.Ident, Kind: SymbolParameter, Node: param}); err != nil {
			return err
		}
	}

	if err := c.bindNames(fn.Locals, fn.Node.Children[2]); err != nil {
		return err
	}
	glog.V(2).Infof("bound %q: %d symbols", fn.Name, len(fn.Locals.Symbols))
	return nil
}

// bindNames walks a function body. Blocks with declarations push a scope for
// their locals; identifier uses resolve through the scope chain; string
// literal nodes are rewritten in place into pool references.
func (c *Compilation) bindNames(locals *SymbolTable, node *Node) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case KindBlock:
		locals.pushScope()
		defer locals.popScope()

		// A two-child block starts with a list of declaration lines, each a
		// list of identifiers. Sequence numbers continue at the function
		// level even though visibility is per scope.
		if len(node.Children) == 2 {
			for _, line := range node.Children[0].Children {
				for _, declared := range line.Children {
					sym := &Symbol{Name: declared.Ident, Kind: SymbolLocalVar, Node: declared}
					if err := locals.Insert(sym); err != nil {
						return err
					}
				}
			}
		}
		for _, statement := range node.Children[len(node.Children)-1].Children {
			if err := c.bindNames(locals, statement); err != nil {
				return err
			}
		}
		return nil

	case KindIdentifier:
		sym := locals.Lookup(node.Ident)
		if sym == nil {
			return errors.Errorf("unresolved reference to %q", node.Ident)
		}
		node.Symbol = sym
		return nil

	case KindStringLiteral:
		node.Pool = c.Strings.Add(node.Str)
		node.Kind = KindPoolRef
		node.Str = ""
		return nil

	default:
		for _, child := range node.Children {
			if err := c.bindNames(locals, child); err != nil {
				return err
			}
		}
		return nil
	}
}
