package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func parseTree(t *testing.T, src string) string {
	t.Helper()
	root, err := ParseProgram([]byte(src))
	be.Err(t, err, nil)
	return dumpTree(root)
}

func TestParseGlobalDeclarations(t *testing.T) {
	got := parseTree(t, "var g, a[4];")
	want := "" +
		"LIST\n" +
		"  GLOBAL_DECLARATION\n" +
		"    LIST\n" +
		"      IDENTIFIER (g)\n" +
		"      ARRAY_INDEXING\n" +
		"        IDENTIFIER (a)\n" +
		"        NUMBER_LITERAL (4)\n"
	be.Equal(t, got, want)
}

func TestParseFunctionShape(t *testing.T) {
	got := parseTree(t, "func f(a, b) { return a; }")
	want := "" +
		"LIST\n" +
		"  FUNCTION\n" +
		"    IDENTIFIER (f)\n" +
		"    LIST\n" +
		"      IDENTIFIER (a)\n" +
		"      IDENTIFIER (b)\n" +
		"    BLOCK\n" +
		"      LIST\n" +
		"        RETURN_STATEMENT\n" +
		"          IDENTIFIER (a)\n"
	be.Equal(t, got, want)
}

func TestParseBlockWithLocals(t *testing.T) {
	got := parseTree(t, "func f() { var x; x = 1; }")
	want := "" +
		"LIST\n" +
		"  FUNCTION\n" +
		"    IDENTIFIER (f)\n" +
		"    LIST\n" +
		"    BLOCK\n" +
		"      LIST\n" +
		"        LIST\n" +
		"          IDENTIFIER (x)\n" +
		"      LIST\n" +
		"        ASSIGNMENT_STATEMENT\n" +
		"          IDENTIFIER (x)\n" +
		"          NUMBER_LITERAL (1)\n"
	be.Equal(t, got, want)
}

func TestParsePrecedence(t *testing.T) {
	got := parseTree(t, "func f() { return 1 + 2 * 3 < 10; }")
	want := "" +
		"LIST\n" +
		"  FUNCTION\n" +
		"    IDENTIFIER (f)\n" +
		"    LIST\n" +
		"    BLOCK\n" +
		"      LIST\n" +
		"        RETURN_STATEMENT\n" +
		"          OPERATOR (<)\n" +
		"            OPERATOR (+)\n" +
		"              NUMBER_LITERAL (1)\n" +
		"              OPERATOR (*)\n" +
		"                NUMBER_LITERAL (2)\n" +
		"                NUMBER_LITERAL (3)\n" +
		"            NUMBER_LITERAL (10)\n"
	be.Equal(t, got, want)
}

func TestParseLeftAssociativity(t *testing.T) {
	got := parseTree(t, "func f() { return 10 - 4 - 3; }")
	want := "" +
		"LIST\n" +
		"  FUNCTION\n" +
		"    IDENTIFIER (f)\n" +
		"    LIST\n" +
		"    BLOCK\n" +
		"      LIST\n" +
		"        RETURN_STATEMENT\n" +
		"          OPERATOR (-)\n" +
		"            OPERATOR (-)\n" +
		"              NUMBER_LITERAL (10)\n" +
		"              NUMBER_LITERAL (4)\n" +
		"            NUMBER_LITERAL (3)\n"
	be.Equal(t, got, want)
}

func TestParseUnary(t *testing.T) {
	got := parseTree(t, "func f(x) { return -x + !x; }")
	want := "" +
		"LIST\n" +
		"  FUNCTION\n" +
		"    IDENTIFIER (f)\n" +
		"    LIST\n" +
		"      IDENTIFIER (x)\n" +
		"    BLOCK\n" +
		"      LIST\n" +
		"        RETURN_STATEMENT\n" +
		"          OPERATOR (+)\n" +
		"            OPERATOR (-)\n" +
		"              IDENTIFIER (x)\n" +
		"            OPERATOR (!)\n" +
		"              IDENTIFIER (x)\n"
	be.Equal(t, got, want)
}

func TestParseIfElseChain(t *testing.T) {
	got := parseTree(t, "func f(x) { if x { return 1; } else if !x { return 2; } else { return 3; } }")
	want := "" +
		"LIST\n" +
		"  FUNCTION\n" +
		"    IDENTIFIER (f)\n" +
		"    LIST\n" +
		"      IDENTIFIER (x)\n" +
		"    BLOCK\n" +
		"      LIST\n" +
		"        IF_STATEMENT\n" +
		"          IDENTIFIER (x)\n" +
		"          BLOCK\n" +
		"            LIST\n" +
		"              RETURN_STATEMENT\n" +
		"                NUMBER_LITERAL (1)\n" +
		"          IF_STATEMENT\n" +
		"            OPERATOR (!)\n" +
		"              IDENTIFIER (x)\n" +
		"            BLOCK\n" +
		"              LIST\n" +
		"                RETURN_STATEMENT\n" +
		"                  NUMBER_LITERAL (2)\n" +
		"            BLOCK\n" +
		"              LIST\n" +
		"                RETURN_STATEMENT\n" +
		"                  NUMBER_LITERAL (3)\n"
	be.Equal(t, got, want)
}

func TestParseWhileBreak(t *testing.T) {
	got := parseTree(t, "func f() { while 1 { break; } }")
	want := "" +
		"LIST\n" +
		"  FUNCTION\n" +
		"    IDENTIFIER (f)\n" +
		"    LIST\n" +
		"    BLOCK\n" +
		"      LIST\n" +
		"        WHILE_STATEMENT\n" +
		"          NUMBER_LITERAL (1)\n" +
		"          BLOCK\n" +
		"            LIST\n" +
		"              BREAK_STATEMENT\n"
	be.Equal(t, got, want)
}

func TestParsePrintList(t *testing.T) {
	got := parseTree(t, `func f(x) { print "x is", x; }`)
	want := "" +
		"LIST\n" +
		"  FUNCTION\n" +
		"    IDENTIFIER (f)\n" +
		"    LIST\n" +
		"      IDENTIFIER (x)\n" +
		"    BLOCK\n" +
		"      LIST\n" +
		"        PRINT_STATEMENT\n" +
		"          LIST\n" +
		"            STRING_LITERAL (\"x is\")\n" +
		"            IDENTIFIER (x)\n"
	be.Equal(t, got, want)
}

func TestParseCallStatementAndExpression(t *testing.T) {
	got := parseTree(t, "func f(a) { f(a + 1); return f(0); }")
	want := "" +
		"LIST\n" +
		"  FUNCTION\n" +
		"    IDENTIFIER (f)\n" +
		"    LIST\n" +
		"      IDENTIFIER (a)\n" +
		"    BLOCK\n" +
		"      LIST\n" +
		"        FUNCTION_CALL\n" +
		"          IDENTIFIER (f)\n" +
		"          LIST\n" +
		"            OPERATOR (+)\n" +
		"              IDENTIFIER (a)\n" +
		"              NUMBER_LITERAL (1)\n" +
		"        RETURN_STATEMENT\n" +
		"          FUNCTION_CALL\n" +
		"            IDENTIFIER (f)\n" +
		"            LIST\n" +
		"              NUMBER_LITERAL (0)\n"
	be.Equal(t, got, want)
}

func TestParseArrayAssignment(t *testing.T) {
	got := parseTree(t, "func f(i) { a[i] = a[i + 1]; }")
	want := "" +
		"LIST\n" +
		"  FUNCTION\n" +
		"    IDENTIFIER (f)\n" +
		"    LIST\n" +
		"      IDENTIFIER (i)\n" +
		"    BLOCK\n" +
		"      LIST\n" +
		"        ASSIGNMENT_STATEMENT\n" +
		"          ARRAY_INDEXING\n" +
		"            IDENTIFIER (a)\n" +
		"            IDENTIFIER (i)\n" +
		"          ARRAY_INDEXING\n" +
		"            IDENTIFIER (a)\n" +
		"            OPERATOR (+)\n" +
		"              IDENTIFIER (i)\n" +
		"              NUMBER_LITERAL (1)\n"
	be.Equal(t, got, want)
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"func f() { return 1 }",       // missing semicolon
		"var a[n];",                   // array size must be a literal
		"func f() { x = ; }",          // missing expression
		"print 1;",                    // statement at top level
		"func f() { if x return; }",   // missing braces
		"func f() { var x[3]; }",      // local arrays not allowed
	}
	for _, src := range bad {
		_, err := ParseProgram([]byte(src))
		be.True(t, err != nil)
	}
}
