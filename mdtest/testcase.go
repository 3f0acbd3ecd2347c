// Package mdtest extracts compiler test cases from Markdown documents. A test
// case is a heading of the form "Test: name" followed by one fenced input
// block (language "minc") and one or more assertion blocks.
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputLanguage is the fence language marking a test's source program.
const InputLanguage = "minc"

// AssertionType identifies what an assertion fence checks.
type AssertionType string

const (
	// AssertionTree compares the indented tree dump after the transform
	// passes, before binding.
	AssertionTree AssertionType = "tree"
	// AssertionSymbols compares the symbol table dump after binding.
	AssertionSymbols AssertionType = "symbols"
	// AssertionAsmContains requires every line of the fence to appear in the
	// generated assembly.
	AssertionAsmContains AssertionType = "asm-contains"
	// AssertionCompileError requires compilation to fail with a message
	// containing the fence content.
	AssertionCompileError AssertionType = "compile-error"
)

// Assertion is a single assertion fence in a test case.
type Assertion struct {
	Type    AssertionType
	Content string
}

// TestCase is one complete extracted test.
type TestCase struct {
	Name       string
	Input      string
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and returns all test cases in
// document order.
func ExtractTestCases(markdown string) ([]TestCase, error) {
	md := goldmark.New()
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := extractText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := validate(current); err != nil {
					return ast.WalkStop, err
				}
				testCases = append(testCases, *current)
			}
			current = &TestCase{Name: strings.TrimPrefix(heading, "Test: ")}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := fenceContent(n, source)

			if current == nil {
				if language != "" {
					return ast.WalkStop, fmt.Errorf("%s fence found outside of test case", language)
				}
				return ast.WalkContinue, nil
			}

			switch {
			case language == InputLanguage:
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("multiple input fences in test %q", current.Name)
				}
				current.Input = strings.TrimRight(content, "\n")
			case isAssertionLanguage(language):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
				})
			default:
				return ast.WalkStop, fmt.Errorf("unknown fence language %q in test %q", language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown: %w", err)
	}

	if current != nil {
		if err := validate(current); err != nil {
			return nil, err
		}
		testCases = append(testCases, *current)
	}
	return testCases, nil
}

func isAssertionLanguage(language string) bool {
	switch AssertionType(language) {
	case AssertionTree, AssertionSymbols, AssertionAsmContains, AssertionCompileError:
		return true
	}
	return false
}

func validate(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("test %q has no input fence", tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test %q has no assertion fences", tc.Name)
	}
	return nil
}

func extractText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(fence *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < fence.Lines().Len(); i++ {
		line := fence.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}
