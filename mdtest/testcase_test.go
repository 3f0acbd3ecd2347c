package mdtest

import (
	"testing"

	"github.com/nalgeon/be"
)

const sampleDoc = "# Test: folds addition\n" +
	"\n" +
	"```minc\n" +
	"func main() { return 1 + 2; }\n" +
	"```\n" +
	"\n" +
	"```tree\n" +
	"LIST\n" +
	"```\n" +
	"\n" +
	"# Test: reports bad reference\n" +
	"\n" +
	"```minc\n" +
	"func main() { return nope; }\n" +
	"```\n" +
	"\n" +
	"```compile-error\n" +
	"unresolved reference\n" +
	"```\n"

func TestExtractTestCases(t *testing.T) {
	cases, err := ExtractTestCases(sampleDoc)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	be.Equal(t, cases[0].Name, "folds addition")
	be.Equal(t, cases[0].Input, "func main() { return 1 + 2; }")
	be.Equal(t, len(cases[0].Assertions), 1)
	be.Equal(t, cases[0].Assertions[0].Type, AssertionTree)
	be.Equal(t, cases[0].Assertions[0].Content, "LIST")

	be.Equal(t, cases[1].Name, "reports bad reference")
	be.Equal(t, cases[1].Assertions[0].Type, AssertionCompileError)
	be.Equal(t, cases[1].Assertions[0].Content, "unresolved reference")
}

func TestExtractRequiresInput(t *testing.T) {
	doc := "# Test: missing input\n\n```tree\nLIST\n```\n"
	_, err := ExtractTestCases(doc)
	be.True(t, err != nil)
}

func TestExtractRequiresAssertions(t *testing.T) {
	doc := "# Test: missing assertions\n\n```minc\nfunc main() { return 0; }\n```\n"
	_, err := ExtractTestCases(doc)
	be.True(t, err != nil)
}

func TestExtractRejectsUnknownFence(t *testing.T) {
	doc := "# Test: bad fence\n\n```minc\nfunc main() { return 0; }\n```\n\n```wat\nx\n```\n"
	_, err := ExtractTestCases(doc)
	be.True(t, err != nil)
}

func TestFencesOutsideTestCases(t *testing.T) {
	doc := "Some prose.\n\n```minc\nfunc main() { return 0; }\n```\n"
	_, err := ExtractTestCases(doc)
	be.True(t, err != nil)
}
