package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// The first six integer arguments are passed in registers (System V AMD64).
const numRegisterParams = 6

var paramRegisters = [numRegisterParams]string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

// emitter accumulates the textual instruction stream. Directives and labels
// sit in column zero; instructions are tab-indented. The first write error
// sticks and suppresses the rest.
type emitter struct {
	w   io.Writer
	err error
}

func (e *emitter) directive(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

func (e *emitter) label(format string, args ...interface{}) {
	e.directive(format+":", args...)
}

func (e *emitter) op(format string, args ...interface{}) {
	e.directive("\t"+format, args...)
}

// generator walks the bound tree and emits one assembly text stream: string
// constants, zero-initialized global storage, then executable code.
type generator struct {
	e       *emitter
	globals *SymbolTable
	strings *StringPool

	current  *Symbol  // function being generated
	loopEnds []string // break targets, innermost last
	labelSeq int
	err      error
}

// Generate emits the whole program. It requires a bound tree; the entry point
// is the topmost function.
func (c *Compilation) Generate(w io.Writer) error {
	g := &generator{e: &emitter{w: w}, globals: c.Globals, strings: c.Strings}

	g.stringTable()
	g.globalVariables()

	g.e.directive(".text")
	var entry *Symbol
	for _, sym := range c.Globals.Symbols {
		if sym.Kind != SymbolFunction {
			continue
		}
		if entry == nil {
			entry = sym
		}
		g.function(sym)
	}
	if entry == nil {
		return errors.New("program has no function to use as entry point")
	}

	g.entryWrapper(entry)
	g.safePrintf()
	g.e.directive(".globl main")

	if g.err != nil {
		return g.err
	}
	return g.e.err
}

// stringTable emits the read-only string section: the printf format strings,
// the argument-count diagnostic, and every pooled literal.
func (g *generator) stringTable() {
	g.e.directive(".section .rodata")
	g.e.directive(`intout: .asciz "%s"`, "%ld")
	g.e.directive(`strout: .asciz "%s"`, "%s")
	g.e.directive(`errout: .asciz "%s"`, "Wrong number of arguments")
	for i, s := range g.strings.Strings {
		g.e.directive(`string%d: .asciz "%s"`, i, asciz(s))
	}
}

// asciz escapes literal text for embedding in a quoted .asciz directive.
func asciz(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// globalVariables reserves zeroed storage: 8 bytes per scalar, 8 per array
// element. Labels are dot-prefixed to keep them out of the linker namespace.
func (g *generator) globalVariables() {
	g.e.directive(".section .bss")
	g.e.directive(".align 8")
	for _, sym := range g.globals.Symbols {
		switch sym.Kind {
		case SymbolGlobalVar:
			g.e.directive(".%s: .zero 8", sym.Name)
		case SymbolGlobalArray:
			elements := sym.Node.Children[1].Int
			g.e.directive(".%s: .zero %d", sym.Name, elements*8)
		}
	}
}

// function emits the label, prologue, body and single epilogue of a function.
// Register parameters are pushed so every parameter and local is addressable
// relative to the frame pointer.
func (g *generator) function(fn *Symbol) {
	glog.V(2).Infof("generating %q (%d parameters)", fn.Name, fn.ParamCount())
	g.current = fn
	g.e.label(".%s", fn.Name)

	g.e.op("pushq %%rbp")
	g.e.op("movq %%rsp, %%rbp")

	for i := 0; i < fn.ParamCount() && i < numRegisterParams; i++ {
		g.e.op("pushq %s", paramRegisters[i])
	}

	// One zero-initialized slot per local, in sequence order.
	for _, sym := range fn.Locals.Symbols {
		if sym.Kind == SymbolLocalVar {
			g.e.op("pushq $0")
		}
	}

	g.statement(fn.Node.Children[2])

	g.e.label(".%s.epilogue", fn.Name)
	g.e.op("movq %%rbp, %%rsp")
	g.e.op("popq %%rbp")
	g.e.op("ret")
}

// stackOffset maps a sequence number in the current function's table to its
// frame-pointer-relative offset.
func (g *generator) stackOffset(sequence int) int {
	paramCount := g.current.ParamCount()
	if sequence < paramCount {
		if sequence >= numRegisterParams {
			// Still in the caller's frame; +8 skips the return address.
			return (sequence-(numRegisterParams-1))*8 + 8
		}
		// Pushed by the prologue.
		return (sequence + 1) * -8
	}
	// Locals continue below the pushed parameter slots.
	pushedParams := paramCount
	if pushedParams > numRegisterParams {
		pushedParams = numRegisterParams
	}
	return (pushedParams + (sequence - paramCount) + 1) * -8
}

// expression emits code leaving the value of the expression in %rax.
func (g *generator) expression(node *Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case KindIntLiteral:
		g.e.op("movq $%d, %%rax", node.Int)

	case KindIdentifier:
		sym := node.Symbol
		if sym.Kind == SymbolGlobalVar {
			g.e.op("movq .%s(%%rip), %%rax", sym.Name)
		} else {
			g.e.op("movq %d(%%rbp), %%rax", g.stackOffset(sym.Sequence))
		}

	case KindArrayIndex:
		array := node.Children[0].Symbol
		g.e.op("pushq %%rcx")
		g.expression(node.Children[1])
		g.e.op("leaq .%s(%%rip), %%rcx", array.Name)
		g.e.op("leaq (%%rcx, %%rax, 8), %%rcx")
		g.e.op("movq (%%rcx), %%rax")
		g.e.op("popq %%rcx")

	case KindOperator:
		if len(node.Children) > 1 {
			g.binaryOperator(node)
		} else {
			g.unaryOperator(node)
		}

	case KindCall:
		g.call(node)

	default:
		panic("cannot generate expression for " + node.Kind.String() + " node")
	}
}

// binaryOperator evaluates the left operand, preserves it on the stack across
// the right operand, then applies the operator to %rcx (left) and %rax
// (right), leaving the result in %rax.
func (g *generator) binaryOperator(node *Node) {
	g.expression(node.Children[0])
	g.e.op("pushq %%rax")
	g.expression(node.Children[1])
	g.e.op("popq %%rcx")

	switch node.Op {
	case "+":
		g.e.op("addq %%rcx, %%rax")
	case "-":
		g.e.op("subq %%rax, %%rcx")
		g.e.op("movq %%rcx, %%rax")
	case "*":
		g.e.op("imulq %%rcx, %%rax")
	case "/":
		// Divisor out of the way first so %rdx:%rax can hold the dividend.
		g.e.op("movq %%rax, %%r8")
		g.e.op("movq %%rcx, %%rax")
		g.e.op("cqo")
		g.e.op("idivq %%r8")
	default:
		g.e.op("cmpq %%rax, %%rcx")
		switch node.Op {
		case "<":
			g.e.op("setl %%al")
		case "<=":
			g.e.op("setle %%al")
		case ">":
			g.e.op("setg %%al")
		case ">=":
			g.e.op("setge %%al")
		case "==":
			g.e.op("sete %%al")
		case "!=":
			g.e.op("setne %%al")
		default:
			panic("unknown binary operator " + node.Op)
		}
		g.e.op("movzbq %%al, %%rax")
	}
}

func (g *generator) unaryOperator(node *Node) {
	g.expression(node.Children[0])
	switch node.Op {
	case "-":
		g.e.op("negq %%rax")
	case "!":
		g.e.op("testq %%rax, %%rax")
		g.e.op("sete %%al")
		g.e.op("movzbq %%al, %%rax")
	default:
		panic("unknown unary operator " + node.Op)
	}
}

// call evaluates arguments right to left, pushing each, then moves the first
// six into the argument registers. Arguments past the sixth stay on the stack
// where the callee addresses them through positive frame offsets.
func (g *generator) call(node *Node) {
	callee := node.Children[0].Symbol
	if callee.Kind != SymbolFunction {
		g.fail("%q is not a function", callee.Name)
		return
	}

	args := node.Children[1]
	for i := len(args.Children) - 1; i >= 0; i-- {
		g.expression(args.Children[i])
		g.e.op("pushq %%rax")
	}
	for i := 0; i < len(args.Children) && i < numRegisterParams; i++ {
		g.e.op("popq %s", paramRegisters[i])
	}
	g.e.op("call .%s", callee.Name)
}

// statement emits one statement and its sub-statements.
func (g *generator) statement(node *Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case KindBlock:
		for _, child := range node.Children[len(node.Children)-1].Children {
			g.statement(child)
		}

	case KindAssign:
		g.assignment(node)

	case KindPrint:
		g.print(node)

	case KindReturn:
		g.expression(node.Children[0])
		g.e.op("jmp .%s.epilogue", g.current.Name)

	case KindIf:
		g.ifStatement(node)

	case KindWhile:
		g.whileStatement(node)

	case KindBreak:
		if len(g.loopEnds) == 0 {
			g.fail("break statement outside loop")
			return
		}
		g.e.op("jmp %s", g.loopEnds[len(g.loopEnds)-1])

	case KindCall:
		g.expression(node)

	default:
		panic("cannot generate statement for " + node.Kind.String() + " node")
	}
}

// assignment stores the evaluated right side into a variable slot or a
// computed array element address.
func (g *generator) assignment(node *Node) {
	left, right := node.Children[0], node.Children[1]
	g.expression(right)

	if left.Kind == KindIdentifier {
		sym := left.Symbol
		if sym.Kind == SymbolGlobalVar {
			g.e.op("movq %%rax, .%s(%%rip)", sym.Name)
			return
		}
		g.e.op("movq %%rax, %d(%%rbp)", g.stackOffset(sym.Sequence))
		return
	}

	array := left.Children[0].Symbol
	g.e.op("pushq %%rax") // the value being stored
	g.expression(left.Children[1])
	g.e.op("leaq .%s(%%rip), %%rcx", array.Name)
	g.e.op("leaq (%%rcx, %%rax, 8), %%rcx")
	g.e.op("popq %%rax")
	g.e.op("movq %%rax, (%%rcx)")
}

// print formats each operand through safe_printf, picking the string or
// integer format depending on whether the operand is a pool reference, and
// ends with a newline.
func (g *generator) print(node *Node) {
	for _, item := range node.Children[0].Children {
		if item.Kind == KindPoolRef {
			g.e.op("leaq strout(%%rip), %%rdi")
			g.e.op("leaq string%d(%%rip), %%rsi", item.Pool)
		} else {
			g.expression(item)
			g.e.op("leaq intout(%%rip), %%rdi")
			g.e.op("movq %%rax, %%rsi")
		}
		g.e.op("call safe_printf")
	}
	g.e.op("movq $0x0A, %%rdi")
	g.e.op("call putchar")
}

func (g *generator) ifStatement(node *Node) {
	g.labelSeq++
	seq := g.labelSeq

	g.expression(node.Children[0])
	g.e.op("cmpq $0, %%rax")
	if len(node.Children) == 3 {
		g.e.op("je .ELSE%d", seq)
		g.statement(node.Children[1])
		g.e.op("jmp .ENDIF%d", seq)
		g.e.label(".ELSE%d", seq)
		g.statement(node.Children[2])
	} else {
		g.e.op("je .ENDIF%d", seq)
		g.statement(node.Children[1])
	}
	g.e.label(".ENDIF%d", seq)
}

func (g *generator) whileStatement(node *Node) {
	g.labelSeq++
	seq := g.labelSeq
	end := fmt.Sprintf(".ENDWHILE%d", seq)

	g.e.label(".WHILE%d", seq)
	g.expression(node.Children[0])
	g.e.op("cmpq $0, %%rax")
	g.e.op("je %s", end)

	g.loopEnds = append(g.loopEnds, end)
	g.statement(node.Children[1])
	g.loopEnds = g.loopEnds[:len(g.loopEnds)-1]

	g.e.op("jmp .WHILE%d", seq)
	g.e.label("%s", end)
}

// entryWrapper bridges the process arguments to the entry function: it checks
// argc against the declared parameter count, parses each argument as a base-10
// integer with strtol, pushes them right to left, loads up to six into the
// argument registers, and forwards the function's result as the exit status.
func (g *generator) entryWrapper(entry *Symbol) {
	expectedArgs := entry.ParamCount()

	g.e.label("main")
	g.e.op("pushq %%rbp")
	g.e.op("movq %%rsp, %%rbp")

	// argc counts the binary's own name.
	g.e.op("subq $1, %%rdi")
	g.e.op("cmpq $%d, %%rdi", expectedArgs)
	g.e.op("jne .ABORT")

	if expectedArgs > 0 {
		// Walk argv from the rightmost argument down, so the values end up
		// pushed right to left.
		g.e.op("addq $%d, %%rsi", expectedArgs*8)
		g.e.op("movq %%rdi, %%rcx")
		g.e.label(".PARSE_ARGV")
		g.e.op("pushq %%rsi")
		g.e.op("pushq %%rcx")
		g.e.op("movq (%%rsi), %%rdi")
		g.e.op("movq $0, %%rsi")
		g.e.op("movq $10, %%rdx")
		g.e.op("call strtol")
		g.e.op("popq %%rcx")
		g.e.op("popq %%rsi")
		g.e.op("pushq %%rax")
		g.e.op("subq $8, %%rsi")
		g.e.op("loop .PARSE_ARGV")

		for i := 0; i < expectedArgs && i < numRegisterParams; i++ {
			g.e.op("popq %s", paramRegisters[i])
		}
	}

	g.e.op("call .%s", entry.Name)
	g.e.op("movq %%rax, %%rdi")
	g.e.op("call exit")

	g.e.label(".ABORT")
	g.e.op("leaq errout(%%rip), %%rdi")
	g.e.op("call puts")
	g.e.op("movq $1, %%rdi")
	g.e.op("call exit")
}

// safePrintf emits a trampoline that 16-byte aligns the stack before calling
// printf, since frames here only guarantee 8-byte alignment.
func (g *generator) safePrintf() {
	g.e.label("safe_printf")
	g.e.op("pushq %%rbp")
	g.e.op("movq %%rsp, %%rbp")
	g.e.op("andq $-16, %%rsp")
	g.e.op("call printf")
	g.e.op("movq %%rbp, %%rsp")
	g.e.op("popq %%rbp")
	g.e.op("ret")
}

func (g *generator) fail(format string, args ...interface{}) {
	if g.err == nil {
		g.err = errors.Errorf(format, args...)
	}
}
