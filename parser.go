package main

import (
	"github.com/pkg/errors"
)

// Parser produces the backend's tree shapes from a token stream. It is the
// in-repo stand-in for an external front end; the backend itself only ever
// sees the finished tree.
type Parser struct {
	l *Lexer
}

type parseBailout struct {
	err error
}

// ParseProgram parses a whole source file and returns the root list of
// top-level declarations.
func ParseProgram(src []byte) (root *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			bail, ok := r.(parseBailout)
			if !ok {
				panic(r)
			}
			root, err = nil, bail.err
		}
	}()

	l := NewLexer(src)
	l.Next()
	p := &Parser{l: l}

	root = NewNode(KindList)
	for p.l.Type != EOF {
		switch p.l.Type {
		case VAR:
			root.Append(p.globalDeclaration())
		case FUNC:
			root.Append(p.function())
		default:
			p.fail("expected 'var' or 'func' at top level, got %q", p.l.Literal)
		}
	}
	return root, nil
}

func (p *Parser) fail(format string, args ...interface{}) {
	panic(parseBailout{errors.Errorf("parse error: "+format, args...)})
}

func (p *Parser) expect(t TokenType) string {
	if p.l.Type != t {
		p.fail("expected %s, got %q", string(t), p.l.Literal)
	}
	lit := p.l.Literal
	p.l.Next()
	return lit
}

// globalDeclaration parses "var a, b, t[10];" into a GLOBAL_DECLARATION node
// holding one list of identifiers and array-indexing entries.
func (p *Parser) globalDeclaration() *Node {
	p.expect(VAR)
	list := NewNode(KindList)
	for {
		name := NewIdent(p.expect(IDENT))
		if p.l.Type == LBRACKET {
			p.l.Next()
			if p.l.Type != INT {
				p.fail("array size must be an integer literal, got %q", p.l.Literal)
			}
			size := NewInt(p.l.Int)
			p.l.Next()
			p.expect(RBRACKET)
			list.Append(NewNode(KindArrayIndex, name, size))
		} else {
			list.Append(name)
		}
		if p.l.Type != COMMA {
			break
		}
		p.l.Next()
	}
	p.expect(SEMICOLON)
	return NewNode(KindGlobalDecl, list)
}

// function parses "func name(a, b) { ... }".
func (p *Parser) function() *Node {
	p.expect(FUNC)
	name := NewIdent(p.expect(IDENT))

	p.expect(LPAREN)
	params := NewNode(KindList)
	for p.l.Type != RPAREN {
		params.Append(NewIdent(p.expect(IDENT)))
		if p.l.Type == COMMA {
			p.l.Next()
		} else if p.l.Type != RPAREN {
			p.fail("expected ',' or ')' in parameter list, got %q", p.l.Literal)
		}
	}
	p.expect(RPAREN)

	body := p.block()
	return NewNode(KindFunction, name, params, body)
}

// block parses "{ var-lines... statements... }". A block with local
// declarations has two children (declaration list, statement list); one
// without has only the statement list.
func (p *Parser) block() *Node {
	p.expect(LBRACE)

	declarations := NewNode(KindList)
	for p.l.Type == VAR {
		declarations.Append(p.localDeclaration())
	}

	statements := NewNode(KindList)
	for p.l.Type != RBRACE && p.l.Type != EOF {
		statements.Append(p.statement())
	}
	p.expect(RBRACE)

	if len(declarations.Children) > 0 {
		return NewNode(KindBlock, declarations, statements)
	}
	return NewNode(KindBlock, statements)
}

// localDeclaration parses one "var a, b, c;" line into a list of identifiers.
// Locals are scalars; arrays exist only at the top level.
func (p *Parser) localDeclaration() *Node {
	p.expect(VAR)
	list := NewNode(KindList)
	for {
		list.Append(NewIdent(p.expect(IDENT)))
		if p.l.Type != COMMA {
			break
		}
		p.l.Next()
	}
	p.expect(SEMICOLON)
	return list
}

func (p *Parser) statement() *Node {
	switch p.l.Type {
	case LBRACE:
		return p.block()

	case IF:
		p.l.Next()
		cond := p.expression()
		then := p.block()
		if p.l.Type == ELSE {
			p.l.Next()
			var alt *Node
			if p.l.Type == IF {
				alt = p.statement()
			} else {
				alt = p.block()
			}
			return NewNode(KindIf, cond, then, alt)
		}
		return NewNode(KindIf, cond, then)

	case WHILE:
		p.l.Next()
		cond := p.expression()
		body := p.block()
		return NewNode(KindWhile, cond, body)

	case BREAK:
		p.l.Next()
		p.expect(SEMICOLON)
		return NewNode(KindBreak)

	case RETURN:
		p.l.Next()
		value := p.expression()
		p.expect(SEMICOLON)
		return NewNode(KindReturn, value)

	case PRINT:
		p.l.Next()
		items := NewNode(KindList)
		for {
			if p.l.Type == STRING {
				items.Append(NewString(p.l.Literal))
				p.l.Next()
			} else {
				items.Append(p.expression())
			}
			if p.l.Type != COMMA {
				break
			}
			p.l.Next()
		}
		p.expect(SEMICOLON)
		return NewNode(KindPrint, items)

	case IDENT:
		return p.simpleStatement()

	default:
		p.fail("unexpected token %q at start of statement", p.l.Literal)
		return nil
	}
}

// simpleStatement parses an assignment or a call statement, both of which
// begin with an identifier.
func (p *Parser) simpleStatement() *Node {
	name := NewIdent(p.expect(IDENT))

	switch p.l.Type {
	case LPAREN:
		call := p.callArguments(name)
		p.expect(SEMICOLON)
		return call

	case LBRACKET:
		p.l.Next()
		index := p.expression()
		p.expect(RBRACKET)
		lhs := NewNode(KindArrayIndex, name, index)
		p.expect(ASSIGN)
		rhs := p.expression()
		p.expect(SEMICOLON)
		return NewNode(KindAssign, lhs, rhs)

	case ASSIGN:
		p.l.Next()
		rhs := p.expression()
		p.expect(SEMICOLON)
		return NewNode(KindAssign, name, rhs)

	default:
		p.fail("expected assignment or call after %q, got %q", name.Ident, p.l.Literal)
		return nil
	}
}

func (p *Parser) callArguments(callee *Node) *Node {
	p.expect(LPAREN)
	args := NewNode(KindList)
	for p.l.Type != RPAREN {
		args.Append(p.expression())
		if p.l.Type == COMMA {
			p.l.Next()
		} else if p.l.Type != RPAREN {
			p.fail("expected ',' or ')' in argument list, got %q", p.l.Literal)
		}
	}
	p.expect(RPAREN)
	return NewNode(KindCall, callee, args)
}

// precedence returns the binding power of a binary operator token, or 0 for
// non-operators.
func precedence(t TokenType) int {
	switch t {
	case EQ, NOT_EQ, LT, LE, GT, GE:
		return 1
	case PLUS, MINUS:
		return 2
	case ASTERISK, SLASH:
		return 3
	}
	return 0
}

func (p *Parser) expression() *Node {
	return p.expressionWithPrecedence(1)
}

// expressionWithPrecedence implements precedence climbing.
func (p *Parser) expressionWithPrecedence(minPrec int) *Node {
	left := p.unary()

	for {
		prec := precedence(p.l.Type)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.l.Literal
		p.l.Next()
		right := p.expressionWithPrecedence(prec + 1) // left-associative
		left = NewOperator(op, left, right)
	}
}

func (p *Parser) unary() *Node {
	switch p.l.Type {
	case MINUS:
		p.l.Next()
		return NewOperator("-", p.unary())
	case BANG:
		p.l.Next()
		return NewOperator("!", p.unary())
	}
	return p.primary()
}

func (p *Parser) primary() *Node {
	switch p.l.Type {
	case INT:
		n := NewInt(p.l.Int)
		p.l.Next()
		return n

	case IDENT:
		name := NewIdent(p.l.Literal)
		p.l.Next()
		switch p.l.Type {
		case LPAREN:
			return p.callArguments(name)
		case LBRACKET:
			p.l.Next()
			index := p.expression()
			p.expect(RBRACKET)
			return NewNode(KindArrayIndex, name, index)
		}
		return name

	case LPAREN:
		p.l.Next()
		inner := p.expression()
		p.expect(RPAREN)
		return inner

	default:
		p.fail("unexpected token %q in expression", p.l.Literal)
		return nil
	}
}
