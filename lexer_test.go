package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func scanAll(src string) []TokenType {
	l := NewLexer([]byte(src))
	var types []TokenType
	for {
		l.Next()
		types = append(types, l.Type)
		if l.Type == EOF {
			return types
		}
	}
}

func TestLexerTokenSequence(t *testing.T) {
	got := scanAll(`func f(a) { return a <= 10; }`)
	want := []TokenType{
		FUNC, IDENT, LPAREN, IDENT, RPAREN, LBRACE,
		RETURN, IDENT, LE, INT, SEMICOLON, RBRACE, EOF,
	}
	be.Equal(t, got, want)
}

func TestLexerOperators(t *testing.T) {
	got := scanAll(`= == != < <= > >= + - * / !`)
	want := []TokenType{
		ASSIGN, EQ, NOT_EQ, LT, LE, GT, GE,
		PLUS, MINUS, ASTERISK, SLASH, BANG, EOF,
	}
	be.Equal(t, got, want)
}

func TestLexerIntValue(t *testing.T) {
	l := NewLexer([]byte("42"))
	l.Next()
	be.Equal(t, l.Type, INT)
	be.Equal(t, l.Literal, "42")
	be.Equal(t, l.Int, int64(42))
}

func TestLexerString(t *testing.T) {
	l := NewLexer([]byte(`"hi there"`))
	l.Next()
	be.Equal(t, l.Type, STRING)
	be.Equal(t, l.Literal, "hi there")
}

func TestLexerKeywords(t *testing.T) {
	got := scanAll("var func if else while break return print")
	want := []TokenType{VAR, FUNC, IF, ELSE, WHILE, BREAK, RETURN, PRINT, EOF}
	be.Equal(t, got, want)
}

func TestLexerIdentifiersWithDigits(t *testing.T) {
	l := NewLexer([]byte("_x9"))
	l.Next()
	be.Equal(t, l.Type, IDENT)
	be.Equal(t, l.Literal, "_x9")
}

func TestLexerSkipsLineComments(t *testing.T) {
	got := scanAll("1 // comment\n2")
	be.Equal(t, got, []TokenType{INT, INT, EOF})
}

func TestLexerIllegal(t *testing.T) {
	l := NewLexer([]byte("@"))
	l.Next()
	be.Equal(t, l.Type, ILLEGAL)
}
