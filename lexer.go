package main

// TokenType is the type of token (identifier, operator, literal, etc.).
type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	IDENT  = "IDENT" // main, foo, _bar
	INT    = "INT"   // 12345
	STRING = "STRING"

	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"

	LT     = "<"
	GT     = ">"
	EQ     = "=="
	NOT_EQ = "!="
	LE     = "<="
	GE     = ">="

	COMMA     = ","
	SEMICOLON = ";"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"

	VAR    = "VAR"
	FUNC   = "FUNC"
	IF     = "IF"
	ELSE   = "ELSE"
	WHILE  = "WHILE"
	BREAK  = "BREAK"
	RETURN = "RETURN"
	PRINT  = "PRINT"
)

var keywords = map[string]TokenType{
	"var":    VAR,
	"func":   FUNC,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"break":  BREAK,
	"return": RETURN,
	"print":  PRINT,
}

// Lexer scans a NUL-terminated byte slice. The current token lives in the
// exported fields; call Next repeatedly until Type == EOF.
type Lexer struct {
	input []byte
	pos   int

	Type    TokenType
	Literal string
	Int     int64 // only meaningful when Type == INT
}

// NewLexer creates a lexer over input, appending the NUL sentinel the scanner
// relies on if it is missing.
func NewLexer(input []byte) *Lexer {
	if len(input) == 0 || input[len(input)-1] != 0 {
		input = append(input, 0)
	}
	return &Lexer{input: input}
}

// Next scans the next token into the lexer's exported fields.
func (l *Lexer) Next() {
	l.skipWhitespace()

	c := l.input[l.pos]
	l.Int = 0

	if c == '=' {
		if l.input[l.pos+1] == '=' {
			l.Type = EQ
			l.Literal = "=="
			l.pos += 2
		} else {
			l.Type = ASSIGN
			l.Literal = string(c)
			l.pos++
		}

	} else if c == '!' {
		if l.input[l.pos+1] == '=' {
			l.Type = NOT_EQ
			l.Literal = "!="
			l.pos += 2
		} else {
			l.Type = BANG
			l.Literal = string(c)
			l.pos++
		}

	} else if c == '<' {
		if l.input[l.pos+1] == '=' {
			l.Type = LE
			l.Literal = "<="
			l.pos += 2
		} else {
			l.Type = LT
			l.Literal = string(c)
			l.pos++
		}

	} else if c == '>' {
		if l.input[l.pos+1] == '=' {
			l.Type = GE
			l.Literal = ">="
			l.pos += 2
		} else {
			l.Type = GT
			l.Literal = string(c)
			l.pos++
		}

	} else if c == '/' {
		if l.input[l.pos+1] == '/' {
			l.skipLineComment()
			l.Next()
			return
		}
		l.Type = SLASH
		l.Literal = string(c)
		l.pos++

	} else if c == '+' {
		l.Type = PLUS
		l.Literal = string(c)
		l.pos++

	} else if c == '-' {
		l.Type = MINUS
		l.Literal = string(c)
		l.pos++

	} else if c == '*' {
		l.Type = ASTERISK
		l.Literal = string(c)
		l.pos++

	} else if c == ',' {
		l.Type = COMMA
		l.Literal = string(c)
		l.pos++

	} else if c == ';' {
		l.Type = SEMICOLON
		l.Literal = string(c)
		l.pos++

	} else if c == '(' {
		l.Type = LPAREN
		l.Literal = string(c)
		l.pos++

	} else if c == ')' {
		l.Type = RPAREN
		l.Literal = string(c)
		l.pos++

	} else if c == '{' {
		l.Type = LBRACE
		l.Literal = string(c)
		l.pos++

	} else if c == '}' {
		l.Type = RBRACE
		l.Literal = string(c)
		l.pos++

	} else if c == '[' {
		l.Type = LBRACKET
		l.Literal = string(c)
		l.pos++

	} else if c == ']' {
		l.Type = RBRACKET
		l.Literal = string(c)
		l.pos++

	} else if c == '"' {
		l.Type = STRING
		l.Literal = l.readString()

	} else if c == 0 {
		l.Type = EOF
		l.Literal = ""

	} else if isLetter(c) {
		lit := l.readIdentifier()
		if kw, ok := keywords[lit]; ok {
			l.Type = kw
		} else {
			l.Type = IDENT
		}
		l.Literal = lit

	} else if isDigit(c) {
		l.Literal, l.Int = l.readNumber()
		l.Type = INT

	} else {
		l.Type = ILLEGAL
		l.Literal = string(c)
		l.pos++
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		c := l.input[l.pos]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		l.pos++
	}
}

func (l *Lexer) skipLineComment() {
	for l.input[l.pos] != '\n' && l.input[l.pos] != 0 {
		l.pos++
	}
	if l.input[l.pos] == '\n' {
		l.pos++
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.input[l.pos]) || isDigit(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber() (string, int64) {
	start := l.pos
	var val int64
	for isDigit(l.input[l.pos]) {
		val = val*10 + int64(l.input[l.pos]-'0')
		l.pos++
	}
	return string(l.input[start:l.pos]), val
}

func (l *Lexer) readString() string {
	l.pos++ // skip opening "
	start := l.pos
	for l.input[l.pos] != '"' && l.input[l.pos] != 0 {
		l.pos++
	}
	lit := string(l.input[start:l.pos])
	if l.input[l.pos] == '"' {
		l.pos++
	}
	return lit
}
