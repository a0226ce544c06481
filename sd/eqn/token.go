package eqn

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenKind enumerates the lexical token classes of the equation grammar.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenIdent
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenLParen
	TokenRParen
	TokenComma
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of equation"
	case TokenNumber:
		return "number"
	case TokenIdent:
		return "identifier"
	case TokenPlus:
		return "'+'"
	case TokenMinus:
		return "'-'"
	case TokenStar:
		return "'*'"
	case TokenSlash:
		return "'/'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	}
	return "unknown token"
}

// Token is a single lexical unit with its byte offset in the source equation.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// lexer produces tokens from an equation string. It recognizes numeric
// literals (with optional fraction and exponent), identifiers, arithmetic
// operators, parentheses, and commas. Anything else is a syntax error.
type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (Token, error) {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\n' || l.src[l.pos] == '\r') {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch c {
	case '+':
		l.pos++
		return Token{Kind: TokenPlus, Text: "+", Pos: start}, nil
	case '-':
		l.pos++
		return Token{Kind: TokenMinus, Text: "-", Pos: start}, nil
	case '*':
		l.pos++
		return Token{Kind: TokenStar, Text: "*", Pos: start}, nil
	case '/':
		l.pos++
		return Token{Kind: TokenSlash, Text: "/", Pos: start}, nil
	case '(':
		l.pos++
		return Token{Kind: TokenLParen, Text: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Kind: TokenRParen, Text: ")", Pos: start}, nil
	case ',':
		l.pos++
		return Token{Kind: TokenComma, Text: ",", Pos: start}, nil
	}

	if isDigit(c) || c == '.' {
		return l.lexNumber(start)
	}
	if isIdentStart(rune(c)) {
		for l.pos < len(l.src) && isIdentPart(rune(l.src[l.pos])) {
			l.pos++
		}
		return Token{Kind: TokenIdent, Text: l.src[start:l.pos], Pos: start}, nil
	}

	return Token{}, &SyntaxError{
		Equation: l.src,
		Pos:      start,
		Token:    string(c),
		Msg:      fmt.Sprintf("unexpected character %q", c),
	}
}

func (l *lexer) lexNumber(start int) (Token, error) {
	sawDigit := false
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
		sawDigit = true
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
			sawDigit = true
		}
	}
	if !sawDigit {
		return Token{}, &SyntaxError{
			Equation: l.src,
			Pos:      start,
			Token:    l.src[start:l.pos],
			Msg:      "malformed number",
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		expDigits := false
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
			expDigits = true
		}
		if !expDigits {
			// "2e" followed by an identifier is not an exponent; back off.
			l.pos = mark
		}
	}
	return Token{Kind: TokenNumber, Text: l.src[start:l.pos], Pos: start}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Identifiers returns every identifier referenced by the equation in order of
// first appearance, excluding whitelisted function names used as calls. The
// scan is purely lexical: it succeeds even when the equation would not parse,
// which lets the structural validator report unknown names before compilation.
func Identifiers(src string) []string {
	l := &lexer{src: src}
	var out []string
	seen := map[string]bool{}
	var prev Token
	var pending string
	flush := func() {
		if pending != "" && !seen[pending] {
			seen[pending] = true
			out = append(out, pending)
		}
		pending = ""
	}
	for {
		tok, err := l.next()
		if err != nil {
			// Skip the offending byte and keep scanning.
			l.pos++
			continue
		}
		if prev.Kind == TokenIdent {
			if tok.Kind == TokenLParen && isBuiltinName(prev.Text) {
				pending = "" // function call, not a variable reference
			} else {
				flush()
			}
		}
		if tok.Kind == TokenIdent {
			pending = tok.Text
		}
		if tok.Kind == TokenEOF {
			flush()
			return out
		}
		prev = tok
	}
}

func isBuiltinName(name string) bool {
	_, ok := builtins[strings.ToLower(name)]
	return ok
}
