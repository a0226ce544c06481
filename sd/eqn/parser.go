// Package eqn implements the closed equation grammar for stock-and-flow
// models: numeric literals, identifier references, the reserved time symbol,
// the four arithmetic operators, parentheses, and a fixed whitelist of pure
// numeric functions.
//
// Equations are compiled to an expression tree and evaluated by walking it,
// never by any general-purpose code execution facility, so a malformed or
// hostile equation can only ever produce a typed error or a number.
package eqn

import (
	"fmt"
	"strconv"
)

func parseFloat(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}

const maxDepth = 64 // nesting guard; hostile input must not overflow the stack

type parser struct {
	lex   *lexer
	tok   Token
	src   string
	expr  *Expr
	depth int
}

// Parse compiles an equation string into an unbound Expr. A grammar violation
// yields *SyntaxError naming the offending token.
func Parse(src string) (*Expr, error) {
	p := &parser{lex: &lexer{src: src}, src: src, expr: &Expr{Source: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenEOF {
		return nil, p.errorf("expected operator or end of equation, got %s", p.tok.Kind)
	}
	p.expr.root = root
	return p.expr, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{
		Equation: p.src,
		Pos:      p.tok.Pos,
		Token:    p.tok.Text,
		Msg:      fmt.Sprintf(format, args...),
	}
}

// parseExpr handles the lowest precedence level: addition and subtraction.
func (p *parser) parseExpr() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokenPlus || p.tok.Kind == TokenMinus {
		op := byte('+')
		if p.tok.Kind == TokenMinus {
			op = '-'
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

// parseTerm handles multiplication and division.
func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokenStar || p.tok.Kind == TokenSlash {
		op := byte('*')
		if p.tok.Kind == TokenSlash {
			op = '/'
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.tok.Kind {
	case TokenMinus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negNode{operand: operand}, nil
	case TokenPlus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	switch p.tok.Kind {
	case TokenNumber:
		v, err := parseFloat(p.tok.Text)
		if err != nil {
			return nil, p.errorf("malformed number")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &numberNode{value: v}, nil

	case TokenIdent:
		name := p.tok.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Kind == TokenLParen {
			return p.parseCall(name)
		}
		v := &varNode{name: name, slot: -1}
		p.expr.vars = append(p.expr.vars, v)
		p.recordName(name)
		return v, nil

	case TokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.Kind != TokenRParen {
			return nil, p.errorf("expected ')', got %s", p.tok.Kind)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, p.errorf("expected number, identifier, or '(', got %s", p.tok.Kind)
}

func (p *parser) parseCall(name string) (node, error) {
	fn, ok := LookupFunction(name)
	if !ok {
		return nil, p.errorf("unknown function %q", name)
	}
	// consume '('
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []node
	if p.tok.Kind != TokenRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.Kind != TokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if p.tok.Kind != TokenRParen {
		return nil, p.errorf("expected ')' closing call to %q, got %s", name, p.tok.Kind)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if fn.Arity == -1 {
		if len(args) < 2 {
			return nil, p.errorf("%s requires at least 2 arguments, got %d", fn.Name, len(args))
		}
	} else if len(args) != fn.Arity {
		return nil, p.errorf("%s requires %d argument(s), got %d", fn.Name, fn.Arity, len(args))
	}
	return &callNode{fn: fn, args: args}, nil
}

func (p *parser) recordName(name string) {
	for _, n := range p.expr.names {
		if n == name {
			return
		}
	}
	p.expr.names = append(p.expr.names, name)
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return p.errorf("expression nesting exceeds %d levels", maxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }
