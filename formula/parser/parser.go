// Package parser implements a Pratt parser for the formula grammar,
// mirroring the prefix/infix parse-function table the teacher's
// general-purpose language parser builds, scoped to arithmetic over
// numbers, cell references, and parentheses.
package parser

import (
	"fmt"

	"cellgrid/formula/ast"
	"cellgrid/formula/lexer"
	"cellgrid/formula/token"
	"cellgrid/position"

	"strconv"
)

type (
	prefixParseFn func() (ast.Node, error)
	infixParseFn  func(ast.Node) (ast.Node, error)
)

const (
	_ int = iota
	LOWEST
	SUM
	PRODUCT
	PREFIX
)

var precedences = map[token.Type]int{
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
}

// Parser turns a formula's token stream into an ast.Node.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []string

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New builds a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{}
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.CELL, p.parseCellRef)
	p.registerPrefix(token.MINUS, p.parseUnaryExpr)
	p.registerPrefix(token.PLUS, p.parseUnaryExpr)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)

	p.infixParseFns = map[token.Type]infixParseFn{}
	p.registerInfix(token.PLUS, p.parseBinaryExpr)
	p.registerInfix(token.MINUS, p.parseBinaryExpr)
	p.registerInfix(token.ASTERISK, p.parseBinaryExpr)
	p.registerInfix(token.SLASH, p.parseBinaryExpr)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixParseFns[t] = fn }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns accumulated parse error messages.
func (p *Parser) Errors() []string { return p.errors }

// ParseExpression parses the full formula and reports an error if
// trailing tokens remain or any parse error was recorded.
func ParseExpression(src string) (ast.Node, []string) {
	p := New(lexer.New(src))
	expr := p.parseExpression(LOWEST)
	if p.peekToken.Type != token.EOF {
		p.errors = append(p.errors, fmt.Sprintf("unexpected trailing token %q", p.peekToken.Literal))
	}
	if expr == nil {
		return nil, p.errors
	}
	return expr, p.errors
}

func (p *Parser) parseExpression(precedence int) ast.Node {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.errors = append(p.errors, fmt.Sprintf("unexpected token %q", p.curToken.Literal))
		return nil
	}
	left, err := prefix()
	if err != nil {
		p.errors = append(p.errors, err.Error())
		return nil
	}

	for p.peekToken.Type != token.EOF && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left, err = infix(left)
		if err != nil {
			p.errors = append(p.errors, err.Error())
			return nil
		}
	}

	return left
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parseNumberLiteral() (ast.Node, error) {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", p.curToken.Literal)
	}
	return &ast.NumberLiteral{Value: v}, nil
}

func (p *Parser) parseCellRef() (ast.Node, error) {
	pos, err := position.Parse(p.curToken.Literal)
	if err != nil {
		return nil, err
	}
	return &ast.CellRef{Pos: pos}, nil
}

func (p *Parser) parseUnaryExpr() (ast.Node, error) {
	op := ast.Operator(p.curToken.Literal[0])
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil, fmt.Errorf("expected expression after unary %q", string(op))
	}
	return &ast.UnaryExpr{Op: op, Operand: operand}, nil
}

func (p *Parser) parseBinaryExpr(left ast.Node) (ast.Node, error) {
	op := ast.Operator(p.curToken.Literal[0])
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil, fmt.Errorf("expected expression after operator %q", string(op))
	}
	return &ast.BinaryExpr{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseGroupedExpr() (ast.Node, error) {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil, fmt.Errorf("expected expression after '('")
	}
	if p.peekToken.Type != token.RPAREN {
		return nil, fmt.Errorf("expected ')', got %q", p.peekToken.Literal)
	}
	p.nextToken()
	return expr, nil
}
