package parser

import (
	"fmt"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/lexer"
)

// parseExpression implements spec §4.2.2's Pratt driver:
//
//	parse_expression(min_prec) = expr_helper(parse_primary(), min_prec)
func (p *ParserState) parseExpression(minPrec int) (ast.Node, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return ast.Node{}, err
	}
	return p.exprHelper(lhs, minPrec)
}

// exprHelper is spec §4.2.2's expr_helper(lhs, min_prec): it folds lhs with
// binary and postfix operators (LPAREN/LBRACKET/DOT are precedence-12
// postfix forms) for as long as the lookahead operator's precedence is at
// least min_prec, recursing on the right for any operator binding tighter
// than the one just consumed.
func (p *ParserState) exprHelper(lhs ast.Node, minPrec int) (ast.Node, error) {
	for p.isOperatorToken(p.cur().Kind) {
		opTok := p.cur()
		prec := opTok.Kind.Precedence()
		if prec < minPrec {
			break
		}
		p.advance()

		var rhs ast.Node
		var err error
		switch opTok.Kind {
		case lexer.LPAREN:
			rhs, err = p.parseExprList(lexer.RPAREN)
		case lexer.LBRACKET:
			rhs, err = p.parseExpression(0)
			if err == nil {
				_, err = p.expect(lexer.RBRACKET)
			}
		case lexer.DOT:
			identTok, e := p.expect(lexer.IDENTIFIER)
			err = e
			rhs = ast.NewVarLookup(identTok.Literal, identTok.Position)
		default:
			rhs, err = p.parsePrimary()
		}
		if err != nil {
			return ast.Node{}, err
		}

		for p.isOperatorToken(p.cur().Kind) && p.cur().Kind.Precedence() > prec {
			rhs, err = p.exprHelper(rhs, prec+1)
			if err != nil {
				return ast.Node{}, err
			}
		}

		lhs = ast.NewBinaryOp(opTok.Kind, lhs, rhs, opTok.Position)
	}
	return lhs, nil
}

// isOperatorToken reports whether kind can continue an expression as a
// binary or postfix operator: ordinary binary operators plus the three
// postfix forms (call, index, field access) that sit at precedence 12.
func (p *ParserState) isOperatorToken(kind lexer.Token) bool {
	return kind.IsBinaryOperator() || kind == lexer.LPAREN || kind == lexer.LBRACKET || kind == lexer.DOT
}

// parsePrimary parses a primary expression: a literal, identifier, unary
// operator application, parenthesized expression, or vector/dict literal.
func (p *ParserState) parsePrimary() (ast.Node, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.LPAREN:
		p.advance()
		inner, err := p.parseExpression(0)
		if err != nil {
			return ast.Node{}, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return ast.Node{}, err
		}
		return inner, nil

	case lexer.MINUS, lexer.NOT:
		p.advance()
		operand, err := p.parsePrimary()
		if err != nil {
			return ast.Node{}, err
		}
		// Unary operators bind tighter than every binary operator but looser
		// than postfix call/index/field access, so -x.f is -(x.f) while
		// -x + y is (-x) + y (spec §4.2.3).
		operand, err = p.exprHelper(operand, lexer.UnaryPrecedence)
		if err != nil {
			return ast.Node{}, err
		}
		return ast.NewUnaryOp(tok.Kind, operand, tok.Position), nil

	case lexer.LBRACKET:
		return p.parseVecLiteral()

	case lexer.LBRACE:
		return p.parseDictLiteral()

	case lexer.IDENTIFIER:
		p.advance()
		return ast.NewVarLookup(tok.Literal, tok.Position), nil

	case lexer.INT_LITERAL:
		p.advance()
		return ast.NewIntLiteral(tok.Value.Int, tok.Position), nil

	case lexer.FLOAT_LITERAL:
		p.advance()
		return ast.NewFloatLiteral(tok.Value.Float, tok.Position), nil

	case lexer.STRING_LITERAL:
		p.advance()
		return ast.NewStringLiteral(tok.Value.Str, tok.Position), nil

	case lexer.BOOL_LITERAL:
		p.advance()
		return ast.NewBoolLiteral(tok.Value.Bool, tok.Position), nil

	case lexer.NOTHING_LITERAL:
		p.advance()
		return ast.NewNothingLiteral(tok.Position), nil

	default:
		return ast.Node{}, &ParseError{
			Message:  fmt.Sprintf("unexpected token %s in expression", tok.Kind),
			Position: tok.Position,
		}
	}
}

// parseExprList parses a comma-separated expression list terminated by
// closing (which is consumed), building an EXPR_LIST node. Used for both
// call-argument lists and the contents of `[...]` once the opening bracket
// has already been consumed by the caller.
func (p *ParserState) parseExprList(closing lexer.Token) (ast.Node, error) {
	pos := p.cur().Position
	var elems []ast.Node
	if p.cur().Kind != closing {
		for {
			e, err := p.parseExpression(0)
			if err != nil {
				return ast.Node{}, err
			}
			elems = append(elems, e)
			if p.cur().Kind != lexer.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(closing); err != nil {
		return ast.Node{}, err
	}
	return ast.NewExprList(elems, pos), nil
}

// parseVecLiteral parses `[` (expr (',' expr)*)? `]`.
func (p *ParserState) parseVecLiteral() (ast.Node, error) {
	pos := p.cur().Position
	p.advance() // consume '['
	var elems []ast.Node
	if p.cur().Kind != lexer.RBRACKET {
		for {
			e, err := p.parseExpression(0)
			if err != nil {
				return ast.Node{}, err
			}
			elems = append(elems, e)
			if p.cur().Kind != lexer.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return ast.Node{}, err
	}
	return ast.NewVecLiteral(elems, pos), nil
}

// parseDictLiteral parses `{` (key ':' value (',' key ':' value)*)? `}`.
func (p *ParserState) parseDictLiteral() (ast.Node, error) {
	pos := p.cur().Position
	p.advance() // consume '{'
	var keys, values []ast.Node
	if p.cur().Kind != lexer.RBRACE {
		for {
			k, err := p.parseExpression(0)
			if err != nil {
				return ast.Node{}, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return ast.Node{}, err
			}
			v, err := p.parseExpression(0)
			if err != nil {
				return ast.Node{}, err
			}
			keys = append(keys, k)
			values = append(values, v)
			if p.cur().Kind != lexer.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return ast.Node{}, err
	}
	return ast.NewDictLiteral(keys, values, pos), nil
}
