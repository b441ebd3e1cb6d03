// Package parser implements ember's recursive-descent statement parser and
// Pratt-style operator-precedence expression parser (spec §4.2), producing
// the generic ast.Node tree defined in package ast.
package parser

import (
	"fmt"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/lexer"
)

// ParseError reports an unexpected token or a missing terminator, with the
// (line, column) of the offending token.
type ParseError struct {
	Message  string
	Position lexer.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// ParserState holds the token slice and a monotone index into it, per
// spec §4.2.
type ParserState struct {
	toks []lexer.Info
	pos  int
}

// New builds a ParserState over a pre-lexed token slice. Callers that have
// only source text should use ParseSource.
func New(toks []lexer.Info) *ParserState {
	return &ParserState{toks: toks}
}

// ParseSource lexes src and parses the resulting tokens as a top-level
// program. It fails immediately on a lex error.
func ParseSource(src string) (ast.Node, error) {
	l := lexer.New(src)
	toks := l.TokenizeAll()
	if err := l.Err(); err != nil {
		return ast.Node{}, err
	}
	return New(toks).ParseTopLevel()
}

func (p *ParserState) cur() lexer.Info {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return lexer.Info{Kind: lexer.EOF}
}

func (p *ParserState) peek() lexer.Info {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return lexer.Info{Kind: lexer.EOF}
}

func (p *ParserState) advance() lexer.Info {
	tok := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

// expect consumes one token of the given kind or reports a ParseError
// annotated with the offending token's site.
func (p *ParserState) expect(kind lexer.Token) (lexer.Info, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return tok, &ParseError{
			Message:  fmt.Sprintf("expected %s, got %s", kind, tok.Kind),
			Position: tok.Position,
		}
	}
	return p.advance(), nil
}

func (p *ParserState) atEOF() bool {
	return p.cur().Kind == lexer.EOF
}

// ParseTopLevel parses the whole token stream as
// top_level ::= (var_declare | function_declare | module_import)*
func (p *ParserState) ParseTopLevel() (ast.Node, error) {
	var decls []ast.Node
	for !p.atEOF() {
		var decl ast.Node
		var err error
		switch p.cur().Kind {
		case lexer.LET, lexer.CONST:
			decl, err = p.parseVarDeclare()
		case lexer.FUNCTION:
			decl, err = p.parseFuncDeclare()
		case lexer.IMPORT:
			decl, err = p.parseModuleImport()
		default:
			return ast.Node{}, &ParseError{
				Message:  fmt.Sprintf("expected a declaration, got %s", p.cur().Kind),
				Position: p.cur().Position,
			}
		}
		if err != nil {
			return ast.Node{}, err
		}
		decls = append(decls, decl)
	}
	return ast.NewTopLevel(decls), nil
}
