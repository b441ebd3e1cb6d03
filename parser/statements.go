package parser

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/lexer"
)

// parseVarDeclare parses 'let' | 'const' IDENT '=' expr ';'.
func (p *ParserState) parseVarDeclare() (ast.Node, error) {
	pos := p.cur().Position
	isConst := p.cur().Kind == lexer.CONST
	p.advance() // consume LET or CONST

	nameTok, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return ast.Node{}, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return ast.Node{}, err
	}
	rhs, err := p.parseExpression(0)
	if err != nil {
		return ast.Node{}, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return ast.Node{}, err
	}
	return ast.NewVarDeclare(nameTok.Literal, isConst, rhs, pos), nil
}

// parseFuncDeclare parses 'function' IDENT '(' (IDENT (',' IDENT)*)? ')' block.
func (p *ParserState) parseFuncDeclare() (ast.Node, error) {
	pos := p.cur().Position
	p.advance() // consume FUNCTION

	nameTok, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return ast.Node{}, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return ast.Node{}, err
	}
	var params []string
	if p.cur().Kind != lexer.RPAREN {
		for {
			pt, err := p.expect(lexer.IDENTIFIER)
			if err != nil {
				return ast.Node{}, err
			}
			params = append(params, pt.Literal)
			if p.cur().Kind != lexer.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return ast.Node{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.Node{}, err
	}
	return ast.NewFuncDeclare(nameTok.Literal, params, body, pos), nil
}

// parseModuleImport parses 'import' STRING ('as' IDENT)? ';'.
func (p *ParserState) parseModuleImport() (ast.Node, error) {
	pos := p.cur().Position
	p.advance() // consume IMPORT

	pathTok, err := p.expect(lexer.STRING_LITERAL)
	if err != nil {
		return ast.Node{}, err
	}
	alias := ""
	if p.cur().Kind == lexer.AS {
		p.advance()
		aliasTok, err := p.expect(lexer.IDENTIFIER)
		if err != nil {
			return ast.Node{}, err
		}
		alias = aliasTok.Literal
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return ast.Node{}, err
	}
	return ast.NewModuleImport(pathTok.Value.Str, alias, pos), nil
}

// parseBlock parses a statement* sequence terminated by '..', which is
// consumed.
func (p *ParserState) parseBlock() (ast.Node, error) {
	pos := p.cur().Position
	stmts, err := p.parseStmtsUntil(lexer.DOT_DOT)
	if err != nil {
		return ast.Node{}, err
	}
	if _, err := p.expect(lexer.DOT_DOT); err != nil {
		return ast.Node{}, err
	}
	return ast.NewBlock(stmts, pos), nil
}

// parseStmtsUntil parses statements until the current token's kind is one
// of stop (not consumed).
func (p *ParserState) parseStmtsUntil(stop ...lexer.Token) ([]ast.Node, error) {
	var stmts []ast.Node
	for !p.atEOF() && !p.atOneOf(stop...) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *ParserState) atOneOf(kinds ...lexer.Token) bool {
	cur := p.cur().Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// parseStatement dispatches on the leading token per spec §4.2.1's block
// grammar: while/if_block/return are keyword-led; anything else is an
// expression, optionally followed by an assignment operator and rhs.
func (p *ParserState) parseStatement() (ast.Node, error) {
	switch p.cur().Kind {
	case lexer.LET, lexer.CONST:
		return p.parseVarDeclare()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.IF:
		return p.parseIf()
	case lexer.RETURN:
		return p.parseReturn()
	default:
		return p.parseExprStatement()
	}
}

// parseWhile parses 'while' expr block.
func (p *ParserState) parseWhile() (ast.Node, error) {
	pos := p.cur().Position
	p.advance() // consume WHILE
	cond, err := p.parseExpression(0)
	if err != nil {
		return ast.Node{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.Node{}, err
	}
	return ast.NewWhile(cond, body, pos), nil
}

// parseReturn parses 'return' expr ';'.
func (p *ParserState) parseReturn() (ast.Node, error) {
	pos := p.cur().Position
	p.advance() // consume RETURN
	expr, err := p.parseExpression(0)
	if err != nil {
		return ast.Node{}, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return ast.Node{}, err
	}
	return ast.NewReturn(expr, pos), nil
}

// parseExprStatement parses a bare expression statement or an assignment:
// expr (assign_op expr)? ';'.
func (p *ParserState) parseExprStatement() (ast.Node, error) {
	pos := p.cur().Position
	lhs, err := p.parseExpression(0)
	if err != nil {
		return ast.Node{}, err
	}
	if p.cur().Kind.IsAssignOp() {
		opTok := p.advance()
		rhs, err := p.parseExpression(0)
		if err != nil {
			return ast.Node{}, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return ast.Node{}, err
		}
		return ast.NewAssignOp(opTok.Kind, lhs, rhs, pos), nil
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return ast.Node{}, err
	}
	return lhs, nil
}

// parseIf parses the full if/elseif*/else? chain, folding it right-to-left
// into nested IF nodes (spec §4.2.1): every elseif branch becomes the
// "else" child of the branch before it, and a single trailing '..' closes
// the whole construct rather than each branch individually.
func (p *ParserState) parseIf() (ast.Node, error) {
	type branch struct {
		cond ast.Node
		body ast.Node
	}

	if _, err := p.expect(lexer.IF); err != nil {
		return ast.Node{}, err
	}
	var branches []branch

	pos := p.cur().Position
	cond, err := p.parseExpression(0)
	if err != nil {
		return ast.Node{}, err
	}
	stmts, err := p.parseStmtsUntil(lexer.ELSEIF, lexer.ELSE, lexer.DOT_DOT)
	if err != nil {
		return ast.Node{}, err
	}
	branches = append(branches, branch{cond, ast.NewBlock(stmts, pos)})

	for p.cur().Kind == lexer.ELSEIF {
		epos := p.cur().Position
		p.advance()
		econd, err := p.parseExpression(0)
		if err != nil {
			return ast.Node{}, err
		}
		estmts, err := p.parseStmtsUntil(lexer.ELSEIF, lexer.ELSE, lexer.DOT_DOT)
		if err != nil {
			return ast.Node{}, err
		}
		branches = append(branches, branch{econd, ast.NewBlock(estmts, epos)})
	}

	var elseBlock *ast.Node
	if p.cur().Kind == lexer.ELSE {
		epos := p.cur().Position
		p.advance()
		estmts, err := p.parseStmtsUntil(lexer.DOT_DOT)
		if err != nil {
			return ast.Node{}, err
		}
		b := ast.NewBlock(estmts, epos)
		elseBlock = &b
	}

	if _, err := p.expect(lexer.DOT_DOT); err != nil {
		return ast.Node{}, err
	}

	last := branches[len(branches)-1]
	result := ast.NewIf(last.cond, last.body, elseBlock, last.cond.Metadata)
	for i := len(branches) - 2; i >= 0; i-- {
		result = ast.NewIf(branches[i].cond, branches[i].body, &result, branches[i].cond.Metadata)
	}
	return result, nil
}
