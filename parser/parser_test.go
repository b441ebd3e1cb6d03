package parser

import (
	"testing"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/lexer"
)

func parseExpr(t *testing.T, src string) ast.Node {
	t.Helper()
	toks := lexer.New(src).TokenizeAll()
	p := New(toks)
	n, err := p.parseExpression(0)
	if err != nil {
		t.Fatalf("parseExpression(%q): %v", src, err)
	}
	return n
}

func TestPrecedenceMultiplicationBindsTighterThanAddition(t *testing.T) {
	// a + b*c => PLUS(a, STAR(b, c))
	n := parseExpr(t, "a + b*c")
	if n.Kind != ast.BINARY_OP || n.Data.Op != lexer.PLUS {
		t.Fatalf("top node = %+v, want PLUS", n)
	}
	if n.Children[0].Data.Name != "a" {
		t.Fatalf("lhs = %+v, want VAR_LOOKUP a", n.Children[0])
	}
	rhs := n.Children[1]
	if rhs.Kind != ast.BINARY_OP || rhs.Data.Op != lexer.STAR {
		t.Fatalf("rhs = %+v, want STAR(b, c)", rhs)
	}
}

func TestPrecedenceComparisonAndEqualityBindTighterThanAnd(t *testing.T) {
	// a == b & c < d => AND(EQ(a, b), LT(c, d))
	n := parseExpr(t, "a == b & c < d")
	if n.Kind != ast.BINARY_OP || n.Data.Op != lexer.AND {
		t.Fatalf("top node = %+v, want AND", n)
	}
	eq := n.Children[0]
	if eq.Kind != ast.BINARY_OP || eq.Data.Op != lexer.EQ {
		t.Fatalf("lhs = %+v, want EQ(a, b)", eq)
	}
	lt := n.Children[1]
	if lt.Kind != ast.BINARY_OP || lt.Data.Op != lexer.LT {
		t.Fatalf("rhs = %+v, want LT(c, d)", lt)
	}
}

func TestUnaryMinusBindsTighterThanMultiplication(t *testing.T) {
	// -a*b => STAR(UNARY_OP(-, a), b)
	n := parseExpr(t, "-a*b")
	if n.Kind != ast.BINARY_OP || n.Data.Op != lexer.STAR {
		t.Fatalf("top node = %+v, want STAR", n)
	}
	lhs := n.Children[0]
	if lhs.Kind != ast.UNARY_OP || lhs.Data.Op != lexer.MINUS {
		t.Fatalf("lhs = %+v, want UNARY_OP(-)", lhs)
	}
	if lhs.Children[0].Data.Name != "a" {
		t.Fatalf("unary operand = %+v, want a", lhs.Children[0])
	}
}

func TestUnaryMinusSwallowsFieldAccess(t *testing.T) {
	// -x.f => UNARY_OP(-, FIELD_ACCESS(x, f))
	n := parseExpr(t, "-x.f")
	if n.Kind != ast.UNARY_OP || n.Data.Op != lexer.MINUS {
		t.Fatalf("top node = %+v, want UNARY_OP(-)", n)
	}
	operand := n.Children[0]
	if operand.Kind != ast.FIELD_ACCESS || operand.Data.Name != "f" {
		t.Fatalf("operand = %+v, want FIELD_ACCESS(x, f)", operand)
	}
}

func TestBinaryOperatorsLeftAssociative(t *testing.T) {
	// a - b - c => MINUS(MINUS(a, b), c)
	n := parseExpr(t, "a - b - c")
	if n.Kind != ast.BINARY_OP || n.Data.Op != lexer.MINUS {
		t.Fatalf("top node = %+v, want MINUS", n)
	}
	inner := n.Children[0]
	if inner.Kind != ast.BINARY_OP || inner.Data.Op != lexer.MINUS {
		t.Fatalf("lhs = %+v, want MINUS(a, b)", inner)
	}
	if n.Children[1].Data.Name != "c" {
		t.Fatalf("top rhs = %+v, want c", n.Children[1])
	}
}

func TestPostfixChainCallIndexField(t *testing.T) {
	// a.b()[0] => INDEX_ACCESS(FUNC_CALL(FIELD_ACCESS(a, b), []), 0)
	n := parseExpr(t, "a.b()[0]")
	if n.Kind != ast.INDEX_ACCESS {
		t.Fatalf("top node = %+v, want INDEX_ACCESS", n)
	}
	call := n.Children[0]
	if call.Kind != ast.FUNC_CALL {
		t.Fatalf("recv = %+v, want FUNC_CALL", call)
	}
	field := call.Children[0]
	if field.Kind != ast.FIELD_ACCESS || field.Data.Name != "b" {
		t.Fatalf("callee = %+v, want FIELD_ACCESS(a, b)", field)
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	// (a + b) * c => STAR(PLUS(a, b), c)
	n := parseExpr(t, "(a + b) * c")
	if n.Kind != ast.BINARY_OP || n.Data.Op != lexer.STAR {
		t.Fatalf("top node = %+v, want STAR", n)
	}
	lhs := n.Children[0]
	if lhs.Kind != ast.BINARY_OP || lhs.Data.Op != lexer.PLUS {
		t.Fatalf("lhs = %+v, want PLUS(a, b)", lhs)
	}
}

func TestVecAndDictLiterals(t *testing.T) {
	v := parseExpr(t, "[1, 2, 3]")
	if v.Kind != ast.VEC_LITERAL || len(v.Children) != 3 {
		t.Fatalf("vec literal = %+v", v)
	}
	d := parseExpr(t, `{"a": 1, 2: "b"}`)
	if d.Kind != ast.DICT_LITERAL || len(d.Data.Keys) != 2 || len(d.Children) != 2 {
		t.Fatalf("dict literal = %+v", d)
	}
	if d.Data.Keys[0].Data.StrVal != "a" || d.Children[0].Data.IntVal != 1 {
		t.Fatalf("dict first entry = %+v / %+v", d.Data.Keys[0], d.Children[0])
	}
}

func parseTop(t *testing.T, src string) ast.Node {
	t.Helper()
	n, err := ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource(%q): %v", src, err)
	}
	return n
}

func TestParseTopLevelFunctionDeclare(t *testing.T) {
	n := parseTop(t, `
function add(a, b)
	return a + b;
..
`)
	if n.Kind != ast.TOP_LEVEL || len(n.Children) != 1 {
		t.Fatalf("top level = %+v", n)
	}
	fn := n.Children[0]
	if fn.Kind != ast.FUNC_DECLARE || fn.Data.Name != "add" {
		t.Fatalf("decl = %+v", fn)
	}
	if len(fn.Data.Params) != 2 || fn.Data.Params[0] != "a" || fn.Data.Params[1] != "b" {
		t.Fatalf("params = %+v", fn.Data.Params)
	}
	body := fn.Children[0]
	if body.Kind != ast.BLOCK || len(body.Children) != 1 || body.Children[0].Kind != ast.RETURN {
		t.Fatalf("body = %+v", body)
	}
}

func TestParseIfElseifElseFoldsRightToLeft(t *testing.T) {
	n := parseTop(t, `
function classify(x)
	if x < 0
		return 0;
	elseif x == 0
		return 1;
	else
		return 2;
	..
..
`)
	fn := n.Children[0]
	body := fn.Children[0]
	ifNode := body.Children[0]
	if ifNode.Kind != ast.IF || len(ifNode.Children) != 3 {
		t.Fatalf("outer if = %+v", ifNode)
	}
	elseBranch := ifNode.Children[2]
	if elseBranch.Kind != ast.IF || len(elseBranch.Children) != 3 {
		t.Fatalf("elseif branch should fold into nested IF with else, got %+v", elseBranch)
	}
	innerElse := elseBranch.Children[2]
	if innerElse.Kind != ast.BLOCK {
		t.Fatalf("innermost else should be a BLOCK, got %+v", innerElse)
	}
}

func TestParseWhileWithCompoundAssignment(t *testing.T) {
	n := parseTop(t, `
function count()
	let i = 0;
	while i < 10
		i += 1;
	..
..
`)
	body := n.Children[0].Children[0]
	w := body.Children[1]
	if w.Kind != ast.WHILE {
		t.Fatalf("stmt = %+v, want WHILE", w)
	}
	assign := w.Children[1].Children[0]
	if assign.Kind != ast.ASSIGN_OP || assign.Data.Op != lexer.PLUS_EQ {
		t.Fatalf("body stmt = %+v, want ASSIGN_OP(+=)", assign)
	}
}

func TestParseModuleImportWithAlias(t *testing.T) {
	n := parseTop(t, `import "util.ember" as u;`)
	imp := n.Children[0]
	if imp.Kind != ast.MODULE_IMPORT || imp.Data.Path != "util.ember" || imp.Data.Name != "u" {
		t.Fatalf("import = %+v", imp)
	}
}

func TestParseBareExpressionStatement(t *testing.T) {
	n := parseTop(t, `
function main()
	print(x);
..
`)
	stmt := n.Children[0].Children[0].Children[0]
	if stmt.Kind != ast.FUNC_CALL {
		t.Fatalf("stmt = %+v, want FUNC_CALL", stmt)
	}
}

func TestUnexpectedTokenIsParseError(t *testing.T) {
	_, err := ParseSource(`function main() let = 1; ..`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
}
