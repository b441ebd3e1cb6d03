package jsondump

import (
	"testing"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/lexer"
)

func TestTokenRoundTrip(t *testing.T) {
	src := `function main() let x = 1 + 2.5 * "hi"; ..`
	toks := lexer.New(src).TokenizeAll()

	doc, err := DumpTokens(toks)
	if err != nil {
		t.Fatalf("DumpTokens: %v", err)
	}
	got, err := LoadTokens(doc)
	if err != nil {
		t.Fatalf("LoadTokens: %v", err)
	}
	if len(got) != len(toks) {
		t.Fatalf("round trip token count = %d, want %d", len(got), len(toks))
	}
	for i := range toks {
		if got[i].Kind != toks[i].Kind {
			t.Errorf("token[%d].Kind = %v, want %v", i, got[i].Kind, toks[i].Kind)
		}
		if got[i].Position != toks[i].Position {
			t.Errorf("token[%d].Position = %+v, want %+v", i, got[i].Position, toks[i].Position)
		}
		if got[i].Value != toks[i].Value {
			t.Errorf("token[%d].Value = %+v, want %+v", i, got[i].Value, toks[i].Value)
		}
	}
}

func TestASTRoundTrip(t *testing.T) {
	pos := lexer.Position{Line: 3, Column: 7}
	lhs := ast.NewIntLiteral(1, pos)
	rhs := ast.NewIntLiteral(2, pos)
	bin := ast.NewBinaryOp(lexer.PLUS, lhs, rhs, pos)
	decl := ast.NewVarDeclare("x", false, bin, pos)
	block := ast.NewBlock([]ast.Node{decl}, pos)

	doc, err := DumpAST(block)
	if err != nil {
		t.Fatalf("DumpAST: %v", err)
	}
	got, err := LoadAST(doc)
	if err != nil {
		t.Fatalf("LoadAST: %v", err)
	}
	if got.Kind != block.Kind {
		t.Fatalf("round trip Kind = %v, want %v", got.Kind, block.Kind)
	}
	if len(got.Children) != 1 || got.Children[0].Kind != ast.VAR_DECLARE {
		t.Fatalf("round trip children = %+v", got.Children)
	}
	gotBin := got.Children[0].Children[0]
	if gotBin.Kind != ast.BINARY_OP || gotBin.Data.Op != lexer.PLUS {
		t.Fatalf("round trip binary op = %+v", gotBin)
	}
	if gotBin.Children[0].Data.IntVal != 1 || gotBin.Children[1].Data.IntVal != 2 {
		t.Fatalf("round trip literal values = %+v", gotBin.Children)
	}
	if got.Children[0].Metadata != pos {
		t.Fatalf("round trip metadata = %+v, want %+v", got.Children[0].Metadata, pos)
	}
}

func TestDictLiteralRoundTrip(t *testing.T) {
	pos := lexer.Position{}
	keys := []ast.Node{ast.NewStringLiteral("a", pos)}
	values := []ast.Node{ast.NewIntLiteral(1, pos)}
	dict := ast.NewDictLiteral(keys, values, pos)

	doc, err := DumpAST(dict)
	if err != nil {
		t.Fatalf("DumpAST: %v", err)
	}
	got, err := LoadAST(doc)
	if err != nil {
		t.Fatalf("LoadAST: %v", err)
	}
	if len(got.Data.Keys) != 1 || got.Data.Keys[0].Data.StrVal != "a" {
		t.Fatalf("round trip dict keys = %+v", got.Data.Keys)
	}
	if len(got.Children) != 1 || got.Children[0].Data.IntVal != 1 {
		t.Fatalf("round trip dict values = %+v", got.Children)
	}
}
