// Package ast defines ember's abstract syntax tree: a single generic node
// type closed over a fixed set of kinds (spec §3.2, §3.4), rather than one
// Go type per production. Children carry positional meaning per kind;
// auxiliary fields (operator kind, literal value, identifier names, ...)
// live in Data.
package ast

import (
	"fmt"

	"github.com/emberlang/ember/lexer"
)

// Kind is the closed set of AST node kinds.
type Kind int

const (
	TOP_LEVEL Kind = iota
	BLOCK
	ASSIGN_OP
	VAR_DECLARE
	FUNC_DECLARE
	MODULE_IMPORT
	IF
	RETURN
	WHILE
	BINARY_OP
	UNARY_OP
	FUNC_CALL
	INDEX_ACCESS
	FIELD_ACCESS
	VAR_LOOKUP
	EXPR_LIST
	VEC_LITERAL
	DICT_LITERAL
	BOOL_LITERAL
	INT_LITERAL
	FLOAT_LITERAL
	STRING_LITERAL
	NOTHING_LITERAL
	BUILTIN_PRINT
	BUILTIN_VECTOR_LENGTH
	BUILTIN_VECTOR_APPEND
	BUILTIN_STRING_LENGTH
	BUILTIN_DICT_LENGTH
	BUILTIN_DICT_KEYS
	BUILTIN_DICT_CONTAINS
)

var kindNames = [...]string{
	TOP_LEVEL:             "TOP_LEVEL",
	BLOCK:                 "BLOCK",
	ASSIGN_OP:             "ASSIGN_OP",
	VAR_DECLARE:           "VAR_DECLARE",
	FUNC_DECLARE:          "FUNC_DECLARE",
	MODULE_IMPORT:         "MODULE_IMPORT",
	IF:                    "IF",
	RETURN:                "RETURN",
	WHILE:                 "WHILE",
	BINARY_OP:             "BINARY_OP",
	UNARY_OP:              "UNARY_OP",
	FUNC_CALL:             "FUNC_CALL",
	INDEX_ACCESS:          "INDEX_ACCESS",
	FIELD_ACCESS:          "FIELD_ACCESS",
	VAR_LOOKUP:            "VAR_LOOKUP",
	EXPR_LIST:             "EXPR_LIST",
	VEC_LITERAL:           "VEC_LITERAL",
	DICT_LITERAL:          "DICT_LITERAL",
	BOOL_LITERAL:          "BOOL_LITERAL",
	INT_LITERAL:           "INT_LITERAL",
	FLOAT_LITERAL:         "FLOAT_LITERAL",
	STRING_LITERAL:        "STRING_LITERAL",
	NOTHING_LITERAL:       "NOTHING_LITERAL",
	BUILTIN_PRINT:         "BUILTIN_PRINT",
	BUILTIN_VECTOR_LENGTH: "BUILTIN_VECTOR_LENGTH",
	BUILTIN_VECTOR_APPEND: "BUILTIN_VECTOR_APPEND",
	BUILTIN_STRING_LENGTH: "BUILTIN_STRING_LENGTH",
	BUILTIN_DICT_LENGTH:   "BUILTIN_DICT_LENGTH",
	BUILTIN_DICT_KEYS:     "BUILTIN_DICT_KEYS",
	BUILTIN_DICT_CONTAINS: "BUILTIN_DICT_CONTAINS",
}

// String renders the kind for diagnostics and JSON dumps.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Data is the free-form auxiliary-field bag carried by a node: identifier
// names, operator kinds, literal values, function parameter-name lists. Only
// the fields meaningful for Kind are populated; all others are zero.
type Data struct {
	Name     string        // VAR_DECLARE/FUNC_DECLARE/VAR_LOOKUP/FIELD_ACCESS/MODULE_IMPORT alias
	IsConst  bool          // VAR_DECLARE: let vs const
	Op       lexer.Token   // BINARY_OP/UNARY_OP/ASSIGN_OP: operator token kind
	Params   []string      // FUNC_DECLARE: parameter names, in order
	Path     string        // MODULE_IMPORT: the quoted import path
	IntVal   int64         // INT_LITERAL
	FloatVal float64       // FLOAT_LITERAL
	StrVal   string        // STRING_LITERAL
	BoolVal  bool          // BOOL_LITERAL
	Keys     []Node        // DICT_LITERAL: key expressions, parallel to Children (values)
}

// Node is a single AST node. Nodes are value-typed, but including a node in
// another node's Children/Keys slice copies only the Node struct: the
// included node's own Children, Params and Keys slices stay shared with the
// original (callers must not mutate a node after it has been attached
// elsewhere; Clone gives a fully independent copy).
type Node struct {
	Kind     Kind
	Children []Node
	Data     Data
	Metadata lexer.Position
}

// Clone returns a deep copy of n, including its nested Children, Params and
// Keys. The factory constructors below do not call it.
func (n Node) Clone() Node {
	out := n
	if n.Children != nil {
		out.Children = make([]Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	if n.Data.Params != nil {
		out.Data.Params = append([]string(nil), n.Data.Params...)
	}
	if n.Data.Keys != nil {
		out.Data.Keys = make([]Node, len(n.Data.Keys))
		for i, k := range n.Data.Keys {
			out.Data.Keys[i] = k.Clone()
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Factory constructors. These normalize the Pratt parser's postfix-operator
// special cases (spec §4.3): LPAREN folds to FUNC_CALL, LBRACKET to
// INDEX_ACCESS, DOT to FIELD_ACCESS; every other binary operator token stays
// a plain BINARY_OP carrying the operator in Data.Op.
// ---------------------------------------------------------------------------

func at(pos lexer.Position) lexer.Position { return pos }

// NewBinaryOp builds BINARY_OP, or the appropriate specialized node when op
// is one of the postfix triad.
func NewBinaryOp(op lexer.Token, lhs, rhs Node, pos lexer.Position) Node {
	switch op {
	case lexer.LPAREN:
		return NewFuncCall(lhs, rhs, pos)
	case lexer.LBRACKET:
		return NewIndexAccess(lhs, rhs, pos)
	case lexer.DOT:
		return NewFieldAccess(lhs, rhs, pos)
	default:
		return Node{
			Kind:     BINARY_OP,
			Children: []Node{lhs, rhs},
			Data:     Data{Op: op},
			Metadata: at(pos),
		}
	}
}

// NewUnaryOp builds a UNARY_OP node (only '-' and '!' are valid operators).
func NewUnaryOp(op lexer.Token, operand Node, pos lexer.Position) Node {
	return Node{
		Kind:     UNARY_OP,
		Children: []Node{operand},
		Data:     Data{Op: op},
		Metadata: at(pos),
	}
}

// NewFuncCall builds FUNC_CALL from a callee and an EXPR_LIST of arguments.
func NewFuncCall(callee, argList Node, pos lexer.Position) Node {
	return Node{Kind: FUNC_CALL, Children: []Node{callee, argList}, Metadata: at(pos)}
}

// NewIndexAccess builds INDEX_ACCESS from a receiver and an index expression.
func NewIndexAccess(recv, index Node, pos lexer.Position) Node {
	return Node{Kind: INDEX_ACCESS, Children: []Node{recv, index}, Metadata: at(pos)}
}

// NewFieldAccess builds FIELD_ACCESS. rhs must be a VAR_LOOKUP node; its
// Data.Name becomes the accessed field's name.
func NewFieldAccess(recv, fieldIdent Node, pos lexer.Position) Node {
	return Node{
		Kind:     FIELD_ACCESS,
		Children: []Node{recv},
		Data:     Data{Name: fieldIdent.Data.Name},
		Metadata: at(pos),
	}
}

// NewVarLookup builds VAR_LOOKUP for identifier name.
func NewVarLookup(name string, pos lexer.Position) Node {
	return Node{Kind: VAR_LOOKUP, Data: Data{Name: name}, Metadata: at(pos)}
}

// NewExprList builds EXPR_LIST from an ordered list of expressions.
func NewExprList(elems []Node, pos lexer.Position) Node {
	return Node{Kind: EXPR_LIST, Children: elems, Metadata: at(pos)}
}

// NewIntLiteral builds INT_LITERAL.
func NewIntLiteral(v int64, pos lexer.Position) Node {
	return Node{Kind: INT_LITERAL, Data: Data{IntVal: v}, Metadata: at(pos)}
}

// NewFloatLiteral builds FLOAT_LITERAL.
func NewFloatLiteral(v float64, pos lexer.Position) Node {
	return Node{Kind: FLOAT_LITERAL, Data: Data{FloatVal: v}, Metadata: at(pos)}
}

// NewStringLiteral builds STRING_LITERAL.
func NewStringLiteral(v string, pos lexer.Position) Node {
	return Node{Kind: STRING_LITERAL, Data: Data{StrVal: v}, Metadata: at(pos)}
}

// NewBoolLiteral builds BOOL_LITERAL.
func NewBoolLiteral(v bool, pos lexer.Position) Node {
	return Node{Kind: BOOL_LITERAL, Data: Data{BoolVal: v}, Metadata: at(pos)}
}

// NewNothingLiteral builds NOTHING_LITERAL.
func NewNothingLiteral(pos lexer.Position) Node {
	return Node{Kind: NOTHING_LITERAL, Metadata: at(pos)}
}

// NewVecLiteral builds VEC_LITERAL from element expressions.
func NewVecLiteral(elems []Node, pos lexer.Position) Node {
	return Node{Kind: VEC_LITERAL, Children: elems, Metadata: at(pos)}
}

// NewDictLiteral builds DICT_LITERAL. keys and values must be parallel.
func NewDictLiteral(keys, values []Node, pos lexer.Position) Node {
	return Node{Kind: DICT_LITERAL, Children: values, Data: Data{Keys: keys}, Metadata: at(pos)}
}

// NewVarDeclare builds VAR_DECLARE (let/const).
func NewVarDeclare(name string, isConst bool, rhs Node, pos lexer.Position) Node {
	return Node{
		Kind:     VAR_DECLARE,
		Children: []Node{rhs},
		Data:     Data{Name: name, IsConst: isConst},
		Metadata: at(pos),
	}
}

// NewFuncDeclare builds FUNC_DECLARE with a BLOCK body.
func NewFuncDeclare(name string, params []string, body Node, pos lexer.Position) Node {
	return Node{
		Kind:     FUNC_DECLARE,
		Children: []Node{body},
		Data:     Data{Name: name, Params: params},
		Metadata: at(pos),
	}
}

// NewModuleImport builds MODULE_IMPORT. alias is "" for an unnamed import.
func NewModuleImport(path, alias string, pos lexer.Position) Node {
	return Node{Kind: MODULE_IMPORT, Data: Data{Path: path, Name: alias}, Metadata: at(pos)}
}

// NewBlock builds BLOCK from an ordered list of statements.
func NewBlock(stmts []Node, pos lexer.Position) Node {
	return Node{Kind: BLOCK, Children: stmts, Metadata: at(pos)}
}

// NewIf builds IF. elseBranch is nil when there is no else clause; callers
// distinguish via len(Children) == 2 vs 3.
func NewIf(cond, then Node, elseBranch *Node, pos lexer.Position) Node {
	children := []Node{cond, then}
	if elseBranch != nil {
		children = append(children, *elseBranch)
	}
	return Node{Kind: IF, Children: children, Metadata: at(pos)}
}

// NewWhile builds WHILE.
func NewWhile(cond, body Node, pos lexer.Position) Node {
	return Node{Kind: WHILE, Children: []Node{cond, body}, Metadata: at(pos)}
}

// NewReturn builds RETURN.
func NewReturn(expr Node, pos lexer.Position) Node {
	return Node{Kind: RETURN, Children: []Node{expr}, Metadata: at(pos)}
}

// NewAssignOp builds ASSIGN_OP. op is one of =, +=, -=, *=, /=, %=.
func NewAssignOp(op lexer.Token, lhs, rhs Node, pos lexer.Position) Node {
	return Node{Kind: ASSIGN_OP, Children: []Node{lhs, rhs}, Data: Data{Op: op}, Metadata: at(pos)}
}

// NewTopLevel builds TOP_LEVEL from the program's top-level declarations.
func NewTopLevel(decls []Node) Node {
	return Node{Kind: TOP_LEVEL, Children: decls}
}
