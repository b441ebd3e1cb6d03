package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/lexer"
)

// runtimeOpFunc maps a binary operator token to the runtime ABI function
// that implements it (spec §4.7 rule 4, §4.8).
func runtimeOpFunc(op lexer.Token) string {
	switch op {
	case lexer.PLUS:
		return "op_add"
	case lexer.MINUS:
		return "op_sub"
	case lexer.STAR:
		return "op_mul"
	case lexer.SLASH:
		return "op_div"
	case lexer.PERCENT:
		return "op_mod"
	case lexer.EQ:
		return "op_eq"
	case lexer.NE:
		return "op_neq"
	case lexer.LT:
		return "op_lt"
	case lexer.LE:
		return "op_leq"
	case lexer.GT:
		return "op_gt"
	case lexer.GE:
		return "op_geq"
	case lexer.AND:
		return "op_and"
	case lexer.OR:
		return "op_or"
	default:
		return ""
	}
}

// expr lowers one expression node to a C result expression, emitting any
// intermediate "RuntimeObject* _intmdtK = ...;" temporaries it needs into
// e.out first (spec §4.7 rule 4).
func (e *emitter) expr(node ast.Node) (string, error) {
	switch node.Kind {
	case ast.INT_LITERAL:
		return fmt.Sprintf("make_int(%d)", node.Data.IntVal), nil
	case ast.FLOAT_LITERAL:
		return fmt.Sprintf("make_float(%s)", strconv.FormatFloat(node.Data.FloatVal, 'g', -1, 64)), nil
	case ast.STRING_LITERAL:
		return fmt.Sprintf("make_string(%s)", cStringLiteral(node.Data.StrVal)), nil
	case ast.BOOL_LITERAL:
		return fmt.Sprintf("make_bool(%t)", node.Data.BoolVal), nil
	case ast.NOTHING_LITERAL:
		return "make_nothing()", nil

	case ast.VAR_LOOKUP:
		sym, ok := e.st.Resolve(node.Data.Name)
		if !ok {
			return "", fmt.Errorf("codegen: unresolved identifier %q", node.Data.Name)
		}
		return sym.CName, nil

	case ast.BINARY_OP:
		return e.binaryOp(node)
	case ast.UNARY_OP:
		return e.unaryOp(node)
	case ast.FUNC_CALL:
		return e.funcCall(node)
	case ast.INDEX_ACCESS:
		return e.indexAccess(node)
	case ast.FIELD_ACCESS:
		return e.fieldAccess(node)
	case ast.VEC_LITERAL:
		return e.vecLiteral(node)
	case ast.DICT_LITERAL:
		return e.dictLiteral(node)

	default:
		return "", fmt.Errorf("codegen: unsupported expression kind %s", node.Kind)
	}
}

func (e *emitter) binaryOp(node ast.Node) (string, error) {
	lhs, err := e.expr(node.Children[0])
	if err != nil {
		return "", err
	}
	rhs, err := e.expr(node.Children[1])
	if err != nil {
		return "", err
	}
	fn := runtimeOpFunc(node.Data.Op)
	if fn == "" {
		return "", fmt.Errorf("codegen: unsupported binary operator %s", node.Data.Op)
	}
	temp := e.c.freshTemp()
	e.line("RuntimeObject* %s = %s(%s, %s);", temp, fn, lhs, rhs)
	return temp, nil
}

func (e *emitter) unaryOp(node ast.Node) (string, error) {
	operand, err := e.expr(node.Children[0])
	if err != nil {
		return "", err
	}
	var fn string
	switch node.Data.Op {
	case lexer.MINUS:
		fn = "op_umin"
	case lexer.NOT:
		fn = "op_unot"
	default:
		return "", fmt.Errorf("codegen: unsupported unary operator %s", node.Data.Op)
	}
	temp := e.c.freshTemp()
	e.line("RuntimeObject* %s = %s(%s);", temp, fn, operand)
	return temp, nil
}

// funcCall implements spec §4.7 rule 7: a direct call to an identifier bound
// to FUNC/BUILTIN lowers to a named C call; everything else (including a
// field-access result) packs an argv array and calls dynamic_function_call,
// with the receiver prepended as an implicit first argument for
// obj.method(args...) call sites.
func (e *emitter) funcCall(node ast.Node) (string, error) {
	callee := node.Children[0]
	argNodes := node.Children[1].Children

	if callee.Kind == ast.VAR_LOOKUP {
		if sym, ok := e.st.Resolve(callee.Data.Name); ok && (sym.Kind == FuncSymbol || sym.Kind == BuiltinSymbol) {
			args := make([]string, len(argNodes))
			for i, a := range argNodes {
				v, err := e.expr(a)
				if err != nil {
					return "", err
				}
				args[i] = v
			}
			temp := e.c.freshTemp()
			e.line("RuntimeObject* %s = %s(%s);", temp, sym.CName, strings.Join(args, ", "))
			return temp, nil
		}
	}

	var receiver, fn string
	implicitThis := false
	if callee.Kind == ast.FIELD_ACCESS {
		var err error
		receiver, err = e.expr(callee.Children[0])
		if err != nil {
			return "", err
		}
		implicitThis = true
		temp := e.c.freshTemp()
		e.line("RuntimeObject* %s = field_access(%s, %s);", temp, receiver, cStringLiteral(callee.Data.Name))
		fn = temp
	} else {
		var err error
		fn, err = e.expr(callee)
		if err != nil {
			return "", err
		}
	}

	values := make([]string, 0, len(argNodes)+1)
	if implicitThis {
		values = append(values, receiver)
	}
	for _, a := range argNodes {
		v, err := e.expr(a)
		if err != nil {
			return "", err
		}
		values = append(values, v)
	}

	argv := e.c.freshTemp()
	e.line("RuntimeObject* %s[] = {%s};", argv, strings.Join(values, ", "))
	temp := e.c.freshTemp()
	e.line("RuntimeObject* %s = dynamic_function_call(%s, %d, %s);", temp, fn, len(values), argv)
	return temp, nil
}

// indexAccess lowers v[i]/d[k] reads through get_index, which returns a
// pointer into the container (spec §4.8); a read dereferences it. Passing
// for_write=false means a missing dict key raises a runtime error instead
// of inserting one, matching interp's RVALUE index semantics.
func (e *emitter) indexAccess(node ast.Node) (string, error) {
	recv, err := e.expr(node.Children[0])
	if err != nil {
		return "", err
	}
	idx, err := e.expr(node.Children[1])
	if err != nil {
		return "", err
	}
	temp := e.c.freshTemp()
	e.line("RuntimeObject* %s = *get_index(%s, %s, false);", temp, recv, idx)
	return temp, nil
}

// fieldAccess lowers obj.name (outside of a call) through the runtime's
// field_access helper, which resolves a builtin method or module member and
// returns it as a function value.
func (e *emitter) fieldAccess(node ast.Node) (string, error) {
	recv, err := e.expr(node.Children[0])
	if err != nil {
		return "", err
	}
	temp := e.c.freshTemp()
	e.line("RuntimeObject* %s = field_access(%s, %s);", temp, recv, cStringLiteral(node.Data.Name))
	return temp, nil
}

// vecLiteral allocates with make_vector_known_size(N) then assigns each
// slot (spec §4.7 rule 6).
func (e *emitter) vecLiteral(node ast.Node) (string, error) {
	vec := e.c.freshTemp()
	e.line("RuntimeObject* %s = make_vector_known_size(%d);", vec, len(node.Children))
	for i, elemNode := range node.Children {
		v, err := e.expr(elemNode)
		if err != nil {
			return "", err
		}
		idx := fmt.Sprintf("make_int(%d)", i)
		e.line("*get_index(%s, %s, true) = %s;", vec, idx, v)
	}
	return vec, nil
}

// dictLiteral allocates an empty dict then assigns each key/value pair
// through get_index, exactly like an index-assignment statement.
func (e *emitter) dictLiteral(node ast.Node) (string, error) {
	dict := e.c.freshTemp()
	e.line("RuntimeObject* %s = make_dict();", dict)
	for i, keyNode := range node.Data.Keys {
		k, err := e.expr(keyNode)
		if err != nil {
			return "", err
		}
		v, err := e.expr(node.Children[i])
		if err != nil {
			return "", err
		}
		e.line("*get_index(%s, %s, true) = %s;", dict, k, v)
	}
	return dict, nil
}

// cStringLiteral renders s as a double-quoted C string literal, escaping
// backslashes, quotes, and newlines. ember strings are verbatim at the
// language level (no escape processing, see DESIGN.md), but the generated C
// source itself still has to be syntactically valid.
func cStringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
