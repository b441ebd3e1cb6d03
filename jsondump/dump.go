// Package jsondump implements the token/AST JSON wire format from spec
// §6.3. The wire format's field names (zchildren, xmetadata) are not
// idiomatic Go struct field names, so the format is built incrementally
// with sjson and read back with gjson rather than round-tripped through
// encoding/json struct tags.
package jsondump

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/lexer"
)

// DumpTokens renders a token stream as the §6.3 JSON array:
// [{type_string, type_int, metadata:{line,column}, value}, ...].
func DumpTokens(toks []lexer.Info) (string, error) {
	doc := "[]"
	for _, tok := range toks {
		obj, err := tokenToJSON(tok)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "-1", obj)
		if err != nil {
			return "", fmt.Errorf("jsondump: appending token: %w", err)
		}
	}
	return doc, nil
}

func tokenToJSON(tok lexer.Info) (string, error) {
	doc := "{}"
	var err error
	if doc, err = sjson.Set(doc, "type_string", tok.Kind.String()); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "type_int", int(tok.Kind)); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "metadata.line", tok.Position.Line); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "metadata.column", tok.Position.Column); err != nil {
		return "", err
	}
	// "literal" is additional to the four wire-format keys named in spec
	// §6.3; it is required to round-trip identifiers and punctuation
	// exactly, since "value" alone does not carry an identifier's name.
	if doc, err = sjson.Set(doc, "literal", tok.Literal); err != nil {
		return "", err
	}
	switch tok.Value.Kind {
	case lexer.ValueNone:
		doc, err = sjson.SetRaw(doc, "value", "null")
	case lexer.ValueInt:
		doc, err = sjson.Set(doc, "value", tok.Value.Int)
	case lexer.ValueFloat:
		doc, err = sjson.Set(doc, "value", tok.Value.Float)
	case lexer.ValueString:
		doc, err = sjson.Set(doc, "value", tok.Value.Str)
	case lexer.ValueBool:
		doc, err = sjson.Set(doc, "value", tok.Value.Bool)
	}
	return doc, err
}

// LoadTokens parses the §6.3 token JSON array back into token infos.
func LoadTokens(data string) ([]lexer.Info, error) {
	if !gjson.Valid(data) {
		return nil, fmt.Errorf("jsondump: invalid JSON")
	}
	arr := gjson.Parse(data)
	if !arr.IsArray() {
		return nil, fmt.Errorf("jsondump: expected a JSON array of tokens")
	}
	var out []lexer.Info
	var convErr error
	arr.ForEach(func(_, v gjson.Result) bool {
		info, err := tokenFromJSON(v)
		if err != nil {
			convErr = err
			return false
		}
		out = append(out, info)
		return true
	})
	return out, convErr
}

func tokenFromJSON(v gjson.Result) (lexer.Info, error) {
	info := lexer.Info{
		Kind:     lexer.Token(v.Get("type_int").Int()),
		Position: lexer.Position{Line: int(v.Get("metadata.line").Int()), Column: int(v.Get("metadata.column").Int())},
	}
	val := v.Get("value")
	switch val.Type {
	case gjson.Null:
		info.Value = lexer.Value{Kind: lexer.ValueNone}
	case gjson.Number:
		if val.Num == float64(int64(val.Num)) {
			info.Value = lexer.Value{Kind: lexer.ValueInt, Int: val.Int()}
		} else {
			info.Value = lexer.Value{Kind: lexer.ValueFloat, Float: val.Float()}
		}
	case gjson.String:
		info.Value = lexer.Value{Kind: lexer.ValueString, Str: val.Str}
		info.Literal = val.Str
	case gjson.True, gjson.False:
		info.Value = lexer.Value{Kind: lexer.ValueBool, Bool: val.Bool()}
	}
	if lit := v.Get("literal"); lit.Exists() {
		info.Literal = lit.String()
	} else if info.Literal == "" {
		info.Literal = info.Kind.String()
	}
	return info, nil
}

// DumpAST renders an AST node tree as the §6.3 JSON format:
// {type_string, type_int, zchildren:[...], data:{...}, xmetadata:{line,column}}.
func DumpAST(n ast.Node) (string, error) {
	return nodeToJSON(n)
}

func nodeToJSON(n ast.Node) (string, error) {
	doc := "{}"
	var err error
	if doc, err = sjson.Set(doc, "type_string", n.Kind.String()); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "type_int", int(n.Kind)); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "xmetadata.line", n.Metadata.Line); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "xmetadata.column", n.Metadata.Column); err != nil {
		return "", err
	}

	children := "[]"
	for _, c := range n.Children {
		cj, err := nodeToJSON(c)
		if err != nil {
			return "", err
		}
		if children, err = sjson.SetRaw(children, "-1", cj); err != nil {
			return "", err
		}
	}
	if doc, err = sjson.SetRaw(doc, "zchildren", children); err != nil {
		return "", err
	}

	dataDoc, err := dataToJSON(n)
	if err != nil {
		return "", err
	}
	if doc, err = sjson.SetRaw(doc, "data", dataDoc); err != nil {
		return "", err
	}
	return doc, nil
}

func dataToJSON(n ast.Node) (string, error) {
	d := "{}"
	var err error
	data := n.Data
	if data.Name != "" {
		if d, err = sjson.Set(d, "name", data.Name); err != nil {
			return "", err
		}
	}
	if n.Kind == ast.VAR_DECLARE {
		if d, err = sjson.Set(d, "is_const", data.IsConst); err != nil {
			return "", err
		}
	}
	if n.Kind == ast.BINARY_OP || n.Kind == ast.UNARY_OP || n.Kind == ast.ASSIGN_OP {
		if d, err = sjson.Set(d, "op", int(data.Op)); err != nil {
			return "", err
		}
		if d, err = sjson.Set(d, "op_name", data.Op.String()); err != nil {
			return "", err
		}
	}
	if n.Kind == ast.FUNC_DECLARE {
		params := "[]"
		for _, p := range data.Params {
			if params, err = sjson.Set(params, "-1", p); err != nil {
				return "", err
			}
		}
		if d, err = sjson.SetRaw(d, "params", params); err != nil {
			return "", err
		}
	}
	if n.Kind == ast.MODULE_IMPORT {
		if d, err = sjson.Set(d, "path", data.Path); err != nil {
			return "", err
		}
	}
	switch n.Kind {
	case ast.INT_LITERAL:
		d, err = sjson.Set(d, "value", data.IntVal)
	case ast.FLOAT_LITERAL:
		d, err = sjson.Set(d, "value", data.FloatVal)
	case ast.STRING_LITERAL:
		d, err = sjson.Set(d, "value", data.StrVal)
	case ast.BOOL_LITERAL:
		d, err = sjson.Set(d, "value", data.BoolVal)
	}
	if err != nil {
		return "", err
	}
	if n.Kind == ast.DICT_LITERAL {
		keys := "[]"
		for _, k := range data.Keys {
			kj, err := nodeToJSON(k)
			if err != nil {
				return "", err
			}
			if keys, err = sjson.SetRaw(keys, "-1", kj); err != nil {
				return "", err
			}
		}
		if d, err = sjson.SetRaw(d, "keys", keys); err != nil {
			return "", err
		}
	}
	return d, nil
}

// LoadAST parses the §6.3 AST JSON format back into an ast.Node tree.
func LoadAST(data string) (ast.Node, error) {
	if !gjson.Valid(data) {
		return ast.Node{}, fmt.Errorf("jsondump: invalid JSON")
	}
	return nodeFromJSON(gjson.Parse(data))
}

func nodeFromJSON(v gjson.Result) (ast.Node, error) {
	n := ast.Node{Kind: ast.Kind(v.Get("type_int").Int())}
	n.Metadata = lexer.Position{
		Line:   int(v.Get("xmetadata.line").Int()),
		Column: int(v.Get("xmetadata.column").Int()),
	}

	var convErr error
	v.Get("zchildren").ForEach(func(_, c gjson.Result) bool {
		child, err := nodeFromJSON(c)
		if err != nil {
			convErr = err
			return false
		}
		n.Children = append(n.Children, child)
		return true
	})
	if convErr != nil {
		return ast.Node{}, convErr
	}

	data := v.Get("data")
	n.Data.Name = data.Get("name").String()
	n.Data.IsConst = data.Get("is_const").Bool()
	if data.Get("op").Exists() {
		n.Data.Op = lexer.Token(data.Get("op").Int())
	}
	data.Get("params").ForEach(func(_, p gjson.Result) bool {
		n.Data.Params = append(n.Data.Params, p.String())
		return true
	})
	n.Data.Path = data.Get("path").String()
	switch n.Kind {
	case ast.INT_LITERAL:
		n.Data.IntVal = data.Get("value").Int()
	case ast.FLOAT_LITERAL:
		n.Data.FloatVal = data.Get("value").Float()
	case ast.STRING_LITERAL:
		n.Data.StrVal = data.Get("value").String()
	case ast.BOOL_LITERAL:
		n.Data.BoolVal = data.Get("value").Bool()
	}
	data.Get("keys").ForEach(func(_, k gjson.Result) bool {
		kn, err := nodeFromJSON(k)
		if err != nil {
			convErr = err
			return false
		}
		n.Data.Keys = append(n.Data.Keys, kn)
		return true
	})
	return n, convErr
}
