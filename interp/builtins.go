package interp

import (
	"fmt"

	"github.com/emberlang/ember/ast"
)

// builtinMethodTables holds the fixed per-type method table consulted by
// FIELD_ACCESS (spec §4.4.5, §4.6). Each method is represented exactly like
// a user function: a parameter-name list and a one-node body, except the
// body is one of the BUILTIN_* AST kinds rather than a BLOCK. eval_node
// dispatches those kinds straight into Go code (evalBuiltin*) instead of
// tree-walking a user body, mirroring how the original interpreter wires
// its builtin_type_methods table.
var builtinMethodTables = map[ValueKind]*SymbolTable{
	VectorValue: builtinTable(map[string]*Function{
		"length": {Name: "length", Body: ast.Node{Kind: ast.BUILTIN_VECTOR_LENGTH}},
		"append": {Name: "append", Params: []string{"elem"}, Body: ast.Node{Kind: ast.BUILTIN_VECTOR_APPEND}},
	}),
	StringValue: builtinTable(map[string]*Function{
		"length": {Name: "length", Body: ast.Node{Kind: ast.BUILTIN_STRING_LENGTH}},
	}),
	DictValue: builtinTable(map[string]*Function{
		"length":   {Name: "length", Body: ast.Node{Kind: ast.BUILTIN_DICT_LENGTH}},
		"keys":     {Name: "keys", Body: ast.Node{Kind: ast.BUILTIN_DICT_KEYS}},
		"contains": {Name: "contains", Params: []string{"key"}, Body: ast.Node{Kind: ast.BUILTIN_DICT_CONTAINS}},
	}),
}

func builtinTable(fns map[string]*Function) *SymbolTable {
	st := NewSymbolTable(nil)
	for name, fn := range fns {
		st.entries[name] = &Entry{Kind: FunctionEntry, Value: &Value{Kind: FunctionValue, Fn: fn}}
	}
	return st
}

// evalBuiltinPrint implements the global print(arg) builtin bound into the
// top-level symbol table by EvalTopLevel.
func (in *Interpreter) evalBuiltinPrint(st *SymbolTable) (EvalResult, error) {
	arg, err := st.LookupRValue("arg")
	if err != nil {
		return EvalResult{}, err
	}
	fmt.Fprintln(in.Stdout, Stringify(arg))
	return EvalResult{RV: nothing()}, nil
}

func (in *Interpreter) evalBuiltinVectorAppend(st *SymbolTable) (EvalResult, error) {
	this, err := st.LookupRValue("this")
	if err != nil {
		return EvalResult{}, err
	}
	elem, err := st.LookupRValue("elem")
	if err != nil {
		return EvalResult{}, err
	}
	this.Vec.Elems = append(this.Vec.Elems, elem)
	return EvalResult{RV: nothing()}, nil
}

func (in *Interpreter) evalBuiltinVectorLength(st *SymbolTable) (EvalResult, error) {
	this, err := st.LookupRValue("this")
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{RV: &Value{Kind: IntValue, Int: int64(len(this.Vec.Elems))}}, nil
}

func (in *Interpreter) evalBuiltinStringLength(st *SymbolTable) (EvalResult, error) {
	this, err := st.LookupRValue("this")
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{RV: &Value{Kind: IntValue, Int: int64(len(this.Str))}}, nil
}

func (in *Interpreter) evalBuiltinDictLength(st *SymbolTable) (EvalResult, error) {
	this, err := st.LookupRValue("this")
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{RV: &Value{Kind: IntValue, Int: int64(this.Dict.Len())}}, nil
}

func (in *Interpreter) evalBuiltinDictKeys(st *SymbolTable) (EvalResult, error) {
	this, err := st.LookupRValue("this")
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{RV: &Value{Kind: VectorValue, Vec: &Vector{Elems: this.Dict.Keys()}}}, nil
}

func (in *Interpreter) evalBuiltinDictContains(st *SymbolTable) (EvalResult, error) {
	this, err := st.LookupRValue("this")
	if err != nil {
		return EvalResult{}, err
	}
	key, err := st.LookupRValue("key")
	if err != nil {
		return EvalResult{}, err
	}
	hash, err := DictKey(key)
	if err != nil {
		return EvalResult{}, err
	}
	_, found := this.Dict.Get(hash)
	return EvalResult{RV: &Value{Kind: BoolValue, Bool: found}}, nil
}
