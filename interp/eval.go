package interp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/lexer"
	"github.com/emberlang/ember/parser"
)

// EvalMode propagates LVALUE/RVALUE intent through eval_node (spec §4.4.1).
// It only changes behavior at VAR_LOOKUP, INDEX_ACCESS, and FIELD_ACCESS;
// every other node kind always evaluates its children as RVALUE.
type EvalMode int

const (
	RVALUE EvalMode = iota
	LVALUE
)

// EvalResult is eval_node's uniform return shape: an r-value, an l-value, or
// neither, plus the out-of-band "a return was hit" flag that stands in for
// exceptions as ember's control-flow encoding (spec §9).
type EvalResult struct {
	RV       *Value
	LV       LValue
	Returned bool
}

// Interpreter runs ember programs against a working directory used to
// resolve relative import paths and a writer for print() output. Unlike the
// original implementation's process-wide WORKING_DIRECTORY global, the
// directory is an explicit field: New sets it, and evalModuleImport switches
// it to each imported file's directory while that module is evaluated, then
// restores it, so two Interpreters never share mutable state (spec §5).
type Interpreter struct {
	WorkingDir string
	Stdout     io.Writer
}

// New builds an Interpreter. workingDir resolves relative import paths;
// stdout receives print() output.
func New(workingDir string, stdout io.Writer) *Interpreter {
	return &Interpreter{WorkingDir: workingDir, Stdout: stdout}
}

// EvalTopLevel implements spec §4.4.1's eval_top_level: build the root
// table with built-ins, evaluate every top-level declaration and import in
// order, then call main (passing argv as a vector of strings if main
// declares an argv parameter).
func (in *Interpreter) EvalTopLevel(top ast.Node, argv []string) (*Value, error) {
	if top.Kind != ast.TOP_LEVEL {
		return nil, &InternalError{Message: "eval_top_level requires a TOP_LEVEL node"}
	}

	root := NewSymbolTable(nil)
	root.entries["print"] = &Entry{
		Kind:  FunctionEntry,
		Value: &Value{Kind: FunctionValue, Fn: &Function{Name: "print", Params: []string{"arg"}, Body: ast.Node{Kind: ast.BUILTIN_PRINT}}},
	}

	for _, child := range top.Children {
		if _, err := in.evalNode(child, root, RVALUE); err != nil {
			return nil, err
		}
	}

	mainEntry, ok := root.entries["main"]
	if !ok || mainEntry.Kind != FunctionEntry {
		return nothing(), nil
	}
	return in.callFunction(mainEntry.Value.Fn, mainArgs(mainEntry.Value.Fn, argv), root)
}

func mainArgs(main *Function, argv []string) []*Value {
	wantsArgv := false
	for _, p := range main.Params {
		if p == "argv" {
			wantsArgv = true
		}
	}
	if !wantsArgv {
		return nil
	}
	elems := make([]*Value, len(argv))
	for i, s := range argv {
		elems[i] = &Value{Kind: StringValue, Str: s}
	}
	return []*Value{{Kind: VectorValue, Vec: &Vector{Elems: elems}}}
}

// evalNode is the single dispatch point (spec §4.4.1). It attaches a
// RuntimeError carrying this node's position to the first error produced
// beneath it, so the position reported is always the innermost failing
// node's, not some enclosing statement's.
func (in *Interpreter) evalNode(node ast.Node, st *SymbolTable, mode EvalMode) (EvalResult, error) {
	res, err := in.dispatch(node, st, mode)
	if err != nil {
		if _, already := err.(*RuntimeError); !already {
			err = &RuntimeError{Err: err, Position: node.Metadata}
		}
	}
	return res, err
}

func (in *Interpreter) evalRVal(node ast.Node, st *SymbolTable) (*Value, error) {
	res, err := in.evalNode(node, st, RVALUE)
	if err != nil {
		return nil, err
	}
	if res.RV == nil {
		return nothing(), nil
	}
	return res.RV, nil
}

func (in *Interpreter) dispatch(node ast.Node, st *SymbolTable, mode EvalMode) (EvalResult, error) {
	switch node.Kind {
	case ast.TOP_LEVEL:
		return EvalResult{}, &InternalError{Message: "TOP_LEVEL may only appear as the evaluator's root"}
	case ast.BLOCK:
		return in.evalBlock(node, st)
	case ast.ASSIGN_OP:
		return in.evalAssignOp(node, st)
	case ast.VAR_DECLARE:
		return in.evalVarDeclare(node, st)
	case ast.FUNC_DECLARE:
		return in.evalFuncDeclare(node, st)
	case ast.MODULE_IMPORT:
		return in.evalModuleImport(node, st)
	case ast.IF:
		return in.evalIf(node, st)
	case ast.RETURN:
		return in.evalReturn(node, st)
	case ast.WHILE:
		return in.evalWhile(node, st)
	case ast.BINARY_OP:
		return in.evalBinaryOp(node, st)
	case ast.UNARY_OP:
		return in.evalUnaryOp(node, st)
	case ast.FUNC_CALL:
		return in.evalFuncCall(node, st)
	case ast.INDEX_ACCESS:
		return in.evalIndexAccess(node, st, mode)
	case ast.FIELD_ACCESS:
		return in.evalFieldAccess(node, st, mode)
	case ast.VAR_LOOKUP:
		return in.evalVarLookup(node, st, mode)
	case ast.EXPR_LIST, ast.VEC_LITERAL:
		return in.evalVecLiteral(node, st)
	case ast.DICT_LITERAL:
		return in.evalDictLiteral(node, st)
	case ast.BOOL_LITERAL:
		return EvalResult{RV: &Value{Kind: BoolValue, Bool: node.Data.BoolVal}}, nil
	case ast.INT_LITERAL:
		return EvalResult{RV: &Value{Kind: IntValue, Int: node.Data.IntVal}}, nil
	case ast.FLOAT_LITERAL:
		return EvalResult{RV: &Value{Kind: FloatValue, Float: node.Data.FloatVal}}, nil
	case ast.STRING_LITERAL:
		return EvalResult{RV: &Value{Kind: StringValue, Str: node.Data.StrVal}}, nil
	case ast.NOTHING_LITERAL:
		return EvalResult{RV: nothing()}, nil
	case ast.BUILTIN_PRINT:
		return in.evalBuiltinPrint(st)
	case ast.BUILTIN_VECTOR_LENGTH:
		return in.evalBuiltinVectorLength(st)
	case ast.BUILTIN_VECTOR_APPEND:
		return in.evalBuiltinVectorAppend(st)
	case ast.BUILTIN_STRING_LENGTH:
		return in.evalBuiltinStringLength(st)
	case ast.BUILTIN_DICT_LENGTH:
		return in.evalBuiltinDictLength(st)
	case ast.BUILTIN_DICT_KEYS:
		return in.evalBuiltinDictKeys(st)
	case ast.BUILTIN_DICT_CONTAINS:
		return in.evalBuiltinDictContains(st)
	default:
		return EvalResult{}, &InternalError{Message: fmt.Sprintf("unhandled AST kind %s", node.Kind)}
	}
}

func (in *Interpreter) evalBlock(node ast.Node, st *SymbolTable) (EvalResult, error) {
	for _, child := range node.Children {
		res, err := in.evalNode(child, st, RVALUE)
		if err != nil {
			return EvalResult{}, err
		}
		if res.Returned {
			return res, nil
		}
	}
	return EvalResult{}, nil
}

func (in *Interpreter) evalVarDeclare(node ast.Node, st *SymbolTable) (EvalResult, error) {
	rhs, err := in.evalRVal(node.Children[0], st)
	if err != nil {
		return EvalResult{}, err
	}
	kind := VarEntry
	if node.Data.IsConst {
		kind = ConstEntry
	}
	if err := st.Declare(node.Data.Name, kind, rhs); err != nil {
		return EvalResult{}, err
	}
	return EvalResult{}, nil
}

func (in *Interpreter) evalFuncDeclare(node ast.Node, st *SymbolTable) (EvalResult, error) {
	fn := &Function{Name: node.Data.Name, Params: node.Data.Params, Body: node.Children[0]}
	if err := st.Declare(node.Data.Name, FunctionEntry, &Value{Kind: FunctionValue, Fn: fn}); err != nil {
		return EvalResult{}, err
	}
	return EvalResult{}, nil
}

// evalModuleImport implements spec §4.4.4: resolve the path against the
// interpreter's working directory (the importing file's directory), evaluate
// the module with the working directory set to its own directory under a fresh child
// table owned by the importer, then either bind it as a named module value
// or merge its entries (excluding "main") into the importer's scope.
func (in *Interpreter) evalModuleImport(node ast.Node, st *SymbolTable) (EvalResult, error) {
	path := filepath.Join(in.WorkingDir, node.Data.Path)
	src, err := os.ReadFile(path)
	if err != nil {
		return EvalResult{}, &ImportError{Message: fmt.Sprintf("could not read module %q: %s", node.Data.Path, err)}
	}
	moduleAST, err := parser.ParseSource(string(src))
	if err != nil {
		return EvalResult{}, err
	}
	if moduleAST.Kind != ast.TOP_LEVEL {
		return EvalResult{}, &ImportError{Message: fmt.Sprintf("malformed module: %s", path)}
	}

	moduleSt := NewSymbolTable(st)
	st.adoptModule(moduleSt)
	outerDir := in.WorkingDir
	in.WorkingDir = filepath.Dir(path)
	defer func() { in.WorkingDir = outerDir }()
	for _, child := range moduleAST.Children {
		if _, err := in.evalNode(child, moduleSt, RVALUE); err != nil {
			return EvalResult{}, err
		}
	}

	if node.Data.Name != "" {
		modVal := &Value{Kind: ModuleValue, Mod: &Module{Name: node.Data.Name, Scope: moduleSt}}
		if err := st.Declare(node.Data.Name, ConstEntry, modVal); err != nil {
			return EvalResult{}, err
		}
	} else {
		st.mergeFrom(moduleSt)
	}
	return EvalResult{}, nil
}

func (in *Interpreter) evalAssignOp(node ast.Node, st *SymbolTable) (EvalResult, error) {
	lhsRes, err := in.evalNode(node.Children[0], st, LVALUE)
	if err != nil {
		return EvalResult{}, err
	}
	if lhsRes.LV == nil {
		return EvalResult{}, &InternalError{Message: "ASSIGN_OP left-hand side did not produce an l-value"}
	}
	rhs, err := in.evalRVal(node.Children[1], st)
	if err != nil {
		return EvalResult{}, err
	}
	newVal := rhs
	if node.Data.Op != lexer.ASSIGN {
		newVal, err = applyBinaryOp(node.Data.Op.CompoundBinaryOp(), lhsRes.LV.Current(), rhs)
		if err != nil {
			return EvalResult{}, err
		}
	}
	lhsRes.LV.Assign(newVal)
	return EvalResult{}, nil
}

func (in *Interpreter) evalBinaryOp(node ast.Node, st *SymbolTable) (EvalResult, error) {
	lhs, err := in.evalRVal(node.Children[0], st)
	if err != nil {
		return EvalResult{}, err
	}
	rhs, err := in.evalRVal(node.Children[1], st)
	if err != nil {
		return EvalResult{}, err
	}
	v, err := applyBinaryOp(node.Data.Op, lhs, rhs)
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{RV: v}, nil
}

func (in *Interpreter) evalUnaryOp(node ast.Node, st *SymbolTable) (EvalResult, error) {
	operand, err := in.evalRVal(node.Children[0], st)
	if err != nil {
		return EvalResult{}, err
	}
	v, err := applyUnaryOp(node.Data.Op, operand)
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{RV: v}, nil
}

func (in *Interpreter) evalFuncCall(node ast.Node, st *SymbolTable) (EvalResult, error) {
	callee, err := in.evalRVal(node.Children[0], st)
	if err != nil {
		return EvalResult{}, err
	}
	if callee.Kind != FunctionValue {
		return EvalResult{}, &TypeError{Message: "function callee value must be a function"}
	}
	argsRes, err := in.evalNode(node.Children[1], st, RVALUE)
	if err != nil {
		return EvalResult{}, err
	}
	args := argsRes.RV.Vec.Elems

	result, err := in.callFunctionIn(callee.Fn, args, st)
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{RV: result}, nil
}

// callFunction is callFunctionIn with the root table as the caller scope,
// used to invoke main from EvalTopLevel.
func (in *Interpreter) callFunction(fn *Function, args []*Value, root *SymbolTable) (*Value, error) {
	return in.callFunctionIn(fn, args, root)
}

// callFunctionIn implements spec §4.4.3's FUNC_CALL rule: a fresh scope
// parented to the caller (or, for a module-bound function, to the module's
// own table), each parameter bound as CONST, an injected "this" if the
// function carries a bound receiver, then the body evaluated; a
// non-returning function yields nothing.
func (in *Interpreter) callFunctionIn(fn *Function, args []*Value, callerSt *SymbolTable) (*Value, error) {
	if len(fn.Params) != len(args) {
		return nil, &ArityError{Message: fmt.Sprintf("function %q expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))}
	}
	parent := callerSt
	if fn.ModuleScope != nil {
		parent = fn.ModuleScope
	}
	fnSt := NewSymbolTable(parent)
	for i, name := range fn.Params {
		if err := fnSt.Declare(name, ConstEntry, args[i]); err != nil {
			return nil, err
		}
	}
	if fn.This != nil {
		if err := fnSt.Declare("this", ConstEntry, fn.This); err != nil {
			return nil, err
		}
	}

	res, err := in.evalNode(fn.Body, fnSt, RVALUE)
	if err != nil {
		return nil, err
	}
	if res.RV == nil {
		return nothing(), nil
	}
	return res.RV, nil
}

func (in *Interpreter) evalVecLiteral(node ast.Node, st *SymbolTable) (EvalResult, error) {
	elems := make([]*Value, len(node.Children))
	for i, child := range node.Children {
		v, err := in.evalRVal(child, st)
		if err != nil {
			return EvalResult{}, err
		}
		elems[i] = v
	}
	return EvalResult{RV: &Value{Kind: VectorValue, Vec: &Vector{Elems: elems}}}, nil
}

func (in *Interpreter) evalDictLiteral(node ast.Node, st *SymbolTable) (EvalResult, error) {
	dict := NewDict()
	for i, keyNode := range node.Data.Keys {
		key, err := in.evalRVal(keyNode, st)
		if err != nil {
			return EvalResult{}, err
		}
		val, err := in.evalRVal(node.Children[i], st)
		if err != nil {
			return EvalResult{}, err
		}
		hash, err := DictKey(key)
		if err != nil {
			return EvalResult{}, err
		}
		dict.Set(hash, *key, val)
	}
	return EvalResult{RV: &Value{Kind: DictValue, Dict: dict}}, nil
}

func (in *Interpreter) evalWhile(node ast.Node, st *SymbolTable) (EvalResult, error) {
	for {
		cond, err := in.evalRVal(node.Children[0], st)
		if err != nil {
			return EvalResult{}, err
		}
		ok, err := truthy(cond)
		if err != nil {
			return EvalResult{}, err
		}
		if !ok {
			return EvalResult{}, nil
		}
		bodySt := NewSymbolTable(st)
		res, err := in.evalNode(node.Children[1], bodySt, RVALUE)
		if err != nil {
			return EvalResult{}, err
		}
		if res.Returned {
			return res, nil
		}
	}
}

func (in *Interpreter) evalIf(node ast.Node, st *SymbolTable) (EvalResult, error) {
	cond, err := in.evalRVal(node.Children[0], st)
	if err != nil {
		return EvalResult{}, err
	}
	ok, err := truthy(cond)
	if err != nil {
		return EvalResult{}, err
	}
	if ok {
		branchSt := NewSymbolTable(st)
		return in.evalNode(node.Children[1], branchSt, RVALUE)
	}
	if len(node.Children) == 3 {
		branchSt := NewSymbolTable(st)
		return in.evalNode(node.Children[2], branchSt, RVALUE)
	}
	return EvalResult{}, nil
}

func (in *Interpreter) evalReturn(node ast.Node, st *SymbolTable) (EvalResult, error) {
	v, err := in.evalRVal(node.Children[0], st)
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{RV: v, Returned: true}, nil
}

func (in *Interpreter) evalVarLookup(node ast.Node, st *SymbolTable, mode EvalMode) (EvalResult, error) {
	if mode == LVALUE {
		lv, err := st.LookupLValue(node.Data.Name)
		if err != nil {
			return EvalResult{}, err
		}
		return EvalResult{LV: lv}, nil
	}
	v, err := st.LookupRValue(node.Data.Name)
	if err != nil {
		return EvalResult{}, err
	}
	return EvalResult{RV: v}, nil
}

// evalFieldAccess implements spec §4.4.5: a module looks up the identifier
// in its own table; any other value looks it up in the fixed per-type
// builtin method table. A function result is bound to the receiver as
// "this" (or, for a module member, to the module's own scope) before being
// returned, so a later FUNC_CALL sees it already bound.
func (in *Interpreter) evalFieldAccess(node ast.Node, st *SymbolTable, mode EvalMode) (EvalResult, error) {
	lhs, err := in.evalRVal(node.Children[0], st)
	if err != nil {
		return EvalResult{}, err
	}
	name := node.Data.Name

	var table *SymbolTable
	isModule := lhs.Kind == ModuleValue
	if isModule {
		table = lhs.Mod.Scope
	} else {
		table = builtinMethodTables[lhs.Kind]
		if table == nil {
			return EvalResult{}, &TypeError{Message: fmt.Sprintf("type %s has no fields or methods", lhs.Kind)}
		}
	}

	if mode == LVALUE {
		lv, err := table.LookupLValue(name)
		if err != nil {
			return EvalResult{}, err
		}
		return EvalResult{LV: lv}, nil
	}

	v, err := table.LookupRValue(name)
	if err != nil {
		return EvalResult{}, err
	}
	if v.Kind == FunctionValue {
		bound := *v.Fn
		if isModule {
			bound.ModuleScope = table
		} else {
			bound.This = lhs
		}
		v = &Value{Kind: FunctionValue, Fn: &bound}
	}
	return EvalResult{RV: v}, nil
}

// evalIndexAccess implements spec §4.4.2/§4.4.5's index rules for vectors,
// dicts, and (read-only) strings.
func (in *Interpreter) evalIndexAccess(node ast.Node, st *SymbolTable, mode EvalMode) (EvalResult, error) {
	lhs, err := in.evalRVal(node.Children[0], st)
	if err != nil {
		return EvalResult{}, err
	}
	rhs, err := in.evalRVal(node.Children[1], st)
	if err != nil {
		return EvalResult{}, err
	}

	if lhs.Kind == DictValue {
		hash, err := DictKey(rhs)
		if err != nil {
			return EvalResult{}, err
		}
		if mode == LVALUE {
			return EvalResult{LV: &dictIndexLValue{dict: lhs.Dict, hash: hash, key: *rhs}}, nil
		}
		entry, ok := lhs.Dict.Get(hash)
		if !ok {
			return EvalResult{}, &BoundsError{Message: fmt.Sprintf("key %s not found in dict", Stringify(rhs))}
		}
		return EvalResult{RV: entry.Value}, nil
	}

	if rhs.Kind != IntValue {
		return EvalResult{}, &TypeError{Message: "index value must be an int"}
	}
	index := int(rhs.Int)

	switch lhs.Kind {
	case VectorValue:
		if index < 0 || index >= len(lhs.Vec.Elems) {
			return EvalResult{}, &BoundsError{Message: fmt.Sprintf("vector index %d out of range (length %d)", index, len(lhs.Vec.Elems))}
		}
		if mode == LVALUE {
			return EvalResult{LV: &vectorIndexLValue{vec: lhs.Vec, index: index}}, nil
		}
		return EvalResult{RV: lhs.Vec.Elems[index]}, nil

	case StringValue:
		if mode == LVALUE {
			return EvalResult{}, &TypeError{Message: "assignment is not supported on string indexes"}
		}
		if index < 0 || index >= len(lhs.Str) {
			return EvalResult{}, &BoundsError{Message: fmt.Sprintf("string index %d out of range (length %d)", index, len(lhs.Str))}
		}
		return EvalResult{RV: &Value{Kind: StringValue, Str: string(lhs.Str[index])}}, nil

	default:
		return EvalResult{}, &TypeError{Message: fmt.Sprintf("index access is not supported on %s", lhs.Kind)}
	}
}
