package codegen

import (
	"fmt"
	"strings"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/lexer"
)

// Compiler lowers an ember TOP_LEVEL AST to a single C translation unit
// (spec §4.7). It plays the role the teacher's compiler.Compiler plays for
// bytecode: one pass over the AST, a nested symbol table, and a running
// counter for generated names — except the "instructions" it emits are C
// statement text rather than vm.Instruction values.
type Compiler struct {
	fileScope *SymbolTable
	funcs     strings.Builder
	mainInit  strings.Builder

	// per-function counters, reset at the start of each emitFunction call
	// (spec §4.7 rule 10: unique identifiers per function body).
	localCounter int
	tempCounter  int

	// labelCounter is never reset: labels must be globally unique.
	labelCounter int
}

// Generate is codegen's entry point: lower a TOP_LEVEL AST into a complete
// translation unit, or report the first error encountered.
func Generate(top ast.Node) (string, error) {
	if top.Kind != ast.TOP_LEVEL {
		return "", fmt.Errorf("codegen: expected a TOP_LEVEL node, got %s", top.Kind)
	}

	c := &Compiler{fileScope: NewSymbolTable(nil)}
	c.fileScope.Define("print", BuiltinSymbol, "builtin_print")

	// Pre-register every top-level name so mutually referencing functions
	// and forward references resolve regardless of declaration order.
	for _, decl := range top.Children {
		switch decl.Kind {
		case ast.FUNC_DECLARE:
			c.fileScope.Define(decl.Data.Name, FuncSymbol, "emberGen_"+decl.Data.Name)
		case ast.VAR_DECLARE:
			kind := VarSymbol
			if decl.Data.IsConst {
				kind = ConstSymbol
			}
			c.fileScope.Define(decl.Data.Name, kind, "emberGlobal_"+decl.Data.Name)
		default:
			return "", fmt.Errorf("codegen: unexpected top-level declaration kind %s", decl.Kind)
		}
	}

	for _, decl := range top.Children {
		if decl.Kind == ast.VAR_DECLARE {
			if err := c.emitTopLevelInit(decl); err != nil {
				return "", err
			}
		}
	}
	for _, decl := range top.Children {
		if decl.Kind == ast.FUNC_DECLARE {
			if err := c.emitFunction(decl); err != nil {
				return "", err
			}
		}
	}

	mainCall, err := mainCallExpr(top)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString("#include \"runtime.h\"\n\n")
	for _, decl := range top.Children {
		if decl.Kind != ast.VAR_DECLARE {
			continue
		}
		sym, _ := c.fileScope.Resolve(decl.Data.Name)
		fmt.Fprintf(&out, "RuntimeObject* %s;\n", sym.CName)
	}
	out.WriteString("\n")
	out.WriteString(c.funcs.String())
	out.WriteString("\nint main(int argc, char** argv) {\n")
	out.WriteString(c.mainInit.String())
	fmt.Fprintf(&out, "\t%s;\n", mainCall)
	out.WriteString("\treturn 0;\n}\n")
	return out.String(), nil
}

// mainCallExpr mirrors interp's mainArgs: main is called with the program's
// argv packed into a vector only if it declares a parameter named "argv"
// (spec §6.4), otherwise it is called with no arguments at all.
func mainCallExpr(top ast.Node) (string, error) {
	for _, decl := range top.Children {
		if decl.Kind != ast.FUNC_DECLARE || decl.Data.Name != "main" {
			continue
		}
		for _, p := range decl.Data.Params {
			if p == "argv" {
				return "emberGen_main(make_argv(argc, argv))", nil
			}
		}
		return "emberGen_main()", nil
	}
	return "", fmt.Errorf("codegen: no top-level main function declared")
}

// emitTopLevelInit lowers a top-level let/const initializer into the
// synthesized main()'s preamble (spec §4.7 rule 1): top-level initializers
// run in source order against a live runtime, before main is called.
func (c *Compiler) emitTopLevelInit(decl ast.Node) error {
	e := &emitter{c: c, st: c.fileScope, out: &c.mainInit, indent: 1}
	expr, err := e.expr(decl.Children[0])
	if err != nil {
		return err
	}
	sym, _ := c.fileScope.Resolve(decl.Data.Name)
	e.line("%s = %s;", sym.CName, expr)
	return nil
}

// emitFunction lowers one FUNC_DECLARE to a C function definition (spec
// §4.7 rule 2). Parameters become positionally-named arg0.. argN bound in a
// fresh scope parented to the file scope, so a compiled body sees globals,
// its parameters and its own locals, but not its caller's locals (unlike the
// interpreter, which parents a call's scope to the caller).
func (c *Compiler) emitFunction(decl ast.Node) error {
	c.localCounter = 0
	c.tempCounter = 0

	name := decl.Data.Name
	cName := "emberGen_" + name
	params := decl.Data.Params

	fnScope := c.fileScope.Child()
	var sig strings.Builder
	fmt.Fprintf(&sig, "RuntimeObject* %s(", cName)
	for i, p := range params {
		if i > 0 {
			sig.WriteString(", ")
		}
		argName := fmt.Sprintf("arg%d", i)
		fmt.Fprintf(&sig, "RuntimeObject* %s", argName)
		fnScope.Define(p, VarSymbol, argName)
	}
	sig.WriteString(")")

	var body strings.Builder
	e := &emitter{c: c, st: fnScope, out: &body, indent: 1}
	body.WriteString(sig.String())
	body.WriteString(" {\n")
	lastReturned, err := e.block(decl.Children[0])
	if err != nil {
		return err
	}
	if !lastReturned {
		e.line("return make_nothing();")
	}
	body.WriteString("}\n\n")

	c.funcs.WriteString(body.String())
	return nil
}

// emitter carries the mutable lowering state for one statement sequence:
// which symbol table resolves names, where text is written, and the current
// indentation depth.
type emitter struct {
	c      *Compiler
	st     *SymbolTable
	out    *strings.Builder
	indent int
}

func (e *emitter) line(format string, args ...interface{}) {
	e.out.WriteString(strings.Repeat("\t", e.indent))
	fmt.Fprintf(e.out, format, args...)
	e.out.WriteString("\n")
}

func (e *emitter) child() *emitter {
	return &emitter{c: e.c, st: e.st.Child(), out: e.out, indent: e.indent}
}

// block lowers a BLOCK's statements in order. It reports whether the last
// statement emitted was a RETURN, so the caller knows whether to synthesize
// a trailing "return make_nothing();" (spec §4.7 rule 2).
func (e *emitter) block(node ast.Node) (bool, error) {
	inner := e.child()
	lastReturned := false
	for _, stmt := range node.Children {
		returned, err := inner.statement(stmt)
		if err != nil {
			return false, err
		}
		lastReturned = returned
	}
	return lastReturned, nil
}

func (e *emitter) statement(node ast.Node) (bool, error) {
	switch node.Kind {
	case ast.VAR_DECLARE:
		return false, e.varDeclare(node)
	case ast.RETURN:
		return true, e.returnStmt(node)
	case ast.IF:
		return false, e.ifStmt(node)
	case ast.WHILE:
		return false, e.whileStmt(node)
	case ast.ASSIGN_OP:
		return false, e.assignOp(node)
	default:
		expr, err := e.expr(node)
		if err != nil {
			return false, err
		}
		e.line("%s;", expr)
		return false, nil
	}
}

// varDeclare lowers a local let/const to "RuntimeObject* localN = <rhs>;"
// (spec §4.7 rule 3), binding the source name to the generated identifier in
// this scope.
func (e *emitter) varDeclare(node ast.Node) error {
	rhs, err := e.expr(node.Children[0])
	if err != nil {
		return err
	}
	local := e.c.freshLocal()
	e.line("RuntimeObject* %s = %s;", local, rhs)
	kind := VarSymbol
	if node.Data.IsConst {
		kind = ConstSymbol
	}
	e.st.Define(node.Data.Name, kind, local)
	return nil
}

func (e *emitter) returnStmt(node ast.Node) error {
	expr, err := e.expr(node.Children[0])
	if err != nil {
		return err
	}
	e.line("return %s;", expr)
	return nil
}

// ifStmt lowers IF to "if (get_conditional_result(c)) { ... } else { ... }"
// (spec §4.7 rule 8). A 2-child IF omits the else branch entirely.
func (e *emitter) ifStmt(node ast.Node) error {
	cond, err := e.expr(node.Children[0])
	if err != nil {
		return err
	}
	e.line("if (get_conditional_result(%s)) {", cond)
	if _, err := e.block(node.Children[1]); err != nil {
		return err
	}
	if len(node.Children) == 3 {
		e.line("} else {")
		if _, err := e.block(node.Children[2]); err != nil {
			return err
		}
	}
	e.line("}")
	return nil
}

// whileStmt lowers WHILE to a synthesized label and goto back-edge (spec
// §4.7 rule 8), rather than a native C "while" loop, to stay grounded on the
// original implementation's label-based loop lowering.
func (e *emitter) whileStmt(node ast.Node) error {
	top := e.c.freshLabel()
	end := e.c.freshLabel()
	e.line("%s:;", top)
	cond, err := e.expr(node.Children[0])
	if err != nil {
		return err
	}
	e.line("if (!get_conditional_result(%s)) goto %s;", cond, end)
	if _, err := e.block(node.Children[1]); err != nil {
		return err
	}
	e.line("goto %s;", top)
	e.line("%s:;", end)
	return nil
}

// assignOp lowers an assignment statement (spec §4.7 rule 5): a plain
// variable target overwrites its local; an indexed target resolves through
// get_index, which returns a pointer into the container so the store can go
// straight through it. The l-value is resolved exactly once, matching
// interp/lvalue.go's single-resolution model, so a non-pure receiver or
// index expression (a call, an .append side effect) runs only once.
func (e *emitter) assignOp(node ast.Node) error {
	lhs := node.Children[0]
	switch lhs.Kind {
	case ast.VAR_LOOKUP:
		sym, ok := e.st.Resolve(lhs.Data.Name)
		if !ok {
			return fmt.Errorf("codegen: unresolved assignment target %q", lhs.Data.Name)
		}
		rhs, err := e.assignRHS(node, sym.CName)
		if err != nil {
			return err
		}
		e.line("%s = %s;", sym.CName, rhs)
		return nil
	case ast.INDEX_ACCESS:
		recv, err := e.expr(lhs.Children[0])
		if err != nil {
			return err
		}
		idx, err := e.expr(lhs.Children[1])
		if err != nil {
			return err
		}
		slot := e.c.freshTemp()
		e.line("RuntimeObject** %s = get_index(%s, %s, true);", slot, recv, idx)
		rhs, err := e.assignRHS(node, "*"+slot)
		if err != nil {
			return err
		}
		e.line("*%s = %s;", slot, rhs)
		return nil
	default:
		return fmt.Errorf("codegen: unsupported assignment target kind %s", lhs.Kind)
	}
}

// assignRHS evaluates the right-hand side of an assignment statement, and
// for a compound op (+=, -=, ...) combines it with curExpr, the C
// expression already holding the target's current value, instead of
// re-evaluating the target.
func (e *emitter) assignRHS(node ast.Node, curExpr string) (string, error) {
	rhs, err := e.expr(node.Children[1])
	if err != nil {
		return "", err
	}
	if node.Data.Op == lexer.ASSIGN {
		return rhs, nil
	}
	return fmt.Sprintf("%s(%s, %s)", runtimeOpFunc(node.Data.Op.CompoundBinaryOp()), curExpr, rhs), nil
}
