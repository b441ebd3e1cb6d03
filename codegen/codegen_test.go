package codegen

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/emberlang/ember/parser"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	top, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	out, err := Generate(top)
	if err != nil {
		t.Fatalf("codegen error: %s", err)
	}
	return out
}

func TestGeneratePrelude(t *testing.T) {
	out := generate(t, `function main() print("hello"); ..`)
	if !strings.HasPrefix(out, "#include \"runtime.h\"\n") {
		t.Fatalf("missing runtime.h prelude:\n%s", out)
	}
	if !strings.Contains(out, "emberGen_main();") {
		t.Fatalf("main() does not call emberGen_main:\n%s", out)
	}
}

func TestGenerateMainWithArgvParamReceivesPackedVector(t *testing.T) {
	out := generate(t, `function main(argv) print(argv); ..`)
	if !strings.Contains(out, "emberGen_main(make_argv(argc, argv));") {
		t.Fatalf("main(argv) should be called with a packed argv vector:\n%s", out)
	}
}

func TestGenerateHelloSnapshot(t *testing.T) {
	out := generate(t, `function main() print("hello"); ..`)
	snaps.MatchSnapshot(t, out)
}

func TestGenerateArithmeticSnapshot(t *testing.T) {
	out := generate(t, `
function main()
	let x = 1 + 2 * 3;
	print(x);
..`)
	snaps.MatchSnapshot(t, out)
}

func TestGenerateWhileLoopUsesGotoBackEdge(t *testing.T) {
	out := generate(t, `
function main()
	let i = 0;
	while i < 3
		i += 1;
	..
..`)
	if !strings.Contains(out, "goto emberGenLAB") {
		t.Fatalf("expected a goto back-edge in the lowered while loop:\n%s", out)
	}
}

func TestGenerateVectorMethodCallUsesDynamicDispatch(t *testing.T) {
	out := generate(t, `
function main()
	let v = [1, 2];
	v.append(3);
..`)
	if !strings.Contains(out, "field_access(") || !strings.Contains(out, "dynamic_function_call(") {
		t.Fatalf("expected method call to lower through field_access/dynamic_function_call:\n%s", out)
	}
}

func TestGenerateDirectCallUsesNamedFunction(t *testing.T) {
	out := generate(t, `
function helper(x)
	return x;
..
function main()
	print(helper(1));
..`)
	if !strings.Contains(out, "emberGen_helper(") {
		t.Fatalf("expected a direct call to emberGen_helper:\n%s", out)
	}
	if strings.Contains(out, "dynamic_function_call(emberGen_helper") {
		t.Fatalf("direct call should not go through dynamic_function_call:\n%s", out)
	}
}

func TestGenerateFunctionWithoutExplicitReturnYieldsNothing(t *testing.T) {
	out := generate(t, `function main() print("x"); ..`)
	if !strings.Contains(out, "return make_nothing();") {
		t.Fatalf("expected a synthesized return make_nothing():\n%s", out)
	}
}

func TestGenerateTopLevelConstInitializesBeforeMain(t *testing.T) {
	out := generate(t, `
const greeting = "hi";
function main() print(greeting); ..`)
	idx := strings.Index(out, "emberGlobal_greeting =")
	callIdx := strings.Index(out, "emberGen_main();")
	if idx == -1 || callIdx == -1 || idx > callIdx {
		t.Fatalf("expected top-level initializer before the call to main:\n%s", out)
	}
}
