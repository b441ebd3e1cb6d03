package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/emberlang/ember/parser"
)

func run(t *testing.T, src string, argv []string) (string, error) {
	t.Helper()
	top, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	var out bytes.Buffer
	in := New(".", &out)
	_, err = in.EvalTopLevel(top, argv)
	return out.String(), err
}

func TestHelloWorld(t *testing.T) {
	out, err := run(t, `function main() print("hello, world"); ..`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out != "hello, world\n" {
		t.Fatalf("got %q", out)
	}
}

func TestArithmeticAndFloatPromotion(t *testing.T) {
	out, err := run(t, `
function main()
	let x = 3 + 4 * 2;
	print(x);
	let y = 1 + 2.5;
	print(y);
..`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out != "11\n3.5\n" {
		t.Fatalf("got %q", out)
	}
}

func TestWhileWithCompoundAssignment(t *testing.T) {
	out, err := run(t, `
function main()
	let i = 0;
	let total = 0;
	while i < 5
		total += i;
		i += 1;
	..
	print(total);
..`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out != "10\n" {
		t.Fatalf("got %q", out)
	}
}

func TestVectorMethodDispatch(t *testing.T) {
	out, err := run(t, `
function main()
	let v = [1, 2, 3];
	v.append(4);
	print(v.length());
	print(v);
..`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out != "4\n[1, 2, 3, 4]\n" {
		t.Fatalf("got %q", out)
	}
}

func TestDictMixedTypeKeys(t *testing.T) {
	out, err := run(t, `
function main()
	let d = {"a": 1, 2: "two", true: 3.0};
	print(d.length());
	print(d.contains("a"));
	print(d.contains(2));
	print(d.contains(false));
..`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out != "3\ntrue\ntrue\nfalse\n" {
		t.Fatalf("got %q", out)
	}
}

func TestIfElseifElseChain(t *testing.T) {
	src := `
function classify(n)
	if n < 0
		return "negative";
	elseif n == 0
		return "zero";
	else
		return "positive";
	..
..
function main()
	print(classify(-1));
	print(classify(0));
	print(classify(5));
..`
	out, err := run(t, src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out != "negative\nzero\npositive\n" {
		t.Fatalf("got %q", out)
	}
}

func TestScopeShadowingAcrossBlocksAllowed(t *testing.T) {
	out, err := run(t, `
function main()
	let x = 1;
	if true
		let x = 2;
		print(x);
	..
	print(x);
..`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out != "2\n1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRedeclareInSameScopeIsResolutionError(t *testing.T) {
	_, err := run(t, `
function main()
	let x = 1;
	let x = 2;
..`, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "already declared") {
		t.Fatalf("expected a redeclaration error, got %s", err)
	}
}

func TestAssignToConstIsRejected(t *testing.T) {
	_, err := run(t, `
function main()
	const x = 1;
	x = 2;
..`, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "constants") {
		t.Fatalf("expected a const-assignment error, got %s", err)
	}
}

func TestStringIndexAssignmentIsTypeError(t *testing.T) {
	_, err := run(t, `
function main()
	let s = "hi";
	s[0] = "x";
..`, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "string indexes") {
		t.Fatalf("expected a string-index assignment error, got %s", err)
	}
}

func TestVectorOutOfBoundsIsBoundsError(t *testing.T) {
	_, err := run(t, `
function main()
	let v = [1, 2];
	print(v[5]);
..`, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected a bounds error, got %s", err)
	}
}

func TestDivisionByZeroIsTypeError(t *testing.T) {
	_, err := run(t, `
function main()
	print(1 / 0);
..`, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("expected division by zero error, got %s", err)
	}
}

func TestFunctionEqualityIsTypeError(t *testing.T) {
	_, err := run(t, `
function f() ..
function main()
	print(f == f);
..`, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "equality") {
		t.Fatalf("expected an equality error, got %s", err)
	}
}

func TestTruthinessRejectsNonBool(t *testing.T) {
	_, err := run(t, `
function main()
	if 1
		print("no");
	..
..`, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "cannot be used as a condition") {
		t.Fatalf("expected a condition type error, got %s", err)
	}
}

func TestReturnPropagatesOutOfNestedBlocks(t *testing.T) {
	out, err := run(t, `
function firstPositive(v)
	let i = 0;
	while i < v.length()
		if v[i] > 0
			return v[i];
		..
		i += 1;
	..
	return 0;
..
function main()
	print(firstPositive([-1, -2, 3, 4]));
..`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out != "3\n" {
		t.Fatalf("got %q", out)
	}
}

func TestMainReceivesArgv(t *testing.T) {
	out, err := run(t, `
function main(argv)
	print(argv.length());
	print(argv[0]);
..`, []string{"one", "two"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if out != "2\none\n" {
		t.Fatalf("got %q", out)
	}
}
