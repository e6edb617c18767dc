package lower

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheellang/wheel/compiler/front"
	"github.com/wheellang/wheel/compiler/ir"
)

func compile(t *testing.T, src string) *ir.Module {
	t.Helper()

	m, err := tryCompile(src)
	require.NoError(t, err)

	return m
}

func tryCompile(src string) (*ir.Module, error) {
	ctx := context.Background()

	prog, err := front.Parse(ctx, []byte(src))
	if err != nil {
		return nil, err
	}

	return Lower(ctx, prog)
}

func text(t *testing.T, m *ir.Module) string {
	t.Helper()

	b, err := ir.Text(m)
	require.NoError(t, err)

	return string(b)
}

func TestReferenceProgram(t *testing.T) {
	m := compile(t, `
fn foo() -> i32 {
    let a: i32 = 5 + 5;
    let b: i32 = a + 5 * 7;
    return b + a;
}
`)

	assert.Equal(t, `L0: t0 = 5
    t1 = 5
    t2 = t0 + t1
    x0 = t2
    t3 = x0
    t4 = 5
    t5 = 7
    t6 = t4 * t5
    t7 = t3 + t6
    x1 = t7
    t8 = x1
    t9 = x0
    t10 = t8 + t9
    ret t10
`, text(t, m))
}

func TestSmallestFunction(t *testing.T) {
	m := compile(t, "fn z() -> i32 { return 1; }")

	require.Len(t, m.Funcs, 1)
	assert.Equal(t, []ir.Instr{
		ir.Label{Index: 0},
		ir.Const{Dst: 0, Value: 1},
		ir.Ret{Src: 0},
	}, m.Funcs[0].Code)

	assert.Equal(t, "L0: t0 = 1\n    ret t0\n", text(t, m))
}

func TestShadowing(t *testing.T) {
	m := compile(t, `
fn shadow() -> i32 {
    let a: i32 = 1;
    let a: i32 = a + 1;
    return a;
}
`)

	code := m.Funcs[0].Code

	// instructions referencing the first slot are untouched by the rebind
	assert.Equal(t, ir.Store{Dst: 0, Src: 0}, code[2])
	assert.Equal(t, ir.Load{Dst: 1, Src: 0}, code[3])

	// the rebind made a fresh slot and reads resolve to it
	assert.Equal(t, ir.Store{Dst: 1, Src: 3}, code[6])
	assert.Equal(t, ir.Load{Dst: 4, Src: 1}, code[7])
}

func TestSlotsDense(t *testing.T) {
	m := compile(t, `
fn f(p: i32, q: i32) -> i32 {
    let a: i32 = p;
    let b: i32 = q + a;
    return b;
}
`)

	f := m.Funcs[0]
	assert.Equal(t, 2, f.In)

	seen := map[ir.Slot]bool{}

	for _, x := range f.Code {
		switch x := x.(type) {
		case ir.Load:
			seen[x.Src] = true
		case ir.Store:
			seen[x.Dst] = true
		}
	}

	// slots are exactly x0..x(P+N-1)
	assert.Len(t, seen, 4)
	for s := ir.Slot(0); s < 4; s++ {
		assert.True(t, seen[s], "slot %v", s)
	}
}

func TestTempsDenseSingleAssignment(t *testing.T) {
	m := compile(t, `
fn g() -> i32 { return 2; }

fn f(p: i32) -> i32 {
    let a: i32 = p * 3 + g();
    return a + g();
}
`)

	for _, f := range m.Funcs {
		next := ir.Temp(0)

		for _, x := range f.Code {
			var dst ir.Temp

			switch x := x.(type) {
			case ir.Const:
				dst = x.Dst
			case ir.Load:
				dst = x.Dst
			case ir.BinOp:
				dst = x.Dst
			case ir.Call:
				dst = x.Dst
			default:
				continue
			}

			// every temp is defined once, in strict emission order
			assert.Equal(t, next, dst, "func %v", f.Name)
			next++
		}
	}
}

func TestEvaluationOrder(t *testing.T) {
	m := compile(t, `
fn pick(a: i32, b: i32, c: i32) -> i32 {
    return a + b * c;
}
`)

	assert.Equal(t, []ir.Instr{
		ir.Label{Index: 0},
		ir.Load{Dst: 0, Src: 0},
		ir.Load{Dst: 1, Src: 1},
		ir.Load{Dst: 2, Src: 2},
		ir.BinOp{Dst: 3, Op: ir.Mul, Left: 1, Right: 2},
		ir.BinOp{Dst: 4, Op: ir.Add, Left: 0, Right: 3},
		ir.Ret{Src: 4},
	}, m.Funcs[0].Code)
}

func TestCallLowering(t *testing.T) {
	m := compile(t, `
fn add(a: i32, b: i32) -> i32 { return a + b; }

fn main() -> i32 { return add(1, 2 + 3); }
`)

	require.Len(t, m.Funcs, 2)

	assert.Equal(t, []ir.Instr{
		ir.Label{Index: 1},
		ir.Const{Dst: 0, Value: 1},
		ir.Const{Dst: 1, Value: 2},
		ir.Const{Dst: 2, Value: 3},
		ir.BinOp{Dst: 3, Op: ir.Add, Left: 1, Right: 2},
		ir.Call{Dst: 4, Func: "add", Args: []ir.Temp{0, 3}},
		ir.Ret{Src: 4},
	}, m.Funcs[1].Code)
}

func TestLabelsAcrossProgram(t *testing.T) {
	m := compile(t, `
fn a() -> i32 { return 1; }

struct S { v: i32 }

fn b() -> i32 { return 2; }
`)

	require.Len(t, m.Funcs, 2)

	// structs take no label numbers
	assert.Equal(t, ir.Label{Index: 0}, m.Funcs[0].Code[0])
	assert.Equal(t, ir.Label{Index: 1}, m.Funcs[1].Code[0])
}

func TestTrailingExpr(t *testing.T) {
	m := compile(t, "fn f() -> i32 { 2 * 3; }")

	assert.Equal(t, []ir.Instr{
		ir.Label{Index: 0},
		ir.Const{Dst: 0, Value: 2},
		ir.Const{Dst: 1, Value: 3},
		ir.BinOp{Dst: 2, Op: ir.Mul, Left: 0, Right: 1},
		ir.Ret{Src: 2},
	}, m.Funcs[0].Code)
}

func TestDiscardedExprStmt(t *testing.T) {
	m := compile(t, `
fn g() -> i32 { return 1; }

fn f() -> i32 {
    g();
    return 2;
}
`)

	assert.Equal(t, []ir.Instr{
		ir.Label{Index: 1},
		ir.Call{Dst: 0, Func: "g", Args: []ir.Temp{}},
		ir.Const{Dst: 1, Value: 2},
		ir.Ret{Src: 1},
	}, m.Funcs[1].Code)
}

func TestStructMetadata(t *testing.T) {
	m := compile(t, `
struct Pair { first: i32, second: i32 }

struct Unit();

fn main() -> i32 { return 0; }
`)

	require.Len(t, m.Types, 2)

	assert.Equal(t, &ir.TypeDecl{
		Name: "Pair",
		Fields: []ir.FieldDecl{
			{Name: "first", Type: "i32"},
			{Name: "second", Type: "i32"},
		},
	}, m.Types[0])

	assert.Equal(t, &ir.TypeDecl{Name: "Unit", Positional: true}, m.Types[1])
}

func TestRecursionAllowed(t *testing.T) {
	m := compile(t, "fn f() -> i32 { return f(); }")

	assert.Equal(t, ir.Call{Dst: 0, Func: "f", Args: []ir.Temp{}}, m.Funcs[0].Code[1])
}

func TestUnknownFunction(t *testing.T) {
	m, err := tryCompile("fn main() -> i32 { return missing(); }")
	require.Error(t, err)
	assert.Nil(t, m)

	var e UnknownFunctionError
	require.ErrorAs(t, err, &e)

	assert.Equal(t, "missing", e.Name)
	assert.Equal(t, 1, e.Pos.Line)
	assert.Equal(t, 27, e.Pos.Col)
}

func TestForwardReferenceFails(t *testing.T) {
	_, err := tryCompile(`
fn a() -> i32 { return b(); }

fn b() -> i32 { return 1; }
`)
	require.Error(t, err)

	var e UnknownFunctionError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "b", e.Name)
}

func TestArityMismatch(t *testing.T) {
	_, err := tryCompile(`
fn add(a: i32, b: i32) -> i32 { return a + b; }

fn main() -> i32 { return add(1); }
`)
	require.Error(t, err)

	var e ArityMismatchError
	require.ErrorAs(t, err, &e)

	assert.Equal(t, "add", e.Name)
	assert.Equal(t, 2, e.Want)
	assert.Equal(t, 1, e.Got)
}

func TestUndefinedIdentifier(t *testing.T) {
	_, err := tryCompile("fn main() -> i32 { return a + 1; }")
	require.Error(t, err)

	var e UndefinedIdentifierError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "a", e.Name)
}

func TestMissingReturn(t *testing.T) {
	for _, src := range []string{
		"fn f() -> i32 { let a: i32 = 1; }",
		"fn f() -> i32 {}",
	} {
		_, err := tryCompile(src)
		require.Error(t, err, "src: %v", src)

		var e MissingReturnError
		require.ErrorAs(t, err, &e, "src: %v", src)
		assert.Equal(t, "f", e.Func)
	}
}

func TestUnreachableCode(t *testing.T) {
	_, err := tryCompile("fn f() -> i32 { return 1; 2; }")
	require.Error(t, err)

	var e UnreachableCodeError
	require.ErrorAs(t, err, &e)
}

func TestRedeclared(t *testing.T) {
	_, err := tryCompile(`
fn f() -> i32 { return 1; }

fn f() -> i32 { return 2; }
`)
	require.Error(t, err)

	var e RedeclaredError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "f", e.Name)
}
