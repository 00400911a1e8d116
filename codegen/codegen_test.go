package codegen_test

import (
	"bytes"
	"testing"

	"github.com/kr/pretty"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yslang/ysc/ast"
	"github.com/yslang/ysc/codegen"
	"github.com/yslang/ysc/errors"
	"github.com/yslang/ysc/parser"
	"github.com/yslang/ysc/token"
	"github.com/ztrue/tracerr"
)

func compile(t *testing.T, src string, s codegen.Settings) *ir.Module {
	t.Helper()

	prog, errs, err := parser.ParseString(src, "test.ys")
	require.NoError(t, err)
	require.Empty(t, errs)

	m, err := codegen.Generate(prog, s)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func generateErr(t *testing.T, src string) error {
	t.Helper()

	prog, errs, err := parser.ParseString(src, "test.ys")
	require.NoError(t, err)
	require.Empty(t, errs)

	m, err := codegen.Generate(prog, codegen.Settings{})
	require.Error(t, err)
	assert.Nil(t, m)
	return err
}

func function(t *testing.T, m *ir.Module, name string) *ir.Func {
	t.Helper()

	for _, fn := range m.Funcs {
		if fn.Name() == name {
			return fn
		}
	}
	t.Fatalf("no function %s in module:\n%s", name, m)
	return nil
}

func insts(fn *ir.Func) []ir.Instruction {
	var all []ir.Instruction
	for _, b := range fn.Blocks {
		all = append(all, b.Insts...)
	}
	return all
}

func isInt(v interface{}, n int64) bool {
	c, ok := v.(*constant.Int)
	return ok && c.X.IsInt64() && c.X.Int64() == n
}

func TestFib(t *testing.T) {
	m := compile(t, `
func fib(n i64) i64 {
	if n <= 1 {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
}

func main() i64 {
	return fib(11);
}
`, codegen.Settings{})

	require.Len(t, m.Funcs, 2)
	fib := function(t, m, "fib")
	main := function(t, m, "main")
	n := fib.Params[0]

	var cmps, calls, adds, condbrs, rets int
	var subs []int64
	for _, inst := range insts(fib) {
		switch inst := inst.(type) {
		case *ir.InstICmp:
			cmps++
			assert.Equal(t, enum.IPredSLE, inst.Pred)
			assert.Equal(t, n, inst.X)
			assert.True(t, isInt(inst.Y, 1))
		case *ir.InstCall:
			calls++
			assert.Equal(t, fib, inst.Callee)
		case *ir.InstSub:
			assert.Equal(t, n, inst.X)
			c, ok := inst.Y.(*constant.Int)
			require.True(t, ok)
			subs = append(subs, c.X.Int64())
		case *ir.InstAdd:
			adds++
		}
	}
	for _, b := range fib.Blocks {
		switch b.Term.(type) {
		case *ir.TermCondBr:
			condbrs++
		case *ir.TermRet:
			rets++
		}
	}

	assert.Equal(t, 1, cmps)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int64{1, 2}, subs)
	assert.Equal(t, 1, adds)
	assert.Equal(t, 1, condbrs)
	assert.Equal(t, 2, rets)

	require.Len(t, main.Blocks, 1)
	entry := main.Blocks[0]
	require.Len(t, entry.Insts, 1)
	call, ok := entry.Insts[0].(*ir.InstCall)
	require.True(t, ok)
	assert.Equal(t, fib, call.Callee)
	require.Len(t, call.Args, 1)
	assert.True(t, isInt(call.Args[0], 11))

	ret, ok := entry.Term.(*ir.TermRet)
	require.True(t, ok)
	assert.Equal(t, call, ret.X)

	assert.Contains(t, m.String(), "define i64 @fib(i64 %n)")
}

func TestFibElse(t *testing.T) {
	m := compile(t, `
func fib(n i64) i64 {
	if n <= 1 {
		return n;
	} else {
		return fib(n - 1) + fib(n - 2);
	}
}
`, codegen.Settings{})

	fib := function(t, m, "fib")
	require.Len(t, fib.Blocks, 4)
	entry, then, els, merge := fib.Blocks[0], fib.Blocks[1], fib.Blocks[2], fib.Blocks[3]

	br, ok := entry.Term.(*ir.TermCondBr)
	require.True(t, ok)
	assert.Equal(t, then, br.TargetTrue)
	assert.Equal(t, els, br.TargetFalse)

	ret, ok := then.Term.(*ir.TermRet)
	require.True(t, ok)
	assert.Equal(t, fib.Params[0], ret.X)

	ret, ok = els.Term.(*ir.TermRet)
	require.True(t, ok)
	_, ok = ret.X.(*ir.InstAdd)
	assert.True(t, ok)

	assert.Equal(t, "ifcont", merge.Name())
	assert.Empty(t, merge.Insts)
	ret, ok = merge.Term.(*ir.TermRet)
	require.True(t, ok)
	assert.True(t, isInt(ret.X, 0))
}

func TestWidths(t *testing.T) {
	t.Run("constants take the slot width", func(t *testing.T) {
		m := compile(t, `
func f() i32 {
	let x i32 = 5;
	let b bool = 1;
	let c i8 = 100;
	x = 7;
	return x;
}
`, codegen.Settings{})

		var stores []*ir.InstStore
		for _, inst := range insts(function(t, m, "f")) {
			if store, ok := inst.(*ir.InstStore); ok {
				stores = append(stores, store)
			}
		}

		require.Len(t, stores, 4)
		assert.Equal(t, types.I32, stores[0].Src.Type())
		assert.True(t, isInt(stores[0].Src, 5))
		assert.Equal(t, types.I1, stores[1].Src.Type())
		assert.Equal(t, types.I8, stores[2].Src.Type())
		assert.Equal(t, types.I32, stores[3].Src.Type())
		assert.True(t, isInt(stores[3].Src, 7))
	})

	t.Run("operands and arguments", func(t *testing.T) {
		m := compile(t, `
func small(x i16) bool { return x < 3; }
func f() bool { return small(2); }
`, codegen.Settings{})

		var cmp *ir.InstICmp
		for _, inst := range insts(function(t, m, "small")) {
			if c, ok := inst.(*ir.InstICmp); ok {
				cmp = c
			}
		}
		require.NotNil(t, cmp)
		assert.Equal(t, types.I16, cmp.Y.Type())

		call, ok := function(t, m, "f").Blocks[0].Insts[0].(*ir.InstCall)
		require.True(t, ok)
		assert.Equal(t, types.I16, call.Args[0].Type())
	})
}

func TestAggregates(t *testing.T) {
	t.Run("struct field", func(t *testing.T) {
		m := compile(t, `
type Point struct { x i64; y i64 }

func f() i64 {
	let p Point;
	p.y = 5;
	return p.y;
}
`, codegen.Settings{})

		f := function(t, m, "f")
		var gep *ir.InstGetElementPtr
		var store *ir.InstStore
		var extract *ir.InstExtractValue
		for _, inst := range insts(f) {
			switch inst := inst.(type) {
			case *ir.InstGetElementPtr:
				gep = inst
			case *ir.InstStore:
				store = inst
			case *ir.InstExtractValue:
				extract = inst
			}
		}

		require.NotNil(t, gep)
		require.Len(t, gep.Indices, 2)
		assert.True(t, isInt(gep.Indices[0], 0))
		assert.True(t, isInt(gep.Indices[1], 1))

		require.NotNil(t, store)
		assert.True(t, isInt(store.Src, 5))
		assert.Equal(t, gep, store.Dst)

		require.NotNil(t, extract)
		assert.Equal(t, []uint64{1}, extract.Indices)
		assert.Equal(t, extract, f.Blocks[0].Term.(*ir.TermRet).X)
	})

	t.Run("array element", func(t *testing.T) {
		m := compile(t, `
func f(i i64) i64 {
	let a [3]i64;
	a[i] = 7;
	return a[1];
}
`, codegen.Settings{})

		f := function(t, m, "f")
		var geps []*ir.InstGetElementPtr
		var loads []*ir.InstLoad
		for _, inst := range insts(f) {
			switch inst := inst.(type) {
			case *ir.InstGetElementPtr:
				geps = append(geps, inst)
			case *ir.InstLoad:
				loads = append(loads, inst)
			}
		}

		require.Len(t, geps, 2)
		assert.Equal(t, f.Params[0], geps[0].Indices[1])
		assert.True(t, isInt(geps[1].Indices[1], 1))

		require.Len(t, loads, 1)
		assert.Equal(t, geps[1], loads[0].Src)
	})
}

func TestDeclarations(t *testing.T) {
	t.Run("call before declaration", func(t *testing.T) {
		m := compile(t, `
func main() i64 { return later(); }
func later() i64 { return 3; }
`, codegen.Settings{})

		call, ok := function(t, m, "main").Blocks[0].Insts[0].(*ir.InstCall)
		require.True(t, ok)
		assert.Equal(t, function(t, m, "later"), call.Callee)
	})

	t.Run("constants fold", func(t *testing.T) {
		m := compile(t, `
const base = 40;
const answer = base + 2;
func main() i64 { return answer; }
`, codegen.Settings{})

		require.Len(t, m.Globals, 2)
		answer := m.Globals[1]
		assert.Equal(t, "answer", answer.Name())
		assert.True(t, answer.Immutable)
		assert.True(t, isInt(answer.Init, 42))

		load, ok := function(t, m, "main").Blocks[0].Insts[0].(*ir.InstLoad)
		require.True(t, ok)
		assert.Equal(t, answer, load.Src)
	})

	t.Run("imports are ignored", func(t *testing.T) {
		m := compile(t, "import io;\nfunc main() i64 { return 0; }", codegen.Settings{})
		assert.Len(t, m.Funcs, 1)
	})

	t.Run("logs declarations", func(t *testing.T) {
		var buf bytes.Buffer
		log := zerolog.New(&buf).Level(zerolog.DebugLevel)

		compile(t, "func main() i64 { return 0; }", codegen.Settings{Logger: &log})
		assert.Contains(t, buf.String(), `"func":"main"`)
		assert.Contains(t, buf.String(), `"component":"codegen"`)
	})
}

func TestControlFlow(t *testing.T) {
	t.Run("default return", func(t *testing.T) {
		m := compile(t, `
func f() i64 { let x i64 = 1; }
func g() void { }
`, codegen.Settings{})

		ret, ok := function(t, m, "f").Blocks[0].Term.(*ir.TermRet)
		require.True(t, ok)
		assert.True(t, isInt(ret.X, 0))

		ret, ok = function(t, m, "g").Blocks[0].Term.(*ir.TermRet)
		require.True(t, ok)
		assert.Nil(t, ret.X)
	})

	t.Run("code after return", func(t *testing.T) {
		m := compile(t, "func f() i64 { return 1; return 2; }", codegen.Settings{})

		f := function(t, m, "f")
		require.Len(t, f.Blocks, 2)
		assert.Equal(t, "unreachable", f.Blocks[1].Name())
		assert.True(t, isInt(f.Blocks[1].Term.(*ir.TermRet).X, 2))
	})

	t.Run("rebinding shadows", func(t *testing.T) {
		m := compile(t, "func f() i64 { let x i64 = 1; let x i64 = 2; return x; }", codegen.Settings{})

		f := function(t, m, "f")
		var slots []*ir.InstAlloca
		var load *ir.InstLoad
		for _, inst := range insts(f) {
			switch inst := inst.(type) {
			case *ir.InstAlloca:
				slots = append(slots, inst)
			case *ir.InstLoad:
				load = inst
			}
		}

		require.Len(t, slots, 2)
		assert.Equal(t, "x", slots[0].Name())
		assert.Equal(t, "x.1", slots[1].Name())
		require.NotNil(t, load)
		assert.Equal(t, slots[1], load.Src)
	})

	t.Run("every block is terminated", func(t *testing.T) {
		m := compile(t, `
func f(a i64, b i64) i64 {
	let r i64 = a;
	if a < b {
		if a == 0 { return b; }
	} else if a > b {
		r = b;
	} else {
		return 0;
	}
	return r;
}
func g(a i64) void {
	if a { return; }
}
`, codegen.Settings{})

		for _, fn := range m.Funcs {
			for _, b := range fn.Blocks {
				assert.NotNil(t, b.Term, "%s: block %s", fn.Name(), b.Name())
			}
		}
	})
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unknown type", "func f() foo { return 1; }", "unknown type foo"},
		{"undefined", "func f() i64 { return y; }", "undefined: y"},
		{"literal target", "func f() i64 { 1 = 2; return 0; }", "BasicLit has no address"},
		{"call target", "func g() i64 { return 0; } func f() i64 { g() = 2; return 0; }", "CallExpr has no address"},
		{"string value", `func f() i64 { return "x"; }`, "unsupported String literal"},
		{"non-constant", "const c = f();\nfunc f() i64 { return 1; }", "initializer of c is not a constant"},
		{"division by zero", "const c = 1 / 0;", "divides by zero"},
		{"redeclared", "func f() i64 { return 0; }\nfunc f() i64 { return 1; }", "f redeclared"},
		{"missing field", "type P struct { x i64 }\nfunc f() i64 { let p P; return p.y; }", "does not have field y"},
		{"void local", "func f() i64 { let x void; return 0; }", "cannot be of type void"},
		{"missing result", "func f() i64 { return; }", "missing return value"},
		{"bool out of range", "func f() i64 { let b bool = 2; return 0; }", "let b: cannot use i64 value as i1"},
		{"i8 out of range", "func f() i64 { let x i8 = 300; return 0; }", "let x: cannot use i64 value as i8"},
		{"wider local", "func f(a i32) i64 { let x i64 = a; return x; }", "let x: cannot use i32 value as i64"},
		{"store into narrower", "func f(a i64) i64 { let x i32; x = a; return 0; }", "assignment: cannot use i64 value as i32"},
		{"return width", "func f(a i32) i64 { return a; }", "return in f: cannot use i32 value as i64"},
		{"mixed operands", "func f(a i32, b i64) i64 { return a + b; }", "cannot use i32 value as i64"},
		{"argument count", "func g(a i64) i64 { return a; }\nfunc f() i64 { return g(1, 2); }", "g takes 1 arguments, got 2"},
		{"argument width", "func g(a i8) i8 { return a; }\nfunc f(x i64) i64 { g(x); return 0; }", "argument 1 of g: cannot use i64 value as i8"},
		{"duplicate parameter", "func f(a i64, a i64) i64 { return a; }", "duplicate parameter a in f"},
		{"struct redeclared", "type P struct { x i64 }\ntype P struct { y i64 }", "type P redeclared"},
		{"alias redeclared", "type N i64\ntype N i32", "type N redeclared"},
		{"parameter target", "func f(a i64) i64 { a = 1; return a; }", "parameter a has no storage slot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := generateErr(t, tt.src)
			assert.Contains(t, err.Error(), tt.msg)

			var gen errors.GenError
			assert.ErrorAs(t, tracerr.Unwrap(err), &gen, pretty.Sprint(err))
		})
	}

	t.Run("duplicate field", func(t *testing.T) {
		err := generateErr(t, "type P struct { x i64; x i64 }")

		var dup errors.DuplicateField
		require.ErrorAs(t, tracerr.Unwrap(err), &dup)
		assert.Equal(t, "x", dup.Name)
	})

	t.Run("unsupported operator", func(t *testing.T) {
		one := &ast.BasicLit{LitKind: token.INT, Value: "1"}
		prog := &ast.Program{Decls: []ast.Decl{&ast.FuncDecl{
			Name: "f",
			Type: &ast.FuncType{Result: &ast.IdentType{Name: &ast.Ident{Name: "i64"}}},
			Body: &ast.BlockStmt{Stmts: []ast.Stmt{
				&ast.ReturnStmt{Results: []ast.Expr{&ast.BinaryExpr{LHS: one, Op: token.COLON, RHS: one}}},
			}},
		}}}

		_, err := codegen.Generate(prog, codegen.Settings{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported operator Colon")
	})
}

func TestTypeInfo(t *testing.T) {
	m := compile(t, "func add(a i64, b i64) i64 { return a + b; }", codegen.Settings{TypeInfo: true})

	var info *ir.Global
	for _, g := range m.Globals {
		if g.Name() == codegen.TypeInfoSymbol {
			info = g
		}
	}
	require.NotNil(t, info)
	assert.True(t, info.Immutable)

	arr, ok := info.Init.(*constant.CharArray)
	require.True(t, ok)
	require.NotEmpty(t, arr.X)
	assert.Equal(t, byte(0), arr.X[len(arr.X)-1])

	decoded, err := codegen.DecodeTypeInfo(string(arr.X[:len(arr.X)-1]))
	require.NoError(t, err)
	assert.Contains(t, decoded.Functions, "add")
	assert.Contains(t, decoded.Functions["add"], "i64")

	m = compile(t, "func add(a i64, b i64) i64 { return a + b; }", codegen.Settings{})
	assert.Empty(t, m.Globals)
}
