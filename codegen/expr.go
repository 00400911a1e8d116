package codegen

import (
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/yslang/ysc/ast"
	"github.com/yslang/ysc/errors"
	"github.com/yslang/ysc/token"
)

var predicates = map[token.Kind]enum.IPred{
	token.EQ:  enum.IPredEQ,
	token.NEQ: enum.IPredNE,
	token.LT:  enum.IPredSLT,
	token.LE:  enum.IPredSLE,
	token.GT:  enum.IPredSGT,
	token.GE:  enum.IPredSGE,
}

func i32(n int64) *constant.Int {
	return constant.NewInt(types.I32, n)
}

func parseInteger(lit *ast.BasicLit) *constant.Int {
	if lit.LitKind != token.INT {
		panic(errors.NewGenError("unsupported %s literal %q", lit.LitKind, lit.Value))
	}

	n, err := strconv.ParseInt(lit.Value, 10, 64)
	if err != nil {
		panic(errors.NewGenError("integer literal %s does not fit in 64 bits", lit.Value))
	}
	return constant.NewInt(types.I64, n)
}

// value lowers e to the value it computes.
func (g *generator) value(e ast.Expr) value.Value {
	switch expr := e.(type) {
	case *ast.Ident:
		return g.identValue(expr)
	case *ast.BasicLit:
		return parseInteger(expr)
	case *ast.CallExpr:
		return g.call(expr)
	case *ast.BinaryExpr:
		if expr.Op == token.ASSIGN {
			return g.assign(expr)
		}
		return g.binary(expr)
	case *ast.RefExpr:
		recv := g.value(expr.Receiver)
		st, ok := recv.Type().(*types.StructType)
		if !ok {
			panic(errors.NewGenError("%s: field %s of non-struct type %s", expr.Ref.NamePos.From, expr.Ref.Name, recv.Type()))
		}
		return g.block.NewExtractValue(recv, uint64(g.fieldIndex(st, expr.Ref)))
	case *ast.IndexExpr:
		addr := g.mustAddress(expr)
		return g.block.NewLoad(pointee(addr), addr)
	}

	panic(errors.NewGenError("unsupported expression %s", e.Kind()))
}

// address lowers e to the location it names. Expressions that do not name
// storage report errors.NoAddress.
func (g *generator) address(e ast.Expr) (value.Value, error) {
	switch expr := e.(type) {
	case *ast.Ident:
		if slot, ok := g.locals[expr.Name]; ok {
			return slot, nil
		}
		if _, ok := g.params[expr.Name]; ok {
			panic(errors.NewGenError("%s: parameter %s has no storage slot", expr.NamePos.From, expr.Name))
		}
		panic(errors.NewGenError("%s: undefined: %s", expr.NamePos.From, expr.Name))
	case *ast.RefExpr:
		recv := g.mustAddress(expr.Receiver)
		st, ok := pointee(recv).(*types.StructType)
		if !ok {
			panic(errors.NewGenError("%s: field %s of non-struct type %s", expr.Ref.NamePos.From, expr.Ref.Name, pointee(recv)))
		}
		idx := g.fieldIndex(st, expr.Ref)
		return g.block.NewGetElementPtr(st, recv, i32(0), i32(int64(idx))), nil
	case *ast.IndexExpr:
		recv := g.mustAddress(expr.Receiver)
		at, ok := pointee(recv).(*types.ArrayType)
		if !ok {
			panic(errors.NewGenError("cannot index non-array type %s", pointee(recv)))
		}
		idx := g.value(expr.Index)
		return g.block.NewGetElementPtr(at, recv, constant.NewInt(types.I64, 0), idx), nil
	case *ast.BasicLit, *ast.CallExpr, *ast.BinaryExpr:
		return nil, errors.NoAddress{Kind: e.Kind()}
	}

	return nil, errors.NoAddress{Kind: e.Kind()}
}

func (g *generator) mustAddress(e ast.Expr) value.Value {
	addr, err := g.address(e)
	if err != nil {
		panic(errors.NewGenError("invalid assignment target: %s", err))
	}
	return addr
}

func (g *generator) identValue(id *ast.Ident) value.Value {
	if slot, ok := g.locals[id.Name]; ok {
		return g.block.NewLoad(slot.ElemType, slot)
	}
	if param, ok := g.params[id.Name]; ok {
		return param
	}
	if global, ok := g.globals[id.Name]; ok {
		return g.block.NewLoad(global.ContentType, global)
	}
	if fn, ok := g.funcs[id.Name]; ok {
		return fn
	}

	panic(errors.NewGenError("%s: undefined: %s", id.NamePos.From, id.Name))
}

func (g *generator) lookupFunc(callee ast.Expr) *ir.Func {
	id, ok := callee.(*ast.Ident)
	if !ok {
		panic(errors.NewGenError("cannot call %s, only functions can be called by name", callee.Kind()))
	}

	fn, ok := g.funcs[id.Name]
	if !ok {
		panic(errors.NewGenError("%s: %s is not a function", id.NamePos.From, id.Name))
	}
	return fn
}

func (g *generator) call(e *ast.CallExpr) value.Value {
	fn := g.lookupFunc(e.Func)
	if len(e.Args) != len(fn.Sig.Params) {
		panic(errors.NewGenError("%s takes %d arguments, got %d", fn.Name(), len(fn.Sig.Params), len(e.Args)))
	}

	var args []value.Value
	for i, arg := range e.Args {
		what := fmt.Sprintf("argument %d of %s", i+1, fn.Name())
		args = append(args, fit(g.value(arg), fn.Sig.Params[i], what))
	}

	return g.block.NewCall(fn, args...)
}

// assign stores the right side into the location named by the left side and
// yields the stored value.
func (g *generator) assign(e *ast.BinaryExpr) value.Value {
	dst := g.mustAddress(e.LHS)
	src := fit(g.value(e.RHS), pointee(dst), "assignment")

	g.block.NewStore(src, dst)
	return src
}

func (g *generator) binary(e *ast.BinaryExpr) value.Value {
	x, y := g.operands(e)

	switch e.Op {
	case token.PLUS:
		return g.block.NewAdd(x, y)
	case token.MINUS:
		return g.block.NewSub(x, y)
	case token.MUL:
		return g.block.NewMul(x, y)
	case token.DIV:
		return g.block.NewSDiv(x, y)
	}

	if pred, ok := predicates[e.Op]; ok {
		return g.block.NewICmp(pred, x, y)
	}

	panic(errors.NewGenError("unsupported operator %s", e.Op))
}

// operands lowers both sides of a binary expression. A constant side takes
// the width of the other side; otherwise the types must already agree.
func (g *generator) operands(e *ast.BinaryExpr) (x, y value.Value) {
	x = g.value(e.LHS)
	y = g.value(e.RHS)

	if _, ok := y.(*constant.Int); ok {
		return x, fit(y, x.Type(), "operand of "+e.Op.Operator())
	}
	return fit(x, y.Type(), "operand of "+e.Op.Operator()), y
}

// fit adapts v to type to. Integer constants are narrowed when their value
// fits the target width; any other mismatch is an error.
func fit(v value.Value, to types.Type, what string) value.Value {
	if v.Type().Equal(to) {
		return v
	}

	c, isConst := v.(*constant.Int)
	it, isInt := to.(*types.IntType)
	if isConst && isInt && fitsWidth(c, it.BitSize) {
		return constant.NewInt(it, c.X.Int64())
	}

	panic(errors.NewGenError("%s: cannot use %s value as %s", what, v.Type(), to))
}

func fitsWidth(c *constant.Int, bits uint64) bool {
	if !c.X.IsInt64() {
		return false
	}
	n := c.X.Int64()

	switch {
	case bits == 1:
		return n == 0 || n == 1
	case bits >= 64:
		return true
	}
	lo := -(int64(1) << (bits - 1))
	hi := int64(1)<<(bits-1) - 1
	return n >= lo && n <= hi
}
