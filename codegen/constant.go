package codegen

import (
	"math/big"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/yslang/ysc/ast"
	"github.com/yslang/ysc/errors"
	"github.com/yslang/ysc/token"
)

// constValue folds the initializer of a module-level constant.
func (g *generator) constValue(name string, e ast.Expr) constant.Constant {
	switch expr := e.(type) {
	case *ast.BasicLit:
		if expr.LitKind == token.STRING {
			return constant.NewCharArrayFromString(expr.Value)
		}
		return parseInteger(expr)
	case *ast.Ident:
		if c, ok := g.consts[expr.Name]; ok {
			return c
		}
	case *ast.BinaryExpr:
		x, xok := g.constValue(name, expr.LHS).(*constant.Int)
		y, yok := g.constValue(name, expr.RHS).(*constant.Int)
		if xok && yok {
			return foldInt(name, expr.Op, x, y)
		}
	}

	panic(errors.NewGenError("initializer of %s is not a constant", name))
}

func foldInt(name string, op token.Kind, x, y *constant.Int) constant.Constant {
	r := new(big.Int)

	switch op {
	case token.PLUS:
		r.Add(x.X, y.X)
	case token.MINUS:
		r.Sub(x.X, y.X)
	case token.MUL:
		r.Mul(x.X, y.X)
	case token.DIV:
		if y.X.Sign() == 0 {
			panic(errors.NewGenError("initializer of %s divides by zero", name))
		}
		r.Quo(x.X, y.X)
	case token.EQ:
		return constant.NewBool(x.X.Cmp(y.X) == 0)
	case token.NEQ:
		return constant.NewBool(x.X.Cmp(y.X) != 0)
	case token.LT:
		return constant.NewBool(x.X.Cmp(y.X) < 0)
	case token.LE:
		return constant.NewBool(x.X.Cmp(y.X) <= 0)
	case token.GT:
		return constant.NewBool(x.X.Cmp(y.X) > 0)
	case token.GE:
		return constant.NewBool(x.X.Cmp(y.X) >= 0)
	default:
		panic(errors.NewGenError("initializer of %s is not a constant", name))
	}

	if !r.IsInt64() {
		panic(errors.NewGenError("initializer of %s overflows 64 bits", name))
	}
	return constant.NewInt(types.I64, r.Int64())
}
