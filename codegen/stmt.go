package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/yslang/ysc/ast"
	"github.com/yslang/ysc/errors"
)

func (g *generator) lowerBlock(b *ast.BlockStmt) {
	for _, stmt := range b.Stmts {
		g.lowerStmt(stmt)
	}
}

func (g *generator) lowerStmt(stmt ast.Stmt) {
	// whatever follows a return goes into a block nothing branches to
	if g.block.Term != nil {
		g.block = g.fn.NewBlock(g.localName("unreachable"))
	}

	switch s := stmt.(type) {
	case *ast.BlockStmt:
		g.lowerBlock(s)
	case *ast.LetStmt:
		g.lowerLet(s)
	case *ast.ReturnStmt:
		g.lowerReturn(s)
	case *ast.IfStmt:
		g.lowerIf(s)
	case *ast.ExprStmt:
		g.value(s.Expr)
	default:
		panic(errors.NewGenError("unsupported statement %s", stmt.Kind()))
	}
}

func (g *generator) lowerLet(s *ast.LetStmt) {
	var typ types.Type
	var val value.Value

	if s.Type != nil {
		typ = g.resolveType(s.Type)
	}
	if s.Expr != nil {
		val = g.value(s.Expr)
		if typ == nil {
			typ = val.Type()
		}
		val = fit(val, typ, "let "+s.Ident.Name)
	}

	if typ == nil {
		panic(errors.NewGenError("%s: let %s has neither a type nor an initializer", s.Ident.NamePos.From, s.Ident.Name))
	}
	if types.IsVoid(typ) {
		panic(errors.NewGenError("%s: %s cannot be of type void", s.Ident.NamePos.From, s.Ident.Name))
	}

	slot := g.block.NewAlloca(typ)
	slot.SetName(g.localName(s.Ident.Name))
	if val != nil {
		g.block.NewStore(val, slot)
	}

	g.locals[s.Ident.Name] = slot
}

func (g *generator) lowerReturn(s *ast.ReturnStmt) {
	void := types.IsVoid(g.fn.Sig.RetType)

	switch len(s.Results) {
	case 0:
		if !void {
			panic(errors.NewGenError("%s: missing return value", g.fn.Name()))
		}
		g.block.NewRet(nil)
	case 1:
		if void {
			panic(errors.NewGenError("%s: void function returns a value", g.fn.Name()))
		}
		g.block.NewRet(fit(g.value(s.Results[0]), g.fn.Sig.RetType, "return in "+g.fn.Name()))
	default:
		panic(errors.NewGenError("%s: multiple return values are not supported", g.fn.Name()))
	}
}

func (g *generator) lowerIf(s *ast.IfStmt) {
	cond := g.condition(g.value(s.Cond))

	thenBloc := g.fn.NewBlock(g.localName("then"))
	elseBloc := g.fn.NewBlock(g.localName("else"))
	mergeBloc := g.fn.NewBlock(g.localName("ifcont"))

	g.block.NewCondBr(cond, thenBloc, elseBloc)

	g.block = thenBloc
	g.lowerBlock(s.Then)
	g.branchTo(mergeBloc)

	g.block = elseBloc
	switch e := s.Else.(type) {
	case *ast.BlockStmt:
		g.lowerBlock(e)
	case *ast.IfStmt:
		g.lowerIf(e)
	case nil:
	default:
		panic(errors.NewGenError("unsupported else branch %s", e.Kind()))
	}
	g.branchTo(mergeBloc)

	g.block = mergeBloc
}

// branchTo falls through to target unless the current block already ended.
func (g *generator) branchTo(target *ir.Block) {
	if g.block.Term == nil {
		g.block.NewBr(target)
	}
}

// condition turns v into an i1, comparing integers against zero.
func (g *generator) condition(v value.Value) value.Value {
	t, ok := v.Type().(*types.IntType)
	if !ok {
		panic(errors.NewGenError("condition of type %s is not a boolean", v.Type()))
	}
	if t.BitSize == 1 {
		return v
	}
	return g.block.NewICmp(enum.IPredNE, v, constant.NewInt(t, 0))
}
