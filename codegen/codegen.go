// Package codegen lowers a parsed ys program to LLVM IR.
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/rs/zerolog"
	"github.com/yslang/ysc/ast"
	"github.com/yslang/ysc/errors"
	"github.com/ztrue/tracerr"
)

type Settings struct {
	// TypeInfo embeds the function signatures as JSON under TypeInfoSymbol.
	TypeInfo bool
	Logger   *zerolog.Logger
}

type generator struct {
	log    zerolog.Logger
	module *ir.Module

	aliases map[string]types.Type
	named   map[string]bool
	layouts map[*types.StructType]structLayout
	funcs   map[string]*ir.Func
	globals map[string]*ir.Global
	consts  map[string]constant.Constant

	// state of the function being lowered
	fn     *ir.Func
	block  *ir.Block
	locals map[string]*ir.InstAlloca
	params map[string]*ir.Param
	names  map[string]int
}

func newGenerator(s Settings) *generator {
	g := &generator{
		log:     zerolog.Nop(),
		module:  ir.NewModule(),
		aliases: map[string]types.Type{},
		named:   map[string]bool{},
		layouts: map[*types.StructType]structLayout{},
		funcs:   map[string]*ir.Func{},
		globals: map[string]*ir.Global{},
		consts:  map[string]constant.Constant{},
	}
	if s.Logger != nil {
		g.log = s.Logger.With().Str("component", "codegen").Logger()
	}
	return g
}

// Generate lowers prog into a fresh module. The program must come from a
// parse that recorded no errors. Any inconsistency aborts generation and no
// module is returned.
func Generate(prog *ast.Program, s Settings) (mod *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case errors.GenError, errors.DuplicateField:
				mod = nil
				err = tracerr.Wrap(e.(error))
			default:
				panic(r)
			}
		}
	}()

	g := newGenerator(s)
	g.module.SourceFilename = prog.Path

	// functions are declared before any body is lowered so that calls may
	// refer to functions further down the file
	for _, decl := range prog.Decls {
		g.declare(decl)
	}
	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			g.funcBody(fn)
		}
	}

	if s.TypeInfo {
		registerTypeInfoWithModule(collectTypeInfo(g.module), g.module)
	}

	return g.module, nil
}

func (g *generator) checkUnique(name string) {
	_, isFunc := g.funcs[name]
	_, isGlobal := g.globals[name]
	if isFunc || isGlobal {
		panic(errors.NewGenError("%s redeclared", name))
	}
}

func (g *generator) declare(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		g.checkUnique(d.Name)

		sig := g.funcSig(d.Type)
		seen := map[string]bool{}
		var params []*ir.Param
		for i, field := range d.Type.Fields {
			if seen[field.Name.Name] {
				panic(errors.NewGenError("%s: duplicate parameter %s in %s", field.Name.NamePos.From, field.Name.Name, d.Name))
			}
			seen[field.Name.Name] = true
			params = append(params, ir.NewParam(field.Name.Name, sig.Params[i]))
		}

		g.funcs[d.Name] = g.module.NewFunc(d.Name, sig.RetType, params...)
		g.log.Debug().Str("func", d.Name).Str("sig", sig.String()).Msg("declared function")
	case *ast.ConstDecl:
		g.checkUnique(d.Name)

		c := g.constValue(d.Name, d.Expr)
		global := g.module.NewGlobalDef(d.Name, c)
		global.Immutable = true

		g.globals[d.Name] = global
		g.consts[d.Name] = c
		g.log.Debug().Str("const", d.Name).Msg("declared constant")
	case *ast.TypeDecl:
		if g.named[d.Name.Name] {
			panic(errors.NewGenError("%s: type %s redeclared", d.Name.NamePos.From, d.Name.Name))
		}
		g.named[d.Name.Name] = true

		if s, ok := d.Type.(*ast.StructType); ok {
			g.module.NewTypeDef(d.Name.Name, g.structType(s))
		} else {
			g.aliases[d.Name.Name] = g.resolveType(d.Type)
		}
		g.log.Debug().Str("type", d.Name.Name).Msg("declared type")
	case *ast.ImportDecl:
		// packages are not resolved; the import only documents intent
		g.log.Debug().Str("package", d.Package.Name).Msg("ignoring import")
	default:
		panic(errors.NewGenError("unsupported declaration %s", decl.Kind()))
	}
}

func (g *generator) funcBody(d *ast.FuncDecl) {
	fn := g.funcs[d.Name]

	g.fn = fn
	g.locals = map[string]*ir.InstAlloca{}
	g.params = map[string]*ir.Param{}
	g.names = map[string]int{}

	for _, param := range fn.Params {
		g.params[param.Name()] = param
		g.names[param.Name()]++
	}

	g.block = fn.NewBlock(g.localName("entry"))
	g.lowerBlock(d.Body)

	if g.block.Term == nil {
		g.defaultReturn()
	}

	g.log.Debug().Str("func", d.Name).Int("blocks", len(fn.Blocks)).Msg("lowered function")
	g.fn, g.block, g.locals, g.params = nil, nil, nil, nil
}

// defaultReturn terminates the current block with the zero value of the
// function's result type.
func (g *generator) defaultReturn() {
	ret := g.fn.Sig.RetType

	switch t := ret.(type) {
	case *types.VoidType:
		g.block.NewRet(nil)
	case *types.IntType:
		g.block.NewRet(constant.NewInt(t, 0))
	default:
		g.block.NewRet(constant.NewZeroInitializer(ret))
	}
}

// localName hands out function-unique names for slots and blocks, which
// share one namespace in the IR.
func (g *generator) localName(base string) string {
	n := g.names[base]
	g.names[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, n)
}
