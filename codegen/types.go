package codegen

import (
	"github.com/llir/llvm/ir/types"
	"github.com/yslang/ysc/ast"
	"github.com/yslang/ysc/errors"
)

var primitives = map[string]types.Type{
	"i8":   types.I8,
	"i16":  types.I16,
	"i32":  types.I32,
	"i64":  types.I64,
	"bool": types.I1,
	"void": types.Void,
}

// structLayout maps field names to their position in the aggregate.
type structLayout map[string]int

func (g *generator) lookupType(id *ast.Ident) types.Type {
	if t, ok := g.aliases[id.Name]; ok {
		return t
	}

	for _, t := range g.module.TypeDefs {
		if t.Name() == id.Name {
			return t
		}
	}

	if t, ok := primitives[id.Name]; ok {
		return t
	}

	panic(errors.NewGenError("%s: unknown type %s", id.NamePos.From, id.Name))
}

func (g *generator) resolveType(t ast.Type) types.Type {
	switch kind := t.(type) {
	case *ast.IdentType:
		return g.lookupType(kind.Name)
	case *ast.StructType:
		return g.structType(kind)
	case *ast.FuncType:
		// function values are carried around as pointers
		return types.NewPointer(g.funcSig(kind))
	case *ast.ArrayType:
		if kind.Len < 0 {
			panic(errors.NewGenError("array length %d is negative", kind.Len))
		}
		return types.NewArray(uint64(kind.Len), g.resolveType(kind.Elem))
	}

	panic(errors.NewGenError("unsupported type %T", t))
}

func (g *generator) structType(s *ast.StructType) *types.StructType {
	layout := structLayout{}
	var fields []types.Type

	for idx, field := range s.Fields {
		if _, ok := layout[field.Name.Name]; ok {
			panic(errors.DuplicateField{Name: field.Name.Name, Location: field.Name.NamePos})
		}
		layout[field.Name.Name] = idx
		fields = append(fields, g.resolveType(field.Type))
	}

	st := types.NewStruct(fields...)
	g.layouts[st] = layout
	return st
}

func (g *generator) funcSig(f *ast.FuncType) *types.FuncType {
	var params []types.Type
	for _, field := range f.Fields {
		params = append(params, g.resolveType(field.Type))
	}

	var ret types.Type = types.Void
	if f.Result != nil {
		ret = g.resolveType(f.Result)
	}

	return types.NewFunc(ret, params...)
}

func (g *generator) fieldIndex(st *types.StructType, ref *ast.Ident) int {
	layout, ok := g.layouts[st]
	if !ok {
		panic(errors.NewGenError("%s: no layout recorded for struct type %s", ref.NamePos.From, st))
	}

	idx, ok := layout[ref.Name]
	if !ok {
		panic(errors.NewGenError("%s: struct type %s does not have field %s", ref.NamePos.From, st, ref.Name))
	}
	return idx
}

// pointee is the type stored behind an address produced by address mode.
func pointee(addr interface{ Type() types.Type }) types.Type {
	return addr.Type().(*types.PointerType).ElemType
}
