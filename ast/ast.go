// Package ast declares the syntax tree of a ys source file.
//
// Every node family (Decl, Stmt, Expr, Type and the Else branch of an if
// statement) is a closed set of pointer types; see nodes.adt for the
// membership, from which kinds_gen.go is generated.
package ast

//go:generate sh -c "cd ../tool && go run . ../ast/nodes.adt ../ast/kinds_gen.go ast"

import (
	"github.com/yslang/ysc/dump"
	"github.com/yslang/ysc/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	// Kind is the variant name, e.g. "FuncDecl".
	Kind() string
	Dump() dump.Value
}

type Program struct {
	Path  string
	Decls []Decl
}

func (p *Program) Kind() string { return "Program" }

func (p *Program) Dump() dump.Value {
	decls := dump.Array{}
	for _, decl := range p.Decls {
		decls = append(decls, decl.Dump())
	}
	return dump.Node(p.Kind()).
		Set("path", dump.String(p.Path)).
		Set("decls", decls)
}

// Declarations

type FuncDecl struct {
	Name string
	Type *FuncType
	Body *BlockStmt
}

type ConstDecl struct {
	Name string
	Expr Expr
}

type ImportDecl struct {
	Package *Ident
}

type TypeDecl struct {
	Name *Ident
	Type Type
}

func (d *FuncDecl) Dump() dump.Value {
	return dump.Node(d.Kind()).
		Set("name", dump.String(d.Name)).
		Set("type", d.Type.Dump()).
		Set("body", d.Body.Dump())
}

func (d *ConstDecl) Dump() dump.Value {
	return dump.Node(d.Kind()).
		Set("name", dump.String(d.Name)).
		Set("expr", d.Expr.Dump())
}

func (d *ImportDecl) Dump() dump.Value {
	return dump.Node(d.Kind()).Set("package", d.Package.Dump())
}

func (d *TypeDecl) Dump() dump.Value {
	return dump.Node(d.Kind()).
		Set("name", d.Name.Dump()).
		Set("type", d.Type.Dump())
}

// Statements

type BlockStmt struct {
	Stmts []Stmt
}

type LetStmt struct {
	Ident *Ident
	Type  Type // may be nil
	Expr  Expr // may be nil
}

type ReturnStmt struct {
	Results []Expr
}

type IfStmt struct {
	Cond Expr
	Then *BlockStmt
	Else Else // nil, *BlockStmt or *IfStmt
}

type ExprStmt struct {
	Expr Expr
}

func (s *BlockStmt) Dump() dump.Value {
	stmts := dump.Array{}
	for _, stmt := range s.Stmts {
		stmts = append(stmts, stmt.Dump())
	}
	return dump.Node(s.Kind()).Set("stmts", stmts)
}

func (s *LetStmt) Dump() dump.Value {
	o := dump.Node(s.Kind()).Set("ident", s.Ident.Dump())
	if s.Type != nil {
		o.Set("type", s.Type.Dump())
	}
	if s.Expr != nil {
		o.Set("expr", s.Expr.Dump())
	}
	return o
}

func (s *ReturnStmt) Dump() dump.Value {
	results := dump.Array{}
	for _, expr := range s.Results {
		results = append(results, expr.Dump())
	}
	return dump.Node(s.Kind()).Set("results", results)
}

func (s *IfStmt) Dump() dump.Value {
	o := dump.Node(s.Kind()).
		Set("cond", s.Cond.Dump()).
		Set("then_block", s.Then.Dump())
	if s.Else != nil {
		o.Set("else_block", s.Else.Dump())
	}
	return o
}

func (s *ExprStmt) Dump() dump.Value {
	return dump.Node(s.Kind()).Set("expr", s.Expr.Dump())
}

// Expressions

type Ident struct {
	Name    string
	NamePos token.Span
}

type BasicLit struct {
	LitKind token.Kind // INT or STRING
	Value   string
}

type CallExpr struct {
	Func Expr
	Args []Expr
}

type BinaryExpr struct {
	LHS Expr
	Op  token.Kind
	RHS Expr
}

// RefExpr is a field reference, Receiver.Ref.
type RefExpr struct {
	Receiver Expr
	Ref      *Ident
}

type IndexExpr struct {
	Receiver Expr
	Index    Expr
}

func (e *Ident) Dump() dump.Value {
	return dump.Node(e.Kind()).Set("name", dump.String(e.Name))
}

func (e *BasicLit) Dump() dump.Value {
	return dump.Node(e.Kind()).
		Set("type", dump.String(e.LitKind.String())).
		Set("value", dump.String(e.Value))
}

func (e *CallExpr) Dump() dump.Value {
	args := dump.Array{}
	for _, arg := range e.Args {
		args = append(args, arg.Dump())
	}
	return dump.Node(e.Kind()).
		Set("func", e.Func.Dump()).
		Set("args", args)
}

func (e *BinaryExpr) Dump() dump.Value {
	return dump.Node(e.Kind()).
		Set("lhs", e.LHS.Dump()).
		Set("op", dump.String(e.Op.String())).
		Set("rhs", e.RHS.Dump())
}

func (e *RefExpr) Dump() dump.Value {
	return dump.Node(e.Kind()).
		Set("receiver", e.Receiver.Dump()).
		Set("ref", e.Ref.Dump())
}

func (e *IndexExpr) Dump() dump.Value {
	return dump.Node(e.Kind()).
		Set("receiver", e.Receiver.Dump()).
		Set("index", e.Index.Dump())
}

// Types

// Field is a named struct member or function parameter.
type Field struct {
	Name *Ident
	Type Type
}

func (f Field) Dump() dump.Value {
	return dump.Node("Field").
		Set("name", f.Name.Dump()).
		Set("type", f.Type.Dump())
}

func dumpFields(fields []Field) dump.Array {
	out := dump.Array{}
	for _, f := range fields {
		out = append(out, f.Dump())
	}
	return out
}

type IdentType struct {
	Name *Ident
}

type StructType struct {
	Fields []Field
}

type FuncType struct {
	Fields []Field
	Result Type
}

type ArrayType struct {
	Len  int64
	Elem Type
}

func (t *IdentType) Dump() dump.Value {
	return dump.Node(t.Kind()).Set("name", t.Name.Dump())
}

func (t *StructType) Dump() dump.Value {
	return dump.Node(t.Kind()).Set("fields", dumpFields(t.Fields))
}

func (t *FuncType) Dump() dump.Value {
	o := dump.Node(t.Kind()).Set("fields", dumpFields(t.Fields))
	if t.Result != nil {
		o.Set("result", t.Result.Dump())
	}
	return o
}

func (t *ArrayType) Dump() dump.Value {
	return dump.Node(t.Kind()).
		Set("len", dump.Number(t.Len)).
		Set("elem", t.Elem.Dump())
}
