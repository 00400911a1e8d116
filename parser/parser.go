package parser

import (
	"io"
	"strconv"

	"github.com/yslang/ysc/ast"
	"github.com/yslang/ysc/errors"
	"github.com/yslang/ysc/lexer"
	"github.com/yslang/ysc/token"
	"github.com/ztrue/tracerr"
)

type precedence int

const (
	LOWEST precedence = iota
	ASSIGN            // =
	COMPARE           // == <> < <= > >=
	SUM               // + -
	PRODUCT           // * /
	POSTFIX           // f(x) a[i] a.b
)

type (
	prefixFn func(p *Parser) ast.Expr
	infixFn  func(p *Parser, left ast.Expr) ast.Expr
)

func prefixRule(k token.Kind) prefixFn {
	switch k {
	case token.INT, token.STRING:
		return (*Parser).parseBasicLit
	case token.IDENT:
		return (*Parser).parseIdentExpr
	case token.LPAREN:
		return (*Parser).parseGrouped
	}
	return nil
}

func infixRule(k token.Kind) (infixFn, precedence) {
	switch k {
	case token.ASSIGN:
		return (*Parser).parseAssign, ASSIGN
	case token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE:
		return (*Parser).parseBinary, COMPARE
	case token.PLUS, token.MINUS:
		return (*Parser).parseBinary, SUM
	case token.MUL, token.DIV:
		return (*Parser).parseBinary, PRODUCT
	case token.LPAREN:
		return (*Parser).parseCall, POSTFIX
	case token.LBRACKET:
		return (*Parser).parseIndex, POSTFIX
	case token.PERIOD:
		return (*Parser).parseRef, POSTFIX
	}
	return nil, LOWEST
}

type Parser struct {
	l      *lexer.Lexer
	path   string
	cur    token.Token
	peek   token.Token
	errors []string
}

func NewParser(l *lexer.Lexer, path string) *Parser {
	return &Parser{l: l, path: path}
}

// ParseString parses src in one go. errs holds the recoverable mismatches;
// err is set when parsing was aborted.
func ParseString(src, path string) (prog *ast.Program, errs []string, err error) {
	p := NewParser(lexer.FromString(src, path), path)
	prog, err = p.Parse()
	return prog, p.Errors(), err
}

func ParseReader(r io.Reader, path string) (prog *ast.Program, errs []string, err error) {
	p := NewParser(lexer.NewLexer(r, path), path)
	prog, err = p.Parse()
	return prog, p.Errors(), err
}

// Errors returns the token mismatches recorded so far. A program parsed
// alongside any of them must not be handed to code generation.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) HasErrors() bool {
	return len(p.errors) != 0
}

// Parse consumes the whole token stream. Structural errors (no rule for the
// current token, illegal characters) abort parsing and are returned as err.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				prog = nil
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	p.next()
	p.next()

	prog = &ast.Program{Path: p.path}
	for !p.curIs(token.EOF) {
		prog.Decls = append(prog.Decls, p.parseDecl())
	}

	return prog, nil
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *Parser) curIs(k token.Kind) bool {
	return p.cur.Kind == k
}

// expect records a mismatch when the current token is not k and advances
// either way.
func (p *Parser) expect(k token.Kind) token.Token {
	tok := p.cur
	if tok.Kind != k {
		p.errors = append(p.errors, errors.ExpectedKindGotKind{
			Expected: k,
			Got:      tok.Kind,
			Location: tok.Location,
		}.Error())
	}
	p.next()
	return tok
}

func (p *Parser) unexpected(rule string) {
	panic(errors.UnexpectedToken{
		Rule:     rule,
		Got:      p.cur,
		Location: p.cur.Location,
	})
}

func (p *Parser) expectIdent() *ast.Ident {
	tok := p.expect(token.IDENT)
	return &ast.Ident{Name: tok.Lit, NamePos: tok.Location}
}

func (p *Parser) parseDecl() ast.Decl {
	switch p.cur.Kind {
	case token.FUNC:
		return p.parseFuncDecl()
	case token.IMPORT:
		return p.parseImportDecl()
	case token.TYPE:
		return p.parseTypeDecl()
	case token.CONST:
		return p.parseConstDecl()
	}

	p.unexpected("declaration")
	return nil
}

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	p.expect(token.FUNC)
	name := p.expectIdent()
	typ := p.parseFuncType()
	body := p.parseBlock()

	return &ast.FuncDecl{
		Name: name.Name,
		Type: typ,
		Body: body,
	}
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	p.expect(token.IMPORT)
	pkg := p.expectIdent()
	p.expect(token.SEMICOLON)

	return &ast.ImportDecl{Package: pkg}
}

func (p *Parser) parseTypeDecl() *ast.TypeDecl {
	p.expect(token.TYPE)
	name := p.expectIdent()
	typ := p.parseType()
	if p.curIs(token.SEMICOLON) {
		p.next()
	}

	return &ast.TypeDecl{Name: name, Type: typ}
}

func (p *Parser) parseConstDecl() *ast.ConstDecl {
	p.expect(token.CONST)
	name := p.expectIdent()
	p.expect(token.ASSIGN)
	expr := p.parseExpression(LOWEST)
	p.expect(token.SEMICOLON)

	return &ast.ConstDecl{Name: name.Name, Expr: expr}
}

// Types

func (p *Parser) parseType() ast.Type {
	switch p.cur.Kind {
	case token.IDENT:
		return &ast.IdentType{Name: p.expectIdent()}
	case token.STRUCT:
		return p.parseStructType()
	case token.LPAREN:
		return p.parseFuncType()
	case token.LBRACKET:
		return p.parseArrayType()
	}

	p.unexpected("type")
	return nil
}

func (p *Parser) parseField() ast.Field {
	name := p.expectIdent()
	return ast.Field{Name: name, Type: p.parseType()}
}

func (p *Parser) parseStructType() *ast.StructType {
	p.expect(token.STRUCT)
	p.expect(token.LBRACE)

	s := &ast.StructType{}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.SEMICOLON) {
			p.next()
			continue
		}

		s.Fields = append(s.Fields, p.parseField())

		if !p.curIs(token.RBRACE) {
			p.expect(token.SEMICOLON)
		}
	}
	p.expect(token.RBRACE)

	return s
}

func (p *Parser) parseFuncType() *ast.FuncType {
	p.expect(token.LPAREN)

	f := &ast.FuncType{}
	if !p.curIs(token.RPAREN) {
		for {
			f.Fields = append(f.Fields, p.parseField())
			if !p.curIs(token.COMMA) {
				break
			}
			p.next()
		}
	}
	p.expect(token.RPAREN)

	f.Result = p.parseType()
	return f
}

func (p *Parser) parseArrayType() *ast.ArrayType {
	p.expect(token.LBRACKET)
	lenTok := p.expect(token.INT)

	n, err := strconv.ParseInt(lenTok.Lit, 10, 64)
	if err != nil && lenTok.Kind == token.INT {
		p.errors = append(p.errors, "invalid array length "+lenTok.Lit+" ("+lenTok.Location.From.String()+")")
	}
	p.expect(token.RBRACKET)

	return &ast.ArrayType{Len: n, Elem: p.parseType()}
}

// Statements

// parseBlock expects the parser to sit on the opening brace.
func (p *Parser) parseBlock() *ast.BlockStmt {
	p.expect(token.LBRACE)

	block := &ast.BlockStmt{}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		block.Stmts = append(block.Stmts, p.parseStatement())
	}
	p.expect(token.RBRACE)

	return block
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.IF:
		return p.parseIf()
	case token.LET:
		return p.parseLet()
	case token.RETURN:
		return p.parseReturn()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseIf() *ast.IfStmt {
	p.expect(token.IF)

	stmt := &ast.IfStmt{
		Cond: p.parseExpression(LOWEST),
		Then: p.parseBlock(),
	}

	if p.curIs(token.ELSE) {
		p.next()
		if p.curIs(token.IF) {
			stmt.Else = p.parseIf()
		} else {
			stmt.Else = p.parseBlock()
		}
	}

	return stmt
}

func (p *Parser) parseLet() *ast.LetStmt {
	p.expect(token.LET)

	stmt := &ast.LetStmt{
		Ident: p.expectIdent(),
		Type:  p.parseType(),
	}
	if p.curIs(token.ASSIGN) {
		p.next()
		stmt.Expr = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON)

	return stmt
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	p.expect(token.RETURN)

	stmt := &ast.ReturnStmt{}
	if !p.curIs(token.SEMICOLON) {
		stmt.Results = append(stmt.Results, p.parseExpression(LOWEST))
	}
	p.expect(token.SEMICOLON)

	return stmt
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	stmt := &ast.ExprStmt{Expr: p.parseExpression(LOWEST)}
	p.expect(token.SEMICOLON)
	return stmt
}

// Expressions

func (p *Parser) parseExpression(prec precedence) ast.Expr {
	prefix := prefixRule(p.cur.Kind)
	if prefix == nil {
		p.unexpected("expression")
	}

	left := prefix(p)

	for !p.curIs(token.SEMICOLON) {
		infix, infixPrec := infixRule(p.cur.Kind)
		if infix == nil || infixPrec <= prec {
			break
		}
		left = infix(p, left)
	}

	return left
}

func (p *Parser) parseBasicLit() ast.Expr {
	lit := &ast.BasicLit{LitKind: p.cur.Kind, Value: p.cur.Lit}
	p.next()
	return lit
}

func (p *Parser) parseIdentExpr() ast.Expr {
	return p.expectIdent()
}

func (p *Parser) parseGrouped() ast.Expr {
	p.expect(token.LPAREN)
	expr := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	return expr
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := p.cur.Kind
	_, prec := infixRule(op)
	p.next()

	return &ast.BinaryExpr{
		LHS: left,
		Op:  op,
		RHS: p.parseExpression(prec),
	}
}

// parseAssign binds to the right, so a = b = c stores c into b and then b
// into a.
func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	p.expect(token.ASSIGN)

	return &ast.BinaryExpr{
		LHS: left,
		Op:  token.ASSIGN,
		RHS: p.parseExpression(ASSIGN - 1),
	}
}

func (p *Parser) parseCall(left ast.Expr) ast.Expr {
	p.expect(token.LPAREN)

	call := &ast.CallExpr{Func: left}
	if !p.curIs(token.RPAREN) {
		for {
			call.Args = append(call.Args, p.parseExpression(LOWEST))
			if !p.curIs(token.COMMA) {
				break
			}
			p.next()
		}
	}
	p.expect(token.RPAREN)

	return call
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	p.expect(token.LBRACKET)
	index := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET)

	return &ast.IndexExpr{Receiver: left, Index: index}
}

func (p *Parser) parseRef(left ast.Expr) ast.Expr {
	p.expect(token.PERIOD)
	return &ast.RefExpr{Receiver: left, Ref: p.expectIdent()}
}
