package token

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type Kind int

const (
	EOF Kind = iota

	INT
	STRING
	IDENT

	// keywords
	CONST
	LET
	FUNC
	IF
	ELSE
	WHILE
	RETURN
	IMPORT
	STRUCT
	TYPE

	PLUS  // +
	MINUS // -
	MUL   // *
	DIV   // /

	EQ  // ==
	NEQ // <>
	LT  // <
	LE  // <=
	GT  // >
	GE  // >=

	ASSIGN    // =
	LETASSIGN // :=
	SEMICOLON // ;
	COLON     // :
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	PERIOD    // .
)

var kindNames = map[Kind]string{
	EOF:       "EOF",
	INT:       "Integer",
	STRING:    "String",
	IDENT:     "Ident",
	CONST:     "Const",
	LET:       "Let",
	FUNC:      "Func",
	IF:        "If",
	ELSE:      "Else",
	WHILE:     "While",
	RETURN:    "Return",
	IMPORT:    "Import",
	STRUCT:    "Struct",
	TYPE:      "Type",
	PLUS:      "Plus",
	MINUS:     "Minus",
	MUL:       "Mul",
	DIV:       "Div",
	EQ:        "Equal",
	NEQ:       "NotEqual",
	LT:        "Less",
	LE:        "LessEqual",
	GT:        "Greater",
	GE:        "GreaterEqual",
	ASSIGN:    "Assign",
	LETASSIGN: "LetAssign",
	SEMICOLON: "Semicolon",
	COLON:     "Colon",
	COMMA:     "Comma",
	LPAREN:    "ParenL",
	RPAREN:    "ParenR",
	LBRACE:    "BraceL",
	RBRACE:    "BraceR",
	LBRACKET:  "BracketL",
	RBRACKET:  "BracketR",
	PERIOD:    "Dot",
}

var operators = map[Kind]string{
	PLUS:      "+",
	MINUS:     "-",
	MUL:       "*",
	DIV:       "/",
	EQ:        "==",
	NEQ:       "<>",
	LT:        "<",
	LE:        "<=",
	GT:        ">",
	GE:        ">=",
	ASSIGN:    "=",
	LETASSIGN: ":=",
}

// Keywords maps reserved words to their token kind.
var Keywords = map[string]Kind{
	"const":  CONST,
	"let":    LET,
	"func":   FUNC,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"return": RETURN,
	"import": IMPORT,
	"struct": STRUCT,
	"type":   TYPE,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Operator returns the source spelling of an operator kind, or "" for
// anything that is not a binary operator.
func (k Kind) Operator() string {
	return operators[k]
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

type Token struct {
	Kind     Kind
	Lit      string
	Location Span
}

func (t Token) IsEOF() bool {
	return t.Kind == EOF
}

func (t Token) String() string {
	switch t.Kind {
	case INT, STRING, IDENT:
		return t.Kind.String() + " " + t.Lit
	}
	return t.Kind.String()
}
