package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/yslang/ysc/errors"
	"github.com/yslang/ysc/token"
	"github.com/ztrue/tracerr"
)

type Lexer struct {
	pos    token.Position
	reader *bufio.Reader
	done   bool
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    token.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

func FromString(src, filename string) *Lexer {
	return NewLexer(strings.NewReader(src), filename)
}

func (l *Lexer) Position() token.Position {
	return l.pos
}

// read returns the next rune, or 0 at the end of input.
func (l *Lexer) read() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0
		}
		panic(err)
	}

	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 0
	} else {
		l.pos.Column++
	}
	return r
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0
		}
		panic(err)
	}
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}
	return r
}

func (l *Lexer) kinded(k token.Kind, from token.Position) token.Token {
	return token.Token{
		Kind:     k,
		Location: token.Span{From: from, To: l.pos},
	}
}

// Identifiers are ASCII only.
func firstChar(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func otherChar(r rune) bool {
	return firstChar(r) || isDigit(r)
}

func (l *Lexer) skipBlank() {
	for r := l.peek(); r != 0 && unicode.IsSpace(r); r = l.peek() {
		l.read()
	}
}

func (l *Lexer) lexWhile(first rune, pred func(rune) bool) string {
	var sb strings.Builder
	sb.WriteRune(first)
	for r := l.peek(); r != 0 && pred(r); r = l.peek() {
		sb.WriteRune(l.read())
	}
	return sb.String()
}

func (l *Lexer) lexString(from token.Position) token.Token {
	var sb strings.Builder
	for {
		r := l.read()
		switch r {
		case 0:
			panic(errors.UnterminatedString{Location: token.Span{From: from, To: l.pos}})
		case '"':
			tok := l.kinded(token.STRING, from)
			tok.Lit = sb.String()
			return tok
		}
		sb.WriteRune(r)
	}
}

// twoChar emits the two-character form keyed by the next character in alts,
// or short when nothing matches.
func (l *Lexer) twoChar(from token.Position, short token.Kind, alts map[rune]token.Kind) token.Token {
	if kind, ok := alts[l.peek()]; ok {
		l.read()
		return l.kinded(kind, from)
	}
	return l.kinded(short, from)
}

// Next returns the next token. Once the input is exhausted every call
// returns EOF. Characters outside the language panic with
// errors.IllegalCharacter.
func (l *Lexer) Next() token.Token {
	if l.done {
		return l.kinded(token.EOF, l.pos)
	}

	l.skipBlank()

	r := l.read()
	from := l.pos

	switch {
	case r == 0:
		l.done = true
		return l.kinded(token.EOF, from)
	case isDigit(r):
		tok := l.kinded(token.INT, from)
		tok.Lit = l.lexWhile(r, isDigit)
		tok.Location.To = l.pos
		return tok
	case firstChar(r):
		lit := l.lexWhile(r, otherChar)
		if kind, ok := token.Keywords[lit]; ok {
			return l.kinded(kind, from)
		}
		tok := l.kinded(token.IDENT, from)
		tok.Lit = lit
		return tok
	case r == '"':
		return l.lexString(from)
	}

	switch r {
	case '=':
		return l.twoChar(from, token.ASSIGN, map[rune]token.Kind{'=': token.EQ})
	case '<':
		return l.twoChar(from, token.LT, map[rune]token.Kind{'=': token.LE, '>': token.NEQ})
	case '>':
		return l.twoChar(from, token.GT, map[rune]token.Kind{'=': token.GE})
	case ':':
		return l.twoChar(from, token.COLON, map[rune]token.Kind{'=': token.LETASSIGN})
	}

	data := map[rune]token.Kind{
		'+': token.PLUS,
		'-': token.MINUS,
		'*': token.MUL,
		'/': token.DIV,
		'(': token.LPAREN,
		')': token.RPAREN,
		'{': token.LBRACE,
		'}': token.RBRACE,
		'[': token.LBRACKET,
		']': token.RBRACKET,
		'.': token.PERIOD,
		';': token.SEMICOLON,
		',': token.COMMA,
	}

	if kind, ok := data[r]; ok {
		return l.kinded(kind, from)
	}

	panic(errors.IllegalCharacter{Char: r, Location: token.SingleCharSpan(from)})
}

// All lexes up to and including EOF.
func (l *Lexer) All() (toks []token.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = tracerr.Wrap(rerr)
		}
	}()

	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.IsEOF() {
			return toks, nil
		}
	}
}
