package errors

import (
	"fmt"

	"github.com/yslang/ysc/token"
)

type ExpectedKindGotKind struct {
	Expected token.Kind
	Got      token.Kind
	Location token.Span
}

func (e ExpectedKindGotKind) Error() string {
	return fmt.Sprintf("expected next token to be %s, got %s (%s)", e.Expected, e.Got, e.Location.From)
}

// UnexpectedToken is raised when no grammar rule can start with the token.
type UnexpectedToken struct {
	Rule     string
	Got      token.Token
	Location token.Span
}

func (e UnexpectedToken) Error() string {
	return fmt.Sprintf("unexpected token at %s: %s (%s)", e.Rule, e.Got, e.Location.From)
}

type IllegalCharacter struct {
	Char     rune
	Location token.Span
}

func (e IllegalCharacter) Error() string {
	return fmt.Sprintf("invalid char: %q (%s)", e.Char, e.Location.From)
}

type UnterminatedString struct {
	Location token.Span
}

func (e UnterminatedString) Error() string {
	return fmt.Sprintf("unterminated string literal starting at %s", e.Location.From)
}

// GenError is a fatal code generation diagnostic.
type GenError struct {
	Msg string
}

func (e GenError) Error() string {
	return e.Msg
}

func NewGenError(msg string, fmts ...interface{}) GenError {
	return GenError{Msg: fmt.Sprintf(msg, fmts...)}
}

// NoAddress is the outcome of asking for the storage location of an
// expression that has none, such as a literal or a call.
type NoAddress struct {
	Kind string
}

func (e NoAddress) Error() string {
	return fmt.Sprintf("%s has no address", e.Kind)
}

type DuplicateField struct {
	Name     string
	Location token.Span
}

func (e DuplicateField) Error() string {
	return fmt.Sprintf("field %s specified more than once. %s", e.Name, e.Location)
}
