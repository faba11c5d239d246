// Package diag defines the diagnostic record shared by every pipeline
// stage (lexer, parser, checker) and the runtime fault type raised by the
// interpreter. Diagnostics never carry behavior of their own; stages
// accumulate them and the caller decides whether to continue.
package diag

import "fmt"

// Kind names one of the diagnostic/fault categories from spec.md §7.
type Kind string

const (
	InvalidSymbol           Kind = "Invalid symbol"
	MissingCommentClose     Kind = "Missing comment close"
	MaxStringLength         Kind = "Max string length exceeded"
	MaxIdentifierLength     Kind = "Max identifier length exceeded"
	MaxCommentLength        Kind = "Max comment length exceeded"
	InvalidValue            Kind = "Invalid value"
	UnexpectedToken         Kind = "Unexpected token"
	MissingParentheses      Kind = "Missing parentheses"
	InvalidDeclaration      Kind = "Invalid declaration"
	InvalidCondition        Kind = "Invalid condition"
	InvalidType             Kind = "Invalid type"
	InvalidArgumentType     Kind = "Invalid argument type"
	FuncRedeclaration       Kind = "Function/Method redeclaration"
	UndeclaredVariable      Kind = "Undeclared variable"
	TypeConversionException Kind = "Type conversion exception"
	FileNotFound            Kind = "File not found"
	ListIndexOutOfBounds    Kind = "List index out of bounds"
	DivisionByZero          Kind = "Division by zero"
	CallStackLimitExceeded  Kind = "Call stack limit exceeded"
)

// Position is a 1-indexed (line, column) source location.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("[%d, %d]", p.Line, p.Column) }

// Diagnostic is a single compile-time finding or runtime fault.
type Diagnostic struct {
	Pos     Position
	Kind    Kind
	Detail  string // optional suffix, e.g. a "did you mean" suggestion
}

func New(pos Position, kind Kind) Diagnostic {
	return Diagnostic{Pos: pos, Kind: kind}
}

func Newf(pos Position, kind Kind, detailFormat string, args ...interface{}) Diagnostic {
	return Diagnostic{Pos: pos, Kind: kind, Detail: fmt.Sprintf(detailFormat, args...)}
}

// Text renders the diagnostic in the canonical "[line, column] <Message>"
// form required by spec.md §6.
func (d Diagnostic) Text() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s %s", d.Pos, d.Kind)
	}
	return fmt.Sprintf("%s %s (%s)", d.Pos, d.Kind, d.Detail)
}

func (d Diagnostic) Error() string { return d.Text() }

// List is an ordered collection of diagnostics, kept in the order stages
// append them. The lexer and parser append in source order; the checker
// appends in traversal order, so a statement-level diagnostic can follow
// those of its sub-expressions, and function redeclarations come before
// the rest of a program's diagnostics. List does not sort its entries.
type List []Diagnostic

func (l *List) Add(d Diagnostic) { *l = append(*l, d) }

func (l List) HasErrors() bool { return len(l) > 0 }

func (l List) Strings() []string {
	out := make([]string, len(l))
	for i, d := range l {
		out[i] = d.Text()
	}
	return out
}

// Fault is a runtime error raised by the interpreter. Exactly one Fault
// terminates an Aud program; it wraps the Diagnostic that describes it.
type Fault struct {
	Diagnostic
}

func NewFault(pos Position, kind Kind) *Fault {
	return &Fault{Diagnostic: New(pos, kind)}
}

func NewFaultf(pos Position, kind Kind, format string, args ...interface{}) *Fault {
	return &Fault{Diagnostic: Newf(pos, kind, format, args...)}
}

func (f *Fault) Error() string { return f.Text() }
