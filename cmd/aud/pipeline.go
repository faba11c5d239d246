package main

import (
	"io"

	"aud/ast"
	"aud/checker"
	"aud/config"
	"aud/diag"
	"aud/interp"
	"aud/lexer"
	"aud/parser"
)

// Mode selects how far through the four-stage pipeline a source runs.
type Mode string

const (
	ModeLex       Mode = "lex"
	ModeParse     Mode = "parse"
	ModeTypeCheck Mode = "type-check"
	ModeRun       Mode = "run"
)

// Pipeline drives lexer → parser → checker → interp for one source string,
// stopping before a later stage once an earlier one has accumulated any
// error diagnostic, or once Mode caps how far to go.
type Pipeline struct {
	Config config.Configuration
	Mode   Mode
	Stdin  io.Reader
	Stdout io.Writer
}

// Result collects whatever each stage that ran produced.
type Result struct {
	Tokens      []lexer.Token
	Program     *ast.Program
	Diagnostics diag.List
	Fault       *diag.Fault
}

func (p *Pipeline) Run(source string) Result {
	reader := lexer.NewSourceReader(source)
	lx := lexer.New(reader, p.Config)
	tokens, lexDiags := lx.Tokenize()

	result := Result{Tokens: tokens, Diagnostics: lexDiags}
	if p.Mode == ModeLex || result.Diagnostics.HasErrors() {
		return result
	}

	prog, parseDiags := parser.Parse(tokens)
	result.Program = prog
	result.Diagnostics = append(result.Diagnostics, parseDiags...)
	if p.Mode == ModeParse || result.Diagnostics.HasErrors() {
		return result
	}

	checkDiags := checker.Check(prog)
	result.Diagnostics = append(result.Diagnostics, checkDiags...)
	if p.Mode == ModeTypeCheck || result.Diagnostics.HasErrors() {
		return result
	}

	it := interp.New(interp.Options{Config: p.Config, Stdin: p.Stdin, Stdout: p.Stdout})
	result.Fault = it.Run(prog)
	return result
}
