// Package parser implements spec.md §4.3: a recursive-descent consumer of
// the lexer's token stream with a single-token lookahead, producing an
// *ast.Program. Parse errors resynchronize to the next statement boundary
// and accumulate so multiple errors can be reported per program.
package parser

import (
	"aud/ast"
	"aud/diag"
	"aud/lexer"
)

// Parser holds the full token slice (produced up front by the lexer) and a
// cursor into it; "single-token lookahead" refers to the grammar's
// decision procedure, not to buffering — peeking further is just an index
// read since the tokens already exist.
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  diag.List
}

func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) Diagnostics() diag.List { return p.diags }

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(k int) lexer.Token {
	idx := p.pos + k
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 || tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) match(k lexer.Kind) (lexer.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.errorAt(p.cur().Pos, diag.UnexpectedToken)
	return lexer.Token{}, false
}

// expectOrMissingParen consumes k if present, recording a single Missing
// parentheses diagnostic otherwise. Every "(" / ")" a production requires
// uses this instead of expect, which would additionally raise its own
// Unexpected token.
func (p *Parser) expectOrMissingParen(k lexer.Kind) (lexer.Token, bool) {
	if tok, ok := p.match(k); ok {
		return tok, true
	}
	p.errorAt(p.cur().Pos, diag.MissingParentheses)
	return lexer.Token{}, false
}

func (p *Parser) errorAt(pos diag.Position, kind diag.Kind) {
	p.diags.Add(diag.New(pos, kind))
}

// synchronize discards tokens up to the next statement boundary (a ";" at
// the current brace nesting, or a closing "}" that belongs to an enclosing
// block, which is left unconsumed for the caller) per spec.md §4.3.
func (p *Parser) synchronize() {
	depth := 0
	for {
		tok := p.cur()
		if tok.Kind == lexer.EOF {
			return
		}
		if tok.Kind == lexer.LBrace {
			depth++
			p.advance()
			continue
		}
		if tok.Kind == lexer.RBrace {
			if depth == 0 {
				return
			}
			depth--
			p.advance()
			continue
		}
		if tok.Kind == lexer.Semi && depth == 0 {
			p.advance()
			return
		}
		p.advance()
	}
}

// Parse consumes the full token stream and returns the program plus every
// diagnostic accumulated along the way.
func Parse(tokens []lexer.Token) (*ast.Program, diag.List) {
	p := New(tokens)
	return p.ParseProgram(), p.diags
}

func (p *Parser) ParseProgram() *ast.Program {
	start := p.cur().Pos
	var stmts []ast.Stmt
	for !p.check(lexer.EOF) {
		stmt := p.parseTopLevelStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	end := p.cur().Pos
	return ast.NewProgram(ast.Span{Start: start, End: end}, stmts)
}

func (p *Parser) parseTopLevelStatement() ast.Stmt {
	if p.check(lexer.KwFunc) {
		return p.parseFuncDef()
	}
	return p.parseBlockStatement()
}

func isTypeStart(k lexer.Kind) bool {
	switch k {
	case lexer.KwInt, lexer.KwFloat, lexer.KwBool, lexer.KwString,
		lexer.KwFolder, lexer.KwFile, lexer.KwAudio, lexer.KwList:
		return true
	default:
		return false
	}
}

func (p *Parser) parseBlockStatement() ast.Stmt {
	switch {
	case isTypeStart(p.cur().Kind):
		return p.parseVarDecl()
	case p.check(lexer.KwIf):
		return p.parseIf()
	case p.check(lexer.KwWhile):
		return p.parseWhile()
	case p.check(lexer.KwReturn):
		return p.parseReturn()
	case p.check(lexer.IDENT) && p.peekAt(1).Kind == lexer.Assign:
		return p.parseAssign()
	default:
		return p.parseExprStmt()
	}
}

// parseType consumes a TypeSignature, including List<T>.
func (p *Parser) parseType() ast.Type {
	tok := p.cur()
	switch tok.Kind {
	case lexer.KwVoid:
		p.advance()
		return ast.Simple(ast.Void)
	case lexer.KwBool:
		p.advance()
		return ast.Simple(ast.Bool)
	case lexer.KwInt:
		p.advance()
		return ast.Simple(ast.Int)
	case lexer.KwFloat:
		p.advance()
		return ast.Simple(ast.Float)
	case lexer.KwString:
		p.advance()
		return ast.Simple(ast.String)
	case lexer.KwFolder:
		p.advance()
		return ast.Simple(ast.Folder)
	case lexer.KwFile:
		p.advance()
		return ast.Simple(ast.File)
	case lexer.KwAudio:
		p.advance()
		return ast.Simple(ast.Audio)
	case lexer.KwList:
		p.advance()
		if _, ok := p.expect(lexer.Lt); !ok {
			return ast.Simple(ast.ListKind)
		}
		elem := p.parseType()
		p.expect(lexer.Gt)
		return ast.ListOf(elem)
	default:
		p.errorAt(tok.Pos, diag.UnexpectedToken)
		p.advance()
		return ast.Simple(ast.Void)
	}
}

func (p *Parser) parseVarDecl() ast.Stmt {
	start := p.cur().Pos
	typ := p.parseType()
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(lexer.Assign); !ok {
		p.synchronize()
		return nil
	}
	init := p.parseExpression()
	end := p.cur().Pos
	if _, ok := p.expect(lexer.Semi); !ok {
		p.synchronize()
	}
	return ast.NewVarDecl(ast.Span{Start: start, End: end}, typ, nameTok.Lexeme, init)
}

func (p *Parser) parseAssign() ast.Stmt {
	start := p.cur().Pos
	nameTok := p.advance()
	p.expect(lexer.Assign)
	value := p.parseExpression()
	end := p.cur().Pos
	if _, ok := p.expect(lexer.Semi); !ok {
		p.synchronize()
	}
	return ast.NewAssign(ast.Span{Start: start, End: end}, nameTok.Lexeme, value)
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur().Pos
	expr := p.parseExpression()
	end := p.cur().Pos
	if _, ok := p.expect(lexer.Semi); !ok {
		p.synchronize()
	}
	return ast.NewExprStmt(ast.Span{Start: start, End: end}, expr)
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.cur().Pos
	p.advance() // if
	if _, ok := p.expectOrMissingParen(lexer.LParen); !ok {
		p.synchronize()
		return nil
	}
	cond := p.parseExpression()
	p.expectOrMissingParen(lexer.RParen)
	then := p.parseCodeBlock()
	var els *ast.Block
	if _, ok := p.match(lexer.KwElse); ok {
		if p.check(lexer.KwIf) {
			elseStart := p.cur().Pos
			inner := p.parseIf()
			var stmts []ast.Stmt
			if inner != nil {
				stmts = []ast.Stmt{inner}
			}
			els = ast.NewBlock(ast.Span{Start: elseStart, End: p.cur().Pos}, stmts)
		} else {
			els = p.parseCodeBlock()
		}
	}
	end := p.cur().Pos
	return ast.NewIf(ast.Span{Start: start, End: end}, cond, then, els)
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.cur().Pos
	p.advance() // while
	if _, ok := p.expectOrMissingParen(lexer.LParen); !ok {
		p.synchronize()
		return nil
	}
	cond := p.parseExpression()
	p.expectOrMissingParen(lexer.RParen)
	body := p.parseCodeBlock()
	end := p.cur().Pos
	return ast.NewWhile(ast.Span{Start: start, End: end}, cond, body)
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.cur().Pos
	p.advance() // return
	var value ast.Expr
	if !p.check(lexer.Semi) {
		value = p.parseExpression()
	}
	end := p.cur().Pos
	if _, ok := p.expect(lexer.Semi); !ok {
		p.synchronize()
	}
	return ast.NewReturn(ast.Span{Start: start, End: end}, value)
}

// parseCodeBlock parses "{" { block_statement } "}", used by if/while and
// by else clauses. Statement-level errors resynchronize and parsing
// resumes inside the same block.
func (p *Parser) parseCodeBlock() *ast.Block {
	start := p.cur().Pos
	if _, ok := p.expect(lexer.LBrace); !ok {
		p.synchronize()
		return ast.NewBlock(ast.Span{Start: start, End: p.cur().Pos}, nil)
	}
	var stmts []ast.Stmt
	for !p.check(lexer.RBrace) && !p.check(lexer.EOF) {
		stmt := p.parseBlockStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	end := p.cur().Pos
	p.expect(lexer.RBrace)
	return ast.NewBlock(ast.Span{Start: start, End: end}, stmts)
}

// parseFunctionBody parses "{" { block_statement } return_stmt "}"; a body
// that does not end with a return statement is an Unexpected token at the
// closing brace (spec.md §4.3, §9 open question #1).
func (p *Parser) parseFunctionBody() *ast.Block {
	start := p.cur().Pos
	if _, ok := p.expect(lexer.LBrace); !ok {
		p.synchronize()
		return ast.NewBlock(ast.Span{Start: start, End: p.cur().Pos}, nil)
	}
	var stmts []ast.Stmt
	sawReturn := false
	for !p.check(lexer.RBrace) && !p.check(lexer.EOF) {
		if p.check(lexer.KwReturn) {
			stmts = append(stmts, p.parseReturn())
			sawReturn = true
			continue
		}
		stmt := p.parseBlockStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		sawReturn = false
	}
	end := p.cur().Pos
	if !sawReturn {
		p.errorAt(end, diag.UnexpectedToken)
	}
	p.expect(lexer.RBrace)
	return ast.NewBlock(ast.Span{Start: start, End: end}, stmts)
}

func (p *Parser) parseFuncDef() ast.Stmt {
	start := p.cur().Pos
	p.advance() // func
	retType := p.parseType()
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expectOrMissingParen(lexer.LParen); !ok {
		p.synchronize()
		return nil
	}
	var params []ast.Param
	for !p.check(lexer.RParen) && !p.check(lexer.EOF) {
		pstart := p.cur().Pos
		ptyp := p.parseType()
		pname, ok := p.expect(lexer.IDENT)
		if !ok {
			break
		}
		params = append(params, ast.Param{Type: ptyp, Name: pname.Lexeme, Span: ast.Span{Start: pstart, End: p.cur().Pos}})
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	p.expectOrMissingParen(lexer.RParen)
	body := p.parseFunctionBody()
	end := p.cur().Pos
	return ast.NewFuncDef(ast.Span{Start: start, End: end}, retType, nameTok.Lexeme, params, body)
}

// ---- Expressions --------------------------------------------------

func (p *Parser) parseExpression() ast.Expr { return p.parseOr() }

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(lexer.OrOr) {
		start := left.Span().Start
		p.advance()
		right := p.parseAnd()
		left = ast.NewBinary(ast.Span{Start: start, End: p.cur().Pos}, "||", left, right)
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseComparison()
	for p.check(lexer.AndAnd) {
		start := left.Span().Start
		p.advance()
		right := p.parseComparison()
		left = ast.NewBinary(ast.Span{Start: start, End: p.cur().Pos}, "&&", left, right)
	}
	return left
}

var comparisonOps = map[lexer.Kind]string{
	lexer.Lt: "<", lexer.Le: "<=", lexer.Gt: ">", lexer.Ge: ">=",
	lexer.EqEq: "==", lexer.NotEq: "!=",
}

// parseComparison implements the non-associative comparison level: at most
// one comparison operator may appear per expression at this precedence.
func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	if op, ok := comparisonOps[p.cur().Kind]; ok {
		start := left.Span().Start
		p.advance()
		right := p.parseAdditive()
		left = ast.NewBinary(ast.Span{Start: start, End: p.cur().Pos}, op, left, right)
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.check(lexer.Plus) || p.check(lexer.Minus) {
		start := left.Span().Start
		op := "+"
		if p.cur().Kind == lexer.Minus {
			op = "-"
		}
		p.advance()
		right := p.parseMultiplicative()
		left = ast.NewBinary(ast.Span{Start: start, End: p.cur().Pos}, op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.check(lexer.Star) || p.check(lexer.Slash) {
		start := left.Span().Start
		op := "*"
		if p.cur().Kind == lexer.Slash {
			op = "/"
		}
		p.advance()
		right := p.parseUnary()
		left = ast.NewBinary(ast.Span{Start: start, End: p.cur().Pos}, op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(lexer.Minus) {
		start := p.cur().Pos
		p.advance()
		inner := p.parseUnary()
		return ast.NewUnary(ast.Span{Start: start, End: p.cur().Pos}, "-", inner)
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by a left-associative
// chain of ".ident" (attribute read) or ".ident(args)" (method call).
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for p.check(lexer.Dot) {
		start := expr.Span().Start
		p.advance()
		nameTok, ok := p.expect(lexer.IDENT)
		if !ok {
			break
		}
		if p.check(lexer.LParen) {
			args := p.parseArgs()
			expr = ast.NewMember(ast.Span{Start: start, End: p.cur().Pos}, expr, nameTok.Lexeme, args, true)
		} else {
			expr = ast.NewMember(ast.Span{Start: start, End: p.cur().Pos}, expr, nameTok.Lexeme, nil, false)
		}
	}
	return expr
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expectOrMissingParen(lexer.LParen)
	var args []ast.Expr
	for !p.check(lexer.RParen) && !p.check(lexer.EOF) {
		args = append(args, p.parseExpression())
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	p.expectOrMissingParen(lexer.RParen)
	return args
}

func isCtorName(k lexer.Kind) bool {
	return k == lexer.KwFolder || k == lexer.KwFile || k == lexer.KwAudio
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case lexer.IntLit:
		p.advance()
		return ast.NewIntLit(ast.Span{Start: tok.Pos, End: p.cur().Pos}, tok.IntVal)
	case lexer.FloatLit:
		p.advance()
		return ast.NewFloatLit(ast.Span{Start: tok.Pos, End: p.cur().Pos}, tok.FloatVal)
	case lexer.StringLit:
		p.advance()
		return ast.NewStringLit(ast.Span{Start: tok.Pos, End: p.cur().Pos}, tok.StringVal)
	case lexer.KwTrue, lexer.KwFalse:
		p.advance()
		return ast.NewBoolLit(ast.Span{Start: tok.Pos, End: p.cur().Pos}, tok.BoolVal)
	case lexer.KwNull:
		p.advance()
		return ast.NewNullLit(ast.Span{Start: tok.Pos, End: p.cur().Pos})
	case lexer.LParen:
		p.advance()
		inner := p.parseExpression()
		p.expectOrMissingParen(lexer.RParen)
		return ast.NewParen(ast.Span{Start: tok.Pos, End: p.cur().Pos}, inner)
	case lexer.KwList:
		return p.parseListLit()
	case lexer.IDENT:
		p.advance()
		if p.check(lexer.LParen) {
			args := p.parseArgs()
			return ast.NewCall(ast.Span{Start: tok.Pos, End: p.cur().Pos}, tok.Lexeme, args)
		}
		return ast.NewIdent(ast.Span{Start: tok.Pos, End: p.cur().Pos}, tok.Lexeme)
	case lexer.LBracket:
		return p.parseUntypedListLit(tok.Pos)
	default:
		if isCtorName(tok.Kind) {
			p.advance()
			args := p.parseArgs()
			return ast.NewCtor(ast.Span{Start: tok.Pos, End: p.cur().Pos}, tok.Lexeme, args)
		}
		p.errorAt(tok.Pos, diag.UnexpectedToken)
		p.advance()
		return ast.NewNullLit(ast.Span{Start: tok.Pos, End: tok.Pos})
	}
}

// parseListLit parses a typed list literal: List<T> "[" items "]".
func (p *Parser) parseListLit() ast.Expr {
	start := p.cur().Pos
	typ := p.parseType()
	items := p.parseListItems()
	return ast.NewListLit(ast.Span{Start: start, End: p.cur().Pos}, &typ, items)
}

// parseUntypedListLit parses a bare "[" items "]" list literal whose
// element type is inferred by the type checker from context.
func (p *Parser) parseUntypedListLit(start diag.Position) ast.Expr {
	items := p.parseListItems()
	return ast.NewListLit(ast.Span{Start: start, End: p.cur().Pos}, nil, items)
}

func (p *Parser) parseListItems() []ast.Expr {
	if _, ok := p.expect(lexer.LBracket); !ok {
		return nil
	}
	var items []ast.Expr
	for !p.check(lexer.RBracket) && !p.check(lexer.EOF) {
		items = append(items, p.parseExpression())
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	p.expect(lexer.RBracket)
	return items
}
