// Package checker implements spec.md §4.4: a single-pass visitor over the
// parsed tree that builds symbol tables, resolves identifiers, validates
// function signatures, and types every expression.
package checker

import (
	"github.com/hbollon/go-edlib"

	"aud/ast"
	"aud/diag"
)

type funcInfo struct {
	typ  ast.FunctionType
	decl *ast.FuncDef
}

// Checker is a single-use visitor: Check constructs one with New and runs
// it once over a program.
type Checker struct {
	functions map[string]*funcInfo
	syms      *SymbolTable
	diags     diag.List

	inFunction bool
	returnType ast.Type
}

func New() *Checker {
	return &Checker{
		functions: map[string]*funcInfo{},
		syms:      NewSymbolTable(),
	}
}

// Check runs the type checker over prog and returns every diagnostic found.
// A program passes type-checking iff the returned list is empty.
func Check(prog *ast.Program) diag.List {
	c := New()
	c.check(prog)
	return c.diags
}

func (c *Checker) errorAt(span ast.Span, kind diag.Kind) {
	c.diags.Add(diag.New(span.Start, kind))
}

func (c *Checker) check(prog *ast.Program) {
	c.prescanFunctions(prog)
	for _, stmt := range prog.Statements {
		if fd, ok := stmt.(*ast.FuncDef); ok {
			c.checkFuncDef(fd)
			continue
		}
		c.checkStmt(stmt)
	}
}

func (c *Checker) prescanFunctions(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		fd, ok := stmt.(*ast.FuncDef)
		if !ok {
			continue
		}
		ft := ast.FunctionType{Return: fd.ReturnType}
		for _, p := range fd.Params {
			ft.Params = append(ft.Params, p.Type)
		}
		if _, exists := c.functions[fd.Name]; exists {
			c.errorAt(fd.Span(), diag.FuncRedeclaration)
			continue
		}
		c.functions[fd.Name] = &funcInfo{typ: ft, decl: fd}
	}
}

func (c *Checker) checkFuncDef(fd *ast.FuncDef) {
	prevIn, prevRet := c.inFunction, c.returnType
	c.inFunction, c.returnType = true, fd.ReturnType

	// Function bodies are closed: a fresh, isolated symbol table frame
	// stack containing only parameters. Global scope is not visible from
	// inside a function body (spec.md §4.4, §9 open question).
	savedSyms := c.syms
	c.syms = NewSymbolTable()

	seen := map[string]bool{}
	for _, p := range fd.Params {
		if seen[p.Name] {
			c.errorAt(p.Span, diag.InvalidDeclaration)
			continue
		}
		seen[p.Name] = true
		c.syms.Declare(p.Name, Symbol{Type: p.Type, Decl: p.Span})
	}

	c.checkBlockNoPush(fd.Body)

	c.syms = savedSyms
	c.inFunction, c.returnType = prevIn, prevRet
}

func (c *Checker) checkBlock(b *ast.Block) {
	c.syms.Push()
	defer c.syms.Pop()
	c.checkBlockNoPush(b)
}

func (c *Checker) checkBlockNoPush(b *ast.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		c.checkStmt(stmt)
	}
}

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(s)
	case *ast.Assign:
		c.checkAssign(s)
	case *ast.If:
		c.checkIf(s)
	case *ast.While:
		c.checkWhile(s)
	case *ast.ExprStmt:
		c.checkExpr(s.Expr)
	case *ast.Return:
		c.checkReturn(s)
	case *ast.FuncDef:
		c.errorAt(s.Span(), diag.InvalidDeclaration)
	}
}

func (c *Checker) checkVarDecl(s *ast.VarDecl) {
	if s.Type.Kind == ast.Void {
		c.errorAt(s.Span(), diag.InvalidType)
	}
	initType := c.checkExprExpected(s.Init, s.Type)
	if !assignable(s.Type, initType) {
		c.errorAt(s.Span(), diag.InvalidType)
	}
	if !c.syms.Declare(s.Name, Symbol{Type: s.Type, Decl: s.Span()}) {
		c.errorAt(s.Span(), diag.UndeclaredVariable)
	}
}

func (c *Checker) checkAssign(s *ast.Assign) {
	sym, ok := c.syms.Lookup(s.Name)
	if !ok {
		c.errorUndeclared(s.Span(), s.Name)
		c.checkExpr(s.Value)
		return
	}
	valType := c.checkExprExpected(s.Value, sym.Type)
	if !assignable(sym.Type, valType) {
		c.errorAt(s.Span(), diag.InvalidType)
	}
}

func (c *Checker) checkIf(s *ast.If) {
	condType := c.checkExpr(s.Cond)
	if condType.Kind != ast.Bool {
		c.errorAt(s.Span(), diag.InvalidCondition)
	}
	c.checkBlock(s.Then)
	if s.Else != nil {
		c.checkBlock(s.Else)
	}
}

func (c *Checker) checkWhile(s *ast.While) {
	condType := c.checkExpr(s.Cond)
	if condType.Kind != ast.Bool {
		c.errorAt(s.Span(), diag.InvalidCondition)
	}
	c.checkBlock(s.Body)
}

func (c *Checker) checkReturn(s *ast.Return) {
	if s.Value == nil {
		if c.returnType.Kind != ast.Void {
			c.errorAt(s.Span(), diag.InvalidType)
		}
		return
	}
	valType := c.checkExprExpected(s.Value, c.returnType)
	if !assignable(c.returnType, valType) {
		c.errorAt(s.Span(), diag.InvalidType)
	}
}

// assignable reports whether a value of type src may be stored into a
// variable/parameter/return slot of type dst (spec.md §4.4): types must
// match exactly, except composites additionally accept null.
func assignable(dst, src ast.Type) bool {
	if src.Kind == nullKind {
		return dst.Composite()
	}
	return dst.Equal(src)
}

// checkExpr types an expression with no contextual expectation.
func (c *Checker) checkExpr(e ast.Expr) ast.Type {
	return c.checkExprExpected(e, ast.Type{})
}

// checkExprExpected types an expression; expected is consulted only by
// untyped list literals, which take List<T> from context when it fixes one
// (an empty untyped literal has no other source for T).
func (c *Checker) checkExprExpected(e ast.Expr, expected ast.Type) ast.Type {
	switch n := e.(type) {
	case *ast.IntLit:
		return ast.Simple(ast.Int)
	case *ast.FloatLit:
		return ast.Simple(ast.Float)
	case *ast.StringLit:
		return ast.Simple(ast.String)
	case *ast.BoolLit:
		return ast.Simple(ast.Bool)
	case *ast.NullLit:
		return nullType()
	case *ast.Ident:
		sym, ok := c.syms.Lookup(n.Name)
		if !ok {
			c.errorUndeclared(n.Span(), n.Name)
			return ast.Type{}
		}
		return sym.Type
	case *ast.Paren:
		return c.checkExprExpected(n.Inner, expected)
	case *ast.Unary:
		t := c.checkExpr(n.Expr)
		if t.Kind != ast.Int {
			c.errorAt(n.Span(), diag.InvalidType)
		}
		return ast.Simple(ast.Int)
	case *ast.Binary:
		return c.checkBinary(n)
	case *ast.Call:
		return c.checkCall(n)
	case *ast.Member:
		return c.checkMember(n)
	case *ast.Ctor:
		return c.checkCtor(n)
	case *ast.ListLit:
		return c.checkListLit(n, expected)
	default:
		return ast.Type{}
	}
}

func (c *Checker) checkBinary(n *ast.Binary) ast.Type {
	left := c.checkExpr(n.Left)
	right := c.checkExpr(n.Right)
	switch n.Op {
	case "+":
		if left.Kind == ast.Int && right.Kind == ast.Int {
			return ast.Simple(ast.Int)
		}
		if left.Kind == ast.String && right.Kind == ast.String {
			return ast.Simple(ast.String)
		}
		c.errorAt(n.Span(), diag.InvalidType)
		return ast.Simple(ast.Int)
	case "-", "*", "/":
		if left.Kind != ast.Int || right.Kind != ast.Int {
			c.errorAt(n.Span(), diag.InvalidType)
		}
		return ast.Simple(ast.Int)
	case "<", "<=", ">", ">=":
		if left.Kind != ast.Int || right.Kind != ast.Int {
			c.errorAt(n.Span(), diag.InvalidType)
		}
		return ast.Simple(ast.Bool)
	case "==", "!=":
		if !equalityAllowed(left, right) {
			c.errorAt(n.Span(), diag.InvalidType)
		}
		return ast.Simple(ast.Bool)
	case "&&", "||":
		if left.Kind != ast.Bool || right.Kind != ast.Bool {
			c.errorAt(n.Span(), diag.InvalidType)
		}
		return ast.Simple(ast.Bool)
	default:
		return ast.Type{}
	}
}

func (c *Checker) checkCall(n *ast.Call) ast.Type {
	if fi, ok := c.functions[n.Callee]; ok {
		c.checkArgs(n.Span(), fi.typ.Params, n.Args)
		return fi.typ.Return
	}
	if ft, ok := IsBuiltin(n.Callee); ok {
		c.checkArgs(n.Span(), ft.Params, n.Args)
		return ft.Return
	}
	c.errorUndeclared(n.Span(), n.Callee)
	for _, a := range n.Args {
		c.checkExpr(a)
	}
	return ast.Type{}
}

func (c *Checker) checkArgs(span ast.Span, params []ast.Type, args []ast.Expr) {
	if len(params) != len(args) {
		c.errorAt(span, diag.InvalidArgumentType)
		for _, a := range args {
			c.checkExpr(a)
		}
		return
	}
	for i, a := range args {
		at := c.checkExprExpected(a, params[i])
		if !assignable(params[i], at) {
			c.errorAt(a.Span(), diag.InvalidArgumentType)
		}
	}
}

func (c *Checker) checkMember(n *ast.Member) ast.Type {
	targetType := c.checkExpr(n.Target)
	if targetType.Kind == ast.ListKind {
		return c.checkListMember(n, targetType)
	}
	sig, ok := lookupMember(targetType, n.Name)
	if !ok {
		c.errorAt(n.Span(), diag.InvalidType)
		for _, a := range n.Args {
			c.checkExpr(a)
		}
		return ast.Type{}
	}
	if n.IsCall != (sig.kind == method) {
		c.errorAt(n.Span(), diag.InvalidType)
	}
	if sig.kind == method {
		c.checkArgs(n.Span(), sig.params, n.Args)
	}
	return sig.ret
}

// checkListMember resolves List<T>'s len()/get(i)/set(i, v) operations,
// whose signatures depend on the list's element type T (spec.md §4.5).
func (c *Checker) checkListMember(n *ast.Member, targetType ast.Type) ast.Type {
	elem := ast.Simple(ast.Void)
	if targetType.Elem != nil {
		elem = *targetType.Elem
	}
	if !n.IsCall {
		c.errorAt(n.Span(), diag.InvalidType)
		return ast.Type{}
	}
	switch n.Name {
	case "len":
		c.checkArgs(n.Span(), nil, n.Args)
		return ast.Simple(ast.Int)
	case "get":
		c.checkArgs(n.Span(), []ast.Type{ast.Simple(ast.Int)}, n.Args)
		return elem
	case "set":
		c.checkArgs(n.Span(), []ast.Type{ast.Simple(ast.Int), elem}, n.Args)
		return ast.Simple(ast.Void)
	default:
		c.errorAt(n.Span(), diag.InvalidType)
		for _, a := range n.Args {
			c.checkExpr(a)
		}
		return ast.Type{}
	}
}

func (c *Checker) checkCtor(n *ast.Ctor) ast.Type {
	paramType, ret, ok := ctorSignature(n.TypeName)
	if !ok {
		c.errorAt(n.Span(), diag.InvalidType)
		return ast.Type{}
	}
	c.checkArgs(n.Span(), []ast.Type{paramType}, n.Args)
	return ret
}

func (c *Checker) checkListLit(n *ast.ListLit, expected ast.Type) ast.Type {
	var elem ast.Type
	switch {
	case n.ElemType != nil:
		elem = *n.ElemType
	case expected.Kind == ast.ListKind && expected.Elem != nil:
		elem = *expected.Elem
	case len(n.Items) > 0:
		elem = c.checkExpr(n.Items[0])
	default:
		c.errorAt(n.Span(), diag.InvalidType)
		return ast.Simple(ast.ListKind)
	}
	for _, item := range n.Items {
		it := c.checkExprExpected(item, elem)
		if !assignable(elem, it) {
			c.errorAt(item.Span(), diag.InvalidType)
		}
	}
	return ast.ListOf(elem)
}

// errorUndeclared reports an Undeclared variable diagnostic, appending a
// Jaro-Winkler "did you mean" suggestion from the currently visible names
// when one scores above threshold.
func (c *Checker) errorUndeclared(span ast.Span, name string) {
	if suggestion := c.suggestionFor(name); suggestion != "" {
		c.diags.Add(diag.Newf(span.Start, diag.UndeclaredVariable, "did you mean '%s'?", suggestion))
		return
	}
	c.errorAt(span, diag.UndeclaredVariable)
}

const suggestionThreshold = 0.82

func (c *Checker) suggestionFor(name string) string {
	best := ""
	var bestScore float32
	for _, candidate := range c.syms.VisibleNames() {
		if candidate == name {
			continue
		}
		score, err := edlib.StringsSimilarity(name, candidate, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore, best = score, candidate
		}
	}
	for fn := range c.functions {
		if fn == name {
			continue
		}
		score, err := edlib.StringsSimilarity(name, fn, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore, best = score, fn
		}
	}
	if bestScore >= suggestionThreshold {
		return best
	}
	return ""
}
