// Package interp implements spec.md §9: a tree-walking interpreter that
// executes a type-checked Program against a domain.World, with reference
// semantics for every composite value and for simple-type parameters bound
// to a caller-supplied variable.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"aud/ast"
	"aud/checker"
	"aud/config"
	"aud/diag"
	"aud/domain"
)

// Options configures an Interpreter. A zero Options value runs with
// default limits, an OS-backed filesystem, no stdin, and discarded stdout.
type Options struct {
	Config  config.Configuration
	Backing domain.Backing
	Stdin   io.Reader
	Stdout  io.Writer
}

// Interpreter executes one program's worth of statements against one
// domain.World. It is not safe for concurrent use; spec.md §1 describes a
// strictly single-threaded language.
type Interpreter struct {
	cfg       config.Configuration
	functions map[string]*ast.FuncDef
	contexts  []*callContext
	world     *domain.World
	stdin     *bufio.Scanner
	stdout    io.Writer
}

func New(opts Options) *Interpreter {
	cfg := opts.Config
	if (cfg == config.Configuration{}) {
		cfg = config.Default()
	}
	backing := opts.Backing
	if backing == nil {
		backing = domain.OSBacking{}
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	return &Interpreter{
		cfg:       cfg,
		functions: map[string]*ast.FuncDef{},
		contexts:  []*callContext{newCallContext("")},
		world:     domain.NewWorld(backing, cfg.MaxFolderDepth),
		stdin:     bufio.NewScanner(stdin),
		stdout:    stdout,
	}
}

// Run executes every top-level statement in source order, registering
// function definitions first so forward references resolve. It returns
// the single runtime Fault that terminated the program, or nil on a clean
// finish (spec.md §7: exactly one Fault ends a run).
func (it *Interpreter) Run(prog *ast.Program) *diag.Fault {
	for _, s := range prog.Statements {
		if fd, ok := s.(*ast.FuncDef); ok {
			it.functions[fd.Name] = fd
		}
	}
	for _, s := range prog.Statements {
		if _, ok := s.(*ast.FuncDef); ok {
			continue
		}
		if _, f := it.execStmt(s); f != nil {
			return f
		}
	}
	return nil
}

type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlReturn
)

func (it *Interpreter) top() *callContext { return it.contexts[len(it.contexts)-1] }

func typePtr(t ast.Type) *ast.Type { return &t }

// ---- Statement execution ----------------------------------------------

func (it *Interpreter) execBlock(b *ast.Block) (ctrl, *diag.Fault) {
	it.top().push()
	defer it.top().pop()
	for _, s := range b.Statements {
		c, f := it.execStmt(s)
		if f != nil {
			return ctrlNone, f
		}
		if c == ctrlReturn {
			return ctrlReturn, nil
		}
	}
	return ctrlNone, nil
}

func (it *Interpreter) execStmt(s ast.Stmt) (ctrl, *diag.Fault) {
	switch n := s.(type) {
	case *ast.VarDecl:
		return ctrlNone, it.execVarDecl(n)
	case *ast.Assign:
		return ctrlNone, it.execAssign(n)
	case *ast.If:
		return it.execIf(n)
	case *ast.While:
		return it.execWhile(n)
	case *ast.ExprStmt:
		_, f := it.evalExpr(n.Expr)
		return ctrlNone, f
	case *ast.Return:
		return it.execReturn(n)
	case *ast.FuncDef:
		return ctrlNone, nil
	default:
		panic(fmt.Sprintf("interp: unhandled statement %T", s))
	}
}

func (it *Interpreter) execVarDecl(n *ast.VarDecl) *diag.Fault {
	v, f := it.evalExprExpected(n.Init, &n.Type)
	if f != nil {
		return f
	}
	it.top().declare(n.Name, resolveNull(v, n.Type))
	return nil
}

func (it *Interpreter) execAssign(n *ast.Assign) *diag.Fault {
	slot, ok := it.top().lookup(n.Name)
	if !ok {
		return diag.NewFault(n.Span().Start, diag.UndeclaredVariable)
	}
	target := slot.V.Type
	v, f := it.evalExprExpected(n.Value, &target)
	if f != nil {
		return f
	}
	slot.V = resolveNull(v, target)
	return nil
}

func (it *Interpreter) execIf(n *ast.If) (ctrl, *diag.Fault) {
	cond, f := it.evalExpr(n.Cond)
	if f != nil {
		return ctrlNone, f
	}
	if cond.Bool {
		return it.execBlock(n.Then)
	}
	if n.Else != nil {
		return it.execBlock(n.Else)
	}
	return ctrlNone, nil
}

func (it *Interpreter) execWhile(n *ast.While) (ctrl, *diag.Fault) {
	for {
		cond, f := it.evalExpr(n.Cond)
		if f != nil {
			return ctrlNone, f
		}
		if !cond.Bool {
			return ctrlNone, nil
		}
		c, f := it.execBlock(n.Body)
		if f != nil {
			return ctrlNone, f
		}
		if c == ctrlReturn {
			return ctrlReturn, nil
		}
	}
}

func (it *Interpreter) execReturn(n *ast.Return) (ctrl, *diag.Fault) {
	if n.Value == nil {
		it.top().returnValue = VoidValue()
		return ctrlReturn, nil
	}
	v, f := it.evalExpr(n.Value)
	if f != nil {
		return ctrlNone, f
	}
	it.top().returnValue = v
	return ctrlReturn, nil
}

// ---- Expression evaluation ----------------------------------------------

func (it *Interpreter) evalExpr(e ast.Expr) (Value, *diag.Fault) {
	return it.evalExprExpected(e, nil)
}

// evalExprExpected evaluates e. expected carries the surrounding static
// context's type (a var decl's declared type, a param's type, a list
// literal's element type, ...) so a bare "null" or an empty list literal
// resolves to the right composite type, mirroring the checker's analogous
// checkExprExpected (spec.md §9).
func (it *Interpreter) evalExprExpected(e ast.Expr, expected *ast.Type) (Value, *diag.Fault) {
	switch n := e.(type) {
	case *ast.IntLit:
		return IntValue(n.Value), nil
	case *ast.FloatLit:
		return FloatValue(n.Value), nil
	case *ast.StringLit:
		return StringValue(n.Value), nil
	case *ast.BoolLit:
		return BoolValue(n.Value), nil
	case *ast.NullLit:
		if expected != nil {
			return nullOfType(*expected), nil
		}
		return NullValue(), nil
	case *ast.Ident:
		slot, ok := it.top().lookup(n.Name)
		if !ok {
			return Value{}, diag.NewFault(n.Span().Start, diag.UndeclaredVariable)
		}
		return slot.V, nil
	case *ast.Paren:
		return it.evalExprExpected(n.Inner, expected)
	case *ast.Unary:
		return it.evalUnary(n)
	case *ast.Binary:
		return it.evalBinary(n)
	case *ast.Call:
		return it.evalCall(n)
	case *ast.Member:
		return it.evalMember(n)
	case *ast.Ctor:
		return it.evalCtor(n)
	case *ast.ListLit:
		return it.evalListLit(n, expected)
	default:
		panic(fmt.Sprintf("interp: unhandled expression %T", e))
	}
}

func (it *Interpreter) evalUnary(n *ast.Unary) (Value, *diag.Fault) {
	v, f := it.evalExpr(n.Expr)
	if f != nil {
		return Value{}, f
	}
	if v.Type.Kind == ast.Float {
		return FloatValue(-v.Float), nil
	}
	return IntValue(-v.Int), nil
}

func (it *Interpreter) evalBinary(n *ast.Binary) (Value, *diag.Fault) {
	pos := n.Span().Start

	// Short-circuit operators evaluate the right operand only when the
	// left doesn't already settle the result (spec.md §9).
	if n.Op == "&&" || n.Op == "||" {
		left, f := it.evalExpr(n.Left)
		if f != nil {
			return Value{}, f
		}
		if n.Op == "&&" && !left.Bool {
			return BoolValue(false), nil
		}
		if n.Op == "||" && left.Bool {
			return BoolValue(true), nil
		}
		right, f := it.evalExpr(n.Right)
		if f != nil {
			return Value{}, f
		}
		return BoolValue(right.Bool), nil
	}

	left, f := it.evalExpr(n.Left)
	if f != nil {
		return Value{}, f
	}
	right, f := it.evalExpr(n.Right)
	if f != nil {
		return Value{}, f
	}

	switch n.Op {
	case "==":
		return BoolValue(valuesEqual(left, right)), nil
	case "!=":
		return BoolValue(!valuesEqual(left, right)), nil
	}

	if left.Type.Kind == ast.Float || right.Type.Kind == ast.Float {
		switch n.Op {
		case "+":
			return FloatValue(left.Float + right.Float), nil
		case "-":
			return FloatValue(left.Float - right.Float), nil
		case "*":
			return FloatValue(left.Float * right.Float), nil
		case "/":
			return FloatValue(left.Float / right.Float), nil
		case "<":
			return BoolValue(left.Float < right.Float), nil
		case "<=":
			return BoolValue(left.Float <= right.Float), nil
		case ">":
			return BoolValue(left.Float > right.Float), nil
		case ">=":
			return BoolValue(left.Float >= right.Float), nil
		}
	}

	if left.Type.Kind == ast.String {
		if n.Op == "+" {
			return StringValue(left.Str + right.Str), nil
		}
	}

	switch n.Op {
	case "+":
		return IntValue(left.Int + right.Int), nil
	case "-":
		return IntValue(left.Int - right.Int), nil
	case "*":
		return IntValue(left.Int * right.Int), nil
	case "/":
		if right.Int == 0 {
			return Value{}, diag.NewFault(pos, diag.DivisionByZero)
		}
		return IntValue(left.Int / right.Int), nil
	case "<":
		return BoolValue(left.Int < right.Int), nil
	case "<=":
		return BoolValue(left.Int <= right.Int), nil
	case ">":
		return BoolValue(left.Int > right.Int), nil
	case ">=":
		return BoolValue(left.Int >= right.Int), nil
	}
	panic("interp: unhandled operator " + n.Op)
}

func (it *Interpreter) evalListLit(n *ast.ListLit, expected *ast.Type) (Value, *diag.Fault) {
	var elemType ast.Type
	switch {
	case n.ElemType != nil:
		elemType = *n.ElemType
	case expected != nil && expected.Kind == ast.ListKind && expected.Elem != nil:
		elemType = *expected.Elem
	}
	items := make([]Value, len(n.Items))
	for i, ie := range n.Items {
		v, f := it.evalExprExpected(ie, &elemType)
		if f != nil {
			return Value{}, f
		}
		items[i] = resolveNull(v, elemType)
	}
	return ListValue(elemType, items), nil
}

// ---- Calls ---------------------------------------------------------------

func (it *Interpreter) evalCall(n *ast.Call) (Value, *diag.Fault) {
	if fn, ok := it.functions[n.Callee]; ok {
		return it.callUserFunction(n, fn)
	}
	if ft, ok := checker.IsBuiltin(n.Callee); ok {
		return it.evalBuiltinCall(n, ft)
	}
	return Value{}, diag.NewFault(n.Span().Start, diag.UndeclaredVariable)
}

func (it *Interpreter) evalBuiltinCall(n *ast.Call, ft ast.FunctionType) (Value, *diag.Fault) {
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		var pt *ast.Type
		if i < len(ft.Params) {
			pt = &ft.Params[i]
		}
		v, f := it.evalExprExpected(a, pt)
		if f != nil {
			return Value{}, f
		}
		args[i] = v
	}
	pos := n.Span().Start
	switch n.Callee {
	case "print":
		fmt.Fprintln(it.stdout, args[0].Str)
		return VoidValue(), nil
	case "input":
		if it.stdin.Scan() {
			return StringValue(it.stdin.Text()), nil
		}
		return StringValue(""), nil
	case "btos":
		return StringValue(btos(args[0].Bool)), nil
	case "stoi":
		v, ok := stoi(args[0].Str)
		if !ok {
			return Value{}, diag.NewFault(pos, diag.TypeConversionException)
		}
		return IntValue(v), nil
	case "itos":
		return StringValue(itos(args[0].Int)), nil
	case "stof":
		v, ok := stof(args[0].Str)
		if !ok {
			return Value{}, diag.NewFault(pos, diag.TypeConversionException)
		}
		return FloatValue(v), nil
	case "ftos":
		return StringValue(ftos(args[0].Float)), nil
	case "itof":
		return FloatValue(float64(args[0].Int)), nil
	case "ftoi":
		return IntValue(int64(args[0].Float)), nil
	case "atof":
		if args[0].File == nil {
			return Value{}, diag.NewFault(pos, diag.FileNotFound)
		}
		f, ok := domain.Atof(args[0].File)
		if !ok {
			return Value{}, diag.NewFault(pos, diag.FileNotFound)
		}
		return FileValue(f), nil
	case "ftoa":
		if args[0].File == nil {
			return nullOfType(ast.Simple(ast.Audio)), nil
		}
		f, ok := domain.Ftoa(args[0].File)
		if !ok {
			return nullOfType(ast.Simple(ast.Audio)), nil
		}
		return FileValue(f), nil
	}
	panic("interp: unhandled builtin " + n.Callee)
}

// callUserFunction binds arguments, pushes a new call context (enforcing
// MAX_FUNC_DEPTH and MAX_REC_DEPTH), runs the body, and pops. A bare
// identifier argument for a simple-type parameter aliases the caller's
// slot directly so writes to the parameter are visible to the caller;
// every other argument (composite-typed, or not a bare identifier) binds a
// fresh slot holding the evaluated value (spec.md §9).
func (it *Interpreter) callUserFunction(n *ast.Call, fn *ast.FuncDef) (Value, *diag.Fault) {
	pos := n.Span().Start
	bound := make([]*Slot, len(fn.Params))
	for i, argExpr := range n.Args {
		pt := fn.Params[i].Type
		if !pt.Composite() {
			if ident, ok := argExpr.(*ast.Ident); ok {
				if slot, found := it.top().lookup(ident.Name); found {
					bound[i] = slot
					continue
				}
			}
		}
		v, f := it.evalExprExpected(argExpr, &pt)
		if f != nil {
			return Value{}, f
		}
		bound[i] = &Slot{V: resolveNull(v, pt)}
	}

	if fault := it.pushCallContext(fn.Name, pos); fault != nil {
		return Value{}, fault
	}
	defer it.popCallContext()

	ctx := it.top()
	ctx.returnType = fn.ReturnType.String()
	for i, p := range fn.Params {
		ctx.scopes[0][p.Name] = bound[i]
	}

	c, f := it.execBlock(fn.Body)
	if f != nil {
		return Value{}, f
	}
	if c == ctrlReturn {
		return resolveNull(ctx.returnValue, fn.ReturnType), nil
	}
	return VoidValue(), nil
}

func (it *Interpreter) pushCallContext(name string, pos diag.Position) *diag.Fault {
	if len(it.contexts) > it.cfg.MaxFuncDepth {
		return diag.NewFault(pos, diag.CallStackLimitExceeded)
	}
	consecutive := 0
	for i := len(it.contexts) - 1; i >= 0 && it.contexts[i].funcName == name; i-- {
		consecutive++
	}
	if consecutive+1 > it.cfg.MaxRecDepth {
		return diag.NewFault(pos, diag.CallStackLimitExceeded)
	}
	it.contexts = append(it.contexts, newCallContext(name))
	return nil
}

func (it *Interpreter) popCallContext() {
	it.contexts = it.contexts[:len(it.contexts)-1]
}
