package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aud/ast"
	"aud/config"
	"aud/diag"
	"aud/lexer"
	"aud/parser"
)

func parse(t *testing.T, src string) (*ast.Program, diag.List) {
	t.Helper()
	reader := lexer.NewSourceReader(src)
	tokens, lexDiags := lexer.New(reader, config.Default()).Tokenize()
	require.Empty(t, lexDiags)
	return parser.Parse(tokens)
}

func TestParse_VarDeclWithBinaryInit(t *testing.T) {
	prog, diags := parse(t, `int x = 1 + 2;`)
	require.Empty(t, diags)
	require.Len(t, prog.Statements, 1)

	decl, ok := prog.Statements[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	assert.Equal(t, ast.Int, decl.Type.Kind)

	bin, ok := decl.Init.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParse_ListTypeDecl(t *testing.T) {
	prog, diags := parse(t, `List<int> xs = [1, 2, 3];`)
	require.Empty(t, diags)
	decl := prog.Statements[0].(*ast.VarDecl)
	assert.Equal(t, ast.ListKind, decl.Type.Kind)
	assert.Equal(t, ast.Int, decl.Type.Elem.Kind)

	lit, ok := decl.Init.(*ast.ListLit)
	require.True(t, ok)
	require.Len(t, lit.Items, 3)
}

func TestParse_UntypedEmptyListLiteral(t *testing.T) {
	prog, diags := parse(t, `List<int> xs = [];`)
	require.Empty(t, diags)
	decl := prog.Statements[0].(*ast.VarDecl)
	lit := decl.Init.(*ast.ListLit)
	assert.Empty(t, lit.Items)
}

func TestParse_IfElseIfChainIsNestedElseBlock(t *testing.T) {
	src := `if (true) { } else if (false) { } else { }`
	prog, diags := parse(t, src)
	require.Empty(t, diags)
	ifStmt := prog.Statements[0].(*ast.If)
	require.NotNil(t, ifStmt.Else)
	require.Len(t, ifStmt.Else.Statements, 1)
	_, ok := ifStmt.Else.Statements[0].(*ast.If)
	assert.True(t, ok)
}

func TestParse_FuncDefWithParamsAndReturn(t *testing.T) {
	src := `func int add(int a, int b) { return a + b; }`
	prog, diags := parse(t, src)
	require.Empty(t, diags)
	fn := prog.Statements[0].(*ast.FuncDef)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, ast.Int, fn.ReturnType.Kind)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.Len(t, fn.Body.Statements, 1)
	_, ok := fn.Body.Statements[0].(*ast.Return)
	assert.True(t, ok)
}

func TestParse_FuncBodyMissingReturnIsUnexpectedToken(t *testing.T) {
	src := `func void noop() { int x = 1; }`
	_, diags := parse(t, src)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.UnexpectedToken, diags[0].Kind)
}

func TestParse_MethodCallChainOnMember(t *testing.T) {
	src := `Folder root = Folder("/"); print(itos(root.files.len()));`
	prog, diags := parse(t, src)
	require.Empty(t, diags)

	exprStmt := prog.Statements[1].(*ast.ExprStmt)
	outerCall := exprStmt.Expr.(*ast.Call)
	assert.Equal(t, "print", outerCall.Callee)

	innerCall := outerCall.Args[0].(*ast.Call)
	assert.Equal(t, "itos", innerCall.Callee)

	lenCall := innerCall.Args[0].(*ast.Member)
	assert.Equal(t, "len", lenCall.Name)
	assert.True(t, lenCall.IsCall)

	filesAttr := lenCall.Target.(*ast.Member)
	assert.Equal(t, "files", filesAttr.Name)
	assert.False(t, filesAttr.IsCall)
}

func TestParse_ComparisonIsNonAssociative(t *testing.T) {
	// "1 < 2 < 3" parses as (1 < 2) and leaves a dangling "< 3" which the
	// statement-terminator check then rejects, mirroring the non-associative
	// comparison level's single-operator rule.
	_, diags := parse(t, `bool b = 1 < 2 < 3;`)
	require.NotEmpty(t, diags)
}

func TestParse_CtorExpression(t *testing.T) {
	prog, diags := parse(t, `File f = File("song.mp3");`)
	require.Empty(t, diags)
	decl := prog.Statements[0].(*ast.VarDecl)
	ctor := decl.Init.(*ast.Ctor)
	assert.Equal(t, "File", ctor.TypeName)
	require.Len(t, ctor.Args, 1)
}

func TestParse_MissingParenOnIfIsRecoverable(t *testing.T) {
	_, diags := parse(t, `if true { } int x = 1;`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.MissingParentheses, diags[0].Kind)
}

func TestParse_UnaryMinusBindsTighterThanAdditive(t *testing.T) {
	prog, diags := parse(t, `int x = -1 + 2;`)
	require.Empty(t, diags)
	decl := prog.Statements[0].(*ast.VarDecl)
	bin := decl.Init.(*ast.Binary)
	assert.Equal(t, "+", bin.Op)
	_, ok := bin.Left.(*ast.Unary)
	assert.True(t, ok)
}
