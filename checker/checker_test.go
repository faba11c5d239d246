package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aud/checker"
	"aud/config"
	"aud/diag"
	"aud/lexer"
	"aud/parser"
)

func check(t *testing.T, src string) diag.List {
	t.Helper()
	reader := lexer.NewSourceReader(src)
	tokens, lexDiags := lexer.New(reader, config.Default()).Tokenize()
	require.Empty(t, lexDiags)
	prog, parseDiags := parser.Parse(tokens)
	require.Empty(t, parseDiags)
	return checker.Check(prog)
}

func TestCheck_WellTypedProgramHasNoDiagnostics(t *testing.T) {
	src := `func int add(int a, int b) { return a + b; } int x = add(1, 2);`
	assert.Empty(t, check(t, src))
}

func TestCheck_AssigningNullToIntIsInvalidType(t *testing.T) {
	diags := check(t, `int x = null;`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidType, diags[0].Kind)
}

func TestCheck_AssigningNullToCompositeIsAllowed(t *testing.T) {
	assert.Empty(t, check(t, `File f = null;`))
}

func TestCheck_UndeclaredVariableSuggestsCloseName(t *testing.T) {
	diags := check(t, `int count = 1; int y = coutn + 1;`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.UndeclaredVariable, diags[0].Kind)
	assert.Contains(t, diags[0].Detail, "count")
}

func TestCheck_FuncRedeclarationIsReported(t *testing.T) {
	src := `func void f() { return; } func void f() { return; }`
	diags := check(t, src)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.FuncRedeclaration, diags[0].Kind)
}

func TestCheck_FunctionsAreClosedOverGlobalScope(t *testing.T) {
	src := `int g = 1; func int readG() { return g; }`
	diags := check(t, src)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.UndeclaredVariable, diags[0].Kind)
}

func TestCheck_IfConditionMustBeBool(t *testing.T) {
	diags := check(t, `if (1) { }`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidCondition, diags[0].Kind)
}

func TestCheck_ArithmeticRequiresInts(t *testing.T) {
	diags := check(t, `bool b = true - false;`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidType, diags[len(diags)-1].Kind)
}

func TestCheck_StringConcatenationViaPlus(t *testing.T) {
	assert.Empty(t, check(t, `string s = "a" + "b";`))
}

func TestCheck_CallWithWrongArgumentCountIsInvalidArgumentType(t *testing.T) {
	src := `func int add(int a, int b) { return a + b; } int x = add(1);`
	diags := check(t, src)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidArgumentType, diags[0].Kind)
}

func TestCheck_ListGetReturnsElementType(t *testing.T) {
	assert.Empty(t, check(t, `List<int> xs = [1, 2]; int x = xs.get(0);`))
}

func TestCheck_ListSetWithWrongElementTypeIsInvalidArgumentType(t *testing.T) {
	diags := check(t, `List<int> xs = [1, 2]; xs.set(0, "nope");`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidArgumentType, diags[0].Kind)
}

func TestCheck_UnknownMemberIsInvalidType(t *testing.T) {
	diags := check(t, `File f = File("a.txt"); int x = f.nonexistent;`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidType, diags[0].Kind)
}

func TestCheck_ReturnTypeMismatchIsInvalidType(t *testing.T) {
	diags := check(t, `func int f() { return "oops"; }`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidType, diags[0].Kind)
}

func TestCheck_VoidReturnWithValueIsInvalidType(t *testing.T) {
	diags := check(t, `func void f() { return 1; }`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidType, diags[0].Kind)
}
