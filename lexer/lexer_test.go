package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aud/config"
	"aud/diag"
	"aud/lexer"
)

func tokenize(t *testing.T, src string) ([]lexer.Token, diag.List) {
	t.Helper()
	reader := lexer.NewSourceReader(src)
	return lexer.New(reader, config.Default()).Tokenize()
}

func TestTokenize_Keywords(t *testing.T) {
	tokens, diags := tokenize(t, "func int if else while return true false null")
	require.Empty(t, diags)
	kinds := make([]lexer.Kind, 0, len(tokens)-1)
	for _, tok := range tokens[:len(tokens)-1] {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []lexer.Kind{
		lexer.KwFunc, lexer.KwInt, lexer.KwIf, lexer.KwElse,
		lexer.KwWhile, lexer.KwReturn, lexer.KwTrue, lexer.KwFalse, lexer.KwNull,
	}, kinds)
}

func TestTokenize_IntAndFloatLiterals(t *testing.T) {
	tokens, diags := tokenize(t, "0 42 3.14 0.5")
	require.Empty(t, diags)
	require.Len(t, tokens, 5)
	assert.Equal(t, int64(0), tokens[0].IntVal)
	assert.Equal(t, int64(42), tokens[1].IntVal)
	assert.Equal(t, lexer.FloatLit, tokens[2].Kind)
	assert.InDelta(t, 3.14, tokens[2].FloatVal, 1e-9)
	assert.InDelta(t, 0.5, tokens[3].FloatVal, 1e-9)
}

func TestTokenize_TrailingAlphaOnIntLiteralIsInvalidValue(t *testing.T) {
	tokens, diags := tokenize(t, "34a7")
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidValue, diags[0].Kind)
	assert.Equal(t, 1, diags[0].Pos.Line)
	assert.Equal(t, 1, diags[0].Pos.Column)
	assert.Equal(t, "34a7", tokens[0].Lexeme)
}

func TestTokenize_UnterminatedBlockComment(t *testing.T) {
	_, diags := tokenize(t, "/* never closes")
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.MissingCommentClose, diags[0].Kind)
}

func TestTokenize_BlockCommentDoesNotNest(t *testing.T) {
	tokens, diags := tokenize(t, "/* outer /* inner */ x")
	require.Empty(t, diags)
	require.Len(t, tokens, 2)
	assert.Equal(t, lexer.IDENT, tokens[0].Kind)
}

func TestTokenize_UnterminatedStringIsInvalidValue(t *testing.T) {
	_, diags := tokenize(t, `"abc`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidValue, diags[0].Kind)
}

func TestTokenize_TwoCharacterOperators(t *testing.T) {
	tokens, diags := tokenize(t, "<= >= == != && ||")
	require.Empty(t, diags)
	kinds := []lexer.Kind{tokens[0].Kind, tokens[1].Kind, tokens[2].Kind, tokens[3].Kind, tokens[4].Kind, tokens[5].Kind}
	assert.Equal(t, []lexer.Kind{lexer.Le, lexer.Ge, lexer.EqEq, lexer.NotEq, lexer.AndAnd, lexer.OrOr}, kinds)
}

func TestTokenize_InvalidSymbolIsSkipped(t *testing.T) {
	tokens, diags := tokenize(t, "x @ y")
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.InvalidSymbol, diags[0].Kind)
	require.Len(t, tokens, 3) // x, y, EOF
	assert.Equal(t, "x", tokens[0].Lexeme)
	assert.Equal(t, "y", tokens[1].Lexeme)
}

func TestTokenize_MaxIdentifierLengthExceeded(t *testing.T) {
	cfg := config.Default()
	cfg.MaxIdentifierLength = 4
	reader := lexer.NewSourceReader("abcdefgh")
	_, diags := lexer.New(reader, cfg).Tokenize()
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.MaxIdentifierLength, diags[0].Kind)
}

func TestTokenize_CRLFNormalizesToSingleLineAdvance(t *testing.T) {
	tokens, diags := tokenize(t, "x\r\ny")
	require.Empty(t, diags)
	require.Len(t, tokens, 3)
	assert.Equal(t, 1, tokens[0].Pos.Line)
	assert.Equal(t, 2, tokens[1].Pos.Line)
	assert.Equal(t, 1, tokens[1].Pos.Column)
}
