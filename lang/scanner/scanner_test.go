package scanner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/portugol/lang/scanner"
	"github.com/mna/portugol/lang/token"
)

func TestScanTokens(t *testing.T) {
	src := `var a = 1 + 2; // comentário
saida a;`
	toks, err := scanner.New(src).ScanTokens()
	require.NoError(t, err)

	var kinds []token.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	require.Equal(t, []token.Kind{
		token.VAR, token.IDENT, token.EQ, token.NUMBER, token.PLUS, token.NUMBER, token.SEMICOLON,
		token.PRINT, token.IDENT, token.SEMICOLON, token.EOF,
	}, kinds)
}

func TestScanLineCounting(t *testing.T) {
	// spec.md §8: the line counter on each emitted token equals 1 + number of
	// newline bytes preceding its starting character.
	src := "var a = 1;\nvar b = 2;\nsaida b;"
	toks, err := scanner.New(src).ScanTokens()
	require.NoError(t, err)

	searchFrom := 0
	for _, tk := range toks {
		if tk.Kind == token.EOF {
			continue
		}
		idx := strings.Index(src[searchFrom:], tk.Lexeme)
		require.GreaterOrEqual(t, idx, 0)
		idx += searchFrom
		want := 1 + strings.Count(src[:idx], "\n")
		require.Equal(t, want, tk.Line, "token %q", tk.Lexeme)
		searchFrom = idx + len(tk.Lexeme)
	}
}

func TestScanPipeOperator(t *testing.T) {
	toks, err := scanner.New("5 |> dobro").ScanTokens()
	require.NoError(t, err)
	require.Equal(t, token.PIPE, toks[1].Kind)
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := scanner.New(`"abc`).ScanTokens()
	require.Error(t, err)
	require.Contains(t, err.Error(), "Line 1")
}

func TestScanUnexpectedCharacter(t *testing.T) {
	_, err := scanner.New("@").ScanTokens()
	require.Error(t, err)
}

func TestScanKeywords(t *testing.T) {
	toks, err := scanner.New("se enquanto senao para funcao classe este super var retorna nulo verdadeiro falso e ou recebe limpar saida").ScanTokens()
	require.NoError(t, err)
	want := []token.Kind{
		token.IF, token.WHILE, token.ELSE, token.FOR, token.FUN, token.CLASS, token.THIS,
		token.SUPER, token.VAR, token.RETURN, token.NIL, token.TRUE, token.FALSE, token.AND,
		token.OR, token.RECEIVES, token.CLEAR, token.PRINT, token.EOF,
	}
	var got []token.Kind
	for _, tk := range toks {
		got = append(got, tk.Kind)
	}
	require.Equal(t, want, got)
}
