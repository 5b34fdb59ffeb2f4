package evaluator_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mna/portugol/internal/filetest"
	"github.com/mna/portugol/lang/evaluator"
	"github.com/mna/portugol/lang/parser"
	"github.com/mna/portugol/lang/resolver"
)

var testUpdateGoldenTests = flag.Bool("test.update-golden-tests", false, "If set, replace expected evaluator golden results with actual results.")

type captureLines struct {
	lines []string
}

func (c *captureLines) Println(s string) { c.lines = append(c.lines, s) }

func run(t *testing.T, src string) ([]string, error) {
	t.Helper()
	stmts, err := parser.Parse(src)
	require.NoError(t, err)
	locals, err := resolver.Resolve(stmts)
	require.NoError(t, err)

	out := &captureLines{}
	ev := evaluator.New(locals, out, nil, "[Portugol]", time.Second)
	err = ev.Run(stmts)
	return out.lines, err
}

// TestConcreteScenarios implements spec.md §8's eight numbered scenarios.
func TestConcreteScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{"arithmetic", `saida 1 + 2;`, []string{"3"}},
		{"string concat", `var a = "ol"; var b = "a"; saida a + b;`, []string{"ola"}},
		{"block shadowing", `var a = 1; { var a = 2; saida a; } saida a;`, []string{"2", "1"}},
		{"closures", `funcao mk() { var x = 0; funcao inc() { x = x + 1; retorna x; } retorna inc; } var f = mk(); saida f(); saida f(); saida f();`, []string{"1", "2", "3"}},
		{"inheritance", `classe A { oi() { saida "oi de A"; } } classe B < A { } B().oi();`, []string{"oi de A"}},
		{"super call", `classe A { f() { retorna 1; } } classe B < A { f() { retorna super.f() + 10; } } saida B().f();`, []string{"11"}},
		{"for loop", `para (var i = 0; i < 3; i = i + 1) saida i;`, []string{"0", "1", "2"}},
		{"pipe", `saida 5 |> (funcao (x) { retorna x * 2; });`, []string{"10"}},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			got, err := run(t, c.src)
			require.NoError(t, err)
			require.Equal(t, c.want, got)
		})
	}
}

func TestArityMismatchError(t *testing.T) {
	_, err := run(t, `funcao f(a, b) { retorna a + b; } f(1);`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "argumentos")
}

func TestMethodBindingObservesReceiver(t *testing.T) {
	got, err := run(t, `classe A { nome() { retorna este; } } var a = A(); var m = a.nome; saida m() == a;`)
	require.NoError(t, err)
	require.Equal(t, []string{"verdadeiro"}, got)
}

func TestShortCircuitOr(t *testing.T) {
	got, err := run(t, `funcao efeito() { saida "avaliado"; retorna verdadeiro; } saida verdadeiro ou efeito();`)
	require.NoError(t, err)
	require.Equal(t, []string{"verdadeiro"}, got)
}

func TestShortCircuitAnd(t *testing.T) {
	got, err := run(t, `funcao efeito() { saida "avaliado"; retorna verdadeiro; } saida falso e efeito();`)
	require.NoError(t, err)
	require.Equal(t, []string{"falso"}, got)
}

func TestDivisionByZeroYieldsInfinity(t *testing.T) {
	got, err := run(t, `saida 1 / 0;`)
	require.NoError(t, err)
	require.Equal(t, []string{"+Inf"}, got)
}

func TestConstructorWithoutInitRejectsArguments(t *testing.T) {
	_, err := run(t, `classe A { } A(1);`)
	require.Error(t, err)
}

func TestFieldAssignmentAndRead(t *testing.T) {
	got, err := run(t, `classe A { } var a = A(); a.x = 10; saida a.x;`)
	require.NoError(t, err)
	require.Equal(t, []string{"10"}, got)
}

// TestGolden runs every testdata/in/*.pgl program and diffs its captured
// output against the matching testdata/out/*.pgl.want golden file, following
// the teacher's own filetest-driven table test shape
// (lang/parser/parser_test.go in the teacher repo).
func TestGolden(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".pgl") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)

			lines, err := run(t, string(src))
			require.NoError(t, err)

			var output string
			if len(lines) > 0 {
				output = strings.Join(lines, "\n") + "\n"
			}
			filetest.DiffOutput(t, fi, output, resultDir, testUpdateGoldenTests)
		})
	}
}
