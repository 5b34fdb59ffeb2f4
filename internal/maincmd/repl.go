package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/mna/mainer"
	"github.com/mna/portugol/internal/docgen"
	"github.com/mna/portugol/lang/evaluator"
	"github.com/mna/portugol/lang/parser"
	"github.com/mna/portugol/lang/resolver"
)

// runREPL implements spec.md §6's interactive mode: prompt "> ", one line
// per iteration, empty lines ignored, EOF exits, and parse/runtime errors
// are printed to stderr without terminating the loop.
func (c *Cmd) runREPL(ctx context.Context, stdio mainer.Stdio) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	doc := docgen.New()
	ev := evaluator.New(nil, stdioPrinter{stdio}, doc, cfg.Banner, cfg.ShellTimeout)

	scan := bufio.NewScanner(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, cfg.Prompt)
		if !scan.Scan() {
			break
		}
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}

		stmts, err := parser.Parse(line)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		locals, err := resolver.Resolve(stmts)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		ev.SetLocals(locals)
		if err := ev.Run(stmts); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
		}
	}
	return doc.WriteFile(cfg.DocOutputPath)
}
