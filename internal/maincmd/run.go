package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/portugol/internal/docgen"
	"github.com/mna/portugol/lang/evaluator"
	"github.com/mna/portugol/lang/parser"
	"github.com/mna/portugol/lang/resolver"
)

// stdioPrinter adapts mainer.Stdio's Stdout writer to evaluator.Printer.
type stdioPrinter struct {
	stdio mainer.Stdio
}

func (p stdioPrinter) Println(s string) { fmt.Fprintln(p.stdio.Stdout, s) }

func (c *Cmd) runFile(ctx context.Context, stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.runSource(ctx, stdio, string(src))
}

// runSource parses, resolves and evaluates src in one shot, writing the
// Mermaid flowchart to disk on success (spec.md §6).
func (c *Cmd) runSource(ctx context.Context, stdio mainer.Stdio, src string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	stmts, err := parser.Parse(src)
	if err != nil {
		return err
	}

	locals, err := resolver.Resolve(stmts)
	if err != nil {
		return err
	}

	doc := docgen.New()
	ev := evaluator.New(locals, stdioPrinter{stdio}, doc, cfg.Banner, cfg.ShellTimeout)
	if err := ev.Run(stmts); err != nil {
		return err
	}
	return doc.WriteFile(cfg.DocOutputPath)
}
