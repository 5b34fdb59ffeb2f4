// Package maincmd implements the Portugol CLI's flag parsing and mode
// dispatch, following the structure of the teacher's own
// internal/maincmd/maincmd.go: a Cmd struct driven by github.com/mna/mainer,
// exposing SetArgs/SetFlags/Validate/Main to the mainer.Parser.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/portugol/internal/config"
)

const binName = "portugol"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<path>]
       %[1]s e <source>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<path>]
       %[1]s e <source>
       %[1]s
       %[1]s -h|--help
       %[1]s -v|--version

Tree-walking interpreter for the %[1]s language.

       %[1]s <path>               Run the program in the file at <path>.
       %[1]s e <source>           Run <source> as a literal program.
       %[1]s                     Start an interactive REPL.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Each successful run writes a Mermaid flowchart of the executed statements
to ./doc.md.
`, binName)
)

// Cmd is the entry point mainer.Parser drives; it mirrors the shape the
// teacher's own Cmd type uses (SetArgs/SetFlags/Validate/Main).
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
	mode func(context.Context, mainer.Stdio) error
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(map[string]bool) {}

// Validate determines the run mode from the positional arguments, per
// spec.md §6: no args -> REPL, one arg "e" is invalid on its own (needs a
// source), "e <source>" -> inline source, a single other arg -> file path.
// Any other shape is an invalid-arguments error (exit 64).
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	switch len(c.args) {
	case 0:
		c.mode = c.runREPL
	case 1:
		if c.args[0] == "e" {
			return errors.New("e: missing <source> argument")
		}
		path := c.args[0]
		c.mode = func(ctx context.Context, stdio mainer.Stdio) error {
			return c.runFile(ctx, stdio, path)
		}
	case 2:
		if c.args[0] != "e" {
			return fmt.Errorf("unknown argument shape: %v", c.args)
		}
		src := c.args[1]
		c.mode = func(ctx context.Context, stdio mainer.Stdio) error {
			return c.runSource(ctx, stdio, src)
		}
	default:
		return fmt.Errorf("unknown argument shape: %v", c.args)
	}
	return nil
}

// Main is mainer's entry point: parse flags, dispatch to the selected mode.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: "PORTUGOL_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.mode(ctx, stdio); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.Failure
	}
	return mainer.Success
}

func (c *Cmd) loadConfig() (*config.Config, error) {
	return config.Load("portugol.yaml")
}
