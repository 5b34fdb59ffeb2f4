// Package shellfn builds the native callable backing a CmdFunction
// declaration: a function value whose body spawns an external process and
// returns its captured standard output as a string.
//
// The spawn logic is grounded on original_source/src/interpreter.rs's
// Stmt::CmdFunction handling: split the command string on whitespace, strip
// literal double quotes from each token, then exec the first token with the
// rest as argv.
package shellfn

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mna/portugol/lang/types"
)

// New builds the native callable for a `funcao NAME recebe "command";`
// declaration. Spawn failure is fatal (spec.md §7's Fatal error row): it
// panics rather than returning an error, since the caller has no language-
// level way to recover from a broken subprocess. timeout bounds how long the
// subprocess may run before it is killed; a non-positive timeout disables
// the bound.
func New(name, command string, timeout time.Duration) *types.Native {
	return &types.Native{
		Name:    name,
		NumArgs: 0,
		Invoke: func(args []types.Value) (types.Value, error) {
			return run(command, timeout)
		},
	}
}

func run(command string, timeout time.Duration) (types.Value, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("comando vazio")
	}
	argv := make([]string, len(fields))
	for i, f := range fields {
		argv[i] = strings.ReplaceAll(f, `"`, "")
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
	if err != nil {
		panic(fmt.Sprintf("falha ao rodar o comando externo '%s': %v", command, err))
	}
	return types.String(out), nil
}
