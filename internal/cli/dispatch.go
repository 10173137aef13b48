// Package cli parses todo command lines and runs them against the task use cases.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"todoapp/internal/core/domain/exceptions"
	"todoapp/internal/core/ports"
	"todoapp/internal/exitcode"

	"go.uber.org/zap"
)

var errUsage = errors.New("usage error")

// Backend is what a command runs against. Close releases connections.
type Backend struct {
	Tasks ports.TaskUseCases
	Log   *zap.Logger
	Close func()
}

// BackendFactory connects to the stores. It is called only for commands
// that need them, after flags are parsed.
type BackendFactory func(ctx context.Context) (*Backend, error)

type Dispatcher struct {
	factory BackendFactory
}

func NewDispatcher(factory BackendFactory) *Dispatcher {
	return &Dispatcher{factory: factory}
}

// Run parses args and runs the named command, returning the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		args = []string{"list"}
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage(out)
		return exitcode.Success
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		printUsage(errOut)
		return exitcode.UserError
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	inv := &invocation{out: out}
	if cmd.flags != nil {
		cmd.flags(fs, inv)
	}
	positional, err := parseInterleaved(fs, args[1:])
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		fmt.Fprintf(errOut, "usage: todo %s\n", cmd.usage)
		return exitcode.UserError
	}
	inv.args = positional
	inv.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { inv.set[f.Name] = true })
	if len(inv.args) != cmd.positional {
		fmt.Fprintf(errOut, "error: %s expects %d argument(s)\n", name, cmd.positional)
		fmt.Fprintf(errOut, "usage: todo %s\n", cmd.usage)
		return exitcode.UserError
	}

	backend, err := d.factory(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}
	if backend.Close != nil {
		defer backend.Close()
	}
	inv.tasks = backend.Tasks
	inv.log = backend.Log
	if inv.log == nil {
		inv.log = zap.NewNop()
	}

	if err := cmd.run(ctx, inv); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return codeFor(err)
	}
	return exitcode.Success
}

// parseInterleaved lets flags follow positional arguments, as in
// "edit <id> -title x". Everything after "--" is positional.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func codeFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return exitcode.BackendError
	case errors.Is(err, errUsage),
		errors.Is(err, exceptions.ErrTaskNotFound),
		errors.Is(err, exceptions.ErrTaskEmpty),
		errors.Is(err, exceptions.ErrTaskIDRequired),
		errors.Is(err, exceptions.ErrUnknownTaskFilter):
		return exitcode.UserError
	default:
		return exitcode.BackendError
	}
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: todo <command> [flags] [args]\n\ncommands:\n")
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(&b, "  %-40s %s\n", cmd.usage, cmd.synopsis)
	}
	fmt.Fprint(w, b.String())
}
