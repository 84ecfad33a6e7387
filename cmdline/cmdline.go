// Package cmdline dispatches subcommands of a multi-command binary, parsing
// each command's argument struct with go-arg.
package cmdline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	arg "github.com/alexflint/go-arg"
)

// Command represents an action that can be run from the command line.
type Command struct {
	Name     string
	Synopsis string
	Args     Handler
}

// Handler is the parsed argument struct for a command.
type Handler interface {
	Handle() error
}

// Validator lets an argument struct reject bad flag combinations before
// Handle runs.
type Validator interface {
	Validate() error
}

// MustDispatch parses os.Args, runs the matching command, and exits non-zero
// on unknown commands, flag errors, or a Handle error.
func MustDispatch(cmds ...Command) {
	if len(os.Args) < 2 {
		usageExit(cmds, "no command provided")
	}

	name, rest := os.Args[1], os.Args[2:]
	if name == "help" {
		if len(rest) == 0 {
			writeUsage(os.Stdout, cmds)
			os.Exit(0)
		}
		name = rest[0]
		cmd := find(cmds, name)
		if cmd == nil {
			usageExit(cmds, "unknown command "+name)
		}
		helpFor(*cmd)
	}

	cmd := find(cmds, name)
	if cmd == nil {
		usageExit(cmds, "unknown command "+name)
	}
	run(*cmd, rest)
}

func prog() string {
	if len(os.Args) == 0 {
		return "loqui"
	}
	return filepath.Base(os.Args[0])
}

func find(cmds []Command, name string) *Command {
	for i := range cmds {
		if cmds[i].Name == name {
			return &cmds[i]
		}
	}
	return nil
}

func run(cmd Command, argv []string) {
	parser := newParser(cmd)
	if err := parser.Parse(argv); err != nil {
		parser.Fail(err.Error())
	}
	if val, ok := cmd.Args.(Validator); ok {
		if err := val.Validate(); err != nil {
			parser.Fail(err.Error())
		}
	}
	if err := cmd.Args.Handle(); err != nil {
		fail(err)
	}
}

func helpFor(cmd Command) {
	newParser(cmd).WriteHelp(os.Stdout)
	os.Exit(0)
}

func newParser(cmd Command) *arg.Parser {
	parser, err := arg.NewParser(arg.Config{Program: prog() + " " + cmd.Name}, cmd.Args)
	if err != nil {
		fail(err)
	}
	return parser
}

func fail(v interface{}) {
	fmt.Fprintln(os.Stderr, v)
	os.Exit(1)
}

func usageExit(cmds []Command, msg string) {
	writeUsage(os.Stderr, cmds)
	fmt.Fprintln(os.Stderr, "\nerror:", msg)
	os.Exit(1)
}

func writeUsage(w io.Writer, cmds []Command) {
	fmt.Fprintf(w, "usage: %s COMMAND [ARGS...]\n", prog())
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range cmds {
		fmt.Fprintf(w, "  %-16s %s\n", cmd.Name, cmd.Synopsis)
	}
	fmt.Fprintf(w, "  %-16s %s\n", "help [COMMAND]", "display help and exit")
}
