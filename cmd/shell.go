package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/google/subcommands"
)

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "start an interactive session" }
func (*shellCmd) Usage() string {
	return `fsim shell

  Starts an interactive session where fsim commands are typed without the
  "fsim" prefix. The active scenario is kept between commands and shown in
  the prompt.

  Shell commands:
    use <scenario>  make a scenario the active one
    exit            leave the shell
`
}

func (*shellCmd) SetFlags(f *flag.FlagSet) {}

func (*shellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := OpenSession(); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		return subcommands.ExitFailure
	}

	cfg := &readline.Config{
		Prompt:          shellPrompt(),
		AutoComplete:    shellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if dir, err := DataDir(); err == nil {
		cfg.HistoryFile = filepath.Join(dir, ".history")
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting shell: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	for {
		rl.SetPrompt(shellPrompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			return subcommands.ExitFailure
		}
		if exit := runLine(ctx, line); exit {
			return subcommands.ExitSuccess
		}
	}
}

func shellPrompt() string {
	if session == nil || session.Scenario() == "" {
		return "fsim> "
	}
	return "fsim:" + session.Scenario() + "> "
}

// runLine executes one line typed in the shell. It returns true when the
// user asked to leave.
func runLine(ctx context.Context, line string) (exit bool) {
	args, err := splitArgs(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "exit", "quit", "bye":
		return true
	case "shell":
		fmt.Fprintln(os.Stderr, "Error: already in a shell")
		return false
	case "use":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Error: use requires exactly one scenario name")
			return false
		}
		if err := session.Use(args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return false
	}

	fs := flag.NewFlagSet("fsim", flag.ContinueOnError)
	cdr := subcommands.NewCommander(fs, "fsim")
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")
	Register(cdr)
	if err := fs.Parse(args); err != nil {
		return false
	}
	cdr.Execute(ctx)
	return false
}

// splitArgs splits a line into arguments with the quoting and escaping rules
// of a POSIX shell, without any expansion.
func splitArgs(line string) ([]string, error) {
	return shlex.Split(line)
}

// shellCompleter completes command names, then asset or scenario names.
func shellCompleter() *readline.PrefixCompleter {
	assets := readline.PcItemDynamic(func(string) []string { return assetNames() })
	scenarios := readline.PcItemDynamic(func(string) []string { return scenarioNames() })

	var items []readline.PrefixCompleterInterface
	for _, name := range commandNames() {
		switch argKinds[name] {
		case assetArg:
			items = append(items, readline.PcItem(name, assets))
		case scenarioArg:
			items = append(items, readline.PcItem(name, scenarios))
		default:
			items = append(items, readline.PcItem(name))
		}
	}
	items = append(items, readline.PcItem("use", scenarios), readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}
