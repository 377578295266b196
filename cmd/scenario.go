package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundselling/renderer"
	"github.com/google/subcommands"
)

type scenariosCmd struct{}

func (*scenariosCmd) Name() string     { return "scenarios" }
func (*scenariosCmd) Synopsis() string { return "list scenarios" }
func (*scenariosCmd) Usage() string {
	return `fsim scenarios

  Lists the scenarios in alphabetical order, the active one is highlighted.
`
}

func (*scenariosCmd) SetFlags(f *flag.FlagSet) {}

func (*scenariosCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		return subcommands.ExitFailure
	}
	names, err := s.ListScenarios()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing scenarios: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ScenariosMarkdown(names, s.Scenario()))
	return subcommands.ExitSuccess
}

type createScenarioCmd struct{}

func (*createScenarioCmd) Name() string     { return "create-scenario" }
func (*createScenarioCmd) Synopsis() string { return "create a scenario and make it active" }
func (*createScenarioCmd) Usage() string {
	return `fsim create-scenario <name>

  Creates an empty scenario. Creating a scenario that already exists does
  nothing, in both cases the scenario becomes the active one.
`
}

func (*createScenarioCmd) SetFlags(f *flag.FlagSet) {}

func (*createScenarioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: create-scenario requires exactly one scenario name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	s, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		return subcommands.ExitFailure
	}
	outcome, err := s.CreateScenario(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scenario %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	printOutcome("scenario", name, outcome)
	return subcommands.ExitSuccess
}

type deleteScenarioCmd struct{}

func (*deleteScenarioCmd) Name() string     { return "delete-scenario" }
func (*deleteScenarioCmd) Synopsis() string { return "delete a scenario and its sales" }
func (*deleteScenarioCmd) Usage() string {
	return `fsim delete-scenario <name>

  Deletes a scenario with all its sale configurations and results. Assets are
  kept.
`
}

func (*deleteScenarioCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteScenarioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: delete-scenario requires exactly one scenario name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	s, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		return subcommands.ExitFailure
	}
	outcome, err := s.DeleteScenario(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting scenario %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	printOutcome("scenario", name, outcome)
	return subcommands.ExitSuccess
}
