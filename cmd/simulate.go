package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundselling"
	"github.com/etnz/fundselling/renderer"
	"github.com/google/subcommands"
)

type saleCmd struct{}

func (*saleCmd) Name() string     { return "sale" }
func (*saleCmd) Synopsis() string { return "display the sale of an asset in the active scenario" }
func (*saleCmd) Usage() string {
	return `fsim sale <asset>

  Displays the sale configuration of an asset in the active scenario and its
  last simulated result. If the sale was never simulated, a preview is
  computed from the configuration but not saved.
`
}

func (*saleCmd) SetFlags(f *flag.FlagSet) {}

func (*saleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: sale requires exactly one asset name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	s, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		return subcommands.ExitFailure
	}
	sale, err := s.Sale(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sale of %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	md := renderer.SaleMarkdown(sale.Scenario, sale.Asset, sale.Configuration, sale.Result, *currency)
	if !sale.Simulated {
		md += "\n*Never simulated, this is a preview. Run 'fsim simulate " + name + "' to save it.*\n"
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// simulation is the JSON output of simulate: the result columns and their
// totals.
type simulation struct {
	fundselling.Result
	fundselling.Totals
}

type simulateCmd struct {
	sold     string
	increase string
	json     bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "run the sale simulation of an asset" }
func (*simulateCmd) Usage() string {
	return `fsim simulate [-sold <fractions>] [-increase <factors>] <asset>

  Runs the sale simulation of an asset in the active scenario and saves both
  the configuration and the result.

  The configuration starts from the saved one (or the default one: nothing
  sold, no price change) and the lists given as flags replace it. Lists have
  one value per iteration, separated by "," or ";" or spaces.

Usage Examples:
# Sell half at the current price, then all the rest after a 10% increase.
$ fsim simulate -sold 0.5,1 -increase 1,1.1 fund
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sold, "sold", "", "Fraction of the remaining quantity sold at each iteration, in [0,1].")
	f.StringVar(&c.increase, "increase", "", "Price multiplier applied at each iteration, non-negative.")
	f.BoolVar(&c.json, "json", false, "Print the result as JSON.")
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: simulate requires exactly one asset name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	s, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		return subcommands.ExitFailure
	}
	conf, err := s.LoadConfiguration(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration of %q: %v\n", name, err)
		return subcommands.ExitFailure
	}

	if c.sold != "" {
		if conf.SoldFraction, err = parseList(c.sold); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -sold: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.increase != "" {
		if conf.IncreaseFactor, err = parseList(c.increase); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -increase: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if err := conf.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in configuration of %q: %v\n", name, err)
		return subcommands.ExitUsageError
	}

	res, err := s.RunSimulation(name, conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error simulating %q: %v\n", name, err)
		return subcommands.ExitFailure
	}

	if c.json {
		if err := printJSON(simulation{Result: res, Totals: res.Totals()}); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	sale, err := s.Sale(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sale of %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SaleMarkdown(sale.Scenario, sale.Asset, sale.Configuration, sale.Result, *currency))
	return subcommands.ExitSuccess
}
