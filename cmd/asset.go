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

type assetsCmd struct{}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "list registered assets" }
func (*assetsCmd) Usage() string {
	return `fsim assets

  Lists the assets with their unit price, quantity, number of sale
  iterations and total value.
`
}

func (*assetsCmd) SetFlags(f *flag.FlagSet) {}

func (*assetsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		return subcommands.ExitFailure
	}
	reg, err := s.ListAssets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AssetsMarkdown(reg, *currency))
	return subcommands.ExitSuccess
}

// assetFlags are the flags shared by add-asset and update-asset.
type assetFlags struct {
	price      string
	quantity   string
	iterations int
}

func (a *assetFlags) setFlags(f *flag.FlagSet, iterations int) {
	f.StringVar(&a.price, "price", "", "Unit price of the asset at the start of the scenario.")
	f.StringVar(&a.quantity, "quantity", "", "Number of units held.")
	f.IntVar(&a.iterations, "n", iterations, "Number of sale iterations.")
}

// asset builds the asset named name from the flags, starting from base.
func (a *assetFlags) asset(name string, base fundselling.Asset, f *flag.FlagSet) (fundselling.Asset, error) {
	base.Name = name
	var err error
	f.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "price":
			base.Price, err = parseNumber(a.price)
		case "quantity":
			base.Quantity, err = parseNumber(a.quantity)
		case "n":
			base.IterationCount = a.iterations
		}
	})
	return base, err
}

type addAssetCmd struct {
	assetFlags
}

func (*addAssetCmd) Name() string     { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "register a new asset" }
func (*addAssetCmd) Usage() string {
	return `fsim add-asset -price <price> -quantity <quantity> [-n <iterations>] <name>

  Registers a new asset. Adding an asset that already exists does nothing.

Usage Examples:
$ fsim add-asset -price 10 -quantity 100 -n 2 fund
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, 1) }

func (c *addAssetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: add-asset requires exactly one asset name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	a, err := c.asset(name, fundselling.Asset{IterationCount: c.iterations}, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing asset %q: %v\n", name, err)
		return subcommands.ExitUsageError
	}

	s, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		return subcommands.ExitFailure
	}
	outcome, err := s.AddAsset(a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding asset %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	printOutcome("asset", name, outcome)
	return subcommands.ExitSuccess
}

type updateAssetCmd struct {
	assetFlags
}

func (*updateAssetCmd) Name() string     { return "update-asset" }
func (*updateAssetCmd) Synopsis() string { return "modify a registered asset" }
func (*updateAssetCmd) Usage() string {
	return `fsim update-asset [-price <price>] [-quantity <quantity>] [-n <iterations>] <name>

  Modifies the fields given as flags, the other fields are kept. Sale results
  already computed are refreshed on the next simulation.
`
}

func (c *updateAssetCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, 1) }

func (c *updateAssetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: update-asset requires exactly one asset name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	s, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		return subcommands.ExitFailure
	}
	reg, err := s.ListAssets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}
	base, ok := reg.Get(name)
	if !ok {
		printOutcome("asset", name, fundselling.NotFound)
		return subcommands.ExitSuccess
	}
	a, err := c.asset(name, base, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing asset %q: %v\n", name, err)
		return subcommands.ExitUsageError
	}

	outcome, err := s.UpdateAsset(a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error updating asset %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	printOutcome("asset", name, outcome)
	return subcommands.ExitSuccess
}

type removeAssetCmd struct{}

func (*removeAssetCmd) Name() string     { return "remove-asset" }
func (*removeAssetCmd) Synopsis() string { return "delete an asset and its sales in every scenario" }
func (*removeAssetCmd) Usage() string {
	return `fsim remove-asset <name>

  Deletes an asset from the registry, and its sale configuration and results
  from every scenario.
`
}

func (*removeAssetCmd) SetFlags(f *flag.FlagSet) {}

func (*removeAssetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: remove-asset requires exactly one asset name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	s, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
		return subcommands.ExitFailure
	}
	outcome, err := s.RemoveAsset(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error removing asset %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	printOutcome("asset", name, outcome)
	return subcommands.ExitSuccess
}
