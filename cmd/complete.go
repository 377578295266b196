package cmd

import (
	"flag"
	"sort"

	"github.com/etnz/fundselling/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

type argKind int

const (
	noArg argKind = iota
	assetArg
	scenarioArg
	topicArg
)

// argKinds maps commands to the kind of their positional argument.
var argKinds = map[string]argKind{
	"update-asset":    assetArg,
	"remove-asset":    assetArg,
	"sale":            assetArg,
	"simulate":        assetArg,
	"delete-scenario": scenarioArg,
	"topic":           topicArg,
}

// flagKinds maps flag names to the kind of their value, for all commands.
var flagKinds = map[string]argKind{
	"s": scenarioArg,
}

func assetNames() []string {
	s, err := OpenSession()
	if err != nil {
		return nil
	}
	reg, err := s.ListAssets()
	if err != nil {
		return nil
	}
	return reg.Names()
}

func scenarioNames() []string {
	s, err := OpenSession()
	if err != nil {
		return nil
	}
	names, _ := s.ListScenarios()
	return names
}

func topicNames() []string {
	topics, _ := docs.GetAllTopics()
	return append(topics, "readme")
}

func predictor(k argKind) complete.Predictor {
	switch k {
	case assetArg:
		return complete.PredictFunc(func(string) []string { return assetNames() })
	case scenarioArg:
		return complete.PredictFunc(func(string) []string { return scenarioNames() })
	case topicArg:
		return complete.PredictFunc(func(string) []string { return topicNames() })
	default:
		return predict.Nothing
	}
}

// commands returns the registered commands by name.
func commands() map[string]subcommands.Command {
	cdr := subcommands.NewCommander(flag.NewFlagSet("fsim", flag.ContinueOnError), "fsim")
	Register(cdr)
	cmds := make(map[string]subcommands.Command)
	cdr.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		cmds[c.Name()] = c
	})
	return cmds
}

func commandNames() []string {
	var names []string
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// flagPredictors returns the predictors of all the flags in fs.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		if k, ok := flagKinds[fl.Name]; ok {
			flags[fl.Name] = predictor(k)
			return
		}
		flags[fl.Name] = predict.Something
	})
	return flags
}

// Completion returns the shell completion of the fsim command line. global
// are the global flags.
func Completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(global),
	}
	root.Flags["data-dir"] = predict.Dirs("*")

	for name, c := range commands() {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[name] = &complete.Command{
			Flags: flagPredictors(fs),
			Args:  predictor(argKinds[name]),
		}
	}
	return root
}
