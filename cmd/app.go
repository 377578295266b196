// Package cmd implements the CLI application to simulate staged asset sales.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour"
	"github.com/etnz/fundselling"
	"github.com/google/subcommands"
)

// Config holds the application settings that can be given by environment
// variables. Global flags take precedence.
type Config struct {
	DataDir  string `env:"FSIM_DATA_DIR"`
	Scenario string `env:"FSIM_SCENARIO"`
	Currency string `env:"FSIM_CURRENCY" envDefault:"EUR"`
	Verbose  bool   `env:"FSIM_VERBOSE"`
	Model    string `env:"FSIM_MODEL" envDefault:"gemini-2.5-pro"`
}

// LoadConfig reads the Config from the environment.
func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return c, nil
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	dataDir  = flag.String("data-dir", "", "Path to the data directory. Defaults to the user data directory.")
	scenario = flag.String("s", "", "Active scenario. Defaults to the first scenario.")
	currency = flag.String("currency", "EUR", "Currency used to display values.")
	Verbose  = flag.Bool("v", false, "Print the log of operations to stderr.")
	model    = "gemini-2.5-pro"

	// stdout is where commands print their output.
	stdout io.Writer = os.Stdout

	// session is the session shared by all commands run in this process.
	session *fundselling.Session
)

// SetDefaults sets the global flag defaults from c. It must be called before
// the flags are parsed.
func SetDefaults(c Config) {
	*dataDir = c.DataDir
	*scenario = c.Scenario
	*currency = c.Currency
	*Verbose = c.Verbose
	model = c.Model
}

// Setup applies the global flags once they are parsed.
func Setup() {
	if !*Verbose {
		log.SetOutput(io.Discard)
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&assetsCmd{}, "assets")
	c.Register(&addAssetCmd{}, "assets")
	c.Register(&updateAssetCmd{}, "assets")
	c.Register(&removeAssetCmd{}, "assets")

	c.Register(&scenariosCmd{}, "scenarios")
	c.Register(&createScenarioCmd{}, "scenarios")
	c.Register(&deleteScenarioCmd{}, "scenarios")

	c.Register(&saleCmd{}, "simulation")
	c.Register(&simulateCmd{}, "simulation")
	c.Register(&summaryCmd{}, "simulation")
	c.Register(&queryCmd{}, "simulation")

	c.Register(&shellCmd{}, "")
	c.Register(&topicCmd{}, "")
	c.Register(&AssistCmd{}, "")
}

// DataDir returns the data directory from the flags, or the default one.
func DataDir() (string, error) {
	if *dataDir != "" {
		return *dataDir, nil
	}
	return fundselling.DefaultDataDir()
}

// OpenSession returns the session of this process, opening it on the first
// call.
func OpenSession() (*fundselling.Session, error) {
	if session != nil {
		return session, nil
	}
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}
	s, err := fundselling.OpenSession(fundselling.NewStore(dir), *scenario)
	if err != nil {
		return nil, err
	}
	session = s
	return s, nil
}

// printMarkdown renders md to the terminal.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// printOutcome prints the outcome of a mutation on the named object.
func printOutcome(kind, name string, o fundselling.Outcome) {
	switch o {
	case fundselling.AlreadyExists:
		fmt.Fprintf(stdout, "%s %q already exists, nothing changed.\n", kind, name)
	case fundselling.NotFound:
		fmt.Fprintf(stdout, "%s %q not found, nothing changed.\n", kind, name)
	default:
		fmt.Fprintf(stdout, "%s %q %s.\n", kind, name, o)
	}
}
