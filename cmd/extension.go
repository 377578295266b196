package cmd

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"syscall"
)

const (
	EnvDataDir  = "FSIM_DATA_DIR"
	EnvScenario = "FSIM_SCENARIO"
	EnvCurrency = "FSIM_CURRENCY"
	EnvVerbose  = "FSIM_VERBOSE"
)

// extensionEnv returns the environment of an extension: the current one plus
// the global flags.
func extensionEnv(environ []string) ([]string, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}
	active := *scenario
	if session != nil {
		active = session.Scenario()
	}
	return append(environ,
		EnvDataDir+"="+dir,
		EnvScenario+"="+active,
		EnvCurrency+"="+*currency,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	), nil
}

// RunExtension attempts to find and execute an external fsim-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "fsim-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", externalCmdName, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env, err = extensionEnv(os.Environ())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}

	return true, 0
}
