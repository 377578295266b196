package cmd

import (
	"context"
	"flag"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSplitArgs(t *testing.T) {
	testCases := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"", nil, false},
		{"   ", nil, false},
		{"assets", []string{"assets"}, false},
		{"  simulate  -sold 0.5,1\tfund ", []string{"simulate", "-sold", "0.5,1", "fund"}, false},
		{`query '$.assets[?(@.name == "fund")].totalSold'`, []string{"query", `$.assets[?(@.name == "fund")].totalSold`}, false},
		{`simulate -sold "0.5 1" fund`, []string{"simulate", "-sold", "0.5 1", "fund"}, false},
		{`add-asset ""`, []string{"add-asset", ""}, false},
		{`add-asset -price 10 my\ fund`, []string{"add-asset", "-price", "10", "my fund"}, false},
		{`add-asset "my \"best\" fund"`, []string{"add-asset", `my "best" fund`}, false},
		{`add-asset 'a\b'`, []string{"add-asset", `a\b`}, false},
		{`query '$.x`, nil, true},
		{`query "$.x`, nil, true},
	}
	for _, tc := range testCases {
		got, err := splitArgs(tc.line)
		if (err != nil) != tc.wantErr {
			t.Errorf("splitArgs(%q) error = %v, wantErr %v", tc.line, err, tc.wantErr)
			continue
		}
		if tc.wantErr {
			continue
		}
		if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("splitArgs(%q) mismatch (-want +got):\n%s", tc.line, diff)
		}
	}
}

func TestRunLine(t *testing.T) {
	dir := t.TempDir()
	// Opens the session on an empty data directory.
	mustRun(t, dir, "scenarios")

	ctx := context.Background()
	for _, line := range []string{
		"create-scenario crash",
		"create-scenario base",
		"add-asset -price 10 -quantity 100 -n 2 fund",
	} {
		if runLine(ctx, line) {
			t.Fatalf("runLine(%q) asked to exit", line)
		}
	}
	if got := session.Scenario(); got != "base" {
		t.Errorf("active scenario = %q, want the last created", got)
	}
	if got := shellPrompt(); got != "fsim:base> " {
		t.Errorf("shellPrompt() = %q", got)
	}

	runLine(ctx, "use crash")
	if got := session.Scenario(); got != "crash" {
		t.Errorf("use crash: active scenario = %q", got)
	}
	runLine(ctx, "use nowhere")
	if got := session.Scenario(); got != "crash" {
		t.Errorf("use of an unknown scenario changed the active one to %q", got)
	}

	runLine(ctx, "simulate -sold 1,0 fund")
	rep, err := session.Report()
	if err != nil {
		t.Fatal(err)
	}
	if rep.Scenario != "crash" || rep.Sold != 1000 {
		t.Errorf("simulate in the shell ran on %q with total sold %v, want crash and 1000", rep.Scenario, rep.Sold)
	}

	runLine(ctx, "delete-scenario crash")
	if got := shellPrompt(); got != "fsim> " {
		t.Errorf("shellPrompt() after deleting the active scenario = %q", got)
	}

	for _, line := range []string{"exit", "quit", "bye"} {
		if !runLine(ctx, line) {
			t.Errorf("runLine(%q) did not exit", line)
		}
	}
}

func TestCompletion(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "create-scenario", "base")
	mustRun(t, dir, "add-asset", "-price", "1", "-quantity", "1", "gold")
	mustRun(t, dir, "add-asset", "-price", "1", "-quantity", "1", "fund")

	global := flag.NewFlagSet("fsim", flag.ContinueOnError)
	global.String("data-dir", "", "")
	global.String("s", "", "")
	global.Bool("v", false, "")

	c := Completion(global)
	for _, name := range []string{"assets", "simulate", "summary", "query", "shell", "topic", "assist"} {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("Completion() has no %q sub command", name)
		}
	}
	for _, name := range []string{"data-dir", "s", "v"} {
		if _, ok := c.Flags[name]; !ok {
			t.Errorf("Completion() has no global flag %q", name)
		}
	}

	simulate := c.Sub["simulate"]
	for _, name := range []string{"sold", "increase", "json"} {
		if _, ok := simulate.Flags[name]; !ok {
			t.Errorf("Completion() of simulate has no flag %q", name)
		}
	}
	if got := simulate.Args.Predict(""); !slices.Equal(got, []string{"fund", "gold"}) {
		t.Errorf("simulate arguments predicted as %q", got)
	}
	if got := c.Flags["s"].Predict(""); !slices.Equal(got, []string{"base"}) {
		t.Errorf("-s values predicted as %q", got)
	}
	if got := c.Sub["topic"].Args.Predict(""); !slices.Contains(got, "readme") {
		t.Errorf("topic arguments predicted as %q", got)
	}
}

func TestParseList(t *testing.T) {
	testCases := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"", nil, false},
		{"0.5,1", []float64{0.5, 1}, false},
		{"0.5;1", []float64{0.5, 1}, false},
		{"0,5;1", []float64{0.5, 1}, false},
		{"0,5 0,25 1", []float64{0.5, 0.25, 1}, false},
		{" 1.1 ", []float64{1.1}, false},
		{"1e-1,1", []float64{0.1, 1}, false},
		{"0.5,,1", nil, true},
		{"0.5,x", nil, true},
	}
	for _, tc := range testCases {
		got, err := parseList(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("parseList(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("parseList(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}
