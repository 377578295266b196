// Package renderer turns assets, sale results and scenario reports into
// markdown. Values are rounded for display only.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/fundselling"
)

// ScenariosMarkdown renders the list of scenarios, marking the active one.
func ScenariosMarkdown(names []string, active string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Scenarios\n\n")
	if len(names) == 0 {
		fmt.Fprintln(&b, "No scenario, create one to start.")
		return b.String()
	}
	for _, name := range names {
		if name == active {
			fmt.Fprintf(&b, "* **%s** (active)\n", name)
			continue
		}
		fmt.Fprintf(&b, "* %s\n", name)
	}
	return b.String()
}

// AssetsMarkdown renders the asset registry with the total value of each
// holding, followed by a chart of those values.
func AssetsMarkdown(reg *fundselling.Registry, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Assets\n\n")
	if reg.Len() == 0 {
		fmt.Fprintln(&b, "No asset.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Unit Price | Quantity | Iterations | Total Value |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	var chart barChart
	for a := range reg.Assets() {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n",
			a.Name,
			formatNumber(a.Price),
			formatNumber(a.Quantity),
			a.IterationCount,
			formatMoney(a.TotalValue(), currency),
		)
		chart.add(a.Name, a.TotalValue(), formatMoney(a.TotalValue(), currency))
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "\n## Total Value per Asset\n\n")
		return chart.print(w)
	})
	return b.String()
}

// SaleMarkdown renders the sale of an asset: its KPIs, then one row per
// iteration with the schedule and the computed values.
func SaleMarkdown(scenario string, a fundselling.Asset, c fundselling.Configuration, res fundselling.Result, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sale of %s\n\n", a.Name)
	fmt.Fprintf(&b, "Scenario *%s*, %s units at %s.\n\n", scenario, formatNumber(a.Quantity), formatMoney(a.Price, currency))

	fmt.Fprintln(&b, "| Total Sold | Total Remaining |")
	fmt.Fprintln(&b, "|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s |\n\n", formatMoney(res.TotalSold(), currency), formatMoney(res.TotalRemaining(), currency))

	fmt.Fprintln(&b, "| Iteration | Increase | Sold | Sold Value | Remaining Value | Unit Value |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|---:|---:|")
	for i := range res.Len() {
		increase, sold := "", ""
		if i < len(c.IncreaseFactor) {
			increase = "×" + formatNumber(c.IncreaseFactor[i])
		}
		if i < len(c.SoldFraction) {
			sold = formatPercent(c.SoldFraction[i])
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			i+1,
			increase,
			sold,
			formatMoney(res.SoldValue[i], currency),
			formatMoney(res.RemainingValue[i], currency),
			formatMoney(res.UnitValue[i], currency),
		)
	}
	return b.String()
}

// SummaryMarkdown renders the global summary of a scenario: the totals of
// each asset as last simulated, and the scenario totals.
func SummaryMarkdown(rep *fundselling.ScenarioReport, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Scenario %s\n\n", rep.Scenario)
	if len(rep.Assets) == 0 {
		fmt.Fprintln(&b, "No asset.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset | Total Value | Total Sold | Total Remaining |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	notSimulated := 0
	for _, line := range rep.Assets {
		sold, remaining := "-", "-"
		if line.Simulated {
			sold = formatMoney(line.Sold, currency)
			remaining = formatMoney(line.Remaining, currency)
		} else {
			notSimulated++
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", line.Name, formatMoney(line.TotalValue, currency), sold, remaining)
	}
	fmt.Fprintf(&b, "| **Total** | | **%s** | **%s** |\n", formatMoney(rep.Sold, currency), formatMoney(rep.Remaining, currency))

	if notSimulated > 0 {
		fmt.Fprintf(&b, "\n%d asset(s) never simulated in this scenario count as zero.\n", notSimulated)
	}

	var chart barChart
	chart.add("Sold", rep.Sold, formatMoney(rep.Sold, currency))
	chart.add("Remaining", rep.Remaining, formatMoney(rep.Remaining, currency))
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintln(w)
		return chart.print(w)
	})
	return b.String()
}
