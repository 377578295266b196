// Package fundselling simulates the staged sale of assets. It is designed to
// be local-first: every asset, sale configuration and sale result lives in a
// plain CSV file under a data directory that the user owns.
//
// The core functionalities include:
//   - Asset Registry: a global table of assets, each with a unit price, a
//     quantity and a number of sale iterations.
//   - Scenarios: named partitions of the data directory, each holding one
//     sale configuration and one sale result per asset.
//   - Sale Simulation: a stateless engine (Compute) turning a schedule of
//     increase factors and sold fractions into a value trajectory.
//   - Aggregation: scenario-wide totals read from the persisted results.
//
// A Session is the entry point for hosts (the fsim command line, the
// interactive shell, the assistant). It carries the data directory and the
// active scenario and reloads the registry on every operation.
package fundselling
