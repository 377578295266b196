package fundselling

import (
	"errors"
	"fmt"
)

// ErrLength is returned when a configuration does not have one entry per
// asset iteration.
var ErrLength = errors.New("configuration length mismatch")

// ErrOverflow is returned when a result cannot be persisted because a value
// went out of the float64 range.
var ErrOverflow = errors.New("value out of range")

// Configuration is the sale schedule of an asset in a scenario.
//
// At iteration i the value is first multiplied by IncreaseFactor[i], then
// SoldFraction[i] of what remains is sold.
type Configuration struct {
	SoldFraction   []float64 `json:"soldFraction"`
	IncreaseFactor []float64 `json:"increaseFactor"`
}

// DefaultConfiguration returns the "no sale, no change" schedule of n iterations.
func DefaultConfiguration(n int) Configuration {
	c := Configuration{
		SoldFraction:   make([]float64, n),
		IncreaseFactor: make([]float64, n),
	}
	for i := range c.IncreaseFactor {
		c.IncreaseFactor[i] = 1
	}
	return c
}

// Len returns the number of iterations, or -1 if both sequences differ in length.
func (c Configuration) Len() int {
	if len(c.SoldFraction) != len(c.IncreaseFactor) {
		return -1
	}
	return len(c.SoldFraction)
}

// Clone returns a deep copy of c.
func (c Configuration) Clone() Configuration {
	return Configuration{
		SoldFraction:   append([]float64(nil), c.SoldFraction...),
		IncreaseFactor: append([]float64(nil), c.IncreaseFactor...),
	}
}

// Resize returns a copy of c with exactly n iterations. Missing iterations are
// filled with the default (nothing sold, factor 1) and extra ones are dropped.
func (c Configuration) Resize(n int) Configuration {
	d := DefaultConfiguration(n)
	copy(d.SoldFraction, c.SoldFraction)
	copy(d.IncreaseFactor, c.IncreaseFactor)
	return d
}

// Validate checks the ranges a host is expected to enforce on user input:
// sold fractions in [0,1] and non-negative increase factors.
//
// Compute does not call Validate, it computes with whatever it is given.
func (c Configuration) Validate() error {
	if c.Len() < 0 {
		return fmt.Errorf("%w: %d sold fractions for %d increase factors", ErrLength, len(c.SoldFraction), len(c.IncreaseFactor))
	}
	for i, f := range c.SoldFraction {
		if !isFinite(f) || f < 0 || f > 1 {
			return fmt.Errorf("iteration %d: sold fraction must be within [0,1], got %v", i+1, f)
		}
	}
	for i, f := range c.IncreaseFactor {
		if !isFinite(f) || f < 0 {
			return fmt.Errorf("iteration %d: increase factor must be a non-negative number, got %v", i+1, f)
		}
	}
	return nil
}

// Result is the value trajectory computed from a Configuration.
type Result struct {
	SoldValue      []float64 `json:"soldValue"`
	RemainingValue []float64 `json:"remainingValue"`
	UnitValue      []float64 `json:"unitValue"`
}

func (r Result) Len() int { return len(r.SoldValue) }

// Check returns ErrOverflow if a value of r, or one of its totals, is NaN or
// infinite.
func (r Result) Check() error {
	for _, col := range [][]float64{r.SoldValue, r.RemainingValue, r.UnitValue} {
		for i, v := range col {
			if !isFinite(v) {
				return fmt.Errorf("%w: %v at iteration %d", ErrOverflow, v, i+1)
			}
		}
	}
	if sold := r.TotalSold(); !isFinite(sold) {
		return fmt.Errorf("%w: total sold is %v", ErrOverflow, sold)
	}
	return nil
}

// TotalSold returns the sum of all sold values.
func (r Result) TotalSold() float64 {
	var sum float64
	for _, v := range r.SoldValue {
		sum += v
	}
	return sum
}

// TotalRemaining returns the value left after the last iteration, 0 for an
// empty result.
func (r Result) TotalRemaining() float64 {
	if len(r.RemainingValue) == 0 {
		return 0
	}
	return r.RemainingValue[len(r.RemainingValue)-1]
}

// Totals returns the sold and remaining totals.
func (r Result) Totals() Totals {
	return Totals{Sold: r.TotalSold(), Remaining: r.TotalRemaining()}
}

// Totals is a pair of sold and remaining values.
type Totals struct {
	Sold      float64 `json:"totalSold"`
	Remaining float64 `json:"totalRemaining"`
}

func (t Totals) Add(u Totals) Totals {
	return Totals{Sold: t.Sold + u.Sold, Remaining: t.Remaining + u.Remaining}
}

// Compute runs the sale simulation of asset a with the schedule c.
//
// The increase factor applies before the sale, and the fraction sold is
// relative to the value remaining after that increase. The unit value only
// compounds the increase factors. Compute does no I/O and does not validate
// the ranges of c, only that it has one entry per iteration.
func Compute(a Asset, c Configuration) (Result, error) {
	n := a.IterationCount
	if len(c.SoldFraction) != n || len(c.IncreaseFactor) != n {
		return Result{}, fmt.Errorf("%w: asset %q has %d iterations, got %d sold fractions and %d increase factors",
			ErrLength, a.Name, n, len(c.SoldFraction), len(c.IncreaseFactor))
	}

	r := Result{
		SoldValue:      make([]float64, n),
		RemainingValue: make([]float64, n),
		UnitValue:      make([]float64, n),
	}
	total := a.Price * a.Quantity
	unit := a.Price
	for i := range n {
		total *= c.IncreaseFactor[i]
		unit *= c.IncreaseFactor[i]
		sold := total * c.SoldFraction[i]
		total -= sold

		r.SoldValue[i] = sold
		r.RemainingValue[i] = total
		r.UnitValue[i] = unit
	}
	return r, nil
}
