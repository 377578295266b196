package fundselling

import (
	"fmt"
	"log"
)

// ResultReader reads persisted sale results. Store implements it.
type ResultReader interface {
	DecodeResult(scenario, asset string) (Result, bool, error)
}

// SaleRemover deletes the sale records of an asset. Store implements it.
type SaleRemover interface {
	Scenarios() ([]string, error)
	DeleteSale(scenario, asset string) error
}

// Aggregate sums the last persisted totals of the named assets in a scenario.
//
// Assets that were never simulated in the scenario count as zero. The results
// are not recomputed: a result persisted before its asset or configuration
// changed is summed as is.
func Aggregate(rr ResultReader, scenario string, assets []string) (Totals, error) {
	var sum Totals
	for _, name := range assets {
		t, _, err := assetTotals(rr, scenario, name)
		if err != nil {
			return Totals{}, err
		}
		sum = sum.Add(t)
	}
	return sum, nil
}

// assetTotals returns the totals of the persisted result of an asset.
// found is false, and totals zero, when there is none.
func assetTotals(rr ResultReader, scenario, asset string) (t Totals, found bool, err error) {
	res, found, err := rr.DecodeResult(scenario, asset)
	if err != nil {
		return Totals{}, false, fmt.Errorf("cannot read the result of %q in scenario %q: %w", asset, scenario, err)
	}
	if !found {
		return Totals{}, false, nil
	}
	return res.Totals(), true, nil
}

// CascadeRemove deletes the sale configuration and result of asset in every
// scenario, and returns the scenarios it went through.
//
// It stops at the first failure, scenarios already cleaned stay cleaned.
func CascadeRemove(sr SaleRemover, asset string) ([]string, error) {
	scenarios, err := sr.Scenarios()
	if err != nil {
		return nil, err
	}
	for i, scenario := range scenarios {
		if err := sr.DeleteSale(scenario, asset); err != nil {
			return scenarios[:i], fmt.Errorf("cannot remove %q from scenario %q: %w", asset, scenario, err)
		}
	}
	log.Printf("cascade-remove asset=%q scenarios=%d", asset, len(scenarios))
	return scenarios, nil
}
