package fundselling

import (
	"errors"
	"fmt"
	"log"
)

// ErrNoScenario is returned by asset and sale operations when no scenario is
// active.
var ErrNoScenario = errors.New("no scenario: create a scenario first")

// ErrUnknownScenario is returned when selecting a scenario that does not exist.
var ErrUnknownScenario = errors.New("unknown scenario")

// Session is a host's view on the data directory with one active scenario.
//
// A Session does not cache the registry, each operation reads a fresh
// snapshot from the Store, so two sessions on the same data directory see
// each other's writes (and overwrite them, last writer wins).
type Session struct {
	store    *Store
	scenario string
	missing  string // requested scenario that does not exist (yet)
}

// OpenSession opens a session on store with scenario active.
//
// If scenario is empty the first existing scenario is used, and if there is
// none the session starts in the "no scenario" state where only scenario
// operations and ListAssets are available.
//
// A scenario that does not exist also opens the session in the "no scenario"
// state: operations that need it return ErrUnknownScenario until it is
// created.
func OpenSession(store *Store, scenario string) (*Session, error) {
	s := &Session{store: store}
	if scenario != "" {
		exists, err := store.HasScenario(scenario)
		if err != nil {
			return nil, err
		}
		if exists {
			s.scenario = scenario
		} else {
			log.Printf("open-session missing-scenario=%q", scenario)
			s.missing = scenario
		}
		return s, nil
	}
	scenarios, err := store.Scenarios()
	if err != nil {
		return nil, err
	}
	if len(scenarios) > 0 {
		s.scenario = scenarios[0]
	}
	return s, nil
}

func (s *Session) Store() *Store { return s.store }

// Scenario returns the active scenario, or "" if there is none.
func (s *Session) Scenario() string { return s.scenario }

// Use makes an existing scenario the active one.
func (s *Session) Use(scenario string) error {
	exists, err := s.store.HasScenario(scenario)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w %q", ErrUnknownScenario, scenario)
	}
	s.scenario, s.missing = scenario, ""
	return nil
}

func (s *Session) requireScenario() error {
	switch {
	case s.scenario != "":
		return nil
	case s.missing != "":
		return fmt.Errorf("%w %q", ErrUnknownScenario, s.missing)
	default:
		return ErrNoScenario
	}
}

// ListAssets returns a fresh snapshot of the asset registry.
func (s *Session) ListAssets() (*Registry, error) { return s.store.DecodeAssets() }

// AddAsset registers a new asset. Adding an existing name is a no-op that
// returns AlreadyExists.
func (s *Session) AddAsset(a Asset) (Outcome, error) {
	return s.mutateAssets(func(r *Registry) (Outcome, error) { return r.Add(a) })
}

// UpdateAsset replaces the fields of an existing asset. Persisted sale
// results are left as they are, they are refreshed by the next RunSimulation.
func (s *Session) UpdateAsset(a Asset) (Outcome, error) {
	return s.mutateAssets(func(r *Registry) (Outcome, error) { return r.Update(a) })
}

// RemoveAsset deletes an asset and its sale records in every scenario.
func (s *Session) RemoveAsset(name string) (Outcome, error) {
	return s.mutateAssets(func(r *Registry) (Outcome, error) {
		outcome := r.Remove(name)
		if outcome != Deleted {
			return outcome, nil
		}
		if _, err := CascadeRemove(s.store, name); err != nil {
			return 0, err
		}
		return outcome, nil
	})
}

// mutateAssets loads the registry, applies f and writes the registry back if
// f changed something.
func (s *Session) mutateAssets(f func(*Registry) (Outcome, error)) (Outcome, error) {
	if err := s.requireScenario(); err != nil {
		return 0, err
	}
	reg, err := s.store.DecodeAssets()
	if err != nil {
		return 0, err
	}
	outcome, err := f(reg)
	if err != nil {
		return 0, err
	}
	if !outcome.Changed() {
		return outcome, nil
	}
	if err := s.store.EncodeAssets(reg); err != nil {
		return 0, err
	}
	log.Printf("save-assets outcome=%q count=%d", outcome, reg.Len())
	return outcome, nil
}

// ListScenarios returns all scenario names in alphabetical order.
func (s *Session) ListScenarios() ([]string, error) { return s.store.Scenarios() }

// CreateScenario creates a scenario, if needed, and makes it the active one.
func (s *Session) CreateScenario(name string) (Outcome, error) {
	outcome, err := s.store.CreateScenario(name)
	if err != nil {
		return 0, err
	}
	s.scenario, s.missing = name, ""
	return outcome, nil
}

// DeleteScenario deletes a scenario and all its sale records. Deleting the
// active scenario leaves the session without a scenario.
func (s *Session) DeleteScenario(name string) (Outcome, error) {
	outcome, err := s.store.DeleteScenario(name)
	if err != nil {
		return 0, err
	}
	if outcome == Deleted && name == s.scenario {
		s.scenario = ""
	}
	return outcome, nil
}

// asset returns the registered asset, or ErrUnknownAsset.
func (s *Session) asset(name string) (Asset, error) {
	if err := s.requireScenario(); err != nil {
		return Asset{}, err
	}
	reg, err := s.store.DecodeAssets()
	if err != nil {
		return Asset{}, err
	}
	a, ok := reg.Get(name)
	if !ok {
		return Asset{}, fmt.Errorf("%w %q", ErrUnknownAsset, name)
	}
	return a, nil
}

// LoadConfiguration returns the persisted sale configuration of an asset in
// the active scenario, or the default one.
//
// The configuration always has one entry per iteration of the asset: if the
// iteration count was modified after the configuration was saved, it is
// padded with defaults or truncated.
func (s *Session) LoadConfiguration(name string) (Configuration, error) {
	a, err := s.asset(name)
	if err != nil {
		return Configuration{}, err
	}
	c, found, err := s.store.DecodeConfiguration(s.scenario, name)
	if err != nil {
		return Configuration{}, err
	}
	if !found {
		return DefaultConfiguration(a.IterationCount), nil
	}
	return c.Resize(a.IterationCount), nil
}

// LoadResult returns the last persisted result of an asset in the active
// scenario. found is false if the simulation was never run.
func (s *Session) LoadResult(name string) (res Result, found bool, err error) {
	if _, err := s.asset(name); err != nil {
		return Result{}, false, err
	}
	return s.store.DecodeResult(s.scenario, name)
}

// RunSimulation computes the sale of an asset with c in the active scenario
// and persists both c and the result.
func (s *Session) RunSimulation(name string, c Configuration) (Result, error) {
	a, err := s.asset(name)
	if err != nil {
		return Result{}, err
	}
	res, err := Compute(a, c)
	if err != nil {
		return Result{}, err
	}
	if err := res.Check(); err != nil {
		return Result{}, fmt.Errorf("cannot save the sale of %q: %w", name, err)
	}
	if err := s.SaveSale(name, c, res); err != nil {
		return Result{}, err
	}
	log.Printf("run-simulation scenario=%q asset=%q sold=%v remaining=%v", s.scenario, name, res.TotalSold(), res.TotalRemaining())
	return res, nil
}

// SaveSale persists a configuration and its result in the active scenario.
//
// The configuration is written first. If writing the result then fails, the
// configuration is not rolled back.
func (s *Session) SaveSale(name string, c Configuration, res Result) error {
	if err := s.requireScenario(); err != nil {
		return err
	}
	if err := s.store.EncodeConfiguration(s.scenario, name, c); err != nil {
		return err
	}
	return s.store.EncodeResult(s.scenario, name, res)
}

// Aggregate sums the persisted results of the named assets in the active
// scenario. With no names, all registered assets are summed.
func (s *Session) Aggregate(names ...string) (Totals, error) {
	if err := s.requireScenario(); err != nil {
		return Totals{}, err
	}
	if len(names) == 0 {
		reg, err := s.store.DecodeAssets()
		if err != nil {
			return Totals{}, err
		}
		names = reg.Names()
	}
	return Aggregate(s.store, s.scenario, names)
}
