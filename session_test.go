package fundselling

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newTestSession returns a session on an empty data directory with a "base"
// scenario and two assets.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := OpenSession(NewStore(t.TempDir()), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateScenario("base"); err != nil {
		t.Fatal(err)
	}
	for _, a := range []Asset{
		{Name: "fund", Price: 10, Quantity: 100, IterationCount: 2},
		{Name: "gold", Price: 5, Quantity: 100, IterationCount: 1},
	} {
		if _, err := s.AddAsset(a); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestSession_NoScenario(t *testing.T) {
	s, err := OpenSession(NewStore(t.TempDir()), "")
	if err != nil {
		t.Fatal(err)
	}
	if s.Scenario() != "" {
		t.Fatalf("Scenario() = %q, want none", s.Scenario())
	}

	a := Asset{Name: "fund", Price: 1, Quantity: 1, IterationCount: 1}
	if _, err := s.AddAsset(a); !errors.Is(err, ErrNoScenario) {
		t.Errorf("AddAsset() error = %v, want %v", err, ErrNoScenario)
	}
	if _, err := s.RunSimulation("fund", DefaultConfiguration(1)); !errors.Is(err, ErrNoScenario) {
		t.Errorf("RunSimulation() error = %v, want %v", err, ErrNoScenario)
	}
	if _, err := s.Aggregate(); !errors.Is(err, ErrNoScenario) {
		t.Errorf("Aggregate() error = %v, want %v", err, ErrNoScenario)
	}
	reg, err := s.ListAssets()
	if err != nil || reg.Len() != 0 {
		t.Errorf("ListAssets() = %v, %v; want empty", reg, err)
	}

}

func TestSession_MissingScenario(t *testing.T) {
	s, err := OpenSession(NewStore(t.TempDir()), "crash")
	if err != nil {
		t.Fatalf("OpenSession(missing) unexpected error: %v", err)
	}
	if s.Scenario() != "" {
		t.Errorf("Scenario() = %q, want none", s.Scenario())
	}
	a := Asset{Name: "fund", Price: 1, Quantity: 1, IterationCount: 1}
	if _, err := s.AddAsset(a); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("AddAsset() error = %v, want %v", err, ErrUnknownScenario)
	}
	if _, err := s.Aggregate(); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("Aggregate() error = %v, want %v", err, ErrUnknownScenario)
	}

	// Scenario operations stay available, creating it makes it active.
	if names, err := s.ListScenarios(); err != nil || len(names) != 0 {
		t.Errorf("ListScenarios() = %v, %v; want none", names, err)
	}
	if got, err := s.CreateScenario("crash"); err != nil || got != Created {
		t.Fatalf("CreateScenario() = %v, %v; want %v", got, err, Created)
	}
	if s.Scenario() != "crash" {
		t.Errorf("Scenario() after CreateScenario = %q, want %q", s.Scenario(), "crash")
	}
	if got, err := s.AddAsset(a); err != nil || got != Created {
		t.Errorf("AddAsset() = %v, %v; want %v", got, err, Created)
	}

	// An existing scenario is not missing.
	other, err := OpenSession(s.Store(), "crash")
	if err != nil || other.Scenario() != "crash" {
		t.Errorf("OpenSession(crash) = %q, %v", other.Scenario(), err)
	}
}

func TestSession_DefaultsToFirstScenario(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, name := range []string{"zeta", "alpha"} {
		if _, err := store.CreateScenario(name); err != nil {
			t.Fatal(err)
		}
	}
	s, err := OpenSession(store, "")
	if err != nil {
		t.Fatal(err)
	}
	if s.Scenario() != "alpha" {
		t.Errorf("Scenario() = %q, want %q", s.Scenario(), "alpha")
	}
}

func TestSession_AssetLifecycle(t *testing.T) {
	s := newTestSession(t)

	if got, err := s.AddAsset(Asset{Name: "fund", Price: 99, Quantity: 1, IterationCount: 1}); err != nil || got != AlreadyExists {
		t.Errorf("AddAsset(duplicate) = %v, %v; want %v", got, err, AlreadyExists)
	}
	if got, err := s.AddAsset(Asset{Name: "fund", IterationCount: 0}); err != nil || got != AlreadyExists {
		t.Errorf("AddAsset(invalid duplicate) = %v, %v; want %v", got, err, AlreadyExists)
	}
	if _, err := s.AddAsset(Asset{Name: "zero", Price: 1, Quantity: 1}); !errors.Is(err, ErrInvalidAsset) {
		t.Errorf("AddAsset(0 iterations) error = %v, want %v", err, ErrInvalidAsset)
	}

	updated := Asset{Name: "gold", Price: 6, Quantity: 50, IterationCount: 4}
	if got, err := s.UpdateAsset(updated); err != nil || got != Updated {
		t.Errorf("UpdateAsset() = %v, %v; want %v", got, err, Updated)
	}
	if got, err := s.UpdateAsset(Asset{Name: "silver", IterationCount: 1}); err != nil || got != NotFound {
		t.Errorf("UpdateAsset(missing) = %v, %v; want %v", got, err, NotFound)
	}

	// The registry is persisted: a new session sees it.
	other, err := OpenSession(s.Store(), "base")
	if err != nil {
		t.Fatal(err)
	}
	reg, err := other.ListAssets()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]Asset{
		"fund": {Name: "fund", Price: 10, Quantity: 100, IterationCount: 2},
		"gold": updated,
	}
	if diff := cmp.Diff(want, reg.Map()); diff != "" {
		t.Errorf("ListAssets() mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_RunSimulation(t *testing.T) {
	s := newTestSession(t)

	c, err := s.LoadConfiguration("fund")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfiguration(2), c); diff != "" {
		t.Errorf("LoadConfiguration() default mismatch (-want +got):\n%s", diff)
	}

	c = Configuration{SoldFraction: []float64{0.5, 1.0}, IncreaseFactor: []float64{1.0, 1.1}}
	res, err := s.RunSimulation("fund", c)
	if err != nil {
		t.Fatalf("RunSimulation() unexpected error: %v", err)
	}
	if diff := cmp.Diff(Totals{Sold: 1050, Remaining: 0}, res.Totals(), approx); diff != "" {
		t.Errorf("RunSimulation() totals mismatch (-want +got):\n%s", diff)
	}

	// Both the configuration and the result are persisted.
	loaded, err := s.LoadConfiguration("fund")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, loaded); diff != "" {
		t.Errorf("LoadConfiguration() mismatch (-want +got):\n%s", diff)
	}
	persisted, found, err := s.LoadResult("fund")
	if err != nil || !found {
		t.Fatalf("LoadResult() = %v, %v", found, err)
	}
	if diff := cmp.Diff(res, persisted); diff != "" {
		t.Errorf("LoadResult() mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.RunSimulation("missing", c); !errors.Is(err, ErrUnknownAsset) {
		t.Errorf("RunSimulation(missing) error = %v, want %v", err, ErrUnknownAsset)
	}
	if _, err := s.RunSimulation("fund", DefaultConfiguration(3)); !errors.Is(err, ErrLength) {
		t.Errorf("RunSimulation(wrong length) error = %v, want %v", err, ErrLength)
	}
}

func TestSession_RunSimulationOverflow(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.AddAsset(Asset{Name: "big", Price: 1e300, Quantity: 1, IterationCount: 2}); err != nil {
		t.Fatal(err)
	}
	c := Configuration{SoldFraction: []float64{0, 0.5}, IncreaseFactor: []float64{1e10, 1}}
	if _, err := s.RunSimulation("big", c); !errors.Is(err, ErrOverflow) {
		t.Fatalf("RunSimulation() error = %v, want %v", err, ErrOverflow)
	}
	if _, found, err := s.LoadResult("big"); err != nil || found {
		t.Errorf("LoadResult() = %v, %v; want nothing persisted", found, err)
	}
	if _, err := s.Report(); err != nil {
		t.Errorf("Report() after an overflow: %v", err)
	}
}

func TestSession_RunSimulationIsIdempotent(t *testing.T) {
	s := newTestSession(t)
	c := Configuration{SoldFraction: []float64{0.3, 0.7}, IncreaseFactor: []float64{1.07, 0.93}}

	file := filepath.Join(s.Store().Root(), "base", "fund_sales.csv")
	var outputs []string
	for range 2 {
		if _, err := s.RunSimulation("fund", c); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, string(data))
	}
	if outputs[0] != outputs[1] {
		t.Errorf("second run changed the persisted result:\n%s\n%s", outputs[0], outputs[1])
	}
}

func TestSession_LoadConfigurationResize(t *testing.T) {
	s := newTestSession(t)
	c := Configuration{SoldFraction: []float64{0.5, 0.5}, IncreaseFactor: []float64{2, 3}}
	if _, err := s.RunSimulation("fund", c); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateAsset(Asset{Name: "fund", Price: 10, Quantity: 100, IterationCount: 3}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadConfiguration("fund")
	if err != nil {
		t.Fatal(err)
	}
	want := Configuration{SoldFraction: []float64{0.5, 0.5, 0}, IncreaseFactor: []float64{2, 3, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadConfiguration() mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_Aggregate(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.AddAsset(Asset{Name: "never-run", Price: 1000, Quantity: 1000, IterationCount: 1}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.RunSimulation("fund", Configuration{SoldFraction: []float64{0.5, 1.0}, IncreaseFactor: []float64{1.0, 1.1}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RunSimulation("gold", Configuration{SoldFraction: []float64{0.6}, IncreaseFactor: []float64{1}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Aggregate()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Totals{Sold: 1350, Remaining: 200}, got, approx); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}

	only, err := s.Aggregate("gold")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Totals{Sold: 300, Remaining: 200}, only, approx); diff != "" {
		t.Errorf("Aggregate(gold) mismatch (-want +got):\n%s", diff)
	}

	// Modifying an asset does not refresh its persisted result.
	if _, err := s.UpdateAsset(Asset{Name: "gold", Price: 50, Quantity: 100, IterationCount: 1}); err != nil {
		t.Fatal(err)
	}
	stale, err := s.Aggregate()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(got, stale, approx); diff != "" {
		t.Errorf("Aggregate() after UpdateAsset changed (-want +got):\n%s", diff)
	}

	rep, err := s.Report()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(got, rep.Totals, approx); diff != "" {
		t.Errorf("Report() totals mismatch (-want +got):\n%s", diff)
	}
	if len(rep.Assets) != 3 || rep.Assets[2].Name != "never-run" || rep.Assets[2].Simulated {
		t.Errorf("Report() assets = %+v, want never-run last and not simulated", rep.Assets)
	}
}

func TestSession_RemoveAssetCascades(t *testing.T) {
	s := newTestSession(t)
	c := Configuration{SoldFraction: []float64{1}, IncreaseFactor: []float64{1}}
	for _, scenario := range []string{"base", "other"} {
		if _, err := s.CreateScenario(scenario); err != nil {
			t.Fatal(err)
		}
		if _, err := s.RunSimulation("gold", c); err != nil {
			t.Fatal(err)
		}
	}

	if got, err := s.RemoveAsset("gold"); err != nil || got != Deleted {
		t.Fatalf("RemoveAsset() = %v, %v; want %v", got, err, Deleted)
	}
	if got, err := s.RemoveAsset("gold"); err != nil || got != NotFound {
		t.Errorf("RemoveAsset(missing) = %v, %v; want %v", got, err, NotFound)
	}

	for _, scenario := range []string{"base", "other"} {
		for _, file := range []string{"gold_config.csv", "gold_sales.csv"} {
			path := filepath.Join(s.Store().Root(), scenario, file)
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("%s still exists after RemoveAsset()", path)
			}
		}
	}
	reg, err := s.ListAssets()
	if err != nil {
		t.Fatal(err)
	}
	if reg.Has("gold") {
		t.Error("gold is still registered")
	}
}

func TestSession_DeleteScenario(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.RunSimulation("gold", Configuration{SoldFraction: []float64{1}, IncreaseFactor: []float64{1}}); err != nil {
		t.Fatal(err)
	}

	if got, err := s.DeleteScenario("base"); err != nil || got != Deleted {
		t.Fatalf("DeleteScenario() = %v, %v; want %v", got, err, Deleted)
	}
	if s.Scenario() != "" {
		t.Errorf("Scenario() = %q after deleting it, want none", s.Scenario())
	}
	if got, err := s.DeleteScenario("base"); err != nil || got != NotFound {
		t.Errorf("DeleteScenario(missing) = %v, %v; want %v", got, err, NotFound)
	}

	// The registry is global, it survives the scenario.
	reg, err := s.ListAssets()
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 2 {
		t.Errorf("ListAssets() has %d assets after DeleteScenario(), want 2", reg.Len())
	}

	// Recreating the scenario starts empty.
	if _, err := s.CreateScenario("base"); err != nil {
		t.Fatal(err)
	}
	if _, found, err := s.LoadResult("gold"); err != nil || found {
		t.Errorf("LoadResult() in recreated scenario = %v, %v; want not found", found, err)
	}
}

func TestSession_Sale(t *testing.T) {
	s := newTestSession(t)

	preview, err := s.Sale("fund")
	if err != nil {
		t.Fatal(err)
	}
	if preview.Simulated {
		t.Error("Sale() before any simulation is marked as simulated")
	}
	if diff := cmp.Diff(Totals{Sold: 0, Remaining: 1000}, preview.Result.Totals(), approx); diff != "" {
		t.Errorf("Sale() preview totals mismatch (-want +got):\n%s", diff)
	}
	if _, found, _ := s.store.DecodeResult("base", "fund"); found {
		t.Error("Sale() persisted its preview")
	}

	c := Configuration{SoldFraction: []float64{0.5, 1.0}, IncreaseFactor: []float64{1.0, 1.1}}
	if _, err := s.RunSimulation("fund", c); err != nil {
		t.Fatal(err)
	}
	got, err := s.Sale("fund")
	if err != nil {
		t.Fatal(err)
	}
	want := &SaleReport{
		Scenario:      "base",
		Asset:         Asset{Name: "fund", Price: 10, Quantity: 100, IterationCount: 2},
		Configuration: c,
		Result: Result{
			SoldValue:      []float64{500, 550},
			RemainingValue: []float64{500, 0},
			UnitValue:      []float64{10, 11},
		},
		Simulated: true,
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Sale() mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Sale("missing"); !errors.Is(err, ErrUnknownAsset) {
		t.Errorf("Sale(missing) error = %v, want ErrUnknownAsset", err)
	}
}
