package fundselling

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestAsset_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		asset     Asset
		expectErr bool
	}{
		{"Valid", Asset{Name: "MSCI World", Price: 10, Quantity: 5, IterationCount: 3}, false},
		{"Zero price and quantity", Asset{Name: "cash", IterationCount: 1}, false},
		{"Zero iterations", Asset{Name: "fund", Price: 1, Quantity: 1, IterationCount: 0}, true},
		{"Negative iterations", Asset{Name: "fund", Price: 1, Quantity: 1, IterationCount: -2}, true},
		{"Negative price", Asset{Name: "fund", Price: -1, Quantity: 1, IterationCount: 1}, true},
		{"Negative quantity", Asset{Name: "fund", Price: 1, Quantity: -1, IterationCount: 1}, true},
		{"Empty name", Asset{Name: "  ", Price: 1, Quantity: 1, IterationCount: 1}, true},
		{"Path in name", Asset{Name: "a/b", Price: 1, Quantity: 1, IterationCount: 1}, true},
		{"Dot name", Asset{Name: "..", Price: 1, Quantity: 1, IterationCount: 1}, true},
		{"NaN price", Asset{Name: "fund", Price: math.NaN(), Quantity: 1, IterationCount: 1}, true},
		{"Infinite price", Asset{Name: "fund", Price: math.Inf(1), Quantity: 1, IterationCount: 1}, true},
		{"Infinite quantity", Asset{Name: "fund", Price: 1, Quantity: math.Inf(1), IterationCount: 1}, true},
		{"Total value overflows", Asset{Name: "big", Price: 1e300, Quantity: 1e10, IterationCount: 1}, true},
		{"Large but finite", Asset{Name: "big", Price: 1e150, Quantity: 1e150, IterationCount: 1}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.asset.Validate()
			if hasErr := err != nil; hasErr != tc.expectErr {
				t.Errorf("Validate() returned error: %v, want error: %v", err, tc.expectErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAsset) {
				t.Errorf("Validate() error %v is not ErrInvalidAsset", err)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	first := Asset{Name: "gold", Price: 1800, Quantity: 2, IterationCount: 3}
	if got, err := r.Add(first); err != nil || got != Created {
		t.Fatalf("Add() = %v, %v; want %v", got, err, Created)
	}

	// First write wins.
	second := Asset{Name: "gold", Price: 1, Quantity: 1, IterationCount: 1}
	if got, err := r.Add(second); err != nil || got != AlreadyExists {
		t.Fatalf("Add(duplicate) = %v, %v; want %v", got, err, AlreadyExists)
	}
	// A duplicate is a no-op even when its fields are invalid.
	if got, err := r.Add(Asset{Name: "gold", IterationCount: 0}); err != nil || got != AlreadyExists {
		t.Fatalf("Add(invalid duplicate) = %v, %v; want %v", got, err, AlreadyExists)
	}
	if a, _ := r.Get("gold"); a != first {
		t.Errorf("Get() = %+v, want %+v", a, first)
	}

	if _, err := r.Add(Asset{Name: "bad", IterationCount: 0}); !errors.Is(err, ErrInvalidAsset) {
		t.Errorf("Add(invalid) error = %v, want %v", err, ErrInvalidAsset)
	}
	if r.Has("bad") {
		t.Errorf("invalid asset was registered")
	}

	if got, err := r.Update(second); err != nil || got != Updated {
		t.Fatalf("Update() = %v, %v; want %v", got, err, Updated)
	}
	if a, _ := r.Get("gold"); a != second {
		t.Errorf("Get() after Update = %+v, want %+v", a, second)
	}
	if got, err := r.Update(Asset{Name: "silver", IterationCount: 1}); err != nil || got != NotFound {
		t.Errorf("Update(missing) = %v, %v; want %v", got, err, NotFound)
	}
	if got, err := r.Update(Asset{Name: "silver", IterationCount: 0}); err != nil || got != NotFound {
		t.Errorf("Update(invalid missing) = %v, %v; want %v", got, err, NotFound)
	}
	if _, err := r.Update(Asset{Name: "gold", Price: -1, IterationCount: 1}); !errors.Is(err, ErrInvalidAsset) {
		t.Errorf("Update(invalid) error = %v, want %v", err, ErrInvalidAsset)
	}
	if a, _ := r.Get("gold"); a != second {
		t.Errorf("invalid Update changed the asset to %+v", a)
	}

	if _, err := r.Add(Asset{Name: "bonds", Price: 100, Quantity: 3, IterationCount: 2}); err != nil {
		t.Fatal(err)
	}
	if got, want := r.Names(), []string{"bonds", "gold"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	if got := r.Remove("gold"); got != Deleted {
		t.Errorf("Remove() = %v, want %v", got, Deleted)
	}
	if got := r.Remove("gold"); got != NotFound {
		t.Errorf("Remove(missing) = %v, want %v", got, NotFound)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestOutcome_Changed(t *testing.T) {
	for o, want := range map[Outcome]bool{
		Created:       true,
		Updated:       true,
		Deleted:       true,
		AlreadyExists: false,
		NotFound:      false,
	} {
		if got := o.Changed(); got != want {
			t.Errorf("%v.Changed() = %v, want %v", o, got, want)
		}
	}
}
