package fundselling

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"
	"strings"
)

// ErrInvalidAsset is returned when an asset definition cannot be registered.
var ErrInvalidAsset = errors.New("invalid asset")

// ErrUnknownAsset is returned by operations that need a registered asset.
var ErrUnknownAsset = errors.New("unknown asset")

// Asset is a named holding that is going to be sold in IterationCount steps.
type Asset struct {
	Name           string  `json:"name"`
	Price          float64 `json:"price"`    // unit price at the start of the scenario
	Quantity       float64 `json:"quantity"` // units held
	IterationCount int     `json:"iterationCount"`
}

// TotalValue returns the value of the whole holding at the start of the scenario.
func (a Asset) TotalValue() float64 { return a.Price * a.Quantity }

// Validate checks that the asset can be registered.
//
// The name is used as a file name in every scenario, so it cannot contain a
// path separator.
func (a Asset) Validate() error {
	if err := validateName(a.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}
	if a.IterationCount < 1 {
		return fmt.Errorf("%w %q: iteration count must be at least 1, got %d", ErrInvalidAsset, a.Name, a.IterationCount)
	}
	if !isFinite(a.Price) || a.Price < 0 {
		return fmt.Errorf("%w %q: price must be a non-negative number, got %v", ErrInvalidAsset, a.Name, a.Price)
	}
	if !isFinite(a.Quantity) || a.Quantity < 0 {
		return fmt.Errorf("%w %q: quantity must be a non-negative number, got %v", ErrInvalidAsset, a.Name, a.Quantity)
	}
	if !isFinite(a.TotalValue()) {
		return fmt.Errorf("%w %q: total value %v x %v is out of range", ErrInvalidAsset, a.Name, a.Price, a.Quantity)
	}
	return nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// validateName checks names used as file or folder names in the data directory.
func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("name cannot be empty")
	case name == "." || name == "..":
		return fmt.Errorf("name %q is reserved", name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("name %q cannot start with a dot", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name %q cannot contain a path separator", name)
	}
	return nil
}

// Registry is the global table of assets, keyed by name.
//
// The registry is an in-memory snapshot, Store.EncodeAssets writes it back.
type Registry struct {
	assets map[string]Asset
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{assets: make(map[string]Asset)}
}

func (r *Registry) Len() int { return len(r.assets) }

func (r *Registry) Has(name string) bool {
	_, ok := r.assets[name]
	return ok
}

// Get returns the asset registered under name.
func (r *Registry) Get(name string) (Asset, bool) {
	a, ok := r.assets[name]
	return a, ok
}

// Names returns the registered names in alphabetical order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.assets))
}

// Assets iterates over registered assets in alphabetical order.
func (r *Registry) Assets() iter.Seq[Asset] {
	return func(yield func(Asset) bool) {
		for _, name := range r.Names() {
			if !yield(r.assets[name]) {
				return
			}
		}
	}
}

// Map returns a copy of the registry content.
func (r *Registry) Map() map[string]Asset {
	return maps.Clone(r.assets)
}

// Add registers a new asset. First write wins: if the name is already taken
// the registry is left untouched and AlreadyExists is returned, whatever the
// other fields are.
func (r *Registry) Add(a Asset) (Outcome, error) {
	if r.Has(a.Name) {
		return AlreadyExists, nil
	}
	if err := a.Validate(); err != nil {
		return 0, err
	}
	r.assets[a.Name] = a
	return Created, nil
}

// Update replaces all the fields of an existing asset.
// Updating a missing asset is a no-op returning NotFound.
func (r *Registry) Update(a Asset) (Outcome, error) {
	if !r.Has(a.Name) {
		return NotFound, nil
	}
	if err := a.Validate(); err != nil {
		return 0, err
	}
	r.assets[a.Name] = a
	return Updated, nil
}

// Remove deletes an asset from the registry.
//
// It does not touch the scenarios, see CascadeRemove.
func (r *Registry) Remove(name string) Outcome {
	if !r.Has(name) {
		return NotFound
	}
	delete(r.assets, name)
	return Deleted
}
