package fundselling

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/renameio/v2"
)

const (
	assetsFilename       = "assets.csv"
	configurationSuffix  = "_config.csv"
	resultSuffix         = "_sales.csv"
	directoryPermissions = 0755
	filePermissions      = 0644
)

// Store is the data directory.
//
// Layout:
//
//	<root>/assets.csv                  the asset registry
//	<root>/<scenario>/                 one folder per scenario
//	<root>/<scenario>/<asset>_config.csv
//	<root>/<scenario>/<asset>_sales.csv
//
// Every table is rewritten as a whole and atomically replaced, so a reader
// never sees a half written table. Concurrent writers still race and the last
// one wins.
type Store struct {
	root string
}

// NewStore returns a Store rooted at the given folder. The folder is created
// lazily, on the first write.
func NewStore(root string) *Store { return &Store{root: root} }

func (s *Store) Root() string { return s.root }

func (s *Store) assetsFile() string { return filepath.Join(s.root, assetsFilename) }

func (s *Store) scenarioDir(scenario string) string { return filepath.Join(s.root, scenario) }

func (s *Store) configurationFile(scenario, asset string) string {
	return filepath.Join(s.root, scenario, asset+configurationSuffix)
}

func (s *Store) resultFile(scenario, asset string) string {
	return filepath.Join(s.root, scenario, asset+resultSuffix)
}

// DecodeAssets reads the registry. A missing file is an empty registry.
func (s *Store) DecodeAssets() (*Registry, error) {
	f, err := os.Open(s.assetsFile())
	if errors.Is(err, fs.ErrNotExist) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load error: cannot open assets file: %w", err)
	}
	defer f.Close()

	reg, err := DecodeAssets(f)
	if err != nil {
		return nil, fmt.Errorf("load error: cannot read assets file %q: %w", s.assetsFile(), err)
	}
	return reg, nil
}

// EncodeAssets writes the whole registry.
func (s *Store) EncodeAssets(r *Registry) error {
	if err := os.MkdirAll(s.root, directoryPermissions); err != nil {
		return fmt.Errorf("persist error: cannot create data directory %q: %w", s.root, err)
	}
	return writeFile(s.assetsFile(), func(w io.Writer) error { return EncodeAssets(w, r) })
}

// Scenarios returns the names of all scenarios in alphabetical order.
// Hidden folders are ignored.
func (s *Store) Scenarios() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load error: cannot list scenarios in %q: %w", s.root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// HasScenario returns true if the scenario folder exists.
func (s *Store) HasScenario(name string) (bool, error) {
	if validateName(name) != nil {
		return false, nil
	}
	info, err := os.Stat(s.scenarioDir(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load error: cannot stat scenario %q: %w", name, err)
	}
	return info.IsDir(), nil
}

// CreateScenario creates an empty scenario. It is idempotent.
func (s *Store) CreateScenario(name string) (Outcome, error) {
	if err := validateName(name); err != nil {
		return 0, fmt.Errorf("invalid scenario: %w", err)
	}
	exists, err := s.HasScenario(name)
	if err != nil {
		return 0, err
	}
	if exists {
		return AlreadyExists, nil
	}
	if err := os.MkdirAll(s.scenarioDir(name), directoryPermissions); err != nil {
		return 0, fmt.Errorf("persist error: cannot create scenario %q: %w", name, err)
	}
	log.Printf("create-scenario name=%q", name)
	return Created, nil
}

// DeleteScenario removes a scenario and everything it contains.
func (s *Store) DeleteScenario(name string) (Outcome, error) {
	exists, err := s.HasScenario(name)
	if err != nil {
		return 0, err
	}
	if !exists {
		return NotFound, nil
	}
	if err := os.RemoveAll(s.scenarioDir(name)); err != nil {
		return 0, fmt.Errorf("persist error: cannot delete scenario %q: %w", name, err)
	}
	log.Printf("delete-scenario name=%q", name)
	return Deleted, nil
}

// DecodeConfiguration reads the sale configuration of an asset in a scenario.
// found is false when nothing has been persisted yet.
func (s *Store) DecodeConfiguration(scenario, asset string) (c Configuration, found bool, err error) {
	err = readFile(s.configurationFile(scenario, asset), func(r io.Reader) (err error) {
		c, err = DecodeConfiguration(r)
		return err
	})
	if errors.Is(err, fs.ErrNotExist) {
		return Configuration{}, false, nil
	}
	if err != nil {
		return Configuration{}, false, err
	}
	return c, true, nil
}

// EncodeConfiguration writes the sale configuration of an asset in a scenario.
func (s *Store) EncodeConfiguration(scenario, asset string, c Configuration) error {
	return writeFile(s.configurationFile(scenario, asset), func(w io.Writer) error { return EncodeConfiguration(w, c) })
}

// DecodeResult reads the last persisted result of an asset in a scenario.
// found is false when the simulation has never been run.
func (s *Store) DecodeResult(scenario, asset string) (res Result, found bool, err error) {
	err = readFile(s.resultFile(scenario, asset), func(r io.Reader) (err error) {
		res, err = DecodeResult(r)
		return err
	})
	if errors.Is(err, fs.ErrNotExist) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	return res, true, nil
}

// EncodeResult writes the result of an asset in a scenario.
func (s *Store) EncodeResult(scenario, asset string, res Result) error {
	return writeFile(s.resultFile(scenario, asset), func(w io.Writer) error { return EncodeResult(w, res) })
}

// DeleteSale removes the configuration and the result of an asset in a
// scenario. Missing files are ignored.
func (s *Store) DeleteSale(scenario, asset string) error {
	for _, filename := range []string{s.resultFile(scenario, asset), s.configurationFile(scenario, asset)} {
		err := os.Remove(filename)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("persist error: cannot delete %q: %w", filename, err)
		}
		log.Printf("delete-table file=%q", filename)
	}
	return nil
}

// readFile opens filename and decodes it. Errors from os.Open are returned
// unwrapped so that fs.ErrNotExist can be tested.
func readFile(filename string, decode func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := decode(f); err != nil {
		return fmt.Errorf("load error: cannot read %q: %w", filename, err)
	}
	return nil
}

// writeFile encodes into a pending file that atomically replaces filename
// once complete. The folder must exist.
func writeFile(filename string, encode func(io.Writer) error) error {
	f, err := renameio.NewPendingFile(filename, renameio.WithPermissions(filePermissions))
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", filename, err)
	}
	defer f.Cleanup()

	if err := encode(f); err != nil {
		return fmt.Errorf("persist error: write error on file %q: %w", filename, err)
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("persist error: cannot replace file %q: %w", filename, err)
	}
	log.Printf("write-table file=%q", filename)
	return nil
}
