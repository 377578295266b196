package fundselling

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// This file contains the codecs of the three tables of the data directory.
// They are CSV files with a header line, so that they stay readable and
// editable with a spreadsheet.
//
// Columns are found by name, not by position. Floats are written with the
// fewest digits that parse back to the exact same value.

const (
	colName           = "name"
	colPrice          = "price"
	colQuantity       = "quantity"
	colIterationCount = "iterationCount"

	colSoldFraction   = "soldFraction"
	colIncreaseFactor = "increaseFactor"

	colSoldValue      = "soldValue"
	colRemainingValue = "remainingValue"
	colUnitValue      = "unitValue"
)

var (
	assetsHeader        = []string{colName, colPrice, colQuantity, colIterationCount}
	configurationHeader = []string{colSoldFraction, colIncreaseFactor}
	resultHeader        = []string{colSoldValue, colRemainingValue, colUnitValue}
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// EncodeAssets writes the registry as a CSV table, one asset per row in
// alphabetical order.
func EncodeAssets(w io.Writer, r *Registry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(assetsHeader); err != nil {
		return fmt.Errorf("encode error: cannot write assets header: %w", err)
	}
	for a := range r.Assets() {
		row := []string{a.Name, formatFloat(a.Price), formatFloat(a.Quantity), strconv.Itoa(a.IterationCount)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("encode error: cannot write asset %q: %w", a.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeAssets reads a registry written by EncodeAssets.
func DecodeAssets(r io.Reader) (*Registry, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndexes(header, assetsHeader)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	for i, row := range rows {
		line := i + 2 // 1-based, after the header
		a := Asset{Name: row[idx[0]]}
		if a.Price, err = parseFloat(row[idx[1]], line, colPrice); err != nil {
			return nil, err
		}
		if a.Quantity, err = parseFloat(row[idx[2]], line, colQuantity); err != nil {
			return nil, err
		}
		if a.IterationCount, err = strconv.Atoi(row[idx[3]]); err != nil {
			return nil, fmt.Errorf("parse error line %d: column %q must be an integer: %w", line, colIterationCount, err)
		}
		outcome, err := reg.Add(a)
		if err != nil {
			return nil, fmt.Errorf("parse error line %d: %w", line, err)
		}
		if outcome == AlreadyExists {
			return nil, fmt.Errorf("parse error line %d: asset %q is already defined", line, a.Name)
		}
	}
	return reg, nil
}

// EncodeConfiguration writes a sale configuration, one iteration per row.
func EncodeConfiguration(w io.Writer, c Configuration) error {
	if c.Len() < 0 {
		return fmt.Errorf("encode error: %w", ErrLength)
	}
	return writeColumns(w, configurationHeader, c.SoldFraction, c.IncreaseFactor)
}

// DecodeConfiguration reads a configuration written by EncodeConfiguration.
func DecodeConfiguration(r io.Reader) (Configuration, error) {
	cols, err := readColumns(r, configurationHeader)
	if err != nil {
		return Configuration{}, err
	}
	return Configuration{SoldFraction: cols[0], IncreaseFactor: cols[1]}, nil
}

// EncodeResult writes a sale result, one iteration per row.
func EncodeResult(w io.Writer, res Result) error {
	n := len(res.SoldValue)
	if len(res.RemainingValue) != n || len(res.UnitValue) != n {
		return errors.New("encode error: result columns have different lengths")
	}
	return writeColumns(w, resultHeader, res.SoldValue, res.RemainingValue, res.UnitValue)
}

// DecodeResult reads a result written by EncodeResult.
func DecodeResult(r io.Reader) (Result, error) {
	cols, err := readColumns(r, resultHeader)
	if err != nil {
		return Result{}, err
	}
	return Result{SoldValue: cols[0], RemainingValue: cols[1], UnitValue: cols[2]}, nil
}

// writeColumns writes same-length float columns under header.
func writeColumns(w io.Writer, header []string, columns ...[]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("encode error: cannot write header: %w", err)
	}
	n := len(columns[0])
	row := make([]string, len(columns))
	for i := range n {
		for j, col := range columns {
			row[j] = formatFloat(col[i])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("encode error: cannot write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// readColumns reads the float columns named in want, in that order.
func readColumns(r io.Reader, want []string) ([][]float64, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndexes(header, want)
	if err != nil {
		return nil, err
	}
	cols := make([][]float64, len(want))
	for j := range cols {
		cols[j] = make([]float64, len(rows))
	}
	for i, row := range rows {
		for j, k := range idx {
			v, err := parseFloat(row[k], i+2, want[j])
			if err != nil {
				return nil, err
			}
			cols[j][i] = v
		}
	}
	return cols, nil
}

// readTable reads a whole CSV stream and splits the header from the rows.
func readTable(r io.Reader) (header []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse error: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("parse error: missing header")
	}
	return records[0], records[1:], nil
}

// columnIndexes returns the position in header of each column in want.
func columnIndexes(header, want []string) ([]int, error) {
	idx := make([]int, len(want))
	for i, name := range want {
		k := slices.Index(header, name)
		if k < 0 {
			return nil, fmt.Errorf("parse error: missing column %q", name)
		}
		idx[i] = k
	}
	return idx, nil
}

func parseFloat(s string, line int, column string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse error line %d: column %q must be a number: %w", line, column, err)
	}
	return v, nil
}
