package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseNumber parses a user number. Both "." and "," are accepted as decimal
// separator when there is no ambiguity ("0,5" but not "1,000.5").
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil && strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		d, err = decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	}
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return d.InexactFloat64(), nil
}

// parseList parses a list of numbers separated by ";" or spaces, or by ","
// when no other separator is used.
func parseList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var fields []string
	switch {
	case strings.Contains(s, ";"):
		fields = strings.Split(s, ";")
	case strings.ContainsAny(s, " \t"):
		fields = strings.Fields(s)
	default:
		fields = strings.Split(s, ",")
	}

	values := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := parseNumber(f)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		values = append(values, v)
	}
	return values, nil
}
