// Package coerce converts raw dataset cells into typed scalars. The upstream
// validator guarantees a rectangular table; the engine still refuses values
// it cannot coerce instead of silently defaulting them.
package coerce

import (
	"math"
	"strconv"
	"strings"

	"statadvisor/domain/table"
)

// Coercer applies deterministic numeric coercion rules.
type Coercer struct {
	// decimalSeparator is an additional accepted decimal mark beyond '.',
	// typically a non-ASCII separator such as '٫'.
	decimalSeparator rune
}

// New creates a coercer accepting the given extra decimal separator.
func New(decimalSeparator rune) *Coercer {
	return &Coercer{decimalSeparator: decimalSeparator}
}

// Cell converts one raw string into a dataset cell. Empty input becomes a
// missing cell, never zero. Values that parse as numbers become numeric
// cells; everything else stays a string (categorical) cell.
func (c *Coercer) Cell(raw string) table.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return table.MissingCell()
	}
	if v, ok := c.Number(trimmed); ok {
		return table.NumberCell(v)
	}
	return table.StringCell(trimmed)
}

// Number attempts numeric coercion. Accepted decimal marks, in order: '.',
// the configured separator, and ',' as the final fallback. The fallback only
// fires when the candidate contains exactly one comma, so "1,2,3" stays
// categorical.
func (c *Coercer) Number(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if v, ok := parseFloat(s); ok {
		return v, true
	}
	if c.decimalSeparator != 0 && c.decimalSeparator != '.' {
		if strings.Count(s, string(c.decimalSeparator)) == 1 {
			candidate := strings.Replace(s, string(c.decimalSeparator), ".", 1)
			if v, ok := parseFloat(candidate); ok {
				return v, true
			}
		}
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		candidate := strings.Replace(s, ",", ".", 1)
		if v, ok := parseFloat(candidate); ok {
			return v, true
		}
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
