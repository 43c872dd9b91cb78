package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Stage is one pure cleaning step. A stage never mutates its input.
type Stage func(*Table) (*Table, error)

// Clean applies stages in order and returns the final table.
func Clean(t *Table, stages ...Stage) (*Table, error) {
	for i, stage := range stages {
		nt, err := stage(t)
		if err != nil {
			return nil, fmt.Errorf("dataset: cleaning stage %d failed: %w", i, err)
		}
		t = nt
	}
	return t, nil
}

// TrimSpace trims leading and trailing whitespace from every cell.
func TrimSpace() Stage {
	return func(t *Table) (*Table, error) {
		for _, name := range t.ColumnNames() {
			nt, err := t.mapColumn(name, strings.TrimSpace)
			if err != nil {
				return nil, err
			}
			t = nt
		}
		return t, nil
	}
}

// DeduplicateBy drops rows whose key column repeats an earlier value.
// The first occurrence wins.
func DeduplicateBy(keyColumn string) Stage {
	return func(t *Table) (*Table, error) {
		keys, ok := t.Column(keyColumn)
		if !ok {
			return nil, fmt.Errorf("unknown key column %q", keyColumn)
		}

		seen := make(map[string]struct{}, len(keys))
		keep := make([]bool, len(keys))
		for i, k := range keys {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keep[i] = true
		}

		return t.filterRows(keep), nil
	}
}

// CanonicalizeLevels folds variant spellings of categorical levels into
// canonical ones. Cells without an alias entry pass through unchanged.
func CanonicalizeLevels(column string, aliases map[string]string) Stage {
	return func(t *Table) (*Table, error) {
		return t.mapColumn(column, func(v string) string {
			if canon, ok := aliases[v]; ok {
				return canon
			}
			return v
		})
	}
}

// FoldCase lower-cases every cell of the named column.
func FoldCase(column string) Stage {
	return func(t *Table) (*Table, error) {
		return t.mapColumn(column, strings.ToLower)
	}
}

// ClampNumeric corrects numeric outliers by clamping parseable cells into
// [lo, hi]. Cells that do not parse as numbers pass through unchanged; the
// schema normalizer decides later whether they are acceptable.
func ClampNumeric(column string, lo, hi float64) Stage {
	return func(t *Table) (*Table, error) {
		if lo > hi {
			return nil, fmt.Errorf("invalid clamp bounds [%v, %v]", lo, hi)
		}
		return t.mapColumn(column, func(v string) string {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return v
			}
			switch {
			case f < lo:
				return strconv.FormatFloat(lo, 'f', -1, 64)
			case f > hi:
				return strconv.FormatFloat(hi, 'f', -1, 64)
			default:
				return v
			}
		})
	}
}

// DropRowsWhere drops rows where pred returns true for the named column.
func DropRowsWhere(column string, pred func(string) bool) Stage {
	return func(t *Table) (*Table, error) {
		vals, ok := t.Column(column)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", column)
		}
		keep := make([]bool, len(vals))
		for i, v := range vals {
			keep[i] = !pred(v)
		}
		return t.filterRows(keep), nil
	}
}
