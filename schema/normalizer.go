package schema

import (
	"fmt"
	"strconv"

	"github.com/hupe1980/gowergo/dataset"
)

// UnknownPolicy decides how the normalizer treats categorical values outside
// a declared level set.
type UnknownPolicy uint8

const (
	// RejectUnknown fails normalization with ErrMismatch. Default.
	RejectUnknown UnknownPolicy = iota
	// AdmitUnknown treats the value as a new category.
	AdmitUnknown
)

// Option configures normalization.
type Option func(*options)

type options struct {
	keyColumn string
	unknown   UnknownPolicy
	missing   map[string]struct{}
}

// WithKeyColumn names the column holding the stable record key.
// Without it, record keys are the zero-based row index.
func WithKeyColumn(name string) Option {
	return func(o *options) { o.keyColumn = name }
}

// WithUnknownPolicy sets the treatment of out-of-domain categorical values.
func WithUnknownPolicy(p UnknownPolicy) Option {
	return func(o *options) { o.unknown = p }
}

// WithMissingValues overrides the set of raw cell values treated as missing.
// The default set is "", "NA", "N/A" and "null".
func WithMissingValues(values ...string) Option {
	return func(o *options) {
		o.missing = make(map[string]struct{}, len(values))
		for _, v := range values {
			o.missing[v] = struct{}{}
		}
	}
}

// Normalize coerces the schema's attributes out of the raw table into
// Records. Missing cells map to the explicit missing marker rather than
// being dropped, so record indexes stay aligned with table rows.
func Normalize(t *dataset.Table, s *Schema, opts ...Option) ([]Record, error) {
	o := options{
		missing: map[string]struct{}{"": {}, "NA": {}, "N/A": {}, "null": {}},
	}
	for _, opt := range opts {
		opt(&o)
	}

	n := t.NumRows()

	keys := make([]string, n)
	if o.keyColumn != "" {
		col, ok := t.Column(o.keyColumn)
		if !ok {
			return nil, &ErrMismatch{Attribute: o.keyColumn, Row: -1}
		}
		copy(keys, col)
	} else {
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
	}

	records := make([]Record, n)
	for i := range records {
		records[i] = Record{Key: keys[i], Values: make([]Value, s.Len())}
	}

	for j, attr := range s.Attributes() {
		col, ok := t.Column(attr.Name)
		if !ok {
			return nil, &ErrMismatch{Attribute: attr.Name, Row: -1}
		}

		var rank map[string]int
		if len(attr.Levels) > 0 {
			rank = make(map[string]int, len(attr.Levels))
			for r, lvl := range attr.Levels {
				rank[lvl] = r
			}
		}

		for i, raw := range col {
			if _, miss := o.missing[raw]; miss {
				records[i].Values[j] = Value{Missing: true}
				continue
			}

			v, err := normalizeCell(attr, raw, rank, o.unknown)
			if err != nil {
				return nil, &ErrMismatch{Attribute: attr.Name, Value: raw, Row: i, cause: err}
			}
			records[i].Values[j] = v
		}
	}

	return records, nil
}

func normalizeCell(attr Attribute, raw string, rank map[string]int, unknown UnknownPolicy) (Value, error) {
	switch attr.Kind {
	case KindNominal:
		if rank != nil {
			if _, ok := rank[raw]; !ok && unknown == RejectUnknown {
				return Value{}, fmt.Errorf("value not in declared levels")
			}
		}
		return Value{Token: raw}, nil

	case KindOrdinal:
		r, ok := rank[raw]
		if !ok {
			if unknown == RejectUnknown {
				return Value{}, fmt.Errorf("value not in declared levels")
			}
			// Admitted unknown ordinal values rank after all declared levels.
			r = len(rank)
		}
		return Value{Token: raw, Num: float64(r)}, nil

	case KindNumeric:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("not a number: %w", err)
		}
		return Value{Num: f}, nil

	default:
		return Value{}, fmt.Errorf("unsupported attribute kind %v", attr.Kind)
	}
}
