// Package schema defines the attribute schema for mixed-type records and the
// normalizer that coerces raw table columns into a canonical discrete
// representation suitable for dissimilarity computation.
package schema

import (
	"fmt"
)

// Kind is the attribute kind driving partial-dissimilarity computation.
type Kind uint8

const (
	// KindNominal is an unordered categorical attribute. Partial
	// dissimilarity is a binary mismatch.
	KindNominal Kind = iota
	// KindOrdinal is an ordered categorical attribute. Values are ranked by
	// their position in the level list and compared like numerics on the
	// rank scale.
	KindOrdinal
	// KindNumeric is a numeric attribute compared by range-normalized
	// absolute difference.
	KindNumeric
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNominal:
		return "Nominal"
	case KindOrdinal:
		return "Ordinal"
	case KindNumeric:
		return "Numeric"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Attribute defines one clustering attribute.
type Attribute struct {
	Name string
	Kind Kind

	// Levels is the set of permissible values for categorical kinds.
	// For KindOrdinal the order of Levels defines the rank order.
	// For KindNominal an empty Levels means the domain is open (learned
	// from data). Must be empty for KindNumeric.
	Levels []string

	// Weight scales this attribute's contribution to the Gower average.
	// Zero means the default weight of 1.
	Weight float64
}

// Schema is an ordered, validated list of attribute definitions.
// It is immutable after construction.
type Schema struct {
	attrs  []Attribute
	byName map[string]int
}

// New creates a schema from the given attributes.
func New(attrs ...Attribute) (*Schema, error) {
	if len(attrs) == 0 {
		return nil, fmt.Errorf("schema: at least one attribute required")
	}

	byName := make(map[string]int, len(attrs))
	for i, a := range attrs {
		if a.Name == "" {
			return nil, fmt.Errorf("schema: attribute %d has empty name", i)
		}
		if _, ok := byName[a.Name]; ok {
			return nil, fmt.Errorf("schema: duplicate attribute %q", a.Name)
		}
		if a.Kind == KindNumeric && len(a.Levels) > 0 {
			return nil, fmt.Errorf("schema: numeric attribute %q must not declare levels", a.Name)
		}
		if a.Kind == KindOrdinal && len(a.Levels) == 0 {
			return nil, fmt.Errorf("schema: ordinal attribute %q requires ordered levels", a.Name)
		}
		if a.Weight < 0 {
			return nil, fmt.Errorf("schema: attribute %q has negative weight", a.Name)
		}
		byName[a.Name] = i
	}

	return &Schema{attrs: attrs, byName: byName}, nil
}

// Len returns the number of attributes.
func (s *Schema) Len() int { return len(s.attrs) }

// Attributes returns the attribute definitions in schema order.
// The returned slice must not be modified.
func (s *Schema) Attributes() []Attribute { return s.attrs }

// Attribute returns the named attribute definition.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}
