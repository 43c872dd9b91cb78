package gower

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/gowergo/schema"
)

// ErrDegenerate indicates a record pair with no comparable attribute: every
// attribute was excluded for missingness, leaving the dissimilarity
// undefined. This is a data-quality problem upstream and fails fast.
type ErrDegenerate struct {
	I, J int
}

func (e *ErrDegenerate) Error() string {
	return fmt.Sprintf("degenerate dissimilarity: records %d and %d share no comparable attribute", e.I, e.J)
}

// Option configures matrix computation.
type Option func(*options)

type options struct {
	parallelism int
}

// WithParallelism bounds the number of row blocks computed concurrently.
// Defaults to GOMAXPROCS. A value of 1 forces a sequential build.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// Compute builds the Gower dissimilarity matrix for the given records.
//
// Per attribute j and pair (a, b):
//   - nominal: 0 on token equality, else 1
//   - numeric/ordinal: |x_a − x_b| / R_j with R_j the observed range;
//     a constant attribute (R_j == 0) contributes 0
//   - either side missing: the attribute drops out of both the numerator
//     and the denominator for that pair
//
// The total is the weight-normalized average of the remaining partials.
func Compute(ctx context.Context, recs []schema.Record, s *schema.Schema, opts ...Option) (*Matrix, error) {
	o := options{parallelism: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}

	n := len(recs)
	if n == 0 {
		return nil, fmt.Errorf("gower: no records")
	}
	for i, r := range recs {
		if len(r.Values) != s.Len() {
			return nil, fmt.Errorf("gower: record %d has %d values, schema has %d attributes", i, len(r.Values), s.Len())
		}
	}

	attrs := s.Attributes()
	ranges := observedRanges(recs, attrs)

	m := NewMatrix(n)

	// Row i owns the contiguous condensed cells (i, j>i), so workers write
	// disjoint regions and no locking is needed.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)

	for i := 0; i < n-1; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < n; j++ {
				d, ok := pairDissimilarity(recs[i], recs[j], attrs, ranges)
				if !ok {
					return &ErrDegenerate{I: i, J: j}
				}
				m.set(i, j, d)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func pairDissimilarity(a, b schema.Record, attrs []schema.Attribute, ranges []float64) (float64, bool) {
	var num, den float64
	for j, attr := range attrs {
		va, vb := a.Values[j], b.Values[j]
		if va.Missing || vb.Missing {
			continue
		}

		w := attr.Weight
		if w == 0 {
			w = 1
		}

		var partial float64
		switch attr.Kind {
		case schema.KindNominal:
			if va.Token != vb.Token {
				partial = 1
			}
		default: // KindOrdinal, KindNumeric
			if r := ranges[j]; r > 0 {
				partial = math.Abs(va.Num-vb.Num) / r
			}
		}

		num += w * partial
		den += w
	}

	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// observedRanges computes max−min per numeric/ordinal attribute over the
// non-missing values. Nominal slots stay 0.
func observedRanges(recs []schema.Record, attrs []schema.Attribute) []float64 {
	ranges := make([]float64, len(attrs))
	for j, attr := range attrs {
		if attr.Kind == schema.KindNominal {
			continue
		}

		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range recs {
			v := r.Values[j]
			if v.Missing {
				continue
			}
			lo = math.Min(lo, v.Num)
			hi = math.Max(hi, v.Num)
		}
		if hi > lo {
			ranges[j] = hi - lo
		}
	}
	return ranges
}
