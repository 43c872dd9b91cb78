package pam

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/gowergo/gower"
)

// DefaultMaxIterations caps the number of swap passes.
// Each pass evaluates every (medoid, non-medoid) exchange, so in practice
// PAM converges far earlier; the cap only guards against float-noise cycles.
const DefaultMaxIterations = 100

// ErrInvalidK indicates a cluster count outside [2, N].
type ErrInvalidK struct {
	K, N int
}

func (e *ErrInvalidK) Error() string {
	return fmt.Sprintf("invalid cluster count: k=%d must satisfy 2 <= k <= %d", e.K, e.N)
}

// Option configures the partitioner.
type Option func(*options)

type options struct {
	maxIterations int
}

// WithMaxIterations overrides the swap-pass cap. Zero disables the swap
// phase entirely, leaving the greedy BUILD result.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxIterations = n
		}
	}
}

// Partition clusters the matrix's records around k medoids.
//
// BUILD greedily selects k initial medoids: the first minimizes total
// dissimilarity to all records, each next one maximizes the reduction in
// total assignment cost. SWAP then repeatedly applies the best strictly
// improving (medoid, non-medoid) exchange until none exists or the
// iteration cap is hit. Ties always break toward the lowest record index,
// so identical inputs yield identical results.
func Partition(ctx context.Context, m *gower.Matrix, k int, opts ...Option) (*Result, error) {
	o := options{maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&o)
	}

	n := m.Dim()
	if k < 2 || k > n {
		return nil, &ErrInvalidK{K: k, N: n}
	}

	medoids := build(m, k)

	st := newState(m, medoids)
	for pass := 0; pass < o.maxIterations; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !st.bestSwap() {
			break
		}
	}

	return st.result(), nil
}

// build runs the greedy BUILD phase and returns k medoid indexes.
func build(m *gower.Matrix, k int) []int {
	n := m.Dim()

	// First medoid: the record minimizing total dissimilarity to all others.
	first := 0
	bestTotal := math.Inf(1)
	for i := 0; i < n; i++ {
		var total float64
		for j := 0; j < n; j++ {
			total += m.At(i, j)
		}
		if total < bestTotal {
			bestTotal = total
			first = i
		}
	}

	medoids := []int{first}
	chosen := make([]bool, n)
	chosen[first] = true

	// nearest[j] is the dissimilarity from j to its nearest chosen medoid.
	nearest := make([]float64, n)
	for j := 0; j < n; j++ {
		nearest[j] = m.At(j, first)
	}

	for len(medoids) < k {
		best := -1
		bestGain := math.Inf(-1)
		for h := 0; h < n; h++ {
			if chosen[h] {
				continue
			}
			var gain float64
			for j := 0; j < n; j++ {
				if d := m.At(j, h); d < nearest[j] {
					gain += nearest[j] - d
				}
			}
			if gain > bestGain {
				bestGain = gain
				best = h
			}
		}

		medoids = append(medoids, best)
		chosen[best] = true
		for j := 0; j < n; j++ {
			if d := m.At(j, best); d < nearest[j] {
				nearest[j] = d
			}
		}
	}

	sort.Ints(medoids)
	return medoids
}

// state caches nearest and second-nearest medoid dissimilarities, which turn
// the O(n·k) swap-delta evaluation into O(n).
type state struct {
	m       *gower.Matrix
	medoids []int // ascending
	chosen  []bool

	near   []float64 // dissimilarity to nearest medoid
	slot   []int     // cluster slot of the nearest medoid
	second []float64 // dissimilarity to second-nearest medoid
}

func newState(m *gower.Matrix, medoids []int) *state {
	st := &state{
		m:       m,
		medoids: medoids,
		chosen:  make([]bool, m.Dim()),
		near:    make([]float64, m.Dim()),
		slot:    make([]int, m.Dim()),
		second:  make([]float64, m.Dim()),
	}
	for _, med := range medoids {
		st.chosen[med] = true
	}
	st.reassign()
	return st
}

// reassign recomputes nearest/second-nearest over the current medoid set.
// Medoids are scanned in ascending order, so dissimilarity ties land on the
// lowest medoid index.
func (st *state) reassign() {
	n := st.m.Dim()
	for j := 0; j < n; j++ {
		st.near[j] = math.Inf(1)
		st.second[j] = math.Inf(1)
		for s, med := range st.medoids {
			d := st.m.At(j, med)
			if d < st.near[j] {
				st.second[j] = st.near[j]
				st.near[j] = d
				st.slot[j] = s
			} else if d < st.second[j] {
				st.second[j] = d
			}
		}
	}
}

// bestSwap evaluates every (medoid, non-medoid) exchange and applies the
// best strictly improving one. Returns false at a local optimum.
func (st *state) bestSwap() bool {
	n := st.m.Dim()

	bestDelta := 0.0
	bestSlot, bestH := -1, -1

	for s := range st.medoids {
		for h := 0; h < n; h++ {
			if st.chosen[h] {
				continue
			}
			var delta float64
			for j := 0; j < n; j++ {
				dh := st.m.At(j, h)
				var after float64
				if st.slot[j] == s {
					after = math.Min(dh, st.second[j])
				} else {
					after = math.Min(st.near[j], dh)
				}
				delta += after - st.near[j]
			}
			// Strict improvement only; scanning in ascending (s, h) order
			// makes the first of any tied deltas win.
			if delta < bestDelta {
				bestDelta = delta
				bestSlot, bestH = s, h
			}
		}
	}

	if bestH < 0 {
		return false
	}

	st.chosen[st.medoids[bestSlot]] = false
	st.chosen[bestH] = true
	st.medoids[bestSlot] = bestH
	sort.Ints(st.medoids)
	st.reassign()
	return true
}

func (st *state) result() *Result {
	assignment := make([]int, st.m.Dim())
	copy(assignment, st.slot)

	medoids := make([]int, len(st.medoids))
	copy(medoids, st.medoids)

	return &Result{
		K:          len(medoids),
		Medoids:    medoids,
		Assignment: assignment,
		TotalCost:  floats.Sum(st.near),
	}
}
