package pam

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/gowergo/gower"
)

// Silhouette computes the silhouette width s(i) for every record.
//
// a(i) is the average dissimilarity from i to the other members of its own
// cluster, b(i) the minimum over other clusters of the average dissimilarity
// to that cluster's members, and s(i) = (b(i) − a(i)) / max(a(i), b(i)).
// A record in a singleton cluster has no within-cluster cohesion to speak
// of and scores 0 by convention, so with k == N every width is 0.
func Silhouette(m *gower.Matrix, res *Result) []float64 {
	n := m.Dim()
	sizes := res.Sizes()

	widths := make([]float64, n)
	sums := make([]float64, res.K)

	for i := 0; i < n; i++ {
		for c := range sums {
			sums[c] = 0
		}
		for j := 0; j < n; j++ {
			if j != i {
				sums[res.Assignment[j]] += m.At(i, j)
			}
		}

		own := res.Assignment[i]
		if sizes[own] == 1 {
			continue // singleton: width stays 0
		}

		a := sums[own] / float64(sizes[own]-1)

		b := math.Inf(1)
		for c := 0; c < res.K; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			if avg := sums[c] / float64(sizes[c]); avg < b {
				b = avg
			}
		}

		if denom := math.Max(a, b); denom > 0 && !math.IsInf(b, 1) {
			widths[i] = (b - a) / denom
		}
	}

	return widths
}

// AvgSilhouette returns the mean silhouette width over all records.
func AvgSilhouette(m *gower.Matrix, res *Result) float64 {
	return stat.Mean(Silhouette(m, res), nil)
}
