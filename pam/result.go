package pam

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Result is one immutable clustering outcome: k medoids, the assignment of
// every record to a cluster, and the total within-cluster dissimilarity
// achieved. Produced by Partition, consumed by the report aggregator and the
// embedding plot.
type Result struct {
	// K is the number of clusters.
	K int
	// Medoids holds the medoid record indexes in ascending order. The
	// cluster number of a record is its medoid's position in this slice.
	Medoids []int
	// Assignment maps each record index to a cluster number in [0, K).
	// Every medoid is assigned to its own cluster.
	Assignment []int
	// TotalCost is the sum over all records of the dissimilarity to their
	// medoid.
	TotalCost float64
}

// MedoidOf returns the medoid record index for record i.
func (r *Result) MedoidOf(i int) int {
	return r.Medoids[r.Assignment[i]]
}

// Members returns the record indexes of the given cluster as a bitmap.
// The medoid itself is always a member, so no cluster is empty.
func (r *Result) Members(cluster int) *roaring.Bitmap {
	bm := roaring.New()
	for i, c := range r.Assignment {
		if c == cluster {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Sizes returns the record count per cluster.
func (r *Result) Sizes() []int {
	sizes := make([]int, r.K)
	for _, c := range r.Assignment {
		sizes[c]++
	}
	return sizes
}
