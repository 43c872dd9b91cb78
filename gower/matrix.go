package gower

// Matrix is a symmetric N×N dissimilarity matrix with zero diagonal.
// Only the strict upper triangle is stored (condensed layout), halving
// memory for the dense pairwise case. Read-only after construction; it is
// safe to share across the partitioner, the selector and the projector.
type Matrix struct {
	n    int
	data []float64
}

// NewMatrix creates a zero matrix for n records.
func NewMatrix(n int) *Matrix {
	return &Matrix{n: n, data: make([]float64, n*(n-1)/2)}
}

// Dim returns the number of records N.
func (m *Matrix) Dim() int { return m.n }

// At returns d(i, j). d(i,i) is 0 and d(i,j) == d(j,i) by construction.
func (m *Matrix) At(i, j int) float64 {
	if i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	return m.data[m.index(i, j)]
}

func (m *Matrix) set(i, j int, v float64) {
	m.data[m.index(i, j)] = v
}

// index maps (i, j) with i < j onto the condensed layout, where row i's
// cells for j > i are contiguous.
func (m *Matrix) index(i, j int) int {
	return i*(2*m.n-i-1)/2 + (j - i - 1)
}
