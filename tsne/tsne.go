// Package tsne projects a precomputed dissimilarity matrix into two
// dimensions via t-distributed stochastic neighbor embedding.
//
// The embedding exists for plotting only: no other component consumes it,
// and its quality is judged by eye, not by tests. Runs are deterministic for
// a fixed seed.
package tsne

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gowergo/gower"
)

// Option configures the embedding.
type Option func(*options)

type options struct {
	seed         int64
	perplexity   float64
	iterations   int
	learningRate float64
}

// WithSeed fixes the random initialization. Same seed, same embedding.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithPerplexity sets the effective neighborhood size. Default 30; clamped
// to N−1 for small inputs.
func WithPerplexity(p float64) Option {
	return func(o *options) {
		if p > 0 {
			o.perplexity = p
		}
	}
}

// WithIterations sets the number of gradient-descent steps. Default 500.
func WithIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.iterations = n
		}
	}
}

// WithLearningRate sets the gradient-descent step size. Default 200.
func WithLearningRate(lr float64) Option {
	return func(o *options) {
		if lr > 0 {
			o.learningRate = lr
		}
	}
}

const (
	exaggeration     = 4.0
	exaggerationECut = 100
	momentumInitial  = 0.5
	momentumFinal    = 0.8
	momentumSwitch   = 250
)

// Embed produces one (x, y) coordinate per record from the dissimilarity
// matrix, treating the matrix entries as precomputed distances rather than
// raw feature vectors.
func Embed(ctx context.Context, m *gower.Matrix, opts ...Option) ([][2]float64, error) {
	o := options{
		seed:         1,
		perplexity:   30,
		iterations:   500,
		learningRate: 200,
	}
	for _, opt := range opts {
		opt(&o)
	}

	n := m.Dim()
	if n == 0 {
		return nil, fmt.Errorf("tsne: empty matrix")
	}
	if n == 1 {
		return [][2]float64{{0, 0}}, nil
	}

	perp := math.Min(o.perplexity, float64(n-1))
	p := jointProbabilities(m, perp)

	rng := rand.New(rand.NewSource(o.seed))
	y := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		y.Set(i, 0, rng.NormFloat64()*1e-4)
		y.Set(i, 1, rng.NormFloat64()*1e-4)
	}

	update := mat.NewDense(n, 2, nil)
	gains := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		gains.Set(i, 0, 1)
		gains.Set(i, 1, 1)
	}

	p.Scale(exaggeration, p)

	grad := mat.NewDense(n, 2, nil)
	num := mat.NewDense(n, n, nil)

	for iter := 0; iter < o.iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gradient(p, y, num, grad)

		momentum := momentumInitial
		if iter >= momentumSwitch {
			momentum = momentumFinal
		}

		for i := 0; i < n; i++ {
			for d := 0; d < 2; d++ {
				g := grad.At(i, d)
				u := update.At(i, d)

				// Adaptive gains: shrink while the gradient keeps pointing
				// against the velocity, grow once they align.
				gain := gains.At(i, d)
				if (g > 0) == (u > 0) {
					gain *= 0.8
				} else {
					gain += 0.2
				}
				gain = math.Max(gain, 0.01)
				gains.Set(i, d, gain)

				u = momentum*u - o.learningRate*gain*g
				update.Set(i, d, u)
				y.Set(i, d, y.At(i, d)+u)
			}
		}

		center(y)

		if iter == exaggerationECut {
			p.Scale(1/exaggeration, p)
		}
	}

	coords := make([][2]float64, n)
	for i := 0; i < n; i++ {
		coords[i] = [2]float64{y.At(i, 0), y.At(i, 1)}
	}
	return coords, nil
}

// jointProbabilities converts pairwise dissimilarities into the symmetric
// joint distribution P, binary-searching a per-record bandwidth so that
// every conditional distribution matches the target perplexity.
func jointProbabilities(m *gower.Matrix, perplexity float64) *mat.Dense {
	n := m.Dim()
	logU := math.Log(perplexity)

	cond := mat.NewDense(n, n, nil)
	row := make([]float64, n)

	for i := 0; i < n; i++ {
		beta := 1.0
		betaMin, betaMax := math.Inf(-1), math.Inf(1)

		for try := 0; try < 50; try++ {
			var sum float64
			for j := 0; j < n; j++ {
				if j == i {
					row[j] = 0
					continue
				}
				d := m.At(i, j)
				row[j] = math.Exp(-d * d * beta)
				sum += row[j]
			}
			if sum == 0 {
				sum = 1e-12
			}

			// Shannon entropy of the conditional distribution.
			var h float64
			for j := 0; j < n; j++ {
				if j == i || row[j] == 0 {
					continue
				}
				pj := row[j] / sum
				h -= pj * math.Log(pj)
			}

			diff := h - logU
			if math.Abs(diff) < 1e-5 {
				break
			}
			if diff > 0 {
				betaMin = beta
				if math.IsInf(betaMax, 1) {
					beta *= 2
				} else {
					beta = (beta + betaMax) / 2
				}
			} else {
				betaMax = beta
				if math.IsInf(betaMin, -1) {
					beta /= 2
				} else {
					beta = (beta + betaMin) / 2
				}
			}
		}

		sum := floats.Sum(row)
		if sum == 0 {
			sum = 1e-12
		}
		for j := 0; j < n; j++ {
			cond.Set(i, j, row[j]/sum)
		}
	}

	p := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := (cond.At(i, j) + cond.At(j, i)) / (2 * float64(n))
			p.Set(i, j, math.Max(v, 1e-12))
		}
	}
	return p
}

// gradient computes the Kullback-Leibler gradient with the Student-t kernel
// in the embedding space.
func gradient(p, y, num, grad *mat.Dense) {
	n, _ := y.Dims()

	var z float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				num.Set(i, j, 0)
				continue
			}
			dx := y.At(i, 0) - y.At(j, 0)
			dy := y.At(i, 1) - y.At(j, 1)
			v := 1 / (1 + dx*dx + dy*dy)
			num.Set(i, j, v)
			z += v
		}
	}
	if z == 0 {
		z = 1e-12
	}

	for i := 0; i < n; i++ {
		var gx, gy float64
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			q := num.At(i, j) / z
			mult := (p.At(i, j) - q) * num.At(i, j)
			gx += mult * (y.At(i, 0) - y.At(j, 0))
			gy += mult * (y.At(i, 1) - y.At(j, 1))
		}
		grad.Set(i, 0, 4*gx)
		grad.Set(i, 1, 4*gy)
	}
}

// center subtracts the column means so the embedding stays around the origin.
func center(y *mat.Dense) {
	n, _ := y.Dims()
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += y.At(i, 0)
		my += y.At(i, 1)
	}
	mx /= float64(n)
	my /= float64(n)
	for i := 0; i < n; i++ {
		y.Set(i, 0, y.At(i, 0)-mx)
		y.Set(i, 1, y.At(i, 1)-my)
	}
}
