package pam

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/gowergo/gower"
)

// ScanOption configures a cluster-count scan.
type ScanOption func(*scanOptions)

type scanOptions struct {
	parallelism int64
	pamOpts     []Option
}

// WithScanParallelism bounds the number of PAM runs in flight.
// Defaults to GOMAXPROCS.
func WithScanParallelism(n int) ScanOption {
	return func(o *scanOptions) {
		if n > 0 {
			o.parallelism = int64(n)
		}
	}
}

// WithPartitionOptions forwards options to each PAM run of the scan.
func WithPartitionOptions(opts ...Option) ScanOption {
	return func(o *scanOptions) { o.pamOpts = opts }
}

// ScanK runs the partitioner for every k in [kMin, kMax] and returns the
// average silhouette width per k. It is decision support only: the caller
// picks k.
//
// Runs for distinct k share nothing but the read-only matrix, so they fan
// out concurrently under a bounded semaphore. The swap phase inside each run
// stays sequential.
func ScanK(ctx context.Context, m *gower.Matrix, kMin, kMax int, opts ...ScanOption) (map[int]float64, error) {
	o := scanOptions{parallelism: int64(runtime.GOMAXPROCS(0))}
	for _, opt := range opts {
		opt(&o)
	}

	if kMin > kMax {
		return nil, fmt.Errorf("pam: invalid scan range [%d, %d]", kMin, kMax)
	}
	if kMin < 2 || kMax > m.Dim() {
		return nil, &ErrInvalidK{K: kMin, N: m.Dim()}
	}

	var (
		mu     sync.Mutex
		widths = make(map[int]float64, kMax-kMin+1)
	)

	sem := semaphore.NewWeighted(o.parallelism)
	g, ctx := errgroup.WithContext(ctx)

	for k := kMin; k <= kMax; k++ {
		k := k
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			res, err := Partition(ctx, m, k, o.pamOpts...)
			if err != nil {
				return err
			}
			avg := AvgSilhouette(m, res)

			mu.Lock()
			widths[k] = avg
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return widths, nil
}
