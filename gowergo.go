package gowergo

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/gowergo/blobstore"
	"github.com/hupe1980/gowergo/codec"
	"github.com/hupe1980/gowergo/dataset"
	"github.com/hupe1980/gowergo/gower"
	"github.com/hupe1980/gowergo/pam"
	"github.com/hupe1980/gowergo/report"
	"github.com/hupe1980/gowergo/schema"
	"github.com/hupe1980/gowergo/snapshot"
	"github.com/hupe1980/gowergo/tsne"
)

// Pipeline ties the clustering stages together behind one configured
// facade: normalization, matrix build, partitioning, cluster-count scan,
// 2D embedding, reporting and snapshots. Safe for concurrent use; all state
// is immutable configuration.
type Pipeline struct {
	schema *schema.Schema
	opts   options
}

// New creates a Pipeline for the given attribute schema.
// Most callers use the fluent builder via Mixed instead.
func New(s *schema.Schema, opts ...Option) (*Pipeline, error) {
	if s == nil {
		return nil, fmt.Errorf("gowergo: schema must not be nil")
	}

	o := options{
		maxIterations: pam.DefaultMaxIterations,
		seed:          1,
		codec:         codec.Default,
		logger:        NoopLogger(),
		metrics:       NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Pipeline{schema: s, opts: o}, nil
}

// Schema returns the pipeline's attribute schema.
func (p *Pipeline) Schema() *schema.Schema { return p.schema }

// Normalize coerces the schema's attributes out of the raw table into
// canonical records, aligned with the table's row order.
func (p *Pipeline) Normalize(t *dataset.Table) ([]schema.Record, error) {
	normOpts := []schema.Option{
		schema.WithUnknownPolicy(p.opts.unknown),
	}
	if p.opts.keyColumn != "" {
		normOpts = append(normOpts, schema.WithKeyColumn(p.opts.keyColumn))
	}
	if p.opts.missingValues != nil {
		normOpts = append(normOpts, schema.WithMissingValues(p.opts.missingValues...))
	}

	recs, err := schema.Normalize(t, p.schema, normOpts...)
	p.opts.logger.LogNormalize(t.NumRows(), p.schema.Len(), err)
	return recs, translateError(err)
}

// Matrix computes the Gower dissimilarity matrix over the records.
func (p *Pipeline) Matrix(ctx context.Context, recs []schema.Record) (*gower.Matrix, error) {
	var gwOpts []gower.Option
	if p.opts.parallelism > 0 {
		gwOpts = append(gwOpts, gower.WithParallelism(p.opts.parallelism))
	}

	start := time.Now()
	m, err := gower.Compute(ctx, recs, p.schema, gwOpts...)
	elapsed := time.Since(start)

	p.opts.logger.LogMatrixBuild(ctx, len(recs), elapsed, err)
	p.opts.metrics.RecordMatrixBuild(len(recs), elapsed, err)
	return m, translateError(err)
}

// Cluster partitions the matrix's records around k medoids.
func (p *Pipeline) Cluster(ctx context.Context, m *gower.Matrix, k int) (*pam.Result, error) {
	start := time.Now()
	res, err := pam.Partition(ctx, m, k, pam.WithMaxIterations(p.opts.maxIterations))
	elapsed := time.Since(start)

	var cost float64
	if res != nil {
		cost = res.TotalCost
	}
	p.opts.logger.LogPartition(ctx, k, cost, elapsed, err)
	p.opts.metrics.RecordPartition(k, elapsed, err)
	return res, translateError(err)
}

// ScanK partitions for every k in [kMin, kMax] and returns the average
// silhouette width per k. Decision support only: the caller picks k.
func (p *Pipeline) ScanK(ctx context.Context, m *gower.Matrix, kMin, kMax int) (map[int]float64, error) {
	scanOpts := []pam.ScanOption{
		pam.WithPartitionOptions(pam.WithMaxIterations(p.opts.maxIterations)),
	}
	if p.opts.parallelism > 0 {
		scanOpts = append(scanOpts, pam.WithScanParallelism(p.opts.parallelism))
	}

	start := time.Now()
	widths, err := pam.ScanK(ctx, m, kMin, kMax, scanOpts...)
	elapsed := time.Since(start)

	p.opts.logger.LogScan(ctx, kMin, kMax, elapsed, err)
	p.opts.metrics.RecordScan(kMin, kMax, elapsed, err)
	return widths, translateError(err)
}

// Embed projects the matrix into two dimensions for plotting.
func (p *Pipeline) Embed(ctx context.Context, m *gower.Matrix, opts ...tsne.Option) ([][2]float64, error) {
	embedOpts := append([]tsne.Option{tsne.WithSeed(p.opts.seed)}, opts...)

	start := time.Now()
	coords, err := tsne.Embed(ctx, m, embedOpts...)
	elapsed := time.Since(start)

	p.opts.logger.LogEmbed(ctx, m.Dim(), elapsed, err)
	p.opts.metrics.RecordEmbed(m.Dim(), elapsed, err)
	return coords, err
}

// Report joins the clustering result back onto the source table and
// aggregates per-cluster sizes and the named rates.
func (p *Pipeline) Report(res *pam.Result, recs []schema.Record, t *dataset.Table, specs ...report.RateSpec) (*report.Report, error) {
	if p.opts.keyColumn == "" {
		return nil, fmt.Errorf("gowergo: reporting requires a key column, see Builder.KeyColumn")
	}
	return report.Build(res, recordKeys(recs), t, p.opts.keyColumn, specs...)
}

// Tabulate cross-tabulates cluster membership against one attribute column.
func (p *Pipeline) Tabulate(res *pam.Result, recs []schema.Record, t *dataset.Table, column string) (*report.CrossTab, error) {
	if p.opts.keyColumn == "" {
		return nil, fmt.Errorf("gowergo: reporting requires a key column, see Builder.KeyColumn")
	}
	return report.Tabulate(res, recordKeys(recs), t, p.opts.keyColumn, column)
}

// WriteSnapshot stores the cleaned table, and optionally a clustering
// result, as one compressed blob.
func (p *Pipeline) WriteSnapshot(ctx context.Context, store blobstore.BlobStore, name string, t *dataset.Table, res *pam.Result, opts ...snapshot.Option) error {
	snapOpts := append([]snapshot.Option{snapshot.WithCodec(p.opts.codec)}, opts...)
	return snapshot.Write(ctx, store, name, snapshot.New(t, res), snapOpts...)
}

// ReadSnapshot loads a previously written snapshot.
func (p *Pipeline) ReadSnapshot(ctx context.Context, store blobstore.BlobStore, name string) (*snapshot.Snapshot, error) {
	return snapshot.Read(ctx, store, name)
}

func recordKeys(recs []schema.Record) []string {
	keys := make([]string, len(recs))
	for i, r := range recs {
		keys[i] = r.Key
	}
	return keys
}
