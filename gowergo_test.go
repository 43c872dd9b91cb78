package gowergo

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gowergo/blobstore"
	"github.com/hupe1980/gowergo/dataset"
	"github.com/hupe1980/gowergo/report"
	"github.com/hupe1980/gowergo/schema"
	"github.com/hupe1980/gowergo/testutil"
)

func newPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(testutil.AccountSchema(), append([]Option{WithKeyColumn("account_id")}, opts...)...)
	require.NoError(t, err)
	return p
}

func TestPipelineEndToEnd(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, WithParallelism(2), WithSeed(42))
	tbl := testutil.NewRNG(1).Accounts(24)

	recs, err := p.Normalize(tbl)
	require.NoError(t, err)
	require.Len(t, recs, 24)

	m, err := p.Matrix(ctx, recs)
	require.NoError(t, err)
	require.Equal(t, 24, m.Dim())

	res, err := p.Cluster(ctx, m, 2)
	require.NoError(t, err)

	// The fixture interleaves two separated populations; clustering must
	// recover the even/odd split.
	for i := 2; i < 24; i++ {
		assert.Equal(t, res.Assignment[i%2], res.Assignment[i], "record %d", i)
	}
	assert.NotEqual(t, res.Assignment[0], res.Assignment[1])

	coords, err := p.Embed(ctx, m)
	require.NoError(t, err)
	assert.Len(t, coords, 24)
}

func TestPipelineScanKPrefersTrueClusterCount(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	tbl := testutil.NewRNG(2).Accounts(20)

	recs, err := p.Normalize(tbl)
	require.NoError(t, err)
	m, err := p.Matrix(ctx, recs)
	require.NoError(t, err)

	widths, err := p.ScanK(ctx, m, 2, 5)
	require.NoError(t, err)
	require.Len(t, widths, 4)

	bestK := 0
	bestW := math.Inf(-1)
	for k, w := range widths {
		assert.GreaterOrEqual(t, w, -1.0)
		assert.LessOrEqual(t, w, 1.0)
		if w > bestW {
			bestK, bestW = k, w
		}
	}
	assert.Equal(t, 2, bestK)
}

func TestPipelineReport(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	tbl := testutil.NewRNG(3).Accounts(20)

	recs, err := p.Normalize(tbl)
	require.NoError(t, err)
	m, err := p.Matrix(ctx, recs)
	require.NoError(t, err)
	res, err := p.Cluster(ctx, m, 2)
	require.NoError(t, err)

	rep, err := p.Report(res, recs, tbl, report.RateSpec{
		Name:        "churn",
		Column:      "status",
		Numerator:   "Cancelled",
		Denominator: "Active",
	})
	require.NoError(t, err)

	sum := 0
	for _, c := range rep.Clusters {
		sum += c.Size
		if r := c.Rates["churn"]; !math.IsNaN(r) {
			assert.GreaterOrEqual(t, r, 0.0)
			assert.LessOrEqual(t, r, 1.0)
		}
	}
	assert.Equal(t, 20, sum)
	assert.Equal(t, 20, rep.Total)

	// Each recovered cluster is one fixture population, so it holds exactly
	// one product group.
	ct, err := p.Tabulate(res, recs, tbl, "product_group")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"basic", "premium"}, ct.Levels)
	for c, row := range ct.Counts {
		nonZero := 0
		for _, cnt := range row {
			if cnt > 0 {
				nonZero++
			}
		}
		assert.Equal(t, 1, nonZero, "cluster %d", c)
	}
}

func TestPipelineReportRequiresKeyColumn(t *testing.T) {
	p, err := New(testutil.AccountSchema())
	require.NoError(t, err)

	_, err = p.Report(nil, nil, nil)
	require.Error(t, err)
	_, err = p.Tabulate(nil, nil, nil, "status")
	require.Error(t, err)
}

func TestPipelineSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	tbl := testutil.NewRNG(4).Accounts(12)
	store := blobstore.NewMemoryStore()

	recs, err := p.Normalize(tbl)
	require.NoError(t, err)
	m, err := p.Matrix(ctx, recs)
	require.NoError(t, err)
	res, err := p.Cluster(ctx, m, 2)
	require.NoError(t, err)

	require.NoError(t, p.WriteSnapshot(ctx, store, "runs/latest.snap", tbl, res))

	snap, err := p.ReadSnapshot(ctx, store, "runs/latest.snap")
	require.NoError(t, err)
	require.NotNil(t, snap.Result)
	assert.Equal(t, res.Medoids, snap.Result.Medoids)
	assert.Equal(t, res.Assignment, snap.Result.Assignment)

	restored, err := snap.Table()
	require.NoError(t, err)
	assert.Equal(t, tbl.NumRows(), restored.NumRows())
	assert.Equal(t, tbl.ColumnNames(), restored.ColumnNames())
}

func TestPipelineErrorTranslation(t *testing.T) {
	ctx := context.Background()

	t.Run("schema mismatch", func(t *testing.T) {
		p := newPipeline(t)
		tbl, err := dataset.New(dataset.Column{Name: "account_id", Values: []string{"a1"}})
		require.NoError(t, err)

		_, err = p.Normalize(tbl)
		require.ErrorIs(t, err, ErrSchemaMismatch)

		var mismatch *schema.ErrMismatch
		require.ErrorAs(t, err, &mismatch)
	})

	t.Run("invalid cluster count", func(t *testing.T) {
		p := newPipeline(t)
		tbl := testutil.NewRNG(5).Accounts(6)

		recs, err := p.Normalize(tbl)
		require.NoError(t, err)
		m, err := p.Matrix(ctx, recs)
		require.NoError(t, err)

		_, err = p.Cluster(ctx, m, 1)
		require.ErrorIs(t, err, ErrInvalidClusterCount)
		_, err = p.Cluster(ctx, m, 7)
		require.ErrorIs(t, err, ErrInvalidClusterCount)
	})

	t.Run("degenerate pair", func(t *testing.T) {
		s, err := schema.New(
			schema.Attribute{Name: "a", Kind: schema.KindNominal},
			schema.Attribute{Name: "b", Kind: schema.KindNominal},
		)
		require.NoError(t, err)

		p, err := New(s, WithKeyColumn("id"))
		require.NoError(t, err)

		// Record 0 misses b, record 1 misses a: no shared attribute.
		tbl, err := dataset.New(
			dataset.Column{Name: "id", Values: []string{"r0", "r1"}},
			dataset.Column{Name: "a", Values: []string{"x", "NA"}},
			dataset.Column{Name: "b", Values: []string{"NA", "y"}},
		)
		require.NoError(t, err)

		recs, err := p.Normalize(tbl)
		require.NoError(t, err)

		_, err = p.Matrix(ctx, recs)
		require.ErrorIs(t, err, ErrDegenerateDissimilarity)
	})
}

func TestPipelineMetricsCollection(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	p := newPipeline(t, WithMetrics(metrics))
	tbl := testutil.NewRNG(6).Accounts(10)

	recs, err := p.Normalize(tbl)
	require.NoError(t, err)
	m, err := p.Matrix(ctx, recs)
	require.NoError(t, err)
	_, err = p.Cluster(ctx, m, 2)
	require.NoError(t, err)
	_, err = p.ScanK(ctx, m, 2, 3)
	require.NoError(t, err)

	_, err = p.Cluster(ctx, m, 99)
	require.Error(t, err)

	assert.Equal(t, int64(1), metrics.MatrixBuilds.Load())
	assert.Equal(t, int64(2), metrics.Partitions.Load())
	assert.Equal(t, int64(1), metrics.PartitionErrors.Load())
	assert.Equal(t, int64(1), metrics.Scans.Load())
}

func TestNewRequiresSchema(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
