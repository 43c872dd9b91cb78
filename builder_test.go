package gowergo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gowergo/codec"
	"github.com/hupe1980/gowergo/dataset"
	"github.com/hupe1980/gowergo/testutil"
)

func TestBuilderFluentConfiguration(t *testing.T) {
	p, err := Mixed(testutil.AccountSchema()).
		KeyColumn("account_id").
		AdmitUnknown().
		MissingValues("", "missing").
		Parallelism(4).
		MaxSwapIterations(10).
		Seed(42).
		Codec(codec.JSON{}).
		Metrics(&BasicMetricsCollector{}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "account_id", p.opts.keyColumn)
	assert.Equal(t, 4, p.opts.parallelism)
	assert.Equal(t, 10, p.opts.maxIterations)
	assert.Equal(t, int64(42), p.opts.seed)
	assert.Equal(t, "json", p.opts.codec.Name())
}

func TestBuilderDefaults(t *testing.T) {
	p, err := Mixed(testutil.AccountSchema()).Build()
	require.NoError(t, err)

	assert.Equal(t, codec.Default.Name(), p.opts.codec.Name())
	assert.NotNil(t, p.opts.logger)
	assert.NotNil(t, p.opts.metrics)
}

func TestBuilderIsImmutable(t *testing.T) {
	base := Mixed(testutil.AccountSchema()).Parallelism(2)

	withKey := base.KeyColumn("account_id")

	p1, err := base.Build()
	require.NoError(t, err)
	p2, err := withKey.Build()
	require.NoError(t, err)

	// The derived builder must not leak its key column into the base.
	assert.Empty(t, p1.opts.keyColumn)
	assert.Equal(t, "account_id", p2.opts.keyColumn)
	assert.Equal(t, 2, p1.opts.parallelism)
}

func TestBuilderRejectsNilSchema(t *testing.T) {
	_, err := Mixed(nil).Build()
	require.Error(t, err)
}

func TestBuilderAdmitUnknown(t *testing.T) {
	tbl := testutil.NewRNG(1).Accounts(6)

	// Push a product group outside the declared level set.
	cols := tbl.Columns()
	for i := range cols {
		if cols[i].Name == "product_group" {
			vals := append([]string{}, cols[i].Values...)
			vals[0] = "legacy"
			cols[i].Values = vals
		}
	}
	modified, err := dataset.New(cols...)
	require.NoError(t, err)

	strict, err := Mixed(testutil.AccountSchema()).KeyColumn("account_id").Build()
	require.NoError(t, err)
	_, err = strict.Normalize(modified)
	require.ErrorIs(t, err, ErrSchemaMismatch)

	lenient, err := Mixed(testutil.AccountSchema()).KeyColumn("account_id").AdmitUnknown().Build()
	require.NoError(t, err)
	recs, err := lenient.Normalize(modified)
	require.NoError(t, err)

	ctx := context.Background()
	m, err := lenient.Matrix(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, 6, m.Dim())
}
