package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gowergo/dataset"
	"github.com/hupe1980/gowergo/pam"
)

// Six accounts in two hand-assigned clusters. Cluster 0 holds a1..a3
// (two cancelled, one active), cluster 1 holds a4..a6 (all active).
func fixture(t *testing.T) (*pam.Result, []string, *dataset.Table) {
	t.Helper()

	tbl, err := dataset.New(
		dataset.Column{Name: "account_id", Values: []string{"a1", "a2", "a3", "a4", "a5", "a6"}},
		dataset.Column{Name: "status", Values: []string{"cancelled", "cancelled", "active", "active", "active", "active"}},
		dataset.Column{Name: "product_group", Values: []string{"basic", "basic", "premium", "premium", "premium", "basic"}},
	)
	require.NoError(t, err)

	res := &pam.Result{
		K:          2,
		Medoids:    []int{0, 4},
		Assignment: []int{0, 0, 0, 1, 1, 1},
	}
	keys := []string{"a1", "a2", "a3", "a4", "a5", "a6"}

	return res, keys, tbl
}

func TestBuildRates(t *testing.T) {
	res, keys, tbl := fixture(t)

	rep, err := Build(res, keys, tbl, "account_id", RateSpec{
		Name:        "churn",
		Column:      "status",
		Numerator:   "cancelled",
		Denominator: "active",
	})
	require.NoError(t, err)

	require.Len(t, rep.Clusters, 2)
	assert.Equal(t, 6, rep.Total)

	c0 := rep.Clusters[0]
	assert.Equal(t, 0, c0.Cluster)
	assert.Equal(t, 0, c0.Medoid)
	assert.Equal(t, 3, c0.Size)
	assert.InDelta(t, 2.0/3.0, c0.Rates["churn"], 1e-12)

	c1 := rep.Clusters[1]
	assert.Equal(t, 4, c1.Medoid)
	assert.Equal(t, 3, c1.Size)
	assert.InDelta(t, 0.0, c1.Rates["churn"], 1e-12)
}

func TestBuildSizesSumToTotal(t *testing.T) {
	res, keys, tbl := fixture(t)

	rep, err := Build(res, keys, tbl, "account_id")
	require.NoError(t, err)

	sum := 0
	for _, c := range rep.Clusters {
		sum += c.Size
	}
	assert.Equal(t, rep.Total, sum)
}

func TestBuildRateNaNWhenNeitherConditionMatches(t *testing.T) {
	res, keys, tbl := fixture(t)

	rep, err := Build(res, keys, tbl, "account_id", RateSpec{
		Name:        "ghost",
		Column:      "status",
		Numerator:   "suspended",
		Denominator: "terminated",
	})
	require.NoError(t, err)

	for _, c := range rep.Clusters {
		assert.True(t, math.IsNaN(c.Rates["ghost"]), "cluster %d", c.Cluster)
	}
}

func TestBuildJoinByKeyIgnoresRowOrder(t *testing.T) {
	res, keys, _ := fixture(t)

	// Same table with rows shuffled; the key join must still line up.
	tbl, err := dataset.New(
		dataset.Column{Name: "account_id", Values: []string{"a6", "a3", "a1", "a5", "a2", "a4"}},
		dataset.Column{Name: "status", Values: []string{"active", "active", "cancelled", "active", "cancelled", "active"}},
	)
	require.NoError(t, err)

	rep, err := Build(res, keys, tbl, "account_id", RateSpec{
		Name:        "churn",
		Column:      "status",
		Numerator:   "cancelled",
		Denominator: "active",
	})
	require.NoError(t, err)

	assert.InDelta(t, 2.0/3.0, rep.Clusters[0].Rates["churn"], 1e-12)
	assert.InDelta(t, 0.0, rep.Clusters[1].Rates["churn"], 1e-12)
}

func TestBuildErrors(t *testing.T) {
	res, keys, tbl := fixture(t)

	t.Run("unknown key column", func(t *testing.T) {
		_, err := Build(res, keys, tbl, "nope")
		require.Error(t, err)
	})

	t.Run("missing key", func(t *testing.T) {
		missing := append([]string{}, keys...)
		missing[0] = "a999"
		_, err := Build(res, missing, tbl, "account_id")
		require.Error(t, err)
	})

	t.Run("unknown rate column", func(t *testing.T) {
		_, err := Build(res, keys, tbl, "account_id", RateSpec{
			Name: "r", Column: "nope", Numerator: "x", Denominator: "y",
		})
		require.Error(t, err)
	})
}

func TestTabulate(t *testing.T) {
	res, keys, tbl := fixture(t)

	ct, err := Tabulate(res, keys, tbl, "account_id", "product_group")
	require.NoError(t, err)

	assert.Equal(t, "product_group", ct.Column)
	// First-seen row order.
	assert.Equal(t, []string{"basic", "premium"}, ct.Levels)

	require.Len(t, ct.Counts, 2)
	assert.Equal(t, []int{2, 1}, ct.Counts[0])
	assert.Equal(t, []int{1, 2}, ct.Counts[1])
}

func TestTabulateUnknownColumn(t *testing.T) {
	res, keys, tbl := fixture(t)

	_, err := Tabulate(res, keys, tbl, "account_id", "nope")
	require.Error(t, err)
}
