package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gowergo/dataset"
)

func accountTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.New(
		dataset.Column{Name: "id", Values: []string{"a1", "a2", "a3"}},
		dataset.Column{Name: "product", Values: []string{"basic", "premium", "basic"}},
		dataset.Column{Name: "tier", Values: []string{"low", "high", "mid"}},
		dataset.Column{Name: "price", Values: []string{"9.90", "49.90", "NA"}},
	)
	require.NoError(t, err)
	return tbl
}

func accountSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := New(
		Attribute{Name: "product", Kind: KindNominal, Levels: []string{"basic", "premium"}},
		Attribute{Name: "tier", Kind: KindOrdinal, Levels: []string{"low", "mid", "high"}},
		Attribute{Name: "price", Kind: KindNumeric},
	)
	require.NoError(t, err)
	return s
}

func TestNormalize(t *testing.T) {
	recs, err := Normalize(accountTable(t), accountSchema(t), WithKeyColumn("id"))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "a1", recs[0].Key)
	assert.Equal(t, "basic", recs[0].Values[0].Token)
	assert.Equal(t, 0.0, recs[0].Values[1].Num) // rank of "low"
	assert.Equal(t, 2.0, recs[1].Values[1].Num) // rank of "high"
	assert.InDelta(t, 9.90, recs[0].Values[2].Num, 1e-9)

	// "NA" maps to the missing marker, the row is not dropped.
	assert.True(t, recs[2].Values[2].Missing)
	assert.False(t, recs[2].Values[0].Missing)
}

func TestNormalizeDefaultKeys(t *testing.T) {
	recs, err := Normalize(accountTable(t), accountSchema(t))
	require.NoError(t, err)
	assert.Equal(t, "0", recs[0].Key)
	assert.Equal(t, "2", recs[2].Key)
}

func TestNormalizeMissingAttribute(t *testing.T) {
	s, err := New(Attribute{Name: "nonexistent", Kind: KindNominal})
	require.NoError(t, err)

	_, err = Normalize(accountTable(t), s)
	var mismatch *ErrMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "nonexistent", mismatch.Attribute)
}

func TestNormalizeUnknownLevel(t *testing.T) {
	tbl, err := dataset.New(
		dataset.Column{Name: "product", Values: []string{"basic", "trial"}},
	)
	require.NoError(t, err)

	s, err := New(Attribute{Name: "product", Kind: KindNominal, Levels: []string{"basic", "premium"}})
	require.NoError(t, err)

	t.Run("Reject", func(t *testing.T) {
		_, err := Normalize(tbl, s)
		var mismatch *ErrMismatch
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "product", mismatch.Attribute)
		assert.Equal(t, "trial", mismatch.Value)
		assert.Equal(t, 1, mismatch.Row)
	})

	t.Run("Admit", func(t *testing.T) {
		recs, err := Normalize(tbl, s, WithUnknownPolicy(AdmitUnknown))
		require.NoError(t, err)
		assert.Equal(t, "trial", recs[1].Values[0].Token)
	})
}

func TestNormalizeBadNumber(t *testing.T) {
	tbl, err := dataset.New(
		dataset.Column{Name: "price", Values: []string{"twelve"}},
	)
	require.NoError(t, err)

	s, err := New(Attribute{Name: "price", Kind: KindNumeric})
	require.NoError(t, err)

	_, err = Normalize(tbl, s)
	var mismatch *ErrMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "twelve", mismatch.Value)
}

func TestNormalizeCustomMissingValues(t *testing.T) {
	tbl, err := dataset.New(
		dataset.Column{Name: "price", Values: []string{"-", "5"}},
	)
	require.NoError(t, err)

	s, err := New(Attribute{Name: "price", Kind: KindNumeric})
	require.NoError(t, err)

	recs, err := Normalize(tbl, s, WithMissingValues("-"))
	require.NoError(t, err)
	assert.True(t, recs[0].Values[0].Missing)
	assert.False(t, recs[1].Values[0].Missing)
}
