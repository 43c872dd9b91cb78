// Package report joins cluster assignments back onto the original attribute
// table and computes per-cluster descriptive statistics: sizes, named rates
// and cross-tabulations.
//
// The aggregator is deliberately tolerant where the rest of the pipeline is
// strict: a rate whose condition pair counts nothing in some cluster reports
// NaN instead of failing, so the report still renders for the other
// clusters.
package report

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/gowergo/dataset"
	"github.com/hupe1980/gowergo/pam"
)

// RateSpec names a rate statistic computed per cluster as
// count(Column == Numerator) / (count(Column == Numerator) + count(Column == Denominator)).
//
// Both conditions are explicit labels. Nothing depends on row order or on a
// "previous row" within a group, so a cluster missing one of the two labels
// degrades to a NaN rate instead of a silently shifted one.
type RateSpec struct {
	Name        string
	Column      string
	Numerator   string
	Denominator string
}

// ClusterSummary holds the per-cluster statistics.
type ClusterSummary struct {
	Cluster int
	Medoid  int
	Size    int
	// Rates maps RateSpec names to values in [0,1], or NaN when neither
	// condition matched anything in this cluster.
	Rates map[string]float64
}

// Report is the aggregated output for one clustering result.
type Report struct {
	Clusters []ClusterSummary
	Total    int
}

// CrossTab counts cluster × level occurrences for one attribute column.
type CrossTab struct {
	Column string
	Levels []string
	// Counts[c][l] is the number of cluster-c records whose cell equals
	// Levels[l].
	Counts [][]int
}

// Build joins the clustering result onto the source table by record key and
// aggregates per-cluster sizes and rates.
//
// keys[i] is the key of the record at matrix index i (normalization keeps
// them aligned); keyColumn names the table column holding the same keys.
func Build(res *pam.Result, keys []string, t *dataset.Table, keyColumn string, specs ...RateSpec) (*Report, error) {
	rows, err := joinRows(keys, t, keyColumn)
	if err != nil {
		return nil, err
	}

	// One bitmap per referenced condition label, over record indexes.
	conditions := make(map[string]map[string]*roaring.Bitmap)
	for _, spec := range specs {
		if _, ok := conditions[spec.Column]; ok {
			continue
		}
		bms, err := labelBitmaps(rows, t, spec.Column)
		if err != nil {
			return nil, err
		}
		conditions[spec.Column] = bms
	}

	sizes := res.Sizes()
	report := &Report{Total: len(keys)}

	for c := 0; c < res.K; c++ {
		members := res.Members(c)

		rates := make(map[string]float64, len(specs))
		for _, spec := range specs {
			bms := conditions[spec.Column]
			num := intersectCount(members, bms[spec.Numerator])
			den := intersectCount(members, bms[spec.Denominator])

			if num+den == 0 {
				rates[spec.Name] = math.NaN()
				continue
			}
			rates[spec.Name] = float64(num) / float64(num+den)
		}

		report.Clusters = append(report.Clusters, ClusterSummary{
			Cluster: c,
			Medoid:  res.Medoids[c],
			Size:    sizes[c],
			Rates:   rates,
		})
	}

	return report, nil
}

// Tabulate cross-tabulates cluster membership against one attribute column,
// joined by record key like Build. Levels appear in first-seen row order.
func Tabulate(res *pam.Result, keys []string, t *dataset.Table, keyColumn, column string) (*CrossTab, error) {
	rows, err := joinRows(keys, t, keyColumn)
	if err != nil {
		return nil, err
	}

	vals, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("report: unknown column %q", column)
	}

	ct := &CrossTab{Column: column}
	levelIdx := make(map[string]int)

	counts := make([]map[int]int, res.K)
	for c := range counts {
		counts[c] = make(map[int]int)
	}

	for i, row := range rows {
		v := vals[row]
		l, ok := levelIdx[v]
		if !ok {
			l = len(ct.Levels)
			levelIdx[v] = l
			ct.Levels = append(ct.Levels, v)
		}
		counts[res.Assignment[i]][l]++
	}

	ct.Counts = make([][]int, res.K)
	for c := range ct.Counts {
		ct.Counts[c] = make([]int, len(ct.Levels))
		for l, cnt := range counts[c] {
			ct.Counts[c][l] = cnt
		}
	}

	return ct, nil
}

// joinRows maps record index i to the table row whose key column equals
// keys[i]. Every key must resolve; a missing key indicates the table and
// the clustered records diverged upstream.
func joinRows(keys []string, t *dataset.Table, keyColumn string) ([]int, error) {
	col, ok := t.Column(keyColumn)
	if !ok {
		return nil, fmt.Errorf("report: unknown key column %q", keyColumn)
	}

	byKey := make(map[string]int, len(col))
	for row, k := range col {
		if _, dup := byKey[k]; !dup {
			byKey[k] = row
		}
	}

	rows := make([]int, len(keys))
	for i, k := range keys {
		row, ok := byKey[k]
		if !ok {
			return nil, fmt.Errorf("report: key %q not present in column %q", k, keyColumn)
		}
		rows[i] = row
	}
	return rows, nil
}

// labelBitmaps returns, per distinct label of the column, the set of record
// indexes (not table rows) carrying that label.
func labelBitmaps(rows []int, t *dataset.Table, column string) (map[string]*roaring.Bitmap, error) {
	vals, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("report: unknown column %q", column)
	}

	bms := make(map[string]*roaring.Bitmap)
	for i, row := range rows {
		v := vals[row]
		bm, ok := bms[v]
		if !ok {
			bm = roaring.New()
			bms[v] = bm
		}
		bm.Add(uint32(i))
	}
	return bms, nil
}

func intersectCount(members, condition *roaring.Bitmap) int {
	if condition == nil {
		return 0
	}
	return int(members.AndCardinality(condition))
}
