// Package snapshot serializes the cleaned table, and optionally a clustering
// result, into a single self-describing compressed blob.
//
// Layout: a fixed header (magic "GWS0", format version, compression mode and
// level, codec name) followed by the codec-encoded, optionally compressed
// payload. Readers validate the magic and version and select codec and
// decompressor from the header, so the default codec can change without
// breaking old snapshots.
package snapshot

import (
	"time"

	"github.com/hupe1980/gowergo/dataset"
	"github.com/hupe1980/gowergo/pam"
)

// ClusteringResult is the serializable form of a pam.Result.
type ClusteringResult struct {
	K          int     `json:"k"`
	Medoids    []int   `json:"medoids"`
	Assignment []int   `json:"assignment"`
	TotalCost  float64 `json:"total_cost"`
}

// Snapshot is the snapshot payload: the cleaned table and, when clustering
// already ran, its result.
type Snapshot struct {
	CreatedAt time.Time         `json:"created_at"`
	Columns   []dataset.Column  `json:"columns"`
	Result    *ClusteringResult `json:"result,omitempty"`
}

// New builds a snapshot from a cleaned table and an optional result.
func New(t *dataset.Table, res *pam.Result) *Snapshot {
	s := &Snapshot{
		CreatedAt: time.Now().UTC(),
		Columns:   t.Columns(),
	}
	if res != nil {
		s.Result = &ClusteringResult{
			K:          res.K,
			Medoids:    res.Medoids,
			Assignment: res.Assignment,
			TotalCost:  res.TotalCost,
		}
	}
	return s
}

// Table reconstructs the cleaned table from the snapshot.
func (s *Snapshot) Table() (*dataset.Table, error) {
	return dataset.New(s.Columns...)
}
