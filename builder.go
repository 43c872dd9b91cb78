// Package gowergo provides clustering of mixed-type tabular records.
//
// This file implements the fluent builder API for creating and configuring
// Pipeline instances. The builder is immutable - each method returns a new
// builder with the updated configuration.
package gowergo

import (
	"github.com/hupe1980/gowergo/codec"
	"github.com/hupe1980/gowergo/pam"
	"github.com/hupe1980/gowergo/schema"
)

// Mixed creates a pipeline builder for the given attribute schema.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration, so partially configured builders can be shared.
//
// Example:
//
//	p, err := gowergo.Mixed(sch).
//	    KeyColumn("account_id").
//	    Parallelism(4).
//	    Seed(42).
//	    Build()
func Mixed(s *schema.Schema) Builder {
	return Builder{
		schema:        s,
		maxIterations: pam.DefaultMaxIterations,
		seed:          1,
	}
}

// Builder is an immutable fluent builder for Pipeline instances.
type Builder struct {
	schema        *schema.Schema
	keyColumn     string
	unknown       schema.UnknownPolicy
	missingValues []string
	parallelism   int
	maxIterations int
	seed          int64
	codec         codec.Codec
	logger        *Logger
	metrics       MetricsCollector
}

// KeyColumn names the table column holding the stable record key. The key
// identifies records in reports and snapshots; it never enters distance
// computation.
func (b Builder) KeyColumn(name string) Builder {
	b.keyColumn = name
	return b
}

// AdmitUnknown treats categorical values outside a declared level set as new
// categories instead of rejecting them.
func (b Builder) AdmitUnknown() Builder {
	b.unknown = schema.AdmitUnknown
	return b
}

// MissingValues overrides the raw cell values treated as missing.
// Default: "", "NA", "N/A", "null".
func (b Builder) MissingValues(values ...string) Builder {
	b.missingValues = values
	return b
}

// Parallelism bounds concurrency for the matrix build and the k scan.
// Defaults to GOMAXPROCS.
func (b Builder) Parallelism(n int) Builder {
	b.parallelism = n
	return b
}

// MaxSwapIterations caps PAM swap passes. Default pam.DefaultMaxIterations.
func (b Builder) MaxSwapIterations(n int) Builder {
	b.maxIterations = n
	return b
}

// Seed fixes the 2D-embedding seed. Clustering itself is deterministic and
// ignores the seed.
func (b Builder) Seed(seed int64) Builder {
	b.seed = seed
	return b
}

// Codec sets the snapshot payload codec. Default codec.Default.
func (b Builder) Codec(c codec.Codec) Builder {
	b.codec = c
	return b
}

// Logger sets the structured logger. Default: no logging.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector. Default: no collection.
func (b Builder) Metrics(m MetricsCollector) Builder {
	b.metrics = m
	return b
}

// Build creates the Pipeline.
func (b Builder) Build() (*Pipeline, error) {
	opts := []Option{
		WithKeyColumn(b.keyColumn),
		WithUnknownPolicy(b.unknown),
		WithMaxSwapIterations(b.maxIterations),
		WithSeed(b.seed),
		WithCodec(b.codec),
		WithLogger(b.logger),
		WithMetrics(b.metrics),
	}
	if b.missingValues != nil {
		opts = append(opts, WithMissingValues(b.missingValues...))
	}
	if b.parallelism > 0 {
		opts = append(opts, WithParallelism(b.parallelism))
	}
	return New(b.schema, opts...)
}
